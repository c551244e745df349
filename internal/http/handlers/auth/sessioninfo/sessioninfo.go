// Package sessioninfo реализует HTTP-обработчик проверки текущей сессии.
package sessioninfo

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/sanitation-identity/internal/http/response"
	"github.com/magabrotheeeer/sanitation-identity/internal/http/sessioncookie"
	"github.com/magabrotheeeer/sanitation-identity/internal/lib/sl"
	"github.com/magabrotheeeer/sanitation-identity/internal/lib/token"
)

// Service описывает интерфейс проверки токена сессии.
type Service interface {
	ValidateSession(ctx context.Context, tokenStr string) (*token.SessionClaims, error)
}

// Handler обрабатывает HTTP-запросы проверки сессии.
type Handler struct {
	log  *slog.Logger
	auth Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, auth Service) *Handler {
	return &Handler{log: log, auth: auth}
}

// ServeHTTP godoc
// @Summary Проверка сессии
// @Description Проверяет сессионную куку и возвращает данные текущей учётной записи.
// @Tags Auth
// @Produce json
// @Success 200 {object} map[string]any "Сессия действительна"
// @Failure 401 {object} response.ErrorResponse "Кука отсутствует, токен подделан или истёк"
// @Router /session [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.sessioninfo"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	cookie, err := r.Cookie(sessioncookie.Name)
	if err != nil || cookie.Value == "" {
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.StatusOKWithData(map[string]any{"authenticated": false}))
		return
	}

	claims, err := h.auth.ValidateSession(r.Context(), cookie.Value)
	if err != nil {
		// Истечение — штатное событие; отказ целостности логируется как ошибка.
		if errors.Is(err, token.ErrTokenExpired) {
			log.Info("session token expired")
		} else {
			log.Error("session token rejected", sl.Err(err))
		}
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.StatusOKWithData(map[string]any{"authenticated": false}))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"authenticated": true,
		"user": map[string]any{
			"id":    claims.AccountUID,
			"email": claims.Email,
			"role":  claims.Role,
		},
	}))
}
