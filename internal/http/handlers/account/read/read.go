// Package read реализует HTTP-обработчик чтения одной учётной записи.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/sanitation-identity/internal/http/response"
	"github.com/magabrotheeeer/sanitation-identity/internal/lib/sl"
	"github.com/magabrotheeeer/sanitation-identity/internal/models"
	"github.com/magabrotheeeer/sanitation-identity/internal/storage/repository"
)

// Service описывает интерфейс чтения учётной записи.
type Service interface {
	GetAccount(ctx context.Context, uid string) (*models.SafeAccount, error)
}

// Handler обрабатывает HTTP-запросы чтения учётной записи.
type Handler struct {
	log  *slog.Logger
	auth Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, auth Service) *Handler {
	return &Handler{log: log, auth: auth}
}

// ServeHTTP godoc
// @Summary Чтение учётной записи
// @Description Возвращает очищенную проекцию учётной записи по её идентификатору.
// @Tags Accounts
// @Produce json
// @Param id path string true "UID учётной записи"
// @Success 200 {object} map[string]any "Учётная запись"
// @Failure 400 {object} response.ErrorResponse "Некорректный UID"
// @Failure 404 {object} response.ErrorResponse "Учётная запись не найдена"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /accounts/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	uid := chi.URLParam(r, "id")
	if _, err := uuid.Parse(uid); err != nil {
		log.Info("invalid account uid", slog.String("uid", uid))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid account id"))
		return
	}

	safe, err := h.auth.GetAccount(r.Context(), uid)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("account not found"))
			return
		}
		log.Error("failed to read account", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("server error while reading account"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{"user": safe}))
}
