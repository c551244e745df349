// Package enable реализует HTTP-обработчик разблокировки учётной записи.
package enable

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/sanitation-identity/internal/http/middlewarectx"
	"github.com/magabrotheeeer/sanitation-identity/internal/http/response"
	"github.com/magabrotheeeer/sanitation-identity/internal/lib/sl"
	"github.com/magabrotheeeer/sanitation-identity/internal/models"
	"github.com/magabrotheeeer/sanitation-identity/internal/storage/repository"
)

// Service описывает интерфейс переключения доступности учётной записи.
type Service interface {
	SetAccountEnabled(ctx context.Context, uid string, enabled bool, actorUID string) (*models.SafeAccount, error)
}

// Handler обрабатывает HTTP-запросы разблокировки учётной записи.
type Handler struct {
	log  *slog.Logger
	auth Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, auth Service) *Handler {
	return &Handler{log: log, auth: auth}
}

// ServeHTTP godoc
// @Summary Разблокировка учётной записи
// @Description Снимает блокировку с учётной записи и очищает отметку о том, кто её отключил.
// @Tags Accounts
// @Produce json
// @Param id path string true "UID учётной записи"
// @Success 200 {object} map[string]any "Новый статус"
// @Failure 400 {object} response.ErrorResponse "Некорректный UID"
// @Failure 404 {object} response.ErrorResponse "Учётная запись не найдена"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /accounts/{id}/enable [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.enable"

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

	actorUID, _ := r.Context().Value(middlewarectx.AccountUID).(string)

	safe, err := h.auth.SetAccountEnabled(r.Context(), uid, true, actorUID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("account not found"))
			return
		}
		log.Error("failed to enable account", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("server error while enabling account"))
		return
	}

	log.Info("account enabled",
		slog.String("uid", safe.UID),
		slog.String("actor_uid", actorUID),
	)
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"user": map[string]any{
			"id":     safe.UID,
			"status": safe.Status,
		},
	}))
}
