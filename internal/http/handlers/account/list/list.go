// Package list реализует HTTP-обработчик списка учётных записей.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/sanitation-identity/internal/http/response"
	"github.com/magabrotheeeer/sanitation-identity/internal/lib/sl"
	"github.com/magabrotheeeer/sanitation-identity/internal/models"
)

// Service описывает интерфейс выборки учётных записей.
type Service interface {
	ListAccounts(ctx context.Context, role string) ([]models.SafeAccount, error)
}

// Handler обрабатывает HTTP-запросы списка учётных записей.
type Handler struct {
	log  *slog.Logger
	auth Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, auth Service) *Handler {
	return &Handler{log: log, auth: auth}
}

// ServeHTTP godoc
// @Summary Список учётных записей
// @Description Возвращает очищенные проекции учётных записей, опционально отфильтрованные по роли.
// @Tags Accounts
// @Produce json
// @Param role query string false "Фильтр по роли: business, officer или admin"
// @Success 200 {object} map[string]any "Список учётных записей"
// @Failure 400 {object} response.ErrorResponse "Неизвестная роль"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /accounts [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	role := r.URL.Query().Get("role")
	if role != "" && !models.Role(role).Valid() {
		log.Info("unknown role filter", slog.String("role", role))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("unknown role"))
		return
	}

	accounts, err := h.auth.ListAccounts(r.Context(), role)
	if err != nil {
		log.Error("failed to list accounts", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("server error while listing accounts"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"users": accounts,
		"count": len(accounts),
	}))
}
