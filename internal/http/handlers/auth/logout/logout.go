// Package logout реализует HTTP-обработчик выхода из системы.
package logout

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/sanitation-identity/internal/http/response"
	"github.com/magabrotheeeer/sanitation-identity/internal/http/sessioncookie"
)

// Handler обрабатывает HTTP-запросы выхода.
type Handler struct {
	log          *slog.Logger
	secureCookie bool
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, secureCookie bool) *Handler {
	return &Handler{log: log, secureCookie: secureCookie}
}

// ServeHTTP перезаписывает сессионную куку истёкшим значением.
// Операция идемпотентна: успешна и без действующей сессии.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	sessioncookie.Clear(w, h.secureCookie)
	log.Info("session cookie cleared")
	render.JSON(w, r, response.OKWithMessage("logged out successfully"))
}
