package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/sanitation-identity/internal/http/response"
	"github.com/magabrotheeeer/sanitation-identity/internal/lib/sl"
	"github.com/magabrotheeeer/sanitation-identity/internal/models"
	"github.com/magabrotheeeer/sanitation-identity/internal/rbac"
)

// CapabilityMiddleware пропускает запрос, только если роль из сессии
// допускает возможность cap по центральной таблице rbac.
//
// Роль в claims может устареть относительно действий администратора,
// поэтому перед привилегированной операцией живой флаг блокировки
// перечитывается из хранилища: заблокированная учётка получает 403
// даже с ещё действующей сессией.
func CapabilityMiddleware(cap rbac.Capability, authService SessionService, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.CapabilityMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			role, ok := r.Context().Value(Role).(models.Role)
			uid, okUID := r.Context().Value(AccountUID).(string)
			if !ok || !okUID || uid == "" {
				log.Error("session claims missing from context")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("not authenticated"))
				return
			}

			if !rbac.Allowed(role, cap) {
				log.Info("capability denied",
					slog.String("role", string(role)), slog.String("capability", string(cap)))
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("forbidden"))
				return
			}

			disabled, err := authService.IsAccountDisabled(r.Context(), uid)
			if err != nil {
				log.Error("failed to check account status", sl.Err(err))
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("internal error"))
				return
			}
			if disabled {
				log.Info("disabled account rejected", slog.String("account_uid", uid))
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("account disabled"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
