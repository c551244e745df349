package middlewarectx

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

// SessionMiddleware возвращает HTTP middleware, который проверяет токен
// из сессионной куки.
//
// Если токен валиден, добавляет идентификатор учётной записи, почту и роль
// в контекст запроса, иначе возвращает HTTP 401 Unauthorized.
// Истёкший токен и провал проверки подписи наружу неразличимы (оба — 401),
// но в логах разделяются: истечение — штатное событие, подделка — нет.
func SessionMiddleware(authService SessionService, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.SessionMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			cookie, err := r.Cookie(sessioncookie.Name)
			if err != nil || cookie.Value == "" {
				log.Info("missing session cookie")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("not authenticated"))
				return
			}

			claims, err := authService.ValidateSession(r.Context(), cookie.Value)
			if err != nil {
				if errors.Is(err, token.ErrTokenExpired) {
					log.Info("session token expired")
				} else {
					log.Error("session token rejected", sl.Err(err))
				}
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("not authenticated"))
				return
			}

			ctx := context.WithValue(r.Context(), AccountUID, claims.AccountUID)
			ctx = context.WithValue(ctx, Email, claims.Email)
			ctx = context.WithValue(ctx, Role, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
