package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/sanitation-identity/internal/http/response"
)

// codeLimiter сдерживает выпуск одноразовых кодов: письма дорогие,
// а сами endpoint'ы не требуют аутентификации.
var codeLimiter = rate.NewLimiter(1, 3)

// RateLimitMiddleware отклоняет запрос с 429, когда лимит исчерпан.
func RateLimitMiddleware(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !codeLimiter.Allow() {
				log.Error("too many requests")
				render.Status(r, http.StatusTooManyRequests)
				render.JSON(w, r, response.Error("too many requests"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
