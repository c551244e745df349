package identity

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	accountdisable "github.com/magabrotheeeer/sanitation-identity/internal/http/handlers/account/disable"
	accountenable "github.com/magabrotheeeer/sanitation-identity/internal/http/handlers/account/enable"
	accountlist "github.com/magabrotheeeer/sanitation-identity/internal/http/handlers/account/list"
	accountread "github.com/magabrotheeeer/sanitation-identity/internal/http/handlers/account/read"
	"github.com/magabrotheeeer/sanitation-identity/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/sanitation-identity/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/sanitation-identity/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/sanitation-identity/internal/http/handlers/auth/resendcode"
	"github.com/magabrotheeeer/sanitation-identity/internal/http/handlers/auth/sessioninfo"
	"github.com/magabrotheeeer/sanitation-identity/internal/http/handlers/auth/verify"
	"github.com/magabrotheeeer/sanitation-identity/internal/http/handlers/password/reset"
	"github.com/magabrotheeeer/sanitation-identity/internal/http/handlers/password/sendcode"
	"github.com/magabrotheeeer/sanitation-identity/internal/http/handlers/password/verifycode"
	"github.com/magabrotheeeer/sanitation-identity/internal/http/middlewarectx"
	"github.com/magabrotheeeer/sanitation-identity/internal/rbac"
	authservice "github.com/magabrotheeeer/sanitation-identity/internal/services/auth"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, auth *authservice.AuthService, tokenTTL time.Duration, secureCookie bool) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, auth).ServeHTTP)
		r.Post("/login", login.New(logger, auth, tokenTTL, secureCookie).ServeHTTP)
		r.Post("/logout", logout.New(logger, secureCookie).ServeHTTP)
		r.Get("/session", sessioninfo.New(logger, auth).ServeHTTP)
		r.Post("/verify", verify.New(logger, auth).ServeHTTP)

		// Конечные точки, рассылающие коды, прикрыты ограничителем частоты.
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Post("/resend-code", resendcode.New(logger, auth).ServeHTTP)
			r.Post("/forgotpassword/sendcode", sendcode.New(logger, auth).ServeHTTP)
		})
		r.Post("/forgotpassword/verifycode", verifycode.New(logger, auth).ServeHTTP)
		r.Post("/forgotpassword/reset", reset.New(logger, auth).ServeHTTP)

		// Группа с сессионной аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.SessionMiddleware(auth, logger))

			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.CapabilityMiddleware(rbac.CapViewAccounts, auth, logger))
				r.Get("/accounts", accountlist.New(logger, auth).ServeHTTP)
				r.Get("/accounts/{id}", accountread.New(logger, auth).ServeHTTP)
			})

			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.CapabilityMiddleware(rbac.CapManageAccounts, auth, logger))
				r.Put("/accounts/{id}/disable", accountdisable.New(logger, auth).ServeHTTP)
				r.Put("/accounts/{id}/enable", accountenable.New(logger, auth).ServeHTTP)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
