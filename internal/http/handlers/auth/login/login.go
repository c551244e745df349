// Package login реализует HTTP-обработчик для запросов аутентификации.
//
// В нём определяется структура Request для входных данных, выполняется декодирование JSON,
// проверка и валидация полей, а также делегирование операции входа сервису аутентификации.
// При успешном входе в куку записывается токен сессии и возвращается очищенная
// проекция учётной записи; в случае ошибок формируются соответствующие HTTP-ответы.
package login

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/sanitation-identity/internal/http/response"
	"github.com/magabrotheeeer/sanitation-identity/internal/http/sessioncookie"
	"github.com/magabrotheeeer/sanitation-identity/internal/lib/sl"
	"github.com/magabrotheeeer/sanitation-identity/internal/models"
	services "github.com/magabrotheeeer/sanitation-identity/internal/services/auth"
)

// Request — структура входных данных для входа.
type Request struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// Service описывает интерфейс бизнес-логики аутентификации.
type Service interface {
	Login(ctx context.Context, email, password string) (string, *models.SafeAccount, error)
}

// Handler обрабатывает HTTP-запросы для входа.
type Handler struct {
	log          *slog.Logger
	auth         Service
	validate     *validator.Validate
	tokenTTL     time.Duration
	secureCookie bool
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, auth Service, tokenTTL time.Duration, secureCookie bool) *Handler {
	return &Handler{
		log:          log,
		auth:         auth,
		validate:     validator.New(),
		tokenTTL:     tokenTTL,
		secureCookie: secureCookie,
	}
}

// ServeHTTP godoc
// @Summary Вход в систему
// @Description Проверяет почту и пароль, выставляет сессионную куку. Неверная почта и неверный пароль дают одинаковый ответ.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body Request true "Учетные данные"
// @Success 200 {object} map[string]any "Успешный вход"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Неверные учетные данные"
// @Failure 403 {object} response.ErrorResponse "Почта не подтверждена или учётка заблокирована"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	sessionToken, safe, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			// Пароль и почта в логи не попадают.
			log.Info("login rejected: invalid credentials")
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("invalid credentials"))
		case errors.Is(err, services.ErrNotVerified):
			log.Info("login rejected: email not verified")
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("email not verified, please verify your account before logging in"))
		case errors.Is(err, services.ErrAccountDisabled):
			log.Info("login rejected: account disabled")
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("your account has been locked by the admin"))
		default:
			log.Error("login failed", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("login failed due to a server error"))
		}
		return
	}

	sessioncookie.Set(w, sessionToken, h.tokenTTL, h.secureCookie)
	log.Info("login success", slog.String("email", safe.Email), slog.String("role", string(safe.Role)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"user": map[string]any{
			"id":    safe.UID,
			"email": safe.Email,
			"role":  safe.Role,
		},
	}))
}
