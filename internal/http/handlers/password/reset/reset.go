// Package reset реализует HTTP-обработчик установки нового пароля по коду сброса.
package reset

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/sanitation-identity/internal/http/response"
	"github.com/magabrotheeeer/sanitation-identity/internal/lib/sl"
	services "github.com/magabrotheeeer/sanitation-identity/internal/services/auth"
)

// Request — входные данные сброса пароля.
type Request struct {
	Email       string `json:"email" validate:"required,email"`
	Code        string `json:"code" validate:"required,len=6,numeric"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

// Service описывает интерфейс применения сброса пароля.
type Service interface {
	ApplyPasswordReset(ctx context.Context, email, code, newPassword string) error
}

// Handler обрабатывает HTTP-запросы сброса пароля.
type Handler struct {
	log      *slog.Logger
	auth     Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, auth Service) *Handler {
	return &Handler{
		log:      log,
		auth:     auth,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Сброс пароля
// @Description Повторно сверяет код, хеширует новый пароль и гасит код. Действующие сессии при этом не отзываются.
// @Tags Password
// @Accept json
// @Produce json
// @Param request body Request true "Почта, код и новый пароль"
// @Success 200 {object} response.Response "Пароль обновлён"
// @Failure 400 {object} response.ErrorResponse "Код не совпал, истёк или уже израсходован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /forgotpassword/reset [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.password.reset"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("email, code and new password are required"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	if err := h.auth.ApplyPasswordReset(r.Context(), req.Email, req.Code, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, services.ErrCodeExpired):
			log.Info("password reset rejected: code expired")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("reset code expired"))
		case errors.Is(err, services.ErrCodeMismatch):
			log.Info("password reset rejected: code mismatch")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid reset code"))
		default:
			log.Error("password reset failed", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("server error while resetting password"))
		}
		return
	}

	log.Info("password reset applied", slog.String("email", req.Email))
	render.JSON(w, r, response.OKWithMessage("password reset successfully"))
}
