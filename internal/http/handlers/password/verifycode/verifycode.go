// Package verifycode реализует HTTP-обработчик проверки кода сброса пароля.
//
// Проверка не расходует код: клиент может подтвердить код заранее,
// а затем отправить его повторно вместе с новым паролем.
package verifycode

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

// Request — входные данные проверки кода сброса.
type Request struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

// Service описывает интерфейс проверки кода сброса.
type Service interface {
	VerifyResetCode(ctx context.Context, email, code string) error
}

// Handler обрабатывает HTTP-запросы проверки кода сброса.
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
// @Summary Проверка кода сброса
// @Description Сверяет код сброса без его расходования.
// @Tags Password
// @Accept json
// @Produce json
// @Param request body Request true "Почта и код"
// @Success 200 {object} response.Response "Код действителен"
// @Failure 400 {object} response.ErrorResponse "Код не совпал или истёк"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /forgotpassword/verifycode [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.password.verifycode"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("email and code are required"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	if err := h.auth.VerifyResetCode(r.Context(), req.Email, req.Code); err != nil {
		switch {
		case errors.Is(err, services.ErrCodeExpired):
			log.Info("reset code rejected: expired")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("reset code expired"))
		case errors.Is(err, services.ErrCodeMismatch):
			log.Info("reset code rejected: mismatch")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid reset code"))
		default:
			log.Error("reset code check failed", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("server error while verifying code"))
		}
		return
	}

	render.JSON(w, r, response.OKWithMessage("code verified"))
}
