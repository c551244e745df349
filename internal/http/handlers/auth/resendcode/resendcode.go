// Package resendcode реализует HTTP-обработчик перевыпуска кода подтверждения почты.
package resendcode

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
	"github.com/magabrotheeeer/sanitation-identity/internal/storage/repository"
)

// Request — входные данные перевыпуска кода.
type Request struct {
	Email string `json:"email" validate:"required,email"`
}

// Service описывает интерфейс перевыпуска кода подтверждения.
type Service interface {
	ResendVerificationCode(ctx context.Context, email string) error
}

// Handler обрабатывает HTTP-запросы перевыпуска кода.
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

// ServeHTTP перевыпускает код подтверждения: новый код перезаписывает старый,
// письмо уходит через очередь уведомлений.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.resendcode"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("email required"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	if err := h.auth.ResendVerificationCode(r.Context(), req.Email); err != nil {
		switch {
		case errors.Is(err, repository.ErrAccountNotFound):
			log.Info("resend rejected: account not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("account not found"))
		case errors.Is(err, services.ErrAlreadyVerified):
			log.Info("resend rejected: already verified")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("email already verified"))
		default:
			log.Error("failed to resend code", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to send email"))
		}
		return
	}

	log.Info("verification code resent", slog.String("email", req.Email))
	render.JSON(w, r, response.OKWithMessage("new code sent"))
}
