// Package verify реализует HTTP-обработчик подтверждения почты по одноразовому коду.
package verify

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

// Request — входные данные подтверждения почты.
type Request struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

// Service описывает интерфейс подтверждения почты.
type Service interface {
	VerifyEmail(ctx context.Context, email, code string) error
}

// Handler обрабатывает HTTP-запросы подтверждения почты.
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
// @Summary Подтверждение почты
// @Description Сверяет одноразовый код и помечает почту подтверждённой. Код одноразовый: повторная попытка с тем же кодом отклоняется.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body Request true "Почта и код"
// @Success 200 {object} response.Response "Почта подтверждена"
// @Failure 400 {object} response.ErrorResponse "Нет полей, почта уже подтверждена, код не совпал или истёк"
// @Failure 404 {object} response.ErrorResponse "Учётная запись не найдена"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /verify [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.verify"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("email and verification code are required"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	if err := h.auth.VerifyEmail(r.Context(), req.Email, req.Code); err != nil {
		switch {
		case errors.Is(err, repository.ErrAccountNotFound):
			log.Info("verification rejected: account not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("account not found"))
		case errors.Is(err, services.ErrAlreadyVerified):
			log.Info("verification rejected: already verified")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("email is already verified"))
		case errors.Is(err, services.ErrCodeExpired):
			log.Info("verification rejected: code expired")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("verification code expired"))
		case errors.Is(err, services.ErrCodeMismatch):
			log.Info("verification rejected: code mismatch")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid verification code"))
		default:
			log.Error("verification failed", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("server error while verifying email"))
		}
		return
	}

	log.Info("email verified", slog.String("email", req.Email))
	render.JSON(w, r, response.OKWithMessage("email verified successfully"))
}
