// Package sendcode реализует HTTP-обработчик запроса кода сброса пароля.
package sendcode

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
	"github.com/magabrotheeeer/sanitation-identity/internal/storage/repository"
)

// Request — входные данные запроса кода сброса.
type Request struct {
	Email string `json:"email" validate:"required,email"`
}

// Service описывает интерфейс выпуска кода сброса пароля.
type Service interface {
	RequestPasswordReset(ctx context.Context, email string) error
}

// Handler обрабатывает HTTP-запросы выпуска кода сброса.
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
// @Summary Запрос кода сброса пароля
// @Description Выпускает одноразовый код сброса и отправляет его на почту. Для незарегистрированной почты возвращает 404.
// @Tags Password
// @Accept json
// @Produce json
// @Param request body Request true "Почта"
// @Success 200 {object} response.Response "Код отправлен"
// @Failure 400 {object} response.ErrorResponse "Нет почты в запросе"
// @Failure 404 {object} response.ErrorResponse "Учётная запись не найдена"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /forgotpassword/sendcode [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.password.sendcode"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("email is required"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	if err := h.auth.RequestPasswordReset(r.Context(), req.Email); err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			log.Info("reset code rejected: account not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("no account found with this email"))
			return
		}
		log.Error("failed to issue reset code", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to send reset code"))
		return
	}

	log.Info("reset code issued", slog.String("email", req.Email))
	render.JSON(w, r, response.OKWithMessage("reset code sent to your email"))
}
