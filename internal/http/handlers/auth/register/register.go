// Package register реализует HTTP-обработчик регистрации учётных записей.
//
// Бизнес-учётка создаётся неподтверждённой и получает код на почту;
// учётка инспектора заводится с ФИО и сразу подтверждена.
package register

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
	"github.com/magabrotheeeer/sanitation-identity/internal/models"
	services "github.com/magabrotheeeer/sanitation-identity/internal/services/auth"
	"github.com/magabrotheeeer/sanitation-identity/internal/storage/repository"
)

// Request — входные данные для регистрации.
type Request struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=business officer"`
	FullName string `json:"full_name,omitempty"`
}

// Service описывает интерфейс бизнес-логики регистрации.
type Service interface {
	Register(ctx context.Context, params services.RegisterParams) (*models.SafeAccount, error)
}

// Handler обрабатывает HTTP-запросы регистрации.
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
// @Summary Регистрация учётной записи
// @Description Создаёт бизнес-учётку (неподтверждённую, с кодом на почту) или учётку инспектора.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body Request true "Данные учётной записи"
// @Success 201 {object} map[string]any "Учётная запись создана"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или роль"
// @Failure 409 {object} response.ErrorResponse "Почта уже зарегистрирована"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

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

	safe, err := h.auth.Register(r.Context(), services.RegisterParams{
		Email:    req.Email,
		Password: req.Password,
		Role:     models.Role(req.Role),
		FullName: req.FullName,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateEmail):
			log.Info("duplicate email", slog.String("email", req.Email))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("email already registered"))
		case errors.Is(err, services.ErrInvalidRole), errors.Is(err, services.ErrFullNameRequired):
			log.Error("registration rejected", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(err.Error()))
		default:
			log.Error("registration failed", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to register account"))
		}
		return
	}

	log.Info("account registered", slog.String("email", req.Email), slog.String("role", req.Role))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"user":    safe,
		"message": "account created successfully",
	}))
}
