package register

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/sanitation-identity/internal/models"
	services "github.com/magabrotheeeer/sanitation-identity/internal/services/auth"
	"github.com/magabrotheeeer/sanitation-identity/internal/storage/repository"
)

type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) Register(ctx context.Context, params services.RegisterParams) (*models.SafeAccount, error) {
	args := m.Called(ctx, params)
	var safe *models.SafeAccount
	if args.Get(0) != nil {
		safe = args.Get(0).(*models.SafeAccount)
	}
	return safe, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestRegisterHandler_ServeHTTP(t *testing.T) {
	authMock := new(AuthServiceMock)
	handler := New(newNoopLogger(), authMock)

	safe := &models.SafeAccount{
		UID:    "uid-1",
		Email:  "biz@example.com",
		Role:   models.RoleBusiness,
		Status: "active",
	}

	tests := []struct {
		name           string
		requestBody    interface{}
		mockSafe       *models.SafeAccount
		mockErr        error
		wantStatusCode int
		wantError      string
	}{
		{
			name:           "valid business registration",
			requestBody:    Request{Email: "biz@example.com", Password: "secret123", Role: "business"},
			mockSafe:       safe,
			wantStatusCode: http.StatusCreated,
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
		},
		{
			name:           "admin role not allowed",
			requestBody:    Request{Email: "admin@example.com", Password: "secret123", Role: "admin"},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "field Role has an unsupported value",
		},
		{
			name:           "short password",
			requestBody:    Request{Email: "biz@example.com", Password: "123", Role: "business"},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "field Password is too short",
		},
		{
			name:           "duplicate email",
			requestBody:    Request{Email: "biz@example.com", Password: "secret123", Role: "business"},
			mockErr:        repository.ErrDuplicateEmail,
			wantStatusCode: http.StatusConflict,
			wantError:      "email already registered",
		},
		{
			name:           "officer without full name",
			requestBody:    Request{Email: "officer@example.com", Password: "secret123", Role: "officer"},
			mockErr:        services.ErrFullNameRequired,
			wantStatusCode: http.StatusBadRequest,
			wantError:      "full name required for officer accounts",
		},
		{
			name:           "server error",
			requestBody:    Request{Email: "biz@example.com", Password: "secret123", Role: "business"},
			mockErr:        errors.New("db down"),
			wantStatusCode: http.StatusInternalServerError,
			wantError:      "failed to register account",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authMock.ExpectedCalls = nil
			authMock.Calls = nil

			if tt.mockSafe != nil || tt.mockErr != nil {
				authMock.On("Register", mock.Anything, mock.Anything).
					Return(tt.mockSafe, tt.mockErr).Once()
			}

			var bodyBytes []byte
			var err error
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				bodyBytes, err = json.Marshal(tt.requestBody)
				if err != nil {
					t.Fatal(err)
				}
			}

			req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(bodyBytes))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			err = json.NewDecoder(rec.Body).Decode(&got)
			assert.NoError(t, err)

			if tt.wantError != "" {
				assert.Equal(t, "Error", got["status"])
				assert.Equal(t, tt.wantError, got["error"])
			} else {
				assert.Equal(t, "OK", got["status"])
				data := got["data"].(map[string]any)
				user := data["user"].(map[string]any)
				assert.Equal(t, "uid-1", user["id"])
				assert.Equal(t, "active", user["status"])
			}
		})
	}
}
