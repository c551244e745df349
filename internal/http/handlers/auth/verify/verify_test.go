package verify

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

	services "github.com/magabrotheeeer/sanitation-identity/internal/services/auth"
	"github.com/magabrotheeeer/sanitation-identity/internal/storage/repository"
)

type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) VerifyEmail(ctx context.Context, email, code string) error {
	return m.Called(ctx, email, code).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestVerifyHandler_ServeHTTP(t *testing.T) {
	authMock := new(AuthServiceMock)
	handler := New(newNoopLogger(), authMock)

	tests := []struct {
		name           string
		requestBody    interface{}
		mockErr        error
		mockCalled     bool
		wantStatusCode int
		wantError      string
	}{
		{
			name:           "valid code",
			requestBody:    Request{Email: "user@example.com", Code: "123456"},
			mockCalled:     true,
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantError:      "email and verification code are required",
		},
		{
			name:           "code with letters",
			requestBody:    Request{Email: "user@example.com", Code: "12a456"},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "field Code can contain only numbers",
		},
		{
			name:           "code too short",
			requestBody:    Request{Email: "user@example.com", Code: "123"},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "field Code has a wrong length",
		},
		{
			name:           "unknown account",
			requestBody:    Request{Email: "ghost@example.com", Code: "123456"},
			mockErr:        repository.ErrAccountNotFound,
			mockCalled:     true,
			wantStatusCode: http.StatusNotFound,
			wantError:      "account not found",
		},
		{
			name:           "already verified",
			requestBody:    Request{Email: "user@example.com", Code: "123456"},
			mockErr:        services.ErrAlreadyVerified,
			mockCalled:     true,
			wantStatusCode: http.StatusBadRequest,
			wantError:      "email is already verified",
		},
		{
			name:           "expired code",
			requestBody:    Request{Email: "user@example.com", Code: "123456"},
			mockErr:        services.ErrCodeExpired,
			mockCalled:     true,
			wantStatusCode: http.StatusBadRequest,
			wantError:      "verification code expired",
		},
		{
			name:           "mismatched code",
			requestBody:    Request{Email: "user@example.com", Code: "654321"},
			mockErr:        services.ErrCodeMismatch,
			mockCalled:     true,
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid verification code",
		},
		{
			name:           "server error",
			requestBody:    Request{Email: "user@example.com", Code: "123456"},
			mockErr:        errors.New("db down"),
			mockCalled:     true,
			wantStatusCode: http.StatusInternalServerError,
			wantError:      "server error while verifying email",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authMock.ExpectedCalls = nil
			authMock.Calls = nil

			if tt.mockCalled {
				req := tt.requestBody.(Request)
				authMock.On("VerifyEmail", mock.Anything, req.Email, req.Code).
					Return(tt.mockErr).Once()
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

			req := httptest.NewRequest(http.MethodPost, "/verify", bytes.NewReader(bodyBytes))
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
			}

			if tt.mockCalled {
				authMock.AssertExpectations(t)
			}
		})
	}
}
