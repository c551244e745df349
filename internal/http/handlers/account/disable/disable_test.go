package disable

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/sanitation-identity/internal/http/middlewarectx"
	"github.com/magabrotheeeer/sanitation-identity/internal/models"
	"github.com/magabrotheeeer/sanitation-identity/internal/storage/repository"
)

type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) SetAccountEnabled(ctx context.Context, uid string, enabled bool, actorUID string) (*models.SafeAccount, error) {
	args := m.Called(ctx, uid, enabled, actorUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SafeAccount), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestDisableHandler_ServeHTTP(t *testing.T) {
	const targetUID = "3f2b8f64-9a1c-4a57-9e34-6a2b1c0d8e9f"
	const actorUID = "admin-uid"

	tests := []struct {
		name           string
		uid            string
		mockSafe       *models.SafeAccount
		mockErr        error
		wantStatusCode int
		wantError      string
	}{
		{
			name:           "disables account",
			uid:            targetUID,
			mockSafe:       &models.SafeAccount{UID: targetUID, Status: "disabled"},
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "invalid uid",
			uid:            "not-a-uuid",
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid account id",
		},
		{
			name:           "account not found",
			uid:            targetUID,
			mockErr:        repository.ErrAccountNotFound,
			wantStatusCode: http.StatusNotFound,
			wantError:      "account not found",
		},
		{
			name:           "server error",
			uid:            targetUID,
			mockErr:        errors.New("db down"),
			wantStatusCode: http.StatusInternalServerError,
			wantError:      "server error while disabling account",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authMock := new(AuthServiceMock)
			handler := New(newNoopLogger(), authMock)

			if tt.mockSafe != nil || tt.mockErr != nil {
				authMock.On("SetAccountEnabled", mock.Anything, tt.uid, false, actorUID).
					Return(tt.mockSafe, tt.mockErr).Once()
			}

			req := httptest.NewRequest(http.MethodPut, "/accounts/"+tt.uid+"/disable", nil)

			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.uid)
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			ctx = context.WithValue(ctx, middleware.RequestIDKey, "reqid123")
			ctx = context.WithValue(ctx, middlewarectx.AccountUID, actorUID)
			req = req.WithContext(ctx)

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			err := json.NewDecoder(rec.Body).Decode(&got)
			assert.NoError(t, err)

			if tt.wantError != "" {
				assert.Equal(t, "Error", got["status"])
				assert.Equal(t, tt.wantError, got["error"])
			} else {
				assert.Equal(t, "OK", got["status"])
				data := got["data"].(map[string]any)
				user := data["user"].(map[string]any)
				assert.Equal(t, targetUID, user["id"])
				assert.Equal(t, "disabled", user["status"])
			}

			authMock.AssertExpectations(t)
		})
	}
}
