package middlewarectx

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/sanitation-identity/internal/http/sessioncookie"
	"github.com/magabrotheeeer/sanitation-identity/internal/lib/token"
	"github.com/magabrotheeeer/sanitation-identity/internal/models"
)

type SessionServiceMock struct {
	mock.Mock
}

func (m *SessionServiceMock) ValidateSession(ctx context.Context, tokenStr string) (*token.SessionClaims, error) {
	args := m.Called(ctx, tokenStr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*token.SessionClaims), args.Error(1)
}

func (m *SessionServiceMock) IsAccountDisabled(ctx context.Context, uid string) (bool, error) {
	args := m.Called(ctx, uid)
	return args.Bool(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestSessionMiddleware(t *testing.T) {
	claims := &token.SessionClaims{
		AccountUID: "uid-1",
		Email:      "user@example.com",
		Role:       models.RoleAdmin,
	}

	tests := []struct {
		name           string
		noCookie       bool
		mockClaims     *token.SessionClaims
		mockErr        error
		wantStatusCode int
		wantNextCalled bool
	}{
		{
			name:           "valid session passes through",
			mockClaims:     claims,
			wantStatusCode: http.StatusOK,
			wantNextCalled: true,
		},
		{
			name:           "missing cookie",
			noCookie:       true,
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "expired token",
			mockErr:        token.ErrTokenExpired,
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "invalid token",
			mockErr:        token.ErrTokenInvalid,
			wantStatusCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(SessionServiceMock)
			if tt.mockClaims != nil || tt.mockErr != nil {
				svc.On("ValidateSession", mock.Anything, "tok").
					Return(tt.mockClaims, tt.mockErr).Once()
			}

			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				assert.Equal(t, "uid-1", r.Context().Value(AccountUID))
				assert.Equal(t, "user@example.com", r.Context().Value(Email))
				assert.Equal(t, models.RoleAdmin, r.Context().Value(Role))
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/accounts", nil)
			if !tt.noCookie {
				req.AddCookie(&http.Cookie{Name: sessioncookie.Name, Value: "tok"})
			}
			rec := httptest.NewRecorder()

			SessionMiddleware(svc, newNoopLogger())(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Equal(t, tt.wantNextCalled, nextCalled)
		})
	}
}
