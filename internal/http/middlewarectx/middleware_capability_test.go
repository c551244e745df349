package middlewarectx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/sanitation-identity/internal/models"
	"github.com/magabrotheeeer/sanitation-identity/internal/rbac"
)

func TestCapabilityMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		role           models.Role
		uid            string
		noClaims       bool
		cap            rbac.Capability
		disabled       bool
		disabledErr    error
		wantStatusCode int
		wantNextCalled bool
	}{
		{
			name:           "admin manages accounts",
			role:           models.RoleAdmin,
			uid:            "uid-1",
			cap:            rbac.CapManageAccounts,
			wantStatusCode: http.StatusOK,
			wantNextCalled: true,
		},
		{
			name:           "officer views accounts",
			role:           models.RoleOfficer,
			uid:            "uid-2",
			cap:            rbac.CapViewAccounts,
			wantStatusCode: http.StatusOK,
			wantNextCalled: true,
		},
		{
			name:           "business denied account view",
			role:           models.RoleBusiness,
			uid:            "uid-3",
			cap:            rbac.CapViewAccounts,
			wantStatusCode: http.StatusForbidden,
		},
		{
			name:           "officer denied account management",
			role:           models.RoleOfficer,
			uid:            "uid-2",
			cap:            rbac.CapManageAccounts,
			wantStatusCode: http.StatusForbidden,
		},
		{
			// Сессия ещё жива, но учётку успели заблокировать
			name:           "disabled account rejected despite valid session",
			role:           models.RoleAdmin,
			uid:            "uid-1",
			cap:            rbac.CapManageAccounts,
			disabled:       true,
			wantStatusCode: http.StatusForbidden,
		},
		{
			name:           "missing claims",
			noClaims:       true,
			cap:            rbac.CapViewAccounts,
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "storage error",
			role:           models.RoleAdmin,
			uid:            "uid-1",
			cap:            rbac.CapManageAccounts,
			disabledErr:    errors.New("db down"),
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(SessionServiceMock)
			if !tt.noClaims && rbac.Allowed(tt.role, tt.cap) {
				svc.On("IsAccountDisabled", mock.Anything, tt.uid).
					Return(tt.disabled, tt.disabledErr).Once()
			}

			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/accounts", nil)
			if !tt.noClaims {
				ctx := context.WithValue(req.Context(), AccountUID, tt.uid)
				ctx = context.WithValue(ctx, Role, tt.role)
				req = req.WithContext(ctx)
			}
			rec := httptest.NewRecorder()

			CapabilityMiddleware(tt.cap, svc, newNoopLogger())(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Equal(t, tt.wantNextCalled, nextCalled)
			svc.AssertExpectations(t)
		})
	}
}
