package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/sanitation-identity/internal/models"
)

func TestAllowed(t *testing.T) {
	tests := []struct {
		name string
		role models.Role
		cap  Capability
		want bool
	}{
		{"admin manages accounts", models.RoleAdmin, CapManageAccounts, true},
		{"officer cannot manage accounts", models.RoleOfficer, CapManageAccounts, false},
		{"business cannot manage accounts", models.RoleBusiness, CapManageAccounts, false},
		{"admin views accounts", models.RoleAdmin, CapViewAccounts, true},
		{"officer views accounts", models.RoleOfficer, CapViewAccounts, true},
		{"business cannot view accounts", models.RoleBusiness, CapViewAccounts, false},
		{"officer inspects", models.RoleOfficer, CapInspect, true},
		{"business cannot inspect", models.RoleBusiness, CapInspect, false},
		{"unknown role denied", models.Role("ghost"), CapViewAccounts, false},
		{"unknown capability denied", models.RoleAdmin, Capability("nonexistent"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Allowed(tt.role, tt.cap))
		})
	}
}
