package rest

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/webcraft-studio/webcraft-backend/internal/application/consts"
)

func TestRequiredRole(t *testing.T) {
	tests := []struct {
		name    string
		method  string
		path    string
		role    consts.Role
		guarded bool
	}{
		{"admin requests", "GET", "/admin/requests", consts.RoleAdmin, true},
		{"admin ticket reply", "PATCH", "/admin/tickets/7", consts.RoleAdmin, true},
		{"wizard step save", "PUT", "/wizard/steps/2", consts.RoleUser, true},
		{"wizard submit", "POST", "/wizard/submit", consts.RoleUser, true},
		{"order create", "POST", "/payments/orders", consts.RoleUser, true},
		{"order capture", "POST", "/payments/orders/ORDER-1/capture", consts.RoleUser, true},
		{"webhook stays public", "POST", "/payments/webhook", "", false},
		{"plans are public", "GET", "/plans", "", false},
		{"session create is public", "POST", "/auth/session", "", false},
		{"own requests", "GET", "/requests", consts.RoleUser, true},
		{"tickets", "POST", "/tickets", consts.RoleUser, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			role, guarded := RequiredRole(tt.method, tt.path)
			require.Equal(t, tt.guarded, guarded)
			require.Equal(t, tt.role, role)
		})
	}
}
