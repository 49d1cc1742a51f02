package tenant_test

import (
	"testing"

	"github.com/hugh/fleet-hub/internal/tenant"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeRole(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want tenant.Role
	}{
		{"owner", "owner", tenant.RoleOwner},
		{"manager", "manager", tenant.RoleManager},
		{"driver", "driver", tenant.RoleDriver},
		{"legacy super_admin maps to owner", "super_admin", tenant.RoleOwner},
		{"unknown falls to driver", "janitor", tenant.RoleDriver},
		{"empty falls to driver", "", tenant.RoleDriver},
		{"case sensitive", "Owner", tenant.RoleDriver},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tenant.NormalizeRole(tt.raw))
		})
	}
}

func TestRole_CanManage(t *testing.T) {
	assert.True(t, tenant.RoleOwner.CanManage())
	assert.True(t, tenant.RoleManager.CanManage())
	assert.False(t, tenant.RoleDriver.CanManage())
}
