package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeRole(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"administrador", RoleAdmin, true},
		{"MIEMBRO", RoleMember, true},
		{"  Propietario ", RoleOwner, true},
		{"tesorero", RoleTreasurer, true},
		{"gestor_eventos", RoleEventManager, true},
		// legacy aliases
		{"admin", RoleAdmin, true},
		{"socio", RoleMember, true},
		// unknown roles rejected
		{"superadmin", "", false},
		{"", "", false},
		{"presidente", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := NormalizeRole(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestIsAdminRole(t *testing.T) {
	assert.True(t, IsAdminRole(RoleAdmin))
	assert.True(t, IsAdminRole(RoleOwner))
	assert.False(t, IsAdminRole(RoleEditor))
	assert.False(t, IsAdminRole(RoleModerator))
	assert.False(t, IsAdminRole(RoleMember))
	assert.False(t, IsAdminRole("Administrador")) // callers normalize first
}
