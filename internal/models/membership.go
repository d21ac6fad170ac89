package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Membership roles, normalized lower-case on write.
const (
	RoleOwner        = "propietario"
	RoleAdmin        = "administrador"
	RoleEditor       = "editor"
	RoleModerator    = "moderador"
	RoleEventManager = "gestor_eventos"
	RoleTreasurer    = "tesorero"
	RoleMember       = "miembro"
	RoleVisitor      = "visitante"
)

// Membership status values. Removal is a soft transition to inactive.
const (
	MembershipActive   = "activo"
	MembershipInactive = "inactivo"
)

var allowedRoles = map[string]struct{}{
	RoleOwner:        {},
	RoleAdmin:        {},
	RoleEditor:       {},
	RoleModerator:    {},
	RoleEventManager: {},
	RoleTreasurer:    {},
	RoleMember:       {},
	RoleVisitor:      {},
}

// NormalizeRole lower-cases and trims a role name, returning false when the
// role is not one of the allowed set.
func NormalizeRole(role string) (string, bool) {
	r := strings.ToLower(strings.TrimSpace(role))
	// legacy aliases seen in older clients
	switch r {
	case "admin":
		r = RoleAdmin
	case "socio":
		r = RoleMember
	}
	_, ok := allowedRoles[r]
	return r, ok
}

// IsAdminRole reports whether the role carries club-admin capability.
func IsAdminRole(role string) bool {
	return role == RoleAdmin || role == RoleOwner
}

// Membership is the authorization edge between a user and a club.
// At most one row exists per (club, user) pair.
type Membership struct {
	ID         uuid.UUID  `json:"id"`
	ClubID     uuid.UUID  `json:"club_id"`
	UserID     uuid.UUID  `json:"usuario_id"`
	Role       string     `json:"rol"`
	Status     string     `json:"estado"`
	ApprovedAt *time.Time `json:"fecha_aprobacion,omitempty"`
	CreatedAt  time.Time  `json:"fecha_creacion"`
	UpdatedAt  time.Time  `json:"fecha_actualizacion"`
}
