package models

import (
	"time"

	"github.com/google/uuid"
)

// Invitation status values. A token is redeemable only while pending and
// unexpired; once accepted or rejected it never transitions again.
const (
	InvitationPending  = "pendiente"
	InvitationAccepted = "aceptada"
	InvitationRejected = "rechazada"
	InvitationExpired  = "expirada"
)

// Invitation is a single-use capability token for joining a club.
type Invitation struct {
	ID         uuid.UUID  `json:"id"`
	ClubID     uuid.UUID  `json:"club_id"`
	Email      string     `json:"email"`
	UserID     *uuid.UUID `json:"usuario_id,omitempty"` // pre-linked if already registered
	Role       string     `json:"rol"`
	FullName   *string    `json:"nombre_completo,omitempty"`
	Token      string     `json:"token"`
	Status     string     `json:"estado"`
	CreatedBy  uuid.UUID  `json:"creado_por_id"`
	CreatedAt  time.Time  `json:"fecha_creacion"`
	ExpiresAt  time.Time  `json:"fecha_vencimiento"`
	AcceptedAt *time.Time `json:"fecha_aceptacion,omitempty"`
}

// Redeemable reports whether the invitation can still be accepted at now.
func (i *Invitation) Redeemable(now time.Time) bool {
	return i.Status == InvitationPending && now.Before(i.ExpiresAt)
}

// InvitationPublic is the unauthenticated landing-page view of an invitation.
// Nothing beyond these fields leaks for invalid or used tokens.
type InvitationPublic struct {
	Email     string    `json:"email"`
	ClubID    uuid.UUID `json:"club_id"`
	ClubName  string    `json:"club_nombre"`
	ExpiresAt time.Time `json:"fecha_vencimiento"`
}
