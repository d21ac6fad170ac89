package models

import (
	"time"

	"github.com/google/uuid"
)

// Email types sent by the system.
const (
	EmailTypeInvitation      = "invitacion_club"
	EmailTypeWelcomeRegister = "bienvenida_registro"
	EmailTypeTest            = "prueba"
)

// Email delivery status.
const (
	EmailLogStatusPending = "pending"
	EmailLogStatusSent    = "sent"
	EmailLogStatusFailed  = "failed"
)

// EmailLog records outbound emails for auditing. Delivery is best-effort;
// a failed row never fails the operation that produced it.
type EmailLog struct {
	ID             uuid.UUID  `json:"id"`
	ClubID         *uuid.UUID `json:"club_id,omitempty"`
	InvitationID   *uuid.UUID `json:"invitacion_id,omitempty"`
	EmailType      string     `json:"email_type"`
	RecipientEmail string     `json:"recipient_email"`
	Subject        string     `json:"subject,omitempty"`
	Status         string     `json:"status"`
	SentAt         *time.Time `json:"sent_at,omitempty"`
	ErrorMessage   string     `json:"error_message,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}
