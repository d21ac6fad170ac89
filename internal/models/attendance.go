package models

import (
	"time"

	"github.com/google/uuid"
)

// Attendance status values. The row is created straight into inscrito or
// lista_espera on first RSVP; cancellation is a status change, not a delete.
// rechazado is reachable only through admin action.
const (
	AttendanceRegistered = "inscrito"
	AttendanceWaitlisted = "lista_espera"
	AttendanceCancelled  = "cancelado"
	AttendanceRejected   = "rechazado"
)

// ValidAttendanceRequest reports whether a caller may request this status.
func ValidAttendanceRequest(status string) bool {
	switch status {
	case AttendanceRegistered, AttendanceWaitlisted, AttendanceCancelled:
		return true
	}
	return false
}

// Attendance is the RSVP record, unique per (event, user).
type Attendance struct {
	ID           uuid.UUID  `json:"id"`
	EventID      uuid.UUID  `json:"evento_id"`
	UserID       uuid.UUID  `json:"usuario_id"`
	Status       string     `json:"estado"`
	UserName     string     `json:"usuario_nombre,omitempty"`
	RegisteredAt time.Time  `json:"fecha_registro"`
	UpdatedAt    *time.Time `json:"fecha_actualizacion,omitempty"`
}
