package models

import (
	"time"

	"github.com/google/uuid"
)

// FacilityCode is one entry in the club facility password history. The
// newest active row is the current code.
type FacilityCode struct {
	ID          uuid.UUID `json:"id"`
	ClubID      uuid.UUID `json:"club_id"`
	Code        string    `json:"codigo"`
	Description *string   `json:"descripcion,omitempty"`
	CreatedBy   uuid.UUID `json:"creado_por_id"`
	Active      bool      `json:"activa"`
	CreatedAt   time.Time `json:"fecha_creacion"`
}
