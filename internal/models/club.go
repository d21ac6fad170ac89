package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Club status values.
const (
	ClubStatusActive    = "activo"
	ClubStatusInactive  = "inactivo"
	ClubStatusSuspended = "suspendido"
)

// Club is the tenant boundary. Memberships, events, news, votes and facility
// codes all hang off a club and are removed with it.
type Club struct {
	ID             uuid.UUID       `json:"id"`
	Slug           string          `json:"slug"`
	Name           string          `json:"nombre"`
	Description    *string         `json:"descripcion,omitempty"`
	LogoURL        *string         `json:"logo_url,omitempty"`
	PrimaryColor   string          `json:"color_primario"`
	SecondaryColor string          `json:"color_secundario"`
	AccentColor    string          `json:"color_acento"`
	Country        *string         `json:"pais,omitempty"`
	Region         *string         `json:"region,omitempty"`
	Latitude       *float64        `json:"latitud,omitempty"`
	Longitude      *float64        `json:"longitud,omitempty"`
	ContactEmail   *string         `json:"email_contacto,omitempty"`
	Phone          *string         `json:"telefono,omitempty"`
	Website        *string         `json:"sitio_web,omitempty"`
	SocialLinks    json.RawMessage `json:"redes_sociales,omitempty"`
	Timezone       string          `json:"zona_horaria"`
	DefaultLocale  string          `json:"idioma_por_defecto"`
	Status         string          `json:"estado"`
	CreatorID      uuid.UUID       `json:"creador_id"`
	CreatedAt      time.Time       `json:"fecha_creacion"`
	UpdatedAt      time.Time       `json:"fecha_actualizacion"`
}
