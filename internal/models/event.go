package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event status values.
const (
	EventNotStarted = "no_iniciado"
	EventInProgress = "en_curso"
	EventFinished   = "finalizado"
	EventCancelled  = "cancelado"
)

// Event is a club activity with optional capacity.
type Event struct {
	ID               uuid.UUID       `json:"id"`
	ClubID           uuid.UUID       `json:"club_id"`
	Name             string          `json:"nombre"`
	Description      *string         `json:"descripcion,omitempty"`
	Type             *string         `json:"tipo,omitempty"` // volar_grupo, competicion, formacion, social, otro
	StartsAt         time.Time       `json:"fecha_inicio"`
	EndsAt           *time.Time      `json:"fecha_fin,omitempty"`
	StartTime        *string         `json:"hora_inicio,omitempty"`
	EndTime          *string         `json:"hora_fin,omitempty"`
	Location         *string         `json:"ubicacion,omitempty"`
	MaxCapacity      *int            `json:"aforo_maximo,omitempty"`
	Requirements     json.RawMessage `json:"requisitos,omitempty"`
	ResponsibleID    *uuid.UUID      `json:"contacto_responsable_id,omitempty"`
	Status           string          `json:"estado"`
	ImageURL         *string         `json:"imagen_url,omitempty"`
	CommentsAllowed  bool            `json:"permite_comentarios"`
	RegisteredCount  int             `json:"inscritos_count"`
	CreatedAt        time.Time       `json:"fecha_creacion"`
	UpdatedAt        time.Time       `json:"fecha_actualizacion"`
}
