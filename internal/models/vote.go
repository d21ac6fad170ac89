package models

import (
	"time"

	"github.com/google/uuid"
)

// Vote status values.
const (
	VoteOpen   = "abierta"
	VoteClosed = "cerrada"
)

// Vote types.
const (
	VoteTypeSimple   = "simple" // yes/no
	VoteTypeMultiple = "multiple"
)

// Vote is a club ballot question.
type Vote struct {
	ID          uuid.UUID  `json:"id"`
	ClubID      uuid.UUID  `json:"club_id"`
	Title       string     `json:"titulo"`
	Description *string    `json:"descripcion,omitempty"`
	Type        string     `json:"tipo"`
	CreatorID   uuid.UUID  `json:"creador_id"`
	StartsAt    time.Time  `json:"fecha_inicio"`
	EndsAt      time.Time  `json:"fecha_fin"`
	Status      string     `json:"estado"`
	Visible     bool       `json:"visible"`
	Anonymous   bool       `json:"anonima"`
	CreatedAt   time.Time  `json:"fecha_creacion"`
	ClosedAt    *time.Time `json:"fecha_cierre,omitempty"`
}

// Ballot is one member's answer, unique per (vote, user).
type Ballot struct {
	ID      uuid.UUID `json:"id"`
	VoteID  uuid.UUID `json:"votacion_id"`
	UserID  uuid.UUID `json:"usuario_id"`
	Choice  string    `json:"opcion"` // "si"/"no" for simple votes
	CastAt  time.Time `json:"fecha_emision"`
}

// VoteResult aggregates ballots per choice.
type VoteResult struct {
	Choice string `json:"opcion"`
	Count  int    `json:"total"`
}
