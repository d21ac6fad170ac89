package models

import (
	"time"

	"github.com/google/uuid"
)

// News status values.
const (
	NewsDraft     = "borrador"
	NewsPublished = "publicada"
	NewsArchived  = "archivada"
)

// News visibility values.
const (
	NewsVisibilityPublic  = "publico"
	NewsVisibilityMembers = "socios"
)

// News is a club announcement or article.
type News struct {
	ID              uuid.UUID  `json:"id"`
	ClubID          uuid.UUID  `json:"club_id"`
	Title           string     `json:"titulo"`
	Content         string     `json:"contenido"`
	Category        *string    `json:"categoria,omitempty"`
	AuthorID        uuid.UUID  `json:"autor_id"`
	Status          string     `json:"estado"`
	VisibleTo       string     `json:"visible_para"`
	CommentsAllowed bool       `json:"permite_comentarios"`
	ImageURL        *string    `json:"imagen_url,omitempty"`
	CreatedAt       time.Time  `json:"fecha_creacion"`
	PublishedAt     *time.Time `json:"fecha_publicacion,omitempty"`
	UpdatedAt       time.Time  `json:"fecha_actualizacion"`
}

// Comment is a member comment on a news item.
type Comment struct {
	ID         uuid.UUID `json:"id"`
	NewsID     uuid.UUID `json:"noticia_id"`
	AuthorID   uuid.UUID `json:"autor_id"`
	AuthorName string    `json:"autor_nombre,omitempty"`
	Content    string    `json:"contenido"`
	CreatedAt  time.Time `json:"fecha_creacion"`
}
