package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a global identity, valid across all clubs.
type User struct {
	ID             uuid.UUID  `json:"id"`
	Email          string     `json:"email"`
	FullName       string     `json:"nombre_completo"`
	PasswordHash   *string    `json:"-"` // nil for OAuth-only accounts
	EmailVerified  bool       `json:"email_verificado"`
	Active         bool       `json:"activo"`
	Superadmin     bool       `json:"es_superadmin"`
	GoogleID       *string    `json:"-"`
	GooglePhotoURL *string    `json:"google_photo_url,omitempty"`
	LastLoginAt    *time.Time `json:"ultimo_login,omitempty"`
	CreatedAt      time.Time  `json:"fecha_creacion"`
	UpdatedAt      time.Time  `json:"fecha_actualizacion"`
}

// UserPublic is User without sensitive fields for API responses.
type UserPublic struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	FullName       string    `json:"nombre_completo"`
	Superadmin     bool      `json:"es_superadmin"`
	GooglePhotoURL *string   `json:"google_photo_url,omitempty"`
	CreatedAt      time.Time `json:"fecha_creacion"`
}

// ToPublic converts User to UserPublic.
func (u *User) ToPublic() UserPublic {
	return UserPublic{
		ID:             u.ID,
		Email:          u.Email,
		FullName:       u.FullName,
		Superadmin:     u.Superadmin,
		GooglePhotoURL: u.GooglePhotoURL,
		CreatedAt:      u.CreatedAt,
	}
}

// GoogleToken stores provider tokens per user, replaced on each login.
type GoogleToken struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"usuario_id"`
	AccessToken  string    `json:"-"`
	RefreshToken *string   `json:"-"`
	ExpiresAt    time.Time `json:"expires_at"`
	UpdatedAt    time.Time `json:"fecha_actualizacion"`
}
