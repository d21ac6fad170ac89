package models

import (
	"time"

	"github.com/google/uuid"
)

// Document file kinds for regulatory documentation uploads.
const (
	DocumentFileRC      = "rc"     // liability insurance
	DocumentFileLicense = "carnet" // pilot license
)

// RegulatoryDocument holds a member's regulatory paperwork: liability
// insurance (RC) and pilot license numbers, validity dates and uploaded
// files. Files live in S3; only keys and metadata are stored here.
type RegulatoryDocument struct {
	ID     uuid.UUID `json:"id"`
	UserID uuid.UUID `json:"usuario_id"`

	RCNumber     *string    `json:"rc_numero,omitempty"`
	RCIssuedAt   *time.Time `json:"rc_fecha_emision,omitempty"`
	RCExpiresAt  *time.Time `json:"rc_fecha_vencimiento,omitempty"`
	RCFileName   *string    `json:"rc_archivo_nombre,omitempty"`
	RCFileMime   *string    `json:"rc_archivo_mime,omitempty"`
	RCFileKey    *string    `json:"-"`
	RCHasFile    bool       `json:"rc_tiene_archivo"`

	LicenseNumber    *string    `json:"carnet_numero,omitempty"`
	LicenseIssuedAt  *time.Time `json:"carnet_fecha_emision,omitempty"`
	LicenseExpiresAt *time.Time `json:"carnet_fecha_vencimiento,omitempty"`
	LicenseFileName  *string    `json:"carnet_archivo_nombre,omitempty"`
	LicenseFileMime  *string    `json:"carnet_archivo_mime,omitempty"`
	LicenseFileKey   *string    `json:"-"`
	LicenseHasFile   bool       `json:"carnet_tiene_archivo"`

	CreatedAt time.Time `json:"fecha_creacion"`
	UpdatedAt time.Time `json:"fecha_actualizacion"`
}
