package documents

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aeroclub/backend/internal/models"
)

// ErrNotFound is returned when a user has no documentation record or the
// requested file slot is empty.
var ErrNotFound = errors.New("document not found")

const docColumns = `id, usuario_id,
	rc_numero, rc_fecha_emision, rc_fecha_vencimiento, rc_archivo_nombre, rc_archivo_mime, rc_archivo_key,
	carnet_numero, carnet_fecha_emision, carnet_fecha_vencimiento, carnet_archivo_nombre, carnet_archivo_mime, carnet_archivo_key,
	fecha_creacion, fecha_actualizacion`

// Repository handles regulatory documentation persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a documents repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanDoc(row pgx.Row) (*models.RegulatoryDocument, error) {
	var d models.RegulatoryDocument
	err := row.Scan(&d.ID, &d.UserID,
		&d.RCNumber, &d.RCIssuedAt, &d.RCExpiresAt, &d.RCFileName, &d.RCFileMime, &d.RCFileKey,
		&d.LicenseNumber, &d.LicenseIssuedAt, &d.LicenseExpiresAt, &d.LicenseFileName, &d.LicenseFileMime, &d.LicenseFileKey,
		&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	d.RCHasFile = d.RCFileKey != nil
	d.LicenseHasFile = d.LicenseFileKey != nil
	return &d, nil
}

// GetByUser returns the documentation record for a user.
func (r *Repository) GetByUser(ctx context.Context, userID uuid.UUID) (*models.RegulatoryDocument, error) {
	return scanDoc(r.pool.QueryRow(ctx, `SELECT `+docColumns+`
		FROM documentacion_reglamentaria WHERE usuario_id = $1`, userID))
}

// UpsertParams holds the editable metadata fields. Nil leaves a column as-is.
type UpsertParams struct {
	RCNumber         *string
	RCIssuedAt       *time.Time
	RCExpiresAt      *time.Time
	LicenseNumber    *string
	LicenseIssuedAt  *time.Time
	LicenseExpiresAt *time.Time
}

// Upsert creates or updates the user's documentation metadata. One record
// per user.
func (r *Repository) Upsert(ctx context.Context, userID uuid.UUID, p UpsertParams) (*models.RegulatoryDocument, error) {
	return scanDoc(r.pool.QueryRow(ctx, `INSERT INTO documentacion_reglamentaria
		(usuario_id, rc_numero, rc_fecha_emision, rc_fecha_vencimiento,
		 carnet_numero, carnet_fecha_emision, carnet_fecha_vencimiento)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (usuario_id) DO UPDATE SET
			rc_numero = COALESCE(EXCLUDED.rc_numero, documentacion_reglamentaria.rc_numero),
			rc_fecha_emision = COALESCE(EXCLUDED.rc_fecha_emision, documentacion_reglamentaria.rc_fecha_emision),
			rc_fecha_vencimiento = COALESCE(EXCLUDED.rc_fecha_vencimiento, documentacion_reglamentaria.rc_fecha_vencimiento),
			carnet_numero = COALESCE(EXCLUDED.carnet_numero, documentacion_reglamentaria.carnet_numero),
			carnet_fecha_emision = COALESCE(EXCLUDED.carnet_fecha_emision, documentacion_reglamentaria.carnet_fecha_emision),
			carnet_fecha_vencimiento = COALESCE(EXCLUDED.carnet_fecha_vencimiento, documentacion_reglamentaria.carnet_fecha_vencimiento),
			fecha_actualizacion = NOW()
		RETURNING `+docColumns,
		userID, p.RCNumber, p.RCIssuedAt, p.RCExpiresAt,
		p.LicenseNumber, p.LicenseIssuedAt, p.LicenseExpiresAt))
}

// SetFile records an uploaded file's metadata and storage key for one slot
// (rc or carnet), creating the record when missing.
func (r *Repository) SetFile(ctx context.Context, userID uuid.UUID, kind, fileName, mime, key string) (*models.RegulatoryDocument, error) {
	var q string
	switch kind {
	case models.DocumentFileRC:
		q = `INSERT INTO documentacion_reglamentaria (usuario_id, rc_archivo_nombre, rc_archivo_mime, rc_archivo_key)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (usuario_id) DO UPDATE SET
				rc_archivo_nombre = EXCLUDED.rc_archivo_nombre,
				rc_archivo_mime = EXCLUDED.rc_archivo_mime,
				rc_archivo_key = EXCLUDED.rc_archivo_key,
				fecha_actualizacion = NOW()
			RETURNING ` + docColumns
	case models.DocumentFileLicense:
		q = `INSERT INTO documentacion_reglamentaria (usuario_id, carnet_archivo_nombre, carnet_archivo_mime, carnet_archivo_key)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (usuario_id) DO UPDATE SET
				carnet_archivo_nombre = EXCLUDED.carnet_archivo_nombre,
				carnet_archivo_mime = EXCLUDED.carnet_archivo_mime,
				carnet_archivo_key = EXCLUDED.carnet_archivo_key,
				fecha_actualizacion = NOW()
			RETURNING ` + docColumns
	default:
		return nil, ErrNotFound
	}
	return scanDoc(r.pool.QueryRow(ctx, q, userID, fileName, mime, key))
}

// FileKey returns the storage key, name and MIME type for one file slot.
// ErrNotFound when the slot is empty.
func (r *Repository) FileKey(ctx context.Context, userID uuid.UUID, kind string) (key, name, mime string, err error) {
	doc, err := r.GetByUser(ctx, userID)
	if err != nil {
		return "", "", "", err
	}
	switch kind {
	case models.DocumentFileRC:
		if doc.RCFileKey == nil {
			return "", "", "", ErrNotFound
		}
		key = *doc.RCFileKey
		if doc.RCFileName != nil {
			name = *doc.RCFileName
		}
		if doc.RCFileMime != nil {
			mime = *doc.RCFileMime
		}
	case models.DocumentFileLicense:
		if doc.LicenseFileKey == nil {
			return "", "", "", ErrNotFound
		}
		key = *doc.LicenseFileKey
		if doc.LicenseFileName != nil {
			name = *doc.LicenseFileName
		}
		if doc.LicenseFileMime != nil {
			mime = *doc.LicenseFileMime
		}
	default:
		return "", "", "", ErrNotFound
	}
	return key, name, mime, nil
}
