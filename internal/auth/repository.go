package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aeroclub/backend/internal/models"
)

const userColumns = `id, email, nombre_completo, password_hash, email_verificado, activo, es_superadmin,
	google_id, google_photo_url, ultimo_login, fecha_creacion, fecha_actualizacion`

// Repository handles user persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an auth repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.FullName, &u.PasswordHash, &u.EmailVerified, &u.Active, &u.Superadmin,
		&u.GoogleID, &u.GooglePhotoURL, &u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByID returns a user by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM usuarios WHERE id = $1`, id))
}

// GetByEmail returns a user by email, matched case-insensitively.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM usuarios WHERE LOWER(email) = LOWER($1)`, email))
}

// GetByGoogleID returns a user by linked Google account id.
func (r *Repository) GetByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	return scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM usuarios WHERE google_id = $1`, googleID))
}

// Create inserts a new user. Email is stored lower-cased; passwordHash may be
// empty for OAuth-only accounts.
func (r *Repository) Create(ctx context.Context, email, passwordHash, fullName string, verified bool) (*models.User, error) {
	const q = `INSERT INTO usuarios (email, nombre_completo, password_hash, email_verificado)
		VALUES (LOWER($1), $2, NULLIF($3,''), $4)
		RETURNING ` + userColumns
	return scanUser(r.pool.QueryRow(ctx, q, strings.TrimSpace(email), fullName, passwordHash, verified))
}

// CreateFromGoogle inserts a new OAuth-only user linked to a Google account.
func (r *Repository) CreateFromGoogle(ctx context.Context, email, fullName, googleID, photoURL string) (*models.User, error) {
	const q = `INSERT INTO usuarios (email, nombre_completo, email_verificado, google_id, google_photo_url)
		VALUES (LOWER($1), $2, TRUE, $3, NULLIF($4,''))
		RETURNING ` + userColumns
	return scanUser(r.pool.QueryRow(ctx, q, strings.TrimSpace(email), fullName, googleID, photoURL))
}

// LinkGoogle attaches a Google account to an existing user (merge by email).
func (r *Repository) LinkGoogle(ctx context.Context, userID uuid.UUID, googleID, photoURL string) error {
	_, err := r.pool.Exec(ctx, `UPDATE usuarios
		SET google_id = $2, google_photo_url = COALESCE(NULLIF($3,''), google_photo_url),
		    email_verificado = TRUE, fecha_actualizacion = NOW()
		WHERE id = $1`, userID, googleID, photoURL)
	return err
}

// UpdateProfile updates the mutable profile fields.
func (r *Repository) UpdateProfile(ctx context.Context, userID uuid.UUID, fullName string) (*models.User, error) {
	const q = `UPDATE usuarios SET nombre_completo = $2, fecha_actualizacion = NOW()
		WHERE id = $1 RETURNING ` + userColumns
	return scanUser(r.pool.QueryRow(ctx, q, userID, fullName))
}

// UpdatePassword replaces the stored password hash.
func (r *Repository) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	_, err := r.pool.Exec(ctx, `UPDATE usuarios SET password_hash = $2, fecha_actualizacion = NOW() WHERE id = $1`,
		userID, passwordHash)
	return err
}

// TouchLastLogin records a successful login.
func (r *Repository) TouchLastLogin(ctx context.Context, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `UPDATE usuarios SET ultimo_login = NOW() WHERE id = $1`, userID)
	return err
}

// IsSuperadmin reports the platform superadmin flag for a user.
func (r *Repository) IsSuperadmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	var isSuper bool
	err := r.pool.QueryRow(ctx, `SELECT es_superadmin FROM usuarios WHERE id = $1`, userID).Scan(&isSuper)
	if err != nil {
		return false, err
	}
	return isSuper, nil
}

// ReplaceGoogleToken stores the latest provider tokens for a user. One row
// per user; each login replaces it.
func (r *Repository) ReplaceGoogleToken(ctx context.Context, userID uuid.UUID, accessToken, refreshToken string, expiresAt time.Time) error {
	const q = `INSERT INTO tokens_google (usuario_id, access_token, refresh_token, expires_at)
		VALUES ($1, $2, NULLIF($3,''), $4)
		ON CONFLICT (usuario_id) DO UPDATE SET
			access_token = EXCLUDED.access_token,
			refresh_token = COALESCE(EXCLUDED.refresh_token, tokens_google.refresh_token),
			expires_at = EXCLUDED.expires_at,
			fecha_actualizacion = NOW()`
	_, err := r.pool.Exec(ctx, q, userID, accessToken, refreshToken, expiresAt)
	return err
}
