package facilities

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aeroclub/backend/internal/models"
)

// ErrNoCode is returned when a club has no active facility code.
var ErrNoCode = errors.New("no facility code")

// Repository handles facility access code persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a facilities repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const codeColumns = `id, club_id, codigo, descripcion, creado_por_id, activa, fecha_creacion`

func scanCode(row pgx.Row) (*models.FacilityCode, error) {
	var f models.FacilityCode
	err := row.Scan(&f.ID, &f.ClubID, &f.Code, &f.Description, &f.CreatedBy, &f.Active, &f.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoCode
		}
		return nil, err
	}
	return &f, nil
}

// Current returns the club's active code (the newest active row).
func (r *Repository) Current(ctx context.Context, clubID uuid.UUID) (*models.FacilityCode, error) {
	return scanCode(r.pool.QueryRow(ctx, `SELECT `+codeColumns+` FROM contrasenas_instalacion
		WHERE club_id = $1 AND activa = TRUE
		ORDER BY fecha_creacion DESC LIMIT 1`, clubID))
}

// Set records a new code and deactivates all previous ones in one
// transaction, keeping the full history.
func (r *Repository) Set(ctx context.Context, clubID, createdBy uuid.UUID, code, description string) (*models.FacilityCode, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `UPDATE contrasenas_instalacion SET activa = FALSE
		WHERE club_id = $1 AND activa = TRUE`, clubID); err != nil {
		return nil, err
	}

	fc, err := scanCode(tx.QueryRow(ctx, `INSERT INTO contrasenas_instalacion
		(club_id, codigo, descripcion, creado_por_id)
		VALUES ($1, $2, NULLIF($3,''), $4) RETURNING `+codeColumns,
		clubID, code, description, createdBy))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return fc, nil
}

// History returns the full code history, newest first.
func (r *Repository) History(ctx context.Context, clubID uuid.UUID) ([]models.FacilityCode, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+codeColumns+` FROM contrasenas_instalacion
		WHERE club_id = $1 ORDER BY fecha_creacion DESC`, clubID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.FacilityCode
	for rows.Next() {
		f, err := scanCode(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *f)
	}
	return list, rows.Err()
}
