package votes

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aeroclub/backend/internal/models"
)

var (
	// ErrNotFound is returned for unknown votes.
	ErrNotFound = errors.New("vote not found")
	// ErrClosed is returned when casting on a closed vote or outside its
	// window.
	ErrClosed = errors.New("vote closed")
)

const voteColumns = `id, club_id, titulo, descripcion, tipo, creador_id, fecha_inicio, fecha_fin,
	estado, visible, anonima, fecha_creacion, fecha_cierre`

// Repository handles vote and ballot persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a votes repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanVote(row pgx.Row) (*models.Vote, error) {
	var v models.Vote
	err := row.Scan(&v.ID, &v.ClubID, &v.Title, &v.Description, &v.Type, &v.CreatorID, &v.StartsAt, &v.EndsAt,
		&v.Status, &v.Visible, &v.Anonymous, &v.CreatedAt, &v.ClosedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

// CreateParams holds vote creation fields.
type CreateParams struct {
	Title       string
	Description *string
	Type        string
	StartsAt    string
	EndsAt      string
	Anonymous   bool
}

// Create inserts a new open vote.
func (r *Repository) Create(ctx context.Context, clubID, creatorID uuid.UUID, p CreateParams) (*models.Vote, error) {
	return scanVote(r.pool.QueryRow(ctx, `INSERT INTO votaciones
		(club_id, titulo, descripcion, tipo, creador_id, fecha_inicio, fecha_fin, anonima)
		VALUES ($1, $2, $3, $4, $5, $6::timestamptz, $7::timestamptz, $8)
		RETURNING `+voteColumns,
		clubID, p.Title, p.Description, p.Type, creatorID, p.StartsAt, p.EndsAt, p.Anonymous))
}

// GetByID returns a vote scoped to a club.
func (r *Repository) GetByID(ctx context.Context, clubID, voteID uuid.UUID) (*models.Vote, error) {
	return scanVote(r.pool.QueryRow(ctx, `SELECT `+voteColumns+` FROM votaciones
		WHERE id = $1 AND club_id = $2`, voteID, clubID))
}

// List returns a club's visible votes, newest first.
func (r *Repository) List(ctx context.Context, clubID uuid.UUID) ([]models.Vote, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+voteColumns+` FROM votaciones
		WHERE club_id = $1 AND visible = TRUE ORDER BY fecha_creacion DESC`, clubID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Vote
	for rows.Next() {
		v, err := scanVote(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *v)
	}
	return list, rows.Err()
}

// Close marks a vote closed.
func (r *Repository) Close(ctx context.Context, clubID, voteID uuid.UUID) (*models.Vote, error) {
	return scanVote(r.pool.QueryRow(ctx, `UPDATE votaciones
		SET estado = $3, fecha_cierre = NOW() WHERE id = $1 AND club_id = $2
		RETURNING `+voteColumns, voteID, clubID, models.VoteClosed))
}

// Delete removes a vote and, via cascade, its ballots.
func (r *Repository) Delete(ctx context.Context, clubID, voteID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM votaciones WHERE id = $1 AND club_id = $2`, voteID, clubID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Cast records a member's ballot. One ballot per (vote, user): re-casting
// replaces the previous choice while the vote is open.
func (r *Repository) Cast(ctx context.Context, clubID, voteID, userID uuid.UUID, choice string) (*models.Ballot, error) {
	vote, err := r.GetByID(ctx, clubID, voteID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	if vote.Status != models.VoteOpen || now.Before(vote.StartsAt) || now.After(vote.EndsAt) {
		return nil, ErrClosed
	}

	var b models.Ballot
	err = r.pool.QueryRow(ctx, `INSERT INTO votos (votacion_id, usuario_id, opcion)
		VALUES ($1, $2, $3)
		ON CONFLICT (votacion_id, usuario_id) DO UPDATE SET
			opcion = EXCLUDED.opcion, fecha_emision = NOW()
		RETURNING id, votacion_id, usuario_id, opcion, fecha_emision`,
		voteID, userID, choice).
		Scan(&b.ID, &b.VoteID, &b.UserID, &b.Choice, &b.CastAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// MyBallot returns the caller's ballot, ErrNotFound when none.
func (r *Repository) MyBallot(ctx context.Context, voteID, userID uuid.UUID) (*models.Ballot, error) {
	var b models.Ballot
	err := r.pool.QueryRow(ctx, `SELECT id, votacion_id, usuario_id, opcion, fecha_emision
		FROM votos WHERE votacion_id = $1 AND usuario_id = $2`, voteID, userID).
		Scan(&b.ID, &b.VoteID, &b.UserID, &b.Choice, &b.CastAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// Results aggregates ballots per choice.
func (r *Repository) Results(ctx context.Context, voteID uuid.UUID) ([]models.VoteResult, error) {
	rows, err := r.pool.Query(ctx, `SELECT opcion, COUNT(*) FROM votos
		WHERE votacion_id = $1 GROUP BY opcion ORDER BY opcion`, voteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.VoteResult
	for rows.Next() {
		var res models.VoteResult
		if err := rows.Scan(&res.Choice, &res.Count); err != nil {
			return nil, err
		}
		list = append(list, res)
	}
	return list, rows.Err()
}
