package invitations

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aeroclub/backend/internal/models"
	"github.com/aeroclub/backend/pkg/utils"
)

var (
	// ErrNotFound is returned for unknown tokens or ids.
	ErrNotFound = errors.New("invitation not found")
	// ErrNotRedeemable is returned when a token exists but is no longer
	// pending or has passed its expiry.
	ErrNotRedeemable = errors.New("invitation not redeemable")
	// ErrNotResendable is returned when resend is attempted on an
	// invitation that is not rejected or expired.
	ErrNotResendable = errors.New("invitation not resendable")
)

const invColumns = `id, club_id, email, usuario_id, rol, nombre_completo, token, estado,
	creado_por_id, fecha_creacion, fecha_vencimiento, fecha_aceptacion`

// Repository handles invitation persistence.
type Repository struct {
	pool *pgxpool.Pool
	ttl  time.Duration
}

// NewRepository creates an invitations repository. ttlDays is the validity
// window for new tokens.
func NewRepository(pool *pgxpool.Pool, ttlDays int) *Repository {
	return &Repository{pool: pool, ttl: time.Duration(ttlDays) * 24 * time.Hour}
}

func scanInvitation(row pgx.Row) (*models.Invitation, error) {
	var i models.Invitation
	err := row.Scan(&i.ID, &i.ClubID, &i.Email, &i.UserID, &i.Role, &i.FullName, &i.Token, &i.Status,
		&i.CreatedBy, &i.CreatedAt, &i.ExpiresAt, &i.AcceptedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &i, nil
}

// Create issues a new invitation. The invitee email is matched against
// existing accounts so the invitation is pre-linked when one exists; emails
// are stored lower-cased.
func (r *Repository) Create(ctx context.Context, clubID, createdBy uuid.UUID, email, role, fullName string) (*models.Invitation, error) {
	token, err := utils.GenerateToken()
	if err != nil {
		return nil, err
	}
	const q = `INSERT INTO invitaciones (club_id, email, usuario_id, rol, nombre_completo, token, creado_por_id, fecha_vencimiento)
		VALUES ($1, LOWER($2),
			(SELECT id FROM usuarios WHERE LOWER(email) = LOWER($2)),
			$3, NULLIF($4,''), $5, $6, $7)
		RETURNING ` + invColumns
	return scanInvitation(r.pool.QueryRow(ctx, q, clubID, email, role, fullName, token, createdBy, time.Now().Add(r.ttl)))
}

// GetByToken returns an invitation by its token.
func (r *Repository) GetByToken(ctx context.Context, token string) (*models.Invitation, error) {
	return scanInvitation(r.pool.QueryRow(ctx, `SELECT `+invColumns+` FROM invitaciones WHERE token = $1`, token))
}

// GetByID returns an invitation by id.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Invitation, error) {
	return scanInvitation(r.pool.QueryRow(ctx, `SELECT `+invColumns+` FROM invitaciones WHERE id = $1`, id))
}

// PublicLookup returns the unauthenticated landing view for a pending,
// unexpired token. Used and invalid tokens both come back ErrNotFound so
// nothing leaks about their state.
func (r *Repository) PublicLookup(ctx context.Context, token string) (*models.InvitationPublic, error) {
	var p models.InvitationPublic
	err := r.pool.QueryRow(ctx, `SELECT i.email, i.club_id, c.nombre, i.fecha_vencimiento
		FROM invitaciones i JOIN clubes c ON c.id = i.club_id
		WHERE i.token = $1 AND i.estado = $2 AND i.fecha_vencimiento > NOW()`,
		token, models.InvitationPending).
		Scan(&p.Email, &p.ClubID, &p.ClubName, &p.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// ListPendingForEmail returns pending, unexpired invitations addressed to
// the given email.
func (r *Repository) ListPendingForEmail(ctx context.Context, email string) ([]models.Invitation, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+invColumns+` FROM invitaciones
		WHERE LOWER(email) = LOWER($1) AND estado = $2 AND fecha_vencimiento > NOW()
		ORDER BY fecha_creacion DESC`, email, models.InvitationPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Invitation
	for rows.Next() {
		i, err := scanInvitation(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *i)
	}
	return list, rows.Err()
}

// ListForClub returns a club's invitations, newest first, optionally
// filtered by status.
func (r *Repository) ListForClub(ctx context.Context, clubID uuid.UUID, status string) ([]models.Invitation, error) {
	q := `SELECT ` + invColumns + ` FROM invitaciones WHERE club_id = $1`
	args := []any{clubID}
	if status != "" {
		q += ` AND estado = $2`
		args = append(args, status)
	}
	q += ` ORDER BY fecha_creacion DESC`
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Invitation
	for rows.Next() {
		i, err := scanInvitation(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *i)
	}
	return list, rows.Err()
}

// Accept redeems an invitation for userID: marks it accepted and upserts the
// club membership in one transaction. An inactive membership is reactivated
// and takes the invitation's role; an active one just has its role updated.
// Expired-but-pending tokens are marked expired on the way out.
func (r *Repository) Accept(ctx context.Context, token string, userID uuid.UUID) (*models.Membership, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	inv, err := scanInvitation(tx.QueryRow(ctx,
		`SELECT `+invColumns+` FROM invitaciones WHERE token = $1 FOR UPDATE`, token))
	if err != nil {
		return nil, err
	}
	if inv.Status == models.InvitationPending && !time.Now().Before(inv.ExpiresAt) {
		if _, err := tx.Exec(ctx, `UPDATE invitaciones SET estado = $2 WHERE id = $1`,
			inv.ID, models.InvitationExpired); err != nil {
			return nil, err
		}
		if err := tx.Commit(ctx); err != nil {
			return nil, err
		}
		return nil, ErrNotRedeemable
	}
	if !inv.Redeemable(time.Now()) {
		return nil, ErrNotRedeemable
	}

	if _, err := tx.Exec(ctx, `UPDATE invitaciones
		SET estado = $2, usuario_id = $3, fecha_aceptacion = NOW() WHERE id = $1`,
		inv.ID, models.InvitationAccepted, userID); err != nil {
		return nil, err
	}

	var m models.Membership
	err = tx.QueryRow(ctx, `INSERT INTO miembros_club (club_id, usuario_id, rol, estado, fecha_aprobacion)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (club_id, usuario_id) DO UPDATE SET
			rol = EXCLUDED.rol, estado = EXCLUDED.estado,
			fecha_aprobacion = NOW(), fecha_actualizacion = NOW()
		RETURNING id, club_id, usuario_id, rol, estado, fecha_aprobacion, fecha_creacion, fecha_actualizacion`,
		inv.ClubID, userID, inv.Role, models.MembershipActive).
		Scan(&m.ID, &m.ClubID, &m.UserID, &m.Role, &m.Status, &m.ApprovedAt, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &m, nil
}

// Reject marks a pending invitation rejected.
func (r *Repository) Reject(ctx context.Context, token string) error {
	inv, err := r.GetByToken(ctx, token)
	if err != nil {
		return err
	}
	if !inv.Redeemable(time.Now()) {
		return ErrNotRedeemable
	}
	_, err = r.pool.Exec(ctx, `UPDATE invitaciones SET estado = $2 WHERE id = $1`,
		inv.ID, models.InvitationRejected)
	return err
}

// Resend reissues a rejected or expired invitation: new token, status back
// to pending, fresh expiry. Pending and accepted invitations are not
// resendable; accepted ones are settled and pending ones still have a live
// token.
func (r *Repository) Resend(ctx context.Context, id uuid.UUID) (*models.Invitation, error) {
	inv, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv.Status != models.InvitationRejected && inv.Status != models.InvitationExpired {
		return nil, ErrNotResendable
	}
	token, err := utils.GenerateToken()
	if err != nil {
		return nil, err
	}
	return scanInvitation(r.pool.QueryRow(ctx, `UPDATE invitaciones
		SET token = $2, estado = $3, fecha_vencimiento = $4, fecha_aceptacion = NULL
		WHERE id = $1 RETURNING `+invColumns,
		id, token, models.InvitationPending, time.Now().Add(r.ttl)))
}
