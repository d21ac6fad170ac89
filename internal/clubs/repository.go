package clubs

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aeroclub/backend/internal/models"
)

var (
	// ErrNotFound is returned for unknown club ids.
	ErrNotFound = errors.New("club not found")
	// ErrNotMember is returned when a user has no membership row in a club.
	ErrNotMember = errors.New("not a member")
)

const clubColumns = `id, slug, nombre, descripcion, logo_url, color_primario, color_secundario, color_acento,
	pais, region, latitud, longitud, email_contacto, telefono, sitio_web, redes_sociales,
	zona_horaria, idioma_por_defecto, estado, creador_id, fecha_creacion, fecha_actualizacion`

// Repository handles club and membership persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a clubs repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanClub(row pgx.Row) (*models.Club, error) {
	var c models.Club
	err := row.Scan(&c.ID, &c.Slug, &c.Name, &c.Description, &c.LogoURL, &c.PrimaryColor, &c.SecondaryColor, &c.AccentColor,
		&c.Country, &c.Region, &c.Latitude, &c.Longitude, &c.ContactEmail, &c.Phone, &c.Website, &c.SocialLinks,
		&c.Timezone, &c.DefaultLocale, &c.Status, &c.CreatorID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// CreateParams holds the fields for club creation.
type CreateParams struct {
	Slug        string
	Name        string
	Description string
	Country     string
	Region      string
}

// Create inserts a club and makes the creator an administrator member in the
// same transaction, so a club can never exist without an admin.
func (r *Repository) Create(ctx context.Context, creatorID uuid.UUID, p CreateParams) (*models.Club, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	club, err := scanClub(tx.QueryRow(ctx, `INSERT INTO clubes (slug, nombre, descripcion, pais, region, creador_id)
		VALUES ($1, $2, NULLIF($3,''), NULLIF($4,''), NULLIF($5,''), $6)
		RETURNING `+clubColumns,
		p.Slug, p.Name, p.Description, p.Country, p.Region, creatorID))
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `INSERT INTO miembros_club (club_id, usuario_id, rol, estado, fecha_aprobacion)
		VALUES ($1, $2, $3, $4, NOW())`,
		club.ID, creatorID, models.RoleAdmin, models.MembershipActive)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return club, nil
}

// GetByID returns a club by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Club, error) {
	return scanClub(r.pool.QueryRow(ctx, `SELECT `+clubColumns+` FROM clubes WHERE id = $1`, id))
}

// ListForUser returns clubs where the user has an active membership.
func (r *Repository) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Club, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+clubColumns+` FROM clubes c
		JOIN miembros_club m ON m.club_id = c.id
		WHERE m.usuario_id = $1 AND m.estado = $2
		ORDER BY c.nombre`, userID, models.MembershipActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Club
	for rows.Next() {
		c, err := scanClub(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *c)
	}
	return list, rows.Err()
}

// UpdateParams holds the admin-editable club fields. Nil pointers leave the
// column untouched.
type UpdateParams struct {
	Name           *string
	Description    *string
	LogoURL        *string
	PrimaryColor   *string
	SecondaryColor *string
	AccentColor    *string
	Country        *string
	Region         *string
	ContactEmail   *string
	Phone          *string
	Website        *string
	Timezone       *string
	DefaultLocale  *string
}

// Update applies the whitelisted club fields.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, p UpdateParams) (*models.Club, error) {
	const q = `UPDATE clubes SET
		nombre = COALESCE($2, nombre),
		descripcion = COALESCE($3, descripcion),
		logo_url = COALESCE($4, logo_url),
		color_primario = COALESCE($5, color_primario),
		color_secundario = COALESCE($6, color_secundario),
		color_acento = COALESCE($7, color_acento),
		pais = COALESCE($8, pais),
		region = COALESCE($9, region),
		email_contacto = COALESCE($10, email_contacto),
		telefono = COALESCE($11, telefono),
		sitio_web = COALESCE($12, sitio_web),
		zona_horaria = COALESCE($13, zona_horaria),
		idioma_por_defecto = COALESCE($14, idioma_por_defecto),
		fecha_actualizacion = NOW()
		WHERE id = $1
		RETURNING ` + clubColumns
	return scanClub(r.pool.QueryRow(ctx, q, id, p.Name, p.Description, p.LogoURL,
		p.PrimaryColor, p.SecondaryColor, p.AccentColor, p.Country, p.Region,
		p.ContactEmail, p.Phone, p.Website, p.Timezone, p.DefaultLocale))
}

// GetMembership returns the membership row for a user in a club, regardless
// of status. ErrNotMember when none exists.
func (r *Repository) GetMembership(ctx context.Context, clubID, userID uuid.UUID) (*models.Membership, error) {
	var m models.Membership
	err := r.pool.QueryRow(ctx, `SELECT id, club_id, usuario_id, rol, estado, fecha_aprobacion, fecha_creacion, fecha_actualizacion
		FROM miembros_club WHERE club_id = $1 AND usuario_id = $2`, clubID, userID).
		Scan(&m.ID, &m.ClubID, &m.UserID, &m.Role, &m.Status, &m.ApprovedAt, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotMember
		}
		return nil, err
	}
	return &m, nil
}

// IsActiveMember reports whether the user holds an active membership.
func (r *Repository) IsActiveMember(ctx context.Context, clubID, userID uuid.UUID) (bool, error) {
	m, err := r.GetMembership(ctx, clubID, userID)
	if err != nil {
		if errors.Is(err, ErrNotMember) {
			return false, nil
		}
		return false, err
	}
	return m.Status == models.MembershipActive, nil
}

// IsMember reports whether the user has any membership row (any status).
// Event reads use this so past members keep history access.
func (r *Repository) IsMember(ctx context.Context, clubID, userID uuid.UUID) (bool, error) {
	_, err := r.GetMembership(ctx, clubID, userID)
	if err != nil {
		if errors.Is(err, ErrNotMember) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// IsAdmin reports whether the user holds an active admin-capable membership
// (administrador or propietario). This is the single admin predicate for all
// club-gated writes.
func (r *Repository) IsAdmin(ctx context.Context, clubID, userID uuid.UUID) (bool, error) {
	m, err := r.GetMembership(ctx, clubID, userID)
	if err != nil {
		if errors.Is(err, ErrNotMember) {
			return false, nil
		}
		return false, err
	}
	return m.Status == models.MembershipActive && models.IsAdminRole(m.Role), nil
}

// MemberView is a member row joined with user identity for listings.
type MemberView struct {
	UserID     uuid.UUID `json:"usuario_id"`
	Email      string    `json:"email"`
	FullName   string    `json:"nombre_completo"`
	Role       string    `json:"rol"`
	Status     string    `json:"estado"`
	JoinedAt   string    `json:"fecha_creacion"`
}

// ListMembers returns active members of a club with user identity.
func (r *Repository) ListMembers(ctx context.Context, clubID uuid.UUID) ([]MemberView, error) {
	rows, err := r.pool.Query(ctx, `SELECT m.usuario_id, u.email, u.nombre_completo, m.rol, m.estado, m.fecha_creacion::text
		FROM miembros_club m
		JOIN usuarios u ON u.id = m.usuario_id
		WHERE m.club_id = $1 AND m.estado = $2
		ORDER BY u.nombre_completo, u.email`, clubID, models.MembershipActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []MemberView
	for rows.Next() {
		var mv MemberView
		if err := rows.Scan(&mv.UserID, &mv.Email, &mv.FullName, &mv.Role, &mv.Status, &mv.JoinedAt); err != nil {
			return nil, err
		}
		list = append(list, mv)
	}
	return list, rows.Err()
}

// UpdateMemberRole changes a member's role.
func (r *Repository) UpdateMemberRole(ctx context.Context, clubID, userID uuid.UUID, role string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE miembros_club SET rol = $3, fecha_actualizacion = NOW()
		WHERE club_id = $1 AND usuario_id = $2`, clubID, userID, role)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotMember
	}
	return nil
}

// DeactivateMember soft-removes a member by marking the row inactive. The
// row stays so history (attendance, ballots) keeps its author.
func (r *Repository) DeactivateMember(ctx context.Context, clubID, userID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `UPDATE miembros_club SET estado = $3, fecha_actualizacion = NOW()
		WHERE club_id = $1 AND usuario_id = $2`, clubID, userID, models.MembershipInactive)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotMember
	}
	return nil
}
