package events

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aeroclub/backend/internal/models"
)

// ErrNotFound is returned for unknown events or missing attendance rows.
var ErrNotFound = errors.New("event not found")

const eventColumns = `e.id, e.club_id, e.nombre, e.descripcion, e.tipo, e.fecha_inicio, e.fecha_fin,
	e.hora_inicio, e.hora_fin, e.ubicacion, e.aforo_maximo, e.requisitos, e.contacto_responsable_id,
	e.estado, e.imagen_url, e.permite_comentarios, e.fecha_creacion, e.fecha_actualizacion`

// registeredCount annotates each event with its count of confirmed RSVPs.
const registeredCount = `(SELECT COUNT(*) FROM asistencias_eventos a
	WHERE a.evento_id = e.id AND a.estado = 'inscrito')`

// Repository handles event and attendance persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an events repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanEvent(row pgx.Row) (*models.Event, error) {
	var e models.Event
	err := row.Scan(&e.ID, &e.ClubID, &e.Name, &e.Description, &e.Type, &e.StartsAt, &e.EndsAt,
		&e.StartTime, &e.EndTime, &e.Location, &e.MaxCapacity, &e.Requirements, &e.ResponsibleID,
		&e.Status, &e.ImageURL, &e.CommentsAllowed, &e.CreatedAt, &e.UpdatedAt, &e.RegisteredCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

// CreateParams holds event creation fields.
type CreateParams struct {
	Name            string
	Description     *string
	Type            *string
	StartsAt        string
	EndsAt          *string
	StartTime       *string
	EndTime         *string
	Location        *string
	MaxCapacity     *int
	Requirements    []byte
	ImageURL        *string
	CommentsAllowed bool
	ResponsibleID   uuid.UUID
}

// Create inserts a new event.
func (r *Repository) Create(ctx context.Context, clubID uuid.UUID, p CreateParams) (*models.Event, error) {
	const q = `WITH inserted AS (
		INSERT INTO eventos (club_id, nombre, descripcion, tipo, fecha_inicio, fecha_fin,
			hora_inicio, hora_fin, ubicacion, aforo_maximo, requisitos, imagen_url, permite_comentarios, contacto_responsable_id)
		VALUES ($1, $2, $3, $4, $5::timestamptz, $6::timestamptz, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING *)
		SELECT ` + eventColumns + `, 0 FROM inserted e`
	return scanEvent(r.pool.QueryRow(ctx, q, clubID, p.Name, p.Description, p.Type, p.StartsAt, p.EndsAt,
		p.StartTime, p.EndTime, p.Location, p.MaxCapacity, p.Requirements, p.ImageURL, p.CommentsAllowed, p.ResponsibleID))
}

// GetByID returns an event scoped to a club, annotated with its count of
// confirmed RSVPs.
func (r *Repository) GetByID(ctx context.Context, clubID, eventID uuid.UUID) (*models.Event, error) {
	return scanEvent(r.pool.QueryRow(ctx, `SELECT `+eventColumns+`, `+registeredCount+`
		FROM eventos e WHERE e.id = $1 AND e.club_id = $2`, eventID, clubID))
}

// List returns a club's events newest-start first with skip/limit paging.
func (r *Repository) List(ctx context.Context, clubID uuid.UUID, skip, limit int) ([]models.Event, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if skip < 0 {
		skip = 0
	}
	rows, err := r.pool.Query(ctx, `SELECT `+eventColumns+`, `+registeredCount+`
		FROM eventos e WHERE e.club_id = $1
		ORDER BY e.fecha_inicio DESC OFFSET $2 LIMIT $3`, clubID, skip, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *e)
	}
	return list, rows.Err()
}

// UpdateParams holds the editable event fields. Nil leaves a column as-is.
type UpdateParams struct {
	Name            *string
	Description     *string
	Type            *string
	StartsAt        *string
	EndsAt          *string
	StartTime       *string
	EndTime         *string
	Location        *string
	MaxCapacity     *int
	ImageURL        *string
	Status          *string
	CommentsAllowed *bool
}

// Update applies the given event fields.
func (r *Repository) Update(ctx context.Context, clubID, eventID uuid.UUID, p UpdateParams) (*models.Event, error) {
	const q = `WITH updated AS (
		UPDATE eventos SET
			nombre = COALESCE($3, nombre),
			descripcion = COALESCE($4, descripcion),
			tipo = COALESCE($5, tipo),
			fecha_inicio = COALESCE($6::timestamptz, fecha_inicio),
			fecha_fin = COALESCE($7::timestamptz, fecha_fin),
			hora_inicio = COALESCE($8, hora_inicio),
			hora_fin = COALESCE($9, hora_fin),
			ubicacion = COALESCE($10, ubicacion),
			aforo_maximo = COALESCE($11, aforo_maximo),
			imagen_url = COALESCE($12, imagen_url),
			estado = COALESCE($13, estado),
			permite_comentarios = COALESCE($14, permite_comentarios),
			fecha_actualizacion = NOW()
		WHERE id = $1 AND club_id = $2
		RETURNING *)
		SELECT ` + eventColumns + `, ` + `(SELECT COUNT(*) FROM asistencias_eventos a
			WHERE a.evento_id = e.id AND a.estado = 'inscrito')` + ` FROM updated e`
	return scanEvent(r.pool.QueryRow(ctx, q, eventID, clubID, p.Name, p.Description, p.Type,
		p.StartsAt, p.EndsAt, p.StartTime, p.EndTime, p.Location, p.MaxCapacity, p.ImageURL,
		p.Status, p.CommentsAllowed))
}

// Delete removes an event and, via cascade, its attendance rows.
func (r *Repository) Delete(ctx context.Context, clubID, eventID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM eventos WHERE id = $1 AND club_id = $2`, eventID, clubID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetAttendance records or updates an RSVP inside one transaction. The event
// row is locked so concurrent registrations serialize on the capacity check;
// the unique (evento_id, usuario_id) constraint backstops the upsert.
func (r *Repository) SetAttendance(ctx context.Context, clubID, eventID, userID uuid.UUID, requested string) (*models.Attendance, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var maxCapacity *int
	err = tx.QueryRow(ctx, `SELECT aforo_maximo FROM eventos
		WHERE id = $1 AND club_id = $2 FOR UPDATE`, eventID, clubID).Scan(&maxCapacity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var current *string
	err = tx.QueryRow(ctx, `SELECT estado FROM asistencias_eventos
		WHERE evento_id = $1 AND usuario_id = $2`, eventID, userID).Scan(&current)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	var count int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM asistencias_eventos
		WHERE evento_id = $1 AND estado = $2`, eventID, models.AttendanceRegistered).Scan(&count); err != nil {
		return nil, err
	}

	effective := EffectiveStatus(requested, current, maxCapacity, count)

	var a models.Attendance
	err = tx.QueryRow(ctx, `INSERT INTO asistencias_eventos (evento_id, usuario_id, estado)
		VALUES ($1, $2, $3)
		ON CONFLICT (evento_id, usuario_id) DO UPDATE SET
			estado = EXCLUDED.estado, fecha_actualizacion = NOW()
		RETURNING id, evento_id, usuario_id, estado, fecha_registro, fecha_actualizacion`,
		eventID, userID, effective).
		Scan(&a.ID, &a.EventID, &a.UserID, &a.Status, &a.RegisteredAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &a, nil
}

// ListAttendees returns confirmed and waitlisted attendees with user names.
func (r *Repository) ListAttendees(ctx context.Context, eventID uuid.UUID) ([]models.Attendance, error) {
	rows, err := r.pool.Query(ctx, `SELECT a.id, a.evento_id, a.usuario_id, a.estado, u.nombre_completo,
		a.fecha_registro, a.fecha_actualizacion
		FROM asistencias_eventos a
		JOIN usuarios u ON u.id = a.usuario_id
		WHERE a.evento_id = $1 AND a.estado IN ($2, $3)
		ORDER BY a.fecha_registro`, eventID, models.AttendanceRegistered, models.AttendanceWaitlisted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Attendance
	for rows.Next() {
		var a models.Attendance
		if err := rows.Scan(&a.ID, &a.EventID, &a.UserID, &a.Status, &a.UserName,
			&a.RegisteredAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// GetMyAttendance returns the caller's RSVP row, ErrNotFound when none.
func (r *Repository) GetMyAttendance(ctx context.Context, eventID, userID uuid.UUID) (*models.Attendance, error) {
	var a models.Attendance
	err := r.pool.QueryRow(ctx, `SELECT id, evento_id, usuario_id, estado, fecha_registro, fecha_actualizacion
		FROM asistencias_eventos WHERE evento_id = $1 AND usuario_id = $2`, eventID, userID).
		Scan(&a.ID, &a.EventID, &a.UserID, &a.Status, &a.RegisteredAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}
