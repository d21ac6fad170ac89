package news

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aeroclub/backend/internal/models"
)

// ErrNotFound is returned for unknown news items or comments.
var ErrNotFound = errors.New("news not found")

const newsColumns = `id, club_id, titulo, contenido, categoria, autor_id, estado, visible_para,
	permite_comentarios, imagen_url, fecha_creacion, fecha_publicacion, fecha_actualizacion`

// Repository handles news and comment persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a news repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanNews(row pgx.Row) (*models.News, error) {
	var n models.News
	err := row.Scan(&n.ID, &n.ClubID, &n.Title, &n.Content, &n.Category, &n.AuthorID, &n.Status, &n.VisibleTo,
		&n.CommentsAllowed, &n.ImageURL, &n.CreatedAt, &n.PublishedAt, &n.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &n, nil
}

// CreateParams holds news creation fields.
type CreateParams struct {
	Title           string
	Content         string
	Category        *string
	VisibleTo       string
	CommentsAllowed bool
	ImageURL        *string
}

// Create inserts a published news item.
func (r *Repository) Create(ctx context.Context, clubID, authorID uuid.UUID, p CreateParams) (*models.News, error) {
	return scanNews(r.pool.QueryRow(ctx, `INSERT INTO noticias
		(club_id, titulo, contenido, categoria, autor_id, visible_para, permite_comentarios, imagen_url, fecha_publicacion)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		RETURNING `+newsColumns,
		clubID, p.Title, p.Content, p.Category, authorID, p.VisibleTo, p.CommentsAllowed, p.ImageURL))
}

// GetByID returns a news item scoped to a club.
func (r *Repository) GetByID(ctx context.Context, clubID, newsID uuid.UUID) (*models.News, error) {
	return scanNews(r.pool.QueryRow(ctx, `SELECT `+newsColumns+` FROM noticias
		WHERE id = $1 AND club_id = $2`, newsID, clubID))
}

// List returns a club's news newest first with skip/limit paging.
func (r *Repository) List(ctx context.Context, clubID uuid.UUID, skip, limit int) ([]models.News, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if skip < 0 {
		skip = 0
	}
	rows, err := r.pool.Query(ctx, `SELECT `+newsColumns+` FROM noticias
		WHERE club_id = $1 ORDER BY fecha_creacion DESC OFFSET $2 LIMIT $3`, clubID, skip, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.News
	for rows.Next() {
		n, err := scanNews(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *n)
	}
	return list, rows.Err()
}

// UpdateParams holds editable news fields.
type UpdateParams struct {
	Title           *string
	Content         *string
	Category        *string
	Status          *string
	VisibleTo       *string
	CommentsAllowed *bool
	ImageURL        *string
}

// Update applies the given fields.
func (r *Repository) Update(ctx context.Context, clubID, newsID uuid.UUID, p UpdateParams) (*models.News, error) {
	return scanNews(r.pool.QueryRow(ctx, `UPDATE noticias SET
		titulo = COALESCE($3, titulo),
		contenido = COALESCE($4, contenido),
		categoria = COALESCE($5, categoria),
		estado = COALESCE($6, estado),
		visible_para = COALESCE($7, visible_para),
		permite_comentarios = COALESCE($8, permite_comentarios),
		imagen_url = COALESCE($9, imagen_url),
		fecha_actualizacion = NOW()
		WHERE id = $1 AND club_id = $2
		RETURNING `+newsColumns,
		newsID, clubID, p.Title, p.Content, p.Category, p.Status, p.VisibleTo, p.CommentsAllowed, p.ImageURL))
}

// Delete removes a news item and, via cascade, its comments.
func (r *Repository) Delete(ctx context.Context, clubID, newsID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM noticias WHERE id = $1 AND club_id = $2`, newsID, clubID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateComment inserts a comment on a news item.
func (r *Repository) CreateComment(ctx context.Context, newsID, authorID uuid.UUID, content string) (*models.Comment, error) {
	var cm models.Comment
	err := r.pool.QueryRow(ctx, `INSERT INTO comentarios (noticia_id, autor_id, contenido)
		VALUES ($1, $2, $3) RETURNING id, noticia_id, autor_id, contenido, fecha_creacion`,
		newsID, authorID, content).
		Scan(&cm.ID, &cm.NewsID, &cm.AuthorID, &cm.Content, &cm.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &cm, nil
}

// ListComments returns a news item's comments oldest first with author names.
func (r *Repository) ListComments(ctx context.Context, newsID uuid.UUID) ([]models.Comment, error) {
	rows, err := r.pool.Query(ctx, `SELECT cm.id, cm.noticia_id, cm.autor_id, u.nombre_completo, cm.contenido, cm.fecha_creacion
		FROM comentarios cm JOIN usuarios u ON u.id = cm.autor_id
		WHERE cm.noticia_id = $1 ORDER BY cm.fecha_creacion`, newsID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Comment
	for rows.Next() {
		var cm models.Comment
		if err := rows.Scan(&cm.ID, &cm.NewsID, &cm.AuthorID, &cm.AuthorName, &cm.Content, &cm.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, cm)
	}
	return list, rows.Err()
}

// DeleteComment removes a comment. The caller enforces author-or-admin.
func (r *Repository) DeleteComment(ctx context.Context, newsID, commentID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM comentarios WHERE id = $1 AND noticia_id = $2`, commentID, newsID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetComment returns one comment.
func (r *Repository) GetComment(ctx context.Context, newsID, commentID uuid.UUID) (*models.Comment, error) {
	var cm models.Comment
	err := r.pool.QueryRow(ctx, `SELECT id, noticia_id, autor_id, contenido, fecha_creacion
		FROM comentarios WHERE id = $1 AND noticia_id = $2`, commentID, newsID).
		Scan(&cm.ID, &cm.NewsID, &cm.AuthorID, &cm.Content, &cm.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &cm, nil
}
