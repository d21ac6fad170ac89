package news

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aeroclub/backend/internal/clubs"
	"github.com/aeroclub/backend/internal/models"
	"github.com/aeroclub/backend/pkg/response"
)

// CreateRequest is the body for POST /clubes/:club_id/noticias.
type CreateRequest struct {
	Title           string  `json:"titulo" binding:"required"`
	Content         string  `json:"contenido" binding:"required"`
	Category        *string `json:"categoria"`
	VisibleTo       string  `json:"visible_para"`
	CommentsAllowed *bool   `json:"permite_comentarios"`
	ImageURL        *string `json:"imagen_url"`
}

// UpdateRequest is the body for PUT /clubes/:club_id/noticias/:noticia_id.
type UpdateRequest struct {
	Title           *string `json:"titulo"`
	Content         *string `json:"contenido"`
	Category        *string `json:"categoria"`
	Status          *string `json:"estado"`
	VisibleTo       *string `json:"visible_para"`
	CommentsAllowed *bool   `json:"permite_comentarios"`
	ImageURL        *string `json:"imagen_url"`
}

// CommentRequest is the body for POST .../comentarios.
type CommentRequest struct {
	Content string `json:"contenido" binding:"required"`
}

// Handler handles news HTTP endpoints.
type Handler struct {
	repo     *Repository
	clubRepo *clubs.Repository
	logger   *zap.Logger
}

// NewHandler creates a news handler.
func NewHandler(repo *Repository, clubRepo *clubs.Repository, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, clubRepo: clubRepo, logger: logger}
}

func currentUserID(c *gin.Context) uuid.UUID {
	return c.MustGet("user_id").(uuid.UUID)
}

func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.BadRequest(c, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) isAdmin(c *gin.Context, clubID uuid.UUID) (bool, bool) {
	isAdmin, err := h.clubRepo.IsAdmin(c.Request.Context(), clubID, currentUserID(c))
	if err != nil {
		response.Internal(c, "authorization check failed")
		return false, false
	}
	return isAdmin, true
}

func (h *Handler) requireActiveMember(c *gin.Context, clubID uuid.UUID) bool {
	isActive, err := h.clubRepo.IsActiveMember(c.Request.Context(), clubID, currentUserID(c))
	if err != nil {
		response.Internal(c, "membership check failed")
		return false
	}
	if !isActive {
		response.Forbidden(c, "active membership required")
		return false
	}
	return true
}

// Create handles POST /clubes/:club_id/noticias (club admin).
func (h *Handler) Create(c *gin.Context) {
	clubID, ok := pathID(c, "club_id")
	if !ok {
		return
	}
	isAdmin, ok := h.isAdmin(c, clubID)
	if !ok {
		return
	}
	if !isAdmin {
		response.Forbidden(c, "club admin required")
		return
	}
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	visibleTo := req.VisibleTo
	if visibleTo == "" {
		visibleTo = models.NewsVisibilityMembers
	}
	if visibleTo != models.NewsVisibilityMembers && visibleTo != models.NewsVisibilityPublic {
		response.BadRequest(c, "invalid visible_para")
		return
	}
	commentsAllowed := true
	if req.CommentsAllowed != nil {
		commentsAllowed = *req.CommentsAllowed
	}
	item, err := h.repo.Create(c.Request.Context(), clubID, currentUserID(c), CreateParams{
		Title:           req.Title,
		Content:         req.Content,
		Category:        req.Category,
		VisibleTo:       visibleTo,
		CommentsAllowed: commentsAllowed,
		ImageURL:        req.ImageURL,
	})
	if err != nil {
		h.logger.Error("create news failed", zap.Error(err))
		response.Internal(c, "failed to create news")
		return
	}
	response.Created(c, item)
}

// List handles GET /clubes/:club_id/noticias (active member).
func (h *Handler) List(c *gin.Context) {
	clubID, ok := pathID(c, "club_id")
	if !ok {
		return
	}
	if !h.requireActiveMember(c, clubID) {
		return
	}
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	list, err := h.repo.List(c.Request.Context(), clubID, skip, limit)
	if err != nil {
		response.Internal(c, "failed to list news")
		return
	}
	response.OK(c, list)
}

// Get handles GET /clubes/:club_id/noticias/:noticia_id (active member).
func (h *Handler) Get(c *gin.Context) {
	clubID, ok := pathID(c, "club_id")
	if !ok {
		return
	}
	newsID, ok := pathID(c, "noticia_id")
	if !ok {
		return
	}
	if !h.requireActiveMember(c, clubID) {
		return
	}
	item, err := h.repo.GetByID(c.Request.Context(), clubID, newsID)
	if err != nil {
		response.NotFound(c, "news not found")
		return
	}
	response.OK(c, item)
}

// canEdit reports whether the caller may modify a news item: its author or
// any club admin.
func (h *Handler) canEdit(c *gin.Context, clubID uuid.UUID, item *models.News) bool {
	if item.AuthorID == currentUserID(c) {
		return true
	}
	isAdmin, ok := h.isAdmin(c, clubID)
	return ok && isAdmin
}

// Update handles PUT /clubes/:club_id/noticias/:noticia_id (author or admin).
func (h *Handler) Update(c *gin.Context) {
	clubID, ok := pathID(c, "club_id")
	if !ok {
		return
	}
	newsID, ok := pathID(c, "noticia_id")
	if !ok {
		return
	}
	item, err := h.repo.GetByID(c.Request.Context(), clubID, newsID)
	if err != nil {
		response.NotFound(c, "news not found")
		return
	}
	if !h.canEdit(c, clubID, item) {
		response.Forbidden(c, "author or club admin required")
		return
	}
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	updated, err := h.repo.Update(c.Request.Context(), clubID, newsID, UpdateParams{
		Title:           req.Title,
		Content:         req.Content,
		Category:        req.Category,
		Status:          req.Status,
		VisibleTo:       req.VisibleTo,
		CommentsAllowed: req.CommentsAllowed,
		ImageURL:        req.ImageURL,
	})
	if err != nil {
		response.Internal(c, "failed to update news")
		return
	}
	response.OK(c, updated)
}

// Delete handles DELETE /clubes/:club_id/noticias/:noticia_id (author or admin).
func (h *Handler) Delete(c *gin.Context) {
	clubID, ok := pathID(c, "club_id")
	if !ok {
		return
	}
	newsID, ok := pathID(c, "noticia_id")
	if !ok {
		return
	}
	item, err := h.repo.GetByID(c.Request.Context(), clubID, newsID)
	if err != nil {
		response.NotFound(c, "news not found")
		return
	}
	if !h.canEdit(c, clubID, item) {
		response.Forbidden(c, "author or club admin required")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), clubID, newsID); err != nil {
		response.Internal(c, "failed to delete news")
		return
	}
	response.OK(c, gin.H{"message": "news deleted"})
}

// CreateComment handles POST .../comentarios (active member).
func (h *Handler) CreateComment(c *gin.Context) {
	clubID, ok := pathID(c, "club_id")
	if !ok {
		return
	}
	newsID, ok := pathID(c, "noticia_id")
	if !ok {
		return
	}
	if !h.requireActiveMember(c, clubID) {
		return
	}
	item, err := h.repo.GetByID(c.Request.Context(), clubID, newsID)
	if err != nil {
		response.NotFound(c, "news not found")
		return
	}
	if !item.CommentsAllowed {
		response.BadRequest(c, "comments disabled for this news")
		return
	}
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	comment, err := h.repo.CreateComment(c.Request.Context(), newsID, currentUserID(c), req.Content)
	if err != nil {
		response.Internal(c, "failed to create comment")
		return
	}
	response.Created(c, comment)
}

// ListComments handles GET .../comentarios (active member).
func (h *Handler) ListComments(c *gin.Context) {
	clubID, ok := pathID(c, "club_id")
	if !ok {
		return
	}
	newsID, ok := pathID(c, "noticia_id")
	if !ok {
		return
	}
	if !h.requireActiveMember(c, clubID) {
		return
	}
	list, err := h.repo.ListComments(c.Request.Context(), newsID)
	if err != nil {
		response.Internal(c, "failed to list comments")
		return
	}
	response.OK(c, list)
}

// DeleteComment handles DELETE .../comentarios/:comentario_id (comment
// author or club admin).
func (h *Handler) DeleteComment(c *gin.Context) {
	clubID, ok := pathID(c, "club_id")
	if !ok {
		return
	}
	newsID, ok := pathID(c, "noticia_id")
	if !ok {
		return
	}
	commentID, ok := pathID(c, "comentario_id")
	if !ok {
		return
	}
	comment, err := h.repo.GetComment(c.Request.Context(), newsID, commentID)
	if err != nil {
		response.NotFound(c, "comment not found")
		return
	}
	if comment.AuthorID != currentUserID(c) {
		isAdmin, ok := h.isAdmin(c, clubID)
		if !ok {
			return
		}
		if !isAdmin {
			response.Forbidden(c, "author or club admin required")
			return
		}
	}
	if err := h.repo.DeleteComment(c.Request.Context(), newsID, commentID); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "comment not found")
			return
		}
		response.Internal(c, "failed to delete comment")
		return
	}
	response.OK(c, gin.H{"message": "comment deleted"})
}
