package events

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

// CreateRequest is the body for POST /clubes/:club_id/eventos.
type CreateRequest struct {
	Name            string  `json:"nombre" binding:"required"`
	Description     *string `json:"descripcion"`
	Type            *string `json:"tipo"`
	StartsAt        string  `json:"fecha_inicio" binding:"required"`
	EndsAt          *string `json:"fecha_fin"`
	StartTime       *string `json:"hora_inicio"`
	EndTime         *string `json:"hora_fin"`
	Location        *string `json:"ubicacion"`
	MaxCapacity     *int    `json:"aforo_maximo"`
	ImageURL        *string `json:"imagen_url"`
	CommentsAllowed *bool   `json:"permite_comentarios"`
}

// UpdateRequest is the body for PUT /clubes/:club_id/eventos/:evento_id.
type UpdateRequest struct {
	Name            *string `json:"nombre"`
	Description     *string `json:"descripcion"`
	Type            *string `json:"tipo"`
	StartsAt        *string `json:"fecha_inicio"`
	EndsAt          *string `json:"fecha_fin"`
	StartTime       *string `json:"hora_inicio"`
	EndTime         *string `json:"hora_fin"`
	Location        *string `json:"ubicacion"`
	MaxCapacity     *int    `json:"aforo_maximo"`
	ImageURL        *string `json:"imagen_url"`
	Status          *string `json:"estado"`
	CommentsAllowed *bool   `json:"permite_comentarios"`
}

// AttendanceRequest is the body for POST .../asistencia.
type AttendanceRequest struct {
	Status string `json:"estado" binding:"required"`
}

// Handler handles event HTTP endpoints.
type Handler struct {
	repo     *Repository
	clubRepo *clubs.Repository
	logger   *zap.Logger
}

// NewHandler creates an events handler.
func NewHandler(repo *Repository, clubRepo *clubs.Repository, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, clubRepo: clubRepo, logger: logger}
}

func currentUserID(c *gin.Context) uuid.UUID {
	return c.MustGet("user_id").(uuid.UUID)
}

func parseIDs(c *gin.Context) (clubID, eventID uuid.UUID, ok bool) {
	clubID, err := uuid.Parse(c.Param("club_id"))
	if err != nil {
		response.BadRequest(c, "invalid id")
		return uuid.Nil, uuid.Nil, false
	}
	if raw := c.Param("evento_id"); raw != "" {
		eventID, err = uuid.Parse(raw)
		if err != nil {
			response.BadRequest(c, "invalid id")
			return uuid.Nil, uuid.Nil, false
		}
	}
	return clubID, eventID, true
}

func (h *Handler) requireAdmin(c *gin.Context, clubID uuid.UUID) bool {
	isAdmin, err := h.clubRepo.IsAdmin(c.Request.Context(), clubID, currentUserID(c))
	if err != nil {
		response.Internal(c, "authorization check failed")
		return false
	}
	if !isAdmin {
		response.Forbidden(c, "club admin required")
		return false
	}
	return true
}

// requireMember gates reads: any membership row grants access, so past
// members keep event history.
func (h *Handler) requireMember(c *gin.Context, clubID uuid.UUID) bool {
	isMember, err := h.clubRepo.IsMember(c.Request.Context(), clubID, currentUserID(c))
	if err != nil {
		response.Internal(c, "membership check failed")
		return false
	}
	if !isMember {
		response.Forbidden(c, "not a club member")
		return false
	}
	return true
}

// requireActiveMember gates RSVP and attendee listings.
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

// Create handles POST /clubes/:club_id/eventos (club admin).
func (h *Handler) Create(c *gin.Context) {
	clubID, _, ok := parseIDs(c)
	if !ok {
		return
	}
	if !h.requireAdmin(c, clubID) {
		return
	}
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if req.MaxCapacity != nil && *req.MaxCapacity <= 0 {
		response.BadRequest(c, "aforo_maximo must be positive")
		return
	}
	commentsAllowed := true
	if req.CommentsAllowed != nil {
		commentsAllowed = *req.CommentsAllowed
	}
	event, err := h.repo.Create(c.Request.Context(), clubID, CreateParams{
		Name:            req.Name,
		Description:     req.Description,
		Type:            req.Type,
		StartsAt:        req.StartsAt,
		EndsAt:          req.EndsAt,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		Location:        req.Location,
		MaxCapacity:     req.MaxCapacity,
		ImageURL:        req.ImageURL,
		CommentsAllowed: commentsAllowed,
		ResponsibleID:   currentUserID(c),
	})
	if err != nil {
		h.logger.Error("create event failed", zap.Error(err))
		response.Internal(c, "failed to create event")
		return
	}
	response.Created(c, event)
}

// List handles GET /clubes/:club_id/eventos?skip=&limit=.
func (h *Handler) List(c *gin.Context) {
	clubID, _, ok := parseIDs(c)
	if !ok {
		return
	}
	if !h.requireMember(c, clubID) {
		return
	}
	skip := queryInt(c, "skip", 0)
	limit := queryInt(c, "limit", 20)
	list, err := h.repo.List(c.Request.Context(), clubID, skip, limit)
	if err != nil {
		response.Internal(c, "failed to list events")
		return
	}
	response.OK(c, list)
}

// Get handles GET /clubes/:club_id/eventos/:evento_id.
func (h *Handler) Get(c *gin.Context) {
	clubID, eventID, ok := parseIDs(c)
	if !ok {
		return
	}
	if !h.requireMember(c, clubID) {
		return
	}
	event, err := h.repo.GetByID(c.Request.Context(), clubID, eventID)
	if err != nil {
		response.NotFound(c, "event not found")
		return
	}
	response.OK(c, event)
}

// Update handles PUT /clubes/:club_id/eventos/:evento_id (club admin).
func (h *Handler) Update(c *gin.Context) {
	clubID, eventID, ok := parseIDs(c)
	if !ok {
		return
	}
	if !h.requireAdmin(c, clubID) {
		return
	}
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if req.MaxCapacity != nil && *req.MaxCapacity <= 0 {
		response.BadRequest(c, "aforo_maximo must be positive")
		return
	}
	event, err := h.repo.Update(c.Request.Context(), clubID, eventID, UpdateParams{
		Name:            req.Name,
		Description:     req.Description,
		Type:            req.Type,
		StartsAt:        req.StartsAt,
		EndsAt:          req.EndsAt,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		Location:        req.Location,
		MaxCapacity:     req.MaxCapacity,
		ImageURL:        req.ImageURL,
		Status:          req.Status,
		CommentsAllowed: req.CommentsAllowed,
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "event not found")
			return
		}
		h.logger.Error("update event failed", zap.Error(err))
		response.Internal(c, "failed to update event")
		return
	}
	response.OK(c, event)
}

// Delete handles DELETE /clubes/:club_id/eventos/:evento_id (club admin).
func (h *Handler) Delete(c *gin.Context) {
	clubID, eventID, ok := parseIDs(c)
	if !ok {
		return
	}
	if !h.requireAdmin(c, clubID) {
		return
	}
	if err := h.repo.Delete(c.Request.Context(), clubID, eventID); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "event not found")
			return
		}
		response.Internal(c, "failed to delete event")
		return
	}
	response.OK(c, gin.H{"message": "event deleted"})
}

// SetAttendance handles POST /clubes/:club_id/eventos/:evento_id/asistencia
// (active member). The response carries the effective status, which may be
// lista_espera when the event is full.
func (h *Handler) SetAttendance(c *gin.Context) {
	clubID, eventID, ok := parseIDs(c)
	if !ok {
		return
	}
	if !h.requireActiveMember(c, clubID) {
		return
	}
	var req AttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if !models.ValidAttendanceRequest(req.Status) {
		response.BadRequest(c, "invalid attendance status")
		return
	}
	attendance, err := h.repo.SetAttendance(c.Request.Context(), clubID, eventID, currentUserID(c), req.Status)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "event not found")
			return
		}
		h.logger.Error("set attendance failed", zap.Error(err))
		response.Internal(c, "failed to record attendance")
		return
	}
	response.OK(c, attendance)
}

// ListAttendees handles GET .../asistencia (active member): confirmed and
// waitlisted rows only.
func (h *Handler) ListAttendees(c *gin.Context) {
	clubID, eventID, ok := parseIDs(c)
	if !ok {
		return
	}
	if !h.requireActiveMember(c, clubID) {
		return
	}
	list, err := h.repo.ListAttendees(c.Request.Context(), eventID)
	if err != nil {
		response.Internal(c, "failed to list attendees")
		return
	}
	response.OK(c, list)
}

// MyAttendance handles GET .../mi-asistencia: the caller's RSVP row, 404
// when none exists so the frontend can distinguish "never registered".
func (h *Handler) MyAttendance(c *gin.Context) {
	clubID, eventID, ok := parseIDs(c)
	if !ok {
		return
	}
	if !h.requireMember(c, clubID) {
		return
	}
	attendance, err := h.repo.GetMyAttendance(c.Request.Context(), eventID, currentUserID(c))
	if err != nil {
		response.NotFound(c, "no attendance record")
		return
	}
	response.OK(c, attendance)
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
