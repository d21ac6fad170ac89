package documents

import (
	"errors"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aeroclub/backend/internal/models"
	"github.com/aeroclub/backend/pkg/response"
	"github.com/aeroclub/backend/pkg/storage"
)

// UpsertRequest is the body for POST /documentacion/me. Dates are ISO 8601.
type UpsertRequest struct {
	RCNumber         *string `json:"rc_numero"`
	RCIssuedAt       *string `json:"rc_fecha_emision"`
	RCExpiresAt      *string `json:"rc_fecha_vencimiento"`
	LicenseNumber    *string `json:"carnet_numero"`
	LicenseIssuedAt  *string `json:"carnet_fecha_emision"`
	LicenseExpiresAt *string `json:"carnet_fecha_vencimiento"`
}

// Handler handles regulatory documentation endpoints.
type Handler struct {
	repo   *Repository
	s3     *storage.S3
	logger *zap.Logger
}

// NewHandler creates a documents handler.
func NewHandler(repo *Repository, s3 *storage.S3, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, s3: s3, logger: logger}
}

func currentUserID(c *gin.Context) uuid.UUID {
	return c.MustGet("user_id").(uuid.UUID)
}

func parseDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, *s); err == nil {
			return &t, nil
		}
	}
	return nil, errors.New("invalid date")
}

// Me handles GET /documentacion/me. A user without a record gets an empty
// one rather than a 404, so the frontend form can always render.
func (h *Handler) Me(c *gin.Context) {
	userID := currentUserID(c)
	doc, err := h.repo.GetByUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.OK(c, models.RegulatoryDocument{UserID: userID})
			return
		}
		response.Internal(c, "failed to read documentation")
		return
	}
	response.OK(c, doc)
}

// UpsertMe handles POST /documentacion/me.
func (h *Handler) UpsertMe(c *gin.Context) {
	var req UpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	p := UpsertParams{RCNumber: req.RCNumber, LicenseNumber: req.LicenseNumber}
	var err error
	if p.RCIssuedAt, err = parseDate(req.RCIssuedAt); err != nil {
		response.BadRequest(c, "invalid rc_fecha_emision")
		return
	}
	if p.RCExpiresAt, err = parseDate(req.RCExpiresAt); err != nil {
		response.BadRequest(c, "invalid rc_fecha_vencimiento")
		return
	}
	if p.LicenseIssuedAt, err = parseDate(req.LicenseIssuedAt); err != nil {
		response.BadRequest(c, "invalid carnet_fecha_emision")
		return
	}
	if p.LicenseExpiresAt, err = parseDate(req.LicenseExpiresAt); err != nil {
		response.BadRequest(c, "invalid carnet_fecha_vencimiento")
		return
	}
	doc, err := h.repo.Upsert(c.Request.Context(), currentUserID(c), p)
	if err != nil {
		h.logger.Error("upsert documentation failed", zap.Error(err))
		response.Internal(c, "failed to save documentation")
		return
	}
	response.OK(c, doc)
}

func validKind(kind string) bool {
	return kind == models.DocumentFileRC || kind == models.DocumentFileLicense
}

// UploadFile handles POST /documentacion/me/archivos/:tipo where :tipo is
// rc or carnet. Multipart upload streamed to S3.
func (h *Handler) UploadFile(c *gin.Context) {
	kind := c.Param("tipo")
	if !validKind(kind) {
		response.BadRequest(c, "invalid document type")
		return
	}
	file, header, err := c.Request.FormFile("archivo")
	if err != nil {
		response.BadRequest(c, "missing file")
		return
	}
	defer file.Close()

	if header.Size > storage.MaxDocumentFileSize {
		response.BadRequest(c, "file too large")
		return
	}
	contentType := header.Header.Get("Content-Type")
	if !storage.ValidateDocumentFileType(contentType, header.Filename) {
		response.BadRequest(c, "unsupported file type")
		return
	}
	if contentType == "" {
		contentType = storage.ContentTypeForFilename(header.Filename)
	}

	userID := currentUserID(c)
	key := storage.DocumentKey(userID.String(), kind, header.Filename)
	if err := h.s3.Upload(c.Request.Context(), key, contentType, file, header.Size); err != nil {
		h.logger.Error("document upload failed", zap.Error(err), zap.String("key", key))
		response.Internal(c, "failed to store file")
		return
	}

	doc, err := h.repo.SetFile(c.Request.Context(), userID, kind, header.Filename, contentType, key)
	if err != nil {
		response.Internal(c, "failed to record file")
		return
	}
	response.Created(c, doc)
}

// DownloadFile handles GET /documentacion/me/archivos/:tipo: streams the
// stored file. 404 both when the slot is empty and when the object is gone
// from storage.
func (h *Handler) DownloadFile(c *gin.Context) {
	h.streamFile(c, currentUserID(c))
}

// AdminGetUser handles GET /documentacion/usuarios/:user_id (superadmin).
func (h *Handler) AdminGetUser(c *gin.Context) {
	targetID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		response.BadRequest(c, "invalid id")
		return
	}
	doc, err := h.repo.GetByUser(c.Request.Context(), targetID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "no documentation record")
			return
		}
		response.Internal(c, "failed to read documentation")
		return
	}
	response.OK(c, doc)
}

// AdminDownloadFile handles GET /documentacion/usuarios/:user_id/archivos/:tipo
// (superadmin).
func (h *Handler) AdminDownloadFile(c *gin.Context) {
	targetID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		response.BadRequest(c, "invalid id")
		return
	}
	h.streamFile(c, targetID)
}

func (h *Handler) streamFile(c *gin.Context, userID uuid.UUID) {
	kind := c.Param("tipo")
	if !validKind(kind) {
		response.BadRequest(c, "invalid document type")
		return
	}
	key, name, mime, err := h.repo.FileKey(c.Request.Context(), userID, kind)
	if err != nil {
		response.NotFound(c, "file not found")
		return
	}
	body, ct, err := h.s3.GetObjectStream(c.Request.Context(), key)
	if err != nil {
		h.logger.Warn("document fetch failed", zap.Error(err), zap.String("key", key))
		response.NotFound(c, "file not found")
		return
	}
	defer body.Close()
	if ct == "" {
		ct = mime
	}
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Header("Content-Type", ct)
	c.Status(200)
	if _, err := io.Copy(c.Writer, body); err != nil {
		h.logger.Warn("document stream interrupted", zap.Error(err), zap.String("key", key))
	}
}
