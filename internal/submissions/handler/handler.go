package handler

import (
	"context"
	"io"
	"maps"
	"mime"
	"net/http"

	"ulok_portal_backend/internal/submissions/domain"
	"ulok_portal_backend/internal/submissions/transport"
	"ulok_portal_backend/platform/apperr"
	"ulok_portal_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	multipartMemory = 32 << 20

	msgInvalidRequest  = "invalid request"
	msgInvalidID       = "invalid submission id"
	msgNotMultipart    = "content type must be multipart/form-data"
	msgInvalidForm     = "unable to parse form data"
	msgUnreadablePhoto = "unable to read uploaded photo"
)

// SubmissionService is the lifecycle manager as seen by HTTP.
type SubmissionService interface {
	List(ctx context.Context, ownerID uuid.UUID, req transport.ListSubmissionsRequest) (transport.SubmissionListResponse, error)
	Get(ctx context.Context, ownerID, id uuid.UUID) (transport.SubmissionDetailResponse, error)
	Create(ctx context.Context, ownerID uuid.UUID, fields domain.Fields, photo *transport.PhotoUpload) (transport.SubmissionResponse, error)
	Update(ctx context.Context, ownerID, id uuid.UUID, fields domain.Fields, photo *transport.PhotoUpload) (transport.SubmissionResponse, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

// Handler handles HTTP requests for submissions.
type Handler struct {
	svc SubmissionService
}

// New creates a new submissions handler.
func New(svc SubmissionService) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the submission routes on rg.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.Get)
	rg.PATCH("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

// List returns the caller's submissions.
// GET /api/v1/submissions?limit&offset
func (h *Handler) List(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	var req transport.ListSubmissionsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	result, err := h.svc.List(c.Request.Context(), identity.UserID(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Get returns one owned submission with its status block.
// GET /api/v1/submissions/:id
func (h *Handler) Get(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	result, err := h.svc.Get(c.Request.Context(), identity.UserID(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.SubmissionDetailEnvelope{Data: result})
}

// Create accepts a multipart submission with its photo.
// POST /api/v1/submissions
func (h *Handler) Create(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	fields, photo, ok := parseMultipart(c)
	if !ok {
		return
	}
	if photo != nil {
		defer closePhoto(photo)
	}

	result, err := h.svc.Create(c.Request.Context(), identity.UserID(), fields, photo)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, transport.SubmissionEnvelope{Data: result})
}

// Update applies a partial multipart edit. Immutable fields are dropped.
// PATCH /api/v1/submissions/:id
func (h *Handler) Update(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	fields, photo, ok := parseMultipart(c)
	if !ok {
		return
	}
	if photo != nil {
		defer closePhoto(photo)
	}

	result, err := h.svc.Update(c.Request.Context(), identity.UserID(), id, fields, photo)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.SubmissionEnvelope{Data: result})
}

// Delete removes an owned submission and its stored files.
// DELETE /api/v1/submissions/:id
func (h *Handler) Delete(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), identity.UserID(), id); httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.DeleteResponse{Success: true})
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		// A malformed id cannot exist, so it is reported like a missing one.
		httpkit.HandleError(c, apperr.NotFound("submission not found"))
		return uuid.UUID{}, false
	}
	return id, true
}

func parseMultipart(c *gin.Context) (domain.Fields, *transport.PhotoUpload, bool) {
	mediaType, _, err := mime.ParseMediaType(c.GetHeader("Content-Type"))
	if err != nil || mediaType != "multipart/form-data" {
		httpkit.HandleError(c, apperr.UnsupportedMedia(msgNotMultipart))
		return domain.Fields{}, nil, false
	}
	if err := c.Request.ParseMultipartForm(multipartMemory); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidForm, nil)
		return domain.Fields{}, nil, false
	}

	form := c.Request.MultipartForm
	values := maps.Clone(form.Value)
	if values == nil {
		values = map[string][]string{}
	}
	domain.StripImmutable(values)
	fields := transport.DecodeFields(values)

	headers := form.File[transport.PhotoField]
	if len(headers) == 0 {
		return fields, nil, true
	}
	fh := headers[0]
	file, err := fh.Open()
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgUnreadablePhoto, nil)
		return domain.Fields{}, nil, false
	}
	return fields, &transport.PhotoUpload{
		FileName:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Content:     file,
	}, true
}

func closePhoto(photo *transport.PhotoUpload) {
	if closer, ok := photo.Content.(io.Closer); ok {
		_ = closer.Close()
	}
}
