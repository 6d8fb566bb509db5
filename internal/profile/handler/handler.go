package handler

import (
	"context"
	"net/http"

	"ulok_portal_backend/internal/profile/repository"
	"ulok_portal_backend/internal/profile/transport"
	"ulok_portal_backend/platform/apperr"
	"ulok_portal_backend/platform/httpkit"
	"ulok_portal_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// ProfileService is what the handler needs from the profile service.
type ProfileService interface {
	Register(ctx context.Context, userID uuid.UUID, email string, req transport.RegisterProfileRequest) (repository.Profile, bool, error)
	Get(ctx context.Context, userID uuid.UUID) (repository.Profile, error)
	Update(ctx context.Context, userID uuid.UUID, req transport.UpdateProfileRequest) (repository.Profile, error)
}

type Handler struct {
	svc ProfileService
	val *validator.Validator
}

func New(svc ProfileService, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Register)
	rg.GET("", h.Get)
	rg.PATCH("", h.Update)
}

func (h *Handler) Register(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req transport.RegisterProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if !h.validate(c, req) {
		return
	}

	profile, created, err := h.svc.Register(c.Request.Context(), identity.UserID(), identity.Email(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	httpkit.JSON(c, status, transport.ProfileEnvelope{Data: toResponse(profile)})
}

func (h *Handler) Get(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	profile, err := h.svc.Get(c.Request.Context(), identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ProfileEnvelope{Data: toResponse(profile)})
}

func (h *Handler) Update(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req transport.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if !h.validate(c, req) {
		return
	}

	profile, err := h.svc.Update(c.Request.Context(), identity.UserID(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ProfileEnvelope{Data: toResponse(profile)})
}

func (h *Handler) validate(c *gin.Context, req interface{}) bool {
	if err := h.val.Struct(req); err != nil {
		httpkit.HandleError(c, apperr.ValidationFields(msgValidationFailed, validator.FieldErrors(err)))
		return false
	}
	return true
}

func toResponse(p repository.Profile) transport.ProfileResponse {
	return transport.ProfileResponse{
		ID:        p.ID.String(),
		Email:     p.Email,
		FullName:  p.FullName,
		Phone:     p.Phone,
		Company:   p.Company,
		Address:   p.Address,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
