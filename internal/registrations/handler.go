package registrations

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/greenvolunteer/backend/internal/middleware"
	"github.com/greenvolunteer/backend/internal/models"
	"github.com/greenvolunteer/backend/internal/organizations"
	"github.com/greenvolunteer/backend/internal/volunteers"
	"github.com/greenvolunteer/backend/pkg/response"
)

// RegisterRequest is the body for POST /events/:id/register.
type RegisterRequest struct {
	FullName string `json:"full_name" binding:"required,max=100"`
	Phone    string `json:"phone" binding:"required"`
	Reason   string `json:"reason" binding:"required,max=500"`
}

// Handler handles registration HTTP endpoints.
type Handler struct {
	svc        *Service
	orgs       *organizations.Repository
	volunteers *volunteers.Repository
	logger     *zap.Logger
}

// NewHandler creates a registrations handler.
func NewHandler(svc *Service, orgs *organizations.Repository, vols *volunteers.Repository, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, orgs: orgs, volunteers: vols, logger: logger}
}

// Register handles POST /events/:id/register.
func (h *Handler) Register(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	reg, err := h.svc.Register(c.Request.Context(), eventID, userID, ContactInfo{
		FullName: req.FullName,
		Phone:    req.Phone,
		Reason:   req.Reason,
	})
	if err != nil {
		h.respondError(c, err, "register")
		return
	}
	response.Created(c, reg)
}

// Approve handles PATCH /registrations/:id/approve (organizer).
func (h *Handler) Approve(c *gin.Context) {
	h.decide(c, models.RegistrationConfirmed)
}

// Reject handles PATCH /registrations/:id/reject (organizer).
func (h *Handler) Reject(c *gin.Context) {
	h.decide(c, models.RegistrationRejected)
}

func (h *Handler) decide(c *gin.Context, status models.RegistrationStatus) {
	regID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid registration id")
		return
	}
	org, ok := h.requireApprovedOrg(c)
	if !ok {
		return
	}
	if status == models.RegistrationConfirmed {
		err = h.svc.Approve(c.Request.Context(), regID, org.ID)
	} else {
		err = h.svc.Reject(c.Request.Context(), regID, org.ID)
	}
	if err != nil {
		h.respondError(c, err, "decide registration")
		return
	}
	response.OK(c, gin.H{"id": regID, "status": status})
}

// ListByEvent handles GET /events/:id/registrations (organizer).
func (h *Handler) ListByEvent(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	org, ok := h.requireApprovedOrg(c)
	if !ok {
		return
	}
	list, err := h.svc.ListByEvent(c.Request.Context(), eventID, org.ID)
	if err != nil {
		h.respondError(c, err, "list registrations")
		return
	}
	response.OK(c, list)
}

// ListMine handles GET /me/registrations (volunteer).
func (h *Handler) ListMine(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	vol, err := h.volunteers.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		response.Internal(c, "failed to load volunteer profile")
		return
	}
	if vol == nil {
		response.OK(c, []models.EventRegistration{})
		return
	}
	list, err := h.svc.ListByVolunteer(c.Request.Context(), vol.ID)
	if err != nil {
		response.Internal(c, "failed to load registrations")
		return
	}
	response.OK(c, list)
}

// Counts handles GET /events/:id/registrations/counts. Exposes both metrics:
// confirmed (public) and admitted (pending+confirmed, capacity).
func (h *Handler) Counts(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	confirmed, admitted, err := h.svc.Counts(c.Request.Context(), eventID)
	if err != nil {
		response.Internal(c, "failed to count registrations")
		return
	}
	response.OK(c, gin.H{"confirmed": confirmed, "admitted": admitted})
}

// requireApprovedOrg loads the caller's organization and checks it is
// admin-approved for organizer capabilities.
func (h *Handler) requireApprovedOrg(c *gin.Context) (*models.Organization, bool) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	org, err := h.orgs.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		response.Internal(c, "failed to load organization")
		return nil, false
	}
	if org == nil || !org.IsApproved {
		response.Forbidden(c, "organization not approved")
		return nil, false
	}
	return org, true
}

func (h *Handler) respondError(c *gin.Context, err error, op string) {
	switch {
	case errors.Is(err, ErrEventNotFound), errors.Is(err, ErrRegistrationNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, ErrForbidden):
		response.Forbidden(c, err.Error())
	case errors.Is(err, ErrEventNotApproved), errors.Is(err, ErrNotPending):
		response.UnprocessableEntity(c, err.Error())
	case errors.Is(err, ErrAlreadyRegistered), errors.Is(err, ErrCapacityExceeded):
		response.Conflict(c, err.Error())
	case errors.Is(err, ErrInvalidContact):
		response.BadRequest(c, err.Error())
	default:
		h.logger.Error(op+" failed", zap.Error(err))
		response.Internal(c, "something went wrong, try again later")
	}
}
