package reports

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/greenvolunteer/backend/internal/middleware"
	"github.com/greenvolunteer/backend/internal/models"
	"github.com/greenvolunteer/backend/pkg/response"
)

const maxReasonLength = 500

// normalizeReason trims the reason and checks the length cap, counted in
// runes so multibyte names are not penalized.
func normalizeReason(raw string) (string, bool) {
	reason := strings.TrimSpace(raw)
	if reason == "" || utf8.RuneCountInString(reason) > maxReasonLength {
		return "", false
	}
	return reason, true
}

// CreateRequest is the body for POST /events/:id/report.
type CreateRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// UpdateStatusRequest is the body for PATCH /admin/reports/:id.
type UpdateStatusRequest struct {
	Status models.ReportStatus `json:"status" binding:"required,oneof=pending reviewed dismissed"`
}

// Handler handles event report HTTP endpoints.
type Handler struct {
	repo   *Repository
	logger *zap.Logger
}

// NewHandler creates a reports handler.
func NewHandler(repo *Repository, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, logger: logger}
}

// Create handles POST /events/:id/report.
func (h *Handler) Create(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	reason, ok := normalizeReason(req.Reason)
	if !ok {
		response.BadRequest(c, "reason required (max 500 chars)")
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	rep := &models.EventReport{
		EventID:        eventID,
		ReporterUserID: userID,
		Reason:         reason,
	}
	if err := h.repo.Create(c.Request.Context(), rep); err != nil {
		switch {
		case errors.Is(err, ErrDuplicateReport):
			response.Conflict(c, err.Error())
		case errors.Is(err, ErrEventNotFound):
			response.NotFound(c, err.Error())
		default:
			h.logger.Error("create report failed", zap.Error(err))
			response.Internal(c, "failed to file report")
		}
		return
	}
	response.Created(c, rep)
}

// List handles GET /admin/reports?status=pending.
func (h *Handler) List(c *gin.Context) {
	status := models.ReportStatus(c.Query("status"))
	if status != "" {
		switch status {
		case models.ReportPending, models.ReportReviewed, models.ReportDismissed:
		default:
			response.BadRequest(c, "invalid status filter")
			return
		}
	}
	list, err := h.repo.List(c.Request.Context(), status)
	if err != nil {
		response.Internal(c, "failed to list reports")
		return
	}
	response.OK(c, list)
}

// Get handles GET /admin/reports/:id.
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid report id")
		return
	}
	rep, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Internal(c, "failed to load report")
		return
	}
	if rep == nil {
		response.NotFound(c, "report not found")
		return
	}
	response.OK(c, rep)
}

// ListByEvent handles GET /admin/events/:id/reports.
func (h *Handler) ListByEvent(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	list, err := h.repo.ListByEvent(c.Request.Context(), eventID)
	if err != nil {
		response.Internal(c, "failed to list reports")
		return
	}
	response.OK(c, list)
}

// UpdateStatus handles PATCH /admin/reports/:id.
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid report id")
		return
	}
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	ok, err := h.repo.SetStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		h.logger.Error("update report status failed", zap.Error(err))
		response.Internal(c, "failed to update report")
		return
	}
	if !ok {
		response.NotFound(c, "report not found")
		return
	}
	response.OK(c, gin.H{"id": id, "status": req.Status})
}

// Delete handles DELETE /admin/reports/:id.
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid report id")
		return
	}
	ok, err := h.repo.Delete(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("delete report failed", zap.Error(err))
		response.Internal(c, "failed to delete report")
		return
	}
	if !ok {
		response.NotFound(c, "report not found")
		return
	}
	response.NoContent(c)
}
