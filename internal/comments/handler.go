package comments

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/greenvolunteer/backend/internal/middleware"
	"github.com/greenvolunteer/backend/internal/models"
	"github.com/greenvolunteer/backend/internal/organizations"
	"github.com/greenvolunteer/backend/pkg/response"
)

// PostRequest is the body for POST /events/:id/comments.
type PostRequest struct {
	Content string `json:"content" binding:"required"`
}

// Handler handles event comment HTTP endpoints.
type Handler struct {
	svc    *Service
	orgs   *organizations.Repository
	logger *zap.Logger
}

// NewHandler creates a comments handler.
func NewHandler(svc *Service, orgs *organizations.Repository, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, orgs: orgs, logger: logger}
}

// Post handles POST /events/:id/comments.
func (h *Handler) Post(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	comment, err := h.svc.Post(c.Request.Context(), eventID, userID, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidContent):
			response.BadRequest(c, err.Error())
		case errors.Is(err, ErrEventNotFound):
			response.NotFound(c, err.Error())
		default:
			h.logger.Error("post comment failed", zap.Error(err))
			response.Internal(c, "failed to post comment")
		}
		return
	}
	response.Created(c, comment)
}

// List handles GET /events/:id/comments (public). Only visible comments are
// returned, newest first.
func (h *Handler) List(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	list, err := h.svc.ListVisible(c.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, ErrEventNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		response.Internal(c, "failed to list comments")
		return
	}
	response.OK(c, list)
}

// Delete handles DELETE /comments/:id. Admins, the author, and the organizer
// owning the event may remove a comment.
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid comment id")
		return
	}
	actor := Actor{
		UserID: c.MustGet(middleware.ContextUserID).(uuid.UUID),
	}
	if roleVal, ok := c.Get(middleware.ContextUserRole); ok {
		role, _ := roleVal.(string)
		actor.Role = models.Role(role)
	}
	if actor.Role == models.RoleOrganizer {
		org, err := h.orgs.GetByUserID(c.Request.Context(), actor.UserID)
		if err != nil {
			h.logger.Error("load organization failed", zap.Error(err))
			response.Internal(c, "failed to remove comment")
			return
		}
		if org != nil {
			actor.OrganizationID = org.ID
		}
	}

	if err := h.svc.Delete(c.Request.Context(), id, actor); err != nil {
		switch {
		case errors.Is(err, ErrCommentNotFound):
			response.NotFound(c, err.Error())
		case errors.Is(err, ErrForbidden):
			response.Forbidden(c, err.Error())
		default:
			h.logger.Error("remove comment failed", zap.Error(err))
			response.Internal(c, "failed to remove comment")
		}
		return
	}
	response.NoContent(c)
}
