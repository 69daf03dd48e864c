package favorites

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/greenvolunteer/backend/internal/middleware"
	"github.com/greenvolunteer/backend/pkg/response"
)

// Handler handles favorite HTTP endpoints.
type Handler struct {
	svc    *Service
	logger *zap.Logger
}

// NewHandler creates a favorites handler.
func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, logger: logger}
}

// Toggle handles POST /events/:id/favorite.
func (h *Handler) Toggle(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	favorited, err := h.svc.Toggle(c.Request.Context(), eventID, userID)
	if err != nil {
		if errors.Is(err, ErrEventNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		h.logger.Error("toggle favorite failed", zap.Error(err))
		response.Internal(c, "failed to toggle favorite")
		return
	}
	response.OK(c, gin.H{"event_id": eventID, "favorited": favorited})
}

// ListMine handles GET /me/favorites.
func (h *Handler) ListMine(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	list, err := h.svc.ListMine(c.Request.Context(), userID)
	if err != nil {
		response.Internal(c, "failed to list favorites")
		return
	}
	response.OK(c, list)
}

// Count handles GET /events/:id/favorites/count.
func (h *Handler) Count(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	n, err := h.svc.Count(c.Request.Context(), eventID)
	if err != nil {
		response.Internal(c, "failed to count favorites")
		return
	}
	response.OK(c, gin.H{"event_id": eventID, "count": n})
}
