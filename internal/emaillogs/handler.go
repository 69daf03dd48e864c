package emaillogs

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/greenvolunteer/backend/pkg/response"
)

// Handler handles email log HTTP endpoints (admin only).
type Handler struct {
	repo *Repository
}

// NewHandler creates an email logs handler.
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// ListByEvent handles GET /admin/events/:id/emails.
func (h *Handler) ListByEvent(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	list, err := h.repo.ListByEvent(c.Request.Context(), eventID)
	if err != nil {
		response.Internal(c, "failed to list email logs")
		return
	}
	response.OK(c, list)
}

// ListRecent handles GET /admin/emails?limit=50.
func (h *Handler) ListRecent(c *gin.Context) {
	limit := 50
	if s := c.Query("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}
	list, err := h.repo.ListRecent(c.Request.Context(), limit)
	if err != nil {
		response.Internal(c, "failed to list email logs")
		return
	}
	response.OK(c, list)
}
