package reviews

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

// CreateRequest is the body for POST /organizations/:id/reviews.
type CreateRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"max=1000"`
}

// Handler handles review HTTP endpoints.
type Handler struct {
	repo   *Repository
	orgs   *organizations.Repository
	logger *zap.Logger
}

// NewHandler creates a reviews handler.
func NewHandler(repo *Repository, orgs *organizations.Repository, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, orgs: orgs, logger: logger}
}

// Create handles POST /organizations/:id/reviews.
func (h *Handler) Create(c *gin.Context) {
	orgID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid organization id")
		return
	}
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	org, err := h.orgs.GetByID(c.Request.Context(), orgID)
	if err != nil {
		response.Internal(c, "failed to load organization")
		return
	}
	if org == nil || !org.IsActive {
		response.NotFound(c, "organization not found")
		return
	}

	rev := &models.Review{
		OrganizationID: orgID,
		UserID:         userID,
		Rating:         req.Rating,
		Comment:        req.Comment,
	}
	if err := h.repo.Create(c.Request.Context(), rev); err != nil {
		if errors.Is(err, ErrAlreadyReviewed) {
			response.Conflict(c, err.Error())
			return
		}
		h.logger.Error("create review failed", zap.Error(err))
		response.Internal(c, "failed to create review")
		return
	}
	response.Created(c, rev)
}

// ListByOrganization handles GET /organizations/:id/reviews. Includes the
// average rating alongside the list.
func (h *Handler) ListByOrganization(c *gin.Context) {
	orgID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid organization id")
		return
	}
	list, err := h.repo.ListByOrganization(c.Request.Context(), orgID)
	if err != nil {
		response.Internal(c, "failed to list reviews")
		return
	}
	avg, count, err := h.repo.AverageRating(c.Request.Context(), orgID)
	if err != nil {
		response.Internal(c, "failed to load rating")
		return
	}
	response.OK(c, gin.H{"reviews": list, "average_rating": avg, "count": count})
}

// Delete handles DELETE /admin/reviews/:id.
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid review id")
		return
	}
	ok, err := h.repo.Delete(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("delete review failed", zap.Error(err))
		response.Internal(c, "failed to delete review")
		return
	}
	if !ok {
		response.NotFound(c, "review not found")
		return
	}
	response.NoContent(c)
}
