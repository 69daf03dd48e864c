package volunteers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/greenvolunteer/backend/internal/middleware"
	"github.com/greenvolunteer/backend/pkg/response"
)

// UpdateRequest is the body for PATCH /me/volunteer.
type UpdateRequest struct {
	FullName     string `json:"full_name" binding:"required,max=100"`
	Email        string `json:"email" binding:"omitempty,email"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	Skills       string `json:"skills"`
	Bio          string `json:"bio"`
	Availability string `json:"availability" binding:"omitempty,oneof=available busy inactive"`
}

// Handler handles volunteer profile HTTP endpoints.
type Handler struct {
	repo *Repository
}

// NewHandler creates a volunteers handler.
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// GetMe handles GET /me/volunteer. Creates the profile lazily like any other
// first interaction with event features.
func (h *Handler) GetMe(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	email, _ := c.MustGet(middleware.ContextUserEmail).(string)
	vol, err := h.repo.GetOrCreate(c.Request.Context(), userID, "", email)
	if err != nil {
		response.Internal(c, "failed to load profile")
		return
	}
	response.OK(c, vol)
}

// UpdateMe handles PATCH /me/volunteer.
func (h *Handler) UpdateMe(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	vol, err := h.repo.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		response.Internal(c, "failed to load profile")
		return
	}
	if vol == nil {
		response.NotFound(c, "volunteer profile not found")
		return
	}
	vol.FullName = req.FullName
	vol.Email = req.Email
	vol.Phone = req.Phone
	vol.Address = req.Address
	vol.Skills = req.Skills
	vol.Bio = req.Bio
	if req.Availability != "" {
		vol.Availability = req.Availability
	}
	if err := h.repo.Update(c.Request.Context(), vol); err != nil {
		response.Internal(c, "failed to update profile")
		return
	}
	response.OK(c, vol)
}
