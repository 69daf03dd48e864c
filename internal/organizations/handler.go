package organizations

import (
	"context"
	"mime/multipart"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/greenvolunteer/backend/internal/middleware"
	"github.com/greenvolunteer/backend/internal/models"
	"github.com/greenvolunteer/backend/pkg/response"
	"github.com/greenvolunteer/backend/pkg/storage"
)

// Handler handles organization HTTP endpoints.
type Handler struct {
	repo    *Repository
	storage *storage.S3
	logger  *zap.Logger
}

// NewHandler creates an organizations handler.
func NewHandler(repo *Repository, s3 *storage.S3, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, storage: s3, logger: logger}
}

// Register handles POST /organizations (multipart). Creates the caller's
// organization profile with optional avatar and verification document uploads.
func (h *Handler) Register(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	existing, err := h.repo.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		response.Internal(c, "failed to load organization")
		return
	}
	if existing != nil {
		response.Conflict(c, "organization profile already exists")
		return
	}

	p := profileFromForm(c)
	if err := ValidateProfile(p); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	org := &models.Organization{
		UserID:       userID,
		Name:         p.Name,
		OrgType:      p.OrgType,
		Description:  p.Description,
		FocusAreas:   p.FocusAreas,
		ContactEmail: p.ContactEmail,
		Phone:        p.Phone,
		Website:      p.Website,
		Address:      p.Address,
	}

	if url, ok := h.uploadFormFile(c, "avatar", storage.KindAvatar, userID); !ok {
		return
	} else {
		org.AvatarURL = url
	}
	if url, ok := h.uploadFormFile(c, "verification_docs", storage.KindDocument, userID); !ok {
		return
	} else {
		org.VerificationDocsURL = url
	}

	if err := h.repo.Create(c.Request.Context(), org); err != nil {
		h.logger.Error("create organization failed", zap.Error(err))
		response.Internal(c, "failed to create organization")
		return
	}
	response.Created(c, org)
}

// UpdateMe handles PUT /me/organization (multipart). Same validation rules as
// registration; files are replaced only when new ones are uploaded.
func (h *Handler) UpdateMe(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	org, err := h.repo.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		response.Internal(c, "failed to load organization")
		return
	}
	if org == nil {
		response.NotFound(c, "organization profile not found")
		return
	}

	p := profileFromForm(c)
	if err := ValidateProfile(p); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	org.Name = p.Name
	org.OrgType = p.OrgType
	org.Description = p.Description
	org.FocusAreas = p.FocusAreas
	org.ContactEmail = p.ContactEmail
	org.Phone = p.Phone
	org.Website = p.Website
	org.Address = p.Address

	if url, ok := h.uploadFormFile(c, "avatar", storage.KindAvatar, userID); !ok {
		return
	} else if url != "" {
		org.AvatarURL = url
	}
	if url, ok := h.uploadFormFile(c, "verification_docs", storage.KindDocument, userID); !ok {
		return
	} else if url != "" {
		org.VerificationDocsURL = url
	}

	if err := h.repo.Update(c.Request.Context(), org); err != nil {
		h.logger.Error("update organization failed", zap.Error(err))
		response.Internal(c, "failed to update organization")
		return
	}
	response.OK(c, org)
}

// GetMe handles GET /me/organization.
func (h *Handler) GetMe(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	org, err := h.repo.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		response.Internal(c, "failed to load organization")
		return
	}
	if org == nil {
		response.NotFound(c, "organization profile not found")
		return
	}
	response.OK(c, org)
}

// ListPublic handles GET /organizations. Only verified, active organizations
// appear in the public directory.
func (h *Handler) ListPublic(c *gin.Context) {
	list, err := h.repo.ListVerified(c.Request.Context())
	if err != nil {
		response.Internal(c, "failed to list organizations")
		return
	}
	response.OK(c, list)
}

// GetPublic handles GET /organizations/:id. Unverified organizations are not
// exposed publicly.
func (h *Handler) GetPublic(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid organization id")
		return
	}
	org, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Internal(c, "failed to load organization")
		return
	}
	if org == nil || !org.Verified || !org.IsActive {
		response.NotFound(c, "organization not found")
		return
	}
	response.OK(c, org)
}

// ListAll handles GET /admin/organizations.
func (h *Handler) ListAll(c *gin.Context) {
	list, err := h.repo.ListAll(c.Request.Context())
	if err != nil {
		response.Internal(c, "failed to list organizations")
		return
	}
	response.OK(c, list)
}

// Approve handles PATCH /admin/organizations/:id/approve.
func (h *Handler) Approve(c *gin.Context) {
	h.setFlag(c, h.repo.SetApproved, true, "approved")
}

// Verify handles PATCH /admin/organizations/:id/verify.
func (h *Handler) Verify(c *gin.Context) {
	h.setFlag(c, h.repo.SetVerified, true, "verified")
}

// Deactivate handles PATCH /admin/organizations/:id/deactivate.
func (h *Handler) Deactivate(c *gin.Context) {
	h.setFlag(c, h.repo.SetActive, false, "deactivated")
}

func (h *Handler) setFlag(c *gin.Context, set func(ctx context.Context, id uuid.UUID, v bool) (bool, error), value bool, label string) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid organization id")
		return
	}
	ok, err := set(c.Request.Context(), id, value)
	if err != nil {
		h.logger.Error("update organization flag failed", zap.String("flag", label), zap.Error(err))
		response.Internal(c, "failed to update organization")
		return
	}
	if !ok {
		response.NotFound(c, "organization not found")
		return
	}
	response.OK(c, gin.H{"id": id, "status": label})
}

func profileFromForm(c *gin.Context) Profile {
	return Profile{
		Name:         c.PostForm("name"),
		OrgType:      c.PostForm("org_type"),
		Description:  c.PostForm("description"),
		FocusAreas:   c.PostForm("focus_areas"),
		ContactEmail: c.PostForm("contact_email"),
		Phone:        c.PostForm("phone"),
		Website:      c.PostForm("website"),
		Address:      c.PostForm("address"),
	}
}

// uploadFormFile validates and uploads an optional multipart file. Returns
// ("", true) when the field is absent, and false after writing the error
// response when validation or upload fails.
func (h *Handler) uploadFormFile(c *gin.Context, field string, kind storage.UploadKind, ownerID uuid.UUID) (string, bool) {
	file, err := c.FormFile(field)
	if err != nil {
		return "", true
	}
	ct, err := storage.ValidateUpload(kind, file.Filename, file.Size)
	if err != nil {
		response.BadRequest(c, err.Error())
		return "", false
	}
	url, err := h.uploadMultipart(c, kind, ownerID, file, ct)
	if err != nil {
		h.logger.Error("upload failed", zap.String("field", field), zap.Error(err))
		response.Internal(c, "failed to upload file")
		return "", false
	}
	return url, true
}

func (h *Handler) uploadMultipart(c *gin.Context, kind storage.UploadKind, ownerID uuid.UUID, file *multipart.FileHeader, contentType string) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()
	key := storage.ObjectKey(kind, ownerID.String(), uuid.NewString()+"-"+file.Filename)
	return h.storage.Upload(c.Request.Context(), kind, key, contentType, src, file.Size)
}
