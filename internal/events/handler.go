package events

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/greenvolunteer/backend/internal/middleware"
	"github.com/greenvolunteer/backend/internal/models"
	"github.com/greenvolunteer/backend/internal/organizations"
	"github.com/greenvolunteer/backend/pkg/response"
	"github.com/greenvolunteer/backend/pkg/storage"
)

// Handler handles event HTTP endpoints.
type Handler struct {
	repo    *Repository
	orgs    *organizations.Repository
	storage *storage.S3
	logger  *zap.Logger
}

// NewHandler creates an events handler.
func NewHandler(repo *Repository, orgs *organizations.Repository, s3 *storage.S3, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, orgs: orgs, storage: s3, logger: logger}
}

// Create handles POST /events (organizer, multipart). New events enter the
// admin approval queue unless saved as a draft.
func (h *Handler) Create(c *gin.Context) {
	org, ok := h.requireApprovedOrg(c)
	if !ok {
		return
	}
	e, ok := h.eventFromForm(c)
	if !ok {
		return
	}
	e.OrganizationID = &org.ID
	e.Status = models.EventPending
	if c.PostForm("save_as_draft") == "true" {
		e.Status = models.EventDraft
	}

	if url, ok := h.uploadImage(c, org.ID); !ok {
		return
	} else {
		e.ImageURL = url
	}

	if err := h.repo.Create(c.Request.Context(), e); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			response.BadRequest(c, "unknown category")
			return
		}
		h.logger.Error("create event failed", zap.Error(err))
		response.Internal(c, "failed to create event")
		return
	}
	response.Created(c, e)
}

// Update handles PUT /events/:id (organizer, multipart). Owners may edit only
// their own events; the image is replaced when a new one is uploaded.
func (h *Handler) Update(c *gin.Context) {
	org, ok := h.requireApprovedOrg(c)
	if !ok {
		return
	}
	existing, ok := h.requireOwnedEvent(c, org.ID)
	if !ok {
		return
	}
	e, ok := h.eventFromForm(c)
	if !ok {
		return
	}
	existing.Title = e.Title
	existing.Description = e.Description
	existing.StartTime = e.StartTime
	existing.EndTime = e.EndTime
	existing.Location = e.Location
	existing.LocationCoords = e.LocationCoords
	existing.MaxVolunteers = e.MaxVolunteers
	existing.CategoryID = e.CategoryID

	if url, ok := h.uploadImage(c, org.ID); !ok {
		return
	} else if url != "" {
		existing.ImageURL = url
	}

	if err := h.repo.Update(c.Request.Context(), existing); err != nil {
		h.logger.Error("update event failed", zap.Error(err))
		response.Internal(c, "failed to update event")
		return
	}
	response.OK(c, existing)
}

// Delete handles DELETE /events/:id (organizer). Removes the event together
// with its registrations, favorites, comments and reports.
func (h *Handler) Delete(c *gin.Context) {
	org, ok := h.requireApprovedOrg(c)
	if !ok {
		return
	}
	e, ok := h.requireOwnedEvent(c, org.ID)
	if !ok {
		return
	}
	if _, err := h.repo.Delete(c.Request.Context(), e.ID); err != nil {
		h.logger.Error("delete event failed", zap.Error(err))
		response.Internal(c, "failed to delete event")
		return
	}
	response.NoContent(c)
}

// Submit handles PATCH /events/:id/submit (organizer): draft enters the
// approval queue.
func (h *Handler) Submit(c *gin.Context) {
	org, ok := h.requireApprovedOrg(c)
	if !ok {
		return
	}
	e, ok := h.requireOwnedEvent(c, org.ID)
	if !ok {
		return
	}
	h.transition(c, e.ID, models.EventPending, "")
}

// Complete handles PATCH /events/:id/complete (organizer).
func (h *Handler) Complete(c *gin.Context) {
	org, ok := h.requireApprovedOrg(c)
	if !ok {
		return
	}
	e, ok := h.requireOwnedEvent(c, org.ID)
	if !ok {
		return
	}
	h.transition(c, e.ID, models.EventCompleted, "")
}

// ListMine handles GET /me/events (organizer). All statuses.
func (h *Handler) ListMine(c *gin.Context) {
	org, ok := h.requireApprovedOrg(c)
	if !ok {
		return
	}
	list, err := h.repo.ListByOrganization(c.Request.Context(), org.ID)
	if err != nil {
		response.Internal(c, "failed to list events")
		return
	}
	response.OK(c, list)
}

// ListPublic handles GET /events. Only approved, unhidden events are visible,
// filtered by ?category and ?q and paginated with ?limit/?offset.
func (h *Handler) ListPublic(c *gin.Context) {
	f := ListFilter{Keyword: c.Query("q")}
	if s := c.Query("category"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			response.BadRequest(c, "invalid category id")
			return
		}
		f.CategoryID = &id
	}
	f.Limit = intQuery(c, "limit", 20)
	if f.Limit > 100 {
		f.Limit = 100
	}
	f.Offset = intQuery(c, "offset", 0)

	list, err := h.repo.ListPublic(c.Request.Context(), f)
	if err != nil {
		response.Internal(c, "failed to list events")
		return
	}
	response.OK(c, list)
}

// GetPublic handles GET /events/:id. Includes the confirmed registration count.
func (h *Handler) GetPublic(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	e, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Internal(c, "failed to load event")
		return
	}
	if e == nil || e.Status != models.EventApproved || e.IsHidden {
		response.NotFound(c, "event not found")
		return
	}
	confirmed, err := h.repo.ConfirmedCount(c.Request.Context(), id)
	if err != nil {
		response.Internal(c, "failed to load event")
		return
	}
	response.OK(c, gin.H{"event": e, "confirmed_count": confirmed})
}

// ListAll handles GET /admin/events?status=pending.
func (h *Handler) ListAll(c *gin.Context) {
	status := models.EventStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		response.BadRequest(c, "invalid status filter")
		return
	}
	list, err := h.repo.ListAll(c.Request.Context(), status)
	if err != nil {
		response.Internal(c, "failed to list events")
		return
	}
	response.OK(c, list)
}

// Approve handles PATCH /admin/events/:id/approve.
func (h *Handler) Approve(c *gin.Context) {
	h.adminTransition(c, models.EventApproved, "")
}

// Reject handles PATCH /admin/events/:id/reject.
func (h *Handler) Reject(c *gin.Context) {
	h.adminTransition(c, models.EventRejected, "")
}

// Hide handles PATCH /admin/events/:id/hide. Records the reason and timestamp.
func (h *Handler) Hide(c *gin.Context) {
	var req struct {
		Reason string `json:"reason" binding:"required,max=500"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	h.adminTransition(c, models.EventHidden, req.Reason)
}

// Unhide handles PATCH /admin/events/:id/unhide. Restores the event to the
// approved listing and clears the hide record.
func (h *Handler) Unhide(c *gin.Context) {
	h.adminTransition(c, models.EventApproved, "")
}

func (h *Handler) adminTransition(c *gin.Context, target models.EventStatus, reason string) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	h.transition(c, id, target, reason)
}

func (h *Handler) transition(c *gin.Context, id uuid.UUID, target models.EventStatus, reason string) {
	e, err := h.repo.Transition(c.Request.Context(), id, target, reason)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.NotFound(c, err.Error())
		case errors.Is(err, ErrInvalidTransition):
			response.UnprocessableEntity(c, err.Error())
		default:
			h.logger.Error("event transition failed", zap.String("target", string(target)), zap.Error(err))
			response.Internal(c, "failed to update event")
		}
		return
	}
	response.OK(c, e)
}

// eventFromForm parses and validates the multipart event fields. Writes the
// error response and returns false on invalid input.
func (h *Handler) eventFromForm(c *gin.Context) (*models.Event, bool) {
	e := &models.Event{
		Title:          c.PostForm("title"),
		Description:    c.PostForm("description"),
		Location:       c.PostForm("location"),
		LocationCoords: c.PostForm("location_coords"),
	}
	if e.Title == "" || len(e.Title) > 200 {
		response.BadRequest(c, "title required (max 200 chars)")
		return nil, false
	}
	if e.Description == "" {
		response.BadRequest(c, "description required")
		return nil, false
	}
	if e.Location == "" || len(e.Location) > 500 {
		response.BadRequest(c, "location required (max 500 chars)")
		return nil, false
	}
	var err error
	if e.StartTime, err = time.Parse(time.RFC3339, c.PostForm("start_time")); err != nil {
		response.BadRequest(c, "start_time must be RFC3339")
		return nil, false
	}
	if e.EndTime, err = time.Parse(time.RFC3339, c.PostForm("end_time")); err != nil {
		response.BadRequest(c, "end_time must be RFC3339")
		return nil, false
	}
	if !e.StartTime.Before(e.EndTime) {
		response.BadRequest(c, "start_time must be before end_time")
		return nil, false
	}
	if e.MaxVolunteers, err = strconv.Atoi(c.PostForm("max_volunteers")); err != nil || e.MaxVolunteers < 1 {
		response.BadRequest(c, "max_volunteers must be a positive integer")
		return nil, false
	}
	if s := c.PostForm("category_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			response.BadRequest(c, "invalid category id")
			return nil, false
		}
		e.CategoryID = &id
	}
	return e, true
}

// uploadImage validates and uploads the optional event cover image. Returns
// ("", true) when no image was sent.
func (h *Handler) uploadImage(c *gin.Context, orgID uuid.UUID) (string, bool) {
	file, err := c.FormFile("image")
	if err != nil {
		return "", true
	}
	ct, err := storage.ValidateUpload(storage.KindEventImage, file.Filename, file.Size)
	if err != nil {
		response.BadRequest(c, err.Error())
		return "", false
	}
	src, err := file.Open()
	if err != nil {
		response.Internal(c, "failed to read upload")
		return "", false
	}
	defer src.Close()
	key := storage.ObjectKey(storage.KindEventImage, orgID.String(), uuid.NewString()+"-"+file.Filename)
	url, err := h.storage.Upload(c.Request.Context(), storage.KindEventImage, key, ct, src, file.Size)
	if err != nil {
		h.logger.Error("event image upload failed", zap.Error(err))
		response.Internal(c, "failed to upload image")
		return "", false
	}
	return url, true
}

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

// requireOwnedEvent loads the :id event and checks the organization owns it.
func (h *Handler) requireOwnedEvent(c *gin.Context, orgID uuid.UUID) (*models.Event, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return nil, false
	}
	e, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Internal(c, "failed to load event")
		return nil, false
	}
	if e == nil {
		response.NotFound(c, "event not found")
		return nil, false
	}
	if e.OrganizationID == nil || *e.OrganizationID != orgID {
		response.Forbidden(c, "event belongs to another organization")
		return nil, false
	}
	return e, true
}

func intQuery(c *gin.Context, name string, def int) int {
	s := c.Query(name)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return def
	}
	return n
}
