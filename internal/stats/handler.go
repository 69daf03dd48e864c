package stats

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/greenvolunteer/backend/pkg/response"
)

const defaultTopFavorites = 5

// Handler handles aggregation HTTP endpoints.
type Handler struct {
	repo   *Repository
	logger *zap.Logger
}

// NewHandler creates a stats handler.
func NewHandler(repo *Repository, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, logger: logger}
}

// Monthly handles GET /admin/stats/monthly: event counts for the trailing 12
// months, one bucket per month.
func (h *Handler) Monthly(c *gin.Context) {
	now := time.Now().UTC()
	raw, err := h.repo.MonthlyEventCounts(c.Request.Context(), now)
	if err != nil {
		h.logger.Error("monthly stats failed", zap.Error(err))
		response.Internal(c, "failed to load stats")
		return
	}
	response.OK(c, MonthlyBuckets(now, raw))
}

// Dashboard handles GET /admin/stats/dashboard.
func (h *Handler) Dashboard(c *gin.Context) {
	totals, err := h.repo.Dashboard(c.Request.Context())
	if err != nil {
		h.logger.Error("dashboard stats failed", zap.Error(err))
		response.Internal(c, "failed to load stats")
		return
	}
	response.OK(c, totals)
}

// TopFavorites handles GET /admin/stats/top-favorites?limit=5.
func (h *Handler) TopFavorites(c *gin.Context) {
	limit := defaultTopFavorites
	if s := c.Query("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= 50 {
			limit = n
		}
	}
	list, err := h.repo.TopFavorites(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("top favorites failed", zap.Error(err))
		response.Internal(c, "failed to load stats")
		return
	}
	response.OK(c, list)
}
