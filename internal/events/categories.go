package events

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/greenvolunteer/backend/internal/models"
	"github.com/greenvolunteer/backend/pkg/response"
)

// ErrCategoryExists is returned for a duplicate category name.
var ErrCategoryExists = errors.New("category name already exists")

// CategoryRepository handles event category persistence.
type CategoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository creates a category repository.
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

// Create inserts a category.
func (r *CategoryRepository) Create(ctx context.Context, cat *models.EventCategory) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO event_categories (id, name) VALUES (gen_random_uuid(), $1) RETURNING id, created_at`,
		cat.Name).Scan(&cat.ID, &cat.CreatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrCategoryExists
	}
	return err
}

// List returns all categories ordered by name.
func (r *CategoryRepository) List(ctx context.Context) ([]models.EventCategory, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, created_at FROM event_categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.EventCategory
	for rows.Next() {
		var cat models.EventCategory
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, cat)
	}
	return list, rows.Err()
}

// GetByID returns a category, or nil.
func (r *CategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.EventCategory, error) {
	var cat models.EventCategory
	err := r.pool.QueryRow(ctx, `SELECT id, name, created_at FROM event_categories WHERE id = $1`, id).
		Scan(&cat.ID, &cat.Name, &cat.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

// Delete removes a category. Events keep running with a null category.
func (r *CategoryRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM event_categories WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// CategoryHandler handles category HTTP endpoints.
type CategoryHandler struct {
	repo *CategoryRepository
}

// NewCategoryHandler creates a category handler.
func NewCategoryHandler(repo *CategoryRepository) *CategoryHandler {
	return &CategoryHandler{repo: repo}
}

// List handles GET /categories.
func (h *CategoryHandler) List(c *gin.Context) {
	list, err := h.repo.List(c.Request.Context())
	if err != nil {
		response.Internal(c, "failed to list categories")
		return
	}
	response.OK(c, list)
}

// Create handles POST /admin/categories.
func (h *CategoryHandler) Create(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required,max=100"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	cat := &models.EventCategory{Name: strings.TrimSpace(req.Name)}
	if cat.Name == "" {
		response.BadRequest(c, "name required")
		return
	}
	if err := h.repo.Create(c.Request.Context(), cat); err != nil {
		if errors.Is(err, ErrCategoryExists) {
			response.Conflict(c, err.Error())
			return
		}
		response.Internal(c, "failed to create category")
		return
	}
	response.Created(c, cat)
}

// Delete handles DELETE /admin/categories/:id.
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid category id")
		return
	}
	ok, err := h.repo.Delete(c.Request.Context(), id)
	if err != nil {
		response.Internal(c, "failed to delete category")
		return
	}
	if !ok {
		response.NotFound(c, "category not found")
		return
	}
	response.NoContent(c)
}
