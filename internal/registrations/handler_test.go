package registrations

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenvolunteer/backend/internal/middleware"
	"github.com/greenvolunteer/backend/internal/models"
)

func newTestRouter(svc *Service, userID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(svc, nil, nil, nil)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserID, userID)
		c.Next()
	})
	r.POST("/events/:id/register", h.Register)
	return r
}

func postRegister(t *testing.T, r *gin.Engine, eventID string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/events/"+eventID+"/register", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterEndpointStatusMapping(t *testing.T) {
	store := newMemStore()
	orgID := uuid.New()
	approved := store.addEvent(models.EventApproved, 1, orgID)
	pending := store.addEvent(models.EventPending, 1, orgID)
	svc := newTestService(store)
	userID := uuid.New()
	router := newTestRouter(svc, userID)

	body := gin.H{"full_name": "Alex Tran", "phone": "0900000000", "reason": "helping"}

	// Happy path.
	w := postRegister(t, router, approved.String(), body)
	assert.Equal(t, http.StatusCreated, w.Code)

	// Duplicate registration.
	w = postRegister(t, router, approved.String(), body)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Full event.
	otherRouter := newTestRouter(svc, uuid.New())
	w = postRegister(t, otherRouter, approved.String(), body)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Event not open for registration.
	w = postRegister(t, router, pending.String(), body)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// Unknown event.
	w = postRegister(t, router, uuid.NewString(), body)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Malformed event id.
	w = postRegister(t, router, "not-a-uuid", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Missing required fields fail binding.
	w = postRegister(t, router, approved.String(), gin.H{"full_name": "Alex Tran"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterEndpointResponseBody(t *testing.T) {
	store := newMemStore()
	eventID := store.addEvent(models.EventApproved, 3, uuid.New())
	svc := newTestService(store)
	router := newTestRouter(svc, uuid.New())

	w := postRegister(t, router, eventID.String(), gin.H{
		"full_name": "Alex Tran", "phone": "0900000000", "reason": "helping out",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Success bool                     `json:"success"`
		Data    models.EventRegistration `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, eventID, resp.Data.EventID)
	assert.Equal(t, models.RegistrationPending, resp.Data.Status)
	assert.NotEqual(t, uuid.Nil, resp.Data.ID)

	// The stored row matches what was returned.
	stored, err := store.GetByID(context.Background(), resp.Data.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "Alex Tran", stored.FullName)
}
