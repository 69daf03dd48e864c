package contact

import (
	"fmt"
	"html"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/greenvolunteer/backend/pkg/queue"
	"github.com/greenvolunteer/backend/pkg/response"
)

// Request is the body for POST /contact.
type Request struct {
	Name    string `json:"name" binding:"required,max=100"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject" binding:"required,max=200"`
	Message string `json:"message" binding:"required,max=5000"`
}

// Handler handles the public contact form. Submissions are delivered to the
// platform inbox by the email worker; the sender goes on Reply-To.
type Handler struct {
	queue  *queue.Queue
	inbox  string
	logger *zap.Logger
}

// NewHandler creates a contact handler.
func NewHandler(q *queue.Queue, inbox string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{queue: q, inbox: inbox, logger: logger}
}

// Submit handles POST /contact.
func (h *Handler) Submit(c *gin.Context) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	body := fmt.Sprintf("<p><strong>From:</strong> %s (%s)</p><p>%s</p>",
		html.EscapeString(req.Name), html.EscapeString(req.Email), html.EscapeString(req.Message))
	err := h.queue.EnqueueEmail(c.Request.Context(), queue.EmailPayload{
		EmailType:    queue.EmailTypeContactForm,
		Recipient:    h.inbox,
		Subject:      "[Contact] " + req.Subject,
		BodyHTML:     body,
		ReplyToEmail: req.Email,
		ReplyToName:  req.Name,
	})
	if err != nil {
		h.logger.Error("enqueue contact email failed", zap.Error(err))
		response.Internal(c, "failed to submit message")
		return
	}
	response.OK(c, gin.H{"received": true})
}
