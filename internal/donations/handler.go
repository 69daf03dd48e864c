package donations

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/greenvolunteer/backend/internal/models"
	"github.com/greenvolunteer/backend/pkg/response"
)

// CreateRequest is the body for POST /donations.
type CreateRequest struct {
	DonorName   string `json:"donor_name" binding:"required,max=100"`
	Phone       string `json:"phone" binding:"required,max=20"`
	AmountCents int64  `json:"amount_cents" binding:"required,gt=0"`
	Message     string `json:"message" binding:"max=500"`
}

// Handler handles donation HTTP endpoints.
type Handler struct {
	repo   *Repository
	momo   *MomoClient
	logger *zap.Logger
}

// NewHandler creates a donations handler.
func NewHandler(repo *Repository, momo *MomoClient, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, momo: momo, logger: logger}
}

// Create handles POST /donations. The donation row is written before the
// gateway is called so a gateway failure leaves a record for reconciliation.
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	d := &models.Donation{
		DonorName:   req.DonorName,
		Phone:       req.Phone,
		AmountCents: req.AmountCents,
		Message:     req.Message,
	}
	if err := h.repo.Create(c.Request.Context(), d); err != nil {
		h.logger.Error("create donation failed", zap.Error(err))
		response.Internal(c, "failed to create donation")
		return
	}

	orderInfo := fmt.Sprintf("Donation from %s", d.DonorName)
	payURL, err := h.momo.CreatePayment(c.Request.Context(), d.ID.String(), orderInfo, d.AmountCents)
	if err != nil {
		h.logger.Error("momo create payment failed", zap.String("donation_id", d.ID.String()), zap.Error(err))
		response.ServiceUnavailable(c, "payment gateway unavailable, donation recorded")
		return
	}
	response.Created(c, gin.H{"donation": d, "pay_url": payURL})
}

// IPN handles POST /payments/momo/ipn, the gateway's signed payment
// notification. A bad signature is rejected before anything is touched.
func (h *Handler) IPN(c *gin.Context) {
	var p IPNPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		response.BadRequest(c, "invalid payload")
		return
	}
	if !h.momo.VerifyIPN(p) {
		h.logger.Warn("momo ipn signature mismatch", zap.String("order_id", p.OrderID))
		response.Forbidden(c, "invalid signature")
		return
	}
	if p.ResultCode != 0 {
		h.logger.Info("momo payment not completed",
			zap.String("order_id", p.OrderID), zap.Int("result_code", p.ResultCode))
		response.OK(c, gin.H{"received": true})
		return
	}
	donationID, err := uuid.Parse(p.OrderID)
	if err != nil {
		response.BadRequest(c, "invalid order id")
		return
	}
	updated, err := h.repo.MarkPaid(c.Request.Context(), donationID, fmt.Sprintf("%d", p.TransID))
	if err != nil {
		h.logger.Error("mark donation paid failed", zap.Error(err))
		response.Internal(c, "failed to record payment")
		return
	}
	if !updated {
		h.logger.Info("momo ipn replay ignored", zap.String("order_id", p.OrderID))
	}
	response.OK(c, gin.H{"received": true})
}

// List handles GET /admin/donations?paid=true.
func (h *Handler) List(c *gin.Context) {
	list, err := h.repo.List(c.Request.Context(), c.Query("paid") == "true")
	if err != nil {
		response.Internal(c, "failed to list donations")
		return
	}
	response.OK(c, list)
}
