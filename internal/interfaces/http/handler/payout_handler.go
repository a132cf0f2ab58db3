package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appfulfillment "github.com/keepselvesreal/k-beauty-landing-page/internal/application/fulfillment"
	"github.com/keepselvesreal/k-beauty-landing-page/internal/domain/fulfillment"
)

// PayoutHandler handles the partner commission settlement endpoints
type PayoutHandler struct {
	BaseHandler
	service *appfulfillment.PayoutService
}

// NewPayoutHandler creates a new PayoutHandler
func NewPayoutHandler(service *appfulfillment.PayoutService) *PayoutHandler {
	return &PayoutHandler{service: service}
}

type pendingCommissionResponse struct {
	PartnerID         uuid.UUID       `json:"partner_id"`
	PendingCommission decimal.Decimal `json:"pending_commission"`
}

// GetPendingCommission handles GET /api/v1/partners/:id/commission
func (h *PayoutHandler) GetPendingCommission(c *gin.Context) {
	partnerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid partner ID")
		return
	}

	pending, err := h.service.PendingCommission(c.Request.Context(), partnerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, pendingCommissionResponse{PartnerID: partnerID, PendingCommission: pending})
}

// CreatePayout handles POST /api/v1/admin/partners/:id/payouts
func (h *PayoutHandler) CreatePayout(c *gin.Context) {
	partnerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid partner ID")
		return
	}

	var req appfulfillment.CreatePayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	payout, err := h.service.CreatePayout(c.Request.Context(), partnerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, payout)
}

// ListPayouts handles GET /api/v1/admin/partners/:id/payouts
func (h *PayoutHandler) ListPayouts(c *gin.Context) {
	partnerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid partner ID")
		return
	}

	status := fulfillment.PayoutStatus(c.Query("status"))
	payouts, err := h.service.ListPayouts(c.Request.Context(), partnerID, status)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payouts)
}

// ApprovePayout handles POST /api/v1/admin/payouts/:id/approve
func (h *PayoutHandler) ApprovePayout(c *gin.Context) {
	payoutID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid payout ID")
		return
	}

	payout, err := h.service.ApprovePayout(c.Request.Context(), payoutID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payout)
}

// RejectPayout handles POST /api/v1/admin/payouts/:id/reject
func (h *PayoutHandler) RejectPayout(c *gin.Context) {
	payoutID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid payout ID")
		return
	}

	payout, err := h.service.RejectPayout(c.Request.Context(), payoutID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payout)
}
