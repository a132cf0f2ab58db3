package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apporder "github.com/keepselvesreal/k-beauty-landing-page/internal/application/order"
	"github.com/keepselvesreal/k-beauty-landing-page/internal/interfaces/http/dto"
)

// OrderHandler handles the customer-facing order endpoints
type OrderHandler struct {
	BaseHandler
	service *apporder.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(service *apporder.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// Create handles POST /api/v1/orders
func (h *OrderHandler) Create(c *gin.Context) {
	var req apporder.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.CreateOrder(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get handles GET /api/v1/orders/:orderNumber
func (h *OrderHandler) Get(c *gin.Context) {
	resp, err := h.service.GetOrder(c.Request.Context(), c.Param("orderNumber"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListByCustomer handles GET /api/v1/customers/:customerID/orders
func (h *OrderHandler) ListByCustomer(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("customerID"))
	if err != nil {
		h.BadRequest(c, "invalid customer ID")
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	orders, err := h.service.ListCustomerOrders(c.Request.Context(), customerID, toFilter(req))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, orders)
}

// InitiatePayment handles POST /api/v1/orders/:orderNumber/payment
func (h *OrderHandler) InitiatePayment(c *gin.Context) {
	resp, err := h.service.InitiatePayment(c.Request.Context(), c.Param("orderNumber"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CapturePayment handles POST /api/v1/orders/:orderNumber/payment/capture
func (h *OrderHandler) CapturePayment(c *gin.Context) {
	result, err := h.service.CapturePayment(c.Request.Context(), c.Param("orderNumber"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

type reasonRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=1000"`
}

// RequestCancellation handles POST /api/v1/orders/:orderNumber/cancellation
func (h *OrderHandler) RequestCancellation(c *gin.Context) {
	var req reasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.RequestCancellation(c.Request.Context(), c.Param("orderNumber"), req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ApproveCancellation handles POST /api/v1/admin/orders/:orderNumber/cancellation/approve
func (h *OrderHandler) ApproveCancellation(c *gin.Context) {
	resp, err := h.service.ApproveCancellation(c.Request.Context(), c.Param("orderNumber"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RequestRefund handles POST /api/v1/orders/:orderNumber/refund
func (h *OrderHandler) RequestRefund(c *gin.Context) {
	var req reasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.RequestRefund(c.Request.Context(), c.Param("orderNumber"), req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ApproveRefund handles POST /api/v1/admin/orders/:orderNumber/refund/approve
func (h *OrderHandler) ApproveRefund(c *gin.Context) {
	resp, err := h.service.ApproveRefund(c.Request.Context(), c.Param("orderNumber"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListAwaitingAllocation handles GET /api/v1/admin/orders/awaiting-allocation
func (h *OrderHandler) ListAwaitingAllocation(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	orders, err := h.service.ListAwaitingAllocation(c.Request.Context(), toFilter(req))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, orders)
}

// RetryAllocation handles POST /api/v1/admin/orders/:orderNumber/allocate
func (h *OrderHandler) RetryAllocation(c *gin.Context) {
	resp, err := h.service.RetryAllocation(c.Request.Context(), c.Param("orderNumber"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
