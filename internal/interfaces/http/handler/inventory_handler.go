package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appfulfillment "github.com/keepselvesreal/k-beauty-landing-page/internal/application/fulfillment"
	"github.com/keepselvesreal/k-beauty-landing-page/internal/interfaces/http/dto"
)

// InventoryHandler handles the admin partner and stock endpoints
type InventoryHandler struct {
	BaseHandler
	service *appfulfillment.InventoryService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(service *appfulfillment.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: service}
}

// RegisterPartner handles POST /api/v1/admin/partners
func (h *InventoryHandler) RegisterPartner(c *gin.Context) {
	var req appfulfillment.RegisterPartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	partner, err := h.service.RegisterPartner(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, partner)
}

// ListPartners handles GET /api/v1/admin/partners
func (h *InventoryHandler) ListPartners(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	partners, err := h.service.ListPartners(c.Request.Context(), toFilter(req))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, partners)
}

type setActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// SetPartnerActive handles PUT /api/v1/admin/partners/:id/active
func (h *InventoryHandler) SetPartnerActive(c *gin.Context) {
	partnerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid partner ID")
		return
	}

	var req setActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	partner, err := h.service.SetPartnerActive(c.Request.Context(), partnerID, *req.Active)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, partner)
}

type assignStockRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

// AssignStock handles POST /api/v1/admin/partners/:id/stock
func (h *InventoryHandler) AssignStock(c *gin.Context) {
	partnerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid partner ID")
		return
	}

	var req assignStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	inv, err := h.service.AssignStock(c.Request.Context(), partnerID, req.ProductID, req.Quantity)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, inv)
}

type adjustStockRequest struct {
	ProductID    uuid.UUID `json:"product_id" binding:"required"`
	NewRemaining *int      `json:"new_remaining" binding:"required,min=0"`
	Reason       string    `json:"reason" binding:"required,min=1,max=500"`
}

// AdjustStock handles PUT /api/v1/admin/partners/:id/stock
func (h *InventoryHandler) AdjustStock(c *gin.Context) {
	partnerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid partner ID")
		return
	}

	var req adjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	inv, err := h.service.AdjustStock(c.Request.Context(), partnerID, req.ProductID, *req.NewRemaining, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, inv)
}

// GetAvailability handles GET /api/v1/products/:id/availability
func (h *InventoryHandler) GetAvailability(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid product ID")
		return
	}

	availability, err := h.service.GetAvailability(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, availability)
}
