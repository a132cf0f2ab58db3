package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appfulfillment "github.com/keepselvesreal/k-beauty-landing-page/internal/application/fulfillment"
)

// ShipmentHandler handles the partner-facing shipment endpoints
type ShipmentHandler struct {
	BaseHandler
	service *appfulfillment.ShipmentService
}

// NewShipmentHandler creates a new ShipmentHandler
func NewShipmentHandler(service *appfulfillment.ShipmentService) *ShipmentHandler {
	return &ShipmentHandler{service: service}
}

// RecordShipment handles POST /api/v1/shipments
func (h *ShipmentHandler) RecordShipment(c *gin.Context) {
	var req appfulfillment.RecordShipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	shipment, err := h.service.RecordShipment(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, shipment)
}

// CompleteDelivery handles POST /api/v1/shipments/:id/delivery
func (h *ShipmentHandler) CompleteDelivery(c *gin.Context) {
	shipmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid shipment ID")
		return
	}

	shipment, err := h.service.CompleteDelivery(c.Request.Context(), shipmentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, shipment)
}
