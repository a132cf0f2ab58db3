package fulfillment

import (
	"time"

	"github.com/google/uuid"
	"github.com/keepselvesreal/k-beauty-landing-page/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypePartnerInventory = "PartnerInventory"
	AggregateTypeShipment         = "Shipment"
)

// Event type constants
const (
	EventTypeStockDecremented  = "StockDecremented"
	EventTypeStockAdjusted     = "StockAdjusted"
	EventTypeShipmentRecorded  = "ShipmentRecorded"
	EventTypeShipmentDelivered = "ShipmentDelivered"
)

// StockDecrementedEvent is raised when a shipment allocation consumes partner stock
type StockDecrementedEvent struct {
	shared.BaseDomainEvent
	PartnerID         uuid.UUID `json:"partner_id"`
	ProductID         uuid.UUID `json:"product_id"`
	Quantity          int       `json:"quantity"`
	RemainingQuantity int       `json:"remaining_quantity"`
}

// NewStockDecrementedEvent creates a new StockDecrementedEvent
func NewStockDecrementedEvent(inventoryID, partnerID, productID uuid.UUID, quantity, remaining int) *StockDecrementedEvent {
	return &StockDecrementedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeStockDecremented, AggregateTypePartnerInventory, inventoryID),
		PartnerID:         partnerID,
		ProductID:         productID,
		Quantity:          quantity,
		RemainingQuantity: remaining,
	}
}

// EventType returns the event type name
func (e *StockDecrementedEvent) EventType() string {
	return EventTypeStockDecremented
}

// StockAdjustedEvent is raised when an admin manually corrects partner stock
type StockAdjustedEvent struct {
	shared.BaseDomainEvent
	PartnerID    uuid.UUID `json:"partner_id"`
	ProductID    uuid.UUID `json:"product_id"`
	OldRemaining int       `json:"old_remaining"`
	NewRemaining int       `json:"new_remaining"`
	Reason       string    `json:"reason"`
}

// NewStockAdjustedEvent creates a new StockAdjustedEvent
func NewStockAdjustedEvent(inv *PartnerInventory, oldRemaining, newRemaining int, reason string) *StockAdjustedEvent {
	return &StockAdjustedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockAdjusted, AggregateTypePartnerInventory, inv.ID),
		PartnerID:       inv.PartnerID,
		ProductID:       inv.ProductID,
		OldRemaining:    oldRemaining,
		NewRemaining:    newRemaining,
		Reason:          reason,
	}
}

// EventType returns the event type name
func (e *StockAdjustedEvent) EventType() string {
	return EventTypeStockAdjusted
}

// ShipmentRecordedEvent is raised when a partner submits carrier and tracking
// info for an order. Consumed by the email-notification collaborator.
type ShipmentRecordedEvent struct {
	shared.BaseDomainEvent
	OrderID        uuid.UUID `json:"order_id"`
	PartnerID      uuid.UUID `json:"partner_id"`
	Carrier        string    `json:"carrier"`
	TrackingNumber string    `json:"tracking_number"`
	ShippedAt      time.Time `json:"shipped_at"`
}

// NewShipmentRecordedEvent creates a new ShipmentRecordedEvent
func NewShipmentRecordedEvent(shipment *Shipment) *ShipmentRecordedEvent {
	return &ShipmentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeShipmentRecorded, AggregateTypeShipment, shipment.ID),
		OrderID:         shipment.OrderID,
		PartnerID:       shipment.PartnerID,
		Carrier:         shipment.Carrier,
		TrackingNumber:  shipment.TrackingNumber,
		ShippedAt:       *shipment.ShippedAt,
	}
}

// EventType returns the event type name
func (e *ShipmentRecordedEvent) EventType() string {
	return EventTypeShipmentRecorded
}

// ShipmentDeliveredEvent is raised when a shipment is marked delivered
type ShipmentDeliveredEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID `json:"order_id"`
	PartnerID   uuid.UUID `json:"partner_id"`
	DeliveredAt time.Time `json:"delivered_at"`
}

// NewShipmentDeliveredEvent creates a new ShipmentDeliveredEvent
func NewShipmentDeliveredEvent(shipment *Shipment) *ShipmentDeliveredEvent {
	return &ShipmentDeliveredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeShipmentDelivered, AggregateTypeShipment, shipment.ID),
		OrderID:         shipment.OrderID,
		PartnerID:       shipment.PartnerID,
		DeliveredAt:     *shipment.DeliveredAt,
	}
}

// EventType returns the event type name
func (e *ShipmentDeliveredEvent) EventType() string {
	return EventTypeShipmentDelivered
}
