package fulfillment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/keepselvesreal/k-beauty-landing-page/internal/domain/shared"
)

// ShipmentAllocation records that a quantity of an order line item is to be
// shipped by a specific partner. One line item may be split across partners;
// the quantities of its allocations always sum to the ordered quantity,
// because partial allocations are never persisted. ShippingCommission is the
// amount the partner earns for shipping this allocation, fixed at allocation
// time and settled after delivery.
type ShipmentAllocation struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID            uuid.UUID       `gorm:"type:uuid;not null;index"`
	OrderItemID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	PartnerID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity           int             `gorm:"not null"`
	ShippingCommission decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	AllocatedAt        time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ShipmentAllocation) TableName() string {
	return "shipment_allocations"
}

// NewShipmentAllocation creates a new shipment allocation record
func NewShipmentAllocation(orderID, orderItemID, partnerID uuid.UUID, quantity int, shippingCommission decimal.Decimal) (*ShipmentAllocation, error) {
	if orderID == uuid.Nil || orderItemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order and line item references are required")
	}
	if partnerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PARTNER", "Partner ID cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Allocation quantity must be positive")
	}
	if shippingCommission.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COMMISSION", "Shipping commission cannot be negative")
	}

	return &ShipmentAllocation{
		ID:                 uuid.New(),
		OrderID:            orderID,
		OrderItemID:        orderItemID,
		PartnerID:          partnerID,
		Quantity:           quantity,
		ShippingCommission: shippingCommission,
		AllocatedAt:        time.Now(),
	}, nil
}
