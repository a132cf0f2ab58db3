package fulfillment

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/keepselvesreal/k-beauty-landing-page/internal/domain/shared"
)

// ShipmentStatus represents the status of a shipment
type ShipmentStatus string

const (
	ShipmentStatusPreparing ShipmentStatus = "preparing"
	ShipmentStatusShipped   ShipmentStatus = "shipped"
	ShipmentStatusDelivered ShipmentStatus = "delivered"
)

// IsValid checks if the status is a valid ShipmentStatus
func (s ShipmentStatus) IsValid() bool {
	switch s {
	case ShipmentStatusPreparing, ShipmentStatusShipped, ShipmentStatusDelivered:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can transition to the target status
func (s ShipmentStatus) CanTransitionTo(target ShipmentStatus) bool {
	switch s {
	case ShipmentStatusPreparing:
		return target == ShipmentStatusShipped
	case ShipmentStatusShipped:
		return target == ShipmentStatusDelivered
	case ShipmentStatusDelivered:
		return false
	}
	return false
}

// Shipment records a partner's physical shipment of an order:
// carrier, tracking number, and delivery progress.
type Shipment struct {
	shared.BaseAggregateRoot
	OrderID        uuid.UUID      `gorm:"type:uuid;not null;index"`
	PartnerID      uuid.UUID      `gorm:"type:uuid;not null;index"`
	Carrier        string         `gorm:"size:100"`
	TrackingNumber string         `gorm:"size:255"`
	Status         ShipmentStatus `gorm:"size:50;default:preparing;index"`
	ShippedAt      *time.Time
	DeliveredAt    *time.Time
	Notes          string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Shipment) TableName() string {
	return "shipments"
}

// NewShipment creates a shipment in preparing state
func NewShipment(orderID, partnerID uuid.UUID) (*Shipment, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order ID cannot be empty")
	}
	if partnerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PARTNER", "Partner ID cannot be empty")
	}

	return &Shipment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderID:           orderID,
		PartnerID:         partnerID,
		Status:            ShipmentStatusPreparing,
	}, nil
}

// RecordTracking marks the shipment as shipped with carrier and tracking info
func (s *Shipment) RecordTracking(carrier, trackingNumber string) error {
	carrier = strings.TrimSpace(carrier)
	trackingNumber = strings.TrimSpace(trackingNumber)

	if carrier == "" {
		return shared.NewDomainError("INVALID_CARRIER", "Carrier is required")
	}
	if trackingNumber == "" {
		return shared.NewDomainError("INVALID_TRACKING_NUMBER", "Tracking number is required")
	}
	if !s.Status.CanTransitionTo(ShipmentStatusShipped) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot ship a shipment in %s status", s.Status))
	}

	now := time.Now()
	s.Carrier = carrier
	s.TrackingNumber = trackingNumber
	s.Status = ShipmentStatusShipped
	s.ShippedAt = &now
	s.UpdatedAt = now
	s.IncrementVersion()

	s.AddDomainEvent(NewShipmentRecordedEvent(s))

	return nil
}

// MarkDelivered marks the shipment as delivered
func (s *Shipment) MarkDelivered() error {
	if !s.Status.CanTransitionTo(ShipmentStatusDelivered) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot deliver a shipment in %s status", s.Status))
	}

	now := time.Now()
	s.Status = ShipmentStatusDelivered
	s.DeliveredAt = &now
	s.UpdatedAt = now
	s.IncrementVersion()

	s.AddDomainEvent(NewShipmentDeliveredEvent(s))

	return nil
}
