package fulfillment

import (
	"time"

	"github.com/google/uuid"
	"github.com/keepselvesreal/k-beauty-landing-page/internal/domain/shared"
)

// PartnerInventory is the ledger row for a (partner, product) pair.
// AllocatedQuantity is the total ever assigned to the partner;
// RemainingQuantity is the unshipped quantity still available.
// The version counter guards concurrent decrements (optimistic locking).
//
// Invariant: 0 <= RemainingQuantity <= AllocatedQuantity.
type PartnerInventory struct {
	shared.BaseAggregateRoot
	PartnerID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_partner_inventory_partner_product,priority:1"`
	ProductID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_partner_inventory_partner_product,priority:2"`
	AllocatedQuantity int       `gorm:"not null"`
	RemainingQuantity int       `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (PartnerInventory) TableName() string {
	return "partner_inventory"
}

// NewPartnerInventory creates a ledger row with an initial stock assignment
func NewPartnerInventory(partnerID, productID uuid.UUID, quantity int) (*PartnerInventory, error) {
	if partnerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PARTNER", "Partner ID cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity < 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Allocated quantity cannot be negative")
	}

	return &PartnerInventory{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		PartnerID:         partnerID,
		ProductID:         productID,
		AllocatedQuantity: quantity,
		RemainingQuantity: quantity,
	}, nil
}

// CanFulfill returns true if the remaining quantity covers the requested quantity
func (i *PartnerInventory) CanFulfill(quantity int) bool {
	return i.RemainingQuantity >= quantity
}

// Decrement reduces the remaining quantity for a shipment allocation.
// Callers persisting this change must use the version-guarded write so
// concurrent decrements cannot both succeed against the same version.
func (i *PartnerInventory) Decrement(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Decrement quantity must be positive")
	}
	if i.RemainingQuantity < quantity {
		return shared.ErrInsufficientStock
	}

	i.RemainingQuantity -= quantity
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	i.AddDomainEvent(NewStockDecrementedEvent(i.ID, i.PartnerID, i.ProductID, quantity, i.RemainingQuantity))

	return nil
}

// Replenish assigns additional stock to the partner (admin restocking)
func (i *PartnerInventory) Replenish(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Replenish quantity must be positive")
	}

	i.AllocatedQuantity += quantity
	i.RemainingQuantity += quantity
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return nil
}

// Adjust sets the remaining quantity to a counted value (manual correction).
// The reason is recorded for audit purposes via the emitted event.
func (i *PartnerInventory) Adjust(newRemaining int, reason string) error {
	if newRemaining < 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Remaining quantity cannot be negative")
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Adjustment reason is required")
	}

	oldRemaining := i.RemainingQuantity
	i.RemainingQuantity = newRemaining
	if newRemaining > i.AllocatedQuantity {
		i.AllocatedQuantity = newRemaining
	}
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	i.AddDomainEvent(NewStockAdjustedEvent(i, oldRemaining, newRemaining, reason))

	return nil
}
