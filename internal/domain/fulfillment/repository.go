package fulfillment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/keepselvesreal/k-beauty-landing-page/internal/domain/shared"
)

// DecrementResult is the outcome of a successful version-guarded decrement
type DecrementResult struct {
	InventoryID  uuid.UUID
	NewRemaining int
	NewVersion   int
}

// InventoryLedger defines the persistence contract for partner inventory.
// TryDecrement is the single contended write path: it must perform the
// compare-and-swap against the stored version inside one storage-layer
// statement so no read-then-write window is visible to other callers.
type InventoryLedger interface {
	// FindByPartnerAndProduct finds the ledger row for a (partner, product) pair
	FindByPartnerAndProduct(ctx context.Context, partnerID, productID uuid.UUID) (*PartnerInventory, error)

	// FindByProduct finds all ledger rows for a product across partners
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]PartnerInventory, error)

	// AvailableQuantity returns the remaining quantity for a (partner, product) pair
	AvailableQuantity(ctx context.Context, partnerID, productID uuid.UUID) (int, error)

	// TotalAvailableQuantity sums remaining quantity for a product across
	// all active partners. Used to fail fast before attempting allocation.
	TotalAvailableQuantity(ctx context.Context, productID uuid.UUID) (int, error)

	// TryDecrement atomically decrements the remaining quantity if and only
	// if the stored version still equals expectedVersion.
	// Returns shared.ErrInsufficientStock when remaining < quantity,
	// shared.ErrVersionConflict when another writer got there first,
	// shared.ErrNotFound when no ledger row exists.
	TryDecrement(ctx context.Context, partnerID, productID uuid.UUID, quantity, expectedVersion int) (*DecrementResult, error)

	// Save creates or updates a ledger row (non-contended writes:
	// creation, replenishment, admin adjustment)
	Save(ctx context.Context, inv *PartnerInventory) error
}

// PartnerRepository defines the interface for fulfillment partner persistence
type PartnerRepository interface {
	// FindByID finds a partner by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*FulfillmentPartner, error)

	// FindActive finds all active partners
	FindActive(ctx context.Context) ([]FulfillmentPartner, error)

	// FindActiveByProduct finds active partners holding inventory for a product
	FindActiveByProduct(ctx context.Context, productID uuid.UUID) ([]FulfillmentPartner, error)

	// FindAll finds all partners
	FindAll(ctx context.Context, filter shared.Filter) ([]FulfillmentPartner, error)

	// Save creates or updates a partner
	Save(ctx context.Context, partner *FulfillmentPartner) error

	// UpdateLastAllocatedAt sets the round-robin timestamp for a partner
	UpdateLastAllocatedAt(ctx context.Context, partnerID uuid.UUID, at time.Time) error
}

// ShipmentAllocationRepository defines the interface for allocation record persistence
type ShipmentAllocationRepository interface {
	// Save persists a shipment allocation record
	Save(ctx context.Context, allocation *ShipmentAllocation) error

	// FindByOrder finds all allocations for an order
	FindByOrder(ctx context.Context, orderID uuid.UUID) ([]ShipmentAllocation, error)

	// FindByOrderItem finds all allocations for a single line item
	FindByOrderItem(ctx context.Context, orderItemID uuid.UUID) ([]ShipmentAllocation, error)

	// SumQuantityByOrderItem sums allocated quantity for a line item
	SumQuantityByOrderItem(ctx context.Context, orderItemID uuid.UUID) (int, error)

	// SumShippingCommissionByPartner sums a partner's shipping commission
	// across allocations whose orders have been delivered
	SumShippingCommissionByPartner(ctx context.Context, partnerID uuid.UUID) (decimal.Decimal, error)
}

// CommissionPayoutRepository defines the interface for payout persistence
type CommissionPayoutRepository interface {
	// FindByID finds a payout by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*CommissionPayout, error)

	// FindByPartner finds a partner's payouts, newest first. An empty
	// status matches all statuses.
	FindByPartner(ctx context.Context, partnerID uuid.UUID, status PayoutStatus) ([]CommissionPayout, error)

	// Save creates or updates a payout
	Save(ctx context.Context, payout *CommissionPayout) error
}

// ShipmentRepository defines the interface for shipment persistence
type ShipmentRepository interface {
	// FindByID finds a shipment by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Shipment, error)

	// FindByOrder finds all shipments for an order
	FindByOrder(ctx context.Context, orderID uuid.UUID) ([]Shipment, error)

	// FindByOrderAndPartner finds the shipment a partner owns for an order
	FindByOrderAndPartner(ctx context.Context, orderID, partnerID uuid.UUID) (*Shipment, error)

	// Save creates or updates a shipment
	Save(ctx context.Context, shipment *Shipment) error
}
