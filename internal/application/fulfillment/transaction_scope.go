package fulfillment

import (
	"context"

	"github.com/keepselvesreal/k-beauty-landing-page/internal/domain/fulfillment"
	"github.com/keepselvesreal/k-beauty-landing-page/internal/domain/order"
)

// TransactionScope provides transactional access to the repositories an
// allocation touches. Ledger decrements, allocation inserts, the partner
// round-robin timestamp, and the order status advance must commit or roll
// back as one unit, so a crash mid-allocation cannot leave the ledger
// decremented without a matching allocation record (or vice versa).
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all repositories within a
// transaction. All repositories returned share the same underlying
// database transaction.
type TransactionalRepositories interface {
	// Ledger returns the partner inventory ledger scoped to the current transaction
	Ledger() fulfillment.InventoryLedger
	// PartnerRepo returns the partner repository scoped to the current transaction
	PartnerRepo() fulfillment.PartnerRepository
	// AllocationRepo returns the shipment allocation repository scoped to the current transaction
	AllocationRepo() fulfillment.ShipmentAllocationRepository
	// ShipmentRepo returns the shipment repository scoped to the current transaction
	ShipmentRepo() fulfillment.ShipmentRepository
	// OrderRepo returns the order repository scoped to the current transaction
	OrderRepo() order.Repository
}
