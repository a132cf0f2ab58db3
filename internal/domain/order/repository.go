package order

import (
	"context"

	"github.com/google/uuid"
	"github.com/keepselvesreal/k-beauty-landing-page/internal/domain/shared"
)

// Repository defines the interface for order persistence
type Repository interface {
	// FindByID finds an order by its ID, with line items loaded
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByOrderNumber finds an order by its human-readable order number
	FindByOrderNumber(ctx context.Context, orderNumber string) (*Order, error)

	// FindByCustomer finds all orders for a customer
	FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]Order, error)

	// FindPaidUnallocated finds paid orders still awaiting allocation.
	// This is the retryable "sticky" state surfaced for admin restock flows.
	FindPaidUnallocated(ctx context.Context, filter shared.Filter) ([]Order, error)

	// Save creates or updates an order and its line items
	Save(ctx context.Context, o *Order) error

	// ExistsByOrderNumber checks order number uniqueness
	ExistsByOrderNumber(ctx context.Context, orderNumber string) (bool, error)
}
