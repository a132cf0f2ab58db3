package affiliate

import (
	"context"

	"github.com/google/uuid"
)

// CommissionRepository defines the interface for commission record persistence
type CommissionRepository interface {
	// FindByOrder finds the commission record for an order, if one exists
	FindByOrder(ctx context.Context, orderID uuid.UUID) (*CommissionRecord, error)

	// ExistsByOrder reports whether a commission record exists for an order
	ExistsByOrder(ctx context.Context, orderID uuid.UUID) (bool, error)

	// Save persists a commission record
	Save(ctx context.Context, record *CommissionRecord) error

	// FindByAffiliateCode finds all commission records for an affiliate
	FindByAffiliateCode(ctx context.Context, code string) ([]CommissionRecord, error)
}

// AffiliateRepository defines the interface for affiliate persistence
type AffiliateRepository interface {
	// FindByCode finds an affiliate by its code
	FindByCode(ctx context.Context, code string) (*Affiliate, error)

	// Save creates or updates an affiliate
	Save(ctx context.Context, a *Affiliate) error
}
