package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/keepselvesreal/k-beauty-landing-page/internal/domain/fulfillment"
	"github.com/keepselvesreal/k-beauty-landing-page/internal/domain/shared"
)

// GormCommissionPayoutRepository implements fulfillment.CommissionPayoutRepository using GORM
type GormCommissionPayoutRepository struct {
	db *gorm.DB
}

// NewGormCommissionPayoutRepository creates a new GormCommissionPayoutRepository
func NewGormCommissionPayoutRepository(db *gorm.DB) *GormCommissionPayoutRepository {
	return &GormCommissionPayoutRepository{db: db}
}

// FindByID finds a payout by its ID
func (r *GormCommissionPayoutRepository) FindByID(ctx context.Context, id uuid.UUID) (*fulfillment.CommissionPayout, error) {
	var payout fulfillment.CommissionPayout
	if err := r.db.WithContext(ctx).First(&payout, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &payout, nil
}

// FindByPartner finds a partner's payouts, newest first. An empty status
// matches all states.
func (r *GormCommissionPayoutRepository) FindByPartner(ctx context.Context, partnerID uuid.UUID, status fulfillment.PayoutStatus) ([]fulfillment.CommissionPayout, error) {
	query := r.db.WithContext(ctx).Where("partner_id = ?", partnerID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var payouts []fulfillment.CommissionPayout
	if err := query.Order("created_at DESC").Find(&payouts).Error; err != nil {
		return nil, err
	}
	return payouts, nil
}

// Save creates or updates a payout
func (r *GormCommissionPayoutRepository) Save(ctx context.Context, payout *fulfillment.CommissionPayout) error {
	return r.db.WithContext(ctx).Save(payout).Error
}

var _ fulfillment.CommissionPayoutRepository = (*GormCommissionPayoutRepository)(nil)
