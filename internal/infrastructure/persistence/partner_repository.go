package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/keepselvesreal/k-beauty-landing-page/internal/domain/fulfillment"
	"github.com/keepselvesreal/k-beauty-landing-page/internal/domain/shared"
)

// GormPartnerRepository implements fulfillment.PartnerRepository using GORM
type GormPartnerRepository struct {
	db *gorm.DB
}

// NewGormPartnerRepository creates a new GormPartnerRepository
func NewGormPartnerRepository(db *gorm.DB) *GormPartnerRepository {
	return &GormPartnerRepository{db: db}
}

// FindByID finds a partner by its ID
func (r *GormPartnerRepository) FindByID(ctx context.Context, id uuid.UUID) (*fulfillment.FulfillmentPartner, error) {
	var partner fulfillment.FulfillmentPartner
	if err := r.db.WithContext(ctx).First(&partner, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &partner, nil
}

// FindActive finds all active partners
func (r *GormPartnerRepository) FindActive(ctx context.Context) ([]fulfillment.FulfillmentPartner, error) {
	var partners []fulfillment.FulfillmentPartner
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Find(&partners).Error; err != nil {
		return nil, err
	}
	return partners, nil
}

// FindActiveByProduct finds active partners holding inventory for a product
func (r *GormPartnerRepository) FindActiveByProduct(ctx context.Context, productID uuid.UUID) ([]fulfillment.FulfillmentPartner, error) {
	var partners []fulfillment.FulfillmentPartner
	if err := r.db.WithContext(ctx).
		Joins("JOIN partner_inventory ON partner_inventory.partner_id = fulfillment_partners.id").
		Where("partner_inventory.product_id = ? AND fulfillment_partners.is_active = ?", productID, true).
		Find(&partners).Error; err != nil {
		return nil, err
	}
	return partners, nil
}

// FindAll finds all partners matching the filter
func (r *GormPartnerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]fulfillment.FulfillmentPartner, error) {
	var partners []fulfillment.FulfillmentPartner
	query := applyFilter(
		r.db.WithContext(ctx).Model(&fulfillment.FulfillmentPartner{}),
		filter,
		map[string]bool{"created_at": true, "name": true, "region": true, "last_allocated_at": true},
	)
	if err := query.Find(&partners).Error; err != nil {
		return nil, err
	}
	return partners, nil
}

// Save creates or updates a partner
func (r *GormPartnerRepository) Save(ctx context.Context, partner *fulfillment.FulfillmentPartner) error {
	return r.db.WithContext(ctx).Save(partner).Error
}

// UpdateLastAllocatedAt sets the round-robin timestamp for a partner
func (r *GormPartnerRepository) UpdateLastAllocatedAt(ctx context.Context, partnerID uuid.UUID, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&fulfillment.FulfillmentPartner{}).
		Where("id = ?", partnerID).
		Updates(map[string]interface{}{
			"last_allocated_at": at,
			"updated_at":        time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ fulfillment.PartnerRepository = (*GormPartnerRepository)(nil)
