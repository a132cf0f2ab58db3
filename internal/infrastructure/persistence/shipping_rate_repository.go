package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/keepselvesreal/k-beauty-landing-page/internal/domain/order"
	"github.com/keepselvesreal/k-beauty-landing-page/internal/domain/shared"
)

// GormShippingRateRepository implements order.ShippingRateRepository using GORM
type GormShippingRateRepository struct {
	db *gorm.DB
}

// NewGormShippingRateRepository creates a new GormShippingRateRepository
func NewGormShippingRateRepository(db *gorm.DB) *GormShippingRateRepository {
	return &GormShippingRateRepository{db: db}
}

// FindByRegion finds the rate for a region
func (r *GormShippingRateRepository) FindByRegion(ctx context.Context, region string) (*order.ShippingRate, error) {
	var rate order.ShippingRate
	if err := r.db.WithContext(ctx).Where("region = ?", region).First(&rate).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rate, nil
}

// FindAll returns all configured rates
func (r *GormShippingRateRepository) FindAll(ctx context.Context) ([]order.ShippingRate, error) {
	var rates []order.ShippingRate
	if err := r.db.WithContext(ctx).Order("region ASC").Find(&rates).Error; err != nil {
		return nil, err
	}
	return rates, nil
}

// Save creates or updates a rate
func (r *GormShippingRateRepository) Save(ctx context.Context, rate *order.ShippingRate) error {
	return r.db.WithContext(ctx).Save(rate).Error
}

var _ order.ShippingRateRepository = (*GormShippingRateRepository)(nil)
