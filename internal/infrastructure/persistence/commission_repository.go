package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/keepselvesreal/k-beauty-landing-page/internal/domain/affiliate"
	"github.com/keepselvesreal/k-beauty-landing-page/internal/domain/shared"
)

// GormCommissionRepository implements affiliate.CommissionRepository using GORM
type GormCommissionRepository struct {
	db *gorm.DB
}

// NewGormCommissionRepository creates a new GormCommissionRepository
func NewGormCommissionRepository(db *gorm.DB) *GormCommissionRepository {
	return &GormCommissionRepository{db: db}
}

// FindByOrder finds the commission record for an order, if one exists
func (r *GormCommissionRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) (*affiliate.CommissionRecord, error) {
	var record affiliate.CommissionRecord
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// ExistsByOrder reports whether a commission record exists for an order
func (r *GormCommissionRepository) ExistsByOrder(ctx context.Context, orderID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&affiliate.CommissionRecord{}).
		Where("order_id = ?", orderID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save persists a commission record. The unique index on order_id turns a
// duplicate write into an error, backing the once-per-order guarantee.
func (r *GormCommissionRepository) Save(ctx context.Context, record *affiliate.CommissionRecord) error {
	err := r.db.WithContext(ctx).Save(record).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.ErrAlreadyExists
	}
	return err
}

// FindByAffiliateCode finds all commission records for an affiliate
func (r *GormCommissionRepository) FindByAffiliateCode(ctx context.Context, code string) ([]affiliate.CommissionRecord, error) {
	var records []affiliate.CommissionRecord
	if err := r.db.WithContext(ctx).
		Where("affiliate_code = ?", code).
		Order("created_at DESC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

var _ affiliate.CommissionRepository = (*GormCommissionRepository)(nil)

// GormAffiliateRepository implements affiliate.AffiliateRepository using GORM
type GormAffiliateRepository struct {
	db *gorm.DB
}

// NewGormAffiliateRepository creates a new GormAffiliateRepository
func NewGormAffiliateRepository(db *gorm.DB) *GormAffiliateRepository {
	return &GormAffiliateRepository{db: db}
}

// FindByCode finds an affiliate by its code
func (r *GormAffiliateRepository) FindByCode(ctx context.Context, code string) (*affiliate.Affiliate, error) {
	var a affiliate.Affiliate
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// Save creates or updates an affiliate
func (r *GormAffiliateRepository) Save(ctx context.Context, a *affiliate.Affiliate) error {
	return r.db.WithContext(ctx).Save(a).Error
}

var _ affiliate.AffiliateRepository = (*GormAffiliateRepository)(nil)
