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

// GormInventoryLedger implements fulfillment.InventoryLedger using GORM
type GormInventoryLedger struct {
	db *gorm.DB
}

// NewGormInventoryLedger creates a new GormInventoryLedger
func NewGormInventoryLedger(db *gorm.DB) *GormInventoryLedger {
	return &GormInventoryLedger{db: db}
}

// FindByPartnerAndProduct finds the ledger row for a (partner, product) pair
func (r *GormInventoryLedger) FindByPartnerAndProduct(ctx context.Context, partnerID, productID uuid.UUID) (*fulfillment.PartnerInventory, error) {
	var inv fulfillment.PartnerInventory
	if err := r.db.WithContext(ctx).
		Where("partner_id = ? AND product_id = ?", partnerID, productID).
		First(&inv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

// FindByProduct finds all ledger rows for a product across partners
func (r *GormInventoryLedger) FindByProduct(ctx context.Context, productID uuid.UUID) ([]fulfillment.PartnerInventory, error) {
	var rows []fulfillment.PartnerInventory
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// AvailableQuantity returns the remaining quantity for a (partner, product) pair
func (r *GormInventoryLedger) AvailableQuantity(ctx context.Context, partnerID, productID uuid.UUID) (int, error) {
	inv, err := r.FindByPartnerAndProduct(ctx, partnerID, productID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return inv.RemainingQuantity, nil
}

// TotalAvailableQuantity sums remaining quantity for a product across
// all active partners
func (r *GormInventoryLedger) TotalAvailableQuantity(ctx context.Context, productID uuid.UUID) (int, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&fulfillment.PartnerInventory{}).
		Select("COALESCE(SUM(partner_inventory.remaining_quantity), 0)").
		Joins("JOIN fulfillment_partners ON fulfillment_partners.id = partner_inventory.partner_id").
		Where("partner_inventory.product_id = ? AND fulfillment_partners.is_active = ?", productID, true).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return int(total), nil
}

// TryDecrement performs the version-guarded decrement in a single UPDATE.
// The WHERE clause carries both the version check and the quantity guard,
// so no read-then-write window exists between concurrent allocators.
func (r *GormInventoryLedger) TryDecrement(ctx context.Context, partnerID, productID uuid.UUID, quantity, expectedVersion int) (*fulfillment.DecrementResult, error) {
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Decrement quantity must be positive")
	}

	result := r.db.WithContext(ctx).
		Model(&fulfillment.PartnerInventory{}).
		Where("partner_id = ? AND product_id = ? AND version = ? AND remaining_quantity >= ?",
			partnerID, productID, expectedVersion, quantity).
		Updates(map[string]interface{}{
			"remaining_quantity": gorm.Expr("remaining_quantity - ?", quantity),
			"version":            gorm.Expr("version + 1"),
			"updated_at":         time.Now(),
		})
	if result.Error != nil {
		return nil, result.Error
	}

	if result.RowsAffected == 0 {
		// Distinguish why the guarded update matched nothing
		inv, err := r.FindByPartnerAndProduct(ctx, partnerID, productID)
		if err != nil {
			return nil, err
		}
		if inv.Version != expectedVersion {
			return nil, shared.ErrVersionConflict
		}
		return nil, shared.ErrInsufficientStock
	}

	inv, err := r.FindByPartnerAndProduct(ctx, partnerID, productID)
	if err != nil {
		return nil, err
	}
	return &fulfillment.DecrementResult{
		InventoryID:  inv.ID,
		NewRemaining: inv.RemainingQuantity,
		NewVersion:   inv.Version,
	}, nil
}

// Save creates or updates a ledger row
func (r *GormInventoryLedger) Save(ctx context.Context, inv *fulfillment.PartnerInventory) error {
	return r.db.WithContext(ctx).Save(inv).Error
}

var _ fulfillment.InventoryLedger = (*GormInventoryLedger)(nil)
