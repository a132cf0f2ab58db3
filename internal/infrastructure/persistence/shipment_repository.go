package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/keepselvesreal/k-beauty-landing-page/internal/domain/fulfillment"
	"github.com/keepselvesreal/k-beauty-landing-page/internal/domain/shared"
)

// GormShipmentAllocationRepository implements fulfillment.ShipmentAllocationRepository using GORM
type GormShipmentAllocationRepository struct {
	db *gorm.DB
}

// NewGormShipmentAllocationRepository creates a new GormShipmentAllocationRepository
func NewGormShipmentAllocationRepository(db *gorm.DB) *GormShipmentAllocationRepository {
	return &GormShipmentAllocationRepository{db: db}
}

// Save persists a shipment allocation record
func (r *GormShipmentAllocationRepository) Save(ctx context.Context, allocation *fulfillment.ShipmentAllocation) error {
	return r.db.WithContext(ctx).Save(allocation).Error
}

// FindByOrder finds all allocations for an order
func (r *GormShipmentAllocationRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]fulfillment.ShipmentAllocation, error) {
	var allocations []fulfillment.ShipmentAllocation
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("allocated_at ASC").
		Find(&allocations).Error; err != nil {
		return nil, err
	}
	return allocations, nil
}

// FindByOrderItem finds all allocations for a single line item
func (r *GormShipmentAllocationRepository) FindByOrderItem(ctx context.Context, orderItemID uuid.UUID) ([]fulfillment.ShipmentAllocation, error) {
	var allocations []fulfillment.ShipmentAllocation
	if err := r.db.WithContext(ctx).
		Where("order_item_id = ?", orderItemID).
		Find(&allocations).Error; err != nil {
		return nil, err
	}
	return allocations, nil
}

// SumQuantityByOrderItem sums allocated quantity for a line item
func (r *GormShipmentAllocationRepository) SumQuantityByOrderItem(ctx context.Context, orderItemID uuid.UUID) (int, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&fulfillment.ShipmentAllocation{}).
		Select("COALESCE(SUM(quantity), 0)").
		Where("order_item_id = ?", orderItemID).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return int(total), nil
}

// SumShippingCommissionByPartner sums the shipping commission a partner has
// earned on delivered orders
func (r *GormShipmentAllocationRepository) SumShippingCommissionByPartner(ctx context.Context, partnerID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&fulfillment.ShipmentAllocation{}).
		Select("COALESCE(SUM(shipment_allocations.shipping_commission), 0)").
		Joins("JOIN orders ON orders.id = shipment_allocations.order_id").
		Where("shipment_allocations.partner_id = ? AND orders.shipping_status = ?", partnerID, "delivered").
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

var _ fulfillment.ShipmentAllocationRepository = (*GormShipmentAllocationRepository)(nil)

// GormShipmentRepository implements fulfillment.ShipmentRepository using GORM
type GormShipmentRepository struct {
	db *gorm.DB
}

// NewGormShipmentRepository creates a new GormShipmentRepository
func NewGormShipmentRepository(db *gorm.DB) *GormShipmentRepository {
	return &GormShipmentRepository{db: db}
}

// FindByID finds a shipment by its ID
func (r *GormShipmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*fulfillment.Shipment, error) {
	var shipment fulfillment.Shipment
	if err := r.db.WithContext(ctx).First(&shipment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &shipment, nil
}

// FindByOrder finds all shipments for an order
func (r *GormShipmentRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]fulfillment.Shipment, error) {
	var shipments []fulfillment.Shipment
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Find(&shipments).Error; err != nil {
		return nil, err
	}
	return shipments, nil
}

// FindByOrderAndPartner finds the shipment a partner owns for an order
func (r *GormShipmentRepository) FindByOrderAndPartner(ctx context.Context, orderID, partnerID uuid.UUID) (*fulfillment.Shipment, error) {
	var shipment fulfillment.Shipment
	if err := r.db.WithContext(ctx).
		Where("order_id = ? AND partner_id = ?", orderID, partnerID).
		First(&shipment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &shipment, nil
}

// Save creates or updates a shipment
func (r *GormShipmentRepository) Save(ctx context.Context, shipment *fulfillment.Shipment) error {
	return r.db.WithContext(ctx).Save(shipment).Error
}

var _ fulfillment.ShipmentRepository = (*GormShipmentRepository)(nil)
