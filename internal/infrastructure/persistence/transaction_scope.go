package persistence

import (
	"context"

	"gorm.io/gorm"

	appfulfillment "github.com/keepselvesreal/k-beauty-landing-page/internal/application/fulfillment"
	"github.com/keepselvesreal/k-beauty-landing-page/internal/domain/fulfillment"
	"github.com/keepselvesreal/k-beauty-landing-page/internal/domain/order"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// All repositories handed to the callback are bound to the same tx, so an
// error anywhere rolls back every allocation write together.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the function within a database transaction
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appfulfillment.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories provides tx-bound repositories
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) Ledger() fulfillment.InventoryLedger {
	return NewGormInventoryLedger(r.tx)
}

func (r *gormTransactionalRepositories) PartnerRepo() fulfillment.PartnerRepository {
	return NewGormPartnerRepository(r.tx)
}

func (r *gormTransactionalRepositories) AllocationRepo() fulfillment.ShipmentAllocationRepository {
	return NewGormShipmentAllocationRepository(r.tx)
}

func (r *gormTransactionalRepositories) ShipmentRepo() fulfillment.ShipmentRepository {
	return NewGormShipmentRepository(r.tx)
}

func (r *gormTransactionalRepositories) OrderRepo() order.Repository {
	return NewGormOrderRepository(r.tx)
}

var _ appfulfillment.TransactionScope = (*GormTransactionScope)(nil)
var _ appfulfillment.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
