package order

import (
	"context"

	"github.com/keepselvesreal/k-beauty-landing-page/internal/domain/shared"
	"github.com/keepselvesreal/k-beauty-landing-page/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Shipping regions served by the storefront
const (
	RegionNCR      = "NCR"
	RegionLuzon    = "Luzon"
	RegionVisayas  = "Visayas"
	RegionMindanao = "Mindanao"
)

// ValidRegion reports whether the region is one the storefront ships to
func ValidRegion(region string) bool {
	switch region {
	case RegionNCR, RegionLuzon, RegionVisayas, RegionMindanao:
		return true
	}
	return false
}

// ShippingRate is the flat shipping fee charged for a region
type ShippingRate struct {
	shared.BaseEntity
	Region string          `gorm:"size:50;uniqueIndex;not null"`
	Fee    decimal.Decimal `gorm:"type:decimal(10,2);not null"`
}

// TableName returns the table name for GORM
func (ShippingRate) TableName() string {
	return "shipping_rates"
}

// NewShippingRate creates a shipping rate for a region
func NewShippingRate(region string, fee decimal.Decimal) (*ShippingRate, error) {
	if !ValidRegion(region) {
		return nil, shared.NewDomainError("INVALID_REGION", "Unknown shipping region: "+region)
	}
	if fee.IsNegative() {
		return nil, shared.NewDomainError("INVALID_FEE", "Shipping fee cannot be negative")
	}

	return &ShippingRate{
		BaseEntity: shared.NewBaseEntity(),
		Region:     region,
		Fee:        fee,
	}, nil
}

// FeeMoney returns the fee as a Money value object
func (r *ShippingRate) FeeMoney() valueobject.Money {
	return valueobject.NewMoneyPHP(r.Fee)
}

// ShippingRateRepository defines the interface for shipping rate persistence
type ShippingRateRepository interface {
	// FindByRegion finds the rate for a region
	FindByRegion(ctx context.Context, region string) (*ShippingRate, error)

	// FindAll returns all configured rates
	FindAll(ctx context.Context) ([]ShippingRate, error)

	// Save creates or updates a rate
	Save(ctx context.Context, rate *ShippingRate) error
}
