package affiliate

import (
	"github.com/google/uuid"
	"github.com/keepselvesreal/k-beauty-landing-page/internal/domain/shared"
	"github.com/keepselvesreal/k-beauty-landing-page/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// CommissionRecord is the single commission entry for a qualifying order.
// A unique index on OrderID backs the once-per-order guarantee: writing a
// second record for the same order is a defect, not a valid state.
type CommissionRecord struct {
	shared.BaseAggregateRoot
	AffiliateCode    string          `gorm:"size:100;not null;index"`
	OrderID          uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	CommissionAmount decimal.Decimal `gorm:"type:decimal(10,2);not null"`
}

// TableName returns the table name for GORM
func (CommissionRecord) TableName() string {
	return "affiliate_sales"
}

// NewCommissionRecord creates a commission record for an order
func NewCommissionRecord(orderID uuid.UUID, affiliateCode string, amount valueobject.Money) (*CommissionRecord, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order ID cannot be empty")
	}
	if affiliateCode == "" {
		return nil, shared.NewDomainError("INVALID_AFFILIATE_CODE", "Affiliate code cannot be empty")
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COMMISSION", "Commission amount cannot be negative")
	}

	return &CommissionRecord{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		AffiliateCode:     affiliateCode,
		OrderID:           orderID,
		CommissionAmount:  amount.Amount().Round(2),
	}, nil
}

// CalculateCommission derives the commission from the order profit and
// the configured rate (0.2 = 20%).
func CalculateCommission(profit valueobject.Money, rate decimal.Decimal) valueobject.Money {
	return profit.Multiply(rate).Round(2)
}

// Affiliate is a registered influencer whose code can be attached to orders
type Affiliate struct {
	shared.BaseAggregateRoot
	Code     string `gorm:"size:100;uniqueIndex;not null"`
	Name     string `gorm:"size:255;not null"`
	Email    string `gorm:"size:255"`
	IsActive bool   `gorm:"default:true;index"`
}

// TableName returns the table name for GORM
func (Affiliate) TableName() string {
	return "affiliates"
}

// NewAffiliate creates a new affiliate
func NewAffiliate(code, name, email string) (*Affiliate, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_AFFILIATE_CODE", "Affiliate code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_AFFILIATE_NAME", "Affiliate name cannot be empty")
	}

	return &Affiliate{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              name,
		Email:             email,
		IsActive:          true,
	}, nil
}
