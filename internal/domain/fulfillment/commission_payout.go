package fulfillment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/keepselvesreal/k-beauty-landing-page/internal/domain/shared"
)

// PayoutStatus represents the settlement state of a commission payout
type PayoutStatus string

const (
	PayoutStatusPending   PayoutStatus = "pending"
	PayoutStatusCompleted PayoutStatus = "completed"
	PayoutStatusFailed    PayoutStatus = "failed"
)

// CommissionPayout is a settlement entry against a partner's accrued
// shipping commission. Payouts start pending and are approved or rejected
// by an admin; approval stamps the payment time.
type CommissionPayout struct {
	shared.BaseAggregateRoot
	PartnerID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount        decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	PaymentMethod string          `gorm:"size:100"`
	Status        PayoutStatus    `gorm:"size:50;default:pending;index"`
	PaidAt        *time.Time
}

// TableName returns the table name for GORM
func (CommissionPayout) TableName() string {
	return "shipping_commission_payments"
}

// NewCommissionPayout creates a pending payout for a partner
func NewCommissionPayout(partnerID uuid.UUID, amount decimal.Decimal, paymentMethod string) (*CommissionPayout, error) {
	if partnerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PARTNER", "Partner ID cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payout amount must be positive")
	}

	return &CommissionPayout{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		PartnerID:         partnerID,
		Amount:            amount.Round(2),
		PaymentMethod:     paymentMethod,
		Status:            PayoutStatusPending,
	}, nil
}

// Approve marks the payout as paid out
func (p *CommissionPayout) Approve() error {
	if p.Status != PayoutStatusPending {
		return shared.NewDomainError("PAYOUT_NOT_PENDING",
			"Only a pending payout can be approved")
	}

	now := time.Now()
	p.Status = PayoutStatusCompleted
	p.PaidAt = &now
	p.UpdatedAt = now
	p.IncrementVersion()
	return nil
}

// Reject marks the payout as failed
func (p *CommissionPayout) Reject() error {
	if p.Status != PayoutStatusPending {
		return shared.NewDomainError("PAYOUT_NOT_PENDING",
			"Only a pending payout can be rejected")
	}

	p.Status = PayoutStatusFailed
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}
