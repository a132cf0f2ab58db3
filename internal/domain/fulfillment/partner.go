package fulfillment

import (
	"time"

	"github.com/keepselvesreal/k-beauty-landing-page/internal/domain/shared"
)

// FulfillmentPartner represents a regional fulfillment agent holding
// pre-allocated stock. Partners take turns fulfilling orders: the one
// least recently allocated to is selected first (round-robin fairness).
type FulfillmentPartner struct {
	shared.BaseAggregateRoot
	Name            string     `gorm:"size:255;not null"`
	Email           string     `gorm:"size:255;uniqueIndex"`
	Phone           string     `gorm:"size:20"`
	Address         string     `gorm:"type:text"`
	Region          string     `gorm:"size:50"`
	IsActive        bool       `gorm:"default:true;index"`
	LastAllocatedAt *time.Time `gorm:"index"`
}

// TableName returns the table name for GORM
func (FulfillmentPartner) TableName() string {
	return "fulfillment_partners"
}

// NewFulfillmentPartner creates a new fulfillment partner
func NewFulfillmentPartner(name, email, region string) (*FulfillmentPartner, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_PARTNER_NAME", "Partner name cannot be empty")
	}

	return &FulfillmentPartner{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Email:             email,
		Region:            region,
		IsActive:          true,
	}, nil
}

// MarkAllocated records that stock was just allocated to this partner.
// Moves the partner to the back of the round-robin rotation.
func (p *FulfillmentPartner) MarkAllocated(at time.Time) {
	p.LastAllocatedAt = &at
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// Activate makes the partner eligible for allocation
func (p *FulfillmentPartner) Activate() {
	p.IsActive = true
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// Deactivate removes the partner from the allocation rotation.
// Existing allocations and shipments are unaffected.
func (p *FulfillmentPartner) Deactivate() {
	p.IsActive = false
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}
