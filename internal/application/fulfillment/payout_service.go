package fulfillment

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/keepselvesreal/k-beauty-landing-page/internal/domain/fulfillment"
)

// PayoutService settles the shipping commission partners earn on delivered
// orders. Commission accrues per allocation, becomes payable once the order
// is delivered, and is paid out through an approve-or-reject ledger.
type PayoutService struct {
	allocationRepo fulfillment.ShipmentAllocationRepository
	payoutRepo     fulfillment.CommissionPayoutRepository
	partnerRepo    fulfillment.PartnerRepository
	logger         *zap.Logger
}

// NewPayoutService creates a new PayoutService
func NewPayoutService(
	allocationRepo fulfillment.ShipmentAllocationRepository,
	payoutRepo fulfillment.CommissionPayoutRepository,
	partnerRepo fulfillment.PartnerRepository,
	logger *zap.Logger,
) *PayoutService {
	return &PayoutService{
		allocationRepo: allocationRepo,
		payoutRepo:     payoutRepo,
		partnerRepo:    partnerRepo,
		logger:         logger,
	}
}

// PendingCommission reports commission a partner has earned on delivered
// orders. It is gross accrual, not net of payouts already made: the admin
// compares it against the payout history before creating a new payment.
func (s *PayoutService) PendingCommission(ctx context.Context, partnerID uuid.UUID) (decimal.Decimal, error) {
	if _, err := s.partnerRepo.FindByID(ctx, partnerID); err != nil {
		return decimal.Zero, err
	}
	return s.allocationRepo.SumShippingCommissionByPartner(ctx, partnerID)
}

// CreatePayoutRequest carries the admin input for a commission payment
type CreatePayoutRequest struct {
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	PaymentMethod string          `json:"payment_method" binding:"required"`
}

// CreatePayout opens a pending commission payment for a partner
func (s *PayoutService) CreatePayout(ctx context.Context, partnerID uuid.UUID, req CreatePayoutRequest) (*fulfillment.CommissionPayout, error) {
	if _, err := s.partnerRepo.FindByID(ctx, partnerID); err != nil {
		return nil, err
	}

	payout, err := fulfillment.NewCommissionPayout(partnerID, req.Amount, req.PaymentMethod)
	if err != nil {
		return nil, err
	}
	if err := s.payoutRepo.Save(ctx, payout); err != nil {
		return nil, err
	}

	s.logger.Info("commission payout created",
		zap.String("payout_id", payout.ID.String()),
		zap.String("partner_id", partnerID.String()),
		zap.String("amount", payout.Amount.String()))

	return payout, nil
}

// ApprovePayout marks a pending payout as paid
func (s *PayoutService) ApprovePayout(ctx context.Context, payoutID uuid.UUID) (*fulfillment.CommissionPayout, error) {
	payout, err := s.payoutRepo.FindByID(ctx, payoutID)
	if err != nil {
		return nil, err
	}
	if err := payout.Approve(); err != nil {
		return nil, err
	}
	if err := s.payoutRepo.Save(ctx, payout); err != nil {
		return nil, err
	}

	s.logger.Info("commission payout approved",
		zap.String("payout_id", payout.ID.String()),
		zap.String("partner_id", payout.PartnerID.String()))

	return payout, nil
}

// RejectPayout marks a pending payout as failed
func (s *PayoutService) RejectPayout(ctx context.Context, payoutID uuid.UUID) (*fulfillment.CommissionPayout, error) {
	payout, err := s.payoutRepo.FindByID(ctx, payoutID)
	if err != nil {
		return nil, err
	}
	if err := payout.Reject(); err != nil {
		return nil, err
	}
	if err := s.payoutRepo.Save(ctx, payout); err != nil {
		return nil, err
	}

	s.logger.Info("commission payout rejected",
		zap.String("payout_id", payout.ID.String()),
		zap.String("partner_id", payout.PartnerID.String()))

	return payout, nil
}

// ListPayouts returns a partner's payout history, newest first.
// An empty status returns every payout regardless of state.
func (s *PayoutService) ListPayouts(ctx context.Context, partnerID uuid.UUID, status fulfillment.PayoutStatus) ([]fulfillment.CommissionPayout, error) {
	if _, err := s.partnerRepo.FindByID(ctx, partnerID); err != nil {
		return nil, err
	}
	return s.payoutRepo.FindByPartner(ctx, partnerID, status)
}
