package affiliate

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/keepselvesreal/k-beauty-landing-page/internal/domain/affiliate"
	"github.com/keepselvesreal/k-beauty-landing-page/internal/domain/order"
	"github.com/keepselvesreal/k-beauty-landing-page/internal/domain/shared"
	"github.com/keepselvesreal/k-beauty-landing-page/internal/domain/shared/valueobject"
)

// Commission defaults. The per-order profit is a business constant for the
// single-product storefront; the rate is the affiliate's cut of that profit.
var (
	DefaultCommissionRate = decimal.NewFromFloat(0.20)
	DefaultProfitPerOrder = decimal.NewFromInt(80)
)

// CommissionService records affiliate commissions for fulfilled orders.
// Recording is idempotent per order: replayed or duplicated events leave
// exactly one commission record behind.
type CommissionService struct {
	commissionRepo affiliate.CommissionRepository
	rate           decimal.Decimal
	profitPerOrder valueobject.Money
	logger         *zap.Logger
}

// CommissionServiceOption configures a CommissionService
type CommissionServiceOption func(*CommissionService)

// WithCommissionRate overrides the commission rate (0.2 = 20%)
func WithCommissionRate(rate decimal.Decimal) CommissionServiceOption {
	return func(s *CommissionService) {
		if rate.IsPositive() {
			s.rate = rate
		}
	}
}

// WithProfitPerOrder overrides the per-order profit the rate applies to
func WithProfitPerOrder(profit valueobject.Money) CommissionServiceOption {
	return func(s *CommissionService) {
		if profit.IsPositive() {
			s.profitPerOrder = profit
		}
	}
}

// NewCommissionService creates a new CommissionService
func NewCommissionService(commissionRepo affiliate.CommissionRepository, logger *zap.Logger, opts ...CommissionServiceOption) *CommissionService {
	s := &CommissionService{
		commissionRepo: commissionRepo,
		rate:           DefaultCommissionRate,
		profitPerOrder: valueobject.NewMoneyPHP(DefaultProfitPerOrder),
		logger:         logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RecordCommission writes the commission record for an order once.
// Calling it again for the same order is a no-op returning the existing
// record, so event redelivery cannot double-pay an affiliate.
func (s *CommissionService) RecordCommission(ctx context.Context, orderID uuid.UUID, affiliateCode string) (*affiliate.CommissionRecord, error) {
	if affiliateCode == "" {
		return nil, shared.NewDomainError("NO_AFFILIATE_CODE", "Order carries no affiliate code")
	}

	exists, err := s.commissionRepo.ExistsByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if exists {
		s.logger.Debug("commission already recorded",
			zap.String("order_id", orderID.String()))
		return s.commissionRepo.FindByOrder(ctx, orderID)
	}

	amount := affiliate.CalculateCommission(s.profitPerOrder, s.rate)
	record, err := affiliate.NewCommissionRecord(orderID, affiliateCode, amount)
	if err != nil {
		return nil, err
	}

	if err := s.commissionRepo.Save(ctx, record); err != nil {
		// A concurrent writer may have hit the unique index first.
		if existing, findErr := s.commissionRepo.FindByOrder(ctx, orderID); findErr == nil {
			return existing, nil
		}
		return nil, err
	}

	s.logger.Info("affiliate commission recorded",
		zap.String("order_id", orderID.String()),
		zap.String("affiliate_code", affiliateCode),
		zap.String("amount", record.CommissionAmount.String()))

	return record, nil
}

// GetAffiliateSales returns all commission records for an affiliate code
func (s *CommissionService) GetAffiliateSales(ctx context.Context, code string) ([]affiliate.CommissionRecord, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_AFFILIATE_CODE", "Affiliate code cannot be empty")
	}
	return s.commissionRepo.FindByAffiliateCode(ctx, code)
}

// OrderAllocatedHandler records a commission whenever an order with an
// affiliate code enters fulfillment
type OrderAllocatedHandler struct {
	service *CommissionService
	logger  *zap.Logger
}

// NewOrderAllocatedHandler creates a new OrderAllocatedHandler
func NewOrderAllocatedHandler(service *CommissionService, logger *zap.Logger) *OrderAllocatedHandler {
	return &OrderAllocatedHandler{
		service: service,
		logger:  logger,
	}
}

// EventTypes returns the event types this handler subscribes to
func (h *OrderAllocatedHandler) EventTypes() []string {
	return []string{order.EventTypeOrderAllocated}
}

// Handle records the commission for an allocated order. Orders without an
// affiliate code are skipped silently.
func (h *OrderAllocatedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	e, ok := event.(*order.OrderAllocatedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type %T for %s", event, order.EventTypeOrderAllocated)
	}

	if e.AffiliateCode == "" {
		return nil
	}

	_, err := h.service.RecordCommission(ctx, e.OrderID, e.AffiliateCode)
	return err
}

var _ shared.EventHandler = (*OrderAllocatedHandler)(nil)
