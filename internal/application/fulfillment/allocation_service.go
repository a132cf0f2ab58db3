package fulfillment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/keepselvesreal/k-beauty-landing-page/internal/domain/fulfillment"
	"github.com/keepselvesreal/k-beauty-landing-page/internal/domain/order"
	"github.com/keepselvesreal/k-beauty-landing-page/internal/domain/shared"
)

// DefaultMaxDecrementRetries bounds how many times a single candidate's
// ledger row is retried after a version conflict before moving on.
const DefaultMaxDecrementRetries = 3

// DefaultShippingCommissionPerUnit is the partner's shipping commission in
// PHP for each unit allocated to them, absent configuration.
var DefaultShippingCommissionPerUnit = decimal.NewFromInt(10)

// AllocationService distributes a paid order's quantities across
// fulfillment partners. Partners are ranked by least-recently-allocated
// and the needed quantity is consumed greedily down the ranking, so a
// single order may be split across several partners. All ledger writes,
// allocation records and the order status advance happen in one
// transaction: either the whole order is allocated or nothing is.
type AllocationService struct {
	scope             TransactionScope
	eventPublisher    shared.EventPublisher
	logger            *zap.Logger
	maxRetries        int
	commissionPerUnit decimal.Decimal
	now               func() time.Time
}

// AllocationServiceOption configures an AllocationService
type AllocationServiceOption func(*AllocationService)

// WithMaxDecrementRetries overrides the per-candidate retry bound for
// version-conflicted ledger decrements
func WithMaxDecrementRetries(n int) AllocationServiceOption {
	return func(s *AllocationService) {
		if n > 0 {
			s.maxRetries = n
		}
	}
}

// WithShippingCommissionPerUnit overrides the per-unit shipping commission
// stamped on each allocation
func WithShippingCommissionPerUnit(amount decimal.Decimal) AllocationServiceOption {
	return func(s *AllocationService) {
		if !amount.IsNegative() {
			s.commissionPerUnit = amount
		}
	}
}

// WithClock overrides the time source. Used in tests.
func WithClock(now func() time.Time) AllocationServiceOption {
	return func(s *AllocationService) {
		s.now = now
	}
}

// NewAllocationService creates a new AllocationService
func NewAllocationService(
	scope TransactionScope,
	eventPublisher shared.EventPublisher,
	logger *zap.Logger,
	opts ...AllocationServiceOption,
) *AllocationService {
	s := &AllocationService{
		scope:             scope,
		eventPublisher:    eventPublisher,
		logger:            logger,
		maxRetries:        DefaultMaxDecrementRetries,
		commissionPerUnit: DefaultShippingCommissionPerUnit,
		now:               time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LineAllocation describes how much of one order item a single partner took
type LineAllocation struct {
	OrderItemID        uuid.UUID
	ProductID          uuid.UUID
	PartnerID          uuid.UUID
	Quantity           int
	ShippingCommission decimal.Decimal
}

// AllocationResult is the outcome of a successful order allocation
type AllocationResult struct {
	OrderID     uuid.UUID
	OrderNumber string
	Allocations []LineAllocation
}

// AllocateOrder assigns every item of a paid order to fulfillment
// partners and advances the order to preparing. The order must be paid
// and not yet in fulfillment. If total availability cannot cover any
// item the call fails with INSUFFICIENT_INVENTORY before touching the
// ledger; the order stays paid so the allocation can be retried after a
// replenishment.
func (s *AllocationService) AllocateOrder(ctx context.Context, orderID uuid.UUID) (*AllocationResult, error) {
	var (
		result *AllocationResult
		events []shared.DomainEvent
	)

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		ord, err := repos.OrderRepo().FindByID(ctx, orderID)
		if err != nil {
			return err
		}

		if ord.PaymentStatus != order.PaymentStatusPaid {
			return shared.NewDomainError("ORDER_NOT_PAID",
				fmt.Sprintf("order %s is not paid (payment status: %s)", ord.OrderNumber, ord.PaymentStatus))
		}
		if ord.ShippingStatus != order.ShippingStatusPending {
			return shared.NewDomainError("ORDER_ALREADY_IN_FULFILLMENT",
				fmt.Sprintf("order %s is already in fulfillment (shipping status: %s)", ord.OrderNumber, ord.ShippingStatus))
		}

		// Fast preflight across all items so an obviously unfillable order
		// fails before any ledger row is written.
		for _, item := range ord.Items {
			total, err := repos.Ledger().TotalAvailableQuantity(ctx, item.ProductID)
			if err != nil {
				return err
			}
			if total < item.Quantity {
				return shared.ErrInsufficientInventory
			}
		}

		var allocations []LineAllocation
		for i := range ord.Items {
			item := &ord.Items[i]
			lineAllocs, lineEvents, err := s.allocateLineItem(ctx, repos, ord.ID, item)
			if err != nil {
				return err
			}
			allocations = append(allocations, lineAllocs...)
			events = append(events, lineEvents...)
		}

		if err := ord.MarkPreparing(); err != nil {
			return err
		}
		if err := repos.OrderRepo().Save(ctx, ord); err != nil {
			return err
		}

		events = append(events, ord.GetDomainEvents()...)
		ord.ClearDomainEvents()

		result = &AllocationResult{
			OrderID:     ord.ID,
			OrderNumber: ord.OrderNumber,
			Allocations: allocations,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events)

	s.logger.Info("order allocated",
		zap.String("order_id", result.OrderID.String()),
		zap.String("order_number", result.OrderNumber),
		zap.Int("allocation_count", len(result.Allocations)))

	return result, nil
}

// allocateLineItem consumes one item's quantity down a ranked snapshot
// of partner candidates. Ranking is computed once per item; candidates
// whose rows change underneath us are retried in place, candidates that
// run dry are skipped.
func (s *AllocationService) allocateLineItem(
	ctx context.Context,
	repos TransactionalRepositories,
	orderID uuid.UUID,
	item *order.OrderItem,
) ([]LineAllocation, []shared.DomainEvent, error) {
	partners, err := repos.PartnerRepo().FindActiveByProduct(ctx, item.ProductID)
	if err != nil {
		return nil, nil, err
	}
	inventories, err := repos.Ledger().FindByProduct(ctx, item.ProductID)
	if err != nil {
		return nil, nil, err
	}

	candidates := fulfillment.RankCandidates(partners, inventories)

	var (
		allocations []LineAllocation
		events      []shared.DomainEvent
		remaining   = item.Quantity
		now         = s.now().UTC()
	)

	for _, candidate := range candidates {
		if remaining <= 0 {
			break
		}

		taken, takenEvents, err := s.decrementWithRetry(ctx, repos, candidate, item.ProductID, remaining)
		if err != nil {
			return nil, nil, err
		}
		if taken == 0 {
			continue
		}
		events = append(events, takenEvents...)

		commission := s.commissionPerUnit.Mul(decimal.NewFromInt(int64(taken)))
		alloc, err := fulfillment.NewShipmentAllocation(orderID, item.ID, candidate.PartnerID, taken, commission)
		if err != nil {
			return nil, nil, err
		}
		if err := repos.AllocationRepo().Save(ctx, alloc); err != nil {
			return nil, nil, err
		}
		if err := repos.PartnerRepo().UpdateLastAllocatedAt(ctx, candidate.PartnerID, now); err != nil {
			return nil, nil, err
		}

		allocations = append(allocations, LineAllocation{
			OrderItemID:        item.ID,
			ProductID:          item.ProductID,
			PartnerID:          candidate.PartnerID,
			Quantity:           taken,
			ShippingCommission: commission,
		})
		remaining -= taken
	}

	if remaining > 0 {
		// Availability shrank between the preflight and the decrements.
		// The transaction rolls back whole, leaving the order paid.
		return nil, nil, shared.ErrInsufficientInventory
	}

	return allocations, events, nil
}

// decrementWithRetry takes as much of need as the candidate can give,
// re-reading the ledger row and retrying on version conflicts up to the
// configured bound. Returns 0 when the candidate has nothing left.
func (s *AllocationService) decrementWithRetry(
	ctx context.Context,
	repos TransactionalRepositories,
	candidate fulfillment.Candidate,
	productID uuid.UUID,
	need int,
) (int, []shared.DomainEvent, error) {
	available := candidate.AvailableQuantity
	version := candidate.Version

	for attempt := 0; attempt < s.maxRetries; attempt++ {
		take := need
		if available < take {
			take = available
		}
		if take <= 0 {
			return 0, nil, nil
		}

		res, err := repos.Ledger().TryDecrement(ctx, candidate.PartnerID, productID, take, version)
		if err == nil {
			event := fulfillment.NewStockDecrementedEvent(res.InventoryID, candidate.PartnerID, productID, take, res.NewRemaining)
			return take, []shared.DomainEvent{event}, nil
		}

		switch {
		case errors.Is(err, shared.ErrVersionConflict):
			// Another allocation touched this row first. Re-read and retry.
			inv, readErr := repos.Ledger().FindByPartnerAndProduct(ctx, candidate.PartnerID, productID)
			if readErr != nil {
				if errors.Is(readErr, shared.ErrNotFound) {
					return 0, nil, nil
				}
				return 0, nil, readErr
			}
			available = inv.RemainingQuantity
			version = inv.Version
			s.logger.Debug("ledger version conflict, retrying",
				zap.String("partner_id", candidate.PartnerID.String()),
				zap.String("product_id", productID.String()),
				zap.Int("attempt", attempt+1))
		case errors.Is(err, shared.ErrInsufficientStock):
			// Row was drained under us. Skip this candidate.
			return 0, nil, nil
		case errors.Is(err, shared.ErrNotFound):
			return 0, nil, nil
		default:
			return 0, nil, err
		}
	}

	s.logger.Warn("candidate retries exhausted, skipping partner",
		zap.String("partner_id", candidate.PartnerID.String()),
		zap.String("product_id", productID.String()),
		zap.Int("max_retries", s.maxRetries))
	return 0, nil, nil
}

func (s *AllocationService) publish(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish allocation events", zap.Error(err))
	}
}
