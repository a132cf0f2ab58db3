package order

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	fulfillmentapp "github.com/keepselvesreal/k-beauty-landing-page/internal/application/fulfillment"
	"github.com/keepselvesreal/k-beauty-landing-page/internal/domain/affiliate"
	"github.com/keepselvesreal/k-beauty-landing-page/internal/domain/catalog"
	"github.com/keepselvesreal/k-beauty-landing-page/internal/domain/fulfillment"
	"github.com/keepselvesreal/k-beauty-landing-page/internal/domain/order"
	"github.com/keepselvesreal/k-beauty-landing-page/internal/domain/shared"
)

// maxOrderNumberAttempts bounds retries when a generated order number collides
const maxOrderNumberAttempts = 5

// Allocator starts fulfillment for a paid order
type Allocator interface {
	AllocateOrder(ctx context.Context, orderID uuid.UUID) (*fulfillmentapp.AllocationResult, error)
}

// OrderService handles the customer-facing order lifecycle: checkout,
// payment, cancellation and refund requests.
type OrderService struct {
	orderRepo      order.Repository
	productRepo    catalog.ProductRepository
	rateRepo       order.ShippingRateRepository
	affiliateRepo  affiliate.AffiliateRepository
	ledger         fulfillment.InventoryLedger
	gateway        PaymentGateway
	allocator      Allocator
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(
	orderRepo order.Repository,
	productRepo catalog.ProductRepository,
	rateRepo order.ShippingRateRepository,
	affiliateRepo affiliate.AffiliateRepository,
	ledger fulfillment.InventoryLedger,
	gateway PaymentGateway,
	allocator Allocator,
	eventPublisher shared.EventPublisher,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:      orderRepo,
		productRepo:    productRepo,
		rateRepo:       rateRepo,
		affiliateRepo:  affiliateRepo,
		ledger:         ledger,
		gateway:        gateway,
		allocator:      allocator,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// CreateOrder places a new order awaiting payment. Availability is checked
// against the summed partner ledger so a customer cannot start checkout for
// quantity no partner set can cover. Stock is not reserved here: the ledger
// is only decremented at allocation time, after payment.
func (s *OrderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error) {
	if !order.ValidRegion(req.Region) {
		return nil, shared.NewDomainError("INVALID_REGION", "Unknown shipping region: "+req.Region)
	}

	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, shared.NewDomainError("PRODUCT_INACTIVE", "Product is not available for purchase")
	}

	total, err := s.ledger.TotalAvailableQuantity(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if total < req.Quantity {
		return nil, shared.ErrInsufficientInventory
	}

	affiliateCode, err := s.resolveAffiliateCode(ctx, req.AffiliateCode)
	if err != nil {
		return nil, err
	}

	rate, err := s.rateRepo.FindByRegion(ctx, req.Region)
	if err != nil {
		return nil, err
	}

	orderNumber, err := s.uniqueOrderNumber(ctx)
	if err != nil {
		return nil, err
	}

	ord, err := order.NewOrder(orderNumber, req.CustomerID, req.Region)
	if err != nil {
		return nil, err
	}
	if _, err := ord.AddItem(product.ID, req.Quantity, product.GetPriceMoney()); err != nil {
		return nil, err
	}
	if err := ord.SetShippingFee(rate.FeeMoney()); err != nil {
		return nil, err
	}
	if affiliateCode != "" {
		ord.SetAffiliateCode(affiliateCode)
	}

	if err := s.orderRepo.Save(ctx, ord); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, ord)

	s.logger.Info("order created",
		zap.String("order_number", ord.OrderNumber),
		zap.String("customer_id", ord.CustomerID.String()),
		zap.Int("quantity", req.Quantity),
		zap.String("region", ord.Region))

	return ToOrderResponse(ord), nil
}

// InitiatePayment registers the order with the payment provider and stores
// the provider's order ID for the later capture step.
func (s *OrderService) InitiatePayment(ctx context.Context, orderNumber string) (*OrderResponse, error) {
	ord, err := s.orderRepo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	if ord.PaymentStatus != order.PaymentStatusPending {
		return nil, shared.NewDomainError("INVALID_STATE", "Payment can only be initiated for a pending order")
	}

	gatewayOrderID, err := s.gateway.CreateOrder(ctx, ord.GetTotalMoney(), "Order "+ord.OrderNumber)
	if err != nil {
		s.logger.Error("payment initiation failed",
			zap.String("order_number", ord.OrderNumber), zap.Error(err))
		return nil, shared.NewDomainError("PAYMENT_GATEWAY_ERROR", "Could not initiate payment")
	}

	ord.PaypalOrderID = gatewayOrderID
	if err := s.orderRepo.Save(ctx, ord); err != nil {
		return nil, err
	}

	return ToOrderResponse(ord), nil
}

// CapturePayment captures the pending payment and, on success, hands the
// order to the allocation engine. An order whose capture succeeds but whose
// allocation fails stays paid with shipping pending; it is surfaced by
// ListAwaitingAllocation and retried after restocking.
func (s *OrderService) CapturePayment(ctx context.Context, orderNumber string) (*CapturePaymentResult, error) {
	ord, err := s.orderRepo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	if ord.PaypalOrderID == "" {
		return nil, shared.NewDomainError("PAYMENT_NOT_INITIATED", "Payment has not been initiated for this order")
	}

	captureID, err := s.gateway.CaptureOrder(ctx, ord.PaypalOrderID)
	if err != nil {
		if failErr := ord.FailPayment(); failErr != nil {
			return nil, failErr
		}
		if saveErr := s.orderRepo.Save(ctx, ord); saveErr != nil {
			return nil, saveErr
		}
		s.publishEvents(ctx, ord)
		s.logger.Warn("payment capture failed",
			zap.String("order_number", ord.OrderNumber), zap.Error(err))
		return nil, shared.NewDomainError("PAYMENT_FAILED", "Payment capture failed")
	}

	if err := ord.CapturePayment(ord.PaypalOrderID, captureID); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, ord); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, ord)

	allocated := true
	if _, err := s.allocator.AllocateOrder(ctx, ord.ID); err != nil {
		allocated = false
		if errors.Is(err, shared.ErrInsufficientInventory) {
			s.logger.Warn("paid order awaiting allocation",
				zap.String("order_number", ord.OrderNumber))
		} else {
			s.logger.Error("allocation failed after capture",
				zap.String("order_number", ord.OrderNumber), zap.Error(err))
		}
	}

	// Re-read: allocation advances shipping status in its own transaction
	ord, err = s.orderRepo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}

	return &CapturePaymentResult{
		Order:     ToOrderResponse(ord),
		Allocated: allocated,
	}, nil
}

// RetryAllocation re-runs the allocation engine for a paid order that could
// not be fulfilled at capture time, e.g. after an admin restock.
func (s *OrderService) RetryAllocation(ctx context.Context, orderNumber string) (*OrderResponse, error) {
	ord, err := s.orderRepo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}

	if _, err := s.allocator.AllocateOrder(ctx, ord.ID); err != nil {
		return nil, err
	}

	ord, err = s.orderRepo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	return ToOrderResponse(ord), nil
}

// RequestCancellation opens the cancellation sub-flow for an order
func (s *OrderService) RequestCancellation(ctx context.Context, orderNumber, reason string) (*OrderResponse, error) {
	return s.mutateOrder(ctx, orderNumber, func(ord *order.Order) error {
		return ord.RequestCancellation(reason)
	})
}

// ApproveCancellation completes a pending cancellation. Undoing ledger
// decrements for already-allocated orders is an admin restock concern,
// handled separately.
func (s *OrderService) ApproveCancellation(ctx context.Context, orderNumber string) (*OrderResponse, error) {
	return s.mutateOrder(ctx, orderNumber, func(ord *order.Order) error {
		return ord.ApproveCancellation()
	})
}

// RequestRefund opens the refund sub-flow for a delivered order
func (s *OrderService) RequestRefund(ctx context.Context, orderNumber, reason string) (*OrderResponse, error) {
	return s.mutateOrder(ctx, orderNumber, func(ord *order.Order) error {
		return ord.RequestRefund(reason)
	})
}

// ApproveRefund completes a pending refund
func (s *OrderService) ApproveRefund(ctx context.Context, orderNumber string) (*OrderResponse, error) {
	return s.mutateOrder(ctx, orderNumber, func(ord *order.Order) error {
		return ord.ApproveRefund()
	})
}

// GetOrder returns an order by its order number
func (s *OrderService) GetOrder(ctx context.Context, orderNumber string) (*OrderResponse, error) {
	ord, err := s.orderRepo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	return ToOrderResponse(ord), nil
}

// ListCustomerOrders returns a customer's orders
func (s *OrderService) ListCustomerOrders(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]OrderResponse, error) {
	orders, err := s.orderRepo.FindByCustomer(ctx, customerID, filter)
	if err != nil {
		return nil, err
	}
	return toOrderResponses(orders), nil
}

// ListAwaitingAllocation returns paid orders whose allocation has not yet
// succeeded. Admins retry these after restocking partners.
func (s *OrderService) ListAwaitingAllocation(ctx context.Context, filter shared.Filter) ([]OrderResponse, error) {
	orders, err := s.orderRepo.FindPaidUnallocated(ctx, filter)
	if err != nil {
		return nil, err
	}
	return toOrderResponses(orders), nil
}

func (s *OrderService) mutateOrder(ctx context.Context, orderNumber string, mutate func(*order.Order) error) (*OrderResponse, error) {
	ord, err := s.orderRepo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	if err := mutate(ord); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, ord); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, ord)
	return ToOrderResponse(ord), nil
}

// resolveAffiliateCode validates a referral code against registered
// affiliates. Blank, unknown and inactive codes all resolve to no code: a
// stale marketing link must never block the checkout, it just earns no
// commission.
func (s *OrderService) resolveAffiliateCode(ctx context.Context, code string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", nil
	}

	aff, err := s.affiliateRepo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("ignoring unknown affiliate code", zap.String("affiliate_code", code))
			return "", nil
		}
		return "", err
	}
	if !aff.IsActive {
		s.logger.Warn("ignoring inactive affiliate code", zap.String("affiliate_code", code))
		return "", nil
	}
	return aff.Code, nil
}

func (s *OrderService) uniqueOrderNumber(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxOrderNumberAttempts; attempt++ {
		candidate, err := generateOrderNumber(timeNow())
		if err != nil {
			return "", err
		}
		exists, err := s.orderRepo.ExistsByOrderNumber(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", shared.NewDomainError("ORDER_NUMBER_EXHAUSTED", "Could not generate a unique order number")
}

func (s *OrderService) publishEvents(ctx context.Context, ord *order.Order) {
	if s.eventPublisher == nil {
		return
	}
	events := ord.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish order events",
			zap.String("order_number", ord.OrderNumber), zap.Error(err))
	}
	ord.ClearDomainEvents()
}

func toOrderResponses(orders []order.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, *ToOrderResponse(&orders[i]))
	}
	return out
}

// timeNow is a seam for tests
var timeNow = time.Now
