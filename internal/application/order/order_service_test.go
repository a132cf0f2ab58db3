package order

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/keepselvesreal/k-beauty-landing-page/internal/domain/affiliate"
	"github.com/keepselvesreal/k-beauty-landing-page/internal/domain/catalog"
	"github.com/keepselvesreal/k-beauty-landing-page/internal/domain/order"
	"github.com/keepselvesreal/k-beauty-landing-page/internal/domain/shared"
	"github.com/keepselvesreal/k-beauty-landing-page/internal/domain/shared/valueobject"
)

type orderEnv struct {
	service   *OrderService
	orders    *memoryOrderRepo
	products  *memoryProductRepo
	ledger    *stubLedger
	gateway   *stubGateway
	allocator *stubAllocator
	publisher *capturingPublisher
	product   *catalog.Product
}

func newOrderEnv(t *testing.T) *orderEnv {
	t.Helper()

	orders := newMemoryOrderRepo()
	products := newMemoryProductRepo()
	rates := newMemoryRateRepo()
	affiliates := newMemoryAffiliateRepo()
	ledger := newStubLedger()
	gateway := &stubGateway{}
	allocator := &stubAllocator{repo: orders}
	publisher := &capturingPublisher{}

	product, err := catalog.NewProduct("Snail Mucin Essence", "SKU-ESSENCE", valueobject.NewMoneyPHPFromFloat(350))
	require.NoError(t, err)
	require.NoError(t, products.Save(context.Background(), product))
	ledger.totals[product.ID] = 10

	aff, err := affiliate.NewAffiliate("GLOW10", "Glow Reviews", "glow@example.com")
	require.NoError(t, err)
	require.NoError(t, affiliates.Save(context.Background(), aff))

	dormant, err := affiliate.NewAffiliate("OLD5", "Dormant Channel", "")
	require.NoError(t, err)
	dormant.IsActive = false
	require.NoError(t, affiliates.Save(context.Background(), dormant))

	service := NewOrderService(orders, products, rates, affiliates, ledger,
		gateway, allocator, publisher, zap.NewNop())

	return &orderEnv{
		service:   service,
		orders:    orders,
		products:  products,
		ledger:    ledger,
		gateway:   gateway,
		allocator: allocator,
		publisher: publisher,
		product:   product,
	}
}

func (e *orderEnv) createOrder(t *testing.T, quantity int, affiliateCode string) *OrderResponse {
	t.Helper()
	resp, err := e.service.CreateOrder(context.Background(), CreateOrderRequest{
		CustomerID:    uuid.New(),
		ProductID:     e.product.ID,
		Quantity:      quantity,
		Region:        order.RegionNCR,
		AffiliateCode: affiliateCode,
	})
	require.NoError(t, err)
	e.publisher.reset()
	return resp
}

func serviceErrCode(t *testing.T, err error) string {
	t.Helper()
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	return domainErr.Code
}

func TestCreateOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a pending order with shipping fee and totals", func(t *testing.T) {
		env := newOrderEnv(t)

		resp, err := env.service.CreateOrder(ctx, CreateOrderRequest{
			CustomerID: uuid.New(),
			ProductID:  env.product.ID,
			Quantity:   2,
			Region:     order.RegionNCR,
		})
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(resp.OrderNumber, "ORD-"))
		assert.Equal(t, string(order.PaymentStatusPending), resp.PaymentStatus)
		assert.Equal(t, string(order.ShippingStatusPending), resp.ShippingStatus)
		assert.True(t, resp.Subtotal.Equal(decimal.RequireFromString("700")))
		assert.True(t, resp.ShippingFee.Equal(decimal.RequireFromString("80")))
		assert.True(t, resp.TotalPrice.Equal(decimal.RequireFromString("780")))

		stored, err := env.orders.FindByOrderNumber(ctx, resp.OrderNumber)
		require.NoError(t, err)
		assert.Len(t, stored.Items, 1)
		assert.Equal(t, []string{order.EventTypeOrderCreated}, env.publisher.eventTypes())
	})

	t.Run("attaches a valid affiliate code", func(t *testing.T) {
		env := newOrderEnv(t)
		resp := env.createOrder(t, 1, "GLOW10")
		assert.Equal(t, "GLOW10", resp.AffiliateCode)
	})

	t.Run("ignores unknown affiliate codes", func(t *testing.T) {
		env := newOrderEnv(t)
		resp, err := env.service.CreateOrder(ctx, CreateOrderRequest{
			CustomerID:    uuid.New(),
			ProductID:     env.product.ID,
			Quantity:      1,
			Region:        order.RegionNCR,
			AffiliateCode: "STALE-CODE",
		})
		require.NoError(t, err)
		assert.Empty(t, resp.AffiliateCode)
	})

	t.Run("ignores inactive affiliate codes", func(t *testing.T) {
		env := newOrderEnv(t)
		resp, err := env.service.CreateOrder(ctx, CreateOrderRequest{
			CustomerID:    uuid.New(),
			ProductID:     env.product.ID,
			Quantity:      1,
			Region:        order.RegionNCR,
			AffiliateCode: "OLD5",
		})
		require.NoError(t, err)
		assert.Empty(t, resp.AffiliateCode)
	})

	t.Run("rejects unknown regions", func(t *testing.T) {
		env := newOrderEnv(t)
		_, err := env.service.CreateOrder(ctx, CreateOrderRequest{
			CustomerID: uuid.New(),
			ProductID:  env.product.ID,
			Quantity:   1,
			Region:     "Palawan",
		})
		assert.Equal(t, "INVALID_REGION", serviceErrCode(t, err))
	})

	t.Run("rejects deactivated products", func(t *testing.T) {
		env := newOrderEnv(t)
		env.product.Deactivate()
		_, err := env.service.CreateOrder(ctx, CreateOrderRequest{
			CustomerID: uuid.New(),
			ProductID:  env.product.ID,
			Quantity:   1,
			Region:     order.RegionNCR,
		})
		assert.Equal(t, "PRODUCT_INACTIVE", serviceErrCode(t, err))
	})

	t.Run("fails fast when no partner set can cover the quantity", func(t *testing.T) {
		env := newOrderEnv(t)
		_, err := env.service.CreateOrder(ctx, CreateOrderRequest{
			CustomerID: uuid.New(),
			ProductID:  env.product.ID,
			Quantity:   11,
			Region:     order.RegionNCR,
		})
		assert.ErrorIs(t, err, shared.ErrInsufficientInventory)
		assert.Empty(t, env.publisher.eventTypes())
	})

	t.Run("unknown product", func(t *testing.T) {
		env := newOrderEnv(t)
		_, err := env.service.CreateOrder(ctx, CreateOrderRequest{
			CustomerID: uuid.New(),
			ProductID:  uuid.New(),
			Quantity:   1,
			Region:     order.RegionNCR,
		})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("gives up when order numbers keep colliding", func(t *testing.T) {
		env := newOrderEnv(t)
		env.orders.existsAlways = true
		_, err := env.service.CreateOrder(ctx, CreateOrderRequest{
			CustomerID: uuid.New(),
			ProductID:  env.product.ID,
			Quantity:   1,
			Region:     order.RegionNCR,
		})
		assert.Equal(t, "ORDER_NUMBER_EXHAUSTED", serviceErrCode(t, err))
	})
}

func TestInitiatePayment(t *testing.T) {
	ctx := context.Background()

	t.Run("stores the gateway order id", func(t *testing.T) {
		env := newOrderEnv(t)
		created := env.createOrder(t, 2, "")

		resp, err := env.service.InitiatePayment(ctx, created.OrderNumber)
		require.NoError(t, err)
		assert.Equal(t, string(order.PaymentStatusPending), resp.PaymentStatus)
		assert.Equal(t, 1, env.gateway.createCalls)
		assert.True(t, env.gateway.lastAmount.Amount().Equal(decimal.RequireFromString("780")))

		stored, err := env.orders.FindByOrderNumber(ctx, created.OrderNumber)
		require.NoError(t, err)
		assert.Equal(t, "PAYPAL-ORDER-1", stored.PaypalOrderID)
	})

	t.Run("wraps gateway failures", func(t *testing.T) {
		env := newOrderEnv(t)
		created := env.createOrder(t, 1, "")
		env.gateway.createErr = errors.New("paypal: 503")

		_, err := env.service.InitiatePayment(ctx, created.OrderNumber)
		assert.Equal(t, "PAYMENT_GATEWAY_ERROR", serviceErrCode(t, err))
	})

	t.Run("only pending orders can initiate payment", func(t *testing.T) {
		env := newOrderEnv(t)
		created := env.createOrder(t, 1, "")
		_, err := env.service.InitiatePayment(ctx, created.OrderNumber)
		require.NoError(t, err)
		_, err = env.service.CapturePayment(ctx, created.OrderNumber)
		require.NoError(t, err)

		_, err = env.service.InitiatePayment(ctx, created.OrderNumber)
		assert.Equal(t, "INVALID_STATE", serviceErrCode(t, err))
	})

	t.Run("unknown order", func(t *testing.T) {
		env := newOrderEnv(t)
		_, err := env.service.InitiatePayment(ctx, "ORD-20260101-XXXXXX")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestCapturePayment(t *testing.T) {
	ctx := context.Background()

	initiated := func(t *testing.T, env *orderEnv) string {
		t.Helper()
		created := env.createOrder(t, 2, "")
		_, err := env.service.InitiatePayment(ctx, created.OrderNumber)
		require.NoError(t, err)
		env.publisher.reset()
		return created.OrderNumber
	}

	t.Run("capture then allocation hands the order to fulfillment", func(t *testing.T) {
		env := newOrderEnv(t)
		orderNumber := initiated(t, env)

		result, err := env.service.CapturePayment(ctx, orderNumber)
		require.NoError(t, err)
		assert.True(t, result.Allocated)
		assert.Equal(t, string(order.PaymentStatusPaid), result.Order.PaymentStatus)
		assert.Equal(t, string(order.ShippingStatusPreparing), result.Order.ShippingStatus)
		assert.Equal(t, 1, env.allocator.calls)
		assert.Equal(t, []string{order.EventTypeOrderPaid}, env.publisher.eventTypes())

		stored, err := env.orders.FindByOrderNumber(ctx, orderNumber)
		require.NoError(t, err)
		assert.Equal(t, "CAPTURE-1", stored.PaypalCaptureID)
		require.NotNil(t, stored.PaidAt)
	})

	t.Run("allocation shortfall leaves the order paid and retryable", func(t *testing.T) {
		env := newOrderEnv(t)
		orderNumber := initiated(t, env)
		env.allocator.err = shared.ErrInsufficientInventory

		result, err := env.service.CapturePayment(ctx, orderNumber)
		require.NoError(t, err)
		assert.False(t, result.Allocated)
		assert.Equal(t, string(order.PaymentStatusPaid), result.Order.PaymentStatus)
		assert.Equal(t, string(order.ShippingStatusPending), result.Order.ShippingStatus)

		awaiting, err := env.service.ListAwaitingAllocation(ctx, shared.Filter{})
		require.NoError(t, err)
		require.Len(t, awaiting, 1)
		assert.Equal(t, orderNumber, awaiting[0].OrderNumber)
	})

	t.Run("capture failure marks the payment failed", func(t *testing.T) {
		env := newOrderEnv(t)
		orderNumber := initiated(t, env)
		env.gateway.captureErr = errors.New("paypal: instrument declined")

		_, err := env.service.CapturePayment(ctx, orderNumber)
		assert.Equal(t, "PAYMENT_FAILED", serviceErrCode(t, err))
		assert.Zero(t, env.allocator.calls)
		assert.Equal(t, []string{order.EventTypePaymentFailed}, env.publisher.eventTypes())

		stored, findErr := env.orders.FindByOrderNumber(ctx, orderNumber)
		require.NoError(t, findErr)
		assert.Equal(t, order.PaymentStatusFailed, stored.PaymentStatus)
	})

	t.Run("capture requires an initiated payment", func(t *testing.T) {
		env := newOrderEnv(t)
		created := env.createOrder(t, 1, "")
		_, err := env.service.CapturePayment(ctx, created.OrderNumber)
		assert.Equal(t, "PAYMENT_NOT_INITIATED", serviceErrCode(t, err))
	})
}

func TestRetryAllocation(t *testing.T) {
	ctx := context.Background()
	env := newOrderEnv(t)

	created := env.createOrder(t, 2, "")
	_, err := env.service.InitiatePayment(ctx, created.OrderNumber)
	require.NoError(t, err)

	env.allocator.err = shared.ErrInsufficientInventory
	result, err := env.service.CapturePayment(ctx, created.OrderNumber)
	require.NoError(t, err)
	require.False(t, result.Allocated)

	t.Run("retry still short on stock", func(t *testing.T) {
		_, err := env.service.RetryAllocation(ctx, created.OrderNumber)
		assert.ErrorIs(t, err, shared.ErrInsufficientInventory)
	})

	t.Run("retry succeeds after restock", func(t *testing.T) {
		env.allocator.err = nil
		resp, err := env.service.RetryAllocation(ctx, created.OrderNumber)
		require.NoError(t, err)
		assert.Equal(t, string(order.ShippingStatusPreparing), resp.ShippingStatus)

		awaiting, err := env.service.ListAwaitingAllocation(ctx, shared.Filter{})
		require.NoError(t, err)
		assert.Empty(t, awaiting)
	})
}

func TestCancellationAndRefundFlows(t *testing.T) {
	ctx := context.Background()

	paidOrder := func(t *testing.T, env *orderEnv) string {
		t.Helper()
		created := env.createOrder(t, 1, "")
		_, err := env.service.InitiatePayment(ctx, created.OrderNumber)
		require.NoError(t, err)
		_, err = env.service.CapturePayment(ctx, created.OrderNumber)
		require.NoError(t, err)
		env.publisher.reset()
		return created.OrderNumber
	}

	t.Run("cancellation round trip", func(t *testing.T) {
		env := newOrderEnv(t)
		orderNumber := paidOrder(t, env)

		resp, err := env.service.RequestCancellation(ctx, orderNumber, "changed my mind")
		require.NoError(t, err)
		require.NotNil(t, resp.CancellationStatus)
		assert.Equal(t, string(order.CancellationStatusRequested), *resp.CancellationStatus)

		resp, err = env.service.ApproveCancellation(ctx, orderNumber)
		require.NoError(t, err)
		require.NotNil(t, resp.CancellationStatus)
		assert.Equal(t, string(order.CancellationStatusCancelled), *resp.CancellationStatus)
		assert.Equal(t, string(order.PaymentStatusCancelled), resp.PaymentStatus)
		assert.Equal(t, []string{
			order.EventTypeCancellationRequested,
			order.EventTypeOrderCancelled,
		}, env.publisher.eventTypes())
	})

	t.Run("refund round trip on a delivered order", func(t *testing.T) {
		env := newOrderEnv(t)
		orderNumber := paidOrder(t, env)

		stored, err := env.orders.FindByOrderNumber(ctx, orderNumber)
		require.NoError(t, err)
		require.NoError(t, stored.MarkShipped())
		require.NoError(t, stored.MarkDelivered())
		stored.ClearDomainEvents()
		require.NoError(t, env.orders.Save(ctx, stored))

		resp, err := env.service.RequestRefund(ctx, orderNumber, "damaged on arrival")
		require.NoError(t, err)
		require.NotNil(t, resp.RefundStatus)
		assert.Equal(t, string(order.RefundStatusRequested), *resp.RefundStatus)

		resp, err = env.service.ApproveRefund(ctx, orderNumber)
		require.NoError(t, err)
		require.NotNil(t, resp.RefundStatus)
		assert.Equal(t, string(order.RefundStatusRefunded), *resp.RefundStatus)
	})

	t.Run("refund rejected before delivery", func(t *testing.T) {
		env := newOrderEnv(t)
		orderNumber := paidOrder(t, env)
		_, err := env.service.RequestRefund(ctx, orderNumber, "too slow")
		require.Error(t, err)
	})
}

func TestListCustomerOrders(t *testing.T) {
	ctx := context.Background()
	env := newOrderEnv(t)

	customerID := uuid.New()
	for i := 0; i < 2; i++ {
		_, err := env.service.CreateOrder(ctx, CreateOrderRequest{
			CustomerID: customerID,
			ProductID:  env.product.ID,
			Quantity:   1,
			Region:     order.RegionLuzon,
		})
		require.NoError(t, err)
	}
	env.createOrder(t, 1, "")

	orders, err := env.service.ListCustomerOrders(ctx, customerID, shared.Filter{})
	require.NoError(t, err)
	assert.Len(t, orders, 2)
}
