package fulfillment

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/keepselvesreal/k-beauty-landing-page/internal/domain/fulfillment"
	"github.com/keepselvesreal/k-beauty-landing-page/internal/domain/order"
	"github.com/keepselvesreal/k-beauty-landing-page/internal/domain/shared"
)

type payoutEnv struct {
	*shipmentEnv
	payouts *memoryPayoutRepo
	service *PayoutService
}

func newPayoutEnv(t *testing.T) (*payoutEnv, *order.Order) {
	t.Helper()
	env, o := newShipmentEnv(t)
	env.allocations.orders = env.orders
	payouts := newMemoryPayoutRepo()
	return &payoutEnv{
		shipmentEnv: env,
		payouts:     payouts,
		service:     NewPayoutService(env.allocations, payouts, env.partners, zap.NewNop()),
	}, o
}

func (e *payoutEnv) deliverAll(t *testing.T, o *order.Order) {
	t.Helper()
	ctx := context.Background()
	_, err := e.shipmentSvc.RecordShipment(ctx, RecordShipmentRequest{
		OrderID: o.ID, PartnerID: e.partnerA.ID, Carrier: "LBC", TrackingNumber: "LBC-A",
	})
	require.NoError(t, err)
	_, err = e.shipmentSvc.RecordShipment(ctx, RecordShipmentRequest{
		OrderID: o.ID, PartnerID: e.partnerB.ID, Carrier: "JNT", TrackingNumber: "JNT-B",
	})
	require.NoError(t, err)

	shipments, err := e.shipments.FindByOrder(ctx, o.ID)
	require.NoError(t, err)
	for _, s := range shipments {
		_, err := e.shipmentSvc.CompleteDelivery(ctx, s.ID)
		require.NoError(t, err)
	}
}

func TestPendingCommission(t *testing.T) {
	ctx := context.Background()

	t.Run("counts only delivered orders", func(t *testing.T) {
		env, o := newPayoutEnv(t)

		pending, err := env.service.PendingCommission(ctx, env.partnerA.ID)
		require.NoError(t, err)
		assert.True(t, pending.IsZero())

		env.deliverAll(t, o)

		// partner A shipped 5 of the 12 units at 10 PHP each
		pending, err = env.service.PendingCommission(ctx, env.partnerA.ID)
		require.NoError(t, err)
		assert.True(t, pending.Equal(decimal.NewFromInt(50)))

		pending, err = env.service.PendingCommission(ctx, env.partnerB.ID)
		require.NoError(t, err)
		assert.True(t, pending.Equal(decimal.NewFromInt(70)))
	})

	t.Run("unknown partner", func(t *testing.T) {
		env, _ := newPayoutEnv(t)
		_, err := env.service.PendingCommission(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestPayoutLifecycle(t *testing.T) {
	ctx := context.Background()

	t.Run("create approve and list", func(t *testing.T) {
		env, o := newPayoutEnv(t)
		env.deliverAll(t, o)

		payout, err := env.service.CreatePayout(ctx, env.partnerA.ID, CreatePayoutRequest{
			Amount:        decimal.NewFromInt(50),
			PaymentMethod: "gcash",
		})
		require.NoError(t, err)
		assert.Equal(t, fulfillment.PayoutStatusPending, payout.Status)

		approved, err := env.service.ApprovePayout(ctx, payout.ID)
		require.NoError(t, err)
		assert.Equal(t, fulfillment.PayoutStatusCompleted, approved.Status)
		require.NotNil(t, approved.PaidAt)

		completed, err := env.service.ListPayouts(ctx, env.partnerA.ID, fulfillment.PayoutStatusCompleted)
		require.NoError(t, err)
		require.Len(t, completed, 1)

		pendingOnly, err := env.service.ListPayouts(ctx, env.partnerA.ID, fulfillment.PayoutStatusPending)
		require.NoError(t, err)
		assert.Empty(t, pendingOnly)
	})

	t.Run("rejected payouts end up failed", func(t *testing.T) {
		env, _ := newPayoutEnv(t)

		payout, err := env.service.CreatePayout(ctx, env.partnerB.ID, CreatePayoutRequest{
			Amount:        decimal.NewFromInt(70),
			PaymentMethod: "bank_transfer",
		})
		require.NoError(t, err)

		rejected, err := env.service.RejectPayout(ctx, payout.ID)
		require.NoError(t, err)
		assert.Equal(t, fulfillment.PayoutStatusFailed, rejected.Status)

		_, err = env.service.ApprovePayout(ctx, payout.ID)
		require.Error(t, err)
	})

	t.Run("payouts require a known partner", func(t *testing.T) {
		env, _ := newPayoutEnv(t)
		_, err := env.service.CreatePayout(ctx, uuid.New(), CreatePayoutRequest{
			Amount:        decimal.NewFromInt(10),
			PaymentMethod: "gcash",
		})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("unknown payout", func(t *testing.T) {
		env, _ := newPayoutEnv(t)
		_, err := env.service.ApprovePayout(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
