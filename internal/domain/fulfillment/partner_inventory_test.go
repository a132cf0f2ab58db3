package fulfillment

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keepselvesreal/k-beauty-landing-page/internal/domain/shared"
)

func TestNewPartnerInventory(t *testing.T) {
	partnerID := uuid.New()
	productID := uuid.New()

	t.Run("creates ledger row with initial stock", func(t *testing.T) {
		inv, err := NewPartnerInventory(partnerID, productID, 50)
		require.NoError(t, err)

		assert.Equal(t, partnerID, inv.PartnerID)
		assert.Equal(t, productID, inv.ProductID)
		assert.Equal(t, 50, inv.AllocatedQuantity)
		assert.Equal(t, 50, inv.RemainingQuantity)
		assert.Equal(t, 1, inv.GetVersion())
	})

	t.Run("allows zero initial stock", func(t *testing.T) {
		inv, err := NewPartnerInventory(partnerID, productID, 0)
		require.NoError(t, err)
		assert.Equal(t, 0, inv.RemainingQuantity)
	})

	t.Run("rejects negative stock", func(t *testing.T) {
		_, err := NewPartnerInventory(partnerID, productID, -1)
		require.Error(t, err)
	})

	t.Run("rejects nil partner and product", func(t *testing.T) {
		_, err := NewPartnerInventory(uuid.Nil, productID, 10)
		require.Error(t, err)
		_, err = NewPartnerInventory(partnerID, uuid.Nil, 10)
		require.Error(t, err)
	})
}

func TestPartnerInventoryDecrement(t *testing.T) {
	t.Run("reduces remaining and bumps version", func(t *testing.T) {
		inv, err := NewPartnerInventory(uuid.New(), uuid.New(), 10)
		require.NoError(t, err)

		require.NoError(t, inv.Decrement(4))
		assert.Equal(t, 6, inv.RemainingQuantity)
		assert.Equal(t, 10, inv.AllocatedQuantity)
		assert.Equal(t, 2, inv.GetVersion())

		events := inv.GetDomainEvents()
		require.Len(t, events, 1)
		decremented, ok := events[0].(*StockDecrementedEvent)
		require.True(t, ok)
		assert.Equal(t, 4, decremented.Quantity)
		assert.Equal(t, 6, decremented.RemainingQuantity)
	})

	t.Run("can drain the full remaining quantity", func(t *testing.T) {
		inv, err := NewPartnerInventory(uuid.New(), uuid.New(), 5)
		require.NoError(t, err)
		require.NoError(t, inv.Decrement(5))
		assert.Equal(t, 0, inv.RemainingQuantity)
	})

	t.Run("never goes negative", func(t *testing.T) {
		inv, err := NewPartnerInventory(uuid.New(), uuid.New(), 3)
		require.NoError(t, err)

		err = inv.Decrement(4)
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.Equal(t, 3, inv.RemainingQuantity)
		assert.Equal(t, 1, inv.GetVersion())
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		inv, err := NewPartnerInventory(uuid.New(), uuid.New(), 3)
		require.NoError(t, err)
		require.Error(t, inv.Decrement(0))
		require.Error(t, inv.Decrement(-2))
	})
}

func TestPartnerInventoryReplenish(t *testing.T) {
	inv, err := NewPartnerInventory(uuid.New(), uuid.New(), 10)
	require.NoError(t, err)
	require.NoError(t, inv.Decrement(7))

	require.NoError(t, inv.Replenish(20))
	assert.Equal(t, 30, inv.AllocatedQuantity)
	assert.Equal(t, 23, inv.RemainingQuantity)

	require.Error(t, inv.Replenish(0))
	require.Error(t, inv.Replenish(-5))
}

func TestPartnerInventoryAdjust(t *testing.T) {
	t.Run("sets remaining to counted value", func(t *testing.T) {
		inv, err := NewPartnerInventory(uuid.New(), uuid.New(), 10)
		require.NoError(t, err)

		require.NoError(t, inv.Adjust(4, "cycle count found damage"))
		assert.Equal(t, 4, inv.RemainingQuantity)
		assert.Equal(t, 10, inv.AllocatedQuantity)

		events := inv.GetDomainEvents()
		require.Len(t, events, 1)
		adjusted, ok := events[0].(*StockAdjustedEvent)
		require.True(t, ok)
		assert.Equal(t, 10, adjusted.OldRemaining)
		assert.Equal(t, 4, adjusted.NewRemaining)
		assert.Equal(t, "cycle count found damage", adjusted.Reason)
	})

	t.Run("raising above allocated raises allocated too", func(t *testing.T) {
		inv, err := NewPartnerInventory(uuid.New(), uuid.New(), 10)
		require.NoError(t, err)

		require.NoError(t, inv.Adjust(15, "found extra carton"))
		assert.Equal(t, 15, inv.RemainingQuantity)
		assert.Equal(t, 15, inv.AllocatedQuantity)
	})

	t.Run("requires a reason", func(t *testing.T) {
		inv, err := NewPartnerInventory(uuid.New(), uuid.New(), 10)
		require.NoError(t, err)
		require.Error(t, inv.Adjust(5, ""))
	})

	t.Run("rejects negative remaining", func(t *testing.T) {
		inv, err := NewPartnerInventory(uuid.New(), uuid.New(), 10)
		require.NoError(t, err)
		require.Error(t, inv.Adjust(-1, "bad count"))
	})
}

func TestCanFulfill(t *testing.T) {
	inv, err := NewPartnerInventory(uuid.New(), uuid.New(), 5)
	require.NoError(t, err)

	assert.True(t, inv.CanFulfill(5))
	assert.True(t, inv.CanFulfill(1))
	assert.False(t, inv.CanFulfill(6))
}
