package fulfillment

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keepselvesreal/k-beauty-landing-page/internal/domain/shared"
)

func TestCommissionPayout(t *testing.T) {
	t.Run("opens pending with a rounded amount", func(t *testing.T) {
		p, err := NewCommissionPayout(uuid.New(), decimal.NewFromFloat(120.456), "gcash")
		require.NoError(t, err)
		assert.Equal(t, PayoutStatusPending, p.Status)
		assert.True(t, p.Amount.Equal(decimal.NewFromFloat(120.46)))
		assert.Nil(t, p.PaidAt)
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		_, err := NewCommissionPayout(uuid.New(), decimal.Zero, "gcash")
		require.Error(t, err)
		_, err = NewCommissionPayout(uuid.New(), decimal.NewFromInt(-5), "gcash")
		require.Error(t, err)
	})

	t.Run("rejects a nil partner", func(t *testing.T) {
		_, err := NewCommissionPayout(uuid.Nil, decimal.NewFromInt(100), "gcash")
		require.Error(t, err)
	})

	t.Run("approval marks the payout paid", func(t *testing.T) {
		p, err := NewCommissionPayout(uuid.New(), decimal.NewFromInt(100), "gcash")
		require.NoError(t, err)

		require.NoError(t, p.Approve())
		assert.Equal(t, PayoutStatusCompleted, p.Status)
		require.NotNil(t, p.PaidAt)
	})

	t.Run("rejection marks the payout failed", func(t *testing.T) {
		p, err := NewCommissionPayout(uuid.New(), decimal.NewFromInt(100), "bank_transfer")
		require.NoError(t, err)

		require.NoError(t, p.Reject())
		assert.Equal(t, PayoutStatusFailed, p.Status)
		assert.Nil(t, p.PaidAt)
	})

	t.Run("only pending payouts can settle", func(t *testing.T) {
		p, err := NewCommissionPayout(uuid.New(), decimal.NewFromInt(100), "gcash")
		require.NoError(t, err)
		require.NoError(t, p.Approve())

		err = p.Approve()
		require.Error(t, err)
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "PAYOUT_NOT_PENDING", derr.Code)

		require.Error(t, p.Reject())
	})
}
