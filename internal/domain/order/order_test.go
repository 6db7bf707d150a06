package order

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

func testAddress(t *testing.T) valueobject.Address {
	t.Helper()
	addr, err := valueobject.NewAddress("Ada Lovelace", "1 Analytical Way", "London", "LDN", "E1 6AN", "GB")
	require.NoError(t, err)
	return addr
}

func testItems(t *testing.T) []Item {
	t.Helper()
	a, err := NewItem(uuid.New(), "Red Chair", "red-chair", nil, 2, decimal.NewFromInt(10))
	require.NoError(t, err)
	b, err := NewItem(uuid.New(), "Brass Lamp", "brass-lamp", nil, 1, decimal.NewFromInt(5))
	require.NoError(t, err)
	return []Item{a, b}
}

func TestNew(t *testing.T) {
	t.Run("computes total and starts pending", func(t *testing.T) {
		o, err := New(uuid.New(), testItems(t), testAddress(t))

		require.NoError(t, err)
		assert.Equal(t, StatusPending, o.Status)
		assert.True(t, o.Total.Equal(decimal.NewFromInt(25)), "expected total 25, got %s", o.Total)
		assert.Equal(t, int64(3), o.ItemCount())
		assert.NotEmpty(t, o.Number)
		assert.Len(t, o.GetDomainEvents(), 1)
	})

	t.Run("empty cart rejected with validation error", func(t *testing.T) {
		_, err := New(uuid.New(), nil, testAddress(t))

		var verr *shared.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{"items"}, verr.Fields)
	})

	t.Run("incomplete address reports missing fields", func(t *testing.T) {
		addr := valueobject.Address{Name: "Ada", City: "London"}
		_, err := New(uuid.New(), testItems(t), addr)

		var verr *shared.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "shippingAddress.street")
		assert.Contains(t, verr.Fields, "shippingAddress.zip")
		assert.NotContains(t, verr.Fields, "shippingAddress.name")
	})
}

func TestNewItem(t *testing.T) {
	assert.Error(t, errOf(NewItem(uuid.Nil, "x", "x", nil, 1, decimal.NewFromInt(1))))
	assert.Error(t, errOf(NewItem(uuid.New(), "x", "x", nil, 0, decimal.NewFromInt(1))))
	assert.Error(t, errOf(NewItem(uuid.New(), "x", "x", nil, 1, decimal.NewFromInt(-1))))

	item, err := NewItem(uuid.New(), "Red Chair", "red-chair", nil, 3, decimal.NewFromFloat(19.99))
	require.NoError(t, err)
	assert.True(t, item.Amount.Equal(decimal.NewFromFloat(59.97)))
}

func errOf(_ Item, err error) error { return err }

func TestStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCanceled, true},
		{StatusPending, StatusShipped, false},
		{StatusPending, StatusDelivered, false},
		{StatusConfirmed, StatusShipped, true},
		{StatusConfirmed, StatusCanceled, true},
		{StatusConfirmed, StatusDelivered, false},
		{StatusShipped, StatusDelivered, true},
		{StatusShipped, StatusCanceled, false},
		{StatusDelivered, StatusCanceled, false},
		{StatusCanceled, StatusConfirmed, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestOrder_Lifecycle(t *testing.T) {
	o, err := New(uuid.New(), testItems(t), testAddress(t))
	require.NoError(t, err)

	require.NoError(t, o.Confirm("pi_123"))
	assert.Equal(t, StatusConfirmed, o.Status)
	assert.Equal(t, "pi_123", o.PaymentIntentID)
	assert.NotNil(t, o.ConfirmedAt)

	require.NoError(t, o.Ship("TRACK-9"))
	assert.Equal(t, StatusShipped, o.Status)
	assert.Equal(t, "TRACK-9", o.TrackingNumber)

	require.NoError(t, o.Deliver())
	assert.Equal(t, StatusDelivered, o.Status)
	assert.True(t, o.IsTerminal())

	assert.Error(t, o.Cancel("too late"))
}

func TestOrder_Cancel(t *testing.T) {
	o, err := New(uuid.New(), testItems(t), testAddress(t))
	require.NoError(t, err)

	require.NoError(t, o.Cancel("changed my mind"))
	assert.Equal(t, StatusCanceled, o.Status)
	assert.Equal(t, "changed my mind", o.CancelReason)
	assert.NotNil(t, o.CanceledAt)
	assert.True(t, o.IsTerminal())

	assert.Error(t, o.Confirm(""))
}

func TestOrder_SetTracking(t *testing.T) {
	o, err := New(uuid.New(), testItems(t), testAddress(t))
	require.NoError(t, err)

	assert.Error(t, o.SetTracking("  "))
	require.NoError(t, o.SetTracking("TRACK-1"))
	assert.Equal(t, "TRACK-1", o.TrackingNumber)
	assert.Equal(t, StatusPending, o.Status)
}
