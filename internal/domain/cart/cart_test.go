package cart

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backend/internal/domain/shared"
)

func line(productID uuid.UUID, qty int64, price int64) Line {
	return Line{
		ProductID:    productID,
		ProductTitle: "Red Chair",
		ProductSlug:  "red-chair",
		Quantity:     qty,
		UnitPrice:    decimal.NewFromInt(price),
	}
}

func TestCart_AddLine(t *testing.T) {
	c := New(uuid.New())
	productID := uuid.New()

	require.NoError(t, c.AddLine(line(productID, 2, 10)))
	assert.Equal(t, int64(2), c.ItemCount())

	t.Run("same product merges and refreshes price", func(t *testing.T) {
		require.NoError(t, c.AddLine(line(productID, 1, 12)))

		require.Len(t, c.Lines, 1)
		assert.Equal(t, int64(3), c.Lines[0].Quantity)
		assert.True(t, c.Lines[0].UnitPrice.Equal(decimal.NewFromInt(12)))
	})

	t.Run("different variant gets its own line", func(t *testing.T) {
		l := line(productID, 1, 12)
		l.VariantName, l.VariantValue = "Color", "Blue"
		require.NoError(t, c.AddLine(l))
		assert.Len(t, c.Lines, 2)
	})

	t.Run("invalid lines rejected", func(t *testing.T) {
		assert.Error(t, c.AddLine(line(uuid.Nil, 1, 10)))
		assert.Error(t, c.AddLine(line(uuid.New(), 0, 10)))
		assert.Error(t, c.AddLine(line(uuid.New(), 1, -1)))
	})
}

func TestCart_SetQuantity(t *testing.T) {
	c := New(uuid.New())
	productID := uuid.New()
	require.NoError(t, c.AddLine(line(productID, 2, 10)))

	require.NoError(t, c.SetQuantity(productID, "", "", 5))
	assert.Equal(t, int64(5), c.Lines[0].Quantity)

	t.Run("zero removes the line", func(t *testing.T) {
		require.NoError(t, c.SetQuantity(productID, "", "", 0))
		assert.True(t, c.IsEmpty())
	})

	t.Run("unknown line", func(t *testing.T) {
		err := c.SetQuantity(uuid.New(), "", "", 1)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestCart_Total(t *testing.T) {
	c := New(uuid.New())
	require.NoError(t, c.AddLine(line(uuid.New(), 2, 10)))
	require.NoError(t, c.AddLine(line(uuid.New(), 1, 5)))

	assert.True(t, c.Total().Equal(decimal.NewFromInt(25)), "expected total 25, got %s", c.Total())
	assert.Equal(t, int64(3), c.ItemCount())
}

func TestCart_RemoveAndClear(t *testing.T) {
	c := New(uuid.New())
	productID := uuid.New()
	require.NoError(t, c.AddLine(line(productID, 2, 10)))
	require.NoError(t, c.AddLine(line(uuid.New(), 1, 5)))

	require.NoError(t, c.RemoveLine(productID, "", ""))
	assert.Len(t, c.Lines, 1)

	c.Clear()
	assert.True(t, c.IsEmpty())
	assert.True(t, c.Total().IsZero())
}
