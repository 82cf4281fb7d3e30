package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewShoppingCart(t *testing.T) {
	c := NewShoppingCart("reader@example.com")

	assert.Equal(t, "reader@example.com", c.CustomerEmail)
	assert.True(t, c.IsEmpty())
	assert.Equal(t, int64(0), c.TotalAmount)
}

func TestShoppingCart_AddItem(t *testing.T) {
	c := NewShoppingCart("reader@example.com")

	require.NoError(t, c.AddItem(1, 2, 2999))
	assert.Len(t, c.Items, 1)
	assert.Equal(t, int64(5998), c.TotalAmount)

	// 同一本书再次加入:数量合并,价格快照保留首次的
	require.NoError(t, c.AddItem(1, 1, 3999))
	assert.Len(t, c.Items, 1)
	assert.Equal(t, 3, c.Items[0].Quantity)
	assert.Equal(t, int64(2999), c.Items[0].UnitPrice)
	assert.Equal(t, int64(8997), c.TotalAmount)

	// 第二本书单独成行
	require.NoError(t, c.AddItem(2, 1, 5000))
	assert.Len(t, c.Items, 2)
	assert.Equal(t, int64(13997), c.TotalAmount)
}

func TestShoppingCart_AddItem_InvalidQuantity(t *testing.T) {
	c := NewShoppingCart("reader@example.com")

	assert.ErrorIs(t, c.AddItem(1, 0, 2999), ErrInvalidQuantity)
	assert.ErrorIs(t, c.AddItem(1, -1, 2999), ErrInvalidQuantity)
	assert.True(t, c.IsEmpty())
}

func TestShoppingCart_UpdateItemQuantity(t *testing.T) {
	c := NewShoppingCart("reader@example.com")
	require.NoError(t, c.AddItem(1, 2, 2999))
	c.Items[0].ID = 10

	require.NoError(t, c.UpdateItemQuantity(10, 5))
	assert.Equal(t, 5, c.Items[0].Quantity)
	assert.Equal(t, int64(14995), c.TotalAmount)

	assert.ErrorIs(t, c.UpdateItemQuantity(10, 0), ErrInvalidQuantity)
	assert.ErrorIs(t, c.UpdateItemQuantity(99, 1), ErrCartItemNotFound)
}

func TestShoppingCart_RemoveItem(t *testing.T) {
	c := NewShoppingCart("reader@example.com")
	require.NoError(t, c.AddItem(1, 2, 2999))
	require.NoError(t, c.AddItem(2, 1, 5000))
	c.Items[0].ID = 10
	c.Items[1].ID = 11

	require.NoError(t, c.RemoveItem(10))
	assert.Len(t, c.Items, 1)
	assert.Equal(t, int64(5000), c.TotalAmount)

	assert.ErrorIs(t, c.RemoveItem(10), ErrCartItemNotFound)

	require.NoError(t, c.RemoveItem(11))
	assert.True(t, c.IsEmpty())
	assert.Equal(t, int64(0), c.TotalAmount)
}
