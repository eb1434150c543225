package service

import (
	"context"
	"testing"

	"food-marketplace/internal/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestAddToCart_IncrementsExistingLine(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.user(t, "buyer@example.com", "Kathmandu")
	rice := f.item(t, "Rice bowl", "8.00", 10, "seller@example.com")
	soup := f.item(t, "Soup", "4.50", 10, "seller@example.com")

	_, err := f.cart.AddToCart(ctx, "buyer@example.com", rice.ID)
	require.NoError(t, err)
	_, err = f.cart.AddToCart(ctx, "buyer@example.com", soup.ID)
	require.NoError(t, err)
	cart, err := f.cart.AddToCart(ctx, "buyer@example.com", rice.ID)
	require.NoError(t, err)

	require.Len(t, cart, 2)
	assert.Equal(t, rice.ID, cart[0].Item.ID)
	assert.Equal(t, 2, cart[0].Quantity)
	assert.Equal(t, "Rice bowl", cart[0].Item.ItemName)
	assert.Equal(t, soup.ID, cart[1].Item.ID)
	assert.Equal(t, 1, cart[1].Quantity)
}

func TestAddToCart_NotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.user(t, "buyer@example.com", "Kathmandu")
	rice := f.item(t, "Rice bowl", "8.00", 10, "")

	_, err := f.cart.AddToCart(ctx, "buyer@example.com", "missing-item")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	_, err = f.cart.AddToCart(ctx, "ghost@example.com", rice.ID)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	_, err = f.cart.AddToCart(ctx, "", rice.ID)
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestAddToCart_ConcurrentAddsAllCount(t *testing.T) {
	f := newFixture(t)
	f.user(t, "buyer@example.com", "Kathmandu")
	rice := f.item(t, "Rice bowl", "8.00", 100, "")

	const adds = 10
	var g errgroup.Group
	for i := 0; i < adds; i++ {
		g.Go(func() error {
			_, err := f.cart.AddToCart(context.Background(), "buyer@example.com", rice.ID)
			return err
		})
	}
	require.NoError(t, g.Wait())

	cart, err := f.cart.GetCart(context.Background(), "buyer@example.com")
	require.NoError(t, err)
	require.Len(t, cart, 1)
	assert.Equal(t, adds, cart[0].Quantity)
}

func TestRemoveFromCart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.user(t, "buyer@example.com", "Kathmandu")
	rice := f.item(t, "Rice bowl", "8.00", 10, "")
	f.setCart(t, "buyer@example.com", rice, 4)

	cart, err := f.cart.RemoveFromCart(ctx, "buyer@example.com", rice.ID)
	require.NoError(t, err)
	assert.Empty(t, cart)

	// removing an absent line is a no-op
	cart, err = f.cart.RemoveFromCart(ctx, "buyer@example.com", rice.ID)
	require.NoError(t, err)
	assert.Empty(t, cart)

	_, err = f.cart.RemoveFromCart(ctx, "ghost@example.com", rice.ID)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestSetCartQuantity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.user(t, "buyer@example.com", "Kathmandu")
	rice := f.item(t, "Rice bowl", "8.00", 2, "")

	// creates the line; stock is only enforced at checkout
	cart, err := f.cart.SetCartQuantity(ctx, "buyer@example.com", rice.ID, 5)
	require.NoError(t, err)
	require.Len(t, cart, 1)
	assert.Equal(t, 5, cart[0].Quantity)

	cart, err = f.cart.SetCartQuantity(ctx, "buyer@example.com", rice.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, cart[0].Quantity)

	cart, err = f.cart.SetCartQuantity(ctx, "buyer@example.com", rice.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, cart)

	cart, err = f.cart.SetCartQuantity(ctx, "buyer@example.com", rice.ID, -2)
	require.NoError(t, err)
	assert.Empty(t, cart)

	_, err = f.cart.SetCartQuantity(ctx, "buyer@example.com", "missing-item", 1)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	_, err = f.cart.SetCartQuantity(ctx, "ghost@example.com", rice.ID, 1)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}
