package repository

import (
	"context"
	"errors"
	"testing"

	"food-marketplace/internal/model"
	"food-marketplace/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedItem(t *testing.T, repo ItemRepository, id string, quantity int) {
	t.Helper()
	require.NoError(t, repo.Create(context.Background(), &model.Item{
		ID:       id,
		Name:     "item " + id,
		Price:    decimal.NewFromInt(3),
		Protein:  "10g",
		Location: "Kathmandu",
		Quantity: quantity,
	}))
}

func TestCartRepository_Upserts(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewCartRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Increment(ctx, "a@example.com", "i1", 1))
	require.NoError(t, repo.Increment(ctx, "a@example.com", "i1", 1))
	require.NoError(t, repo.SetQuantity(ctx, "a@example.com", "i2", 7))
	require.NoError(t, repo.SetQuantity(ctx, "a@example.com", "i2", 4))
	require.NoError(t, repo.Increment(ctx, "b@example.com", "i1", 1))

	lines, err := repo.List(ctx, "a@example.com")
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "i1", lines[0].ItemID)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, "i2", lines[1].ItemID)
	assert.Equal(t, 4, lines[1].Quantity)

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return repo.Clear(ctx, tx, "a@example.com")
	}))
	lines, err = repo.List(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Empty(t, lines)

	lines, err = repo.List(ctx, "b@example.com")
	require.NoError(t, err)
	assert.Len(t, lines, 1)
}

func TestItemRepository_DecrementStockGuard(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewItemRepository(db)
	ctx := context.Background()
	seedItem(t, repo, "i1", 3)

	ok, err := repo.DecrementStock(ctx, db, "i1", 2)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.DecrementStock(ctx, db, "i1", 2)
	require.NoError(t, err)
	assert.False(t, ok)

	item, err := repo.FindByID(ctx, "i1")
	require.NoError(t, err)
	assert.Equal(t, 1, item.Quantity)
}

func TestItemRepository_CheckConstraint(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewItemRepository(db)
	seedItem(t, repo, "i1", 1)

	err := db.Model(&model.Item{}).Where("id = ?", "i1").Update("quantity", -1).Error
	assert.Error(t, err)
}

func TestItemRepository_FindNearbyAndSeller(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewItemRepository(db)
	ctx := context.Background()

	for _, it := range []model.Item{
		{ID: "mine", Seller: "me@example.com", Location: "Kathmandu"},
		{ID: "theirs", Seller: "them@example.com", Location: "Kathmandu"},
		{ID: "far", Seller: "them@example.com", Location: "Pokhara"},
	} {
		it.Name, it.Protein, it.Price = it.ID, "1g", decimal.NewFromInt(1)
		require.NoError(t, repo.Create(ctx, &it))
	}

	nearby, err := repo.FindNearby(ctx, "Kathmandu", "me@example.com")
	require.NoError(t, err)
	require.Len(t, nearby, 1)
	assert.Equal(t, "theirs", nearby[0].ID)

	ids, err := repo.FindIDsBySeller(ctx, "them@example.com")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"theirs", "far"}, ids)
}

func TestIdempotencyRepository(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewIdempotencyRepository(db)
	ctx := context.Background()

	_, err := repo.Find(ctx, "k1")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	record := &model.IdempotencyKey{Key: "k1", UserEmail: "a@example.com", OrderID: "o1"}
	require.NoError(t, repo.Create(ctx, db, record))

	err = repo.Create(ctx, db, &model.IdempotencyKey{Key: "k1", UserEmail: "a@example.com", OrderID: "o2"})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	found, err := repo.Find(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, "o1", found.OrderID)
}

func TestOrderRepository_GuardedStatusUpdate(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	order := &model.Order{
		ID:             "o1",
		UserEmail:      "a@example.com",
		Status:         model.OrderStatusPending,
		DeliveryMethod: model.DeliveryMethodPickup,
		TotalAmount:    decimal.NewFromInt(6),
		Lines:          []model.OrderLine{{ItemID: "i1", Quantity: 2, PriceAtPurchase: decimal.NewFromInt(3)}},
	}
	require.NoError(t, repo.Create(ctx, db, order))

	moved, err := repo.UpdateStatus(ctx, "o1", model.OrderStatusPending, model.OrderStatusAccepted)
	require.NoError(t, err)
	assert.True(t, moved)

	moved, err = repo.UpdateStatus(ctx, "o1", model.OrderStatusPending, model.OrderStatusAccepted)
	require.NoError(t, err)
	assert.False(t, moved)

	assert.ErrorIs(t, repo.SetDeliveryLocation(ctx, "missing", "x"), gorm.ErrRecordNotFound)

	found, err := repo.FindByID(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusAccepted, found.Status)
	require.Len(t, found.Lines, 1)
	assert.Equal(t, 2, found.Lines[0].Quantity)

	count, err := repo.CountByItems(ctx, []string{"i1"}, model.OrderStatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
