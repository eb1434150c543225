package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"food-marketplace/internal/lock"
	"food-marketplace/internal/logger"
	"food-marketplace/internal/model"
	"food-marketplace/internal/repository"
	"food-marketplace/internal/testutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []model.OrderEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event model.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []model.OrderEventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]model.OrderEventType, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

type fixture struct {
	db        *gorm.DB
	userRepo  repository.UserRepository
	itemRepo  repository.ItemRepository
	cartRepo  repository.CartRepository
	orderRepo repository.OrderRepository
	publisher *recordingPublisher

	cart      CartService
	checkout  *checkoutServiceImpl
	orders    *orderServiceImpl
	users     *userServiceImpl
	items     ItemService
	nutrition *nutritionServiceImpl
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewTestDB(t)
	log := logger.Discard()
	locker := lock.NewLocalLocker()
	publisher := &recordingPublisher{}

	f := &fixture{
		db:        db,
		userRepo:  repository.NewUserRepository(db),
		itemRepo:  repository.NewItemRepository(db),
		cartRepo:  repository.NewCartRepository(db),
		orderRepo: repository.NewOrderRepository(db),
		publisher: publisher,
	}
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	f.cart = NewCartService(locker, f.userRepo, f.itemRepo, f.cartRepo, log)
	f.checkout = NewCheckoutService(db, locker, publisher, f.userRepo, f.itemRepo, f.cartRepo, f.orderRepo, idempotencyRepo, log).(*checkoutServiceImpl)
	f.orders = NewOrderService(publisher, f.userRepo, f.itemRepo, f.orderRepo, log).(*orderServiceImpl)
	f.users = NewUserService(f.userRepo, f.itemRepo, f.cart, log).(*userServiceImpl)
	f.users.hashCost = 4 // bcrypt.MinCost keeps tests fast
	f.items = NewItemService(f.itemRepo, log)
	f.nutrition = NewNutritionService(nil, f.userRepo, f.itemRepo, f.orderRepo, log).(*nutritionServiceImpl)

	return f
}

func (f *fixture) user(t *testing.T, email, location string) {
	t.Helper()
	require.NoError(t, f.userRepo.Create(context.Background(), &model.User{
		Email:        email,
		Username:     "user-" + email[:3],
		PasswordHash: "unused",
		Location:     location,
		WorkoutSplit: model.DefaultWorkoutSplit(),
	}))
}

func (f *fixture) item(t *testing.T, name, price string, quantity int, seller string) *model.Item {
	t.Helper()
	item := &model.Item{
		ID:       uuid.NewString(),
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Protein:  "25g",
		Seller:   seller,
		Location: "Kathmandu",
		Quantity: quantity,
	}
	require.NoError(t, f.itemRepo.Create(context.Background(), item))
	return item
}

func (f *fixture) stock(t *testing.T, itemID string) int {
	t.Helper()
	item, err := f.itemRepo.FindByID(context.Background(), itemID)
	require.NoError(t, err)
	return item.Quantity
}

func (f *fixture) setCart(t *testing.T, email string, item *model.Item, quantity int) {
	t.Helper()
	_, err := f.cart.SetCartQuantity(context.Background(), email, item.ID, quantity)
	require.NoError(t, err)
}

// stepClock returns a clock that advances one minute per call.
func stepClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	now := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(time.Minute)
		return now
	}
}
