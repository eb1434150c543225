package service

import (
	"context"
	"errors"
	"fmt"
	"food-marketplace/internal/apperror"
	"food-marketplace/internal/client"
	"food-marketplace/internal/dto"
	"food-marketplace/internal/lock"
	"food-marketplace/internal/model"
	"food-marketplace/internal/repository"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"
)

var tracer = otel.Tracer("food-marketplace/internal/service")

type CheckoutService interface {
	PlaceOrder(ctx context.Context, email, deliveryMethod, idempotencyKey string) (*dto.PlaceOrderResponse, error)
}

type checkoutServiceImpl struct {
	db              *gorm.DB
	locker          lock.Locker
	publisher       client.EventPublisher
	userRepo        repository.UserRepository
	itemRepo        repository.ItemRepository
	cartRepo        repository.CartRepository
	orderRepo       repository.OrderRepository
	idempotencyRepo repository.IdempotencyRepository
	logger          *slog.Logger
	now             func() time.Time
}

func NewCheckoutService(
	db *gorm.DB,
	locker lock.Locker,
	publisher client.EventPublisher,
	userRepo repository.UserRepository,
	itemRepo repository.ItemRepository,
	cartRepo repository.CartRepository,
	orderRepo repository.OrderRepository,
	idempotencyRepo repository.IdempotencyRepository,
	logger *slog.Logger,
) CheckoutService {
	return &checkoutServiceImpl{
		db:              db,
		locker:          locker,
		publisher:       publisher,
		userRepo:        userRepo,
		itemRepo:        itemRepo,
		cartRepo:        cartRepo,
		orderRepo:       orderRepo,
		idempotencyRepo: idempotencyRepo,
		logger:          logger.With("component", "checkout_service"),
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// PlaceOrder turns the user's cart into a Pending order. Stock for every line
// is decremented in the same transaction that creates the order and clears
// the cart, so either all of it happens or none of it does.
func (s *checkoutServiceImpl) PlaceOrder(ctx context.Context, email, deliveryMethod, idempotencyKey string) (*dto.PlaceOrderResponse, error) {
	const op = "checkout.PlaceOrder"

	ctx, span := tracer.Start(ctx, "CheckoutService.PlaceOrder")
	defer span.End()

	resp, err := s.placeOrder(ctx, op, email, deliveryMethod, idempotencyKey)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(apperror.KindOf(err)))
		return nil, err
	}

	span.SetAttributes(
		attribute.String("order.id", resp.OrderID),
		attribute.Bool("order.replayed", resp.Replayed),
	)
	return resp, nil
}

func (s *checkoutServiceImpl) placeOrder(ctx context.Context, op, email, deliveryMethod, idempotencyKey string) (*dto.PlaceOrderResponse, error) {
	if email == "" {
		return nil, apperror.Validation(op, "email is required")
	}

	method, ok := model.ParseDeliveryMethod(deliveryMethod)
	if !ok {
		return nil, apperror.Validation(op, "delivery method must be %s or %s",
			model.DeliveryMethodDelivery, model.DeliveryMethodPickup)
	}

	if err := requireUser(ctx, s.userRepo, op, email, "user not found"); err != nil {
		return nil, err
	}

	resp, order, err := s.commitOrder(ctx, op, email, method, idempotencyKey)
	if err != nil {
		return nil, err
	}

	// the cart lock is released by now, a slow broker only delays this caller
	if order != nil {
		s.publish(ctx, model.NewOrderEvent(model.OrderEventPlaced, order, s.now()))
	}
	return resp, nil
}

// commitOrder runs checkout under the user's cart lock. The returned order is
// nil when the request was answered from an earlier idempotency record.
func (s *checkoutServiceImpl) commitOrder(ctx context.Context, op, email string, method model.DeliveryMethod, idempotencyKey string) (*dto.PlaceOrderResponse, *model.Order, error) {
	unlock, err := s.locker.Lock(ctx, cartLockKey(email))
	if err != nil {
		return nil, nil, apperror.Unavailable(op, err, "cart is busy, try again")
	}
	defer unlock()

	if idempotencyKey != "" {
		resp, err := s.replay(ctx, op, email, idempotencyKey)
		if err != nil || resp != nil {
			return resp, nil, err
		}
	}

	var order *model.Order
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		created, err := s.checkout(ctx, tx, op, email, method)
		if err != nil {
			return err
		}
		order = created

		if idempotencyKey != "" {
			err := s.idempotencyRepo.Create(ctx, tx, &model.IdempotencyKey{
				Key:       idempotencyKey,
				UserEmail: email,
				OrderID:   order.ID,
				CreatedAt: order.CreatedAt,
			})
			if err != nil {
				return fmt.Errorf("record idempotency key: %w", err)
			}
		}

		if err := s.cartRepo.Clear(ctx, tx, email); err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}
		return nil
	})

	if errors.Is(err, gorm.ErrDuplicatedKey) && idempotencyKey != "" {
		// another replica recorded the key first; everything above rolled back
		resp, replayErr := s.replay(ctx, op, email, idempotencyKey)
		if replayErr != nil || resp != nil {
			return resp, nil, replayErr
		}
	}
	if err != nil {
		if !apperror.Is(err, apperror.KindInternal) {
			return nil, nil, err
		}
		s.logger.Error("place order failed", "email", email, "error", err)
		return nil, nil, wrapErr(op, err)
	}

	s.logger.Info("order placed",
		"order_id", order.ID,
		"email", email,
		"lines", len(order.Lines),
		"total", order.TotalAmount.StringFixed(2),
		"delivery_method", order.DeliveryMethod,
	)

	return &dto.PlaceOrderResponse{
		Message: "Order placed and cart cleared successfully",
		OrderID: order.ID,
	}, order, nil
}

// checkout validates the cart against stock, decrements it and inserts the
// order. Any error rolls the whole transaction back.
func (s *checkoutServiceImpl) checkout(ctx context.Context, tx *gorm.DB, op, email string, method model.DeliveryMethod) (*model.Order, error) {
	lines, err := s.cartRepo.ListTx(ctx, tx, email)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if len(lines) == 0 {
		return nil, &apperror.Error{Op: op, Kind: apperror.KindConflict, Message: "cart is empty", Err: ErrEmptyCart}
	}

	ids := make([]string, len(lines))
	for i, line := range lines {
		ids[i] = line.ItemID
	}
	items, err := s.itemRepo.FindManyForUpdate(ctx, tx, ids)
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}
	byID := make(map[string]*model.Item, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	// check every line before touching stock so the error names the first
	// short line in cart order
	for _, line := range lines {
		item, ok := byID[line.ItemID]
		if !ok {
			return nil, apperror.NotFound(op, "item %s not found", line.ItemID)
		}
		if item.Quantity < line.Quantity {
			return nil, insufficientStock(op, item.Name, item.Quantity)
		}
	}

	now := s.now()
	order := &model.Order{
		ID:             uuid.NewString(),
		UserEmail:      email,
		Status:         model.OrderStatusPending,
		DeliveryMethod: method,
		TotalAmount:    decimal.Zero,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	for _, line := range lines {
		item := byID[line.ItemID]

		ok, err := s.itemRepo.DecrementStock(ctx, tx, item.ID, line.Quantity)
		if err != nil {
			return nil, fmt.Errorf("decrement stock for %s: %w", item.ID, err)
		}
		if !ok {
			return nil, insufficientStock(op, item.Name, item.Quantity)
		}

		order.Lines = append(order.Lines, model.OrderLine{
			ItemID:          item.ID,
			Quantity:        line.Quantity,
			PriceAtPurchase: item.Price,
		})
		order.TotalAmount = order.TotalAmount.Add(item.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	if method == model.DeliveryMethodDelivery {
		order.TotalAmount = order.TotalAmount.Add(model.DeliveryCharge)
	}

	if err := s.orderRepo.Create(ctx, tx, order); err != nil {
		return nil, fmt.Errorf("store order in db: %w", err)
	}
	return order, nil
}

// replay returns the order recorded for key, or nil when the key is unused.
func (s *checkoutServiceImpl) replay(ctx context.Context, op, email, key string) (*dto.PlaceOrderResponse, error) {
	record, err := s.idempotencyRepo.Find(ctx, key)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperror.Internal(op, err)
	}

	if record.UserEmail != email {
		return nil, apperror.Conflict(op, "idempotency key already used by another user")
	}

	s.logger.Info("order replayed", "order_id", record.OrderID, "email", email)
	return &dto.PlaceOrderResponse{
		Message:  "Order placed and cart cleared successfully",
		OrderID:  record.OrderID,
		Replayed: true,
	}, nil
}

func (s *checkoutServiceImpl) publish(ctx context.Context, event model.OrderEvent) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("publish order event failed", "type", event.Type, "order_id", event.OrderID, "error", err)
	}
}

func insufficientStock(op, itemName string, available int) *apperror.Error {
	return &apperror.Error{
		Op:      op,
		Kind:    apperror.KindConflict,
		Message: fmt.Sprintf("insufficient stock for %s: only %d left", itemName, available),
		Err:     ErrInsufficientStock,
	}
}
