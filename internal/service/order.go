package service

import (
	"context"
	"food-marketplace/internal/apperror"
	"food-marketplace/internal/client"
	"food-marketplace/internal/dto"
	"food-marketplace/internal/model"
	"food-marketplace/internal/repository"
	"log/slog"
	"time"
)

type OrderService interface {
	AcceptOrder(ctx context.Context, orderID string) (*dto.Order, error)
	DeliverOrder(ctx context.Context, orderID string) (*dto.Order, error)
	AttachDeliveryLocation(ctx context.Context, orderID, location string) (*dto.Order, error)
	SellerActiveOrders(ctx context.Context, seller string) ([]dto.Order, error)
	SellerPendingCount(ctx context.Context, seller string) (int64, error)
	BuyerOrders(ctx context.Context, email string) ([]dto.Order, error)
}

type orderServiceImpl struct {
	publisher client.EventPublisher
	userRepo  repository.UserRepository
	itemRepo  repository.ItemRepository
	orderRepo repository.OrderRepository
	logger    *slog.Logger
	now       func() time.Time
}

func NewOrderService(
	publisher client.EventPublisher,
	userRepo repository.UserRepository,
	itemRepo repository.ItemRepository,
	orderRepo repository.OrderRepository,
	logger *slog.Logger,
) OrderService {
	return &orderServiceImpl{
		publisher: publisher,
		userRepo:  userRepo,
		itemRepo:  itemRepo,
		orderRepo: orderRepo,
		logger:    logger.With("component", "order_service"),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *orderServiceImpl) AcceptOrder(ctx context.Context, orderID string) (*dto.Order, error) {
	return s.transition(ctx, "order.AcceptOrder", orderID,
		model.OrderStatusPending, model.OrderStatusAccepted, model.OrderEventAccepted)
}

func (s *orderServiceImpl) DeliverOrder(ctx context.Context, orderID string) (*dto.Order, error) {
	return s.transition(ctx, "order.DeliverOrder", orderID,
		model.OrderStatusAccepted, model.OrderStatusDelivered, model.OrderEventDelivered)
}

// transition applies from -> to as a guarded update, so of two concurrent
// callers only one can win.
func (s *orderServiceImpl) transition(
	ctx context.Context,
	op, orderID string,
	from, to model.OrderStatus,
	eventType model.OrderEventType,
) (*dto.Order, error) {
	if orderID == "" {
		return nil, apperror.Validation(op, "order id is required")
	}

	moved, err := s.orderRepo.UpdateStatus(ctx, orderID, from, to)
	if err != nil {
		return nil, apperror.Internal(op, err)
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, notFoundOr(op, err, "order not found")
	}

	if !moved {
		return nil, apperror.InvalidTransition(op, "order is %s, only %s orders can become %s",
			order.Status, from, to)
	}

	s.logger.Info("order status changed", "order_id", orderID, "from", from, "to", to)
	s.publish(ctx, model.NewOrderEvent(eventType, order, s.now()))

	return s.view(ctx, op, order)
}

// AttachDeliveryLocation records where the buyer wants the order. The status
// is left as is.
func (s *orderServiceImpl) AttachDeliveryLocation(ctx context.Context, orderID, location string) (*dto.Order, error) {
	const op = "order.AttachDeliveryLocation"
	if orderID == "" || location == "" {
		return nil, apperror.Validation(op, "order id and location are required")
	}

	if err := s.orderRepo.SetDeliveryLocation(ctx, orderID, location); err != nil {
		return nil, notFoundOr(op, err, "order not found")
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, notFoundOr(op, err, "order not found")
	}

	s.publish(ctx, model.NewOrderEvent(model.OrderEventLocationAttached, order, s.now()))
	return s.view(ctx, op, order)
}

// SellerActiveOrders lists Pending and Accepted orders that contain at least
// one of the seller's items, newest first.
func (s *orderServiceImpl) SellerActiveOrders(ctx context.Context, seller string) ([]dto.Order, error) {
	const op = "order.SellerActiveOrders"
	if seller == "" {
		return nil, apperror.Validation(op, "seller email is required")
	}

	if err := requireUser(ctx, s.userRepo, op, seller, "seller not found"); err != nil {
		return nil, err
	}

	itemIDs, err := s.itemRepo.FindIDsBySeller(ctx, seller)
	if err != nil {
		return nil, apperror.Internal(op, err)
	}

	orders, err := s.orderRepo.ListByItems(ctx, itemIDs, model.ActiveOrderStatuses)
	if err != nil {
		return nil, apperror.Internal(op, err)
	}

	return s.views(ctx, op, orders)
}

// SellerPendingCount counts Pending orders with any of the seller's items.
// Unknown sellers simply have none.
func (s *orderServiceImpl) SellerPendingCount(ctx context.Context, seller string) (int64, error) {
	const op = "order.SellerPendingCount"
	if seller == "" {
		return 0, apperror.Validation(op, "seller email is required")
	}

	itemIDs, err := s.itemRepo.FindIDsBySeller(ctx, seller)
	if err != nil {
		return 0, apperror.Internal(op, err)
	}

	count, err := s.orderRepo.CountByItems(ctx, itemIDs, model.OrderStatusPending)
	if err != nil {
		return 0, apperror.Internal(op, err)
	}
	return count, nil
}

func (s *orderServiceImpl) BuyerOrders(ctx context.Context, email string) ([]dto.Order, error) {
	const op = "order.BuyerOrders"
	if email == "" {
		return nil, apperror.Validation(op, "user email is required")
	}

	if err := requireUser(ctx, s.userRepo, op, email, "user not found"); err != nil {
		return nil, err
	}

	orders, err := s.orderRepo.ListByUser(ctx, email, time.Time{})
	if err != nil {
		return nil, apperror.Internal(op, err)
	}

	return s.views(ctx, op, orders)
}

func (s *orderServiceImpl) view(ctx context.Context, op string, order *model.Order) (*dto.Order, error) {
	views, err := s.views(ctx, op, []*model.Order{order})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *orderServiceImpl) views(ctx context.Context, op string, orders []*model.Order) ([]dto.Order, error) {
	views, err := orderViews(ctx, s.itemRepo, orders)
	if err != nil {
		return nil, apperror.Internal(op, err)
	}
	return views, nil
}

func (s *orderServiceImpl) publish(ctx context.Context, event model.OrderEvent) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("publish order event failed", "type", event.Type, "order_id", event.OrderID, "error", err)
	}
}

