package service

import (
	"context"
	"food-marketplace/internal/apperror"
	"food-marketplace/internal/dto"
	"food-marketplace/internal/lock"
	"food-marketplace/internal/repository"
	"log/slog"
)

type CartService interface {
	AddToCart(ctx context.Context, email, itemID string) ([]dto.CartLine, error)
	RemoveFromCart(ctx context.Context, email, itemID string) ([]dto.CartLine, error)
	SetCartQuantity(ctx context.Context, email, itemID string, quantity int) ([]dto.CartLine, error)
	GetCart(ctx context.Context, email string) ([]dto.CartLine, error)
}

type cartServiceImpl struct {
	locker   lock.Locker
	userRepo repository.UserRepository
	itemRepo repository.ItemRepository
	cartRepo repository.CartRepository
	logger   *slog.Logger
}

func NewCartService(
	locker lock.Locker,
	userRepo repository.UserRepository,
	itemRepo repository.ItemRepository,
	cartRepo repository.CartRepository,
	logger *slog.Logger,
) CartService {
	return &cartServiceImpl{
		locker:   locker,
		userRepo: userRepo,
		itemRepo: itemRepo,
		cartRepo: cartRepo,
		logger:   logger.With("component", "cart_service"),
	}
}

func cartLockKey(email string) string {
	return "cart:" + email
}

func (s *cartServiceImpl) AddToCart(ctx context.Context, email, itemID string) ([]dto.CartLine, error) {
	const op = "cart.AddToCart"
	if email == "" || itemID == "" {
		return nil, apperror.Validation(op, "email and item id are required")
	}

	if _, err := s.itemRepo.FindByID(ctx, itemID); err != nil {
		return nil, notFoundOr(op, err, "item not found")
	}
	if err := requireUser(ctx, s.userRepo, op, email, "user not found"); err != nil {
		return nil, err
	}

	return s.mutate(ctx, op, email, func() error {
		return s.cartRepo.Increment(ctx, email, itemID, 1)
	})
}

func (s *cartServiceImpl) RemoveFromCart(ctx context.Context, email, itemID string) ([]dto.CartLine, error) {
	const op = "cart.RemoveFromCart"
	if email == "" || itemID == "" {
		return nil, apperror.Validation(op, "email and item id are required")
	}

	if err := requireUser(ctx, s.userRepo, op, email, "user not found"); err != nil {
		return nil, err
	}

	return s.mutate(ctx, op, email, func() error {
		return s.cartRepo.Remove(ctx, email, itemID)
	})
}

// SetCartQuantity sets the line to exactly quantity. Zero or less removes it.
func (s *cartServiceImpl) SetCartQuantity(ctx context.Context, email, itemID string, quantity int) ([]dto.CartLine, error) {
	const op = "cart.SetCartQuantity"
	if email == "" || itemID == "" {
		return nil, apperror.Validation(op, "email, item id and new quantity are required")
	}

	if err := requireUser(ctx, s.userRepo, op, email, "user not found"); err != nil {
		return nil, err
	}

	if quantity <= 0 {
		return s.mutate(ctx, op, email, func() error {
			return s.cartRepo.Remove(ctx, email, itemID)
		})
	}

	if _, err := s.itemRepo.FindByID(ctx, itemID); err != nil {
		return nil, notFoundOr(op, err, "item not found")
	}

	return s.mutate(ctx, op, email, func() error {
		return s.cartRepo.SetQuantity(ctx, email, itemID, quantity)
	})
}

func (s *cartServiceImpl) GetCart(ctx context.Context, email string) ([]dto.CartLine, error) {
	const op = "cart.GetCart"
	if err := requireUser(ctx, s.userRepo, op, email, "user not found"); err != nil {
		return nil, err
	}

	cart, err := s.resolve(ctx, email)
	if err != nil {
		return nil, apperror.Internal(op, err)
	}
	return cart, nil
}

// mutate applies fn under the user's cart lock and returns the resolved cart.
func (s *cartServiceImpl) mutate(ctx context.Context, op, email string, fn func() error) ([]dto.CartLine, error) {
	unlock, err := s.locker.Lock(ctx, cartLockKey(email))
	if err != nil {
		return nil, apperror.Unavailable(op, err, "cart is busy, try again")
	}
	defer unlock()

	if err := fn(); err != nil {
		s.logger.Error("cart mutation failed", "op", op, "email", email, "error", err)
		return nil, apperror.Internal(op, err)
	}

	cart, err := s.resolve(ctx, email)
	if err != nil {
		return nil, apperror.Internal(op, err)
	}
	return cart, nil
}

func (s *cartServiceImpl) resolve(ctx context.Context, email string) ([]dto.CartLine, error) {
	lines, err := s.cartRepo.List(ctx, email)
	if err != nil {
		return nil, err
	}
	return resolveCart(ctx, s.itemRepo, lines)
}
