package service

import (
	"context"
	"food-marketplace/internal/apperror"
	"food-marketplace/internal/dto"
	"food-marketplace/internal/model"
	"food-marketplace/internal/repository"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ItemService interface {
	AddItem(ctx context.Context, req dto.AddItemRequest) (*dto.Item, error)
}

type itemServiceImpl struct {
	itemRepo repository.ItemRepository
	logger   *slog.Logger
}

func NewItemService(itemRepo repository.ItemRepository, logger *slog.Logger) ItemService {
	return &itemServiceImpl{
		itemRepo: itemRepo,
		logger:   logger.With("component", "item_service"),
	}
}

func (s *itemServiceImpl) AddItem(ctx context.Context, req dto.AddItemRequest) (*dto.Item, error) {
	const op = "item.AddItem"

	if strings.TrimSpace(req.ItemName) == "" || req.Price == "" || req.Protein == "" || req.Location == "" {
		return nil, apperror.Validation(op, "required fields are missing")
	}

	price, err := decimal.NewFromString(req.Price.String())
	if err != nil || price.IsNegative() {
		return nil, apperror.Validation(op, "price must be a non-negative number")
	}

	quantity := 0
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	if quantity < 0 {
		return nil, apperror.Validation(op, "quantity must not be negative")
	}

	item := &model.Item{
		ID:       uuid.NewString(),
		Name:     strings.TrimSpace(req.ItemName),
		Photo:    req.Photo,
		Price:    price.Round(2),
		Protein:  req.Protein,
		Seller:   req.Seller,
		Location: req.Location,
		Quantity: quantity,
	}
	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, apperror.Internal(op, err)
	}

	s.logger.Info("item listed", "item_id", item.ID, "seller", item.Seller, "quantity", quantity)
	view := toItemView(item)
	return &view, nil
}
