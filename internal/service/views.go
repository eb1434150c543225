package service

import (
	"context"
	"food-marketplace/internal/dto"
	"food-marketplace/internal/model"
	"food-marketplace/internal/repository"
)

func toItemView(item *model.Item) dto.Item {
	return dto.Item{
		ID:       item.ID,
		ItemName: item.Name,
		Photo:    item.Photo,
		Price:    item.Price,
		Protein:  item.Protein,
		Seller:   item.Seller,
		Location: item.Location,
		Quantity: item.Quantity,
	}
}

func itemsByID(ctx context.Context, itemRepo repository.ItemRepository, ids []string) (map[string]*model.Item, error) {
	items, err := itemRepo.FindMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*model.Item, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}
	return byID, nil
}

// resolveCart pairs each line with the current item. Lines whose item is
// gone are skipped.
func resolveCart(ctx context.Context, itemRepo repository.ItemRepository, lines []*model.CartLine) ([]dto.CartLine, error) {
	ids := make([]string, len(lines))
	for i, line := range lines {
		ids[i] = line.ItemID
	}

	byID, err := itemsByID(ctx, itemRepo, ids)
	if err != nil {
		return nil, err
	}

	cart := make([]dto.CartLine, 0, len(lines))
	for _, line := range lines {
		item, ok := byID[line.ItemID]
		if !ok {
			continue
		}
		cart = append(cart, dto.CartLine{Item: toItemView(item), Quantity: line.Quantity})
	}
	return cart, nil
}

func toOrderView(order *model.Order, byID map[string]*model.Item) dto.Order {
	lines := make([]dto.OrderLine, len(order.Lines))
	for i, line := range order.Lines {
		lines[i] = dto.OrderLine{
			ItemID:          line.ItemID,
			Quantity:        line.Quantity,
			PriceAtPurchase: line.PriceAtPurchase,
		}
		if item, ok := byID[line.ItemID]; ok {
			view := toItemView(item)
			lines[i].Item = &view
		}
	}

	return dto.Order{
		ID:               order.ID,
		User:             order.UserEmail,
		Items:            lines,
		TotalAmount:      order.TotalAmount,
		Status:           string(order.Status),
		DeliveryMethod:   string(order.DeliveryMethod),
		DeliveryLocation: order.DeliveryLocation,
		CreatedAt:        order.CreatedAt,
	}
}

func orderViews(ctx context.Context, itemRepo repository.ItemRepository, orders []*model.Order) ([]dto.Order, error) {
	seen := make(map[string]struct{})
	var ids []string
	for _, order := range orders {
		for _, line := range order.Lines {
			if _, ok := seen[line.ItemID]; !ok {
				seen[line.ItemID] = struct{}{}
				ids = append(ids, line.ItemID)
			}
		}
	}

	byID, err := itemsByID(ctx, itemRepo, ids)
	if err != nil {
		return nil, err
	}

	views := make([]dto.Order, len(orders))
	for i, order := range orders {
		views[i] = toOrderView(order, byID)
	}
	return views, nil
}
