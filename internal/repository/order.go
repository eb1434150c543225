package repository

import (
	"context"
	"food-marketplace/internal/model"
	"time"

	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, order *model.Order) error
	FindByID(ctx context.Context, orderID string) (*model.Order, error)
	UpdateStatus(ctx context.Context, orderID string, from, to model.OrderStatus) (bool, error)
	SetDeliveryLocation(ctx context.Context, orderID, location string) error
	ListByItems(ctx context.Context, itemIDs []string, statuses []model.OrderStatus) ([]*model.Order, error)
	CountByItems(ctx context.Context, itemIDs []string, status model.OrderStatus) (int64, error)
	ListByUser(ctx context.Context, userEmail string, since time.Time) ([]*model.Order, error)
}

type orderRepoImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepoImpl{
		db: db,
	}
}

// Create inserts the order together with its lines.
func (r *orderRepoImpl) Create(ctx context.Context, tx *gorm.DB, order *model.Order) error {
	return tx.WithContext(ctx).Create(order).Error
}

func preloadLines(db *gorm.DB) *gorm.DB {
	return db.Order("order_lines.id")
}

func (r *orderRepoImpl) FindByID(ctx context.Context, orderID string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Preload("Lines", preloadLines).
		Where("id = ?", orderID).
		First(&order).Error

	if err != nil {
		return nil, err
	}

	return &order, nil
}

// UpdateStatus moves the order to `to` only while it is still in `from`.
// It reports false when the guard did not match.
func (r *orderRepoImpl) UpdateStatus(ctx context.Context, orderID string, from, to model.OrderStatus) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.Order{}).
		Where(`
			id = ?
			AND status = ?
		`,
			orderID,
			from,
		).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}

func (r *orderRepoImpl) SetDeliveryLocation(ctx context.Context, orderID, location string) error {
	result := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]interface{}{
			"delivery_location": location,
			"updated_at":        time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListByItems returns orders containing any of itemIDs in one of statuses,
// newest first.
func (r *orderRepoImpl) ListByItems(ctx context.Context, itemIDs []string, statuses []model.OrderStatus) ([]*model.Order, error) {
	var orders []*model.Order
	if len(itemIDs) == 0 {
		return orders, nil
	}

	err := r.ordersWithItems(ctx, itemIDs).
		Preload("Lines", preloadLines).
		Where("status IN ?", statuses).
		Order("created_at DESC").
		Order("id").
		Find(&orders).Error

	if err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *orderRepoImpl) CountByItems(ctx context.Context, itemIDs []string, status model.OrderStatus) (int64, error) {
	if len(itemIDs) == 0 {
		return 0, nil
	}

	var count int64
	err := r.ordersWithItems(ctx, itemIDs).
		Where("status = ?", status).
		Count(&count).Error

	return count, err
}

func (r *orderRepoImpl) ordersWithItems(ctx context.Context, itemIDs []string) *gorm.DB {
	lines := r.db.Model(&model.OrderLine{}).
		Select("order_id").
		Where("item_id IN ?", itemIDs)

	return r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id IN (?)", lines)
}

// ListByUser returns the buyer's orders created at or after since, newest
// first. A zero since returns every order.
func (r *orderRepoImpl) ListByUser(ctx context.Context, userEmail string, since time.Time) ([]*model.Order, error) {
	var orders []*model.Order

	query := r.db.WithContext(ctx).
		Preload("Lines", preloadLines).
		Where("user_email = ?", userEmail)
	if !since.IsZero() {
		query = query.Where("created_at >= ?", since)
	}

	err := query.
		Order("created_at DESC").
		Order("id").
		Find(&orders).Error

	if err != nil {
		return nil, err
	}

	return orders, nil
}
