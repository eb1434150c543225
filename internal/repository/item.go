package repository

import (
	"context"
	"food-marketplace/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ItemRepository interface {
	Create(ctx context.Context, item *model.Item) error
	FindByID(ctx context.Context, itemID string) (*model.Item, error)
	FindMany(ctx context.Context, itemIDs []string) ([]*model.Item, error)
	FindManyForUpdate(ctx context.Context, tx *gorm.DB, itemIDs []string) ([]*model.Item, error)
	FindIDsBySeller(ctx context.Context, seller string) ([]string, error)
	FindNearby(ctx context.Context, location, excludeSeller string) ([]*model.Item, error)
	DecrementStock(ctx context.Context, tx *gorm.DB, itemID string, quantity int) (bool, error)
}

type itemRepoImpl struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepoImpl{
		db: db,
	}
}

func (r *itemRepoImpl) Create(ctx context.Context, item *model.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *itemRepoImpl) FindByID(ctx context.Context, itemID string) (*model.Item, error) {
	var item model.Item
	err := r.db.WithContext(ctx).
		Where("id = ?", itemID).
		First(&item).Error

	if err != nil {
		return nil, err
	}

	return &item, nil
}

func (r *itemRepoImpl) FindMany(ctx context.Context, itemIDs []string) ([]*model.Item, error) {
	var items []*model.Item
	if len(itemIDs) == 0 {
		return items, nil
	}

	err := r.db.WithContext(ctx).
		Where("id IN ?", itemIDs).
		Find(&items).
		Error

	if err != nil {
		return nil, err
	}

	return items, nil
}

// FindManyForUpdate row-locks the items until tx ends. Dialects without
// row locks (sqlite) rely on the single writer instead.
func (r *itemRepoImpl) FindManyForUpdate(ctx context.Context, tx *gorm.DB, itemIDs []string) ([]*model.Item, error) {
	var items []*model.Item
	if len(itemIDs) == 0 {
		return items, nil
	}

	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", itemIDs).
		Order("id").
		Find(&items).
		Error

	if err != nil {
		return nil, err
	}

	return items, nil
}

func (r *itemRepoImpl) FindIDsBySeller(ctx context.Context, seller string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&model.Item{}).
		Where("seller = ?", seller).
		Pluck("id", &ids).Error

	if err != nil {
		return nil, err
	}

	return ids, nil
}

// FindNearby returns items listed at exactly location by anyone but excludeSeller.
func (r *itemRepoImpl) FindNearby(ctx context.Context, location, excludeSeller string) ([]*model.Item, error) {
	var items []*model.Item
	err := r.db.WithContext(ctx).
		Where("location = ?", location).
		Where("seller <> ?", excludeSeller).
		Order("created_at DESC").
		Find(&items).
		Error

	if err != nil {
		return nil, err
	}

	return items, nil
}

// DecrementStock takes quantity units only if that many are left. It reports
// false when the guard rejected the update.
func (r *itemRepoImpl) DecrementStock(ctx context.Context, tx *gorm.DB, itemID string, quantity int) (bool, error) {
	result := tx.WithContext(ctx).Model(&model.Item{}).
		Where("id = ? AND quantity >= ?", itemID, quantity).
		Updates(map[string]interface{}{
			"quantity":   gorm.Expr("quantity - ?", quantity),
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}
