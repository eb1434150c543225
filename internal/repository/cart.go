package repository

import (
	"context"
	"food-marketplace/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartRepository interface {
	Increment(ctx context.Context, userEmail, itemID string, delta int) error
	SetQuantity(ctx context.Context, userEmail, itemID string, quantity int) error
	Remove(ctx context.Context, userEmail, itemID string) error
	List(ctx context.Context, userEmail string) ([]*model.CartLine, error)
	ListTx(ctx context.Context, tx *gorm.DB, userEmail string) ([]*model.CartLine, error)
	Clear(ctx context.Context, tx *gorm.DB, userEmail string) error
}

type cartRepoImpl struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepoImpl{
		db: db,
	}
}

var cartLineKey = []clause.Column{{Name: "user_email"}, {Name: "item_id"}}

// Increment adds delta to the line, creating it with delta when absent.
func (r *cartRepoImpl) Increment(ctx context.Context, userEmail, itemID string, delta int) error {
	line := &model.CartLine{UserEmail: userEmail, ItemID: itemID, Quantity: delta}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: cartLineKey,
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("cart_lines.quantity + ?", delta),
			"updated_at": time.Now(),
		}),
	}).Create(line).Error
}

func (r *cartRepoImpl) SetQuantity(ctx context.Context, userEmail, itemID string, quantity int) error {
	line := &model.CartLine{UserEmail: userEmail, ItemID: itemID, Quantity: quantity}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   cartLineKey,
		DoUpdates: clause.AssignmentColumns([]string{"quantity", "updated_at"}),
	}).Create(line).Error
}

func (r *cartRepoImpl) Remove(ctx context.Context, userEmail, itemID string) error {
	return r.db.WithContext(ctx).
		Where("user_email = ? AND item_id = ?", userEmail, itemID).
		Delete(&model.CartLine{}).Error
}

func (r *cartRepoImpl) List(ctx context.Context, userEmail string) ([]*model.CartLine, error) {
	return r.ListTx(ctx, r.db, userEmail)
}

// ListTx reads the cart through tx so checkout sees the same snapshot it clears.
func (r *cartRepoImpl) ListTx(ctx context.Context, tx *gorm.DB, userEmail string) ([]*model.CartLine, error) {
	var lines []*model.CartLine
	err := tx.WithContext(ctx).
		Where("user_email = ?", userEmail).
		Order("id").
		Find(&lines).Error

	if err != nil {
		return nil, err
	}

	return lines, nil
}

func (r *cartRepoImpl) Clear(ctx context.Context, tx *gorm.DB, userEmail string) error {
	return tx.WithContext(ctx).
		Where("user_email = ?", userEmail).
		Delete(&model.CartLine{}).Error
}
