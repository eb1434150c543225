package repository

import (
	"context"
	"food-marketplace/internal/model"

	"gorm.io/gorm"
)

// IdempotencyRepository remembers which order a client supplied
// Idempotency-Key produced.
type IdempotencyRepository interface {
	Find(ctx context.Context, key string) (*model.IdempotencyKey, error)
	Create(ctx context.Context, tx *gorm.DB, record *model.IdempotencyKey) error
}

type idempotencyRepoImpl struct {
	db *gorm.DB
}

func NewIdempotencyRepository(db *gorm.DB) IdempotencyRepository {
	return &idempotencyRepoImpl{db: db}
}

func (r *idempotencyRepoImpl) Find(ctx context.Context, key string) (*model.IdempotencyKey, error) {
	var record model.IdempotencyKey
	err := r.db.WithContext(ctx).
		Where(&model.IdempotencyKey{Key: key}).
		First(&record).Error

	if err != nil {
		return nil, err
	}

	return &record, nil
}

// Create fails with gorm.ErrDuplicatedKey when the key was already recorded.
func (r *idempotencyRepoImpl) Create(ctx context.Context, tx *gorm.DB, record *model.IdempotencyKey) error {
	return tx.WithContext(ctx).Create(record).Error
}
