package service

import (
	"context"
	"errors"
	"food-marketplace/internal/apperror"
	"food-marketplace/internal/repository"

	"gorm.io/gorm"
)

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// wrapErr passes classified errors through and hides everything else
// behind an internal error.
func wrapErr(op string, err error) error {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return err
	}
	return apperror.Internal(op, err)
}

// notFoundOr maps a missing row to a NotFound error with message and wraps
// any other failure as internal.
func notFoundOr(op string, err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound(op, "%s", message)
	}
	return wrapErr(op, err)
}

// requireUser fails with NotFound(message) unless a user with email exists.
func requireUser(ctx context.Context, userRepo repository.UserRepository, op, email, message string) error {
	exists, err := userRepo.Exists(ctx, email)
	if err != nil {
		return apperror.Internal(op, err)
	}
	if !exists {
		return apperror.NotFound(op, "%s", message)
	}
	return nil
}
