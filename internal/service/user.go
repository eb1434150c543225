package service

import (
	"context"
	"errors"
	"food-marketplace/internal/apperror"
	"food-marketplace/internal/dto"
	"food-marketplace/internal/model"
	"food-marketplace/internal/repository"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	minUsernameLen = 3
	minPasswordLen = 6
)

type UserService interface {
	Register(ctx context.Context, req dto.RegisterRequest) error
	Login(ctx context.Context, email, password string) (*dto.User, error)
	Profile(ctx context.Context, email string) (*dto.ProfileResponse, error)
	UpdateWorkoutSplit(ctx context.Context, email string, split map[string]string) (map[string]string, error)
}

type userServiceImpl struct {
	userRepo    repository.UserRepository
	itemRepo    repository.ItemRepository
	cartService CartService
	logger      *slog.Logger
	hashCost    int
}

func NewUserService(
	userRepo repository.UserRepository,
	itemRepo repository.ItemRepository,
	cartService CartService,
	logger *slog.Logger,
) UserService {
	return &userServiceImpl{
		userRepo:    userRepo,
		itemRepo:    itemRepo,
		cartService: cartService,
		logger:      logger.With("component", "user_service"),
		hashCost:    bcrypt.DefaultCost,
	}
}

func (s *userServiceImpl) Register(ctx context.Context, req dto.RegisterRequest) error {
	const op = "user.Register"

	req.Email = strings.TrimSpace(req.Email)
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Email == "" || req.Password == "" || req.Location == "" {
		return apperror.Validation(op, "username, email, password and location are required")
	}
	if len(req.Username) < minUsernameLen {
		return apperror.Validation(op, "username must be at least %d characters", minUsernameLen)
	}
	if len(req.Password) < minPasswordLen {
		return apperror.Validation(op, "password must be at least %d characters", minPasswordLen)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		return apperror.Internal(op, err)
	}

	err = s.userRepo.Create(ctx, &model.User{
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: string(hash),
		Location:     req.Location,
		WorkoutSplit: model.DefaultWorkoutSplit(),
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperror.Conflict(op, "user already exists")
	}
	if err != nil {
		return apperror.Internal(op, err)
	}

	s.logger.Info("user registered", "email", req.Email)
	return nil
}

// Login checks the credentials. No session is issued.
func (s *userServiceImpl) Login(ctx context.Context, email, password string) (*dto.User, error) {
	const op = "user.Login"
	if email == "" || password == "" {
		return nil, apperror.Validation(op, "email and password are required")
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.Unauthorized(op, "user not found")
	}
	if err != nil {
		return nil, apperror.Internal(op, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperror.Unauthorized(op, "incorrect password")
	}

	return &dto.User{Username: user.Username, Email: user.Email, Location: user.Location}, nil
}

// Profile returns the user with their cart and the items listed at the same
// location by other sellers.
func (s *userServiceImpl) Profile(ctx context.Context, email string) (*dto.ProfileResponse, error) {
	const op = "user.Profile"

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, notFoundOr(op, err, "user not found")
	}

	cart, err := s.cartService.GetCart(ctx, email)
	if err != nil {
		return nil, err
	}

	nearby, err := s.itemRepo.FindNearby(ctx, user.Location, email)
	if err != nil {
		return nil, apperror.Internal(op, err)
	}
	nearbyItems := make([]dto.Item, len(nearby))
	for i, item := range nearby {
		nearbyItems[i] = toItemView(item)
	}

	return &dto.ProfileResponse{
		User:         dto.User{Username: user.Username, Email: user.Email, Location: user.Location},
		WorkoutSplit: user.WorkoutSplit,
		Cart:         cart,
		NearbyItems:  nearbyItems,
	}, nil
}

// UpdateWorkoutSplit overwrites the given days and keeps the rest.
func (s *userServiceImpl) UpdateWorkoutSplit(ctx context.Context, email string, split map[string]string) (map[string]string, error) {
	const op = "user.UpdateWorkoutSplit"
	if email == "" || len(split) == 0 {
		return nil, apperror.Validation(op, "email and split are required")
	}
	for day := range split {
		if !model.IsWeekday(day) {
			return nil, apperror.Validation(op, "unknown day %q", day)
		}
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, notFoundOr(op, err, "user not found")
	}

	if user.WorkoutSplit == nil {
		user.WorkoutSplit = model.DefaultWorkoutSplit()
	}
	for day, label := range split {
		user.WorkoutSplit[day] = label
	}

	if err := s.userRepo.UpdateWorkoutSplit(ctx, user); err != nil {
		return nil, notFoundOr(op, err, "user not found")
	}
	return user.WorkoutSplit, nil
}
