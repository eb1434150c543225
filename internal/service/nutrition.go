package service

import (
	"context"
	"fmt"
	"food-marketplace/internal/apperror"
	"food-marketplace/internal/client"
	"food-marketplace/internal/dto"
	"food-marketplace/internal/model"
	"food-marketplace/internal/repository"
	"log/slog"
	"time"
)

type NutritionService interface {
	DailyProtein(ctx context.Context, email string) (int, error)
	WorkoutPlan(ctx context.Context, email string) (*dto.WorkoutPlanResponse, error)
}

type nutritionServiceImpl struct {
	planner   client.WorkoutPlanner
	userRepo  repository.UserRepository
	itemRepo  repository.ItemRepository
	orderRepo repository.OrderRepository
	logger    *slog.Logger
	now       func() time.Time
}

func NewNutritionService(
	planner client.WorkoutPlanner,
	userRepo repository.UserRepository,
	itemRepo repository.ItemRepository,
	orderRepo repository.OrderRepository,
	logger *slog.Logger,
) NutritionService {
	return &nutritionServiceImpl{
		planner:   planner,
		userRepo:  userRepo,
		itemRepo:  itemRepo,
		orderRepo: orderRepo,
		logger:    logger.With("component", "nutrition_service"),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// DailyProtein sums grams of protein bought today (UTC) using the current
// protein text of each item.
func (s *nutritionServiceImpl) DailyProtein(ctx context.Context, email string) (int, error) {
	const op = "nutrition.DailyProtein"

	if err := requireUser(ctx, s.userRepo, op, email, "user not found"); err != nil {
		return 0, err
	}

	grams, err := s.proteinSince(ctx, email, startOfDay(s.now()))
	if err != nil {
		return 0, apperror.Internal(op, err)
	}
	return grams, nil
}

func (s *nutritionServiceImpl) WorkoutPlan(ctx context.Context, email string) (*dto.WorkoutPlanResponse, error) {
	const op = "nutrition.WorkoutPlan"

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, notFoundOr(op, err, "user not found")
	}

	now := s.now()
	grams, err := s.proteinSince(ctx, email, startOfDay(now))
	if err != nil {
		return nil, apperror.Internal(op, err)
	}

	day := now.Weekday().String()
	split := user.WorkoutSplit
	if split == nil {
		split = model.DefaultWorkoutSplit()
	}
	muscleGroup := split[day]

	if s.planner == nil {
		return nil, apperror.Unavailable(op, client.ErrPlannerNotConfigured, "workout planner is not available")
	}

	plan, err := s.planner.GeneratePlan(ctx, workoutPrompt(day, muscleGroup, grams))
	if err != nil {
		s.logger.Warn("workout plan generation failed", "email", email, "error", err)
		return nil, apperror.Unavailable(op, err, "workout planner is not available")
	}

	return &dto.WorkoutPlanResponse{
		Day:          day,
		MuscleGroup:  muscleGroup,
		ProteinToday: grams,
		Plan:         plan,
	}, nil
}

func (s *nutritionServiceImpl) proteinSince(ctx context.Context, email string, since time.Time) (int, error) {
	orders, err := s.orderRepo.ListByUser(ctx, email, since)
	if err != nil {
		return 0, err
	}

	var ids []string
	for _, order := range orders {
		for _, line := range order.Lines {
			ids = append(ids, line.ItemID)
		}
	}
	byID, err := itemsByID(ctx, s.itemRepo, ids)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, order := range orders {
		for _, line := range order.Lines {
			if item, ok := byID[line.ItemID]; ok {
				total += model.ProteinGrams(item.Protein) * line.Quantity
			}
		}
	}
	return total, nil
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func workoutPrompt(day, muscleGroup string, proteinGrams int) string {
	return fmt.Sprintf(
		"Today is %s and the planned training focus is %s. "+
			"The user has eaten %d grams of protein so far today. "+
			"Return a JSON object with fields \"focus\", \"exercises\" "+
			"(array of {\"name\", \"sets\", \"reps\"}) and \"nutritionTip\".",
		day, muscleGroup, proteinGrams,
	)
}
