package handler

import (
	"food-marketplace/internal/dto"
	"food-marketplace/internal/service"
	"net/http"

	"github.com/labstack/echo/v4"
)

type UserHandler struct {
	userService      service.UserService
	nutritionService service.NutritionService
}

func NewUserHandler(userService service.UserService, nutritionService service.NutritionService) *UserHandler {
	return &UserHandler{
		userService:      userService,
		nutritionService: nutritionService,
	}
}

func (h *UserHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid req body")
	}

	if err := h.userService.Register(ctx, req); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "User registered successfully"})
}

func (h *UserHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid req body")
	}

	user, err := h.userService.Login(ctx, req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.LoginResponse{Message: "Login successful", User: *user})
}

func (h *UserHandler) Profile(c echo.Context) error {
	ctx := c.Request().Context()

	profile, err := h.userService.Profile(ctx, c.Param("email"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, profile)
}

func (h *UserHandler) UpdateWorkoutSplit(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.WorkoutSplitRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid req body")
	}

	split, err := h.userService.UpdateWorkoutSplit(ctx, req.Email, req.Split)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.WorkoutSplitResponse{Message: "Workout split updated", WorkoutSplit: split})
}

func (h *UserHandler) DailyProtein(c echo.Context) error {
	ctx := c.Request().Context()

	email := c.Param("email")
	grams, err := h.nutritionService.DailyProtein(ctx, email)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.ProteinResponse{Email: email, Protein: grams})
}

func (h *UserHandler) WorkoutPlan(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.EmailRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid req body")
	}
	if req.Email == "" {
		return badRequest("Email is required")
	}

	plan, err := h.nutritionService.WorkoutPlan(ctx, req.Email)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, plan)
}
