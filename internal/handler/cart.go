package handler

import (
	"food-marketplace/internal/dto"
	"food-marketplace/internal/service"
	"net/http"

	"github.com/labstack/echo/v4"
)

type CartHandler struct {
	cartService service.CartService
}

func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
	}
}

func (h *CartHandler) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CartRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid req body")
	}
	if req.Email == "" || req.ItemID == "" {
		return badRequest("Email and Item ID are required")
	}

	cart, err := h.cartService.AddToCart(ctx, req.Email, req.ItemID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.CartResponse{Message: "Cart updated successfully", Cart: cart})
}

func (h *CartHandler) RemoveFromCart(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CartRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid req body")
	}
	if req.Email == "" || req.ItemID == "" {
		return badRequest("Email and Item ID are required")
	}

	cart, err := h.cartService.RemoveFromCart(ctx, req.Email, req.ItemID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.CartResponse{Message: "Item removed from cart", Cart: cart})
}

func (h *CartHandler) UpdateCartQuantity(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.UpdateCartQuantityRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid req body")
	}
	if req.Email == "" || req.ItemID == "" || req.NewQuantity == nil {
		return badRequest("Email, Item ID and new quantity are required")
	}

	cart, err := h.cartService.SetCartQuantity(ctx, req.Email, req.ItemID, *req.NewQuantity)
	if err != nil {
		return err
	}

	message := "Quantity updated successfully"
	if *req.NewQuantity <= 0 {
		message = "Item removed from cart"
	}
	return c.JSON(http.StatusOK, dto.CartResponse{Message: message, Cart: cart})
}
