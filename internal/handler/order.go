package handler

import (
	"food-marketplace/internal/dto"
	"food-marketplace/internal/service"
	"net/http"

	"github.com/labstack/echo/v4"
)

const idempotencyKeyHeader = "Idempotency-Key"

type OrderHandler struct {
	checkoutService service.CheckoutService
	orderService    service.OrderService
}

func NewOrderHandler(checkoutService service.CheckoutService, orderService service.OrderService) *OrderHandler {
	return &OrderHandler{
		checkoutService: checkoutService,
		orderService:    orderService,
	}
}

func (h *OrderHandler) PlaceOrder(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.PlaceOrderRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid req body")
	}
	if req.Email == "" {
		return badRequest("Email is required")
	}

	key := c.Request().Header.Get(idempotencyKeyHeader)
	if len(key) > 128 {
		return badRequest("Idempotency-Key must be at most 128 characters")
	}

	result, err := h.checkoutService.PlaceOrder(ctx, req.Email, req.DeliveryMethod, key)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

func (h *OrderHandler) AcceptOrder(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.OrderIDRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid req body")
	}
	if req.OrderID == "" {
		return badRequest("Order ID is required")
	}

	order, err := h.orderService.AcceptOrder(ctx, req.OrderID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.OrderResponse{Message: "Order accepted successfully", Order: *order})
}

func (h *OrderHandler) DeliverOrder(c echo.Context) error {
	ctx := c.Request().Context()

	orderID := c.Param("orderId")
	if orderID == "" {
		return badRequest("Order ID is required")
	}

	order, err := h.orderService.DeliverOrder(ctx, orderID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.OrderResponse{Message: "Order marked as delivered", Order: *order})
}

func (h *OrderHandler) SendLocation(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.SendLocationRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid req body")
	}
	if req.OrderID == "" || req.Location == "" {
		return badRequest("Order ID and location are required")
	}

	order, err := h.orderService.AttachDeliveryLocation(ctx, req.OrderID, req.Location)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.OrderResponse{Message: "Location sent successfully", Order: *order})
}

func (h *OrderHandler) ReceivedOrders(c echo.Context) error {
	ctx := c.Request().Context()

	orders, err := h.orderService.SellerActiveOrders(ctx, c.Param("sellerEmail"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) PendingCount(c echo.Context) error {
	ctx := c.Request().Context()

	sellerEmail := c.Param("sellerEmail")
	if sellerEmail == "" {
		return badRequest("Seller email is required")
	}

	count, err := h.orderService.SellerPendingCount(ctx, sellerEmail)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.CountResponse{Count: count})
}

func (h *OrderHandler) UserOrders(c echo.Context) error {
	ctx := c.Request().Context()

	orders, err := h.orderService.BuyerOrders(ctx, c.Param("userEmail"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, orders)
}
