package handler

import (
	"food-marketplace/internal/dto"
	"food-marketplace/internal/service"
	"net/http"

	"github.com/labstack/echo/v4"
)

type ItemHandler struct {
	itemService service.ItemService
}

func NewItemHandler(itemService service.ItemService) *ItemHandler {
	return &ItemHandler{
		itemService: itemService,
	}
}

func (h *ItemHandler) AddItem(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.AddItemRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid req body")
	}

	item, err := h.itemService.AddItem(ctx, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.AddItemResponse{Message: "Item added successfully", Item: *item})
}
