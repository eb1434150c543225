package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusAccepted  OrderStatus = "Accepted"
	OrderStatusDelivered OrderStatus = "Delivered"
)

// ActiveOrderStatuses are the states a seller still has to act on.
var ActiveOrderStatuses = []OrderStatus{OrderStatusPending, OrderStatusAccepted}

type DeliveryMethod string

const (
	DeliveryMethodDelivery DeliveryMethod = "Delivery"
	DeliveryMethodPickup   DeliveryMethod = "Pickup"
)

// DeliveryCharge is the flat surcharge added to Delivery orders.
var DeliveryCharge = decimal.NewFromInt(20)

func ParseDeliveryMethod(s string) (DeliveryMethod, bool) {
	switch DeliveryMethod(s) {
	case "":
		return DeliveryMethodDelivery, true
	case DeliveryMethodDelivery, DeliveryMethodPickup:
		return DeliveryMethod(s), true
	default:
		return "", false
	}
}

type OrderEventType string

const (
	OrderEventPlaced           OrderEventType = "order.placed"
	OrderEventAccepted         OrderEventType = "order.accepted"
	OrderEventDelivered        OrderEventType = "order.delivered"
	OrderEventLocationAttached OrderEventType = "order.location_attached"
)

type OrderEvent struct {
	Type        OrderEventType  `json:"type"`
	OrderID     string          `json:"order_id"`
	UserEmail   string          `json:"user_email"`
	Status      OrderStatus     `json:"status"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	OccurredAt  time.Time       `json:"occurred_at"`
}

func NewOrderEvent(eventType OrderEventType, order *Order, at time.Time) OrderEvent {
	return OrderEvent{
		Type:        eventType,
		OrderID:     order.ID,
		UserEmail:   order.UserEmail,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
		OccurredAt:  at.UTC(),
	}
}
