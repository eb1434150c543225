package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// ---------- requests ----------

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Location string `json:"location"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AddItemRequest struct {
	ItemName string `json:"itemname"`
	Photo    string `json:"photo"`
	// accepted as a JSON string or number
	Price    json.Number `json:"price"`
	Protein  string      `json:"protein"`
	Seller   string      `json:"seller"`
	Location string      `json:"location"`
	Quantity *int        `json:"quantity"`
}

type CartRequest struct {
	Email  string `json:"email"`
	ItemID string `json:"itemId"`
}

type UpdateCartQuantityRequest struct {
	Email       string `json:"email"`
	ItemID      string `json:"itemId"`
	NewQuantity *int   `json:"newQuantity"`
}

type PlaceOrderRequest struct {
	Email          string `json:"email"`
	DeliveryMethod string `json:"deliveryMethod"`
}

type OrderIDRequest struct {
	OrderID string `json:"orderId"`
}

type SendLocationRequest struct {
	OrderID  string `json:"orderId"`
	Location string `json:"location"`
}

type WorkoutSplitRequest struct {
	Email string            `json:"email"`
	Split map[string]string `json:"split"`
}

type EmailRequest struct {
	Email string `json:"email"`
}

// ---------- views ----------

type Item struct {
	ID       string          `json:"id"`
	ItemName string          `json:"itemname"`
	Photo    string          `json:"photo,omitempty"`
	Price    decimal.Decimal `json:"price"`
	Protein  string          `json:"protein"`
	Seller   string          `json:"seller,omitempty"`
	Location string          `json:"location"`
	Quantity int             `json:"quantity"`
}

type CartLine struct {
	Item     Item `json:"item"`
	Quantity int  `json:"quantity"`
}

type OrderLine struct {
	// current item details, nil when the listing can no longer be resolved
	Item            *Item           `json:"item"`
	ItemID          string          `json:"itemId"`
	Quantity        int             `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"priceAtPurchase"`
}

type Order struct {
	ID               string          `json:"id"`
	User             string          `json:"user"`
	Items            []OrderLine     `json:"items"`
	TotalAmount      decimal.Decimal `json:"totalAmount"`
	Status           string          `json:"status"`
	DeliveryMethod   string          `json:"deliveryMethod"`
	DeliveryLocation *string         `json:"deliveryLocation,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
}

type User struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Location string `json:"location"`
}

// ---------- responses ----------

type MessageResponse struct {
	Message string `json:"message"`
}

type LoginResponse struct {
	Message string `json:"message"`
	User
}

type AddItemResponse struct {
	Message string `json:"message"`
	Item    Item   `json:"item"`
}

type CartResponse struct {
	Message string     `json:"message,omitempty"`
	Cart    []CartLine `json:"cart"`
}

type PlaceOrderResponse struct {
	Message  string `json:"message"`
	OrderID  string `json:"orderId"`
	Replayed bool   `json:"replayed,omitempty"`
}

type OrderResponse struct {
	Message string `json:"message"`
	Order   Order  `json:"order"`
}

type CountResponse struct {
	Count int64 `json:"count"`
}

type ProfileResponse struct {
	User
	WorkoutSplit map[string]string `json:"workoutSplit"`
	Cart         []CartLine        `json:"cart"`
	NearbyItems  []Item            `json:"nearbyItems"`
}

type WorkoutSplitResponse struct {
	Message      string            `json:"message"`
	WorkoutSplit map[string]string `json:"workoutSplit"`
}

type ProteinResponse struct {
	Email   string `json:"email"`
	Protein int    `json:"protein"`
}

type WorkoutPlanResponse struct {
	Day          string          `json:"day"`
	MuscleGroup  string          `json:"muscleGroup"`
	ProteinToday int             `json:"proteinToday"`
	Plan         json.RawMessage `json:"plan"`
}
