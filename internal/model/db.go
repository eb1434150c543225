package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	Email        string            `gorm:"primaryKey;size:255;not null"`
	Username     string            `gorm:"size:64;not null"`
	PasswordHash string            `gorm:"size:255;not null"` // bcrypt
	Location     string            `gorm:"size:255;index"`
	WorkoutSplit map[string]string `gorm:"type:text;serializer:json"` // weekday -> muscle group
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Item struct {
	ID       string          `gorm:"primaryKey;size:36;not null"`
	Name     string          `gorm:"size:255;not null"`
	Photo    string          `gorm:"size:1024"`
	Price    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Protein  string          `gorm:"size:64;not null"`  // free text, leading integer is grams
	Seller   string          `gorm:"size:255;index"`    // seller email, optional
	Location string          `gorm:"size:255;index;not null"`
	Quantity int             `gorm:"not null;default:0;check:chk_items_quantity,quantity >= 0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type CartLine struct {
	ID uint `gorm:"primaryKey"`
	// (user_email, item_id) is the effective key of a line
	UserEmail string `gorm:"size:255;not null;uniqueIndex:idx_cart_user_item"`
	ItemID    string `gorm:"size:36;not null;uniqueIndex:idx_cart_user_item"`
	Quantity  int    `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Order struct {
	ID               string          `gorm:"primaryKey;size:36;not null"`
	UserEmail        string          `gorm:"size:255;index;not null"` // buyer
	Lines            []OrderLine     `gorm:"foreignKey:OrderID"`
	TotalAmount      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status           OrderStatus     `gorm:"size:16;index;not null"`
	DeliveryMethod   DeliveryMethod  `gorm:"size:16;not null"`
	DeliveryLocation *string         `gorm:"size:255"`
	CreatedAt        time.Time       `gorm:"index"`
	UpdatedAt        time.Time
}

// OrderLine is frozen at checkout and never recomputed from the item.
type OrderLine struct {
	ID              uint            `gorm:"primaryKey"`
	OrderID         string          `gorm:"size:36;index;not null"`
	ItemID          string          `gorm:"size:36;index;not null"`
	Quantity        int             `gorm:"not null"`
	PriceAtPurchase decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

type IdempotencyKey struct {
	Key       string `gorm:"primaryKey;size:128;not null"`
	UserEmail string `gorm:"size:255;not null"`
	OrderID   string `gorm:"size:36;not null"`
	CreatedAt time.Time
}
