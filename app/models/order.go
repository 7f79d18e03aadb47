package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is the immutable record produced by checkout. Rows are append-only:
// nothing in this codebase updates or deletes an order once committed.
type Order struct {
	ID         uint            `gorm:"primaryKey"                  json:"id"`
	UserID     uint            `gorm:"not null;index"              json:"user_id"`
	User       *User           `json:"-"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_price"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  *time.Time      `json:"updated_at"`

	OrderItems []OrderItem `json:"order_items,omitempty"`
}

// OrderItem captures the quantity of one product transferred from a cart at
// checkout time. Created atomically with its Order and the corresponding
// CartItem's deletion.
type OrderItem struct {
	ID        uint       `gorm:"primaryKey"                  json:"id"`
	OrderID   uint       `gorm:"not null;index"              json:"order_id"`
	Order     *Order     `json:"-"`
	ProductID uint       `gorm:"not null;index"              json:"product_id"`
	Product   *Product   `json:"product,omitempty"`
	Quantity  int        `gorm:"not null;check:quantity > 0" json:"quantity"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}
