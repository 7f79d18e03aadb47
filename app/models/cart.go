package models

import "time"

// Cart ties one user to their in-progress selection. The unique index on
// UserID enforces at most one cart per user; the cart is created lazily on
// the first add and destroyed at checkout.
type Cart struct {
	ID        uint       `gorm:"primaryKey"           json:"id"`
	UserID    uint       `gorm:"uniqueIndex;not null" json:"user_id"`
	User      *User      `json:"-"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`

	CartItems []CartItem `gorm:"constraint:OnDelete:CASCADE" json:"cart_items,omitempty"`
}

// CartItem is one product line in a cart. The composite unique index keeps a
// product from appearing twice in the same cart; a duplicate add is a
// conflict, never a merge.
type CartItem struct {
	ID        uint       `gorm:"primaryKey"                          json:"id"`
	CartID    uint       `gorm:"not null;uniqueIndex:idx_cart_product" json:"cart_id"`
	Cart      *Cart      `json:"-"`
	ProductID uint       `gorm:"not null;uniqueIndex:idx_cart_product" json:"product_id"`
	Product   *Product   `json:"-"`
	Quantity  int        `gorm:"not null;check:quantity > 0"         json:"quantity"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}
