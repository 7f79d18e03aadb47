package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalogue entry owned by a vendor. AvailableQuantity is the
// inventory ledger: it never goes negative, is decremented only by cart
// reservation and incremented only by release.
type Product struct {
	ID                uint            `gorm:"primaryKey"                       json:"id"`
	Name              string          `gorm:"uniqueIndex;size:255;not null"    json:"name"`
	Description       string          `gorm:"type:text"                        json:"description"`
	CategoryID        uint            `gorm:"not null;index"                   json:"category_id"`
	Category          Category        `json:"-"`
	OriginalPrice     decimal.Decimal `gorm:"type:decimal(12,2);not null"      json:"original_price"`
	AvailableQuantity int             `gorm:"not null;default:0;check:available_quantity >= 0" json:"available_quantity"`
	ImagePath         string          `gorm:"size:512"                         json:"image_path"`
	VendorID          uint            `gorm:"not null;index"                   json:"vendor_id"`
	Vendor            User            `json:"-"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`

	CartItems  []CartItem  `json:"-"`
	OrderItems []OrderItem `json:"-"`
}

// Category is a fixed enumeration seeded at startup; one-to-many with Product.
type Category struct {
	ID        uint       `gorm:"primaryKey"                    json:"id"`
	Name      string     `gorm:"uniqueIndex;size:255;not null" json:"name"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`

	Products []Product `json:"-"`
}
