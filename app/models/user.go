package models

import "time"

// User is the unified identity model. Customers, vendors and superusers are
// one entity distinguished by role flags; capability checks go through the
// predicate methods, never through type switches.
type User struct {
	ID              uint       `gorm:"primaryKey"               json:"id"`
	Username        string     `gorm:"uniqueIndex;size:255;not null" json:"username"`
	Email           string     `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash    string     `gorm:"size:255;not null"        json:"-"`
	LastSignedIn    *time.Time `json:"last_signed_in"`
	IsEmailVerified bool       `gorm:"default:false"            json:"is_email_verified"`
	IsVendor        bool       `gorm:"default:false"            json:"is_vendor"`
	IsSuperuser     bool       `gorm:"default:false"            json:"is_superuser"`

	// AuthToken / RefreshToken hold the currently-active tokens. A presented
	// JWT must equal the stored value, so clearing these revokes every copy
	// immediately rather than at expiry.
	AuthToken    string `gorm:"size:1024" json:"-"`
	RefreshToken string `gorm:"size:1024" json:"-"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`

	Products []Product `gorm:"foreignKey:VendorID" json:"-"`
	Cart     *Cart     `json:"-"`
	Orders   []Order   `json:"-"`
}

// IsCustomer reports whether the user may own a cart and place orders.
// Vendor and superuser roles are excluded from customer operations.
func (u *User) IsCustomer() bool {
	return !u.IsVendor && !u.IsSuperuser
}
