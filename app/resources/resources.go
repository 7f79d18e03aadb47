// Package resources defines the JSON shapes the API returns. Prices always
// serialize as fixed two-decimal strings ("50.00"), never floats.
package resources

import (
	"github.com/shopspring/decimal"

	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/app/models"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/collection"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/resource"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/storage"
)

// User hides credential and token state.
func User(u models.User) resource.Map {
	return resource.Map{
		"id":                u.ID,
		"username":          u.Username,
		"email":             u.Email,
		"is_email_verified": u.IsEmailVerified,
		"is_vendor":         u.IsVendor,
		"is_superuser":      u.IsSuperuser,
		"last_signed_in":    u.LastSignedIn,
		"created_at":        u.CreatedAt,
		"updated_at":        u.UpdatedAt,
	}
}

// Category is the minimal catalog taxonomy shape.
func Category(c models.Category) resource.Map {
	return resource.Map{
		"id":   c.ID,
		"name": c.Name,
	}
}

// Product is the public catalog shape.
func Product(p models.Product) resource.Map {
	out := resource.Map{
		"id":                 p.ID,
		"name":               p.Name,
		"description":        p.Description,
		"original_price":     money(p.OriginalPrice),
		"available_quantity": p.AvailableQuantity,
		"vendor_id":          p.VendorID,
		"created_at":         p.CreatedAt,
		"updated_at":         p.UpdatedAt,
	}
	if p.Category.ID != 0 {
		out["category"] = Category(p.Category)
	}
	if p.ImagePath != "" {
		out["image_url"] = storage.URL(p.ImagePath)
	}
	return out
}

// CartItem exposes one cart line.
func CartItem(item models.CartItem) resource.Map {
	out := resource.Map{
		"id":         item.ID,
		"cart_id":    item.CartID,
		"product_id": item.ProductID,
		"quantity":   item.Quantity,
		"created_at": item.CreatedAt,
		"updated_at": item.UpdatedAt,
	}
	if item.Product != nil {
		out["product"] = Product(*item.Product)
	}
	return out
}

// Cart exposes the cart with its items and a running subtotal.
func Cart(cart models.Cart) resource.Map {
	subtotal := collection.Reduce(cart.CartItems, decimal.Zero,
		func(carry decimal.Decimal, item models.CartItem) decimal.Decimal {
			if item.Product == nil {
				return carry
			}
			return carry.Add(item.Product.OriginalPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
		})

	return resource.Map{
		"id":         cart.ID,
		"user_id":    cart.UserID,
		"cart_items": collection.Map(cart.CartItems, CartItem),
		"subtotal":   money(subtotal.RoundBank(2)),
		"created_at": cart.CreatedAt,
		"updated_at": cart.UpdatedAt,
	}
}

// OrderItem captures the product snapshot and transferred quantity.
func OrderItem(item models.OrderItem) resource.Map {
	out := resource.Map{
		"quantity": item.Quantity,
	}
	if item.Product != nil {
		out["product"] = Product(*item.Product)
	} else {
		out["product_id"] = item.ProductID
	}
	return out
}

// Order is the immutable receipt shape.
func Order(order models.Order) resource.Map {
	return resource.Map{
		"id":          order.ID,
		"user_id":     order.UserID,
		"total_price": money(order.TotalPrice),
		"order_items": collection.Map(order.OrderItems, OrderItem),
		"created_at":  order.CreatedAt,
		"updated_at":  order.UpdatedAt,
	}
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
