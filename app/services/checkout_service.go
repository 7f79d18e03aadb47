package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/app/models"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/app/repositories"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/apperr"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/event"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/logger"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/metrics"
)

// OrderPlaced is fired after a checkout commits. The payload is the created
// models.Order with items preloaded.
const OrderPlaced = "order.placed"

// CheckoutService atomically converts a non-empty cart into an immutable
// order. The stock for each line item was already taken from the ledger when
// the item entered the cart, so checkout consumes those holds: it re-validates
// the products still exist, snapshots the total, and performs no further
// decrement. Any failure rolls the whole transaction back, leaving cart,
// items, and inventory untouched.
type CheckoutService struct {
	db     *gorm.DB
	carts  *repositories.CartRepository
	orders *repositories.OrderRepository
}

func NewCheckoutService(db *gorm.DB, carts *repositories.CartRepository, orders *repositories.OrderRepository) *CheckoutService {
	return &CheckoutService{db: db, carts: carts, orders: orders}
}

// Checkout converts the user's cart into an order.
//
// Fails ErrNotFound when the user has no cart (or a product in it has been
// deleted), ErrEmptyCart when the cart holds no items.
func (s *CheckoutService) Checkout(userID uint) (models.Order, error) {
	var orderID uint

	err := s.db.Transaction(func(tx *gorm.DB) error {
		carts := s.carts.WithTx(tx)
		orders := s.orders.WithTx(tx)

		cart, err := carts.FindByUserID(userID)
		if err != nil {
			return err
		}
		if len(cart.CartItems) == 0 {
			return apperr.New(apperr.ErrEmptyCart, "Cart is empty")
		}

		total := decimal.Zero
		items := make([]models.OrderItem, 0, len(cart.CartItems))
		for _, item := range cart.CartItems {
			// The preloaded product is nil when the row was deleted after
			// the item was added; the hold it carried is gone with it.
			if item.Product == nil || item.Product.ID == 0 {
				return apperr.New(apperr.ErrNotFound, "Product not found")
			}

			line := item.Product.OriginalPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
			total = total.Add(line)
			items = append(items, models.OrderItem{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
			})
		}

		order := models.Order{
			UserID:     userID,
			TotalPrice: total.RoundBank(2),
			OrderItems: items,
		}
		if err := orders.Create(&order); err != nil {
			return err
		}
		orderID = order.ID

		if err := carts.DeleteItems(cart.ID); err != nil {
			return err
		}
		return carts.Delete(cart.ID)
	})
	if err != nil {
		if errors.Is(err, apperr.ErrEmptyCart) {
			metrics.RecordCheckout("empty_cart")
		} else {
			metrics.RecordCheckout("failed")
		}
		return models.Order{}, err
	}

	order, err := s.orders.FindByID(orderID)
	if err != nil {
		return models.Order{}, err
	}

	metrics.RecordCheckout("placed")
	logger.Info("checkout: order placed",
		"user_id", userID, "order_id", order.ID, "total", order.TotalPrice.StringFixed(2))

	// Fan-out is best-effort and never gates the committed transaction.
	event.FireAsync(OrderPlaced, order)

	return order, nil
}
