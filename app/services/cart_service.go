package services

import (
	"gorm.io/gorm"

	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/app/models"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/app/repositories"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/apperr"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/logger"
)

// CartService maintains the invariants "one cart per user" and "one line
// item per product per cart", and keeps the inventory ledger consistent with
// cart contents. Adding to the cart IS the ledger decrement: the quantity on
// a line item is a hold against stock until checkout consumes it or the item
// is removed.
type CartService struct {
	db        *gorm.DB
	carts     *repositories.CartRepository
	inventory *InventoryService
}

func NewCartService(db *gorm.DB, carts *repositories.CartRepository, inventory *InventoryService) *CartService {
	return &CartService{db: db, carts: carts, inventory: inventory}
}

// GetOrCreate returns the user's cart, creating an empty one if none exists.
// Idempotent; reserves no stock.
func (s *CartService) GetOrCreate(userID uint) (models.Cart, error) {
	cart, err := s.carts.FindOrCreateByUserID(userID)
	if err != nil {
		return cart, err
	}
	// Reload with items so callers always get a consistent shape.
	return s.carts.FindByUserID(userID)
}

// AddItem reserves quantity units of the product and creates a line item in
// the user's cart. A second add for the same product is ErrConflict, checked
// before the reservation so no hold needs rolling back.
func (s *CartService) AddItem(userID, productID uint, quantity int) (models.CartItem, error) {
	if quantity <= 0 {
		return models.CartItem{}, apperr.New(apperr.ErrValidation, "Quantity must be greater than zero")
	}

	var item models.CartItem
	err := s.db.Transaction(func(tx *gorm.DB) error {
		carts := s.carts.WithTx(tx)
		inventory := s.inventory.WithTx(tx)

		cart, err := carts.FindOrCreateByUserID(userID)
		if err != nil {
			return err
		}

		if _, exists, err := carts.ItemForProduct(cart.ID, productID); err != nil {
			return err
		} else if exists {
			return apperr.New(apperr.ErrConflict, "Product is already in the cart")
		}

		if _, err := inventory.Reserve(productID, quantity); err != nil {
			return err
		}

		item = models.CartItem{CartID: cart.ID, ProductID: productID, Quantity: quantity}
		if err := carts.CreateItem(&item); err != nil {
			return err
		}
		return carts.Touch(cart.ID)
	})
	if err != nil {
		return models.CartItem{}, err
	}

	logger.Info("cart: item added", "user_id", userID, "product_id", productID, "quantity", quantity)
	return s.carts.FindItem(item.ID)
}

// UpdateItem changes a line item's quantity, reserving the positive delta or
// releasing the negative one. The item must belong to the caller's cart:
// someone else's item is ErrForbidden, a missing item is ErrNotFound.
func (s *CartService) UpdateItem(userID, itemID uint, newQuantity int) (models.CartItem, error) {
	if newQuantity <= 0 {
		return models.CartItem{}, apperr.New(apperr.ErrValidation, "Quantity must be greater than zero")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		carts := s.carts.WithTx(tx)
		inventory := s.inventory.WithTx(tx)

		item, err := carts.FindItem(itemID)
		if err != nil {
			return err
		}
		if err := s.assertOwner(carts, item.CartID, userID); err != nil {
			return err
		}

		delta := newQuantity - item.Quantity
		switch {
		case delta > 0:
			if _, err := inventory.Reserve(item.ProductID, delta); err != nil {
				return err
			}
		case delta < 0:
			if err := inventory.Release(item.ProductID, -delta); err != nil {
				return err
			}
		}

		return carts.UpdateItemQuantity(&item, newQuantity)
	})
	if err != nil {
		return models.CartItem{}, err
	}

	return s.carts.FindItem(itemID)
}

// RemoveItem releases the item's full quantity back to inventory and deletes
// the line item. Ownership rules match UpdateItem.
func (s *CartService) RemoveItem(userID, itemID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		carts := s.carts.WithTx(tx)
		inventory := s.inventory.WithTx(tx)

		item, err := carts.FindItem(itemID)
		if err != nil {
			return err
		}
		if err := s.assertOwner(carts, item.CartID, userID); err != nil {
			return err
		}

		if err := inventory.Release(item.ProductID, item.Quantity); err != nil {
			return err
		}
		if err := carts.DeleteItem(item.ID); err != nil {
			return err
		}
		return carts.Touch(item.CartID)
	})
}

// assertOwner distinguishes "not yours" from "doesn't exist": the cart row is
// known to exist here, so a user mismatch is always Forbidden.
func (s *CartService) assertOwner(carts *repositories.CartRepository, cartID, userID uint) error {
	cart, err := carts.FindByUserID(userID)
	if err != nil {
		return apperr.New(apperr.ErrForbidden, "Cart item does not belong to the current user")
	}
	if cart.ID != cartID {
		return apperr.New(apperr.ErrForbidden, "Cart item does not belong to the current user")
	}
	return nil
}
