package repositories

import (
	"errors"

	"gorm.io/gorm"

	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/app/models"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/apperr"
)

// CartRepository handles database operations for Cart and CartItem.
type CartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{db: db}
}

// WithTx returns a copy of the repository bound to tx.
func (r *CartRepository) WithTx(tx *gorm.DB) *CartRepository {
	return &CartRepository{db: tx}
}

// FindByUserID returns the user's cart with items and products preloaded.
func (r *CartRepository) FindByUserID(userID uint) (models.Cart, error) {
	var cart models.Cart
	err := r.db.Preload("CartItems.Product").
		Where("user_id = ?", userID).
		First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return cart, apperr.New(apperr.ErrNotFound, "Cart not found")
	}
	return cart, err
}

// FindOrCreateByUserID returns the user's cart, creating an empty one if
// none exists. The unique index on user_id keeps this one-per-user even if
// two requests race.
func (r *CartRepository) FindOrCreateByUserID(userID uint) (models.Cart, error) {
	cart, err := r.FindByUserID(userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return cart, err
	}

	cart = models.Cart{UserID: userID}
	if createErr := r.db.Create(&cart).Error; createErr != nil {
		// Lost the race: another request created it first.
		return r.FindByUserID(userID)
	}
	return cart, nil
}

// FindItem returns a cart item by primary key with its product preloaded.
func (r *CartRepository) FindItem(itemID uint) (models.CartItem, error) {
	var item models.CartItem
	err := r.db.Preload("Product").First(&item, itemID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return item, apperr.New(apperr.ErrNotFound, "Cart item not found")
	}
	return item, err
}

// ItemForProduct returns the cart's line item for a product, if present.
func (r *CartRepository) ItemForProduct(cartID, productID uint) (models.CartItem, bool, error) {
	var item models.CartItem
	err := r.db.Where("cart_id = ? AND product_id = ?", cartID, productID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return item, false, nil
	}
	return item, err == nil, err
}

// CreateItem persists a new cart line item.
func (r *CartRepository) CreateItem(item *models.CartItem) error {
	return r.db.Create(item).Error
}

// UpdateItemQuantity sets the stored quantity and touches updated_at on both
// the item and its cart.
func (r *CartRepository) UpdateItemQuantity(item *models.CartItem, quantity int) error {
	if err := r.db.Model(item).Update("quantity", quantity).Error; err != nil {
		return err
	}
	return r.Touch(item.CartID)
}

// DeleteItem removes a single cart line item.
func (r *CartRepository) DeleteItem(itemID uint) error {
	return r.db.Delete(&models.CartItem{}, itemID).Error
}

// DeleteItems removes every line item belonging to the cart.
func (r *CartRepository) DeleteItems(cartID uint) error {
	return r.db.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error
}

// Delete removes the cart row itself.
func (r *CartRepository) Delete(cartID uint) error {
	return r.db.Delete(&models.Cart{}, cartID).Error
}

// Touch bumps the cart's updated_at.
func (r *CartRepository) Touch(cartID uint) error {
	return r.db.Model(&models.Cart{}).
		Where("id = ?", cartID).
		Update("updated_at", gorm.Expr("CURRENT_TIMESTAMP")).Error
}
