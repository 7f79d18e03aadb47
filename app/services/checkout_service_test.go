package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/app/models"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/app/repositories"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/apperr"
)

func TestCheckoutPlacesOrder(t *testing.T) {
	db := openTestDB(t)
	customer := createCustomer(t, db)
	vendor := createVendor(t, db)
	category := createCategory(t, db, "Electronics")
	laptop := createProduct(t, db, vendor.ID, category.ID, "999.99", 5)
	mouse := createProduct(t, db, vendor.ID, category.ID, "19.50", 20)

	carts := newCartService(db)
	checkout := newCheckoutService(db)

	_, err := carts.AddItem(customer.ID, laptop.ID, 1)
	require.NoError(t, err)
	_, err = carts.AddItem(customer.ID, mouse.ID, 3)
	require.NoError(t, err)

	order, err := checkout.Checkout(customer.ID)
	require.NoError(t, err)

	// 999.99 + 3 * 19.50
	assert.Equal(t, "1058.49", order.TotalPrice.StringFixed(2))
	assert.Equal(t, customer.ID, order.UserID)
	require.Len(t, order.OrderItems, 2)

	quantities := map[uint]int{}
	for _, item := range order.OrderItems {
		quantities[item.ProductID] = item.Quantity
	}
	assert.Equal(t, 1, quantities[laptop.ID])
	assert.Equal(t, 3, quantities[mouse.ID])

	// The cart and its items are gone; no cart-less rows linger.
	var cartCount, itemCount int64
	require.NoError(t, db.Model(&models.Cart{}).Where("user_id = ?", customer.ID).Count(&cartCount).Error)
	require.NoError(t, db.Model(&models.CartItem{}).Count(&itemCount).Error)
	assert.Zero(t, cartCount)
	assert.Zero(t, itemCount)

	// Checkout consumes the holds: no second decrement.
	assert.Equal(t, 4, stockOf(t, db, laptop.ID))
	assert.Equal(t, 17, stockOf(t, db, mouse.ID))
}

func TestCheckoutEmptyCart(t *testing.T) {
	db := openTestDB(t)
	customer := createCustomer(t, db)

	carts := newCartService(db)
	checkout := newCheckoutService(db)

	// A cart exists but holds nothing.
	_, err := carts.GetOrCreate(customer.ID)
	require.NoError(t, err)

	_, err = checkout.Checkout(customer.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrEmptyCart))
}

func TestCheckoutWithoutCart(t *testing.T) {
	db := openTestDB(t)
	customer := createCustomer(t, db)

	checkout := newCheckoutService(db)

	_, err := checkout.Checkout(customer.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestCheckoutRollsBackWhenProductDeleted(t *testing.T) {
	db := openTestDB(t)
	customer := createCustomer(t, db)
	vendor := createVendor(t, db)
	category := createCategory(t, db, "Electronics")
	keeper := createProduct(t, db, vendor.ID, category.ID, "10.00", 5)
	doomed := createProduct(t, db, vendor.ID, category.ID, "20.00", 5)

	carts := newCartService(db)
	checkout := newCheckoutService(db)

	_, err := carts.AddItem(customer.ID, keeper.ID, 1)
	require.NoError(t, err)
	_, err = carts.AddItem(customer.ID, doomed.ID, 2)
	require.NoError(t, err)

	// The vendor pulls the product after it entered a cart.
	require.NoError(t, db.Delete(&models.Product{}, doomed.ID).Error)

	_, err = checkout.Checkout(customer.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	// Everything rolled back: the cart and both line items survive.
	cart, err := carts.GetOrCreate(customer.ID)
	require.NoError(t, err)
	assert.Len(t, cart.CartItems, 2)

	var orderCount int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orderCount).Error)
	assert.Zero(t, orderCount)
}

func TestCheckoutTotalRounding(t *testing.T) {
	db := openTestDB(t)
	customer := createCustomer(t, db)
	vendor := createVendor(t, db)
	category := createCategory(t, db, "Groceries")
	product := createProduct(t, db, vendor.ID, category.ID, "0.99", 100)

	carts := newCartService(db)
	checkout := newCheckoutService(db)

	_, err := carts.AddItem(customer.ID, product.ID, 7)
	require.NoError(t, err)

	order, err := checkout.Checkout(customer.ID)
	require.NoError(t, err)
	assert.Equal(t, "6.93", order.TotalPrice.StringFixed(2))
}

func TestOrderHistory(t *testing.T) {
	db := openTestDB(t)
	customer := createCustomer(t, db)
	other := createCustomer(t, db)
	vendor := createVendor(t, db)
	category := createCategory(t, db, "Electronics")
	product := createProduct(t, db, vendor.ID, category.ID, "15.00", 50)

	carts := newCartService(db)
	checkout := newCheckoutService(db)
	orders := NewOrderService(repositories.NewOrderRepository(db))

	_, err := carts.AddItem(customer.ID, product.ID, 2)
	require.NoError(t, err)
	placed, err := checkout.Checkout(customer.ID)
	require.NoError(t, err)

	list, pagination, err := orders.List(customer.ID, 1, 20)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, placed.ID, list[0].ID)
	assert.EqualValues(t, 1, pagination.Total)

	got, err := orders.Get(customer.ID, placed.ID)
	require.NoError(t, err)
	assert.Equal(t, "30.00", got.TotalPrice.StringFixed(2))

	// Another customer cannot read it.
	_, err = orders.Get(other.ID, placed.ID)
	assert.True(t, errors.Is(err, apperr.ErrForbidden))

	_, err = orders.Get(customer.ID, 9999)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}
