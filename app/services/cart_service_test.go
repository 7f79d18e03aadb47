package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/app/models"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/apperr"
)

func TestCartGetOrCreateIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	customer := createCustomer(t, db)
	svc := newCartService(db)

	first, err := svc.GetOrCreate(customer.ID)
	require.NoError(t, err)
	require.NotZero(t, first.ID)
	assert.Empty(t, first.CartItems)

	second, err := svc.GetOrCreate(customer.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&models.Cart{}).Where("user_id = ?", customer.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCartAddItemReservesStock(t *testing.T) {
	db := openTestDB(t)
	customer := createCustomer(t, db)
	vendor := createVendor(t, db)
	category := createCategory(t, db, "Electronics")
	product := createProduct(t, db, vendor.ID, category.ID, "25.00", 10)

	svc := newCartService(db)

	item, err := svc.AddItem(customer.ID, product.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, product.ID, item.ProductID)
	assert.Equal(t, 4, item.Quantity)
	assert.Equal(t, 6, stockOf(t, db, product.ID))
}

func TestCartAddItemDuplicateProductConflicts(t *testing.T) {
	db := openTestDB(t)
	customer := createCustomer(t, db)
	vendor := createVendor(t, db)
	category := createCategory(t, db, "Electronics")
	product := createProduct(t, db, vendor.ID, category.ID, "25.00", 10)

	svc := newCartService(db)

	_, err := svc.AddItem(customer.ID, product.ID, 2)
	require.NoError(t, err)

	// The same product a second time conflicts instead of merging, and the
	// rejected quantity must not be held.
	_, err = svc.AddItem(customer.ID, product.ID, 3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrConflict))
	assert.Equal(t, 8, stockOf(t, db, product.ID))
}

func TestCartAddItemInsufficientStockRollsBack(t *testing.T) {
	db := openTestDB(t)
	customer := createCustomer(t, db)
	vendor := createVendor(t, db)
	category := createCategory(t, db, "Electronics")
	product := createProduct(t, db, vendor.ID, category.ID, "25.00", 2)

	svc := newCartService(db)

	_, err := svc.AddItem(customer.ID, product.ID, 5)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrOutOfStock))

	cart, err := svc.GetOrCreate(customer.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.CartItems)
	assert.Equal(t, 2, stockOf(t, db, product.ID))
}

func TestCartAddItemUnknownProduct(t *testing.T) {
	db := openTestDB(t)
	customer := createCustomer(t, db)
	svc := newCartService(db)

	_, err := svc.AddItem(customer.ID, 12345, 1)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestCartUpdateItemAppliesDelta(t *testing.T) {
	db := openTestDB(t)
	customer := createCustomer(t, db)
	vendor := createVendor(t, db)
	category := createCategory(t, db, "Electronics")
	product := createProduct(t, db, vendor.ID, category.ID, "10.00", 10)

	svc := newCartService(db)

	item, err := svc.AddItem(customer.ID, product.ID, 3)
	require.NoError(t, err)
	require.Equal(t, 7, stockOf(t, db, product.ID))

	// Increase reserves only the difference.
	updated, err := svc.UpdateItem(customer.ID, item.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Quantity)
	assert.Equal(t, 5, stockOf(t, db, product.ID))

	// Decrease releases only the difference.
	updated, err = svc.UpdateItem(customer.ID, item.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Quantity)
	assert.Equal(t, 9, stockOf(t, db, product.ID))
}

func TestCartUpdateItemBeyondStock(t *testing.T) {
	db := openTestDB(t)
	customer := createCustomer(t, db)
	vendor := createVendor(t, db)
	category := createCategory(t, db, "Electronics")
	product := createProduct(t, db, vendor.ID, category.ID, "10.00", 5)

	svc := newCartService(db)

	item, err := svc.AddItem(customer.ID, product.ID, 3)
	require.NoError(t, err)

	// 3 held, 2 remaining: asking for 6 needs a delta of 3.
	_, err = svc.UpdateItem(customer.ID, item.ID, 6)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrOutOfStock))

	unchanged, err := svc.UpdateItem(customer.ID, item.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, unchanged.Quantity)
	assert.Equal(t, 2, stockOf(t, db, product.ID))
}

func TestCartUpdateItemOwnership(t *testing.T) {
	db := openTestDB(t)
	owner := createCustomer(t, db)
	intruder := createCustomer(t, db)
	vendor := createVendor(t, db)
	category := createCategory(t, db, "Electronics")
	product := createProduct(t, db, vendor.ID, category.ID, "10.00", 10)

	svc := newCartService(db)

	item, err := svc.AddItem(owner.ID, product.ID, 2)
	require.NoError(t, err)

	// Someone else's item is Forbidden, a missing item is NotFound.
	_, err = svc.UpdateItem(intruder.ID, item.ID, 4)
	assert.True(t, errors.Is(err, apperr.ErrForbidden))

	_, err = svc.UpdateItem(owner.ID, 9999, 4)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestCartRemoveItemReleasesFullHold(t *testing.T) {
	db := openTestDB(t)
	customer := createCustomer(t, db)
	vendor := createVendor(t, db)
	category := createCategory(t, db, "Electronics")
	product := createProduct(t, db, vendor.ID, category.ID, "10.00", 10)

	svc := newCartService(db)

	item, err := svc.AddItem(customer.ID, product.ID, 4)
	require.NoError(t, err)
	require.Equal(t, 6, stockOf(t, db, product.ID))

	require.NoError(t, svc.RemoveItem(customer.ID, item.ID))
	assert.Equal(t, 10, stockOf(t, db, product.ID))

	cart, err := svc.GetOrCreate(customer.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.CartItems)
}

func TestCartRemoveItemOwnership(t *testing.T) {
	db := openTestDB(t)
	owner := createCustomer(t, db)
	intruder := createCustomer(t, db)
	vendor := createVendor(t, db)
	category := createCategory(t, db, "Electronics")
	product := createProduct(t, db, vendor.ID, category.ID, "10.00", 10)

	svc := newCartService(db)

	item, err := svc.AddItem(owner.ID, product.ID, 2)
	require.NoError(t, err)

	err = svc.RemoveItem(intruder.ID, item.ID)
	assert.True(t, errors.Is(err, apperr.ErrForbidden))

	// The hold stays with the owner.
	assert.Equal(t, 8, stockOf(t, db, product.ID))
}

func TestCartRejectsNonPositiveQuantities(t *testing.T) {
	db := openTestDB(t)
	customer := createCustomer(t, db)
	svc := newCartService(db)

	_, err := svc.AddItem(customer.ID, 1, 0)
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	_, err = svc.UpdateItem(customer.ID, 1, -2)
	assert.True(t, errors.Is(err, apperr.ErrValidation))
}
