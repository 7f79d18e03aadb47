package services

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/app/repositories"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/apperr"
)

func TestInventoryReserve(t *testing.T) {
	db := openTestDB(t)
	vendor := createVendor(t, db)
	category := createCategory(t, db, "Electronics")
	product := createProduct(t, db, vendor.ID, category.ID, "19.99", 10)

	svc := NewInventoryService(repositories.NewProductRepository(db))

	snapshot, err := svc.Reserve(product.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 7, snapshot.AvailableQuantity)
	assert.Equal(t, 7, stockOf(t, db, product.ID))
}

func TestInventoryReserveInsufficientStock(t *testing.T) {
	db := openTestDB(t)
	vendor := createVendor(t, db)
	category := createCategory(t, db, "Electronics")
	product := createProduct(t, db, vendor.ID, category.ID, "19.99", 2)

	svc := NewInventoryService(repositories.NewProductRepository(db))

	_, err := svc.Reserve(product.ID, 3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrOutOfStock))

	// The failed attempt must not touch the ledger.
	assert.Equal(t, 2, stockOf(t, db, product.ID))
}

func TestInventoryReserveExactRemainder(t *testing.T) {
	db := openTestDB(t)
	vendor := createVendor(t, db)
	category := createCategory(t, db, "Electronics")
	product := createProduct(t, db, vendor.ID, category.ID, "5.00", 4)

	svc := NewInventoryService(repositories.NewProductRepository(db))

	// Taking the last units is allowed; the ledger lands on exactly zero.
	snapshot, err := svc.Reserve(product.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 0, snapshot.AvailableQuantity)

	_, err = svc.Reserve(product.ID, 1)
	assert.True(t, errors.Is(err, apperr.ErrOutOfStock))
}

func TestInventoryReserveUnknownProduct(t *testing.T) {
	db := openTestDB(t)
	svc := NewInventoryService(repositories.NewProductRepository(db))

	_, err := svc.Reserve(999, 1)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestInventoryReserveRejectsNonPositiveQuantity(t *testing.T) {
	db := openTestDB(t)
	svc := NewInventoryService(repositories.NewProductRepository(db))

	for _, qty := range []int{0, -1} {
		_, err := svc.Reserve(1, qty)
		assert.True(t, errors.Is(err, apperr.ErrValidation))
	}
}

func TestInventoryRelease(t *testing.T) {
	db := openTestDB(t)
	vendor := createVendor(t, db)
	category := createCategory(t, db, "Electronics")
	product := createProduct(t, db, vendor.ID, category.ID, "19.99", 5)

	svc := NewInventoryService(repositories.NewProductRepository(db))

	require.NoError(t, svc.Release(product.ID, 3))
	assert.Equal(t, 8, stockOf(t, db, product.ID))
}

func TestInventoryConcurrentReservesNeverOversell(t *testing.T) {
	db := openTestDB(t)
	vendor := createVendor(t, db)
	category := createCategory(t, db, "Electronics")
	product := createProduct(t, db, vendor.ID, category.ID, "9.99", 10)

	svc := NewInventoryService(repositories.NewProductRepository(db))

	const attempts = 20
	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Reserve(product.ID, 1)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		} else {
			assert.True(t, errors.Is(err, apperr.ErrOutOfStock))
		}
	}

	assert.Equal(t, 10, succeeded)
	assert.Equal(t, 0, stockOf(t, db, product.ID))
}
