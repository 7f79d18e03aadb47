package services

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/app/repositories"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/apperr"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/storage"
)

func newProductService(db *gorm.DB) *ProductService {
	return NewProductService(repositories.NewProductRepository(db))
}

func TestProductCreate(t *testing.T) {
	db := openTestDB(t)
	vendor := createVendor(t, db)
	createCategory(t, db, "Electronics")

	svc := newProductService(db)

	product, err := svc.Create(vendor.ID, ProductInput{
		Name:              "Mechanical Keyboard",
		Description:       "Tactile switches",
		OriginalPrice:     "89.90",
		AvailableQuantity: 25,
		Category:          "Electronics",
	})
	require.NoError(t, err)
	assert.NotZero(t, product.ID)
	assert.Equal(t, "89.90", product.OriginalPrice.StringFixed(2))
	assert.Equal(t, 25, product.AvailableQuantity)
	assert.Equal(t, vendor.ID, product.VendorID)
	assert.Equal(t, "Electronics", product.Category.Name)
}

func TestProductCreateDuplicateName(t *testing.T) {
	db := openTestDB(t)
	vendor := createVendor(t, db)
	createCategory(t, db, "Electronics")

	svc := newProductService(db)

	in := ProductInput{
		Name:              "Mechanical Keyboard",
		Description:       "Tactile switches",
		OriginalPrice:     "89.90",
		AvailableQuantity: 25,
		Category:          "Electronics",
	}
	_, err := svc.Create(vendor.ID, in)
	require.NoError(t, err)

	// Names are globally unique, even across vendors.
	other := createVendor(t, db)
	_, err = svc.Create(other.ID, in)
	assert.True(t, errors.Is(err, apperr.ErrConflict))
}

func TestProductCreateUnknownCategory(t *testing.T) {
	db := openTestDB(t)
	vendor := createVendor(t, db)

	svc := newProductService(db)

	_, err := svc.Create(vendor.ID, ProductInput{
		Name:              "Mystery Box",
		Description:       "???",
		OriginalPrice:     "5.00",
		AvailableQuantity: 1,
		Category:          "No Such Category",
	})
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestProductPriceParsing(t *testing.T) {
	db := openTestDB(t)
	vendor := createVendor(t, db)
	createCategory(t, db, "Electronics")

	svc := newProductService(db)

	for _, bad := range []string{"-5.00", "12.345", "abc"} {
		_, err := svc.Create(vendor.ID, ProductInput{
			Name:              "Priced " + bad,
			Description:       "x",
			OriginalPrice:     bad,
			AvailableQuantity: 1,
			Category:          "Electronics",
		})
		assert.Truef(t, errors.Is(err, apperr.ErrValidation), "price %q should be rejected", bad)
	}
}

func TestProductUpdatePatch(t *testing.T) {
	db := openTestDB(t)
	vendor := createVendor(t, db)
	category := createCategory(t, db, "Electronics")
	createCategory(t, db, "Others")
	product := createProduct(t, db, vendor.ID, category.ID, "50.00", 10)

	svc := newProductService(db)

	newPrice := "44.95"
	newCategory := "Others"
	updated, err := svc.Update(vendor.ID, product.ID, ProductPatch{
		OriginalPrice: &newPrice,
		Category:      &newCategory,
	})
	require.NoError(t, err)
	assert.Equal(t, "44.95", updated.OriginalPrice.StringFixed(2))
	assert.Equal(t, "Others", updated.Category.Name)

	// Untouched fields survive the patch.
	assert.Equal(t, product.Name, updated.Name)
	assert.Equal(t, 10, updated.AvailableQuantity)
}

func TestProductUpdateNameConflict(t *testing.T) {
	db := openTestDB(t)
	vendor := createVendor(t, db)
	category := createCategory(t, db, "Electronics")
	first := createProduct(t, db, vendor.ID, category.ID, "10.00", 1)
	second := createProduct(t, db, vendor.ID, category.ID, "10.00", 1)

	svc := newProductService(db)

	_, err := svc.Update(vendor.ID, second.ID, ProductPatch{Name: &first.Name})
	assert.True(t, errors.Is(err, apperr.ErrConflict))

	// Renaming to its own current name is a no-op, not a conflict.
	_, err = svc.Update(vendor.ID, second.ID, ProductPatch{Name: &second.Name})
	require.NoError(t, err)
}

func TestProductOwnership(t *testing.T) {
	db := openTestDB(t)
	owner := createVendor(t, db)
	rival := createVendor(t, db)
	category := createCategory(t, db, "Electronics")
	product := createProduct(t, db, owner.ID, category.ID, "10.00", 1)

	svc := newProductService(db)

	name := "Hijacked"
	_, err := svc.Update(rival.ID, product.ID, ProductPatch{Name: &name})
	assert.True(t, errors.Is(err, apperr.ErrForbidden))

	err = svc.Delete(rival.ID, product.ID)
	assert.True(t, errors.Is(err, apperr.ErrForbidden))

	_, err = svc.Update(owner.ID, 9999, ProductPatch{Name: &name})
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestProductDelete(t *testing.T) {
	db := openTestDB(t)
	vendor := createVendor(t, db)
	category := createCategory(t, db, "Electronics")
	product := createProduct(t, db, vendor.ID, category.ID, "10.00", 1)

	svc := newProductService(db)

	require.NoError(t, svc.Delete(vendor.ID, product.ID))

	_, err := svc.Get(product.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestProductListFilters(t *testing.T) {
	db := openTestDB(t)
	vendor := createVendor(t, db)
	electronics := createCategory(t, db, "Electronics")
	books := createCategory(t, db, "Books and Literature")

	svc := newProductService(db)

	mustCreate := func(name string, categoryID uint) {
		t.Helper()
		category := "Electronics"
		if categoryID == books.ID {
			category = "Books and Literature"
		}
		_, err := svc.Create(vendor.ID, ProductInput{
			Name:              name,
			Description:       "x",
			OriginalPrice:     "9.99",
			AvailableQuantity: 3,
			Category:          category,
		})
		require.NoError(t, err)
	}

	mustCreate("USB Charger", electronics.ID)
	mustCreate("USB Microscope", electronics.ID)
	mustCreate("Cookbook", books.ID)

	all, pagination, err := svc.List("", 0, 1, 20)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.EqualValues(t, 3, pagination.Total)

	byName, _, err := svc.List("USB", 0, 1, 20)
	require.NoError(t, err)
	assert.Len(t, byName, 2)

	byCategory, _, err := svc.List("", books.ID, 1, 20)
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, "Cookbook", byCategory[0].Name)

	mine, _, err := svc.ListByVendor(vendor.ID, 1, 20)
	require.NoError(t, err)
	assert.Len(t, mine, 3)
}

func TestProductCategories(t *testing.T) {
	db := openTestDB(t)
	createCategory(t, db, "Electronics")
	createCategory(t, db, "Books and Literature")

	svc := newProductService(db)

	categories, err := svc.Categories()
	require.NoError(t, err)
	require.Len(t, categories, 2)
	// Alphabetical order.
	assert.Equal(t, "Books and Literature", categories[0].Name)
	assert.Equal(t, "Electronics", categories[1].Name)
}

func TestProductAttachImage(t *testing.T) {
	// t.Chdir equivalent for Go toolchains before 1.24.
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	storage.Connect()

	db := openTestDB(t)
	vendor := createVendor(t, db)
	category := createCategory(t, db, "Electronics")
	product := createProduct(t, db, vendor.ID, category.ID, "10.00", 1)

	svc := newProductService(db)

	updated, err := svc.AttachImage(vendor.ID, product.ID, "photo.png", []byte{0x89, 'P', 'N', 'G'})
	require.NoError(t, err)
	require.NotEmpty(t, updated.ImagePath)
	assert.Contains(t, updated.ImagePath, ".png")
	assert.True(t, storage.Exists(updated.ImagePath))
}
