package services

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/app/models"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/app/repositories"
)

// openTestDB returns an isolated in-memory SQLite database with the full
// schema migrated. MaxOpenConns(1) keeps every connection on the same
// in-memory instance.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.EmailVerification{},
		&models.Category{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	))

	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

var fixtureSeq int

// nextSeq keeps fixture names unique across a shared in-memory database.
func nextSeq() int {
	fixtureSeq++
	return fixtureSeq
}

func createCustomer(t *testing.T, db *gorm.DB) models.User {
	t.Helper()

	n := nextSeq()
	user := models.User{
		Username:     fmt.Sprintf("customer%d", n),
		Email:        fmt.Sprintf("customer%d@example.com", n),
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createVendor(t *testing.T, db *gorm.DB) models.User {
	t.Helper()

	n := nextSeq()
	user := models.User{
		Username:     fmt.Sprintf("vendor%d", n),
		Email:        fmt.Sprintf("vendor%d@example.com", n),
		PasswordHash: "x",
		IsVendor:     true,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createCategory(t *testing.T, db *gorm.DB, name string) models.Category {
	t.Helper()

	category := models.Category{Name: name}
	require.NoError(t, db.Create(&category).Error)
	return category
}

func createProduct(t *testing.T, db *gorm.DB, vendorID, categoryID uint, price string, qty int) models.Product {
	t.Helper()

	n := nextSeq()
	product := models.Product{
		Name:              fmt.Sprintf("Product %d", n),
		Description:       "test product",
		CategoryID:        categoryID,
		OriginalPrice:     decimal.RequireFromString(price),
		AvailableQuantity: qty,
		VendorID:          vendorID,
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

// stockOf reads the current ledger value straight from the table.
func stockOf(t *testing.T, db *gorm.DB, productID uint) int {
	t.Helper()

	var product models.Product
	require.NoError(t, db.First(&product, productID).Error)
	return product.AvailableQuantity
}

func newCartService(db *gorm.DB) *CartService {
	products := repositories.NewProductRepository(db)
	return NewCartService(db, repositories.NewCartRepository(db), NewInventoryService(products))
}

func newCheckoutService(db *gorm.DB) *CheckoutService {
	return NewCheckoutService(db, repositories.NewCartRepository(db), repositories.NewOrderRepository(db))
}
