package migrations

import (
	"gorm.io/gorm"

	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/app/models"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/migration"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/queue"
)

func init() {
	migration.Register("20260101000000_create_users_table", &CreateUsersTable{})
	migration.Register("20260101000001_create_email_verifications_table", &CreateEmailVerificationsTable{})
	migration.Register("20260101000002_create_categories_table", &CreateCategoriesTable{})
	migration.Register("20260101000003_create_products_table", &CreateProductsTable{})
	migration.Register("20260101000004_create_carts_table", &CreateCartsTable{})
	migration.Register("20260101000005_create_orders_table", &CreateOrdersTable{})
	migration.Register("20260101000006_create_failed_jobs_table", &CreateFailedJobsTable{})
}

// -------- 0000: users --------

type CreateUsersTable struct{}

func (m *CreateUsersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{})
}

func (m *CreateUsersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("users")
}

// -------- 0001: email verifications --------

type CreateEmailVerificationsTable struct{}

func (m *CreateEmailVerificationsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.EmailVerification{})
}

func (m *CreateEmailVerificationsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("email_verifications")
}

// -------- 0002: categories --------

type CreateCategoriesTable struct{}

func (m *CreateCategoriesTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Category{})
}

func (m *CreateCategoriesTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("categories")
}

// -------- 0003: products --------

type CreateProductsTable struct{}

func (m *CreateProductsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Product{})
}

func (m *CreateProductsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("products")
}

// -------- 0004: carts and cart items --------

type CreateCartsTable struct{}

func (m *CreateCartsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Cart{}, &models.CartItem{})
}

func (m *CreateCartsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("cart_items", "carts")
}

// -------- 0005: orders and order items --------

type CreateOrdersTable struct{}

func (m *CreateOrdersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Order{}, &models.OrderItem{})
}

func (m *CreateOrdersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("order_items", "orders")
}

// -------- 0006: failed queue jobs --------

type CreateFailedJobsTable struct{}

func (m *CreateFailedJobsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&queue.FailedJobRecord{})
}

func (m *CreateFailedJobsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("failed_jobs")
}
