package repositories

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/app/models"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/apperr"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/database"
)

// ProductRepository handles database operations for Product and Category.
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// WithTx returns a copy of the repository bound to tx.
func (r *ProductRepository) WithTx(tx *gorm.DB) *ProductRepository {
	return &ProductRepository{db: tx}
}

// FindByID returns a product with its category and vendor preloaded.
func (r *ProductRepository) FindByID(id uint) (models.Product, error) {
	var p models.Product
	err := r.db.Preload("Category").Preload("Vendor").First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return p, apperr.New(apperr.ErrNotFound, "Product not found")
	}
	return p, err
}

// NameTaken reports whether a product with the given name already exists.
func (r *ProductRepository) NameTaken(name string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Product{}).Where("name = ?", name).Count(&count).Error
	return count > 0, err
}

// Create persists a new product.
func (r *ProductRepository) Create(p *models.Product) error {
	return r.db.Create(p).Error
}

// Update persists changes to an existing product.
func (r *ProductRepository) Update(p *models.Product) error {
	return r.db.Save(p).Error
}

// Delete removes a product permanently.
func (r *ProductRepository) Delete(id uint) error {
	return r.db.Delete(&models.Product{}, id).Error
}

// List returns a page of products, optionally filtered by a name substring
// and/or category id.
func (r *ProductRepository) List(nameFilter string, categoryID uint, page, limit int) ([]models.Product, database.Pagination, error) {
	query := r.db.Model(&models.Product{}).Preload("Category")
	if s := strings.TrimSpace(nameFilter); s != "" {
		query = query.Where("name LIKE ?", "%"+s+"%")
	}
	if categoryID != 0 {
		query = query.Where("category_id = ?", categoryID)
	}

	var products []models.Product
	pagination, err := database.Paginate(query, page, limit, &products)
	return products, pagination, err
}

// ListByVendor returns a page of the vendor's own products.
func (r *ProductRepository) ListByVendor(vendorID uint, page, limit int) ([]models.Product, database.Pagination, error) {
	query := r.db.Model(&models.Product{}).
		Preload("Category").
		Where("vendor_id = ?", vendorID)

	var products []models.Product
	pagination, err := database.Paginate(query, page, limit, &products)
	return products, pagination, err
}

// ------------------- Inventory ledger primitives -------------------

// Reserve atomically decrements available_quantity by qty, refusing to go
// negative. The guard lives in the UPDATE itself so concurrent reservations
// against the same product serialize at the row.
func (r *ProductRepository) Reserve(productID uint, qty int) error {
	res := r.db.Model(&models.Product{}).
		Where("id = ? AND available_quantity >= ?", productID, qty).
		UpdateColumn("available_quantity", gorm.Expr("available_quantity - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Either the product is gone or the stock is short.
		var count int64
		if err := r.db.Model(&models.Product{}).
			Where("id = ?", productID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return apperr.New(apperr.ErrNotFound, "Product not found")
		}
		return apperr.New(apperr.ErrOutOfStock, "Not enough stock available")
	}
	return nil
}

// Release atomically returns qty units to available_quantity. The caller's
// bookkeeping of deltas is trusted; no upper bound is enforced.
func (r *ProductRepository) Release(productID uint, qty int) error {
	res := r.db.Model(&models.Product{}).
		Where("id = ?", productID).
		UpdateColumn("available_quantity", gorm.Expr("available_quantity + ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.ErrNotFound, "Product not found")
	}
	return nil
}

// ------------------- Categories -------------------

// Categories returns all categories ordered by name.
func (r *ProductRepository) Categories() ([]models.Category, error) {
	var categories []models.Category
	err := r.db.Order("name asc").Find(&categories).Error
	return categories, err
}

// CategoryByName resolves a category by its exact name.
func (r *ProductRepository) CategoryByName(name string) (models.Category, error) {
	var c models.Category
	err := r.db.Where("name = ?", name).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c, apperr.New(apperr.ErrNotFound, "Category not found")
	}
	return c, err
}
