package services

import (
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/app/models"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/app/repositories"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/apperr"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/cache"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/crypt"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/database"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/logger"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/storage"
)

const productCacheTTL = 5 * time.Minute

// ProductInput carries the fields for creating a product. The price arrives
// as a string so the two-decimal constraint can be enforced before any float
// conversion happens.
type ProductInput struct {
	Name              string `json:"name"               validate:"required,min=2,max=120"`
	Description       string `json:"description"        validate:"required,max=2000"`
	OriginalPrice     string `json:"original_price"     validate:"required,price"`
	AvailableQuantity int    `json:"available_quantity" validate:"required,gte=1"`
	Category          string `json:"category"           validate:"required"`
}

// ProductPatch is a sparse update: nil fields stay untouched. Each field is
// merged explicitly, never via reflection.
type ProductPatch struct {
	Name              *string `json:"name"`
	Description       *string `json:"description"`
	OriginalPrice     *string `json:"original_price"`
	AvailableQuantity *int    `json:"available_quantity"`
	Category          *string `json:"category"`
}

// ProductService owns vendor product CRUD and the public catalog reads.
type ProductService struct {
	products *repositories.ProductRepository
}

func NewProductService(products *repositories.ProductRepository) *ProductService {
	return &ProductService{products: products}
}

// Create adds a product to the vendor's catalog. Product names are globally
// unique; a duplicate is ErrConflict.
func (s *ProductService) Create(vendorID uint, in ProductInput) (models.Product, error) {
	taken, err := s.products.NameTaken(in.Name)
	if err != nil {
		return models.Product{}, err
	}
	if taken {
		return models.Product{}, apperr.New(apperr.ErrConflict, "Product name is already taken")
	}

	price, err := parsePrice(in.OriginalPrice)
	if err != nil {
		return models.Product{}, err
	}

	category, err := s.products.CategoryByName(in.Category)
	if err != nil {
		return models.Product{}, err
	}

	product := models.Product{
		Name:              in.Name,
		Description:       in.Description,
		CategoryID:        category.ID,
		OriginalPrice:     price,
		AvailableQuantity: in.AvailableQuantity,
		VendorID:          vendorID,
	}
	if err := s.products.Create(&product); err != nil {
		return models.Product{}, err
	}

	s.invalidateListCache()
	logger.Info("product: created", "product_id", product.ID, "vendor_id", vendorID)
	return s.products.FindByID(product.ID)
}

// Update applies a sparse patch to the vendor's own product.
func (s *ProductService) Update(vendorID, productID uint, patch ProductPatch) (models.Product, error) {
	product, err := s.ownedBy(vendorID, productID)
	if err != nil {
		return models.Product{}, err
	}

	if patch.Name != nil && *patch.Name != product.Name {
		taken, err := s.products.NameTaken(*patch.Name)
		if err != nil {
			return models.Product{}, err
		}
		if taken {
			return models.Product{}, apperr.New(apperr.ErrConflict, "Product name is already taken")
		}
		product.Name = *patch.Name
	}
	if patch.Description != nil {
		product.Description = *patch.Description
	}
	if patch.OriginalPrice != nil {
		price, err := parsePrice(*patch.OriginalPrice)
		if err != nil {
			return models.Product{}, err
		}
		product.OriginalPrice = price
	}
	if patch.AvailableQuantity != nil {
		if *patch.AvailableQuantity < 0 {
			return models.Product{}, apperr.New(apperr.ErrValidation, "Available quantity must not be negative")
		}
		product.AvailableQuantity = *patch.AvailableQuantity
	}
	if patch.Category != nil {
		category, err := s.products.CategoryByName(*patch.Category)
		if err != nil {
			return models.Product{}, err
		}
		product.CategoryID = category.ID
	}

	if err := s.products.Update(&product); err != nil {
		return models.Product{}, err
	}

	s.invalidateListCache()
	return s.products.FindByID(product.ID)
}

// Delete removes the vendor's own product from the catalog.
func (s *ProductService) Delete(vendorID, productID uint) error {
	if _, err := s.ownedBy(vendorID, productID); err != nil {
		return err
	}
	if err := s.products.Delete(productID); err != nil {
		return err
	}
	s.invalidateListCache()
	logger.Info("product: deleted", "product_id", productID, "vendor_id", vendorID)
	return nil
}

// Get returns one product for the public catalog.
func (s *ProductService) Get(productID uint) (models.Product, error) {
	return s.products.FindByID(productID)
}

// List returns a catalog page, cached briefly since it is the hottest read.
func (s *ProductService) List(nameFilter string, categoryID uint, page, limit int) ([]models.Product, database.Pagination, error) {
	type cached struct {
		Products   []models.Product    `json:"products"`
		Pagination database.Pagination `json:"pagination"`
	}

	// The filter is user input; hash it so the key stays flat and bounded.
	key := fmt.Sprintf("products:list:%s:%d:%d:%d", crypt.Hash(nameFilter), categoryID, page, limit)
	var hit cached
	if cache.Get(key, &hit) {
		return hit.Products, hit.Pagination, nil
	}

	products, pagination, err := s.products.List(nameFilter, categoryID, page, limit)
	if err != nil {
		return nil, pagination, err
	}

	cache.Set(key, cached{Products: products, Pagination: pagination}, productCacheTTL) //nolint:errcheck
	return products, pagination, nil
}

// ListByVendor returns the vendor's own products.
func (s *ProductService) ListByVendor(vendorID uint, page, limit int) ([]models.Product, database.Pagination, error) {
	return s.products.ListByVendor(vendorID, page, limit)
}

// Categories returns the fixed category set.
func (s *ProductService) Categories() ([]models.Category, error) {
	return s.products.Categories()
}

// AttachImage stores the uploaded image on the configured disk and records
// its path on the product.
func (s *ProductService) AttachImage(vendorID, productID uint, filename string, data []byte) (models.Product, error) {
	product, err := s.ownedBy(vendorID, productID)
	if err != nil {
		return models.Product{}, err
	}

	ext := path.Ext(filename)
	objectPath := fmt.Sprintf("products/%d/%s%s", productID, uuid.NewString(), ext)
	if err := storage.Put(objectPath, data); err != nil {
		return models.Product{}, err
	}

	product.ImagePath = objectPath
	if err := s.products.Update(&product); err != nil {
		return models.Product{}, err
	}
	return s.products.FindByID(product.ID)
}

// ownedBy loads the product and checks vendor ownership, distinguishing
// "doesn't exist" (NotFound) from "not yours" (Forbidden).
func (s *ProductService) ownedBy(vendorID, productID uint) (models.Product, error) {
	product, err := s.products.FindByID(productID)
	if err != nil {
		return models.Product{}, err
	}
	if product.VendorID != vendorID {
		return models.Product{}, apperr.New(apperr.ErrForbidden, "Product does not belong to the current vendor")
	}
	return product, nil
}

func (s *ProductService) invalidateListCache() {
	// Coarse: drop the whole namespace rather than tracking keys.
	cache.ForgetPattern("products:list:*") //nolint:errcheck
}

func parsePrice(raw string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(raw)
	if err != nil || price.IsNegative() || price.Exponent() < -2 {
		return decimal.Zero, apperr.New(apperr.ErrValidation, "Price must be a non-negative amount with at most two decimal places")
	}
	return price.RoundBank(2), nil
}
