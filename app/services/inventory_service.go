// Package services holds the business rules. Services are constructed with
// their repositories injected and expose one method per operation; every
// business failure is an apperr kind so controllers can map it to a status.
package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/app/models"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/app/repositories"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/apperr"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/metrics"
)

// InventoryService is the stock ledger. available_quantity is the single
// source of truth; every mutation goes through Reserve/Release, never a
// direct read-modify-write.
type InventoryService struct {
	products *repositories.ProductRepository
}

func NewInventoryService(products *repositories.ProductRepository) *InventoryService {
	return &InventoryService{products: products}
}

// WithTx returns a copy of the service whose ledger operations run inside tx.
func (s *InventoryService) WithTx(tx *gorm.DB) *InventoryService {
	return &InventoryService{products: s.products.WithTx(tx)}
}

// Reserve takes qty units of stock for the product, failing with
// ErrOutOfStock when fewer than qty units remain and ErrNotFound when the
// product no longer exists. Returns the product snapshot after the decrement.
func (s *InventoryService) Reserve(productID uint, qty int) (models.Product, error) {
	if qty <= 0 {
		return models.Product{}, apperr.New(apperr.ErrValidation, "Quantity must be greater than zero")
	}

	if err := s.products.Reserve(productID, qty); err != nil {
		if errors.Is(err, apperr.ErrOutOfStock) {
			metrics.OutOfStockRejections.Inc()
		}
		return models.Product{}, err
	}

	metrics.RecordInventory("reserve")
	return s.products.FindByID(productID)
}

// Release returns qty units of stock to the product.
func (s *InventoryService) Release(productID uint, qty int) error {
	if qty <= 0 {
		return apperr.New(apperr.ErrValidation, "Quantity must be greater than zero")
	}

	if err := s.products.Release(productID, qty); err != nil {
		return err
	}

	metrics.RecordInventory("release")
	return nil
}
