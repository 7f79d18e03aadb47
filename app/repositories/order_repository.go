package repositories

import (
	"errors"

	"gorm.io/gorm"

	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/app/models"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/apperr"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/database"
)

// OrderRepository handles database operations for Order and OrderItem.
// Orders are append-only; there is no update method on purpose.
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// WithTx returns a copy of the repository bound to tx.
func (r *OrderRepository) WithTx(tx *gorm.DB) *OrderRepository {
	return &OrderRepository{db: tx}
}

// Create persists an order together with its items.
func (r *OrderRepository) Create(order *models.Order) error {
	return r.db.Create(order).Error
}

// FindByID returns an order with items and their product snapshots preloaded.
func (r *OrderRepository) FindByID(id uint) (models.Order, error) {
	var order models.Order
	err := r.db.Preload("OrderItems.Product").First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return order, apperr.New(apperr.ErrNotFound, "Order not found")
	}
	return order, err
}

// ListByUserID returns a page of the user's orders, newest first.
func (r *OrderRepository) ListByUserID(userID uint, page, limit int) ([]models.Order, database.Pagination, error) {
	query := r.db.Model(&models.Order{}).
		Preload("OrderItems.Product").
		Where("user_id = ?", userID).
		Order("created_at desc")

	var orders []models.Order
	pagination, err := database.Paginate(query, page, limit, &orders)
	return orders, pagination, err
}
