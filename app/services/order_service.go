package services

import (
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/app/models"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/app/repositories"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/apperr"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/database"
)

// OrderService exposes read access to the append-only order history.
type OrderService struct {
	orders *repositories.OrderRepository
}

func NewOrderService(orders *repositories.OrderRepository) *OrderService {
	return &OrderService{orders: orders}
}

// List returns a page of the user's own orders, newest first.
func (s *OrderService) List(userID uint, page, limit int) ([]models.Order, database.Pagination, error) {
	return s.orders.ListByUserID(userID, page, limit)
}

// Get returns one order. Another user's order is Forbidden, not NotFound:
// the row exists, the caller just may not see it.
func (s *OrderService) Get(userID, orderID uint) (models.Order, error) {
	order, err := s.orders.FindByID(orderID)
	if err != nil {
		return models.Order{}, err
	}
	if order.UserID != userID {
		return models.Order{}, apperr.New(apperr.ErrForbidden, "Order does not belong to the current user")
	}
	return order, nil
}
