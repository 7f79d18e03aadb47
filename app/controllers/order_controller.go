package controllers

import (
	"net/http"

	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/app/resources"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/app/services"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/resource"
)

type OrderController struct {
	checkout *services.CheckoutService
	orders   *services.OrderService
}

func NewOrderController(checkout *services.CheckoutService, orders *services.OrderService) *OrderController {
	return &OrderController{checkout: checkout, orders: orders}
}

// Checkout handles POST /api/orders (customer only): converts the caller's
// cart into an order.
func (c *OrderController) Checkout(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	order, err := c.checkout.Checkout(id.UserID)
	if err != nil {
		respondError(w, err)
		return
	}
	resource.New(order, resources.Order).Respond(w, http.StatusCreated)
}

// List handles GET /api/orders (customer only).
func (c *OrderController) List(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	page, limit := pageParams(r)

	orders, pagination, err := c.orders.List(id.UserID, page, limit)
	if err != nil {
		respondError(w, err)
		return
	}
	resource.CollectionOf(orders, resources.Order).
		WithPagination(pagination).
		Respond(w)
}

// Get handles GET /api/orders/{id} (customer only, own orders).
func (c *OrderController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	orderID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	order, err := c.orders.Get(id.UserID, orderID)
	if err != nil {
		respondError(w, err)
		return
	}
	resource.New(order, resources.Order).Respond(w)
}
