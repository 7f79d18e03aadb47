package controllers

import (
	"net/http"

	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/app/resources"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/app/services"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/bind"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/resource"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/response"
)

type CartController struct {
	carts *services.CartService
}

func NewCartController(carts *services.CartService) *CartController {
	return &CartController{carts: carts}
}

// Show handles GET /api/carts (customer only). Creates the cart lazily so the
// first read already returns a usable empty cart.
func (c *CartController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	cart, err := c.carts.GetOrCreate(id.UserID)
	if err != nil {
		respondError(w, err)
		return
	}
	resource.New(cart, resources.Cart).Respond(w)
}

type addItemInput struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  int  `json:"quantity"   validate:"required,gte=1"`
}

// AddItem handles POST /api/carts/items (customer only).
func (c *CartController) AddItem(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	var in addItemInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	item, err := c.carts.AddItem(id.UserID, in.ProductID, in.Quantity)
	if err != nil {
		respondError(w, err)
		return
	}
	resource.New(item, resources.CartItem).Respond(w, http.StatusCreated)
}

type updateItemInput struct {
	Quantity int `json:"quantity" validate:"required,gte=1"`
}

// UpdateItem handles PATCH /api/carts/items/{id} (customer only).
func (c *CartController) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	itemID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var in updateItemInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	item, err := c.carts.UpdateItem(id.UserID, itemID, in.Quantity)
	if err != nil {
		respondError(w, err)
		return
	}
	resource.New(item, resources.CartItem).Respond(w)
}

// RemoveItem handles DELETE /api/carts/items/{id} (customer only).
func (c *CartController) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	itemID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := c.carts.RemoveItem(id.UserID, itemID); err != nil {
		respondError(w, err)
		return
	}
	response.NoContent(w)
}
