package controllers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/app/resources"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/app/services"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/apperr"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/bind"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/resource"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/response"
)

// maxImageBytes caps product image uploads at 8 MB.
const maxImageBytes = 8 << 20

type ProductController struct {
	products *services.ProductService
}

func NewProductController(products *services.ProductService) *ProductController {
	return &ProductController{products: products}
}

// List handles GET /api/products?name=&category_id=&page=&limit=.
func (c *ProductController) List(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	name := r.URL.Query().Get("name")
	categoryID, _ := strconv.ParseUint(r.URL.Query().Get("category_id"), 10, 64)

	products, pagination, err := c.products.List(name, uint(categoryID), page, limit)
	if err != nil {
		respondError(w, err)
		return
	}

	resource.CollectionOf(products, resources.Product).
		WithPagination(pagination).
		Respond(w)
}

// Get handles GET /api/products/{id}.
func (c *ProductController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	product, err := c.products.Get(id)
	if err != nil {
		respondError(w, err)
		return
	}
	resource.New(product, resources.Product).Respond(w)
}

// Categories handles GET /api/categories.
func (c *ProductController) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := c.products.Categories()
	if err != nil {
		respondError(w, err)
		return
	}
	resource.CollectionOf(categories, resources.Category).Respond(w)
}

// Create handles POST /api/products (vendor only).
func (c *ProductController) Create(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	var in services.ProductInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	product, err := c.products.Create(id.UserID, in)
	if err != nil {
		respondError(w, err)
		return
	}
	resource.New(product, resources.Product).Respond(w, http.StatusCreated)
}

// Update handles PATCH /api/products/{id} (vendor only, own products).
func (c *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	productID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var patch services.ProductPatch
	if _, err := bind.JSON(r, &patch); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	product, err := c.products.Update(id.UserID, productID, patch)
	if err != nil {
		respondError(w, err)
		return
	}
	resource.New(product, resources.Product).Respond(w)
}

// Delete handles DELETE /api/products/{id} (vendor only, own products).
func (c *ProductController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	productID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := c.products.Delete(id.UserID, productID); err != nil {
		respondError(w, err)
		return
	}
	response.NoContent(w)
}

// Mine handles GET /api/products/mine (vendor only).
func (c *ProductController) Mine(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	page, limit := pageParams(r)

	products, pagination, err := c.products.ListByVendor(id.UserID, page, limit)
	if err != nil {
		respondError(w, err)
		return
	}
	resource.CollectionOf(products, resources.Product).
		WithPagination(pagination).
		Respond(w)
}

// UploadImage handles POST /api/products/{id}/image (vendor only, multipart
// field "image").
func (c *ProductController) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	productID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		respondError(w, apperr.New(apperr.ErrValidation, "Invalid multipart payload"))
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		respondError(w, apperr.New(apperr.ErrValidation, "Missing image file"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImageBytes))
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not read upload")
		return
	}

	product, err := c.products.AttachImage(id.UserID, productID, header.Filename, data)
	if err != nil {
		respondError(w, err)
		return
	}
	resource.New(product, resources.Product).Respond(w)
}
