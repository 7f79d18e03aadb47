// Package routes builds the dependency graph and mounts every endpoint.
package routes

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/app/controllers"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/app/listeners"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/app/repositories"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/app/services"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/metrics"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/middleware"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/rbac"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/response"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/router"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/ws"
)

// OrderHub broadcasts order.placed events to connected WebSocket clients.
var OrderHub = ws.NewHub()

// RegisterAPI wires repositories, services, and controllers against db and
// mounts all routes on r.
func RegisterAPI(r *router.Router, db *gorm.DB) {
	// Repositories
	userRepo := repositories.NewUserRepository(db)
	productRepo := repositories.NewProductRepository(db)
	cartRepo := repositories.NewCartRepository(db)
	orderRepo := repositories.NewOrderRepository(db)

	// Services
	inventorySvc := services.NewInventoryService(productRepo)
	authSvc := services.NewAuthService(userRepo)
	productSvc := services.NewProductService(productRepo)
	cartSvc := services.NewCartService(db, cartRepo, inventorySvc)
	checkoutSvc := services.NewCheckoutService(db, cartRepo, orderRepo)
	orderSvc := services.NewOrderService(orderRepo)

	// Controllers
	authCtl := controllers.NewAuthController(authSvc)
	productCtl := controllers.NewProductController(productSvc)
	cartCtl := controllers.NewCartController(cartSvc)
	orderCtl := controllers.NewOrderController(checkoutSvc, orderSvc)

	go OrderHub.Run()
	listeners.Register(OrderHub, userRepo)

	authed := middleware.Auth(authSvc.ResolveIdentity)

	api := r.Group("/api")

	// Identity
	users := api.Group("/users")
	users.Post("/register", "users.register", authCtl.Register)
	users.Post("/login", "users.login", authCtl.Login)
	users.Get("/verify", "users.verify", authCtl.Verify)
	users.Post("/verify/resend", "users.verify.resend", authCtl.ResendVerification)
	users.Post("/token/refresh", "users.token.refresh", authCtl.Refresh)
	users.Post("/logout", "users.logout", authCtl.Logout, authed)
	users.Get("/me", "users.me", authCtl.Me, authed)

	// Public catalog
	api.Get("/categories", "categories.index", productCtl.Categories)
	api.Get("/products", "products.index", productCtl.List)
	api.Get("/products/{id}", "products.show", productCtl.Get)

	// Vendor catalog management
	vendor := api.Group("/products", authed, rbac.VendorOnly)
	vendor.Get("/mine", "products.mine", productCtl.Mine)
	vendor.Post("", "products.store", productCtl.Create)
	vendor.Patch("/{id}", "products.update", productCtl.Update)
	vendor.Delete("/{id}", "products.destroy", productCtl.Delete)
	vendor.Post("/{id}/image", "products.image", productCtl.UploadImage)

	// Customer cart
	carts := api.Group("/carts", authed, rbac.CustomerOnly)
	carts.Get("", "carts.show", cartCtl.Show)
	carts.Post("/items", "carts.items.store", cartCtl.AddItem)
	carts.Patch("/items/{id}", "carts.items.update", cartCtl.UpdateItem)
	carts.Delete("/items/{id}", "carts.items.destroy", cartCtl.RemoveItem)

	// Customer orders
	orders := api.Group("/orders", authed, rbac.CustomerOnly)
	orders.Post("", "orders.checkout", orderCtl.Checkout)
	orders.Get("", "orders.index", orderCtl.List)
	orders.Get("/{id}", "orders.show", orderCtl.Get)

	// Live order feed for back-office dashboards
	r.Get("/ws/orders", "ws.orders", func(w http.ResponseWriter, req *http.Request) {
		ws.Upgrade(w, req, OrderHub)
	}, authed, rbac.SuperuserOnly)

	// Operational endpoints
	r.Get("/metrics", "metrics", metrics.Handler())
	r.Get("/healthz", "healthz", func(w http.ResponseWriter, _ *http.Request) {
		response.Success(w, map[string]string{"status": "ok"})
	})
}
