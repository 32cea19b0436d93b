// Package routes wires the HTTP surface: public auth endpoints, the
// bearer-gated product resource, and the operational endpoints.
package routes

import (
	"github.com/nkhandel/bookstock/internal/controllers"
	"github.com/nkhandel/bookstock/pkg/metrics"
	"github.com/nkhandel/bookstock/pkg/middleware"
	"github.com/nkhandel/bookstock/pkg/router"
)

func RegisterAPI(r *router.Router) {
	authController := controllers.NewAuthController()
	productController := controllers.NewProductController()

	r.Get("/healthz", "health", controllers.Health)
	r.Get("/metrics", "metrics", metrics.Handler())

	api := r.Group("/api")
	api.Post("/login", "auth.login", authController.Login)
	api.Post("/register", "auth.register", authController.Register)

	// Every route below verifies the bearer token before the handler runs.
	protected := api.Group("", middleware.Auth)
	protected.Get("/user", "auth.user", authController.User)

	protected.Get("/products", "products.index", productController.Index)
	protected.Post("/products", "products.store", productController.Store)
	protected.Get("/products/{barcode}", "products.show", productController.Show)
	protected.Put("/products/{barcode}", "products.update", productController.Update)
	protected.Delete("/products/{barcode}", "products.destroy", productController.Destroy)
}
