package http

import (
	"github.com/gin-gonic/gin"
	"github.com/ojuansoares/dolse-vitta/internal/adapter/http/middleware"
	"github.com/ojuansoares/dolse-vitta/internal/logging"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Checkout *CheckoutHandler
	Catalog  *CatalogHandler
	Orders   *OrderHandler
	Profile  *ProfileHandler
	Auth     *AuthHandler
}

func NewRouter(h Handlers, authz *middleware.Authz) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.MetricsMiddleware())
	r.Use(middleware.Logging(logging.New("http")))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})
	// Prometheus endpoint (scraped by Prometheus)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	admin := authz.Require()

	v1 := r.Group("/v1")
	{
		v1.POST("/checkout", h.Checkout.Checkout)

		v1.GET("/products", h.Catalog.ListProducts)
		v1.GET("/products/:id", h.Catalog.GetProduct)
		v1.POST("/products", admin, h.Catalog.CreateProduct)
		v1.PUT("/products/:id", admin, h.Catalog.UpdateProduct)
		v1.DELETE("/products/:id", admin, h.Catalog.DeleteProduct)

		v1.GET("/categories", authz.Optional(), h.Catalog.ListCategories)
		v1.GET("/categories/:id", h.Catalog.GetCategory)
		v1.POST("/categories", admin, h.Catalog.CreateCategory)
		v1.PUT("/categories/:id", admin, h.Catalog.UpdateCategory)
		v1.DELETE("/categories/:id", admin, h.Catalog.DeleteCategory)

		v1.PUT("/reorder/:kind", admin, h.Catalog.Reorder)

		v1.GET("/orders", admin, h.Orders.ListOrders)
		v1.POST("/orders", admin, h.Orders.CreateOrder)
		v1.DELETE("/orders", admin, h.Orders.ClearHistory)
		v1.GET("/orders/:id", admin, h.Orders.GetOrderByID)
		v1.GET("/orders/:id/summary", admin, h.Orders.Summary)

		v1.GET("/about", h.Profile.Get)
		v1.PUT("/about", admin, h.Profile.Update)

		v1.POST("/auth/login", h.Auth.Login)
		v1.POST("/auth/register", h.Auth.Register)
		v1.POST("/auth/logout", admin, h.Auth.Logout)
		v1.GET("/auth/me", admin, h.Auth.Me)

		v1.GET("/users/profile", admin, h.Auth.Profile)
		v1.PUT("/users/profile", admin, h.Auth.UpdateProfile)
		v1.DELETE("/users/account", admin, h.Auth.DeleteAccount)
	}

	return r
}
