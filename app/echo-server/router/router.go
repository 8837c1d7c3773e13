package router

import (
	"smartCampaign/internal/middleware"
	"smartCampaign/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetupUserRoutes(api *echo.Group, handler *rest.UserHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	users := api.Group("/users")

	users.POST("/register", handler.Register)
	users.POST("/login", handler.Login)

	users.POST("/logout", handler.Logout, authRequired)
	users.GET("", handler.GetAllUsers, authRequired, adminOnly)
	users.GET("/:id", handler.GetUserByID, authRequired, adminOnly)
}

func SetupProductRoutes(api *echo.Group, handler *rest.ProductHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	products := api.Group("/products")

	// Catalog browsing only needs a valid JWT; revoked sessions matter for
	// the routes that write on the user's behalf.
	products.GET("", handler.GetAll, middleware.AuthMiddleware())
	products.GET("/:id", handler.GetByID, middleware.AuthMiddleware())

	products.POST("/:id/buy", handler.Buy, authRequired)
	products.POST("", handler.Create, authRequired, adminOnly)
}

func SetupCampaignRoutes(api *echo.Group, handler *rest.CampaignHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	// User-facing feed and click tracking.
	api.GET("/offers", handler.Offers, authRequired)
	api.GET("/campaigns/:id/click", handler.Click, authRequired)

	// Admin campaign management.
	admin := api.Group("/admin/campaigns", authRequired, adminOnly)
	admin.POST("", handler.Create)
	admin.GET("", handler.Dashboard)
	admin.POST("/:id/launch", handler.Launch)
	admin.GET("/preview", handler.Preview)
}
