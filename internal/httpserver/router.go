package httpserver

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowCredentials = false
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	// The webhook authenticates via its signature, not cookies.
	router.POST("/webhooks/payment", webhookHandler(logger, deps.OrderSvc, deps.WebhookSecret))

	// Catalog reads need no identity.
	router.GET("/products", listProductsHandler(deps.CatalogSvc))
	router.GET("/products/:id", getProductHandler(deps.CatalogSvc))

	api := router.Group("/", identityMiddleware(deps.AuthSvc, deps.GuestSvc))
	{
		api.POST("/auth/signup", signupHandler(logger, deps.AuthSvc, deps.CartSvc))
		api.POST("/auth/signin", signinHandler(logger, deps.AuthSvc, deps.CartSvc))
		api.POST("/auth/signout", signoutHandler(deps.AuthSvc))

		api.GET("/cart", getCartHandler(deps.CartSvc))
		api.POST("/cart/items", addCartItemHandler(deps.CartSvc, deps.GuestSvc))
		api.PATCH("/cart/items/:id", updateCartItemHandler(deps.CartSvc))
		api.DELETE("/cart/items/:id", removeCartItemHandler(deps.CartSvc))
		api.DELETE("/cart", clearCartHandler(deps.CartSvc))

		api.POST("/checkout/session", createCheckoutSessionHandler(logger, deps.CheckoutSvc, deps.CartSvc))

		api.GET("/orders/:id", getOrderHandler(deps.OrderSvc))
		api.GET("/orders", getOrderBySessionHandler(deps.OrderSvc))
	}

	return router
}
