package router

import (
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var Router *gin.Engine

func InitEngine() {
	if os.Getenv("ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	Router = gin.Default()

	Router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", SessionHeader},
		ExposeHeaders:    []string{"Content-Length", SessionHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}

func InitializeRoutes(api *API) {
	root := Router.Group("/api")
	root.Use(SessionID())
	{
		root.GET("/health", api.HealthCheck)

		auth := root.Group("/auth")
		{
			auth.POST("/login", api.Login)
			auth.POST("/register", api.Register)
			auth.POST("/logout", api.Logout)
			auth.GET("/session", api.GetSession)
		}

		cart := root.Group("/cart")
		{
			cart.GET("", api.GetCart)
			cart.POST("/items", api.AddCartItem)
			cart.PUT("/items/:id", api.UpdateCartItem)
			cart.DELETE("/items/:id", api.RemoveCartItem)
			cart.DELETE("", api.ClearCart)
		}

		checkout := root.Group("/checkout")
		checkout.Use(RequireSession(api.Sessions))
		{
			checkout.POST("", api.BeginCheckout)
			checkout.GET("", api.GetCheckout)
			checkout.POST("/next", api.CheckoutNext)
			checkout.POST("/back", api.CheckoutBack)
			checkout.DELETE("", api.AbandonCheckout)
		}

		root.GET("/products", api.GetProducts)
		root.GET("/products/:id", api.GetProduct)
		root.GET("/categories", api.GetCategories)
		root.GET("/brands", api.GetBrands)
	}
}
