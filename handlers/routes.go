package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Register mounts the session API under /api on r.
func Register(r gin.IRouter, session Session) {
	auth := NewAuthHandlers(session)
	shop := NewShopHandlers(session)
	track := NewTrackHandlers(session)

	api := r.Group("/api")
	{
		api.GET("/state", shop.GetState)
		api.GET("/products", shop.ListProducts)
		api.GET("/search", shop.Search)
		api.POST("/products/:id/view", track.ViewProduct)
		api.POST("/navigate", track.Navigate)

		api.POST("/cart", shop.AddToCart)
		api.PUT("/cart/:id", shop.SetQuantity)
		api.DELETE("/cart/:id", shop.RemoveFromCart)
		api.POST("/checkout", shop.Checkout)
		api.GET("/orders", shop.Orders)

		api.POST("/register", auth.Register)
		api.POST("/login", auth.Login)
		api.POST("/logout", auth.Logout)
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
