package http

import (
	"github.com/gin-gonic/gin"
)

// CartRoutes handles saved shopping list route registration.
// Saved carts are always user-scoped, so these routes only register on
// a JWT-protected group.
type CartRoutes struct {
	handler *SavedCartsHandler
}

// NewCartRoutes creates a new CartRoutes instance.
func NewCartRoutes(handler *SavedCartsHandler) *CartRoutes {
	return &CartRoutes{handler: handler}
}

// RegisterProtectedRoutes registers saved cart routes on a JWT-protected group.
func (r *CartRoutes) RegisterProtectedRoutes(protected *gin.RouterGroup, cfg *RouterConfig) {
	carts := protected.Group("/carts")
	{
		carts.GET("", r.handler.ListCarts)
		carts.POST("", r.handler.CreateCart)
		carts.GET("/:id", r.handler.GetCart)
		carts.PUT("/:id", r.handler.UpdateCart)
		carts.DELETE("/:id", r.handler.DeleteCart)
	}
}
