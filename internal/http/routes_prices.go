package http

import (
	"github.com/gin-gonic/gin"
)

// PriceRoutes handles price search and cart comparison route registration.
type PriceRoutes struct {
	handler *Handler
}

// NewPriceRoutes creates a new PriceRoutes instance.
func NewPriceRoutes(handler *Handler) *PriceRoutes {
	return &PriceRoutes{handler: handler}
}

// RegisterPublicRoutes registers price routes on an unauthenticated group.
func (r *PriceRoutes) RegisterPublicRoutes(rg *gin.RouterGroup) {
	r.register(rg)
}

// RegisterProtectedRoutes registers price routes on a JWT-protected group.
func (r *PriceRoutes) RegisterProtectedRoutes(protected *gin.RouterGroup, cfg *RouterConfig) {
	r.register(protected)
}

func (r *PriceRoutes) register(rg *gin.RouterGroup) {
	prices := rg.Group("/prices")
	{
		prices.GET("/search", r.handler.SearchPrices)
		prices.GET("/products", r.handler.GroupedProducts)
		prices.GET("/identical", r.handler.IdenticalProducts)
		prices.GET("/item/:code", r.handler.ItemPrices)
		prices.GET("/cities", r.handler.Cities)
		prices.POST("/cheapest-cart", r.handler.CheapestCart)
	}
}

// GetHandler returns the underlying price handler.
func (r *PriceRoutes) GetHandler() *Handler {
	return r.handler
}
