// Package main is the entry point for the price-service application.
//
// @title           Price Service API
// @version         1.0.0
// @description     API for comparing grocery prices across supermarket chains.
//
//	The service searches imported chain price feeds, matches identical
//	products across chains by item code, and finds the single branch
//	where a full shopping cart is cheapest.
//
// @termsOfService  http://swagger.io/terms/
//
// @contact.name   API Support
// @contact.email  support@example.com
// @contact.url    https://github.com/basketly/price-service
//
// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT
//
// @host      localhost:8080
// @BasePath  /
//
// @securityDefinitions.apikey  ApiKeyAuth
// @in                          header
// @name                        X-API-Key
// @description                 API key for authentication. Required if authentication is enabled.
//
// @tag.name        Prices
// @tag.description Price search and cart comparison operations
//
// @tag.name        Carts
// @tag.description Saved shopping cart management
//
// @tag.name        Auth
// @tag.description Authentication endpoints
//
// @tag.name        Health
// @tag.description Health check endpoints
package main

import (
	_ "github.com/basketly/price-service/docs" // swagger docs

	"github.com/rs/zerolog/log"

	"github.com/basketly/price-service/config"
	"github.com/basketly/price-service/internal/app"
)

func main() {
	cfg := config.Load()

	router := app.InitializeApp(cfg)
	server := app.NewServer(router, cfg.Server.Port)

	if err := server.Run(); err != nil {
		log.Fatal().Err(err).Msg("Server error")
	}
}
