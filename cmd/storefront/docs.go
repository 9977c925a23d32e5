package main

// @title Storefront Service API
// @version 1.0
// @description Drop storefront catalog API with availability states, level unlocking and full observability (logging, tracing, metrics)
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://github.com/dropkit/storefront
// @contact.email support@example.com

// @license.name MIT
// @license.url https://github.com/dropkit/storefront/blob/main/LICENSE

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @tag.name Catalog
// @tag.description Storefront catalog endpoints

// @tag.name Health
// @tag.description Health check endpoints

// @tag.name Swagger
// @tag.description Swagger documentation endpoints
