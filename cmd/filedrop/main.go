package main

import (
	"filedrop/internal/cli"

	// Import docs for Swagger
	_ "filedrop/docs"
)

// @title FileDrop API
// @version 1.0.0
// @description Self-hosted file and URL hosting service.
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and a JWT token.

func main() {
	// Delegate all execution to the CLI package
	cli.Execute()
}
