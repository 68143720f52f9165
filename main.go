package main

import (
	_ "github.com/joho/godotenv/autoload" // Autoload .env file.

	"github.com/stunor/origo-organiser/cmd/app"
)

// @title        Origo organiser API
// @description  Imports IOF course data and federation entry lists for orienteering races.
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer token
//
// @externalDocs.description  OpenAPI
// @externalDocs.url          https://swagger.io/resources/open-api/
func main() {
	if err := app.Start(); err != nil {
		panic(err)
	}
}
