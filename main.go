package main

import (
	"spotshare/core/logger"
	"spotshare/core/server"
)

// @title SpotShare API
// @version 1.0
// @description Slot availability and booking lifecycle engine for shared parking spots

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:7070
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token. Example: "Bearer {token}"

func main() {
	if err := server.Run(); err != nil {
		logger.Error("run server error", err)
	}
}
