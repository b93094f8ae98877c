package main

import (
	"log"

	_ "workforce/docs"
	"workforce/internal/config"
	"workforce/internal/server"
)

// @title           Workforce API
// @version         1.0
// @description     API for workforce task tracking with realtime chat.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @schemes http
func main() {
	cfg := config.Load()

	s, err := server.Init(cfg)
	if err != nil {
		log.Fatalf("❌ Server initialization failed: %v", err)
	}

	s.Run()
}
