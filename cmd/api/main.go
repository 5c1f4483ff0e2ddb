package main

import (
	"staymi/pkg/app"
	"staymi/pkg/config"
)

const ServiceName = "staymi-api"

// @title StayMi API
// @version 1.0
// @description Hotel booking, member pricing and PayPal checkout.
// @BasePath /
func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting StayMi API", "database", cfg.MongoDatabaseName)
	serverApp := app.NewApplication(cfg)
	if err := serverApp.SetApp(); err != nil {
		cfg.Log.Fatal("Failed to initialize application", "error", err)
	}
	serverApp.Run()
}
