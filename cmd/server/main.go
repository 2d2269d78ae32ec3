package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/example/invoicer/internal/config"
	"github.com/example/invoicer/internal/database"
	"github.com/example/invoicer/internal/metrics"
	"github.com/example/invoicer/internal/routes"
	"github.com/example/invoicer/internal/services"
)

func main() {
	cfg := config.Load()
	db := database.Connect(cfg.DatabaseURL)

	app := fiber.New(fiber.Config{
		AppName: "Invoicer Backend",
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())
	app.Use(metrics.Middleware())

	sms := services.NewTwilioService(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber)

	routes.Register(app, db, cfg, sms)

	if cfg.Enable2FA {
		log.Println("2FA is enabled")
	} else {
		log.Println("2FA is disabled")
	}

	log.Printf("Starting server on :%s", cfg.AppPort)
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Fatalf("fiber.Listen error: %v", err)
	}
}
