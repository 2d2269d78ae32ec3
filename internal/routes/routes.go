package routes

import (
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/example/invoicer/internal/config"
	"github.com/example/invoicer/internal/handlers"
	"github.com/example/invoicer/internal/middleware"
	"github.com/example/invoicer/internal/services"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config, sms services.SMSSender) {
	authHandler := handlers.NewAuthHandler(db, cfg, sms)
	customerHandler := handlers.NewCustomerHandler(db)
	invoiceHandler := handlers.NewInvoiceHandler(db)
	profileHandler := handlers.NewProfileHandler(db)

	loginLimiter := middleware.NewLoginRateLimiter(30)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Auth routes
	api.Post("/signup", authHandler.Signup)
	api.Post("/login", loginLimiter.Handler(), authHandler.Login)
	api.Post("/verify-2fa", loginLimiter.Handler(), authHandler.Verify2FA)

	// Protected routes
	protected := api.Group("", middleware.AuthMiddleware(cfg))

	protected.Get("/invoices", invoiceHandler.ListInvoices)
	protected.Post("/invoices", invoiceHandler.CreateInvoice)
	protected.Get("/invoices/:id", invoiceHandler.GetInvoice)
	protected.Put("/invoices/:id", invoiceHandler.UpdateInvoice)
	protected.Delete("/invoices/:id", invoiceHandler.DeleteInvoice)
	protected.Get("/invoices/:id/pdf", invoiceHandler.DownloadInvoicePDF)

	protected.Get("/customers", customerHandler.ListCustomers)
	protected.Post("/customers", customerHandler.CreateCustomer)
	protected.Put("/customers/:id", customerHandler.UpdateCustomer)
	protected.Delete("/customers/:id", customerHandler.DeleteCustomer)

	protected.Get("/profile", profileHandler.GetProfile)
}
