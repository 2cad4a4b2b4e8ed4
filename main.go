package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"ordermgmt/internal/config"
	"ordermgmt/internal/handlers"
	"ordermgmt/internal/models"
	"ordermgmt/internal/repositories"
	"ordermgmt/internal/services"
	"ordermgmt/internal/workers"
	"ordermgmt/pkg/rabbitmq"
)

func main() {
	cfg := config.Load()

	taxRate, err := decimal.NewFromString(cfg.TaxRate)
	if err != nil {
		log.Fatalf("Invalid TAX_RATE %q: %v", cfg.TaxRate, err)
	}
	shippingCost, err := decimal.NewFromString(cfg.ShippingCost)
	if err != nil {
		log.Fatalf("Invalid SHIPPING_COST %q: %v", cfg.ShippingCost, err)
	}

	// --- Database ---
	db, err := openDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Order{},
		&models.OrderItem{},
		&models.Return{},
		&models.ReturnItem{},
		&models.Payment{},
		&models.Invoice{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// --- RabbitMQ ---
	mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
	if err != nil {
		log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
	}
	defer mqClient.Close()

	// --- Repositories ---
	orderRepo := repositories.NewGORMOrderRepository(db)
	returnRepo := repositories.NewGORMReturnRepository(db)
	paymentRepo := repositories.NewGORMPaymentRepository(db)
	invoiceRepo := repositories.NewGORMInvoiceRepository(db)

	// --- Services ---
	orderService := services.NewOrderService(orderRepo, mqClient, taxRate, shippingCost)
	returnService := services.NewReturnService(returnRepo, orderRepo, mqClient)
	paymentService := services.NewPaymentService(paymentRepo, orderRepo)
	invoiceService, err := services.NewInvoiceService(cfg.InvoicesDir)
	if err != nil {
		log.Fatalf("Failed to initialize invoice service: %v", err)
	}

	// --- Background worker ---
	worker := workers.NewWorker(orderRepo, returnRepo, invoiceRepo, invoiceService,
		cfg.TaskTimeLimit, cfg.TaskSoftTimeLimit)
	if err := mqClient.ConsumeTasks(worker.HandleDelivery); err != nil {
		log.Fatalf("Failed to start task consumer: %v", err)
	}

	// --- Handlers ---
	orderHandler := handlers.NewOrderHandler(orderService)
	returnHandler := handlers.NewReturnHandler(returnService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	invoiceHandler := handlers.NewInvoiceHandler(invoiceRepo)

	// --- Fiber App ---
	app := fiber.New()
	app.Use(logger.New())

	apiV1 := app.Group("/api/v1")
	orderHandler.RegisterRoutes(apiV1)
	returnHandler.RegisterRoutes(apiV1)
	paymentHandler.RegisterRoutes(apiV1)
	invoiceHandler.RegisterRoutes(apiV1)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", cfg.AppPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

func openDatabase(cfg config.Config) (*gorm.DB, error) {
	switch cfg.DatabaseDriver {
	case "postgres":
		return gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	default:
		return gorm.Open(sqlite.Open(cfg.DatabaseDSN), &gorm.Config{})
	}
}
