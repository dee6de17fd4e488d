package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/foxxcyber/receipt-rewards/internal/config"
	"github.com/foxxcyber/receipt-rewards/internal/database"
	"github.com/foxxcyber/receipt-rewards/internal/duplicate"
	"github.com/foxxcyber/receipt-rewards/internal/handlers"
	"github.com/foxxcyber/receipt-rewards/internal/middleware"
	"github.com/foxxcyber/receipt-rewards/internal/models"
	"github.com/foxxcyber/receipt-rewards/internal/parser"
	"github.com/foxxcyber/receipt-rewards/internal/services"
)

func main() {
	// Load .env file if it exists
	godotenv.Load()

	cfg := config.Load()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	if err := database.EnsureAdminUser(db, cfg); err != nil {
		log.Printf("Warning: Could not ensure admin user: %v", err)
	}

	// Shared catalog snapshots are optional
	var shared services.SnapshotStore
	if cfg.RedisURL != "" {
		redisCache, err := services.NewRedisCache(cfg.RedisURL)
		if err != nil {
			log.Printf("Warning: Redis unavailable, catalog snapshots stay per-process: %v", err)
		} else {
			defer redisCache.Close()
			shared = redisCache
			log.Println("Redis catalog cache connected")
		}
	}

	storeCatalog := services.NewCatalogCache[models.Store]("stores", cfg.StoreCacheTTL, db.ListActiveStores, shared)
	productCatalog := services.NewCatalogCache[models.Product]("products", cfg.ProductCacheTTL, db.ListActiveProducts, shared)

	// Receipt images are kept only when S3 is configured
	var storage *services.StorageService
	var images services.ImageStore
	if cfg.StorageEnabled() {
		storage, err = services.NewStorageService(cfg.S3Endpoint, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3Region, cfg.S3UseSSL)
		if err != nil {
			log.Printf("Warning: Failed to initialize storage service: %v", err)
			storage = nil
		} else {
			if err := storage.EnsureBucket(context.Background()); err != nil {
				log.Printf("Warning: Failed to ensure S3 bucket exists: %v", err)
			}
			images = storage
		}
	} else {
		log.Println("S3 credentials not configured, receipt images will not be stored")
	}

	receiptParser := parser.NewReceiptParser()

	var receiptHandler *handlers.ReceiptHandler
	ocrService, err := services.NewOCRService(cfg.OCRLanguage)
	if err != nil {
		log.Printf("Warning: Failed to initialize OCR service, receipt uploads disabled: %v", err)
	} else {
		defer ocrService.Close()

		ingestor := services.NewIngestor(services.IngestorDeps{
			Reader:       services.NewReceiptReader(ocrService, receiptParser, services.ParseVariants(cfg.OCRVariants)),
			Parser:       receiptParser,
			Duplicates:   duplicate.NewDetector(db),
			Stores:       storeCatalog,
			Products:     productCatalog,
			Images:       images,
			Ledger:       db,
			MaxImageSize: int64(cfg.MaxUploadSize),
		}, cfg.DisableDuplicateDetection)
		if cfg.DisableDuplicateDetection {
			log.Println("Warning: duplicate detection is disabled")
		}

		receiptHandler = handlers.NewReceiptHandler(db, cfg, storage, ingestor)
		log.Println("Receipt scanning service initialized")
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler,
		BodyLimit:    cfg.MaxUploadSize + 1024*1024,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	h := handlers.New(db, cfg, storeCatalog, productCatalog, services.NewItemMatcher(receiptParser))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Auth routes (public)
	auth := api.Group("/auth")
	auth.Post("/register", h.Register)
	auth.Post("/login", h.Login)
	auth.Get("/me", middleware.AuthRequired(cfg), h.GetCurrentUser)
	auth.Post("/refresh", middleware.AuthRequired(cfg), h.RefreshToken)

	// Store catalog (public read)
	stores := api.Group("/stores")
	stores.Get("/", h.ListStores)
	stores.Post("/match", h.MatchStore)
	stores.Get("/suggestions/:name", h.StoreSuggestions)
	stores.Get("/:id", h.GetStore)

	// Product catalog (public read)
	products := api.Group("/products")
	products.Get("/", h.ListProducts)
	products.Get("/brands", h.ListBrands)
	products.Post("/match", h.MatchProduct)
	products.Get("/suggestions/:name", h.ProductSuggestions)
	products.Get("/:id", h.GetProduct)

	// Points (authenticated)
	points := api.Group("/points", middleware.AuthRequired(cfg))
	points.Get("/", h.GetPoints)
	points.Get("/transactions", h.ListTransactions)
	points.Post("/redeem", h.Redeem)

	// Receipt routes (authenticated, only if OCR is available)
	if receiptHandler != nil {
		receipts := api.Group("/receipts", middleware.AuthRequired(cfg))
		receipts.Post("/upload", receiptHandler.UploadReceipt)
		receipts.Get("/", receiptHandler.ListReceipts)
		receipts.Get("/:id", receiptHandler.GetReceipt)
		receipts.Get("/:id/image", receiptHandler.GetReceiptImage)
	}

	// Admin routes (admin only)
	admin := api.Group("/admin", middleware.AuthRequired(cfg), middleware.AdminRequired())
	admin.Get("/users", h.AdminListUsers)
	admin.Get("/users/:id", h.AdminGetUser)
	admin.Post("/stores", h.CreateStore)
	admin.Delete("/stores/:id", h.DeactivateStore)
	admin.Post("/products", h.CreateProduct)
	admin.Delete("/products/:id", h.DeactivateProduct)
	admin.Get("/catalog", h.AdminCatalogStatus)
	admin.Post("/catalog/invalidate", h.AdminInvalidateCatalogs)
	admin.Get("/catalog/broad-rules", h.AdminBroadRules)

	log.Printf("Server starting on port %s", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
