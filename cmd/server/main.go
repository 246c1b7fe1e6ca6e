package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jattu8602/ek-sub000/config"
	"github.com/jattu8602/ek-sub000/internal/app/controller"
	"github.com/jattu8602/ek-sub000/internal/app/repository"
	"github.com/jattu8602/ek-sub000/internal/app/service"
	"github.com/jattu8602/ek-sub000/internal/db"
	"github.com/jattu8602/ek-sub000/internal/middleware"
	"github.com/jattu8602/ek-sub000/internal/router"
	"github.com/jattu8602/ek-sub000/internal/scheduler"
	"github.com/jattu8602/ek-sub000/internal/storage"
	"github.com/jattu8602/ek-sub000/internal/websocket"
	"github.com/jattu8602/ek-sub000/pkg/logger"
	"github.com/jattu8602/ek-sub000/pkg/payment/razorpay"
	"github.com/jattu8602/ek-sub000/pkg/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting KisanKhet Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	if err := db.SeedAdmin(cfg); err != nil {
		logger.Warn("Failed to seed admin account", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Redis backs the guest cart and the token blacklist. The server
	// still comes up without it, those features just degrade.
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Warn("Redis unavailable, guest carts and token blacklist disabled", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		defer redis.Close()
	}

	gateway, err := razorpay.NewClient(razorpay.Config{
		KeyID:     cfg.Payment.Razorpay.KeyID,
		KeySecret: cfg.Payment.Razorpay.KeySecret,
		BaseURL:   cfg.Payment.Razorpay.BaseURL,
		Currency:  cfg.Payment.Razorpay.Currency,
	})
	if err != nil {
		logger.Fatal("Failed to initialize payment gateway client", err)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())
	unitRepo := repository.NewProductUnitRepository(db.GetDB())
	cartRepo := repository.NewCartRepository(db.GetDB())
	orderRepo := repository.NewOrderRepository(db.GetDB())
	paymentRepo := repository.NewPaymentRepository(db.GetDB())
	addressRepo := repository.NewAddressRepository(db.GetDB())
	favoriteRepo := repository.NewFavoriteRepository(db.GetDB())
	reviewRepo := repository.NewReviewRepository(db.GetDB())
	resetRepo := repository.NewPasswordResetRepository(db.GetDB())
	contactRepo := repository.NewContactRepository(db.GetDB())
	applicationRepo := repository.NewSellerApplicationRepository(db.GetDB())
	newsletterRepo := repository.NewNewsletterRepository(db.GetDB())

	var guestStore repository.GuestCartStore
	if client := redis.GetClient(); client != nil {
		guestStore = repository.NewRedisGuestCartStore(client)
	} else {
		guestStore = repository.NewMemoryGuestCartStore()
	}

	// Live order feed for the admin dashboard.
	hub := websocket.NewHub()
	go hub.Run()

	// Services
	authService := service.NewAuthService(
		userRepo,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	passwordResetService := service.NewPasswordResetService(userRepo, resetRepo)
	productService := service.NewProductService(productRepo, unitRepo, reviewRepo, cfg.Catalog.LowStockThreshold)
	cartService := service.NewCartService(cartRepo, guestStore, unitRepo, productRepo)
	checkoutService := service.NewCheckoutService(
		db.GetDB(),
		cartRepo,
		unitRepo,
		paymentRepo,
		orderRepo,
		addressRepo,
		gateway,
		hub,
		productService,
	)
	orderService := service.NewOrderService(orderRepo, hub)
	favoriteService := service.NewFavoriteService(favoriteRepo, productRepo)
	addressService := service.NewAddressService(addressRepo)
	reviewService := service.NewReviewService(reviewRepo, productRepo)
	contactService := service.NewContactService(contactRepo)
	sellerService := service.NewSellerApplicationService(applicationRepo)
	newsletterService := service.NewNewsletterService(newsletterRepo)
	userService := service.NewUserService(userRepo)
	aiService := service.NewAIService(cfg)

	s3Storage := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)

	// Controllers
	authController := controller.NewAuthController(authService, passwordResetService, cfg.JWT.Secret)
	productController := controller.NewProductController(productService, aiService)
	cartController := controller.NewCartController(cartService)
	checkoutController := controller.NewCheckoutController(checkoutService)
	orderController := controller.NewOrderController(orderService)
	favoriteController := controller.NewFavoriteController(favoriteService)
	addressController := controller.NewAddressController(addressService)
	reviewController := controller.NewReviewController(reviewService)
	moderationController := controller.NewModerationController(contactService, sellerService, newsletterService)
	userController := controller.NewUserController(userService)
	uploadController := controller.NewUploadController(s3Storage)
	eventsController := controller.NewEventsController(hub)

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	catalogScheduler := scheduler.NewCatalogScheduler(
		productService,
		cfg.Catalog.StatusRefreshCron,
	)
	if err := catalogScheduler.Start(); err != nil {
		logger.Warn("Catalog scheduler failed to start", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer catalogScheduler.Stop()

	r := router.NewRouter(
		authController,
		productController,
		cartController,
		checkoutController,
		orderController,
		favoriteController,
		addressController,
		reviewController,
		moderationController,
		userController,
		uploadController,
		eventsController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
