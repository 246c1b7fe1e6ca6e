package router

import (
	"github.com/gin-gonic/gin"
	"github.com/jattu8602/ek-sub000/config"
	"github.com/jattu8602/ek-sub000/internal/app/controller"
	"github.com/jattu8602/ek-sub000/internal/middleware"
)

type Router struct {
	authController       *controller.AuthController
	productController    *controller.ProductController
	cartController       *controller.CartController
	checkoutController   *controller.CheckoutController
	orderController      *controller.OrderController
	favoriteController   *controller.FavoriteController
	addressController    *controller.AddressController
	reviewController     *controller.ReviewController
	moderationController *controller.ModerationController
	userController       *controller.UserController
	uploadController     *controller.UploadController
	eventsController     *controller.EventsController
	authMiddleware       *middleware.AuthMiddleware
	config               *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	productController *controller.ProductController,
	cartController *controller.CartController,
	checkoutController *controller.CheckoutController,
	orderController *controller.OrderController,
	favoriteController *controller.FavoriteController,
	addressController *controller.AddressController,
	reviewController *controller.ReviewController,
	moderationController *controller.ModerationController,
	userController *controller.UserController,
	uploadController *controller.UploadController,
	eventsController *controller.EventsController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:       authController,
		productController:    productController,
		cartController:       cartController,
		checkoutController:   checkoutController,
		orderController:      orderController,
		favoriteController:   favoriteController,
		addressController:    addressController,
		reviewController:     reviewController,
		moderationController: moderationController,
		userController:       userController,
		uploadController:     uploadController,
		eventsController:     eventsController,
		authMiddleware:       authMiddleware,
		config:               cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "KisanKhet API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.POST("/logout", r.authController.Logout)
			auth.POST("/forgot-password", r.authController.ForgotPassword)
			auth.POST("/reset-password", r.authController.ResetPassword)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.GetMe)
			auth.PUT("/me", r.authMiddleware.Authenticate(), r.authController.UpdateMe)
			auth.PUT("/password", r.authMiddleware.Authenticate(), r.authController.ChangePassword)
		}

		products := v1.Group("/products")
		{
			products.GET("", r.productController.GetProducts)
			products.GET("/filters", r.productController.GetFilters)
			products.GET("/popular", r.productController.GetPopularProducts)
			products.GET("/:productId", r.productController.GetProduct)
			products.GET("/:productId/reviews", r.reviewController.GetProductReviews)

			products.POST("/:productId/rating",
				r.authMiddleware.Authenticate(),
				r.reviewController.RateProduct,
			)
			products.POST("/:productId/reviews",
				r.authMiddleware.Authenticate(),
				r.reviewController.AddReview,
			)
		}

		v1.DELETE("/reviews/:id",
			r.authMiddleware.Authenticate(),
			r.reviewController.DeleteReview,
		)

		// Public submission endpoints.
		v1.POST("/contact", r.moderationController.SubmitContact)
		v1.POST("/seller/apply", r.moderationController.ApplyAsSeller)
		v1.POST("/newsletter/subscribe", r.moderationController.SubscribeNewsletter)
		v1.POST("/newsletter/unsubscribe", r.moderationController.UnsubscribeNewsletter)

		// The cart works for guests too: a valid JWT selects the user's
		// cart, otherwise the X-Guest-Token header selects the guest one.
		cart := v1.Group("/cart")
		cart.Use(r.authMiddleware.OptionalAuthenticate())
		{
			cart.GET("", r.cartController.GetCart)
			cart.POST("", r.cartController.AddToCart)
			cart.PUT("", r.cartController.UpdateCartItem)
			cart.DELETE("/item", r.cartController.RemoveFromCart)
			cart.DELETE("", r.cartController.ClearCart)
			cart.POST("/migrate",
				r.authMiddleware.Authenticate(),
				r.cartController.MigrateCart,
			)
		}

		checkout := v1.Group("/checkout")
		checkout.Use(r.authMiddleware.Authenticate())
		{
			checkout.POST("/intent", r.checkoutController.CreateIntent)
			checkout.POST("/verify", r.checkoutController.VerifyPayment)
			checkout.POST("/failed", r.checkoutController.MarkFailed)
		}

		orders := v1.Group("/orders")
		orders.Use(r.authMiddleware.Authenticate())
		{
			orders.GET("", r.orderController.GetOrders)
			orders.GET("/:id", r.orderController.GetOrderByID)
		}

		favorites := v1.Group("/favorites")
		favorites.Use(r.authMiddleware.Authenticate())
		{
			favorites.GET("", r.favoriteController.GetFavorites)
			favorites.POST("/:productId", r.favoriteController.ToggleFavorite)
		}

		addresses := v1.Group("/addresses")
		addresses.Use(r.authMiddleware.Authenticate())
		{
			addresses.GET("", r.addressController.GetAddresses)
			addresses.POST("", r.addressController.CreateAddress)
			addresses.PUT("/:id", r.addressController.UpdateAddress)
			addresses.DELETE("/:id", r.addressController.DeleteAddress)
			addresses.PUT("/:id/default", r.addressController.SetDefaultAddress)
		}

		admin := v1.Group("/admin")
		admin.Use(r.authMiddleware.Authenticate())
		admin.Use(r.authMiddleware.RequireRole("admin"))
		{
			adminProducts := admin.Group("/products")
			{
				adminProducts.POST("", r.productController.CreateProduct)
				adminProducts.PUT("/:id", r.productController.UpdateProduct)
				adminProducts.DELETE("/:id", r.productController.DeleteProduct)
				adminProducts.POST("/generate-description", r.productController.GenerateDescription)
				adminProducts.GET("/image-search", r.productController.SearchImages)
			}

			adminOrders := admin.Group("/orders")
			{
				adminOrders.GET("", r.orderController.ListOrders)
				adminOrders.GET("/stats", r.orderController.GetStats)
				adminOrders.PUT("/:id/status", r.orderController.UpdateOrderStatus)
				adminOrders.PUT("/:id/delivery-date", r.orderController.SetDeliveryDate)
			}

			contacts := admin.Group("/contacts")
			{
				contacts.GET("", r.moderationController.ListContacts)
				contacts.PUT("/:id/resolve", r.moderationController.ResolveContact)
				contacts.DELETE("/:id", r.moderationController.DeleteContact)
			}

			applications := admin.Group("/seller-applications")
			{
				applications.GET("", r.moderationController.ListSellerApplications)
				applications.PUT("/:id/status", r.moderationController.SetSellerApplicationStatus)
			}

			admin.GET("/newsletter", r.moderationController.ListNewsletterSubscribers)
			admin.DELETE("/newsletter/:id", r.moderationController.RemoveNewsletterSubscriber)

			users := admin.Group("/users")
			{
				users.GET("", r.userController.GetUsers)
				users.PUT("/:id/role", r.userController.UpdateUserRole)
				users.DELETE("/:id", r.userController.DeleteUser)
			}

			admin.POST("/upload/presigned-url", r.uploadController.GeneratePresignedURL)

			// WebSocket clients pass the JWT as a query parameter, the
			// auth middleware accepts ?token= for upgrade requests.
			admin.GET("/events/orders", r.eventsController.StreamOrders)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, X-Guest-Token, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
