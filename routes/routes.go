package routes

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/websocket/v2"
	"gorm.io/gorm"

	controller "tradelink/controllers"
	"tradelink/middleware"
)

func SetupAuthRoutes(app *fiber.App, db *gorm.DB) {
	authLogger := log.New(os.Stdout, "AUTH: ", log.Ldate|log.Ltime|log.Lshortfile)

	// Auth routes group with logging middleware
	auth := app.Group("/auth", logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// Public auth endpoints (no authentication required)
	auth.Post("/register", controller.Register)
	auth.Post("/login", controller.Login)
	auth.Post("/refresh", controller.RefreshToken)

	// Protected auth endpoints (require valid JWT)
	protectedAuth := auth.Group("", middleware.Protected())
	protectedAuth.Post("/logout", controller.Logout)
	protectedAuth.Get("/me", controller.GetCurrentUser)

	// Membership routes; webhook stays public for Stripe callbacks
	app.Post("/membership/webhook", controller.HandleMembershipWebhook)
	membership := app.Group("/membership", middleware.Protected())
	membership.Get("/plans", controller.GetMembershipPlans)
	membership.Post("/checkout", controller.CreateMembershipCheckout)

	authLogger.Println("Authentication routes initialized successfully")
}

func SetupAPIRoutes(app *fiber.App, db *gorm.DB) {
	productController := controller.NewProductController(db, log.New(os.Stdout, "PRODUCT: ", log.LstdFlags))
	leadFeed := controller.NewLeadFeed()
	leadController := controller.NewLeadController(db, log.New(os.Stdout, "LEAD: ", log.LstdFlags), leadFeed)

	// API group with versioning and protection
	api := app.Group("/api/v1", middleware.Protected(), logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// Catalog routes
	api.Get("/categories", productController.GetCategories)

	product := api.Group("/products", middleware.RequireSeller())
	product.Post("/", productController.CreateProduct)
	product.Get("/", productController.GetProducts)
	product.Put("/:id", productController.UpdateProduct)
	product.Delete("/:id", productController.DeleteProduct)

	// WebSocket route for the live lead feed; registered before the :id
	// routes so the path is not swallowed by the parameter match
	app.Get("/api/v1/leads/feed", websocket.New(func(c *websocket.Conn) {
		leadController.HandleLeadFeedWS(c)
	}))

	// Lead routes. Listing endpoints are registered before the :id routes so
	// they are not swallowed by the parameter match.
	lead := api.Group("/leads")
	lead.Post("/", middleware.LeadSubmitRateLimiter(), leadController.CreateLead)
	lead.Get("/available", middleware.RequireSeller(), leadController.ListAvailableLeads)
	lead.Get("/purchased", middleware.RequireSeller(), leadController.ListPurchasedLeads)
	lead.Get("/mine", leadController.GetMyLeads)
	lead.Get("/:id", leadController.GetLead)
	lead.Post("/:id/purchase", middleware.RequireSeller(), leadController.PurchaseLead)
	lead.Post("/:id/view", middleware.RequireSeller(), leadController.ViewLead)
	lead.Put("/:id/status", leadController.SetLeadStatus)
	lead.Put("/:id/read", leadController.SetLeadRead)

	log.Println("API routes initialized successfully")
}

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	// Initialize Stripe
	controller.InitStripe()

	// Setup health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	SetupAuthRoutes(app, db)
	SetupAPIRoutes(app, db)

	// Setup 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "Not Found",
			"message": "The requested resource was not found",
		})
	})
}
