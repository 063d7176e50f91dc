package routes

import (
	"time"

	"tienda-console/internal/adapters/http/handlers"
	"tienda-console/internal/adapters/http/middleware"
	"tienda-console/internal/config"
	"tienda-console/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/sirupsen/logrus"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, cfg *config.Config, svc *services.Container, backend, storage handlers.Pinger, log logrus.FieldLogger) {
	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(backend, storage, cfg)
	authHandler := handlers.NewAuthHandler(svc.Auth, svc.Sessions, svc.StoreConfig)
	storefrontHandler := handlers.NewStorefrontHandler(svc.Catalog, svc.StoreConfig, svc.Sessions, log)
	cartHandler := handlers.NewCartHandler(svc.Carts, svc.StoreConfig)
	userHandler := handlers.NewUserHandler(svc.Users)
	productHandler := handlers.NewProductHandler(svc.Catalog)
	orderHandler := handlers.NewOrderHandler(svc.Orders)
	dashboardHandler := handlers.NewDashboardHandler(svc.Dashboard)
	settingsHandler := handlers.NewSettingsHandler(svc.StoreConfig)
	fileHandler := handlers.NewFileHandler(svc.Files)

	// Health check & status routes
	app.Get("/status", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Every page below knows its session
	app.Use(middleware.Session(svc.Sessions, cfg, log))

	setupAuthRoutes(app, authHandler)

	// Storefront (public)
	setupStorefrontRoutes(app, storefrontHandler, middleware.Maintenance(svc.StoreConfig))

	// Cart (any authenticated role)
	cart := app.Group("/carrito", middleware.RequireAnyRole(svc.Sessions), middleware.NoStore())
	setupCartRoutes(cart, cartHandler)

	// Profile (any authenticated role)
	profile := app.Group("/perfil", middleware.RequireAuth(), middleware.NoStore())
	profile.Get("/", userHandler.GetProfile)
	profile.Put("/", userHandler.UpdateProfile)

	// Admin console (ADMIN only)
	admin := app.Group("/admin", middleware.RequireAdmin(svc.Sessions), middleware.NoStore())
	setupAdminRoutes(admin, dashboardHandler, productHandler, userHandler, orderHandler, settingsHandler, fileHandler)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler) {
	router.Get("/login", handler.LoginPage)
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Get("/register", handler.RegisterPage)
	router.Post("/register", middleware.StrictRateLimiter(), handler.Register)
	router.Post("/logout", handler.Logout)
	router.Get("/me", handler.Me)
}

// setupStorefrontRoutes configures the public pages
func setupStorefrontRoutes(router fiber.Router, handler *handlers.StorefrontHandler, maintenance fiber.Handler) {
	router.Get("/", maintenance, handler.Home)
	router.Get("/catalogo", maintenance, handler.Catalog)
	router.Get("/productos/:id", maintenance, middleware.CacheControl(30*time.Second), handler.Product)
}

// setupCartRoutes configures cart and checkout routes
func setupCartRoutes(router fiber.Router, handler *handlers.CartHandler) {
	router.Get("/", handler.View)
	router.Get("/cantidad", handler.Count)
	router.Post("/agregar", handler.Add)
	router.Put("/producto/:id", handler.UpdateQuantity)
	router.Delete("/producto/:id", handler.Remove)
	router.Delete("/vaciar", handler.Clear)
	router.Get("/verificar-stock", handler.VerifyStock)
	router.Post("/checkout", handler.Checkout)
}

// setupAdminRoutes configures the admin console routes
func setupAdminRoutes(
	router fiber.Router,
	dashboardHandler *handlers.DashboardHandler,
	productHandler *handlers.ProductHandler,
	userHandler *handlers.UserHandler,
	orderHandler *handlers.OrderHandler,
	settingsHandler *handlers.SettingsHandler,
	fileHandler *handlers.FileHandler,
) {
	router.Get("/", dashboardHandler.GetAdminDashboard)
	router.Get("/reportes", dashboardHandler.GetReports)

	// Products
	router.Get("/productos", productHandler.List)
	router.Post("/productos", productHandler.Create)
	router.Get("/productos/:id", productHandler.Get)
	router.Put("/productos/:id", productHandler.Update)
	router.Delete("/productos/:id", productHandler.Delete)
	router.Patch("/productos/:id/destacado", productHandler.SetFeatured)

	// Users
	router.Get("/usuarios", userHandler.ListUsers)
	router.Post("/usuarios", userHandler.CreateUser)
	router.Get("/usuarios/:id", userHandler.GetUser)
	router.Put("/usuarios/:id", userHandler.UpdateUser)
	router.Delete("/usuarios/:id", userHandler.DeleteUser)

	// Orders
	router.Get("/pedidos", orderHandler.List)
	router.Get("/pedidos/stats", orderHandler.Stats)
	router.Get("/pedidos/:id", orderHandler.Get)
	router.Put("/pedidos/:id/estado", orderHandler.UpdateStatus)

	// Settings
	router.Get("/configuracion", settingsHandler.Get)
	router.Put("/configuracion", settingsHandler.Save)
	router.Put("/configuracion/:seccion", settingsHandler.SaveSection)
	router.Delete("/configuracion", settingsHandler.Reset)

	// Files
	router.Post("/archivos", fileHandler.Upload)
	router.Delete("/archivos/:filename", fileHandler.Delete)
}
