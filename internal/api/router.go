package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/icct-edu/campus-events/internal/api/handler"
	"github.com/icct-edu/campus-events/internal/api/middleware"
	"github.com/icct-edu/campus-events/internal/core/domain"
	"github.com/icct-edu/campus-events/internal/core/ports"
)

// Deps carries the constructed services and optional backend clients the
// router wires behind routes. Mongo and Redis are nil when the portal runs
// on its local fallbacks.
type Deps struct {
	Auth    ports.AuthService
	Catalog ports.CatalogService
	Cart    ports.CartService
	Admin   ports.AdminService
	QR      ports.QRService

	Mongo *mongo.Database
	Redis *redis.Client

	JWTSecret string
	Log       zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("campus_events"))

	authRequired := middleware.Auth(deps.JWTSecret)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/admin/login", authHandler.AdminLogin)
	e.POST("/auth/logout", authHandler.Logout)

	// --- Public catalog ---
	catalogHandler := handler.NewCatalogHandler(deps.Catalog)
	e.GET("/v1/events", catalogHandler.Browse)
	e.GET("/v1/events/stats", catalogHandler.Stats)
	e.POST("/v1/events/refresh", catalogHandler.Refresh)

	// --- Cart (student token required) ---
	cartHandler := handler.NewCartHandler(deps.Cart)
	cart := e.Group("/v1/cart", authRequired)
	cart.GET("", cartHandler.Items)
	cart.DELETE("", cartHandler.Clear)
	cart.POST("/items", cartHandler.Add)
	cart.DELETE("/items/:eventId", cartHandler.Remove)
	cart.POST("/checkout", cartHandler.Checkout)

	// --- QR badge (student token required) ---
	qrHandler := handler.NewQRHandler(deps.QR)
	qr := e.Group("/v1/qr", authRequired)
	qr.POST("", qrHandler.Generate)
	qr.GET("", qrHandler.LoadSaved)
	qr.GET("/image", qrHandler.Image)
	qr.DELETE("", qrHandler.DeleteSaved)

	// --- Admin console (admin token required) ---
	adminHandler := handler.NewAdminHandler(deps.Admin)
	admin := e.Group("/v1/admin", authRequired, adminOnly)
	admin.GET("/events", adminHandler.ListEvents)
	admin.POST("/events", adminHandler.CreateEvent)
	admin.PUT("/events/:id", adminHandler.UpdateEvent)
	admin.DELETE("/events/:id", adminHandler.DeleteEvent)
	admin.GET("/users", adminHandler.ListUsers)
	admin.POST("/users/:id/promote", adminHandler.PromoteUser)
	admin.DELETE("/users/:id", adminHandler.DeleteUser)
	admin.GET("/users/export", adminHandler.ExportUsers)
	admin.GET("/analytics", adminHandler.Analytics)
	admin.POST("/attendance/scan", adminHandler.RecordAttendance)
	admin.GET("/attendance", adminHandler.RecentAttendance)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
