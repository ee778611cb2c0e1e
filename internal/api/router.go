package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/starburger/dispatch-system/internal/api/handler"
	"github.com/starburger/dispatch-system/internal/core/ports"
)

// Deps carries everything the router needs to register all routes.
type Deps struct {
	Orders  ports.OrderService
	Catalog ports.CatalogService
	Runner  handler.BatchRunner
	Mongo   *mongo.Database
	Redis   *redis.Client
	Logger  zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("dispatch"))

	// --- Handlers ---
	orderHandler := handler.NewOrderHandler(deps.Orders)
	productHandler := handler.NewProductHandler(deps.Catalog)
	dispatchHandler := handler.NewDispatchHandler(deps.Runner)

	// --- Order intake and pipeline ---
	v1 := e.Group("/api/v1")
	v1.POST("/orders", orderHandler.Create)
	v1.POST("/orders/:number/assign", orderHandler.Assign)
	v1.PATCH("/orders/:number/status", orderHandler.AdvanceStatus)

	// --- Catalog ---
	v1.GET("/products", productHandler.List)

	// --- Staff dispatch view ---
	v1.GET("/dispatch/orders", dispatchHandler.Orders)

	// --- Health probes ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
