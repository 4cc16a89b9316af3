package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/JefryM27/misitiofacil-Backend-sub000/internal/api/handler"
	"github.com/JefryM27/misitiofacil-Backend-sub000/internal/api/middleware"
	"github.com/JefryM27/misitiofacil-Backend-sub000/internal/core/domain"
	"github.com/JefryM27/misitiofacil-Backend-sub000/internal/core/ports"
	"github.com/JefryM27/misitiofacil-Backend-sub000/internal/core/service"
	"github.com/JefryM27/misitiofacil-Backend-sub000/internal/infrastructure/config"
	mongodb "github.com/JefryM27/misitiofacil-Backend-sub000/internal/infrastructure/db/mongo"
	redisdb "github.com/JefryM27/misitiofacil-Backend-sub000/internal/infrastructure/db/redis"
	"github.com/JefryM27/misitiofacil-Backend-sub000/internal/infrastructure/storage"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// The notifier is injected by main so its worker pool lifecycle stays with
// the process, not the router.
func NewRouter(
	cfg *config.Config,
	db *mongo.Database,
	rdb *redis.Client,
	notifier ports.ReservationNotifier,
	log zerolog.Logger,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("misitiofacil"))

	// --- Repositories ---
	userRepo := mongodb.NewUserRepository(db)
	businessRepo := mongodb.NewBusinessRepository(db)
	serviceRepo := mongodb.NewServiceRepository(db)
	templateRepo := mongodb.NewTemplateRepository(db)
	reservationRepo := mongodb.NewReservationRepository(db)

	// --- Services ---
	throttle := redisdb.NewLoginThrottle(rdb, cfg.Lockout.MaxAttempts, cfg.Lockout.Window, cfg.Lockout.Duration)
	assets := storage.NewFileStorage(cfg.AssetDir, log)

	authService := service.NewAuthService(userRepo, throttle, cfg.JWTSecret, 24*time.Hour, log)
	templateService := service.NewTemplateService(templateRepo, businessRepo, log)
	businessService := service.NewBusinessService(
		businessRepo, serviceRepo, reservationRepo, userRepo, templateService, assets,
		service.BusinessLimits{
			MaxPerOwner:  cfg.Booking.MaxBusinessesPerOwner,
			SlugAttempts: cfg.Booking.SlugMaxAttempts,
		},
		log,
	)
	catalogService := service.NewCatalogService(
		serviceRepo, businessRepo, reservationRepo,
		service.CatalogLimits{
			MaxPerBusiness:  cfg.Booking.MaxServicesPerBusiness,
			MinDurationMins: cfg.Booking.MinDurationMinutes,
			MaxDurationMins: cfg.Booking.MaxDurationMinutes,
		},
		log,
	)
	reservationService := service.NewReservationService(
		reservationRepo, businessRepo, serviceRepo, userRepo, notifier, log,
	)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService)
	businessHandler := handler.NewBusinessHandler(businessService)
	serviceHandler := handler.NewServiceHandler(catalogService)
	templateHandler := handler.NewTemplateHandler(templateService)
	reservationHandler := handler.NewReservationHandler(reservationService)

	authed := middleware.Auth(cfg.JWTSecret)
	optional := middleware.OptionalAuth(cfg.JWTSecret)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Auth ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	v1 := e.Group("/v1")

	// --- User administration ---
	users := v1.Group("/users", authed, adminOnly)
	users.GET("", authHandler.ListUsers)
	users.PATCH("/:id/role", authHandler.SetRole)
	users.PATCH("/:id/active", authHandler.SetActive)

	// --- Businesses ---
	businesses := v1.Group("/businesses", authed)
	businesses.POST("", businessHandler.Create)
	businesses.GET("", businessHandler.List)
	businesses.GET("/:id", businessHandler.Get)
	businesses.PATCH("/:id", businessHandler.Update)
	businesses.PATCH("/:id/status", businessHandler.ChangeStatus)
	businesses.DELETE("/:id", businessHandler.Delete)
	businesses.POST("/:id/services", serviceHandler.Create)

	// Public site resolution and catalog browsing need no token.
	v1.GET("/public/businesses/:slug", businessHandler.GetBySlug)
	v1.GET("/businesses/:id/services", serviceHandler.ListByBusiness, optional)

	// --- Service catalog ---
	services := v1.Group("/services")
	services.GET("/:id", serviceHandler.Get, optional)
	services.PATCH("/:id", serviceHandler.Update, authed)
	services.DELETE("/:id", serviceHandler.Delete, authed)

	// --- Templates ---
	templates := v1.Group("/templates", authed)
	templates.POST("", templateHandler.Create)
	templates.GET("", templateHandler.List)
	templates.GET("/:id", templateHandler.Get)
	templates.PATCH("/:id/rating", templateHandler.SetRating, adminOnly)
	templates.DELETE("/:id", templateHandler.Delete)

	// --- Reservations ---
	reservations := v1.Group("/reservations")
	reservations.POST("", reservationHandler.Create, optional)
	reservations.GET("", reservationHandler.List, authed)
	reservations.GET("/mine", reservationHandler.ListMine, authed)
	reservations.GET("/:id", reservationHandler.Get, authed)
	reservations.PATCH("/:id/status", reservationHandler.UpdateStatus, authed)
	reservations.POST("/:id/cancel", reservationHandler.Cancel, authed)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	// --- Operational surface ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
