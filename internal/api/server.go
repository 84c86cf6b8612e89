package api

import (
	"fmt"
	"net/http"

	"quinta/internal/cache"
	"quinta/internal/config"
	"quinta/internal/database"
	"quinta/internal/external"
	"quinta/internal/handlers"
	"quinta/internal/logger"
	"quinta/internal/messaging"
	"quinta/internal/metrics"
	"quinta/internal/middleware"
	"quinta/internal/repository"
	"quinta/internal/search"
	"quinta/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	router   *gin.Engine
	config   *config.Config
	db       *database.DB
	nats     *messaging.NATSClient
	valkey   *cache.ValkeyClient
	services *service.Services
	repos    *repository.Repositories
}

func NewServer(cfg *config.Config) *Server {
	gin.SetMode(cfg.GinMode)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	if err := db.RunMigrations(); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		logger.Fatal("Failed to connect to NATS", "error", err)
	}

	stripeClient := external.NewStripeClient(cfg.Stripe)

	// Cache and search are useful but not load-bearing; the API starts
	// without them.
	valkeyClient, err := cache.NewValkeyClient(cfg.Cache)
	if err != nil {
		logger.Get().Warn("Valkey unavailable, room listings will not be cached", "error", err)
		valkeyClient = nil
	}

	roomIndex, err := search.NewRoomIndex(cfg.Search)
	if err != nil {
		logger.Get().Warn("Elasticsearch unavailable, room search disabled", "error", err)
		roomIndex = nil
	}

	repos := repository.NewRepositories(db)
	services := service.NewServices(cfg, repos, natsClient, stripeClient, roomIndex)

	metrics.Register()

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS())
	router.Use(middleware.Logger())

	server := &Server{
		router:   router,
		config:   cfg,
		db:       db,
		nats:     natsClient,
		valkey:   valkeyClient,
		services: services,
		repos:    repos,
	}

	server.setupRoutes()

	return server
}

func (s *Server) setupRoutes() {
	h := handlers.NewHandlers(s.services, s.valkey)

	api := s.router.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/forgot-password", h.ForgotPassword)
		auth.POST("/reset-password", h.ResetPassword)
	}

	// Room reads are public so the frontend can browse without a session.
	rooms := api.Group("/rooms")
	{
		rooms.GET("", h.ListRooms)
		rooms.GET("/types", h.ListRoomTypes)
		rooms.GET("/available", h.ListAvailableRooms)
		rooms.GET("/search", h.SearchRooms)
		rooms.GET("/:id", h.GetRoom)
		rooms.GET("/:id/image", h.GetRoomImage)
	}

	authed := api.Group("")
	authed.Use(middleware.JWTAuth(s.config.JWTSecret))
	{
		authed.GET("/users/me", h.GetAccount)
		authed.PUT("/users/me", h.UpdateAccount)
		authed.DELETE("/users/me", h.DeleteAccount)

		authed.POST("/bookings", h.CreateBooking)
		authed.GET("/bookings/mine", h.ListMyBookings)
		authed.GET("/bookings/:reference", h.GetBookingByReference)

		authed.POST("/payments/pay", h.CreatePaymentIntent)
		authed.PUT("/payments/update", h.UpdatePayment)
	}

	admin := api.Group("")
	admin.Use(middleware.JWTAuth(s.config.JWTSecret), middleware.RequireAdmin())
	{
		admin.GET("/users", h.ListUsers)

		admin.POST("/rooms", h.CreateRoom)
		admin.PUT("/rooms", h.UpdateRoom)
		admin.DELETE("/rooms/:id", h.DeleteRoom)

		admin.GET("/bookings", h.ListAllBookings)
		admin.PUT("/bookings", h.UpdateBooking)

		admin.GET("/payments/:reference", h.ListPayments)
		admin.GET("/notifications/:reference", h.ListNotifications)
	}

	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func (s *Server) healthCheck(c *gin.Context) {
	if err := s.db.HealthCheck(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "degraded",
			"error":  "database unreachable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "quinta-api",
	})
}

func (s *Server) Run() error {
	addr := fmt.Sprintf(":%s", s.config.Port)
	return s.router.Run(addr)
}

// GetRouter exposes the router for the HTTP server and tests.
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

// Cleanup closes long-lived connections.
func (s *Server) Cleanup() error {
	if s.nats != nil {
		if err := s.nats.Close(); err != nil {
			logger.Get().Error("Error closing NATS connection", "error", err)
		}
	}

	if s.valkey != nil {
		if err := s.valkey.Close(); err != nil {
			logger.Get().Error("Error closing Valkey connection", "error", err)
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			logger.Get().Error("Error closing database connection", "error", err)
			return err
		}
	}

	return nil
}
