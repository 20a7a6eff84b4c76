package api

import (
	"log"
	"net/http"

	"railbook/internal/cache"
	"railbook/internal/config"
	"railbook/internal/database"
	"railbook/internal/handlers"
	"railbook/internal/messaging"
	"railbook/internal/middleware"
	"railbook/internal/repository"
	"railbook/internal/search"
	"railbook/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server wires the HTTP API together
type Server struct {
	router   *gin.Engine
	config   *config.Config
	db       *database.DB
	nats     *messaging.NATSClient
	valkey   *cache.ValkeyClient
	services *service.Services
	repos    *repository.Repositories
}

// NewServer connects every backing system and builds the router
func NewServer(cfg *config.Config) *Server {
	gin.SetMode(cfg.GinMode)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.RunMigrations(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}

	// Valkey and Elasticsearch are optional: share links and free-text
	// search degrade, everything else keeps working
	valkeyClient, err := cache.NewValkeyClient(cfg.Valkey)
	if err != nil {
		log.Printf("Valkey unavailable, share links disabled: %v", err)
		valkeyClient = nil
	}

	var indexer service.BookingIndexer
	esClient, err := search.NewElasticsearchClient(config.LoadElasticsearchConfig())
	if err != nil {
		log.Printf("Elasticsearch unavailable, falling back to database search: %v", err)
	} else {
		indexer = esClient
	}

	var tokens service.TokenCache
	if valkeyClient != nil {
		tokens = valkeyClient
	}

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos.Bookings, natsClient, indexer, tokens, service.ShareConfig{
		BaseURL: cfg.ShareBaseURL,
		TTL:     cfg.ShareTTL,
	})

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.Logger())
	router.Use(middleware.Metrics())

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
	h := handlers.NewHandlers(s.services)

	api := s.router.Group("/api")
	{
		// Customer-facing endpoints
		api.POST("/bookings", h.CreateBooking)

		trips := api.Group("/trips")
		{
			trips.GET("/:reference", h.GetBookingByReference)
			trips.GET("/:reference/calendar.ics", h.DownloadCalendar)
			trips.POST("/:reference/share", h.CreateShareLink)
		}

		api.GET("/share/:token", h.ResolveShareLink)

		// Back office, behind Basic Auth
		admin := api.Group("/admin")
		admin.Use(middleware.BasicAuth(s.repos.Users, s.valkey))
		{
			admin.GET("/bookings", h.SearchBookings)
			admin.GET("/bookings/:id", h.GetBooking)
			admin.PATCH("/bookings/:id/status", h.UpdateBookingStatus)
			admin.PATCH("/bookings/:id/ticket", h.UpdateBookingTicket)
			admin.POST("/bookings/:id/refund", h.RefundBooking)
			admin.PATCH("/bookings/:id/payment", h.UpdateBookingPayment)

			admin.GET("/lookup/pnr/:pnr", h.GetBookingByPNR)
			admin.GET("/lookup/payment/:paymentId", h.GetBookingByPaymentID)
			admin.GET("/today", h.GetTodayBookings)

			admin.GET("/customers/:email/bookings", h.GetCustomerBookings)
			admin.GET("/customers/:email/bookings/upcoming", h.GetUpcomingBookings)
			admin.GET("/customers/:email/bookings/past", h.GetPastBookings)

			admin.GET("/stats", h.GetStats)
		}
	}

	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func (s *Server) healthCheck(c *gin.Context) {
	dbHealth := s.db.HealthCheck(c.Request.Context())

	status := http.StatusOK
	if dbHealth.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"status":   dbHealth.Status,
		"service":  "railbook-api",
		"database": dbHealth,
	})
}

// GetRouter returns the router for testing
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

// Cleanup closes backing connections
func (s *Server) Cleanup() error {
	if s.nats != nil {
		if err := s.nats.Close(); err != nil {
			log.Printf("Error closing NATS connection: %v", err)
		}
	}

	if s.valkey != nil {
		if err := s.valkey.Close(); err != nil {
			log.Printf("Error closing Valkey connection: %v", err)
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			log.Printf("Error closing database connection: %v", err)
			return err
		}
	}

	return nil
}
