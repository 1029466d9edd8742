package main

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/arunvm123/thamco-events/events-service/cache"
	rediscache "github.com/arunvm123/thamco-events/events-service/cache/redis"
	"github.com/arunvm123/thamco-events/events-service/config"
	"github.com/arunvm123/thamco-events/events-service/coordinator"
	"github.com/arunvm123/thamco-events/events-service/metrics"
	"github.com/arunvm123/thamco-events/events-service/notifier"
	"github.com/arunvm123/thamco-events/events-service/repository"
	"github.com/arunvm123/thamco-events/events-service/repository/postgres"
	venuehttp "github.com/arunvm123/thamco-events/events-service/service/http"
	"github.com/arunvm123/thamco-events/internal/logger"
)

// Dependencies are the collaborators the HTTP layer is built from
type Dependencies struct {
	Events      repository.EventRepository
	Bookings    repository.BookingRepository
	Directory   repository.DirectoryRepository
	Cache       cache.CacheRepository
	Coordinator *coordinator.Coordinator
	Metrics     *metrics.Metrics
	Gatherer    prometheus.Gatherer
}

// NewDependencies connects to the database, cache, broker and venue service.
// The returned cleanup closes whatever was opened.
func NewDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, func(), error) {
	var closers []func() error
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				logger.Warn("Failed to close dependency", zap.Error(err))
			}
		}
	}

	db, err := postgres.Connect(&cfg.Database)
	if err != nil {
		return nil, cleanup, fmt.Errorf("failed to initialize repository: %w", err)
	}
	closers = append(closers, closeDB(db))

	// The service runs without a cache when Redis is unreachable
	var cacheRepo cache.CacheRepository
	redisCache, err := rediscache.NewRedisCacheRepository(ctx, cfg.Redis.GetRedisURL(), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Warn("Redis unavailable, continuing without cache", zap.Error(err))
	} else {
		cacheRepo = redisCache
		closers = append(closers, redisCache.Close)
	}

	writer := notifier.NewKafkaWriter(&cfg.Kafka)
	publisher := notifier.NewKafkaPublisher(writer)
	closers = append(closers, publisher.Close)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewWithRegistry(registry)

	venues := venuehttp.NewHTTPVenueServiceWithConfig(&cfg.VenueService, m)
	events := postgres.NewEventRepository(db)

	return &Dependencies{
		Events:      events,
		Bookings:    postgres.NewBookingRepository(db),
		Directory:   postgres.NewDirectoryRepository(db),
		Cache:       cacheRepo,
		Coordinator: coordinator.New(events, venues, cacheRepo, publisher, m, cfg.Workflow),
		Metrics:     m,
		Gatherer:    registry,
	}, cleanup, nil
}

func closeDB(db *gorm.DB) func() error {
	return func() error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
}

func SetupRouter(deps *Dependencies) *gin.Engine {
	eventHandler := NewEventHandler(deps.Coordinator, deps.Events, deps.Cache)
	bookingHandler := NewBookingHandler(deps.Bookings, deps.Coordinator)
	directoryHandler := NewDirectoryHandler(deps.Directory, deps.Coordinator)

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(CORSMiddleware())
	r.Use(LoggingMiddleware())
	r.Use(MetricsMiddleware(deps.Metrics))

	r.GET("/health", eventHandler.HealthCheck)
	if deps.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	api := r.Group("/api")
	api.GET("/event-types", eventHandler.ListEventTypes)
	api.GET("/reservations/orphaned", eventHandler.ListOrphanedReservations)

	// Event creation workflow
	events := api.Group("/events")
	events.POST("/availability", eventHandler.CheckAvailability)
	events.POST("/selection", eventHandler.SelectVenue)
	events.POST("", eventHandler.CreateEvent)

	events.GET("", eventHandler.ListEvents)
	events.GET("/:id", eventHandler.GetEvent)
	events.PUT("/:id", eventHandler.UpdateEvent)
	events.DELETE("/:id", eventHandler.CancelEvent)

	// Guests and staff on an event
	events.GET("/:id/bookings", bookingHandler.ListBookings)
	events.POST("/:id/bookings", bookingHandler.AddBooking)
	events.PATCH("/:id/bookings/:guestId", bookingHandler.SetAttendance)
	events.DELETE("/:id/bookings/:guestId", bookingHandler.RemoveBooking)
	events.GET("/:id/staff", bookingHandler.ListStaffAssignments)
	events.POST("/:id/staff", bookingHandler.AssignStaff)
	events.DELETE("/:id/staff/:staffId", bookingHandler.UnassignStaff)

	guests := api.Group("/guests")
	guests.GET("", directoryHandler.ListGuests)
	guests.POST("", directoryHandler.CreateGuest)
	guests.GET("/:id", directoryHandler.GetGuest)
	guests.PUT("/:id", directoryHandler.UpdateGuest)
	guests.DELETE("/:id", directoryHandler.DeleteGuest)
	guests.POST("/:id/anonymise", directoryHandler.AnonymiseGuest)

	staff := api.Group("/staff")
	staff.GET("", directoryHandler.ListStaff)
	staff.POST("", directoryHandler.CreateStaff)
	staff.GET("/:id", directoryHandler.GetStaff)
	staff.PUT("/:id", directoryHandler.UpdateStaff)
	staff.DELETE("/:id", directoryHandler.DeleteStaff)

	return r
}
