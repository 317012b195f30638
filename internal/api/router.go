package api

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"restaurant-seating-backend/config"
	"restaurant-seating-backend/internal/mw"
	"restaurant-seating-backend/internal/seating"
)

// NewRouter creates and configures a new Gin router. Background middleware
// work stops when ctx is cancelled. /metrics is only served when gatherer is set.
func NewRouter(ctx context.Context, svc *seating.Service, cfg config.ServerConfig, logger *zap.Logger, gatherer prometheus.Gatherer) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := gin.New()
	r.Use(mw.Logger(logger), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization", "Accept"},
		MaxAge:       12 * time.Hour,
	}))

	handler := NewHandler(svc, logger)

	responseCache := mw.NewResponseCache(cfg.CacheTTL)
	caching := responseCache.Cache()

	r.GET("/", handler.GetRoot)
	r.GET("/health", handler.GetHealth)
	if gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	api := r.Group("/")
	api.Use(mw.RateLimiter(ctx, rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst), responseCache.Invalidate())
	{
		api.POST("/seed", handler.PostSeed)

		api.GET("/areas", caching, handler.GetAreas)
		api.POST("/areas/:areaId/tables", handler.PostTable)

		api.GET("/availability", handler.GetAvailability)

		api.GET("/reservations", caching, handler.GetReservations)
		api.POST("/reservations", handler.PostReservation)
		api.PATCH("/reservations/:id/status", handler.PatchReservationStatus)
	}

	return r
}
