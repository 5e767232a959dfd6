package handlers

import (
	"time"

	"moviewatch/internal/debounce"
	"moviewatch/internal/logger"
	"moviewatch/internal/metrics"
	"moviewatch/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services       *service.Service
	log            *logger.Logger
	metrics        *metrics.Metrics
	gatherer       prometheus.Gatherer
	searchDebounce time.Duration
}

type Option func(*Handler)

// WithMetrics records request metrics and serves g on /metrics.
func WithMetrics(m *metrics.Metrics, g prometheus.Gatherer) Option {
	return func(h *Handler) {
		h.metrics = m
		h.gatherer = g
	}
}

// WithSearchDebounce sets the quiet period for websocket search input.
func WithSearchDebounce(d time.Duration) Option {
	return func(h *Handler) {
		if d > 0 {
			h.searchDebounce = d
		}
	}
}

// NewHandler constructs a new HTTP handler with dependencies. A nil log discards output.
func NewHandler(services *service.Service, log *logger.Logger, opts ...Option) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	h := &Handler{services: services, log: log, searchDebounce: debounce.DefaultDelay}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.requestLogger)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", h.health)
	if h.gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{})))
	}

	h.registerAuthRoutes(router)
	h.registerAPIRoutes(router)

	// debounced live search, same port
	router.GET("/ws/search", h.wsSearch)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.userMiddleware)
	{
		api.GET("/me", h.me)
		h.registerMovieRoutes(api)
		h.registerWatchlistRoutes(api)
	}
}

func (h *Handler) registerMovieRoutes(api *gin.RouterGroup) {
	movies := api.Group("/movies")
	{
		movies.GET("", h.searchMovies)
		movies.GET("/:id", h.getMovie)
	}
}

func (h *Handler) registerWatchlistRoutes(api *gin.RouterGroup) {
	watchlist := api.Group("/watchlist")
	{
		watchlist.GET("", h.getWatchlist)
		// Body (optional): {"version":3}
		watchlist.POST("/:movieId", h.toggleWatchlist)
	}
}
