package routes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"golang-exercisetracker/apperror"
	"golang-exercisetracker/config"
	controller "golang-exercisetracker/controllers"
	"golang-exercisetracker/metrics"
	"golang-exercisetracker/middleware"
)

// Dependencies is everything the router wires together. RateLimiter may be
// nil to disable limiting.
type Dependencies struct {
	Logger      *slog.Logger
	Metrics     *metrics.Collector
	RateLimiter *middleware.RateLimiter
	CORS        config.CORSConfig
	Users       *controller.UserController
	Exercises   *controller.ExerciseController
	Store       controller.Pinger
	PingTimeout time.Duration
}

func NewRouter(d Dependencies) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Recovery(d.Logger))
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(d.Logger))
	router.Use(middleware.Metrics(d.Metrics))
	router.Use(cors.New(corsConfig(d.CORS)))

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, apperror.ErrorResponse{Error: "Not found"})
	})

	// Operational endpoints sit outside the rate limit.
	router.GET("/healthz", controller.Health(d.Store, d.PingTimeout))
	router.GET("/metrics", gin.WrapH(d.Metrics.Handler()))

	public := router.Group("/")
	if d.RateLimiter != nil {
		public.Use(d.RateLimiter.Middleware())
	}
	public.GET("/", controller.Index())

	api := public.Group("/api")
	{
		UserRoutes(api, d.Users)
		ExerciseRoutes(api, d.Exercises)
	}

	return router
}

func corsConfig(c config.CORSConfig) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if c.AllowAll() {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = c.Origins()
	}
	return cfg
}
