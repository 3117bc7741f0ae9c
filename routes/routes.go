package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"nagar-connect/controllers"
	"nagar-connect/middlewares"
)

// Handlers groups every controller mounted by SetupRoutes.
type Handlers struct {
	Auth     *controllers.AuthController
	Issues   *controllers.IssueController
	Media    *controllers.MediaController
	Classify *controllers.ClassifyController
	Geocode  *controllers.GeocodeController
}

// Options configures cross-cutting middleware.
type Options struct {
	JWTSecret   string
	FrontendURL string
	Release     bool

	// Redis is nil when the daily submission cap is disabled.
	Redis           redis.Cmdable
	IssueLimitQueue string
	IssueDailyLimit int
}

// SetupRoutes builds the engine with all API routes.
func SetupRoutes(h Handlers, opts Options, log zerolog.Logger) *gin.Engine {
	if opts.Release {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.RequestLogger(log))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{opts.FrontendURL},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	auth := middlewares.AuthMiddleware(opts.JWTSecret, log)
	api := r.Group("/api")
	AuthRoutes(api, h.Auth, auth)
	IssueRoutes(api, h.Issues, auth, submissionCap(opts, log))
	MediaRoutes(api, h.Media, h.Classify, h.Geocode, auth)
	return r
}

// submissionCap returns the rate limiter, or a pass-through when Redis is off.
func submissionCap(opts Options, log zerolog.Logger) gin.HandlerFunc {
	if opts.Redis == nil || opts.IssueDailyLimit <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	return middlewares.IssueRateLimiter(opts.Redis, opts.IssueLimitQueue, opts.IssueDailyLimit, log)
}
