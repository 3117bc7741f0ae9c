package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// ErrMisconfigured is returned by adapters constructed without their required keys.
var ErrMisconfigured = errors.New("misconfigured")

// Classifier modes.
const (
	ClassifierHeuristic = "heuristic"
	ClassifierGemini    = "gemini"
)

// Config holds all application configuration loaded from the environment.
type Config struct {
	AppEnv   string `validate:"required"`
	HTTPAddr string `validate:"required"`

	MongoURI      string `validate:"required"`
	MongoDatabase string `validate:"required"`

	JWTSecret string        `validate:"required"`
	JWTTTL    time.Duration `validate:"gt=0"`

	FrontendURL  string
	CookieDomain string

	MapboxToken   string `validate:"required"`
	MapboxBaseURL string `validate:"required,url"`

	ClassifierMode string `validate:"oneof=heuristic gemini"`
	GeminiAPIKey   string `validate:"required_if=ClassifierMode gemini"`
	GeminiModel    string `validate:"required"`
	GeminiBaseURL  string `validate:"required,url"`

	GCSBucket          string `validate:"required"`
	GCSCredentialsFile string
	GCSPublicBaseURL   string `validate:"required,url"`

	RedisAddress    string
	RedisPassword   string
	IssueLimitQueue string
	IssueDailyLimit int `validate:"gte=0"`

	HTTPClientTimeout time.Duration `validate:"gt=0"`
}

// RedisEnabled reports whether the optional Redis-backed submission cap is configured.
func (c Config) RedisEnabled() bool {
	return c.RedisAddress != "" && c.IssueDailyLimit > 0
}

// Load reads .env (if present) and the process environment, then validates the result.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("no .env file found")
	}

	jwtTTL, err := getEnvDuration("JWT_TTL", 72*time.Hour)
	if err != nil {
		return Config{}, fmt.Errorf("parse JWT_TTL: %w", err)
	}
	timeout, err := getEnvDuration("HTTP_CLIENT_TIMEOUT", 15*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("parse HTTP_CLIENT_TIMEOUT: %w", err)
	}
	limit, err := getEnvInt("ISSUE_DAILY_LIMIT", 10)
	if err != nil {
		return Config{}, fmt.Errorf("parse ISSUE_DAILY_LIMIT: %w", err)
	}

	cfg := Config{
		AppEnv:             getEnv("APP_ENV", "dev"),
		HTTPAddr:           getEnv("HTTP_ADDR", ":8080"),
		MongoURI:           getEnv("MONGODB_URI", ""),
		MongoDatabase:      getEnv("MONGODB_DATABASE", "nagar_connect"),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		JWTTTL:             jwtTTL,
		FrontendURL:        getEnv("FRONTEND_URL", "http://localhost:3000"),
		CookieDomain:       getEnv("DOMAIN", ""),
		MapboxToken:        getEnv("MAPBOX_ACCESS_TOKEN", ""),
		MapboxBaseURL:      getEnv("MAPBOX_BASE_URL", "https://api.mapbox.com"),
		ClassifierMode:     getEnv("CLASSIFIER_MODE", ClassifierHeuristic),
		GeminiAPIKey:       getEnv("GEMINI_API_KEY", ""),
		GeminiModel:        getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		GeminiBaseURL:      getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
		GCSBucket:          getEnv("GCS_BUCKET", ""),
		GCSCredentialsFile: getEnv("GCS_CREDENTIALS_FILE", ""),
		GCSPublicBaseURL:   getEnv("GCS_PUBLIC_BASE_URL", "https://storage.googleapis.com"),
		RedisAddress:       getEnv("REDIS_ADDRESS", ""),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		IssueLimitQueue:    getEnv("REDIS_QUEUE_FOR_ISSUE_LIMIT", "issue-limit"),
		IssueDailyLimit:    limit,
		HTTPClientTimeout:  timeout,
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks required keys once at startup.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%w: %s failed on '%s'", ErrMisconfigured, fe.Field(), fe.Tag())
		}
		return fmt.Errorf("%w: %v", ErrMisconfigured, err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	return strconv.Atoi(v)
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	return time.ParseDuration(v)
}
