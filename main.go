package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"nagar-connect/classifier"
	"nagar-connect/config"
	"nagar-connect/controllers"
	"nagar-connect/geocoding"
	"nagar-connect/media"
	"nagar-connect/routes"
	"nagar-connect/services"
	"nagar-connect/store"
)

func main() {
	if err := run(); err != nil {
		log.Error().Err(err).Msg("application error")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := config.NewLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, db, err := config.ConnectDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := config.DisconnectDB(client); err != nil {
			logger.Error().Err(err).Msg("disconnect mongodb")
		}
	}()
	logger.Info().Str("db", cfg.MongoDatabase).Msg("MongoDB connection established")

	st := store.New(db)
	if err := st.EnsureIndexes(ctx); err != nil {
		return err
	}

	mapbox, err := geocoding.NewMapbox(geocoding.Config{
		AccessToken: cfg.MapboxToken,
		BaseURL:     cfg.MapboxBaseURL,
		Timeout:     cfg.HTTPClientTimeout,
	}, logger)
	if err != nil {
		return fmt.Errorf("mapbox: %w", err)
	}

	vision, err := classifier.New(classifier.Config{
		Mode:    cfg.ClassifierMode,
		APIKey:  cfg.GeminiAPIKey,
		Model:   cfg.GeminiModel,
		BaseURL: cfg.GeminiBaseURL,
		Timeout: cfg.HTTPClientTimeout,
	}, logger)
	if err != nil {
		return fmt.Errorf("classifier: %w", err)
	}

	gcs, err := media.NewGCSStore(ctx, media.GCSConfig{
		Bucket:          cfg.GCSBucket,
		CredentialsFile: cfg.GCSCredentialsFile,
		PublicBaseURL:   cfg.GCSPublicBaseURL,
	})
	if err != nil {
		return fmt.Errorf("object storage: %w", err)
	}
	defer gcs.Close()

	opts := routes.Options{
		JWTSecret:       cfg.JWTSecret,
		FrontendURL:     cfg.FrontendURL,
		Release:         cfg.AppEnv != "dev",
		IssueLimitQueue: cfg.IssueLimitQueue,
		IssueDailyLimit: cfg.IssueDailyLimit,
	}
	if cfg.RedisEnabled() {
		rdb, err := config.ConnectRedis(ctx, cfg)
		if err != nil {
			return err
		}
		defer rdb.Close()
		opts.Redis = rdb
		logger.Info().Int("limit", cfg.IssueDailyLimit).Msg("daily issue cap enabled")
	}

	intake := services.NewIntake(mapbox, st, services.DefaultNormalizer(), logger).WithClassifier(vision)
	query := services.NewQuery(st, st, logger)
	accounts := services.NewAccounts(st, logger)

	handlers := routes.Handlers{
		Auth: controllers.NewAuthController(accounts, controllers.SessionConfig{
			Secret:     cfg.JWTSecret,
			TTL:        cfg.JWTTTL,
			Production: cfg.AppEnv == "production",
			Domain:     cfg.CookieDomain,
		}, logger),
		Issues:   controllers.NewIssueController(intake, query, logger),
		Media:    controllers.NewMediaController(media.NewIntake(gcs, media.ObjectName, logger), logger),
		Classify: controllers.NewClassifyController(vision, logger),
		Geocode:  controllers.NewGeocodeController(mapbox, logger),
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           routes.SetupRoutes(handlers, opts, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return serve(ctx, srv, logger)
}

// serve runs srv until ctx is cancelled, then drains in-flight requests.
func serve(ctx context.Context, srv *http.Server, logger zerolog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
