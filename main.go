package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"golang-exercisetracker/config"
	controller "golang-exercisetracker/controllers"
	"golang-exercisetracker/database"
	"golang-exercisetracker/helpers"
	"golang-exercisetracker/metrics"
	"golang-exercisetracker/middleware"
	"golang-exercisetracker/routes"
	"golang-exercisetracker/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file loaded", slog.Any("error", err))
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := helpers.NewLogger(cfg.Log)
	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := database.Connect(ctx, cfg.Mongo)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := client.Disconnect(shutdownCtx); err != nil {
			logger.Warn("disconnect mongo", slog.Any("error", err))
		}
	}()

	db := client.Database(cfg.Mongo.Database)
	if err := database.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	collector := metrics.NewCollector()
	opts := services.Options{
		Logger:       logger,
		Metrics:      collector,
		StoreTimeout: cfg.Mongo.Timeout,
	}

	users := services.NewUserService(database.NewUserRepository(db), opts)
	exercises := services.NewExerciseService(users, database.NewExerciseRepository(db), opts)

	limiter := middleware.NewRateLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst)
	defer limiter.Stop()

	if !strings.EqualFold(cfg.Log.Level, "debug") {
		gin.SetMode(gin.ReleaseMode)
	}

	router := routes.NewRouter(routes.Dependencies{
		Logger:      logger,
		Metrics:     collector,
		RateLimiter: limiter,
		CORS:        cfg.CORS,
		Users:       controller.NewUserController(users),
		Exercises:   controller.NewExerciseController(exercises),
		Store:       database.MongoPinger{Client: client},
		PingTimeout: cfg.Mongo.Timeout,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
