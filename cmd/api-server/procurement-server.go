package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	_ "github.com/lib/pq"
	log "github.com/sirupsen/logrus"

	"procurement/db"
	"procurement/db/migrations"
	"procurement/internal/backoffice"
	"procurement/internal/cache"
	"procurement/internal/config"
	"procurement/internal/handlers"
	"procurement/internal/logging"
	"procurement/internal/negotiation"
	"procurement/internal/tasks"
	"procurement/internal/vendors"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Cannot load config: %v", err)
	}
	logger := logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbConn, err := db.Connect(ctx, cfg.PostgresConn, cfg.DBConnectAttempts)
	if err != nil {
		logger.Fatalf("Cannot connect to DB: %v", err)
	}
	defer dbConn.Close()

	if err := migrations.Run(dbConn.DB); err != nil {
		logger.Fatalf("Cannot apply migrations: %v", err)
	}

	rdb, err := cache.ConnectRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Fatalf("Cannot connect to Redis: %v", err)
	}
	defer rdb.Close()

	taskClient := asynq.NewClient(tasks.RedisOpt(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB))
	defer taskClient.Close()

	store := db.NewStorage(dbConn)
	engine := negotiation.NewEngine(
		negotiation.NewPostgresStore(store),
		negotiation.WithPublisher(tasks.NewPublisher(taskClient)),
		negotiation.WithContractorCache(cache.NewContractorNames(rdb, cfg.Redis.CacheTTL)),
		negotiation.WithPageSize(cfg.PageSize),
		negotiation.WithLogger(logger),
	)
	directory := vendors.NewDirectory(vendors.NewPostgresStore(store), cfg.PageSize, logger)
	office := backoffice.NewService(backoffice.NewPostgresStore(store), cfg.PageSize, logger)

	h := handlers.NewHandler(engine, directory, office, logger)
	srv := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           h.Routes(cfg.JWT.Secret),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("Starting server on %s", cfg.ServerAddress)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("graceful shutdown failed")
	}
}
