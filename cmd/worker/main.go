package main

import (
	"context"

	_ "github.com/lib/pq"
	log "github.com/sirupsen/logrus"

	"procurement/db"
	"procurement/internal/config"
	"procurement/internal/logging"
	"procurement/internal/tasks"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Cannot load config: %v", err)
	}
	logger := logging.Setup(cfg.Log.Level, cfg.Log.Format)

	dbConn, err := db.Connect(context.Background(), cfg.PostgresConn, cfg.DBConnectAttempts)
	if err != nil {
		logger.Fatalf("Cannot connect to DB: %v", err)
	}
	defer dbConn.Close()

	processor := tasks.NewTaskProcessor(db.NewStorage(dbConn), logger)
	srv := tasks.NewServer(tasks.RedisOpt(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB), cfg.Worker.Concurrency, logger)

	// Run blocks until SIGTERM or SIGINT and then drains in-flight tasks.
	logger.Info("starting task worker")
	if err := srv.Run(tasks.NewServeMux(processor)); err != nil {
		logger.Fatalf("Worker failed: %v", err)
	}
}
