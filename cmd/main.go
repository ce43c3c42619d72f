package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/m7mdxyz/discord-logger/config"
	"github.com/m7mdxyz/discord-logger/internal/bot"
	"github.com/m7mdxyz/discord-logger/internal/dashboard"
	"github.com/m7mdxyz/discord-logger/internal/repositories"
	"github.com/m7mdxyz/discord-logger/internal/storage"
	logger "github.com/m7mdxyz/discord-logger/middleware/log"
)

func main() {
	cfg, err := config.LoadConfig("./config.toml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zlog, err := logger.NewLogger(&cfg.Logging)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zlog.Close()

	dsn := storage.BuildDSN(cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.DBName)
	db, err := storage.InitPostgres(dsn, cfg.Postgres.MaxIdleConns, cfg.Postgres.MaxOpenConns)
	if err != nil {
		zlog.Fatal("init postgres", zap.Error(err))
	}
	store := repositories.NewStore(db)

	b, err := bot.New(&cfg.Bot, store, zlog)
	if err != nil {
		zlog.Fatal("init bot", zap.Error(err))
	}
	if err := b.Open(); err != nil {
		zlog.Fatal("open gateway session", zap.Error(err))
	}
	defer b.Close()

	// The dashboard is an independent read-only process sharing the store.
	srv := dashboard.NewServer(&cfg.Dashboard, store, zlog)
	go func() {
		zlog.Info("dashboard listening", zap.Int("port", cfg.Dashboard.Port))
		if err := srv.Run(); err != nil {
			zlog.Error("dashboard stopped", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	zlog.Info("shutting down")
}
