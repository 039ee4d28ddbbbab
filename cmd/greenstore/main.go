package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	httpserver "greenstore/internal/http"
	"greenstore/internal/service"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	cfg, err := initConfig(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	initLogger(&cfg)

	svc, err := service.Open(cfg.Storage.DataDir)
	if err != nil {
		slog.Error("failed to open green space store", "error", err)
		os.Exit(1)
	}
	defer svc.Close()

	srv := httpserver.NewServer(svc, strconv.Itoa(cfg.Server.Port))
	if err := srv.Start(); err != nil {
		slog.Error("failed to start HTTP server", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	<-ctx.Done()

	if err := srv.Stop(); err != nil {
		slog.Error("failed to stop HTTP server", "error", err)
	}
	slog.Info("greenstore stopped")
}
