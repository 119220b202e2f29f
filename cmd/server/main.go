package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mcoot/sosgame/internal/api"
	"github.com/mcoot/sosgame/internal/config"
	"github.com/mcoot/sosgame/internal/factory"
)

func main() {
	configPath := flag.String("config", os.Getenv("SOS_CONFIG"), "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	level, _ := cfg.SlogLevel()

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	app, err := factory.New(factory.FromConfig(cfg, logger))
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	go app.Hub.Run(ctx)

	router := api.NewRouter(api.RouterConfig{
		Logger:      logger,
		Matches:     app.Registry,
		WebSocket:   app.WSServer,
		StorageType: app.StorageType,
	})
	server := api.NewServer(router, cfg.ServerConfig(), logger)
	// Stopping the hub closes the WebSockets the HTTP server no longer tracks
	server.OnShutdown(cancel)
	if err := server.Listen(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		cancel()
		<-app.Hub.Done()
		_ = app.Close()
		os.Exit(1)
	}

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started",
		slog.String("addr", server.Addr()),
		slog.String("storage", app.StorageType),
	)

	// Wait for shutdown or error
	exitCode := 0
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			exitCode = 1
		}
	case <-ctx.Done():
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			exitCode = 1
		}
	}

	cancel()
	<-app.Hub.Done()
	if err := app.Close(); err != nil {
		logger.Error("failed to close application", slog.String("error", err.Error()))
	}

	logger.Info("server stopped")
	os.Exit(exitCode)
}
