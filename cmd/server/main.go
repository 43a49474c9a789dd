package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/kazakovdmitriy/go-dynrules-signer/internal/config"
	"github.com/kazakovdmitriy/go-dynrules-signer/internal/logger"
	"github.com/kazakovdmitriy/go-dynrules-signer/internal/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.ParseServerConfig()

	log, err := logger.Initialize(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("logger initialization error: %w", err)
	}
	defer func() { _ = log.Sync() }()

	app, err := server.NewApp(cfg, log)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Error("server stopped with error", zap.Error(err))
		return err
	}
	return nil
}
