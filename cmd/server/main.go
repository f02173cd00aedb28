// Package main is the entry point for the shopping list server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/vyrodovalexey/shoppinglist/internal/config"
	"github.com/vyrodovalexey/shoppinglist/internal/server"
	"github.com/vyrodovalexey/shoppinglist/internal/shoppinglist"
	"github.com/vyrodovalexey/shoppinglist/internal/store"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		basicLogger, _ := zap.NewProduction()
		basicLogger.Error("failed to load configuration", zap.Error(err))
		return 1
	}

	logger, err := initLogger(cfg.LogLevel)
	if err != nil {
		basicLogger, _ := zap.NewProduction()
		basicLogger.Error("failed to initialize logger", zap.Error(err))
		return 1
	}
	defer func() {
		_ = logger.Sync()
	}()

	logger.Info("configuration loaded",
		zap.Int("server_port", cfg.ServerPort),
		zap.String("log_level", cfg.LogLevel),
		zap.Duration("shutdown_timeout", cfg.ShutdownTimeout),
		zap.Bool("metrics_enabled", cfg.MetricsEnabled),
		zap.Bool("seed_demo", cfg.SeedDemo),
		zap.String("seed_file", cfg.SeedFile),
		zap.Int("initial_capacity", cfg.InitialCapacity),
		zap.Strings("cors_origins", cfg.CORSOrigins),
		zap.Bool("ws_enabled", cfg.WSEnabled),
	)

	list, err := buildList(cfg)
	if err != nil {
		logger.Error("failed to build shopping list", zap.Error(err))
		return 1
	}
	logger.Info("shopping list ready", zap.Int("items", list.Len()))

	srv := server.New(cfg, logger, store.NewMemoryStore(list))

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- srv.Start()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Error("server error", zap.Error(err))
		return 1
	case sig := <-shutdown:
		logger.Info("shutdown signal received", zap.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("graceful shutdown failed", zap.Error(err))
			return 1
		}
	}

	logger.Info("server stopped")
	return 0
}

// buildList creates the initial list. A seed file wins over the demo set.
func buildList(cfg *config.Config) (*shoppinglist.Service, error) {
	opts := []shoppinglist.Option{shoppinglist.WithCapacity(cfg.InitialCapacity)}

	switch {
	case cfg.SeedFile != "":
		items, err := shoppinglist.LoadSeedFile(cfg.SeedFile)
		if err != nil {
			return nil, fmt.Errorf("seeding from %s: %w", cfg.SeedFile, err)
		}
		return shoppinglist.New(append(opts, shoppinglist.WithItems(items))...), nil
	case cfg.SeedDemo:
		return shoppinglist.NewDemo(opts...)
	default:
		return shoppinglist.New(opts...), nil
	}
}

// initLogger initializes a zap logger with the specified log level.
func initLogger(level string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zapcore.InfoLevel
	}

	zapConfig := zap.Config{
		Level:       zap.NewAtomicLevelAt(zapLevel),
		Development: false,
		Sampling: &zap.SamplingConfig{
			Initial:    100,
			Thereafter: 100,
		},
		Encoding: "json",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "timestamp",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller",
			FunctionKey:    zapcore.OmitKey,
			MessageKey:     "message",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.LowercaseLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.SecondsDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	return zapConfig.Build()
}
