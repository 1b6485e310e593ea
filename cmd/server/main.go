package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"filechat-lite/internal/auth"
	"filechat-lite/internal/blob"
	"filechat-lite/internal/config"
	"filechat-lite/internal/hub"
	"filechat-lite/internal/latency"
	"filechat-lite/internal/observability"
	"filechat-lite/internal/server"
	"filechat-lite/internal/session"
	"filechat-lite/internal/store"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := observability.InitLogger(cfg.LogDev)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.TraceStdout {
		tp, err := observability.InitTracerProvider(logger)
		if err != nil {
			return err
		}
		defer observability.ShutdownTracerProvider(context.Background(), tp, logger)
	}

	gin.SetMode(cfg.GinMode)

	slot, closeSlot, err := openSlot(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeSlot()

	sessions := session.NewWithOptions(slot, session.Options{Logger: logger.Named("session")})
	sessions.Restore(ctx)

	blobs, err := openBlobs(ctx, cfg, logger)
	if err != nil {
		return err
	}

	profile := latency.Instant()
	if cfg.SimulateLatency {
		profile = latency.DefaultProfile()
	}
	storeOpts := store.Options{Latency: profile, Blobs: blobs, Logger: logger.Named("store")}
	files := store.NewFileStore(storeOpts)
	messages := store.NewMessageStore(storeOpts)

	var metrics *observability.Metrics
	if cfg.MetricsEnabled {
		if metrics, err = observability.NewMetrics(files, messages); err != nil {
			return err
		}
	}

	tokenCfg := auth.DefaultTokenConfig(cfg.MasterSecret)
	tokenCfg.Expiry = cfg.TokenExpiry

	router := server.NewRouter(ctx, server.Deps{
		Sessions:       sessions,
		Files:          files,
		Messages:       messages,
		Hub:            hub.New(),
		TokenConfig:    tokenCfg,
		Logger:         logger,
		Metrics:        metrics,
		MaxUploadBytes: cfg.MaxUploadBytes,
	})
	return server.Run(ctx, cfg, router, logger)
}

func openSlot(ctx context.Context, cfg config.Config, logger *zap.Logger) (session.Slot, func(), error) {
	if cfg.RedisAddr == "" {
		logger.Info("session slot", zap.String("backend", "file"), zap.String("path", cfg.SessionStateFile))
		return session.NewFileSlot(cfg.SessionStateFile), func() {}, nil
	}

	slot, err := session.NewRedisSlot(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.RedisSessionKey)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("session slot", zap.String("backend", "redis"), zap.String("addr", cfg.RedisAddr))
	return slot, func() { _ = slot.Close() }, nil
}

func openBlobs(ctx context.Context, cfg config.Config, logger *zap.Logger) (blob.Store, error) {
	if cfg.MinIOEndpoint == "" {
		logger.Info("content store", zap.String("backend", "memory"))
		return blob.NewMemory(), nil
	}

	m, err := blob.NewMinIO(ctx, cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey, cfg.MinIOBucket, cfg.MinIOUseSSL, logger.Named("blob"))
	if err != nil {
		return nil, err
	}
	logger.Info("content store", zap.String("backend", "minio"), zap.String("endpoint", cfg.MinIOEndpoint), zap.String("bucket", cfg.MinIOBucket))
	return m, nil
}
