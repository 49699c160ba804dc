// liveunderd is the wagering analytics daemon: it consumes live game
// snapshots from Redis Streams, classifies pace triggers, runs the paper
// book, and serves the analytics API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Take-The-Live-Under/taketheliveunder-new-sub000/internal/config"
	"github.com/Take-The-Live-Under/taketheliveunder-new-sub000/internal/feed"
	"github.com/Take-The-Live-Under/taketheliveunder-new-sub000/internal/httpapi"
	"github.com/Take-The-Live-Under/taketheliveunder-new-sub000/pkg/ledger"
	"github.com/Take-The-Live-Under/taketheliveunder-new-sub000/pkg/metrics"
	"github.com/Take-The-Live-Under/taketheliveunder-new-sub000/pkg/pace"
	"github.com/Take-The-Live-Under/taketheliveunder-new-sub000/pkg/streaming"
	"github.com/Take-The-Live-Under/taketheliveunder-new-sub000/pkg/teamfilter"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatalf("failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		fatalf("invalid config: %v", err)
	}

	logger, err := newLogger(cfg.Logging)
	if err != nil {
		fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Engine
	filter := teamfilter.New()
	classifier := pace.NewClassifier(classifierConfig(cfg.Engine), filter)
	tracker := pace.NewTracker(classifier, pace.WithMaxGames(cfg.Engine.MaxGames))
	book := ledger.NewBook(&ledger.Config{
		Name:            cfg.Ledger.AccountName,
		InitialBankroll: decimal.NewFromFloat(cfg.Ledger.InitialBankroll),
	})
	em := metrics.NewEngineMetrics()

	hub := streaming.NewHub(logger)
	go hub.Run()

	// Feed
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Feed.RedisAddr,
		Password: cfg.Feed.RedisPassword,
		DB:       cfg.Feed.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Fatal("redis unreachable", zap.String("addr", cfg.Feed.RedisAddr), zap.Error(err))
	}
	defer func() { _ = rdb.Close() }()

	processor := feed.NewProcessor(tracker, book, em, hub, logger)
	consumer := feed.NewConsumer(rdb, feed.Config{
		Stream:        cfg.Feed.Stream,
		Group:         cfg.Feed.Group,
		Consumer:      cfg.Feed.Consumer,
		BlockTimeout:  cfg.Feed.BlockTimeout,
		RatePerSecond: cfg.Feed.RatePerSecond,
		RateBurst:     cfg.Feed.RateBurst,
	}, processor, logger)

	go func() {
		if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("feed consumer stopped", zap.Error(err))
			stop()
		}
	}()

	// HTTP API
	api := httpapi.NewServer(httpapi.Options{
		Tracker:       tracker,
		Book:          book,
		Filter:        filter,
		Hub:           hub,
		Metrics:       em,
		Logger:        logger,
		KellyFraction: cfg.Ledger.KellyFraction,
	})
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      api.Router(cfg.Server.AllowedOrigins),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("liveunderd listening", zap.String("addr", cfg.Server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("api server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown incomplete", zap.Error(err))
	}
	logger.Info("liveunderd stopped")
}

func classifierConfig(e config.EngineConfig) *pace.Config {
	c := pace.DefaultConfig()
	c.PaceThreshold = e.PaceThreshold
	c.GoldenZoneMin = e.GoldenZoneMin
	c.GoldenZoneMax = e.GoldenZoneMax
	c.MinMinutesRemaining = e.MinMinutesRemaining
	c.OverEdgeThreshold = e.OverEdgeThreshold
	c.PaceWindow = e.PaceWindow
	c.TripleLineDropMin = e.TripleLineDropMin
	c.TripleConfirmStreak = e.TripleConfirmStreak
	return c
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.Format == "text" {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	return zcfg.Build(zap.Fields(zap.String("service", "liveunderd")))
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
