package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/goodnatureofminers/whisper-indexer/internal/metrics"
	"github.com/goodnatureofminers/whisper-indexer/internal/whisper/archive"
	"github.com/goodnatureofminers/whisper-indexer/internal/whisper/events"
	"github.com/goodnatureofminers/whisper-indexer/internal/whisper/indexer"
	"github.com/goodnatureofminers/whisper-indexer/internal/whisper/neardata"
	"github.com/goodnatureofminers/whisper-indexer/internal/whisper/repository/clickhouse"
	"github.com/goodnatureofminers/whisper-indexer/internal/whisper/repository/memory"
	"github.com/goodnatureofminers/whisper-indexer/internal/whisper/repository/postgres"
	"github.com/goodnatureofminers/whisper-indexer/internal/whisper/tipcache"
)

type config struct {
	NeardataURL       string        `long:"neardata-url" env:"WHISPER_NEARDATA_URL" description:"neardata API base URL" default:"https://mainnet.neardata.xyz/v0"`
	Contract          string        `long:"contract" env:"WHISPER_CONTRACT" description:"whisper contract account" required:"true"`
	StartHeight       uint64        `long:"start-height" env:"WHISPER_START_HEIGHT" description:"first height when no checkpoint exists (0 = chain tip)"`
	PostgresDSN       string        `long:"postgres-dsn" env:"WHISPER_POSTGRES_DSN" description:"PostgreSQL DSN for messages, profiles and the checkpoint"`
	MemoryStore       bool          `long:"memory-store" env:"WHISPER_MEMORY_STORE" description:"keep state in memory instead of PostgreSQL, the checkpoint is lost on restart"`
	ClickhouseDSN     string        `long:"clickhouse-dsn" env:"WHISPER_CLICKHOUSE_DSN" description:"ClickHouse DSN for the event archive, disabled when empty"`
	RedisURL          string        `long:"redis-url" env:"WHISPER_REDIS_URL" description:"Redis URL for tip publishing, disabled when empty"`
	PollInterval      time.Duration `long:"poll-interval" env:"WHISPER_POLL_INTERVAL" description:"delay between blocks near the tip" default:"1s"`
	CatchUpInterval   time.Duration `long:"catchup-interval" env:"WHISPER_CATCHUP_INTERVAL" description:"delay between blocks while catching up" default:"50ms"`
	IdleInterval      time.Duration `long:"idle-interval" env:"WHISPER_IDLE_INTERVAL" description:"delay when caught up with the tip" default:"2s"`
	ErrorDelay        time.Duration `long:"error-delay" env:"WHISPER_ERROR_DELAY" description:"delay after a failed iteration" default:"5s"`
	CatchUpThreshold  uint64        `long:"catchup-threshold" env:"WHISPER_CATCHUP_THRESHOLD" description:"distance to tip that enables catch-up pacing" default:"100"`
	TipRefreshEvery   int           `long:"tip-refresh-every" env:"WHISPER_TIP_REFRESH_EVERY" description:"blocks between tip refreshes" default:"20"`
	MaxAttempts       int           `long:"max-attempts" env:"WHISPER_MAX_ATTEMPTS" description:"fetch attempts per block" default:"3"`
	RetryBaseDelay    time.Duration `long:"retry-base-delay" env:"WHISPER_RETRY_BASE_DELAY" description:"first fetch retry delay" default:"500ms"`
	RequestsPerSecond int           `long:"requests-per-second" env:"WHISPER_REQUESTS_PER_SECOND" description:"upstream request rate, 0 = unlimited" default:"10"`
	HTTPTimeout       time.Duration `long:"http-timeout" env:"WHISPER_HTTP_TIMEOUT" description:"upstream request timeout" default:"30s"`
	MetricsAddr       string        `long:"metrics-addr" env:"WHISPER_METRICS_ADDR" description:"address for metrics server" default:":2112"`
	ShutdownTimeout   time.Duration `long:"shutdown-timeout" env:"WHISPER_SHUTDOWN_TIMEOUT" description:"time to finish the current block on shutdown" default:"30s"`
	LogJSON           bool          `long:"log-json" env:"WHISPER_LOG_JSON" description:"production JSON logging"`
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic("can't load .env: " + err.Error())
	}

	cfg := config{}
	if _, err := flags.Parse(&cfg); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := newLogger(cfg.LogJSON)
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("whisper indexer failed", zap.Error(err))
	}
}

func newLogger(production bool) (*zap.Logger, error) {
	if production {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func run(signalCtx context.Context, cfg config, logger *zap.Logger) error {
	// The loop runs on its own context so a signal only requests a cooperative stop.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	startMetricsServer(signalCtx, cfg.MetricsAddr, logger)

	st, closeStore, err := openStore(ctx, cfg.PostgresDSN, cfg.MemoryStore, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	var recorder events.Recorder
	if cfg.ClickhouseDSN != "" {
		repo, err := clickhouse.NewRepository(cfg.ClickhouseDSN, metrics.NewRepository("clickhouse"))
		if err != nil {
			return fmt.Errorf("init clickhouse repository: %w", err)
		}
		defer func() {
			if err := repo.Close(); err != nil {
				logger.Warn("close clickhouse", zap.Error(err))
			}
		}()
		writer, err := archive.NewWriter(repo, archive.DefaultConfig(), logger)
		if err != nil {
			return fmt.Errorf("init archive writer: %w", err)
		}
		writer.Start(ctx)
		defer writer.Stop()
		recorder = writer
	}

	var tips indexer.TipPublisher
	if cfg.RedisURL != "" {
		cache, err := tipcache.NewRedis(ctx, cfg.RedisURL, cfg.Contract)
		if err != nil {
			return fmt.Errorf("init tip cache: %w", err)
		}
		defer func() {
			if err := cache.Close(); err != nil {
				logger.Warn("close redis", zap.Error(err))
			}
		}()
		tips = cache
	}

	fetcher, err := neardata.NewClient(neardata.Config{
		BaseURL:           cfg.NeardataURL,
		MaxAttempts:       cfg.MaxAttempts,
		BaseDelay:         cfg.RetryBaseDelay,
		RequestsPerSecond: cfg.RequestsPerSecond,
		Timeout:           cfg.HTTPTimeout,
	}, nil, metrics.NewHTTPClient(), logger)
	if err != nil {
		return fmt.Errorf("init neardata client: %w", err)
	}

	parser, err := events.NewParser(cfg.Contract, recorder, logger)
	if err != nil {
		return fmt.Errorf("init parser: %w", err)
	}

	pollerCfg := indexer.DefaultConfig(cfg.Contract)
	pollerCfg.StartHeight = cfg.StartHeight
	pollerCfg.PollInterval = cfg.PollInterval
	pollerCfg.CatchUpInterval = cfg.CatchUpInterval
	pollerCfg.IdleInterval = cfg.IdleInterval
	pollerCfg.ErrorDelay = cfg.ErrorDelay
	pollerCfg.CatchUpThreshold = cfg.CatchUpThreshold
	pollerCfg.TipRefreshEvery = cfg.TipRefreshEvery

	poller, err := indexer.NewPoller(pollerCfg, fetcher, parser, st, tips, metrics.NewIndexer(cfg.Contract), logger)
	if err != nil {
		return err
	}
	if err := poller.Start(ctx); err != nil {
		return err
	}

	select {
	case <-signalCtx.Done():
	case <-poller.Done():
		return errors.New("poller exited unexpectedly")
	}

	logger.Info("stopping poller", zap.Duration("timeout", cfg.ShutdownTimeout))
	poller.Stop()
	select {
	case <-poller.Done():
	case <-time.After(cfg.ShutdownTimeout):
		logger.Warn("poller did not stop in time, cancelling in-flight work")
		cancel()
		<-poller.Done()
	}
	logger.Info("poller stopped", zap.Uint64("next_height", poller.NextHeight()))
	return nil
}

func openStore(ctx context.Context, dsn string, inMemory bool, logger *zap.Logger) (indexer.Store, func(), error) {
	switch {
	case inMemory && dsn != "":
		return nil, nil, errors.New("--memory-store and --postgres-dsn are mutually exclusive")
	case inMemory:
		logger.Warn("using in-memory store, checkpoint will not survive a restart")
		return memory.NewRepository(), func() {}, nil
	case dsn == "":
		return nil, nil, errors.New("--postgres-dsn is required unless --memory-store is set")
	}
	repo, err := postgres.NewRepository(ctx, dsn, metrics.NewRepository("postgres"))
	if err != nil {
		return nil, nil, fmt.Errorf("init postgres repository: %w", err)
	}
	return repo, repo.Close, nil
}

func startMetricsServer(ctx context.Context, addr string, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("starting metrics server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shutdown metrics server", zap.Error(err))
		}
	}()
}
