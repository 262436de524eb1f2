package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	grpcMiddleware "github.com/grpc-ecosystem/go-grpc-middleware"
	grpcZap "github.com/grpc-ecosystem/go-grpc-middleware/logging/zap"
	grpcRecovery "github.com/grpc-ecosystem/go-grpc-middleware/recovery"
	grpcCtxTags "github.com/grpc-ecosystem/go-grpc-middleware/tags"
	grpcPrometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/goodnatureofminers/whisper-indexer/internal/metrics"
	"github.com/goodnatureofminers/whisper-indexer/internal/transport"
	"github.com/goodnatureofminers/whisper-indexer/internal/whisper/repository/postgres"
	"github.com/goodnatureofminers/whisper-indexer/internal/whisper/tipcache"
)

type config struct {
	GRPCAddr       string        `long:"grpc-addr" env:"WHISPER_API_GRPC_ADDR" description:"gRPC health address" default:":8000"`
	RestAddr       string        `long:"rest-addr" env:"WHISPER_API_REST_ADDR" description:"REST address" default:":8001"`
	PostgresDSN    string        `long:"postgres-dsn" env:"WHISPER_POSTGRES_DSN" description:"PostgreSQL DSN" required:"true"`
	RedisURL       string        `long:"redis-url" env:"WHISPER_REDIS_URL" description:"Redis URL for the indexer tip, lag is not reported when empty"`
	Contract       string        `long:"contract" env:"WHISPER_CONTRACT" description:"whisper contract account, required with --redis-url"`
	HealthInterval time.Duration `long:"health-interval" env:"WHISPER_API_HEALTH_INTERVAL" description:"storage ping interval for gRPC health" default:"10s"`
	LogJSON        bool          `long:"log-json" env:"WHISPER_LOG_JSON" description:"production JSON logging"`
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

	var (
		logger *zap.Logger
		err    error
	)
	if cfg.LogJSON {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()
	grpcZap.ReplaceGrpcLoggerV2(logger)

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("whisper api failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	repo, err := postgres.NewRepository(ctx, cfg.PostgresDSN, metrics.NewRepository("postgres"))
	if err != nil {
		return fmt.Errorf("init postgres repository: %w", err)
	}
	defer repo.Close()

	var tips transport.TipSource
	if cfg.RedisURL != "" {
		if cfg.Contract == "" {
			return errors.New("--contract is required with --redis-url")
		}
		cache, err := tipcache.NewRedis(ctx, cfg.RedisURL, cfg.Contract)
		if err != nil {
			return fmt.Errorf("init tip cache: %w", err)
		}
		defer func() {
			_ = cache.Close()
		}()
		tips = cache
	}

	if err := serveGRPC(ctx, cfg, repo, logger); err != nil {
		return err
	}

	handler, err := transport.NewQueryHandler(repo, tips, metrics.NewAPI(), logger)
	if err != nil {
		return err
	}
	api, err := handler.Handler()
	if err != nil {
		return fmt.Errorf("register routes: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/", api)
	mux.Handle("/metrics", promhttp.Handler())

	s := &http.Server{
		Addr:              cfg.RestAddr,
		Handler:           mux,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    http.DefaultMaxHeaderBytes,
	}
	go func() {
		<-ctx.Done()
		logger.Info("Shutting down the http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			logger.Error("Failed to shutdown http server", zap.Error(err))
		}
	}()

	logger.Info("Starting HTTP server", zap.String("addr", cfg.RestAddr))
	if err := s.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen and serve: %w", err)
	}
	return nil
}

func serveGRPC(ctx context.Context, cfg config, pinger transport.Pinger, logger *zap.Logger) error {
	chain := []grpc.UnaryServerInterceptor{
		grpcRecovery.UnaryServerInterceptor(),
		grpcCtxTags.UnaryServerInterceptor(),
		grpcPrometheus.UnaryServerInterceptor,
		grpcZap.UnaryServerInterceptor(logger),
	}
	grpcServer := grpc.NewServer(
		grpc.UnaryInterceptor(grpcMiddleware.ChainUnaryServer(chain...)),
	)
	grpcPrometheus.EnableHandlingTimeHistogram()

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	grpcPrometheus.Register(grpcServer)
	go transport.NewHealthProbe(healthServer, pinger, cfg.HealthInterval, logger).Run(ctx)

	socket, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		return fmt.Errorf("listen grpc: %w", err)
	}
	go func() {
		logger.Info("Starting gRPC server", zap.String("addr", cfg.GRPCAddr))
		if serveErr := grpcServer.Serve(socket); serveErr != nil {
			logger.Error("gRPC server stopped", zap.Error(serveErr))
		}
	}()
	go func() {
		<-ctx.Done()
		logger.Info("Shutting down gRPC server")
		grpcServer.GracefulStop()
	}()
	return nil
}
