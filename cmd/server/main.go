package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	grpcAdapter "github.com/photorad/photoRad/internal/adapters/grpc"
	httpapi "github.com/photorad/photoRad/internal/adapters/http"
	"github.com/photorad/photoRad/internal/adapters/memory"
	"github.com/photorad/photoRad/internal/adapters/soildata"
	"github.com/photorad/photoRad/internal/adapters/sqlite"
	"github.com/photorad/photoRad/internal/config"
	"github.com/photorad/photoRad/internal/domain"
	"github.com/photorad/photoRad/internal/ports"
	"github.com/photorad/photoRad/pkg/api"
)

func main() {
	// Initialize logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	zerolog.SetGlobalLevel(cfg.LogLevel)

	log.Info().Msg("starting photorad service")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize soil dataset
	soil, closeSoil, err := openSoilRepository(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("soil_repo", cfg.SoilRepo).Msg("failed to initialize soil dataset")
	}
	defer closeSoil()

	analyzer, err := ports.NewAnalyzer(soil, ports.AnalyzerConfig{
		CacheSize: cfg.CacheSize,
		CacheTTL:  cfg.CacheTTL,
		Threshold: cfg.Threshold,
		DataDir:   cfg.DataDir,
	})
	if err != nil {
		log.Fatal().Err(err).Str("data_dir", cfg.DataDir).Msg("failed to initialize analyzer")
	}
	log.Info().Str("data_dir", cfg.DataDir).Msg("serving input files from data directory")

	// Configure TLS if certificates are provided
	var serverOpts []grpc.ServerOption
	var tlsCfg *tls.Config
	if cfg.TLS.Enabled() {
		tlsCfg, err = cfg.TLS.Server()
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load TLS config")
		}
		serverOpts = append(serverOpts, grpc.Creds(credentials.NewTLS(tlsCfg)))
		log.Info().Msg("mTLS enabled")
	} else {
		log.Warn().Msg("TLS_CERT not set, starting gRPC and HTTP without TLS (dev mode only)")
	}

	grpcServer := grpc.NewServer(serverOpts...)
	api.RegisterPhotoRadServer(grpcServer, grpcAdapter.NewPhotoRadHandler(analyzer))

	healthServer := health.NewServer()
	healthServer.SetServingStatus(api.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	// Enable gRPC reflection for grpcurl testing
	reflection.Register(grpcServer)

	listener, err := net.Listen("tcp", fmt.Sprintf(":%s", cfg.GRPCPort))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to listen")
	}
	log.Info().Str("port", cfg.GRPCPort).Msg("gRPC server listening")

	go func() {
		if err := grpcServer.Serve(listener); err != nil {
			log.Fatal().Err(err).Msg("failed to serve gRPC")
		}
	}()

	app := httpapi.NewApp(analyzer)
	httpListener, err := net.Listen("tcp", ":"+cfg.HTTPPort)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to listen")
	}
	if tlsCfg != nil {
		// same client certificate requirement as gRPC
		httpListener = tls.NewListener(httpListener, tlsCfg)
	}
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Bool("tls", tlsCfg != nil).Msg("HTTP server listening")
		if err := app.Listener(httpListener); err != nil {
			log.Error().Err(err).Msg("HTTP server stopped")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	healthServer.Shutdown()
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during HTTP shutdown")
	}
	grpcServer.GracefulStop()

	log.Info().Msg("server stopped")
}

// openSoilRepository builds the configured soil store. A SQLite store is
// seeded from SOIL_DATA only while it is empty; the memory store is always
// loaded from it.
func openSoilRepository(ctx context.Context, cfg *config.Config) (domain.SoilRepository, func(), error) {
	switch cfg.SoilRepo {
	case "sqlite":
		repo, err := sqlite.NewSoilRepository(cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		closeRepo := func() {
			if err := repo.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close SQLite database")
			}
		}

		n, err := repo.Count(ctx)
		if err != nil {
			closeRepo()
			return nil, nil, err
		}
		if n == 0 && cfg.SoilData != "" {
			records, err := soildata.ReadFile(cfg.SoilData)
			if err != nil {
				closeRepo()
				return nil, nil, err
			}
			if err := repo.ImportRecords(ctx, records); err != nil {
				closeRepo()
				return nil, nil, err
			}
			n = len(records)
		}
		log.Info().Str("db_path", cfg.DBPath).Int("records", n).Msg("initialized SQLite soil repository")
		return repo, closeRepo, nil

	default:
		repo := memory.NewSoilRepository()
		if cfg.SoilData == "" {
			log.Warn().Msg("SOIL_DATA not set, location lookups will fail")
			return repo, func() {}, nil
		}
		records, err := soildata.ReadFile(cfg.SoilData)
		if err != nil {
			return nil, nil, err
		}
		if err := soildata.Import(ctx, repo, records); err != nil {
			return nil, nil, err
		}
		log.Info().Int("records", len(records)).Msg("initialized in-memory soil repository")
		return repo, func() {}, nil
	}
}
