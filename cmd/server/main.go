// @title        ProcureContract Session Service
// @version      1.0
// @description  Client session state, authentication and route guarding for the procurement application.
// @BasePath     /
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/procurecontract/session-service/internal/api"
	"github.com/procurecontract/session-service/internal/api/handler"
	"github.com/procurecontract/session-service/internal/api/metrics"
	"github.com/procurecontract/session-service/internal/core/ports"
	"github.com/procurecontract/session-service/internal/core/service"
	"github.com/procurecontract/session-service/internal/infrastructure/db/memory"
	mongostore "github.com/procurecontract/session-service/internal/infrastructure/db/mongo"
	redisstore "github.com/procurecontract/session-service/internal/infrastructure/db/redis"
	"github.com/procurecontract/session-service/internal/infrastructure/queue"
	"github.com/procurecontract/session-service/internal/infrastructure/token"
	"github.com/procurecontract/session-service/internal/pkg/config"
	"github.com/procurecontract/session-service/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "session-service",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("session service stopped with error")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	readiness := make(map[string]handler.Pinger)
	var cleanups []func(context.Context)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i](shutdownCtx)
		}
	}()

	// --- Infrastructure ---
	var mongoDB *mongostore.Backend
	var transitions ports.TransitionRepository
	if cfg.NeedsMongo() {
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return err
		}
		cleanups = append(cleanups, func(ctx context.Context) {
			if err := client.Disconnect(ctx); err != nil {
				log.Error().Err(err).Msg("mongo disconnect failed")
			}
		})
		readiness["mongodb"] = handler.PingFunc(func(ctx context.Context) error { return client.Ping(ctx, nil) })

		mongoDB = mongostore.NewBackend(db)
		transitions = mongostore.NewTransitionRepository(db)
	}

	var backend ports.StateBackend
	switch cfg.Session.StoreDriver {
	case config.DriverRedis:
		client, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		cleanups = append(cleanups, func(context.Context) { _ = client.Close() })
		backend = redisstore.NewBackend(client, cfg.Session.StoreKeyTTL)
	case config.DriverMongo:
		if err := mongoDB.EnsureIndexes(ctx); err != nil {
			return err
		}
		backend = mongoDB
	default:
		backend = memory.NewBackend()
	}
	readiness["session_store"] = backend
	log.Info().Str("driver", cfg.Session.StoreDriver).Msg("session store ready")

	// --- Core ---
	provider, err := service.NewBuiltinProvider(service.DefaultAccounts, cfg.Session.BcryptCost)
	if err != nil {
		return err
	}
	issuer, err := token.NewJWTIssuer(cfg.JWTSecret, cfg.Session.TokenTTL)
	if err != nil {
		return err
	}
	if cfg.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET not set, tokens are signed with an ephemeral key")
	}

	observers := []ports.Observer{metrics.ObserveTransition}

	auditCtx, cancelAudit := context.WithCancel(context.WithoutCancel(ctx))
	var dispatcher *queue.Dispatcher
	if cfg.Audit.Enabled {
		recorder := service.NewTransitionRecorder(transitions, log)
		dispatcher = queue.NewDispatcher(cfg.Audit.Workers, recorder, log)
		dispatcher.Start(auditCtx)
		observers = append(observers, dispatcher.Enqueue)
		log.Info().Int("workers", cfg.Audit.Workers).Msg("session audit enabled")
	}

	registry := service.NewRegistry(backend, provider, issuer, service.RegistryOptions{
		IdleTimeout: cfg.Session.ClientIdleTimeout,
		MaxClients:  cfg.Session.MaxClients,
	}, log, observers...)
	if err := metrics.RegisterClientGauges(prometheus.DefaultRegisterer, registry); err != nil {
		cancelAudit()
		return err
	}

	registryCtx, cancelRegistry := context.WithCancel(context.WithoutCancel(ctx))
	registryDone := make(chan struct{})
	go func() {
		registry.Run(registryCtx)
		close(registryDone)
	}()

	// Managers are closed before the dispatcher drains so their final
	// transitions still reach the audit log.
	cleanups = append(cleanups, func(context.Context) {
		cancelRegistry()
		<-registryDone
		cancelAudit()
		if dispatcher != nil {
			dispatcher.Wait()
		}
	})

	// --- HTTP ---
	e := api.NewRouter(api.Dependencies{
		Registry:      registry,
		Guard:         service.NewGuard(cfg.Session.LoginPath, cfg.Session.HomePath),
		HomePath:      cfg.Session.HomePath,
		Readiness:     readiness,
		SecureCookies: !cfg.IsDevelopment(),
		Registerer:    prometheus.DefaultRegisterer,
		Gatherer:      prometheus.DefaultGatherer,
		Log:           log,
	})
	e.HidePort = true

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Int("views", len(api.Views)).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
