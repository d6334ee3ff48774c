package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/darmiel/ticketbind/internal/api"
	"github.com/darmiel/ticketbind/internal/attrs"
	"github.com/darmiel/ticketbind/internal/audit"
	"github.com/darmiel/ticketbind/internal/authenticators"
	"github.com/darmiel/ticketbind/internal/authn"
	"github.com/darmiel/ticketbind/internal/clients"
	"github.com/darmiel/ticketbind/internal/config"
	"github.com/darmiel/ticketbind/internal/core"
	"github.com/darmiel/ticketbind/internal/enhancer"
	"github.com/darmiel/ticketbind/internal/logging"
	"github.com/darmiel/ticketbind/internal/metrics"
	"github.com/darmiel/ticketbind/internal/registry"
	"github.com/darmiel/ticketbind/internal/service"
	"github.com/darmiel/ticketbind/internal/sessions"
	"github.com/darmiel/ticketbind/internal/source"
	"github.com/darmiel/ticketbind/internal/tasks"
)

// sessionStore is the full capability set the server needs from a
// session backend.
type sessionStore interface {
	core.SessionIndex
	core.SessionCreator
	Remove(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the SSO token server",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")

		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if addr == "" {
			addr = cfg.Server.Addr
		}

		log.Info().Msg("Initializing service registry...")
		reg := registry.NewInMemory(cfg.Registry.Services)

		log.Info().Msg("Initializing session store...")
		store, err := buildSessionStore(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("building session store: %w", err)
		}
		if closer, ok := store.(io.Closer); ok {
			defer func() {
				_ = closer.Close()
			}()
		}

		log.Info().Msg("Initializing authenticators...")
		authRegistry, err := authenticators.BuildRegistry(cfg.Authenticators)
		if err != nil {
			return fmt.Errorf("building authenticator registry: %w", err)
		}
		authenticator, ok := authRegistry[cfg.OAuth.Authenticator]
		if !ok {
			return fmt.Errorf("authenticator %q not found", cfg.OAuth.Authenticator)
		}

		mutator, err := attrs.NewMutator(cfg.Federation.AttributeRules)
		if err != nil {
			return fmt.Errorf("compiling attribute rules: %w", err)
		}

		auditor, auditSearch, err := buildAuditor(cfg)
		if err != nil {
			return fmt.Errorf("building auditor: %w", err)
		}
		defer func() {
			_ = auditor.Close()
		}()

		var (
			recorder       core.MetricsRecorder = metrics.NewNoopRecorder()
			metricsHandler http.Handler
		)
		if cfg.Metrics.Enabled {
			recorder = metrics.NewPrometheusRecorder()
			metricsHandler = promhttp.Handler()
		}

		svc := service.NewTokenService(
			clients.NewDirectory(reg, cfg.OAuth.AuthorizedGrantTypes),
			authn.NewDelegate(authenticator),
			enhancer.NewTicketBound(store),
			store,
			mutator,
			auditor,
			recorder,
			service.FederationPolicy{
				Audience:          cfg.Federation.Audience,
				Issuer:            cfg.Federation.Issuer,
				ClockSkew:         cfg.Federation.ClockSkew,
				IdentityAttribute: cfg.Federation.IdentityAttribute,
			},
			cfg.OAuth.AccessTokenTTL,
			cfg.Sessions.MaxLifetime,
		)

		manager := tasks.NewManager()
		defer manager.Stop()
		registerTasks(manager, cfg, store, reg)

		srv := api.NewServer(svc, manager, store, store, auditSearch, metricsHandler)

		server := &http.Server{
			Addr:    addr,
			Handler: srv.Routes([]byte(cfg.Server.AdminSigningKey)),
		}

		go func() {
			log.Info().Msgf("Starting server on %s...", addr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal().Err(err).Msg("Server crashed")
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Info().Msg("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}

		log.Info().Msg("Server exited")
		return nil
	},
}

func buildSessionStore(ctx context.Context, cfg *config.Config) (sessionStore, error) {
	switch cfg.Sessions.Store {
	case "memory":
		return sessions.NewInMemoryIndex(), nil
	case "mysql":
		return sessions.NewMySQLIndex(ctx, cfg.Sessions.DSN)
	default:
		return nil, fmt.Errorf("unknown session store %q", cfg.Sessions.Store)
	}
}

func buildAuditor(cfg *config.Config) (core.Auditor, api.AuditSearcher, error) {
	if !cfg.Audit.Enabled {
		return audit.NewNoopAuditor(), nil, nil
	}
	switch cfg.Audit.Type {
	case "", "memory":
		a := audit.NewInMemoryAuditor()
		return a, a, nil
	case "file":
		a, err := audit.NewFileAuditor(cfg.Audit.Path)
		return a, nil, err
	default:
		return nil, nil, fmt.Errorf("unknown audit type %q", cfg.Audit.Type)
	}
}

func registerTasks(manager *tasks.Manager, cfg *config.Config, store sessionStore, reg *registry.InMemory) {
	manager.Register("reap-sessions", cfg.Sessions.ReapInterval, func(ctx context.Context, logger logging.InternalLogger) error {
		deleted, err := store.DeleteExpired(ctx)
		if err != nil {
			return err
		}
		logger.Info("removed %d expired sessions", deleted)
		return nil
	})

	if cfg.Registry.Source == nil || cfg.Registry.Source.GitHub == nil {
		return
	}
	fetcher, err := source.NewGitHubFetcher(*cfg.Registry.Source.GitHub)
	if err != nil {
		// config validation runs before this, so a bad source is a bug
		log.Error().Err(err).Msg("registry source misconfigured, sync disabled")
		return
	}
	manager.Register("sync-registry", cfg.Registry.Source.Sync.Interval, func(ctx context.Context, logger logging.InternalLogger) error {
		services, err := fetcher.Fetch(ctx, logger)
		if err != nil {
			return err
		}
		if services == nil {
			logger.Warn("source returned no services, keeping current registry")
			return nil
		}
		reg.Update(services)
		logger.Info("registry updated with %d services", len(services))
		return nil
	})
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "address to listen on (overrides config)")
	serveCmd.Flags().StringVarP(&cfgFile, "config", "c", "ticketbind.yaml", "server configuration file")
}
