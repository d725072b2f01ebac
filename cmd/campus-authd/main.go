// Command campus-authd serves the campus authentication API.
//
// Configuration comes from an optional YAML file (-config), an optional
// .env file (-env, default ".env") and CAMPUS_* environment variables.
// Without CAMPUS_DATABASE_DSN credentials are kept in memory.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	campusAuth "github.com/MrEthical07/campusAuth"
	"github.com/MrEthical07/campusAuth/api"
	promexport "github.com/MrEthical07/campusAuth/metrics/export/prometheus"
	"github.com/MrEthical07/campusAuth/store/memstore"
	"github.com/MrEthical07/campusAuth/store/pgstore"
)

func main() {
	configFile := flag.String("config", "", "path to a YAML config file")
	envFile := flag.String("env", ".env", "path to a .env file; missing files are ignored")
	flag.Parse()

	settings, err := LoadSettings(*configFile, *envFile)
	if err != nil {
		bootLogger := zerolog.New(os.Stderr)
		bootLogger.Fatal().Err(err).Msg("load config")
	}

	logger := newLogger(settings.Log.Level, settings.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, settings, logger); err != nil {
		logger.Fatal().Err(err).Msg("campus-authd stopped")
	}
}

func newLogger(level, format string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if format == "console" || format == "pretty" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	} else {
		logger = zerolog.New(os.Stdout)
	}
	return logger.Level(lvl).With().Timestamp().Str("service", "campus-authd").Logger()
}

func run(ctx context.Context, settings *Settings, logger zerolog.Logger) error {
	cfg, err := settings.EngineConfig()
	if err != nil {
		return err
	}
	for _, w := range cfg.Lint() {
		logger.Warn().Str("code", w.Code).Msg(w.Message)
	}

	builder := campusAuth.New().
		WithConfig(cfg).
		WithLogger(logger).
		WithAuditSink(campusAuth.NewLoggerSink(logger))

	// -------- CREDENTIAL STORE --------
	var checks []func(context.Context) error
	if settings.Database.DSN != "" {
		pool, err := pgstore.Connect(ctx, settings.Database.DSN)
		if err != nil {
			return err
		}
		defer pool.Close()

		store := pgstore.New(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			return err
		}
		builder.WithCredentialStore(store)
		checks = append(checks, pool.Ping)
		logger.Info().Msg("using postgres credential store")
	} else {
		builder.WithCredentialStore(memstore.New())
		logger.Warn().Msg("no database configured; credentials are kept in memory")
	}

	// -------- REDIS --------
	if cfg.Security.EnableLoginThrottle {
		if settings.Redis.URL == "" {
			return errors.New("security.login_throttle requires redis.url")
		}
		opts, err := redis.ParseURL(settings.Redis.URL)
		if err != nil {
			return err
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()
		builder.WithRedis(rdb)
		checks = append(checks, func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
	}

	engine, err := builder.Build()
	if err != nil {
		return err
	}
	defer engine.Close()

	report := engine.SecurityReport()
	logger.Info().
		Str("signing", report.SigningAlgorithm).
		Dur("token_ttl", report.TokenTTL).
		Bool("login_throttle", report.LoginThrottleActive).
		Bool("ip_throttle", report.IPThrottleActive).
		Bool("role_revalidation", report.RoleRevalidation).
		Bool("open_registration", report.OpenRegistration).
		Msg("engine ready")

	if created, err := engine.EnsureAdmin(ctx); err != nil {
		return err
	} else if created {
		logger.Info().Str("username", cfg.Bootstrap.Username).Msg("bootstrap administrator created")
	}

	// -------- HTTP --------
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		promexport.NewCollector(engine),
	)

	gin.SetMode(gin.ReleaseMode)
	server, err := api.New(engine, api.Options{
		AllowOrigins:   settings.HTTP.AllowOrigins,
		TrustedProxies: settings.HTTP.TrustedProxies,
		Ready:          readiness(checks),
		Metrics:        promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              settings.HTTP.Addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), settings.HTTP.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// readiness runs every dependency check under one short deadline.
func readiness(checks []func(context.Context) error) func(context.Context) error {
	if len(checks) == 0 {
		return nil
	}
	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		for _, check := range checks {
			if err := check(ctx); err != nil {
				return err
			}
		}
		return nil
	}
}
