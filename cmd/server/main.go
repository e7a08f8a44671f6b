package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lifelink/lifelink-web/config"
	"github.com/lifelink/lifelink-web/internal/api"
	"github.com/lifelink/lifelink-web/internal/health"
	ctxlog "github.com/lifelink/lifelink-web/internal/log"
	"github.com/lifelink/lifelink-web/internal/metrics"
	"github.com/lifelink/lifelink-web/internal/poller"
	"github.com/lifelink/lifelink-web/internal/session"
	"github.com/lifelink/lifelink-web/internal/snapshot"
	httptransport "github.com/lifelink/lifelink-web/internal/transport/http"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	maxIdle := time.Duration(cfg.SessionIdleHours) * time.Hour

	// Session backend: Redis when configured, otherwise in-process memory
	// with a janitor sweeping idle sessions. Redis expires its own keys.
	var (
		backend session.Backend
		janitor *session.Janitor
	)
	if cfg.RedisURL != "" {
		redisBackend, err := session.NewRedis(cfg.RedisURL, maxIdle)
		if err != nil {
			stop()
			log.Fatalf("redis: %v", err)
		}
		backend = redisBackend
	} else {
		memory := session.NewMemory()
		backend = memory
		janitor = session.NewJanitor(memory, maxIdle, logger)
	}

	sessions := session.NewStore(backend, logger)
	cookies := session.NewCookies([]byte(cfg.SessionSecret), maxIdle)

	base := api.ResolveBaseURL(publicHostname(cfg.PublicHost), cfg.LocalAPIBase, cfg.APIBase)
	apiClient := api.NewClient(base, sessions, logger)
	logger.Info("upstream selected", "base_url", base)

	// Public analytics endpoints are polled server-side; per-session admin
	// data is always fetched live because its token lives in the session.
	analyticsSnap := snapshot.NewAnalytics(apiClient, logger)
	analyticsPoller := poller.New("analytics",
		time.Duration(cfg.PollIntervalSec)*time.Second, analyticsSnap.Refresh, logger)
	go analyticsPoller.Start(ctx)

	if janitor != nil {
		if err := janitor.Start(); err != nil {
			stop()
			log.Fatalf("janitor: %v", err)
		}
		defer janitor.Stop()
	}

	metrics.Register()
	checker := health.NewChecker(map[string]health.Pinger{
		"upstream": apiClient,
		"sessions": backend,
	}, logger, prometheus.DefaultRegisterer)

	srv := http.Server{
		Addr: ":" + cfg.Port,
		Handler: httptransport.NewRouter(httptransport.RouterDeps{
			API:      apiClient,
			Sessions: sessions,
			Cookies:  cookies,
			Snapshot: analyticsSnap,
			Poller:   analyticsPoller,
			Secure:   cfg.Env != "local",
			Logger:   logger,
		}),
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

	go func() {
		logger.Info("server started", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
}

// publicHostname strips any scheme or port so plain hosts and full URLs
// both work in PUBLIC_HOST.
func publicHostname(host string) string {
	if u, err := url.Parse(host); err == nil && u.Hostname() != "" {
		return u.Hostname()
	}
	return host
}

func newLogger(env string, level slog.Level) *slog.Logger {
	var inner slog.Handler
	if env == "local" {
		inner = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		inner = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(ctxlog.NewContextHandler(inner))
}
