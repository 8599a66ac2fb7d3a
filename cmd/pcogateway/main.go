// Command pcogateway serves the Planning Center accessors as a JSON API.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonwraymond/pcokit/accessor"
	"github.com/jonwraymond/pcokit/auth"
	"github.com/jonwraymond/pcokit/cache"
	"github.com/jonwraymond/pcokit/config"
	"github.com/jonwraymond/pcokit/gateway"
	"github.com/jonwraymond/pcokit/health"
	"github.com/jonwraymond/pcokit/observe"
	"github.com/jonwraymond/pcokit/pco"
	"github.com/jonwraymond/pcokit/query"
	"github.com/jonwraymond/pcokit/resilience"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "pcogateway: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	obs, err := observe.NewObserver(ctx, observerConfig(cfg))
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = obs.Shutdown(shutdownCtx)
	}()

	mw, err := observe.MiddlewareFromObserver(obs)
	if err != nil {
		return err
	}
	logger := obs.Logger()

	breaker := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		IsFailure: pco.IsUpstreamFailure,
		OnStateChange: func(from, to resilience.State) {
			logger.Warn(context.Background(), "circuit state changed",
				observe.F("from", from.String()), observe.F("to", to.String()))
		},
	})
	exec := resilience.NewExecutor(
		resilience.WithRateLimiter(resilience.NewRateLimiter(resilience.RateLimiterConfig{
			Rate:    cfg.RateLimit,
			MaxWait: time.Second,
		})),
		resilience.WithCircuitBreaker(breaker),
	)

	pcoCfg := pco.Config{
		AppID:     cfg.AppID,
		Secret:    cfg.Secret,
		BaseURL:   cfg.BaseURL,
		Timeout:   cfg.HTTPTimeout,
		UserAgent: "pcogateway/" + version,
	}
	if cfg.UsesToken() {
		pcoCfg.TokenSource = auth.StaticToken(cfg.AccessToken)
	}
	client, err := pco.New(pcoCfg, pco.WithExecutor(exec), pco.WithObserver(mw))
	if err != nil {
		return err
	}

	agg := health.NewAggregator(health.AggregatorConfig{Logger: logger})
	agg.Register("pco", health.NewRemoteAPIChecker(client, 2*time.Second))
	agg.Register("circuit", health.NewCircuitChecker(breaker))

	policy := cache.DefaultPolicy()
	policy.DefaultTTL = cfg.CacheTTL

	var store cache.Cache
	if cfg.RedisAddr != "" {
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{Addr: cfg.RedisAddr}, policy)
		if err != nil {
			return err
		}
		defer func() { _ = rc.Close() }()
		store = rc
	} else {
		mem := cache.NewMemoryCache(policy)
		agg.Register("cache_size", health.NewCacheSizeChecker(mem, health.CacheSizeConfig{}))
		store = mem
	}
	agg.Register("cache", health.NewCacheChecker(store))

	qc := query.NewClient(store, query.WithTTL(cfg.CacheTTL), query.WithObserver(mw))

	gwCfg := gateway.Config{
		Addr:         cfg.GatewayAddr,
		Accessors:    accessor.New(client, qc),
		Health:       agg,
		ServeMetrics: cfg.MetricsExporter == "prometheus",
		Logger:       logger,
	}
	if cfg.JWTSecret != "" {
		authn, err := auth.NewJWTAuthenticator(auth.JWTConfig{Secret: []byte(cfg.JWTSecret)})
		if err != nil {
			return err
		}
		gwCfg.Authenticator = authn
	}

	srv, err := gateway.New(gwCfg)
	if err != nil {
		return err
	}
	if err := srv.Start(); err != nil {
		return err
	}
	logger.Info(ctx, "pcogateway started",
		observe.F("version", version),
		observe.F("base_url", client.BaseURL()),
		observe.F("redis", cfg.RedisAddr != ""),
		observe.F("auth", gwCfg.Authenticator != nil))

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func observerConfig(cfg config.Config) observe.Config {
	tracing := cfg.TraceExporter != "" && cfg.TraceExporter != "none"
	metrics := cfg.MetricsExporter != "" && cfg.MetricsExporter != "none"
	return observe.Config{
		ServiceName: "pcogateway",
		Version:     version,
		Environment: cfg.Environment,
		Tracing: observe.TracingConfig{
			Enabled:   tracing,
			Exporter:  cfg.TraceExporter,
			SamplePct: 1.0,
		},
		Metrics: observe.MetricsConfig{
			Enabled:  metrics,
			Exporter: cfg.MetricsExporter,
		},
		Logging: observe.LoggingConfig{
			Enabled: true,
			Level:   cfg.LogLevel,
		},
	}
}
