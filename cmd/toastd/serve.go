package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/toastkit/internal/metrics"
	"github.com/dmitrymomot/toastkit/internal/web"
	"github.com/dmitrymomot/toastkit/pkg/clientip"
	"github.com/dmitrymomot/toastkit/pkg/config"
	"github.com/dmitrymomot/toastkit/pkg/debounce"
	"github.com/dmitrymomot/toastkit/pkg/httpserver"
	"github.com/dmitrymomot/toastkit/pkg/logger"
	"github.com/dmitrymomot/toastkit/pkg/ratelimiter"
	"github.com/dmitrymomot/toastkit/pkg/requestid"
	"github.com/dmitrymomot/toastkit/pkg/toast"
)

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address, overrides HTTP_ADDR")

	return cmd
}

func serve(ctx context.Context, addr string) error {
	var app appConfig
	if err := config.Load(&app); err != nil {
		return err
	}
	var httpCfg httpserver.Config
	if err := config.Load(&httpCfg); err != nil {
		return err
	}

	opts := []logger.Option{
		logger.WithEnvironment(app.Env, app.ServiceName),
		logger.WithOutput(os.Stdout),
		logger.WithContextExtractors(requestid.LoggerExtractor(), clientip.LoggerExtractor()),
	}
	if app.LogLevel != "" {
		opts = append(opts, logger.WithLevel(logger.ParseLevel(app.LogLevel)))
	}
	switch f := logger.Format(app.LogFormat); f {
	case "":
	case logger.FormatJSON, logger.FormatText:
		opts = append(opts, logger.WithFormat(f))
	default:
		return fmt.Errorf("%w: LOG_FORMAT must be %q or %q, got %q", config.ErrParsingConfig, logger.FormatJSON, logger.FormatText, f)
	}
	log := logger.New(opts...)
	logger.SetAsDefault(log)

	toastOpts := []toast.Option{
		toast.WithLogger(log),
		toast.WithStreamBuffer(app.StreamBuffer),
	}
	webOpts := []web.Option{
		web.WithLogger(log),
		web.WithMaxUploadSize(app.MaxUploadSize),
		web.WithSearchDebouncer(debounce.New(debounce.WithDelay(app.SearchDelay))),
	}
	if app.Metrics {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		toastOpts = append(toastOpts, toast.WithObserver(metrics.New(metrics.WithRegistry(reg))))
		webOpts = append(webOpts,
			web.WithMetricsHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
			web.WithMiddleware(metrics.HTTPMiddleware(metrics.WithRegistry(reg))),
		)
	}

	var limits *ratelimiter.MemoryStore
	if app.RateLimit {
		var rlCfg ratelimiter.Config
		if err := config.Load(&rlCfg); err != nil {
			return err
		}
		limits = ratelimiter.NewMemoryStore()
		limiter, err := ratelimiter.NewBucket(limits, rlCfg)
		if err != nil {
			limits.Close()
			return err
		}
		webOpts = append(webOpts, web.WithRateLimiter(limiter))
	}

	manager := toast.NewManager(toastOpts...)
	toast.SetDefault(manager)

	site := web.New(manager, webOpts...)

	serverOpts := []httpserver.Option{
		httpserver.WithLogger(log),
		// Ends open event streams so graceful shutdown does not wait on them.
		httpserver.WithStopHook(func() {
			site.Close()
			_ = manager.Close()
			if limits != nil {
				limits.Close()
			}
		}),
	}
	if addr != "" {
		serverOpts = append(serverOpts, httpserver.WithAddr(addr))
	}
	server := httpserver.NewFromConfig(httpCfg, serverOpts...)

	log.InfoContext(ctx, "starting toastd",
		slog.String("version", version),
		slog.String("env", app.Env),
	)
	return server.Run(ctx, site.Router())
}
