// Package httpserver wraps net/http with graceful shutdown, configurable
// timeouts, stop hooks and health-check handlers.
//
//	srv := httpserver.NewFromConfig(cfg,
//	    httpserver.WithLogger(log),
//	    httpserver.WithStopHook(func() { toasts.Close() }),
//	)
//	if err := srv.Run(ctx, router); err != nil {
//	    log.Error("server failed", logger.Error(err))
//	}
//
// Run blocks until the context is cancelled or SIGINT/SIGTERM arrives. Stop
// hooks run before the listener drains so long-lived SSE handlers can return.
// Errors are wrapped with ErrStart and ErrShutdown for errors.Is checks.
package httpserver
