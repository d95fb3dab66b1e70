// Package logger provides a context-aware wrapper around Go's slog package
// adding functional options for configuration, helper attribute constructors,
// and transparent injection of values stored in context.Context.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithEnvironment("development", "toastd"),
//	    logger.WithContextValue("request_id", ctxKeyRequestID),
//	)
//	logger.SetAsDefault(log)
//
//	log.InfoContext(ctx, "toast appended",
//	    logger.ToastID(t.ID),
//	    logger.Severity(t.Severity),
//	)
//
// Helper constructors such as Error return an empty attribute for nil values,
// so calls like log.Info("done", logger.Error(err)) need no nil check.
package logger
