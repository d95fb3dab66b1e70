package toast

import (
	"context"
	"sync"
)

var (
	defaultMu      sync.Mutex
	defaultManager *Manager
)

// Default returns the process-wide Manager, creating it on first use.
func Default() *Manager {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultManager == nil {
		defaultManager = NewManager()
	}
	return defaultManager
}

// SetDefault replaces the process-wide Manager. Toasts owned by the previous
// Manager are left to it; the caller is responsible for closing it.
func SetDefault(m *Manager) {
	if m == nil {
		return
	}
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultManager = m
}

// Notify shows a toast through the default Manager.
func Notify(ctx context.Context, message string, severity ...Severity) Toast {
	return Default().Notify(ctx, message, severity...)
}

// Dismiss dismisses a toast held by the default Manager.
func Dismiss(ctx context.Context, id string) bool {
	return Default().Dismiss(ctx, id)
}

// Success shows a success toast through the default Manager.
func Success(ctx context.Context, message string) Toast {
	return Notify(ctx, message, SeveritySuccess)
}

// Error shows an error toast through the default Manager.
func Error(ctx context.Context, message string) Toast {
	return Notify(ctx, message, SeverityError)
}

// Warning shows a warning toast through the default Manager.
func Warning(ctx context.Context, message string) Toast {
	return Notify(ctx, message, SeverityWarning)
}

// Info shows an info toast through the default Manager.
func Info(ctx context.Context, message string) Toast {
	return Notify(ctx, message, SeverityInfo)
}
