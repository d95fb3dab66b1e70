package main

import "time"

// appConfig is read from the environment (and .env) by pkg/config.
type appConfig struct {
	Env         string `env:"APP_ENV" envDefault:"development"`
	ServiceName string `env:"APP_NAME" envDefault:"toastd"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:""`
	LogFormat   string `env:"LOG_FORMAT" envDefault:""`

	SearchDelay   time.Duration `env:"SEARCH_DEBOUNCE" envDefault:"300ms"`
	MaxUploadSize int64         `env:"MAX_UPLOAD_SIZE" envDefault:"33554432"`
	StreamBuffer  int           `env:"STREAM_BUFFER" envDefault:"64"`
	Metrics       bool          `env:"METRICS_ENABLED" envDefault:"true"`
	RateLimit     bool          `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
}
