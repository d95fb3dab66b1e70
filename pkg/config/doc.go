// Package config loads application configuration from environment variables
// into typed structs.
//
// It wraps github.com/joho/godotenv (an optional .env file is read once) and
// github.com/caarlos0/env/v11 (struct tag parsing). Each configuration type is
// parsed at most once per process and cached; Reset clears the cache in tests.
//
// # Usage
//
//	type AppConfig struct {
//	    Env      string `env:"APP_ENV" envDefault:"development"`
//	    LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
//	}
//
//	var cfg AppConfig
//	config.MustLoad(&cfg)
//
// # Errors
//
// Parsing failures wrap ErrParsingConfig; a nil destination yields ErrNilPointer.
package config
