package config

import (
	"log"
	"os"
	"time"
)

const (
	defaultAppEnv          = "dev"
	defaultDBPath          = "./dev.db"
	defaultPort            = "8080"
	defaultShutdownTimeout = 10 * time.Second
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	AppEnv          string
	AdminEmail      string
	AdminPassword   string
	SessionSecret   string
	DBPath          string
	Port            string
	ShutdownTimeout time.Duration
}

// IsDev reports whether the service runs in the local development environment.
func (c Config) IsDev() bool {
	return c.AppEnv == "" || c.AppEnv == defaultAppEnv
}

// Load reads environment variables and returns a populated Config.
func Load() Config {
	// Local development convenience; production injects the environment.
	if n, err := loadDotEnv(".env"); err != nil {
		log.Printf("[config] warning: read .env: %v", err)
	} else if n > 0 {
		log.Printf("[config] loaded %d variables from .env", n)
	}

	return fromEnv(os.Getenv)
}

func fromEnv(getenv func(string) string) Config {
	cfg := Config{
		AppEnv:          getenv("APP_ENV"),
		AdminEmail:      getenv("ADMIN_EMAIL"),
		AdminPassword:   getenv("ADMIN_PASSWORD"),
		SessionSecret:   getenv("SESSION_SECRET"),
		DBPath:          getenv("DB_PATH"),
		Port:            getenv("PORT"),
		ShutdownTimeout: defaultShutdownTimeout,
	}

	if cfg.AppEnv == "" {
		cfg.AppEnv = defaultAppEnv
	}
	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath
	}
	if cfg.Port == "" {
		cfg.Port = defaultPort
	}
	if raw := getenv("SHUTDOWN_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			log.Printf("[config] warning: invalid SHUTDOWN_TIMEOUT %q, using %s", raw, defaultShutdownTimeout)
		} else {
			cfg.ShutdownTimeout = d
		}
	}

	if cfg.AdminEmail == "" {
		log.Print("[config] warning: ADMIN_EMAIL is not set")
	}
	if cfg.AdminPassword == "" {
		log.Print("[config] warning: ADMIN_PASSWORD is not set")
	}
	if cfg.SessionSecret == "" {
		log.Print("[config] warning: SESSION_SECRET is not set")
	}

	return cfg
}
