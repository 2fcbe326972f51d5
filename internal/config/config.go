package config

import (
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Config holds the project config values.
type Config struct {
	DatabaseURL string
	JWTSecret   string
	Port        string
}

// New loads .env if present, installs the global zap logger and reads the
// environment.
func New() *Config {
	godotenv.Load()

	logger, _ := zap.NewProduction()
	_ = zap.ReplaceGlobals(logger)

	cfg := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		Port:        os.Getenv("PORT"),
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	return cfg
}
