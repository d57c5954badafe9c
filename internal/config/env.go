package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Env holds process-level settings for the command line tool. The
// generation code never reads the environment itself.
type Env struct {
	LogLevel  string
	LogFormat string
	Workers   int
}

// LoadEnv reads an optional .env file and the MODLOC_* variables.
func LoadEnv() *Env {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	env := &Env{
		LogLevel:  strings.ToLower(getEnv("MODLOC_LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(getEnv("MODLOC_LOG_FORMAT", "console")),
		Workers:   getEnvInt("MODLOC_WORKERS", 4),
	}
	if env.LogFormat != "json" {
		env.LogFormat = "console"
	}
	if env.Workers < 1 {
		env.Workers = 1
	}
	return env
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
