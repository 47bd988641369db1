package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	RendererCommand string
	CatalogPath     string
	DatabaseURL     string
	Neo4jURI        string
	Neo4jUser       string
	Neo4jPassword   string
	WorkerCount     int
	WatchDebounceMS int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found, using environment variables")
	}

	return &Config{
		RendererCommand: getEnv("RENDERER_COMMAND", "manim -ql"),
		CatalogPath:     getEnv("CATALOG_PATH", ""),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		Neo4jURI:        getEnv("NEO4J_URI", "bolt://localhost:7687"),
		Neo4jUser:       getEnv("NEO4J_USER", "neo4j"),
		Neo4jPassword:   getEnv("NEO4J_PASSWORD", "password"),
		WorkerCount:     getEnvInt("WORKER_COUNT", 8),
		WatchDebounceMS: getEnvInt("WATCH_DEBOUNCE_MS", 300),
	}
}

// HistoryEnabled reports whether the optional Postgres event log is
// configured.
func (c *Config) HistoryEnabled() bool {
	return c.DatabaseURL != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
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
