package config

import (
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds every environment binding the gateway consumes. All values
// come from the environment, optionally seeded from a .env file in the
// working directory.
type Config struct {
	Port string

	// Embedding service.
	EmbProvider   string // "engine" (in-house encoder engine) or "openai"
	EmbEngineHost string
	EmbEnginePort string
	OpenAIAPIKey  string
	OpenAIBaseURL string

	// Vector-search backends.
	QdrantHost  string
	QdrantPort  string
	MilvusHost  string
	MilvusPort  string
	MilvusToken string
	DatabaseURL string // pgvector backend, disabled when empty

	// Filesystem roots.
	VideoDir  string
	LogDir    string // timing log sink, disabled when empty
	StaticDir string
}

// Load reads configuration from the environment. A missing .env file is
// not an error.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:          getEnvOrDefault("PORT", "8080"),
		EmbProvider:   strings.ToLower(getEnvOrDefault("EMB_PROVIDER", "engine")),
		EmbEngineHost: getEnvOrDefault("EMB_ENGINE_HOST", "localhost"),
		EmbEnginePort: getEnvOrDefault("EMB_ENGINE_PORT", "5000"),
		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),
		QdrantHost:    getEnvOrDefault("QDRANT_HOST", "localhost"),
		QdrantPort:    getEnvOrDefault("QDRANT_PORT", "6333"),
		MilvusHost:    getEnvOrDefault("MILVUS_HOST", "localhost"),
		MilvusPort:    getEnvOrDefault("MILVUS_PORT", "19530"),
		MilvusToken:   getEnvOrDefault("MILVUS_TOKEN", "root:Milvus"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		VideoDir:      getEnvOrDefault("VIDEO_DIR", "/videos"),
		LogDir:        os.Getenv("LOG_DIR"),
		StaticDir:     getEnvOrDefault("STATIC_DIR", "public"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func (c *Config) Validate() error {
	var errs []string

	switch c.EmbProvider {
	case "engine":
		if strings.TrimSpace(c.EmbEngineHost) == "" || strings.TrimSpace(c.EmbEnginePort) == "" {
			errs = append(errs, "EMB_ENGINE_HOST and EMB_ENGINE_PORT are required")
		}
	case "openai":
		if strings.TrimSpace(c.OpenAIAPIKey) == "" {
			errs = append(errs, "OPENAI_API_KEY is required when EMB_PROVIDER=openai")
		}
	default:
		errs = append(errs, fmt.Sprintf("unknown EMB_PROVIDER %q", c.EmbProvider))
	}

	if strings.TrimSpace(c.VideoDir) == "" {
		errs = append(errs, "VIDEO_DIR is required")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// EmbEngineURL is the base URL of the encoder engine.
func (c *Config) EmbEngineURL() string {
	return "http://" + net.JoinHostPort(c.EmbEngineHost, c.EmbEnginePort)
}

// QdrantURL is the base URL of the Qdrant REST API.
func (c *Config) QdrantURL() string {
	return "http://" + net.JoinHostPort(c.QdrantHost, c.QdrantPort)
}

// MilvusAddr is the host:port the Milvus gRPC client dials.
func (c *Config) MilvusAddr() string {
	return net.JoinHostPort(c.MilvusHost, c.MilvusPort)
}
