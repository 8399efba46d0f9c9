package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "EMB_PROVIDER", "EMB_ENGINE_HOST", "EMB_ENGINE_PORT",
		"QDRANT_HOST", "QDRANT_PORT", "MILVUS_HOST", "MILVUS_PORT",
		"MILVUS_TOKEN", "DATABASE_URL", "VIDEO_DIR", "LOG_DIR",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "engine", cfg.EmbProvider)
	assert.Equal(t, "http://localhost:5000", cfg.EmbEngineURL())
	assert.Equal(t, "http://localhost:6333", cfg.QdrantURL())
	assert.Equal(t, "localhost:19530", cfg.MilvusAddr())
	assert.Equal(t, "root:Milvus", cfg.MilvusToken)
	assert.Equal(t, "/videos", cfg.VideoDir)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Empty(t, cfg.LogDir)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("EMB_ENGINE_HOST", "encoder.internal")
	t.Setenv("EMB_ENGINE_PORT", "8000")
	t.Setenv("QDRANT_HOST", "qdrant.internal")
	t.Setenv("VIDEO_DIR", "/srv/videos")

	cfg := Load()
	assert.Equal(t, "http://encoder.internal:8000", cfg.EmbEngineURL())
	assert.Equal(t, "http://qdrant.internal:6333", cfg.QdrantURL())
	assert.Equal(t, "/srv/videos", cfg.VideoDir)
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		EmbProvider:   "engine",
		EmbEngineHost: "localhost",
		EmbEnginePort: "5000",
		VideoDir:      "/videos",
	}
	require.NoError(t, cfg.Validate())

	cfg.EmbEngineHost = ""
	require.Error(t, cfg.Validate())

	cfg = &Config{EmbProvider: "openai", VideoDir: "/videos"}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")

	cfg.OpenAIAPIKey = "sk-test"
	require.NoError(t, cfg.Validate())

	cfg = &Config{EmbProvider: "carrier-pigeon", VideoDir: "/videos"}
	require.Error(t, cfg.Validate())
}
