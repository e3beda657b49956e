package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("BUSINESS_NAME", "")
	t.Setenv("BOT_TONE", "")
	t.Setenv("LLM_BACKEND_TYPE", "")
	t.Setenv("RETRIEVAL_TOP_K", "")
	t.Setenv("KNOWLEDGE_CLASS_NAME", "")
	t.Setenv("PORT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "My Business", cfg.BusinessName)
	assert.Equal(t, "friendly and professional", cfg.BotTone)
	assert.Equal(t, "groq", cfg.LLMBackendType)
	assert.Equal(t, "llama-3.3-70b-versatile", cfg.GroqModelName)
	assert.Equal(t, "text-embedding-3-small", cfg.EmbeddingModel)
	assert.Equal(t, "BusinessKnowledge", cfg.KnowledgeClassName)
	assert.Equal(t, 4, cfg.RetrievalTopK)
}

func TestLoad_EmbeddingKeyFallsBackToOpenAI(t *testing.T) {
	t.Setenv("LLM_BACKEND_TYPE", "openai")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("EMBEDDING_API_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sk-test", cfg.EmbeddingAPIKey)
}

func TestLoad_InvalidBackend(t *testing.T) {
	t.Setenv("LLM_BACKEND_TYPE", "mainframe")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LLM_BACKEND_TYPE")
}

func TestLoad_InvalidTopK(t *testing.T) {
	t.Setenv("LLM_BACKEND_TYPE", "groq")
	t.Setenv("RETRIEVAL_TOP_K", "zero")

	_, err := Load()
	require.Error(t, err)

	t.Setenv("RETRIEVAL_TOP_K", "-2")
	_, err = Load()
	require.Error(t, err)
}
