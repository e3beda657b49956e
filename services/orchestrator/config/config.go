// Package config loads the relay's runtime settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config contains every environment-sourced setting the relay uses. Optional
// integrations (Weaviate, Twilio, Meta, Google Sheets) may be left blank; the
// wiring in main degrades them to disabled collaborators.
type Config struct {
	Port string

	BusinessName string
	BotTone      string

	LLMBackendType string
	GroqAPIKey     string
	GroqModelName  string
	OpenAIAPIKey   string
	OpenAIModel    string

	EmbeddingAPIKey  string
	EmbeddingModel   string
	EmbeddingBaseURL string

	WeaviateURL        string
	KnowledgeClassName string
	RetrievalTopK      int

	TwilioAccountSID     string
	TwilioAuthToken      string
	TwilioWhatsAppNumber string

	MetaVerifyToken     string
	MetaPageAccessToken string
	InstagramAccountID  string

	GoogleSheetID            string
	GoogleServiceAccountJSON string
}

// Load reads environment variables and applies defaults.
func Load() (Config, error) {
	cfg := Config{
		Port:                     envOrDefault("PORT", "8080"),
		BusinessName:             envOrDefault("BUSINESS_NAME", "My Business"),
		BotTone:                  envOrDefault("BOT_TONE", "friendly and professional"),
		LLMBackendType:           envOrDefault("LLM_BACKEND_TYPE", "groq"),
		GroqAPIKey:               trimmedEnv("GROQ_API_KEY"),
		GroqModelName:            envOrDefault("GROQ_MODEL_NAME", "llama-3.3-70b-versatile"),
		OpenAIAPIKey:             trimmedEnv("OPENAI_API_KEY"),
		OpenAIModel:              trimmedEnv("OPENAI_MODEL"),
		EmbeddingAPIKey:          trimmedEnv("EMBEDDING_API_KEY"),
		EmbeddingModel:           envOrDefault("EMBEDDING_MODEL", "text-embedding-3-small"),
		EmbeddingBaseURL:         trimmedEnv("EMBEDDING_BASE_URL"),
		WeaviateURL:              strings.Trim(trimmedEnv("WEAVIATE_URL"), "\"' "),
		KnowledgeClassName:       envOrDefault("KNOWLEDGE_CLASS_NAME", "BusinessKnowledge"),
		RetrievalTopK:            4,
		TwilioAccountSID:         trimmedEnv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:          trimmedEnv("TWILIO_AUTH_TOKEN"),
		TwilioWhatsAppNumber:     trimmedEnv("TWILIO_WHATSAPP_NUMBER"),
		MetaVerifyToken:          trimmedEnv("META_VERIFY_TOKEN"),
		MetaPageAccessToken:      trimmedEnv("META_PAGE_ACCESS_TOKEN"),
		InstagramAccountID:       trimmedEnv("INSTAGRAM_ACCOUNT_ID"),
		GoogleSheetID:            trimmedEnv("GOOGLE_SHEET_ID"),
		GoogleServiceAccountJSON: trimmedEnv("GOOGLE_SERVICE_ACCOUNT_JSON"),
	}

	// Embeddings share the OpenAI key unless configured separately.
	if cfg.EmbeddingAPIKey == "" {
		cfg.EmbeddingAPIKey = cfg.OpenAIAPIKey
	}

	var err error
	cfg.RetrievalTopK, err = intFromEnv("RETRIEVAL_TOP_K", cfg.RetrievalTopK)
	if err != nil {
		return Config{}, err
	}
	if cfg.RetrievalTopK <= 0 {
		return Config{}, fmt.Errorf("RETRIEVAL_TOP_K must be positive")
	}

	switch cfg.LLMBackendType {
	case "groq", "openai":
	default:
		return Config{}, fmt.Errorf("LLM_BACKEND_TYPE must be 'groq' or 'openai', got %q", cfg.LLMBackendType)
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	v := trimmedEnv(key)
	if v == "" {
		return fallback
	}
	return v
}

func trimmedEnv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func intFromEnv(key string, fallback int) (int, error) {
	v := trimmedEnv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return n, nil
}
