package main

import (
	"context"
	"log"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/weaviate/weaviate-go-client/v5/weaviate"

	"github.com/tidewaterlabs/supportrelay/services/llm"
	"github.com/tidewaterlabs/supportrelay/services/orchestrator/chat"
	"github.com/tidewaterlabs/supportrelay/services/orchestrator/config"
	"github.com/tidewaterlabs/supportrelay/services/orchestrator/ingest"
	"github.com/tidewaterlabs/supportrelay/services/orchestrator/knowledge"
	"github.com/tidewaterlabs/supportrelay/services/orchestrator/leads"
	"github.com/tidewaterlabs/supportrelay/services/orchestrator/memory"
	"github.com/tidewaterlabs/supportrelay/services/orchestrator/messaging"
	"github.com/tidewaterlabs/supportrelay/services/orchestrator/observability"
	"github.com/tidewaterlabs/supportrelay/services/orchestrator/routes"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	weaviateClient := buildWeaviateClient(cfg.WeaviateURL)

	// The embedder is only needed when a vector store is attached.
	var embedder llm.Embedder
	if weaviateClient != nil {
		embedder, err = llm.NewOpenAIEmbedder(cfg.EmbeddingAPIKey, cfg.EmbeddingModel, cfg.EmbeddingBaseURL)
		if err != nil {
			log.Fatalf("Failed to initialize embedder: %v", err)
		}
	}

	retriever := knowledge.NewWeaviateRetriever(weaviateClient, embedder, cfg.KnowledgeClassName)
	if err := retriever.EnsureSchema(); err != nil {
		slog.Error("Schema check failed", "error", err)
	}

	log.Println("Configuring the LLM Client")
	llmClient, err := newLLMClient(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize LLM client: %v", err)
	}

	var leadSink leads.Sink = leads.NopSink{}
	if cfg.GoogleSheetID != "" {
		sheetsSink, err := leads.NewSheetsSink(context.Background(), cfg.GoogleSheetID, cfg.GoogleServiceAccountJSON)
		if err != nil {
			slog.Error("Failed to initialize sheets sink, lead capture disabled", "error", err)
		} else {
			leadSink = sheetsSink
		}
	} else {
		slog.Info("GOOGLE_SHEET_ID not set, lead persistence disabled")
	}

	var whatsAppSender messaging.WhatsAppSender = messaging.DisabledSender{Channel: "whatsapp"}
	if twilioSender, err := messaging.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioWhatsAppNumber); err != nil {
		slog.Info("Twilio not configured, WhatsApp outbound sends disabled", "reason", err)
	} else {
		whatsAppSender = twilioSender
	}

	var instagramSender messaging.InstagramSender = messaging.DisabledSender{Channel: "instagram"}
	if metaSender, err := messaging.NewMetaSender(cfg.InstagramAccountID, cfg.MetaPageAccessToken); err != nil {
		slog.Info("Meta not configured, Instagram outbound sends disabled", "reason", err)
	} else {
		instagramSender = metaSender
	}

	metrics := observability.InitMetrics()

	chatSvc := chat.NewService(llmClient, retriever, memory.NewStore(), leadSink, metrics,
		cfg.BusinessName, cfg.BotTone, cfg.RetrievalTopK)
	ingestSvc := ingest.NewService(retriever)

	router := gin.Default()
	routes.SetupRoutes(router, chatSvc, ingestSvc, whatsAppSender, instagramSender,
		cfg.MetaVerifyToken, metrics)

	log.Println("Starting the relay server on port ", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// newLLMClient builds the configured chat backend. The backend is only
// reported as in use once construction succeeds.
func newLLMClient(cfg config.Config) (llm.LLMClient, error) {
	switch cfg.LLMBackendType {
	case "openai":
		client, err := llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel)
		if err != nil {
			return nil, err
		}
		slog.Info("Using OpenAI LLM backend")
		return client, nil
	default:
		client, err := llm.NewGroqClient(cfg.GroqAPIKey, cfg.GroqModelName)
		if err != nil {
			return nil, err
		}
		slog.Info("Using Groq LLM backend")
		return client, nil
	}
}

// buildWeaviateClient parses the configured URL and returns a client, or nil
// for lightweight mode (chat without retrieval or ingestion).
func buildWeaviateClient(weaviateURL string) *weaviate.Client {
	if weaviateURL == "" || !strings.Contains(weaviateURL, "http") {
		slog.Info("WEAVIATE_URL not set or empty. Running in lightweight mode (chat only).")
		return nil
	}

	parsedURL, err := url.Parse(weaviateURL)
	if err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
		slog.Warn("WEAVIATE_URL is invalid. Running in lightweight mode.", "url", weaviateURL, "error", err)
		return nil
	}

	client, err := weaviate.NewClient(weaviate.Config{
		Host:   parsedURL.Host,
		Scheme: parsedURL.Scheme,
	})
	if err != nil {
		slog.Error("Failed to create Weaviate client", "error", err)
		return nil
	}
	return client
}
