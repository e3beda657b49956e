package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tidewaterlabs/supportrelay/services/orchestrator/chat"
	"github.com/tidewaterlabs/supportrelay/services/orchestrator/handlers"
	"github.com/tidewaterlabs/supportrelay/services/orchestrator/ingest"
	"github.com/tidewaterlabs/supportrelay/services/orchestrator/messaging"
	"github.com/tidewaterlabs/supportrelay/services/orchestrator/middleware"
	"github.com/tidewaterlabs/supportrelay/services/orchestrator/observability"
)

// SetupRoutes registers every relay endpoint on the router.
func SetupRoutes(router *gin.Engine, chatSvc *chat.Service, ingestSvc *ingest.Service,
	whatsAppSender messaging.WhatsAppSender, instagramSender messaging.InstagramSender,
	metaVerifyToken string, metrics *observability.RelayMetrics) {

	router.Use(middleware.CORS())

	router.GET("/health", handlers.HandleHealth())
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.POST("/chat/message", handlers.HandleChatMessage(chatSvc))
	router.POST("/ingest", handlers.HandleIngestDocument(ingestSvc, metrics))

	// Channel webhook routes
	whatsapp := router.Group("/webhook/whatsapp")
	{
		whatsapp.GET("", handlers.HandleWhatsAppHealth())
		whatsapp.POST("", handlers.HandleWhatsAppWebhook(chatSvc, whatsAppSender))
	}
	instagram := router.Group("/webhook/instagram")
	{
		instagram.GET("", handlers.HandleInstagramVerification(metaVerifyToken))
		instagram.POST("", handlers.HandleInstagramWebhook(chatSvc, instagramSender))
	}

	// API version 1 group
	v1 := router.Group("/v1")
	{
		// Memory administration routes
		v1.DELETE("/memory/:userId", handlers.HandleClearMemory(chatSvc))
	}
}
