// Package handlers contains the gin HTTP handlers for every relay endpoint:
// web widget chat, document ingestion, channel webhooks, and memory admin.
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tidewaterlabs/supportrelay/services/orchestrator/chat"
	"github.com/tidewaterlabs/supportrelay/services/orchestrator/datatypes"
)

// HandleChatMessage serves the web widget's POST /chat/message endpoint.
func HandleChatMessage(svc *chat.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.ChatMessageRequest
		if err := c.BindJSON(&req); err != nil {
			slog.Error("Failed to parse the chat request", "error", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		if err := req.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		reply, err := svc.GetReply(c.Request.Context(), req.UserID, req.Message, datatypes.PlatformWeb)
		if err != nil {
			slog.Error("Chat pipeline failed", "user_id", req.UserID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, datatypes.ChatMessageResponse{Reply: reply})
	}
}

// HandleHealth serves GET /health.
func HandleHealth() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// HandleClearMemory serves DELETE /v1/memory/:userId. Clearing an unknown
// user is a no-op that still reports success.
func HandleClearMemory(svc *chat.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("userId")
		svc.ClearHistory(userID)
		slog.Info("Cleared conversation memory", "user_id", userID)
		c.JSON(http.StatusOK, gin.H{"status": "cleared", "user_id": userID})
	}
}
