package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tidewaterlabs/supportrelay/services/orchestrator/chat"
	"github.com/tidewaterlabs/supportrelay/services/orchestrator/datatypes"
	"github.com/tidewaterlabs/supportrelay/services/orchestrator/messaging"
)

// instagramWebhookPayload mirrors the slice of Meta's webhook envelope the
// relay reads: first entry, first messaging event.
type instagramWebhookPayload struct {
	Entry []struct {
		Messaging []struct {
			Sender struct {
				ID string `json:"id"`
			} `json:"sender"`
			Message struct {
				Text string `json:"text"`
			} `json:"message"`
		} `json:"messaging"`
	} `json:"entry"`
}

// HandleInstagramVerification serves GET /webhook/instagram, Meta's one-time
// subscription handshake: echo the challenge when the shared token matches.
func HandleInstagramVerification(verifyToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		mode := c.Query("hub.mode")
		token := c.Query("hub.verify_token")
		challenge := c.Query("hub.challenge")

		if mode == "subscribe" && verifyToken != "" && token == verifyToken {
			c.String(http.StatusOK, challenge)
			return
		}
		c.JSON(http.StatusForbidden, gin.H{"error": "Webhook verification failed."})
	}
}

// HandleInstagramWebhook serves POST /webhook/instagram. Replies go out
// through the Graph API. Pipeline or send failures answer 200 with a degraded
// status so Meta does not retry; only malformed payloads get a 4xx.
func HandleInstagramWebhook(svc *chat.Service, sender messaging.InstagramSender) gin.HandlerFunc {
	return func(c *gin.Context) {
		var payload instagramWebhookPayload
		if err := c.BindJSON(&payload); err != nil {
			slog.Error("Failed to parse Instagram webhook", "error", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		if len(payload.Entry) == 0 || len(payload.Entry[0].Messaging) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Instagram payload: missing messaging event"})
			return
		}
		event := payload.Entry[0].Messaging[0]
		senderID := event.Sender.ID
		text := strings.TrimSpace(event.Message.Text)
		if senderID == "" || text == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Instagram payload: missing sender or text"})
			return
		}

		degraded := false
		reply, err := svc.GetReply(c.Request.Context(), senderID, text, datatypes.PlatformInstagram)
		if err != nil {
			slog.Error("Instagram pipeline failed", "sender_id", senderID, "error", err)
			reply = channelApology
			degraded = true
		}

		if err := sender.Send(c.Request.Context(), senderID, reply); err != nil {
			slog.Error("Instagram send failed", "sender_id", senderID, "error", err)
			degraded = true
		}

		if degraded {
			c.JSON(http.StatusOK, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
