package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/twilio/twilio-go/twiml"

	"github.com/tidewaterlabs/supportrelay/services/orchestrator/chat"
	"github.com/tidewaterlabs/supportrelay/services/orchestrator/datatypes"
	"github.com/tidewaterlabs/supportrelay/services/orchestrator/messaging"
)

// channelApology is returned over messaging channels when the pipeline fails.
// Webhook providers retry on non-2xx, so failures degrade to this text
// instead of an error status.
const channelApology = "Sorry, something went wrong. Please try again shortly."

// HandleWhatsAppHealth serves GET /webhook/whatsapp for webhook health checks.
func HandleWhatsAppHealth() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "WhatsApp webhook is active."})
	}
}

// HandleWhatsAppWebhook serves POST /webhook/whatsapp. Twilio delivers the
// message as form fields; the reply goes back as TwiML and, best-effort,
// through the REST API as well. A pipeline failure still answers 200 with an
// apology so Twilio does not retry the delivery.
func HandleWhatsAppWebhook(svc *chat.Service, sender messaging.WhatsAppSender) gin.HandlerFunc {
	return func(c *gin.Context) {
		from := c.PostForm("From")
		body := strings.TrimSpace(c.PostForm("Body"))
		if from == "" || body == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "From and Body form fields are required"})
			return
		}

		reply, err := svc.GetReply(c.Request.Context(), from, body, datatypes.PlatformWhatsApp)
		if err != nil {
			slog.Error("WhatsApp pipeline failed", "from", from, "error", err)
			respondTwiML(c, channelApology)
			return
		}

		// The TwiML response is the primary delivery path; the REST send is
		// an independent best-effort duplicate and never fails the webhook.
		if err := sender.Send(c.Request.Context(), from, reply); err != nil {
			slog.Error("Twilio send failed", "to", from, "error", err)
		}

		respondTwiML(c, reply)
	}
}

func respondTwiML(c *gin.Context, text string) {
	message := &twiml.MessagingMessage{Body: text}
	doc, err := twiml.Messages([]twiml.Element{message})
	if err != nil {
		slog.Error("TwiML generation failed", "error", err)
		c.String(http.StatusInternalServerError, "twiml generation failed")
		return
	}
	c.Header("Content-Type", "application/xml")
	c.String(http.StatusOK, doc)
}
