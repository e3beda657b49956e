// Package datatypes provides the data structures shared across the
// supportrelay orchestrator: chat messages, channel payloads, lead records,
// and the Weaviate schema/query helpers for the knowledge store.
package datatypes

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Conversation roles used in the message stack sent to the model backend.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Channel identifiers recorded on leads and metrics.
const (
	PlatformWeb       = "web"
	PlatformWhatsApp  = "whatsapp"
	PlatformInstagram = "instagram"
)

// MaxMessageContentBytes caps a single inbound message body. Checked in bytes,
// not runes, so oversized multi-byte payloads cannot slip past the limit.
const MaxMessageContentBytes = 32 * 1024

// Message is one role-tagged conversational turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatMessageRequest is the web widget chat payload.
type ChatMessageRequest struct {
	UserID  string `json:"user_id" binding:"required,min=1"`
	Message string `json:"message" binding:"required,min=1" validate:"maxbytes"`
}

// ChatMessageResponse is the web widget reply payload.
type ChatMessageResponse struct {
	Reply string `json:"reply"`
}

// IngestResponse reports how many chunks an upload produced.
type IngestResponse struct {
	Status       string `json:"status"`
	ChunksStored int    `json:"chunks_stored"`
}

var chatValidate *validator.Validate

func init() {
	chatValidate = validator.New()
	_ = chatValidate.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= MaxMessageContentBytes
	})
}

// Validate applies the size limits that gin's binding tags cannot express.
func (r *ChatMessageRequest) Validate() error {
	if err := chatValidate.Struct(r); err != nil {
		return fmt.Errorf("chat request validation failed: %w", err)
	}
	return nil
}
