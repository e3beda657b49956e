// Package chat runs the reply pipeline shared by every channel: lead capture,
// escalation detection, context retrieval, prompt assembly, and the model
// call.
package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tidewaterlabs/supportrelay/services/llm"
	"github.com/tidewaterlabs/supportrelay/services/orchestrator/datatypes"
	"github.com/tidewaterlabs/supportrelay/services/orchestrator/handoff"
	"github.com/tidewaterlabs/supportrelay/services/orchestrator/knowledge"
	"github.com/tidewaterlabs/supportrelay/services/orchestrator/leads"
	"github.com/tidewaterlabs/supportrelay/services/orchestrator/memory"
	"github.com/tidewaterlabs/supportrelay/services/orchestrator/observability"
)

const noContextFallback = "No specific knowledge found."

// Service is the channel-agnostic reply pipeline. Channel handlers translate
// their wire formats and hand every inbound message to GetReply.
type Service struct {
	llmClient llm.LLMClient
	retriever knowledge.Retriever
	history   *memory.Store
	leadSink  leads.Sink
	metrics   *observability.RelayMetrics

	businessName string
	botTone      string
	topK         int
}

// NewService wires the pipeline's collaborators. metrics may be nil (tests).
func NewService(
	llmClient llm.LLMClient,
	retriever knowledge.Retriever,
	history *memory.Store,
	leadSink leads.Sink,
	metrics *observability.RelayMetrics,
	businessName, botTone string,
	topK int,
) *Service {
	return &Service{
		llmClient:    llmClient,
		retriever:    retriever,
		history:      history,
		leadSink:     leadSink,
		metrics:      metrics,
		businessName: businessName,
		botTone:      botTone,
		topK:         topK,
	}
}

// GetReply runs the full pipeline for one inbound message and returns the
// assistant reply. Lead persistence failures never fail the reply; retrieval
// and model failures do.
func (s *Service) GetReply(ctx context.Context, userID, message, platform string) (string, error) {
	start := time.Now()

	// Lead capture is a side channel: its failures are logged and dropped
	// so a broken spreadsheet can never break the conversation.
	if lead := leads.Detect(message); lead != nil {
		lead.UserID = userID
		lead.Platform = platform
		if s.metrics != nil {
			s.metrics.RecordLeadCaptured(platform)
		}
		if err := s.leadSink.Append(ctx, *lead); err != nil {
			slog.Error("Failed to persist lead", "platform", platform, "user_id", userID, "error", err)
		}
	}

	// Escalation short-circuits the pipeline: no retrieval, no model call.
	// Both turns are still recorded so the handoff shows up in history.
	if handoff.IsEscalation(message) {
		reply := handoff.Message()
		s.history.AddMessage(userID, datatypes.RoleUser, message)
		s.history.AddMessage(userID, datatypes.RoleAssistant, reply)
		if s.metrics != nil {
			s.metrics.RecordEscalation(platform)
			s.metrics.RecordRequest(platform, true)
		}
		slog.Info("Escalation triggered", "platform", platform, "user_id", userID)
		return reply, nil
	}

	priorTurns := s.history.GetHistory(userID)

	chunks, err := s.retriever.QuerySimilar(ctx, message, s.topK)
	if err != nil {
		s.recordFailure(platform)
		return "", fmt.Errorf("context retrieval failed: %w", err)
	}

	messages := make([]datatypes.Message, 0, len(priorTurns)+2)
	messages = append(messages, datatypes.Message{
		Role:    datatypes.RoleSystem,
		Content: s.buildSystemPrompt(chunks),
	})
	messages = append(messages, priorTurns...)
	messages = append(messages, datatypes.Message{Role: datatypes.RoleUser, Content: message})

	// One model call, no retry. Channel handlers decide how a failure is
	// surfaced on their wire.
	reply, err := s.llmClient.Chat(ctx, messages, llm.GenerationParams{})
	if err != nil {
		s.recordFailure(platform)
		return "", fmt.Errorf("model call failed: %w", err)
	}

	s.history.AddMessage(userID, datatypes.RoleUser, message)
	s.history.AddMessage(userID, datatypes.RoleAssistant, reply)

	if s.metrics != nil {
		s.metrics.RecordRequest(platform, true)
		s.metrics.RecordReplyDuration(platform, time.Since(start).Seconds())
	}
	return reply, nil
}

// ClearHistory drops a user's conversation window.
func (s *Service) ClearHistory(userID string) {
	s.history.Clear(userID)
}

func (s *Service) buildSystemPrompt(chunks []string) string {
	contextBlock := noContextFallback
	if len(chunks) > 0 {
		contextBlock = strings.Join(chunks, "\n\n")
	}
	return fmt.Sprintf(
		"You are the AI customer support assistant for %s.\nTone: %s.\nUse the context below when relevant. If context is missing, be transparent and helpful.\n\nContext:\n%s",
		s.businessName, s.botTone, contextBlock,
	)
}

func (s *Service) recordFailure(platform string) {
	if s.metrics != nil {
		s.metrics.RecordRequest(platform, false)
	}
}
