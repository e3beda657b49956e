package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidewaterlabs/supportrelay/services/llm"
	"github.com/tidewaterlabs/supportrelay/services/orchestrator/chat"
	"github.com/tidewaterlabs/supportrelay/services/orchestrator/datatypes"
	"github.com/tidewaterlabs/supportrelay/services/orchestrator/memory"
)

// =============================================================================
// Test Setup
// =============================================================================

func init() {
	// Set Gin to test mode to reduce noise in test output
	gin.SetMode(gin.TestMode)
}

// MockLLMClient implements llm.LLMClient for handler testing.
type MockLLMClient struct {
	ChatResponse string
	ChatError    error
	Calls        int
}

func (m *MockLLMClient) Chat(_ context.Context, _ []datatypes.Message, _ llm.GenerationParams) (string, error) {
	m.Calls++
	return m.ChatResponse, m.ChatError
}

// MockRetriever implements knowledge.Retriever for handler testing.
type MockRetriever struct {
	Chunks []string
	Err    error
}

func (m *MockRetriever) QuerySimilar(_ context.Context, _ string, _ int) ([]string, error) {
	return m.Chunks, m.Err
}

func (m *MockRetriever) StoreChunks(_ context.Context, chunks []string, _ string) (int, error) {
	return len(chunks), nil
}

// MockLeadSink implements leads.Sink for handler testing.
type MockLeadSink struct {
	Leads []datatypes.Lead
	Err   error
}

func (m *MockLeadSink) Append(_ context.Context, lead datatypes.Lead) error {
	if m.Err != nil {
		return m.Err
	}
	m.Leads = append(m.Leads, lead)
	return nil
}

// newTestChatService builds a pipeline around the given mocks.
func newTestChatService(llmClient *MockLLMClient, retriever *MockRetriever, sink *MockLeadSink) *chat.Service {
	return chat.NewService(llmClient, retriever, memory.NewStore(), sink, nil, "Test Business", "friendly", 4)
}

// createTestRouter creates a Gin router with the specified handler for testing.
func createTestRouter(method, path string, handler gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	switch method {
	case "POST":
		router.POST(path, handler)
	case "GET":
		router.GET(path, handler)
	case "DELETE":
		router.DELETE(path, handler)
	}
	return router
}

// performRequest executes an HTTP request against the test router.
func performRequest(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// =============================================================================
// HandleChatMessage Tests
// =============================================================================

func TestHandleChatMessage_Success(t *testing.T) {
	mockLLM := &MockLLMClient{ChatResponse: "We deliver within 3 days."}
	svc := newTestChatService(mockLLM, &MockRetriever{}, &MockLeadSink{})

	router := createTestRouter("POST", "/chat/message", HandleChatMessage(svc))
	w := performRequest(router, "POST", "/chat/message", datatypes.ChatMessageRequest{
		UserID:  "visitor-1",
		Message: "how fast is delivery?",
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var response datatypes.ChatMessageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "We deliver within 3 days.", response.Reply)
}

func TestHandleChatMessage_InvalidJSON(t *testing.T) {
	svc := newTestChatService(&MockLLMClient{}, &MockRetriever{}, &MockLeadSink{})
	router := createTestRouter("POST", "/chat/message", HandleChatMessage(svc))

	req, _ := http.NewRequest("POST", "/chat/message", bytes.NewBufferString("{invalid json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleChatMessage_MissingFields(t *testing.T) {
	svc := newTestChatService(&MockLLMClient{}, &MockRetriever{}, &MockLeadSink{})
	router := createTestRouter("POST", "/chat/message", HandleChatMessage(svc))

	w := performRequest(router, "POST", "/chat/message", gin.H{"user_id": "visitor-1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performRequest(router, "POST", "/chat/message", gin.H{"message": "hello"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleChatMessage_OversizedMessage(t *testing.T) {
	mockLLM := &MockLLMClient{ChatResponse: "unused"}
	svc := newTestChatService(mockLLM, &MockRetriever{}, &MockLeadSink{})
	router := createTestRouter("POST", "/chat/message", HandleChatMessage(svc))

	w := performRequest(router, "POST", "/chat/message", datatypes.ChatMessageRequest{
		UserID:  "visitor-1",
		Message: strings.Repeat("a", datatypes.MaxMessageContentBytes+1),
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, mockLLM.Calls)
}

func TestHandleChatMessage_PipelineError(t *testing.T) {
	mockLLM := &MockLLMClient{ChatError: assert.AnError}
	svc := newTestChatService(mockLLM, &MockRetriever{}, &MockLeadSink{})
	router := createTestRouter("POST", "/chat/message", HandleChatMessage(svc))

	w := performRequest(router, "POST", "/chat/message", datatypes.ChatMessageRequest{
		UserID:  "visitor-1",
		Message: "hello",
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Contains(t, response["error"], "model call failed")
}

func TestHandleChatMessage_EscalationReturnsHandoff(t *testing.T) {
	mockLLM := &MockLLMClient{ChatResponse: "should not be used"}
	svc := newTestChatService(mockLLM, &MockRetriever{}, &MockLeadSink{})
	router := createTestRouter("POST", "/chat/message", HandleChatMessage(svc))

	w := performRequest(router, "POST", "/chat/message", datatypes.ChatMessageRequest{
		UserID:  "visitor-1",
		Message: "I need a real person",
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var response datatypes.ChatMessageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Contains(t, response.Reply, "human agent")
	assert.Zero(t, mockLLM.Calls)
}

// =============================================================================
// HandleHealth / HandleClearMemory Tests
// =============================================================================

func TestHandleHealth(t *testing.T) {
	router := createTestRouter("GET", "/health", HandleHealth())
	w := performRequest(router, "GET", "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestHandleClearMemory(t *testing.T) {
	mockLLM := &MockLLMClient{ChatResponse: "reply"}
	svc := newTestChatService(mockLLM, &MockRetriever{}, &MockLeadSink{})

	chatRouter := createTestRouter("POST", "/chat/message", HandleChatMessage(svc))
	w := performRequest(chatRouter, "POST", "/chat/message", datatypes.ChatMessageRequest{
		UserID:  "visitor-9",
		Message: "remember this",
	})
	require.Equal(t, http.StatusOK, w.Code)

	clearRouter := createTestRouter("DELETE", "/v1/memory/:userId", HandleClearMemory(svc))
	w = performRequest(clearRouter, "DELETE", "/v1/memory/visitor-9", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "cleared", response["status"])
	assert.Equal(t, "visitor-9", response["user_id"])
}
