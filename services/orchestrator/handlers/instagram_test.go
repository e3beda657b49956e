package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func instagramPayload(senderID, text string) gin.H {
	return gin.H{
		"entry": []gin.H{
			{
				"messaging": []gin.H{
					{
						"sender":  gin.H{"id": senderID},
						"message": gin.H{"text": text},
					},
				},
			},
		},
	}
}

func TestHandleInstagramVerification_Success(t *testing.T) {
	router := createTestRouter("GET", "/webhook/instagram", HandleInstagramVerification("shared-secret"))
	w := performRequest(router, "GET", "/webhook/instagram?hub.mode=subscribe&hub.verify_token=shared-secret&hub.challenge=12345", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "12345", w.Body.String())
}

func TestHandleInstagramVerification_Rejections(t *testing.T) {
	router := createTestRouter("GET", "/webhook/instagram", HandleInstagramVerification("shared-secret"))

	// Wrong token.
	w := performRequest(router, "GET", "/webhook/instagram?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=12345", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Wrong mode.
	w = performRequest(router, "GET", "/webhook/instagram?hub.mode=unsubscribe&hub.verify_token=shared-secret&hub.challenge=12345", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestHandleInstagramVerification_EmptyConfiguredTokenNeverMatches(t *testing.T) {
	router := createTestRouter("GET", "/webhook/instagram", HandleInstagramVerification(""))
	w := performRequest(router, "GET", "/webhook/instagram?hub.mode=subscribe&hub.verify_token=&hub.challenge=12345", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestHandleInstagramWebhook_Success(t *testing.T) {
	mockLLM := &MockLLMClient{ChatResponse: "Yes, we ship worldwide."}
	svc := newTestChatService(mockLLM, &MockRetriever{}, &MockLeadSink{})
	sender := &recordingSender{}

	router := createTestRouter("POST", "/webhook/instagram", HandleInstagramWebhook(svc, sender))
	w := performRequest(router, "POST", "/webhook/instagram", instagramPayload("ig-user-7", "do you ship abroad?"))

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "ok", response["status"])

	require.Len(t, sender.Texts, 1)
	assert.Equal(t, "ig-user-7", sender.To[0])
	assert.Equal(t, "Yes, we ship worldwide.", sender.Texts[0])
}

func TestHandleInstagramWebhook_MalformedPayload(t *testing.T) {
	svc := newTestChatService(&MockLLMClient{}, &MockRetriever{}, &MockLeadSink{})
	router := createTestRouter("POST", "/webhook/instagram", HandleInstagramWebhook(svc, &recordingSender{}))

	w := performRequest(router, "POST", "/webhook/instagram", gin.H{"entry": []gin.H{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performRequest(router, "POST", "/webhook/instagram", instagramPayload("", "hello"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performRequest(router, "POST", "/webhook/instagram", instagramPayload("ig-user-7", "   "))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleInstagramWebhook_PipelineFailureSendsApology(t *testing.T) {
	mockLLM := &MockLLMClient{ChatError: assert.AnError}
	svc := newTestChatService(mockLLM, &MockRetriever{}, &MockLeadSink{})
	sender := &recordingSender{}

	router := createTestRouter("POST", "/webhook/instagram", HandleInstagramWebhook(svc, sender))
	w := performRequest(router, "POST", "/webhook/instagram", instagramPayload("ig-user-7", "hello"))

	// Meta retries on non-2xx, so failures degrade instead of erroring.
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "degraded", response["status"])

	require.Len(t, sender.Texts, 1)
	assert.Equal(t, "Sorry, something went wrong. Please try again shortly.", sender.Texts[0])
}

func TestHandleInstagramWebhook_SendFailureReportsDegraded(t *testing.T) {
	mockLLM := &MockLLMClient{ChatResponse: "reply"}
	svc := newTestChatService(mockLLM, &MockRetriever{}, &MockLeadSink{})
	sender := &recordingSender{Err: assert.AnError}

	router := createTestRouter("POST", "/webhook/instagram", HandleInstagramWebhook(svc, sender))
	w := performRequest(router, "POST", "/webhook/instagram", instagramPayload("ig-user-7", "hello"))

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "degraded", response["status"])
}
