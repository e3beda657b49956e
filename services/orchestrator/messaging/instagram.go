package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const graphAPIBase = "https://graph.facebook.com/v20.0"

// InstagramSender delivers one outbound Instagram direct message.
type InstagramSender interface {
	Send(ctx context.Context, recipientID, text string) error
}

// MetaSender sends Instagram DMs through the Meta Graph API's messages edge.
type MetaSender struct {
	httpClient  *http.Client
	baseURL     string
	accountID   string
	accessToken string
}

// NewMetaSender builds a sender for the given Instagram business account.
func NewMetaSender(accountID, accessToken string) (*MetaSender, error) {
	if accountID == "" || accessToken == "" {
		return nil, fmt.Errorf("meta credentials are not fully configured")
	}
	return &MetaSender{
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		baseURL:     graphAPIBase,
		accountID:   accountID,
		accessToken: accessToken,
	}, nil
}

type graphMessageRequest struct {
	Recipient struct {
		ID string `json:"id"`
	} `json:"recipient"`
	Message struct {
		Text string `json:"text"`
	} `json:"message"`
}

// Send implements the InstagramSender interface. Any non-2xx Graph response
// is an error carrying the response body.
func (s *MetaSender) Send(ctx context.Context, recipientID, text string) error {
	var payload graphMessageRequest
	payload.Recipient.ID = recipientID
	payload.Message.Text = text

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal graph message: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", s.baseURL, s.accountID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build graph request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.accessToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("graph API call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("graph API returned status %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}
