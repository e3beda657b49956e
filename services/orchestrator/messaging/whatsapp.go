// Package messaging sends outbound replies over the third-party channel APIs:
// Twilio for WhatsApp and the Meta Graph API for Instagram DMs.
package messaging

import (
	"context"
	"fmt"
	"strings"

	"github.com/twilio/twilio-go"
	api "github.com/twilio/twilio-go/rest/api/v2010"
)

// WhatsAppSender delivers one outbound WhatsApp message.
type WhatsAppSender interface {
	Send(ctx context.Context, to, body string) error
}

// TwilioSender sends WhatsApp messages through Twilio's REST API.
type TwilioSender struct {
	client *twilio.RestClient
	from   string
}

// NewTwilioSender builds a sender using account-SID/auth-token credentials.
// from is the business WhatsApp number; a missing "whatsapp:" prefix is added.
func NewTwilioSender(accountSID, authToken, from string) (*TwilioSender, error) {
	if accountSID == "" || authToken == "" || from == "" {
		return nil, fmt.Errorf("twilio credentials are not fully configured")
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	if !strings.HasPrefix(from, "whatsapp:") {
		from = "whatsapp:" + from
	}
	return &TwilioSender{client: client, from: from}, nil
}

// Send implements the WhatsAppSender interface. to is expected in Twilio's
// webhook form ("whatsapp:+123..."); a bare number gets the prefix added.
func (s *TwilioSender) Send(_ context.Context, to, body string) error {
	if !strings.HasPrefix(to, "whatsapp:") {
		to = "whatsapp:" + to
	}
	params := &api.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(body)

	if _, err := s.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("twilio message create failed: %w", err)
	}
	return nil
}
