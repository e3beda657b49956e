package messaging

import (
	"context"
	"fmt"
)

// DisabledSender stands in for a channel whose credentials are not
// configured. Every send fails with a descriptive error; webhook handlers
// log it and carry on, so an unconfigured channel degrades instead of
// crashing the relay.
type DisabledSender struct {
	Channel string
}

// Send implements both WhatsAppSender and InstagramSender.
func (d DisabledSender) Send(_ context.Context, _, _ string) error {
	return fmt.Errorf("%s sender is not configured", d.Channel)
}
