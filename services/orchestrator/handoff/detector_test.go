package handoff

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEscalation(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    bool
	}{
		{"exact phrase", "talk to human", true},
		{"mixed case", "I want to SPEAK TO AGENT right now", true},
		{"phrase inside sentence", "can I talk to a real person please", true},
		{"customer service", "what's your customer service number", true},
		{"not helpful inside benign sentence", "that was not helpful, but thanks", true},
		{"ordinary question", "what are your opening hours", false},
		{"empty message", "", false},
		{"near miss", "I talked to a human once", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsEscalation(tt.message))
		})
	}
}

func TestMessage(t *testing.T) {
	msg := Message()
	assert.Contains(t, msg, "human agent")
	// The handoff text is fixed; callers rely on it verbatim.
	assert.Equal(t, msg, Message())
}
