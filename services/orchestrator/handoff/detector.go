// Package handoff detects escalation intent and provides the fixed
// human-handoff response.
package handoff

import "strings"

// escalationPhrases is the fixed phrase list. Matching is plain substring
// containment, so false positives are an accepted tradeoff ("not helpful"
// matches inside longer benign sentences too).
var escalationPhrases = []string{
	"talk to human",
	"speak to agent",
	"real person",
	"customer service",
	"help me please",
	"not helpful",
}

// handoffMessage is the fixed text returned when escalation triggers.
const handoffMessage = "I'm connecting you with a human agent now. Please hold on — someone will be with you shortly."

// IsEscalation reports whether the message contains any escalation phrase,
// case-insensitively.
func IsEscalation(message string) bool {
	lowered := strings.ToLower(message)
	for _, phrase := range escalationPhrases {
		if strings.Contains(lowered, phrase) {
			return true
		}
	}
	return false
}

// Message returns the fixed handoff text shown when escalation is triggered.
func Message() string {
	return handoffMessage
}
