// Package leads extracts contact information from user messages and persists
// it through a pluggable sink. Extraction is best-effort heuristics: false
// positives and duplicates are expected and must never fail the reply flow.
package leads

import (
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tidewaterlabs/supportrelay/services/orchestrator/datatypes"
)

var (
	emailRegex = regexp.MustCompile(`\b[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}\b`)

	// Loose numeric-with-separators pattern. No digit-count validation or
	// country-code normalization beyond what the pattern itself bounds.
	phoneRegex = regexp.MustCompile(`\b(?:\+?\d{1,3})?[-.\s()]?\d{3,4}[-.\s()]?\d{3}[-.\s()]?\d{3,4}\b`)

	// Names are only captured after an introduction phrase.
	nameRegex = regexp.MustCompile(`(?i)\b(?:my name is|i am|i'm)\s+([a-zA-Z][a-zA-Z\s'-]{1,40})\b`)
)

// Detect extracts name, email, and phone from a message. It returns nil when
// none of the three patterns match; absence is not an error. Only the first
// match of each pattern is used.
func Detect(message string) *datatypes.Lead {
	lead := &datatypes.Lead{}

	if m := nameRegex.FindStringSubmatch(message); m != nil {
		// Casers are stateful, so build one per call.
		lead.Name = cases.Title(language.English).String(strings.TrimSpace(m[1]))
	}
	if m := emailRegex.FindString(message); m != "" {
		lead.Email = strings.TrimSpace(m)
	}
	if m := phoneRegex.FindString(message); m != "" {
		lead.Phone = strings.TrimSpace(m)
	}

	if !lead.HasContact() {
		return nil
	}
	lead.Timestamp = time.Now().UTC()
	return lead
}
