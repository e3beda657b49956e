package datatypes

import "time"

// Lead is the contact information extracted from a single user message.
// It is transient: built per message, written to the lead sink, never kept
// in process memory afterwards. Any of Name/Email/Phone may be empty, but a
// Lead is only produced when at least one of them matched.
type Lead struct {
	Timestamp time.Time
	Platform  string
	UserID    string
	Name      string
	Email     string
	Phone     string
}

// HasContact reports whether at least one contact field was extracted.
func (l *Lead) HasContact() bool {
	return l.Name != "" || l.Email != "" || l.Phone != ""
}

// Row renders the lead as an ordered spreadsheet row:
// timestamp, platform, user id, name, email, phone.
func (l *Lead) Row() []interface{} {
	return []interface{}{
		l.Timestamp.UTC().Format(time.RFC3339),
		l.Platform,
		l.UserID,
		l.Name,
		l.Email,
		l.Phone,
	}
}
