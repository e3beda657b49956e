package leads

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/tidewaterlabs/supportrelay/services/orchestrator/datatypes"
)

// Sink persists extracted leads. Implementations must treat Append as an
// independent, non-transactional call: the orchestrator deliberately discards
// its error after logging it.
type Sink interface {
	Append(ctx context.Context, lead datatypes.Lead) error
}

// SheetsSink appends lead rows to the first worksheet of a Google Sheet.
type SheetsSink struct {
	service *sheets.Service
	sheetID string
}

// NewSheetsSink builds a sink authenticated with a service-account JSON key.
func NewSheetsSink(ctx context.Context, sheetID, credentialsFile string) (*SheetsSink, error) {
	if sheetID == "" {
		return nil, fmt.Errorf("GOOGLE_SHEET_ID is not set")
	}
	service, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return &SheetsSink{service: service, sheetID: sheetID}, nil
}

// Append writes one lead row: timestamp, platform, user id, name, email, phone.
func (s *SheetsSink) Append(ctx context.Context, lead datatypes.Lead) error {
	values := &sheets.ValueRange{Values: [][]interface{}{lead.Row()}}
	_, err := s.service.Spreadsheets.Values.Append(s.sheetID, "A1", values).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to append lead row: %w", err)
	}
	return nil
}

// NopSink discards leads. Used when no spreadsheet is configured so that lead
// detection still runs (and is still counted) without a persistence target.
type NopSink struct{}

// Append implements the Sink interface.
func (NopSink) Append(_ context.Context, lead datatypes.Lead) error {
	slog.Debug("Lead sink disabled, discarding lead", "platform", lead.Platform, "user_id", lead.UserID)
	return nil
}
