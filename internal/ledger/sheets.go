package ledger

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/dvloznov/receipt-ledger/internal/pipeline"
)

// SheetsAppender appends rows to a Google Sheet through a service account.
// The service handle is acquired once at startup and reused for the life of
// the process; the Sheets API provides the append atomicity.
type SheetsAppender struct {
	svc           *sheets.Service
	spreadsheetID string
	sheetName     string
	log           zerolog.Logger
}

// NewSheetsAppender creates a Sheets-backed ledger for the given spreadsheet
// and sheet/tab, authenticating with the service-account credentials file.
func NewSheetsAppender(ctx context.Context, credentialsFile, spreadsheetID, sheetName string, log zerolog.Logger) (*SheetsAppender, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("ledger: missing spreadsheet ID")
	}

	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("ledger: create sheets service: %w", err)
	}

	return &SheetsAppender{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
		log:           log,
	}, nil
}

// Append writes one seven-column row to the end of the sheet. Values go in
// RAW so amounts and dates stay the opaque strings the model produced.
func (a *SheetsAppender) Append(ctx context.Context, record pipeline.TransactionRecord, rawText string) error {
	if a == nil || a.svc == nil {
		return storeUnavailable("sheets client not initialized")
	}

	values := make([]any, 0, 7)
	for _, v := range rowValues(record, rawText) {
		values = append(values, v)
	}

	vr := &sheets.ValueRange{Values: [][]any{values}}

	_, err := a.svc.Spreadsheets.Values.Append(a.spreadsheetID, a.sheetName, vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return appendFailed(fmt.Sprintf("appending row to sheet: %v", err))
	}

	a.log.Info().Str("spreadsheet_id", a.spreadsheetID).Msg("Row appended to sheet")
	return nil
}
