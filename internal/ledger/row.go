// Package ledger implements append-only backends for the transaction log.
package ledger

import "github.com/dvloznov/receipt-ledger/internal/pipeline"

// rowValues maps a record plus the verbatim model output into the fixed
// seven-column layout. Column order is positional, matching the existing
// sheet header (Amount, Date, Platform, Items, Vendor, Note, Raw Model
// Output); reordering requires a header migration in every backend.
func rowValues(record pipeline.TransactionRecord, rawText string) []string {
	return []string{
		record.Amount,
		record.Date,
		record.Platform,
		record.Items,
		record.Vendor,
		record.Note,
		rawText,
	}
}

func storeUnavailable(detail string) error {
	return &pipeline.Failure{Kind: pipeline.KindStoreUnavailable, Detail: detail}
}

func appendFailed(detail string) error {
	return &pipeline.Failure{Kind: pipeline.KindAppendFailed, Detail: detail}
}
