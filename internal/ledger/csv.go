package ledger

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/dvloznov/receipt-ledger/internal/pipeline"
)

// CSVAppender appends rows to a local CSV file. It exists for development
// and single-machine deployments where no cloud backend is configured.
// Unlike the remote backends the file gives no concurrency guarantees of its
// own, so the appender serializes writes itself.
type CSVAppender struct {
	mu   sync.Mutex
	path string
	log  zerolog.Logger
}

// NewCSVAppender creates a CSV-backed ledger at path, creating the file with
// a header row when it does not exist yet.
func NewCSVAppender(path string, log zerolog.Logger) (*CSVAppender, error) {
	if path == "" {
		return nil, fmt.Errorf("ledger: missing CSV path")
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := writeHeader(path); err != nil {
			return nil, err
		}
	}

	return &CSVAppender{path: path, log: log}, nil
}

func writeHeader(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("ledger: create CSV file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"Amount", "Date", "Platform", "Items", "Vendor", "Note", "Raw Model Output"}); err != nil {
		return fmt.Errorf("ledger: write CSV header: %w", err)
	}
	w.Flush()
	return w.Error()
}

// Append writes one seven-column row to the end of the file.
func (a *CSVAppender) Append(ctx context.Context, record pipeline.TransactionRecord, rawText string) error {
	if a == nil || a.path == "" {
		return storeUnavailable("CSV ledger not initialized")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	f, err := os.OpenFile(a.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return appendFailed(fmt.Sprintf("opening CSV file: %v", err))
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(rowValues(record, rawText)); err != nil {
		return appendFailed(fmt.Sprintf("writing CSV row: %v", err))
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return appendFailed(fmt.Sprintf("flushing CSV row: %v", err))
	}

	a.log.Info().Str("path", a.path).Msg("Row appended to CSV ledger")
	return nil
}
