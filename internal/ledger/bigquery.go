package ledger

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/rs/zerolog"

	"github.com/dvloznov/receipt-ledger/internal/pipeline"
)

// LedgerRow is the BigQuery schema for one appended transaction. The column
// set mirrors the sheet layout plus an append timestamp.
type LedgerRow struct {
	Amount         string    `bigquery:"amount"`
	Date           string    `bigquery:"date"`
	Platform       string    `bigquery:"platform"`
	Items          string    `bigquery:"items"`
	Vendor         string    `bigquery:"vendor"`
	Note           string    `bigquery:"note"`
	RawModelOutput string    `bigquery:"raw_model_output"`
	AppendedTS     time.Time `bigquery:"appended_ts"`
}

// BigQueryAppender streams rows into a BigQuery table. It is an alternate
// ledger backend for deployments that already keep their finance data in a
// warehouse.
type BigQueryAppender struct {
	client  *bigquery.Client
	dataset string
	table   string
	log     zerolog.Logger
}

// NewBigQueryAppender creates a BigQuery-backed ledger. The client is held
// for the life of the process.
func NewBigQueryAppender(ctx context.Context, projectID, dataset, table string, log zerolog.Logger) (*BigQueryAppender, error) {
	if projectID == "" || dataset == "" || table == "" {
		return nil, fmt.Errorf("ledger: incomplete BigQuery configuration")
	}

	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("ledger: create bigquery client: %w", err)
	}

	return &BigQueryAppender{
		client:  client,
		dataset: dataset,
		table:   table,
		log:     log,
	}, nil
}

// Append streams one row into the ledger table.
func (a *BigQueryAppender) Append(ctx context.Context, record pipeline.TransactionRecord, rawText string) error {
	if a == nil || a.client == nil {
		return storeUnavailable("bigquery client not initialized")
	}

	row := &LedgerRow{
		Amount:         record.Amount,
		Date:           record.Date,
		Platform:       record.Platform,
		Items:          record.Items,
		Vendor:         record.Vendor,
		Note:           record.Note,
		RawModelOutput: rawText,
		AppendedTS:     time.Now(),
	}

	inserter := a.client.Dataset(a.dataset).Table(a.table).Inserter()
	if err := inserter.Put(ctx, row); err != nil {
		return appendFailed(fmt.Sprintf("inserting ledger row: %v", err))
	}

	a.log.Info().Str("dataset", a.dataset).Str("table", a.table).Msg("Row appended to BigQuery ledger")
	return nil
}

// Close releases the underlying BigQuery client.
func (a *BigQueryAppender) Close() error {
	if a == nil || a.client == nil {
		return nil
	}
	return a.client.Close()
}
