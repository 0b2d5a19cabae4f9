// Command ingest runs the transaction pipeline on a local receipt image.
// Useful for backfilling the ledger without going through a front end.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"mime"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/dvloznov/receipt-ledger/internal/config"
	"github.com/dvloznov/receipt-ledger/internal/extraction"
	"github.com/dvloznov/receipt-ledger/internal/ledger"
	"github.com/dvloznov/receipt-ledger/internal/logger"
	"github.com/dvloznov/receipt-ledger/internal/pipeline"
)

func main() {
	var (
		file = flag.String("file", "", "path to the receipt image")
		note = flag.String("note", "Ingested from CLI", "note to attach to the transaction")
	)
	flag.Parse()

	_ = godotenv.Load()

	log := logger.New()

	if *file == "" {
		log.Fatal().Msg("-file is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	image, err := os.ReadFile(*file)
	if err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("Failed to read image file")
	}

	mimeType := mime.TypeByExtension(filepath.Ext(*file))
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	ctx := context.Background()

	extractor, err := extraction.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize extraction client")
	}

	appender, err := newAppender(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize ledger")
	}

	pipe := pipeline.New(extractor, appender, log)

	record, err := pipe.Process(ctx, image, mimeType, *note)
	if err != nil {
		log.Fatal().Err(err).Msg("Pipeline failed")
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(record); err != nil {
		log.Fatal().Err(err).Msg("Failed to print record")
	}
}

func newAppender(ctx context.Context, cfg config.Config, log zerolog.Logger) (pipeline.Appender, error) {
	switch cfg.LedgerBackend {
	case config.BackendBigQuery:
		return ledger.NewBigQueryAppender(ctx, cfg.BigQueryProject, cfg.BigQueryDataset, cfg.BigQueryTable, log)
	case config.BackendCSV:
		return ledger.NewCSVAppender(cfg.CSVPath, log)
	default:
		return ledger.NewSheetsAppender(ctx, cfg.CredentialsFile, cfg.SpreadsheetID, cfg.SheetName, log)
	}
}
