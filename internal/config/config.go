// Package config loads the process configuration from the environment.
package config

import (
	"fmt"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Ledger backend selectors.
const (
	BackendSheets   = "sheets"
	BackendBigQuery = "bigquery"
	BackendCSV      = "csv"
)

// Config holds everything the process reads from the environment. Both
// external client handles (extraction, ledger) are built from it once at
// startup and threaded explicitly into the pipeline and front ends.
type Config struct {
	// Port is the HTTP listen port.
	// Environment variable: PORT
	Port string `koanf:"PORT"`

	// GeminiAPIKey authenticates calls to the extraction service.
	// Environment variable: GEMINI_API_KEY
	GeminiAPIKey string `koanf:"GEMINI_API_KEY"`

	// GeminiModel overrides the default extraction model.
	// Environment variable: GEMINI_MODEL
	GeminiModel string `koanf:"GEMINI_MODEL"`

	// TelegramBotToken enables the Telegram front end when set.
	// Environment variable: TELEGRAM_BOT_TOKEN
	TelegramBotToken string `koanf:"TELEGRAM_BOT_TOKEN"`

	// WebhookSecret scopes the inbound webhook path.
	// Environment variable: WEBHOOK_SECRET
	WebhookSecret string `koanf:"WEBHOOK_SECRET"`

	// PublicBaseURL, when set, is used to register the Telegram webhook at
	// startup (e.g. "https://ledger.example.com").
	// Environment variable: PUBLIC_BASE_URL
	PublicBaseURL string `koanf:"PUBLIC_BASE_URL"`

	// LedgerBackend selects the append-only store: sheets, bigquery or csv.
	// Environment variable: LEDGER_BACKEND
	LedgerBackend string `koanf:"LEDGER_BACKEND"`

	// SpreadsheetID identifies the ledger spreadsheet (sheets backend).
	// Environment variable: SPREADSHEET_ID
	SpreadsheetID string `koanf:"SPREADSHEET_ID"`

	// SheetName is the tab within the spreadsheet rows are appended to.
	// Environment variable: SHEET_NAME
	SheetName string `koanf:"SHEET_NAME"`

	// CredentialsFile is the path to the service-account credentials JSON.
	// Environment variable: GOOGLE_CREDENTIALS_FILE
	CredentialsFile string `koanf:"GOOGLE_CREDENTIALS_FILE"`

	// BigQueryProject, BigQueryDataset and BigQueryTable locate the ledger
	// table (bigquery backend).
	// Environment variables: BIGQUERY_PROJECT, BIGQUERY_DATASET, BIGQUERY_TABLE
	BigQueryProject string `koanf:"BIGQUERY_PROJECT"`
	BigQueryDataset string `koanf:"BIGQUERY_DATASET"`
	BigQueryTable   string `koanf:"BIGQUERY_TABLE"`

	// CSVPath is the ledger file location (csv backend).
	// Environment variable: CSV_LEDGER_PATH
	CSVPath string `koanf:"CSV_LEDGER_PATH"`

	// ArchiveBucket enables GCS archival of inbound images when set.
	// Environment variable: ARCHIVE_BUCKET
	ArchiveBucket string `koanf:"ARCHIVE_BUCKET"`
}

// Load reads the configuration from the environment and applies defaults.
func Load() (Config, error) {
	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", nil), nil); err != nil {
		return Config{}, fmt.Errorf("config: load environment: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf", FlatPaths: true}); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.LedgerBackend == "" {
		cfg.LedgerBackend = BackendSheets
	}
	if cfg.SheetName == "" {
		cfg.SheetName = "Sheet1"
	}
	if cfg.CredentialsFile == "" {
		cfg.CredentialsFile = "google-creds.json"
	}

	switch cfg.LedgerBackend {
	case BackendSheets, BackendBigQuery, BackendCSV:
	default:
		return Config{}, fmt.Errorf("config: unknown ledger backend %q", cfg.LedgerBackend)
	}

	return cfg, nil
}
