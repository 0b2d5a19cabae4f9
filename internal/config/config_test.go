package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("LEDGER_BACKEND", "")
	t.Setenv("SHEET_NAME", "")
	t.Setenv("GOOGLE_CREDENTIALS_FILE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want default 8080", cfg.Port)
	}
	if cfg.LedgerBackend != BackendSheets {
		t.Errorf("LedgerBackend = %q, want default %q", cfg.LedgerBackend, BackendSheets)
	}
	if cfg.SheetName != "Sheet1" {
		t.Errorf("SheetName = %q, want default Sheet1", cfg.SheetName)
	}
	if cfg.CredentialsFile != "google-creds.json" {
		t.Errorf("CredentialsFile = %q, want default google-creds.json", cfg.CredentialsFile)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("LEDGER_BACKEND", "csv")
	t.Setenv("CSV_LEDGER_PATH", "/tmp/ledger.csv")
	t.Setenv("WEBHOOK_SECRET", "s3cret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "9999" {
		t.Errorf("Port = %q, want 9999", cfg.Port)
	}
	if cfg.GeminiAPIKey != "test-key" {
		t.Errorf("GeminiAPIKey = %q, want test-key", cfg.GeminiAPIKey)
	}
	if cfg.LedgerBackend != BackendCSV {
		t.Errorf("LedgerBackend = %q, want csv", cfg.LedgerBackend)
	}
	if cfg.CSVPath != "/tmp/ledger.csv" {
		t.Errorf("CSVPath = %q, want /tmp/ledger.csv", cfg.CSVPath)
	}
	if cfg.WebhookSecret != "s3cret" {
		t.Errorf("WebhookSecret = %q, want s3cret", cfg.WebhookSecret)
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("LEDGER_BACKEND", "redis")

	if _, err := Load(); err == nil {
		t.Error("Load accepted unknown ledger backend, want error")
	}
}
