package ledger

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"github.com/dvloznov/receipt-ledger/internal/pipeline"
)

func TestRowValuesOrder(t *testing.T) {
	record := pipeline.TransactionRecord{
		Amount:   "250",
		Date:     "2024-01-05",
		Platform: "UPI",
		Items:    "thali",
		Vendor:   "Cafe Anna",
		Note:     "lunch",
	}

	got := rowValues(record, "raw output")
	want := []string{"250", "2024-01-05", "UPI", "thali", "Cafe Anna", "lunch", "raw output"}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("rowValues() = %v, want %v", got, want)
	}
}

func TestCSVAppender(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.csv")

	appender, err := NewCSVAppender(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewCSVAppender failed: %v", err)
	}

	ctx := context.Background()

	first := pipeline.TransactionRecord{Amount: "10", Platform: "card", Note: "coffee"}
	second := pipeline.TransactionRecord{Amount: "99", Date: "2024-02-01", Note: ""}

	if err := appender.Append(ctx, first, "raw one"); err != nil {
		t.Fatalf("first Append failed: %v", err)
	}
	if err := appender.Append(ctx, second, "raw, with comma\nand newline"); err != nil {
		t.Fatalf("second Append failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening ledger file: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("reading ledger file: %v", err)
	}

	if len(rows) != 3 {
		t.Fatalf("ledger has %d rows, want header plus 2", len(rows))
	}

	wantHeader := []string{"Amount", "Date", "Platform", "Items", "Vendor", "Note", "Raw Model Output"}
	if !reflect.DeepEqual(rows[0], wantHeader) {
		t.Errorf("header = %v, want %v", rows[0], wantHeader)
	}

	wantFirst := []string{"10", "", "card", "", "", "coffee", "raw one"}
	if !reflect.DeepEqual(rows[1], wantFirst) {
		t.Errorf("first row = %v, want %v", rows[1], wantFirst)
	}

	if rows[2][6] != "raw, with comma\nand newline" {
		t.Errorf("raw output column = %q, want it verbatim", rows[2][6])
	}
}

func TestCSVAppenderKeepsExistingRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.csv")
	ctx := context.Background()

	appender, err := NewCSVAppender(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewCSVAppender failed: %v", err)
	}
	if err := appender.Append(ctx, pipeline.TransactionRecord{Amount: "1"}, "r1"); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	// Reopening the same file must not truncate it.
	reopened, err := NewCSVAppender(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("reopening ledger: %v", err)
	}
	if err := reopened.Append(ctx, pipeline.TransactionRecord{Amount: "2"}, "r2"); err != nil {
		t.Fatalf("Append after reopen failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening ledger file: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("reading ledger file: %v", err)
	}
	if len(rows) != 3 {
		t.Errorf("ledger has %d rows after reopen, want 3", len(rows))
	}
}

func TestNewCSVAppenderRequiresPath(t *testing.T) {
	if _, err := NewCSVAppender("", zerolog.Nop()); err == nil {
		t.Error("NewCSVAppender(\"\") succeeded, want error")
	}
}
