package pipeline

import "context"

// Extractor sends an image and a fixed instruction to a vision model and
// returns the raw, unmodified text response.
type Extractor interface {
	Extract(ctx context.Context, image []byte, mimeType string) (string, error)
}

// Appender writes one normalized record plus the verbatim model output as a
// new row at the end of the ledger. Implementations do not retry.
type Appender interface {
	Append(ctx context.Context, record TransactionRecord, rawText string) error
}

// Archiver stores a copy of the inbound image and returns its URI.
// Archival is best-effort; the pipeline logs failures and moves on.
type Archiver interface {
	Store(ctx context.Context, data []byte, mimeType string) (string, error)
}
