// Package handlers implements the HTTP upload front end.
package handlers

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/dvloznov/receipt-ledger/internal/api/middleware"
	"github.com/dvloznov/receipt-ledger/internal/pipeline"
)

// maxUploadBytes bounds the multipart form parse. Receipt photos are a few
// megabytes at most.
const maxUploadBytes = 20 << 20

// Processor is the narrow pipeline surface the front ends depend on.
type Processor interface {
	Process(ctx context.Context, image []byte, mimeType, note string) (pipeline.TransactionRecord, error)
}

// TransactionsHandler handles the receipt upload endpoint.
type TransactionsHandler struct {
	proc Processor
	log  zerolog.Logger
}

// NewTransactionsHandler creates the handler.
func NewTransactionsHandler(proc Processor, log zerolog.Logger) *TransactionsHandler {
	return &TransactionsHandler{
		proc: proc,
		log:  log,
	}
}

// ProcessTransaction handles POST /api/process_transaction. The multipart
// body carries an "image" file field and a "note" text field; the note may
// be empty but must be present.
func (h *TransactionsHandler) ProcessTransaction(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid multipart body", err.Error())
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "No image file provided", "")
		return
	}
	defer file.Close()

	notes, ok := r.MultipartForm.Value["note"]
	if !ok || len(notes) == 0 {
		middleware.WriteError(w, http.StatusBadRequest, "No note provided", "")
		return
	}
	note := notes[0]

	if header.Filename == "" {
		middleware.WriteError(w, http.StatusBadRequest, "No selected file", "")
		return
	}

	image, err := io.ReadAll(file)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to read uploaded image")
		middleware.WriteError(w, http.StatusBadRequest, "Could not read image file", err.Error())
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	record, err := h.proc.Process(r.Context(), image, mimeType, note)
	if err != nil {
		details := err.Error()
		if f, ok := pipeline.AsFailure(err); ok {
			details = f.Detail
		}
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to process transaction", details)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Transaction processed successfully",
		"data":    record,
	})
}

// Health handles GET /health.
func Health(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}
