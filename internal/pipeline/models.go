package pipeline

// TransactionRecord is the canonical structured output of one extraction.
// Amount and Date are kept as opaque strings exactly as the model emitted
// them; no numeric or calendar validation happens anywhere in the pipeline.
// Records are immutable after normalization and have no identity beyond
// their position in the ledger.
type TransactionRecord struct {
	Amount   string `json:"amount"`
	Date     string `json:"date"`
	Platform string `json:"platform"`
	Items    string `json:"items"`
	Vendor   string `json:"vendor"`

	// Note is always set by the pipeline from the caller-supplied note,
	// never from the model output.
	Note string `json:"note"`
}
