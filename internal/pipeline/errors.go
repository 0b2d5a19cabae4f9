package pipeline

import (
	"errors"
	"fmt"
)

// FailureKind is the machine-readable classification of a pipeline failure.
type FailureKind string

const (
	// KindConfigurationError means a required client handle was never
	// initialized; the pipeline fails fast before any external call.
	KindConfigurationError FailureKind = "configuration_error"

	// KindServiceUnavailable means the extraction client is not configured.
	KindServiceUnavailable FailureKind = "service_unavailable"

	// KindRequestFailed means the extraction call itself errored.
	KindRequestFailed FailureKind = "request_failed"

	// KindNoJSONFound means the model response contains no brace-delimited span.
	KindNoJSONFound FailureKind = "no_json_found"

	// KindMalformedJSON means the brace-delimited span is not valid JSON.
	KindMalformedJSON FailureKind = "malformed_json"

	// KindStoreUnavailable means the ledger handle was never acquired.
	KindStoreUnavailable FailureKind = "store_unavailable"

	// KindAppendFailed means the ledger append call errored.
	KindAppendFailed FailureKind = "append_failed"
)

// Failure is a tagged pipeline error. Raw carries the verbatim model text
// when it is useful for diagnosis (parser failures); it is empty otherwise.
// No failure is retried: every Failure is terminal for its invocation.
type Failure struct {
	Kind   FailureKind
	Detail string
	Raw    string
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %s", f.Kind, f.Detail)
}

// AsFailure unwraps err into a *Failure if one is in the chain.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}
