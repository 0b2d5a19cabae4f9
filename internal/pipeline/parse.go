package pipeline

import (
	"encoding/json"
	"fmt"
	"strings"
)

// parseModelOutput recovers a JSON object embedded anywhere in free-form
// model text. The candidate span runs from the first '{' to the last '}'
// inclusive; anything outside it (prose, code fences) is discarded and the
// span is decoded strictly.
//
// When the text holds more than one object the span deliberately spans all
// of them ("prefix {a} mid {b} suffix" yields "{a} mid {b}"). That
// over-capture is the documented contract with the extraction prompt, not a
// bug to tighten: a stricter match would reject responses the system accepts
// today.
func parseModelOutput(raw string) (map[string]any, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")

	if start == -1 || end == -1 || end < start {
		return nil, &Failure{
			Kind:   KindNoJSONFound,
			Detail: "no JSON object found in model response",
			Raw:    raw,
		}
	}

	candidate := raw[start : end+1]

	var fields map[string]any
	if err := json.Unmarshal([]byte(candidate), &fields); err != nil {
		return nil, &Failure{
			Kind:   KindMalformedJSON,
			Detail: fmt.Sprintf("decoding model JSON: %v", err),
			Raw:    raw,
		}
	}

	return fields, nil
}
