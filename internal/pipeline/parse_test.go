package pipeline

import (
	"errors"
	"testing"
)

func TestParseModelOutput(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantKind FailureKind
		want     map[string]any
	}{
		{
			name: "bare object",
			raw:  `{"Amount":"250"}`,
			want: map[string]any{"Amount": "250"},
		},
		{
			name: "object inside code fence",
			raw:  "Here you go:\n```json\n{\"Amount\":\"250\",\"Platform\":\"UPI\"}\n```\nLet me know!",
			want: map[string]any{"Amount": "250", "Platform": "UPI"},
		},
		{
			name: "object with prose prefix and suffix",
			raw:  `The extracted data is {"Date":"2024-01-05"} as requested.`,
			want: map[string]any{"Date": "2024-01-05"},
		},
		{
			name: "braces inside string values",
			raw:  `{"Items":"box {large}, tape"}`,
			want: map[string]any{"Items": "box {large}, tape"},
		},
		{
			name:     "no braces at all",
			raw:      "I could not read this image, sorry.",
			wantKind: KindNoJSONFound,
		},
		{
			name:     "only opening brace",
			raw:      "response was { truncated",
			wantKind: KindNoJSONFound,
		},
		{
			name:     "closing brace before opening",
			raw:      "} backwards {",
			wantKind: KindNoJSONFound,
		},
		{
			name:     "empty input",
			raw:      "",
			wantKind: KindNoJSONFound,
		},
		{
			name:     "span is not valid JSON",
			raw:      "{this is not json}",
			wantKind: KindMalformedJSON,
		},
		{
			// The span deliberately runs from the first '{' to the last '}',
			// so two objects over-capture into "{a} mid {b}" and fail to
			// decode. This is documented behavior, not something to tighten.
			name:     "two objects over-capture",
			raw:      `prefix {"a":1} middle {"b":2} suffix`,
			wantKind: KindMalformedJSON,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields, err := parseModelOutput(tt.raw)

			if tt.wantKind != "" {
				if err == nil {
					t.Fatalf("parseModelOutput(%q) = %v, want %s failure", tt.raw, fields, tt.wantKind)
				}
				var f *Failure
				if !errors.As(err, &f) {
					t.Fatalf("parseModelOutput(%q) returned %T, want *Failure", tt.raw, err)
				}
				if f.Kind != tt.wantKind {
					t.Errorf("failure kind = %s, want %s", f.Kind, tt.wantKind)
				}
				if f.Raw != tt.raw {
					t.Errorf("failure did not carry raw text: got %q", f.Raw)
				}
				return
			}

			if err != nil {
				t.Fatalf("parseModelOutput(%q) failed: %v", tt.raw, err)
			}
			if len(fields) != len(tt.want) {
				t.Fatalf("got %d fields, want %d: %v", len(fields), len(tt.want), fields)
			}
			for k, v := range tt.want {
				if fields[k] != v {
					t.Errorf("fields[%q] = %v, want %v", k, fields[k], v)
				}
			}
		})
	}
}
