package pipeline

import "fmt"

// normalizeRecord maps parsed model fields onto the canonical record shape.
// Missing keys default to empty strings; normalization never fails. The note
// always comes from the caller, overwriting any "Note" the model emitted.
func normalizeRecord(fields map[string]any, note string) TransactionRecord {
	return TransactionRecord{
		Amount:   stringField(fields, "Amount"),
		Date:     stringField(fields, "Date"),
		Platform: stringField(fields, "Platform"),
		Items:    stringField(fields, "Items"),
		Vendor:   stringField(fields, "Vendor"),
		Note:     note,
	}
}

// stringField returns the value at key as a string. Scalars the model emits
// without quotes (numbers, booleans) are rendered as text since amounts and
// dates are opaque strings downstream; nested structures default to "".
func stringField(m map[string]any, key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case float64, bool:
		return fmt.Sprintf("%v", val)
	default:
		return ""
	}
}
