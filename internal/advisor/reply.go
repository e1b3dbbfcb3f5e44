package advisor

import (
	"encoding/json"

	"propadvisor/pkg/types"
)

// Reply is the outcome of one advisory call.
type Reply struct {
	// Value is the parsed model output, unchanged, or nil when the output
	// was not JSON at all.
	Value any
	// RawOutput is the unmodified model text.
	RawOutput string
	// Sources echoes reference links on the raw-output fallback.
	Sources []string
	// Conforms reports whether Value matched the endpoint result schema.
	Conforms bool
}

// Parsed reports whether the model output was JSON.
func (r Reply) Parsed() bool { return r.Value != nil }

// MarshalJSON writes Value, or {"raw_output": ...} when the output was not
// JSON.
func (r Reply) MarshalJSON() ([]byte, error) {
	if r.Value == nil {
		return json.Marshal(types.RawOutput{RawOutput: r.RawOutput, Sources: r.Sources})
	}
	return json.Marshal(r.Value)
}

// decodeInto converts a generic JSON value into dst.
func decodeInto(v any, dst any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, dst)
}
