package core

// Intent is a transient classification extracted from inbound content. It is
// consumed once per pipeline invocation and never persisted.
type Intent struct {
	// Kind labels the classified purpose, e.g. "question" or "request".
	Kind string `json:"kind"`
	// Confidence is the extractor's reported certainty, clamped to [0,1].
	Confidence float64 `json:"confidence"`
	// Action optionally names a core-local intent action to execute
	// immediately during dispatch.
	Action string `json:"action,omitempty"`
	// Parameters carries extractor-supplied arguments for the action.
	Parameters map[string]any `json:"parameters,omitempty"`
}

// ClampConfidence returns the intent with its confidence forced into [0,1].
// Extractor output is untrusted; out-of-range values are truncated rather
// than rejected.
func (i Intent) ClampConfidence() Intent {
	if i.Confidence < 0 {
		i.Confidence = 0
	}
	if i.Confidence > 1 {
		i.Confidence = 1
	}
	return i
}
