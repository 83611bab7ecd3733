// Package jsonx recovers structured JSON from untrusted free-text completion
// output. The fallback order is fixed: strip a fenced code block, attempt a
// direct parse, then extract the outermost brace/bracket span. Callers that
// exhaust all three degrade; nothing in this package retries or logs.
package jsonx

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrNoJSON indicates that no parseable JSON value could be recovered from
// the input text.
var ErrNoJSON = errors.New("jsonx: no parseable JSON found")

// StripFence removes a surrounding Markdown code fence (``` or ```json) if
// present, returning the inner text trimmed. Input without a fence is
// returned trimmed and otherwise unchanged.
func StripFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// Drop an optional language tag on the opening fence line.
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		first := strings.TrimSpace(s[:idx])
		if first == "" || isLanguageTag(first) {
			s = s[idx+1:]
		}
	}
	if idx := strings.LastIndex(s, "```"); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}

func isLanguageTag(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

// ExtractObject unmarshals the first JSON object recoverable from raw into v.
func ExtractObject(raw string, v any) error {
	return extract(raw, '{', '}', v)
}

// ExtractArray unmarshals the first JSON array recoverable from raw into v.
func ExtractArray(raw string, v any) error {
	return extract(raw, '[', ']', v)
}

func extract(raw string, open, close byte, v any) error {
	s := StripFence(raw)

	// Direct parse.
	if gjson.Valid(s) {
		if err := json.Unmarshal([]byte(s), v); err == nil {
			return nil
		}
	}

	// Best-effort span extraction: outermost open..close.
	start := strings.IndexByte(s, open)
	end := strings.LastIndexByte(s, close)
	if start < 0 || end <= start {
		return ErrNoJSON
	}
	candidate := s[start : end+1]
	if !gjson.Valid(candidate) {
		return ErrNoJSON
	}
	if err := json.Unmarshal([]byte(candidate), v); err != nil {
		return ErrNoJSON
	}
	return nil
}
