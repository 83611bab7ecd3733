// Package completion defines the text-completion collaborator contract the
// core consumes, plus a scripted in-memory implementation for tests and
// demos. Provider adapters live in the anthropic and openai subpackages.
//
// The contract is deliberately narrow: one Analyze call returning free text.
// There is no guarantee on latency or determinism, and the output is
// untrusted: callers parse it defensively and degrade on failure.
package completion

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Options tunes a single Analyze call. Adapters map these onto their
// provider's request parameters; unsupported knobs are ignored.
type Options struct {
	// Temperature controls sampling randomness.
	Temperature float64
	// MaxTokens caps the response length.
	MaxTokens int
	// Structured requests machine-parseable (JSON) output where the provider
	// supports steering toward it.
	Structured bool
	// SystemPersona is an optional system prompt establishing the agent's
	// voice.
	SystemPersona string
}

// DefaultOptions returns the baseline per-call options.
func DefaultOptions() Options {
	return Options{Temperature: 0.7, MaxTokens: 1024}
}

// Service is the text-completion collaborator contract.
type Service interface {
	// Analyze submits a prompt and returns the raw completion text.
	Analyze(ctx context.Context, prompt string, optFns ...func(o *Options)) (string, error)
}

// ScriptedService is an in-memory Service for tests and examples. Responses
// are matched by prompt substring in registration order, with an optional
// ordered queue consulted first. Unmatched prompts fall back to a canned
// reply. All calls are recorded for assertions.
type ScriptedService struct {
	mu       sync.Mutex
	queue    []scripted
	rules    []scripted
	fallback string
	calls    []RecordedCall
}

type scripted struct {
	match    string // empty matches any prompt
	response string
	err      error
}

// RecordedCall captures one Analyze invocation for test assertions.
type RecordedCall struct {
	Prompt  string
	Options Options
}

// NewScriptedService creates a ScriptedService with a neutral fallback reply.
func NewScriptedService() *ScriptedService {
	return &ScriptedService{fallback: `{"summary":"","topics":[],"sentiment":"neutral"}`}
}

// Enqueue pushes a response consumed by the next Analyze call regardless of
// prompt. Queued responses take precedence over substring rules.
func (s *ScriptedService) Enqueue(response string) *ScriptedService {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = append(s.queue, scripted{response: response})
	return s
}

// EnqueueError pushes an error consumed by the next Analyze call.
func (s *ScriptedService) EnqueueError(err error) *ScriptedService {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = append(s.queue, scripted{err: err})
	return s
}

// Respond registers a substring rule: any prompt containing match receives
// response. Rules are checked in registration order after the queue.
func (s *ScriptedService) Respond(match, response string) *ScriptedService {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules = append(s.rules, scripted{match: match, response: response})
	return s
}

// SetFallback overrides the reply for prompts no rule matches.
func (s *ScriptedService) SetFallback(response string) *ScriptedService {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fallback = response
	return s
}

// Calls returns a copy of the recorded invocations.
func (s *ScriptedService) Calls() []RecordedCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]RecordedCall, len(s.calls))
	copy(out, s.calls)
	return out
}

// CallCount returns the number of Analyze invocations so far.
func (s *ScriptedService) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

// Analyze implements Service.
func (s *ScriptedService) Analyze(ctx context.Context, prompt string, optFns ...func(o *Options)) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	opts := DefaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, RecordedCall{Prompt: prompt, Options: opts})

	if len(s.queue) > 0 {
		next := s.queue[0]
		s.queue = s.queue[1:]
		if next.err != nil {
			return "", next.err
		}
		return next.response, nil
	}

	for _, rule := range s.rules {
		if rule.match == "" || strings.Contains(prompt, rule.match) {
			return rule.response, nil
		}
	}

	if s.fallback == "" {
		return "", fmt.Errorf("scripted service: no response for prompt")
	}
	return s.fallback, nil
}
