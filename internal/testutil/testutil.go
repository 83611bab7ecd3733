// Package testutil provides shared fakes and event builders for package
// tests. Not part of the public API.
package testutil

import (
	"context"
	"sync"

	"github.com/mindloop-ai/mindloop/core"
)

// Client is a recording core.Client fake. Listen blocks until the context is
// cancelled; every Emit is captured for assertions. Safe for concurrent use.
type Client struct {
	ClientID   string
	ClientKind string
	EmitErr    error
	StopErr    error

	mu       sync.Mutex
	emitted  []core.OutboundEvent
	listens  int
	stops    int
	stopCh   chan struct{}
	stopOnce sync.Once
}

var _ core.Client = (*Client)(nil)

// NewClient creates a fake client with the given id and kind.
func NewClient(id, kind string) *Client {
	return &Client{
		ClientID:   id,
		ClientKind: kind,
		stopCh:     make(chan struct{}),
	}
}

// ID implements core.Client.
func (c *Client) ID() string { return c.ClientID }

// Kind implements core.Client.
func (c *Client) Kind() string { return c.ClientKind }

// Listen implements core.Client. It records the call and blocks until Stop or
// context cancellation.
func (c *Client) Listen(ctx context.Context) error {
	c.mu.Lock()
	c.listens++
	c.mu.Unlock()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c.stopCh:
		return nil
	}
}

// Stop implements core.Client.
func (c *Client) Stop() error {
	c.mu.Lock()
	c.stops++
	c.mu.Unlock()
	c.stopOnce.Do(func() { close(c.stopCh) })
	return c.StopErr
}

// Emit implements core.Client, recording the outbound event.
func (c *Client) Emit(ctx context.Context, ev core.OutboundEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.emitted = append(c.emitted, ev)
	return c.EmitErr
}

// Emitted returns a copy of the outbound events delivered so far.
func (c *Client) Emitted() []core.OutboundEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]core.OutboundEvent, len(c.emitted))
	copy(out, c.emitted)
	return out
}

// ListenCalls returns how many times Listen was invoked.
func (c *Client) ListenCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.listens
}

// StopCalls returns how many times Stop was invoked.
func (c *Client) StopCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stops
}

// TweetReceived builds the canonical inbound tweet event used across tests.
func TweetReceived(content, tweetID, userID, username string) core.InboundEvent {
	return core.NewInboundEvent(core.KindTweetReceived, "twitter", content, map[string]any{
		"tweetId":  tweetID,
		"userId":   userID,
		"username": username,
	})
}
