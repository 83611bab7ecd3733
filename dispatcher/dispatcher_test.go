package dispatcher

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindloop-ai/mindloop/action"
	"github.com/mindloop-ai/mindloop/completion"
	"github.com/mindloop-ai/mindloop/core"
	"github.com/mindloop-ai/mindloop/internal/testutil"
	"github.com/mindloop-ai/mindloop/pipeline"
	"github.com/mindloop-ai/mindloop/room"
)

const (
	enrichMark = "Analyze the following message"
	intentMark = "Extract the intents"
	actionMark = "select at most one of the available actions"
)

func quietService() *completion.ScriptedService {
	return completion.NewScriptedService().
		Respond(enrichMark, `{"summary":"s","topics":[],"sentiment":"neutral","entities":[],"intent":"chat"}`).
		Respond(intentMark, `[]`)
}

func newTestDispatcher(svc completion.Service) (*Dispatcher, *room.Manager) {
	reg := action.NewRegistry()
	for _, d := range action.Builtins() {
		reg.Register(d)
	}
	rooms := room.NewManager()
	proc := pipeline.NewProcessor(svc, reg)
	return New(rooms, proc), rooms
}

func TestEmitEndToEnd(t *testing.T) {
	svc := completion.NewScriptedService().
		Respond(enrichMark, `{"summary":"a greeting","topics":["greeting"],"sentiment":"positive","entities":["alice"],"intent":"socialize"}`).
		Respond(intentMark, `[{"kind":"request","confidence":0.9}]`).
		Respond(actionMark, `{"action":"tweet","confidence":0.88,"parameters":{"text":"hello back"},"reasoning":"be friendly"}`)

	d, rooms := newTestDispatcher(svc)
	twitter := testutil.NewClient("twitter", "social")
	d.RegisterClient(context.Background(), twitter)

	err := d.Emit(context.Background(), testutil.TweetReceived("hello", "t1", "u1", "alice"))
	require.NoError(t, err)

	r, ok := rooms.RoomByPlatformID("t1", "twitter")
	require.True(t, ok, "room created for the tweet's platform identity")
	assert.Equal(t, "twitter", r.Platform)
	assert.True(t, r.HasParticipant("alice"))
	assert.True(t, r.HasParticipant("twitter"))

	memories := r.Memories(0)
	require.Len(t, memories, 1)
	assert.Equal(t, "hello", memories[0].Content)

	emitted := twitter.Emitted()
	require.Len(t, emitted, 1)
	assert.Equal(t, core.KindTweetRequest, emitted[0].Kind)
	assert.Equal(t, "twitter", emitted[0].Target)
	assert.Equal(t, "hello back", emitted[0].Content)
}

func TestEmitReusesRoomForSameIdentity(t *testing.T) {
	d, rooms := newTestDispatcher(quietService())

	require.NoError(t, d.Emit(context.Background(), testutil.TweetReceived("first", "t1", "u1", "alice")))
	require.NoError(t, d.Emit(context.Background(), testutil.TweetReceived("second", "t1", "u2", "bob")))

	require.Len(t, rooms.Rooms(), 1)

	r, ok := rooms.RoomByPlatformID("t1", "twitter")
	require.True(t, ok)
	memories := r.Memories(0)
	require.Len(t, memories, 2)
	assert.Equal(t, "first", memories[0].Content)
	assert.Equal(t, "second", memories[1].Content)
	assert.True(t, r.HasParticipant("bob"), "later participants join the room")
}

func TestConcurrentEmitsCreateOneRoom(t *testing.T) {
	d, rooms := newTestDispatcher(quietService())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = d.Emit(context.Background(), testutil.TweetReceived("hi", "t-race", "u1", "alice"))
		}()
	}
	wg.Wait()

	assert.Len(t, rooms.Rooms(), 1, "lookup-then-create is serialized")
}

func TestEmitDropsUnknownTarget(t *testing.T) {
	svc := completion.NewScriptedService().
		Respond(enrichMark, `{"summary":"s","topics":[],"sentiment":"neutral","entities":[],"intent":"chat"}`).
		Respond(intentMark, `[{"kind":"request","confidence":0.9}]`).
		Respond(actionMark, `{"action":"discord_message","confidence":0.9,"parameters":{"text":"hi","channelId":"c1"},"reasoning":"r"}`)

	d, _ := newTestDispatcher(svc)
	// No discord client registered: the suggestion routes nowhere.
	err := d.Emit(context.Background(), testutil.TweetReceived("hello", "t1", "u1", "alice"))
	assert.NoError(t, err)
}

func TestHandlersReceiveEnrichedCopy(t *testing.T) {
	d, _ := newTestDispatcher(quietService())

	var calls atomic.Int32
	var got core.InboundEvent
	var mu sync.Mutex
	handler := func(ctx context.Context, ev core.InboundEvent) {
		calls.Add(1)
		mu.Lock()
		got = ev
		mu.Unlock()
	}

	d.On(core.KindTweetReceived, handler)
	d.On(core.KindTweetReceived, handler) // duplicate registration is a no-op

	original := testutil.TweetReceived("hello", "t1", "u1", "alice")
	require.NoError(t, d.Emit(context.Background(), original))

	assert.Equal(t, int32(1), calls.Load(), "handler set suppresses duplicates")

	mu.Lock()
	defer mu.Unlock()
	enrichment, ok := got.Metadata["enrichment"].(pipeline.EnrichmentContext)
	require.True(t, ok, "handlers see the pipeline's enrichment")
	assert.Equal(t, "s", enrichment.Summary)
	assert.Nil(t, original.Metadata["enrichment"], "original event is not mutated")
}

func TestOffUnsubscribesHandler(t *testing.T) {
	d, _ := newTestDispatcher(quietService())

	var calls atomic.Int32
	handler := func(ctx context.Context, ev core.InboundEvent) { calls.Add(1) }

	d.On(core.KindTweetReceived, handler)
	d.Off(core.KindTweetReceived, handler)

	require.NoError(t, d.Emit(context.Background(), testutil.TweetReceived("hello", "t1", "u1", "alice")))
	assert.Zero(t, calls.Load())
}

func TestIntentActionsAreBestEffort(t *testing.T) {
	svc := completion.NewScriptedService().
		Respond(enrichMark, `{"summary":"s","topics":[],"sentiment":"neutral","entities":[],"intent":"chat"}`).
		Respond(intentMark, `[{"kind":"note","confidence":0.9,"action":"remember"},{"kind":"note","confidence":0.9,"action":"remember"}]`).
		Respond(actionMark, `{"action":"nope","confidence":0.1}`)

	d, _ := newTestDispatcher(svc)

	var calls atomic.Int32
	d.RegisterIntentAction("remember", func(ctx context.Context, intent core.Intent, ev core.InboundEvent) error {
		calls.Add(1)
		return errors.New("scratch storage offline")
	})

	err := d.Emit(context.Background(), testutil.TweetReceived("note this", "t1", "u1", "alice"))
	require.NoError(t, err, "intent action failures are swallowed")
	assert.Equal(t, int32(2), calls.Load(), "one failure does not abort the batch")
}

func TestRegisterAndRemoveClient(t *testing.T) {
	d, _ := newTestDispatcher(quietService())

	c := testutil.NewClient("twitter", "social")
	d.RegisterClient(context.Background(), c)

	require.Eventually(t, func() bool { return c.ListenCalls() == 1 }, time.Second, 5*time.Millisecond)

	_, ok := d.Client("twitter")
	assert.True(t, ok)

	d.RemoveClient("twitter")
	assert.Equal(t, 1, c.StopCalls())
	_, ok = d.Client("twitter")
	assert.False(t, ok)

	// Removing an unknown client is a no-op.
	d.RemoveClient("twitter")
	assert.Equal(t, 1, c.StopCalls())
}

func TestRegisterReplacesExistingClient(t *testing.T) {
	d, _ := newTestDispatcher(quietService())

	old := testutil.NewClient("twitter", "social")
	replacement := testutil.NewClient("twitter", "social")

	d.RegisterClient(context.Background(), old)
	d.RegisterClient(context.Background(), replacement)

	assert.Equal(t, 1, old.StopCalls(), "replaced client is stopped")

	c, ok := d.Client("twitter")
	require.True(t, ok)
	assert.Same(t, replacement, c)
}

func TestShutdownStopsAllClients(t *testing.T) {
	d, _ := newTestDispatcher(quietService())

	a := testutil.NewClient("twitter", "social")
	b := testutil.NewClient("discord", "social")
	b.StopErr = errors.New("already gone")

	d.RegisterClient(context.Background(), a)
	d.RegisterClient(context.Background(), b)

	d.Shutdown()

	assert.Equal(t, 1, a.StopCalls())
	assert.Equal(t, 1, b.StopCalls(), "stop failure is logged, not propagated")
	_, ok := d.Client("twitter")
	assert.False(t, ok)
}
