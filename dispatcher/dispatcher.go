package dispatcher

import (
	"context"
	"reflect"
	"sync"

	"github.com/mindloop-ai/mindloop/core"
	"github.com/mindloop-ai/mindloop/logging"
	"github.com/mindloop-ai/mindloop/pipeline"
	"github.com/mindloop-ai/mindloop/room"
)

// Handler is a local subscriber invoked for every inbound event of the kind
// it was registered under. Handlers for one kind run concurrently with each
// other; Emit waits for all of them before returning.
type Handler func(ctx context.Context, ev core.InboundEvent)

// IntentActionFunc is a core-local side effect executed when a classified
// intent carries a matching action hint. Failures are logged and swallowed.
type IntentActionFunc func(ctx context.Context, intent core.Intent, ev core.InboundEvent) error

// Options holds dependency overrides passed to New.
type Options struct {
	// Logger defaults to NoOp.
	Logger logging.Logger
}

// Dispatcher is the event bus: it owns client registration, routes inbound
// events through the session registry and the pipeline, fans results out to
// local handlers, and routes suggested outbound events to the addressed
// client.
type Dispatcher struct {
	rooms  *room.Manager
	proc   *pipeline.Processor
	logger logging.Logger

	clientMu sync.RWMutex
	clients  map[string]core.Client

	// roomMu serializes lookup-then-create so two concurrent emits for a
	// never-before-seen platform identity cannot yield duplicate rooms.
	roomMu sync.Mutex

	handlerMu sync.RWMutex
	handlers  map[core.Kind]map[uintptr]Handler

	intentMu      sync.RWMutex
	intentActions map[string]IntentActionFunc
}

// New constructs a Dispatcher over the session registry and pipeline.
func New(rooms *room.Manager, proc *pipeline.Processor, optFns ...func(o *Options)) *Dispatcher {
	opts := Options{
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Dispatcher{
		rooms:         rooms,
		proc:          proc,
		logger:        opts.Logger,
		clients:       make(map[string]core.Client),
		handlers:      make(map[core.Kind]map[uintptr]Handler),
		intentActions: make(map[string]IntentActionFunc),
	}
}

// RegisterClient stores the client under its id and starts its listen loop on
// a new goroutine. Registering under an id already in use replaces the old
// client, stopping it best-effort. A listen-loop failure is logged, never
// fatal to the dispatcher.
func (d *Dispatcher) RegisterClient(ctx context.Context, c core.Client) {
	d.clientMu.Lock()
	old, replaced := d.clients[c.ID()]
	d.clients[c.ID()] = c
	d.clientMu.Unlock()

	if replaced {
		if err := old.Stop(); err != nil {
			d.logger.Warn("replaced client stop failed", "client_id", c.ID(), "error", err)
		}
	}

	d.logger.Info("client registered", "client_id", c.ID(), "client_kind", c.Kind())

	go func() {
		if err := c.Listen(ctx); err != nil {
			d.logger.Error("client listen loop failed", "client_id", c.ID(), "error", err)
		}
	}()
}

// RemoveClient stops and unregisters the client. Stop failures are logged,
// not propagated.
func (d *Dispatcher) RemoveClient(id string) {
	d.clientMu.Lock()
	c, ok := d.clients[id]
	delete(d.clients, id)
	d.clientMu.Unlock()

	if !ok {
		return
	}
	if err := c.Stop(); err != nil {
		d.logger.Warn("client stop failed", "client_id", id, "error", err)
	}
	d.logger.Info("client removed", "client_id", id)
}

// Client returns a registered client by id.
func (d *Dispatcher) Client(id string) (core.Client, bool) {
	d.clientMu.RLock()
	defer d.clientMu.RUnlock()
	c, ok := d.clients[id]
	return c, ok
}

// Shutdown stops and unregisters every client. Stop failures are logged.
func (d *Dispatcher) Shutdown() {
	d.clientMu.Lock()
	clients := d.clients
	d.clients = make(map[string]core.Client)
	d.clientMu.Unlock()

	for id, c := range clients {
		if err := c.Stop(); err != nil {
			d.logger.Warn("client stop failed", "client_id", id, "error", err)
		}
	}
}

// On subscribes a handler to an event kind. Handlers per kind form a set:
// registering the same function twice is a no-op.
func (d *Dispatcher) On(kind core.Kind, h Handler) {
	if h == nil {
		return
	}
	d.handlerMu.Lock()
	defer d.handlerMu.Unlock()
	set, ok := d.handlers[kind]
	if !ok {
		set = make(map[uintptr]Handler)
		d.handlers[kind] = set
	}
	set[reflect.ValueOf(h).Pointer()] = h
}

// Off removes a previously registered handler for kind.
func (d *Dispatcher) Off(kind core.Kind, h Handler) {
	if h == nil {
		return
	}
	d.handlerMu.Lock()
	defer d.handlerMu.Unlock()
	if set, ok := d.handlers[kind]; ok {
		delete(set, reflect.ValueOf(h).Pointer())
	}
}

// RegisterIntentAction installs a core-local side effect executed during Emit
// for every classified intent whose action hint equals name. Last write wins.
func (d *Dispatcher) RegisterIntentAction(name string, fn IntentActionFunc) {
	d.intentMu.Lock()
	defer d.intentMu.Unlock()
	d.intentActions[name] = fn
}

// Emit is the single entry point for all inbound events, external or
// self-generated. It resolves the owning room, appends the event as a memory,
// runs the pipeline, executes immediate intent actions, routes suggested
// outbound events, and notifies local subscribers, sequentially in that
// order, returning only once all handlers have completed.
func (d *Dispatcher) Emit(ctx context.Context, ev core.InboundEvent) error {
	r := d.ensureRoom(ev)

	if _, err := d.rooms.AddMemory(ctx, r.ID, ev.Content, memoryMetadata(ev)); err != nil {
		d.logger.Warn("memory append failed", "event_id", ev.ID, "room_id", r.ID, "error", err)
	}

	result := d.proc.Process(ctx, ev, r)

	d.executeIntentActions(ctx, result.Intents, ev)
	d.routeOutbound(ctx, result.SuggestedEvents)
	d.notifyHandlers(ctx, ev, result)

	return nil
}

// ensureRoom looks up the room for the event's platform identity, creating it
// on first sight. Lookup-then-create runs under roomMu so concurrent emits
// for the same unseen identity converge on one room.
func (d *Dispatcher) ensureRoom(ev core.InboundEvent) *core.Room {
	identity := InferPlatform(ev)
	participants := eventParticipants(ev, identity.Platform)

	d.roomMu.Lock()
	defer d.roomMu.Unlock()

	if r, ok := d.rooms.RoomByPlatformID(identity.PlatformID, identity.Platform); ok {
		r.Touch(participants...)
		return r
	}
	return d.rooms.CreateRoom(identity.PlatformID, identity.Platform, participants...)
}

func eventParticipants(ev core.InboundEvent, platform string) []string {
	participants := make([]string, 0, 2)
	if name := ev.MetaString("username"); name != "" {
		participants = append(participants, name)
	} else if id := ev.MetaString("userId"); id != "" {
		participants = append(participants, id)
	}
	return append(participants, platform)
}

func memoryMetadata(ev core.InboundEvent) map[string]any {
	md := map[string]any{
		"eventId": ev.ID,
		"kind":    string(ev.Kind),
		"source":  ev.Source,
	}
	if id := ev.MetaString("userId"); id != "" {
		md["userId"] = id
	}
	if name := ev.MetaString("username"); name != "" {
		md["username"] = name
	}
	return md
}

// executeIntentActions runs the registered core-local action for every intent
// carrying a matching hint. Best-effort: one bad intent cannot abort the
// batch.
func (d *Dispatcher) executeIntentActions(ctx context.Context, intents []core.Intent, ev core.InboundEvent) {
	for _, intent := range intents {
		if intent.Action == "" {
			continue
		}
		d.intentMu.RLock()
		fn, ok := d.intentActions[intent.Action]
		d.intentMu.RUnlock()
		if !ok {
			continue
		}
		if err := fn(ctx, intent, ev); err != nil {
			d.logger.Warn("intent action failed", "event_id", ev.ID, "action", intent.Action, "error", err)
		}
	}
}

// routeOutbound delivers each suggested event to the addressed client. An
// unknown target is logged and dropped: at-most-once, no retry, no queue.
func (d *Dispatcher) routeOutbound(ctx context.Context, events []core.OutboundEvent) {
	for _, out := range events {
		c, ok := d.Client(out.Target)
		if !ok {
			d.logger.Warn("outbound target not registered, dropping event", "target", out.Target, "kind", string(out.Kind))
			continue
		}
		if err := c.Emit(ctx, out); err != nil {
			d.logger.Warn("outbound delivery failed", "target", out.Target, "kind", string(out.Kind), "error", err)
		}
	}
}

// notifyHandlers invokes every subscriber for the event's kind with a derived
// copy carrying the pipeline's enrichment. Handlers run concurrently; the
// call returns once all have finished, giving the caller back-pressure.
func (d *Dispatcher) notifyHandlers(ctx context.Context, ev core.InboundEvent, result *pipeline.Result) {
	d.handlerMu.RLock()
	set := d.handlers[ev.Kind]
	handlers := make([]Handler, 0, len(set))
	for _, h := range set {
		handlers = append(handlers, h)
	}
	d.handlerMu.RUnlock()

	if len(handlers) == 0 {
		return
	}

	enriched := ev.WithMetadata(map[string]any{
		"enrichment": result.Context,
	})

	var wg sync.WaitGroup
	for _, h := range handlers {
		wg.Add(1)
		go func(h Handler) {
			defer wg.Done()
			h(ctx, enriched)
		}(h)
	}
	wg.Wait()
}
