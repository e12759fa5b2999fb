package events

// Handler processes specific event types
// Cards and hosts implement this interface to observe animation state
type Handler interface {
	// HandleEvent processes a single event
	// Called synchronously on the loop goroutine that emitted it
	HandleEvent(event CardEvent)

	// EventTypes returns the event types this handler processes
	EventTypes() []EventType
}

// HandlerFunc adapts a function to Handler for the listed types
type HandlerFunc struct {
	Types []EventType
	Fn    func(CardEvent)
}

// HandleEvent implements Handler
func (h HandlerFunc) HandleEvent(event CardEvent) { h.Fn(event) }

// EventTypes implements Handler
func (h HandlerFunc) EventTypes() []EventType { return h.Types }

// Bus dispatches events to registered handlers
//
// Architecture:
//   - Single-threaded synchronous dispatch, no locking
//   - Multiple handlers can register for the same event type
//   - Handlers are invoked in registration order
type Bus struct {
	handlers map[EventType][]entry
	nextID   uint64
}

type entry struct {
	id uint64
	h  Handler
}

// NewBus creates an empty bus
func NewBus() *Bus {
	return &Bus{handlers: make(map[EventType][]entry)}
}

// Register adds a handler for its declared event types and returns its removal func
func (b *Bus) Register(handler Handler) (unregister func()) {
	b.nextID++
	id := b.nextID
	types := handler.EventTypes()
	for _, t := range types {
		b.handlers[t] = append(b.handlers[t], entry{id: id, h: handler})
	}
	return func() {
		for _, t := range types {
			list := b.handlers[t]
			for i, e := range list {
				if e.id == id {
					b.handlers[t] = append(list[:i:i], list[i+1:]...)
					break
				}
			}
		}
	}
}

// Emit routes event to its handlers
func (b *Bus) Emit(event CardEvent) {
	if b == nil {
		return
	}
	for _, e := range b.handlers[event.Type] {
		e.h.HandleEvent(event)
	}
}

// HandlerCount returns the number of handlers registered for the given type
func (b *Bus) HandlerCount(t EventType) int {
	return len(b.handlers[t])
}
