package dom

// Event is a signal dispatched at a node, e.g. "load" or "unload".
// Lifecycle events in this tree fire at their target only; they do not
// capture or bubble.
type Event struct {
	Type   string
	Target *Node
}

// EventHandler receives a dispatched event.
type EventHandler func(*Event)

type eventListener struct {
	id      int
	handler EventHandler
	once    bool
}

// EventTarget holds registered event listeners, keyed by event type.
type EventTarget struct {
	listeners map[string][]eventListener
	nextID    int
}

// NewEventTarget creates an empty EventTarget.
func NewEventTarget() *EventTarget {
	return &EventTarget{
		listeners: make(map[string][]eventListener),
	}
}

// Events returns this node's event target, creating it on first use.
func (n *Node) Events() *EventTarget {
	if n.events == nil {
		n.events = NewEventTarget()
	}
	return n.events
}

// AddEventListener registers a handler and returns an id for removal.
func (et *EventTarget) AddEventListener(eventType string, handler EventHandler) int {
	et.nextID++
	et.listeners[eventType] = append(et.listeners[eventType], eventListener{
		id:      et.nextID,
		handler: handler,
	})
	return et.nextID
}

// AddEventListenerOnce registers a handler that is removed after its first call.
func (et *EventTarget) AddEventListenerOnce(eventType string, handler EventHandler) int {
	et.nextID++
	et.listeners[eventType] = append(et.listeners[eventType], eventListener{
		id:      et.nextID,
		handler: handler,
		once:    true,
	})
	return et.nextID
}

// RemoveEventListener removes the listener registered under id.
func (et *EventTarget) RemoveEventListener(eventType string, id int) {
	listeners := et.listeners[eventType]
	for i, l := range listeners {
		if l.id == id {
			et.listeners[eventType] = append(listeners[:i], listeners[i+1:]...)
			return
		}
	}
}

// HasEventListeners returns true if any listener is registered for the type.
func (et *EventTarget) HasEventListeners(eventType string) bool {
	return len(et.listeners[eventType]) > 0
}

// dispatch invokes the registered handlers for the event's type in
// registration order. Handlers run synchronously on the caller's stack and
// may mutate the tree or the listener list; dispatch iterates a snapshot.
func (et *EventTarget) dispatch(ev *Event) {
	listeners := make([]eventListener, len(et.listeners[ev.Type]))
	copy(listeners, et.listeners[ev.Type])

	for _, l := range listeners {
		l.handler(ev)
		if l.once {
			et.RemoveEventListener(ev.Type, l.id)
		}
	}
}

// DispatchEvent dispatches the event at this node.
func (n *Node) DispatchEvent(ev *Event) {
	ev.Target = n
	if n.events != nil {
		n.events.dispatch(ev)
	}
}
