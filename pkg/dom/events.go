package dom

// Event is delivered to listeners by Dispatch.
type Event struct {
	// Type is the event name without an "on" prefix ("click", "input").
	Type string

	// Target is the node the event was dispatched on.
	Target *Node

	// CurrentTarget is the node whose listener is running.
	CurrentTarget *Node

	// Value carries the target's form value for input and change events.
	Value string

	stopped bool
}

// StopPropagation prevents the event from reaching further ancestors.
// Remaining listeners on the current node still run.
func (e *Event) StopPropagation() {
	e.stopped = true
}

// Listener handles an event.
type Listener func(e *Event)

// AddEventListener registers l for events of the given type.
// Listeners run in registration order; nothing removes them.
func (n *Node) AddEventListener(eventType string, l Listener) {
	if l == nil {
		return
	}
	if n.listeners == nil {
		n.listeners = make(map[string][]Listener)
	}
	n.listeners[eventType] = append(n.listeners[eventType], l)
}

// ListenerCount returns the number of listeners for eventType.
func (n *Node) ListenerCount(eventType string) int {
	return len(n.listeners[eventType])
}

// EventTypes returns the event types n listens for.
func (n *Node) EventTypes() []string {
	types := make([]string, 0, len(n.listeners))
	for t := range n.listeners {
		types = append(types, t)
	}
	return types
}

// Dispatch delivers e to n and then bubbles it up through n's ancestors.
func (n *Node) Dispatch(e *Event) {
	e.Target = n
	for cur := n; cur != nil && !e.stopped; cur = cur.Parent {
		ls := cur.listeners[e.Type]
		if len(ls) == 0 {
			continue
		}
		e.CurrentTarget = cur
		// copy: a listener may register more listeners
		run := make([]Listener, len(ls))
		copy(run, ls)
		for _, l := range run {
			l(e)
		}
	}
	e.CurrentTarget = nil
}

// Input sets the form value of n and dispatches an input event carrying it,
// the way a user typing into a field would.
func Input(n *Node, value string) {
	n.SetValue(value)
	n.Dispatch(&Event{Type: "input", Value: value})
}

// Click dispatches a click event on n.
func Click(n *Node) {
	n.Dispatch(&Event{Type: "click"})
}
