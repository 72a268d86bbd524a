package canvas

// EventType identifies engine notifications.
type EventType int

const (
	EventBackgroundChanged EventType = iota
	EventScrollChanged
	EventZoomChanged
	EventEntityCountChanged
	EventSelectionChanged
	EventLastOperation
)

func (t EventType) String() string {
	switch t {
	case EventBackgroundChanged:
		return "background-changed"
	case EventScrollChanged:
		return "scroll-changed"
	case EventZoomChanged:
		return "zoom-changed"
	case EventEntityCountChanged:
		return "entity-count-changed"
	case EventSelectionChanged:
		return "selection-changed"
	case EventLastOperation:
		return "last-operation"
	default:
		return "unknown"
	}
}

// Listener is called synchronously when an event fires.
type Listener func(data any)

// Counts is the payload of EventEntityCountChanged.
type Counts struct {
	Vias, Wires, Cells int
}

// On registers a listener for an event type.
func (e *Engine) On(event EventType, listener Listener) {
	e.listeners[event] = append(e.listeners[event], listener)
}

func (e *Engine) emit(event EventType, data any) {
	for _, listener := range e.listeners[event] {
		listener(data)
	}
}

func (e *Engine) countsChanged() {
	e.emit(EventEntityCountChanged, Counts{
		Vias:  e.ViasCount(),
		Wires: e.WireCount(),
		Cells: e.CellCount(),
	})
}
