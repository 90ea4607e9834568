package stylize

// Event names published by Service.
const (
	EventStart = "stylize_start"
	EventDone  = "stylize_done"
	EventError = "stylize_error"
)

// Event is one pipeline lifecycle event: a name, the model and optional fields.
type Event struct {
	Name    string
	ModelID string
	Fields  map[string]any
}

// EventPublisher receives events from the service. Publish must be cheap and
// must not block or panic.
type EventPublisher interface {
	Publish(Event)
}

type noopPublisher struct{}

func (noopPublisher) Publish(Event) {}
