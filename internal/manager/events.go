package manager

import "github.com/rs/zerolog/log"

// Event represents a manager lifecycle event: backend loads and completed
// or failed calls.
type Event struct {
	Name    string
	Backend string
	Fields  map[string]any
}

// EventPublisher receives events from the manager. Implementations should be
// lightweight and non-blocking; Publish must not panic.
type EventPublisher interface {
	Publish(Event)
}

// logPublisher is the default; it writes events to the global zerolog logger.
// Call events go at debug level, load events at info.
type logPublisher struct{}

func (logPublisher) Publish(e Event) {
	ev := log.Info()
	switch e.Name {
	case "load_error":
		ev = log.Error()
	case "chat_done", "chat_error":
		ev = log.Debug()
	}
	ev.Str("event", e.Name).Str("backend", e.Backend).Fields(e.Fields).Msg("manager event")
}
