package stylize

import "github.com/rs/zerolog"

// LogPublisher writes events as debug lines (errors at warn).
type LogPublisher struct{ Logger zerolog.Logger }

func (p LogPublisher) Publish(e Event) {
	ev := p.Logger.Debug()
	if e.Name == EventError {
		ev = p.Logger.Warn()
	}
	ev.Str("event", e.Name).Str("model", e.ModelID).Fields(e.Fields).Msg("stylize event")
}
