package app

import (
	"log/slog"

	"github.com/rbright/divamm/internal/fsm"
)

// lifecycle tracks one launch through the fsm and logs every step.
type lifecycle struct {
	logger *slog.Logger
	state  fsm.State
}

func newLifecycle(logger *slog.Logger) *lifecycle {
	return &lifecycle{logger: logger, state: fsm.StateStarting}
}

func (l *lifecycle) advance(event fsm.Event) {
	next, err := fsm.Transition(l.state, event)
	if err != nil {
		l.logger.Warn("lifecycle transition rejected", "state", l.state, "event", event, "error", err.Error())
		return
	}
	fields := []any{"from", l.state, "to", next, "event", event}
	if role := fsm.Role(next); role != "" {
		fields = append(fields, "role", role)
	}
	l.logger.Debug("lifecycle transition", fields...)
	l.state = next
}

// finish records the terminal event for err and passes err through.
func (l *lifecycle) finish(err error) error {
	if err != nil {
		l.advance(fsm.EventFail)
		return err
	}
	l.advance(fsm.EventDone)
	return nil
}
