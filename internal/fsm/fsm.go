// Package fsm models the lifecycle of one divamm invocation.
//
// Every launch resolves the endpoint and tries to bind it. Winning the bind
// makes the process the primary instance; losing it makes it a secondary
// launch that hands its payload off and exits.
package fsm

import "fmt"

type State string

type Event string

const (
	StateStarting   State = "starting"
	StateBinding    State = "binding"
	StateServing    State = "serving"
	StateHandingOff State = "handing_off"
	StateStopped    State = "stopped"
	StateFailed     State = "failed"
)

const (
	EventResolved Event = "resolved"
	EventBound    Event = "bound"
	EventInUse    Event = "in_use"
	EventDone     Event = "done"
	EventFail     Event = "fail"
)

func Transition(current State, event Event) (State, error) {
	if event == EventFail {
		if current == StateStopped {
			return current, invalidTransition(current, event)
		}
		return StateFailed, nil
	}

	switch current {
	case StateStarting:
		switch event {
		case EventResolved:
			return StateBinding, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateBinding:
		switch event {
		case EventBound:
			return StateServing, nil
		case EventInUse:
			return StateHandingOff, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateServing, StateHandingOff:
		switch event {
		case EventDone:
			return StateStopped, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateStopped, StateFailed:
		return current, invalidTransition(current, event)
	default:
		return current, fmt.Errorf("unknown state %q", current)
	}
}

// Role names the instance role a state implies, or "" before the bind outcome.
func Role(state State) string {
	switch state {
	case StateServing:
		return "primary"
	case StateHandingOff:
		return "secondary"
	default:
		return ""
	}
}

func invalidTransition(state State, event Event) error {
	return fmt.Errorf("invalid transition: %s --(%s)--> ?", state, event)
}
