// Package fsm models the window lifecycle driven by the dispatch loop.
package fsm

import "fmt"

type State string

type Event string

const (
	StateCreated    State = "created"
	StateVisible    State = "visible"
	StateHidden     State = "hidden"
	StateTerminated State = "terminated"
)

const (
	EventShow      Event = "show"
	EventHide      Event = "hide"
	EventTerminate Event = "terminate"
)

// Transition applies one lifecycle event. The window starts created (hidden);
// show/hide flip between visible and hidden; terminate is absorbing.
// Minimized/maximized/fullscreen/always-on-top are overlay flags kept by the
// shell, not lifecycle states.
func Transition(current State, event Event) (State, error) {
	if event == EventTerminate {
		if current == StateTerminated {
			return current, invalidTransition(current, event)
		}
		return StateTerminated, nil
	}

	switch current {
	case StateCreated, StateHidden, StateVisible:
		switch event {
		case EventShow:
			return StateVisible, nil
		case EventHide:
			return StateHidden, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateTerminated:
		return current, invalidTransition(current, event)
	default:
		return current, fmt.Errorf("unknown state %q", current)
	}
}

func invalidTransition(state State, event Event) error {
	return fmt.Errorf("invalid transition: %s --(%s)--> ?", state, event)
}
