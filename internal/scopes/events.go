package scopes

import "strings"

// Event labels the reason a frame was pushed, or a traversal notification
// that mutates the current frame. Exit notifications reuse the entry label
// with an ":exit" suffix.
type Event string

const (
	EventBase              Event = "base"
	EventConsequent        Event = "conditional-consequent"
	EventChainedConsequent Event = "conditional-consequent-of-conditional"
	EventAlternate         Event = "conditional-alternate"
	EventTry               Event = "exception-try"
	EventCatch             Event = "exception-catch"
	EventFunction          Event = "function-body"
	EventHandler           Event = "function-body-handler"
	EventReturn            Event = "return-statement"
)

const exitSuffix = ":exit"

// Exit returns the leaving counterpart of an entry event.
func (e Event) Exit() Event { return e + exitSuffix }

// IsExit reports whether e is a leaving notification.
func (e Event) IsExit() bool { return strings.HasSuffix(string(e), exitSuffix) }

// Base strips the exit suffix, returning the entry label.
func (e Event) Base() Event { return Event(strings.TrimSuffix(string(e), exitSuffix)) }

// opensConditional reports whether e pushes a conditional-branch frame.
func (e Event) opensConditional() bool {
	return e == EventConsequent || e == EventChainedConsequent || e == EventAlternate
}
