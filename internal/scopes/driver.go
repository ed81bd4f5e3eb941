package scopes

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// Tracker consumes traversal events. The closed set of implementations lives
// in this package: Presence and Counting.
type Tracker interface {
	Account(n *sitter.Node, ev Event) error
}

// HandlerPredicate decides whether the call expression a function literal is
// passed to registers it as an intent handler.
type HandlerPredicate func(call *sitter.Node) bool

// NodeHook is invoked for every named node on entry, after the tracker has
// accounted for it. Rules use it to inspect call expressions and mutate the
// current frame.
type NodeHook func(n *sitter.Node) error

// Drive walks the tree under root depth-first, translating node types into
// tracker events. The first tracker or hook error aborts the walk; the tree
// for that file is abandoned rather than merged from corrupted state.
func Drive(root *sitter.Node, t Tracker, isHandler HandlerPredicate, hook NodeHook) error {
	var walk func(n *sitter.Node) error
	walk = func(n *sitter.Node) error {
		ev, ok := enterEvent(n, isHandler)
		if ok {
			if err := t.Account(n, ev); err != nil {
				return err
			}
		}
		if hook != nil {
			if err := hook(n); err != nil {
				return err
			}
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			if err := walk(n.NamedChild(i)); err != nil {
				return err
			}
		}
		if ok && hasExit(ev) {
			if err := t.Account(n, ev.Exit()); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(root)
}

// enterEvent maps a node to the event its entry raises, if any.
func enterEvent(n *sitter.Node, isHandler HandlerPredicate) (Event, bool) {
	switch n.Type() {
	case "if_statement":
		// A bare `else if` hangs directly off the else clause; a braced
		// `else { if ... }` does not and starts a fresh chain.
		if p := n.Parent(); p != nil && p.Type() == "else_clause" {
			return EventChainedConsequent, true
		}
		return EventConsequent, true
	case "else_clause":
		return EventAlternate, true
	case "try_statement":
		return EventTry, true
	case "catch_clause":
		return EventCatch, true
	case "return_statement":
		return EventReturn, true
	case "function_declaration", "function_expression", "function",
		"generator_function", "generator_function_declaration",
		"arrow_function", "method_definition":
		if registeredAsHandler(n, isHandler) {
			return EventHandler, true
		}
		return EventFunction, true
	}
	return "", false
}

// hasExit reports whether the entry event has a matching exit notification.
// Alternate and catch frames are popped by their enclosing statement's exit,
// and a return marker has no region to close.
func hasExit(ev Event) bool {
	switch ev {
	case EventAlternate, EventCatch, EventReturn:
		return false
	}
	return true
}

// registeredAsHandler checks whether fn is an argument of a call the
// predicate recognizes as a handler registration.
func registeredAsHandler(fn *sitter.Node, isHandler HandlerPredicate) bool {
	if isHandler == nil {
		return false
	}
	args := fn.Parent()
	if args == nil || args.Type() != "arguments" {
		return false
	}
	call := args.Parent()
	if call == nil || call.Type() != "call_expression" {
		return false
	}
	return isHandler(call)
}
