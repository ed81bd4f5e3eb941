// Package scopes implements the path-sensitive scope tracking that the lint
// rules are built on. A stack of frames mirrors the traversal of conditional
// and exception regions; when a region closes, the child frames fold into the
// parent according to the tracker's merge algebra.
package scopes

import (
	"errors"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
)

var (
	// ErrSentinelPop reports an attempt to pop the permanent base frame.
	ErrSentinelPop = errors.New("scopes: sentinel frame popped")
	// ErrUnexpectedFrame reports a merge that found the wrong frame on top.
	ErrUnexpectedFrame = errors.New("scopes: unexpected frame at top of stack")
)

// Frame is one stack entry: the accumulated tracked value for a single
// lexical or control-flow region.
type Frame[T any] struct {
	// Event is the label the frame was pushed under. Fixed at push time.
	Event Event
	// Node is the syntax node that opened the region, nil for the sentinel.
	Node *sitter.Node
	// Value is the tracked metadata for the region.
	Value T
	// Anchor is the node that most recently pushed Value past a threshold.
	Anchor *sitter.Node
	// HasReturn is set when a return statement is seen directly in this
	// region, not inside a nested frame.
	HasReturn bool
}

// InHandler reports whether the frame itself opens a handler body.
func (f *Frame[T]) InHandler() bool { return f.Event == EventHandler }

// Stack is the frame stack. It always holds at least the sentinel base frame.
type Stack[T any] struct {
	frames []*Frame[T]
}

// NewStack returns a stack holding only the sentinel, carrying base as its
// initial value.
func NewStack[T any](base T) *Stack[T] {
	return &Stack[T]{frames: []*Frame[T]{{Event: EventBase, Value: base}}}
}

// Current returns the top frame. The stack is never empty.
func (s *Stack[T]) Current() *Frame[T] { return s.frames[len(s.frames)-1] }

// Depth returns the number of frames including the sentinel.
func (s *Stack[T]) Depth() int { return len(s.frames) }

// Push adds a frame for the region opened at n.
func (s *Stack[T]) Push(ev Event, n *sitter.Node, value T) *Frame[T] {
	f := &Frame[T]{Event: ev, Node: n, Value: value}
	s.frames = append(s.frames, f)
	return f
}

// Pop removes and returns the top frame. Popping the sentinel is a logic
// defect, never a property of the scanned source.
func (s *Stack[T]) Pop() (*Frame[T], error) {
	if len(s.frames) == 1 {
		return nil, ErrSentinelPop
	}
	f := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
	return f, nil
}

// PopExpect pops the top frame after verifying its label is one of want.
func (s *Stack[T]) PopExpect(want ...Event) (*Frame[T], error) {
	top := s.Current()
	for _, ev := range want {
		if top.Event == ev {
			return s.Pop()
		}
	}
	return nil, fmt.Errorf("%w: have %q, want one of %v", ErrUnexpectedFrame, top.Event, want)
}

// InsideHandler walks the stack from the bottom up to and including f and
// reports whether any frame on the way opens a handler body.
func (s *Stack[T]) InsideHandler(f *Frame[T]) bool {
	for _, fr := range s.frames {
		if fr.InHandler() {
			return true
		}
		if fr == f {
			break
		}
	}
	return false
}
