package scopes

import (
	sitter "github.com/smacker/go-tree-sitter"
	"go.uber.org/zap"
)

// PresenceReporter is invoked when a handler-body frame closes. fn is the
// function node whose body was tracked; satisfied is true when a qualifying
// call is guaranteed on every path through it.
type PresenceReporter func(fn *sitter.Node, satisfied bool)

// Presence answers "was a qualifying call observed on every feasible path out
// of this region". Branch values combine with AND across the branches of one
// conditional and OR into the parent, so the guarantee only survives a join
// when both sides provide it.
type Presence struct {
	stack  *Stack[bool]
	report PresenceReporter
	log    *zap.Logger
}

// NewPresence constructs a tracker. report must not be nil.
func NewPresence(report PresenceReporter, log *zap.Logger) *Presence {
	if log == nil {
		log = zap.NewNop()
	}
	// The sentinel is never inside a handler, so absence there is fine.
	return &Presence{stack: NewStack(true), report: report, log: log}
}

// Current returns the top frame.
func (p *Presence) Current() *Frame[bool] { return p.stack.Current() }

// Depth exposes the stack depth for invariant checks.
func (p *Presence) Depth() int { return p.stack.Depth() }

// MarkSatisfied records that a qualifying call was seen at the current
// lexical position.
func (p *Presence) MarkSatisfied() { p.stack.Current().Value = true }

// InsideHandler reports whether the current position is within a handler body.
func (p *Presence) InsideHandler() bool {
	return p.stack.InsideHandler(p.stack.Current())
}

// Account feeds one traversal event.
func (p *Presence) Account(n *sitter.Node, ev Event) error {
	switch {
	case ev == EventReturn:
		p.stack.Current().HasReturn = true
		return nil
	case ev == EventHandler:
		// Nothing observed yet inside a handler body.
		p.stack.Push(ev, n, false)
		return nil
	case ev == EventFunction, ev.opensConditional(), ev == EventTry, ev == EventCatch:
		// Outside handlers absence is not a violation, so frames there
		// start satisfied.
		p.stack.Push(ev, n, !p.InsideHandler())
		return nil
	case ev == EventConsequent.Exit(), ev == EventChainedConsequent.Exit():
		return p.mergeConditional()
	case ev == EventTry.Exit():
		return p.mergeTry()
	case ev == EventFunction.Exit():
		_, err := p.stack.PopExpect(EventFunction)
		return err
	case ev == EventHandler.Exit():
		f, err := p.stack.PopExpect(EventHandler)
		if err != nil {
			return err
		}
		p.log.Debug("handler frame closed", zap.Bool("satisfied", f.Value))
		p.report(f.Node, f.Value)
		return nil
	}
	return nil
}

// mergeConditional folds the consequent frame, and the alternate frame when
// the conditional has one, into the parent. Without an else branch the
// conditional cannot guarantee anything upward.
func (p *Presence) mergeConditional() error {
	var alt *Frame[bool]
	if p.stack.Current().Event == EventAlternate {
		alt, _ = p.stack.Pop()
	}
	cons, err := p.stack.PopExpect(EventConsequent, EventChainedConsequent)
	if err != nil {
		return err
	}
	if alt != nil {
		parent := p.stack.Current()
		parent.Value = parent.Value || (cons.Value && alt.Value)
	}
	return nil
}

// mergeTry folds catch-then-try into the parent. A try without a catch clause
// still runs its body on every continuing path, so the try value stands alone.
func (p *Presence) mergeTry() error {
	var caught *Frame[bool]
	if p.stack.Current().Event == EventCatch {
		caught, _ = p.stack.Pop()
	}
	try, err := p.stack.PopExpect(EventTry)
	if err != nil {
		return err
	}
	parent := p.stack.Current()
	parent.Value = parent.Value || (try.Value && (caught == nil || caught.Value))
	return nil
}
