package scopes

import (
	sitter "github.com/smacker/go-tree-sitter"
	"go.uber.org/zap"
)

// CountReporter is invoked after every bump and after every merge that can
// raise the running count. anchor is the node to attach a diagnostic to;
// count is the value now guaranteed reachable on some path.
type CountReporter func(anchor *sitter.Node, count int)

// Counting computes, per region, the maximum number of qualifying calls
// guaranteed along any single path. Sequential code is additive; the branches
// of one conditional and the arms of a try/catch are mutually exclusive, so
// only the larger side flows upward. A branch that returns contributes
// nothing past its conditional.
type Counting struct {
	stack  *Stack[int]
	report CountReporter
	log    *zap.Logger
}

// NewCounting constructs a tracker. report must not be nil.
func NewCounting(report CountReporter, log *zap.Logger) *Counting {
	if log == nil {
		log = zap.NewNop()
	}
	return &Counting{stack: NewStack(0), report: report, log: log}
}

// Current returns the top frame.
func (c *Counting) Current() *Frame[int] { return c.stack.Current() }

// Depth exposes the stack depth for invariant checks.
func (c *Counting) Depth() int { return c.stack.Depth() }

// Bump records one qualifying occurrence at n and immediately runs the report
// check against the new count.
func (c *Counting) Bump(n *sitter.Node) {
	cur := c.stack.Current()
	cur.Value++
	cur.Anchor = n
	c.report(n, cur.Value)
}

// Account feeds one traversal event.
func (c *Counting) Account(n *sitter.Node, ev Event) error {
	switch {
	case ev == EventReturn:
		c.stack.Current().HasReturn = true
		return nil
	case ev.opensConditional(), ev == EventTry, ev == EventCatch,
		ev == EventFunction, ev == EventHandler:
		c.stack.Push(ev, n, 0)
		return nil
	case ev == EventConsequent.Exit(), ev == EventChainedConsequent.Exit():
		return c.mergeConditional(n)
	case ev == EventTry.Exit():
		return c.mergeTry(n)
	case ev == EventFunction.Exit(), ev == EventHandler.Exit():
		// A nested body runs at an unknown time; its count never joins
		// the enclosing path.
		_, err := c.stack.PopExpect(ev.Base())
		return err
	}
	return nil
}

// mergeConditional closes the conditional at n. The branches are mutually
// exclusive, so only the larger one joins; a chained conditional (the bare
// `else if` link of a chain) is also exclusive with whatever the parent has
// accumulated, so the whole merge becomes a max instead of a sum. Branches
// that return never reach the code after the conditional and are excluded.
func (c *Counting) mergeConditional(n *sitter.Node) error {
	var alt *Frame[int]
	if c.stack.Current().Event == EventAlternate {
		alt, _ = c.stack.Pop()
	}
	cons, err := c.stack.PopExpect(EventConsequent, EventChainedConsequent)
	if err != nil {
		return err
	}
	parent := c.stack.Current()
	pre := parent.Value

	bothReturn := cons.HasReturn && alt != nil && alt.HasReturn
	if bothReturn {
		parent.Value = pre
		return nil
	}
	best := 0
	if !cons.HasReturn && cons.Value > best {
		best = cons.Value
	}
	if alt != nil && !alt.HasReturn && alt.Value > best {
		best = alt.Value
	}
	if cons.Event == EventChainedConsequent {
		parent.Value = max(pre, best)
	} else {
		parent.Value = pre + best
	}
	if parent.Value > pre {
		parent.Anchor = n
		c.report(n, parent.Value)
	}
	return nil
}

// mergeTry closes the try statement at n. Either the body completes or
// control jumps to the catch clause, never both, so the join is a max. The
// report check runs unconditionally here: a max can only raise the bound.
func (c *Counting) mergeTry(n *sitter.Node) error {
	var caught *Frame[int]
	if c.stack.Current().Event == EventCatch {
		caught, _ = c.stack.Pop()
	}
	try, err := c.stack.PopExpect(EventTry)
	if err != nil {
		return err
	}
	parent := c.stack.Current()
	pre := parent.Value
	merged := max(pre, try.Value)
	if caught != nil {
		merged = max(merged, caught.Value)
	}
	parent.Value = merged
	if merged > pre {
		parent.Anchor = n
	}
	anchor := parent.Anchor
	if anchor == nil {
		anchor = n
	}
	c.report(anchor, merged)
	return nil
}
