package scopes

import (
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countRun feeds a scripted event sequence and records every reporter call.
type countRun struct {
	t       *testing.T
	tracker *Counting
	reports []int
}

func newCountRun(t *testing.T) *countRun {
	r := &countRun{t: t}
	r.tracker = NewCounting(func(_ *sitter.Node, count int) {
		r.reports = append(r.reports, count)
	}, nil)
	return r
}

func (r *countRun) feed(events ...Event) {
	for _, ev := range events {
		require.NoError(r.t, r.tracker.Account(nil, ev))
	}
}

func (r *countRun) bump(n int) {
	for i := 0; i < n; i++ {
		r.tracker.Bump(nil)
	}
}

func TestCountingSequentialIsAdditive(t *testing.T) {
	r := newCountRun(t)
	r.bump(3)
	assert.Equal(t, 3, r.tracker.Current().Value)
	assert.Equal(t, []int{1, 2, 3}, r.reports)
}

func TestCountingStandaloneConditionalTakesMax(t *testing.T) {
	// if (a) { 2 bumps } else { 1 bump } -> parent grows by max(2, 1)
	r := newCountRun(t)
	r.feed(EventConsequent)
	r.bump(2)
	r.feed(EventAlternate)
	r.bump(1)
	r.feed(EventConsequent.Exit())
	assert.Equal(t, 2, r.tracker.Current().Value)
	assert.Equal(t, 1, r.tracker.Depth())
}

func TestCountingConditionalWithoutElse(t *testing.T) {
	r := newCountRun(t)
	r.bump(1)
	r.feed(EventConsequent)
	r.bump(1)
	r.feed(EventConsequent.Exit())
	assert.Equal(t, 2, r.tracker.Current().Value)
}

func TestCountingElseIfChainTakesMaxNotSum(t *testing.T) {
	// if (a) { 1 } else if (b) { 2 } else { 0 } -> contribution max(1,2,0)=2
	r := newCountRun(t)
	r.feed(EventConsequent)
	r.bump(1)
	r.feed(EventAlternate, EventChainedConsequent)
	r.bump(2)
	r.feed(EventAlternate)
	r.feed(EventChainedConsequent.Exit())
	r.feed(EventConsequent.Exit())
	assert.Equal(t, 2, r.tracker.Current().Value)
	assert.Equal(t, 1, r.tracker.Depth())
}

func TestCountingReturnInConsequentOnly(t *testing.T) {
	// if (a) { 2 bumps; return } else { 1 bump } -> only the alternate
	// flows past the conditional
	r := newCountRun(t)
	r.feed(EventConsequent)
	r.bump(2)
	r.feed(EventReturn, EventAlternate)
	r.bump(1)
	r.feed(EventConsequent.Exit())
	assert.Equal(t, 1, r.tracker.Current().Value)
}

func TestCountingReturnInAlternateOnly(t *testing.T) {
	r := newCountRun(t)
	r.feed(EventConsequent)
	r.bump(2)
	r.feed(EventAlternate)
	r.bump(3)
	r.feed(EventReturn)
	r.feed(EventConsequent.Exit())
	assert.Equal(t, 2, r.tracker.Current().Value)
}

func TestCountingBothBranchesReturnUndoesMerge(t *testing.T) {
	r := newCountRun(t)
	r.bump(1)
	r.feed(EventConsequent)
	r.bump(2)
	r.feed(EventReturn, EventAlternate)
	r.bump(3)
	r.feed(EventReturn)
	r.feed(EventConsequent.Exit())
	assert.Equal(t, 1, r.tracker.Current().Value)
}

func TestCountingReturnWithoutElseContributesNothing(t *testing.T) {
	// if (a) { 2 bumps; return } ... 1 bump -> 1, not 3
	r := newCountRun(t)
	r.feed(EventConsequent)
	r.bump(2)
	r.feed(EventReturn)
	r.feed(EventConsequent.Exit())
	r.bump(1)
	assert.Equal(t, 1, r.tracker.Current().Value)
}

func TestCountingTryCatchTakesMax(t *testing.T) {
	r := newCountRun(t)
	r.feed(EventTry)
	r.bump(1)
	r.feed(EventCatch)
	r.bump(3)
	before := len(r.reports)
	r.feed(EventTry.Exit())
	assert.Equal(t, 3, r.tracker.Current().Value)
	// the try/catch merge reports unconditionally
	assert.Equal(t, before+1, len(r.reports))
}

func TestCountingTryCatchReportsWithoutIncrease(t *testing.T) {
	r := newCountRun(t)
	r.bump(2)
	r.feed(EventTry, EventCatch)
	before := len(r.reports)
	r.feed(EventTry.Exit())
	assert.Equal(t, 2, r.tracker.Current().Value)
	assert.Equal(t, before+1, len(r.reports))
}

func TestCountingTryWithoutCatch(t *testing.T) {
	r := newCountRun(t)
	r.feed(EventTry)
	r.bump(2)
	r.feed(EventTry.Exit())
	assert.Equal(t, 2, r.tracker.Current().Value)
}

func TestCountingFunctionBodyDoesNotLeak(t *testing.T) {
	r := newCountRun(t)
	r.bump(1)
	r.feed(EventFunction)
	r.bump(5)
	r.feed(EventFunction.Exit())
	assert.Equal(t, 1, r.tracker.Current().Value)

	r.feed(EventHandler)
	r.bump(4)
	r.feed(EventHandler.Exit())
	assert.Equal(t, 1, r.tracker.Current().Value)
}

func TestCountingConditionalMergeReportsOnlyOnIncrease(t *testing.T) {
	r := newCountRun(t)
	r.feed(EventConsequent)
	r.feed(EventConsequent.Exit())
	assert.Empty(t, r.reports)

	r.feed(EventConsequent)
	r.bump(1)
	r.feed(EventConsequent.Exit())
	// one report from the bump, one from the merge increase
	assert.Equal(t, []int{1, 1}, r.reports)
}

func TestCountingMergeInvariantViolation(t *testing.T) {
	r := newCountRun(t)
	err := r.tracker.Account(nil, EventConsequent.Exit())
	require.ErrorIs(t, err, ErrUnexpectedFrame)
}

func TestCountingIdempotentOverIdenticalSequences(t *testing.T) {
	run := func() ([]int, int) {
		r := newCountRun(t)
		r.bump(1)
		r.feed(EventConsequent)
		r.bump(2)
		r.feed(EventAlternate)
		r.bump(1)
		r.feed(EventConsequent.Exit())
		r.feed(EventTry)
		r.bump(1)
		r.feed(EventCatch, EventTry.Exit())
		return r.reports, r.tracker.Current().Value
	}
	reports1, final1 := run()
	reports2, final2 := run()
	assert.Equal(t, reports1, reports2)
	assert.Equal(t, final1, final2)
}
