package rules

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/convlint/convlint/internal/analysis"
	"github.com/convlint/convlint/internal/config"
	"github.com/convlint/convlint/internal/jsast"
	"github.com/convlint/convlint/internal/model"
)

func projectFromSource(t *testing.T, src string) *analysis.ProjectContext {
	t.Helper()
	f, err := jsast.Parse(context.Background(), "fulfillment.js", []byte(src))
	require.NoError(t, err)
	t.Cleanup(f.Close)
	return &analysis.ProjectContext{
		RootPath:     ".",
		Files:        []string{"fulfillment.js"},
		FileContents: map[string]string{"fulfillment.js": src},
		JS:           map[string]*jsast.File{"fulfillment.js": f},
	}
}

func runDetector(t *testing.T, d Detector, src string) []model.Finding {
	t.Helper()
	pctx := projectFromSource(t, src)
	fs, err := d.Analyze(context.Background(), pctx, model.ScanRequest{Path: "."})
	require.NoError(t, err)
	return fs
}

func TestSimpleLimitSequentialAsks(t *testing.T) {
	src := `
app.intent('order', (conv) => {
  conv.ask('1');
  conv.ask('2');
  conv.ask('3');
});
`
	d := newSimpleResponseLimit(config.Default(), zap.NewNop())
	fs := runDetector(t, d, src)
	require.Len(t, fs, 1)
	assert.Equal(t, "CONV-SIMPLE-LIMIT", fs[0].RuleID)
	// anchored at the third ask
	assert.Equal(t, 5, fs[0].StartLine)
}

func TestSimpleLimitReturningBranchDoesNotStack(t *testing.T) {
	src := `
app.intent('order', (conv) => {
  if (conv.data.repeat) {
    conv.ask('1');
    conv.ask('2');
    return;
  }
  conv.ask('3');
});
`
	d := newSimpleResponseLimit(config.Default(), zap.NewNop())
	assert.Empty(t, runDetector(t, d, src))
}

func TestSimpleLimitElseIfChain(t *testing.T) {
	src := `
app.intent('order', (conv) => {
  if (a) { conv.ask('1'); } else if (b) { conv.ask('2'); conv.ask('3'); } else { }
  conv.ask('4');
});
`
	d := newSimpleResponseLimit(config.Default(), zap.NewNop())
	fs := runDetector(t, d, src)
	require.Len(t, fs, 1)
	// chain contributes max(1,2,0)=2, the tail ask tips it over
	assert.Equal(t, 4, fs[0].StartLine)
}

func TestSimpleLimitBranchesAloneAreFine(t *testing.T) {
	src := `
app.intent('order', (conv) => {
  if (a) { conv.ask('1'); conv.ask('2'); } else { conv.ask('3'); conv.ask('4'); }
});
`
	d := newSimpleResponseLimit(config.Default(), zap.NewNop())
	assert.Empty(t, runDetector(t, d, src))
}

func TestSimpleLimitUncertainArgumentsUncounted(t *testing.T) {
	src := `
app.intent('order', (conv) => {
  conv.ask(buildGreeting());
  conv.ask(responses.closing);
  conv.ask('1');
  conv.ask('2');
});
`
	d := newSimpleResponseLimit(config.Default(), zap.NewNop())
	assert.Empty(t, runDetector(t, d, src))
}

func TestSimpleLimitHelpersUncounted(t *testing.T) {
	src := `
app.intent('order', (conv) => {
  conv.ask('1');
  conv.ask(new BasicCard({ title: 'menu' }));
  conv.ask(new Suggestions(['a', 'b']));
  conv.ask('2');
});
`
	d := newSimpleResponseLimit(config.Default(), zap.NewNop())
	assert.Empty(t, runDetector(t, d, src))
}

func TestSimpleLimitCountsResolvedBindings(t *testing.T) {
	src := `
app.intent('order', (conv) => {
  const greeting = 'hello';
  conv.ask(greeting);
  conv.ask('2');
  conv.ask('3');
});
`
	d := newSimpleResponseLimit(config.Default(), zap.NewNop())
	fs := runDetector(t, d, src)
	require.Len(t, fs, 1)
	assert.Equal(t, 6, fs[0].StartLine)
}

func TestMustRespondSilentHandler(t *testing.T) {
	src := `
app.intent('silent', (conv) => {
  const x = 1;
});
`
	d := newHandlerMustRespond(config.Default(), zap.NewNop())
	fs := runDetector(t, d, src)
	require.Len(t, fs, 1)
	assert.Equal(t, "CONV-HANDLER-RESPONSE", fs[0].RuleID)
	assert.Equal(t, 2, fs[0].StartLine)
}

func TestMustRespondUncertainCallIsQuiet(t *testing.T) {
	src := `
app.intent('maybe', (conv) => {
  respondWithGreeting(conv);
});
`
	d := newHandlerMustRespond(config.Default(), zap.NewNop())
	assert.Empty(t, runDetector(t, d, src))
}

func TestMustRespondBranchCoverage(t *testing.T) {
	covered := `
app.intent('ok', (conv) => {
  if (a) { conv.ask('1'); } else { conv.close('2'); }
});
`
	uncovered := `
app.intent('leaky', (conv) => {
  if (a) { conv.ask('1'); }
});
`
	d := newHandlerMustRespond(config.Default(), zap.NewNop())
	assert.Empty(t, runDetector(t, d, covered))
	fs := runDetector(t, d, uncovered)
	require.Len(t, fs, 1)
}

func TestMustRespondTryCatch(t *testing.T) {
	src := `
app.intent('guarded', (conv) => {
  try {
    conv.ask(render());
  } catch (e) {
    conv.close('sorry');
  }
});
`
	d := newHandlerMustRespond(config.Default(), zap.NewNop())
	assert.Empty(t, runDetector(t, d, src))
}

func TestMustRespondNonHandlersIgnored(t *testing.T) {
	src := `
function helper(conv) {
  const x = 1;
}
app.use((conv) => {
  const y = 2;
});
`
	d := newHandlerMustRespond(config.Default(), zap.NewNop())
	assert.Empty(t, runDetector(t, d, src))
}

func TestRegistryRunsAllDetectors(t *testing.T) {
	src := `
app.intent('order', (conv) => {
  if (a) {
    conv.ask('1');
  }
});
`
	pctx := projectFromSource(t, src)
	reg := NewRegistry(zap.NewNop())
	reg.RegisterBuiltin(config.Default())
	require.Len(t, reg.Detectors(), 2)

	fs := reg.Run(context.Background(), pctx, model.ScanRequest{Path: "."})
	// the conditional leaves a silent path, the counts stay under the cap
	require.Len(t, fs, 1)
	assert.Equal(t, "CONV-HANDLER-RESPONSE", fs[0].RuleID)
}

func TestConfigurableConversationName(t *testing.T) {
	src := `
app.intent('order', (agent) => {
  agent.ask('1');
  agent.ask('2');
  agent.ask('3');
});
`
	cfg := config.Default()
	d := newSimpleResponseLimit(cfg, zap.NewNop())
	// under the default vocabulary, agent.* calls are merely uncertain
	assert.Empty(t, runDetector(t, d, src))

	cfg.ConversationName = "agent"
	d = newSimpleResponseLimit(cfg, zap.NewNop())
	require.Len(t, runDetector(t, d, src), 1)
}
