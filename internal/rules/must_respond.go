package rules

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"
	"go.uber.org/zap"

	"github.com/convlint/convlint/internal/analysis"
	"github.com/convlint/convlint/internal/config"
	"github.com/convlint/convlint/internal/jsast"
	"github.com/convlint/convlint/internal/model"
	"github.com/convlint/convlint/internal/scopes"
	"github.com/convlint/convlint/internal/util"
)

// handlerMustRespond flags intent handlers with a path that emits no
// response at all. A call the classifier cannot decide counts as responding:
// the helper may well emit one internally.
type handlerMustRespond struct {
	cfg config.Config
	log *zap.Logger
}

func newHandlerMustRespond(cfg config.Config, log *zap.Logger) *handlerMustRespond {
	return &handlerMustRespond{cfg: cfg, log: log}
}

func (d *handlerMustRespond) Meta() model.RuleMeta {
	return model.RuleMeta{
		ID:       "CONV-HANDLER-RESPONSE",
		Title:    "Intent handler must send a response",
		Severity: model.SeverityHigh,
		Tags:     []string{"fulfillment", "handler"},
	}
}

func (d *handlerMustRespond) Analyze(ctx context.Context, pctx *analysis.ProjectContext, req model.ScanRequest) ([]model.Finding, error) {
	var findings []model.Finding
	if pctx == nil {
		return findings, nil
	}
	for _, path := range pctx.Files {
		if err := ctx.Err(); err != nil {
			return findings, err
		}
		file := pctx.JS[path]
		if file == nil {
			continue
		}
		fs, err := d.analyzeFile(file)
		if err != nil {
			d.log.Error("scope tracking aborted",
				zap.String("file", path),
				zap.Error(err))
			continue
		}
		findings = append(findings, fs...)
	}
	return findings, nil
}

func (d *handlerMustRespond) analyzeFile(file *jsast.File) ([]model.Finding, error) {
	var findings []model.Finding
	cls := newClassifier(file, d.cfg)
	content := string(file.Src)

	reporter := func(fn *sitter.Node, satisfied bool) {
		if satisfied || fn == nil {
			return
		}
		start := jsast.StartLine(fn)
		findings = append(findings, model.Finding{
			RuleID:      d.Meta().ID,
			Severity:    d.Meta().Severity,
			Confidence:  0.85,
			DetectorID:  "handler-must-respond",
			File:        file.Path,
			StartLine:   start,
			EndLine:     start,
			Snippet:     util.ExtractSnippet(content, start, start, 6),
			Message:     "Intent handler has a path that never sends a response",
			Rationale:   "A turn that produces no response leaves the conversation hanging and times out.",
			Remediation: "Make every branch of the handler ask or close the conversation.",
			Fingerprint: util.Fingerprint(d.Meta().ID, file.Path, start, start, file.Text(fn)),
		})
	}

	tracker := scopes.NewPresence(reporter, d.log)
	hook := func(n *sitter.Node) error {
		if n.Type() != "call_expression" {
			return nil
		}
		rc := cls.ResponseCall(n)
		// Certain response calls satisfy the guarantee; so do calls that
		// cannot be decided, to stay on the quiet side.
		if (rc.Certain && rc.Match) || !rc.Certain {
			tracker.MarkSatisfied()
		}
		return nil
	}
	if err := scopes.Drive(file.Root(), tracker, cls.HandlerRegistration, hook); err != nil {
		return nil, err
	}
	return findings, nil
}
