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

// simpleResponseLimit flags code that can emit more simple responses in one
// turn than the platform renders. Only counts that hold on a single path
// matter: mutually exclusive branches and returning branches never stack.
type simpleResponseLimit struct {
	cfg config.Config
	log *zap.Logger
}

func newSimpleResponseLimit(cfg config.Config, log *zap.Logger) *simpleResponseLimit {
	return &simpleResponseLimit{cfg: cfg, log: log}
}

func (d *simpleResponseLimit) Meta() model.RuleMeta {
	return model.RuleMeta{
		ID:       "CONV-SIMPLE-LIMIT",
		Title:    "Too many simple responses in one turn",
		Severity: model.SeverityMedium,
		Tags:     []string{"fulfillment", "response"},
	}
}

func (d *simpleResponseLimit) Analyze(ctx context.Context, pctx *analysis.ProjectContext, req model.ScanRequest) ([]model.Finding, error) {
	var findings []model.Finding
	if pctx == nil {
		return findings, nil
	}
	limit := d.cfg.MaxSimpleResponses
	if limit <= 0 {
		limit = config.Default().MaxSimpleResponses
	}
	for _, path := range pctx.Files {
		if err := ctx.Err(); err != nil {
			return findings, err
		}
		file := pctx.JS[path]
		if file == nil {
			continue
		}
		fs, err := d.analyzeFile(file, limit)
		if err != nil {
			// Invariant failure is a defect in this linter, not in the
			// scanned source. Abandon the file, keep scanning.
			d.log.Error("scope tracking aborted",
				zap.String("file", path),
				zap.Error(err))
			continue
		}
		findings = append(findings, fs...)
	}
	return findings, nil
}

func (d *simpleResponseLimit) analyzeFile(file *jsast.File, limit int) ([]model.Finding, error) {
	var findings []model.Finding
	cls := newClassifier(file, d.cfg)
	content := string(file.Src)

	reporter := func(anchor *sitter.Node, count int) {
		if count <= limit || anchor == nil {
			return
		}
		start, end := jsast.StartLine(anchor), jsast.EndLine(anchor)
		findings = append(findings, model.Finding{
			RuleID:      d.Meta().ID,
			Severity:    d.Meta().Severity,
			Confidence:  0.8,
			DetectorID:  "simple-response-limit",
			File:        file.Path,
			StartLine:   start,
			EndLine:     end,
			Snippet:     util.ExtractSnippet(content, start, end, 6),
			Message:     "More simple responses on one path than the platform renders per turn",
			Rationale:   "Each turn renders a bounded number of simple responses; extra ones are silently dropped.",
			Remediation: "Combine texts into one response or move the extra message to another turn.",
			Fingerprint: util.Fingerprint(d.Meta().ID, file.Path, start, end, file.Text(anchor)),
		})
	}

	tracker := scopes.NewCounting(reporter, d.log)
	hook := func(n *sitter.Node) error {
		if n.Type() != "call_expression" {
			return nil
		}
		if rc := cls.ResponseCall(n); !rc.Certain || !rc.Match {
			return nil
		}
		args := n.ChildByFieldName("arguments")
		if args == nil {
			return nil
		}
		for i := 0; i < int(args.NamedChildCount()); i++ {
			// Uncertain arguments stay uncounted to avoid false alarms.
			if sc := cls.SimpleResponse(args.NamedChild(i)); sc.Certain && sc.Match {
				tracker.Bump(n)
			}
		}
		return nil
	}
	if err := scopes.Drive(file.Root(), tracker, cls.HandlerRegistration, hook); err != nil {
		return nil, err
	}
	return findings, nil
}
