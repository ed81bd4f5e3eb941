package engine

import (
	"context"
	"time"

	"github.com/convlint/convlint/internal/config"
	"github.com/convlint/convlint/internal/model"
	"github.com/convlint/convlint/internal/tools"
)

// runExternalTools executes enabled tools within budget and converts their
// output to model findings
func runExternalTools(ctx context.Context, cfg config.Config, root string, budget time.Duration) []model.Finding {
	var out []model.Finding
	if budget <= 0 {
		budget = time.Duration(cfg.TimeBudgetMs) * time.Millisecond
	}
	if cfg.ExternalTools.ESLint {
		ctxLint, cancel := context.WithTimeout(ctx, budget)
		res := tools.RunWithTimeout(ctxLint, "eslint", "--format", "json", root)
		cancel()
		// eslint exits non-zero when it finds problems; the JSON is
		// still on stdout
		if len(res.Raw) > 0 {
			fs, _ := tools.Normalize("eslint", res.Raw)
			out = append(out, convertExternal(fs, "eslint")...)
		}
	}
	return out
}

func convertExternal(ext []tools.Finding, source string) []model.Finding {
	var out []model.Finding
	for _, f := range ext {
		sev := model.ParseSeverity(f.Severity)
		conf := f.Confidence
		if conf == 0 {
			conf = 0.5
		}
		out = append(out, model.Finding{
			RuleID:     source + ":" + f.RuleID,
			Severity:   sev,
			Confidence: conf,
			DetectorID: "external:" + source,
			File:       f.File,
			StartLine:  f.StartLine,
			EndLine:    f.EndLine,
			Message:    f.Message,
		})
	}
	return out
}
