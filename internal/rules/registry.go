// Package rules holds the lint rules and the registry that fans them out.
package rules

import (
	"context"
	"path/filepath"
	"runtime"
	"sync"

	"go.uber.org/zap"

	"github.com/convlint/convlint/internal/analysis"
	"github.com/convlint/convlint/internal/config"
	"github.com/convlint/convlint/internal/model"
)

// Detector is one lint rule.
type Detector interface {
	Meta() model.RuleMeta
	Analyze(ctx context.Context, pctx *analysis.ProjectContext, req model.ScanRequest) ([]model.Finding, error)
}

type Registry struct {
	detectors []Detector
	log       *zap.Logger
}

func NewRegistry(log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{log: log}
}

func (r *Registry) Register(d Detector) { r.detectors = append(r.detectors, d) }

func (r *Registry) RegisterBuiltin(cfg config.Config) {
	r.Register(newSimpleResponseLimit(cfg, r.log))
	r.Register(newHandlerMustRespond(cfg, r.log))
}

func (r *Registry) Detectors() []Detector { return r.detectors }

// Run executes every detector against the project context, a goroutine per
// detector under a CPU-bounded semaphore. Detector errors are logged and
// their findings dropped; one misbehaving rule does not sink the scan.
func (r *Registry) Run(ctx context.Context, pctx *analysis.ProjectContext, req model.ScanRequest) []model.Finding {
	cpu := runtime.NumCPU()
	if cpu < 2 {
		cpu = 2
	}
	type res struct{ fs []model.Finding }
	ch := make(chan res, len(r.detectors))
	var wg sync.WaitGroup
	sem := make(chan struct{}, cpu)
	for _, d := range r.detectors {
		d := d
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			fs, err := d.Analyze(ctx, pctx, req)
			if err != nil {
				r.log.Warn("detector failed",
					zap.String("rule", d.Meta().ID),
					zap.Error(err))
				ch <- res{}
				return
			}
			for i := range fs {
				fs[i].File = filepath.ToSlash(fs[i].File)
			}
			ch <- res{fs: fs}
		}()
	}
	wg.Wait()
	close(ch)
	var out []model.Finding
	for r := range ch {
		out = append(out, r.fs...)
	}
	return out
}
