package engine

import (
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/convlint/convlint/internal/analysis"
	"github.com/convlint/convlint/internal/cache"
	"github.com/convlint/convlint/internal/config"
	"github.com/convlint/convlint/internal/model"
	"github.com/convlint/convlint/internal/rules"
)

// cacheTag versions the per-file finding cache; bump when rule output changes.
const cacheTag = "convlint-findings-v1"

type Engine struct {
	log *zap.Logger
}

func New(log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{log: log}
}

func (e *Engine) Scan(ctx context.Context, req model.ScanRequest) (*model.ScanResult, error) {
	start := time.Now()
	cfg, cfgPath, err := config.Load(configStart(req))
	if err != nil {
		e.log.Warn("config load failed, using defaults", zap.String("path", cfgPath), zap.Error(err))
	}

	files := discoverFiles(req.Path)
	e.log.Debug("discovered sources", zap.Int("count", len(files)))

	// Split into cached and fresh work by content hash.
	var fresh []string
	var findings []model.Finding
	keys := map[string]string{}
	for _, path := range files {
		b, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		key := cache.Key(cacheTag, path, string(b))
		keys[path] = key
		if data, ok := cache.Load(key); ok {
			var fs []model.Finding
			if err := json.Unmarshal(data, &fs); err == nil {
				findings = append(findings, fs...)
				continue
			}
		}
		fresh = append(fresh, path)
	}

	pctx, err := analysis.Build(ctx, req.Path, fresh)
	if err != nil {
		return nil, err
	}
	defer pctx.Close()

	reg := rules.NewRegistry(e.log)
	reg.RegisterBuiltin(cfg)
	ran := reg.Run(ctx, pctx, req)
	storeByFile(keys, pctx.Files, ran)
	findings = append(findings, ran...)

	if cfg.ExternalTools.ESLint {
		findings = append(findings, runExternalTools(ctx, cfg, req.Path, req.TimeBudget)...)
	}

	findings = calibrateFindings(findings)
	findings = applyIgnores(findings, cfg)
	findings = filterBySeverity(findings, cfg)
	findings = filterByRules(findings, cfg)
	if req.BaselinePath != "" {
		b, err := loadBaseline(req.BaselinePath)
		if err != nil {
			e.log.Warn("baseline load failed", zap.String("path", req.BaselinePath), zap.Error(err))
		}
		findings = filterByBaseline(findings, b)
	}

	return &model.ScanResult{Findings: findings, Elapsed: time.Since(start)}, nil
}

func configStart(req model.ScanRequest) string {
	if req.ConfigPath != "" {
		return filepath.Dir(req.ConfigPath)
	}
	return req.Path
}

// storeByFile caches the fresh findings grouped per analyzed file, including
// empty result sets so clean files hit the cache too.
func storeByFile(keys map[string]string, analyzed []string, findings []model.Finding) {
	grouped := map[string][]model.Finding{}
	for _, path := range analyzed {
		grouped[filepath.ToSlash(path)] = []model.Finding{}
	}
	for _, f := range findings {
		grouped[f.File] = append(grouped[f.File], f)
	}
	for _, path := range analyzed {
		key := keys[path]
		if key == "" {
			continue
		}
		data, err := json.Marshal(grouped[filepath.ToSlash(path)])
		if err != nil {
			continue
		}
		_ = cache.Store(key, data)
	}
}

// discoverFiles returns JavaScript sources under root, skipping node_modules
// and hidden directories.
func discoverFiles(root string) []string {
	var out []string
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			name := d.Name()
			if name == "node_modules" || (strings.HasPrefix(name, ".") && path != root) {
				return filepath.SkipDir
			}
			return nil
		}
		switch filepath.Ext(d.Name()) {
		case ".js", ".mjs", ".cjs":
			out = append(out, path)
		}
		return nil
	})
	return out
}
