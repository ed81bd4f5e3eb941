package analysis

import (
	"context"
	"fmt"
	"os"

	"github.com/convlint/convlint/internal/jsast"
)

// ProjectContext carries parsed artifacts and file metadata for detectors.
type ProjectContext struct {
	RootPath     string
	Files        []string
	FileContents map[string]string

	// JS maps file path to its parsed tree. Entries are owned by the
	// context and released by Close.
	JS map[string]*jsast.File
}

// Build reads and parses the given JavaScript files. Files that fail to read
// or parse are skipped; a fulfillment project with one broken file still gets
// the rest scanned.
func Build(ctx context.Context, root string, files []string) (*ProjectContext, error) {
	pc := &ProjectContext{
		RootPath:     root,
		FileContents: map[string]string{},
		JS:           map[string]*jsast.File{},
	}
	for _, path := range files {
		src, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		f, err := jsast.Parse(ctx, path, src)
		if err != nil {
			if ctx.Err() != nil {
				pc.Close()
				return nil, fmt.Errorf("build project context: %w", ctx.Err())
			}
			continue
		}
		pc.Files = append(pc.Files, path)
		pc.FileContents[path] = string(src)
		pc.JS[path] = f
	}
	return pc, nil
}

// Close releases every parsed tree.
func (pc *ProjectContext) Close() {
	for _, f := range pc.JS {
		f.Close()
	}
	pc.JS = map[string]*jsast.File{}
}
