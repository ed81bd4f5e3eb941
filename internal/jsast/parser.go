// Package jsast wraps tree-sitter parsing of JavaScript fulfillment sources.
package jsast

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
)

// File is one parsed JavaScript source.
type File struct {
	Path string
	Src  []byte
	tree *sitter.Tree
}

// Parse parses src as JavaScript. The returned File owns the tree and must be
// closed by the caller.
func Parse(ctx context.Context, path string, src []byte) (*File, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(javascript.GetLanguage())
	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &File{Path: path, Src: src, tree: tree}, nil
}

func (f *File) Root() *sitter.Node { return f.tree.RootNode() }

func (f *File) Close() {
	if f.tree != nil {
		f.tree.Close()
		f.tree = nil
	}
}

// Text returns the source text of n.
func (f *File) Text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(f.Src)
}

// StartLine returns the 1-based line of n.
func StartLine(n *sitter.Node) int {
	if n == nil {
		return 1
	}
	return int(n.StartPoint().Row) + 1
}

// EndLine returns the 1-based last line of n.
func EndLine(n *sitter.Node) int {
	if n == nil {
		return 1
	}
	return int(n.EndPoint().Row) + 1
}
