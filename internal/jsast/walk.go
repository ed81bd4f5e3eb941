package jsast

import sitter "github.com/smacker/go-tree-sitter"

// Visitor is called twice per named node: once entering (push=true) and once
// leaving (push=false). Returning false from the entering call skips the
// node's children; the leaving call is still delivered.
type Visitor func(n *sitter.Node, push bool) bool

// Walk traverses the named nodes under root depth-first in document order.
func Walk(root *sitter.Node, visit Visitor) {
	if root == nil {
		return
	}
	descend := visit(root, true)
	if descend {
		for i := 0; i < int(root.NamedChildCount()); i++ {
			Walk(root.NamedChild(i), visit)
		}
	}
	visit(root, false)
}
