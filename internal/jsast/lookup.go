package jsast

import sitter "github.com/smacker/go-tree-sitter"

// ResolveIdent finds the initializer expression of the nearest enclosing
// lexical binding for ident. It walks outward through statement blocks up to
// the program root and inspects each declaration directly contained in that
// block. Returns nil when no binding is found; destructuring patterns and
// reassignments are not followed.
func (f *File) ResolveIdent(ident *sitter.Node) *sitter.Node {
	if ident == nil || ident.Type() != "identifier" {
		return nil
	}
	name := f.Text(ident)
	for p := ident.Parent(); p != nil; p = p.Parent() {
		switch p.Type() {
		case "statement_block", "program":
		default:
			continue
		}
		if init := f.findBinding(p, name); init != nil {
			return init
		}
	}
	return nil
}

// findBinding scans the declarations directly inside block for a declarator
// named name and returns its value expression.
func (f *File) findBinding(block *sitter.Node, name string) *sitter.Node {
	for i := 0; i < int(block.NamedChildCount()); i++ {
		stmt := block.NamedChild(i)
		switch stmt.Type() {
		case "lexical_declaration", "variable_declaration":
		default:
			continue
		}
		for j := 0; j < int(stmt.NamedChildCount()); j++ {
			decl := stmt.NamedChild(j)
			if decl.Type() != "variable_declarator" {
				continue
			}
			nameNode := decl.ChildByFieldName("name")
			if nameNode == nil || nameNode.Type() != "identifier" || f.Text(nameNode) != name {
				continue
			}
			return decl.ChildByFieldName("value")
		}
	}
	return nil
}
