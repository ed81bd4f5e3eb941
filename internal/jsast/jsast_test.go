package jsast

import (
	"context"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) *File {
	t.Helper()
	f, err := Parse(context.Background(), "test.js", []byte(src))
	require.NoError(t, err)
	t.Cleanup(f.Close)
	return f
}

// firstOfType returns the first named node of the given type in document order.
func firstOfType(root *sitter.Node, typ string) *sitter.Node {
	var found *sitter.Node
	Walk(root, func(n *sitter.Node, push bool) bool {
		if !push || found != nil {
			return false
		}
		if n.Type() == typ {
			found = n
			return false
		}
		return true
	})
	return found
}

func TestParseAndText(t *testing.T) {
	f := parse(t, "conv.ask('hello');\n")
	require.Equal(t, "program", f.Root().Type())

	call := firstOfType(f.Root(), "call_expression")
	require.NotNil(t, call)
	assert.Equal(t, "conv.ask('hello')", f.Text(call))
	assert.Equal(t, 1, StartLine(call))
	assert.Equal(t, 1, EndLine(call))
}

func TestWalkIsBalanced(t *testing.T) {
	f := parse(t, "if (a) { conv.ask('x'); } else { conv.close('y'); }\n")
	depth := 0
	maxDepth := 0
	Walk(f.Root(), func(n *sitter.Node, push bool) bool {
		if push {
			depth++
			if depth > maxDepth {
				maxDepth = depth
			}
		} else {
			depth--
		}
		return true
	})
	assert.Equal(t, 0, depth)
	assert.Greater(t, maxDepth, 2)
}

func TestResolveIdentFindsNearestBinding(t *testing.T) {
	f := parse(t, `
const text = 'hello';
function greet(conv) {
  const text = new SimpleResponse({ speech: 'hi' });
  conv.ask(text);
}
`)
	call := firstOfType(f.Root(), "call_expression")
	require.NotNil(t, call)
	args := call.ChildByFieldName("arguments")
	require.NotNil(t, args)
	arg := args.NamedChild(0)
	require.NotNil(t, arg)
	require.Equal(t, "identifier", arg.Type())

	init := f.ResolveIdent(arg)
	require.NotNil(t, init)
	// the inner binding shadows the outer one
	assert.Equal(t, "new_expression", init.Type())
}

func TestResolveIdentUnbound(t *testing.T) {
	f := parse(t, "conv.ask(text);\n")
	call := firstOfType(f.Root(), "call_expression")
	args := call.ChildByFieldName("arguments")
	arg := args.NamedChild(0)
	assert.Nil(t, f.ResolveIdent(arg))
}

func TestResolveIdentVarDeclaration(t *testing.T) {
	f := parse(t, "var greeting = 'hi';\nconv.ask(greeting);\n")
	call := firstOfType(f.Root(), "call_expression")
	arg := call.ChildByFieldName("arguments").NamedChild(0)
	init := f.ResolveIdent(arg)
	require.NotNil(t, init)
	assert.Equal(t, "string", init.Type())
}
