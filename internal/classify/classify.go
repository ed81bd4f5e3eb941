// Package classify resolves what kind of response an expression in a
// fulfillment source denotes, and which call sites emit or register them.
package classify

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/convlint/convlint/internal/jsast"
)

// Classification is the result of a static check. When Certain is false the
// expression could not be decided statically and Match is meaningless;
// callers must treat that conservatively.
type Classification struct {
	Certain bool
	Match   bool
}

func certain(match bool) Classification { return Classification{Certain: true, Match: match} }
func uncertain() Classification         { return Classification{} }

// simpleTypes are constructors that wrap a plain spoken/displayed response.
var simpleTypes = map[string]bool{
	"SimpleResponse": true,
}

// richTypes is the allow-list of response-helper constructors.
var richTypes = map[string]bool{
	"BasicCard":         true,
	"Suggestions":       true,
	"LinkOutSuggestion": true,
	"List":              true,
	"Carousel":          true,
	"BrowseCarousel":    true,
	"MediaObject":       true,
	"Table":             true,
	"HtmlResponse":      true,
}

// resolveHops bounds identifier chasing: one binding lookup, then the
// initializer itself.
const resolveHops = 1

// Classifier inspects expressions of a single parsed file.
type Classifier struct {
	file *jsast.File
	// Conversation is the identifier of the conversation object, "conv" by
	// convention.
	Conversation string
	// ResponseMethods are the methods on the conversation object that emit
	// a response.
	ResponseMethods map[string]bool
	// HandlerMethods are the app methods that register an intent handler.
	HandlerMethods map[string]bool
}

// New returns a classifier with the platform's conventional vocabulary.
func New(file *jsast.File) *Classifier {
	return &Classifier{
		file:            file,
		Conversation:    "conv",
		ResponseMethods: map[string]bool{"ask": true, "close": true},
		HandlerMethods:  map[string]bool{"intent": true, "handle": true},
	}
}

// SimpleResponse reports whether n denotes a simple (plain text) response.
func (c *Classifier) SimpleResponse(n *sitter.Node) Classification {
	return c.simple(n, resolveHops)
}

func (c *Classifier) simple(n *sitter.Node, hops int) Classification {
	if n == nil {
		return uncertain()
	}
	switch n.Type() {
	case "string", "template_string", "number":
		return certain(true)
	case "binary_expression":
		// String concatenation still renders as one plain response.
		if op := n.ChildByFieldName("operator"); op != nil && c.file.Text(op) == "+" {
			return certain(true)
		}
		return uncertain()
	case "new_expression":
		name := constructorName(c.file, n)
		if name == "" {
			return uncertain()
		}
		return certain(simpleTypes[name])
	case "parenthesized_expression":
		if n.NamedChildCount() == 1 {
			return c.simple(n.NamedChild(0), hops)
		}
		return uncertain()
	case "identifier":
		if hops <= 0 {
			return uncertain()
		}
		if init := c.file.ResolveIdent(n); init != nil {
			return c.simple(init, hops-1)
		}
		return uncertain()
	}
	// Calls, member accesses, spreads: return type unknown.
	return uncertain()
}

// RichResponse reports whether n constructs one of the known response
// helpers.
func (c *Classifier) RichResponse(n *sitter.Node) Classification {
	return c.rich(n, resolveHops)
}

func (c *Classifier) rich(n *sitter.Node, hops int) Classification {
	if n == nil {
		return uncertain()
	}
	switch n.Type() {
	case "string", "template_string", "number", "binary_expression":
		return certain(false)
	case "new_expression":
		name := constructorName(c.file, n)
		if name == "" {
			return uncertain()
		}
		return certain(richTypes[name])
	case "parenthesized_expression":
		if n.NamedChildCount() == 1 {
			return c.rich(n.NamedChild(0), hops)
		}
		return uncertain()
	case "identifier":
		if hops <= 0 {
			return uncertain()
		}
		if init := c.file.ResolveIdent(n); init != nil {
			return c.rich(init, hops-1)
		}
		return uncertain()
	}
	return uncertain()
}

// ResponseCall reports whether call emits a response on the conversation
// object. Calls on other receivers and bare function calls stay uncertain:
// they may emit a response internally.
func (c *Classifier) ResponseCall(call *sitter.Node) Classification {
	if call == nil || call.Type() != "call_expression" {
		return certain(false)
	}
	callee := call.ChildByFieldName("function")
	if callee == nil {
		return uncertain()
	}
	if callee.Type() != "member_expression" {
		return uncertain()
	}
	obj := callee.ChildByFieldName("object")
	prop := callee.ChildByFieldName("property")
	if obj == nil || prop == nil {
		return uncertain()
	}
	if obj.Type() == "identifier" && c.file.Text(obj) == c.Conversation {
		return certain(c.ResponseMethods[c.file.Text(prop)])
	}
	return uncertain()
}

// HandlerRegistration reports whether call registers an intent handler, i.e.
// a member call whose property is one of the handler method names.
func (c *Classifier) HandlerRegistration(call *sitter.Node) bool {
	if call == nil || call.Type() != "call_expression" {
		return false
	}
	callee := call.ChildByFieldName("function")
	if callee == nil || callee.Type() != "member_expression" {
		return false
	}
	prop := callee.ChildByFieldName("property")
	if prop == nil {
		return false
	}
	return c.HandlerMethods[c.file.Text(prop)]
}

// constructorName returns the identifier a new expression constructs, or ""
// when the constructor is itself computed.
func constructorName(f *jsast.File, n *sitter.Node) string {
	ctor := n.ChildByFieldName("constructor")
	if ctor == nil {
		return ""
	}
	if ctor.Type() != "identifier" {
		return ""
	}
	return f.Text(ctor)
}
