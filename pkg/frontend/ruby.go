package frontend

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/corvidae/augur/pkg/parser"
	"github.com/corvidae/augur/pkg/syntax"
)

// extractRuby builds class declarations from a Ruby parse tree. Top-level
// classes only; a class nested in another class or module stays with its
// enclosing scope.
func extractRuby(result *parser.ParseResult) []syntax.ClassDecl {
	root := result.Tree.RootNode()
	source := result.Source

	var classes []syntax.ClassDecl
	for i := 0; i < int(root.ChildCount()); i++ {
		node := root.Child(i)
		if node.Type() != "class" {
			continue
		}
		classes = append(classes, rubyClass(node, source))
	}
	return classes
}

func rubyClass(node *sitter.Node, source []byte) syntax.ClassDecl {
	decl := syntax.ClassDecl{Line: nodeLine(node)}

	if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		decl.Name = parser.GetNodeText(nameNode, source)
	}
	if base := rubySuperclass(node, source); base != "" {
		decl.Bases = []string{base}
	}

	// Members are collected by walking the class body rather than indexing
	// children, so the same code works whether or not the grammar wraps the
	// body in a body_statement node.
	parser.WalkTyped(node, source, func(n *sitter.Node, nodeType string, src []byte) bool {
		switch nodeType {
		case "method", "singleton_method":
			decl.Methods = append(decl.Methods, rubyMethod(n, src))
			return false
		case "ERROR":
			decl.Errors = append(decl.Errors, memberError(n, src, "identifier"))
			return false
		case "class", "module":
			// Do not claim members of nested scopes.
			return n.StartByte() == node.StartByte()
		}
		return true
	})
	return decl
}

// rubySuperclass returns the single base class name, or "".
func rubySuperclass(node *sitter.Node, source []byte) string {
	sup := node.ChildByFieldName("superclass")
	if sup == nil {
		return ""
	}
	// The superclass node carries the "<" token; the expression after it is
	// the base.
	if sup.Type() == "superclass" {
		if expr := sup.NamedChild(0); expr != nil {
			return parser.GetNodeText(expr, source)
		}
		return ""
	}
	return parser.GetNodeText(sup, source)
}

func rubyMethod(node *sitter.Node, source []byte) syntax.MethodDecl {
	m := syntax.MethodDecl{Line: nodeLine(node)}
	if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		m.Name = parser.GetNodeText(nameNode, source)
	}
	m.Body = rubyBody(node, source)
	return m
}

// rubyBody flattens a method into the model event stream. Instance
// variables are attribute accesses, constants are class references, and
// the boolean operators are counted as the tokens themselves so the walk
// needs no operator-position bookkeeping.
func rubyBody(method *sitter.Node, source []byte) []syntax.Node {
	var events []syntax.Node

	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		switch n.Type() {
		case "instance_variable":
			name := parser.GetNodeText(n, source)
			if len(name) > 1 && name[0] == '@' {
				name = name[1:]
			}
			events = append(events, syntax.AttributeAccess{Name: name, Line: nodeLine(n)})
			return
		case "constant":
			events = append(events, syntax.IdentifierRef{
				Name: parser.GetNodeText(n, source),
				Line: nodeLine(n),
			})
			return
		case "if", "elsif", "unless", "conditional", "if_modifier", "unless_modifier", "when":
			events = append(events, decision(syntax.DecisionConditional, n))
		case "while", "until", "for", "while_modifier", "until_modifier":
			events = append(events, decision(syntax.DecisionLoop, n))
		case "rescue", "rescue_modifier":
			events = append(events, decision(syntax.DecisionException, n))
		case "&&", "||", "and", "or":
			events = append(events, decision(syntax.DecisionBoolOp, n))
			return
		case "method_parameters", "method", "singleton_method", "class", "module":
			if n.StartByte() != method.StartByte() {
				return
			}
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(method)
	return events
}
