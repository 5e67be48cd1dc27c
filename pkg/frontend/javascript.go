package frontend

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/corvidae/augur/pkg/parser"
	"github.com/corvidae/augur/pkg/syntax"
)

// extractJavaScript builds class declarations from a JavaScript parse tree.
// Top-level class declarations are modeled, including ones wrapped in an
// export statement.
func extractJavaScript(result *parser.ParseResult) []syntax.ClassDecl {
	root := result.Tree.RootNode()
	source := result.Source

	var classes []syntax.ClassDecl
	for i := 0; i < int(root.ChildCount()); i++ {
		node := root.Child(i)
		if node.Type() == "export_statement" {
			if decl := node.ChildByFieldName("declaration"); decl != nil {
				node = decl
			}
		}
		if node.Type() != "class_declaration" {
			continue
		}
		classes = append(classes, jsClass(node, source))
	}
	return classes
}

func jsClass(node *sitter.Node, source []byte) syntax.ClassDecl {
	decl := syntax.ClassDecl{Line: nodeLine(node)}

	if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		decl.Name = parser.GetNodeText(nameNode, source)
	}
	if base := jsHeritage(node, source); base != "" {
		decl.Bases = []string{base}
	}

	body := node.ChildByFieldName("body")
	if body == nil {
		return decl
	}
	for i := 0; i < int(body.ChildCount()); i++ {
		member := body.Child(i)
		switch member.Type() {
		case "method_definition":
			decl.Methods = append(decl.Methods, jsMethod(member, source))
		case "ERROR":
			decl.Errors = append(decl.Errors, memberError(member, source, "property_identifier"))
		}
	}
	return decl
}

// jsHeritage returns the extends expression of a class, or "".
func jsHeritage(node *sitter.Node, source []byte) string {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() != "class_heritage" {
			continue
		}
		if expr := child.NamedChild(0); expr != nil {
			return cleanTypeName(parser.GetNodeText(expr, source))
		}
	}
	return ""
}

func jsMethod(node *sitter.Node, source []byte) syntax.MethodDecl {
	m := syntax.MethodDecl{Line: nodeLine(node)}
	if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		m.Name = parser.GetNodeText(nameNode, source)
	}
	if body := node.ChildByFieldName("body"); body != nil {
		m.Body = jsBody(body, source)
	}
	return m
}

// jsBody flattens a method body into the model event stream. Arrow
// functions share the enclosing this, so the walk descends into them;
// ordinary function expressions rebind this and open their own scope.
func jsBody(body *sitter.Node, source []byte) []syntax.Node {
	var events []syntax.Node

	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		switch n.Type() {
		case "member_expression":
			obj := n.ChildByFieldName("object")
			prop := n.ChildByFieldName("property")
			if obj != nil && prop != nil && parser.GetNodeText(obj, source) == "this" {
				events = append(events, syntax.AttributeAccess{
					Name: parser.GetNodeText(prop, source),
					Line: nodeLine(n),
				})
			}
			// The property side is a bare member name, not a reference.
			walk(obj)
			return
		case "identifier":
			events = append(events, syntax.IdentifierRef{
				Name: parser.GetNodeText(n, source),
				Line: nodeLine(n),
			})
			return
		case "if_statement", "ternary_expression", "switch_case":
			events = append(events, decision(syntax.DecisionConditional, n))
		case "for_statement", "for_in_statement", "while_statement", "do_statement":
			events = append(events, decision(syntax.DecisionLoop, n))
		case "catch_clause":
			events = append(events, decision(syntax.DecisionException, n))
		case "&&", "||":
			events = append(events, decision(syntax.DecisionBoolOp, n))
			return
		case "function_declaration", "function_expression", "function",
			"generator_function", "generator_function_declaration",
			"class_declaration", "class":
			// These rebind this and open their own scope.
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}

	for i := 0; i < int(body.ChildCount()); i++ {
		walk(body.Child(i))
	}
	return events
}
