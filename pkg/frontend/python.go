package frontend

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/corvidae/augur/pkg/parser"
	"github.com/corvidae/augur/pkg/syntax"
)

// extractPython builds class declarations from a Python parse tree.
// Only module-level classes are modeled; nested classes belong to the
// enclosing scope and are not registered on their own.
func extractPython(result *parser.ParseResult) []syntax.ClassDecl {
	root := result.Tree.RootNode()
	source := result.Source

	var classes []syntax.ClassDecl
	for i := 0; i < int(root.ChildCount()); i++ {
		node := unwrapDecorated(root.Child(i))
		if node.Type() != "class_definition" {
			continue
		}
		classes = append(classes, pythonClass(node, source))
	}
	return classes
}

// unwrapDecorated returns the definition inside a decorated_definition,
// or the node itself.
func unwrapDecorated(node *sitter.Node) *sitter.Node {
	if node.Type() == "decorated_definition" {
		if def := node.ChildByFieldName("definition"); def != nil {
			return def
		}
	}
	return node
}

func pythonClass(node *sitter.Node, source []byte) syntax.ClassDecl {
	decl := syntax.ClassDecl{Line: nodeLine(node)}

	if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		decl.Name = parser.GetNodeText(nameNode, source)
	}

	args := node.ChildByFieldName("superclasses")
	if args == nil {
		// Older grammars expose the base list as a plain argument_list.
		for i := 0; i < int(node.ChildCount()); i++ {
			if child := node.Child(i); child.Type() == "argument_list" {
				args = child
				break
			}
		}
	}
	if args != nil {
		decl.Bases = pythonBases(args, source)
	}

	body := node.ChildByFieldName("body")
	if body == nil {
		return decl
	}
	for i := 0; i < int(body.ChildCount()); i++ {
		member := body.Child(i)
		switch inner := unwrapDecorated(member); inner.Type() {
		case "function_definition":
			decl.Methods = append(decl.Methods, pythonMethod(inner, source))
		case "ERROR":
			decl.Errors = append(decl.Errors, memberError(inner, source, "identifier"))
		}
	}
	return decl
}

// pythonBases collects base-class names from the superclass argument list.
// Keyword arguments (metaclass=...) are not bases.
func pythonBases(args *sitter.Node, source []byte) []string {
	var bases []string
	for i := 0; i < int(args.NamedChildCount()); i++ {
		child := args.NamedChild(i)
		if child.Type() == "keyword_argument" {
			continue
		}
		if name := cleanTypeName(parser.GetNodeText(child, source)); name != "" {
			bases = append(bases, name)
		}
	}
	return bases
}

func pythonMethod(node *sitter.Node, source []byte) syntax.MethodDecl {
	m := syntax.MethodDecl{Line: nodeLine(node)}
	if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		m.Name = parser.GetNodeText(nameNode, source)
	}
	if body := node.ChildByFieldName("body"); body != nil {
		m.Body = pythonBody(body, source)
	}
	return m
}

// pythonBody flattens a method body into the event stream the model layer
// consumes: self-attribute accesses, identifier references and decision
// points, in source order.
func pythonBody(body *sitter.Node, source []byte) []syntax.Node {
	var events []syntax.Node

	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		switch n.Type() {
		case "attribute":
			obj := n.ChildByFieldName("object")
			attr := n.ChildByFieldName("attribute")
			if obj != nil && attr != nil && parser.GetNodeText(obj, source) == "self" {
				events = append(events, syntax.AttributeAccess{
					Name: parser.GetNodeText(attr, source),
					Line: nodeLine(n),
				})
			}
			// The attribute side is a bare member name, not a reference.
			walk(obj)
			return
		case "identifier":
			events = append(events, syntax.IdentifierRef{
				Name: parser.GetNodeText(n, source),
				Line: nodeLine(n),
			})
			return
		case "keyword_argument":
			// The keyword side is a parameter name, not a reference.
			walk(n.ChildByFieldName("value"))
			return
		case "if_statement", "elif_clause", "conditional_expression", "case_clause":
			events = append(events, decision(syntax.DecisionConditional, n))
		case "for_statement", "while_statement":
			events = append(events, decision(syntax.DecisionLoop, n))
		case "except_clause":
			events = append(events, decision(syntax.DecisionException, n))
		case "boolean_operator":
			events = append(events, decision(syntax.DecisionBoolOp, n))
		case "function_definition", "class_definition":
			// Nested definitions open their own scope.
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

func decision(kind syntax.DecisionKind, n *sitter.Node) syntax.Decision {
	return syntax.Decision{Kind: kind, Line: nodeLine(n)}
}

func nodeLine(n *sitter.Node) int {
	return int(n.StartPoint().Row) + 1
}

// cleanTypeName strips generic or subscript suffixes: Generic[T] -> Generic.
func cleanTypeName(name string) string {
	for i, c := range name {
		if c == '[' || c == '<' {
			return name[:i]
		}
	}
	return name
}

// memberError records an unparseable class member. The member name is
// salvaged from the first name-like token inside the error node when the
// grammar recovered enough to expose one.
func memberError(node *sitter.Node, source []byte, nameType string) syntax.MemberError {
	me := syntax.MemberError{
		Line:   nodeLine(node),
		Reason: "syntax error in member",
	}
	parser.WalkTyped(node, source, func(n *sitter.Node, nodeType string, src []byte) bool {
		if me.Name != "" {
			return false
		}
		if nodeType == nameType {
			me.Name = parser.GetNodeText(n, src)
			return false
		}
		return true
	})
	return me
}
