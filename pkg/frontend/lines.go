package frontend

import (
	"bytes"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/corvidae/augur/pkg/parser"
	"github.com/corvidae/augur/pkg/syntax"
)

// countLines computes the unit's line counters from the parse tree.
//
// Total counts physical lines. Comment counts lines touched by a comment
// node. Source counts lines touched by at least one non-comment token, so
// blank and comment-only lines are excluded. Logical counts statement
// nodes rather than lines.
func countLines(result *parser.ParseResult) syntax.LineCounts {
	counts := syntax.LineCounts{Total: physicalLines(result.Source)}

	commentRows := make(map[uint32]bool)
	codeRows := make(map[uint32]bool)

	root := result.Tree.RootNode()
	parser.WalkTyped(root, result.Source, func(n *sitter.Node, nodeType string, _ []byte) bool {
		if nodeType == "comment" {
			markRows(commentRows, n)
			return false
		}
		if isLogicalNode(result.Language, nodeType) {
			counts.Logical++
		}
		if n.ChildCount() == 0 {
			markRows(codeRows, n)
		}
		return true
	})

	counts.Comment = len(commentRows)
	counts.Source = len(codeRows)
	return counts
}

func physicalLines(source []byte) int {
	if len(source) == 0 {
		return 0
	}
	n := bytes.Count(source, []byte{'\n'})
	if source[len(source)-1] != '\n' {
		n++
	}
	return n
}

func markRows(rows map[uint32]bool, n *sitter.Node) {
	for row := n.StartPoint().Row; row <= n.EndPoint().Row; row++ {
		rows[row] = true
	}
}

// isLogicalNode reports whether a node type counts toward the logical
// statement total for the given language.
func isLogicalNode(lang parser.Language, nodeType string) bool {
	switch lang {
	case parser.LangPython:
		return strings.HasSuffix(nodeType, "_statement") ||
			nodeType == "function_definition" ||
			nodeType == "class_definition"
	case parser.LangJavaScript:
		if nodeType == "statement_block" || nodeType == "export_statement" {
			return false
		}
		return strings.HasSuffix(nodeType, "_statement") ||
			strings.HasSuffix(nodeType, "_declaration") ||
			nodeType == "method_definition"
	case parser.LangRuby:
		switch nodeType {
		case "method", "singleton_method", "class", "module",
			"if", "unless", "while", "until", "for", "case", "when", "begin",
			"return", "assignment", "operator_assignment", "call", "yield",
			"break", "next":
			return true
		}
	}
	return false
}
