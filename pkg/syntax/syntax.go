// Package syntax defines the structural model handed to the metrics engine.
//
// A front-end reduces one parsed source file to a Unit: the class declarations
// it contains, each method's body flattened to an ordered stream of the three
// event kinds the engine cares about (attribute accesses, identifier
// references, decision points), and the file's line counters. The model is
// deliberately source-syntax agnostic so the engine never touches a concrete
// parse tree.
package syntax

// Unit is a single analysis unit: one source file's declarations.
type Unit struct {
	Path     string      `json:"path"`
	Language string      `json:"language"`
	Lines    LineCounts  `json:"lines"`
	Classes  []ClassDecl `json:"classes"`
}

// LineCounts carries the informational size counters for a unit.
type LineCounts struct {
	Total   int `json:"total"`
	Logical int `json:"logical"`
	Source  int `json:"source"`
	Comment int `json:"comment"`
}

// Add accumulates another unit's counters, for whole-batch totals.
func (c *LineCounts) Add(o LineCounts) {
	c.Total += o.Total
	c.Logical += o.Logical
	c.Source += o.Source
	c.Comment += o.Comment
}

// ClassDecl is a class-like declaration. Bases holds every declared base in
// order; consumers that follow a single-inheritance model use only the first.
type ClassDecl struct {
	Name    string        `json:"name"`
	Bases   []string      `json:"bases,omitempty"`
	Line    int           `json:"line"`
	Methods []MethodDecl  `json:"methods,omitempty"`
	Errors  []MemberError `json:"errors,omitempty"`
}

// MethodDecl is a method-like member. Duplicate names within a class are
// legal and each declaration is kept.
type MethodDecl struct {
	Name string `json:"name"`
	Line int    `json:"line"`
	Body []Node `json:"body,omitempty"`
}

// MemberError records a member the front-end could not read. The class model
// builder turns these into warnings; they never abort a build.
type MemberError struct {
	Name   string `json:"name,omitempty"`
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// Node is one body event. The set of implementations is closed: traversals
// type-switch over AttributeAccess, IdentifierRef and Decision and need no
// default arm for unknown kinds.
type Node interface {
	node()
}

// AttributeAccess is a read or write of an attribute through the enclosing
// instance (self.x, @x, this.x).
type AttributeAccess struct {
	Name string `json:"name"`
	Line int    `json:"line"`
}

// IdentifierRef is a plain identifier occurrence that may name another class.
type IdentifierRef struct {
	Name string `json:"name"`
	Line int    `json:"line"`
}

// Decision is a single decision point contributing to cyclomatic complexity.
type Decision struct {
	Kind DecisionKind `json:"kind"`
	Line int          `json:"line"`
}

func (AttributeAccess) node() {}
func (IdentifierRef) node()   {}
func (Decision) node()        {}

// DecisionKind classifies a decision point.
type DecisionKind string

const (
	// DecisionConditional covers if/elif/else-if chains and conditional
	// (ternary) expressions.
	DecisionConditional DecisionKind = "conditional"
	// DecisionLoop covers for/while/do loop constructs.
	DecisionLoop DecisionKind = "loop"
	// DecisionException covers exception-handling clauses (except/rescue/catch).
	DecisionException DecisionKind = "exception"
	// DecisionBoolOp covers short-circuit boolean operators in conditions.
	DecisionBoolOp DecisionKind = "boolop"
)
