// Package metrics computes the object-oriented design metrics suite over a
// frozen class registry: depth of inheritance tree, coupling between
// objects, lack of cohesion of methods and per-method cyclomatic complexity.
//
// Every function here is pure: no I/O, no mutation of the registry, no
// shared state between classes. That is what lets ComputeAll fan the
// per-class work out across a pool.
package metrics

import (
	"runtime"

	"github.com/sourcegraph/conc/pool"

	"github.com/corvidae/augur/pkg/model"
)

// Vector is the computed metric set for one class.
type Vector struct {
	DIT            int `json:"dit"`
	CBO            int `json:"cbo"`
	LCOM           int `json:"lcom"`
	MethodCount    int `json:"methods"`
	AttributeCount int `json:"attributes"`
}

// ClassMetrics pairs a class with its metric vector and per-method
// complexity rows.
type ClassMetrics struct {
	Class   string          `json:"class"`
	Line    int             `json:"line"`
	Vector  Vector          `json:"vector"`
	Methods []MethodMetrics `json:"method_metrics,omitempty"`

	// InheritanceCycle lists the participating class names when the DIT
	// walk ran into a cycle. Empty on well-formed input.
	InheritanceCycle []string `json:"inheritance_cycle,omitempty"`
}

// MethodMetrics is one method's complexity row.
type MethodMetrics struct {
	Name       string `json:"name"`
	Qualified  string `json:"qualified"`
	Line       int    `json:"line"`
	Complexity int    `json:"complexity"`
	Grade      Grade  `json:"grade"`
}

// Compute evaluates every metric for one class against its registry.
func Compute(r *model.Registry, c *model.Class) ClassMetrics {
	depth, cycle := DIT(r, c)

	cm := ClassMetrics{
		Class: c.Name(),
		Line:  c.Line(),
		Vector: Vector{
			DIT:            depth,
			CBO:            CBO(c),
			LCOM:           LCOM(c),
			MethodCount:    c.MethodCount(),
			AttributeCount: c.AttributeCount(),
		},
		InheritanceCycle: cycle,
	}

	for _, m := range c.Methods() {
		cc := Cyclomatic(m)
		cm.Methods = append(cm.Methods, MethodMetrics{
			Name:       m.Name(),
			Qualified:  m.QualifiedName(),
			Line:       m.Line(),
			Complexity: cc,
			Grade:      GradeFor(cc),
		})
	}
	return cm
}

// ComputeAll evaluates every registered class. Per-class computation runs on
// a bounded pool; results land at the class's registry position, so ordering
// is identical to a sequential run.
func ComputeAll(r *model.Registry) []ClassMetrics {
	classes := r.Classes()
	results := make([]ClassMetrics, len(classes))

	p := pool.New().WithMaxGoroutines(runtime.NumCPU())
	for i, c := range classes {
		p.Go(func() {
			results[i] = Compute(r, c)
		})
	}
	p.Wait()

	return results
}
