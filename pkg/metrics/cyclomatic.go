package metrics

import "github.com/corvidae/augur/pkg/model"

// Cyclomatic returns a method's cyclomatic complexity: one base path plus
// one per decision point (conditionals including else-if forms, loops,
// exception clauses, short-circuit boolean operators). The front-end counts
// the decision points; a body with none scores 1.
func Cyclomatic(m *model.Method) int {
	return 1 + m.Branches()
}

// Grade is the qualitative letter band for a complexity value.
type Grade string

const (
	GradeA Grade = "A" // 1-5: simple
	GradeB Grade = "B" // 6-10: manageable
	GradeC Grade = "C" // 11-20: complex
	GradeD Grade = "D" // 21-30: alarming
	GradeE Grade = "E" // 31-40: unmaintainable
	GradeF Grade = "F" // 41+: unreadable
)

// GradeFor maps a complexity value to its letter band.
func GradeFor(cc int) Grade {
	switch {
	case cc <= 5:
		return GradeA
	case cc <= 10:
		return GradeB
	case cc <= 20:
		return GradeC
	case cc <= 30:
		return GradeD
	case cc <= 40:
		return GradeE
	default:
		return GradeF
	}
}

// String implements fmt.Stringer.
func (g Grade) String() string { return string(g) }
