// Package model builds the class registry the metrics engine reads.
//
// A registry is populated in two passes over one analysis unit (declared
// class names first, then identifier resolution against the full name set)
// and is immutable once Build returns. Metric computation treats it as a
// frozen snapshot, so per-class work can run in parallel without locks.
package model

import (
	"sort"
	"strings"
)

// Registry is the set of classes discovered in one analysis unit, in
// first-registration order.
type Registry struct {
	unit     string
	classes  []*Class
	byName   map[string]*Class
	warnings []Warning
}

// Unit returns the path of the analysis unit this registry was built from.
func (r *Registry) Unit() string { return r.unit }

// Len returns the number of registered classes.
func (r *Registry) Len() int { return len(r.classes) }

// Classes returns the registered classes in first-registration order.
func (r *Registry) Classes() []*Class {
	out := make([]*Class, len(r.classes))
	copy(out, r.classes)
	return out
}

// Class looks up a class by name.
func (r *Registry) Class(name string) (*Class, bool) {
	c, ok := r.byName[name]
	return c, ok
}

// Contains reports whether name is a registered class name.
func (r *Registry) Contains(name string) bool {
	_, ok := r.byName[name]
	return ok
}

// Names returns the class names in first-registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.classes))
	for i, c := range r.classes {
		out[i] = c.name
	}
	return out
}

// Warnings returns the warnings recorded while building, in the order they
// were encountered.
func (r *Registry) Warnings() []Warning {
	out := make([]Warning, len(r.warnings))
	copy(out, r.warnings)
	return out
}

// Class is one registered class entity. All state is fixed when the build
// pass completes.
type Class struct {
	name    string
	unit    string
	line    int
	parent  string
	bases   []string
	methods []*Method

	attributes map[string]struct{}
	coupled    map[string]struct{}
}

// Name returns the class name.
func (c *Class) Name() string { return c.name }

// Unit returns the path of the declaring analysis unit.
func (c *Class) Unit() string { return c.unit }

// Line returns the declaration line.
func (c *Class) Line() int { return c.line }

// Parent returns the first declared base-class name, or "" when the class
// declares none. Bases beyond the first are recorded but never treated as
// the parent.
func (c *Class) Parent() string { return c.parent }

// Bases returns every declared base in declaration order.
func (c *Class) Bases() []string {
	out := make([]string, len(c.bases))
	copy(out, c.bases)
	return out
}

// Methods returns the declared methods in declaration order. Duplicate names
// are possible and each declaration is kept.
func (c *Class) Methods() []*Method {
	out := make([]*Method, len(c.methods))
	copy(out, c.methods)
	return out
}

// MethodCount returns the number of declared methods.
func (c *Class) MethodCount() int { return len(c.methods) }

// Attributes returns the distinct attribute names accessed anywhere in the
// class's methods, sorted for stable output.
func (c *Class) Attributes() []string {
	return sortedKeys(c.attributes)
}

// AttributeCount returns the number of distinct attributes accessed.
func (c *Class) AttributeCount() int { return len(c.attributes) }

// Coupled returns the distinct registered class names referenced from this
// class's method bodies, self excluded, sorted for stable output. Empty
// until the resolution pass has run.
func (c *Class) Coupled() []string {
	return sortedKeys(c.coupled)
}

// CouplingCount returns the number of distinct coupled class names.
func (c *Class) CouplingCount() int { return len(c.coupled) }

// Method is one declared method. Identity is (class, name); a class may
// declare the same name twice and both entities survive.
type Method struct {
	class string
	name  string
	line  int

	attributes map[string]struct{}
	idents     []string
	branches   int
	events     int
	shape      string
}

// Class returns the owning class name.
func (m *Method) Class() string { return m.class }

// Name returns the method name.
func (m *Method) Name() string { return m.name }

// QualifiedName returns "Class.method".
func (m *Method) QualifiedName() string { return m.class + "." + m.name }

// Line returns the declaration line.
func (m *Method) Line() int { return m.line }

// Attributes returns the distinct attribute names this method reads or
// writes through the owning instance, sorted.
func (m *Method) Attributes() []string {
	return sortedKeys(m.attributes)
}

// Touches reports whether the method accesses the named attribute.
func (m *Method) Touches(name string) bool {
	_, ok := m.attributes[name]
	return ok
}

// SharesAttribute reports whether the two methods access at least one common
// attribute.
func (m *Method) SharesAttribute(o *Method) bool {
	small, large := m.attributes, o.attributes
	if len(large) < len(small) {
		small, large = large, small
	}
	for name := range small {
		if _, ok := large[name]; ok {
			return true
		}
	}
	return false
}

// Branches returns the number of decision points counted in the body.
func (m *Method) Branches() int { return m.branches }

// EventCount returns the number of body events the front-end surfaced.
func (m *Method) EventCount() int { return m.events }

// Shape returns a normalized rendering of the body event stream with
// identifier names blanked, used for structural duplicate detection.
func (m *Method) Shape() string { return m.shape }

// Warning is a non-fatal condition recorded during building or metric
// computation. Warnings surface in the report's problem areas, never as
// errors.
type Warning struct {
	Class   string `json:"class,omitempty"`
	Member  string `json:"member,omitempty"`
	Message string `json:"message"`
}

// String renders the warning as "Class.Member: message".
func (w Warning) String() string {
	var b strings.Builder
	if w.Class != "" {
		b.WriteString(w.Class)
		if w.Member != "" {
			b.WriteString(".")
			b.WriteString(w.Member)
		}
		b.WriteString(": ")
	}
	b.WriteString(w.Message)
	return b.String()
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
