package model

import (
	"fmt"
	"strings"

	"github.com/corvidae/augur/pkg/syntax"
)

// Build constructs the class registry for one analysis unit.
//
// The first pass registers every class declaration and gathers each method's
// attribute accesses, raw identifier references and branch counts. The
// second pass, once the complete class-name set is known, resolves raw
// identifiers into coupling edges, so forward references resolve the same as
// backward ones. Malformed members become warnings, never failures.
func Build(unit *syntax.Unit) *Registry {
	r := &Registry{
		unit:   unit.Path,
		byName: make(map[string]*Class),
	}

	for i := range unit.Classes {
		r.register(&unit.Classes[i])
	}
	r.resolve()
	return r
}

// BuildAll constructs one registry per unit, preserving input order.
// Units stay independent: names resolve within their own unit only.
func BuildAll(units []*syntax.Unit) []*Registry {
	registries := make([]*Registry, len(units))
	for i, unit := range units {
		registries[i] = Build(unit)
	}
	return registries
}

func (r *Registry) register(decl *syntax.ClassDecl) {
	if decl.Name == "" {
		r.warn("", "", fmt.Sprintf("line %d: class declaration without a name skipped", decl.Line))
		return
	}

	c := &Class{
		name:       decl.Name,
		unit:       r.unit,
		line:       decl.Line,
		bases:      append([]string(nil), decl.Bases...),
		attributes: make(map[string]struct{}),
		coupled:    make(map[string]struct{}),
	}
	if len(decl.Bases) > 0 {
		c.parent = decl.Bases[0]
	}

	for i := range decl.Methods {
		m := buildMethod(decl.Name, &decl.Methods[i])
		c.methods = append(c.methods, m)
		for name := range m.attributes {
			c.attributes[name] = struct{}{}
		}
	}

	for _, e := range decl.Errors {
		msg := e.Reason
		if e.Line > 0 {
			msg = fmt.Sprintf("line %d: %s", e.Line, e.Reason)
		}
		r.warn(decl.Name, e.Name, "member skipped: "+msg)
	}

	// A redeclared name replaces the earlier entity but keeps its
	// registration position, matching visit-order semantics.
	if prev, ok := r.byName[decl.Name]; ok {
		for i, existing := range r.classes {
			if existing == prev {
				r.classes[i] = c
				break
			}
		}
		r.byName[decl.Name] = c
		return
	}

	r.classes = append(r.classes, c)
	r.byName[decl.Name] = c
}

func buildMethod(class string, decl *syntax.MethodDecl) *Method {
	m := &Method{
		class:      class,
		name:       decl.Name,
		line:       decl.Line,
		attributes: make(map[string]struct{}),
		events:     len(decl.Body),
	}

	var shape strings.Builder
	for _, node := range decl.Body {
		if shape.Len() > 0 {
			shape.WriteByte(';')
		}
		switch n := node.(type) {
		case syntax.AttributeAccess:
			m.attributes[n.Name] = struct{}{}
			shape.WriteByte('a')
		case syntax.IdentifierRef:
			m.idents = append(m.idents, n.Name)
			shape.WriteByte('i')
		case syntax.Decision:
			m.branches++
			shape.WriteString("d:")
			shape.WriteString(string(n.Kind))
		}
	}
	m.shape = shape.String()
	return m
}

// resolve turns raw identifier references into coupling edges. Only names
// present in the registry count, and a class never couples to itself.
func (r *Registry) resolve() {
	for _, c := range r.classes {
		for _, m := range c.methods {
			for _, name := range m.idents {
				if name == c.name {
					continue
				}
				if _, known := r.byName[name]; known {
					c.coupled[name] = struct{}{}
				}
			}
		}
	}
}

func (r *Registry) warn(class, member, message string) {
	r.warnings = append(r.warnings, Warning{Class: class, Member: member, Message: message})
}
