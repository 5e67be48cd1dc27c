package metrics

import (
	"github.com/cespare/xxhash/v2"

	"github.com/corvidae/augur/pkg/model"
)

// DefaultMinShapeEvents is the smallest body event count considered for
// structural duplicate detection. Tiny one-liner methods collapse to the
// same shape too easily to be worth reporting.
const DefaultMinShapeEvents = 6

// DuplicateGroup is a set of methods sharing one body shape.
type DuplicateGroup struct {
	Fingerprint uint64   `json:"fingerprint"`
	Methods     []string `json:"methods"`
}

// Duplicates groups methods across the registry by normalized body shape
// (identifier names blanked) and returns every group with two or more
// members. Groups appear in first-encounter order; methods within a group
// in registry order. minEvents filters out bodies too small to matter;
// values below one fall back to DefaultMinShapeEvents.
func Duplicates(r *model.Registry, minEvents int) []DuplicateGroup {
	return DuplicatesAll([]*model.Registry{r}, minEvents)
}

// DuplicatesAll groups method shapes across several registries, so
// structurally identical methods in different units still pair up.
// Registries contribute in slice order.
func DuplicatesAll(registries []*model.Registry, minEvents int) []DuplicateGroup {
	if minEvents < 1 {
		minEvents = DefaultMinShapeEvents
	}

	byShape := make(map[string][]string)
	var order []string
	for _, r := range registries {
		for _, c := range r.Classes() {
			for _, m := range c.Methods() {
				if m.EventCount() < minEvents {
					continue
				}
				shape := m.Shape()
				if _, seen := byShape[shape]; !seen {
					order = append(order, shape)
				}
				byShape[shape] = append(byShape[shape], m.QualifiedName())
			}
		}
	}

	var groups []DuplicateGroup
	for _, shape := range order {
		members := byShape[shape]
		if len(members) < 2 {
			continue
		}
		groups = append(groups, DuplicateGroup{
			Fingerprint: xxhash.Sum64String(shape),
			Methods:     members,
		})
	}
	return groups
}
