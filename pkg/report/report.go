// Package report renders analysis snapshots into the fixed four-section
// metrics report, plus markdown, structured and HTML forms.
package report

import (
	"time"

	"github.com/corvidae/augur/pkg/metrics"
	"github.com/corvidae/augur/pkg/syntax"
	"github.com/corvidae/augur/pkg/thresholds"
)

// DefaultTitle heads reports that do not set their own.
const DefaultTitle = "CODE METRICS ANALYSIS"

// Snapshot is the fully evaluated result set a report is rendered from.
// Rendering the same snapshot twice produces identical bytes.
type Snapshot struct {
	Title       string            `json:"title" toon:"title"`
	GeneratedAt time.Time         `json:"generated_at" toon:"generated_at"`
	Units       []string          `json:"units" toon:"units"`
	Lines       syntax.LineCounts `json:"lines" toon:"lines"`
	Classes     []ClassReport     `json:"classes" toon:"classes"`
	Cycles      [][]string        `json:"cycles,omitempty" toon:"cycles,omitempty"`
	Duplicates  []DuplicateReport `json:"duplicates,omitempty" toon:"duplicates,omitempty"`
	Warnings    []string          `json:"warnings,omitempty" toon:"warnings,omitempty"`
	Limits      thresholds.Limits `json:"limits" toon:"limits"`
}

// ClassReport carries one class's evaluated metrics.
type ClassReport struct {
	Name        string            `json:"name" toon:"name"`
	Unit        string            `json:"unit" toon:"unit"`
	Line        int               `json:"line" toon:"line"`
	Metrics     metrics.Vector    `json:"metrics" toon:"metrics"`
	Flags       []thresholds.Flag `json:"flags,omitempty" toon:"flags,omitempty"`
	Methods     []MethodReport    `json:"methods" toon:"methods"`
	Inheritance []string          `json:"inheritance_cycle,omitempty" toon:"inheritance_cycle,omitempty"`
}

// MethodReport carries one method's complexity result.
type MethodReport struct {
	Qualified  string        `json:"qualified" toon:"qualified"`
	Line       int           `json:"line" toon:"line"`
	Complexity int           `json:"complexity" toon:"complexity"`
	Grade      metrics.Grade `json:"grade" toon:"grade"`
}

// DuplicateReport names methods sharing one structural shape.
type DuplicateReport struct {
	Fingerprint string   `json:"fingerprint" toon:"fingerprint"`
	Methods     []string `json:"methods" toon:"methods"`
}

// MethodCount returns the number of methods across all classes.
func (s *Snapshot) MethodCount() int {
	n := 0
	for _, c := range s.Classes {
		n += len(c.Methods)
	}
	return n
}

// FlaggedClasses returns the classes with at least one threshold flag, in
// registration order.
func (s *Snapshot) FlaggedClasses() []ClassReport {
	var flagged []ClassReport
	for _, c := range s.Classes {
		if len(c.Flags) > 0 {
			flagged = append(flagged, c)
		}
	}
	return flagged
}

// OverCeiling returns the methods whose complexity exceeds the ceiling, in
// declaration order.
func (s *Snapshot) OverCeiling() []MethodReport {
	var over []MethodReport
	for _, c := range s.Classes {
		for _, m := range c.Methods {
			if s.Limits.ComplexityExceeded(m.Complexity) {
				over = append(over, m)
			}
		}
	}
	return over
}

// HasProblems reports whether section four will name anything.
func (s *Snapshot) HasProblems() bool {
	if len(s.Cycles) > 0 || len(s.Duplicates) > 0 || len(s.Warnings) > 0 {
		return true
	}
	if len(s.OverCeiling()) > 0 || len(s.FlaggedClasses()) > 0 {
		return true
	}
	return len(s.InheritanceCycles()) > 0
}

// InheritanceCycles collects distinct inheritance cycles across classes.
// Two classes on the same cycle report the same participant set; only the
// first registration survives.
func (s *Snapshot) InheritanceCycles() [][]string {
	seen := make(map[string]bool)
	var cycles [][]string
	for _, c := range s.Classes {
		if len(c.Inheritance) == 0 {
			continue
		}
		key := cycleKey(c.Inheritance)
		if seen[key] {
			continue
		}
		seen[key] = true
		cycles = append(cycles, c.Inheritance)
	}
	return cycles
}
