package analyzer

import (
	"fmt"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/corvidae/augur/pkg/metrics"
	"github.com/corvidae/augur/pkg/model"
	"github.com/corvidae/augur/pkg/report"
	"github.com/corvidae/augur/pkg/syntax"
	"github.com/corvidae/augur/pkg/thresholds"
)

// Analysis is the evaluated result of one batch run. Units appear in input
// order; failed units are absent (they surface on the returned error).
type Analysis struct {
	GeneratedAt time.Time                `json:"generated_at"`
	Limits      thresholds.Limits        `json:"limits"`
	Units       []UnitResult             `json:"units"`
	Lines       syntax.LineCounts        `json:"lines"`
	Duplicates  []metrics.DuplicateGroup `json:"duplicates,omitempty"`
	Summary     Summary                  `json:"summary"`
}

// UnitResult holds one unit's model and evaluated metrics.
type UnitResult struct {
	Path      string            `json:"path"`
	Language  string            `json:"language"`
	FromCache bool              `json:"from_cache,omitempty"`
	Lines     syntax.LineCounts `json:"lines"`
	Classes   []ClassResult     `json:"classes"`
	Warnings  []model.Warning   `json:"warnings,omitempty"`
	// Cycles lists circular coupling groups among this unit's classes.
	Cycles [][]string `json:"cycles,omitempty"`
}

// ClassResult pairs computed metrics with the flags they trigger.
type ClassResult struct {
	metrics.ClassMetrics
	Unit  string            `json:"unit"`
	Flags []thresholds.Flag `json:"flags,omitempty"`
}

// Summary aggregates the batch: counts plus the complexity distribution.
type Summary struct {
	Units   int `json:"units"`
	Classes int `json:"classes"`
	Methods int `json:"methods"`
	Flagged int `json:"flagged"`

	MeanComplexity   float64 `json:"mean_complexity"`
	StdDevComplexity float64 `json:"stddev_complexity"`
	P90Complexity    float64 `json:"p90_complexity"`
	MaxComplexity    int     `json:"max_complexity"`
}

// summarize computes the batch summary from the evaluated units.
func summarize(units []UnitResult) Summary {
	s := Summary{Units: len(units)}

	var ccs []float64
	for _, u := range units {
		s.Classes += len(u.Classes)
		for _, c := range u.Classes {
			if len(c.Flags) > 0 {
				s.Flagged++
			}
			for _, m := range c.Methods {
				s.Methods++
				ccs = append(ccs, float64(m.Complexity))
				if m.Complexity > s.MaxComplexity {
					s.MaxComplexity = m.Complexity
				}
			}
		}
	}

	if len(ccs) == 0 {
		return s
	}
	s.MeanComplexity = stat.Mean(ccs, nil)
	if len(ccs) > 1 {
		s.StdDevComplexity = stat.StdDev(ccs, nil)
	}
	sort.Float64s(ccs)
	s.P90Complexity = stat.Quantile(0.9, stat.Empirical, ccs, nil)
	return s
}

// Snapshot converts the analysis into the report package's input form.
// An empty title falls back to the report default.
func (a *Analysis) Snapshot(title string) *report.Snapshot {
	if title == "" {
		title = report.DefaultTitle
	}

	snap := &report.Snapshot{
		Title:       title,
		GeneratedAt: a.GeneratedAt,
		Lines:       a.Lines,
		Limits:      a.Limits,
	}

	for _, u := range a.Units {
		snap.Units = append(snap.Units, u.Path)
		for _, c := range u.Classes {
			cr := report.ClassReport{
				Name:        c.Class,
				Unit:        c.Unit,
				Line:        c.Line,
				Metrics:     c.Vector,
				Flags:       c.Flags,
				Inheritance: c.InheritanceCycle,
			}
			for _, m := range c.Methods {
				cr.Methods = append(cr.Methods, report.MethodReport{
					Qualified:  m.Qualified,
					Line:       m.Line,
					Complexity: m.Complexity,
					Grade:      m.Grade,
				})
			}
			snap.Classes = append(snap.Classes, cr)
		}
		snap.Cycles = append(snap.Cycles, u.Cycles...)
		for _, w := range u.Warnings {
			snap.Warnings = append(snap.Warnings, u.Path+": "+w.String())
		}
	}

	for _, g := range a.Duplicates {
		snap.Duplicates = append(snap.Duplicates, report.DuplicateReport{
			Fingerprint: fmt.Sprintf("%016x", g.Fingerprint),
			Methods:     g.Methods,
		})
	}

	return snap
}
