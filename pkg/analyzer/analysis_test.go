package analyzer

import (
	"strings"
	"testing"
	"time"

	"github.com/corvidae/augur/pkg/metrics"
	"github.com/corvidae/augur/pkg/model"
	"github.com/corvidae/augur/pkg/report"
	"github.com/corvidae/augur/pkg/syntax"
	"github.com/corvidae/augur/pkg/thresholds"
)

func sampleAnalysis() *Analysis {
	return &Analysis{
		GeneratedAt: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		Limits:      thresholds.DefaultLimits(),
		Lines:       syntax.LineCounts{Total: 40, Logical: 24, Source: 30, Comment: 4},
		Units: []UnitResult{{
			Path:     "roster.py",
			Language: "python",
			Lines:    syntax.LineCounts{Total: 40, Logical: 24, Source: 30, Comment: 4},
			Classes: []ClassResult{{
				ClassMetrics: metrics.ClassMetrics{
					Class: "Registrar",
					Line:  3,
					Vector: metrics.Vector{
						CBO: 4, LCOM: 8, MethodCount: 9, AttributeCount: 3,
					},
					Methods: []metrics.MethodMetrics{{
						Name: "enroll", Qualified: "Registrar.enroll",
						Line: 4, Complexity: 17, Grade: metrics.GradeC,
					}},
					InheritanceCycle: []string{"Registrar", "Student"},
				},
				Unit: "roster.py",
				Flags: []thresholds.Flag{
					thresholds.FlagHighCoupling,
					thresholds.FlagLowCohesion,
					thresholds.FlagTooManyMethods,
				},
			}},
			Warnings: []model.Warning{{Class: "Registrar", Member: "audit", Message: "member skipped: line 30: missing body"}},
			Cycles:   [][]string{{"Registrar", "Student"}},
		}},
		Duplicates: []metrics.DuplicateGroup{{
			Fingerprint: 0xabc,
			Methods:     []string{"Registrar.enroll", "Student.register"},
		}},
	}
}

func TestSnapshotMapping(t *testing.T) {
	snap := sampleAnalysis().Snapshot("")

	if snap.Title != report.DefaultTitle {
		t.Errorf("expected default title, got %q", snap.Title)
	}
	if len(snap.Units) != 1 || snap.Units[0] != "roster.py" {
		t.Fatalf("unexpected units %v", snap.Units)
	}
	if snap.Lines.Total != 40 || snap.Lines.Comment != 4 {
		t.Errorf("unexpected line counts %+v", snap.Lines)
	}

	if len(snap.Classes) != 1 {
		t.Fatalf("expected 1 class, got %d", len(snap.Classes))
	}
	c := snap.Classes[0]
	if c.Name != "Registrar" || c.Unit != "roster.py" || c.Line != 3 {
		t.Errorf("unexpected class header %+v", c)
	}
	if c.Metrics.CBO != 4 || c.Metrics.LCOM != 8 {
		t.Errorf("unexpected metric vector %+v", c.Metrics)
	}
	if len(c.Flags) != 3 {
		t.Errorf("expected 3 flags, got %v", c.Flags)
	}
	if len(c.Methods) != 1 || c.Methods[0].Qualified != "Registrar.enroll" || c.Methods[0].Complexity != 17 {
		t.Errorf("unexpected methods %+v", c.Methods)
	}
	if len(c.Inheritance) != 2 {
		t.Errorf("inheritance cycle not carried over: %v", c.Inheritance)
	}

	if len(snap.Cycles) != 1 || snap.Cycles[0][0] != "Registrar" {
		t.Errorf("unexpected cycles %v", snap.Cycles)
	}
	if len(snap.Warnings) != 1 || snap.Warnings[0] != "roster.py: Registrar.audit: member skipped: line 30: missing body" {
		t.Errorf("unexpected warnings %v", snap.Warnings)
	}
	if len(snap.Duplicates) != 1 || snap.Duplicates[0].Fingerprint != "0000000000000abc" {
		t.Errorf("unexpected duplicates %v", snap.Duplicates)
	}
}

func TestSnapshotCustomTitle(t *testing.T) {
	snap := sampleAnalysis().Snapshot("ROSTER AUDIT")
	if snap.Title != "ROSTER AUDIT" {
		t.Errorf("expected custom title, got %q", snap.Title)
	}
}

func TestSnapshotRenderable(t *testing.T) {
	out := report.Text(sampleAnalysis().Snapshot(""))
	if out == "" {
		t.Fatal("expected rendered output")
	}
	if !strings.Contains(out, "Registrar.enroll") {
		t.Error("expected the method row in the rendered report")
	}
	if !strings.Contains(out, "HighCoupling, LowCohesion, TooManyMethods") {
		t.Error("expected the joined flags in the rendered report")
	}
}
