package analyzer

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/corvidae/augur/internal/cache"
	"github.com/corvidae/augur/internal/testutil"
	"github.com/corvidae/augur/pkg/metrics"
	"github.com/corvidae/augur/pkg/thresholds"
)

const rosterSource = `class Person:
    def __init__(self, name):
        self.name = name

    def describe(self):
        return self.name


class Student(Person):
    def __init__(self, name):
        super().__init__(name)
        self.courses = []

    def register(self, course):
        if course and course.is_open:
            self.courses.append(course)

    def drop_all(self):
        for course in self.courses:
            self.courses.remove(course)
`

func writeRoster(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	testutil.WriteTree(t, dir, map[string]string{"roster.py": rosterSource})
	return filepath.Join(dir, "roster.py")
}

func TestAnalyzeComputesMetrics(t *testing.T) {
	path := writeRoster(t)

	a := New()
	defer a.Close()

	analysis, err := a.Analyze(context.Background(), []string{path})
	if err != nil {
		t.Fatalf("Analyze error: %v", err)
	}

	if len(analysis.Units) != 1 {
		t.Fatalf("expected 1 unit, got %d", len(analysis.Units))
	}
	u := analysis.Units[0]
	if u.Language != "python" {
		t.Errorf("expected python unit, got %q", u.Language)
	}
	if u.FromCache {
		t.Error("first run must not hit the cache")
	}
	if len(u.Classes) != 2 {
		t.Fatalf("expected 2 classes, got %d", len(u.Classes))
	}

	person, student := u.Classes[0], u.Classes[1]
	if person.Class != "Person" || student.Class != "Student" {
		t.Fatalf("unexpected class order: %s, %s", person.Class, student.Class)
	}
	if person.Vector.DIT != 0 {
		t.Errorf("Person DIT: expected 0, got %d", person.Vector.DIT)
	}
	if student.Vector.DIT != 1 {
		t.Errorf("Student DIT: expected 1, got %d", student.Vector.DIT)
	}
	if len(person.Flags) != 0 || len(student.Flags) != 0 {
		t.Errorf("no flags expected, got %v / %v", person.Flags, student.Flags)
	}

	if analysis.Lines.Total == 0 {
		t.Error("expected aggregated line counts")
	}
	if analysis.Lines != u.Lines {
		t.Errorf("single-unit totals should equal the unit's counters")
	}
	if analysis.Summary.Units != 1 || analysis.Summary.Classes != 2 || analysis.Summary.Methods != 5 {
		t.Errorf("unexpected summary %+v", analysis.Summary)
	}
}

func TestAnalyzeFlagsThresholds(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteTree(t, dir, map[string]string{"wide.py": `class Registrar:
    def a(self): pass
    def b(self): pass
    def c(self): pass
    def d(self): pass
    def e(self): pass
    def f(self): pass
    def g(self): pass
    def h(self): pass
`})

	a := New()
	defer a.Close()

	analysis, err := a.Analyze(context.Background(), []string{filepath.Join(dir, "wide.py")})
	if err != nil {
		t.Fatalf("Analyze error: %v", err)
	}

	c := analysis.Units[0].Classes[0]
	if c.Vector.MethodCount != 8 {
		t.Fatalf("expected 8 methods, got %d", c.Vector.MethodCount)
	}
	if len(c.Flags) != 1 || c.Flags[0] != thresholds.FlagTooManyMethods {
		t.Errorf("expected TooManyMethods, got %v", c.Flags)
	}
	if analysis.Summary.Flagged != 1 {
		t.Errorf("expected 1 flagged class, got %d", analysis.Summary.Flagged)
	}
}

func TestAnalyzeBatchIsolation(t *testing.T) {
	path := writeRoster(t)
	missing := filepath.Join(t.TempDir(), "missing.py")

	a := New()
	defer a.Close()

	analysis, err := a.Analyze(context.Background(), []string{path, missing})
	if err == nil {
		t.Fatal("expected a batch error")
	}
	if !errors.Is(err, ErrUnreadableInput) {
		t.Errorf("expected ErrUnreadableInput, got %v", err)
	}
	if errors.Is(err, ErrMalformedUnit) {
		t.Error("unreadable input must not classify as malformed")
	}

	if analysis == nil {
		t.Fatal("partial analysis expected alongside the error")
	}
	if len(analysis.Units) != 1 || analysis.Units[0].Path != path {
		t.Errorf("expected the surviving unit only, got %+v", analysis.Units)
	}
}

func TestAnalyzeMalformedUnit(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteTree(t, dir, map[string]string{"notes.txt": "not source code\n"})
	path := filepath.Join(dir, "notes.txt")

	a := New()
	defer a.Close()

	_, err := a.Analyze(context.Background(), []string{path})
	if !errors.Is(err, ErrMalformedUnit) {
		t.Fatalf("expected ErrMalformedUnit, got %v", err)
	}

	var unitErr *UnitError
	if !errors.As(err, &unitErr) {
		t.Fatal("expected a UnitError in the chain")
	}
	if unitErr.Path != path {
		t.Errorf("expected path %s, got %s", path, unitErr.Path)
	}
}

func TestAnalyzeMaxFileSize(t *testing.T) {
	path := writeRoster(t)

	a := New(WithMaxFileSize(16))
	defer a.Close()

	_, err := a.Analyze(context.Background(), []string{path})
	if !errors.Is(err, ErrMalformedUnit) {
		t.Fatalf("expected oversized unit to classify as malformed, got %v", err)
	}
}

func TestAnalyzeCanceledContext(t *testing.T) {
	path := writeRoster(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := New()
	defer a.Close()

	analysis, err := a.Analyze(ctx, []string{path})
	if analysis != nil {
		t.Error("no analysis expected after cancellation")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestAnalyzeUsesCache(t *testing.T) {
	path := writeRoster(t)

	c, err := cache.New(t.TempDir(), 24, true)
	if err != nil {
		t.Fatalf("cache.New error: %v", err)
	}

	run := func() *Analysis {
		a := New(WithCache(c))
		defer a.Close()
		analysis, err := a.Analyze(context.Background(), []string{path})
		if err != nil {
			t.Fatalf("Analyze error: %v", err)
		}
		return analysis
	}

	first := run()
	if first.Units[0].FromCache {
		t.Error("first run must parse")
	}

	second := run()
	if !second.Units[0].FromCache {
		t.Error("second run should hit the cache")
	}
	if len(second.Units[0].Classes) != len(first.Units[0].Classes) {
		t.Error("cached run must produce the same classes")
	}
}

func TestAnalyzeProgressCallback(t *testing.T) {
	path := writeRoster(t)

	ticks := 0
	a := New(WithProgress(func() { ticks++ }))
	defer a.Close()

	if _, err := a.Analyze(context.Background(), []string{path}); err != nil {
		t.Fatalf("Analyze error: %v", err)
	}
	if ticks != 1 {
		t.Errorf("expected 1 progress tick, got %d", ticks)
	}
}

func TestSummarizeDistribution(t *testing.T) {
	method := func(cc int) metrics.MethodMetrics {
		return metrics.MethodMetrics{Complexity: cc}
	}
	units := []UnitResult{{
		Path: "a.py",
		Classes: []ClassResult{{
			ClassMetrics: metrics.ClassMetrics{
				Methods: []metrics.MethodMetrics{method(1), method(2), method(3)},
			},
			Flags: []thresholds.Flag{thresholds.FlagHighCoupling},
		}},
	}, {
		Path: "b.py",
		Classes: []ClassResult{{
			ClassMetrics: metrics.ClassMetrics{
				Methods: []metrics.MethodMetrics{method(4), method(10)},
			},
		}},
	}}

	s := summarize(units)

	if s.Units != 2 || s.Classes != 2 || s.Methods != 5 || s.Flagged != 1 {
		t.Fatalf("unexpected counts %+v", s)
	}
	if s.MaxComplexity != 10 {
		t.Errorf("expected max 10, got %d", s.MaxComplexity)
	}
	if math.Abs(s.MeanComplexity-4.0) > 1e-9 {
		t.Errorf("expected mean 4.0, got %v", s.MeanComplexity)
	}
	if math.Abs(s.StdDevComplexity-math.Sqrt(12.5)) > 1e-9 {
		t.Errorf("expected stddev sqrt(12.5), got %v", s.StdDevComplexity)
	}
	if s.P90Complexity != 10 {
		t.Errorf("expected p90 10, got %v", s.P90Complexity)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := summarize(nil)
	if s.MeanComplexity != 0 || s.StdDevComplexity != 0 || s.P90Complexity != 0 {
		t.Errorf("empty batch should produce zeroed stats, got %+v", s)
	}
}

func TestUnitErrorUnwrap(t *testing.T) {
	cause := errors.New("permission denied")
	err := &UnitError{Path: "secret.py", Kind: ErrUnreadableInput, Err: cause}

	if !errors.Is(err, ErrUnreadableInput) {
		t.Error("expected the kind sentinel to match")
	}
	if !errors.Is(err, cause) {
		t.Error("expected the cause to match")
	}
	if errors.Is(err, ErrMalformedUnit) {
		t.Error("wrong sentinel must not match")
	}
}
