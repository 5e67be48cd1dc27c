package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/corvidae/augur/internal/output"
	"github.com/corvidae/augur/pkg/thresholds"
)

// Ensure Snapshot implements output.Renderable.
var _ output.Renderable = (*Snapshot)(nil)

const ruleWidth = 80

// Text renders the four-section metrics report. The layout is fixed:
// complexity table, line counters, per-class metrics table, problem areas.
// Output depends only on the snapshot contents.
func Text(s *Snapshot) string {
	var b strings.Builder

	title := s.Title
	if title == "" {
		title = DefaultTitle
	}

	rule := strings.Repeat("=", ruleWidth)
	line := strings.Repeat("-", ruleWidth)

	b.WriteString(rule + "\n")
	b.WriteString(title + "\n")
	b.WriteString(rule + "\n\n")

	writeComplexitySection(&b, s, line)
	writeLineSection(&b, s, line)
	writeClassSection(&b, s, line)
	writeProblemSection(&b, s, line)

	return b.String()
}

func writeComplexitySection(b *strings.Builder, s *Snapshot, line string) {
	b.WriteString("1. CYCLOMATIC COMPLEXITY (CC)\n")
	b.WriteString(line + "\n")
	fmt.Fprintf(b, "%-45s| %-4s| %-6s| %s\n", "Method/Function", "CC", "Grade", "Issues")
	b.WriteString(line + "\n")

	for _, c := range s.Classes {
		for _, m := range c.Methods {
			issue := "OK"
			if s.Limits.ComplexityExceeded(m.Complexity) {
				issue = "HIGH - Needs refactoring"
			}
			fmt.Fprintf(b, "%-45s| %-4d| %-6s| %s\n", m.Qualified, m.Complexity, m.Grade, issue)
		}
	}
	b.WriteString("\n")
}

func writeLineSection(b *strings.Builder, s *Snapshot, line string) {
	b.WriteString("2. LINES OF CODE (LOC)\n")
	b.WriteString(line + "\n")

	pct := 0
	if s.Lines.Total > 0 {
		pct = s.Lines.Comment * 100 / s.Lines.Total
	}
	fmt.Fprintf(b, "%-26s%d\n", "Total LOC:", s.Lines.Total)
	fmt.Fprintf(b, "%-26s%d\n", "Logical LOC (LLOC):", s.Lines.Logical)
	fmt.Fprintf(b, "%-26s%d\n", "Source LOC (SLOC):", s.Lines.Source)
	fmt.Fprintf(b, "%-26s%d (%d%%)\n", "Comments:", s.Lines.Comment, pct)
	b.WriteString("\n")
}

func writeClassSection(b *strings.Builder, s *Snapshot, line string) {
	b.WriteString("3. OBJECT-ORIENTED METRICS\n")
	b.WriteString(line + "\n")
	fmt.Fprintf(b, "%-10s | %3s | %3s | %4s | %7s | %10s | %s\n",
		"Class", "DIT", "CBO", "LCOM", "Methods", "Attributes", "Issues")
	b.WriteString(line + "\n")

	for _, c := range s.Classes {
		v := c.Metrics
		fmt.Fprintf(b, "%-10s | %3d | %3d | %4d | %7d | %10d | %s\n",
			c.Name, v.DIT, v.CBO, v.LCOM, v.MethodCount, v.AttributeCount,
			thresholds.Join(c.Flags))
	}
	b.WriteString("\n")
}

func writeProblemSection(b *strings.Builder, s *Snapshot, line string) {
	b.WriteString("4. PROBLEM AREAS IDENTIFIED\n")
	b.WriteString(line + "\n")

	wrote := false
	mark := func() { wrote = true }

	for _, m := range s.OverCeiling() {
		fmt.Fprintf(b, "✗ %s: CC=%d (should be < %d)\n",
			m.Qualified, m.Complexity, s.Limits.ComplexityCeiling)
		mark()
	}

	for _, c := range s.FlaggedClasses() {
		fmt.Fprintf(b, "✗ %s: %s\n", c.Name, thresholds.Join(c.Flags))
		for _, f := range c.Flags {
			b.WriteString(flagDetail(c, f, s.Limits))
		}
		mark()
	}

	for _, cyc := range s.InheritanceCycles() {
		fmt.Fprintf(b, "✗ Inheritance cycle: %s\n", cyclePath(cyc))
		mark()
	}

	for _, cyc := range s.Cycles {
		fmt.Fprintf(b, "✗ Circular coupling: %s\n", strings.Join(cyc, ", "))
		mark()
	}

	for _, d := range s.Duplicates {
		fmt.Fprintf(b, "✗ Structural duplication: %s\n", strings.Join(d.Methods, ", "))
		mark()
	}

	for _, w := range s.Warnings {
		fmt.Fprintf(b, "✗ Warning: %s\n", w)
		mark()
	}

	if !wrote {
		b.WriteString("✓ No problem areas detected.\n")
	}
}

// flagDetail returns the indented explanation line for one flag.
func flagDetail(c ClassReport, f thresholds.Flag, l thresholds.Limits) string {
	switch f {
	case thresholds.FlagHighCoupling:
		return fmt.Sprintf("  - references %d other classes (limit %d)\n",
			c.Metrics.CBO, l.CBOHighCoupling)
	case thresholds.FlagLowCohesion:
		return fmt.Sprintf("  - LCOM %d exceeds limit %d\n",
			c.Metrics.LCOM, l.LCOMLowCohesion)
	case thresholds.FlagTooManyMethods:
		return fmt.Sprintf("  - %d methods declared (limit %d)\n",
			c.Metrics.MethodCount, l.MaxMethodCount)
	}
	return ""
}

// cyclePath renders cycle participants as a walk returning to its start.
func cyclePath(participants []string) string {
	if len(participants) == 0 {
		return ""
	}
	return strings.Join(participants, " -> ") + " -> " + participants[0]
}

// cycleKey canonicalizes a participant list for deduplication.
func cycleKey(participants []string) string {
	sorted := make([]string, len(participants))
	copy(sorted, participants)
	sort.Strings(sorted)
	return strings.Join(sorted, "\x00")
}

// RenderText writes the fixed text report. Color, when enabled, is applied
// to the problem markers only so the aligned tables stay byte-stable.
func (s *Snapshot) RenderText(w io.Writer, colored bool) error {
	text := Text(s)
	if colored {
		text = strings.ReplaceAll(text, "✗", color.RedString("✗"))
		text = strings.ReplaceAll(text, "✓", color.GreenString("✓"))
	}
	_, err := io.WriteString(w, text)
	return err
}

// RenderMarkdown writes the report as markdown tables and lists.
func (s *Snapshot) RenderMarkdown(w io.Writer) error {
	title := s.Title
	if title == "" {
		title = DefaultTitle
	}
	fmt.Fprintf(w, "# %s\n\n", title)

	ccRows := make([][]string, 0, s.MethodCount())
	for _, c := range s.Classes {
		for _, m := range c.Methods {
			issue := "OK"
			if s.Limits.ComplexityExceeded(m.Complexity) {
				issue = "HIGH - Needs refactoring"
			}
			ccRows = append(ccRows, []string{
				m.Qualified, fmt.Sprintf("%d", m.Complexity), string(m.Grade), issue,
			})
		}
	}
	cc := output.NewTable("Cyclomatic Complexity",
		[]string{"Method", "CC", "Grade", "Issues"}, ccRows, nil, nil)
	if err := cc.RenderMarkdown(w); err != nil {
		return err
	}

	pct := 0
	if s.Lines.Total > 0 {
		pct = s.Lines.Comment * 100 / s.Lines.Total
	}
	loc := output.NewTable("Lines of Code",
		[]string{"Counter", "Value"},
		[][]string{
			{"Total LOC", fmt.Sprintf("%d", s.Lines.Total)},
			{"Logical LOC (LLOC)", fmt.Sprintf("%d", s.Lines.Logical)},
			{"Source LOC (SLOC)", fmt.Sprintf("%d", s.Lines.Source)},
			{"Comments", fmt.Sprintf("%d (%d%%)", s.Lines.Comment, pct)},
		}, nil, nil)
	if err := loc.RenderMarkdown(w); err != nil {
		return err
	}

	ooRows := make([][]string, 0, len(s.Classes))
	for _, c := range s.Classes {
		v := c.Metrics
		ooRows = append(ooRows, []string{
			c.Name,
			fmt.Sprintf("%d", v.DIT),
			fmt.Sprintf("%d", v.CBO),
			fmt.Sprintf("%d", v.LCOM),
			fmt.Sprintf("%d", v.MethodCount),
			fmt.Sprintf("%d", v.AttributeCount),
			thresholds.Join(c.Flags),
		})
	}
	oo := output.NewTable("Object-Oriented Metrics",
		[]string{"Class", "DIT", "CBO", "LCOM", "Methods", "Attributes", "Issues"},
		ooRows, nil, nil)
	if err := oo.RenderMarkdown(w); err != nil {
		return err
	}

	fmt.Fprintf(w, "## Problem Areas\n\n")
	if !s.HasProblems() {
		fmt.Fprintln(w, "No problem areas detected.")
		return nil
	}
	for _, m := range s.OverCeiling() {
		fmt.Fprintf(w, "- **%s**: CC=%d (should be < %d)\n",
			m.Qualified, m.Complexity, s.Limits.ComplexityCeiling)
	}
	for _, c := range s.FlaggedClasses() {
		fmt.Fprintf(w, "- **%s**: %s\n", c.Name, thresholds.Join(c.Flags))
	}
	for _, cyc := range s.InheritanceCycles() {
		fmt.Fprintf(w, "- Inheritance cycle: %s\n", cyclePath(cyc))
	}
	for _, cyc := range s.Cycles {
		fmt.Fprintf(w, "- Circular coupling: %s\n", strings.Join(cyc, ", "))
	}
	for _, d := range s.Duplicates {
		fmt.Fprintf(w, "- Structural duplication: %s\n", strings.Join(d.Methods, ", "))
	}
	for _, warning := range s.Warnings {
		fmt.Fprintf(w, "- Warning: %s\n", warning)
	}
	return nil
}

// RenderData exposes the snapshot for JSON and TOON serialization.
func (s *Snapshot) RenderData() any {
	return s
}
