package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input string
		want  Format
	}{
		{"text", FormatText},
		{"TEXT", FormatText},
		{"json", FormatJSON},
		{"JSON", FormatJSON},
		{"markdown", FormatMarkdown},
		{"md", FormatMarkdown},
		{"toon", FormatTOON},
		{"TOON", FormatTOON},
		{"", FormatText},
		{"invalid", FormatText},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParseFormat(tt.input)
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewFormatter(t *testing.T) {
	f, err := NewFormatter(FormatText, "", true)
	if err != nil {
		t.Fatalf("NewFormatter() error: %v", err)
	}
	defer f.Close()

	if f.Format() != FormatText {
		t.Errorf("Format() = %q, want %q", f.Format(), FormatText)
	}
	if !f.Colored() {
		t.Error("Colored() = false, want true")
	}
	if f.file != nil {
		t.Error("file should be nil for stdout")
	}
	if f.Writer() == nil {
		t.Error("Writer() should not be nil")
	}
}

func TestNewFormatterWithFile(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "metrics.txt")

	f, err := NewFormatter(FormatJSON, outputPath, true)
	if err != nil {
		t.Fatalf("NewFormatter() error: %v", err)
	}

	if f.file == nil {
		t.Error("file should not be nil for file output")
	}
	if f.Colored() {
		t.Error("colored should be false when writing to file")
	}

	if err := f.Close(); err != nil {
		t.Errorf("Close() error: %v", err)
	}
	if _, err := os.Stat(outputPath); os.IsNotExist(err) {
		t.Error("output file should exist")
	}
}

func TestNewFormatterInvalidPath(t *testing.T) {
	_, err := NewFormatter(FormatText, "/nonexistent/directory/metrics.txt", false)
	if err == nil {
		t.Error("NewFormatter() should error for invalid path")
	}
}

func TestTableRenderText(t *testing.T) {
	tests := []struct {
		name    string
		table   *Table
		colored bool
		want    []string
	}{
		{
			name: "metrics_table",
			table: NewTable(
				"Class Metrics",
				[]string{"Class", "DIT", "CBO"},
				[][]string{
					{"Person", "0", "0"},
					{"Student", "1", "1"},
				},
				nil,
				nil,
			),
			colored: false,
			want:    []string{"Class Metrics", "CLASS", "DIT", "CBO", "Person", "Student", "1"},
		},
		{
			name: "table_with_footer",
			table: NewTable(
				"Summary",
				[]string{"Metric", "Value"},
				[][]string{
					{"Classes", "6"},
					{"Methods", "28"},
				},
				[]string{"Average CC", "1.7"},
				nil,
			),
			colored: false,
			want:    []string{"Summary", "METRIC", "VALUE", "Classes", "28", "1.7"},
		},
		{
			name: "no_title",
			table: NewTable(
				"",
				[]string{"Method", "CC"},
				[][]string{{"Student.add_grade", "2"}},
				nil,
				nil,
			),
			colored: false,
			want:    []string{"Student.add_grade", "2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := tt.table.RenderText(&buf, tt.colored); err != nil {
				t.Fatalf("RenderText() error: %v", err)
			}

			got := buf.String()
			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("RenderText() missing %q in output:\n%s", want, got)
				}
			}
		})
	}
}

func TestTableRenderMarkdown(t *testing.T) {
	table := NewTable(
		"Coupling",
		[]string{"Class", "Refs"},
		[][]string{{"Registrar", "3"}},
		[]string{"Total", "3"},
		nil,
	)

	var buf bytes.Buffer
	if err := table.RenderMarkdown(&buf); err != nil {
		t.Fatalf("RenderMarkdown() error: %v", err)
	}

	got := buf.String()
	for _, want := range []string{
		"## Coupling",
		"| Class | Refs |",
		"| --- | --- |",
		"| Registrar | 3 |",
		"| Total | 3 |",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("RenderMarkdown() missing %q in output:\n%s", want, got)
		}
	}
}

func TestTableRenderData(t *testing.T) {
	t.Run("wraps_rows_when_no_data", func(t *testing.T) {
		table := NewTable("", []string{"Class", "LCOM"}, [][]string{{"Student", "1"}}, nil, nil)

		rows, ok := table.RenderData().([]map[string]string)
		if !ok {
			t.Fatalf("RenderData() type = %T, want []map[string]string", table.RenderData())
		}
		if len(rows) != 1 || rows[0]["Class"] != "Student" || rows[0]["LCOM"] != "1" {
			t.Errorf("RenderData() = %v", rows)
		}
	})

	t.Run("prefers_structured_data", func(t *testing.T) {
		data := map[string]int{"classes": 6}
		table := NewTable("", []string{"A"}, nil, nil, data)

		got, ok := table.RenderData().(map[string]int)
		if !ok || got["classes"] != 6 {
			t.Errorf("RenderData() = %v, want %v", table.RenderData(), data)
		}
	})
}

func TestSectionRenderText(t *testing.T) {
	section := &Section{
		Title:   "Problem Areas",
		Content: "Registrar: HighCoupling",
		Sections: []Section{
			{Title: "Details", Content: "CBO 4 exceeds 3"},
		},
	}

	var buf bytes.Buffer
	if err := section.RenderText(&buf, false); err != nil {
		t.Fatalf("RenderText() error: %v", err)
	}

	got := buf.String()
	for _, want := range []string{
		"Problem Areas",
		"=============",
		"Registrar: HighCoupling",
		"Details",
		"-------",
		"CBO 4 exceeds 3",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("RenderText() missing %q in output:\n%s", want, got)
		}
	}
}

func TestSectionRenderMarkdown(t *testing.T) {
	section := &Section{
		Title:   "Cohesion",
		Content: "LCOM summary",
		Sections: []Section{
			{Title: "Student", Content: "LCOM 1"},
		},
	}

	var buf bytes.Buffer
	if err := section.RenderMarkdown(&buf); err != nil {
		t.Fatalf("RenderMarkdown() error: %v", err)
	}

	got := buf.String()
	if !strings.Contains(got, "## Cohesion") {
		t.Errorf("missing top-level heading:\n%s", got)
	}
	if !strings.Contains(got, "### Student") {
		t.Errorf("missing nested heading:\n%s", got)
	}
}

func TestReportRenderText(t *testing.T) {
	report := &Report{
		Title: "Code Metrics",
		Sections: []Renderable{
			NewTable("", []string{"Class", "DIT"}, [][]string{{"Student", "1"}}, nil, nil),
			&Section{Title: "Notes", Content: "1 warning"},
		},
	}

	var buf bytes.Buffer
	if err := report.RenderText(&buf, false); err != nil {
		t.Fatalf("RenderText() error: %v", err)
	}

	got := buf.String()
	for _, want := range []string{"Code Metrics", "============", "Student", "Notes", "1 warning"} {
		if !strings.Contains(got, want) {
			t.Errorf("RenderText() missing %q in output:\n%s", want, got)
		}
	}
}

func TestReportRenderData(t *testing.T) {
	report := &Report{
		Title: "Code Metrics",
		Sections: []Renderable{
			&Section{Title: "Notes", Content: "ok"},
		},
	}

	data, ok := report.RenderData().(map[string]any)
	if !ok {
		t.Fatalf("RenderData() type = %T, want map", report.RenderData())
	}
	if data["title"] != "Code Metrics" {
		t.Errorf("title = %v", data["title"])
	}
}

func TestFormatterOutputRenderable(t *testing.T) {
	table := NewTable("Classes", []string{"Name"}, [][]string{{"Person"}}, nil, nil)

	for _, format := range []Format{FormatText, FormatJSON, FormatMarkdown, FormatTOON} {
		t.Run(string(format), func(t *testing.T) {
			outputPath := filepath.Join(t.TempDir(), "out.txt")

			f, err := NewFormatter(format, outputPath, false)
			if err != nil {
				t.Fatalf("NewFormatter() error: %v", err)
			}

			if err := f.Output(table); err != nil {
				t.Errorf("Output() error: %v", err)
			}
			f.Close()

			content, err := os.ReadFile(outputPath)
			if err != nil {
				t.Fatalf("ReadFile() error: %v", err)
			}
			if len(content) == 0 {
				t.Error("output file should not be empty")
			}
		})
	}
}

func TestFormatterOutputRawJSON(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "out.json")

	f, err := NewFormatter(FormatJSON, outputPath, false)
	if err != nil {
		t.Fatalf("NewFormatter() error: %v", err)
	}

	data := map[string]any{
		"classes": []string{"Person", "Student"},
		"methods": 9,
	}
	if err := f.Output(data); err != nil {
		t.Fatalf("Output() error: %v", err)
	}
	f.Close()

	content, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}

	var result map[string]any
	if err := json.Unmarshal(content, &result); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if result["methods"].(float64) != 9 {
		t.Errorf("methods = %v, want 9", result["methods"])
	}
}

func TestFormatterOutputTOON(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "out.toon")

	f, err := NewFormatter(FormatTOON, outputPath, false)
	if err != nil {
		t.Fatalf("NewFormatter() error: %v", err)
	}

	data := struct {
		Class string `toon:"class"`
		CBO   int    `toon:"cbo"`
	}{Class: "Registrar", CBO: 3}

	if err := f.Output(data); err != nil {
		t.Fatalf("Output() error: %v", err)
	}
	f.Close()

	content, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if !strings.Contains(string(content), "Registrar") {
		t.Errorf("TOON output missing class name:\n%s", content)
	}
}

func TestFormatterMessageMethods(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "msg.txt")
	f, err := NewFormatter(FormatText, outputPath, false)
	if err != nil {
		t.Fatalf("NewFormatter() error: %v", err)
	}

	f.Success("analyzed %d files", 3)
	f.Warning("skipped %d files", 1)
	f.Error("cannot read %s", "a.py")
	f.Info("cache enabled")
	f.Close()

	content, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}

	got := string(content)
	for _, want := range []string{
		"analyzed 3 files",
		"WARNING: skipped 1 files",
		"ERROR: cannot read a.py",
		"cache enabled",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in output:\n%s", want, got)
		}
	}
}

func TestSeverityColor(t *testing.T) {
	// Only verify the text passes through; color codes depend on tty state.
	for _, severity := range []string{"critical", "high", "medium", "low", "unknown"} {
		got := SeverityColor(severity, "label")
		if !strings.Contains(got, "label") {
			t.Errorf("SeverityColor(%q) lost its text: %q", severity, got)
		}
	}
}

func TestGradeColor(t *testing.T) {
	for _, grade := range []string{"A", "B", "C", "D", "E", "F", "?"} {
		got := GradeColor(grade, grade)
		if !strings.Contains(got, grade) {
			t.Errorf("GradeColor(%q) lost its text: %q", grade, got)
		}
	}
}
