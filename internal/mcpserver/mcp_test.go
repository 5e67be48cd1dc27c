package mcpserver

import (
	"context"
	"strings"
	"testing"

	"github.com/corvidae/augur/internal/testutil"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const registrarSource = `class Person:
    def __init__(self, name):
        self.name = name

    def describe(self):
        return self.name


class Registrar:
    def __init__(self):
        self.records = []

    def enroll(self, student, course):
        if student and course:
            self.records.append(student)

    def withdraw(self, student):
        for r in self.records:
            if r == student:
                self.records.remove(r)

    def audit(self):
        return len(self.records)

    def report(self):
        return self.records

    def reset(self):
        self.records = []

    def merge(self, other):
        self.records.extend(other)

    def archive(self):
        return list(self.records)
`

// writeCampus lays down a small source tree and moves the working directory
// there so relative cache and config lookups stay inside the test sandbox.
func writeCampus(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	testutil.WriteTree(t, dir, map[string]string{
		"campus.py": registrarSource,
	})
	return dir
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil {
		t.Fatal("nil tool result")
	}
	if len(result.Content) == 0 {
		t.Fatal("tool result has no content")
	}
	tc, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want *mcp.TextContent", result.Content[0])
	}
	return tc.Text
}

func TestNewServer(t *testing.T) {
	s := NewServer("1.0.0-test")
	if s == nil {
		t.Fatal("NewServer returned nil")
	}
	if s.server == nil {
		t.Fatal("NewServer left the inner server nil")
	}
}

func TestNewServerEmptyVersion(t *testing.T) {
	if s := NewServer(""); s == nil {
		t.Fatal("NewServer(\"\") returned nil")
	}
}

func TestToolDescriptions(t *testing.T) {
	for name, fn := range map[string]func() string{
		"metrics":    describeMetrics,
		"complexity": describeComplexity,
		"report":     describeReport,
	} {
		desc := fn()
		if desc == "" {
			t.Errorf("%s description is empty", name)
		}
		if !strings.Contains(desc, "USE WHEN:") {
			t.Errorf("%s description missing USE WHEN section", name)
		}
		if !strings.Contains(desc, "INTERPRETING RESULTS:") {
			t.Errorf("%s description missing INTERPRETING RESULTS section", name)
		}
	}
}

func TestGetPaths(t *testing.T) {
	if got := getPaths(AnalyzeInput{}); len(got) != 1 || got[0] != "." {
		t.Errorf("empty input: got %v, want [.]", got)
	}
	if got := getPaths(AnalyzeInput{Paths: []string{"a", "b"}}); len(got) != 2 {
		t.Errorf("explicit paths: got %v", got)
	}
}

func TestParseFrontmatter(t *testing.T) {
	desc, body := parseFrontmatter([]byte("---\ndescription: Review design\n---\n\nDo the review.\n"))
	if desc != "Review design" {
		t.Errorf("description = %q", desc)
	}
	if body != "Do the review.\n" {
		t.Errorf("body = %q", body)
	}

	desc, body = parseFrontmatter([]byte("no frontmatter here\n"))
	if desc != "" || body != "no frontmatter here\n" {
		t.Errorf("plain content: desc=%q body=%q", desc, body)
	}

	desc, body = parseFrontmatter([]byte("---\ndescription: unterminated\n"))
	if desc != "" || !strings.Contains(body, "unterminated") {
		t.Errorf("unterminated frontmatter: desc=%q body=%q", desc, body)
	}
}

func TestEmbeddedPrompts(t *testing.T) {
	entries, err := promptFiles.ReadDir("prompts")
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("no embedded prompts")
	}
	for _, entry := range entries {
		content, err := promptFiles.ReadFile("prompts/" + entry.Name())
		if err != nil {
			t.Fatalf("ReadFile %s: %v", entry.Name(), err)
		}
		desc, body := parseFrontmatter(content)
		if desc == "" {
			t.Errorf("%s has no description", entry.Name())
		}
		if strings.TrimSpace(body) == "" {
			t.Errorf("%s has no body", entry.Name())
		}
	}
}

func TestHandleAnalyzeMetrics(t *testing.T) {
	dir := writeCampus(t)

	input := MetricsInput{
		AnalyzeInput: AnalyzeInput{Paths: []string{dir}},
		Sort:         "methods",
	}
	result, _, err := handleAnalyzeMetrics(context.Background(), nil, input)
	if err != nil {
		t.Fatalf("handleAnalyzeMetrics: %v", err)
	}
	text := resultText(t, result)
	if result.IsError {
		t.Fatalf("tool error: %s", text)
	}
	if !strings.Contains(text, "Registrar") || !strings.Contains(text, "Person") {
		t.Errorf("output missing classes:\n%s", text)
	}
	if !strings.Contains(text, "TooManyMethods") {
		t.Errorf("Registrar has 8 methods, expected TooManyMethods flag:\n%s", text)
	}
	// Sorted by method count, Registrar comes first.
	if strings.Index(text, "Registrar") > strings.Index(text, "Person") {
		t.Errorf("expected Registrar before Person when sorting by methods:\n%s", text)
	}
}

func TestHandleAnalyzeMetricsFlaggedOnly(t *testing.T) {
	dir := writeCampus(t)

	input := MetricsInput{
		AnalyzeInput: AnalyzeInput{Paths: []string{dir}},
		FlaggedOnly:  true,
	}
	result, _, err := handleAnalyzeMetrics(context.Background(), nil, input)
	if err != nil {
		t.Fatalf("handleAnalyzeMetrics: %v", err)
	}
	text := resultText(t, result)
	if !strings.Contains(text, "Registrar") {
		t.Errorf("flagged class missing:\n%s", text)
	}
	if strings.Contains(text, "Person") {
		t.Errorf("unflagged class should be filtered out:\n%s", text)
	}
}

func TestHandleAnalyzeComplexity(t *testing.T) {
	dir := writeCampus(t)

	input := ComplexityInput{
		AnalyzeInput: AnalyzeInput{Paths: []string{dir}},
		Threshold:    2,
		Top:          3,
	}
	result, _, err := handleAnalyzeComplexity(context.Background(), nil, input)
	if err != nil {
		t.Fatalf("handleAnalyzeComplexity: %v", err)
	}
	text := resultText(t, result)
	if result.IsError {
		t.Fatalf("tool error: %s", text)
	}
	// Registrar.withdraw has a loop, a branch, and a comparison chain, so it
	// clears the lowered ceiling and tops the list.
	if !strings.Contains(text, "Registrar.withdraw") {
		t.Errorf("expected Registrar.withdraw in output:\n%s", text)
	}
	if !strings.Contains(text, "true") {
		t.Errorf("expected a ceiling breach with threshold 2:\n%s", text)
	}
}

func TestHandleAnalyzeReport(t *testing.T) {
	dir := writeCampus(t)

	input := ReportInput{AnalyzeInput: AnalyzeInput{Paths: []string{dir}}}
	result, _, err := handleAnalyzeReport(context.Background(), nil, input)
	if err != nil {
		t.Fatalf("handleAnalyzeReport: %v", err)
	}
	text := resultText(t, result)
	if result.IsError {
		t.Fatalf("tool error: %s", text)
	}
	for _, want := range []string{
		"CODE METRICS ANALYSIS",
		"1. CYCLOMATIC COMPLEXITY (CC)",
		"2. LINES OF CODE (LOC)",
		"3. OBJECT-ORIENTED METRICS",
		"4. PROBLEM AREAS IDENTIFIED",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestHandleAnalyzeReportCustomTitle(t *testing.T) {
	dir := writeCampus(t)

	input := ReportInput{
		AnalyzeInput: AnalyzeInput{Paths: []string{dir}},
		Title:        "CAMPUS HEALTH CHECK",
	}
	result, _, err := handleAnalyzeReport(context.Background(), nil, input)
	if err != nil {
		t.Fatalf("handleAnalyzeReport: %v", err)
	}
	text := resultText(t, result)
	if !strings.Contains(text, "CAMPUS HEALTH CHECK") {
		t.Errorf("custom title missing:\n%s", text)
	}
}

func TestHandleAnalyzeMetricsNoFiles(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	input := MetricsInput{AnalyzeInput: AnalyzeInput{Paths: []string{dir}}}
	result, _, err := handleAnalyzeMetrics(context.Background(), nil, input)
	if err != nil {
		t.Fatalf("handleAnalyzeMetrics: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected tool error for empty directory")
	}
	if text := resultText(t, result); !strings.Contains(text, "no source files") {
		t.Errorf("unexpected error text: %s", text)
	}
}
