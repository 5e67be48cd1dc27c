package mcpserver

import (
	"context"
	"sort"

	"github.com/corvidae/augur/internal/service/analysis"
	scannerSvc "github.com/corvidae/augur/internal/service/scanner"
	"github.com/corvidae/augur/pkg/analyzer"
	"github.com/corvidae/augur/pkg/report"
	"github.com/corvidae/augur/pkg/thresholds"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	toon "github.com/toon-format/toon-go"
)

// Tool inputs

// AnalyzeInput is the base input for all analyze tools.
type AnalyzeInput struct {
	Paths []string `json:"paths,omitempty" jsonschema:"Paths to analyze. Defaults to current directory if empty."`
}

// MetricsInput adds class-metric options.
type MetricsInput struct {
	AnalyzeInput
	Sort        string `json:"sort,omitempty" jsonschema:"Sort classes by metric: dit, cbo, lcom, or methods. Default cbo."`
	Top         int    `json:"top,omitempty" jsonschema:"Show top N classes. 0 shows all."`
	FlaggedOnly bool   `json:"flagged_only,omitempty" jsonschema:"Show only classes with at least one threshold flag."`
}

// ComplexityInput adds complexity options.
type ComplexityInput struct {
	AnalyzeInput
	Threshold int `json:"threshold,omitempty" jsonschema:"Cyclomatic complexity ceiling. Default 10."`
	Top       int `json:"top,omitempty" jsonschema:"Show top N methods by complexity. 0 shows all."`
}

// ReportInput adds report options.
type ReportInput struct {
	AnalyzeInput
	Title string `json:"title,omitempty" jsonschema:"Report title line. Defaults to the standard header."`
}

// Flattened rows for tool output

type classRow struct {
	Unit    string `json:"unit" toon:"unit"`
	Class   string `json:"class" toon:"class"`
	Line    int    `json:"line" toon:"line"`
	DIT     int    `json:"dit" toon:"dit"`
	CBO     int    `json:"cbo" toon:"cbo"`
	LCOM    int    `json:"lcom" toon:"lcom"`
	Methods int    `json:"methods" toon:"methods"`
	Flags   string `json:"flags" toon:"flags"`
}

type methodRow struct {
	Unit       string `json:"unit" toon:"unit"`
	Method     string `json:"method" toon:"method"`
	Line       int    `json:"line" toon:"line"`
	Complexity int    `json:"complexity" toon:"complexity"`
	Grade      string `json:"grade" toon:"grade"`
	Exceeds    bool   `json:"exceeds" toon:"exceeds"`
}

// Helper functions

func getPaths(input AnalyzeInput) []string {
	if len(input.Paths) == 0 {
		return []string{"."}
	}
	return input.Paths
}

// runAnalysis scans the given paths and runs the metrics pipeline over
// whatever survives the filters. Unit-level failures degrade to partial
// results instead of failing the tool call.
func runAnalysis(ctx context.Context, paths []string, opts analysis.Options) (*analyzer.Analysis, string) {
	scanner := scannerSvc.New()
	scanResult, err := scanner.ScanPaths(paths)
	if err != nil {
		return nil, err.Error()
	}
	if len(scanResult.Files) == 0 {
		return nil, "no source files found"
	}

	svc := analysis.New()
	result, err := svc.Analyze(ctx, scanResult.Files, opts)
	if result == nil {
		if err != nil {
			return nil, err.Error()
		}
		return nil, "analysis produced no result"
	}
	return result, ""
}

func collectClasses(a *analyzer.Analysis) []classRow {
	var rows []classRow
	for _, u := range a.Units {
		for _, c := range u.Classes {
			rows = append(rows, classRow{
				Unit:    u.Path,
				Class:   c.Class,
				Line:    c.Line,
				DIT:     c.Vector.DIT,
				CBO:     c.Vector.CBO,
				LCOM:    c.Vector.LCOM,
				Methods: c.Vector.MethodCount,
				Flags:   thresholds.Join(c.Flags),
			})
		}
	}
	return rows
}

func collectMethods(a *analyzer.Analysis) []methodRow {
	var rows []methodRow
	for _, u := range a.Units {
		for _, c := range u.Classes {
			for _, m := range c.Methods {
				rows = append(rows, methodRow{
					Unit:       u.Path,
					Method:     m.Qualified,
					Line:       m.Line,
					Complexity: m.Complexity,
					Grade:      m.Grade.String(),
					Exceeds:    a.Limits.ComplexityExceeded(m.Complexity),
				})
			}
		}
	}
	return rows
}

// sortClasses orders rows by the requested metric, highest first. Ties keep
// input order so identical vectors stay grouped by file.
func sortClasses(rows []classRow, key string) {
	less := func(i, j int) bool { return rows[i].CBO > rows[j].CBO }
	switch key {
	case "dit":
		less = func(i, j int) bool { return rows[i].DIT > rows[j].DIT }
	case "lcom":
		less = func(i, j int) bool { return rows[i].LCOM > rows[j].LCOM }
	case "methods":
		less = func(i, j int) bool { return rows[i].Methods > rows[j].Methods }
	}
	sort.SliceStable(rows, less)
}

func toolResult(data any) (*mcp.CallToolResult, any, error) {
	out, err := toon.Marshal(data, toon.WithIndent(2))
	if err != nil {
		return nil, nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(out)},
		},
	}, nil, nil
}

func toolError(msg string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: "Error: " + msg},
		},
		IsError: true,
	}, nil, nil
}

// Tool handlers

func handleAnalyzeMetrics(ctx context.Context, req *mcp.CallToolRequest, input MetricsInput) (*mcp.CallToolResult, any, error) {
	result, errMsg := runAnalysis(ctx, getPaths(input.AnalyzeInput), analysis.Options{})
	if errMsg != "" {
		return toolError(errMsg)
	}

	classes := collectClasses(result)
	if input.FlaggedOnly {
		kept := classes[:0]
		for _, c := range classes {
			if c.Flags != "OK" {
				kept = append(kept, c)
			}
		}
		classes = kept
	}
	sortClasses(classes, input.Sort)
	if input.Top > 0 && len(classes) > input.Top {
		classes = classes[:input.Top]
	}

	out := struct {
		Classes []classRow       `json:"classes" toon:"classes"`
		Summary analyzer.Summary `json:"summary" toon:"summary"`
	}{classes, result.Summary}
	return toolResult(out)
}

func handleAnalyzeComplexity(ctx context.Context, req *mcp.CallToolRequest, input ComplexityInput) (*mcp.CallToolResult, any, error) {
	opts := analysis.Options{ComplexityCeiling: input.Threshold}
	result, errMsg := runAnalysis(ctx, getPaths(input.AnalyzeInput), opts)
	if errMsg != "" {
		return toolError(errMsg)
	}

	methods := collectMethods(result)
	sort.SliceStable(methods, func(i, j int) bool {
		return methods[i].Complexity > methods[j].Complexity
	})
	if input.Top > 0 && len(methods) > input.Top {
		methods = methods[:input.Top]
	}

	out := struct {
		Methods []methodRow      `json:"methods" toon:"methods"`
		Ceiling int              `json:"ceiling" toon:"ceiling"`
		Summary analyzer.Summary `json:"summary" toon:"summary"`
	}{methods, result.Limits.ComplexityCeiling, result.Summary}
	return toolResult(out)
}

func handleAnalyzeReport(ctx context.Context, req *mcp.CallToolRequest, input ReportInput) (*mcp.CallToolResult, any, error) {
	result, errMsg := runAnalysis(ctx, getPaths(input.AnalyzeInput), analysis.Options{})
	if errMsg != "" {
		return toolError(errMsg)
	}

	text := report.Text(result.Snapshot(input.Title))
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}, nil, nil
}
