package main

import (
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/corvidae/augur/internal/output"
	"github.com/corvidae/augur/internal/progress"
	"github.com/corvidae/augur/internal/service/analysis"
	"github.com/corvidae/augur/pkg/metrics"
)

func complexityCmd() *cli.Command {
	return &cli.Command{
		Name:      "complexity",
		Aliases:   []string{"cc"},
		Usage:     "Show per-method cyclomatic complexity",
		ArgsUsage: "[path...]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "threshold",
				Usage: "Complexity ceiling for the issue column (defaults to the configured value)",
			},
			&cli.IntFlag{
				Name:  "top",
				Usage: "Show only the top N methods",
			},
		},
		Action: runComplexityCmd,
	}
}

func runComplexityCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	scan, ok, err := scanFiles(c, cfg, getPaths(c))
	if err != nil || !ok {
		return err
	}

	svc := analysis.New(analysis.WithConfig(cfg))
	tracker := progress.NewTracker("Computing complexity...", len(scan.Files))
	result, runErr := svc.Analyze(c.Context, scan.Files, analysis.Options{
		NoCache:           c.Bool("no-cache"),
		ComplexityCeiling: c.Int("threshold"),
		OnProgress:        tracker.Tick,
	})
	tracker.FinishSuccess()
	if result == nil {
		return runErr
	}

	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	type methodRow struct {
		unit   string
		method metrics.MethodMetrics
	}
	var methods []methodRow
	for _, u := range result.Units {
		for _, cr := range u.Classes {
			for _, m := range cr.Methods {
				methods = append(methods, methodRow{unit: u.Path, method: m})
			}
		}
	}
	sort.SliceStable(methods, func(i, j int) bool {
		return methods[i].method.Complexity > methods[j].method.Complexity
	})
	if top := c.Int("top"); top > 0 && len(methods) > top {
		methods = methods[:top]
	}

	colorize := formatter.Format() == output.FormatText && formatter.Colored()
	rows := make([][]string, 0, len(methods))
	for _, e := range methods {
		grade := e.method.Grade.String()
		if colorize {
			grade = output.GradeColor(e.method.Grade.String(), grade)
		}
		issue := "OK"
		if result.Limits.ComplexityExceeded(e.method.Complexity) {
			issue = "HIGH - Needs refactoring"
			if colorize {
				issue = color.RedString(issue)
			}
		}
		rows = append(rows, []string{
			e.method.Qualified,
			e.unit,
			fmt.Sprintf("%d", e.method.Complexity),
			grade,
			issue,
		})
	}

	table := output.NewTable(
		"Cyclomatic Complexity",
		[]string{"Method", "File", "CC", "Grade", "Issues"},
		rows,
		[]string{
			fmt.Sprintf("Methods: %d", result.Summary.Methods),
			fmt.Sprintf("Mean: %.2f", result.Summary.MeanComplexity),
			fmt.Sprintf("P90: %.1f", result.Summary.P90Complexity),
			fmt.Sprintf("Max: %d", result.Summary.MaxComplexity),
		},
		result,
	)
	if err := formatter.Output(table); err != nil {
		return err
	}
	return warnPartial(runErr)
}
