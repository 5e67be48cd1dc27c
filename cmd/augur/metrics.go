package main

import (
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/corvidae/augur/internal/output"
	"github.com/corvidae/augur/internal/progress"
	"github.com/corvidae/augur/internal/service/analysis"
	"github.com/corvidae/augur/pkg/analyzer"
	"github.com/corvidae/augur/pkg/thresholds"
)

func metricsCmd() *cli.Command {
	return &cli.Command{
		Name:      "metrics",
		Aliases:   []string{"oo"},
		Usage:     "Show per-class design metrics (DIT, CBO, LCOM, method count)",
		ArgsUsage: "[path...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "sort",
				Value: "cbo",
				Usage: "Sort classes by metric: dit, cbo, lcom, or methods",
			},
			&cli.IntFlag{
				Name:  "top",
				Usage: "Show only the top N classes",
			},
			&cli.BoolFlag{
				Name:  "flagged",
				Usage: "Show only classes with raised flags",
			},
		},
		Action: runMetricsCmd,
	}
}

func runMetricsCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	scan, ok, err := scanFiles(c, cfg, getPaths(c))
	if err != nil || !ok {
		return err
	}

	svc := analysis.New(analysis.WithConfig(cfg))
	tracker := progress.NewTracker("Computing metrics...", len(scan.Files))
	result, runErr := svc.Analyze(c.Context, scan.Files, analysis.Options{
		NoCache:    c.Bool("no-cache"),
		OnProgress: tracker.Tick,
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

	type classRow struct {
		unit  string
		class analyzer.ClassResult
	}
	var classes []classRow
	for _, u := range result.Units {
		for _, cr := range u.Classes {
			if c.Bool("flagged") && len(cr.Flags) == 0 {
				continue
			}
			classes = append(classes, classRow{unit: u.Path, class: cr})
		}
	}

	key := c.String("sort")
	sort.SliceStable(classes, func(i, j int) bool {
		a, b := classes[i].class.Vector, classes[j].class.Vector
		switch key {
		case "dit":
			return a.DIT > b.DIT
		case "lcom":
			return a.LCOM > b.LCOM
		case "methods":
			return a.MethodCount > b.MethodCount
		default:
			return a.CBO > b.CBO
		}
	})
	if top := c.Int("top"); top > 0 && len(classes) > top {
		classes = classes[:top]
	}

	colorize := formatter.Format() == output.FormatText && formatter.Colored()
	rows := make([][]string, 0, len(classes))
	for _, r := range classes {
		flags := thresholds.Join(r.class.Flags)
		if colorize {
			if len(r.class.Flags) > 0 {
				flags = color.RedString(flags)
			} else {
				flags = color.GreenString(flags)
			}
		}
		rows = append(rows, []string{
			r.class.Class,
			r.unit,
			fmt.Sprintf("%d", r.class.Vector.DIT),
			fmt.Sprintf("%d", r.class.Vector.CBO),
			fmt.Sprintf("%d", r.class.Vector.LCOM),
			fmt.Sprintf("%d", r.class.Vector.MethodCount),
			flags,
		})
	}

	table := output.NewTable(
		"Object-Oriented Metrics",
		[]string{"Class", "File", "DIT", "CBO", "LCOM", "Methods", "Flags"},
		rows,
		[]string{
			fmt.Sprintf("Classes: %d", result.Summary.Classes),
			fmt.Sprintf("Methods: %d", result.Summary.Methods),
			fmt.Sprintf("Flagged: %d", result.Summary.Flagged),
		},
		result,
	)
	if err := formatter.Output(table); err != nil {
		return err
	}
	return warnPartial(runErr)
}
