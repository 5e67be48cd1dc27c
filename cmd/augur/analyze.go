package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/corvidae/augur/internal/output"
	"github.com/corvidae/augur/internal/progress"
	"github.com/corvidae/augur/internal/remote"
	"github.com/corvidae/augur/internal/service/analysis"
	scannerSvc "github.com/corvidae/augur/internal/service/scanner"
	"github.com/corvidae/augur/pkg/analyzer"
	"github.com/corvidae/augur/pkg/config"
	"github.com/corvidae/augur/pkg/report"
)

func analyzeCmd() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Aliases:   []string{"all"},
		Usage:     "Run the full metrics pipeline and render the report",
		ArgsUsage: "[path...]",
		Description: `Scans the given paths (or the current directory), computes class and
method metrics, and renders the report. The first argument may also be
a remote reference like owner/repo@ref, which is cloned to a temporary
directory and analyzed there.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "rev",
				Usage: "Analyze files at a git revision instead of the working tree",
			},
			&cli.StringFlag{
				Name:  "title",
				Usage: "Report title line",
			},
			&cli.StringFlag{
				Name:  "html",
				Usage: "Also write an HTML report to the given path",
			},
		},
		Action: runAnalyzeCmd,
	}
}

func runAnalyzeCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	paths := getPaths(c)
	rev := c.String("rev")

	if src := remote.Parse(paths[0]); src != nil {
		color.Cyan("Cloning %s...", src)
		dir, err := src.Clone(c.Context)
		if err != nil {
			return err
		}
		defer os.RemoveAll(dir)
		paths = []string{dir}
		if rev == "" {
			rev = src.Ref
		}
	}

	svc := analysis.New(analysis.WithConfig(cfg))
	opts := analysis.Options{NoCache: c.Bool("no-cache")}

	var result *analyzer.Analysis
	var runErr error

	if rev != "" {
		scanSvc := scannerSvc.New(scannerSvc.WithConfig(cfg))
		scan, err := scanSvc.ScanRevision(paths[0], rev)
		if err != nil {
			return err
		}
		if len(scan.Files) == 0 {
			color.Yellow("No source files found at %s", rev)
			return nil
		}
		tracker := progress.NewTracker("Analyzing...", len(scan.Files))
		opts.OnProgress = tracker.Tick
		result, runErr = svc.AnalyzeRevision(c.Context, scan.Files, scan.Tree, opts)
		tracker.FinishSuccess()
	} else {
		scan, ok, err := scanFiles(c, cfg, paths)
		if err != nil || !ok {
			return err
		}
		tracker := progress.NewTracker("Analyzing...", len(scan.Files))
		opts.OnProgress = tracker.Tick
		result, runErr = svc.Analyze(c.Context, scan.Files, opts)
		tracker.FinishSuccess()
	}

	if result == nil {
		return runErr
	}

	snapshot := result.Snapshot(c.String("title"))

	formatter, err := output.NewFormatter(output.ParseFormat(c.String("format")), "", cfg.Output.Color)
	if err != nil {
		return err
	}
	defer formatter.Close()

	if err := formatter.Output(snapshot); err != nil {
		return err
	}

	if c.Bool("verbose") && formatter.Format() == output.FormatText && snapshot.HasProblems() {
		fmt.Fprintln(formatter.Writer())
		fmt.Fprintln(formatter.Writer(), snapshot.AdviceMarkdown())
	}

	if htmlPath := c.String("html"); htmlPath != "" {
		renderer, err := report.NewHTMLRenderer()
		if err != nil {
			return err
		}
		if err := renderer.RenderToFile(snapshot, htmlPath); err != nil {
			return fmt.Errorf("failed to write HTML report: %w", err)
		}
		if c.Bool("verbose") {
			color.Green("HTML report written to %s", htmlPath)
		}
	}

	if err := saveReport(c, cfg, snapshot); err != nil {
		return err
	}
	return warnPartial(runErr)
}

// saveReport writes the plain text form of the report beside the terminal
// output. The file content is identical across runs over identical input.
func saveReport(c *cli.Context, cfg *config.Config, snapshot *report.Snapshot) error {
	if c.Bool("no-save") || !cfg.Output.Save {
		return nil
	}
	path := cfg.Output.ReportPath
	if o := c.String("output"); o != "" {
		path = o
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(report.Text(snapshot)), 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	if c.Bool("verbose") {
		color.Green("Report written to %s", path)
	}
	return nil
}
