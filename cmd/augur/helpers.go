package main

import (
	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/corvidae/augur/internal/output"
	scannerSvc "github.com/corvidae/augur/internal/service/scanner"
	"github.com/corvidae/augur/pkg/config"
)

// loadConfig honors the global --config flag before falling back to the
// standard search locations.
func loadConfig(c *cli.Context) (*config.Config, error) {
	if path := c.String("config"); path != "" {
		return config.Load(path)
	}
	return config.LoadOrDefault(), nil
}

// scanFiles collects analyzable files under the given paths. A false
// second return means nothing matched and a notice was already printed.
func scanFiles(c *cli.Context, cfg *config.Config, paths []string) (*scannerSvc.ScanResult, bool, error) {
	svc := scannerSvc.New(scannerSvc.WithConfig(cfg))
	result, err := svc.ScanPaths(paths)
	if err != nil {
		return nil, false, err
	}
	if len(result.Files) == 0 {
		color.Yellow("No source files found")
		return result, false, nil
	}
	if c.Bool("verbose") && result.Oversized > 0 {
		color.Yellow("Skipped %d oversized file(s)", result.Oversized)
	}
	return result, true, nil
}

// newFormatter builds a formatter from the global format/output flags.
func newFormatter(c *cli.Context, cfg *config.Config) (*output.Formatter, error) {
	return output.NewFormatter(output.ParseFormat(c.String("format")), c.String("output"), cfg.Output.Color)
}

// warnPartial surfaces per-file failures after the surviving results have
// been rendered. The command still exits zero.
func warnPartial(err error) error {
	if err != nil {
		color.Yellow("Some files could not be analyzed:\n%v", err)
	}
	return nil
}
