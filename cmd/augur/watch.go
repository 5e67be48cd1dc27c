package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/corvidae/augur/internal/service/analysis"
	"github.com/corvidae/augur/pkg/thresholds"
	"github.com/corvidae/augur/pkg/watch"
)

func watchCmd() *cli.Command {
	return &cli.Command{
		Name:      "watch",
		Usage:     "Watch for file changes and re-analyze",
		ArgsUsage: "[path]",
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:  "debounce",
				Value: 500 * time.Millisecond,
				Usage: "Quiet period before a batch of changes is analyzed",
			},
		},
		Action: runWatchCmd,
	}
}

func runWatchCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	absPath, err := filepath.Abs(getPaths(c)[0])
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}

	watcher, err := watch.NewWatcher(absPath, cfg, c.Duration("debounce"))
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Stop()

	svc := analysis.New(analysis.WithConfig(cfg))
	noCache := c.Bool("no-cache")

	watcher.SetCallback(func(changed []string) {
		color.Cyan("\n%d file(s) changed", len(changed))
		for _, p := range changed {
			fmt.Printf("  %s\n", p)
		}

		result, err := svc.Analyze(context.Background(), changed, analysis.Options{NoCache: noCache})
		if result == nil {
			color.Red("Analysis error: %v", err)
			return
		}

		flagged := 0
		for _, u := range result.Units {
			for _, cr := range u.Classes {
				if len(cr.Flags) == 0 {
					continue
				}
				flagged++
				color.Yellow("  %s: %s", cr.Class, thresholds.Join(cr.Flags))
			}
		}
		if flagged == 0 {
			color.Green("  No flags raised")
		}
		fmt.Printf("  Classes: %d, Methods: %d, Mean CC: %.1f\n",
			result.Summary.Classes, result.Summary.Methods, result.Summary.MeanComplexity)
	})
	watcher.SetErrorCallback(func(err error) {
		color.Red("Watch error: %v", err)
	})

	color.Cyan("Watching %s for changes...", absPath)
	fmt.Println("Press Ctrl+C to stop")

	// Handle Ctrl+C
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nStopping watch...")
		cancel()
	}()

	if err := watcher.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
