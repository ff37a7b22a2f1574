package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/avelaro/vitals/internal/output"
	"github.com/avelaro/vitals/pkg/analyzer/health"
	"github.com/avelaro/vitals/pkg/models"
	"github.com/avelaro/vitals/pkg/watch"
)

func watchCmd() *cli.Command {
	return &cli.Command{
		Name:      "watch",
		Usage:     "Watch for file changes and re-analyze project health",
		ArgsUsage: "[path]",
		Flags: append([]cli.Flag{
			&cli.DurationFlag{
				Name:  "debounce",
				Value: watch.DefaultDebounce,
				Usage: "How long to wait after the last change before re-analyzing",
			},
		}, analyzeFlags()...),
		Action: runWatchCmd,
	}
}

func runWatchCmd(c *cli.Context) error {
	path := getPath(c)
	debounce := c.Duration("debounce")

	cfg, err := loadConfig(c)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	dims, err := models.ParseDimensions(c.String("dimensions"))
	if err != nil {
		return err
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}

	var opts []health.Option
	if c.Bool("no-tools") {
		opts = append(opts, health.WithRunner(nil))
	}
	analyzer := health.New(cfg, opts...)
	colored := !c.Bool("no-color")

	watcher, err := watch.New(absPath, cfg, debounce)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Stop()

	watcher.SetCallback(func(changed []string) {
		color.Cyan("%d file(s) changed, re-analyzing...", len(changed))

		start := time.Now()
		report, err := analyzer.Analyze(context.Background(), absPath, dims, nil)
		if err != nil {
			color.Red("Analysis error: %v", err)
			return
		}

		formatter, err := output.NewFormatter(output.FormatText, "", colored)
		if err != nil {
			color.Red("Output error: %v", err)
			return
		}
		defer formatter.Close()

		if err := formatter.Output(&output.HealthReport{Report: report}); err != nil {
			color.Red("Output error: %v", err)
			return
		}
		fmt.Printf("Analysis took %s\n", time.Since(start).Round(time.Millisecond))
	})

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

	color.Cyan("Watching %s for changes (Ctrl+C to stop)...", absPath)
	return watcher.Start(ctx)
}
