package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/avelaro/vitals/internal/output"
	"github.com/avelaro/vitals/internal/progress"
	"github.com/avelaro/vitals/pkg/analyzer/health"
	"github.com/avelaro/vitals/pkg/config"
	"github.com/avelaro/vitals/pkg/models"
)

var (
	version = "dev"
	commit  = "none"    //nolint:unused // set via ldflags at build time
	date    = "unknown" //nolint:unused // set via ldflags at build time
)

// getPath returns the project path from positional args, defaulting to "."
func getPath(c *cli.Context) string {
	if c.Args().Len() > 0 {
		return c.Args().First()
	}
	return "."
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	if path := c.String("config"); path != "" {
		return config.Load(path)
	}
	return config.LoadOrDefault(), nil
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "vitals",
		Usage:   "Multi-dimensional code health analysis CLI",
		Version: version,
		Description: `Vitals scores a codebase across five quality dimensions
(maintainability, performance, security, scalability, reusability)
and produces prioritized remediation actions.

Supports: Python, Go, TypeScript, JavaScript, Java, Ruby`,
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (TOML, YAML, or JSON)",
				EnvVars: []string{"VITALS_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "text",
				Usage:   "Output format: text, json, markdown, toon",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write output to file",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable colored output",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable verbose output",
			},
		}, analyzeFlags()...),
		Commands: []*cli.Command{
			analyzeCmd(),
			watchCmd(),
			mcpCmd(),
		},
		// Bare invocation runs the full analysis on the current directory.
		Action:   runAnalyzeCmd,
		Metadata: make(map[string]interface{}),
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

func analyzeCmd() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Aliases:   []string{"health"},
		Usage:     "Analyze project health across quality dimensions",
		ArgsUsage: "[path]",
		Flags:     analyzeFlags(),
		Action:    runAnalyzeCmd,
	}
}

func analyzeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "dimensions",
			Aliases: []string{"d"},
			Value:   "all",
			Usage:   "Comma-separated dimensions: maintainability, performance, security, scalability, reusability",
		},
		&cli.BoolFlag{
			Name:  "no-tools",
			Usage: "Skip external tools (radon, bandit, pylint, safety) and use built-in detectors only",
		},
	}
}

func runAnalyzeCmd(c *cli.Context) error {
	path := getPath(c)

	cfg, err := loadConfig(c)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if c.Bool("verbose") {
		cfg.Output.Verbose = true
	}

	dims, err := models.ParseDimensions(c.String("dimensions"))
	if err != nil {
		return err
	}

	var opts []health.Option
	if c.Bool("no-tools") {
		opts = append(opts, health.WithRunner(nil))
	}
	analyzer := health.New(cfg, opts...)

	format := output.ParseFormat(c.String("format"))
	colored := !c.Bool("no-color")

	tracker := progress.NewSpinner("Analyzing project health...")
	report, err := analyzer.Analyze(context.Background(), path, dims, tracker.Tick)
	if err != nil {
		tracker.Fail(err)
		return err
	}
	tracker.Done()

	formatter, err := output.NewFormatter(format, c.String("output"), colored)
	if err != nil {
		return err
	}
	defer formatter.Close()

	return formatter.Output(&output.HealthReport{Report: report})
}
