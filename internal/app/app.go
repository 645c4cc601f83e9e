// Package app ties the CLI surface to the shell runtime.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/pytrondev/pytron/internal/cli"
	"github.com/pytrondev/pytron/internal/config"
	"github.com/pytrondev/pytron/internal/doctor"
	"github.com/pytrondev/pytron/internal/logging"
	"github.com/pytrondev/pytron/internal/version"
)

type Runner struct {
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
}

func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	r := Runner{Stdout: stdout, Stderr: stderr}
	return r.Execute(ctx, args)
}

func (r Runner) Execute(ctx context.Context, args []string) int {
	parsed, err := cli.Parse(args)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n\n", err)
		fmt.Fprint(r.Stderr, cli.HelpText("pytron"))
		return 2
	}

	if parsed.ShowHelp {
		fmt.Fprint(r.Stdout, cli.HelpText("pytron"))
		return 0
	}

	if parsed.Command == cli.CommandVersion {
		fmt.Fprintln(r.Stdout, version.String())
		return 0
	}

	logRuntime, err := logging.New(parsed.Debug)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: setup logging: %v\n", err)
		return 1
	}
	defer func() { _ = logRuntime.Close() }()

	logger := r.Logger
	if logger == nil {
		logger = logRuntime.Logger
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		logger.Error("load config failed", "error", err.Error())
		return 1
	}
	cfg = applyOverrides(cfg, parsed)

	logger.Info("command start",
		"command", parsed.Command,
		"engine", cfg.App.Engine,
		"root", cfg.App.Root,
		"log", logRuntime.Path,
	)

	switch parsed.Command {
	case cli.CommandDoctor:
		report := doctor.Run(cfg)
		fmt.Fprintln(r.Stdout, report.String())
		if report.OK() {
			return 0
		}
		return 1
	case cli.CommandRun:
		return r.commandRun(ctx, cfg, logger)
	default:
		fmt.Fprintf(r.Stderr, "error: unsupported command %q\n", parsed.Command)
		return 2
	}
}

// applyOverrides folds CLI flags over the loaded configuration.
func applyOverrides(cfg config.Config, parsed cli.Parsed) config.Config {
	if parsed.Root != "" {
		cfg.App.Root = parsed.Root
	}
	if parsed.URL != "" {
		cfg.App.URL = parsed.URL
	}
	if parsed.Engine != "" {
		cfg.App.Engine = parsed.Engine
	}
	if parsed.Debug {
		cfg.Window.Debug = true
	}
	return cfg
}
