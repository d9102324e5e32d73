package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/mediwound/wardview/config"
	"github.com/mediwound/wardview/internal/bootstrap"
)

type commandFn func(ctx *commandContext, args []string) error

type command struct {
	name        string
	description string
	run         commandFn
}

type commandContext struct {
	Ctx    context.Context
	Logger *slog.Logger
	Config config.AppConfig
}

func main() {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1) //nolint:forbidigo // CLI must signal configuration load failure to shell scripts
	}
	logger := bootstrap.InitLogger(cfg.IsDev)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when no command is provided
	}

	cmdName := os.Args[1]
	cmd, ok := commands()[cmdName]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmdName)
		printUsage()
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when command is unknown
	}

	cmdCtx := &commandContext{
		Ctx:    context.Background(),
		Logger: logger,
		Config: cfg,
	}
	if runErr := cmd.run(cmdCtx, os.Args[2:]); runErr != nil {
		logger.ErrorContext(cmdCtx.Ctx, "command failed", "command", cmdName, "error", runErr)
		os.Exit(1) //nolint:forbidigo // CLI must propagate command execution failure to callers
	}
}

func commands() map[string]command {
	return map[string]command{
		"state-show": {
			name:        "state-show",
			description: "Print the persistent workstation state as JSON (supports -query projections)",
			run:         runStateShow,
		},
		"state-clear": {
			name:        "state-clear",
			description: "Clear all stored session and UI state from the persistent backend",
			run:         runStateClear,
		},
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: wardview-admin <command> [flags]")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "commands:")

	cmds := commands()
	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(os.Stderr, "  %-14s %s\n", name, cmds[name].description)
	}
}
