package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	completecmd "github.com/walteh/tagsense/cmd/tagsense/complete"
	decoratecmd "github.com/walteh/tagsense/cmd/tagsense/decorate"
	definitioncmd "github.com/walteh/tagsense/cmd/tagsense/definition"
	diagnosticscmd "github.com/walteh/tagsense/cmd/tagsense/diagnostics"
	foldcmd "github.com/walteh/tagsense/cmd/tagsense/fold"
	scancmd "github.com/walteh/tagsense/cmd/tagsense/scan"
	summoncmd "github.com/walteh/tagsense/cmd/tagsense/summon"
	watchcmd "github.com/walteh/tagsense/cmd/tagsense/watch"
	tdebug "github.com/walteh/tagsense/pkg/debug"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		cancel()
		os.Exit(1)
	}
}

func NewRootCommand() *cobra.Command {
	var (
		verbose bool
		jsonLog bool
		color   bool
	)

	cmd := &cobra.Command{
		Use:   "tagsense",
		Short: "editor features for attribute-templating tags",
	}

	cmd.PersistentFlags().BoolVar(&verbose, "debug", false, "enable debug logging")
	cmd.PersistentFlags().BoolVar(&jsonLog, "log-json", false, "log json events instead of console lines")
	cmd.PersistentFlags().BoolVar(&color, "color", false, "colorize console logs")

	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		level := zerolog.InfoLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		cmd.SetContext(tdebug.WithLogger(cmd.Context(), tdebug.Options{
			Out:    cmd.ErrOrStderr(),
			Level:  level,
			JSON:   jsonLog,
			Color:  color,
			Caller: verbose,
		}))
	}

	cmd.AddCommand(scancmd.NewScanCommand())
	cmd.AddCommand(decoratecmd.NewDecorateCommand())
	cmd.AddCommand(diagnosticscmd.NewDiagnosticsCommand())
	cmd.AddCommand(foldcmd.NewFoldCommand())
	cmd.AddCommand(completecmd.NewCompleteCommand())
	cmd.AddCommand(definitioncmd.NewDefinitionCommand())
	cmd.AddCommand(summoncmd.NewSummonCommand())
	cmd.AddCommand(watchcmd.NewWatchCommand())

	info, ok := debug.ReadBuildInfo()
	if !ok {
		cmd.Version = "unknown"
	} else {
		cmd.Version = info.Main.Version
	}

	cmd.InitDefaultVersionFlag()

	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	return cmd
}
