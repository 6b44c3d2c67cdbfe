package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"lowc/internal/buildpipeline"
	"lowc/internal/watch"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [flags] [files or dirs...]",
		Short: "Rebuild whenever an input changes",
		RunE:  watchExecution,
	}
	addBuildFlags(cmd)
	cmd.Flags().Duration("debounce", watch.DefaultDebounce, "wait this long for more changes before rebuilding")
	return cmd
}

func watchExecution(cmd *cobra.Command, args []string) error {
	settings, err := resolveBuildSettings(cmd, args)
	if err != nil {
		return err
	}
	// The progress UI would redraw over itself on every rebuild.
	if err := cmd.Flags().Set("ui", string(uiModeOff)); err != nil {
		return err
	}
	tracer, cleanup, err := setupTracing(cmd, settings.trace)
	if err != nil {
		return err
	}
	defer cleanup()

	debounce, err := cmd.Flags().GetDuration("debounce")
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	w, err := watch.New(settings.watchDirs(), watch.MatchExt(inputExts...), debounce)
	if err != nil {
		return err
	}
	defer w.Close()

	rebuild := func(ctx context.Context) {
		if _, err := runBuild(ctx, cmd, settings); err != nil && !errors.Is(err, buildpipeline.ErrBuildFailed) {
			printError(cmd.ErrOrStderr(), err)
			dumpTraceOnFailure(cmd, tracer)
		}
	}
	rebuild(ctx)
	fmt.Fprintf(cmd.ErrOrStderr(), "watching %s (ctrl-c to stop)\n", strings.Join(settings.watchDirs(), ", "))

	err = w.Run(ctx, func(ctx context.Context, changed []string) {
		fmt.Fprintf(cmd.ErrOrStderr(), "changed: %s\n", strings.Join(changed, ", "))
		if err := settings.refreshFiles(); err != nil {
			printError(cmd.ErrOrStderr(), err)
			return
		}
		rebuild(ctx)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
