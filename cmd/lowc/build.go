package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"lowc/internal/buildpipeline"
	"lowc/internal/diag"
	"lowc/internal/driver"
	"lowc/internal/observ"
)

func newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [flags] [files or dirs...]",
		Short: "Lower AST files to IR",
		Long:  "Lower AST files to IR. Without arguments the inputs come from [build].inputs in lowc.toml.",
		RunE:  buildExecution,
	}
	addBuildFlags(cmd)
	return cmd
}

func buildExecution(cmd *cobra.Command, args []string) error {
	settings, err := resolveBuildSettings(cmd, args)
	if err != nil {
		return err
	}
	tracer, cleanup, err := setupTracing(cmd, settings.trace)
	if err != nil {
		return err
	}
	defer cleanup()

	_, err = runBuild(cmd.Context(), cmd, settings)
	if err != nil {
		dumpTraceOnFailure(cmd, tracer)
	}
	return err
}

// runBuild executes one build and reports diagnostics and outputs.
func runBuild(ctx context.Context, cmd *cobra.Command, settings *buildSettings) (buildpipeline.Result, error) {
	flags := cmd.Flags()
	quiet, _ := flags.GetBool("quiet")
	showTimings, _ := flags.GetBool("timings")
	maxDiagnostics, _ := flags.GetInt("max-diagnostics")
	colorValue, _ := flags.GetString("color")
	uiValue, _ := flags.GetString("ui")

	uiModeValue, err := readUIMode(uiValue)
	if err != nil {
		return buildpipeline.Result{}, err
	}
	colored, err := useColor(colorValue, cmd.ErrOrStderr())
	if err != nil {
		return buildpipeline.Result{}, err
	}

	opts := settings.compile
	if settings.cache {
		cache, cerr := driver.OpenDiskCache("lowc")
		if cerr != nil {
			if !quiet {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: disk cache disabled: %v\n", cerr)
			}
		} else {
			opts.Cache = cache
		}
	}
	var timer *observ.Timer
	if showTimings {
		timer = observ.NewTimer()
		opts.Timer = timer
	}

	req := &buildpipeline.Request{
		Files:          settings.files,
		BaseDir:        settings.baseDir,
		OutDir:         settings.outDir,
		Jobs:           settings.jobs,
		Compile:        opts,
		MaxDiagnostics: maxDiagnostics,
		Werror:         settings.werror,
	}

	var res buildpipeline.Result
	useTUI := !quiet && settings.outDir != "" && shouldUseTUI(uiModeValue, cmd.OutOrStdout())
	if useTUI {
		res, err = runBuildWithUI(ctx, "lowc build", displayFiles(settings), req)
	} else {
		res, err = buildpipeline.Build(ctx, req)
	}

	if res.Diagnostics != nil && res.Diagnostics.Len() > 0 {
		if rerr := diag.Render(cmd.ErrOrStderr(), res.Diagnostics.Items(), colored); rerr != nil {
			return res, rerr
		}
		if n := res.Diagnostics.Dropped(); n > 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "... %d more diagnostics not shown\n", n)
		}
	}

	if settings.outDir == "" {
		writeRendered(cmd.OutOrStdout(), res)
	} else if err == nil && !quiet && !useTUI {
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d files to %s\n", len(res.Outputs()), settings.outDir)
	}
	if showTimings {
		printBuildTimings(cmd.ErrOrStderr(), res, timer)
	}
	return res, err
}

// writeRendered prints compiled text; with several inputs each gets a
// header line.
func writeRendered(out io.Writer, res buildpipeline.Result) {
	ok := 0
	for _, f := range res.Files {
		if f.Err == nil {
			ok++
		}
	}
	first := true
	for _, f := range res.Files {
		if f.Err != nil {
			continue
		}
		if ok > 1 {
			if !first {
				fmt.Fprintln(out)
			}
			fmt.Fprintf(out, "; %s\n", f.Display)
		}
		first = false
		_, _ = out.Write(f.Rendered)
	}
}

func displayFiles(settings *buildSettings) []string {
	out := make([]string, len(settings.files))
	for i, f := range settings.files {
		out[i] = buildpipeline.DisplayName(f, settings.baseDir)
	}
	return out
}
