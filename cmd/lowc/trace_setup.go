package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lowc/internal/project"
	"lowc/internal/trace"
)

// setupTracing builds the tracer from flags, falling back to the [trace]
// section of lowc.toml, and attaches it to the command context. The
// returned cleanup flushes and closes it.
func setupTracing(cmd *cobra.Command, fallback project.TraceConfig) (trace.Tracer, func(), error) {
	flags := cmd.Flags()

	level := fallback.Level
	if flags.Changed("trace-level") {
		levelStr, err := flags.GetString("trace-level")
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get trace-level flag: %w", err)
		}
		if level, err = trace.ParseLevel(levelStr); err != nil {
			return nil, nil, err
		}
	}

	output := fallback.Output
	if flags.Changed("trace") {
		var err error
		if output, err = flags.GetString("trace"); err != nil {
			return nil, nil, fmt.Errorf("failed to get trace flag: %w", err)
		}
		// An explicit output without a level means "trace the passes".
		if level == trace.LevelOff {
			level = trace.LevelPhase
		}
	}

	formatStr, err := flags.GetString("trace-format")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get trace-format flag: %w", err)
	}
	format, err := trace.ParseFormat(formatStr)
	if err != nil {
		return nil, nil, err
	}
	ringSize, err := flags.GetInt("trace-ring-size")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get trace-ring-size flag: %w", err)
	}

	tracer, err := trace.New(trace.Config{
		Level:      level,
		Format:     format,
		OutputPath: output,
		RingSize:   ringSize,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	cmd.SetContext(trace.WithTracer(cmd.Context(), tracer))

	cleanup := func() {
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}
	return tracer, cleanup, nil
}

// dumpTraceOnFailure prints the in-memory ring kept at --trace-level=error.
func dumpTraceOnFailure(cmd *cobra.Command, tracer trace.Tracer) {
	if err := trace.DumpOnFailure(tracer, cmd.ErrOrStderr()); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "trace: dump error: %v\n", err)
	}
}
