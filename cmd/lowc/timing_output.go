package main

import (
	"fmt"
	"io"
	"time"

	"lowc/internal/buildpipeline"
	"lowc/internal/observ"
)

// printBuildTimings prints the phase table for single-file builds and a
// per-file list otherwise.
func printBuildTimings(out io.Writer, res buildpipeline.Result, timer *observ.Timer) {
	if out == nil {
		return
	}
	if len(res.Files) == 1 && timer != nil {
		fmt.Fprint(out, timer.Summary())
		return
	}
	for _, f := range res.Files {
		note := ""
		switch {
		case f.Err != nil:
			note = "  // failed"
		case f.Cached:
			note = "  // cached"
		}
		fmt.Fprintf(out, "%s %.1f ms%s\n", f.Display, toMillis(f.Elapsed), note)
	}
	if res.Timings.Has(buildpipeline.StageBuild) {
		fmt.Fprintf(out, "built %.1f ms\n", toMillis(res.Timings.Duration(buildpipeline.StageBuild)))
	}
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
