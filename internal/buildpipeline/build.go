// Package buildpipeline compiles a set of AST files concurrently and writes
// one rendered output per input.
package buildpipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"lowc/internal/diag"
	"lowc/internal/driver"
	"lowc/internal/project"
	"lowc/internal/trace"
	"lowc/internal/version"
)

// Request configures a build.
type Request struct {
	Files []string
	// BaseDir shortens file names in events and diagnostics.
	BaseDir string
	// OutDir receives <name>.ir (or <name>.ast); empty skips writing.
	OutDir string
	// Jobs bounds how many files compile at once; 0 means one per CPU.
	Jobs int
	// Compile is passed to the driver for every file. Its Timer is only
	// used when a single file is built.
	Compile  driver.Options
	Progress ProgressSink
	// MaxDiagnostics caps the diagnostic bag; 0 uses the bag default.
	MaxDiagnostics int
	// Werror reports warnings as errors and fails the build on them.
	Werror bool
}

// FileResult is the outcome for one input.
type FileResult struct {
	File     string // as given in Request.Files
	Display  string
	Output   string // written path, empty when not written
	Rendered []byte
	Cached   bool
	Elapsed  time.Duration
	Err      error
	Warnings []diag.Diagnostic
}

// Result collects per-file outcomes in input order.
type Result struct {
	Files       []FileResult
	Diagnostics *diag.Bag
	Timings     Timings
}

// ErrBuildFailed is returned when at least one file failed to compile.
var ErrBuildFailed = errors.New("build failed")

// Build compiles every file in req. A failing file does not stop the others;
// the returned error wraps ErrBuildFailed when any file failed.
func Build(ctx context.Context, req *Request) (Result, error) {
	var result Result
	if req == nil {
		return result, fmt.Errorf("missing build request")
	}
	result.Diagnostics = diag.NewBag(req.MaxDiagnostics)
	if len(req.Files) == 0 {
		return result, fmt.Errorf("no input files")
	}

	outputs, err := outputPaths(req)
	if err != nil {
		return result, err
	}
	if req.OutDir != "" {
		if err := os.MkdirAll(req.OutDir, 0o750); err != nil {
			return result, fmt.Errorf("failed to create output dir: %w", err)
		}
	}

	ctx, span := trace.Start(ctx, trace.ScopeDriver, "build")
	span.WithExtra("files", fmt.Sprint(len(req.Files)))
	defer span.End("")

	display := make([]string, len(req.Files))
	for i, f := range req.Files {
		display[i] = DisplayName(f, req.BaseDir)
	}
	emitQueued(req.Progress, display)
	emit(req.Progress, Event{Stage: StageBuild, Status: StatusWorking})

	jobs := req.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	result.Files = make([]FileResult, len(req.Files))

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, file := range req.Files {
		g.Go(func() error {
			result.Files[i] = buildFile(gctx, req, file, display[i], outputs[i])
			return nil
		})
	}
	_ = g.Wait()
	result.Timings.Set(StageBuild, time.Since(start))

	// errors go into the bag before warnings so a full bag keeps them
	failed := 0
	for i := range result.Files {
		fr := &result.Files[i]
		if fr.Err == nil {
			continue
		}
		failed++
		for _, d := range diag.FromError(fr.Display, diag.UnknownCode, fr.Err) {
			result.Diagnostics.Add(d)
		}
	}
	for i := range result.Files {
		for _, d := range result.Files[i].Warnings {
			result.Diagnostics.Add(d)
		}
	}
	result.Diagnostics.Sort()
	result.Diagnostics.Dedup()

	if err := ctx.Err(); err != nil {
		emit(req.Progress, Event{Stage: StageBuild, Status: StatusError, Err: err})
		return result, err
	}
	if failed == 0 && req.Werror && result.Diagnostics.HasErrors() {
		err := fmt.Errorf("%w: warnings treated as errors", ErrBuildFailed)
		emit(req.Progress, Event{Stage: StageBuild, Status: StatusError, Err: err, Elapsed: time.Since(start)})
		return result, err
	}
	if failed > 0 {
		err := fmt.Errorf("%w: %d of %d files", ErrBuildFailed, failed, len(req.Files))
		span.WithExtra("failed", fmt.Sprint(failed))
		emit(req.Progress, Event{Stage: StageBuild, Status: StatusError, Err: err, Elapsed: time.Since(start)})
		return result, err
	}
	emit(req.Progress, Event{Stage: StageBuild, Status: StatusDone, Elapsed: time.Since(start)})
	return result, nil
}

func buildFile(ctx context.Context, req *Request, file, display, output string) FileResult {
	fr := FileResult{File: file, Display: display}
	start := time.Now()
	fail := func(stage Stage, err error) FileResult {
		fr.Err = err
		fr.Elapsed = time.Since(start)
		emit(req.Progress, Event{File: display, Stage: stage, Status: StatusError, Err: err, Elapsed: fr.Elapsed})
		return fr
	}
	if err := ctx.Err(); err != nil {
		return fail(StageDecode, err)
	}

	opts := req.Compile
	if len(req.Files) > 1 {
		opts.Timer = nil
	}
	current := StageDecode
	opts.OnStage = func(s driver.Stage) {
		current = Stage(s)
		emit(req.Progress, Event{File: display, Stage: current, Status: StatusWorking})
	}
	res, err := driver.CompileFile(ctx, file, opts)
	if err != nil {
		return fail(current, err)
	}
	fr.Cached = res.Cached
	fr.Rendered = res.Output
	for _, w := range res.Warnings {
		for _, d := range diag.FromError(display, warningCode(w), w) {
			d.Severity = diag.SevWarning
			if req.Werror {
				d.Severity = diag.SevError
			}
			fr.Warnings = append(fr.Warnings, d)
		}
	}

	if output != "" {
		emit(req.Progress, Event{File: display, Stage: StageWrite, Status: StatusWorking})
		if err := os.WriteFile(output, res.Output, 0o600); err != nil {
			return fail(StageWrite, fmt.Errorf("failed to write %q: %w", output, err))
		}
		fr.Output = output
	}
	fr.Elapsed = time.Since(start)
	emit(req.Progress, Event{File: display, Stage: StageWrite, Status: StatusDone, Elapsed: fr.Elapsed, Cached: fr.Cached})
	return fr
}

// warningCode picks the fallback code for a driver warning; cache failures
// are classified by diag itself.
func warningCode(w error) diag.Code {
	if errors.Is(w, version.ErrProducer) {
		return diag.PrjVersionClash
	}
	return diag.UnknownCode
}

// outputPaths maps every input to OutDir/<stem>.<emit>, rejecting inputs that
// would overwrite each other.
func outputPaths(req *Request) ([]string, error) {
	out := make([]string, len(req.Files))
	if req.OutDir == "" {
		return out, nil
	}
	ext := ".ir"
	if req.Compile.Emit == project.EmitAST {
		ext = ".ast"
	}
	owner := make(map[string]string, len(req.Files))
	for i, f := range req.Files {
		stem := strings.TrimSuffix(filepath.Base(f), filepath.Ext(f))
		p := filepath.Join(req.OutDir, stem+ext)
		if prev, ok := owner[p]; ok {
			return nil, fmt.Errorf("inputs %q and %q both write %q", prev, f, p)
		}
		owner[p] = f
		out[i] = p
	}
	return out, nil
}

// DisplayName shortens file relative to baseDir when it lies below it.
func DisplayName(file, baseDir string) string {
	p := filepath.Clean(file)
	base := strings.TrimSpace(baseDir)
	if base != "" {
		if abs, err := filepath.Abs(base); err == nil {
			base = abs
		}
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
		if rel, err := filepath.Rel(base, p); err == nil && rel != "." && !strings.HasPrefix(rel, "..") {
			p = rel
		}
	}
	return filepath.ToSlash(p)
}

// Outputs lists the written paths, sorted.
func (r Result) Outputs() []string {
	var out []string
	for _, f := range r.Files {
		if f.Output != "" {
			out = append(out, f.Output)
		}
	}
	sort.Strings(out)
	return out
}
