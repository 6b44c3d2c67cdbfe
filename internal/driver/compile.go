// Package driver runs the compile pipeline for one AST module:
// fold, scope check, lower, validate, clean up and render.
package driver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"lowc/internal/ast"
	"lowc/internal/fold"
	"lowc/internal/ir"
	"lowc/internal/lower"
	"lowc/internal/observ"
	"lowc/internal/project"
	"lowc/internal/symbols"
	"lowc/internal/trace"
	"lowc/internal/version"
)

// Stage names a pipeline step, reported through Options.OnStage.
type Stage string

const (
	StageDecode   Stage = "decode"
	StageFold     Stage = "fold"
	StageCheck    Stage = "check"
	StageLower    Stage = "lower"
	StageValidate Stage = "validate"
	StageSimplify Stage = "simplify"
	StageRender   Stage = "render"
)

// Options controls one compilation.
type Options struct {
	Fold     bool
	Simplify bool
	Jobs     int
	Emit     string // project.EmitIR or project.EmitAST; empty means IR
	Cache    *DiskCache
	Timer    *observ.Timer
	OnStage  func(Stage)
}

func (o Options) emit() string {
	if o.Emit == "" {
		return project.EmitIR
	}
	return o.Emit
}

func (o Options) stage(s Stage) {
	if o.OnStage != nil {
		o.OnStage(s)
	}
}

// Result is the outcome of a successful compilation.
type Result struct {
	Path   string
	Module *ast.Module // after folding
	IR     *ir.Module  // nil when Cached
	Output []byte
	Cached bool
	// Warnings do not stop compilation.
	Warnings []error
}

// CompileFile decodes the AST file at path and compiles it.
func CompileFile(ctx context.Context, path string, opts Options) (*Result, error) {
	opts.stage(StageDecode)
	done := opts.Timer.Track("decode " + filepath.Base(path))
	f, err := ast.ReadFile(path)
	if err != nil {
		done("failed")
		return nil, err
	}
	done("")

	var warnings []error
	if err := version.CheckProducer(f.Producer); err != nil {
		warnings = append(warnings, fmt.Errorf("%s: %w", path, err))
	}
	res, err := Compile(ctx, f.Module, opts)
	if err != nil {
		return nil, err
	}
	res.Path = path
	res.Warnings = append(warnings, res.Warnings...)
	return res, nil
}

// Compile runs the pipeline on m. The input module is not modified.
func Compile(ctx context.Context, m *ast.Module, opts Options) (res *Result, err error) {
	if m == nil {
		return nil, errors.New("driver: nil module")
	}
	ctx, span := trace.Start(ctx, trace.ScopeModule, "compile "+m.Name)
	defer func() {
		if err != nil {
			span.WithExtra("error", err.Error())
		}
		span.End("")
	}()

	var key project.Digest
	if opts.Cache != nil {
		key, err = CacheKey(m, opts)
		if err != nil {
			return nil, fmt.Errorf("driver: cache key: %w", err)
		}
		var payload DiskPayload
		hit, cerr := opts.Cache.Get(key, &payload)
		res = &Result{Module: m}
		if cerr != nil {
			res.Warnings = append(res.Warnings, cerr)
		}
		if hit {
			trace.Point(ctx, trace.ScopeModule, "cache.hit", key.String()[:12])
			res.Output = payload.Output
			res.Cached = true
			return res, nil
		}
	} else {
		res = &Result{Module: m}
	}

	if opts.Fold {
		opts.stage(StageFold)
		done := opts.Timer.Track("fold")
		folded, ferr := fold.Module(ctx, m)
		if ferr != nil {
			done("failed")
			return nil, ferr
		}
		done("")
		res.Module = folded
	}

	opts.stage(StageCheck)
	done := opts.Timer.Track("check")
	table, err := symbols.Build(res.Module)
	if err != nil {
		done("failed")
		return nil, err
	}
	done(fmt.Sprintf("%d scopes", table.Len()))

	opts.stage(StageLower)
	done = opts.Timer.Track("lower")
	out, err := lower.Module(ctx, res.Module, table, lower.Options{Jobs: opts.Jobs})
	if err != nil {
		done("failed")
		return nil, err
	}
	done(fmt.Sprintf("%d funcs", len(out.Funcs)))

	opts.stage(StageValidate)
	if err := validate(ctx, opts.Timer, out); err != nil {
		return nil, err
	}

	if opts.Simplify {
		opts.stage(StageSimplify)
		done = opts.Timer.Track("simplify")
		_, sspan := trace.Start(ctx, trace.ScopePass, "simplify")
		before, after := 0, 0
		for _, f := range out.Funcs {
			before += len(f.Blocks)
			ir.ForwardStores(f)
			ir.SimplifyCFG(f)
			after += len(f.Blocks)
		}
		sspan.WithExtra("blocks", fmt.Sprintf("%d->%d", before, after)).End("")
		done(fmt.Sprintf("%d -> %d blocks", before, after))
		if err := validate(ctx, opts.Timer, out); err != nil {
			return nil, fmt.Errorf("after simplify: %w", err)
		}
	}
	res.IR = out

	opts.stage(StageRender)
	done = opts.Timer.Track("render")
	var buf bytes.Buffer
	switch opts.emit() {
	case project.EmitAST:
		err = ast.Dump(&buf, res.Module)
	case project.EmitIR:
		err = ir.Dump(&buf, out)
	default:
		err = fmt.Errorf("driver: unknown emit mode %q", opts.Emit)
	}
	if err != nil {
		done("failed")
		return nil, err
	}
	done("")
	res.Output = buf.Bytes()

	if opts.Cache != nil {
		payload := &DiskPayload{
			Name:    m.Name,
			Emit:    opts.emit(),
			Version: version.Version,
			Output:  res.Output,
		}
		if perr := opts.Cache.Put(key, payload); perr != nil {
			res.Warnings = append(res.Warnings, &CacheError{Op: "write", Key: key, Err: perr})
		}
	}
	return res, nil
}

// ValidationError wraps IR validator failures.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string { return "invalid IR: " + e.Err.Error() }

func (e *ValidationError) Unwrap() error { return e.Err }

func validate(ctx context.Context, timer *observ.Timer, m *ir.Module) error {
	done := timer.Track("validate")
	_, span := trace.Start(ctx, trace.ScopePass, "validate")
	err := ir.Validate(m)
	if err != nil {
		span.WithExtra("error", firstLine(err.Error()))
		done("failed")
	} else {
		done("")
	}
	span.End("")
	if err != nil {
		return &ValidationError{Err: err}
	}
	return nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
