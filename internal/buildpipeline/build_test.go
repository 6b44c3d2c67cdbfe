package buildpipeline_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lowc/internal/ast"
	"lowc/internal/buildpipeline"
	"lowc/internal/diag"
	"lowc/internal/driver"
)

type recorder struct {
	mu     sync.Mutex
	events []buildpipeline.Event
}

func (r *recorder) OnEvent(e buildpipeline.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) forFile(name string) []buildpipeline.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []buildpipeline.Event
	for _, e := range r.events {
		if e.File == name {
			out = append(out, e)
		}
	}
	return out
}

func writeModule(t *testing.T, path string, m *ast.Module) {
	t.Helper()
	require.NoError(t, ast.WriteFile(path, &ast.File{Producer: "test", Module: m}))
}

func returns(name string, v int32) *ast.Module {
	b := ast.NewBuilder()
	return b.Module(name, b.Func("main", ast.TypeInt, b.Block(
		b.Return(b.Binary(ast.BinaryAdd, b.Int(v), b.Int(1))),
	)))
}

func TestBuild_WritesOutputs(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	a := filepath.Join(dir, "a.last")
	bJSON := filepath.Join(dir, "b.json")
	writeModule(t, a, returns("a", 1))
	writeModule(t, bJSON, returns("b", 41))

	rec := &recorder{}
	res, err := buildpipeline.Build(context.Background(), &buildpipeline.Request{
		Files:    []string{a, bJSON},
		BaseDir:  dir,
		OutDir:   out,
		Jobs:     2,
		Compile:  driver.Options{Fold: true, Simplify: true},
		Progress: rec,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Diagnostics.Len())
	assert.Equal(t, []string{filepath.Join(out, "a.ir"), filepath.Join(out, "b.ir")}, res.Outputs())
	assert.True(t, res.Timings.Has(buildpipeline.StageBuild))

	data, err := os.ReadFile(filepath.Join(out, "b.ir"))
	require.NoError(t, err)
	assert.Equal(t, "fn main() -> i32:\n  bb0:\n    ret 42:i32\n", string(data))

	events := rec.forFile("a.last")
	require.NotEmpty(t, events)
	assert.Equal(t, buildpipeline.StatusQueued, events[0].Status)
	last := events[len(events)-1]
	assert.Equal(t, buildpipeline.StatusDone, last.Status)
	assert.Equal(t, buildpipeline.StageWrite, last.Stage)

	var stages []buildpipeline.Stage
	for _, e := range events {
		if e.Status == buildpipeline.StatusWorking {
			stages = append(stages, e.Stage)
		}
	}
	assert.Equal(t, []buildpipeline.Stage{
		buildpipeline.StageDecode, buildpipeline.StageFold, buildpipeline.StageCheck,
		buildpipeline.StageLower, buildpipeline.StageValidate, buildpipeline.StageSimplify,
		buildpipeline.StageRender, buildpipeline.StageWrite,
	}, stages)
}

func TestBuild_FailureDoesNotStopOthers(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.last")
	bad := filepath.Join(dir, "bad.last")
	writeModule(t, good, returns("good", 1))

	b := ast.NewBuilder()
	writeModule(t, bad, b.Module("bad", b.Func("main", ast.TypeInt, b.Block(
		b.Return(b.Binary(ast.BinaryMod, b.Int(1), b.Int(0))),
	))))

	rec := &recorder{}
	res, err := buildpipeline.Build(context.Background(), &buildpipeline.Request{
		Files:    []string{good, bad},
		BaseDir:  dir,
		OutDir:   filepath.Join(dir, "out"),
		Compile:  driver.Options{Fold: true},
		Progress: rec,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, buildpipeline.ErrBuildFailed))

	require.NoError(t, res.Files[0].Err)
	require.Error(t, res.Files[1].Err)
	assert.NotEmpty(t, res.Files[0].Output)
	assert.Empty(t, res.Files[1].Output)

	items := res.Diagnostics.Items()
	require.Len(t, items, 1)
	assert.Equal(t, diag.FoldArithmetic, items[0].Code)
	assert.Equal(t, "bad.last", items[0].File)

	events := rec.forFile("bad.last")
	last := events[len(events)-1]
	assert.Equal(t, buildpipeline.StatusError, last.Status)
	assert.Equal(t, buildpipeline.StageFold, last.Stage)
}

func TestBuild_ProducerWarning(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "old.last")
	require.NoError(t, ast.WriteFile(path, &ast.File{Producer: "lowparse 99.0.0", Module: returns("old", 1)}))

	res, err := buildpipeline.Build(context.Background(), &buildpipeline.Request{
		Files:   []string{path},
		BaseDir: dir,
	})
	require.NoError(t, err)
	items := res.Diagnostics.Items()
	require.Len(t, items, 1)
	assert.Equal(t, diag.SevWarning, items[0].Severity)
	assert.Equal(t, diag.PrjVersionClash, items[0].Code)
	assert.Empty(t, res.Outputs())
}

func TestBuild_ErrorsOutrankWarnings(t *testing.T) {
	dir := t.TempDir()
	stale := filepath.Join(dir, "a.last")
	require.NoError(t, ast.WriteFile(stale, &ast.File{Producer: "parser 9.0.0", Module: returns("a", 1)}))
	bad := filepath.Join(dir, "b.last")
	b := ast.NewBuilder()
	writeModule(t, bad, b.Module("b", b.Func("main", ast.TypeInt, b.Block(
		b.Return(b.Ident("ghost")),
	))))

	res, err := buildpipeline.Build(context.Background(), &buildpipeline.Request{
		Files:          []string{stale, bad},
		BaseDir:        dir,
		MaxDiagnostics: 1,
	})
	require.ErrorIs(t, err, buildpipeline.ErrBuildFailed)
	assert.True(t, res.Diagnostics.HasErrors())
	assert.Equal(t, 1, res.Diagnostics.Dropped())

	items := res.Diagnostics.Items()
	require.Len(t, items, 1)
	assert.Equal(t, diag.SemUnresolvedName, items[0].Code)
	assert.Equal(t, "b.last", items[0].File)

	require.Len(t, res.Files[0].Warnings, 1)
	assert.Equal(t, diag.PrjVersionClash, res.Files[0].Warnings[0].Code)
}

func TestBuild_Werror(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "old.last")
	require.NoError(t, ast.WriteFile(path, &ast.File{Producer: "lowparse 99.0.0", Module: returns("old", 1)}))

	res, err := buildpipeline.Build(context.Background(), &buildpipeline.Request{
		Files:   []string{path},
		BaseDir: dir,
		Werror:  true,
	})
	require.ErrorIs(t, err, buildpipeline.ErrBuildFailed)
	assert.Contains(t, err.Error(), "warnings treated as errors")
	require.NoError(t, res.Files[0].Err)

	items := res.Diagnostics.Items()
	require.Len(t, items, 1)
	assert.Equal(t, diag.SevError, items[0].Severity)
	assert.Equal(t, diag.PrjVersionClash, items[0].Code)
}

func TestBuild_RequestErrors(t *testing.T) {
	_, err := buildpipeline.Build(context.Background(), nil)
	require.Error(t, err)

	_, err = buildpipeline.Build(context.Background(), &buildpipeline.Request{})
	require.Error(t, err)

	dir := t.TempDir()
	_, err = buildpipeline.Build(context.Background(), &buildpipeline.Request{
		Files:  []string{filepath.Join(dir, "x.last"), filepath.Join(dir, "x.json")},
		OutDir: filepath.Join(dir, "out"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "both write")
}

func TestBuild_Cancelled(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.last")
	writeModule(t, path, returns("a", 1))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := buildpipeline.Build(ctx, &buildpipeline.Request{Files: []string{path}})
	require.ErrorIs(t, err, context.Canceled)
}
