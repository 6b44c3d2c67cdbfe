package driver_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lowc/internal/ast"
	"lowc/internal/diag"
	"lowc/internal/driver"
	"lowc/internal/fold"
	"lowc/internal/observ"
	"lowc/internal/project"
	"lowc/internal/symbols"
	"lowc/internal/version"
)

// val x: Int = 2 + 3 * 4; return x;
func constantReturn() *ast.Module {
	b := ast.NewBuilder()
	return b.Module("demo", b.Func("main", ast.TypeInt, b.Block(
		b.Val("x", ast.TypeInt, b.Binary(ast.BinaryAdd, b.Int(2), b.Binary(ast.BinaryMul, b.Int(3), b.Int(4)))),
		b.Return(b.Ident("x")),
	)))
}

func TestCompile_EndToEnd(t *testing.T) {
	var stages []driver.Stage
	timer := observ.NewTimer()
	res, err := driver.Compile(context.Background(), constantReturn(), driver.Options{
		Fold:     true,
		Simplify: true,
		Timer:    timer,
		OnStage:  func(s driver.Stage) { stages = append(stages, s) },
	})
	require.NoError(t, err)

	want := `fn main() -> i32:
  locals:
    L0: i32 name=x
  bb0:
    ret 14:i32
`
	assert.Equal(t, want, string(res.Output))
	assert.False(t, res.Cached)
	require.NotNil(t, res.IR)
	assert.Equal(t, []driver.Stage{
		driver.StageFold, driver.StageCheck, driver.StageLower,
		driver.StageValidate, driver.StageSimplify, driver.StageRender,
	}, stages)

	names := make([]string, 0)
	for _, p := range timer.Report().Phases {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"fold", "check", "lower", "validate", "simplify", "validate", "render"}, names)
}

func TestCompile_WithoutFoldKeepsArithmetic(t *testing.T) {
	res, err := driver.Compile(context.Background(), constantReturn(), driver.Options{})
	require.NoError(t, err)
	out := string(res.Output)
	assert.Contains(t, out, "mul 3:i32, 4:i32")
	assert.Contains(t, out, "add 2:i32, %0")
}

func TestCompile_EmitAST(t *testing.T) {
	res, err := driver.Compile(context.Background(), constantReturn(), driver.Options{
		Fold: true,
		Emit: project.EmitAST,
	})
	require.NoError(t, err)
	assert.Contains(t, string(res.Output), "14")
	assert.NotContains(t, string(res.Output), "*")
}

func TestCompile_Errors(t *testing.T) {
	b := ast.NewBuilder()
	divZero := b.Module("m", b.Func("main", ast.TypeInt, b.Block(
		b.Return(b.Binary(ast.BinaryDiv, b.Int(1), b.Int(0))),
	)))
	_, err := driver.Compile(context.Background(), divZero, driver.Options{Fold: true})
	require.Error(t, err)
	assert.True(t, errors.Is(err, fold.ErrArithmetic))

	b = ast.NewBuilder()
	unresolved := b.Module("m", b.Func("main", ast.TypeInt, b.Block(
		b.Return(b.Ident("nope")),
	)))
	_, err = driver.Compile(context.Background(), unresolved, driver.Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, symbols.ErrUnresolved))

	_, err = driver.Compile(context.Background(), nil, driver.Options{})
	require.Error(t, err)
}

func TestCompile_CacheHit(t *testing.T) {
	cache, err := driver.OpenDiskCacheAt(t.TempDir())
	require.NoError(t, err)
	opts := driver.Options{Fold: true, Simplify: true, Cache: cache}

	first, err := driver.Compile(context.Background(), constantReturn(), opts)
	require.NoError(t, err)
	require.False(t, first.Cached)
	assert.Empty(t, first.Warnings)

	second, err := driver.Compile(context.Background(), constantReturn(), opts)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Nil(t, second.IR)
	assert.Equal(t, first.Output, second.Output)

	// Different options must not share an entry.
	opts.Simplify = false
	third, err := driver.Compile(context.Background(), constantReturn(), opts)
	require.NoError(t, err)
	assert.False(t, third.Cached)

	require.NoError(t, cache.DropAll())
	opts.Simplify = true
	fourth, err := driver.Compile(context.Background(), constantReturn(), opts)
	require.NoError(t, err)
	assert.False(t, fourth.Cached)
}

func TestCompile_CorruptCacheEntry(t *testing.T) {
	cache, err := driver.OpenDiskCacheAt(t.TempDir())
	require.NoError(t, err)
	opts := driver.Options{Fold: true, Cache: cache}
	key, err := driver.CacheKey(constantReturn(), opts)
	require.NoError(t, err)
	entry := filepath.Join(cache.Dir(), "ir", key.String()+".mp")
	require.NoError(t, os.MkdirAll(filepath.Dir(entry), 0o750))
	require.NoError(t, os.WriteFile(entry, []byte{0xc1}, 0o600))

	res, err := driver.Compile(context.Background(), constantReturn(), opts)
	require.NoError(t, err)
	assert.False(t, res.Cached)
	require.Len(t, res.Warnings, 1)
	var cerr *driver.CacheError
	require.ErrorAs(t, res.Warnings[0], &cerr)
	assert.Equal(t, "read", cerr.Op)
	assert.Contains(t, cerr.Error(), "corrupt entry")

	diags := diag.FromError("demo", diag.UnknownCode, res.Warnings[0])
	require.Len(t, diags, 1)
	assert.Equal(t, diag.IOCacheFailed, diags[0].Code)

	// the entry was rewritten
	again, err := driver.Compile(context.Background(), constantReturn(), opts)
	require.NoError(t, err)
	assert.True(t, again.Cached)
}

func TestCacheKey_Stable(t *testing.T) {
	opts := driver.Options{Fold: true}
	a, err := driver.CacheKey(constantReturn(), opts)
	require.NoError(t, err)
	b, err := driver.CacheKey(constantReturn(), opts)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	opts.Emit = project.EmitAST
	c, err := driver.CacheKey(constantReturn(), opts)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestCompileFile_ProducerWarning(t *testing.T) {
	orig := version.Version
	version.Version = "0.1.0"
	t.Cleanup(func() { version.Version = orig })

	dir := t.TempDir()
	ok := filepath.Join(dir, "ok.last")
	old := filepath.Join(dir, "old.json")
	require.NoError(t, ast.WriteFile(ok, &ast.File{Producer: "lowparse 0.1.2", Module: constantReturn()}))
	require.NoError(t, ast.WriteFile(old, &ast.File{Producer: "lowparse 0.4.0", Module: constantReturn()}))

	res, err := driver.CompileFile(context.Background(), ok, driver.Options{Fold: true})
	require.NoError(t, err)
	assert.Equal(t, ok, res.Path)
	assert.Empty(t, res.Warnings)

	res, err = driver.CompileFile(context.Background(), old, driver.Options{Fold: true})
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	assert.True(t, errors.Is(res.Warnings[0], version.ErrProducer))
	assert.True(t, strings.HasPrefix(res.Warnings[0].Error(), old))

	_, err = driver.CompileFile(context.Background(), filepath.Join(dir, "missing.last"), driver.Options{})
	require.Error(t, err)
}
