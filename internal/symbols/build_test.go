package symbols_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lowc/internal/ast"
	"lowc/internal/ir"
	"lowc/internal/symbols"
)

func TestBuildSkeleton(t *testing.T) {
	b := ast.NewBuilder()
	inner := b.Block(b.Val("y", ast.TypeBool, b.Bool(true)))
	body := b.Block(
		b.Var("x", ast.TypeInt, b.Int(5)),
		b.While(b.Binary(ast.BinaryLt, b.Ident("x"), b.Int(10)), inner),
		b.Return(b.Ident("x")),
	)
	fn := b.Func("main", ast.TypeInt, body)
	m := b.Module("demo", fn)

	table, err := symbols.Build(m)
	require.NoError(t, err)
	require.NoError(t, table.Validate())
	assert.Equal(t, 4, table.Len())

	fnScope := table.Scope(fn.ID)
	require.NotNil(t, fnScope)
	assert.Equal(t, symbols.ScopeFunction, fnScope.Kind)
	assert.Equal(t, m.ID, fnScope.Parent)

	bodyScope := table.Scope(body.ID)
	require.NotNil(t, bodyScope)
	require.Len(t, bodyScope.Bindings, 1)
	assert.Equal(t, "x", bodyScope.Bindings[0].Name)

	x, ok := bodyScope.Lookup("x")
	require.True(t, ok)
	assert.True(t, x.Mutable)
	assert.Equal(t, ir.NoLocalID, x.Storage)

	innerScope := table.Scope(inner.ID)
	require.NotNil(t, innerScope)
	assert.Equal(t, body.ID, innerScope.Parent)
	y, ok := innerScope.Lookup("y")
	require.True(t, ok)
	assert.False(t, y.Mutable)
}

func TestBuildReportsProblems(t *testing.T) {
	tests := []struct {
		name  string
		build func(b *ast.Builder) *ast.Stmt
		want  error
	}{
		{
			name: "duplicate",
			build: func(b *ast.Builder) *ast.Stmt {
				return b.Block(b.Var("x", ast.TypeInt, nil), b.Val("x", ast.TypeInt, b.Int(1)))
			},
			want: symbols.ErrDuplicate,
		},
		{
			name: "unresolved",
			build: func(b *ast.Builder) *ast.Stmt {
				return b.Block(b.Return(b.Ident("nope")))
			},
			want: symbols.ErrUnresolved,
		},
		{
			name: "use_before_declaration",
			build: func(b *ast.Builder) *ast.Stmt {
				return b.Block(b.Assign(b.Ident("x"), b.Int(1)), b.Var("x", ast.TypeInt, nil))
			},
			want: symbols.ErrUnresolved,
		},
		{
			name: "self_reference",
			build: func(b *ast.Builder) *ast.Stmt {
				return b.Block(b.Val("x", ast.TypeInt, b.Ident("x")))
			},
			want: symbols.ErrUnresolved,
		},
		{
			name: "assign_to_val",
			build: func(b *ast.Builder) *ast.Stmt {
				return b.Block(b.Val("x", ast.TypeInt, b.Int(1)), b.Assign(b.Ident("x"), b.Int(2)))
			},
			want: symbols.ErrImmutable,
		},
		{
			name: "invalid_target",
			build: func(b *ast.Builder) *ast.Stmt {
				return b.Block(b.Assign(b.Int(1), b.Int(2)))
			},
			want: symbols.ErrInvalidTarget,
		},
		{
			name: "sibling_scope",
			build: func(b *ast.Builder) *ast.Stmt {
				return b.Block(
					b.Block(b.Var("x", ast.TypeInt, nil)),
					b.Block(b.Assign(b.Ident("x"), b.Int(1))),
				)
			},
			want: symbols.ErrUnresolved,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := ast.NewBuilder()
			m := b.Module("demo", b.Func("main", ast.TypeUnit, tt.build(b)))

			table, err := symbols.Build(m)
			require.Error(t, err)
			assert.Nil(t, table)
			assert.ErrorIs(t, err, tt.want)

			var ce *symbols.CheckError
			require.True(t, errors.As(err, &ce))
			assert.True(t, ce.Node.IsValid())
		})
	}
}

func TestBuildCollectsEveryProblem(t *testing.T) {
	b := ast.NewBuilder()
	m := b.Module("demo", b.Func("main", ast.TypeUnit, b.Block(
		b.Return(b.Binary(ast.BinaryAdd, b.Ident("a"), b.Ident("b"))),
	)))

	_, err := symbols.Build(m)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"a"`)
	assert.Contains(t, err.Error(), `"b"`)
}
