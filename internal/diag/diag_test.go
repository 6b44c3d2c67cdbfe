package diag_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lowc/internal/ast"
	"lowc/internal/diag"
	"lowc/internal/driver"
	"lowc/internal/fold"
	"lowc/internal/lower"
	"lowc/internal/symbols"
)

func TestFromErrorClassifies(t *testing.T) {
	err := errors.Join(
		&symbols.CheckError{Kind: symbols.CheckImmutable, Name: "x", Node: 4, Scope: 2},
		fmt.Errorf("function main: %w", &fold.ArithmeticError{Op: ast.BinaryDiv, Left: 1, Right: 0, Expr: 9}),
		&lower.UnimplementedError{Feature: "storage of type String", Node: 3},
		errors.New("something else"),
	)

	diags := diag.FromError("demo.last", diag.IRInvalid, err)
	require.Len(t, diags, 4)

	assert.Equal(t, diag.SemAssignToVal, diags[0].Code)
	assert.Equal(t, ast.NodeID(4), diags[0].Node)
	assert.Equal(t, diag.FoldArithmetic, diags[1].Code)
	assert.Equal(t, ast.NodeID(9), diags[1].Node)
	assert.Equal(t, diag.LowUnimplemented, diags[2].Code)
	assert.Equal(t, diag.IRInvalid, diags[3].Code)
	for _, d := range diags {
		assert.Equal(t, "demo.last", d.File)
		assert.Equal(t, diag.SevError, d.Severity)
	}
}

func TestFromErrorKeepsWrapperPrefix(t *testing.T) {
	err := fmt.Errorf("function f: %w", errors.Join(errors.New("bb0: unterminated block"), errors.New("bb1: unterminated block")))

	diags := diag.FromError("", diag.IRInvalid, err)
	require.Len(t, diags, 2)
	assert.Equal(t, "function f: bb0: unterminated block", diags[0].Message)
	assert.Equal(t, "function f: bb1: unterminated block", diags[1].Message)
}

func TestBagLimitSortDedup(t *testing.T) {
	bag := diag.NewBag(3)
	assert.True(t, bag.Add(diag.Diagnostic{Severity: diag.SevError, Code: diag.LowUnimplemented, File: "b", Message: "m"}))
	assert.True(t, bag.Add(diag.Diagnostic{Severity: diag.SevWarning, Code: diag.IRInvalid, File: "a", Message: "m"}))
	assert.True(t, bag.Add(diag.Diagnostic{Severity: diag.SevError, Code: diag.LowUnimplemented, File: "b", Message: "m"}))
	assert.False(t, bag.Add(diag.Diagnostic{Severity: diag.SevWarning, File: "c"}))
	assert.Equal(t, 1, bag.Dropped())
	assert.True(t, bag.HasErrors())

	bag.Sort()
	bag.Dedup()
	items := bag.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].File)
	assert.Equal(t, "b", items[1].File)
}

func TestBagKeepsErrorsOverWarnings(t *testing.T) {
	bag := diag.NewBag(1)
	assert.True(t, bag.Add(diag.Diagnostic{Severity: diag.SevWarning, Code: diag.PrjVersionClash, File: "a"}))
	assert.False(t, bag.HasErrors())

	assert.True(t, bag.Add(diag.Diagnostic{Severity: diag.SevError, Code: diag.SemUnresolvedName, File: "b"}))
	assert.False(t, bag.Add(diag.Diagnostic{Severity: diag.SevWarning, File: "c"}))
	assert.False(t, bag.Add(diag.Diagnostic{Severity: diag.SevError, File: "d"}))

	assert.Equal(t, 3, bag.Dropped())
	assert.True(t, bag.HasErrors())
	items := bag.Items()
	require.Len(t, items, 1)
	assert.Equal(t, diag.SemUnresolvedName, items[0].Code)
}

func TestRenderPlain(t *testing.T) {
	var sb strings.Builder
	err := diag.Render(&sb, []diag.Diagnostic{{
		Severity: diag.SevError,
		Code:     diag.SemDuplicateDecl,
		Message:  "duplicate declaration \"x\"",
		File:     "demo.json",
		Node:     7,
		Notes:    []string{"first declared here"},
	}}, false)
	require.NoError(t, err)
	assert.Equal(t, "demo.json#7: ERROR SEM2001 duplicate declaration \"x\"\n    note: first declared here\n", sb.String())
}

func TestFromErrorValidationWrapper(t *testing.T) {
	inner := errors.Join(
		errors.New("function f: bb0: unterminated block"),
		errors.New("function f: bb1: unknown target bb7"),
	)
	err := fmt.Errorf("a.last: %w", &driver.ValidationError{Err: inner})

	diags := diag.FromError("a.last", diag.UnknownCode, err)
	require.Len(t, diags, 2)
	for _, d := range diags {
		assert.Equal(t, diag.IRInvalid, d.Code)
		assert.True(t, strings.HasPrefix(d.Message, "a.last: invalid IR: function f: "), d.Message)
	}
}
