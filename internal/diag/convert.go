package diag

import (
	"errors"
	"io/fs"
	"strings"

	"lowc/internal/ast"
	"lowc/internal/driver"
	"lowc/internal/fold"
	"lowc/internal/lower"
	"lowc/internal/symbols"
)

// FromError turns a pipeline error into diagnostics for file, one per joined
// error. Errors of unknown type get the fallback code.
func FromError(file string, fallback Code, err error) []Diagnostic {
	if err == nil {
		return nil
	}
	var out []Diagnostic
	for _, leaf := range flatten(err, "", fallback) {
		code, node := classify(leaf.err, leaf.fallback)
		out = append(out, Diagnostic{
			Severity: SevError,
			Code:     code,
			Message:  leaf.prefix + leaf.err.Error(),
			File:     file,
			Node:     node,
		})
	}
	return out
}

type leafError struct {
	prefix   string
	err      error
	fallback Code
}

// flatten splits errors.Join trees. A wrapper around a joined error keeps its
// own text as a prefix for each part, and its class becomes their fallback.
func flatten(err error, prefix string, fallback Code) []leafError {
	if multi, ok := err.(interface{ Unwrap() []error }); ok {
		var out []leafError
		for _, e := range multi.Unwrap() {
			out = append(out, flatten(e, prefix, fallback)...)
		}
		return out
	}
	for inner := errors.Unwrap(err); inner != nil; inner = errors.Unwrap(inner) {
		if _, ok := inner.(interface{ Unwrap() []error }); ok {
			head := strings.TrimSuffix(err.Error(), inner.Error())
			outer, _ := classifyWrapper(err, inner, fallback)
			return flatten(inner, prefix+head, outer)
		}
	}
	return []leafError{{prefix: prefix, err: err, fallback: fallback}}
}

// classifyWrapper classifies the chain between err and the joined error
// inner, without looking into inner.
func classifyWrapper(err, inner error, fallback Code) (Code, ast.NodeID) {
	for e := err; e != nil && e != inner; e = errors.Unwrap(e) {
		if _, ok := e.(*driver.ValidationError); ok {
			return IRInvalid, ast.NoNodeID
		}
	}
	return fallback, ast.NoNodeID
}

func classify(err error, fallback Code) (Code, ast.NodeID) {
	var (
		check *symbols.CheckError
		arith *fold.ArithmeticError
		unres *lower.UnresolvedIdentifierError
		unimp *lower.UnimplementedError
		path  *fs.PathError
		inval *driver.ValidationError
		cache *driver.CacheError
	)
	switch {
	case errors.As(err, &check):
		switch check.Kind {
		case symbols.CheckDuplicate:
			return SemDuplicateDecl, check.Node
		case symbols.CheckUnresolved:
			return SemUnresolvedName, check.Node
		case symbols.CheckImmutable:
			return SemAssignToVal, check.Node
		default:
			return SemInvalidTarget, check.Node
		}
	case errors.As(err, &arith):
		return FoldArithmetic, arith.Expr
	case errors.As(err, &unres):
		return LowUnresolvedName, unres.Node
	case errors.As(err, &unimp):
		return LowUnimplemented, unimp.Node
	case errors.As(err, &inval):
		return IRInvalid, ast.NoNodeID
	case errors.As(err, &cache):
		return IOCacheFailed, ast.NoNodeID
	case errors.Is(err, ast.ErrSchema):
		return IODecodeFailed, ast.NoNodeID
	case errors.As(err, &path):
		return IOReadFailed, ast.NoNodeID
	}
	return fallback, ast.NoNodeID
}
