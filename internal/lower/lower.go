// Package lower translates a checked AST module into IR.
//
// Each function is walked once, depth first, with an explicit scope stack.
// Storage slots are allocated per declaration and recorded in the symbol
// table so later uses in the same walk load from them. Statements that follow
// a terminator are still visited, in dead mode: scopes are opened and closed,
// declarations are checked and recorded without storage and identifiers are
// resolved, but no instructions or blocks are produced.
package lower

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"golang.org/x/sync/errgroup"

	"lowc/internal/ast"
	"lowc/internal/ir"
	"lowc/internal/symbols"
	"lowc/internal/trace"
)

// Options configures lowering.
type Options struct {
	// Jobs > 1 lowers up to Jobs functions concurrently.
	Jobs int
}

// Module lowers every function of m. The table must hold the scope skeleton
// of m; lowering fills in storage handles. On error no IR is returned.
func Module(ctx context.Context, m *ast.Module, table *symbols.Table, opts Options) (*ir.Module, error) {
	if m == nil {
		return nil, errors.New("lower: nil module")
	}
	if table == nil {
		return nil, errors.New("lower: nil symbol table")
	}
	ctx, span := trace.Start(ctx, trace.ScopePass, "lower")
	defer span.End("")

	funcs := make([]*ir.Func, len(m.Funcs))
	if opts.Jobs > 1 && len(m.Funcs) > 1 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(opts.Jobs)
		for i, fn := range m.Funcs {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				f, err := lowerFunc(gctx, m, fn, table)
				funcs[i] = f
				return err
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i, fn := range m.Funcs {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			f, err := lowerFunc(ctx, m, fn, table)
			if err != nil {
				return nil, err
			}
			funcs[i] = f
		}
	}

	out := &ir.Module{Funcs: make([]*ir.Func, 0, len(funcs))}
	for _, f := range funcs {
		out.Add(f)
	}
	span.WithExtra("funcs", strconv.Itoa(len(out.Funcs)))
	return out, nil
}

func lowerFunc(ctx context.Context, m *ast.Module, fn *ast.Func, table *symbols.Table) (*ir.Func, error) {
	if fn == nil {
		return nil, errors.New("lower: nil function")
	}
	_, span := trace.Start(ctx, trace.ScopeModule, "fn "+fn.Name)
	defer span.End("")

	result, err := resultType(fn.ID, fn.Result)
	if err != nil {
		return nil, fmt.Errorf("function %s: %w", fn.Name, err)
	}

	l := &funcLowerer{
		b:     ir.NewBuilder(ir.NewFunc(fn.Name, result, nil)),
		stack: symbols.NewStack(table),
	}
	if err := l.body(m.ID, fn); err != nil {
		l.stack.Unwind(0)
		return nil, fmt.Errorf("function %s: %w", fn.Name, err)
	}

	if !l.b.Terminated() {
		if result == ir.TypeVoid {
			l.b.ReturnVoid()
		} else {
			l.b.Unreachable()
		}
	}
	f := l.b.Finalize()
	span.WithExtra("blocks", strconv.Itoa(len(f.Blocks))).WithExtra("locals", strconv.Itoa(len(f.Locals)))
	return f, nil
}

type funcLowerer struct {
	b     *ir.Builder
	stack *symbols.Stack
}

func (l *funcLowerer) body(module ast.NodeID, fn *ast.Func) error {
	if _, err := l.stack.Push(symbols.ScopeModule, module); err != nil {
		return err
	}
	if _, err := l.stack.Push(symbols.ScopeFunction, fn.ID); err != nil {
		return err
	}
	l.b.SetBlock(l.b.NewBlock())
	if err := l.stmt(fn.Body); err != nil {
		return err
	}
	if err := l.stack.Pop(fn.ID); err != nil {
		return err
	}
	return l.stack.Pop(module)
}

// live reports whether instructions emitted now would be reachable.
func (l *funcLowerer) live() bool { return !l.b.Terminated() }
