package symbols

import (
	"errors"
	"fmt"

	"lowc/internal/ast"
	"lowc/internal/ir"
)

// Build creates the scope skeleton for m: one module scope, one scope per
// function and one per block statement, each holding its declared names with
// unfilled storage. While walking it rejects duplicate declarations,
// identifiers used before or without a declaration, assignment to a val and
// assignment targets that are not identifiers. All problems are reported
// together.
func Build(m *ast.Module) (*Table, error) {
	if m == nil {
		return nil, errors.New("symbols: nil module")
	}
	t := NewTable()
	c := &checker{stack: NewStack(t)}
	if _, err := c.stack.Push(ScopeModule, m.ID); err != nil {
		return nil, err
	}
	for _, fn := range m.Funcs {
		if err := c.fn(fn); err != nil {
			return nil, err
		}
	}
	if len(c.errs) > 0 {
		return nil, errors.Join(c.errs...)
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("symbols: inconsistent table: %w", err)
	}
	return t, nil
}

type checker struct {
	stack *Stack
	errs  []error
}

func (c *checker) report(kind CheckKind, name string, node ast.NodeID) {
	scope := ast.NoNodeID
	if top := c.stack.Top(); top != nil {
		scope = top.ID
	}
	c.errs = append(c.errs, &CheckError{Kind: kind, Name: name, Node: node, Scope: scope})
}

// fn and stmt only return structural errors; semantic problems are collected.
func (c *checker) fn(fn *ast.Func) error {
	if fn == nil {
		return errors.New("symbols: nil function")
	}
	if _, err := c.stack.Push(ScopeFunction, fn.ID); err != nil {
		return fmt.Errorf("function %s: %w", fn.Name, err)
	}
	if err := c.stmt(fn.Body); err != nil {
		return fmt.Errorf("function %s: %w", fn.Name, err)
	}
	return c.stack.Pop(fn.ID)
}

func (c *checker) stmt(s *ast.Stmt) error {
	if s == nil {
		return nil
	}
	switch s.Kind {
	case ast.StmtBlock:
		if _, err := c.stack.Push(ScopeBlock, s.ID); err != nil {
			return err
		}
		for _, child := range s.Block.Stmts {
			if err := c.stmt(child); err != nil {
				return err
			}
		}
		return c.stack.Pop(s.ID)
	case ast.StmtVar, ast.StmtVal:
		c.expr(s.Decl.Value)
		_, err := c.stack.Declare(s.Decl.Name, s.Kind == ast.StmtVar, s.Decl.Type, ir.NoLocalID)
		var ce *CheckError
		if errors.As(err, &ce) {
			c.report(ce.Kind, s.Decl.Name, s.ID)
		} else if err != nil {
			return err
		}
	case ast.StmtAssign:
		c.target(s.Assign.Target)
		c.expr(s.Assign.Value)
	case ast.StmtReturn:
		c.expr(s.Return.Value)
	case ast.StmtIf:
		c.expr(s.If.Cond)
		if err := c.stmt(s.If.Then); err != nil {
			return err
		}
		return c.stmt(s.If.Else)
	case ast.StmtWhile:
		c.expr(s.While.Cond)
		return c.stmt(s.While.Body)
	}
	return nil
}

func (c *checker) target(e *ast.Expr) {
	if e == nil {
		return
	}
	if e.Kind != ast.ExprIdent {
		c.report(CheckInvalidTarget, "", e.ID)
		c.expr(e)
		return
	}
	b, _, ok := c.stack.Resolve(e.Name)
	switch {
	case !ok:
		c.report(CheckUnresolved, e.Name, e.ID)
	case !b.Mutable:
		c.report(CheckImmutable, e.Name, e.ID)
	}
}

func (c *checker) expr(e *ast.Expr) {
	if e == nil {
		return
	}
	switch e.Kind {
	case ast.ExprIdent:
		if _, _, ok := c.stack.Resolve(e.Name); !ok {
			c.report(CheckUnresolved, e.Name, e.ID)
		}
	case ast.ExprUnary:
		c.expr(e.Unary.Operand)
	case ast.ExprBinary:
		c.expr(e.Binary.Left)
		c.expr(e.Binary.Right)
	}
}
