// Package fold evaluates statically known parts of an AST.
//
// Folding is a pure rebuild: the input tree is never modified and the result
// shares no mutable nodes with it. It needs no symbol information.
package fold

import (
	"context"
	"fmt"

	"lowc/internal/ast"
	"lowc/internal/trace"
)

// Module folds every function of m.
func Module(ctx context.Context, m *ast.Module) (*ast.Module, error) {
	if m == nil {
		return nil, nil
	}
	ctx, span := trace.Start(ctx, trace.ScopePass, "fold")
	defer span.End("")

	out := &ast.Module{ID: m.ID, Name: m.Name, Funcs: make([]*ast.Func, 0, len(m.Funcs))}
	for _, fn := range m.Funcs {
		folded, err := Func(ctx, fn)
		if err != nil {
			return nil, fmt.Errorf("function %s: %w", fn.Name, err)
		}
		out.Funcs = append(out.Funcs, folded)
	}
	return out, nil
}

// Func folds one function. A body that folds away entirely becomes an empty
// block.
func Func(ctx context.Context, fn *ast.Func) (*ast.Func, error) {
	if fn == nil {
		return nil, nil
	}
	f := folder{ctx: ctx}
	body, err := f.stmt(fn.Body)
	if err != nil {
		return nil, err
	}
	return &ast.Func{ID: fn.ID, Name: fn.Name, Result: fn.Result, Body: f.orEmpty(body, fn.Body)}, nil
}

// Expr folds a single expression.
func Expr(ctx context.Context, e *ast.Expr) (*ast.Expr, error) {
	return folder{ctx: ctx}.expr(e)
}

type folder struct {
	ctx context.Context
}

// orEmpty substitutes an empty block, keyed by the original node, when s
// folded to nothing.
func (f folder) orEmpty(s, orig *ast.Stmt) *ast.Stmt {
	if s != nil || orig == nil {
		return s
	}
	return &ast.Stmt{ID: orig.ID, Kind: ast.StmtBlock, Block: ast.BlockStmt{Stmts: []*ast.Stmt{}}}
}

// stmt returns nil when s folds to nothing.
func (f folder) stmt(s *ast.Stmt) (*ast.Stmt, error) {
	if s == nil {
		return nil, nil
	}
	switch s.Kind {
	case ast.StmtBlock:
		stmts := make([]*ast.Stmt, 0, len(s.Block.Stmts))
		for _, child := range s.Block.Stmts {
			folded, err := f.stmt(child)
			if err != nil {
				return nil, err
			}
			if folded != nil {
				stmts = append(stmts, folded)
			}
		}
		return &ast.Stmt{ID: s.ID, Kind: ast.StmtBlock, Block: ast.BlockStmt{Stmts: stmts}}, nil

	case ast.StmtVar, ast.StmtVal:
		value, err := f.expr(s.Decl.Value)
		if err != nil {
			return nil, err
		}
		return &ast.Stmt{ID: s.ID, Kind: s.Kind, Decl: ast.DeclStmt{Name: s.Decl.Name, Type: s.Decl.Type, Value: value}}, nil

	case ast.StmtAssign:
		target, err := f.expr(s.Assign.Target)
		if err != nil {
			return nil, err
		}
		value, err := f.expr(s.Assign.Value)
		if err != nil {
			return nil, err
		}
		return &ast.Stmt{ID: s.ID, Kind: ast.StmtAssign, Assign: ast.AssignStmt{Target: target, Value: value}}, nil

	case ast.StmtReturn:
		value, err := f.expr(s.Return.Value)
		if err != nil {
			return nil, err
		}
		return &ast.Stmt{ID: s.ID, Kind: ast.StmtReturn, Return: ast.ReturnStmt{Value: value}}, nil

	case ast.StmtIf:
		return f.ifStmt(s)

	case ast.StmtWhile:
		cond, err := f.expr(s.While.Cond)
		if err != nil {
			return nil, err
		}
		body, err := f.stmt(s.While.Body)
		if err != nil {
			return nil, err
		}
		return &ast.Stmt{ID: s.ID, Kind: ast.StmtWhile, While: ast.WhileStmt{Cond: cond, Body: f.orEmpty(body, s.While.Body)}}, nil

	default:
		return nil, fmt.Errorf("fold: unknown statement kind %s (node %d)", s.Kind, s.ID)
	}
}

func (f folder) ifStmt(s *ast.Stmt) (*ast.Stmt, error) {
	cond, err := f.expr(s.If.Cond)
	if err != nil {
		return nil, err
	}
	if cond.IsLiteral() && cond.Kind == ast.ExprBool {
		taken, dropped := s.If.Then, s.If.Else
		if !cond.BoolValue {
			taken, dropped = dropped, taken
		}
		if dropped != nil {
			trace.Point(f.ctx, trace.ScopeNode, "fold.dead-branch", fmt.Sprintf("if %d drops stmt %d", s.ID, dropped.ID))
		}
		return f.stmt(taken)
	}

	then, err := f.stmt(s.If.Then)
	if err != nil {
		return nil, err
	}
	els, err := f.stmt(s.If.Else)
	if err != nil {
		return nil, err
	}
	return &ast.Stmt{ID: s.ID, Kind: ast.StmtIf, If: ast.IfStmt{
		Cond: cond,
		Then: f.orEmpty(then, s.If.Then),
		Else: f.orEmpty(els, s.If.Else),
	}}, nil
}

func (f folder) expr(e *ast.Expr) (*ast.Expr, error) {
	if e == nil {
		return nil, nil
	}
	switch e.Kind {
	case ast.ExprInt, ast.ExprBool, ast.ExprIdent:
		c := *e
		return &c, nil

	case ast.ExprUnary:
		operand, err := f.expr(e.Unary.Operand)
		if err != nil {
			return nil, err
		}
		if operand == nil {
			return nil, fmt.Errorf("fold: unary node %d has no operand", e.ID)
		}
		if e.Unary.Op != ast.UnaryNot {
			return nil, fmt.Errorf("fold: unknown unary operator %s (node %d)", e.Unary.Op, e.ID)
		}
		if !operand.IsLiteral() {
			return &ast.Expr{ID: e.ID, Kind: ast.ExprUnary, Unary: ast.UnaryExpr{Op: e.Unary.Op, Operand: operand}}, nil
		}
		if operand.Kind == ast.ExprInt {
			return intLit(e, ^operand.IntValue), nil
		}
		return boolLit(e, !operand.BoolValue), nil

	case ast.ExprBinary:
		left, err := f.expr(e.Binary.Left)
		if err != nil {
			return nil, err
		}
		right, err := f.expr(e.Binary.Right)
		if err != nil {
			return nil, err
		}
		if left == nil || right == nil {
			return nil, fmt.Errorf("fold: binary node %d is missing an operand", e.ID)
		}
		if left.Kind == ast.ExprInt && right.Kind == ast.ExprInt {
			return evalInt(e, e.Binary.Op, left.IntValue, right.IntValue)
		}
		return &ast.Expr{ID: e.ID, Kind: ast.ExprBinary, Binary: ast.BinaryExpr{Op: e.Binary.Op, Left: left, Right: right}}, nil

	default:
		return nil, fmt.Errorf("fold: unknown expression kind %s (node %d)", e.Kind, e.ID)
	}
}
