package lower

import (
	"lowc/internal/ast"
	"lowc/internal/ir"
)

func (l *funcLowerer) expr(e *ast.Expr) (ir.Operand, error) {
	if e == nil {
		return ir.Undef(ir.TypeVoid), unimplemented(ast.NoNodeID, "missing expression")
	}
	switch e.Kind {
	case ast.ExprInt:
		return ir.ConstI32(e.IntValue), nil
	case ast.ExprBool:
		return ir.ConstBool(e.BoolValue), nil
	case ast.ExprIdent:
		return l.load(e)
	case ast.ExprUnary:
		v, err := l.expr(e.Unary.Operand)
		if err != nil {
			return v, err
		}
		if e.Unary.Op != ast.UnaryNot {
			return v, unimplemented(e.ID, "unary operator %s", e.Unary.Op)
		}
		return l.b.Unary(ir.UnNot, v), nil
	case ast.ExprBinary:
		left, err := l.expr(e.Binary.Left)
		if err != nil {
			return left, err
		}
		right, err := l.expr(e.Binary.Right)
		if err != nil {
			return right, err
		}
		if e.Binary.Op.IsComparison() {
			if pred, ok := cmpPreds[e.Binary.Op]; ok {
				return l.b.Compare(pred, left, right), nil
			}
		} else if op, ok := binOps[e.Binary.Op]; ok {
			return l.b.Binary(op, left, right), nil
		}
		return ir.Undef(ir.TypeVoid), unimplemented(e.ID, "binary operator %s", e.Binary.Op)
	default:
		return ir.Undef(ir.TypeVoid), unimplemented(e.ID, "expression %s", e.Kind)
	}
}

func (l *funcLowerer) load(e *ast.Expr) (ir.Operand, error) {
	storage, err := l.resolve(e)
	if err != nil {
		return ir.Undef(ir.TypeVoid), err
	}
	if !l.live() {
		b, _, _ := l.stack.Resolve(e.Name)
		ty, _ := storageType(e.ID, b.Type)
		return ir.Undef(ty), nil
	}
	return l.b.Load(storage), nil
}

// resolve finds the storage for an identifier through the scope stack. In
// live code the binding must have been lowered; dead code only needs the
// name to be visible.
func (l *funcLowerer) resolve(e *ast.Expr) (ir.LocalID, error) {
	b, _, ok := l.stack.Resolve(e.Name)
	if !ok || (l.live() && !b.Storage.IsValid()) {
		scope := ast.NoNodeID
		if top := l.stack.Top(); top != nil {
			scope = top.ID
		}
		return ir.NoLocalID, &UnresolvedIdentifierError{Name: e.Name, Node: e.ID, Scope: scope}
	}
	return b.Storage, nil
}
