package fold

import (
	"fmt"

	"lowc/internal/ast"
)

// evalInt applies op to two 32-bit operands. Add, Sub and Mul wrap around;
// Div and Mod truncate toward zero, so MinInt32 / -1 wraps to MinInt32 and
// MinInt32 % -1 is 0.
func evalInt(e *ast.Expr, op ast.BinaryOp, l, r int32) (*ast.Expr, error) {
	switch op {
	case ast.BinaryAdd:
		return intLit(e, l+r), nil
	case ast.BinarySub:
		return intLit(e, l-r), nil
	case ast.BinaryMul:
		return intLit(e, l*r), nil
	case ast.BinaryDiv, ast.BinaryMod:
		if r == 0 {
			return nil, &ArithmeticError{Op: op, Left: l, Right: r, Expr: e.ID}
		}
		if op == ast.BinaryDiv {
			return intLit(e, l/r), nil
		}
		return intLit(e, l%r), nil
	case ast.BinaryAnd:
		return intLit(e, l&r), nil
	case ast.BinaryOr:
		return intLit(e, l|r), nil
	case ast.BinaryXor:
		return intLit(e, l^r), nil
	case ast.BinaryEq:
		return boolLit(e, l == r), nil
	case ast.BinaryNe:
		return boolLit(e, l != r), nil
	case ast.BinaryLt:
		return boolLit(e, l < r), nil
	case ast.BinaryLe:
		return boolLit(e, l <= r), nil
	case ast.BinaryGt:
		return boolLit(e, l > r), nil
	case ast.BinaryGe:
		return boolLit(e, l >= r), nil
	default:
		return nil, fmt.Errorf("fold: unknown binary operator %s (node %d)", op, e.ID)
	}
}

// intLit and boolLit build literals that take over the id of the node they
// replace.
func intLit(e *ast.Expr, v int32) *ast.Expr {
	return &ast.Expr{ID: e.ID, Kind: ast.ExprInt, IntValue: v}
}

func boolLit(e *ast.Expr, v bool) *ast.Expr {
	return &ast.Expr{ID: e.ID, Kind: ast.ExprBool, BoolValue: v}
}
