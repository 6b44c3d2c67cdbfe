package fold

import (
	"errors"
	"fmt"

	"lowc/internal/ast"
)

// ErrArithmetic is matched by every *ArithmeticError.
var ErrArithmetic = errors.New("arithmetic error")

// ArithmeticError reports an operation that cannot be evaluated at compile
// time, such as division by zero.
type ArithmeticError struct {
	Op    ast.BinaryOp
	Left  int32
	Right int32
	Expr  ast.NodeID
}

func (e *ArithmeticError) Error() string {
	return fmt.Sprintf("fold: %d %s %d: division by zero (node %d)", e.Left, e.Op, e.Right, e.Expr)
}

func (e *ArithmeticError) Is(target error) bool { return target == ErrArithmetic }
