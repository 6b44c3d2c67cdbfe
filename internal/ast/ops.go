package ast

import "fmt"

// UnaryOp enumerates prefix operators.
type UnaryOp uint8

const (
	// UnaryNot is bitwise complement on Int and logical negation on Bool.
	UnaryNot UnaryOp = iota
)

func (op UnaryOp) String() string {
	switch op {
	case UnaryNot:
		return "not"
	default:
		return fmt.Sprintf("unary(%d)", uint8(op))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (op UnaryOp) MarshalText() ([]byte, error) {
	return []byte(op.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (op *UnaryOp) UnmarshalText(b []byte) error {
	switch string(b) {
	case "not", "!":
		*op = UnaryNot
	default:
		return fmt.Errorf("ast: unknown unary operator %q", b)
	}
	return nil
}

// BinaryOp enumerates infix operators.
type BinaryOp uint8

const (
	BinaryAdd BinaryOp = iota
	BinarySub
	BinaryMul
	BinaryDiv
	BinaryMod

	BinaryAnd
	BinaryOr
	BinaryXor

	BinaryEq
	BinaryNe

	BinaryLt
	BinaryLe
	BinaryGt
	BinaryGe

	binaryOpCount
)

var binaryOpNames = [...]string{
	BinaryAdd: "+",
	BinarySub: "-",
	BinaryMul: "*",
	BinaryDiv: "/",
	BinaryMod: "%",
	BinaryAnd: "&",
	BinaryOr:  "|",
	BinaryXor: "^",
	BinaryEq:  "==",
	BinaryNe:  "!=",
	BinaryLt:  "<",
	BinaryLe:  "<=",
	BinaryGt:  ">",
	BinaryGe:  ">=",
}

func (op BinaryOp) String() string {
	if op < binaryOpCount {
		return binaryOpNames[op]
	}
	return fmt.Sprintf("binary(%d)", uint8(op))
}

// IsComparison reports whether op yields a Bool.
func (op BinaryOp) IsComparison() bool {
	return op >= BinaryEq && op <= BinaryGe
}

// MarshalText implements encoding.TextMarshaler.
func (op BinaryOp) MarshalText() ([]byte, error) {
	if op >= binaryOpCount {
		return nil, fmt.Errorf("ast: invalid binary operator %d", uint8(op))
	}
	return []byte(op.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (op *BinaryOp) UnmarshalText(b []byte) error {
	for i, name := range binaryOpNames {
		if name == string(b) {
			*op = BinaryOp(i) //nolint:gosec // bounded by binaryOpNames
			return nil
		}
	}
	return fmt.Errorf("ast: unknown binary operator %q", b)
}
