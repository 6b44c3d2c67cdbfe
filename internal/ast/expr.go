package ast

import "fmt"

// ExprKind enumerates expression kinds.
type ExprKind uint8

const (
	ExprInt ExprKind = iota
	ExprBool
	ExprIdent
	ExprUnary
	ExprBinary

	exprKindCount
)

var exprKindNames = [...]string{
	ExprInt:    "int",
	ExprBool:   "bool",
	ExprIdent:  "ident",
	ExprUnary:  "unary",
	ExprBinary: "binary",
}

func (k ExprKind) String() string {
	if k < exprKindCount {
		return exprKindNames[k]
	}
	return fmt.Sprintf("expr(%d)", uint8(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k ExprKind) MarshalText() ([]byte, error) {
	if k >= exprKindCount {
		return nil, fmt.Errorf("ast: invalid expression kind %d", uint8(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *ExprKind) UnmarshalText(b []byte) error {
	for i, name := range exprKindNames {
		if name == string(b) {
			*k = ExprKind(i) //nolint:gosec // bounded by exprKindNames
			return nil
		}
	}
	return fmt.Errorf("ast: unknown expression kind %q", b)
}

// Expr is an expression node. Only the fields matching Kind are meaningful.
type Expr struct {
	ID   NodeID   `json:"id" msgpack:"id"`
	Kind ExprKind `json:"kind" msgpack:"kind"`

	IntValue  int32  `json:"int,omitempty" msgpack:"int,omitempty"`
	BoolValue bool   `json:"bool,omitempty" msgpack:"bool,omitempty"`
	Name      string `json:"name,omitempty" msgpack:"name,omitempty"`

	Unary  UnaryExpr  `json:"unary,omitzero" msgpack:"unary,omitempty"`
	Binary BinaryExpr `json:"binary,omitzero" msgpack:"binary,omitempty"`
}

// UnaryExpr holds ExprUnary data.
type UnaryExpr struct {
	Op      UnaryOp `json:"op" msgpack:"op"`
	Operand *Expr   `json:"operand" msgpack:"operand"`
}

// BinaryExpr holds ExprBinary data.
type BinaryExpr struct {
	Op    BinaryOp `json:"op" msgpack:"op"`
	Left  *Expr    `json:"left" msgpack:"left"`
	Right *Expr    `json:"right" msgpack:"right"`
}

// IsLiteral reports whether e is an Int or Bool literal.
func (e *Expr) IsLiteral() bool {
	return e != nil && (e.Kind == ExprInt || e.Kind == ExprBool)
}
