package ir

import "fmt"

// InstrKind enumerates instruction kinds.
type InstrKind uint8

const (
	// InstrLoad reads a local into a new value.
	InstrLoad InstrKind = iota
	// InstrStore writes an operand into a local.
	InstrStore
	// InstrBinary is an arithmetic or bitwise operation.
	InstrBinary
	// InstrCompare is a signed comparison producing i1.
	InstrCompare
	// InstrUnary is a single-operand operation.
	InstrUnary
)

// Instr is one non-terminator instruction. Only the payload matching Kind is
// meaningful. Dst is NoValueID for stores.
type Instr struct {
	Kind InstrKind
	Dst  ValueID

	Load    LoadInstr
	Store   StoreInstr
	Binary  BinaryInstr
	Compare CompareInstr
	Unary   UnaryInstr
}

// LoadInstr reads Src.
type LoadInstr struct {
	Src LocalID
}

// StoreInstr writes Value into Dst.
type StoreInstr struct {
	Dst   LocalID
	Value Operand
}

// BinOp enumerates arithmetic and bitwise operations.
type BinOp uint8

const (
	BinAdd BinOp = iota
	BinSub
	BinMul
	BinDiv
	BinRem
	BinAnd
	BinOr
	BinXor
)

func (op BinOp) String() string {
	switch op {
	case BinAdd:
		return "add"
	case BinSub:
		return "sub"
	case BinMul:
		return "mul"
	case BinDiv:
		return "sdiv"
	case BinRem:
		return "srem"
	case BinAnd:
		return "and"
	case BinOr:
		return "or"
	case BinXor:
		return "xor"
	default:
		return fmt.Sprintf("bin(%d)", uint8(op))
	}
}

// BinaryInstr computes Left Op Right.
type BinaryInstr struct {
	Op    BinOp
	Left  Operand
	Right Operand
}

// CmpPred enumerates signed comparison predicates.
type CmpPred uint8

const (
	CmpEq CmpPred = iota
	CmpNe
	CmpLt
	CmpLe
	CmpGt
	CmpGe
)

func (p CmpPred) String() string {
	switch p {
	case CmpEq:
		return "eq"
	case CmpNe:
		return "ne"
	case CmpLt:
		return "slt"
	case CmpLe:
		return "sle"
	case CmpGt:
		return "sgt"
	case CmpGe:
		return "sge"
	default:
		return fmt.Sprintf("cmp(%d)", uint8(p))
	}
}

// CompareInstr computes Left Pred Right as i1.
type CompareInstr struct {
	Pred  CmpPred
	Left  Operand
	Right Operand
}

// UnOp enumerates unary operations.
type UnOp uint8

const (
	// UnNot is bitwise complement on i32 and logical negation on i1.
	UnNot UnOp = iota
)

func (op UnOp) String() string {
	switch op {
	case UnNot:
		return "not"
	default:
		return fmt.Sprintf("un(%d)", uint8(op))
	}
}

// UnaryInstr computes Op Operand.
type UnaryInstr struct {
	Op      UnOp
	Operand Operand
}

// OperandKind distinguishes operand forms.
type OperandKind uint8

const (
	// OperandUndef is produced by the builder when asked to compute into a
	// terminated block.
	OperandUndef OperandKind = iota
	// OperandConst is an immediate.
	OperandConst
	// OperandValue refers to an instruction result.
	OperandValue
)

// Operand is a typed instruction input.
type Operand struct {
	Kind  OperandKind
	Type  Type
	Const int64
	Value ValueID
}

// ConstI32 materialises a 32-bit integer constant.
func ConstI32(v int32) Operand {
	return Operand{Kind: OperandConst, Type: TypeI32, Const: int64(v), Value: NoValueID}
}

// ConstBool materialises a 1-bit boolean constant.
func ConstBool(v bool) Operand {
	c := int64(0)
	if v {
		c = 1
	}
	return Operand{Kind: OperandConst, Type: TypeI1, Const: c, Value: NoValueID}
}

// Undef is a placeholder operand of type ty.
func Undef(ty Type) Operand {
	return Operand{Kind: OperandUndef, Type: ty, Value: NoValueID}
}

// ValueOperand refers to value id of type ty.
func ValueOperand(id ValueID, ty Type) Operand {
	return Operand{Kind: OperandValue, Type: ty, Value: id}
}

func (o Operand) String() string {
	switch o.Kind {
	case OperandConst:
		if o.Type == TypeI1 {
			return fmt.Sprintf("%t", o.Const != 0)
		}
		return fmt.Sprintf("%d:%s", o.Const, o.Type)
	case OperandValue:
		return fmt.Sprintf("%%%d", o.Value)
	default:
		return "undef:" + o.Type.String()
	}
}
