package lower

import (
	"lowc/internal/ast"
	"lowc/internal/ir"
)

// storageType maps a declarable type to its IR type.
func storageType(node ast.NodeID, ty ast.Type) (ir.Type, error) {
	switch ty {
	case ast.TypeInt:
		return ir.TypeI32, nil
	case ast.TypeBool:
		return ir.TypeI1, nil
	default:
		return ir.TypeVoid, unimplemented(node, "storage of type %s", ty)
	}
}

// resultType additionally accepts Unit as a void result.
func resultType(node ast.NodeID, ty ast.Type) (ir.Type, error) {
	if ty == ast.TypeUnit {
		return ir.TypeVoid, nil
	}
	t, err := storageType(node, ty)
	if err != nil {
		return ir.TypeVoid, unimplemented(node, "result type %s", ty)
	}
	return t, nil
}

var binOps = map[ast.BinaryOp]ir.BinOp{
	ast.BinaryAdd: ir.BinAdd,
	ast.BinarySub: ir.BinSub,
	ast.BinaryMul: ir.BinMul,
	ast.BinaryDiv: ir.BinDiv,
	ast.BinaryMod: ir.BinRem,
	ast.BinaryAnd: ir.BinAnd,
	ast.BinaryOr:  ir.BinOr,
	ast.BinaryXor: ir.BinXor,
}

var cmpPreds = map[ast.BinaryOp]ir.CmpPred{
	ast.BinaryEq: ir.CmpEq,
	ast.BinaryNe: ir.CmpNe,
	ast.BinaryLt: ir.CmpLt,
	ast.BinaryLe: ir.CmpLe,
	ast.BinaryGt: ir.CmpGt,
	ast.BinaryGe: ir.CmpGe,
}
