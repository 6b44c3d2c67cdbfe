package ir

import (
	"errors"
	"fmt"
)

// Validate checks IR module invariants.
// Returns error if any invariant is violated.
func Validate(m *Module) error {
	if m == nil {
		return nil
	}
	var errs []error
	for _, f := range m.Funcs {
		if f == nil {
			continue
		}
		if err := ValidateFunc(f); err != nil {
			errs = append(errs, fmt.Errorf("function %s: %w", f.Name, err))
		}
	}
	return errors.Join(errs...)
}

// ValidateFunc checks a single function.
func ValidateFunc(f *Func) error {
	if f == nil {
		return nil
	}
	if len(f.Blocks) == 0 {
		return errors.New("function has no blocks")
	}
	if f.Block(f.Entry) == nil {
		return fmt.Errorf("entry bb%d does not exist", f.Entry)
	}

	v := validator{f: f, defined: make([]bool, len(f.Values))}
	v.collectDefs()
	for i := range f.Blocks {
		bb := &f.Blocks[i]
		if bb.ID != BlockID(i) { //nolint:gosec // bounded by block count
			v.errorf("bb%d: block id mismatch (stored %d)", i, bb.ID)
		}
		for j := range bb.Instrs {
			v.instr(i, &bb.Instrs[j])
		}
		v.term(i, &bb.Term)
	}
	return errors.Join(v.errs...)
}

type validator struct {
	f       *Func
	defined []bool
	errs    []error
}

func (v *validator) errorf(format string, args ...any) {
	v.errs = append(v.errs, fmt.Errorf(format, args...))
}

func (v *validator) collectDefs() {
	for i := range v.f.Blocks {
		for j := range v.f.Blocks[i].Instrs {
			ins := &v.f.Blocks[i].Instrs[j]
			if ins.Kind == InstrStore {
				continue
			}
			if ins.Dst < 0 || int(ins.Dst) >= len(v.f.Values) {
				v.errorf("bb%d: instruction defines unknown value %%%d", i, ins.Dst)
				continue
			}
			if v.defined[ins.Dst] {
				v.errorf("bb%d: value %%%d defined twice", i, ins.Dst)
			}
			v.defined[ins.Dst] = true
		}
	}
}

func (v *validator) local(bb int, id LocalID) (Local, bool) {
	if id < 0 || int(id) >= len(v.f.Locals) {
		v.errorf("bb%d: local L%d does not exist", bb, id)
		return Local{}, false
	}
	return v.f.Locals[id], true
}

func (v *validator) operand(bb int, op Operand, ctx string) {
	switch op.Kind {
	case OperandConst:
		if op.Type != TypeI1 && op.Type != TypeI32 {
			v.errorf("bb%d: %s: constant of type %s", bb, ctx, op.Type)
		}
	case OperandValue:
		if op.Value < 0 || int(op.Value) >= len(v.f.Values) || !v.defined[op.Value] {
			v.errorf("bb%d: %s: use of undefined value %%%d", bb, ctx, op.Value)
			return
		}
		if v.f.Values[op.Value] != op.Type {
			v.errorf("bb%d: %s: %%%d used as %s, defined as %s", bb, ctx, op.Value, op.Type, v.f.Values[op.Value])
		}
	default:
		v.errorf("bb%d: %s: undef operand", bb, ctx)
	}
}

func (v *validator) result(bb int, ins *Instr, want Type) {
	if ins.Dst >= 0 && int(ins.Dst) < len(v.f.Values) && v.f.Values[ins.Dst] != want {
		v.errorf("bb%d: %%%d has type %s, expected %s", bb, ins.Dst, v.f.Values[ins.Dst], want)
	}
}

func (v *validator) instr(bb int, ins *Instr) {
	switch ins.Kind {
	case InstrLoad:
		if l, ok := v.local(bb, ins.Load.Src); ok {
			v.result(bb, ins, l.Type)
		}
	case InstrStore:
		v.operand(bb, ins.Store.Value, "store")
		if l, ok := v.local(bb, ins.Store.Dst); ok && l.Type != ins.Store.Value.Type {
			v.errorf("bb%d: store of %s into L%d of type %s", bb, ins.Store.Value.Type, ins.Store.Dst, l.Type)
		}
	case InstrBinary:
		v.operand(bb, ins.Binary.Left, ins.Binary.Op.String())
		v.operand(bb, ins.Binary.Right, ins.Binary.Op.String())
		if ins.Binary.Left.Type != ins.Binary.Right.Type {
			v.errorf("bb%d: %s operands disagree: %s vs %s", bb, ins.Binary.Op, ins.Binary.Left.Type, ins.Binary.Right.Type)
		}
		v.result(bb, ins, ins.Binary.Left.Type)
	case InstrCompare:
		v.operand(bb, ins.Compare.Left, "icmp")
		v.operand(bb, ins.Compare.Right, "icmp")
		if ins.Compare.Left.Type != ins.Compare.Right.Type {
			v.errorf("bb%d: icmp operands disagree: %s vs %s", bb, ins.Compare.Left.Type, ins.Compare.Right.Type)
		}
		v.result(bb, ins, TypeI1)
	case InstrUnary:
		v.operand(bb, ins.Unary.Operand, ins.Unary.Op.String())
		v.result(bb, ins, ins.Unary.Operand.Type)
	default:
		v.errorf("bb%d: unknown instruction kind %d", bb, ins.Kind)
	}
}

func (v *validator) term(bb int, t *Terminator) {
	exists := func(id BlockID) bool { return v.f.Block(id) != nil }
	switch t.Kind {
	case TermNone:
		v.errorf("bb%d: unterminated block", bb)
	case TermGoto:
		if !exists(t.Goto.Target) {
			v.errorf("bb%d: goto target bb%d does not exist", bb, t.Goto.Target)
		}
	case TermIf:
		v.operand(bb, t.If.Cond, "if")
		if t.If.Cond.Type != TypeI1 {
			v.errorf("bb%d: if condition has type %s", bb, t.If.Cond.Type)
		}
		if !exists(t.If.Then) {
			v.errorf("bb%d: if then target bb%d does not exist", bb, t.If.Then)
		}
		if !exists(t.If.Else) {
			v.errorf("bb%d: if else target bb%d does not exist", bb, t.If.Else)
		}
	case TermReturn:
		switch {
		case v.f.Result == TypeVoid && t.Return.HasValue:
			v.errorf("bb%d: void function returns a value", bb)
		case v.f.Result != TypeVoid && !t.Return.HasValue:
			v.errorf("bb%d: missing return value of type %s", bb, v.f.Result)
		case t.Return.HasValue:
			v.operand(bb, t.Return.Value, "ret")
			if t.Return.Value.Type != v.f.Result {
				v.errorf("bb%d: returns %s, function result is %s", bb, t.Return.Value.Type, v.f.Result)
			}
		}
	case TermUnreachable:
	default:
		v.errorf("bb%d: unknown terminator kind %d", bb, t.Kind)
	}
}
