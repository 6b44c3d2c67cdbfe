package ir

// ForwardStores removes loads whose value is known from an earlier store in
// the same block, then drops loads nobody uses and stores to locals that are
// never loaded. Block structure is left untouched.
func ForwardStores(f *Func) {
	if f == nil {
		return
	}
	subst := make(map[ValueID]Operand)
	replace := func(op Operand) Operand {
		if op.Kind != OperandValue {
			return op
		}
		if to, ok := subst[op.Value]; ok {
			return to
		}
		return op
	}

	for i := range f.Blocks {
		bb := &f.Blocks[i]
		known := make(map[LocalID]Operand)
		out := bb.Instrs[:0]
		for _, ins := range bb.Instrs {
			rewriteOperands(&ins, replace)
			switch ins.Kind {
			case InstrStore:
				known[ins.Store.Dst] = ins.Store.Value
			case InstrLoad:
				if v, ok := known[ins.Load.Src]; ok {
					subst[ins.Dst] = v
					continue
				}
				known[ins.Load.Src] = ValueOperand(ins.Dst, f.Values[ins.Dst])
			}
			out = append(out, ins)
		}
		bb.Instrs = out
		rewriteTerm(&bb.Term, replace)
	}

	dropDeadLoads(f)
	dropDeadStores(f)
}

func rewriteOperands(ins *Instr, fn func(Operand) Operand) {
	switch ins.Kind {
	case InstrStore:
		ins.Store.Value = fn(ins.Store.Value)
	case InstrBinary:
		ins.Binary.Left = fn(ins.Binary.Left)
		ins.Binary.Right = fn(ins.Binary.Right)
	case InstrCompare:
		ins.Compare.Left = fn(ins.Compare.Left)
		ins.Compare.Right = fn(ins.Compare.Right)
	case InstrUnary:
		ins.Unary.Operand = fn(ins.Unary.Operand)
	}
}

func rewriteTerm(t *Terminator, fn func(Operand) Operand) {
	switch t.Kind {
	case TermReturn:
		if t.Return.HasValue {
			t.Return.Value = fn(t.Return.Value)
		}
	case TermIf:
		t.If.Cond = fn(t.If.Cond)
	}
}

func dropDeadLoads(f *Func) {
	used := make(map[ValueID]bool)
	mark := func(op Operand) Operand {
		if op.Kind == OperandValue {
			used[op.Value] = true
		}
		return op
	}
	for i := range f.Blocks {
		for j := range f.Blocks[i].Instrs {
			rewriteOperands(&f.Blocks[i].Instrs[j], mark)
		}
		rewriteTerm(&f.Blocks[i].Term, mark)
	}
	for i := range f.Blocks {
		bb := &f.Blocks[i]
		out := bb.Instrs[:0]
		for _, ins := range bb.Instrs {
			if ins.Kind == InstrLoad && !used[ins.Dst] {
				continue
			}
			out = append(out, ins)
		}
		bb.Instrs = out
	}
}

func dropDeadStores(f *Func) {
	loaded := make(map[LocalID]bool)
	for i := range f.Blocks {
		for _, ins := range f.Blocks[i].Instrs {
			if ins.Kind == InstrLoad {
				loaded[ins.Load.Src] = true
			}
		}
	}
	for i := range f.Blocks {
		bb := &f.Blocks[i]
		out := bb.Instrs[:0]
		for _, ins := range bb.Instrs {
			if ins.Kind == InstrStore && !loaded[ins.Store.Dst] {
				continue
			}
			out = append(out, ins)
		}
		bb.Instrs = out
	}
}
