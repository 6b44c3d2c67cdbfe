package ir

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes a human-readable listing of every function in m, in module
// order.
func Dump(w io.Writer, m *Module) error {
	if w == nil || m == nil {
		return nil
	}
	for i, f := range m.Funcs {
		if f == nil {
			continue
		}
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := DumpFunc(w, f); err != nil {
			return err
		}
	}
	return nil
}

// DumpFunc writes a single function.
func DumpFunc(w io.Writer, f *Func) error {
	var sb strings.Builder
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.String()
	}
	fmt.Fprintf(&sb, "fn %s(%s) -> %s:\n", f.Name, strings.Join(params, ", "), f.Result)
	if f.Entry > 0 {
		fmt.Fprintf(&sb, "  entry: bb%d\n", f.Entry)
	}
	if len(f.Locals) > 0 {
		sb.WriteString("  locals:\n")
		for i, l := range f.Locals {
			name := l.Name
			if name == "" {
				name = "_"
			}
			fmt.Fprintf(&sb, "    L%d: %s name=%s\n", i, l.Type, name)
		}
	}
	for i := range f.Blocks {
		bb := &f.Blocks[i]
		fmt.Fprintf(&sb, "  bb%d:\n", bb.ID)
		for j := range bb.Instrs {
			fmt.Fprintf(&sb, "    %s\n", FormatInstr(&bb.Instrs[j]))
		}
		fmt.Fprintf(&sb, "    %s\n", FormatTerm(&bb.Term))
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// FormatInstr renders one instruction.
func FormatInstr(ins *Instr) string {
	switch ins.Kind {
	case InstrLoad:
		return fmt.Sprintf("%%%d = load L%d", ins.Dst, ins.Load.Src)
	case InstrStore:
		return fmt.Sprintf("store L%d, %s", ins.Store.Dst, ins.Store.Value)
	case InstrBinary:
		return fmt.Sprintf("%%%d = %s %s, %s", ins.Dst, ins.Binary.Op, ins.Binary.Left, ins.Binary.Right)
	case InstrCompare:
		return fmt.Sprintf("%%%d = icmp %s %s, %s", ins.Dst, ins.Compare.Pred, ins.Compare.Left, ins.Compare.Right)
	case InstrUnary:
		return fmt.Sprintf("%%%d = %s %s", ins.Dst, ins.Unary.Op, ins.Unary.Operand)
	default:
		return fmt.Sprintf("<instr %d>", ins.Kind)
	}
}

// FormatTerm renders one terminator.
func FormatTerm(t *Terminator) string {
	switch t.Kind {
	case TermReturn:
		if t.Return.HasValue {
			return "ret " + t.Return.Value.String()
		}
		return "ret"
	case TermGoto:
		return fmt.Sprintf("goto bb%d", t.Goto.Target)
	case TermIf:
		return fmt.Sprintf("if %s ? bb%d : bb%d", t.If.Cond, t.If.Then, t.If.Else)
	case TermUnreachable:
		return "unreachable"
	default:
		return "<unterminated>"
	}
}
