package ir

// TermKind enumerates terminator kinds.
type TermKind uint8

const (
	TermNone TermKind = iota
	TermReturn
	TermGoto
	TermIf
	TermUnreachable
)

// Terminator ends a block. Only the payload matching Kind is meaningful.
type Terminator struct {
	Kind TermKind

	Return ReturnTerm
	Goto   GotoTerm
	If     IfTerm
}

// ReturnTerm leaves the function.
type ReturnTerm struct {
	HasValue bool
	Value    Operand
}

// GotoTerm jumps unconditionally.
type GotoTerm struct {
	Target BlockID
}

// IfTerm branches on an i1 condition.
type IfTerm struct {
	Cond Operand
	Then BlockID
	Else BlockID
}

// Successors returns the blocks control may reach from t.
func (t *Terminator) Successors() []BlockID {
	switch t.Kind {
	case TermGoto:
		return []BlockID{t.Goto.Target}
	case TermIf:
		return []BlockID{t.If.Then, t.If.Else}
	default:
		return nil
	}
}
