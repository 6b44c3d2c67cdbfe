package ir

import (
	"fmt"

	"fortio.org/safecast"
)

// NewFunc creates an empty function with no blocks.
func NewFunc(name string, result Type, params []Type) *Func {
	return &Func{
		ID:     NoFuncID,
		Name:   name,
		Result: result,
		Params: params,
		Entry:  NoBlockID,
	}
}

// Builder appends instructions to the selected block of a function.
//
// Requests against a terminated block (or with no block selected) are
// ignored: nothing is appended and value-producing calls return an undef
// operand of the requested type.
type Builder struct {
	f   *Func
	cur BlockID
}

func NewBuilder(f *Func) *Builder {
	return &Builder{f: f, cur: NoBlockID}
}

// Func returns the function under construction.
func (b *Builder) Func() *Func { return b.f }

// NewBlock appends an empty block. The first block created becomes the entry.
func (b *Builder) NewBlock() BlockID {
	raw, err := safecast.Conv[int32](len(b.f.Blocks))
	if err != nil {
		panic(fmt.Errorf("ir: block id overflow: %w", err))
	}
	id := BlockID(raw)
	b.f.Blocks = append(b.f.Blocks, Block{ID: id, Term: Terminator{Kind: TermNone}})
	if b.f.Entry == NoBlockID {
		b.f.Entry = id
	}
	return id
}

// SetBlock selects the block that receives subsequent instructions.
func (b *Builder) SetBlock(id BlockID) {
	if b.f.Block(id) == nil {
		panic(fmt.Errorf("ir: select of unknown block bb%d in %s", id, b.f.Name))
	}
	b.cur = id
}

// Terminated reports whether the selected block already has a terminator.
func (b *Builder) Terminated() bool {
	return b.f.Block(b.cur).Terminated()
}

// Alloc reserves a typed storage slot.
func (b *Builder) Alloc(name string, ty Type) LocalID {
	raw, err := safecast.Conv[int32](len(b.f.Locals))
	if err != nil {
		panic(fmt.Errorf("ir: local id overflow: %w", err))
	}
	b.f.Locals = append(b.f.Locals, Local{Type: ty, Name: name})
	return LocalID(raw)
}

func (b *Builder) newValue(ty Type) ValueID {
	raw, err := safecast.Conv[int32](len(b.f.Values))
	if err != nil {
		panic(fmt.Errorf("ir: value id overflow: %w", err))
	}
	b.f.Values = append(b.f.Values, ty)
	return ValueID(raw)
}

func (b *Builder) emit(ins Instr, ty Type) Operand {
	bb := b.f.Block(b.cur)
	if bb.Terminated() {
		return Undef(ty)
	}
	if ins.Kind == InstrStore {
		ins.Dst = NoValueID
		bb.Instrs = append(bb.Instrs, ins)
		return Undef(TypeVoid)
	}
	ins.Dst = b.newValue(ty)
	bb.Instrs = append(bb.Instrs, ins)
	return ValueOperand(ins.Dst, ty)
}

// Store writes v into local dst.
func (b *Builder) Store(dst LocalID, v Operand) {
	b.emit(Instr{Kind: InstrStore, Store: StoreInstr{Dst: dst, Value: v}}, TypeVoid)
}

// Load reads local src.
func (b *Builder) Load(src LocalID) Operand {
	ty := TypeVoid
	if src >= 0 && int(src) < len(b.f.Locals) {
		ty = b.f.Locals[src].Type
	}
	return b.emit(Instr{Kind: InstrLoad, Load: LoadInstr{Src: src}}, ty)
}

// Binary emits an arithmetic or bitwise instruction typed after its left operand.
func (b *Builder) Binary(op BinOp, l, r Operand) Operand {
	return b.emit(Instr{Kind: InstrBinary, Binary: BinaryInstr{Op: op, Left: l, Right: r}}, l.Type)
}

// Compare emits a signed comparison producing i1.
func (b *Builder) Compare(pred CmpPred, l, r Operand) Operand {
	return b.emit(Instr{Kind: InstrCompare, Compare: CompareInstr{Pred: pred, Left: l, Right: r}}, TypeI1)
}

// Unary emits a single-operand instruction typed after its operand.
func (b *Builder) Unary(op UnOp, v Operand) Operand {
	return b.emit(Instr{Kind: InstrUnary, Unary: UnaryInstr{Op: op, Operand: v}}, v.Type)
}

func (b *Builder) setTerm(t Terminator) {
	bb := b.f.Block(b.cur)
	if bb.Terminated() {
		return
	}
	bb.Term = t
}

// Goto terminates the selected block with an unconditional jump.
func (b *Builder) Goto(target BlockID) {
	b.setTerm(Terminator{Kind: TermGoto, Goto: GotoTerm{Target: target}})
}

// If terminates the selected block with a conditional branch.
func (b *Builder) If(cond Operand, then, els BlockID) {
	b.setTerm(Terminator{Kind: TermIf, If: IfTerm{Cond: cond, Then: then, Else: els}})
}

// Return terminates the selected block returning v.
func (b *Builder) Return(v Operand) {
	b.setTerm(Terminator{Kind: TermReturn, Return: ReturnTerm{HasValue: true, Value: v}})
}

// ReturnVoid terminates the selected block without a value.
func (b *Builder) ReturnVoid() {
	b.setTerm(Terminator{Kind: TermReturn})
}

// Unreachable terminates the selected block with a trap.
func (b *Builder) Unreachable() {
	b.setTerm(Terminator{Kind: TermUnreachable})
}

// Finalize terminates every open block with unreachable and returns the
// function.
func (b *Builder) Finalize() *Func {
	for i := range b.f.Blocks {
		if !b.f.Blocks[i].Terminated() {
			b.f.Blocks[i].Term = Terminator{Kind: TermUnreachable}
		}
	}
	b.cur = NoBlockID
	return b.f
}
