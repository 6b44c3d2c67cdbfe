package ir

// Func is one lowered function. Values[i] is the type of value %i.
type Func struct {
	ID     FuncID
	Name   string
	Result Type
	Params []Type

	Locals []Local
	Values []Type
	Blocks []Block
	Entry  BlockID
}

// Module is an ordered set of functions.
type Module struct {
	Funcs []*Func
}

// Add appends f and assigns its id.
func (m *Module) Add(f *Func) FuncID {
	f.ID = FuncID(len(m.Funcs)) //nolint:gosec // function count is bounded by the AST
	m.Funcs = append(m.Funcs, f)
	return f.ID
}

// Lookup returns the function named name, or nil.
func (m *Module) Lookup(name string) *Func {
	if m == nil {
		return nil
	}
	for _, f := range m.Funcs {
		if f != nil && f.Name == name {
			return f
		}
	}
	return nil
}

// Block returns the block with the given id, or nil.
func (f *Func) Block(id BlockID) *Block {
	if f == nil || id < 0 || int(id) >= len(f.Blocks) {
		return nil
	}
	return &f.Blocks[id]
}

// Predecessors counts incoming edges per block.
func (f *Func) Predecessors() []int {
	preds := make([]int, len(f.Blocks))
	for i := range f.Blocks {
		for _, s := range f.Blocks[i].Term.Successors() {
			if s >= 0 && int(s) < len(preds) {
				preds[s]++
			}
		}
	}
	return preds
}
