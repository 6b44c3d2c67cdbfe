package symbols

import (
	"fmt"

	"lowc/internal/ast"
	"lowc/internal/ir"
)

type frame struct {
	scope   *Scope
	visible map[string]*Binding
}

// Stack is the explicit scope stack used while walking a function. A name
// becomes visible in its frame only once its declaration has been reached,
// so a use that precedes a shadowing declaration still sees the outer
// binding.
type Stack struct {
	table  *Table
	frames []frame
}

func NewStack(t *Table) *Stack {
	return &Stack{table: t}
}

// Depth reports the number of open scopes.
func (s *Stack) Depth() int { return len(s.frames) }

// Top returns the innermost scope, or nil.
func (s *Stack) Top() *Scope {
	if len(s.frames) == 0 {
		return nil
	}
	return s.frames[len(s.frames)-1].scope
}

// Push opens the scope keyed by id as a child of the current top.
func (s *Stack) Push(kind ScopeKind, id ast.NodeID) (*Scope, error) {
	parent := ast.NoNodeID
	if top := s.Top(); top != nil {
		parent = top.ID
	}
	scope, err := s.table.Enter(kind, id, parent)
	if err != nil {
		return nil, err
	}
	s.frames = append(s.frames, frame{scope: scope, visible: make(map[string]*Binding)})
	return scope, nil
}

// Pop closes the innermost scope, which must be id.
func (s *Stack) Pop(id ast.NodeID) error {
	top := s.Top()
	if top == nil {
		return fmt.Errorf("symbols: pop of scope %d on empty stack", id)
	}
	if top.ID != id {
		return fmt.Errorf("symbols: pop of scope %d, innermost is %d", id, top.ID)
	}
	s.frames = s.frames[:len(s.frames)-1]
	return nil
}

// Unwind pops scopes until depth remain.
func (s *Stack) Unwind(depth int) {
	if depth < 0 {
		depth = 0
	}
	if depth < len(s.frames) {
		clear(s.frames[depth:])
		s.frames = s.frames[:depth]
	}
}

// Declare makes name visible in the innermost scope and records storage for
// it. A name already visible in the same frame is a duplicate. Names missing
// from the scope record are added to it.
func (s *Stack) Declare(name string, mutable bool, ty ast.Type, storage ir.LocalID) (*Binding, error) {
	if len(s.frames) == 0 {
		return nil, fmt.Errorf("symbols: declare %q outside of any scope", name)
	}
	fr := &s.frames[len(s.frames)-1]
	if _, dup := fr.visible[name]; dup {
		return nil, &CheckError{Kind: CheckDuplicate, Name: name, Scope: fr.scope.ID}
	}
	b, ok := fr.scope.Lookup(name)
	if !ok {
		var err error
		if b, err = s.table.Declare(fr.scope.ID, name, mutable, ty); err != nil {
			return nil, err
		}
	}
	b.Mutable = mutable
	b.Type = ty
	if err := s.table.Bind(fr.scope.ID, name, storage); err != nil {
		return nil, err
	}
	fr.visible[name] = b
	return b, nil
}

// Resolve finds the innermost visible binding for name.
func (s *Stack) Resolve(name string) (*Binding, *Scope, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if b, ok := s.frames[i].visible[name]; ok {
			return b, s.frames[i].scope, true
		}
	}
	return nil, nil, false
}
