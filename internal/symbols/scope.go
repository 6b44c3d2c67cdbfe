package symbols

import (
	"lowc/internal/ast"
	"lowc/internal/ir"
)

// ScopeKind enumerates supported scope categories.
type ScopeKind uint8

const (
	ScopeInvalid  ScopeKind = iota
	ScopeModule             // root scope per module; holds no bindings
	ScopeFunction           // function body scope
	ScopeBlock              // block statement scope
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeModule:
		return "module"
	case ScopeFunction:
		return "function"
	case ScopeBlock:
		return "block"
	default:
		return "invalid"
	}
}

// Binding associates a declared name with the storage slot assigned to it by
// lowering. Storage is ir.NoLocalID until the declaration has been lowered.
type Binding struct {
	Name    string
	Mutable bool
	Type    ast.Type
	Storage ir.LocalID
}

// Scope is the record for one lexical region, keyed by the AST node id of the
// function or block that owns it.
type Scope struct {
	ID       ast.NodeID
	Kind     ScopeKind
	Parent   ast.NodeID
	Bindings []*Binding
	index    map[string]int
}

func newScope(kind ScopeKind, id, parent ast.NodeID) *Scope {
	return &Scope{ID: id, Kind: kind, Parent: parent, index: make(map[string]int)}
}

// Lookup returns the binding declared directly in s.
func (s *Scope) Lookup(name string) (*Binding, bool) {
	if s == nil {
		return nil, false
	}
	idx, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return s.Bindings[idx], true
}

func (s *Scope) declare(b Binding) (*Binding, bool) {
	if _, dup := s.index[b.Name]; dup {
		return nil, false
	}
	s.index[b.Name] = len(s.Bindings)
	s.Bindings = append(s.Bindings, &b)
	return &b, true
}
