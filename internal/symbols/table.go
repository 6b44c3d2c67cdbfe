package symbols

import (
	"fmt"
	"slices"
	"sync"

	"lowc/internal/ast"
	"lowc/internal/ir"
)

// Table maps scope ids to scope records.
//
// The scope index is safe for concurrent use. A single scope record must only
// be mutated by one goroutine at a time; lowering guarantees this by giving
// each function its own scope subtree.
type Table struct {
	mu     sync.RWMutex
	scopes map[ast.NodeID]*Scope
}

// NewTable builds an empty table.
func NewTable() *Table {
	return &Table{scopes: make(map[ast.NodeID]*Scope)}
}

// Len reports the number of scope records.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.scopes)
}

// Scope returns the record for id, or nil.
func (t *Table) Scope(id ast.NodeID) *Scope {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.scopes[id]
}

func (t *Table) sortedIDs() []ast.NodeID {
	ids := make([]ast.NodeID, 0, len(t.scopes))
	for id := range t.scopes {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Enter returns the scope keyed by id, creating it when missing. An existing
// record must agree on kind and parent.
func (t *Table) Enter(kind ScopeKind, id, parent ast.NodeID) (*Scope, error) {
	if !id.IsValid() {
		return nil, fmt.Errorf("symbols: scope without node id")
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if s, ok := t.scopes[id]; ok {
		if s.Kind != kind || s.Parent != parent {
			return nil, fmt.Errorf("symbols: scope %d re-entered as %s under %d, recorded as %s under %d",
				id, kind, parent, s.Kind, s.Parent)
		}
		return s, nil
	}
	if parent.IsValid() {
		if _, ok := t.scopes[parent]; !ok {
			return nil, fmt.Errorf("symbols: scope %d has unknown parent %d", id, parent)
		}
	}
	s := newScope(kind, id, parent)
	t.scopes[id] = s
	return s, nil
}

// Declare adds a name to a scope with unfilled storage.
func (t *Table) Declare(scope ast.NodeID, name string, mutable bool, ty ast.Type) (*Binding, error) {
	s := t.Scope(scope)
	if s == nil {
		return nil, fmt.Errorf("symbols: declare %q in unknown scope %d", name, scope)
	}
	b, ok := s.declare(Binding{Name: name, Mutable: mutable, Type: ty, Storage: ir.NoLocalID})
	if !ok {
		return nil, &CheckError{Kind: CheckDuplicate, Name: name, Scope: scope}
	}
	return b, nil
}

// Bind records the storage slot for a declared name, replacing any earlier
// one.
func (t *Table) Bind(scope ast.NodeID, name string, storage ir.LocalID) error {
	s := t.Scope(scope)
	if s == nil {
		return fmt.Errorf("symbols: bind %q in unknown scope %d", name, scope)
	}
	b, ok := s.Lookup(name)
	if !ok {
		return fmt.Errorf("symbols: bind of undeclared %q in scope %d", name, scope)
	}
	b.Storage = storage
	return nil
}

// Resolve searches scope and then each enclosing scope for name.
func (t *Table) Resolve(scope ast.NodeID, name string) (*Binding, *Scope, bool) {
	for depth := 0; scope.IsValid(); depth++ {
		s := t.Scope(scope)
		if s == nil || depth > t.Len() {
			return nil, nil, false
		}
		if b, ok := s.Lookup(name); ok {
			return b, s, true
		}
		scope = s.Parent
	}
	return nil, nil, false
}
