package symbols

import (
	"errors"
	"fmt"
)

// Validate checks structural invariants of the table: every parent exists,
// the parent chain is acyclic and the name index agrees with the bindings.
func (t *Table) Validate() error {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var errs []error
	for _, id := range t.sortedIDs() {
		s := t.scopes[id]
		if s.ID != id {
			errs = append(errs, fmt.Errorf("scope %d stored under key %d", s.ID, id))
		}
		if s.Kind == ScopeInvalid {
			errs = append(errs, fmt.Errorf("scope %d has invalid kind", id))
		}
		if s.Parent.IsValid() {
			parent, ok := t.scopes[s.Parent]
			switch {
			case !ok:
				errs = append(errs, fmt.Errorf("scope %d has unknown parent %d", id, s.Parent))
			case s.Kind == ScopeModule:
				errs = append(errs, fmt.Errorf("module scope %d has parent %d", id, s.Parent))
			case s.Kind == ScopeFunction && parent.Kind != ScopeModule:
				errs = append(errs, fmt.Errorf("function scope %d nested in %s scope %d", id, parent.Kind, s.Parent))
			}
		}
		seen := map[string]bool{}
		for i := range s.Bindings {
			name := s.Bindings[i].Name
			if seen[name] {
				errs = append(errs, fmt.Errorf("scope %d declares %q twice", id, name))
			}
			seen[name] = true
			if idx, ok := s.index[name]; !ok || idx != i {
				errs = append(errs, fmt.Errorf("scope %d index for %q is stale", id, name))
			}
		}
		// walk the parent chain; more steps than scopes means a cycle
		cur, steps := s.Parent, 0
		for cur.IsValid() && steps <= len(t.scopes) {
			next, ok := t.scopes[cur]
			if !ok {
				break
			}
			cur = next.Parent
			steps++
		}
		if steps > len(t.scopes) {
			errs = append(errs, fmt.Errorf("scope %d has cyclic parent chain", id))
		}
	}
	return errors.Join(errs...)
}
