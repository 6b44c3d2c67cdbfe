package symbols

import (
	"errors"
	"fmt"

	"lowc/internal/ast"
)

var (
	ErrDuplicate     = errors.New("duplicate declaration")
	ErrUnresolved    = errors.New("unresolved identifier")
	ErrImmutable     = errors.New("assignment to immutable binding")
	ErrInvalidTarget = errors.New("invalid assignment target")
)

// CheckKind classifies a CheckError.
type CheckKind uint8

const (
	CheckDuplicate CheckKind = iota
	CheckUnresolved
	CheckImmutable
	CheckInvalidTarget
)

func (k CheckKind) sentinel() error {
	switch k {
	case CheckDuplicate:
		return ErrDuplicate
	case CheckUnresolved:
		return ErrUnresolved
	case CheckImmutable:
		return ErrImmutable
	default:
		return ErrInvalidTarget
	}
}

// CheckError reports one semantic problem found while building the scope
// skeleton.
type CheckError struct {
	Kind  CheckKind
	Name  string
	Node  ast.NodeID
	Scope ast.NodeID
}

func (e *CheckError) Error() string {
	msg := e.Kind.sentinel().Error()
	if e.Name != "" {
		msg += fmt.Sprintf(" %q", e.Name)
	}
	if e.Node.IsValid() {
		msg += fmt.Sprintf(" at node %d", e.Node)
	}
	return fmt.Sprintf("symbols: %s (scope %d)", msg, e.Scope)
}

func (e *CheckError) Is(target error) bool {
	return target == e.Kind.sentinel()
}
