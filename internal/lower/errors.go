package lower

import (
	"errors"
	"fmt"

	"lowc/internal/ast"
)

var (
	// ErrUnresolved is matched by *UnresolvedIdentifierError.
	ErrUnresolved = errors.New("unresolved identifier")
	// ErrUnimplemented is matched by *UnimplementedError.
	ErrUnimplemented = errors.New("unimplemented feature")
)

// UnresolvedIdentifierError reports a name with no visible declaration, or
// one whose declaration was never lowered.
type UnresolvedIdentifierError struct {
	Name  string
	Node  ast.NodeID
	Scope ast.NodeID
}

func (e *UnresolvedIdentifierError) Error() string {
	return fmt.Sprintf("lower: unresolved identifier %q at node %d (scope %d)", e.Name, e.Node, e.Scope)
}

func (e *UnresolvedIdentifierError) Is(target error) bool { return target == ErrUnresolved }

// UnimplementedError reports an AST or type variant lowering does not handle.
type UnimplementedError struct {
	Feature string
	Node    ast.NodeID
}

func (e *UnimplementedError) Error() string {
	return fmt.Sprintf("lower: unimplemented: %s (node %d)", e.Feature, e.Node)
}

func (e *UnimplementedError) Is(target error) bool { return target == ErrUnimplemented }

func unimplemented(node ast.NodeID, format string, args ...any) error {
	return &UnimplementedError{Feature: fmt.Sprintf(format, args...), Node: node}
}
