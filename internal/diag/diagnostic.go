package diag

import (
	"fmt"

	"lowc/internal/ast"
)

// Diagnostic is one reportable problem. Node is the AST node it concerns,
// when known.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	File     string
	Node     ast.NodeID
	Notes    []string
}

func (d Diagnostic) String() string {
	loc := d.File
	if d.Node.IsValid() {
		loc = fmt.Sprintf("%s#%d", loc, d.Node)
	}
	if loc != "" {
		loc += ": "
	}
	return fmt.Sprintf("%s%s %s: %s", loc, d.Severity, d.Code.ID(), d.Message)
}
