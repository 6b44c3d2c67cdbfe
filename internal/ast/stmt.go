package ast

import "fmt"

// StmtKind enumerates statement kinds.
type StmtKind uint8

const (
	// StmtBlock is an ordered statement list that opens a scope.
	StmtBlock StmtKind = iota
	// StmtVar declares a mutable local.
	StmtVar
	// StmtVal declares a local that is immutable after initialisation.
	StmtVal
	// StmtAssign stores a value into an existing local.
	StmtAssign
	// StmtReturn leaves the function, with or without a value.
	StmtReturn
	// StmtIf is a conditional with an optional else branch.
	StmtIf
	// StmtWhile is a pre-tested loop.
	StmtWhile

	stmtKindCount
)

var stmtKindNames = [...]string{
	StmtBlock:  "block",
	StmtVar:    "var",
	StmtVal:    "val",
	StmtAssign: "assign",
	StmtReturn: "return",
	StmtIf:     "if",
	StmtWhile:  "while",
}

func (k StmtKind) String() string {
	if k < stmtKindCount {
		return stmtKindNames[k]
	}
	return fmt.Sprintf("stmt(%d)", uint8(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k StmtKind) MarshalText() ([]byte, error) {
	if k >= stmtKindCount {
		return nil, fmt.Errorf("ast: invalid statement kind %d", uint8(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *StmtKind) UnmarshalText(b []byte) error {
	for i, name := range stmtKindNames {
		if name == string(b) {
			*k = StmtKind(i) //nolint:gosec // bounded by stmtKindNames
			return nil
		}
	}
	return fmt.Errorf("ast: unknown statement kind %q", b)
}

// Stmt is a statement node. Only the payload matching Kind is meaningful.
type Stmt struct {
	ID   NodeID   `json:"id" msgpack:"id"`
	Kind StmtKind `json:"kind" msgpack:"kind"`

	Block  BlockStmt  `json:"block,omitzero" msgpack:"block,omitempty"`
	Decl   DeclStmt   `json:"decl,omitzero" msgpack:"decl,omitempty"`
	Assign AssignStmt `json:"assign,omitzero" msgpack:"assign,omitempty"`
	Return ReturnStmt `json:"return,omitzero" msgpack:"return,omitempty"`
	If     IfStmt     `json:"if,omitzero" msgpack:"if,omitempty"`
	While  WhileStmt  `json:"while,omitzero" msgpack:"while,omitempty"`
}

// BlockStmt holds StmtBlock data.
type BlockStmt struct {
	Stmts []*Stmt `json:"stmts" msgpack:"stmts"`
}

// DeclStmt holds StmtVar and StmtVal data.
type DeclStmt struct {
	Name  string `json:"name" msgpack:"name"`
	Type  Type   `json:"type" msgpack:"type"`
	Value *Expr  `json:"value,omitempty" msgpack:"value,omitempty"`
}

// AssignStmt holds StmtAssign data.
type AssignStmt struct {
	Target *Expr `json:"target" msgpack:"target"`
	Value  *Expr `json:"value" msgpack:"value"`
}

// ReturnStmt holds StmtReturn data. Value is nil for a bare return.
type ReturnStmt struct {
	Value *Expr `json:"value,omitempty" msgpack:"value,omitempty"`
}

// IfStmt holds StmtIf data. Else is nil when there is no else branch.
type IfStmt struct {
	Cond *Expr `json:"cond" msgpack:"cond"`
	Then *Stmt `json:"then" msgpack:"then"`
	Else *Stmt `json:"else,omitempty" msgpack:"else,omitempty"`
}

// WhileStmt holds StmtWhile data.
type WhileStmt struct {
	Cond *Expr `json:"cond" msgpack:"cond"`
	Body *Stmt `json:"body" msgpack:"body"`
}

// IsDecl reports whether the statement declares a local.
func (s *Stmt) IsDecl() bool {
	return s != nil && (s.Kind == StmtVar || s.Kind == StmtVal)
}
