package ast

// Visitor is called for every node reached by Walk. Returning false stops
// descent into the node's children.
type Visitor struct {
	Func func(*Func) bool
	Stmt func(*Stmt) bool
	Expr func(*Expr) bool
}

// Walk visits m depth-first in source order.
func Walk(m *Module, v Visitor) {
	if m == nil {
		return
	}
	for _, fn := range m.Funcs {
		if fn == nil {
			continue
		}
		if v.Func != nil && !v.Func(fn) {
			continue
		}
		walkStmt(fn.Body, &v)
	}
}

func walkStmt(s *Stmt, v *Visitor) {
	if s == nil {
		return
	}
	if v.Stmt != nil && !v.Stmt(s) {
		return
	}
	switch s.Kind {
	case StmtBlock:
		for _, child := range s.Block.Stmts {
			walkStmt(child, v)
		}
	case StmtVar, StmtVal:
		walkExpr(s.Decl.Value, v)
	case StmtAssign:
		walkExpr(s.Assign.Target, v)
		walkExpr(s.Assign.Value, v)
	case StmtReturn:
		walkExpr(s.Return.Value, v)
	case StmtIf:
		walkExpr(s.If.Cond, v)
		walkStmt(s.If.Then, v)
		walkStmt(s.If.Else, v)
	case StmtWhile:
		walkExpr(s.While.Cond, v)
		walkStmt(s.While.Body, v)
	}
}

func walkExpr(e *Expr, v *Visitor) {
	if e == nil {
		return
	}
	if v.Expr != nil && !v.Expr(e) {
		return
	}
	switch e.Kind {
	case ExprUnary:
		walkExpr(e.Unary.Operand, v)
	case ExprBinary:
		walkExpr(e.Binary.Left, v)
		walkExpr(e.Binary.Right, v)
	}
}
