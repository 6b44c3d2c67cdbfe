package ast

// Builder constructs AST nodes with sequential ids. Children are created
// before their parents, so ids grow bottom-up within a construct.
type Builder struct {
	next NodeID
}

// NewBuilder returns a builder whose first node gets id 1.
func NewBuilder() *Builder { return &Builder{} }

func (b *Builder) id() NodeID {
	b.next++
	return b.next
}

// Module builds a module owning funcs.
func (b *Builder) Module(name string, funcs ...*Func) *Module {
	return &Module{ID: b.id(), Name: name, Funcs: funcs}
}

// Func builds a function with the given result type and body.
func (b *Builder) Func(name string, result Type, body *Stmt) *Func {
	return &Func{ID: b.id(), Name: name, Result: result, Body: body}
}

func (b *Builder) Block(stmts ...*Stmt) *Stmt {
	if stmts == nil {
		stmts = []*Stmt{}
	}
	return &Stmt{ID: b.id(), Kind: StmtBlock, Block: BlockStmt{Stmts: stmts}}
}

// Var declares a mutable local; value may be nil.
func (b *Builder) Var(name string, ty Type, value *Expr) *Stmt {
	return &Stmt{ID: b.id(), Kind: StmtVar, Decl: DeclStmt{Name: name, Type: ty, Value: value}}
}

// Val declares an immutable local; value may be nil.
func (b *Builder) Val(name string, ty Type, value *Expr) *Stmt {
	return &Stmt{ID: b.id(), Kind: StmtVal, Decl: DeclStmt{Name: name, Type: ty, Value: value}}
}

func (b *Builder) Assign(target, value *Expr) *Stmt {
	return &Stmt{ID: b.id(), Kind: StmtAssign, Assign: AssignStmt{Target: target, Value: value}}
}

// Return builds a return statement; value may be nil.
func (b *Builder) Return(value *Expr) *Stmt {
	return &Stmt{ID: b.id(), Kind: StmtReturn, Return: ReturnStmt{Value: value}}
}

// If builds a conditional; els may be nil.
func (b *Builder) If(cond *Expr, then, els *Stmt) *Stmt {
	return &Stmt{ID: b.id(), Kind: StmtIf, If: IfStmt{Cond: cond, Then: then, Else: els}}
}

func (b *Builder) While(cond *Expr, body *Stmt) *Stmt {
	return &Stmt{ID: b.id(), Kind: StmtWhile, While: WhileStmt{Cond: cond, Body: body}}
}

func (b *Builder) Int(v int32) *Expr {
	return &Expr{ID: b.id(), Kind: ExprInt, IntValue: v}
}

func (b *Builder) Bool(v bool) *Expr {
	return &Expr{ID: b.id(), Kind: ExprBool, BoolValue: v}
}

func (b *Builder) Ident(name string) *Expr {
	return &Expr{ID: b.id(), Kind: ExprIdent, Name: name}
}

func (b *Builder) Unary(op UnaryOp, operand *Expr) *Expr {
	return &Expr{ID: b.id(), Kind: ExprUnary, Unary: UnaryExpr{Op: op, Operand: operand}}
}

func (b *Builder) Binary(op BinaryOp, left, right *Expr) *Expr {
	return &Expr{ID: b.id(), Kind: ExprBinary, Binary: BinaryExpr{Op: op, Left: left, Right: right}}
}
