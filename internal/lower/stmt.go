package lower

import (
	"lowc/internal/ast"
	"lowc/internal/ir"
	"lowc/internal/symbols"
)

func (l *funcLowerer) stmt(s *ast.Stmt) error {
	if s == nil {
		return nil
	}
	switch s.Kind {
	case ast.StmtBlock:
		return l.block(s)
	case ast.StmtVar, ast.StmtVal:
		return l.decl(s)
	case ast.StmtAssign:
		return l.assign(s)
	case ast.StmtReturn:
		return l.ret(s)
	case ast.StmtIf:
		return l.ifStmt(s)
	case ast.StmtWhile:
		return l.while(s)
	default:
		return unimplemented(s.ID, "statement %s", s.Kind)
	}
}

func (l *funcLowerer) block(s *ast.Stmt) error {
	if _, err := l.stack.Push(symbols.ScopeBlock, s.ID); err != nil {
		return err
	}
	for _, child := range s.Block.Stmts {
		if err := l.stmt(child); err != nil {
			return err
		}
	}
	return l.stack.Pop(s.ID)
}

// decl allocates storage, stores the initializer and then makes the name
// visible, so the initializer still sees any outer binding of the same name.
func (l *funcLowerer) decl(s *ast.Stmt) error {
	ty, err := storageType(s.ID, s.Decl.Type)
	if err != nil {
		return err
	}
	storage := ir.NoLocalID
	if l.live() {
		storage = l.b.Alloc(s.Decl.Name, ty)
	}
	if s.Decl.Value != nil {
		v, err := l.expr(s.Decl.Value)
		if err != nil {
			return err
		}
		if storage.IsValid() {
			l.b.Store(storage, v)
		}
	}
	_, err = l.stack.Declare(s.Decl.Name, s.Kind == ast.StmtVar, s.Decl.Type, storage)
	return err
}

func (l *funcLowerer) assign(s *ast.Stmt) error {
	target := s.Assign.Target
	if target == nil || target.Kind != ast.ExprIdent {
		node := s.ID
		kind := "missing"
		if target != nil {
			node, kind = target.ID, target.Kind.String()
		}
		return unimplemented(node, "assignment to %s target", kind)
	}
	storage, err := l.resolve(target)
	if err != nil {
		return err
	}
	v, err := l.expr(s.Assign.Value)
	if err != nil {
		return err
	}
	if l.live() {
		l.b.Store(storage, v)
	}
	return nil
}

func (l *funcLowerer) ret(s *ast.Stmt) error {
	if s.Return.Value == nil {
		l.b.ReturnVoid()
		return nil
	}
	v, err := l.expr(s.Return.Value)
	if err != nil {
		return err
	}
	l.b.Return(v)
	return nil
}

// ifStmt allocates then and else blocks, plus a merge block only when an
// else branch exists; otherwise the else block is the merge point.
func (l *funcLowerer) ifStmt(s *ast.Stmt) error {
	cond, err := l.expr(s.If.Cond)
	if err != nil {
		return err
	}
	if !l.live() {
		if err := l.stmt(s.If.Then); err != nil {
			return err
		}
		return l.stmt(s.If.Else)
	}

	then, els := l.b.NewBlock(), l.b.NewBlock()
	merge := els
	if s.If.Else != nil {
		merge = l.b.NewBlock()
	}
	l.b.If(cond, then, els)

	l.b.SetBlock(then)
	if err := l.stmt(s.If.Then); err != nil {
		return err
	}
	l.b.Goto(merge)

	l.b.SetBlock(els)
	if s.If.Else != nil {
		if err := l.stmt(s.If.Else); err != nil {
			return err
		}
		l.b.Goto(merge)
	}

	l.b.SetBlock(merge)
	return nil
}

// while evaluates the condition in its own block on every iteration.
func (l *funcLowerer) while(s *ast.Stmt) error {
	if !l.live() {
		if _, err := l.expr(s.While.Cond); err != nil {
			return err
		}
		return l.stmt(s.While.Body)
	}

	cond, body, exit := l.b.NewBlock(), l.b.NewBlock(), l.b.NewBlock()
	l.b.Goto(cond)

	l.b.SetBlock(cond)
	c, err := l.expr(s.While.Cond)
	if err != nil {
		return err
	}
	l.b.If(c, body, exit)

	l.b.SetBlock(body)
	if err := l.stmt(s.While.Body); err != nil {
		return err
	}
	l.b.Goto(cond)

	l.b.SetBlock(exit)
	return nil
}
