package ast

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes m in the language's surface syntax, one statement per line.
// Binary expressions are fully parenthesised.
func Dump(w io.Writer, m *Module) error {
	if w == nil || m == nil {
		return nil
	}
	p := &printer{w: w}
	fmt.Fprintf(p.w, "module %s\n", m.Name)
	for _, fn := range m.Funcs {
		p.fn(fn)
	}
	return p.err
}

// ExprString renders a single expression.
func ExprString(e *Expr) string {
	var sb strings.Builder
	writeExpr(&sb, e)
	return sb.String()
}

type printer struct {
	w      io.Writer
	indent int
	err    error
}

func (p *printer) line(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, "%s%s\n", strings.Repeat("    ", p.indent), fmt.Sprintf(format, args...))
}

func (p *printer) fn(fn *Func) {
	if fn == nil {
		return
	}
	p.line("")
	p.line("fn %s() -> %s {", fn.Name, fn.Result)
	p.blockBody(fn.Body)
	p.line("}")
}

func (p *printer) blockBody(s *Stmt) {
	p.indent++
	defer func() { p.indent-- }()
	if s == nil {
		return
	}
	if s.Kind != StmtBlock {
		p.stmt(s)
		return
	}
	for _, child := range s.Block.Stmts {
		p.stmt(child)
	}
}

func (p *printer) stmt(s *Stmt) {
	if s == nil {
		return
	}
	switch s.Kind {
	case StmtBlock:
		p.line("{")
		p.blockBody(s)
		p.line("}")
	case StmtVar, StmtVal:
		if s.Decl.Value != nil {
			p.line("%s %s: %s = %s;", s.Kind, s.Decl.Name, s.Decl.Type, ExprString(s.Decl.Value))
		} else {
			p.line("%s %s: %s;", s.Kind, s.Decl.Name, s.Decl.Type)
		}
	case StmtAssign:
		p.line("%s = %s;", ExprString(s.Assign.Target), ExprString(s.Assign.Value))
	case StmtReturn:
		if s.Return.Value != nil {
			p.line("return %s;", ExprString(s.Return.Value))
		} else {
			p.line("return;")
		}
	case StmtIf:
		p.line("if %s {", ExprString(s.If.Cond))
		p.blockBody(s.If.Then)
		if s.If.Else != nil {
			p.line("} else {")
			p.blockBody(s.If.Else)
		}
		p.line("}")
	case StmtWhile:
		p.line("while %s {", ExprString(s.While.Cond))
		p.blockBody(s.While.Body)
		p.line("}")
	default:
		p.line("<%s>", s.Kind)
	}
}

func writeExpr(sb *strings.Builder, e *Expr) {
	if e == nil {
		sb.WriteString("<nil>")
		return
	}
	switch e.Kind {
	case ExprInt:
		fmt.Fprintf(sb, "%d", e.IntValue)
	case ExprBool:
		fmt.Fprintf(sb, "%t", e.BoolValue)
	case ExprIdent:
		sb.WriteString(e.Name)
	case ExprUnary:
		sb.WriteString("!")
		writeExpr(sb, e.Unary.Operand)
	case ExprBinary:
		sb.WriteByte('(')
		writeExpr(sb, e.Binary.Left)
		fmt.Fprintf(sb, " %s ", e.Binary.Op)
		writeExpr(sb, e.Binary.Right)
		sb.WriteByte(')')
	default:
		fmt.Fprintf(sb, "<%s>", e.Kind)
	}
}
