package lang

import (
	"fmt"
	"strings"
)

// printer renders an AST as a parenthesized s-expression, the way the
// teacher's stringVisitor does for its own node set. It backs the
// "-print-ast" debug flag.
type printer struct{}

// PrintTree renders prog as a single s-expression string, for diagnostics.
func PrintTree(prog *Program) string {
	p := &printer{}
	return fmt.Sprintf("%v", prog.Accept(p))
}

func (p *printer) parenthesize(name string, parts ...any) string {
	var sb strings.Builder
	sb.WriteString("(")
	sb.WriteString(name)
	for _, part := range parts {
		sb.WriteString(" ")
		sb.WriteString(fmt.Sprintf("%v", part))
	}
	sb.WriteString(")")
	return sb.String()
}

func (p *printer) stmtList(stmts []Stmt) string {
	parts := make([]string, len(stmts))
	for i, s := range stmts {
		parts[i] = fmt.Sprintf("%v", s.Accept(p))
	}
	return strings.Join(parts, " ")
}

func (p *printer) params(ps []*Parameter) string {
	names := make([]string, len(ps))
	for i, prm := range ps {
		names[i] = prm.Name
	}
	return "(" + strings.Join(names, " ") + ")"
}

func (p *printer) VisitProgram(n *Program) any {
	return p.parenthesize("program", p.stmtList(n.Children))
}

func (p *printer) VisitIf(n *If) any {
	if n.Else != nil {
		return p.parenthesize("if", n.Cond.Accept(p), n.Then.Accept(p), n.Else.Accept(p))
	}
	return p.parenthesize("if", n.Cond.Accept(p), n.Then.Accept(p))
}

func (p *printer) VisitWhile(n *While) any {
	return p.parenthesize("while", n.Cond.Accept(p), n.Body.Accept(p))
}

func (p *printer) VisitCompound(n *Compound) any {
	return p.parenthesize("block", p.stmtList(n.Children))
}

func (p *printer) VisitProcedure(n *Procedure) any {
	return p.parenthesize("def", n.Name, p.params(n.Params), n.Body.Accept(p))
}

func (p *printer) VisitClass(n *Class) any {
	if n.Super != "" {
		return p.parenthesize("class", n.Name, "extends", n.Super, n.Body.Accept(p))
	}
	return p.parenthesize("class", n.Name, n.Body.Accept(p))
}

func (p *printer) VisitReturn(n *Return) any {
	if n.Value == nil {
		return p.parenthesize("return")
	}
	return p.parenthesize("return", n.Value.Accept(p))
}

func (p *printer) VisitExprStmt(n *ExprStmt) any {
	return n.Expression.Accept(p)
}

func (p *printer) VisitBinary(n *Binary) any {
	return p.parenthesize(n.Op.String(), n.Left.Accept(p), n.Right.Accept(p))
}

func (p *printer) VisitUnary(n *Unary) any {
	return p.parenthesize("neg", n.Operand.Accept(p))
}

func (p *printer) VisitCall(n *Call) any {
	args := make([]any, 0, len(n.Args)+1)
	args = append(args, n.Callee.Accept(p))
	for _, a := range n.Args {
		args = append(args, a.Accept(p))
	}
	return p.parenthesize("call", args...)
}

func (p *printer) VisitIndex(n *Index) any {
	return p.parenthesize("index", n.Operand.Accept(p), n.Idx.Accept(p))
}

func (p *printer) VisitMember(n *Member) any {
	return p.parenthesize("member", n.Operand.Accept(p), n.Name)
}

func (p *printer) VisitClosure(n *Closure) any {
	return p.parenthesize("fun", p.params(n.Params), n.Body.Accept(p))
}

func (p *printer) VisitArrayLiteral(n *ArrayLiteral) any {
	elems := make([]any, len(n.Elements))
	for i, e := range n.Elements {
		elems[i] = e.Accept(p)
	}
	return p.parenthesize("array", elems...)
}

func (p *printer) VisitIdentifier(n *Identifier) any {
	return n.Name
}

func (p *printer) VisitIntegerLiteral(n *IntegerLiteral) any {
	return fmt.Sprintf("%d", n.Value)
}

func (p *printer) VisitStringLiteral(n *StringLiteral) any {
	return fmt.Sprintf("%q", n.Value)
}
