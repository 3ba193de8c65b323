package lang

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Evaluator walks the AST via variant dispatch (StmtVisitor/ExprVisitor),
// threading a current *Environment through recursive calls the way
// spec.md §4.4 describes. There is no separate scope for a bare Compound:
// fresh environments are created only at call and instantiation
// boundaries (spec.md §3's Environment invariant), so if/while bodies run
// directly in the environment of their enclosing call.
type Evaluator struct {
	env    *Environment
	logger *logrus.Logger
}

// returnSignal is the private panic sentinel used to unwind a return
// statement out to its enclosing call (SPEC_FULL.md §4.3/§4.4).
type returnSignal struct {
	Value Value
}

// NewEvaluator creates an Evaluator rooted at global. A nil logger falls
// back to logrus's standard logger.
func NewEvaluator(global *Environment, logger *logrus.Logger) *Evaluator {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Evaluator{env: global, logger: logger}
}

// Evaluate lexes nothing: it interprets an already-parsed Program against
// env, returning the value of the final top-level statement (Null if the
// program is empty). A top-level return ends evaluation early, and its
// value becomes the result.
func Evaluate(prog *Program, env *Environment) (result Value, err error) {
	e := NewEvaluator(env, nil)
	defer func() {
		if r := recover(); r != nil {
			switch v := r.(type) {
			case *EvalFailure:
				err = v
			case returnSignal:
				result = v.Value
			default:
				panic(r)
			}
		}
	}()
	result = e.evalStmtList(prog.Children)
	return result, nil
}

func (e *Evaluator) execStmt(s Stmt) Value {
	return s.Accept(e)
}

func (e *Evaluator) evalExpr(x Expr) Value {
	return x.Accept(e)
}

func (e *Evaluator) evalStmtList(stmts []Stmt) Value {
	var result Value
	for _, s := range stmts {
		result = e.execStmt(s)
	}
	return result
}

// --- statements --------------------------------------------------------

func (e *Evaluator) VisitProgram(n *Program) any {
	return e.evalStmtList(n.Children)
}

func (e *Evaluator) VisitCompound(n *Compound) any {
	return e.evalStmtList(n.Children)
}

func (e *Evaluator) VisitIf(n *If) any {
	if AsInteger(e.evalExpr(n.Cond), n.Line) != 0 {
		return e.execStmt(n.Then)
	}
	if n.Else != nil {
		return e.execStmt(n.Else)
	}
	return nil
}

func (e *Evaluator) VisitWhile(n *While) any {
	var result Value
	for AsInteger(e.evalExpr(n.Cond), n.Line) != 0 {
		result = e.execStmt(n.Body)
	}
	return result
}

func (e *Evaluator) VisitProcedure(n *Procedure) any {
	fn := &Function{Params: n.Params, Body: n.Body, Env: e.env, Name: n.Name}
	e.env.Put(n.Name, fn)
	return fn
}

func (e *Evaluator) VisitClass(n *Class) any {
	var super *ClassValue
	if n.Super != "" {
		v := e.env.Get(n.Super)
		sc, ok := v.(*ClassValue)
		if !ok {
			panic(&EvalFailure{Line: n.Line, Msg: fmt.Sprintf("'%s' is not a class", n.Super)})
		}
		super = sc
	}
	class := &ClassValue{Name: n.Name, Super: super, Env: e.env, Decl: n}
	e.env.Put(n.Name, class)
	return class
}

func (e *Evaluator) VisitReturn(n *Return) any {
	var v Value
	if n.Value != nil {
		v = e.evalExpr(n.Value)
	}
	panic(returnSignal{Value: v})
}

func (e *Evaluator) VisitExprStmt(n *ExprStmt) any {
	return e.evalExpr(n.Expression)
}

// --- expressions ---------------------------------------------------------

func (e *Evaluator) VisitBinary(n *Binary) any {
	if n.Op == ASSIGN {
		return e.evalAssign(n)
	}

	switch n.Op {
	case PLUS:
		left := e.evalExpr(n.Left)
		right := e.evalExpr(n.Right)
		_, lInt := left.(Integer)
		_, rInt := right.(Integer)
		if lInt || rInt {
			return Integer(AsInteger(left, n.Line) + AsInteger(right, n.Line))
		}
		return String(AsString(left) + AsString(right))

	case MINUS, STAR, SLASH, PERCENT:
		left := AsInteger(e.evalExpr(n.Left), n.Line)
		right := AsInteger(e.evalExpr(n.Right), n.Line)
		switch n.Op {
		case MINUS:
			return Integer(left - right)
		case STAR:
			return Integer(left * right)
		case SLASH:
			if right == 0 {
				panic(&EvalFailure{Line: n.Line, Msg: "division by zero"})
			}
			return Integer(left / right)
		default: // PERCENT
			if right == 0 {
				panic(&EvalFailure{Line: n.Line, Msg: "division by zero"})
			}
			return Integer(left % right)
		}

	case LT, LTE, GT, GTE:
		left := AsInteger(e.evalExpr(n.Left), n.Line)
		right := AsInteger(e.evalExpr(n.Right), n.Line)
		switch n.Op {
		case LT:
			return boolToInt(left < right)
		case LTE:
			return boolToInt(left <= right)
		case GT:
			return boolToInt(left > right)
		default: // GTE
			return boolToInt(left >= right)
		}

	case EQ, NEQ:
		eq := valuesEqual(e.evalExpr(n.Left), e.evalExpr(n.Right))
		if n.Op == EQ {
			return boolToInt(eq)
		}
		return boolToInt(!eq)
	}

	panic(&EvalFailure{Line: n.Line, Msg: "unknown binary operator"})
}

func boolToInt(b bool) Integer {
	if b {
		return 1
	}
	return 0
}

// valuesEqual implements spec.md §4.4's chosen equality rule (the same
// rule for both '==' and '!='): both integers compare as integers, else
// if either side is a string compare string forms, else reference
// identity. See SPEC_FULL.md §9 for why this supersedes the asymmetric
// rule the original spec flagged as a likely bug.
func valuesEqual(left, right Value) bool {
	li, lok := left.(Integer)
	ri, rok := right.(Integer)
	if lok && rok {
		return li == ri
	}
	_, lStr := left.(String)
	_, rStr := right.(String)
	if lStr || rStr {
		return AsString(left) == AsString(right)
	}
	return left == right
}

func (e *Evaluator) evalAssign(n *Binary) Value {
	value := e.evalExpr(n.Right)
	switch target := n.Left.(type) {
	case *Identifier:
		e.env.Set(target.Name, value)
		return value
	case *Member:
		obj := e.evalExpr(target.Operand)
		e.setMember(obj, target.Name, value, n.Line)
		return value
	case *Index:
		obj := e.evalExpr(target.Operand)
		idx := e.evalExpr(target.Idx)
		e.setIndexed(obj, idx, value, n.Line)
		return value
	default:
		panic(&EvalFailure{Line: n.Line, Msg: "invalid assignment"})
	}
}

func (e *Evaluator) setMember(obj Value, name string, value Value, line int) {
	inst, ok := obj.(*Instance)
	if !ok {
		panic(&EvalFailure{Line: line, Msg: "invalid member name"})
	}
	inst.Env.Put(name, value)
}

func (e *Evaluator) setIndexed(obj, idx, value Value, line int) {
	arr, ok := obj.(*Array)
	if !ok {
		panic(&EvalFailure{Line: line, Msg: "invalid assignment"})
	}
	i := AsInteger(idx, line)
	if i < 0 || int(i) >= len(arr.Elements) {
		panic(&EvalFailure{Line: line, Msg: "array index out of bounds"})
	}
	arr.Elements[i] = value
}

func (e *Evaluator) VisitUnary(n *Unary) any {
	operand := AsInteger(e.evalExpr(n.Operand), n.Line)
	return Integer(-operand)
}

// VisitCall special-cases 'ClassValue.new(...)': spec.md §4.4 defines
// instantiation as bare member access on a class ("Class.new"), but Stone
// source writes it with call syntax ("Class.new()"). Without this
// special case, evaluating the Callee would instantiate eagerly in
// VisitMember and then try to call the resulting Instance, which isn't
// callable. Any other member access still resolves and calls normally.
func (e *Evaluator) VisitCall(n *Call) any {
	if member, ok := n.Callee.(*Member); ok && member.Name == "new" {
		operand := e.evalExpr(member.Operand)
		if class, ok := operand.(*ClassValue); ok {
			if len(n.Args) != 0 {
				panic(&EvalFailure{Line: n.Line, Msg: "invalid number of arguments"})
			}
			return e.instantiate(class, n.Line)
		}
		return e.dispatchCall(e.resolveMember(operand, member.Name, n.Line), n.Args, n.Line)
	}
	return e.dispatchCall(e.evalExpr(n.Callee), n.Args, n.Line)
}

func (e *Evaluator) dispatchCall(callee Value, argExprs []Expr, line int) Value {
	args := make([]Value, len(argExprs))
	for i, a := range argExprs {
		args[i] = e.evalExpr(a)
	}

	switch fn := callee.(type) {
	case *Function:
		return e.callFunction(fn, args, line)
	case *NativeFn:
		if len(args) != fn.Arity {
			panic(&EvalFailure{Line: line, Msg: "invalid number of arguments"})
		}
		result, err := fn.Fn(args)
		if err != nil {
			panic(&EvalFailure{Line: line, Msg: err.Error()})
		}
		return result
	default:
		panic(&EvalFailure{Line: line, Msg: "value is not a function"})
	}
}

func (e *Evaluator) callFunction(fn *Function, args []Value, line int) (result Value) {
	if len(args) != len(fn.Params) {
		panic(&EvalFailure{Line: line, Msg: "invalid number of arguments"})
	}

	callEnv := NewEnvironment(fn.Env)
	for i, prm := range fn.Params {
		callEnv.Put(prm.Name, args[i])
	}

	e.logger.WithFields(logrus.Fields{"fn": fn.Name, "line": line}).Debug("call")

	previous := e.env
	e.env = callEnv
	defer func() { e.env = previous }()
	defer func() {
		if r := recover(); r != nil {
			if rs, ok := r.(returnSignal); ok {
				result = rs.Value
				return
			}
			panic(r)
		}
	}()

	result = e.execStmt(fn.Body)
	return result
}

func (e *Evaluator) VisitIndex(n *Index) any {
	obj := e.evalExpr(n.Operand)
	arr, ok := obj.(*Array)
	if !ok {
		panic(&EvalFailure{Line: n.Line, Msg: "invalid index operand"})
	}
	i := AsInteger(e.evalExpr(n.Idx), n.Line)
	if i < 0 || int(i) >= len(arr.Elements) {
		panic(&EvalFailure{Line: n.Line, Msg: "array index out of bounds"})
	}
	return arr.Elements[i]
}

func (e *Evaluator) VisitMember(n *Member) any {
	return e.resolveMember(e.evalExpr(n.Operand), n.Name, n.Line)
}

func (e *Evaluator) resolveMember(obj Value, name string, line int) Value {
	switch v := obj.(type) {
	case *Instance:
		val, ok := v.Env.GetLocal(name)
		if !ok {
			panic(&EvalFailure{Line: line, Msg: "invalid member name"})
		}
		return val
	case *ClassValue:
		if name == "new" {
			return e.instantiate(v, line)
		}
		panic(&EvalFailure{Line: line, Msg: "invalid member name"})
	default:
		panic(&EvalFailure{Line: line, Msg: "invalid member name"})
	}
}

// instantiate builds (or extends) an Instance for class, recursing into
// the superclass first so the subclass body runs last and overrides
// inherited bindings — spec.md §4.5's instantiation order.
func (e *Evaluator) instantiate(class *ClassValue, line int) *Instance {
	var inst *Instance
	if class.Super != nil {
		inst = e.instantiate(class.Super, line)
	} else {
		memberEnv := NewEnvironment(class.Env)
		inst = &Instance{Env: memberEnv, Class: class}
		memberEnv.Put("this", inst)
	}

	e.logger.WithFields(logrus.Fields{"class": class.Name, "line": line}).Debug("new")

	previous := e.env
	e.env = inst.Env
	e.execStmt(class.Decl.Body)
	e.env = previous

	inst.Class = class
	return inst
}

func (e *Evaluator) VisitClosure(n *Closure) any {
	return &Function{Params: n.Params, Body: n.Body, Env: e.env}
}

func (e *Evaluator) VisitArrayLiteral(n *ArrayLiteral) any {
	elements := make([]Value, len(n.Elements))
	for i, el := range n.Elements {
		elements[i] = e.evalExpr(el)
	}
	return &Array{Elements: elements}
}

func (e *Evaluator) VisitIdentifier(n *Identifier) any {
	return e.env.Get(n.Name)
}

func (e *Evaluator) VisitIntegerLiteral(n *IntegerLiteral) any {
	return Integer(n.Value)
}

func (e *Evaluator) VisitStringLiteral(n *StringLiteral) any {
	return String(n.Value)
}
