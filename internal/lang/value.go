package lang

import (
	"fmt"
	"strings"
)

// Value is the dynamic, tagged-union type every Stone value inhabits.
// Null is represented by the untyped Go nil, matching the teacher's use of
// bare interface{} values and the reference C++ implementation's empty
// std::any.
type Value = any

// Integer is a signed 32-bit Stone integer.
type Integer int32

// String is a Stone string.
type String string

// Array is an ordered, mutable, reference-shared sequence of values.
// Holding it behind a pointer means every copy of the Array value observes
// in-place slot mutation, and '=='/'!=' reference-identity comparison on
// arrays reduces to ordinary pointer comparison.
type Array struct {
	Elements []Value
}

// Function is a Stone closure: parameters, body, and the environment that
// was in force at its definition site.
type Function struct {
	Params []*Parameter
	Body   Stmt
	Env    *Environment
	Name   string // empty for anonymous closures
}

// NativeFn is a host-provided function of fixed arity over values. The
// evaluator rejects a call whose argument count differs from Arity before
// Fn runs; Fn returns an error for argument type mismatches, and the
// evaluator turns that into an EvalFailure carrying the call site's line
// number.
type NativeFn struct {
	Name  string
	Arity int
	Fn    func(args []Value) (Value, error)
}

// ClassValue is a runtime class object. Its only externally useful member
// is "new", which instantiates it (spec.md §4.4's Member-access rule).
type ClassValue struct {
	Name  string
	Super *ClassValue
	Env   *Environment // the class's defining environment
	Decl  *Class
}

// Instance is an object whose state lives in a dedicated Environment
// chained off the defining environment of the base-most class in its
// superclass chain (its own class's, when it has no superclass), with
// "this" bound to itself.
type Instance struct {
	Env   *Environment
	Class *ClassValue
}

// AsInteger extracts the Integer payload of v, failing with line if v is
// not an Integer. Per spec.md §4.4 there is no implicit coercion of other
// value kinds to integer: if/while conditions and arithmetic operands must
// already be Integer.
func AsInteger(v Value, line int) int32 {
	i, ok := v.(Integer)
	if !ok {
		panic(&EvalFailure{Line: line, Msg: "value is not an integer"})
	}
	return int32(i)
}

// AsString renders v the way print-style built-ins and the '+'/'=='/'!='
// string coercions do.
func AsString(v Value) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case Integer:
		return fmt.Sprintf("%d", int32(t))
	case String:
		return string(t)
	case *Array:
		parts := make([]string, len(t.Elements))
		for i, e := range t.Elements {
			parts[i] = AsString(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *ClassValue:
		return "[class " + t.Name + "]"
	case *Function:
		return "function"
	case *NativeFn:
		return "function"
	case *Instance:
		return "[instance of " + t.Class.Name + "]"
	default:
		return fmt.Sprintf("%v", t)
	}
}

// TypeName names v's value kind, mirroring the teacher's "type" builtin.
func TypeName(v Value) string {
	switch v.(type) {
	case nil:
		return "null"
	case Integer:
		return "integer"
	case String:
		return "string"
	case *Array:
		return "array"
	case *ClassValue:
		return "class"
	case *Instance:
		return "instance"
	case *Function, *NativeFn:
		return "function"
	default:
		return "unknown"
	}
}
