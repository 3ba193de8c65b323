// Package builtins installs the small set of host-provided functions
// available to every Stone program, the way the teacher's defineGlobals
// wires native functions into the global environment.
package builtins

import (
	"errors"
	"fmt"
	"os"

	"github.com/stonelang/stone/internal/lang"
)

var errInvalidArgument = errors.New("invalid argument")

// Install registers every builtin into global.
func Install(global *lang.Environment) {
	global.Put("print", &lang.NativeFn{Name: "print", Arity: 1, Fn: builtinPrint})
	global.Put("len", &lang.NativeFn{Name: "len", Arity: 1, Fn: builtinLen})
	global.Put("str", &lang.NativeFn{Name: "str", Arity: 1, Fn: builtinStr})
	global.Put("int", &lang.NativeFn{Name: "int", Arity: 1, Fn: builtinInt})
	global.Put("push", &lang.NativeFn{Name: "push", Arity: 2, Fn: builtinPush})
	global.Put("type", &lang.NativeFn{Name: "type", Arity: 1, Fn: builtinType})
}

func builtinPrint(args []lang.Value) (lang.Value, error) {
	fmt.Fprintln(os.Stdout, lang.AsString(args[0]))
	return nil, nil
}

func builtinLen(args []lang.Value) (lang.Value, error) {
	switch v := args[0].(type) {
	case *lang.Array:
		return lang.Integer(len(v.Elements)), nil
	case lang.String:
		return lang.Integer(len(v)), nil
	default:
		return nil, errInvalidArgument
	}
}

func builtinStr(args []lang.Value) (lang.Value, error) {
	return lang.String(lang.AsString(args[0])), nil
}

func builtinInt(args []lang.Value) (lang.Value, error) {
	switch v := args[0].(type) {
	case lang.Integer:
		return v, nil
	case lang.String:
		var n int32
		if _, err := fmt.Sscanf(string(v), "%d", &n); err != nil {
			return nil, fmt.Errorf("%q is not a valid integer", string(v))
		}
		return lang.Integer(n), nil
	default:
		return nil, errInvalidArgument
	}
}

func builtinPush(args []lang.Value) (lang.Value, error) {
	arr, ok := args[0].(*lang.Array)
	if !ok {
		return nil, errInvalidArgument
	}
	arr.Elements = append(arr.Elements, args[1])
	return arr, nil
}

func builtinType(args []lang.Value) (lang.Value, error) {
	return lang.String(lang.TypeName(args[0])), nil
}
