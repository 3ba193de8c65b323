package lang

import "testing"

// run lexes, parses, and evaluates source against a fresh global
// environment, returning the value of the final top-level statement.
func run(t *testing.T, source string) Value {
	t.Helper()
	stream := NewTokenStream(NewLexer(source))
	prog, err := Parse(stream)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	result, err := Evaluate(prog, NewEnvironment(nil))
	if err != nil {
		t.Fatalf("eval error: %v", err)
	}
	return result
}

func runErr(t *testing.T, source string) error {
	t.Helper()
	stream := NewTokenStream(NewLexer(source))
	prog, err := Parse(stream)
	if err != nil {
		return err
	}
	_, err = Evaluate(prog, NewEnvironment(nil))
	return err
}

func checkInt(t *testing.T, source string, want int32) {
	t.Helper()
	got := run(t, source)
	i, ok := got.(Integer)
	if !ok {
		t.Fatalf("%s => %#v, want Integer(%d)", source, got, want)
	}
	if int32(i) != want {
		t.Fatalf("%s => %d, want %d", source, i, want)
	}
}

func checkString(t *testing.T, source string, want string) {
	t.Helper()
	got := run(t, source)
	s, ok := got.(String)
	if !ok {
		t.Fatalf("%s => %#v, want String(%q)", source, got, want)
	}
	if string(s) != want {
		t.Fatalf("%s => %q, want %q", source, s, want)
	}
}
