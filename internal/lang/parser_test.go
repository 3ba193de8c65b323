package lang

import (
	"strings"
	"testing"
)

func parseSource(t *testing.T, source string) *Program {
	t.Helper()
	prog, err := Parse(NewTokenStream(NewLexer(source)))
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	return prog
}

func TestParseArithmeticPrecedence(t *testing.T) {
	prog := parseSource(t, "1 + 2 * 3")
	got := PrintTree(prog)
	want := "(program (+ 1 (* 2 3)))"
	if got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestParseAssignmentIsRightAssociative(t *testing.T) {
	prog := parseSource(t, "a = b = 1")
	got := PrintTree(prog)
	want := "(program (= a (= b 1)))"
	if got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestParseComparisonBindsLooserThanAddition(t *testing.T) {
	prog := parseSource(t, "a + 1 < b - 1")
	got := PrintTree(prog)
	want := "(program (< (+ a 1) (- b 1)))"
	if got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestParseUnaryMinus(t *testing.T) {
	prog := parseSource(t, "-x")
	if got, want := PrintTree(prog), "(program (neg x))"; got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestParseCallMemberIndexChain(t *testing.T) {
	prog := parseSource(t, "a.b[0](1, 2)")
	got := PrintTree(prog)
	want := "(program (call (index (member a b) 0) 1 2))"
	if got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestParseIfElseIf(t *testing.T) {
	prog := parseSource(t, "if a { 1 } else if b { 2 } else { 3 }")
	got := PrintTree(prog)
	want := "(program (if a (block 1) (if b (block 2) (block 3))))"
	if got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestParseClassWithSuperclass(t *testing.T) {
	prog := parseSource(t, "class Pos3D extends Position {\nz = 0\n}")
	got := PrintTree(prog)
	want := "(program (class Pos3D extends Position (block (= z 0))))"
	if got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestParseClosureAndArrayLiteral(t *testing.T) {
	prog := parseSource(t, "fun(a, b) { return [a, b] }")
	got := PrintTree(prog)
	want := "(program (fun (a b) (block (return (array a b)))))"
	if got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestParseBlankLinesBetweenStatements(t *testing.T) {
	prog := parseSource(t, "a\n\nb")
	if len(prog.Children) != 2 {
		t.Fatalf("got %d top-level statements, want 2", len(prog.Children))
	}
}

func TestParseStopsAtFirstFailure(t *testing.T) {
	_, err := Parse(NewTokenStream(NewLexer("a = )")))
	if err == nil {
		t.Fatal("expected a parse error")
	}
	pf, ok := err.(*ParseFailure)
	if !ok {
		t.Fatalf("expected *ParseFailure, got %T", err)
	}
	if !strings.Contains(pf.Error(), "error at line 1") {
		t.Fatalf("unexpected message: %s", pf.Error())
	}
}

func TestParseMissingSeparatorFails(t *testing.T) {
	_, err := Parse(NewTokenStream(NewLexer("a b")))
	if err == nil {
		t.Fatal("expected a parse error for missing separator")
	}
}
