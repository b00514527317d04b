package interpreter

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/kievzenit/aotscript/internal/compiler_errors"
	"github.com/kievzenit/aotscript/internal/parser"
)

func execute(t *testing.T, i *Interpreter, src string) error {
	t.Helper()
	block, err := parser.ParseSource(src)
	if err != nil {
		t.Fatalf("ParseSource(%q) error: %v", src, err)
	}
	return i.Execute(block)
}

func TestPrint(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"print 2+3*4", "14\n"},
		{"print (2+3)*4", "20\n"},
		{"print 7/2", "3\n"},
		{"print (0-7)/2", "-3\n"},
		{"print 7/(0-2)", "-3\n"},
		{"print 10-4-3", "3\n"},
		{"print 1 print 2", "1\n2\n"},
		{"print 9223372036854775807+1", "-9223372036854775808\n"},
	}

	for _, tt := range tests {
		var out bytes.Buffer
		if err := execute(t, NewInterpreter(&out), tt.src); err != nil {
			t.Errorf("%q: %v", tt.src, err)
			continue
		}
		if out.String() != tt.want {
			t.Errorf("%q printed %q, want %q", tt.src, out.String(), tt.want)
		}
	}
}

func TestEnvironmentPersistsAcrossSubmissions(t *testing.T) {
	var out bytes.Buffer
	i := NewInterpreter(&out)

	if err := execute(t, i, "x=5"); err != nil {
		t.Fatal(err)
	}
	if err := execute(t, i, "print x+1"); err != nil {
		t.Fatal(err)
	}
	if err := execute(t, i, "x = x * 2 print x"); err != nil {
		t.Fatal(err)
	}

	if got := out.String(); got != "6\n10\n" {
		t.Errorf("output = %q, want %q", got, "6\n10\n")
	}
	if got := i.Environment().Names(); !reflect.DeepEqual(got, []string{"x"}) {
		t.Errorf("Names() = %v", got)
	}
}

func TestUndefinedVariable(t *testing.T) {
	var out bytes.Buffer
	err := execute(t, NewInterpreter(&out), "print y")

	var runtimeErr *RuntimeError
	if !errors.As(err, &runtimeErr) {
		t.Fatalf("error = %v, want *RuntimeError", err)
	}
	if !strings.Contains(runtimeErr.Message, "undefined") || runtimeErr.Message != "undefined variable y" {
		t.Errorf("message = %q", runtimeErr.Message)
	}
	if runtimeErr.Line != 1 || runtimeErr.Column != 7 {
		t.Errorf("position = %d:%d, want 1:7", runtimeErr.Line, runtimeErr.Column)
	}
	if kind, _ := compiler_errors.KindOf(err); kind != compiler_errors.RuntimeKind {
		t.Errorf("kind = %v, want RuntimeError", kind)
	}
}

func TestDivisionByZero(t *testing.T) {
	var out bytes.Buffer
	i := NewInterpreter(&out)

	err := execute(t, i, "x = 0 print 1/x")
	if err == nil || err.Error() != "division by zero" {
		t.Fatalf("error = %v, want division by zero", err)
	}
	if out.Len() != 0 {
		t.Errorf("printed %q before failing", out.String())
	}
}

func TestFailureKeepsEarlierBindings(t *testing.T) {
	var out bytes.Buffer
	i := NewInterpreter(&out)

	if err := execute(t, i, "a = 1 print 1 b = nope c = 3"); err == nil {
		t.Fatal("expected an error")
	}

	if _, ok := i.Environment().Lookup("a"); !ok {
		t.Error("a was rolled back")
	}
	if _, ok := i.Environment().Lookup("c"); ok {
		t.Error("c was bound after the failing statement")
	}
	if out.String() != "1\n" {
		t.Errorf("output = %q, want %q", out.String(), "1\n")
	}
}

func TestLeftOperandEvaluatedFirst(t *testing.T) {
	var out bytes.Buffer
	err := execute(t, NewInterpreter(&out), "print a + b")
	if err == nil || err.Error() != "undefined variable a" {
		t.Errorf("error = %v, want the left operand to fail first", err)
	}
}
