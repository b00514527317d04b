package session

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/kievzenit/aotscript/internal/codegen"
	"github.com/kievzenit/aotscript/internal/collaborator"
	"github.com/kievzenit/aotscript/internal/config"
	"github.com/peterh/liner"
)

// echoCollaborator "runs" a program by printing the argument of every
// fmt.Println line, which is enough to observe replays.
type echoCollaborator struct {
	output io.Writer
	runs   int
}

func (c *echoCollaborator) Compile(_ context.Context, source string) collaborator.Outcome {
	c.runs++
	if strings.Contains(source, "broken") {
		return collaborator.Failure("main.go:7:2: undefined: broken")
	}
	for _, line := range strings.Split(source, "\n") {
		line = strings.TrimSpace(line)
		if arg, ok := strings.CutPrefix(line, "fmt.Println("); ok {
			fmt.Fprintln(c.output, strings.TrimSuffix(arg, ")"))
		}
	}
	return collaborator.Success()
}

func newSession(mode config.Mode, keepFailed bool) (*Session, *bytes.Buffer, *echoCollaborator) {
	var out bytes.Buffer
	c := &echoCollaborator{output: &out}
	return New(mode, c, codegen.Options{KeepFailed: keepFailed}, &out, nil), &out, c
}

func feed(t *testing.T, s *Session, lines ...string) {
	t.Helper()
	reader := NewStreamReader(strings.NewReader(strings.Join(lines, "\n")))
	if err := s.Run(context.Background(), reader, "> "); err != nil {
		t.Fatal(err)
	}
}

func TestInterpretMode(t *testing.T) {
	s, out, _ := newSession(config.ModeInterpret, true)

	feed(t, s, "x = 5", "print x + 1", "", "print 2+3*4")

	if out.String() != "6\n14\n" {
		t.Errorf("output = %q", out.String())
	}
}

func TestErrorsAreReportedAndSessionContinues(t *testing.T) {
	s, out, _ := newSession(config.ModeInterpret, true)

	feed(t, s, "print y", "print 1 +", `print "a`, "print 1/0", "print 7")

	want := "ERROR: undefined variable y\n" +
		"ERROR: unexpected token: 'EOF', expected one of: 'NUMBER', 'IDENT', 'LPAREN' at 1:10\n" +
		"ERROR: unterminated string starting at 1:7\n" +
		"ERROR: division by zero\n" +
		"7\n"
	if out.String() != want {
		t.Errorf("output:\n%s\nwant:\n%s", out.String(), want)
	}
	if n := len(s.ErrorHandler().Errors()); n != 4 {
		t.Errorf("recorded %d errors, want 4", n)
	}
}

func TestExitStopsReading(t *testing.T) {
	for _, exit := range []string{"exit", "EXIT", "  Exit  "} {
		s, out, _ := newSession(config.ModeInterpret, true)
		feed(t, s, "print 1", exit, "print 2")
		if out.String() != "1\n" {
			t.Errorf("%q: output = %q, want %q", exit, out.String(), "1\n")
		}
	}
}

func TestModeSwitch(t *testing.T) {
	tests := []struct {
		command string
		want    config.Mode
		message string
	}{
		{":mode compile", config.ModeCompile, "Mode switched to Compiler mode.\n"},
		{":mode interpret", config.ModeInterpret, "Mode switched to Interpreter mode.\n"},
		{":mode INTERPRET", config.ModeInterpret, "Mode switched to Interpreter mode.\n"},
		{":mode jit", config.ModeCompile, "Mode switched to Compiler mode.\n"},
		{":mode", config.ModeInterpret, ""},
	}

	for _, tt := range tests {
		s, out, _ := newSession(config.ModeInterpret, true)
		s.HandleLine(context.Background(), tt.command)
		if s.Mode() != tt.want {
			t.Errorf("%q: mode = %q, want %q", tt.command, s.Mode(), tt.want)
		}
		if out.String() != tt.message {
			t.Errorf("%q: output = %q, want %q", tt.command, out.String(), tt.message)
		}
	}
}

func TestCompileModeReplaysBuffer(t *testing.T) {
	s, out, c := newSession(config.ModeCompile, true)

	feed(t, s, "print 1", "print 2")

	if out.String() != "1\n1\n2\n" {
		t.Errorf("output = %q, want %q", out.String(), "1\n1\n2\n")
	}
	if c.runs != 2 {
		t.Errorf("collaborator ran %d times, want 2", c.runs)
	}
}

func TestCompileFailureKeepsLines(t *testing.T) {
	s, out, _ := newSession(config.ModeCompile, true)

	feed(t, s, "broken = 1", "print 2")

	want := "ERROR: main.go:7:2: undefined: broken\n" +
		"ERROR: main.go:7:2: undefined: broken\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestCompileFailureRollsBack(t *testing.T) {
	s, out, _ := newSession(config.ModeCompile, false)

	feed(t, s, "broken = 1", "print 2")

	want := "ERROR: main.go:7:2: undefined: broken\n2\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestBackendsStayIndependent(t *testing.T) {
	s, out, _ := newSession(config.ModeInterpret, true)

	feed(t, s, "x = 5", ":mode compile", "print x", ":mode interpret", "print x")

	want := "Mode switched to Compiler mode.\n" +
		"x\n" +
		"Mode switched to Interpreter mode.\n" +
		"5\n"
	if out.String() != want {
		t.Errorf("output:\n%s\nwant:\n%s", out.String(), want)
	}
	if lines := s.Generator().Lines(); len(lines) != 1 {
		t.Errorf("buffer = %q, want only the compiled print", lines)
	}
	if names := s.Interpreter().Environment().Names(); len(names) != 1 {
		t.Errorf("environment = %v, want only x", names)
	}
}

func TestCommands(t *testing.T) {
	s, out, _ := newSession(config.ModeInterpret, true)
	ctx := context.Background()

	s.HandleLine(ctx, "b = 2 a = 1")
	out.Reset()
	s.HandleLine(ctx, ":env")
	if out.String() != "a = 1\nb = 2\n" {
		t.Errorf(":env printed %q", out.String())
	}

	out.Reset()
	s.HandleLine(ctx, ":help")
	if out.String() != HelpText+"\n" {
		t.Errorf(":help printed %q", out.String())
	}

	out.Reset()
	s.HandleLine(ctx, ":program")
	if !strings.HasPrefix(out.String(), "package main\n") || !strings.HasSuffix(out.String(), "func main() {\n}\n") {
		t.Errorf(":program printed %q", out.String())
	}

	out.Reset()
	s.HandleLine(ctx, ":ast print 1 + x")
	if !strings.Contains(out.String(), "BinaryExpr") || !strings.Contains(out.String(), "PrintStmt") {
		t.Errorf(":ast printed %q", out.String())
	}

	out.Reset()
	s.HandleLine(ctx, ":ast print")
	if !strings.HasPrefix(out.String(), "ERROR: ") {
		t.Errorf(":ast of a bad program printed %q", out.String())
	}

	out.Reset()
	s.HandleLine(ctx, ":llvm print y")
	if out.String() != "ERROR: undefined variable y\n" {
		t.Errorf(":llvm printed %q", out.String())
	}

	out.Reset()
	s.HandleLine(ctx, ":bogus")
	if out.String() != "unknown command :bogus, try :help\n" {
		t.Errorf(":bogus printed %q", out.String())
	}
}

type scriptedReader struct {
	results []error
	lines   []string
	history []string
}

func (r *scriptedReader) Prompt(string) (string, error) {
	if len(r.results) == 0 {
		return "", io.EOF
	}
	err, line := r.results[0], r.lines[0]
	r.results, r.lines = r.results[1:], r.lines[1:]
	return line, err
}

func (r *scriptedReader) AppendHistory(line string) {
	r.history = append(r.history, line)
}

func TestRunHandlesAbortsAndHistory(t *testing.T) {
	s, out, _ := newSession(config.ModeInterpret, true)
	reader := &scriptedReader{
		results: []error{nil, liner.ErrPromptAborted, nil, nil},
		lines:   []string{"print 1", "print 99", "", "print 2"},
	}

	if err := s.Run(context.Background(), reader, "> "); err != nil {
		t.Fatal(err)
	}

	if out.String() != "1\n2\n" {
		t.Errorf("output = %q", out.String())
	}
	if strings.Join(reader.history, "|") != "print 1|print 2" {
		t.Errorf("history = %q", reader.history)
	}
}

func TestRunReturnsReadErrors(t *testing.T) {
	s, _, _ := newSession(config.ModeInterpret, true)
	failure := errors.New("terminal gone")
	reader := &scriptedReader{results: []error{failure}, lines: []string{""}}

	if err := s.Run(context.Background(), reader, "> "); !errors.Is(err, failure) {
		t.Errorf("Run() = %v, want %v", err, failure)
	}
}

func TestNewFromConfigEmbedded(t *testing.T) {
	var out bytes.Buffer
	cfg := config.Default()
	cfg.Mode = config.ModeCompile
	s := NewFromConfig(cfg, &out, nil)

	if err := s.Submit(context.Background(), "x = 6 print x * 7"); err != nil {
		t.Fatal(err)
	}
	if out.String() != "42\n" {
		t.Errorf("output = %q, want %q", out.String(), "42\n")
	}
}

func TestStreamReaderLongLines(t *testing.T) {
	s, out, _ := newSession(config.ModeInterpret, true)
	long := "x = " + strings.Repeat("1+", 50000) + "1"

	feed(t, s, long, "print x")

	if out.String() != "50001\n" {
		t.Errorf("output = %q, want %q", out.String(), "50001\n")
	}
}

func TestStreamReaderLineEndings(t *testing.T) {
	reader := NewStreamReader(strings.NewReader("print 1\r\nprint 2"))

	for _, want := range []string{"print 1", "print 2"} {
		line, err := reader.Prompt("")
		if err != nil || line != want {
			t.Fatalf("Prompt() = %q, %v, want %q", line, err, want)
		}
	}
	if _, err := reader.Prompt(""); !errors.Is(err, io.EOF) {
		t.Errorf("Prompt() at end = %v, want io.EOF", err)
	}
}

func TestEmbeddedRuntimeFailureIsOneErrorLine(t *testing.T) {
	var out bytes.Buffer
	cfg := config.Default()
	cfg.Mode = config.ModeCompile
	s := NewFromConfig(cfg, &out, nil)

	s.HandleLine(context.Background(), "z = 0 print 1/z")

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	if len(lines) != 1 || !strings.HasPrefix(lines[0], "ERROR: ") {
		t.Errorf("output = %q, want a single ERROR line", out.String())
	}
}

func TestCompileModePredeclaredNamesAreUndefined(t *testing.T) {
	for _, src := range []string{"print true", "print nil", "print len"} {
		var out bytes.Buffer
		cfg := config.Default()
		cfg.Mode = config.ModeCompile
		s := NewFromConfig(cfg, &out, nil)

		s.HandleLine(context.Background(), src)

		if !strings.HasPrefix(out.String(), "ERROR: ") || strings.Count(out.String(), "\n") != 1 {
			t.Errorf("%q: output = %q, want a single ERROR line", src, out.String())
		}
	}
}
