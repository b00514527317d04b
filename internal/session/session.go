package session

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/kievzenit/aotscript/internal/ast"
	"github.com/kievzenit/aotscript/internal/codegen"
	"github.com/kievzenit/aotscript/internal/collaborator"
	"github.com/kievzenit/aotscript/internal/compiler_errors"
	"github.com/kievzenit/aotscript/internal/config"
	"github.com/kievzenit/aotscript/internal/emitter"
	"github.com/kievzenit/aotscript/internal/interpreter"
	"github.com/kievzenit/aotscript/internal/parser"
)

const HelpText = `Commands:
  exit                      End the session
  :mode interpret|compile   Switch the active backend
  :ast <program>            Show the tree a program parses into
  :llvm <program>           Show the LLVM IR for a program
  :program                  Show the accumulated compiled program
  :env                      Show the interpreter's variables
  :help                     Show this help`

// Session routes each submission to the active backend. The interpreter's
// environment and the compiler's buffer both outlive mode switches and are
// never reconciled with each other.
type Session struct {
	mode config.Mode

	interpreter *interpreter.Interpreter
	generator   *codegen.CodeGenerator

	output io.Writer
	eh     compiler_errors.ErrorHandler
	logger *log.Logger
}

func New(mode config.Mode, c collaborator.Collaborator, options codegen.Options, output io.Writer, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	return &Session{
		mode: mode,

		interpreter: interpreter.NewInterpreter(output),
		generator:   codegen.NewCodeGenerator(c, options),

		output: output,
		eh:     compiler_errors.NewErrorHandler(output),
		logger: logger,
	}
}

// NewFromConfig builds a session whose collaborator writes program output to
// the same writer as the session.
func NewFromConfig(cfg config.Config, output io.Writer, logger *log.Logger) *Session {
	var c collaborator.Collaborator
	switch cfg.Collaborator.Kind {
	case config.CollaboratorToolchain:
		c = collaborator.NewToolchain(cfg.Collaborator.Go, cfg.Collaborator.Timeout, output)
	default:
		c = collaborator.NewEmbedded(output)
	}

	s := New(cfg.Mode, c, codegen.Options{KeepFailed: cfg.Collaborator.KeepFailed}, output, logger)
	s.logger.Printf("collaborator %s, mode %s", cfg.Collaborator.Kind, cfg.Mode)

	return s
}

func (s *Session) Mode() config.Mode {
	return s.mode
}

func (s *Session) SetMode(mode config.Mode) {
	s.mode = mode
}

func (s *Session) Interpreter() *interpreter.Interpreter {
	return s.interpreter
}

func (s *Session) Generator() *codegen.CodeGenerator {
	return s.generator
}

func (s *Session) ErrorHandler() compiler_errors.ErrorHandler {
	return s.eh
}

// Submit parses one submission and hands it to the active backend.
func (s *Session) Submit(ctx context.Context, source string) error {
	block, err := parser.ParseSource(source)
	if err != nil {
		return err
	}

	switch s.mode {
	case config.ModeCompile:
		// every run replays the whole buffer, not only the new lines
		s.generator.Generate(block)
		return s.generator.CompileAndRun(ctx, s.generator.Program())
	default:
		return s.interpreter.Execute(block)
	}
}

// HandleLine processes one input line and reports any error as a single
// ERROR line. It returns true when the line ends the session.
func (s *Session) HandleLine(ctx context.Context, line string) bool {
	trimmed := strings.TrimSpace(line)

	switch {
	case strings.EqualFold(trimmed, "exit"):
		return true
	case trimmed == "":
		return false
	case strings.HasPrefix(trimmed, ":"):
		s.handleCommand(trimmed)
		return false
	}

	if err := s.Submit(ctx, line); err != nil {
		s.logger.Printf("submission failed: %v", err)
		s.eh.Report(err)
	}

	return false
}

func (s *Session) handleCommand(line string) {
	name, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(name) {
	case ":mode":
		s.switchMode(rest)
	case ":help":
		fmt.Fprintln(s.output, HelpText)
	case ":ast":
		block, err := parser.ParseSource(rest)
		if err != nil {
			s.eh.Report(err)
			return
		}
		fmt.Fprintln(s.output, ast.Dump(block))
	case ":llvm":
		block, err := parser.ParseSource(rest)
		if err != nil {
			s.eh.Report(err)
			return
		}
		ir, err := emitter.EmitIR(block)
		if err != nil {
			s.eh.Report(err)
			return
		}
		fmt.Fprint(s.output, ir)
	case ":program":
		fmt.Fprint(s.output, s.generator.Program())
	case ":env":
		env := s.interpreter.Environment()
		for _, name := range env.Names() {
			value, _ := env.Lookup(name)
			fmt.Fprintf(s.output, "%s = %d\n", name, value)
		}
	default:
		fmt.Fprintf(s.output, "unknown command %s, try :help\n", name)
	}
}

// switchMode selects the interpreter only for "interpret", any other
// argument selects the compiler. Without an argument nothing changes.
func (s *Session) switchMode(arg string) {
	fields := strings.Fields(arg)
	if len(fields) == 0 {
		return
	}

	if strings.EqualFold(fields[0], string(config.ModeInterpret)) {
		s.mode = config.ModeInterpret
		fmt.Fprintln(s.output, "Mode switched to Interpreter mode.")
		return
	}

	s.mode = config.ModeCompile
	fmt.Fprintln(s.output, "Mode switched to Compiler mode.")
}
