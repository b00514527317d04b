package compiler_errors

import (
	"errors"
	"fmt"
	"io"
)

type Kind int

const (
	LexKind Kind = iota
	ParseKind
	RuntimeKind
	CollaboratorKind
)

func (k Kind) String() string {
	switch k {
	case LexKind:
		return "LexError"
	case ParseKind:
		return "ParseError"
	case RuntimeKind:
		return "RuntimeError"
	case CollaboratorKind:
		return "CollaboratorError"
	default:
		panic(fmt.Sprintf("Kind.String(): received illegal error kind: %d", k))
	}
}

// CompilerError is implemented by every error a submission can fail with.
// Line and column are zero when the error carries no position.
type CompilerError interface {
	error

	GetMessage() string
	GetKind() Kind
	GetLine() int
	GetColumn() int
}

// KindOf reports the kind of err, or false if err is not a CompilerError.
func KindOf(err error) (Kind, bool) {
	var ce CompilerError
	if !errors.As(err, &ce) {
		return 0, false
	}

	return ce.GetKind(), true
}

type ErrorHandler interface {
	Report(err error)
	Errors() []error
}

type CompilerErrorHandler struct {
	errors []error
	writer io.Writer
}

func NewErrorHandler(outputWriter io.Writer) ErrorHandler {
	return &CompilerErrorHandler{
		errors: make([]error, 0),
		writer: outputWriter,
	}
}

// Report writes err as a single ERROR line.
func (eh *CompilerErrorHandler) Report(err error) {
	if err == nil {
		return
	}

	eh.errors = append(eh.errors, err)

	var ce CompilerError
	if errors.As(err, &ce) {
		fmt.Fprintf(eh.writer, "ERROR: %s\n", ce.GetMessage())
		return
	}

	fmt.Fprintf(eh.writer, "ERROR: %s\n", err)
}

func (eh *CompilerErrorHandler) Errors() []error {
	return eh.errors
}
