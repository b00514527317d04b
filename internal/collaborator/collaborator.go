package collaborator

import (
	"context"
	"strings"

	"github.com/kievzenit/aotscript/internal/compiler_errors"
)

// Outcome is the result of compiling and running a program. A successful
// outcome means the program has already run.
type Outcome struct {
	Diagnostics []string
}

func Success() Outcome {
	return Outcome{}
}

func Failure(diagnostics ...string) Outcome {
	if len(diagnostics) == 0 {
		diagnostics = []string{"compilation failed"}
	}

	return Outcome{Diagnostics: diagnostics}
}

func (o Outcome) Succeeded() bool {
	return len(o.Diagnostics) == 0
}

// Err converts a failed outcome into a CollaboratorError.
func (o Outcome) Err() error {
	if o.Succeeded() {
		return nil
	}

	return &CollaboratorError{Diagnostics: o.Diagnostics}
}

// Collaborator compiles a complete program and, on success, executes it.
type Collaborator interface {
	Compile(ctx context.Context, source string) Outcome
}

type CollaboratorError struct {
	Diagnostics []string
}

func (e *CollaboratorError) GetMessage() string {
	return strings.Join(e.Diagnostics, "; ")
}

func (e *CollaboratorError) Error() string                 { return e.GetMessage() }
func (e *CollaboratorError) GetKind() compiler_errors.Kind { return compiler_errors.CollaboratorKind }
func (e *CollaboratorError) GetLine() int                  { return 0 }
func (e *CollaboratorError) GetColumn() int                { return 0 }

// splitDiagnostics turns tool output into one diagnostic per non-empty line.
func splitDiagnostics(output string) []string {
	diagnostics := make([]string, 0)
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		diagnostics = append(diagnostics, line)
	}

	return diagnostics
}
