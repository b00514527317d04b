package collaborator

import (
	"bytes"
	"context"
	"io"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
)

// Embedded compiles and runs the program in process with the yaegi Go
// interpreter. A fresh interpreter is used for every program so that
// declarations from one run never leak into the next. Anything the program
// writes to stderr, a panic trace included, becomes part of the diagnostics.
type Embedded struct {
	output io.Writer
}

func NewEmbedded(output io.Writer) *Embedded {
	return &Embedded{
		output: output,
	}
}

func (e *Embedded) Compile(ctx context.Context, source string) Outcome {
	var stderr bytes.Buffer
	i := interp.New(interp.Options{
		Stdout: e.output,
		Stderr: &stderr,
	})
	if err := i.Use(stdlib.Symbols); err != nil {
		return Failure(err.Error())
	}

	// A program with package main and func main runs as part of the evaluation.
	if _, err := i.EvalWithContext(ctx, source); err != nil {
		diagnostics := splitDiagnostics(err.Error())
		diagnostics = append(diagnostics, splitDiagnostics(stderr.String())...)
		return Failure(diagnostics...)
	}

	return Success()
}
