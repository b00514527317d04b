package collaborator

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

const toolchainSourceName = "main.go"

// Toolchain hands the program to an installed go toolchain with `go run`.
type Toolchain struct {
	GoBinary string
	Timeout  time.Duration

	output io.Writer
}

func NewToolchain(goBinary string, timeout time.Duration, output io.Writer) *Toolchain {
	if goBinary == "" {
		goBinary = "go"
	}

	return &Toolchain{
		GoBinary: goBinary,
		Timeout:  timeout,

		output: output,
	}
}

func (t *Toolchain) Compile(ctx context.Context, source string) Outcome {
	dir, err := os.MkdirTemp("", "aotscript-*")
	if err != nil {
		return Failure(fmt.Sprintf("cannot create build directory: %v", err))
	}
	defer os.RemoveAll(dir)

	sourcePath := filepath.Join(dir, toolchainSourceName)
	if err := os.WriteFile(sourcePath, []byte(source), 0o644); err != nil {
		return Failure(fmt.Sprintf("cannot write program: %v", err))
	}

	if t.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.Timeout)
		defer cancel()
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, t.GoBinary, "run", toolchainSourceName)
	cmd.Dir = dir
	cmd.Stdout = t.output
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		diagnostics := toolchainDiagnostics(stderr.String(), dir)
		if len(diagnostics) == 0 {
			diagnostics = append(diagnostics, err.Error())
		}
		return Failure(diagnostics...)
	}

	return Success()
}

// toolchainDiagnostics drops the package header line go prints before
// compiler errors and strips the temporary directory from file names.
func toolchainDiagnostics(stderr, dir string) []string {
	diagnostics := make([]string, 0)
	for _, line := range splitDiagnostics(stderr) {
		if strings.HasPrefix(line, "# ") {
			continue
		}
		line = strings.ReplaceAll(line, dir+string(filepath.Separator), "")
		diagnostics = append(diagnostics, line)
	}

	return diagnostics
}
