package codegen

import (
	"context"
	"fmt"
	"go/token"
	"go/types"
	"strings"

	"github.com/kievzenit/aotscript/internal/ast"
	"github.com/kievzenit/aotscript/internal/collaborator"
)

// The generated program is Go source. Only the statement lines between the
// prologue and the epilogue are ever accumulated.
var (
	prologue = []string{
		"package main",
		"",
		`import "fmt"`,
		"",
		"var _ = fmt.Println",
		"",
		"func main() {",
	}
	epilogue = []string{
		"}",
	}
)

// Names the generated program itself depends on.
var reservedHostNames = map[string]bool{
	"fmt":  true,
	"main": true,
}

type Options struct {
	// KeepFailed keeps the lines of a submission in the buffer even when the
	// collaborator rejects the program built from it.
	KeepFailed bool
}

// CodeGenerator translates submissions to Go statements and replays the
// whole accumulated buffer on every run.
type CodeGenerator struct {
	collaborator collaborator.Collaborator
	options      Options

	buffer []string
	marks  []int
}

func NewCodeGenerator(c collaborator.Collaborator, options Options) *CodeGenerator {
	return &CodeGenerator{
		collaborator: c,
		options:      options,

		buffer: make([]string, 0),
	}
}

// Generate translates block, appends its lines to the buffer and returns the
// program made of those lines alone.
func (g *CodeGenerator) Generate(block *ast.BlockStmt) string {
	lines := g.generateBlock(block)

	g.marks = append(g.marks, len(g.buffer))
	g.buffer = append(g.buffer, lines...)

	return wrap(lines)
}

// Program wraps the entire accumulated buffer into one complete program.
func (g *CodeGenerator) Program() string {
	return wrap(g.buffer)
}

func (g *CodeGenerator) Lines() []string {
	return append([]string(nil), g.buffer...)
}

// CompileAndRun hands programText to the collaborator. When the collaborator
// fails and KeepFailed is off, the most recent submission is dropped from the
// buffer again.
func (g *CodeGenerator) CompileAndRun(ctx context.Context, programText string) error {
	outcome := g.collaborator.Compile(ctx, programText)
	if outcome.Succeeded() {
		return nil
	}

	if !g.options.KeepFailed {
		g.rollback()
	}

	return outcome.Err()
}

func (g *CodeGenerator) rollback() {
	if len(g.marks) == 0 {
		return
	}

	last := g.marks[len(g.marks)-1]
	g.marks = g.marks[:len(g.marks)-1]
	g.buffer = g.buffer[:last]
}

func wrap(lines []string) string {
	var sb strings.Builder
	for _, line := range prologue {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	for _, line := range lines {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	for _, line := range epilogue {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}

	return sb.String()
}

func (g *CodeGenerator) generateBlock(block *ast.BlockStmt) []string {
	lines := make([]string, 0, len(block.Stmts))
	for _, stmt := range block.Stmts {
		lines = append(lines, g.generateStmt(stmt)...)
	}

	return lines
}

func (g *CodeGenerator) generateStmt(stmt ast.Stmt) []string {
	switch stmt := stmt.(type) {
	case *ast.PrintStmt:
		return []string{fmt.Sprintf("\tfmt.Println(%s)", g.generateExpr(stmt.Expr))}
	case *ast.AssignStmt:
		name := hostIdent(stmt.Name)
		return []string{fmt.Sprintf("\tvar %s int64 = %s; _ = %s", name, g.generateExpr(stmt.Expr), name)}
	case *ast.BlockStmt:
		return g.generateBlock(stmt)
	}

	panic(fmt.Sprintf("generateStmt(): unknown statement %T", stmt))
}

func (g *CodeGenerator) generateExpr(expr ast.Expr) string {
	switch expr := expr.(type) {
	case *ast.NumberExpr:
		return fmt.Sprint(expr.Value)
	case *ast.VariableExpr:
		return hostIdent(expr.Name)
	case *ast.BinaryExpr:
		return fmt.Sprintf("(%s %s %s)", g.generateExpr(expr.Left), expr.Op, g.generateExpr(expr.Right))
	}

	panic(fmt.Sprintf("generateExpr(): unknown expression %T", expr))
}

// hostIdent keeps script names from colliding with Go keywords, Go's
// predeclared identifiers and the names the prologue uses. Script names are
// letters only, so a trailing underscore cannot clash with another script name.
func hostIdent(name string) string {
	if token.IsKeyword(name) || types.Universe.Lookup(name) != nil || reservedHostNames[name] {
		return name + "_"
	}

	return name
}
