package interpreter

import (
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/kievzenit/aotscript/internal/ast"
	"github.com/kievzenit/aotscript/internal/compiler_errors"
)

type RuntimeError struct {
	Message string

	Line   int
	Column int
}

func (e *RuntimeError) Error() string                 { return e.Message }
func (e *RuntimeError) GetMessage() string            { return e.Message }
func (e *RuntimeError) GetKind() compiler_errors.Kind { return compiler_errors.RuntimeKind }
func (e *RuntimeError) GetLine() int                  { return e.Line }
func (e *RuntimeError) GetColumn() int                { return e.Column }

func newRuntimeError(node ast.AstNode, format string, args ...any) *RuntimeError {
	err := &RuntimeError{
		Message: fmt.Sprintf(format, args...),
	}
	if token := node.FirstToken(); token != nil {
		err.Line = token.Metadata.Line
		err.Column = token.Metadata.Column
	}

	return err
}

// Environment maps variable names to their current values. It lives as long
// as the interpreter that owns it.
type Environment struct {
	variables map[string]int64
}

func NewEnvironment() *Environment {
	return &Environment{
		variables: make(map[string]int64),
	}
}

func (env *Environment) Lookup(name string) (int64, bool) {
	value, ok := env.variables[name]
	return value, ok
}

func (env *Environment) Bind(name string, value int64) {
	env.variables[name] = value
}

// Names returns the bound names in sorted order.
func (env *Environment) Names() []string {
	return slices.Sorted(maps.Keys(env.variables))
}

type Interpreter struct {
	env    *Environment
	output io.Writer
}

func NewInterpreter(output io.Writer) *Interpreter {
	return &Interpreter{
		env:    NewEnvironment(),
		output: output,
	}
}

func (i *Interpreter) Environment() *Environment {
	return i.env
}

// Execute runs the statements in order. Bindings made before a failing
// statement are kept.
func (i *Interpreter) Execute(block *ast.BlockStmt) error {
	for _, stmt := range block.Stmts {
		if err := i.executeStmt(stmt); err != nil {
			return err
		}
	}

	return nil
}

func (i *Interpreter) executeStmt(stmt ast.Stmt) error {
	switch stmt := stmt.(type) {
	case *ast.PrintStmt:
		value, err := i.evaluate(stmt.Expr)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(i.output, value)
		return err
	case *ast.AssignStmt:
		value, err := i.evaluate(stmt.Expr)
		if err != nil {
			return err
		}
		i.env.Bind(stmt.Name, value)
		return nil
	case *ast.BlockStmt:
		return i.Execute(stmt)
	}

	panic(fmt.Sprintf("executeStmt(): unknown statement %T", stmt))
}

func (i *Interpreter) evaluate(expr ast.Expr) (int64, error) {
	switch expr := expr.(type) {
	case *ast.NumberExpr:
		return expr.Value, nil
	case *ast.VariableExpr:
		value, ok := i.env.Lookup(expr.Name)
		if !ok {
			return 0, newRuntimeError(expr, "undefined variable %s", expr.Name)
		}
		return value, nil
	case *ast.BinaryExpr:
		return i.evaluateBinary(expr)
	}

	panic(fmt.Sprintf("evaluate(): unknown expression %T", expr))
}

func (i *Interpreter) evaluateBinary(expr *ast.BinaryExpr) (int64, error) {
	left, err := i.evaluate(expr.Left)
	if err != nil {
		return 0, err
	}

	right, err := i.evaluate(expr.Right)
	if err != nil {
		return 0, err
	}

	switch expr.Op {
	case ast.Add:
		return left + right, nil
	case ast.Sub:
		return left - right, nil
	case ast.Mul:
		return left * right, nil
	case ast.Div:
		if right == 0 {
			return 0, newRuntimeError(expr.Right, "division by zero")
		}
		// Go's integer division already truncates toward zero.
		return left / right, nil
	}

	panic(fmt.Sprintf("evaluateBinary(): unknown operator %q", expr.Op))
}
