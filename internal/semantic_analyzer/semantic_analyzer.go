package semantic_analyzer

import (
	"fmt"

	"github.com/kievzenit/aotscript/internal/ast"
	"github.com/kievzenit/aotscript/internal/compiler_errors"
	"github.com/kievzenit/aotscript/internal/hir"
)

// SemanticError reports a name used before anything was assigned to it. It
// is the ahead-of-time form of the interpreter's undefined variable error.
type SemanticError struct {
	message string

	line   int
	column int
}

func (sa *SemanticError) Error() string                 { return sa.message }
func (sa *SemanticError) GetMessage() string            { return sa.message }
func (sa *SemanticError) GetKind() compiler_errors.Kind { return compiler_errors.RuntimeKind }
func (sa *SemanticError) GetLine() int                  { return sa.line }
func (sa *SemanticError) GetColumn() int                { return sa.column }

func newSemanticError(node ast.AstNode, message string) *SemanticError {
	err := &SemanticError{
		message: message,
	}
	if token := node.FirstToken(); token != nil {
		err.line = token.Metadata.Line
		err.column = token.Metadata.Column
	}

	return err
}

type scope struct {
	variables map[string]bool
	order     []string
}

func (s *scope) lookupVar(name string) bool {
	return s.variables[name]
}

// defineVar is idempotent, assigning again to a name reuses its slot.
func (s *scope) defineVar(name string) {
	if s.variables[name] {
		return
	}
	s.variables[name] = true
	s.order = append(s.order, name)
}

type SemanticAnalyzer struct {
	block *ast.BlockStmt

	scope *scope
}

func NewSemanticAnalyzer(block *ast.BlockStmt) *SemanticAnalyzer {
	return &SemanticAnalyzer{
		block: block,

		scope: &scope{variables: make(map[string]bool)},
	}
}

// Analyze checks that every variable is assigned before it is read and
// lowers the block to HIR with all variables hoisted.
func (sa *SemanticAnalyzer) Analyze() (*hir.ProgramHir, error) {
	stmts, err := sa.analyzeBlockStmt(sa.block)
	if err != nil {
		return nil, err
	}

	return &hir.ProgramHir{
		Variables: sa.scope.order,
		Stmts:     stmts,
	}, nil
}

func (sa *SemanticAnalyzer) analyzeBlockStmt(block *ast.BlockStmt) ([]hir.StmtHir, error) {
	stmts := make([]hir.StmtHir, 0, len(block.Stmts))
	for _, stmt := range block.Stmts {
		analyzed, err := sa.analyzeStmt(stmt)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, analyzed...)
	}

	return stmts, nil
}

func (sa *SemanticAnalyzer) analyzeStmt(stmt ast.Stmt) ([]hir.StmtHir, error) {
	switch stmt := stmt.(type) {
	case *ast.PrintStmt:
		value, err := sa.analyzeExpr(stmt.Expr)
		if err != nil {
			return nil, err
		}
		return []hir.StmtHir{&hir.PrintStmtHir{Value: value}}, nil
	case *ast.AssignStmt:
		// the right side is checked before the name exists, so "x = x" fails
		value, err := sa.analyzeExpr(stmt.Expr)
		if err != nil {
			return nil, err
		}
		sa.scope.defineVar(stmt.Name)
		return []hir.StmtHir{&hir.StoreStmtHir{Name: stmt.Name, Value: value}}, nil
	case *ast.BlockStmt:
		return sa.analyzeBlockStmt(stmt)
	default:
		panic(fmt.Sprintf("analyzeStmt(): unknown statement %T", stmt))
	}
}

func (sa *SemanticAnalyzer) analyzeExpr(expr ast.Expr) (hir.ExprHir, error) {
	switch expr := expr.(type) {
	case *ast.NumberExpr:
		return &hir.IntExprHir{Value: expr.Value}, nil
	case *ast.VariableExpr:
		return sa.analyzeVariableExpr(expr)
	case *ast.BinaryExpr:
		return sa.analyzeBinaryExpr(expr)
	default:
		panic(fmt.Sprintf("analyzeExpr(): unknown expression %T", expr))
	}
}

func (sa *SemanticAnalyzer) analyzeVariableExpr(variableExpr *ast.VariableExpr) (*hir.IdentExprHir, error) {
	if !sa.scope.lookupVar(variableExpr.Name) {
		return nil, newSemanticError(variableExpr, fmt.Sprintf("undefined variable %s", variableExpr.Name))
	}

	return &hir.IdentExprHir{Name: variableExpr.Name}, nil
}

func (sa *SemanticAnalyzer) analyzeBinaryExpr(binaryExpr *ast.BinaryExpr) (*hir.BinaryExprHir, error) {
	left, err := sa.analyzeExpr(binaryExpr.Left)
	if err != nil {
		return nil, err
	}

	right, err := sa.analyzeExpr(binaryExpr.Right)
	if err != nil {
		return nil, err
	}

	return &hir.BinaryExprHir{
		Left:  left,
		Op:    hir.BinOpFromOperator(binaryExpr.Op),
		Right: right,
	}, nil
}
