package hir

import (
	"github.com/kievzenit/aotscript/internal/ast"
)

type ExprHir interface {
	ExprHirNode()
}

type IntExprHir struct {
	Value int64
}

type IdentExprHir struct {
	Name string
}

type BinaryOp int

const (
	Add BinaryOp = iota
	Sub
	Mul
	Div
)

func BinOpFromOperator(op ast.BinaryOperator) BinaryOp {
	switch op {
	case ast.Add:
		return Add
	case ast.Sub:
		return Sub
	case ast.Mul:
		return Mul
	case ast.Div:
		return Div
	default:
		panic("unexpected binary operator")
	}
}

type BinaryExprHir struct {
	Left  ExprHir
	Op    BinaryOp
	Right ExprHir
}

func (IntExprHir) ExprHirNode()    {}
func (IdentExprHir) ExprHirNode()  {}
func (BinaryExprHir) ExprHirNode() {}
