package hir

type StmtHir interface {
	StmtHirNode()
}

type PrintStmtHir struct {
	Value ExprHir
}

// StoreStmtHir writes Value into the slot of an already hoisted variable.
type StoreStmtHir struct {
	Name  string
	Value ExprHir
}

func (PrintStmtHir) StmtHirNode() {}
func (StoreStmtHir) StmtHirNode() {}
