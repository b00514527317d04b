package hir

// ProgramHir is a whole program ready for emission. Variables lists every
// name the program binds, in order of first assignment.
type ProgramHir struct {
	Variables []string
	Stmts     []StmtHir
}
