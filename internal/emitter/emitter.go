package emitter

import (
	"fmt"

	"github.com/kievzenit/aotscript/internal/ast"
	"github.com/kievzenit/aotscript/internal/hir"
	"github.com/kievzenit/aotscript/internal/semantic_analyzer"
	"tinygo.org/x/go-llvm"
)

const (
	printFormat          = "%lld\n"
	divisionByZeroFormat = "ERROR: division by zero\n"
)

type Emitter struct {
	program *hir.ProgramHir

	variablesMap map[string]llvm.Value

	context llvm.Context
	module  llvm.Module
	builder llvm.Builder

	int64Type  llvm.Type
	printfType llvm.Type
	printf     llvm.Value

	currentFunc         llvm.Value
	divisionByZeroBlock llvm.BasicBlock

	printFormat llvm.Value
}

func NewEmitter(program *hir.ProgramHir) *Emitter {
	context := llvm.NewContext()
	return &Emitter{
		program: program,

		variablesMap: make(map[string]llvm.Value),

		context: context,
		module:  context.NewModule("main"),
		builder: context.NewBuilder(),

		int64Type: context.Int64Type(),
	}
}

// EmitIR analyzes block and returns the textual LLVM IR of a program that
// runs it.
func EmitIR(block *ast.BlockStmt) (string, error) {
	program, err := semantic_analyzer.NewSemanticAnalyzer(block).Analyze()
	if err != nil {
		return "", err
	}

	e := NewEmitter(program)
	defer e.Dispose()

	module, err := e.Emit()
	if err != nil {
		return "", err
	}

	return module.String(), nil
}

// Emit builds and verifies the module. The module stays owned by the
// emitter and is released by Dispose.
func (e *Emitter) Emit() (llvm.Module, error) {
	e.declarePrintf()
	e.emitMainFunc()

	if err := llvm.VerifyModule(e.module, llvm.ReturnStatusAction); err != nil {
		return llvm.Module{}, fmt.Errorf("invalid module: %w", err)
	}

	return e.module, nil
}

func (e *Emitter) Dispose() {
	e.builder.Dispose()
	e.context.Dispose()
}

func (e *Emitter) declarePrintf() {
	bytePtrType := llvm.PointerType(e.context.Int8Type(), 0)
	e.printfType = llvm.FunctionType(e.context.Int32Type(), []llvm.Type{bytePtrType}, true)
	e.printf = llvm.AddFunction(e.module, "printf", e.printfType)
}

func (e *Emitter) emitMainFunc() {
	mainType := llvm.FunctionType(e.context.Int32Type(), []llvm.Type{}, false)
	mainFunc := llvm.AddFunction(e.module, "main", mainType)
	e.currentFunc = mainFunc

	allocBasicBlock := e.context.AddBasicBlock(mainFunc, "alloc")
	entryBasicBlock := e.context.AddBasicBlock(mainFunc, "entry")

	e.builder.SetInsertPointAtEnd(allocBasicBlock)
	e.printFormat = e.builder.CreateGlobalString(printFormat, "print.format")
	for _, name := range e.program.Variables {
		e.variablesMap[name] = e.builder.CreateAlloca(e.int64Type, name)
	}
	e.builder.CreateBr(entryBasicBlock)

	e.builder.SetInsertPointAtEnd(entryBasicBlock)
	for _, stmtHir := range e.program.Stmts {
		e.emitForStmtHir(stmtHir)
	}
	e.builder.CreateRet(llvm.ConstInt(e.context.Int32Type(), 0, false))
}

func (e *Emitter) emitForStmtHir(stmtHir hir.StmtHir) {
	switch stmtHir := stmtHir.(type) {
	case *hir.PrintStmtHir:
		e.emitForPrintStmtHir(stmtHir)
	case *hir.StoreStmtHir:
		e.emitForStoreStmtHir(stmtHir)
	default:
		panic("not implemented")
	}
}

func (e *Emitter) emitForPrintStmtHir(printStmtHir *hir.PrintStmtHir) {
	value := e.emitForExprHir(printStmtHir.Value)
	e.builder.CreateCall(e.printfType, e.printf, []llvm.Value{e.printFormat, value}, "")
}

func (e *Emitter) emitForStoreStmtHir(storeStmtHir *hir.StoreStmtHir) {
	value := e.emitForExprHir(storeStmtHir.Value)
	e.builder.CreateStore(value, e.variablesMap[storeStmtHir.Name])
}

func (e *Emitter) emitForExprHir(exprHir hir.ExprHir) llvm.Value {
	switch exprHir := exprHir.(type) {
	case *hir.IntExprHir:
		return llvm.ConstInt(e.int64Type, uint64(exprHir.Value), true)
	case *hir.IdentExprHir:
		return e.builder.CreateLoad(e.int64Type, e.variablesMap[exprHir.Name], "loadtmp")
	case *hir.BinaryExprHir:
		return e.emitForBinExprHir(exprHir)
	default:
		panic("not implemented")
	}
}

func (e *Emitter) emitForBinExprHir(binExprHir *hir.BinaryExprHir) llvm.Value {
	leftValue := e.emitForExprHir(binExprHir.Left)
	rightValue := e.emitForExprHir(binExprHir.Right)

	switch binExprHir.Op {
	case hir.Add:
		return e.builder.CreateAdd(leftValue, rightValue, "addtmp")
	case hir.Sub:
		return e.builder.CreateSub(leftValue, rightValue, "subtmp")
	case hir.Mul:
		return e.builder.CreateMul(leftValue, rightValue, "multmp")
	case hir.Div:
		e.emitDivisionGuard(rightValue)
		return e.builder.CreateSDiv(leftValue, rightValue, "divtmp")
	default:
		panic("not implemented")
	}
}

// emitDivisionGuard leaves the builder in a block that is only reached when
// divisor is not zero. A zero divisor reports the error and exits with 1.
func (e *Emitter) emitDivisionGuard(divisor llvm.Value) {
	zero := llvm.ConstInt(e.int64Type, 0, false)
	isZero := e.builder.CreateICmp(llvm.IntEQ, divisor, zero, "divzero")

	continueBasicBlock := e.context.AddBasicBlock(e.currentFunc, "div.ok")
	e.builder.CreateCondBr(isZero, e.getDivisionByZeroBlock(), continueBasicBlock)
	e.builder.SetInsertPointAtEnd(continueBasicBlock)
}

func (e *Emitter) getDivisionByZeroBlock() llvm.BasicBlock {
	if e.divisionByZeroBlock != (llvm.BasicBlock{}) {
		return e.divisionByZeroBlock
	}

	currBasicBlock := e.builder.GetInsertBlock()

	e.divisionByZeroBlock = e.context.AddBasicBlock(e.currentFunc, "div.zero")
	e.builder.SetInsertPointAtEnd(e.divisionByZeroBlock)
	message := e.builder.CreateGlobalString(divisionByZeroFormat, "div.zero.message")
	e.builder.CreateCall(e.printfType, e.printf, []llvm.Value{message}, "")
	e.builder.CreateRet(llvm.ConstInt(e.context.Int32Type(), 1, false))

	e.builder.SetInsertPointAtEnd(currBasicBlock)

	return e.divisionByZeroBlock
}
