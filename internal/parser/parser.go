package parser

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/kievzenit/aotscript/internal/ast"
	"github.com/kievzenit/aotscript/internal/compiler_errors"
	"github.com/kievzenit/aotscript/internal/lexer"
)

type UnexpectedExpectedError struct {
	Unexpected lexer.TokenKind
	Expected   lexer.TokenKind

	Line   int
	Column int
	Length int
}

func (e *UnexpectedExpectedError) GetMessage() string {
	return fmt.Sprintf(
		"unexpected token: '%s', expected: '%s' at %d:%d",
		e.Unexpected.String(),
		e.Expected.String(),
		e.Line,
		e.Column)
}

func (e *UnexpectedExpectedError) Error() string                 { return e.GetMessage() }
func (e *UnexpectedExpectedError) GetKind() compiler_errors.Kind { return compiler_errors.ParseKind }
func (e *UnexpectedExpectedError) GetLine() int                  { return e.Line }
func (e *UnexpectedExpectedError) GetColumn() int                { return e.Column }
func (e *UnexpectedExpectedError) GetLength() int                { return e.Length }

type UnexpectedExpectedManyError struct {
	Unexpected lexer.TokenKind
	Expected   []lexer.TokenKind

	Line   int
	Column int
	Length int
}

func (e *UnexpectedExpectedManyError) GetMessage() string {
	expectedKinds := make([]string, len(e.Expected))
	for i, kind := range e.Expected {
		expectedKinds[i] = kind.String()
	}
	return fmt.Sprintf(
		"unexpected token: '%s', expected one of: '%s' at %d:%d",
		e.Unexpected.String(),
		strings.Join(expectedKinds, "', '"),
		e.Line,
		e.Column)
}

func (e *UnexpectedExpectedManyError) Error() string                 { return e.GetMessage() }
func (e *UnexpectedExpectedManyError) GetKind() compiler_errors.Kind { return compiler_errors.ParseKind }
func (e *UnexpectedExpectedManyError) GetLine() int                  { return e.Line }
func (e *UnexpectedExpectedManyError) GetColumn() int                { return e.Column }
func (e *UnexpectedExpectedManyError) GetLength() int                { return e.Length }

type UnexpectedError struct {
	Unexpected lexer.TokenKind

	Line   int
	Column int
	Length int
}

func (e *UnexpectedError) GetMessage() string {
	return fmt.Sprintf("unexpected token: '%s' at %d:%d", e.Unexpected.String(), e.Line, e.Column)
}

func (e *UnexpectedError) Error() string                 { return e.GetMessage() }
func (e *UnexpectedError) GetKind() compiler_errors.Kind { return compiler_errors.ParseKind }
func (e *UnexpectedError) GetLine() int                  { return e.Line }
func (e *UnexpectedError) GetColumn() int                { return e.Column }
func (e *UnexpectedError) GetLength() int                { return e.Length }

type InvalidNumberError struct {
	Literal string

	Line   int
	Column int
	Length int
}

func (e *InvalidNumberError) GetMessage() string {
	return fmt.Sprintf("invalid number literal '%s' at %d:%d", e.Literal, e.Line, e.Column)
}

func (e *InvalidNumberError) Error() string                 { return e.GetMessage() }
func (e *InvalidNumberError) GetKind() compiler_errors.Kind { return compiler_errors.ParseKind }
func (e *InvalidNumberError) GetLine() int                  { return e.Line }
func (e *InvalidNumberError) GetColumn() int                { return e.Column }
func (e *InvalidNumberError) GetLength() int                { return e.Length }

type Parser struct {
	scanner lexer.TokenScanner

	curr *lexer.Token
}

var bindingPowerLookup map[lexer.TokenKind]int = map[lexer.TokenKind]int{
	lexer.PLUS:     30,
	lexer.MINUS:    30,
	lexer.ASTERISK: 40,
	lexer.SLASH:    40,
}

var factorStartKinds = []lexer.TokenKind{lexer.NUMBER, lexer.IDENT, lexer.LPAREN}

func NewParser(scanner lexer.TokenScanner) *Parser {
	return &Parser{
		scanner: scanner,
		curr:    scanner.Read(),
	}
}

// ParseSource tokenizes and parses one submission.
func ParseSource(source string) (*ast.BlockStmt, error) {
	tokens, err := lexer.NewLexer([]byte(source)).Tokenize()
	if err != nil {
		return nil, err
	}

	return NewParser(lexer.NewTokenScanner(tokens)).Parse()
}

// Parse consumes statements until EOF. Statements need no separator, so
// "x = 1 print x" is two statements.
func (p *Parser) Parse() (*ast.BlockStmt, error) {
	block := &ast.BlockStmt{
		StartToken: p.curr,

		Stmts: make([]ast.Stmt, 0),
	}

	for p.curr.Kind != lexer.EOF {
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}

		block.Stmts = append(block.Stmts, stmt)
	}

	return block, nil
}

func (p *Parser) parseStmt() (ast.Stmt, error) {
	switch p.curr.Kind {
	case lexer.PRINT:
		return p.parsePrintStmt()
	case lexer.IDENT:
		if p.scanner.Peek().Kind == lexer.ASSIGN {
			return p.parseAssignStmt()
		}
	}

	return nil, p.unexpected()
}

func (p *Parser) parsePrintStmt() (*ast.PrintStmt, error) {
	if err := p.expect(lexer.PRINT); err != nil {
		return nil, err
	}
	startToken := p.curr
	p.read()

	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	return &ast.PrintStmt{
		StartToken: startToken,

		Expr: expr,
	}, nil
}

func (p *Parser) parseAssignStmt() (*ast.AssignStmt, error) {
	if err := p.expect(lexer.IDENT); err != nil {
		return nil, err
	}
	startToken := p.curr
	name := p.curr.Value
	p.read()

	if err := p.expect(lexer.ASSIGN); err != nil {
		return nil, err
	}
	p.read()

	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	return &ast.AssignStmt{
		StartToken: startToken,

		Name: name,
		Expr: expr,
	}, nil
}

func (p *Parser) parseExpr() (ast.Expr, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}

	return p.parseBinaryExpr(left, 0)
}

// parseBinaryExpr climbs precedence: an operator binding tighter than the
// current one takes the right operand first, equal ones associate left.
func (p *Parser) parseBinaryExpr(left ast.Expr, bindingPower int) (ast.Expr, error) {
	for {
		currentBindingPower, ok := bindingPowerLookup[p.curr.Kind]
		if !ok || currentBindingPower < bindingPower {
			return left, nil
		}
		op, _ := ast.OperatorFor(p.curr.Kind)
		p.read()

		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}

		nextBindingPower, ok := bindingPowerLookup[p.curr.Kind]
		if ok && currentBindingPower < nextBindingPower {
			right, err = p.parseBinaryExpr(right, currentBindingPower+10)
			if err != nil {
				return nil, err
			}
		}

		left = &ast.BinaryExpr{
			StartToken: left.FirstToken(),

			Left:  left,
			Op:    op,
			Right: right,
		}
	}
}

func (p *Parser) parseFactor() (ast.Expr, error) {
	switch p.curr.Kind {
	case lexer.NUMBER:
		return p.parseNumberExpr()
	case lexer.IDENT:
		return p.parseVariableExpr()
	case lexer.LPAREN:
		return p.parseParenExpr()
	}

	return nil, p.expectAny(factorStartKinds...)
}

func (p *Parser) parseParenExpr() (ast.Expr, error) {
	if err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}
	p.read()

	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	p.read()

	return expr, nil
}

func (p *Parser) parseVariableExpr() (*ast.VariableExpr, error) {
	if err := p.expect(lexer.IDENT); err != nil {
		return nil, err
	}

	startToken := p.curr
	name := p.curr.Value
	p.read()

	return &ast.VariableExpr{
		StartToken: startToken,

		Name: name,
	}, nil
}

func (p *Parser) parseNumberExpr() (*ast.NumberExpr, error) {
	if err := p.expect(lexer.NUMBER); err != nil {
		return nil, err
	}
	startToken := p.curr

	value, err := strconv.ParseInt(p.curr.Value, 10, 64)
	if err != nil {
		return nil, &InvalidNumberError{
			Literal: p.curr.Value,

			Line:   p.curr.Metadata.Line,
			Column: p.curr.Metadata.Column,
			Length: p.curr.Metadata.Length,
		}
	}
	p.read()

	return &ast.NumberExpr{
		StartToken: startToken,

		Value: value,
	}, nil
}

func (p *Parser) read() *lexer.Token {
	p.curr = p.scanner.Read()
	return p.curr
}

func (p *Parser) expect(kind lexer.TokenKind) error {
	if p.curr.Kind == kind {
		return nil
	}

	return &UnexpectedExpectedError{
		Unexpected: p.curr.Kind,
		Expected:   kind,

		Line:   p.curr.Metadata.Line,
		Column: p.curr.Metadata.Column,
		Length: p.curr.Metadata.Length,
	}
}

func (p *Parser) expectAny(kinds ...lexer.TokenKind) error {
	if p.isCurrAny(kinds...) {
		return nil
	}

	return &UnexpectedExpectedManyError{
		Unexpected: p.curr.Kind,
		Expected:   kinds,

		Line:   p.curr.Metadata.Line,
		Column: p.curr.Metadata.Column,
		Length: p.curr.Metadata.Length,
	}
}

func (p *Parser) isCurrAny(kinds ...lexer.TokenKind) bool {
	return slices.Contains(kinds, p.curr.Kind)
}

func (p *Parser) unexpected() error {
	return &UnexpectedError{
		Unexpected: p.curr.Kind,

		Line:   p.curr.Metadata.Line,
		Column: p.curr.Metadata.Column,
		Length: p.curr.Metadata.Length,
	}
}
