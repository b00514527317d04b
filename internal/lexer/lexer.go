package lexer

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/kievzenit/aotscript/internal/compiler_errors"
)

type LexerError struct {
	Message string

	Line   int
	Column int
}

func newUnexpectedError(unexpected rune, line, column int) *LexerError {
	return &LexerError{
		Message: fmt.Sprintf("unexpected character: '%s' at %d:%d", string(unexpected), line, column),
		Line:    line,
		Column:  column,
	}
}

func newUnterminatedStringError(line, column int) *LexerError {
	return &LexerError{
		Message: fmt.Sprintf("unterminated string starting at %d:%d", line, column),
		Line:    line,
		Column:  column,
	}
}

func (e *LexerError) Error() string                 { return e.Message }
func (e *LexerError) GetMessage() string            { return e.Message }
func (e *LexerError) GetKind() compiler_errors.Kind { return compiler_errors.LexKind }
func (e *LexerError) GetLine() int                  { return e.Line }
func (e *LexerError) GetColumn() int                { return e.Column }

// Lexer produces tokens one at a time. Once EOF has been returned, every
// further call returns EOF at the same position.
type Lexer struct {
	buf []byte
	pos int

	line, col int
}

func NewLexer(buf []byte) *Lexer {
	return &Lexer{
		buf: buf,
		pos: 0,

		line: 1,
		col:  1,
	}
}

func (l *Lexer) NextToken() (Token, error) {
	for l.hasChars() {
		r := l.read()

		switch {
		case unicode.IsSpace(r):
			l.advance()

		case unicode.IsLetter(r):
			return l.processIdentifier(), nil

		case isDigit(r):
			return l.processNumber(), nil

		case r == '"':
			return l.processStringLiteral()

		case isPunctuation(r):
			return l.processPunctuation(), nil

		default:
			return Token{}, newUnexpectedError(r, l.line, l.col)
		}
	}

	return Token{
		Kind: EOF,
		Metadata: TokenMetadata{
			Line:   l.line,
			Column: l.col,
		},
	}, nil
}

// Tokenize drains the lexer, the returned slice always ends with EOF.
func (l *Lexer) Tokenize() ([]Token, error) {
	tokens := make([]Token, 0)

	for {
		token, err := l.NextToken()
		if err != nil {
			return nil, err
		}

		tokens = append(tokens, token)
		if token.Kind == EOF {
			return tokens, nil
		}
	}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isPunctuation(r rune) bool {
	switch r {
	case '+', '-', '*', '/', '=', '(', ')':
		return true
	}
	return false
}

func (l *Lexer) processIdentifier() Token {
	line, col := l.line, l.col
	start := l.pos

	for l.hasChars() && unicode.IsLetter(l.read()) {
		l.advance()
	}
	identifier := string(l.buf[start:l.pos])

	kind := IDENT
	if identifier == "print" {
		kind = PRINT
	}

	return Token{
		Kind:  kind,
		Value: identifier,
		Metadata: TokenMetadata{
			Line:   line,
			Column: col,
			Length: l.col - col,
		},
	}
}

func (l *Lexer) processNumber() Token {
	line, col := l.line, l.col
	start := l.pos

	for l.hasChars() && isDigit(l.read()) {
		l.advance()
	}

	return Token{
		Kind:  NUMBER,
		Value: string(l.buf[start:l.pos]),
		Metadata: TokenMetadata{
			Line:   line,
			Column: col,
			Length: l.col - col,
		},
	}
}

func (l *Lexer) processStringLiteral() (Token, error) {
	line, col := l.line, l.col
	l.advance()

	start := l.pos
	for l.hasChars() {
		switch l.read() {
		case '"':
			value := string(l.buf[start:l.pos])
			l.advance()

			return Token{
				Kind:  STRING,
				Value: value,
				Metadata: TokenMetadata{
					Line:   line,
					Column: col,
					Length: l.col - col,
				},
			}, nil
		case '\n':
			return Token{}, newUnterminatedStringError(line, col)
		}

		l.advance()
	}

	return Token{}, newUnterminatedStringError(line, col)
}

func (l *Lexer) processPunctuation() Token {
	var kind TokenKind
	switch l.read() {
	case '+':
		kind = PLUS
	case '-':
		kind = MINUS
	case '*':
		kind = ASTERISK
	case '/':
		kind = SLASH
	case '=':
		kind = ASSIGN
	case '(':
		kind = LPAREN
	case ')':
		kind = RPAREN
	default:
		panic("unreachable")
	}

	token := Token{
		Kind:  kind,
		Value: string(l.read()),
		Metadata: TokenMetadata{
			Line:   l.line,
			Column: l.col,
			Length: 1,
		},
	}
	l.advance()

	return token
}

func (l *Lexer) hasChars() bool {
	return l.pos < len(l.buf)
}

func (l *Lexer) read() rune {
	r, _ := utf8.DecodeRune(l.buf[l.pos:])
	return r
}

// advance consumes one character and keeps line/column in step with it.
func (l *Lexer) advance() {
	r, size := utf8.DecodeRune(l.buf[l.pos:])
	l.pos += size

	if r == '\n' {
		l.line++
		l.col = 1
		return
	}
	l.col++
}
