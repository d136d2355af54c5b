// Copyright (c) 2026 The Stampo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compiler

import (
	"bytes"

	"github.com/stampo-dev/stampo/ast"
	"github.com/stampo-dev/stampo/value"
)

// lexer maintains the scanner state.
type lexer struct {
	text   []byte     // text on which the scans are performed.
	src    []byte     // slice of the text used during the scan.
	line   int        // current line starting from 1.
	column int        // current column starting from 1.
	tokens chan token // tokens, is closed at the end of the scan.
	err    error      // error, reports whether there was an error.
}

// newLexer creates a new lexer scanning text.
func newLexer(text []byte) *lexer {
	tokens := make(chan token, 20)
	lex := &lexer{text: text, src: text, line: 1, column: 1, tokens: tokens}
	go lex.scan()
	return lex
}

// drain reads the remaining tokens so that the scan goroutine can
// terminate. It must be called when the parsing stops before EOF.
func (l *lexer) drain() {
	for range l.tokens {
	}
}

// errorf builds a syntax error at the current position.
func (l *lexer) errorf(format string, args ...interface{}) *SyntaxError {
	pos := ast.Position{
		Line:   l.line,
		Column: l.column,
		Start:  len(l.text) - len(l.src),
		End:    len(l.text) - len(l.src),
	}
	return syntaxError(&pos, format, args...)
}

// emit emits a token of type typ and length length.
func (l *lexer) emit(typ tokenTyp, length int) {
	var txt []byte
	if typ != tokenEOF {
		txt = l.src[:length]
	}
	if typ == tokenText {
		txt = unescapeText(txt)
	}
	start := len(l.text) - len(l.src)
	end := start + length - 1
	if length == 0 {
		end = start
	}
	l.tokens <- token{
		typ: typ,
		pos: &ast.Position{Line: l.line, Column: l.column, Start: start, End: end},
		txt: txt,
	}
	l.skip(length)
}

// skip advances the scan of n bytes updating line and column.
func (l *lexer) skip(n int) {
	for i := 0; i < n; i++ {
		if l.src[i] == '\n' {
			l.line++
			l.column = 1
		} else {
			l.column++
		}
	}
	l.src = l.src[n:]
}

// scan scans the text emitting the tokens on the tokens channel. If an
// error occurs it puts the error in err, closes the channel and returns.
func (l *lexer) scan() {

	p := 0

LOOP:
	for p < len(l.src) {
		switch l.src[p] {
		case '{':
			if p > 0 {
				l.emit(tokenText, p)
			}
			err := l.lexStatement()
			if err != nil {
				l.err = err
				break LOOP
			}
			p = 0
		case '}':
			l.skip(p)
			l.err = l.errorf("unexpected }")
			break LOOP
		case '\\':
			if p+1 < len(l.src) && (l.src[p+1] == '{' || l.src[p+1] == '}') {
				p += 2
			} else {
				p++
			}
		default:
			p++
		}
	}

	if l.err == nil {
		if len(l.src) > 0 {
			l.emit(tokenText, len(l.src))
		}
		l.emit(tokenEOF, 0)
	}

	l.src = nil

	close(l.tokens)
}

// unescapeText resolves the escapes "\{" and "\}" in txt. Any other
// backslash is literal text.
func unescapeText(txt []byte) []byte {
	if !bytes.ContainsAny(txt, "\\") {
		return txt
	}
	b := make([]byte, 0, len(txt))
	for i := 0; i < len(txt); i++ {
		if txt[i] == '\\' && i+1 < len(txt) && (txt[i+1] == '{' || txt[i+1] == '}') {
			i++
		}
		b = append(b, txt[i])
	}
	return b
}

// lexStatement reads a statement knowing that src starts with '{'.
func (l *lexer) lexStatement() error {
	l.emit(tokenLeftBrace, 1)
	err := l.lexCode()
	if err != nil {
		return err
	}
	if len(l.src) == 0 {
		return l.errorf("unexpected EOF, expecting }")
	}
	l.emit(tokenRightBrace, 1)
	return nil
}

// lexCode reads the code of a statement up to the closing '}'.
func (l *lexer) lexCode() error {
	// lastOperand reports whether the last emitted token can end an
	// operand. It decides if '+' and '-' are operators or number signs.
	lastOperand := false
	for len(l.src) > 0 {
		switch c := l.src[0]; c {
		case '}':
			return nil
		case ' ', '\t', '\v', '\r', '\n':
			l.skip(1)
		case '(':
			l.emit(tokenLeftParenthesis, 1)
			lastOperand = false
		case ')':
			l.emit(tokenRightParenthesis, 1)
			lastOperand = true
		case '[':
			l.emit(tokenLeftBracket, 1)
			lastOperand = false
		case ']':
			l.emit(tokenRightBracket, 1)
			lastOperand = true
		case '=':
			if len(l.src) == 1 || l.src[1] != '=' {
				return l.errorf("unexpected =, expecting ==")
			}
			l.emit(tokenEqual, 2)
			lastOperand = false
		case '!':
			if len(l.src) == 1 || l.src[1] != '=' {
				return l.errorf("unexpected !, expecting !=")
			}
			l.emit(tokenNotEqual, 2)
			lastOperand = false
		case '<':
			if len(l.src) > 1 && l.src[1] == '=' {
				l.emit(tokenLessOrEqual, 2)
			} else {
				l.emit(tokenLess, 1)
			}
			lastOperand = false
		case '>':
			if len(l.src) > 1 && l.src[1] == '=' {
				l.emit(tokenGreaterOrEqual, 2)
			} else {
				l.emit(tokenGreater, 1)
			}
			lastOperand = false
		case '&':
			if len(l.src) == 1 || l.src[1] != '&' {
				return l.errorf("unexpected &, expecting &&")
			}
			l.emit(tokenAnd, 2)
			lastOperand = false
		case '|':
			if len(l.src) == 1 || l.src[1] != '|' {
				return l.errorf("unexpected |, expecting ||")
			}
			l.emit(tokenOr, 2)
			lastOperand = false
		case '+', '-':
			if !lastOperand && len(l.src) > 1 && (isDigit(l.src[1]) || l.src[1] == '.') {
				err := l.lexNumber()
				if err != nil {
					return err
				}
				lastOperand = true
			} else {
				if c == '+' {
					l.emit(tokenAddition, 1)
				} else {
					l.emit(tokenSubtraction, 1)
				}
				lastOperand = false
			}
		case '*':
			l.emit(tokenMultiplication, 1)
			lastOperand = false
		case '/':
			l.emit(tokenDivision, 1)
			lastOperand = false
		case '%':
			l.emit(tokenModulo, 1)
			lastOperand = false
		case '.', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
			err := l.lexNumber()
			if err != nil {
				return err
			}
			lastOperand = true
		default:
			if c == '_' || isLetter(c) {
				lastOperand = l.lexIdentifierOrKeyword()
			} else {
				return l.errorf("unexpected %c", c)
			}
		}
	}
	return l.errorf("unexpected EOF, expecting }")
}

// isLetter reports whether c is an ASCII letter.
func isLetter(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

// isDigit reports whether c is a decimal digit.
func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

// lexIdentifierOrKeyword reads an identifier or a keyword knowing that src
// starts with a letter or '_'. It reports whether the emitted token can end
// an operand.
func (l *lexer) lexIdentifierOrKeyword() bool {
	p := 1
	for p < len(l.src) {
		c := l.src[p]
		if c != '_' && !isLetter(c) && !isDigit(c) {
			break
		}
		p++
	}
	switch string(l.src[:p]) {
	case "if":
		l.emit(tokenIf, p)
	case "else":
		l.emit(tokenElse, p)
	case "for":
		l.emit(tokenFor, p)
	case "in":
		l.emit(tokenIn, p)
	case "end":
		l.emit(tokenEnd, p)
	default:
		l.emit(tokenIdentifier, p)
		return true
	}
	return false
}

// lexNumber reads a number knowing that src starts with a sign, a digit or
// '.'.
func (l *lexer) lexNumber() error {
	n, isFloat, err := value.ScanNumber(l.src)
	if err != nil {
		return l.errorf("%s", err)
	}
	if isFloat {
		l.emit(tokenFloat, n)
	} else {
		l.emit(tokenInt, n)
	}
	return nil
}
