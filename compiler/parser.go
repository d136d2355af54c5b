// Copyright (c) 2026 The Stampo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package compiler implements the parsing of template sources into trees.
package compiler

import (
	"fmt"

	"github.com/stampo-dev/stampo/ast"
)

// SyntaxError records a parsing error with the path and the position where
// the error occurred.
type SyntaxError struct {
	path string
	pos  ast.Position
	msg  string
}

// Error returns a string representing the syntax error.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%s: syntax error: %s", e.path, e.pos, e.msg)
}

// Message returns the message of the syntax error, without position and path.
func (e *SyntaxError) Message() string {
	return e.msg
}

// Path returns the path of the syntax error.
func (e *SyntaxError) Path() string {
	return e.path
}

// Position returns the position of the syntax error.
func (e *SyntaxError) Position() ast.Position {
	return e.pos
}

// syntaxError returns a SyntaxError error with position pos and message
// formatted according to the given format.
func syntaxError(pos *ast.Position, format string, a ...interface{}) *SyntaxError {
	return &SyntaxError{"", *pos, fmt.Sprintf(format, a...)}
}

// parsing is a parsing state.
type parsing struct {

	// Lexer.
	lex *lexer

	// Ancestors from the root up to the parent.
	ancestors []ast.Node

	// Open if statements whose else branch is being parsed.
	inElse map[*ast.If]bool
}

// addToAncestors adds node to the ancestors.
func (p *parsing) addToAncestors(node ast.Node) {
	p.ancestors = append(p.ancestors, node)
}

// removeLastAncestor removes the last ancestor from the ancestors.
func (p *parsing) removeLastAncestor() {
	p.ancestors = p.ancestors[:len(p.ancestors)-1]
}

// parent returns the last ancestor.
func (p *parsing) parent() ast.Node {
	return p.ancestors[len(p.ancestors)-1]
}

// addChild adds node as a child of the current parent.
func (p *parsing) addChild(node ast.Node) {
	switch parent := p.parent().(type) {
	case *ast.Tree:
		parent.Nodes = append(parent.Nodes, node)
	case *ast.If:
		if p.inElse[parent] {
			parent.Else = append(parent.Else, node)
		} else {
			parent.Then = append(parent.Then, node)
		}
	case *ast.For:
		parent.Body = append(parent.Body, node)
	}
}

// next returns the next token from the lexer. Panics if the lexer channel
// is closed.
func (p *parsing) next() token {
	tok, ok := <-p.lex.tokens
	if !ok {
		if p.lex.err == nil {
			panic("next called after EOF")
		}
		panic(p.lex.err)
	}
	return tok
}

// ParseTemplate parses a template source and returns its tree. path is the
// name of the source, used in errors. An empty source returns a tree with a
// single empty Text node, so a nil tree always means an error.
func ParseTemplate(path string, src []byte) (tree *ast.Tree, err error) {

	tree = ast.NewTree(path, nil)
	p := &parsing{
		lex:       newLexer(src),
		ancestors: []ast.Node{tree},
		inElse:    map[*ast.If]bool{},
	}

	defer func() {
		p.lex.drain()
		if r := recover(); r != nil {
			if e, ok := r.(*SyntaxError); ok {
				e.path = path
				tree = nil
				err = e
			} else {
				panic(r)
			}
		}
	}()

	for {
		tok := p.next()
		switch tok.typ {

		case tokenEOF:
			if len(p.ancestors) > 1 {
				switch parent := p.parent().(type) {
				case *ast.If:
					if p.inElse[parent] {
						panic(syntaxError(tok.pos, "unclosed else: missing end"))
					}
					panic(syntaxError(tok.pos, "unclosed if: missing end"))
				case *ast.For:
					panic(syntaxError(tok.pos, "unclosed for: missing end"))
				}
			}
			if len(tree.Nodes) == 0 {
				tree.Nodes = append(tree.Nodes, ast.NewText(tok.pos, nil))
			}
			return tree, nil

		case tokenText:
			p.addChild(ast.NewText(tok.pos, tok.txt))

		case tokenLeftBrace:
			pos := tok.pos
			tok = p.next()
			switch tok.typ {

			case tokenIf:
				expr, tok2 := p.parseExpr(p.next())
				if expr == nil {
					panic(syntaxError(tok2.pos, "unexpected %s, expecting expression", tok2))
				}
				if tok2.typ != tokenRightBrace {
					panic(syntaxError(tok2.pos, "unexpected %s, expecting }", tok2))
				}
				node := ast.NewIf(pos.WithEnd(tok2.pos.End), expr, nil, nil)
				p.addChild(node)
				p.addToAncestors(node)

			case tokenElse:
				tok = p.next()
				if tok.typ != tokenRightBrace {
					panic(syntaxError(tok.pos, "unexpected %s, expecting }", tok))
				}
				parent, ok := p.parent().(*ast.If)
				if !ok || p.inElse[parent] {
					panic(syntaxError(pos, "unmatched else"))
				}
				p.inElse[parent] = true

			case tokenEnd:
				tok = p.next()
				if tok.typ != tokenRightBrace {
					panic(syntaxError(tok.pos, "unexpected %s, expecting }", tok))
				}
				if len(p.ancestors) == 1 {
					panic(syntaxError(pos, "unmatched end"))
				}
				p.parent().Pos().End = tok.pos.End
				p.removeLastAncestor()

			case tokenFor:
				tok = p.next()
				if tok.typ != tokenIdentifier {
					panic(syntaxError(tok.pos, "unexpected %s, expecting identifier", tok))
				}
				ident := ast.NewIdentifier(tok.pos, string(tok.txt))
				tok = p.next()
				if tok.typ != tokenIn {
					panic(syntaxError(tok.pos, "unexpected %s, expecting in", tok))
				}
				expr, tok2 := p.parseExpr(p.next())
				if expr == nil {
					panic(syntaxError(tok2.pos, "unexpected %s, expecting expression", tok2))
				}
				if tok2.typ != tokenRightBrace {
					panic(syntaxError(tok2.pos, "unexpected %s, expecting }", tok2))
				}
				node := ast.NewFor(pos.WithEnd(tok2.pos.End), ident, expr, nil)
				p.addChild(node)
				p.addToAncestors(node)

			default:
				expr, tok2 := p.parseExpr(tok)
				if expr == nil {
					panic(syntaxError(tok2.pos, "unexpected %s, expecting expression", tok2))
				}
				if tok2.typ != tokenRightBrace {
					panic(syntaxError(tok2.pos, "unexpected %s, expecting }", tok2))
				}
				p.addChild(ast.NewShow(pos.WithEnd(tok2.pos.End), expr))
			}
		}
	}
}
