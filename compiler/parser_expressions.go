// Copyright (c) 2026 The Stampo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compiler

import (
	"github.com/stampo-dev/stampo/ast"
	"github.com/stampo-dev/stampo/value"
)

// parseExpr parses an expression and returns its tree and the last read
// token that is not part of the expression. tok is the first token of the
// expression. If no expression is found, it returns nil and tok itself.
// Panics with a *SyntaxError on a malformed expression.
//
// parseExpr maintains the path of binary operators from the root of the
// expression down to the rightmost, still open, operator. A new operator
// with lower or equal precedence than an operator on the path takes its
// place in the tree, adopting it as left operand.
func (p *parsing) parseExpr(tok token) (ast.Expression, token) {

	// path is the path in the expression tree from the root operator to
	// the leaf operator, the last one read.
	var path []*ast.BinaryOperator

	for {

		// The current operand.
		var operand ast.Expression

		switch tok.typ {
		case tokenLeftParenthesis:
			pos := tok.pos
			expr, tok2 := p.parseExpr(p.next())
			if expr == nil {
				panic(syntaxError(tok2.pos, "unexpected %s, expecting expression", tok2))
			}
			if tok2.typ != tokenRightParenthesis {
				panic(syntaxError(tok2.pos, "unexpected %s, expecting )", tok2))
			}
			expr.SetParenthesis(expr.Parenthesis() + 1)
			expr.Pos().Start = pos.Start
			expr.Pos().End = tok2.pos.End
			operand = expr
		case tokenInt, tokenFloat:
			v, err := value.ParseNumber(string(tok.txt))
			if err != nil {
				panic(syntaxError(tok.pos, "%s", err))
			}
			operand = ast.NewLiteral(tok.pos, v)
		case tokenIdentifier:
			operand = ast.NewIdentifier(tok.pos, string(tok.txt))
		default:
			if len(path) > 0 {
				panic(syntaxError(tok.pos, "unexpected %s, expecting expression", tok))
			}
			return nil, tok
		}

		tok = p.next()

		// Apply all the index operators to the operand.
		for tok.typ == tokenLeftBracket {
			index, tok2 := p.parseExpr(p.next())
			if index == nil {
				panic(syntaxError(tok2.pos, "unexpected %s, expecting expression", tok2))
			}
			if tok2.typ != tokenRightBracket {
				panic(syntaxError(tok2.pos, "unexpected %s, expecting ]", tok2))
			}
			operand = ast.NewIndex(operand.Pos().WithEnd(tok2.pos.End), operand, index)
			tok = p.next()
		}

		var operator *ast.BinaryOperator

		switch tok.typ {
		case tokenEqual, tokenNotEqual, tokenLess, tokenLessOrEqual, tokenGreater,
			tokenGreaterOrEqual, tokenAnd, tokenOr, tokenAddition, tokenSubtraction,
			tokenMultiplication, tokenDivision, tokenModulo:
			operator = ast.NewBinaryOperator(tok.pos, operatorType(tok.typ), nil, nil)
		default:
			// The expression is terminated.
			if len(path) == 0 {
				return operand, tok
			}
			path[len(path)-1].Expr2 = operand
			for _, op := range path {
				op.Pos().End = operand.Pos().End
			}
			return path[0], tok
		}

		// Insert the operator in the path, adopting as left operand the
		// operators with lower or equal precedence.
		pp := len(path)
		for pp > 0 && operator.Precedence() <= path[pp-1].Precedence() {
			pp--
		}
		if pp > 0 {
			path[pp-1].Expr2 = operator
		}
		if pp < len(path) {
			path[len(path)-1].Expr2 = operand
			end := operand.Pos().End
			for _, op := range path[pp:] {
				op.Pos().End = end
			}
			operator.Expr1 = path[pp]
			operator.Pos().Start = path[pp].Pos().Start
			path[pp] = operator
			path = path[:pp+1]
		} else {
			operator.Expr1 = operand
			operator.Pos().Start = operand.Pos().Start
			path = append(path, operator)
		}

		tok = p.next()
	}
}

// operatorType returns the operator type of a binary operator token.
func operatorType(typ tokenTyp) ast.OperatorType {
	switch typ {
	case tokenEqual:
		return ast.OperatorEqual
	case tokenNotEqual:
		return ast.OperatorNotEqual
	case tokenLess:
		return ast.OperatorLess
	case tokenLessOrEqual:
		return ast.OperatorLessOrEqual
	case tokenGreater:
		return ast.OperatorGreater
	case tokenGreaterOrEqual:
		return ast.OperatorGreaterOrEqual
	case tokenAnd:
		return ast.OperatorAnd
	case tokenOr:
		return ast.OperatorOr
	case tokenAddition:
		return ast.OperatorAddition
	case tokenSubtraction:
		return ast.OperatorSubtraction
	case tokenMultiplication:
		return ast.OperatorMultiplication
	case tokenDivision:
		return ast.OperatorDivision
	case tokenModulo:
		return ast.OperatorModulo
	}
	panic("invalid operator token")
}
