// Copyright (c) 2026 The Stampo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ast declares the types used to define template trees.
//
// For example, the template source:
//
//    {for article in articles}
//    * {article}
//    {end}
//
// is represented with the tree:
//
//	ast.NewTree("articles.txt", []ast.Node{
//		ast.NewFor(
//			&ast.Position{Line: 1, Column: 1, Start: 0, End: 41},
//			ast.NewIdentifier(&ast.Position{Line: 1, Column: 6, Start: 5, End: 11}, "article"),
//			ast.NewIdentifier(&ast.Position{Line: 1, Column: 17, Start: 16, End: 23}, "articles"),
//			[]ast.Node{
//				ast.NewText(&ast.Position{Line: 1, Column: 26, Start: 25, End: 28}, []byte("\n* ")),
//				ast.NewShow(
//					&ast.Position{Line: 2, Column: 3, Start: 29, End: 37},
//					ast.NewIdentifier(&ast.Position{Line: 2, Column: 4, Start: 30, End: 36}, "article")),
//				ast.NewText(&ast.Position{Line: 2, Column: 12, Start: 38, End: 38}, []byte("\n")),
//			},
//		),
//	})
package ast

import (
	"strconv"

	"github.com/stampo-dev/stampo/value"
)

// OperatorType represents an operator type in a binary expression.
type OperatorType int

const (
	OperatorEqual          OperatorType = iota // ==
	OperatorNotEqual                           // !=
	OperatorLess                               // <
	OperatorLessOrEqual                        // <=
	OperatorGreater                            // >
	OperatorGreaterOrEqual                     // >=
	OperatorAnd                                // &&
	OperatorOr                                 // ||
	OperatorAddition                           // +
	OperatorSubtraction                        // -
	OperatorMultiplication                     // *
	OperatorDivision                           // /
	OperatorModulo                             // %
)

// String returns the string representation of the operator type.
func (op OperatorType) String() string {
	return []string{"==", "!=", "<", "<=", ">", ">=", "&&", "||",
		"+", "-", "*", "/", "%"}[op]
}

// Node is a node of the tree.
type Node interface {
	Pos() *Position // position in the original source
}

// Position is a position of a node in the source.
type Position struct {
	Line   int // line starting from 1
	Column int // column in characters starting from 1
	Start  int // index of the first byte
	End    int // index of the last byte
}

// Pos returns the position p.
func (p *Position) Pos() *Position {
	return p
}

// String returns the line and column separated by a colon, for example "37:18".
func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// WithEnd returns a copy of the position but with the given end index.
func (p *Position) WithEnd(end int) *Position {
	pp := *p
	pp.End = end
	return &pp
}

// Expression node represents an expression.
type Expression interface {
	Node
	Parenthesis() int
	SetParenthesis(int)
	String() string
}

// expression represents an expression.
type expression struct {
	parenthesis int
}

// Parenthesis returns the number of parenthesis around the expression.
func (e *expression) Parenthesis() int {
	return e.parenthesis
}

// SetParenthesis sets the number of parenthesis around the expression.
func (e *expression) SetParenthesis(n int) {
	e.parenthesis = n
}

// Operator represents an operator expression.
type Operator interface {
	Expression
	Operator() OperatorType
	Precedence() int
}

// Tree node represents a parsed template. A tree is read-only during
// rendering and can be rendered multiple times.
type Tree struct {
	*Position
	Path  string // path of the template source.
	Nodes []Node // nodes of the first level of the tree.
}

// NewTree returns a new Tree node.
func NewTree(path string, nodes []Node) *Tree {
	if nodes == nil {
		nodes = []Node{}
	}
	return &Tree{&Position{1, 1, 0, 0}, path, nodes}
}

// Text node represents a text in the template source, with the escapes
// "\{" and "\}" already resolved.
type Text struct {
	*Position        // position in the source.
	Text      []byte // text.
}

// NewText returns a new Text node.
func NewText(pos *Position, text []byte) *Text {
	return &Text{pos, text}
}

// String returns the string representation of n.
func (n *Text) String() string {
	return string(n.Text)
}

// Show node represents a statement {expr}: the expression is evaluated and
// its value is written to the output.
type Show struct {
	*Position            // position in the source.
	Expr      Expression // expression to show.
}

// NewShow returns a new Show node.
func NewShow(pos *Position, expr Expression) *Show {
	return &Show{pos, expr}
}

// String returns the string representation of n.
func (n *Show) String() string {
	return "{" + n.Expr.String() + "}"
}

// If node represents a statement {if condition}.
type If struct {
	*Position            // position in the source.
	Condition Expression // condition to evaluate.
	Then      []Node     // nodes to render if the condition is true.
	Else      []Node     // nodes to render if the condition is false. nil if there is no else block.
}

// NewIf returns a new If node.
func NewIf(pos *Position, condition Expression, then, els []Node) *If {
	return &If{pos, condition, then, els}
}

// For node represents a statement {for ident in expr}.
type For struct {
	*Position             // position in the source.
	Ident     *Identifier // iteration variable.
	Expr      Expression  // expression that evaluates to the array to iterate.
	Body      []Node      // nodes to render at every iteration.
}

// NewFor returns a new For node.
func NewFor(pos *Position, ident *Identifier, expr Expression, body []Node) *For {
	return &For{pos, ident, expr, body}
}

// Identifier node represents a symbol reference, resolved in the
// environment at evaluation time.
type Identifier struct {
	expression
	*Position        // position in the source.
	Name      string // name.
}

// NewIdentifier returns a new Identifier node.
func NewIdentifier(pos *Position, name string) *Identifier {
	return &Identifier{expression{}, pos, name}
}

// String returns the string representation of n.
func (n *Identifier) String() string {
	return n.Name
}

// Literal node represents a literal constant in an expression.
type Literal struct {
	expression
	*Position             // position in the source.
	Value     value.Value // value of the literal.
}

// NewLiteral returns a new Literal node.
func NewLiteral(pos *Position, v value.Value) *Literal {
	return &Literal{expression{}, pos, v}
}

// String returns the string representation of n.
func (n *Literal) String() string {
	if s, ok := n.Value.(value.String); ok {
		return strconv.Quote(string(s))
	}
	return n.Value.String()
}

// BinaryOperator node represents a binary operator expression.
type BinaryOperator struct {
	expression
	*Position              // position in the source.
	Op        OperatorType // operator.
	Expr1     Expression   // first operand.
	Expr2     Expression   // second operand.
}

// NewBinaryOperator returns a new BinaryOperator node.
func NewBinaryOperator(pos *Position, op OperatorType, expr1, expr2 Expression) *BinaryOperator {
	return &BinaryOperator{expression{}, pos, op, expr1, expr2}
}

// String returns the string representation of n.
func (n *BinaryOperator) String() string {
	var s string
	if e, ok := n.Expr1.(Operator); ok && e.Precedence() <= n.Precedence() {
		s += "(" + n.Expr1.String() + ")"
	} else {
		s += n.Expr1.String()
	}
	s += " " + n.Op.String() + " "
	if e, ok := n.Expr2.(Operator); ok && e.Precedence() <= n.Precedence() {
		s += "(" + n.Expr2.String() + ")"
	} else {
		s += n.Expr2.String()
	}
	return s
}

// Operator returns the operator type of the expression.
func (n *BinaryOperator) Operator() OperatorType {
	return n.Op
}

// Precedence returns a number that represents the precedence of the
// expression. The comparison and logical operators share the lowest level
// and are left associative between them.
func (n *BinaryOperator) Precedence() int {
	switch n.Op {
	case OperatorMultiplication, OperatorDivision, OperatorModulo:
		return 3
	case OperatorAddition, OperatorSubtraction:
		return 2
	}
	return 1
}

// Index node represents an index expression as in "articles[i]". Chained
// indexes, as in "m[i][j]", are represented with nested Index nodes applied
// left to right.
type Index struct {
	expression
	*Position            // position in the source.
	Expr      Expression // indexed expression.
	Index     Expression // index expression.
}

// NewIndex returns a new Index node.
func NewIndex(pos *Position, expr, index Expression) *Index {
	return &Index{expression{}, pos, expr, index}
}

// String returns the string representation of n.
func (n *Index) String() string {
	return n.Expr.String() + "[" + n.Index.String() + "]"
}
