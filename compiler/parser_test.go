// Copyright (c) 2026 The Stampo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compiler

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stampo-dev/stampo/ast"
	"github.com/stampo-dev/stampo/value"
)

func p(line, column, start, end int) *ast.Position {
	return &ast.Position{Line: line, Column: column, Start: start, End: end}
}

// np returns a position that is not compared by equals.
func np() *ast.Position {
	return &ast.Position{}
}

var exprTests = []struct {
	src  string
	node ast.Expression
}{
	{`_`, ast.NewIdentifier(np(), "_")},
	{`a`, ast.NewIdentifier(np(), "a")},
	{`a5`, ast.NewIdentifier(np(), "a5")},
	{`3`, ast.NewLiteral(np(), value.Int(3))},
	{`-3`, ast.NewLiteral(np(), value.Int(-3))},
	{`0x1A`, ast.NewLiteral(np(), value.Int(26))},
	{`0b101`, ast.NewLiteral(np(), value.Int(5))},
	{`0o17`, ast.NewLiteral(np(), value.Int(15))},
	{`3.5`, ast.NewLiteral(np(), value.Float(3.5))},
	{`.5`, ast.NewLiteral(np(), value.Float(0.5))},
	{`1e3`, ast.NewLiteral(np(), value.Float(1000))},
	{`0x1A.8p1`, ast.NewLiteral(np(), value.Float(53))},
	{`1+2`, ast.NewBinaryOperator(np(), ast.OperatorAddition,
		ast.NewLiteral(np(), value.Int(1)), ast.NewLiteral(np(), value.Int(2)))},
	{`1+2+3`, ast.NewBinaryOperator(np(), ast.OperatorAddition,
		ast.NewBinaryOperator(np(), ast.OperatorAddition,
			ast.NewLiteral(np(), value.Int(1)), ast.NewLiteral(np(), value.Int(2))),
		ast.NewLiteral(np(), value.Int(3)))},
	{`1+2*3`, ast.NewBinaryOperator(np(), ast.OperatorAddition,
		ast.NewLiteral(np(), value.Int(1)),
		ast.NewBinaryOperator(np(), ast.OperatorMultiplication,
			ast.NewLiteral(np(), value.Int(2)), ast.NewLiteral(np(), value.Int(3))))},
	{`1*2+3`, ast.NewBinaryOperator(np(), ast.OperatorAddition,
		ast.NewBinaryOperator(np(), ast.OperatorMultiplication,
			ast.NewLiteral(np(), value.Int(1)), ast.NewLiteral(np(), value.Int(2))),
		ast.NewLiteral(np(), value.Int(3)))},
	{`1+2*3-4`, ast.NewBinaryOperator(np(), ast.OperatorSubtraction,
		ast.NewBinaryOperator(np(), ast.OperatorAddition,
			ast.NewLiteral(np(), value.Int(1)),
			ast.NewBinaryOperator(np(), ast.OperatorMultiplication,
				ast.NewLiteral(np(), value.Int(2)), ast.NewLiteral(np(), value.Int(3)))),
		ast.NewLiteral(np(), value.Int(4)))},
	{`(1+2)*3`, ast.NewBinaryOperator(np(), ast.OperatorMultiplication,
		parenthesized(ast.NewBinaryOperator(np(), ast.OperatorAddition,
			ast.NewLiteral(np(), value.Int(1)), ast.NewLiteral(np(), value.Int(2)))),
		ast.NewLiteral(np(), value.Int(3)))},
	{`a < b == c`, ast.NewBinaryOperator(np(), ast.OperatorEqual,
		ast.NewBinaryOperator(np(), ast.OperatorLess,
			ast.NewIdentifier(np(), "a"), ast.NewIdentifier(np(), "b")),
		ast.NewIdentifier(np(), "c"))},
	{`a && b || c`, ast.NewBinaryOperator(np(), ast.OperatorOr,
		ast.NewBinaryOperator(np(), ast.OperatorAnd,
			ast.NewIdentifier(np(), "a"), ast.NewIdentifier(np(), "b")),
		ast.NewIdentifier(np(), "c"))},
	{`a || b + 1`, ast.NewBinaryOperator(np(), ast.OperatorOr,
		ast.NewIdentifier(np(), "a"),
		ast.NewBinaryOperator(np(), ast.OperatorAddition,
			ast.NewIdentifier(np(), "b"), ast.NewLiteral(np(), value.Int(1))))},
	{`a[0]`, ast.NewIndex(np(),
		ast.NewIdentifier(np(), "a"), ast.NewLiteral(np(), value.Int(0)))},
	{`a[0][1]`, ast.NewIndex(np(),
		ast.NewIndex(np(),
			ast.NewIdentifier(np(), "a"), ast.NewLiteral(np(), value.Int(0))),
		ast.NewLiteral(np(), value.Int(1)))},
	{`a[i+1]`, ast.NewIndex(np(),
		ast.NewIdentifier(np(), "a"),
		ast.NewBinaryOperator(np(), ast.OperatorAddition,
			ast.NewIdentifier(np(), "i"), ast.NewLiteral(np(), value.Int(1))))},
	{`a[0] - 1`, ast.NewBinaryOperator(np(), ast.OperatorSubtraction,
		ast.NewIndex(np(),
			ast.NewIdentifier(np(), "a"), ast.NewLiteral(np(), value.Int(0))),
		ast.NewLiteral(np(), value.Int(1)))},
}

func parenthesized(expr ast.Expression) ast.Expression {
	expr.SetParenthesis(1)
	return expr
}

var treeTests = []struct {
	src  string
	node *ast.Tree
}{
	{``, ast.NewTree("", []ast.Node{
		ast.NewText(p(1, 1, 0, 0), nil)})},
	{`a`, ast.NewTree("", []ast.Node{
		ast.NewText(p(1, 1, 0, 0), []byte("a"))})},
	{`{a}`, ast.NewTree("", []ast.Node{
		ast.NewShow(p(1, 1, 0, 2), ast.NewIdentifier(p(1, 2, 1, 1), "a"))})},
	{`a{b}c`, ast.NewTree("", []ast.Node{
		ast.NewText(p(1, 1, 0, 0), []byte("a")),
		ast.NewShow(p(1, 2, 1, 3), ast.NewIdentifier(p(1, 3, 2, 2), "b")),
		ast.NewText(p(1, 5, 4, 4), []byte("c"))})},
	{`{if a}b{end}`, ast.NewTree("", []ast.Node{
		ast.NewIf(p(1, 1, 0, 11),
			ast.NewIdentifier(p(1, 5, 4, 4), "a"),
			[]ast.Node{ast.NewText(p(1, 7, 6, 6), []byte("b"))},
			nil)})},
	{`{if a}b{else}c{end}`, ast.NewTree("", []ast.Node{
		ast.NewIf(p(1, 1, 0, 18),
			ast.NewIdentifier(p(1, 5, 4, 4), "a"),
			[]ast.Node{ast.NewText(p(1, 7, 6, 6), []byte("b"))},
			[]ast.Node{ast.NewText(p(1, 14, 13, 13), []byte("c"))})})},
	{`{for x in a}{x}{end}`, ast.NewTree("", []ast.Node{
		ast.NewFor(p(1, 1, 0, 19),
			ast.NewIdentifier(p(1, 6, 5, 5), "x"),
			ast.NewIdentifier(p(1, 11, 10, 10), "a"),
			[]ast.Node{ast.NewShow(p(1, 13, 12, 14), ast.NewIdentifier(p(1, 14, 13, 13), "x"))})})},
	{`{if a}{if b}c{end}{end}`, ast.NewTree("", []ast.Node{
		ast.NewIf(p(1, 1, 0, 22),
			ast.NewIdentifier(p(1, 5, 4, 4), "a"),
			[]ast.Node{ast.NewIf(p(1, 7, 6, 17),
				ast.NewIdentifier(p(1, 11, 10, 10), "b"),
				[]ast.Node{ast.NewText(p(1, 13, 12, 12), []byte("c"))},
				nil)},
			nil)})},
}

var parserErrorTests = map[string]string{
	`{end}`:          "unmatched end",
	`{else}`:         "unmatched else",
	`{if a}`:         "unclosed if: missing end",
	`{if a}{else}`:   "unclosed else: missing end",
	`{for x in a}`:   "unclosed for: missing end",
	`{if a}{else}{else}`: "unmatched else",
	`{}`:             "unexpected }, expecting expression",
	`{if}`:           "unexpected }, expecting expression",
	`{1+}`:           "unexpected }, expecting expression",
	`{for in a}`:     "unexpected in, expecting identifier",
	`{for x a}`:      "unexpected a, expecting in",
	`{a[}`:           "unexpected }, expecting expression",
	`{a[0}`:          "unexpected }, expecting ]",
	`{(a}`:           "unexpected }, expecting )",
	`{a b}`:          "unexpected b, expecting }",
	`{if a in}`:      "unexpected in, expecting }",
}

func TestExpressions(t *testing.T) {
	for _, expr := range exprTests {
		tree, err := ParseTemplate("", []byte("{"+expr.src+"}"))
		if err != nil {
			t.Errorf("source: %q, %s\n", expr.src, err)
			continue
		}
		show, ok := tree.Nodes[0].(*ast.Show)
		if !ok {
			t.Errorf("source: %q, unexpected node %#v\n", expr.src, tree.Nodes[0])
			continue
		}
		err = equals(show.Expr, expr.node)
		if err != nil {
			t.Errorf("source: %q, %s\n", expr.src, err)
		}
	}
}

func TestTrees(t *testing.T) {
	for _, tree := range treeTests {
		node, err := ParseTemplate("", []byte(tree.src))
		if err != nil {
			t.Errorf("source: %q, %s\n", tree.src, err)
			continue
		}
		err = equals(node, tree.node)
		if err != nil {
			t.Errorf("source: %q, %s\n", tree.src, err)
		}
	}
}

func TestParserErrors(t *testing.T) {
	for source, expected := range parserErrorTests {
		_, err := ParseTemplate("", []byte(source))
		if err == nil {
			t.Errorf("source: %q, unexpected no error, expecting %q\n", source, expected)
			continue
		}
		serr, ok := err.(*SyntaxError)
		if !ok {
			t.Errorf("source: %q, unexpected error type %T\n", source, err)
			continue
		}
		if serr.Message() != expected {
			t.Errorf("source: %q, unexpected error %q, expecting %q\n", source, serr.Message(), expected)
		}
	}
}

// TestParserStopsLexer tests that a parsing that fails with tokens still to
// be read does not leave the lexer goroutine blocked on the tokens channel.
func TestParserStopsLexer(t *testing.T) {
	src := []byte("{end}" + strings.Repeat("{a}", 50))
	before := runtime.NumGoroutine()
	for i := 0; i < 100; i++ {
		_, err := ParseTemplate("", src)
		if err == nil {
			t.Fatal("unexpected no error, expecting \"unmatched end\"")
		}
	}
	for i := 0; i < 100; i++ {
		if runtime.NumGoroutine() <= before {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("unexpected %d goroutines, expecting %d", runtime.NumGoroutine(), before)
}

// equals compares the nodes n1 and n2 and returns an error describing the
// first difference. Positions are compared only if the expected position
// has a line number.
func equals(n1, n2 ast.Node) error {

	if n1 == nil && n2 == nil {
		return nil
	}
	if n1 == nil || n2 == nil {
		return fmt.Errorf("unexpected node %#v, expecting %#v", n1, n2)
	}

	pos1, pos2 := n1.Pos(), n2.Pos()
	if pos2 != nil && pos2.Line > 0 {
		if pos1.Line != pos2.Line || pos1.Column != pos2.Column ||
			pos1.Start != pos2.Start || pos1.End != pos2.End {
			return fmt.Errorf("unexpected position %d:%d[%d,%d], expecting %d:%d[%d,%d] in %s",
				pos1.Line, pos1.Column, pos1.Start, pos1.End,
				pos2.Line, pos2.Column, pos2.Start, pos2.End, n2)
		}
	}

	switch nn1 := n1.(type) {

	case *ast.Tree:
		nn2, ok := n2.(*ast.Tree)
		if !ok {
			return fmt.Errorf("unexpected %#v, expecting %#v", n1, n2)
		}
		return equalsNodes(nn1.Nodes, nn2.Nodes)

	case *ast.Text:
		nn2, ok := n2.(*ast.Text)
		if !ok {
			return fmt.Errorf("unexpected %s, expecting %s", n1, n2)
		}
		if string(nn1.Text) != string(nn2.Text) {
			return fmt.Errorf("unexpected text %q, expecting %q", nn1.Text, nn2.Text)
		}

	case *ast.Show:
		nn2, ok := n2.(*ast.Show)
		if !ok {
			return fmt.Errorf("unexpected %s, expecting %s", n1, n2)
		}
		return equals(nn1.Expr, nn2.Expr)

	case *ast.If:
		nn2, ok := n2.(*ast.If)
		if !ok {
			return fmt.Errorf("unexpected %s, expecting %s", n1, n2)
		}
		if err := equals(nn1.Condition, nn2.Condition); err != nil {
			return err
		}
		if err := equalsNodes(nn1.Then, nn2.Then); err != nil {
			return err
		}
		return equalsNodes(nn1.Else, nn2.Else)

	case *ast.For:
		nn2, ok := n2.(*ast.For)
		if !ok {
			return fmt.Errorf("unexpected %s, expecting %s", n1, n2)
		}
		if err := equals(nn1.Ident, nn2.Ident); err != nil {
			return err
		}
		if err := equals(nn1.Expr, nn2.Expr); err != nil {
			return err
		}
		return equalsNodes(nn1.Body, nn2.Body)

	case *ast.Identifier:
		nn2, ok := n2.(*ast.Identifier)
		if !ok {
			return fmt.Errorf("unexpected %s, expecting %s", n1, n2)
		}
		if nn1.Name != nn2.Name {
			return fmt.Errorf("unexpected identifier %s, expecting %s", nn1.Name, nn2.Name)
		}

	case *ast.Literal:
		nn2, ok := n2.(*ast.Literal)
		if !ok {
			return fmt.Errorf("unexpected %s, expecting %s", n1, n2)
		}
		if !reflect.DeepEqual(nn1.Value, nn2.Value) {
			return fmt.Errorf("unexpected literal %s, expecting %s", nn1, nn2)
		}

	case *ast.BinaryOperator:
		nn2, ok := n2.(*ast.BinaryOperator)
		if !ok {
			return fmt.Errorf("unexpected %s, expecting %s", n1, n2)
		}
		if nn1.Op != nn2.Op {
			return fmt.Errorf("unexpected operator %s, expecting %s", nn1.Op, nn2.Op)
		}
		if nn1.Parenthesis() != nn2.Parenthesis() {
			return fmt.Errorf("unexpected parenthesis %d, expecting %d in %s",
				nn1.Parenthesis(), nn2.Parenthesis(), nn2)
		}
		if err := equals(nn1.Expr1, nn2.Expr1); err != nil {
			return err
		}
		return equals(nn1.Expr2, nn2.Expr2)

	case *ast.Index:
		nn2, ok := n2.(*ast.Index)
		if !ok {
			return fmt.Errorf("unexpected %s, expecting %s", n1, n2)
		}
		if err := equals(nn1.Expr, nn2.Expr); err != nil {
			return err
		}
		return equals(nn1.Index, nn2.Index)

	default:
		return fmt.Errorf("unexpected node type %T", nn1)
	}

	return nil
}

func equalsNodes(nodes1, nodes2 []ast.Node) error {
	if len(nodes1) != len(nodes2) {
		return fmt.Errorf("unexpected nodes len %d, expecting %d", len(nodes1), len(nodes2))
	}
	for i, node := range nodes1 {
		err := equals(node, nodes2[i])
		if err != nil {
			return err
		}
	}
	return nil
}
