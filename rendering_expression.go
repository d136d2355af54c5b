// Copyright (c) 2026 The Stampo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stampo

import (
	"math"
	"strings"

	"github.com/stampo-dev/stampo/ast"
	"github.com/stampo-dev/stampo/value"
)

// eval evaluates the expression expr and returns its value.
func (r *rendering) eval(expr ast.Expression) (v value.Value, err error) {
	defer func() {
		if e := recover(); e != nil {
			if e2, ok := e.(error); ok {
				v = nil
				err = e2
			} else {
				panic(e)
			}
		}
	}()
	return r.evalExpression(expr), nil
}

// evalBool evaluates the expression expr and returns its truth. A value is
// true if it is a non-zero number, a non-empty string or a non-empty array.
func (r *rendering) evalBool(expr ast.Expression) (bool, error) {
	v, err := r.eval(expr)
	if err != nil {
		return false, err
	}
	return value.IsTrue(v), nil
}

// evalExpression evaluates an expression and returns its value. On error it
// panics with the error as its value.
func (r *rendering) evalExpression(expr ast.Expression) value.Value {
	switch e := expr.(type) {
	case *ast.Literal:
		return e.Value.Copy()
	case *ast.Identifier:
		v, ok := r.env.Lookup(e.Name)
		if !ok {
			panic(r.errorf(e, "symbol %s not found", e.Name))
		}
		return v.Copy()
	case *ast.BinaryOperator:
		return r.evalBinaryOperator(e)
	case *ast.Index:
		return r.evalIndex(e)
	}
	panic(r.errorf(expr, "unexpected node type %#v", expr))
}

// evalIndex evaluates an index expression.
func (r *rendering) evalIndex(node *ast.Index) value.Value {
	v := r.evalExpression(node.Expr)
	i := r.evalExpression(node.Index)
	a, ok := v.(value.Array)
	if !ok {
		panic(r.errorf(node, "cannot index value %s with index %s", v, i))
	}
	c, ok := value.Convert(i, value.KindInt)
	if !ok {
		panic(r.errorf(node, "cannot index value %s with index %s", v, i))
	}
	n := int(c.(value.Int))
	if n < 0 || n >= len(a) {
		panic(r.errorf(node, "index %d out of range for value %s", n, v))
	}
	return a[n]
}

// evalBinaryOperator evaluates a binary operator and returns its value. The
// operands of && and || are both evaluated in any case.
func (r *rendering) evalBinaryOperator(node *ast.BinaryOperator) value.Value {

	v1 := r.evalExpression(node.Expr1)
	v2 := r.evalExpression(node.Expr2)

	switch node.Op {

	case ast.OperatorEqual, ast.OperatorNotEqual, ast.OperatorLess,
		ast.OperatorLessOrEqual, ast.OperatorGreater, ast.OperatorGreaterOrEqual:
		c, err := value.Compare(v1, v2)
		if err != nil {
			panic(r.errorf(node, "%s", err))
		}
		var t bool
		switch node.Op {
		case ast.OperatorEqual:
			t = c == 0
		case ast.OperatorNotEqual:
			t = c != 0
		case ast.OperatorLess:
			t = c < 0
		case ast.OperatorLessOrEqual:
			t = c <= 0
		case ast.OperatorGreater:
			t = c > 0
		case ast.OperatorGreaterOrEqual:
			t = c >= 0
		}
		if t {
			return value.Int(1)
		}
		return value.Int(0)

	case ast.OperatorAnd:
		if value.IsTrue(v1) && value.IsTrue(v2) {
			return value.Int(1)
		}
		return value.Int(0)

	case ast.OperatorOr:
		if value.IsTrue(v1) || value.IsTrue(v2) {
			return value.Int(1)
		}
		return value.Int(0)

	case ast.OperatorAddition:
		if a1, ok := v1.(value.Array); ok {
			a := make(value.Array, 0, len(a1)+1)
			a = append(a, a1...)
			if a2, ok := v2.(value.Array); ok {
				return append(a, a2...)
			}
			return append(a, v2)
		}
		if n1, ok := v1.(value.Int); ok {
			if n2, ok := v2.(value.Int); ok {
				return n1 + n2
			}
		}
		if v1.Kind() == value.KindString || v2.Kind() == value.KindString {
			if v2.Kind() == value.KindArray {
				panic(r.errorf(node, "invalid operation: %s + %s", v1.Kind(), v2.Kind()))
			}
			return value.String(v1.String() + v2.String())
		}
		f1, ok1 := value.Convert(v1, value.KindFloat)
		f2, ok2 := value.Convert(v2, value.KindFloat)
		if !ok1 || !ok2 {
			panic(r.errorf(node, "invalid operation: %s + %s", v1.Kind(), v2.Kind()))
		}
		return f1.(value.Float) + f2.(value.Float)

	case ast.OperatorSubtraction:
		f1, ok1 := value.Convert(v1, value.KindFloat)
		f2, ok2 := value.Convert(v2, value.KindFloat)
		if !ok1 || !ok2 {
			panic(r.errorf(node, "invalid operation: %s - %s", v1.Kind(), v2.Kind()))
		}
		return f1.(value.Float) - f2.(value.Float)

	case ast.OperatorMultiplication:
		if v1.Kind() == value.KindArray || v2.Kind() == value.KindArray {
			panic(r.errorf(node, "invalid operation: %s * %s", v1.Kind(), v2.Kind()))
		}
		if v1.Kind() == value.KindString || v2.Kind() == value.KindString {
			s, n := v1, v2
			if v2.Kind() == value.KindString {
				s, n = v2, v1
			}
			c, ok := value.Convert(n, value.KindInt)
			if !ok {
				panic(r.errorf(node, "invalid operation: %s * %s", v1.Kind(), v2.Kind()))
			}
			count := int(c.(value.Int))
			str := string(s.(value.String))
			if count < 1 || len(str) == 0 {
				return value.String("")
			}
			if count > math.MaxInt/len(str) {
				panic(r.errorf(node, "string repetition overflows"))
			}
			return value.String(strings.Repeat(str, count))
		}
		if v1.Kind() == value.KindFloat || v2.Kind() == value.KindFloat {
			f1, _ := value.Convert(v1, value.KindFloat)
			f2, _ := value.Convert(v2, value.KindFloat)
			return f1.(value.Float) * f2.(value.Float)
		}
		return v1.(value.Int) * v2.(value.Int)

	case ast.OperatorDivision:
		f1, ok1 := value.Convert(v1, value.KindFloat)
		f2, ok2 := value.Convert(v2, value.KindFloat)
		if !ok1 || !ok2 {
			panic(r.errorf(node, "invalid operation: %s / %s", v1.Kind(), v2.Kind()))
		}
		if value.Eq(float64(f2.(value.Float)), 0) {
			panic(r.errorf(node, "division by zero"))
		}
		return f1.(value.Float) / f2.(value.Float)

	case ast.OperatorModulo:
		n1, ok1 := value.Convert(v1, value.KindInt)
		n2, ok2 := value.Convert(v2, value.KindInt)
		if !ok1 || !ok2 {
			panic(r.errorf(node, "invalid operation: %s %% %s", v1.Kind(), v2.Kind()))
		}
		if n2.(value.Int) == 0 {
			panic(r.errorf(node, "division by zero through modulo"))
		}
		return n1.(value.Int) % n2.(value.Int)
	}

	panic(r.errorf(node, "unexpected operator %s", node.Op))
}
