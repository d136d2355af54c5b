// Copyright (c) 2026 The Stampo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stampo

import (
	"fmt"
	"io"

	"github.com/stampo-dev/stampo/ast"
	"github.com/stampo-dev/stampo/env"
	"github.com/stampo-dev/stampo/value"
)

// rendering is the state of a rendering.
type rendering struct {
	path string
	env  *env.Env
}

// errorf returns a rendering error for the node node with message formatted
// according to the given format.
func (r *rendering) errorf(node ast.Node, format string, args ...interface{}) error {
	return &Error{
		Path: r.path,
		Pos:  *node.Pos(),
		Err:  fmt.Errorf(format, args...),
	}
}

// render renders the nodes to wr.
func (r *rendering) render(wr io.Writer, nodes []ast.Node) error {
	for _, n := range nodes {
		switch node := n.(type) {
		case *ast.Text:
			if len(node.Text) == 0 {
				continue
			}
			_, err := wr.Write(node.Text)
			if err != nil {
				return err
			}
		case *ast.Show:
			v, err := r.eval(node.Expr)
			if err != nil {
				return err
			}
			_, err = io.WriteString(wr, v.String())
			if err != nil {
				return err
			}
		case *ast.If:
			c, err := r.evalBool(node.Condition)
			if err != nil {
				return err
			}
			if c {
				err = r.render(wr, node.Then)
			} else {
				err = r.render(wr, node.Else)
			}
			if err != nil {
				return err
			}
		case *ast.For:
			err := r.renderFor(wr, node)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// renderFor renders a for statement. The loop variable shadows a symbol
// with the same name for the duration of the loop.
func (r *rendering) renderFor(wr io.Writer, node *ast.For) error {
	v, err := r.eval(node.Expr)
	if err != nil {
		return err
	}
	a, ok := v.(value.Array)
	if !ok {
		return r.errorf(node.Expr, "cannot iterate over value %s", v)
	}
	name := node.Ident.Name
	for _, el := range a {
		r.env.Push(name, el)
		err = r.render(wr, node.Body)
		r.env.Pop(name)
		if err != nil {
			return err
		}
	}
	return nil
}
