// Copyright (c) 2026 The Stampo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package stampo renders text templates.
//
// Templates are text with statements between braces. A brace in the text is
// written \{ or \}; any other backslash is literal text.
//
//	Hello {name}!
//
//	{if n > 0}{n} items{else}no items{end}
//
//	{for article in articles}* {article}
//	{end}
//
// A statement shows the value of an expression, or is one of the keywords
// if, else, for, in and end delimiting a conditional or a loop. Expressions
// have integer, float, string and array values, read from an environment,
// and the operators
//
//	==  !=  <  <=  >  >=  &&  ||  +  -  *  /  %  [ ]  ( )
//
// Parse parses a template source into a tree and Render renders a tree
// with the values of an environment:
//
//	tree, err := stampo.Parse("greeting", []byte("Hello {name}!"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	e := env.New()
//	e.Push("name", value.String("World"))
//	err = stampo.Render(os.Stdout, tree, e)
package stampo

import (
	"io"

	"github.com/stampo-dev/stampo/ast"
	"github.com/stampo-dev/stampo/compiler"
	"github.com/stampo-dev/stampo/env"
)

// Parse parses a template source and returns its tree. path is the name of
// the source, used in errors.
func Parse(path string, src []byte) (*ast.Tree, error) {
	return compiler.ParseTemplate(path, src)
}

// Render renders the tree tree to wr with the symbols of the environment e.
//
// A tree is read-only during rendering, so the same tree can be rendered
// concurrently by multiple goroutines. An environment is modified by for
// statements and cannot be shared between concurrent renderings.
func Render(wr io.Writer, tree *ast.Tree, e *env.Env) error {
	r := &rendering{path: tree.Path, env: e}
	return r.render(wr, tree.Nodes)
}
