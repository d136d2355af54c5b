// Copyright (c) 2026 The Stampo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stampo

import (
	"fmt"

	"github.com/stampo-dev/stampo/ast"
)

// Error records a rendering error with the path and the position of the
// node that could not be rendered.
type Error struct {
	Path string
	Pos  ast.Position
	Err  error
}

// Error returns a string representing the rendering error.
func (e *Error) Error() string {
	return fmt.Sprintf("%s:%s: %s", e.Path, e.Pos, e.Err)
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	return e.Err
}
