// Copyright (c) 2026 The Stampo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package env implements environments that map symbol names to stacks of
// values, and the loading of environments from textual and YAML sources.
package env

import (
	"sort"

	"github.com/stampo-dev/stampo/value"
)

// Env is an environment, mapping symbol names to stacks of values. The top
// of a stack is the current value of the symbol. An Env is not safe for
// concurrent use.
type Env struct {
	symbols map[string][]value.Value
}

// New returns a new empty environment.
func New() *Env {
	return &Env{symbols: map[string][]value.Value{}}
}

// Lookup returns the current value of the symbol name. The returned value
// is owned by the environment, callers must copy it before modifying it.
func (e *Env) Lookup(name string) (value.Value, bool) {
	stack := e.symbols[name]
	if len(stack) == 0 {
		return nil, false
	}
	return stack[len(stack)-1], true
}

// Push pushes a copy of v as the new current value of the symbol name.
func (e *Env) Push(name string, v value.Value) {
	e.symbols[name] = append(e.symbols[name], v.Copy())
}

// Pop removes and returns the current value of the symbol name, uncovering
// the previously pushed value. The returned value is owned by the caller.
// The symbol becomes undefined when its last value is removed.
func (e *Env) Pop(name string) (value.Value, bool) {
	stack := e.symbols[name]
	if len(stack) == 0 {
		return nil, false
	}
	v := stack[len(stack)-1]
	if len(stack) == 1 {
		delete(e.symbols, name)
	} else {
		e.symbols[name] = stack[:len(stack)-1]
	}
	return v, true
}

// Names returns the names of the defined symbols, sorted.
func (e *Env) Names() []string {
	names := make([]string, 0, len(e.symbols))
	for name := range e.symbols {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Foreach calls f for every defined symbol with its current value, in an
// unspecified order, until f returns false. The values are owned by the
// environment.
func (e *Env) Foreach(f func(name string, v value.Value) bool) {
	for name, stack := range e.symbols {
		if !f(name, stack[len(stack)-1]) {
			return
		}
	}
}

// Merge merges the symbols of src into e. Only the current value of each
// symbol is merged, values shadowed in src are not carried over. A symbol
// already defined in e is left unchanged unless pushSymbols is true, in
// which case the current value of src is pushed onto its stack.
func (e *Env) Merge(src *Env, pushSymbols bool) {
	for name, stack := range src.symbols {
		if _, ok := e.symbols[name]; ok && !pushSymbols {
			continue
		}
		e.Push(name, stack[len(stack)-1])
	}
}
