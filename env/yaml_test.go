// Copyright (c) 2026 The Stampo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package env

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/stampo-dev/stampo/value"
)

func TestAddFromYAML(t *testing.T) {
	src := `
count: 42
ratio: 2.5
name: ciao
enabled: true
disabled: false
items:
  - 1
  - two
  - [3, 4]
`
	e := New()
	err := e.AddFromYAML([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	expected := map[string]value.Value{
		"count":    value.Int(42),
		"ratio":    value.Float(2.5),
		"name":     value.String("ciao"),
		"enabled":  value.Int(1),
		"disabled": value.Int(0),
		"items": value.Array{
			value.Int(1), value.String("two"),
			value.Array{value.Int(3), value.Int(4)}},
	}
	symbols := map[string]value.Value{}
	e.Foreach(func(name string, v value.Value) bool {
		symbols[name] = v
		return true
	})
	if diff := cmp.Diff(expected, symbols); diff != "" {
		t.Fatalf("unexpected symbols:\n%s", diff)
	}
}

func TestAddFromYAMLErrors(t *testing.T) {
	e := New()
	err := e.AddFromYAML([]byte("a: {b: 1}"))
	if err == nil {
		t.Fatal("unexpected no error on mapping value")
	}
	err = e.AddFromYAML([]byte(":"))
	if err == nil {
		t.Fatal("unexpected no error on malformed source")
	}
}
