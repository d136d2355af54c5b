// Copyright (c) 2026 The Stampo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package value implements the values of the template language: integers,
// floats, strings and arrays of values.
package value

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind is the kind of a value.
type Kind int

const (
	KindInt Kind = iota
	KindFloat
	KindString
	KindArray
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindInt:
		return "integer"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	}
	panic("invalid kind")
}

// Value is a value of the template language. A value holds exactly one of
// the four kinds; Int, Float and String values are immutable and Copy
// returns a deep copy, so values can be stored and passed around without
// aliasing surprises.
type Value interface {

	// Kind returns the kind of the value.
	Kind() Kind

	// String returns the display form of the value. It is a presentation
	// format, it is not meant to be parsed back.
	String() string

	// Copy returns a deep copy of the value.
	Copy() Value
}

// Int is an integer value.
type Int int

// Kind returns KindInt.
func (n Int) Kind() Kind { return KindInt }

// String returns n in base 10.
func (n Int) String() string { return strconv.Itoa(int(n)) }

// Copy returns n.
func (n Int) Copy() Value { return n }

// Float is a floating point value.
type Float float64

// Kind returns KindFloat.
func (f Float) Kind() Kind { return KindFloat }

// String returns f with 15 significant digits, a locale independent decimal
// point and no trailing zeros.
func (f Float) String() string {
	return strconv.FormatFloat(float64(f), 'g', 15, 64)
}

// Copy returns f.
func (f Float) Copy() Value { return f }

// String is a string value.
type String string

// Kind returns KindString.
func (s String) Kind() Kind { return KindString }

// String returns s verbatim.
func (s String) String() string { return string(s) }

// Copy returns s.
func (s String) Copy() Value { return s }

// Array is an ordered sequence of values. Elements can have different kinds
// and can themselves be arrays.
type Array []Value

// Kind returns KindArray.
func (a Array) Kind() Kind { return KindArray }

// String returns the elements comma separated and surrounded by brackets,
// as in "[1, 2.5, three]".
func (a Array) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range a {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(v.String())
	}
	b.WriteByte(']')
	return b.String()
}

// Copy returns a deep copy of a: every element is recursively copied.
func (a Array) Copy() Value {
	b := make(Array, len(a))
	for i, v := range a {
		b[i] = v.Copy()
	}
	return b
}

// minNormal is the smallest normal float64.
const minNormal = 2.2250738585072014e-308

// Eq reports whether a and b are equal, treating a difference that
// classifies as zero or subnormal as equality. It is looser than bit
// equality and masks the rounding noise of previous float operations.
func Eq(a, b float64) bool {
	d := a - b
	return d == 0 || math.Abs(d) < minNormal
}

// IsTrue returns the truth of v: an integer is true if non-zero, a float if
// not equal to zero, a string if non-empty and an array if it has at least
// one element.
func IsTrue(v Value) bool {
	switch v := v.(type) {
	case Int:
		return v != 0
	case Float:
		return !Eq(float64(v), 0)
	case String:
		return v != ""
	case Array:
		return len(v) > 0
	}
	panic("invalid value")
}

// Convert converts v to kind k and reports whether the conversion is
// possible. The conversion never loses information: a float converts to an
// integer only if it has no fractional part, a string converts to a number
// only if it entirely parses as a numeric literal. Any value converts to a
// string with its display form and to an array as its only element. If v
// already has kind k, v is returned unchanged.
func Convert(v Value, k Kind) (Value, bool) {
	if v.Kind() == k {
		return v, true
	}
	switch k {
	case KindString:
		return String(v.String()), true
	case KindArray:
		return Array{v.Copy()}, true
	case KindInt:
		switch v := v.(type) {
		case Float:
			f := float64(v)
			t := math.Trunc(f)
			if math.IsInf(f, 0) || math.IsNaN(f) || !Eq(f, t) {
				return nil, false
			}
			if t < math.MinInt || t >= math.MaxInt {
				return nil, false
			}
			return Int(t), true
		case String:
			n, err := ParseNumber(string(v))
			if err != nil {
				return nil, false
			}
			if n.Kind() == KindInt {
				return n, true
			}
			return Convert(n, KindInt)
		}
	case KindFloat:
		switch v := v.(type) {
		case Int:
			return Float(v), true
		case String:
			n, err := ParseNumber(string(v))
			if err != nil {
				return nil, false
			}
			if f, ok := n.(Float); ok {
				return f, true
			}
			return Float(n.(Int)), true
		}
	}
	return nil, false
}

// Compare compares a and b and returns -1, 0 or 1 if a is less than, equal
// to or greater than b. An array compares only with another array, element
// by element in order; the first difference decides and if all the compared
// elements are equal the shorter array is less. Two floats, or an integer
// and a float, compare as floats with Eq deciding equality. A string
// compares with any non-array value through its display form, byte-wise.
func Compare(a, b Value) (int, error) {
	arr1, ok1 := a.(Array)
	arr2, ok2 := b.(Array)
	if ok1 != ok2 {
		return 0, fmt.Errorf("cannot compare %s with %s", a.Kind(), b.Kind())
	}
	if ok1 {
		for i := 0; i < len(arr1) && i < len(arr2); i++ {
			c, err := Compare(arr1[i], arr2[i])
			if err != nil {
				return 0, err
			}
			if c != 0 {
				return c, nil
			}
		}
		switch {
		case len(arr1) < len(arr2):
			return -1, nil
		case len(arr1) > len(arr2):
			return 1, nil
		}
		return 0, nil
	}
	if a.Kind() == KindString || b.Kind() == KindString {
		return strings.Compare(a.String(), b.String()), nil
	}
	if n1, ok := a.(Int); ok {
		if n2, ok := b.(Int); ok {
			switch {
			case n1 < n2:
				return -1, nil
			case n1 > n2:
				return 1, nil
			}
			return 0, nil
		}
	}
	f1, _ := Convert(a, KindFloat)
	f2, _ := Convert(b, KindFloat)
	x, y := float64(f1.(Float)), float64(f2.(Float))
	switch {
	case Eq(x, y):
		return 0, nil
	case x < y:
		return -1, nil
	}
	return 1, nil
}
