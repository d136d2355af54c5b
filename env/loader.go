// Copyright (c) 2026 The Stampo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package env

import (
	"fmt"
	"io"
	"os"

	"github.com/stampo-dev/stampo/value"
)

// LoadError records an error loading an environment from a textual source,
// with the path and the position where the error occurred.
type LoadError struct {
	Path   string
	Line   int
	Column int
	msg    string
}

// Error returns a string representing the load error.
func (e *LoadError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.Path, e.Line, e.Column, e.msg)
}

// AddFromString adds to the environment the symbols defined in the textual
// source src. path is the name of the source, used in errors.
//
// A source is a sequence of statements of the form
//
//	name = value ;
//
// where value is a number, a double quoted string or an array of values
// between square brackets. Comments start with # and end at the end of the
// line. Each complete statement pushes a value, so on error the symbols of
// the preceding statements remain pushed.
func (e *Env) AddFromString(path, src string) error {
	s := &scanner{src: []byte(src), path: path, line: 1, column: 1}
	for {
		s.skipBlank()
		if len(s.src) == 0 {
			return nil
		}
		name, err := s.readSymbol()
		if err != nil {
			return err
		}
		s.skipBlank()
		if len(s.src) == 0 || s.src[0] != '=' {
			return s.errorf("missing = after symbol %s", name)
		}
		s.skip(1)
		s.skipBlank()
		v, err := s.readValue()
		if err != nil {
			return err
		}
		s.skipBlank()
		if len(s.src) == 0 || s.src[0] != ';' {
			return s.errorf("missing ; after value of symbol %s", name)
		}
		s.skip(1)
		e.Push(name, v)
	}
}

// AddFromFile adds to the environment the symbols defined in the textual
// source read from the file name. See AddFromString for the source format.
func (e *Env) AddFromFile(name string) error {
	src, err := os.ReadFile(name)
	if err != nil {
		return err
	}
	return e.AddFromString(name, string(src))
}

// AddFromReader adds to the environment the symbols defined in the textual
// source read from r. path is the name of the source, used in errors.
func (e *Env) AddFromReader(path string, r io.Reader) error {
	src, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	return e.AddFromString(path, string(src))
}

// AddFromStdin adds to the environment the symbols defined in the textual
// source read from the standard input.
func (e *Env) AddFromStdin() error {
	return e.AddFromReader("stdin", os.Stdin)
}

// scanner scans a textual environment source.
type scanner struct {
	src    []byte
	path   string
	line   int
	column int
}

// errorf returns a LoadError at the current position.
func (s *scanner) errorf(format string, a ...interface{}) *LoadError {
	return &LoadError{s.path, s.line, s.column, fmt.Sprintf(format, a...)}
}

// skip skips the next n bytes, updating line and column.
func (s *scanner) skip(n int) {
	for i := 0; i < n; i++ {
		if s.src[i] == '\n' {
			s.line++
			s.column = 1
		} else {
			s.column++
		}
	}
	s.src = s.src[n:]
}

// skipBlank skips blank characters and comments. Comments start with # and
// end at the end of the line.
func (s *scanner) skipBlank() {
	for len(s.src) > 0 {
		switch c := s.src[0]; c {
		case ' ', '\t', '\v', '\r', '\n':
			s.skip(1)
		case '#':
			p := 1
			for p < len(s.src) && s.src[p] != '\n' {
				p++
			}
			s.skip(p)
		default:
			return
		}
	}
}

// readSymbol reads a symbol name.
func (s *scanner) readSymbol() (string, error) {
	if len(s.src) == 0 || !isSymbolStart(s.src[0]) {
		return "", s.errorf("missing symbol name")
	}
	p := 1
	for p < len(s.src) && isSymbolPart(s.src[p]) {
		p++
	}
	name := string(s.src[:p])
	s.skip(p)
	return name, nil
}

// readValue reads a value. A value is a number, a double quoted string or
// an array of comma separated values between square brackets.
func (s *scanner) readValue() (value.Value, error) {
	if len(s.src) == 0 {
		return nil, s.errorf("missing value")
	}
	switch c := s.src[0]; {
	case c == '"':
		return s.readString()
	case c == '[':
		return s.readArray()
	default:
		n, _, err := value.ScanNumber(s.src)
		if err != nil || n == 0 {
			return nil, s.errorf("unexpected character %q in value", c)
		}
		v, err := value.ParseNumber(string(s.src[:n]))
		if err != nil {
			return nil, s.errorf("%s", err)
		}
		s.skip(n)
		return v, nil
	}
}

// readString reads a double quoted string. A backslash makes the next
// character literal, so \" is a quote and \\ a backslash.
func (s *scanner) readString() (value.Value, error) {
	var b []byte
	p := 1
	for {
		if p == len(s.src) {
			s.skip(p)
			return nil, s.errorf("unexpected end of source in string")
		}
		switch c := s.src[p]; c {
		case '"':
			s.skip(p + 1)
			return value.String(b), nil
		case '\\':
			if p+1 == len(s.src) {
				s.skip(p + 1)
				return nil, s.errorf("unexpected end of source in string")
			}
			b = append(b, s.src[p+1])
			p += 2
		default:
			b = append(b, c)
			p++
		}
	}
}

// readArray reads an array of comma separated values between square
// brackets. Arrays can be nested.
func (s *scanner) readArray() (value.Value, error) {
	s.skip(1)
	a := value.Array{}
	s.skipBlank()
	if len(s.src) > 0 && s.src[0] == ']' {
		s.skip(1)
		return a, nil
	}
	for {
		v, err := s.readValue()
		if err != nil {
			return nil, err
		}
		a = append(a, v)
		s.skipBlank()
		if len(s.src) == 0 {
			return nil, s.errorf("unexpected end of source in array")
		}
		switch s.src[0] {
		case ',':
			s.skip(1)
			s.skipBlank()
		case ']':
			s.skip(1)
			return a, nil
		default:
			return nil, s.errorf("unexpected character %q in array", s.src[0])
		}
	}
}

func isSymbolStart(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || c == '_'
}

func isSymbolPart(c byte) bool {
	return isSymbolStart(c) || '0' <= c && c <= '9'
}
