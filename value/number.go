// Copyright (c) 2026 The Stampo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// errMissingMantissa is returned scanning a numeric literal with a sign or a
// base prefix but no digits at all.
var errMissingMantissa = errors.New("missing mantissa in numeric literal")

// ScanNumber scans the numeric literal at the beginning of src and returns
// its length in bytes and whether it is a float. The literal has an optional
// sign, then either a "0x" hexadecimal integer or hexadecimal float with a
// binary "p" exponent, a "0b" binary integer, a "0o" octal integer, or a
// decimal integer or float with an optional "e" exponent. The literal is a
// float if it has a decimal point or an exponent. A literal with no digits
// is an error.
func ScanNumber(src []byte) (int, bool, error) {
	p := 0
	if p < len(src) && (src[p] == '+' || src[p] == '-') {
		p++
	}
	if p+1 < len(src) && src[p] == '0' {
		switch src[p+1] {
		case 'x', 'X':
			return scanHex(src, p+2)
		case 'b', 'B':
			return scanDigits(src, p+2, isBinDigit)
		case 'o', 'O':
			return scanDigits(src, p+2, isOctDigit)
		}
	}
	return scanDecimal(src, p)
}

// scanDigits scans a binary or octal integer from position p, after the
// base prefix.
func scanDigits(src []byte, p int, digit func(byte) bool) (int, bool, error) {
	q := p
	for q < len(src) && digit(src[q]) {
		q++
	}
	if q == p {
		return 0, false, errMissingMantissa
	}
	return q, false, nil
}

// scanDecimal scans a decimal integer or float from position p, after the
// optional sign.
func scanDecimal(src []byte, p int) (int, bool, error) {
	isFloat := false
	q := p
	for q < len(src) && isDecDigit(src[q]) {
		q++
	}
	if q < len(src) && src[q] == '.' {
		isFloat = true
		q++
		for q < len(src) && isDecDigit(src[q]) {
			q++
		}
	}
	if q == p || q == p+1 && src[p] == '.' {
		return 0, false, errMissingMantissa
	}
	if n, ok := scanExponent(src, q, 'e', 'E', isDecDigit); ok {
		isFloat = true
		q = n
	}
	return q, isFloat, nil
}

// scanHex scans a hexadecimal integer or float from position p, after the
// "0x" prefix. A hexadecimal float has a "p" exponent in decimal digits.
func scanHex(src []byte, p int) (int, bool, error) {
	isFloat := false
	q := p
	for q < len(src) && isHexDigit(src[q]) {
		q++
	}
	if q < len(src) && src[q] == '.' {
		isFloat = true
		q++
		for q < len(src) && isHexDigit(src[q]) {
			q++
		}
	}
	if q == p || q == p+1 && src[p] == '.' {
		return 0, false, errMissingMantissa
	}
	if n, ok := scanExponent(src, q, 'p', 'P', isDecDigit); ok {
		isFloat = true
		q = n
	}
	return q, isFloat, nil
}

// scanExponent scans an exponent marker at position q with an optional sign
// and digits. It reports whether an exponent was scanned; markers not
// followed by digits are not consumed.
func scanExponent(src []byte, q int, lower, upper byte, digit func(byte) bool) (int, bool) {
	if q >= len(src) || src[q] != lower && src[q] != upper {
		return q, false
	}
	e := q + 1
	if e < len(src) && (src[e] == '+' || src[e] == '-') {
		e++
	}
	if e >= len(src) || !digit(src[e]) {
		return q, false
	}
	for e < len(src) && digit(src[e]) {
		e++
	}
	return e, true
}

func isDecDigit(c byte) bool { return '0' <= c && c <= '9' }

func isBinDigit(c byte) bool { return c == '0' || c == '1' }

func isOctDigit(c byte) bool { return '0' <= c && c <= '7' }

func isHexDigit(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

// ParseNumber parses a numeric literal, as scanned by ScanNumber, and
// returns its value as an Int or a Float. A literal too large to represent
// is a range error, distinct from a malformed literal.
func ParseNumber(s string) (Value, error) {
	body := s
	if len(body) > 0 && (body[0] == '+' || body[0] == '-') {
		body = body[1:]
	}
	isFloat := false
	base := 10
	if len(body) > 1 && body[0] == '0' && (body[1] == 'x' || body[1] == 'X') {
		base = 0
		isFloat = strings.ContainsAny(body[2:], ".pP")
		if isFloat && !strings.ContainsAny(body[2:], "pP") {
			// strconv wants an explicit binary exponent on hexadecimal floats.
			s += "p0"
		}
	} else if len(body) > 1 && body[0] == '0' && (body[1] == 'b' || body[1] == 'B' || body[1] == 'o' || body[1] == 'O') {
		base = 0
	} else {
		isFloat = strings.ContainsAny(body, ".eE")
	}
	if isFloat {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			if errors.Is(err, strconv.ErrRange) {
				return nil, fmt.Errorf("constant %s overflows float", strings.TrimSuffix(s, "p0"))
			}
			return nil, fmt.Errorf("malformed numeric literal %s", strings.TrimSuffix(s, "p0"))
		}
		return Float(f), nil
	}
	n, err := strconv.ParseInt(s, base, strconv.IntSize)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return nil, fmt.Errorf("constant %s overflows integer", s)
		}
		return nil, fmt.Errorf("malformed numeric literal %s", s)
	}
	return Int(n), nil
}
