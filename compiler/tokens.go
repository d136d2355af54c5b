// Copyright (c) 2026 The Stampo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compiler

import (
	"fmt"

	"github.com/stampo-dev/stampo/ast"
)

// tokenTyp is the type of a token.
type tokenTyp int

const (
	tokenText             tokenTyp = iota // a b c
	tokenLeftBrace                        // {
	tokenRightBrace                       // }
	tokenIf                               // if
	tokenElse                             // else
	tokenFor                              // for
	tokenIn                               // in
	tokenEnd                              // end
	tokenIdentifier                       // customerName
	tokenInt                              // 42
	tokenFloat                            // 12.895
	tokenEqual                            // ==
	tokenNotEqual                         // !=
	tokenLess                             // <
	tokenLessOrEqual                      // <=
	tokenGreater                          // >
	tokenGreaterOrEqual                   // >=
	tokenAnd                              // &&
	tokenOr                               // ||
	tokenAddition                         // +
	tokenSubtraction                      // -
	tokenMultiplication                   // *
	tokenDivision                         // /
	tokenModulo                           // %
	tokenLeftParenthesis                  // (
	tokenRightParenthesis                 // )
	tokenLeftBracket                      // [
	tokenRightBracket                     // ]
	tokenEOF                              // eof
)

var tokenString = map[tokenTyp]string{
	tokenText:             "text",
	tokenLeftBrace:        "{",
	tokenRightBrace:       "}",
	tokenIf:               "if",
	tokenElse:             "else",
	tokenFor:              "for",
	tokenIn:               "in",
	tokenEnd:              "end",
	tokenIdentifier:       "identifier",
	tokenInt:              "integer",
	tokenFloat:            "float",
	tokenEqual:            "==",
	tokenNotEqual:         "!=",
	tokenLess:             "<",
	tokenLessOrEqual:      "<=",
	tokenGreater:          ">",
	tokenGreaterOrEqual:   ">=",
	tokenAnd:              "&&",
	tokenOr:               "||",
	tokenAddition:         "+",
	tokenSubtraction:      "-",
	tokenMultiplication:   "*",
	tokenDivision:         "/",
	tokenModulo:           "%",
	tokenLeftParenthesis:  "(",
	tokenRightParenthesis: ")",
	tokenLeftBracket:      "[",
	tokenRightBracket:     "]",
	tokenEOF:              "EOF",
}

// String returns the string that represents the token type.
func (tt tokenTyp) String() string {
	if s, ok := tokenString[tt]; ok {
		return s
	}
	panic("invalid token type")
}

// token represents a token of the template source.
type token struct {
	typ tokenTyp      // type.
	pos *ast.Position // position in the source.
	txt []byte        // text of the token.
}

// String returns the string that represents the token.
func (tok token) String() string {
	switch tok.typ {
	case tokenText:
		return fmt.Sprintf("%q", tok.txt)
	case tokenIdentifier, tokenInt, tokenFloat:
		return string(tok.txt)
	}
	return tok.typ.String()
}
