// Package expr implements the calculator's expression interpreter: a lexer
// that resolves implicit multiplication and the "of" idiom, a shunting-yard
// conversion to postfix form, and a single-stack postfix evaluator.
package expr

import (
	"strconv"
	"strings"
)

// TokenType represents the type of a lexical token.
type TokenType int

const (
	TokenNumber   TokenType = iota // numeric literal
	TokenOperator                  // + - * / ^
	TokenLParen                    // (
	TokenRParen                    // )
	TokenFunc                      // registered function name
	TokenConst                     // registered constant name
	TokenPercent                   // postfix %
	TokenNeg                       // unary minus
)

// Token represents a single lexical token.
type Token struct {
	Type  TokenType
	Op    byte    // operator character (for TokenOperator)
	Value float64 // parsed value (for TokenNumber)
	Name  string  // lower-cased identifier (for TokenFunc and TokenConst)
	Pos   int     // position in the normalized input
}

// String returns a debug-friendly representation of the token type.
func (t TokenType) String() string {
	switch t {
	case TokenNumber:
		return "NUMBER"
	case TokenOperator:
		return "OPERATOR"
	case TokenLParen:
		return "LPAREN"
	case TokenRParen:
		return "RPAREN"
	case TokenFunc:
		return "FUNC"
	case TokenConst:
		return "CONST"
	case TokenPercent:
		return "PERCENT"
	case TokenNeg:
		return "NEG"
	default:
		return "UNKNOWN"
	}
}

// String renders the token the way it appears in postfix output.
func (t Token) String() string {
	switch t.Type {
	case TokenNumber:
		return strconv.FormatFloat(t.Value, 'g', -1, 64)
	case TokenOperator:
		return string(t.Op)
	case TokenLParen:
		return "("
	case TokenRParen:
		return ")"
	case TokenFunc, TokenConst:
		return t.Name
	case TokenPercent:
		return "%"
	case TokenNeg:
		return "neg"
	default:
		return "?"
	}
}

// allowsImplicitMultiply reports whether a value-producing token sits in
// front of the current position, so juxtaposition means multiplication.
func (t Token) allowsImplicitMultiply() bool {
	switch t.Type {
	case TokenNumber, TokenConst, TokenRParen, TokenPercent:
		return true
	}
	return false
}

// FormatPostfix renders a token sequence as space-separated RPN.
func FormatPostfix(tokens []Token) string {
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = t.String()
	}
	return strings.Join(parts, " ")
}
