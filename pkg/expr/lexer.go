package expr

import (
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/lemonberrylabs/quickcalc/pkg/stdlib"
	"github.com/lemonberrylabs/quickcalc/pkg/types"
)

// Normalize trims surrounding whitespace and one optional leading '='.
func Normalize(input string) string {
	s := strings.TrimSpace(input)
	if strings.HasPrefix(s, "=") {
		s = strings.TrimSpace(s[1:])
	}
	return s
}

// Tokenize normalizes text and scans it into tokens.
func Tokenize(text string) ([]Token, error) {
	return NewLexer(Normalize(text)).Tokenize()
}

// Lexer tokenizes a calculator expression.
type Lexer struct {
	input  string
	pos    int
	tokens []Token
}

// NewLexer creates a new lexer for the given input. The input is used as-is;
// see Normalize.
func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

// Tokenize scans the entire input and returns all tokens, with binary '-'
// already separated from unary minus.
func (l *Lexer) Tokenize() ([]Token, error) {
	for {
		l.skipWhitespace()
		if l.pos >= len(l.input) {
			break
		}
		if err := l.next(); err != nil {
			return nil, err
		}
	}
	return markUnaryMinus(l.tokens), nil
}

// next scans one lexeme, emitting zero or more tokens.
func (l *Lexer) next() error {
	ch := l.input[l.pos]

	if isDigit(ch) || (ch == '.' && isDigit(l.peek(1))) {
		return l.readNumber()
	}

	switch ch {
	case '+', '-', '*', '/', '^':
		l.emit(Token{Type: TokenOperator, Op: ch, Pos: l.pos})
		l.pos++
		return nil
	case '(':
		l.implicitMultiply()
		l.emit(Token{Type: TokenLParen, Pos: l.pos})
		l.pos++
		return nil
	case ')':
		l.emit(Token{Type: TokenRParen, Pos: l.pos})
		l.pos++
		l.readPercent()
		return nil
	}

	if isIdentStart(ch) {
		return l.readIdentifier()
	}

	r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
	return types.NewLexError(l.pos, "unexpected character %q", r)
}

// readNumber reads a decimal literal with optional fraction and exponent.
func (l *Lexer) readNumber() error {
	start := l.pos
	for isDigit(l.peek(0)) {
		l.pos++
	}
	if l.peek(0) == '.' {
		l.pos++
		for isDigit(l.peek(0)) {
			l.pos++
		}
	}
	// The exponent is only taken when digits follow; otherwise "2e" is 2*e.
	if c := l.peek(0); c == 'e' || c == 'E' {
		if isDigit(l.peek(1)) || ((l.peek(1) == '+' || l.peek(1) == '-') && isDigit(l.peek(2))) {
			l.pos += 2
			for isDigit(l.peek(0)) {
				l.pos++
			}
		}
	}

	raw := l.input[start:l.pos]
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return types.NewLexError(start, "invalid number %q", raw)
	}
	if prev, ok := l.last(); ok && prev.allowsImplicitMultiply() {
		return types.NewLexError(start, "missing operator before %q", raw)
	}

	l.emit(Token{Type: TokenNumber, Value: v, Pos: start})
	l.readPercent()
	return nil
}

// readPercent emits a postfix percent when '%' immediately follows.
func (l *Lexer) readPercent() {
	if l.peek(0) == '%' {
		l.emit(Token{Type: TokenPercent, Pos: l.pos})
		l.pos++
	}
}

// readIdentifier resolves a word against "of", the function registry and
// the constant registry, in that order.
func (l *Lexer) readIdentifier() error {
	start := l.pos
	for isIdentPart(l.peek(0)) {
		l.pos++
	}
	word := strings.ToLower(l.input[start:l.pos])

	if word == "of" {
		// "45% of 120" is (45%) * 120; a dangling "of" is ignored.
		l.implicitMultiply()
		return nil
	}
	if _, ok := stdlib.Function(word); ok {
		l.implicitMultiply()
		l.emit(Token{Type: TokenFunc, Name: word, Pos: start})
		return nil
	}
	if _, ok := stdlib.Constant(word); ok {
		l.implicitMultiply()
		l.emit(Token{Type: TokenConst, Name: word, Pos: start})
		return nil
	}
	return types.NewLexError(start, "unknown identifier %q", word)
}

// implicitMultiply inserts a '*' when the previous token produces a value.
func (l *Lexer) implicitMultiply() {
	if prev, ok := l.last(); ok && prev.allowsImplicitMultiply() {
		l.emit(Token{Type: TokenOperator, Op: '*', Pos: l.pos})
	}
}

func (l *Lexer) emit(t Token) {
	l.tokens = append(l.tokens, t)
}

func (l *Lexer) last() (Token, bool) {
	if len(l.tokens) == 0 {
		return Token{}, false
	}
	return l.tokens[len(l.tokens)-1], true
}

func (l *Lexer) peek(offset int) byte {
	if l.pos+offset >= len(l.input) {
		return 0
	}
	return l.input[l.pos+offset]
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])
		if !unicode.IsSpace(r) {
			return
		}
		l.pos += size
	}
}

// markUnaryMinus rewrites '-' into TokenNeg wherever it cannot be a binary
// operator: at the start, or after an operator, '(' or a function name.
func markUnaryMinus(tokens []Token) []Token {
	out := make([]Token, 0, len(tokens))
	for _, t := range tokens {
		if t.Type == TokenOperator && t.Op == '-' {
			if len(out) == 0 {
				t = Token{Type: TokenNeg, Pos: t.Pos}
			} else {
				switch out[len(out)-1].Type {
				case TokenOperator, TokenLParen, TokenFunc:
					t = Token{Type: TokenNeg, Pos: t.Pos}
				}
			}
		}
		out = append(out, t)
	}
	return out
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch) || ch == '_'
}
