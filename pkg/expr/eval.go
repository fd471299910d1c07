package expr

import (
	"fmt"
	"math"

	"github.com/lemonberrylabs/quickcalc/pkg/stdlib"
	"github.com/lemonberrylabs/quickcalc/pkg/types"
)

// Evaluate turns a typed expression such as "2sqrt(9)" or "45% of 120" into
// its numeric value. An optional leading '=' is ignored. The returned error,
// if any, is a *types.EvalError. Evaluate keeps no state between calls and is
// safe for concurrent use.
func Evaluate(input string) (float64, error) {
	rpn, err := Compile(input)
	if err != nil {
		return 0, err
	}
	return EvalPostfix(rpn)
}

// Compile tokenizes input and converts it to postfix form without evaluating.
func Compile(input string) ([]Token, error) {
	tokens, err := Tokenize(input)
	if err != nil {
		return nil, err
	}
	return ToPostfix(tokens)
}

// EvalPostfix evaluates a postfix token sequence with a single value stack.
func EvalPostfix(tokens []Token) (float64, error) {
	stack := make([]float64, 0, len(tokens))
	pop := func(t Token) (float64, error) {
		if len(stack) == 0 {
			return 0, types.NewArithmeticError(t.Pos, fmt.Sprintf("missing operand for %s", t))
		}
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return v, nil
	}

	for _, t := range tokens {
		switch t.Type {
		case TokenNumber:
			stack = append(stack, t.Value)

		case TokenConst:
			v, ok := stdlib.Constant(t.Name)
			if !ok {
				return 0, types.NewLexError(t.Pos, "unknown identifier %q", t.Name)
			}
			stack = append(stack, v)

		case TokenNeg:
			a, err := pop(t)
			if err != nil {
				return 0, err
			}
			stack = append(stack, -a)

		case TokenPercent:
			a, err := pop(t)
			if err != nil {
				return 0, err
			}
			stack = append(stack, a/100)

		case TokenFunc:
			fn, ok := stdlib.Function(t.Name)
			if !ok {
				return 0, types.NewLexError(t.Pos, "unknown identifier %q", t.Name)
			}
			a, err := pop(t)
			if err != nil {
				return 0, err
			}
			v := fn(a)
			if !isFinite(v) {
				return 0, types.NewDomainError(t.Pos, "%s(%g) is undefined", t.Name, a)
			}
			stack = append(stack, v)

		case TokenOperator:
			b, err := pop(t)
			if err != nil {
				return 0, err
			}
			a, err := pop(t)
			if err != nil {
				return 0, err
			}
			v, err := applyOperator(t, a, b)
			if err != nil {
				return 0, err
			}
			stack = append(stack, v)

		default:
			return 0, types.NewSyntaxError(t.Pos, fmt.Sprintf("unexpected %s in postfix input", t.Type))
		}
	}

	switch len(stack) {
	case 1:
		return stack[0], nil
	case 0:
		return 0, types.NewArithmeticError(-1, "empty expression")
	default:
		return 0, types.NewArithmeticError(-1, fmt.Sprintf("malformed expression: %d values left", len(stack)))
	}
}

func applyOperator(t Token, a, b float64) (float64, error) {
	var v float64
	switch t.Op {
	case '+':
		v = a + b
	case '-':
		v = a - b
	case '*':
		v = a * b
	case '/':
		if b == 0 {
			return 0, types.NewDomainError(t.Pos, "division by zero")
		}
		v = a / b
	case '^':
		v = math.Pow(a, b)
	default:
		return 0, types.NewSyntaxError(t.Pos, fmt.Sprintf("unknown operator %q", t.Op))
	}
	if !isFinite(v) {
		return 0, types.NewDomainError(t.Pos, "%g %c %g is not a finite number", a, t.Op, b)
	}
	return v, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
