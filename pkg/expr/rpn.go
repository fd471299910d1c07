package expr

import "github.com/lemonberrylabs/quickcalc/pkg/types"

// Operator precedence; higher binds tighter.
const (
	precAdditive       = 2
	precMultiplicative = 3
	precPower          = 4
	precNeg            = 5
	precPercent        = 6
)

func precedence(t Token) int {
	switch t.Type {
	case TokenPercent:
		return precPercent
	case TokenNeg:
		return precNeg
	case TokenOperator:
		switch t.Op {
		case '^':
			return precPower
		case '*', '/':
			return precMultiplicative
		case '+', '-':
			return precAdditive
		}
	}
	return 0
}

func rightAssociative(t Token) bool {
	return t.Type == TokenNeg || (t.Type == TokenOperator && t.Op == '^')
}

func isOperatorClass(t Token) bool {
	return t.Type == TokenOperator || t.Type == TokenNeg || t.Type == TokenPercent
}

// ToPostfix reorders tokens into postfix (RPN) form with the shunting-yard
// algorithm. A function binds to the parenthesized group that follows it.
func ToPostfix(tokens []Token) ([]Token, error) {
	output := make([]Token, 0, len(tokens))
	var stack []Token

	for _, t := range tokens {
		switch t.Type {
		case TokenNumber, TokenConst, TokenPercent:
			output = append(output, t)

		case TokenFunc, TokenLParen:
			stack = append(stack, t)

		case TokenOperator, TokenNeg:
			p := precedence(t)
			for len(stack) > 0 {
				top := stack[len(stack)-1]
				if !isOperatorClass(top) {
					break
				}
				tp := precedence(top)
				if tp > p || (tp == p && !rightAssociative(t)) {
					output = append(output, top)
					stack = stack[:len(stack)-1]
					continue
				}
				break
			}
			stack = append(stack, t)

		case TokenRParen:
			for len(stack) > 0 && stack[len(stack)-1].Type != TokenLParen {
				output = append(output, stack[len(stack)-1])
				stack = stack[:len(stack)-1]
			}
			if len(stack) == 0 {
				return nil, types.NewSyntaxError(t.Pos, "mismatched parentheses: unexpected ')'")
			}
			stack = stack[:len(stack)-1]
			if len(stack) > 0 && stack[len(stack)-1].Type == TokenFunc {
				output = append(output, stack[len(stack)-1])
				stack = stack[:len(stack)-1]
			}
		}
	}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if top.Type == TokenLParen || top.Type == TokenRParen {
			return nil, types.NewSyntaxError(top.Pos, "mismatched parentheses: unclosed '('")
		}
		output = append(output, top)
	}
	return output, nil
}
