// Package calc evaluates arithmetic expressions over rationals written in
// postfix (reverse Polish) notation, such as "1/2 1/3 +".
package calc

import (
	"errors"
	"fmt"
	"strings"

	"github.com/govalues/rational"
)

var (
	errNoTokens          = errors.New("no tokens")
	errNotEnoughOperands = errors.New("not enough operands")
)

// Binary operators.
var binary = map[string]func(a, b rational.Rat) (rational.Rat, error){
	"+": func(a, b rational.Rat) (rational.Rat, error) { return a.Add(b), nil },
	"-": func(a, b rational.Rat) (rational.Rat, error) { return a.Sub(b), nil },
	"*": func(a, b rational.Rat) (rational.Rat, error) { return a.Mul(b), nil },
	"/": func(a, b rational.Rat) (rational.Rat, error) { return a.Quo(b) },
}

// Unary operators.
var unary = map[string]func(a rational.Rat) (rational.Rat, error){
	"neg": func(a rational.Rat) (rational.Rat, error) { return a.Neg(), nil },
	"abs": func(a rational.Rat) (rational.Rat, error) { return a.Abs(), nil },
	"inv": func(a rational.Rat) (rational.Rat, error) { return a.Inv() },
}

// Eval evaluates a postfix expression.
// Tokens are separated by whitespace; every token that is not an operator
// is parsed with [rational.Parse].
//
// Supported operators:
//
//	+ - * /       binary, pop b then a and push a op b
//	neg abs inv   unary
func Eval(expr string) (rational.Rat, error) {
	tokens := strings.Fields(expr)
	if len(tokens) == 0 {
		return rational.Rat{}, errNoTokens
	}
	stack := make([]rational.Rat, 0, len(tokens))
	var err error
	for _, token := range tokens {
		switch {
		case binary[token] != nil:
			stack, err = processBinary(stack, token)
		case unary[token] != nil:
			stack, err = processUnary(stack, token)
		default:
			stack, err = processOperand(stack, token)
		}
		if err != nil {
			return rational.Rat{}, fmt.Errorf("processing token %q: %w", token, err)
		}
	}
	if len(stack) != 1 {
		return rational.Rat{}, fmt.Errorf("post-processed stack contains %v, expected exactly one item", stack)
	}
	return stack[0], nil
}

func processBinary(stack []rational.Rat, token string) ([]rational.Rat, error) {
	if len(stack) < 2 {
		return nil, errNotEnoughOperands
	}
	a, b := stack[len(stack)-2], stack[len(stack)-1]
	stack = stack[:len(stack)-2]
	c, err := binary[token](a, b)
	if err != nil {
		return nil, err
	}
	return append(stack, c), nil
}

func processUnary(stack []rational.Rat, token string) ([]rational.Rat, error) {
	if len(stack) < 1 {
		return nil, errNotEnoughOperands
	}
	c, err := unary[token](stack[len(stack)-1])
	if err != nil {
		return nil, err
	}
	stack[len(stack)-1] = c
	return stack, nil
}

func processOperand(stack []rational.Rat, token string) ([]rational.Rat, error) {
	r, err := rational.Parse(token)
	if err != nil {
		return nil, err
	}
	return append(stack, r), nil
}
