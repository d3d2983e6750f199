package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/govalues/rational"
	"github.com/govalues/rational/internal/calc"
)

// runEval evaluates the arguments as a single postfix expression
func runEval(cmd *cobra.Command, args []string) error {
	expr := strings.Join(args, " ")
	logger.Debug("Evaluating expression", zap.String("expr", expr))

	r, err := calc.Eval(expr)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if decimalPlaces >= 0 {
		fmt.Fprintf(out, "%.*f\n", decimalPlaces, r)
		return nil
	}
	fmt.Fprintln(out, r)
	return nil
}

// runCmp prints the result of comparing two rationals
func runCmp(cmd *cobra.Command, args []string) error {
	a, err := rational.Parse(args[0])
	if err != nil {
		return err
	}
	b, err := rational.Parse(args[1])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), a.Cmp(b))
	return nil
}

// runIn prints whether a rational lies within a range
func runIn(cmd *cobra.Command, args []string) error {
	v, err := rational.Parse(args[0])
	if err != nil {
		return err
	}
	g, err := rational.ParseRange(args[1])
	if err != nil {
		return err
	}
	if g.IsEmpty() {
		logger.Warn("Range is empty", zap.Stringer("range", g))
	}
	fmt.Fprintln(cmd.OutOrStdout(), g.Contains(v))
	return nil
}
