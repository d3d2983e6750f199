package main

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose bool

	// Eval flags
	decimalPlaces int

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "rat",
	Short: "rat - exact rational arithmetic from the command line",
	Long: `rat evaluates and compares arbitrary-precision rational numbers.

Numbers are written as "n/d" or "n", e.g. "1/3", "-22/7" or "42".
Expressions use postfix notation, e.g. "1/2 1/3 +".

Negative numbers are operands, not flags: "rat cmp -1/2 1/3" works as is.
Everything after a "--" separator is always an operand.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// demoCmd runs the embedded smoke suite
var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the built-in demonstration checks",
	Args:  cobra.NoArgs,
	RunE:  runDemo,
}

// checkCmd runs suites from files
var checkCmd = &cobra.Command{
	Use:   "check FILE...",
	Short: "Run check suites from YAML files",
	Long: `Loads every file as a check suite and runs it.

Example suite:
  name: halves
  checks:
    - name: sum
      expr: "1/4 1/4 +"
      want: "1/2"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

// evalCmd evaluates postfix expressions
var evalCmd = &cobra.Command{
	Use:   "eval EXPR...",
	Short: "Evaluate a postfix expression",
	Long: `Evaluates a postfix expression and prints the result.
All arguments are joined into a single expression.

Operators:
  + - * /       binary
  neg abs inv   unary

Examples:
  rat eval "1/2 1/3 +"            # 5/6
  rat eval --decimal 4 1 3 /      # 0.3333
  rat eval -d 2 -2/3              # -0.67
  rat eval -- "-1/2 neg"          # 1/2`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEval,
}

// cmpCmd compares two rationals
var cmpCmd = &cobra.Command{
	Use:   "cmp A B",
	Short: "Compare two rationals, printing -1, 0 or 1",
	Long: `Compares A with B and prints -1 if A < B, 0 if A = B and 1 if A > B.

Examples:
  rat cmp 1/2 2/3       # -1
  rat cmp -1/2 -2/3     # 1
  rat cmp -- -1/2 1/3   # -1`,
	Args: cobra.ExactArgs(2),
	RunE: runCmp,
}

// inCmd tests range membership
var inCmd = &cobra.Command{
	Use:   "in VALUE RANGE",
	Short: "Report whether a rational lies within a closed range",
	Long: `Prints true if VALUE lies within RANGE, false otherwise.

Examples:
  rat in 1/2 1/3..2/3   # true
  rat in -1/2 -1..1     # true`,
	Args: cobra.ExactArgs(2),
	RunE: runIn,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	// Eval flags
	evalCmd.Flags().IntVarP(&decimalPlaces, "decimal", "d", -1, "Print the result in decimal notation with this many digits after the point")

	// Add commands to root
	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(cmpCmd)
	rootCmd.AddCommand(inCmd)
}

func main() {
	if err := execute(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// execute runs the command tree with the given arguments
func execute(args []string) error {
	rootCmd.SetArgs(operandArgs(rootCmd, args))
	return rootCmd.Execute()
}

// operandArgs moves negative numbers such as "-1/2" or "-1..1" behind a "--"
// separator, so that pflag does not read them as shorthand flags.
// Flags and command names keep their order, and so do the operands.
// Arguments that already contain a separator, or no negative number, are
// returned unchanged.
func operandArgs(root *cobra.Command, args []string) []string {
	if slices.Contains(args, "--") || !slices.ContainsFunc(args, isNegativeOperand) {
		return args
	}
	cmd := root
	var head, operands []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case isNegativeOperand(arg):
			operands = append(operands, arg)
		case strings.HasPrefix(arg, "-"):
			head = append(head, arg)
			if flagTakesValue(cmd, arg) && i+1 < len(args) {
				i++
				head = append(head, args[i])
			}
		case cmd == root && len(operands) == 0 && subcommand(root, arg) != nil:
			cmd = subcommand(root, arg)
			head = append(head, arg)
		default:
			operands = append(operands, arg)
		}
	}
	return append(append(head, "--"), operands...)
}

// isNegativeOperand returns true if arg starts with a minus followed by a digit.
func isNegativeOperand(arg string) bool {
	return len(arg) > 1 && arg[0] == '-' && '0' <= arg[1] && arg[1] <= '9'
}

// flagTakesValue returns true if arg names a flag of cmd that expects a
// value in the following argument.
func flagTakesValue(cmd *cobra.Command, arg string) bool {
	if strings.Contains(arg, "=") {
		return false
	}
	var f *pflag.Flag
	switch {
	case strings.HasPrefix(arg, "--"):
		name := arg[2:]
		if f = cmd.Flags().Lookup(name); f == nil {
			f = cmd.Root().PersistentFlags().Lookup(name)
		}
	case len(arg) == 2:
		name := arg[1:]
		if f = cmd.Flags().ShorthandLookup(name); f == nil {
			f = cmd.Root().PersistentFlags().ShorthandLookup(name)
		}
	}
	return f != nil && f.NoOptDefVal == ""
}

func subcommand(root *cobra.Command, name string) *cobra.Command {
	for _, c := range root.Commands() {
		if c.Name() == name || c.HasAlias(name) {
			return c
		}
	}
	return nil
}
