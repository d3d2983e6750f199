package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/govalues/rational/internal/checks"
)

// runDemo runs the embedded demonstration suite
func runDemo(cmd *cobra.Command, args []string) error {
	return runSuites(cmd.OutOrStdout(), []checks.Suite{checks.Default()})
}

// runCheck loads and runs every suite named on the command line
func runCheck(cmd *cobra.Command, args []string) error {
	suites := make([]checks.Suite, 0, len(args))
	for _, path := range args {
		s, err := checks.LoadFile(path)
		if err != nil {
			return err
		}
		logger.Debug("Loaded suite", zap.String("path", path), zap.Int("checks", len(s.Checks)))
		suites = append(suites, s)
	}
	return runSuites(cmd.OutOrStdout(), suites)
}

func runSuites(w io.Writer, suites []checks.Suite) error {
	failed := 0
	for _, s := range suites {
		rep := checks.Run(s, logger)
		printReport(w, rep)
		failed += len(rep.Failed)
	}
	if failed > 0 {
		return fmt.Errorf("%v check(s) failed", failed)
	}
	return nil
}

func printReport(w io.Writer, rep checks.Report) {
	fmt.Fprintf(w, "suite %v\n", rep.Suite)
	for _, res := range rep.Passed {
		fmt.Fprintf(w, "  PASS  %-28v %v\n", res.Check.Name, res.Got)
	}
	for _, res := range rep.Failed {
		fmt.Fprintf(w, "  FAIL  %-28v %v\n", res.Check.Name, res.Err)
	}
	fmt.Fprintf(w, "%v passed, %v failed\n", len(rep.Passed), len(rep.Failed))
}
