// Package checks runs suites of expectations about rational arithmetic.
// Suites are YAML documents; the embedded default suite is the smoke test
// behind "rat demo".
package checks

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/govalues/rational"
	"github.com/govalues/rational/internal/calc"
)

//go:embed default.yaml
var defaultSuite []byte

var (
	errMismatch     = errors.New("mismatch")
	errInvalidCheck = errors.New("invalid check")
)

// Check is a single expectation about a postfix expression.
// Exactly one of Want, Text, Less, Within or Error must be set.
type Check struct {
	Name   string `yaml:"name"`
	Expr   string `yaml:"expr"`
	Want   string `yaml:"want,omitempty"`   // value equal to
	Text   string `yaml:"text,omitempty"`   // exact String() output
	Less   string `yaml:"less,omitempty"`   // value strictly less than
	Within string `yaml:"within,omitempty"` // range containing the value
	Error  string `yaml:"error,omitempty"`  // substring of the expected error
}

// Suite is a named list of checks.
type Suite struct {
	Name   string  `yaml:"name"`
	Checks []Check `yaml:"checks"`
}

// Result is the outcome of a single check.
// Err is nil if the check passed.
type Result struct {
	Check Check
	Got   string
	Err   error
}

// Report summarizes a suite run.
type Report struct {
	Suite  string
	Passed []Result
	Failed []Result
}

// OK returns true if no check failed.
func (r Report) OK() bool {
	return len(r.Failed) == 0
}

// Load decodes and validates a suite.
// Unknown fields are rejected.
func Load(r io.Reader) (Suite, error) {
	var s Suite
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return Suite{}, fmt.Errorf("decoding suite: %w", err)
	}
	if err := s.validate(); err != nil {
		return Suite{}, fmt.Errorf("validating suite %q: %w", s.Name, err)
	}
	return s, nil
}

// LoadFile is like [Load] but reads the suite from a file.
// A suite without a name is named after the file.
func LoadFile(path string) (Suite, error) {
	f, err := os.Open(path)
	if err != nil {
		return Suite{}, err
	}
	defer func() { _ = f.Close() }()
	s, err := Load(f)
	if err != nil {
		return Suite{}, fmt.Errorf("loading %v: %w", path, err)
	}
	if s.Name == "" {
		s.Name = path
	}
	return s, nil
}

// Default returns the embedded demonstration suite.
func Default() Suite {
	s, err := Load(bytes.NewReader(defaultSuite))
	if err != nil {
		panic(fmt.Sprintf("Load(default.yaml) failed: %v", err))
	}
	return s
}

func (s Suite) validate() error {
	if len(s.Checks) == 0 {
		return fmt.Errorf("%w: no checks", errInvalidCheck)
	}
	for i, c := range s.Checks {
		if err := c.validate(); err != nil {
			return fmt.Errorf("check #%v %q: %w", i+1, c.Name, err)
		}
	}
	return nil
}

func (c Check) validate() error {
	if c.Name == "" {
		return fmt.Errorf("%w: missing name", errInvalidCheck)
	}
	if strings.TrimSpace(c.Expr) == "" {
		return fmt.Errorf("%w: missing expr", errInvalidCheck)
	}
	n := 0
	for _, e := range []string{c.Want, c.Text, c.Less, c.Within, c.Error} {
		if e != "" {
			n++
		}
	}
	if n != 1 {
		return fmt.Errorf("%w: exactly one of want, text, less, within or error must be set, got %v", errInvalidCheck, n)
	}
	return nil
}

// Run evaluates every check of the suite and logs each outcome.
func Run(s Suite, logger *zap.Logger) Report {
	rep := Report{Suite: s.Name}
	log := logger.With(zap.String("suite", s.Name))
	for _, c := range s.Checks {
		got, err := c.evaluate()
		res := Result{Check: c, Got: got, Err: err}
		if err != nil {
			rep.Failed = append(rep.Failed, res)
			log.Warn("check failed",
				zap.String("check", c.Name),
				zap.String("expr", c.Expr),
				zap.Error(err))
			continue
		}
		rep.Passed = append(rep.Passed, res)
		log.Debug("check passed",
			zap.String("check", c.Name),
			zap.String("got", got))
	}
	log.Info("suite finished",
		zap.Int("passed", len(rep.Passed)),
		zap.Int("failed", len(rep.Failed)))
	return rep
}

// evaluate returns the observed result of the check, and an error if it
// does not meet its expectation.
func (c Check) evaluate() (string, error) {
	v, err := calc.Eval(c.Expr)
	if c.Error != "" {
		switch {
		case err == nil:
			return v.String(), fmt.Errorf("%w: got %v, want error containing %q", errMismatch, v, c.Error)
		case !strings.Contains(err.Error(), c.Error):
			return err.Error(), fmt.Errorf("%w: got error %q, want error containing %q", errMismatch, err, c.Error)
		}
		return err.Error(), nil
	}
	if err != nil {
		return "", fmt.Errorf("evaluating %q: %w", c.Expr, err)
	}
	got := v.String()

	switch {
	case c.Want != "":
		w, err := rational.Parse(c.Want)
		if err != nil {
			return got, fmt.Errorf("parsing want: %w", err)
		}
		if !v.Equal(w) {
			return got, fmt.Errorf("%w: got %v, want %v", errMismatch, v, w)
		}
	case c.Text != "":
		if got != c.Text {
			return got, fmt.Errorf("%w: got %q, want %q", errMismatch, got, c.Text)
		}
	case c.Less != "":
		l, err := rational.Parse(c.Less)
		if err != nil {
			return got, fmt.Errorf("parsing less: %w", err)
		}
		if v.Cmp(l) >= 0 {
			return got, fmt.Errorf("%w: got %v, want less than %v", errMismatch, v, l)
		}
	case c.Within != "":
		g, err := rational.ParseRange(c.Within)
		if err != nil {
			return got, fmt.Errorf("parsing within: %w", err)
		}
		if !g.Contains(v) {
			return got, fmt.Errorf("%w: got %v, want within %v", errMismatch, v, g)
		}
	}
	return got, nil
}
