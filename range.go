package rational

import (
	"fmt"
	"strings"
)

// Range represents a closed interval [start, end] of rationals.
// The zero value corresponds to the range "0..0".
// The endpoints are not validated: a range with start greater than end
// contains no values.
// This type is designed to be safe for concurrent use by multiple goroutines.
type Range struct {
	start Rat // lower bound, inclusive
	end   Rat // upper bound, inclusive
}

// NewRange returns the closed range between start and end.
// See also method [Rat.RangeTo].
func NewRange(start, end Rat) Range {
	return Range{start: start, end: end}
}

// RangeTo returns the closed range from r to end.
func (r Rat) RangeTo(end Rat) Range {
	return NewRange(r, end)
}

// ParseRange converts a string to a range.
// The input string must consist of two rationals separated by "..":
//
//	1/3..2/3
//	-1..1
//
// See also constructor [Parse].
//
// ParseRange returns an error wrapping [ErrInvalidRational] if the separator
// is missing or any of the endpoints cannot be parsed.
func ParseRange(s string) (Range, error) {
	start, end, ok := strings.Cut(s, "..")
	if !ok {
		return Range{}, fmt.Errorf("could not parse %q as a rational range: %w: missing \"..\"", s, ErrInvalidRational)
	}
	a, err := Parse(start)
	if err != nil {
		return Range{}, fmt.Errorf("parsing start of range: %w", err)
	}
	b, err := Parse(end)
	if err != nil {
		return Range{}, fmt.Errorf("parsing end of range: %w", err)
	}
	return NewRange(a, b), nil
}

// MustParseRange is like [ParseRange] but panics if the string cannot be parsed.
// It simplifies safe initialization of global variables holding ranges.
func MustParseRange(s string) Range {
	r, err := ParseRange(s)
	if err != nil {
		panic(fmt.Sprintf("ParseRange(%q) failed: %v", s, err))
	}
	return r
}

// Start returns the lower bound of the range.
func (g Range) Start() Rat {
	return g.start
}

// End returns the upper bound of the range.
func (g Range) End() Rat {
	return g.end
}

// Contains returns:
//
//	true  if start <= v <= end
//	false otherwise
func (g Range) Contains(v Rat) bool {
	return g.start.Cmp(v) <= 0 && v.Cmp(g.end) <= 0
}

// IsEmpty returns true if the start of the range is greater than its end.
func (g Range) IsEmpty() bool {
	return g.start.Cmp(g.end) > 0
}

// String method implements the [fmt.Stringer] interface and returns
// a string representation of the range.
// See also method [Rat.String].
//
// [fmt.Stringer]: https://pkg.go.dev/fmt#Stringer
func (g Range) String() string {
	return g.start.String() + ".." + g.end.String()
}

// UnmarshalText implements the [encoding.TextUnmarshaler] interface.
// See also constructor [ParseRange].
//
// [encoding.TextUnmarshaler]: https://pkg.go.dev/encoding#TextUnmarshaler
func (g *Range) UnmarshalText(text []byte) error {
	var err error
	*g, err = ParseRange(string(text))
	if err != nil {
		return fmt.Errorf("unmarshaling %T: %w", Range{}, err)
	}
	return nil
}

// MarshalText implements the [encoding.TextMarshaler] interface.
// See also method [Range.String].
//
// [encoding.TextMarshaler]: https://pkg.go.dev/encoding#TextMarshaler
func (g Range) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}
