package rational

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/govalues/decimal"
)

var (
	// ErrInvalidArgument is returned when an operation receives an argument
	// it cannot handle:
	//   - a zero denominator, including division by a zero rational;
	//   - a negative power of zero or the exponent [math.MinInt];
	//   - a special float value (NaN or Inf);
	//   - a clamping range with min greater than max;
	//   - a decimal scale outside of [0, decimal.MaxScale].
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidRational is returned when a string does not represent
	// a rational number.
	ErrInvalidRational = errors.New("invalid rational")

	errZeroDenominator = fmt.Errorf("%w: zero denominator", ErrInvalidArgument)
	errDivisionByZero  = fmt.Errorf("%w: division by zero", ErrInvalidArgument)
	errInvalidRange    = fmt.Errorf("%w: invalid range", ErrInvalidArgument)
	errSpecialValue    = fmt.Errorf("%w: special value", ErrInvalidArgument)
	errScaleRange      = fmt.Errorf("%w: scale out of range", ErrInvalidArgument)
	errExponentRange   = fmt.Errorf("%w: exponent out of range", ErrInvalidArgument)
	errDecimalOverflow = errors.New("decimal overflow")
)

var (
	bigZero = big.NewInt(0)
	bigOne  = big.NewInt(1)
	bigFive = big.NewInt(5)
	bigTen  = big.NewInt(10)
)

// Rat type represents an exact fraction of two arbitrary-precision integers.
// Its zero value corresponds to 0.
//
// Rat values are immutable: every operation returns a new value and never
// modifies its operands, so Rat is safe for concurrent use by multiple goroutines.
//
// The sign is always stored in the numerator and the denominator is always
// positive. Results of [Rat.Add], [Rat.Sub] and [Rat.Neg] are not reduced
// to lowest terms, while results of [Rat.Mul] and [Rat.Quo] are.
// Methods that observe the value ([Rat.Equal], [Rat.Cmp], [Rat.Hash],
// [Rat.String], [Rat.Num], [Rat.Den]) always work on the reduced form.
// Use [Rat.Equal] instead of == to compare rationals.
type Rat struct {
	num *big.Int // numerator, nil means 0
	den *big.Int // denominator, nil means 1
}

// numer returns the numerator of r, which must not be modified.
func (r Rat) numer() *big.Int {
	if r.num == nil {
		return bigZero
	}
	return r.num
}

// denom returns the denominator of r, which must not be modified.
func (r Rat) denom() *big.Int {
	if r.den == nil {
		return bigOne
	}
	return r.den
}

// newRatUnsafe creates a new rational without checking the denominator.
// Use it only if the denominator is known to be positive and neither
// argument is referenced anywhere else.
func newRatUnsafe(num, den *big.Int) Rat {
	return Rat{num: num, den: den}
}

// newRatSafe creates a new rational, moving the sign of the denominator
// to the numerator. The arguments are copied.
func newRatSafe(num, den *big.Int) (Rat, error) {
	switch den.Sign() {
	case 0:
		return Rat{}, errZeroDenominator
	case -1:
		return newRatUnsafe(new(big.Int).Neg(num), new(big.Int).Neg(den)), nil
	default:
		return newRatUnsafe(new(big.Int).Set(num), new(big.Int).Set(den)), nil
	}
}

// NewRat returns a rational equal to num / den.
// See also constructor [NewRatFromBigInt].
//
// NewRat returns an error wrapping [ErrInvalidArgument] if the denominator is 0.
func NewRat(num, den int64) (Rat, error) {
	r, err := newRatSafe(big.NewInt(num), big.NewInt(den))
	if err != nil {
		return Rat{}, fmt.Errorf("constructing [%v/%v]: %w", num, den, err)
	}
	return r, nil
}

// MustNewRat is like [NewRat] but panics if the rational cannot be constructed.
// It simplifies safe initialization of global variables holding rationals.
func MustNewRat(num, den int64) Rat {
	r, err := NewRat(num, den)
	if err != nil {
		panic(fmt.Sprintf("NewRat(%v, %v) failed: %v", num, den, err))
	}
	return r
}

// NewRatFromBigInt returns a rational equal to num / den.
// Both arguments are copied, so the caller may keep modifying them.
// A nil argument is treated as 0.
//
// NewRatFromBigInt returns an error wrapping [ErrInvalidArgument] if the
// denominator is 0.
func NewRatFromBigInt(num, den *big.Int) (Rat, error) {
	r, err := newRatSafe(orZero(num), orZero(den))
	if err != nil {
		return Rat{}, fmt.Errorf("constructing [%v/%v]: %w", num, den, err)
	}
	return r, nil
}

func orZero(x *big.Int) *big.Int {
	if x == nil {
		return bigZero
	}
	return x
}

// NewRatFromInt returns a rational equal to the integer n.
// A nil argument is treated as 0.
func NewRatFromInt(n *big.Int) Rat {
	if n == nil {
		return Rat{}
	}
	return newRatUnsafe(new(big.Int).Set(n), bigOne)
}

// NewRatFromInt64 returns a rational equal to the integer n.
func NewRatFromInt64(n int64) Rat {
	return newRatUnsafe(big.NewInt(n), bigOne)
}

// NewRatFromDecimal returns a rational equal to the decimal d.
// The conversion is always exact.
// See also method [Rat.Decimal].
func NewRatFromDecimal(d decimal.Decimal) Rat {
	num := new(big.Int).SetUint64(d.Coef())
	if d.IsNeg() {
		num.Neg(num)
	}
	den := new(big.Int).Exp(bigTen, big.NewInt(int64(d.Scale())), nil)
	return newRatUnsafe(num, den)
}

// NewRatFromBigRat returns a rational equal to x.
// A nil argument is treated as 0.
// See also method [Rat.BigRat].
func NewRatFromBigRat(x *big.Rat) Rat {
	if x == nil {
		return Rat{}
	}
	return newRatUnsafe(new(big.Int).Set(x.Num()), new(big.Int).Set(x.Denom()))
}

// NewRatFromFloat64 returns a rational exactly equal to the float f.
// See also method [Rat.Float64].
//
// NewRatFromFloat64 returns an error wrapping [ErrInvalidArgument] if
// the float is a special value (NaN or Inf).
func NewRatFromFloat64(f float64) (Rat, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Rat{}, fmt.Errorf("converting float %v: %w", f, errSpecialValue)
	}
	return NewRatFromBigRat(new(big.Rat).SetFloat64(f)), nil
}

// Parse converts a string to a rational.
// The input string must be in one of the following formats:
//
//	13
//	-13
//	13/122
//	-117/1098
//	117/-1098
//
// Each part is a base-10 integer of arbitrary length with an optional sign.
//
// Parse returns an error wrapping [ErrInvalidRational] if the string does
// not consist of one or two integers separated by '/', and an error wrapping
// [ErrInvalidArgument] if the denominator is 0.
func Parse(s string) (Rat, error) {
	r, err := parse(s)
	if err != nil {
		return Rat{}, fmt.Errorf("could not parse %q as a rational number: %w", s, err)
	}
	return r, nil
}

func parse(s string) (Rat, error) {
	parts := strings.Split(s, "/")
	switch len(parts) {
	case 1:
		num, err := parseInt(parts[0])
		if err != nil {
			return Rat{}, err
		}
		return newRatUnsafe(num, bigOne), nil
	case 2:
		num, err := parseInt(parts[0])
		if err != nil {
			return Rat{}, err
		}
		den, err := parseInt(parts[1])
		if err != nil {
			return Rat{}, err
		}
		return newRatSafe(num, den)
	default:
		return Rat{}, fmt.Errorf("%w: expected at most one '/', got %v", ErrInvalidRational, len(parts)-1)
	}
}

func parseInt(s string) (*big.Int, error) {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("%w: invalid integer %q", ErrInvalidRational, s)
	}
	return n, nil
}

// MustParse is like [Parse] but panics if the string cannot be parsed.
// It simplifies safe initialization of global variables holding rationals.
func MustParse(s string) Rat {
	r, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("Parse(%q) failed: %v", s, err))
	}
	return r
}

// gcd returns the greatest common divisor of |x| and |y|.
func gcd(x, y *big.Int) *big.Int {
	a := new(big.Int).Abs(x)
	b := new(big.Int).Abs(y)
	return a.GCD(nil, nil, a, b)
}

// lcm returns the least common multiple of positive integers x and y.
func lcm(x, y *big.Int) *big.Int {
	m := new(big.Int).Mul(x, y)
	return m.Quo(m, gcd(x, y))
}

// reduce returns r with the numerator and denominator divided by their
// greatest common divisor.
func (r Rat) reduce() Rat {
	num, den := r.numer(), r.denom()
	g := gcd(num, den)
	if g.Cmp(bigOne) == 0 {
		return newRatUnsafe(num, den)
	}
	return newRatUnsafe(new(big.Int).Quo(num, g), new(big.Int).Quo(den, g))
}

// Num returns the numerator of the reduced form of r.
// The sign of the rational is carried by the numerator.
func (r Rat) Num() *big.Int {
	return new(big.Int).Set(r.reduce().numer())
}

// Den returns the denominator of the reduced form of r.
// The denominator is always positive.
func (r Rat) Den() *big.Int {
	return new(big.Int).Set(r.reduce().denom())
}

// Sign returns:
//
//	-1 if r < 0
//	 0 if r = 0
//	+1 if r > 0
func (r Rat) Sign() int {
	return r.numer().Sign()
}

// IsZero returns:
//
//	true  if r = 0
//	false otherwise
func (r Rat) IsZero() bool {
	return r.Sign() == 0
}

// IsNeg returns:
//
//	true  if r < 0
//	false otherwise
func (r Rat) IsNeg() bool {
	return r.Sign() < 0
}

// IsPos returns:
//
//	true  if r > 0
//	false otherwise
func (r Rat) IsPos() bool {
	return r.Sign() > 0
}

// IsOne returns:
//
//	true  if r = 1
//	false otherwise
func (r Rat) IsOne() bool {
	return r.numer().Cmp(r.denom()) == 0
}

// IsInt returns true if the denominator of the reduced form is 1.
func (r Rat) IsInt() bool {
	return new(big.Int).Rem(r.numer(), r.denom()).Sign() == 0
}

// Neg returns a rational with the opposite sign.
func (r Rat) Neg() Rat {
	return newRatUnsafe(new(big.Int).Neg(r.numer()), r.denom())
}

// Abs returns the absolute value of the rational.
func (r Rat) Abs() Rat {
	return newRatUnsafe(new(big.Int).Abs(r.numer()), r.denom())
}

// Add returns the sum of rationals r and s.
// The terms are brought to the least common multiple of their denominators,
// and the result is not reduced.
func (r Rat) Add(s Rat) Rat {
	m := lcm(r.denom(), s.denom())
	x := new(big.Int).Quo(m, r.denom())
	x.Mul(x, r.numer())
	y := new(big.Int).Quo(m, s.denom())
	y.Mul(y, s.numer())
	return newRatUnsafe(x.Add(x, y), m)
}

// Sub returns the difference between rationals r and s.
// Like [Rat.Add], the result is not reduced.
func (r Rat) Sub(s Rat) Rat {
	return r.Add(s.Neg())
}

// Mul returns the product of rationals r and s reduced to lowest terms.
func (r Rat) Mul(s Rat) Rat {
	num := new(big.Int).Mul(r.numer(), s.numer())
	den := new(big.Int).Mul(r.denom(), s.denom())
	return newRatUnsafe(num, den).reduce()
}

// Inv returns the reciprocal of the rational.
//
// Inv returns an error wrapping [ErrInvalidArgument] if r is 0.
func (r Rat) Inv() (Rat, error) {
	s, err := r.inv()
	if err != nil {
		return Rat{}, fmt.Errorf("computing [1 / %v]: %w", r, err)
	}
	return s, nil
}

func (r Rat) inv() (Rat, error) {
	if r.IsZero() {
		return Rat{}, errDivisionByZero
	}
	return newRatSafe(r.denom(), r.numer())
}

// MustInv is like [Rat.Inv] but panics if r is 0.
func (r Rat) MustInv() Rat {
	s, err := r.Inv()
	if err != nil {
		panic(fmt.Sprintf("%v.Inv() failed: %v", r, err))
	}
	return s
}

// Quo returns the quotient of rationals r and s reduced to lowest terms.
// It is computed as r multiplied by the reciprocal of s.
//
// Quo returns an error wrapping [ErrInvalidArgument] if s is 0.
func (r Rat) Quo(s Rat) (Rat, error) {
	t, err := s.inv()
	if err != nil {
		return Rat{}, fmt.Errorf("computing [%v / %v]: %w", r, s, err)
	}
	return r.Mul(t), nil
}

// MustQuo is like [Rat.Quo] but panics if s is 0.
func (r Rat) MustQuo(s Rat) Rat {
	t, err := r.Quo(s)
	if err != nil {
		panic(fmt.Sprintf("%v.Quo(%v) failed: %v", r, s, err))
	}
	return t
}

// Pow returns r raised to the power of exp.
// Pow(0) is 1 for every r, including 0.
//
// Pow returns an error wrapping [ErrInvalidArgument] if r is 0 and exp is
// negative, or if exp is [math.MinInt].
func (r Rat) Pow(exp int) (Rat, error) {
	if exp == math.MinInt {
		return Rat{}, fmt.Errorf("computing [%v^%v]: %w", r, exp, errExponentRange)
	}
	b := r.reduce()
	if exp < 0 {
		var err error
		b, err = b.inv()
		if err != nil {
			return Rat{}, fmt.Errorf("computing [%v^%v]: %w", r, exp, err)
		}
		exp = -exp
	}
	e := big.NewInt(int64(exp))
	num := new(big.Int).Exp(b.numer(), e, nil)
	den := new(big.Int).Exp(b.denom(), e, nil)
	return newRatUnsafe(num, den), nil
}

// Trunc returns the integer part of r, rounding toward zero.
func (r Rat) Trunc() *big.Int {
	return new(big.Int).Quo(r.numer(), r.denom())
}

// Floor returns the greatest integer less than or equal to r.
func (r Rat) Floor() *big.Int {
	// Euclidean division rounds toward negative infinity for positive divisors.
	return new(big.Int).Div(r.numer(), r.denom())
}

// Ceil returns the least integer greater than or equal to r.
func (r Rat) Ceil() *big.Int {
	q := new(big.Int).Neg(r.numer())
	q.Div(q, r.denom())
	return q.Neg(q)
}

// Equal returns true if r and s represent the same number.
// Rationals are compared in reduced form, so 1/2 equals 2/4.
func (r Rat) Equal(s Rat) bool {
	return r.reduce().same(s.reduce())
}

// same reports whether r and s have identical numerators and denominators.
func (r Rat) same(s Rat) bool {
	return r.numer().Cmp(s.numer()) == 0 && r.denom().Cmp(s.denom()) == 0
}

// Cmp compares rationals and returns:
//
//	-1 if r < s
//	 0 if r = s
//	+1 if r > s
//
// See also method [Rat.CmpAbs].
func (r Rat) Cmp(s Rat) int {
	a, b := r.reduce(), s.reduce()
	if a.same(b) {
		return 0
	}
	if a.denom().Cmp(b.denom()) == 0 {
		return a.numer().Cmp(b.numer())
	}
	m := lcm(a.denom(), b.denom())
	x := new(big.Int).Quo(m, a.denom())
	x.Mul(x, a.numer())
	y := new(big.Int).Quo(m, b.denom())
	y.Mul(y, b.numer())
	return x.Cmp(y)
}

// CmpAbs compares absolute values of rationals and returns:
//
//	-1 if |r| < |s|
//	 0 if |r| = |s|
//	+1 if |r| > |s|
//
// See also method [Rat.Cmp].
func (r Rat) CmpAbs(s Rat) int {
	return r.Abs().Cmp(s.Abs())
}

// Min returns the smaller rational.
// See also method [Rat.Cmp].
func (r Rat) Min(s Rat) Rat {
	if r.Cmp(s) <= 0 {
		return r
	}
	return s
}

// Max returns the larger rational.
// See also method [Rat.Cmp].
func (r Rat) Max(s Rat) Rat {
	if r.Cmp(s) >= 0 {
		return r
	}
	return s
}

// Clamp compares rationals and returns:
//
//	min if r < min
//	max if r > max
//	  r otherwise
//
// Clamp returns an error wrapping [ErrInvalidArgument] if min is greater than max.
func (r Rat) Clamp(min, max Rat) (Rat, error) {
	if min.Cmp(max) > 0 {
		return Rat{}, fmt.Errorf("clamping %v to [%v, %v]: %w", r, min, max, errInvalidRange)
	}
	if r.Cmp(min) < 0 {
		return min, nil
	}
	if r.Cmp(max) > 0 {
		return max, nil
	}
	return r, nil
}

// Hash returns a 64-bit hash of the reduced form of r.
// Rationals that are equal according to [Rat.Equal] have the same hash.
func (r Rat) Hash() uint64 {
	s := r.reduce()
	buf := make([]byte, 0, 64)
	buf = append(buf, byte(s.Sign()+1))
	buf = appendMagnitude(buf, s.numer())
	buf = appendMagnitude(buf, s.denom())
	return xxhash.Sum64(buf)
}

// appendMagnitude appends the length-prefixed absolute value of x.
func appendMagnitude(buf []byte, x *big.Int) []byte {
	b := x.Bytes()
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(b))) //nolint:gosec
	return append(buf, b...)
}

// BigRat returns a new [big.Rat] equal to r.
// See also constructor [NewRatFromBigRat].
func (r Rat) BigRat() *big.Rat {
	return new(big.Rat).SetFrac(r.numer(), r.denom())
}

// Float64 returns the nearest binary floating-point number.
// The second result reports whether the conversion is exact.
// See also constructor [NewRatFromFloat64].
func (r Rat) Float64() (f float64, exact bool) {
	return r.BigRat().Float64()
}

// Decimal returns r rounded to the given number of digits after the decimal
// point using [rounding half to even] (banker's rounding).
// See also constructor [NewRatFromDecimal].
//
// Decimal returns an error if:
//   - the scale is negative or greater than [decimal.MaxScale];
//   - the rounded coefficient does not fit into an int64.
//
// [rounding half to even]: https://en.wikipedia.org/wiki/Rounding#Rounding_half_to_even
func (r Rat) Decimal(scale int) (decimal.Decimal, error) {
	d, err := r.decimal(scale)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("converting %v to decimal with scale %v: %w", r, scale, err)
	}
	return d, nil
}

func (r Rat) decimal(scale int) (decimal.Decimal, error) {
	if scale < 0 || decimal.MaxScale < scale {
		return decimal.Decimal{}, errScaleRange
	}
	coef := r.roundToScale(scale)
	if !coef.IsInt64() {
		return decimal.Decimal{}, errDecimalOverflow
	}
	return decimal.New(coef.Int64(), scale)
}

// roundToScale returns r * 10^scale rounded half to even to an integer.
func (r Rat) roundToScale(scale int) *big.Int {
	x := new(big.Int).Exp(bigTen, big.NewInt(int64(scale)), nil)
	x.Mul(x, r.numer())
	q, m := new(big.Int).QuoRem(x, r.denom(), new(big.Int))
	m.Lsh(m.Abs(m), 1)
	switch c := m.Cmp(r.denom()); {
	case c > 0, c == 0 && q.Bit(0) == 1:
		if x.Sign() < 0 {
			q.Sub(q, bigOne)
		} else {
			q.Add(q, bigOne)
		}
	}
	return q
}

// exactScale returns the number of digits after the decimal point needed to
// write r exactly, and false if its decimal expansion does not terminate
// within [decimal.MaxScale] digits.
func (r Rat) exactScale() (int, bool) {
	den := new(big.Int).Set(r.reduce().denom())
	twos := 0
	for den.Bit(0) == 0 {
		den.Rsh(den, 1)
		twos++
	}
	fives := 0
	q, m := new(big.Int), new(big.Int)
	for {
		q.QuoRem(den, bigFive, m)
		if m.Sign() != 0 {
			break
		}
		den.Set(q)
		fives++
	}
	if den.Cmp(bigOne) != 0 {
		return 0, false
	}
	scale := max(twos, fives)
	if scale > decimal.MaxScale {
		return 0, false
	}
	return scale, true
}

// fixed returns the sign and the digits of r rounded to the given scale.
func (r Rat) fixed(scale int) (neg bool, digits string) {
	q := r.roundToScale(scale)
	neg = q.Sign() < 0
	digits = q.Abs(q).String()
	if scale == 0 {
		return neg, digits
	}
	if len(digits) <= scale {
		digits = strings.Repeat("0", scale-len(digits)+1) + digits
	}
	return neg, digits[:len(digits)-scale] + "." + digits[len(digits)-scale:]
}

// String implements the [fmt.Stringer] interface and returns the reduced
// form of the rational: the numerator alone if the denominator is 1, or
// "numerator/denominator" otherwise.
// See also method [Rat.Format] and constructor [Parse].
//
// [fmt.Stringer]: https://pkg.go.dev/fmt#Stringer
func (r Rat) String() string {
	s := r.reduce()
	if s.denom().Cmp(bigOne) == 0 {
		return s.numer().String()
	}
	return s.numer().String() + "/" + s.denom().String()
}

// Format implements the [fmt.Formatter] interface.
// The following [format verbs] are available:
//
//	| Verb   | Example  | Description              |
//	| ------ | -------- | ------------------------ |
//	| %s, %v | -13/122  | Reduced fraction         |
//	| %q     | "13/122" | Quoted reduced fraction  |
//	| %f     | 0.125    | Decimal expansion        |
//
// The '-', '+', ' ' and '0' format flags can be used with all verbs.
//
// Precision is only supported for the %f verb.
// When the decimal expansion of the rational terminates within
// [decimal.MaxScale] digits, the default precision is the number of digits
// needed to write it exactly, otherwise it is [decimal.MaxScale].
// The %f verb uses [rounding half to even].
//
// [format verbs]: https://pkg.go.dev/fmt#hdr-Printing
// [fmt.Formatter]: https://pkg.go.dev/fmt#Formatter
// [rounding half to even]: https://en.wikipedia.org/wiki/Rounding#Rounding_half_to_even
func (r Rat) Format(state fmt.State, verb rune) {
	// Digits
	var neg bool
	var digits string
	switch verb {
	case 'f', 'F':
		scale, ok := state.Precision()
		if !ok {
			if scale, ok = r.exactScale(); !ok {
				scale = decimal.MaxScale
			}
		}
		neg, digits = r.fixed(scale)
	default:
		neg, digits = r.IsNeg(), r.Abs().String()
	}

	// Arithmetic sign
	rsign := 0
	if neg || state.Flag('+') || state.Flag(' ') {
		rsign = 1
	}

	// Opening and closing quotes
	lquote, tquote := 0, 0
	if verb == 'q' || verb == 'Q' {
		lquote, tquote = 1, 1
	}

	// Calculating padding
	width := lquote + rsign + len(digits) + tquote
	lspaces, lzeros, tspaces := 0, 0, 0
	if w, ok := state.Width(); ok && w > width {
		switch {
		case state.Flag('-'):
			tspaces = w - width
		case state.Flag('0'):
			lzeros = w - width
		default:
			lspaces = w - width
		}
	}

	buf := make([]byte, 0, width+lspaces+lzeros+tspaces)
	buf = appendRepeat(buf, ' ', lspaces)
	buf = appendRepeat(buf, '"', lquote)
	if rsign > 0 {
		switch {
		case neg:
			buf = append(buf, '-')
		case state.Flag('+'):
			buf = append(buf, '+')
		default:
			buf = append(buf, ' ')
		}
	}
	buf = appendRepeat(buf, '0', lzeros)
	buf = append(buf, digits...)
	buf = appendRepeat(buf, '"', tquote)
	buf = appendRepeat(buf, ' ', tspaces)

	// Writing result
	//nolint:errcheck
	switch verb {
	case 'q', 'Q', 's', 'S', 'v', 'V', 'f', 'F':
		state.Write(buf)
	default:
		state.Write([]byte("%!"))
		state.Write([]byte{byte(verb)})
		state.Write([]byte("(rational.Rat="))
		state.Write(buf)
		state.Write([]byte(")"))
	}
}

func appendRepeat(buf []byte, c byte, n int) []byte {
	for i := 0; i < n; i++ {
		buf = append(buf, c)
	}
	return buf
}
