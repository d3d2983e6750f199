/*
Package rational implements exact rational numbers of arbitrary precision.
A rational is a fraction of two [big.Int] values, and the package
complements the [decimal] package for computations that must not round,
such as splitting ratios, scaling recipes, or checking exchange rate cycles.

# Features

  - Immutable rational values, ensuring safe usage across multiple goroutines
  - Arbitrary-precision numerators and denominators
  - Arithmetic and comparison operations between rationals
  - Closed ranges of rationals with membership tests
  - Conversion to and from decimals, floats and [big.Rat]
  - Text, JSON, binary, BSON and SQL encodings

# Representation

A Rat consists of a numerator and a denominator.
The sign is always carried by the numerator, and the denominator is always
positive, so 1/-2 and -1/2 produce the same representation.

Reduction to lowest terms is lazy.
Addition and subtraction bring both terms to the least common multiple of
their denominators and keep the result as is, while multiplication and
division reduce their results.
Equality, ordering, hashing and formatting always use the reduced form, so
the difference is never observable: 2/4 equals 1/2 and prints as "1/2".

# Operations

The package provides Add, Sub, Mul, Quo, Neg, Inv, Abs, and Pow, as well as
Cmp, Equal, Min, Max, and Clamp.
A Range is a closed interval [start, end] built with [NewRange] or
[Rat.RangeTo]; a range whose start is greater than its end is empty.

# Errors

Two kinds of errors are reported.
Errors wrapping [ErrInvalidArgument] are returned when a rational would get
a zero denominator: constructing x/0, inverting 0, or dividing by 0.
Errors wrapping [ErrInvalidRational] are returned when a string is not one
or two base-10 integers separated by '/'.
Must* variants of constructors and methods panic instead of returning errors.
*/
package rational
