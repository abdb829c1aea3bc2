// Package validation checks user supplied numbers and strings against
// optional bounds and phrases the feedback shown to the user.
package validation

import (
	"fmt"
	"unicode/utf8"
)

const fallbackMessage = "The input does not meet the validation criteria."

type Number interface {
	~int | ~int64 | ~float64
}

// Limits is an inclusive range where either side may be open.
type Limits[N Number] struct {
	Min *N
	Max *N
}

func Unbounded[N Number]() Limits[N] {
	return Limits[N]{}
}

func AtLeast[N Number](min N) Limits[N] {
	return Limits[N]{Min: &min}
}

func AtMost[N Number](max N) Limits[N] {
	return Limits[N]{Max: &max}
}

func Between[N Number](min, max N) Limits[N] {
	return Limits[N]{Min: &min, Max: &max}
}

func (l Limits[N]) Bounded() bool {
	return l.Min != nil || l.Max != nil
}

func (l Limits[N]) Contains(v N) bool {
	if l.Min != nil && v < *l.Min {
		return false
	}
	if l.Max != nil && v > *l.Max {
		return false
	}
	return true
}

func CheckNumberRange[N Number](v N, l Limits[N]) bool {
	return l.Contains(v)
}

// CheckStringLength counts runes, not bytes.
func CheckStringLength(s string, l Limits[int]) bool {
	return l.Contains(utf8.RuneCountInString(s))
}

// NumberMessage explains why v is outside l.
func NumberMessage[N Number](v N, l Limits[N]) string {
	return message("Please enter a value", v, l)
}

// StringMessage explains why the length of s is outside l.
func StringMessage(s string, l Limits[int]) string {
	return message("Please enter a string with a length", utf8.RuneCountInString(s), l)
}

func message[N Number](base string, v N, l Limits[N]) string {
	switch {
	case l.Min != nil && l.Max != nil:
		if !l.Contains(v) {
			return fmt.Sprintf("%s between %v and %v.", base, *l.Min, *l.Max)
		}
	case l.Min != nil:
		if v < *l.Min {
			return fmt.Sprintf("%s greater than or equal to %v.", base, *l.Min)
		}
	case l.Max != nil:
		if v > *l.Max {
			return fmt.Sprintf("%s less than or equal to %v.", base, *l.Max)
		}
	}
	return fallbackMessage
}
