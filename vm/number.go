// Package vm implements the PLAS virtual machine (PVM): a 16-register
// file, a six-flag register, an instruction pointer, a single-slot saved
// return register, and the dispatch loop that executes a linked
// parser.Program (SPEC_FULL.md §4.4).
package vm

import (
	"fmt"
	"strconv"
)

// Number is a dynamically-typed register value: either an integer or a
// real, the representation decided per store (SPEC_FULL.md §3, §9 "Dynamic
// numeric types").
type Number struct {
	real bool
	i    int64
	f    float64
}

// Int wraps an integer value.
func Int(i int64) Number { return Number{i: i} }

// Real wraps a real value.
func Real(f float64) Number { return Number{real: true, f: f} }

// IsReal reports whether the value is stored as a real.
func (n Number) IsReal() bool { return n.real }

// Float64 returns the value widened to float64.
func (n Number) Float64() float64 {
	if n.real {
		return n.f
	}
	return float64(n.i)
}

// Int64 returns the value narrowed (truncated) to int64.
func (n Number) Int64() int64 {
	if n.real {
		return int64(n.f)
	}
	return n.i
}

// IsZero reports whether the value is numerically zero, independent of
// representation.
func (n Number) IsZero() bool {
	if n.real {
		return n.f == 0
	}
	return n.i == 0
}

// String renders the value the way `log` writes it to standard output.
func (n Number) String() string {
	if n.real {
		return strconv.FormatFloat(n.f, 'g', -1, 64)
	}
	return strconv.FormatInt(n.i, 10)
}

// add, sub, mul promote to real iff either operand is real, per
// SPEC_FULL.md §4.4's "standard numeric promotion".
func (n Number) add(other Number) Number {
	if n.real || other.real {
		return Real(n.Float64() + other.Float64())
	}
	return Int(n.i + other.i)
}

func (n Number) sub(other Number) Number {
	if n.real || other.real {
		return Real(n.Float64() - other.Float64())
	}
	return Int(n.i - other.i)
}

func (n Number) mul(other Number) Number {
	if n.real || other.real {
		return Real(n.Float64() * other.Float64())
	}
	return Int(n.i * other.i)
}

// compare returns -1, 0, or 1 comparing n to other numerically, promoting
// to float64 if either side is real.
func (n Number) compare(other Number) int {
	if n.real || other.real {
		a, b := n.Float64(), other.Float64()
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		default:
			return 0
		}
	}
	switch {
	case n.i < other.i:
		return -1
	case n.i > other.i:
		return 1
	default:
		return 0
	}
}

// parseLexemeNumber parses a VALUE token's lexeme: integer if it matches
// `-?[0-9]+` exactly, otherwise real (SPEC_FULL.md §4.4, "Value
// extraction").
func parseLexemeNumber(lexeme string) (Number, error) {
	if isPlainInteger(lexeme) {
		i, err := strconv.ParseInt(lexeme, 10, 64)
		if err != nil {
			return Number{}, fmt.Errorf("invalid integer literal %q", lexeme)
		}
		return Int(i), nil
	}
	f, err := strconv.ParseFloat(lexeme, 64)
	if err != nil {
		return Number{}, fmt.Errorf("invalid numeric literal %q", lexeme)
	}
	return Real(f), nil
}

func isPlainInteger(s string) bool {
	if s == "" {
		return false
	}
	i := 0
	if s[0] == '-' {
		i = 1
	}
	if i >= len(s) {
		return false
	}
	for ; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
