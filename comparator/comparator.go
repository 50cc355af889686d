// Package comparator builds three-way orderings for composite keys out of a
// chain of pairwise comparisons.
package comparator

import "cmp"

// Ord is the result of a three-way comparison.
type Ord int8

const (
	LT Ord = -1
	EQ Ord = 0
	GT Ord = 1
)

func (o Ord) String() string {
	switch o {
	case LT:
		return "LT"
	case EQ:
		return "EQ"
	case GT:
		return "GT"
	default:
		return "Ord(?)"
	}
}

// Compare returns the ordering of x relative to y.
func Compare[T cmp.Ordered](x, y T) Ord {
	return fromInt(cmp.Compare(x, y))
}

// Step is one deferred comparison of a chain.
type Step func() Ord

// By defers the comparison of two ordered values.
func By[T cmp.Ordered](x, y T) Step {
	return func() Ord { return Compare(x, y) }
}

// ByFunc defers the comparison of two values using f, which follows the
// cmp.Compare convention (negative, zero, positive).
func ByFunc[T any](x, y T, f func(T, T) int) Step {
	return func() Ord { return fromInt(f(x, y)) }
}

// Comparator accumulates the result of a comparison chain. Once a step
// yields a non-equal result, later steps are not evaluated.
type Comparator struct {
	result Ord
}

// Begin starts a new chain. The empty chain compares equal.
func Begin() Comparator {
	return Comparator{result: EQ}
}

// Next evaluates s only if every previous step compared equal.
func (c Comparator) Next(s Step) Comparator {
	if c.result == EQ {
		c.result = s()
	}
	return c
}

// Is reports whether the chain result is o.
func (c Comparator) Is(o Ord) bool {
	return c.result == o
}

// End returns the chain result.
func (c Comparator) End() Ord {
	return c.result
}

// Chain evaluates steps left to right and returns the first non-equal result.
func Chain(steps ...Step) Ord {
	c := Begin()
	for _, s := range steps {
		c = c.Next(s)
	}
	return c.End()
}

func fromInt(n int) Ord {
	switch {
	case n < 0:
		return LT
	case n > 0:
		return GT
	default:
		return EQ
	}
}
