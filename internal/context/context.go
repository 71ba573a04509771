// Package context holds the root state every SonicWeave evaluation carries
// from start to finish: the reference pitch, the up/lift step sizes, the gas
// budget, and the process-wide prime table (spec section 5).
package context

import (
	"fmt"
	"math/big"

	"github.com/sonicweave-lang/sonicweave/internal/monzo"
)

// DefaultGas bounds the total work an evaluation may perform (loop
// iterations, comprehension elements, recursive calls) before it aborts,
// per spec 5's "gas-bounded resource model".
const DefaultGas = 1_000_000

// Context is the root of an evaluation: the pieces of state that outlive any
// single lexical scope.
type Context struct {
	Primes *monzo.PrimeTable

	// Reference is the "1/1" pitch: a frequency expressed as a monzo with
	// Time -1 (hertz), set by a pitch declaration statement.
	Reference monzo.Monzo

	// UpStep and LiftStep are the step sizes added by the "^" and "/"
	// prefix operators, set by "^ = ..." / "/ = ..." declarations; until one
	// is declared they are the unison (a step of zero size).
	UpStep, LiftStep monzo.Monzo

	Gas int

	// Fragile holds the marks recorded by MarkFragile for intervals whose
	// print form depends on a formatting choice that later arithmetic could
	// silently invalidate (spec 3.2's fragile-interval note). No evaluator
	// path calls MarkFragile, and nothing reads this list back.
	Fragile []*FragileMark
}

// FragileMark associates a label with the reason an interval was marked
// fragile; neither the REPL nor the CLI reads these marks.
type FragileMark struct {
	Label  string
	Reason string
}

// New builds a Context with the first 2.3.5.7 primes, 1/1 = 440 Hz (concert
// A, following the teacher's own default BPM-style "just pick a sane
// default" convention), zero up/lift steps, and a full gas tank.
func New() *Context {
	primes := monzo.NewPrimeTable()
	return &Context{
		Primes:    primes,
		Reference: hertz(primes, 440),
		UpStep:    monzo.Zero(primes),
		LiftStep:  monzo.Zero(primes),
		Gas:       DefaultGas,
	}
}

func hertz(primes *monzo.PrimeTable, hz int64) monzo.Monzo {
	m := monzo.FromRatio(primes, hz, 1)
	m.Time = big.NewRat(-1, 1)
	return m
}

// SetReferenceHz replaces the 1/1 pitch with an absolute frequency, used by
// a "1/1 = 440 Hz" pitch declaration.
func (c *Context) SetReferenceHz(hz float64) {
	num, den := rationalize(hz)
	m := monzo.FromRatio(c.Primes, num, den)
	m.Time = big.NewRat(-1, 1)
	c.Reference = m
}

func rationalize(f float64) (int64, int64) {
	r := new(big.Rat).SetFloat64(f)
	if r == nil {
		return 0, 1
	}
	return r.Num().Int64(), r.Denom().Int64()
}

// Spend decrements the gas counter by n, returning an error once it would go
// negative, per spec 5: called before recursing into any loop body,
// comprehension element, or function call.
func (c *Context) Spend(n int) error {
	if c.Gas-n < 0 {
		return fmt.Errorf("sonicweave: gas exhausted")
	}
	c.Gas -= n
	return nil
}

// MarkFragile records that label should be read with caution, per spec
// 3.2's fragile-interval note (its print form depends on a choice — e.g. an
// as-yet-unresolved val basis — that later arithmetic could invalidate).
func (c *Context) MarkFragile(label, reason string) {
	c.Fragile = append(c.Fragile, &FragileMark{Label: label, Reason: reason})
}
