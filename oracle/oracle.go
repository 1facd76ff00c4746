// Package oracle drives a decimal pattern engine over single (pattern, value)
// cases and captures every observable property of the attempt.
//
// A pattern the engine rejects is data, not a failure: it becomes a rejected
// Attempt carrying the engine's message. Only errors outside the
// PATTERN_SYNTAX class are returned to the caller.
package oracle

import (
	"fmt"

	"github.com/lattice-substrate/decimal-parity/decfmt"
	"github.com/lattice-substrate/decimal-parity/locale"
	"github.com/lattice-substrate/decimal-parity/parityerr"
)

// Formatter is the read side of a compiled pattern.
type Formatter interface {
	Format(v float64) string
	PositivePrefix() string
	PositiveSuffix() string
	NegativePrefix() string
	NegativeSuffix() string
	GroupingSize() int
	GroupingUsed() bool
	MaximumFractionDigits() int
	MaximumIntegerDigits() int
	MinimumFractionDigits() int
	MinimumIntegerDigits() int
	Multiplier() int
	DecimalSeparatorAlwaysShown() bool
	UseExponentialNotation() bool
}

// Engine compiles patterns. A rejected pattern must be reported as a
// *parityerr.Error of class PatternSyntax.
type Engine interface {
	Compile(pattern string) (Formatter, error)
}

// EngineFunc adapts a function to Engine.
type EngineFunc func(pattern string) (Formatter, error)

func (f EngineFunc) Compile(pattern string) (Formatter, error) { return f(pattern) }

// DecimalEngine returns the decfmt engine bound to the given symbols.
func DecimalEngine(syms locale.Symbols) Engine {
	return EngineFunc(func(pattern string) (Formatter, error) {
		f, err := decfmt.Parse(pattern, decfmt.WithSymbols(syms))
		if err != nil {
			return nil, err
		}
		return f, nil
	})
}

// State is every property read back from an accepted pattern.
type State struct {
	Output                      string
	PositivePrefix              string
	PositiveSuffix              string
	NegativePrefix              string
	NegativeSuffix              string
	GroupingSize                int
	MaximumFractionDigits       int
	MaximumIntegerDigits        int
	MinimumFractionDigits       int
	MinimumIntegerDigits        int
	Multiplier                  int
	DecimalSeparatorAlwaysShown bool
	GroupingUsed                bool
	UseExponentialNotation      bool
}

// Attempt is the outcome of one case: accepted with a State, or rejected
// with the engine's reason.
type Attempt struct {
	State  *State
	Reason string
}

// Accepted reports whether the pattern compiled.
func (a Attempt) Accepted() bool { return a.State != nil }

// FormatCase is one fixture record. On failure only Pattern, Input, Success
// and Error are meaningful.
type FormatCase struct {
	Pattern string
	Input   float64
	Success bool

	Output                string
	PositivePrefix        string
	PositiveSuffix        string
	NegativePrefix        string
	NegativeSuffix        string
	GroupingSize          int
	MaximumFractionDigits int
	MaximumIntegerDigits  int
	MinimumFractionDigits int
	MinimumIntegerDigits  int
	Multiplier            int

	Error string
}

// Oracle evaluates cases against an Engine. It holds no mutable state and is
// safe for concurrent use when the engine is.
type Oracle struct {
	engine Engine
}

// New returns an oracle over engine.
func New(engine Engine) *Oracle {
	return &Oracle{engine: engine}
}

// ForSymbols returns an oracle over the decfmt engine with the given symbols.
func ForSymbols(syms locale.Symbols) *Oracle {
	return New(DecimalEngine(syms))
}

// Evaluate compiles pattern and formats value. Negative zero is passed to
// the engine unchanged.
func (o *Oracle) Evaluate(pattern string, value float64) (Attempt, error) {
	f, err := o.engine.Compile(pattern)
	if err != nil {
		if parityerr.Is(err, parityerr.PatternSyntax) {
			return Attempt{Reason: err.Error()}, nil
		}
		return Attempt{}, fmt.Errorf("oracle: compile %q: %w", pattern, err)
	}
	if f == nil {
		return Attempt{}, parityerr.Newf(parityerr.InternalError, -1, "engine returned no formatter for %q", pattern)
	}
	return Attempt{State: &State{
		Output:                      f.Format(value),
		PositivePrefix:              f.PositivePrefix(),
		PositiveSuffix:              f.PositiveSuffix(),
		NegativePrefix:              f.NegativePrefix(),
		NegativeSuffix:              f.NegativeSuffix(),
		GroupingSize:                f.GroupingSize(),
		MaximumFractionDigits:       f.MaximumFractionDigits(),
		MaximumIntegerDigits:        f.MaximumIntegerDigits(),
		MinimumFractionDigits:       f.MinimumFractionDigits(),
		MinimumIntegerDigits:        f.MinimumIntegerDigits(),
		Multiplier:                  f.Multiplier(),
		DecimalSeparatorAlwaysShown: f.DecimalSeparatorAlwaysShown(),
		GroupingUsed:                f.GroupingUsed(),
		UseExponentialNotation:      f.UseExponentialNotation(),
	}}, nil
}

// EvaluateCase is Evaluate flattened into a fixture record.
func (o *Oracle) EvaluateCase(pattern string, value float64) (FormatCase, error) {
	a, err := o.Evaluate(pattern, value)
	if err != nil {
		return FormatCase{}, err
	}
	return a.Case(pattern, value), nil
}

// Case flattens the attempt into a fixture record.
func (a Attempt) Case(pattern string, value float64) FormatCase {
	c := FormatCase{Pattern: pattern, Input: value}
	if !a.Accepted() {
		c.Error = a.Reason
		return c
	}
	s := a.State
	c.Success = true
	c.Output = s.Output
	c.PositivePrefix = s.PositivePrefix
	c.PositiveSuffix = s.PositiveSuffix
	c.NegativePrefix = s.NegativePrefix
	c.NegativeSuffix = s.NegativeSuffix
	c.GroupingSize = s.GroupingSize
	c.MaximumFractionDigits = s.MaximumFractionDigits
	c.MaximumIntegerDigits = s.MaximumIntegerDigits
	c.MinimumFractionDigits = s.MinimumFractionDigits
	c.MinimumIntegerDigits = s.MinimumIntegerDigits
	c.Multiplier = s.Multiplier
	return c
}
