// Package decfmt implements the decimal pattern language of
// java.text.DecimalFormat: pattern compilation, the derived rounding and
// grouping parameters, and formatting of doubles.
//
// A pattern is compiled once into an immutable Formatter:
//
//	f, err := decfmt.Parse("#,##0.00;(#,##0.00)")
//	if err != nil {
//		// err carries parityerr.PatternSyntax
//	}
//	s := f.Format(-1234.5) // "(1,234.50)"
//
// Symbols default to en-US; WithSymbols selects another locale.
package decfmt

import (
	"github.com/lattice-substrate/decimal-parity/locale"
)

// MaxIntegerDigits is the maximum integer digit count reported for patterns
// without an exponent.
const MaxIntegerDigits = 2147483647

// Formatting caps: a double never needs more integer or fraction digits.
const (
	doubleIntegerCap  = 309
	doubleFractionCap = 340
)

// Formatter is a compiled pattern bound to a symbol set. It is safe for
// concurrent use.
type Formatter struct {
	syms locale.Symbols
	c    *compiled

	posPrefix, posSuffix string
	negPrefix, negSuffix string
}

// Option configures Parse.
type Option func(*options)

type options struct {
	syms    locale.Symbols
	hasSyms bool
}

// WithSymbols formats with the given locale symbols instead of en-US.
func WithSymbols(s locale.Symbols) Option {
	return func(o *options) {
		o.syms = s
		o.hasSyms = true
	}
}

// Parse compiles pattern. A malformed pattern returns a *parityerr.Error of
// class PatternSyntax whose Offset points at the offending rune when one can
// be named.
func Parse(pattern string, opts ...Option) (*Formatter, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if !o.hasSyms {
		o.syms = locale.Default()
	}

	c, err := compile(pattern)
	if err != nil {
		return nil, err
	}
	return &Formatter{
		syms:      o.syms,
		c:         c,
		posPrefix: expandAffix(c.posPrefix, o.syms),
		posSuffix: expandAffix(c.posSuffix, o.syms),
		negPrefix: expandAffix(c.negPrefix, o.syms),
		negSuffix: expandAffix(c.negSuffix, o.syms),
	}, nil
}

// MustParse is Parse for patterns known to be valid.
func MustParse(pattern string, opts ...Option) *Formatter {
	f, err := Parse(pattern, opts...)
	if err != nil {
		panic(err)
	}
	return f
}

// expandAffix replaces the symbol markers left by compile with the locale's
// symbols.
func expandAffix(p string, syms locale.Symbols) string {
	rs := []rune(p)
	buf := make([]rune, 0, len(rs))
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		if r != patternQuote || i+1 >= len(rs) {
			buf = append(buf, r)
			continue
		}
		i++
		switch rs[i] {
		case patternCurrency:
			if i+1 < len(rs) && rs[i+1] == patternCurrency {
				i++
				buf = append(buf, []rune(syms.CurrencyCode)...)
			} else {
				buf = append(buf, []rune(syms.CurrencySymbol)...)
			}
		case patternPercent:
			buf = append(buf, []rune(syms.Percent)...)
		case patternPerMille:
			buf = append(buf, []rune(syms.PerMill)...)
		case patternMinus:
			buf = append(buf, []rune(syms.MinusSign)...)
		default:
			buf = append(buf, rs[i])
		}
	}
	return string(buf)
}

// Symbols returns the symbol set the formatter renders with.
func (f *Formatter) Symbols() locale.Symbols { return f.syms }

func (f *Formatter) PositivePrefix() string { return f.posPrefix }
func (f *Formatter) PositiveSuffix() string { return f.posSuffix }
func (f *Formatter) NegativePrefix() string { return f.negPrefix }
func (f *Formatter) NegativeSuffix() string { return f.negSuffix }

// GroupingSize is the number of integer digits between grouping separators,
// or 0 when the pattern does not group.
func (f *Formatter) GroupingSize() int { return f.c.groupingSize }

// GroupingUsed reports whether the pattern contains a grouping separator.
func (f *Formatter) GroupingUsed() bool { return f.c.groupingUsed }

func (f *Formatter) MaximumFractionDigits() int { return f.c.maxFrac }
func (f *Formatter) MinimumFractionDigits() int { return f.c.minFrac }
func (f *Formatter) MaximumIntegerDigits() int  { return f.c.maxInt }
func (f *Formatter) MinimumIntegerDigits() int  { return f.c.minInt }

// Multiplier is 100 for percent patterns, 1000 for per-mille patterns and 1
// otherwise.
func (f *Formatter) Multiplier() int { return f.c.multiplier }

// DecimalSeparatorAlwaysShown reports whether the decimal separator is
// printed even for integers, as in "#." or ".##".
func (f *Formatter) DecimalSeparatorAlwaysShown() bool { return f.c.decimalAlwaysShown }

func (f *Formatter) UseExponentialNotation() bool { return f.c.exponential }

// MinimumExponentDigits is the zero-padding width of the exponent, 0 for
// patterns without one.
func (f *Formatter) MinimumExponentDigits() int { return f.c.minExponentDigits }
