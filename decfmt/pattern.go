package decfmt

import (
	"strings"

	"github.com/lattice-substrate/decimal-parity/parityerr"
)

// Pattern metacharacters. Patterns are always written in these
// locale-independent characters; the locale only decides what they expand to.
const (
	patternZeroDigit = '0'
	patternDigit     = '#'
	patternGrouping  = ','
	patternDecimal   = '.'
	patternPercent   = '%'
	patternPerMille  = '‰'
	patternSeparator = ';'
	patternExponent  = 'E'
	patternMinus     = '-'
	patternCurrency  = '¤'
	patternQuote     = '\''
)

// compiled is the result of parsing a pattern. Affixes are kept in their
// marked form: a quote followed by one of - % ‰ ¤ stands for the localized
// symbol, and a doubled quote stands for a literal quote.
type compiled struct {
	posPrefix, posSuffix string
	negPrefix, negSuffix string

	minInt, maxInt   int
	minFrac, maxFrac int

	groupingUsed bool
	groupingSize int
	multiplier   int

	decimalAlwaysShown bool
	exponential        bool
	minExponentDigits  int
	currency           bool
}

// subpattern accumulates the counts of one side of a pattern.
type subpattern struct {
	prefix, suffix strings.Builder

	decimalPos    int
	multiplier    int
	digitLeft     int
	zeroDigits    int
	digitRight    int
	groupingCount int
}

func syntaxErr(pattern string, offset int, format string, args ...any) error {
	e := parityerr.Newf(parityerr.PatternSyntax, offset, format, args...)
	e.Message += " in pattern " + quoted(pattern)
	return e
}

func quoted(s string) string {
	return `"` + s + `"`
}

// compile parses a pattern in the java.text.DecimalFormat grammar.
//
// The positive subpattern is read in three phases (prefix, number, suffix).
// An optional negative subpattern after ';' contributes only its affixes.
func compile(pattern string) (*compiled, error) {
	rs := []rune(pattern)
	if len(rs) == 0 {
		return nil, parityerr.New(parityerr.PatternSyntax, 0, "empty pattern")
	}

	c := &compiled{}
	gotNegative := false
	start := 0

	for j := 1; j >= 0 && start < len(rs); j-- {
		sp := subpattern{decimalPos: -1, multiplier: 1, groupingCount: -1}
		inQuote := false
		phase := 0
		affix := &sp.prefix

	scan:
		for pos := start; pos < len(rs); pos++ {
			ch := rs[pos]
			switch phase {
			case 0, 2:
				if inQuote {
					if ch == patternQuote {
						if pos+1 < len(rs) && rs[pos+1] == patternQuote {
							pos++
							affix.WriteString("''")
						} else {
							inQuote = false
						}
						continue
					}
					affix.WriteRune(ch)
					continue
				}
				switch ch {
				case patternDigit, patternZeroDigit, patternGrouping, patternDecimal:
					if phase == 2 {
						return nil, syntaxErr(pattern, pos, "unquoted special character '%c'", ch)
					}
					phase = 1
					pos--
				case patternCurrency:
					if pos+1 < len(rs) && rs[pos+1] == patternCurrency {
						pos++
						affix.WriteString("'¤¤")
					} else {
						affix.WriteString("'¤")
					}
					if j == 1 {
						c.currency = true
					}
				case patternQuote:
					if pos+1 < len(rs) && rs[pos+1] == patternQuote {
						pos++
						affix.WriteString("''")
					} else {
						inQuote = true
					}
				case patternSeparator:
					if phase == 0 || j == 0 {
						return nil, syntaxErr(pattern, pos, "unquoted special character '%c'", ch)
					}
					start = pos + 1
					break scan
				case patternPercent, patternPerMille:
					if sp.multiplier != 1 {
						return nil, syntaxErr(pattern, pos, "too many percent/per mille characters")
					}
					if ch == patternPercent {
						sp.multiplier = 100
					} else {
						sp.multiplier = 1000
					}
					affix.WriteRune(patternQuote)
					affix.WriteRune(ch)
				case patternMinus:
					affix.WriteString("'-")
				default:
					affix.WriteRune(ch)
				}

			case 1:
				if j == 0 {
					// The number part of a negative subpattern is skipped.
					for pos < len(rs) && isNumberChar(rs[pos]) {
						pos++
					}
					pos--
					phase = 2
					affix = &sp.suffix
					continue
				}
				switch ch {
				case patternDigit:
					if sp.zeroDigits > 0 {
						sp.digitRight++
					} else {
						sp.digitLeft++
					}
					if sp.groupingCount >= 0 && sp.decimalPos < 0 {
						sp.groupingCount++
					}
				case patternZeroDigit:
					if sp.digitRight > 0 {
						return nil, syntaxErr(pattern, pos, "unexpected '0'")
					}
					sp.zeroDigits++
					if sp.groupingCount >= 0 && sp.decimalPos < 0 {
						sp.groupingCount++
					}
				case patternGrouping:
					sp.groupingCount = 0
				case patternDecimal:
					if sp.decimalPos >= 0 {
						return nil, syntaxErr(pattern, pos, "multiple decimal separators")
					}
					sp.decimalPos = sp.digitLeft + sp.zeroDigits + sp.digitRight
				case patternExponent:
					if c.exponential {
						return nil, syntaxErr(pattern, pos, "multiple exponential symbols")
					}
					c.exponential = true
					c.minExponentDigits = 0
					at := pos
					pos++
					for pos < len(rs) && rs[pos] == patternZeroDigit {
						c.minExponentDigits++
						pos++
					}
					if sp.digitLeft+sp.zeroDigits < 1 || c.minExponentDigits < 1 {
						return nil, syntaxErr(pattern, at, "malformed exponential")
					}
					phase = 2
					affix = &sp.suffix
					pos--
				default:
					phase = 2
					affix = &sp.suffix
					pos--
				}
			}
		}

		// "##.###" reads as "#0.###" and ".###" as ".0##".
		if sp.zeroDigits == 0 && sp.digitLeft > 0 && sp.decimalPos >= 0 {
			n := sp.decimalPos
			if n == 0 {
				n++
			}
			sp.digitRight = sp.digitLeft - n
			sp.digitLeft = n - 1
			sp.zeroDigits = 1
		}

		if (sp.decimalPos < 0 && sp.digitRight > 0) ||
			(sp.decimalPos >= 0 && (sp.decimalPos < sp.digitLeft || sp.decimalPos > sp.digitLeft+sp.zeroDigits)) ||
			sp.groupingCount == 0 {
			return nil, syntaxErr(pattern, -1, "malformed pattern")
		}
		if inQuote {
			return nil, syntaxErr(pattern, len(rs), "unterminated quote")
		}

		if j == 1 {
			c.posPrefix = sp.prefix.String()
			c.posSuffix = sp.suffix.String()
			c.negPrefix = c.posPrefix
			c.negSuffix = c.posSuffix

			total := sp.digitLeft + sp.zeroDigits + sp.digitRight
			effectiveDecimalPos := total
			if sp.decimalPos >= 0 {
				effectiveDecimalPos = sp.decimalPos
			}
			c.minInt = effectiveDecimalPos - sp.digitLeft
			if c.exponential {
				c.maxInt = sp.digitLeft + c.minInt
			} else {
				c.maxInt = MaxIntegerDigits
			}
			if sp.decimalPos >= 0 {
				c.maxFrac = total - sp.decimalPos
				c.minFrac = sp.digitLeft + sp.zeroDigits - sp.decimalPos
			}
			c.groupingUsed = sp.groupingCount > 0
			if sp.groupingCount > 0 {
				c.groupingSize = sp.groupingCount
			}
			c.multiplier = sp.multiplier
			c.decimalAlwaysShown = sp.decimalPos == 0 || sp.decimalPos == total
		} else {
			c.negPrefix = sp.prefix.String()
			c.negSuffix = sp.suffix.String()
			gotNegative = true
		}
	}

	if !gotNegative || (c.negPrefix == c.posPrefix && c.negSuffix == c.posSuffix) {
		c.negSuffix = c.posSuffix
		c.negPrefix = "'-" + c.posPrefix
	}
	return c, nil
}

func isNumberChar(r rune) bool {
	switch r {
	case patternDigit, patternZeroDigit, patternGrouping, patternDecimal, patternExponent:
		return true
	}
	return false
}
