// Package locale resolves the number-formatting symbols of a named locale
// from the CLDR data bundled with golang.org/x/text.
//
// The symbol set mirrors java.text.DecimalFormatSymbols: the fields that the
// pattern engine substitutes into affixes and numbers, and the eight fields
// that are serialized into locale.json.
package locale

import (
	"strings"
	"unicode"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/lattice-substrate/decimal-parity/parityerr"
)

// DefaultTag is the locale used when none is named.
const DefaultTag = "en-US"

// Symbols is the set of locale-specific symbols used by the pattern engine.
type Symbols struct {
	CurrencySymbol    string
	DecimalSeparator  string
	Digit             string
	ExponentSeparator string
	GroupingSeparator string
	MinusSign         string
	Percent           string
	PerMill           string

	// CurrencyCode is the ISO 4217 code substituted for a doubled currency
	// sign. It is not serialized.
	CurrencyCode string
	Tag          language.Tag
}

// Default returns the symbols of DefaultTag.
func Default() Symbols {
	s, err := Lookup(DefaultTag)
	if err != nil {
		// en-US is compiled into x/text; failing here means the table is broken.
		panic(err)
	}
	return s
}

// Lookup resolves the symbols for an explicitly named BCP 47 tag.
func Lookup(tag string) (Symbols, error) {
	if strings.TrimSpace(tag) == "" {
		return Symbols{}, parityerr.New(parityerr.LocaleUnknown, -1, "empty locale tag")
	}
	t, err := language.Parse(tag)
	if err != nil {
		return Symbols{}, parityerr.Wrap(parityerr.LocaleUnknown, -1, "parse locale "+quote(tag), err)
	}
	return LookupTag(t)
}

// LookupTag resolves the symbols for an already parsed tag.
func LookupTag(t language.Tag) (Symbols, error) {
	if t.IsRoot() {
		return Symbols{}, parityerr.New(parityerr.LocaleUnknown, -1, "locale "+quote(t.String())+" has no language")
	}
	unit, conf := currency.FromTag(t)
	if conf == language.No {
		return Symbols{}, parityerr.New(parityerr.LocaleUnknown, -1, "no currency for locale "+quote(t.String()))
	}

	p := message.NewPrinter(t)
	group, decimal := separators(p.Sprint(number.Decimal(1234567.5)))
	if decimal == "" {
		return Symbols{}, parityerr.New(parityerr.InternalError, -1, "no decimal separator for locale "+quote(t.String()))
	}

	return Symbols{
		CurrencySymbol:    p.Sprint(currency.Symbol(unit)),
		DecimalSeparator:  decimal,
		Digit:             "#",
		ExponentSeparator: "E",
		GroupingSeparator: group,
		MinusSign:         affix(p.Sprint(number.Decimal(-1))),
		Percent:           affix(p.Sprint(number.Percent(0.01))),
		PerMill:           affix(p.Sprint(number.PerMille(0.001))),
		CurrencyCode:      unit.String(),
		Tag:               t,
	}, nil
}

// separators splits a rendering of 1234567.5 into its grouping and decimal
// separators. The last non-digit run is the decimal separator; the first one,
// when there is more than one, is the grouping separator.
func separators(s string) (group, decimal string) {
	var runs []string
	var cur strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			if cur.Len() > 0 {
				runs = append(runs, cur.String())
				cur.Reset()
			}
			continue
		}
		cur.WriteRune(r)
	}
	if cur.Len() > 0 {
		runs = append(runs, cur.String())
	}
	switch len(runs) {
	case 0:
		return "", ""
	case 1:
		return "", runs[0]
	default:
		return runs[0], runs[len(runs)-1]
	}
}

// affix strips the digits and surrounding space from a rendering of 1, -1,
// 1% or 1‰, leaving only the symbol.
func affix(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) || unicode.Is(unicode.Cf, r) {
			return -1
		}
		return r
	}, s)
	return strings.TrimFunc(s, unicode.IsSpace)
}

func quote(s string) string {
	return `"` + s + `"`
}
