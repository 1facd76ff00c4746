// Package fixture turns a matrix into the tests.json and locale.json
// fixture files, writes them with a manifest, and checks existing fixtures
// for drift.
package fixture

import (
	"github.com/lattice-substrate/decimal-parity/fixjson"
	"github.com/lattice-substrate/decimal-parity/fixtoken"
	"github.com/lattice-substrate/decimal-parity/locale"
	"github.com/lattice-substrate/decimal-parity/oracle"
	"github.com/lattice-substrate/decimal-parity/parityerr"
)

// File names inside an output directory.
const (
	TestsFile    = "tests.json"
	LocaleFile   = "locale.json"
	ManifestFile = "manifest.json"
)

// Key orders of the fixture objects. Consumers compare bytes, so these are
// part of the file format.
var (
	successKeys = []string{
		"pattern", "success",
		"positivePrefix", "positiveSuffix", "negativePrefix", "negativeSuffix",
		"output", "input",
		"groupingSize", "maximumFractionDigits", "maximumIntegerDigits",
		"minimumFractionDigits", "minimumIntegerDigits", "multiplier",
	}
	failureKeys = []string{"pattern", "success", "error"}
	localeKeys  = []string{
		"currencySymbol", "decimalSeparator", "digit", "exponentSeparator",
		"groupingSeparator", "minusSign", "percent", "perMill",
	}
)

// EncodeCase builds the fixture object for one record.
func EncodeCase(c oracle.FormatCase) fixtoken.Value {
	if !c.Success {
		return fixjson.Object(
			fixjson.Pair("pattern", fixjson.String(c.Pattern)),
			fixjson.Pair("success", fixjson.Bool(false)),
			fixjson.Pair("error", fixjson.String(c.Error)),
		)
	}
	return fixjson.Object(
		fixjson.Pair("pattern", fixjson.String(c.Pattern)),
		fixjson.Pair("success", fixjson.Bool(true)),
		fixjson.Pair("positivePrefix", fixjson.String(c.PositivePrefix)),
		fixjson.Pair("positiveSuffix", fixjson.String(c.PositiveSuffix)),
		fixjson.Pair("negativePrefix", fixjson.String(c.NegativePrefix)),
		fixjson.Pair("negativeSuffix", fixjson.String(c.NegativeSuffix)),
		fixjson.Pair("output", fixjson.String(c.Output)),
		fixjson.Pair("input", fixjson.Double(c.Input)),
		fixjson.Pair("groupingSize", metric(c.GroupingSize)),
		fixjson.Pair("maximumFractionDigits", metric(c.MaximumFractionDigits)),
		fixjson.Pair("maximumIntegerDigits", metric(c.MaximumIntegerDigits)),
		fixjson.Pair("minimumFractionDigits", metric(c.MinimumFractionDigits)),
		fixjson.Pair("minimumIntegerDigits", metric(c.MinimumIntegerDigits)),
		fixjson.Pair("multiplier", metric(c.Multiplier)),
	)
}

// metric renders a derived pattern parameter. The fixture format carries
// them as doubles ("3.0", "2.147483647E9"), not integers.
func metric(n int) fixtoken.Value {
	return fixjson.Double(float64(n))
}

// EncodeCases renders tests.json. Records keep their slice order.
func EncodeCases(cases []oracle.FormatCase) ([]byte, error) {
	elems := make([]fixtoken.Value, len(cases))
	for i := range cases {
		elems[i] = EncodeCase(cases[i])
	}
	doc := fixjson.Array(elems...)
	b, err := fixjson.Serialize(&doc)
	if err != nil {
		return nil, parityerr.Wrap(parityerr.InternalError, -1, "encode tests", err)
	}
	return b, nil
}

// EncodeLocale renders locale.json.
func EncodeLocale(s locale.Symbols) ([]byte, error) {
	doc := fixjson.Object(
		fixjson.Pair("currencySymbol", fixjson.String(s.CurrencySymbol)),
		fixjson.Pair("decimalSeparator", fixjson.String(s.DecimalSeparator)),
		fixjson.Pair("digit", fixjson.String(s.Digit)),
		fixjson.Pair("exponentSeparator", fixjson.String(s.ExponentSeparator)),
		fixjson.Pair("groupingSeparator", fixjson.String(s.GroupingSeparator)),
		fixjson.Pair("minusSign", fixjson.String(s.MinusSign)),
		fixjson.Pair("percent", fixjson.String(s.Percent)),
		fixjson.Pair("perMill", fixjson.String(s.PerMill)),
	)
	b, err := fixjson.Serialize(&doc)
	if err != nil {
		return nil, parityerr.Wrap(parityerr.InternalError, -1, "encode locale", err)
	}
	return b, nil
}
