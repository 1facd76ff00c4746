package matrix

import "math"

// referencePatterns are grouped by the pattern feature they probe.
var referencePatterns = []string{
	// bare integer, trailing decimal point
	"#", "#.", "0.",
	// fixed and variable fraction digits
	"#.#", "0.0", "#.0", "#.###", "#.000",
	// percent
	"#%", "#.###%", "0%", "0.000%",
	// literal letters, quoted metacharacter
	"A#B", "'#'#",
	// decimal point only
	".",
	// grouping placements
	",#", ",0", "#,#", "#,##", "#,###", "#,#,#,###",
	// explicit subpatterns, whitespace literals
	"-#-;-#-", "A#;A#", "A#B;C#D", "A#B;C-#D", "  #  ;  -#  ",
}

var extendedPatterns = []string{
	// per mille
	"#‰", "0.00‰",
	// currency
	"¤#,##0.00",
	// exponent
	"0.###E0",
	// rejected: empty, unterminated quote, two decimal points, trailing
	// grouping separator, two percent signs, two subpattern separators,
	// zero after an optional digit
	"", "'#", "#.#.#", "#,", "#%%", "#;#;#", "0#.#",
}

func referenceValues() []float64 {
	negZero := math.Copysign(0, -1)
	return []float64{
		0.0, 0.123, 0.9999, 1.0, 1.234, 1000.00, 1e8,
		negZero, -0.123, -0.9999, -1.0, -1.234, -1000.00, -1e8,
	}
}

// Reference is the original 26 patterns x 14 values matrix.
func Reference() *Matrix {
	return mustNew("reference-1", referencePatterns, referenceValues())
}

// Extended is Reference plus per-mille, currency and exponent patterns and
// a set of patterns the engine must reject.
func Extended() *Matrix {
	ps := append(append([]string(nil), referencePatterns...), extendedPatterns...)
	return mustNew("extended-1", ps, referenceValues())
}
