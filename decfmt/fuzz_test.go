package decfmt_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/lattice-substrate/decimal-parity/decfmt"
	"github.com/lattice-substrate/decimal-parity/parityerr"
)

// FuzzParseFormat: any pattern either compiles or fails with PATTERN_SYNTAX,
// and a compiled pattern formats any finite value with its own affixes.
func FuzzParseFormat(f *testing.F) {
	seeds := []string{
		"#", "#.", "0.0", "#.###%", "'#'#", ",#", "#,#,#,###", "-#-;-#-",
		"A#B;C-#D", "  #  ;  -#  ", "0.###E0", "¤#,##0.00", "", "'#", "#;#;#",
	}
	for _, s := range seeds {
		f.Add(s, 1.234)
	}

	f.Fuzz(func(t *testing.T, pattern string, v float64) {
		fm, err := decfmt.Parse(pattern)
		if err != nil {
			var pe *parityerr.Error
			if !errors.As(err, &pe) || pe.Class != parityerr.PatternSyntax {
				t.Fatalf("Parse(%q): unexpected error %v", pattern, err)
			}
			return
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return
		}
		out := fm.Format(v)
		pre, suf := fm.PositivePrefix(), fm.PositiveSuffix()
		if v < 0 || (v == 0 && math.Signbit(v)) {
			pre, suf = fm.NegativePrefix(), fm.NegativeSuffix()
		}
		if !strings.HasPrefix(out, pre) || !strings.HasSuffix(out, suf) {
			t.Fatalf("Parse(%q).Format(%v) = %q lacks affixes %q/%q", pattern, v, out, pre, suf)
		}
		if fm.MinimumFractionDigits() > fm.MaximumFractionDigits() {
			t.Fatalf("Parse(%q): min fraction %d > max %d", pattern, fm.MinimumFractionDigits(), fm.MaximumFractionDigits())
		}
	})
}
