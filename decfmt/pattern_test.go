package decfmt_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/lattice-substrate/decimal-parity/decfmt"
	"github.com/lattice-substrate/decimal-parity/parityerr"
)

// PatternSuite covers compilation: derived parameters, affixes and rejections.
type PatternSuite struct {
	suite.Suite
}

type params struct {
	grouping, minInt, maxInt, minFrac, maxFrac, multiplier int

	alwaysShown bool
}

func (s *PatternSuite) TestDerivedParameters() {
	unbounded := decfmt.MaxIntegerDigits
	cases := []struct {
		pattern string
		want    params
	}{
		{"#", params{0, 0, unbounded, 0, 0, 1, false}},
		{"#.", params{0, 1, unbounded, 0, 0, 1, true}},
		{"0.", params{0, 1, unbounded, 0, 0, 1, true}},
		{"#.#", params{0, 1, unbounded, 0, 1, 1, false}},
		{"0.0", params{0, 1, unbounded, 1, 1, 1, false}},
		{"#.0", params{0, 0, unbounded, 1, 1, 1, false}},
		{"#.###", params{0, 1, unbounded, 0, 3, 1, false}},
		{"#.000", params{0, 0, unbounded, 3, 3, 1, false}},
		{"#%", params{0, 0, unbounded, 0, 0, 100, false}},
		{"#.###%", params{0, 1, unbounded, 0, 3, 100, false}},
		{"0%", params{0, 1, unbounded, 0, 0, 100, false}},
		{"0.000%", params{0, 1, unbounded, 3, 3, 100, false}},
		{"A#B", params{0, 0, unbounded, 0, 0, 1, false}},
		{"'#'#", params{0, 0, unbounded, 0, 0, 1, false}},
		{".", params{0, 0, unbounded, 0, 0, 1, true}},
		{",#", params{1, 0, unbounded, 0, 0, 1, false}},
		{",0", params{1, 1, unbounded, 0, 0, 1, false}},
		{"#,#", params{1, 0, unbounded, 0, 0, 1, false}},
		{"#,##", params{2, 0, unbounded, 0, 0, 1, false}},
		{"#,###", params{3, 0, unbounded, 0, 0, 1, false}},
		{"#,#,#,###", params{3, 0, unbounded, 0, 0, 1, false}},
		{"#‰", params{0, 0, unbounded, 0, 0, 1000, false}},
		{"0.00‰", params{0, 1, unbounded, 2, 2, 1000, false}},
		{"¤#,##0.00", params{3, 1, unbounded, 2, 2, 1, false}},
		{"0.###E0", params{0, 1, 1, 0, 3, 1, false}},
		{"##0.##E0", params{0, 1, 3, 0, 2, 1, false}},
		{"abc", params{0, 0, unbounded, 0, 0, 1, false}},
	}
	for _, tc := range cases {
		f, err := decfmt.Parse(tc.pattern)
		require.NoError(s.T(), err, "pattern %q", tc.pattern)
		got := params{
			f.GroupingSize(), f.MinimumIntegerDigits(), f.MaximumIntegerDigits(),
			f.MinimumFractionDigits(), f.MaximumFractionDigits(), f.Multiplier(),
			f.DecimalSeparatorAlwaysShown(),
		}
		require.Equal(s.T(), tc.want, got, "pattern %q", tc.pattern)
	}
}

func (s *PatternSuite) TestAffixes() {
	cases := []struct {
		pattern                        string
		posPre, posSuf, negPre, negSuf string
	}{
		{"#", "", "", "-", ""},
		{"#%", "", "%", "-", "%"},
		{"A#B", "A", "B", "-A", "B"},
		{"'#'#", "#", "", "-#", ""},
		{"-#-;-#-", "-", "-", "--", "-"},
		{"A#;A#", "A", "", "-A", ""},
		{"A#B;C#D", "A", "B", "C", "D"},
		{"A#B;C-#D", "A", "B", "C-", "D"},
		{"  #  ;  -#  ", "  ", "  ", "  -", "  "},
		{"#,##0.00;(#,##0.00)", "", "", "(", ")"},
		{"o''clock #", "o'clock ", "", "-o'clock ", ""},
		{"'%'#", "%", "", "-%", ""},
		{"¤#", "$", "", "-$", ""},
		{"¤¤ #", "USD ", "", "-USD ", ""},
		{"#;", "", "", "-", ""},
	}
	for _, tc := range cases {
		f, err := decfmt.Parse(tc.pattern)
		require.NoError(s.T(), err, "pattern %q", tc.pattern)
		require.Equal(s.T(), tc.posPre, f.PositivePrefix(), "positive prefix of %q", tc.pattern)
		require.Equal(s.T(), tc.posSuf, f.PositiveSuffix(), "positive suffix of %q", tc.pattern)
		require.Equal(s.T(), tc.negPre, f.NegativePrefix(), "negative prefix of %q", tc.pattern)
		require.Equal(s.T(), tc.negSuf, f.NegativeSuffix(), "negative suffix of %q", tc.pattern)
	}
}

func (s *PatternSuite) TestQuotedPercentKeepsMultiplier() {
	f, err := decfmt.Parse("'%'#")
	require.NoError(s.T(), err)
	require.Equal(s.T(), 1, f.Multiplier())
}

func (s *PatternSuite) TestRejections() {
	cases := []struct {
		pattern string
		offset  int
	}{
		{"", 0},
		{"'#", 2},
		{"#.#.#", 3},
		{"#,", -1},
		{"#%%", 2},
		{"#‰%", 2},
		{"#;#;#", 3},
		{"0#.#", -1},
		{"#0#", -1},
		{"#E", 1},
		{".E0", 1},
		{"0E0E0", 4},
		{";#", 0},
		{"#A#", 2},
		{"0.#0", 3},
		{"#.#0", -1},
	}
	for _, tc := range cases {
		f, err := decfmt.Parse(tc.pattern)
		require.Nil(s.T(), f, "pattern %q", tc.pattern)
		require.Error(s.T(), err, "pattern %q", tc.pattern)
		var pe *parityerr.Error
		require.ErrorAs(s.T(), err, &pe, "pattern %q", tc.pattern)
		require.Equal(s.T(), parityerr.PatternSyntax, pe.Class, "pattern %q", tc.pattern)
		require.Equal(s.T(), tc.offset, pe.Offset, "pattern %q: %v", tc.pattern, err)
	}
}

func (s *PatternSuite) TestExponentDigits() {
	f, err := decfmt.Parse("0.0E00")
	require.NoError(s.T(), err)
	require.True(s.T(), f.UseExponentialNotation())
	require.Equal(s.T(), 2, f.MinimumExponentDigits())

	f, err = decfmt.Parse("#")
	require.NoError(s.T(), err)
	require.False(s.T(), f.UseExponentialNotation())
}

func TestPatternSuite(t *testing.T) {
	suite.Run(t, new(PatternSuite))
}
