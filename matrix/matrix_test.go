package matrix

import (
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lattice-substrate/decimal-parity/parityerr"
)

func TestReference_MATRIX_REF_001(t *testing.T) {
	m := Reference()
	require.Equal(t, "reference-1", m.Version())
	require.Equal(t, "en-US", m.Locale())
	require.Len(t, m.Patterns(), 26)
	require.Len(t, m.Values(), 14)
	require.Equal(t, 26*14, m.Len())

	ps := m.Patterns()
	assert.Equal(t, "#", ps[0])
	assert.Equal(t, "  #  ;  -#  ", ps[25])

	vs := m.Values()
	assert.True(t, math.Signbit(vs[7]), "values[7] must be negative zero")
	assert.Equal(t, 0.0, vs[7])
	assert.False(t, math.Signbit(vs[0]))
}

func TestExtendedContainsReference(t *testing.T) {
	ref, ext := Reference(), Extended()
	require.Equal(t, "extended-1", ext.Version())
	require.Equal(t, ref.Patterns(), ext.Patterns()[:len(ref.Patterns())])
	require.Equal(t, ref.Values(), ext.Values())
	assert.Contains(t, ext.Patterns(), "")
	assert.Contains(t, ext.Patterns(), "0.###E0")
}

func TestCasesValueMajor_MATRIX_ORDER_001(t *testing.T) {
	m := Reference()
	cases := m.Cases()
	require.Len(t, cases, m.Len())
	ps, vs := m.Patterns(), m.Values()
	for i, c := range cases {
		require.Equal(t, i, c.Index)
		require.Equal(t, ps[i%len(ps)], c.Pattern, "case %d", i)
		require.Equal(t, math.Float64bits(vs[i/len(ps)]), math.Float64bits(c.Value), "case %d", i)
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	m := Reference()
	ps := m.Patterns()
	ps[0] = "mutated"
	vs := m.Values()
	vs[0] = 42
	assert.Equal(t, "#", m.Patterns()[0])
	assert.Equal(t, 0.0, m.Values()[0])
}

func TestNewCopiesInput(t *testing.T) {
	ps := []string{"#"}
	m, err := New("v", "", ps, []float64{1})
	require.NoError(t, err)
	ps[0] = "0"
	assert.Equal(t, []string{"#"}, m.Patterns())
	assert.Equal(t, "en-US", m.Locale())
}

func TestValidateRejects_MATRIX_VALID_001(t *testing.T) {
	negZero := math.Copysign(0, -1)
	tests := []struct {
		name     string
		version  string
		patterns []string
		values   []float64
		want     string
	}{
		{"no version", "", []string{"#"}, []float64{1}, "version is required"},
		{"no patterns", "v", nil, []float64{1}, "at least one pattern"},
		{"no values", "v", []string{"#"}, nil, "at least one value"},
		{"nan", "v", []string{"#"}, []float64{math.NaN()}, "not finite"},
		{"inf", "v", []string{"#"}, []float64{1, math.Inf(-1)}, "values[1] is not finite"},
		{"dup pattern", "v", []string{"#", "0", "#"}, []float64{1}, "patterns[2] duplicates patterns[0]"},
		{"dup value", "v", []string{"#"}, []float64{1, 2, 1}, "values[2] duplicates values[0]"},
		{"dup negative zero", "v", []string{"#"}, []float64{negZero, negZero}, "values[1] duplicates"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.version, "", tt.patterns, tt.values)
			require.Error(t, err)
			assert.True(t, parityerr.Is(err, parityerr.MatrixInvalid), "class: %v", parityerr.ClassOf(err))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSignedZerosAreDistinct(t *testing.T) {
	_, err := New("v", "", []string{"#"}, []float64{0, math.Copysign(0, -1)})
	require.NoError(t, err)
}

func TestEmptyPatternIsAllowed(t *testing.T) {
	_, err := New("v", "", []string{"", "#"}, []float64{1})
	require.NoError(t, err)
}

func TestNamed(t *testing.T) {
	for _, name := range Names() {
		m, ok := Named(name)
		require.True(t, ok, name)
		require.NoError(t, m.Validate())
	}
	_, ok := Named("nope")
	assert.False(t, ok)
	assert.Equal(t, []string{"extended", "reference"}, Names())
	_, ok = Named(DefaultName)
	assert.True(t, ok)
}

func TestDigestStableAndSensitive(t *testing.T) {
	a, err := Reference().Digest()
	require.NoError(t, err)
	b, err := Reference().Digest()
	require.NoError(t, err)
	require.Equal(t, a, b)
	require.Len(t, a, 64)

	c, err := Reference().WithLocale("de-DE").Digest()
	require.NoError(t, err)
	assert.NotEqual(t, a, c)

	d, err := Extended().Digest()
	require.NoError(t, err)
	assert.NotEqual(t, a, d)
}

func TestLoadYAML_MATRIX_LOAD_001(t *testing.T) {
	m, err := Load(filepath.Join("testdata", "small.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "small-1", m.Version())
	assert.Equal(t, "de-DE", m.Locale())
	assert.Equal(t, []string{"#,##0.00", "0.###E0", "'#'#"}, m.Patterns())
	vs := m.Values()
	require.Len(t, vs, 3)
	assert.True(t, math.Signbit(vs[1]), "-0.0 must keep its sign")
}

func TestLoadJSONMatchesYAML(t *testing.T) {
	y, err := Load(filepath.Join("testdata", "small.yaml"))
	require.NoError(t, err)
	j, err := Load(filepath.Join("testdata", "small.json"))
	require.NoError(t, err)
	assert.Equal(t, y.Patterns(), j.Patterns())
	assert.Equal(t, "en-US", j.Locale())
	for i, v := range y.Values() {
		assert.Equal(t, math.Float64bits(v), math.Float64bits(j.Values()[i]))
	}
}

func TestLoadRejectsUnknownField(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "unknown-field.yaml"))
	require.Error(t, err)
	assert.True(t, parityerr.Is(err, parityerr.MatrixInvalid))
	assert.Contains(t, err.Error(), "architecture")
}

func TestLoadRejectsTrailingDocument(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "two-docs.json"))
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "trailing"), err.Error())
}

func TestDecodeYAMLRejectsTrailingDocument(t *testing.T) {
	doc := "version: a\npatterns: ['#']\nvalues: [1.0]\n---\nversion: b\n"
	_, err := DecodeYAML([]byte(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "trailing")
}

func TestDecodeYAMLNegativeZero(t *testing.T) {
	doc := func(v string) []byte {
		return []byte("version: a\npatterns: ['#']\nvalues: [1.0, " + v + "]\n")
	}

	for _, v := range []string{"-0", "-00"} {
		_, err := DecodeYAML(doc(v))
		require.Error(t, err, v)
		assert.True(t, parityerr.Is(err, parityerr.MatrixInvalid), err.Error())
		assert.Contains(t, err.Error(), "values[1]")
		assert.Contains(t, err.Error(), "-0.0")
	}

	m, err := DecodeYAML(doc("-0.0"))
	require.NoError(t, err)
	assert.True(t, math.Signbit(m.Values()[1]))

	m, err = DecodeYAML(doc("0"))
	require.NoError(t, err)
	assert.False(t, math.Signbit(m.Values()[1]))

	// encoding/json parses numbers as floats, so -0 keeps its sign there.
	m, err = DecodeJSON([]byte(`{"version": "a", "patterns": ["#"], "values": [1.0, -0]}`))
	require.NoError(t, err)
	assert.True(t, math.Signbit(m.Values()[1]))
}

func TestDecodeYAMLEmpty(t *testing.T) {
	_, err := DecodeYAML(nil)
	require.Error(t, err)
	assert.True(t, parityerr.Is(err, parityerr.MatrixInvalid))
}

func TestLoadMissingFileIsIO(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, parityerr.Is(err, parityerr.InternalIO))
}

func TestResolve(t *testing.T) {
	m, err := Resolve("")
	require.NoError(t, err)
	assert.Equal(t, "extended-1", m.Version())

	m, err = Resolve("reference")
	require.NoError(t, err)
	assert.Equal(t, "reference-1", m.Version())

	m, err = Resolve(filepath.Join("testdata", "small.json"))
	require.NoError(t, err)
	assert.Equal(t, "small-1", m.Version())

	_, err = Resolve("refrence")
	require.Error(t, err)
	assert.True(t, parityerr.Is(err, parityerr.MatrixInvalid))
	assert.Contains(t, err.Error(), "extended, reference")
}
