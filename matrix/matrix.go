// Package matrix defines the versioned (pattern x value) test matrices the
// fixture generator sweeps.
//
// Iteration order is part of the fixture contract: for each value, every
// pattern in list order. A Matrix is immutable once built; accessors return
// copies.
package matrix

import (
	"crypto/sha256"
	"encoding/hex"
	"math"
	"sort"

	"github.com/lattice-substrate/decimal-parity/fixjson"
	"github.com/lattice-substrate/decimal-parity/fixtoken"
	"github.com/lattice-substrate/decimal-parity/locale"
	"github.com/lattice-substrate/decimal-parity/parityerr"
)

// Matrix is an immutable set of patterns and values.
type Matrix struct {
	version  string
	locale   string
	patterns []string
	values   []float64
}

// Case is one cell of a matrix, in sweep order.
type Case struct {
	Index   int
	Pattern string
	Value   float64
}

// New validates and copies its inputs. An empty localeTag means
// locale.DefaultTag.
func New(version, localeTag string, patterns []string, values []float64) (*Matrix, error) {
	if localeTag == "" {
		localeTag = locale.DefaultTag
	}
	m := &Matrix{
		version:  version,
		locale:   localeTag,
		patterns: append([]string(nil), patterns...),
		values:   append([]float64(nil), values...),
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func mustNew(version string, patterns []string, values []float64) *Matrix {
	m, err := New(version, locale.DefaultTag, patterns, values)
	if err != nil {
		panic(err)
	}
	return m
}

// Validate checks the matrix invariants: a version, at least one pattern and
// one value, finite values, and no duplicates. Values are compared bitwise,
// so 0.0 and -0.0 are distinct.
func (m *Matrix) Validate() error {
	if m == nil {
		return parityerr.New(parityerr.MatrixInvalid, -1, "matrix is nil")
	}
	if m.version == "" {
		return parityerr.New(parityerr.MatrixInvalid, -1, "matrix version is required")
	}
	if len(m.patterns) == 0 {
		return parityerr.New(parityerr.MatrixInvalid, -1, "matrix must include at least one pattern")
	}
	if len(m.values) == 0 {
		return parityerr.New(parityerr.MatrixInvalid, -1, "matrix must include at least one value")
	}

	seen := make(map[string]int, len(m.patterns))
	for i, p := range m.patterns {
		if j, ok := seen[p]; ok {
			return parityerr.Newf(parityerr.MatrixInvalid, -1, "patterns[%d] duplicates patterns[%d]: %q", i, j, p)
		}
		seen[p] = i
	}
	bits := make(map[uint64]int, len(m.values))
	for i, v := range m.values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return parityerr.Newf(parityerr.MatrixInvalid, -1, "values[%d] is not finite", i)
		}
		b := math.Float64bits(v)
		if j, ok := bits[b]; ok {
			return parityerr.Newf(parityerr.MatrixInvalid, -1, "values[%d] duplicates values[%d]: %v", i, j, v)
		}
		bits[b] = i
	}
	return nil
}

func (m *Matrix) Version() string { return m.version }

// Locale is the tag whose symbols the matrix is evaluated with.
func (m *Matrix) Locale() string { return m.locale }

func (m *Matrix) Patterns() []string { return append([]string(nil), m.patterns...) }

func (m *Matrix) Values() []float64 { return append([]float64(nil), m.values...) }

// Len is the number of cases.
func (m *Matrix) Len() int { return len(m.patterns) * len(m.values) }

// WithLocale returns a copy evaluated under another locale tag.
func (m *Matrix) WithLocale(tag string) *Matrix {
	c := *m
	c.locale = tag
	return &c
}

// Cases enumerates the matrix: for each value, every pattern in order.
func (m *Matrix) Cases() []Case {
	out := make([]Case, 0, m.Len())
	for _, v := range m.values {
		for _, p := range m.patterns {
			out = append(out, Case{Index: len(out), Pattern: p, Value: v})
		}
	}
	return out
}

// Document renders the matrix as a fixture value tree.
func (m *Matrix) Document() fixtoken.Value {
	ps := make([]fixtoken.Value, len(m.patterns))
	for i, p := range m.patterns {
		ps[i] = fixjson.String(p)
	}
	vs := make([]fixtoken.Value, len(m.values))
	for i, v := range m.values {
		vs[i] = fixjson.Double(v)
	}
	return fixjson.Object(
		fixjson.Pair("version", fixjson.String(m.version)),
		fixjson.Pair("locale", fixjson.String(m.locale)),
		fixjson.Pair("patterns", fixjson.Array(ps...)),
		fixjson.Pair("values", fixjson.Array(vs...)),
	)
}

// Digest is the hex sha256 of the serialized Document. It changes whenever
// the version, locale, patterns, values or their order change.
func (m *Matrix) Digest() (string, error) {
	doc := m.Document()
	b, err := fixjson.Serialize(&doc)
	if err != nil {
		return "", parityerr.Wrap(parityerr.InternalError, -1, "serialize matrix", err)
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}

var builtins = map[string]func() *Matrix{
	"reference": Reference,
	"extended":  Extended,
}

// DefaultName is the built-in matrix used when none is named.
const DefaultName = "extended"

// Named returns a built-in matrix.
func Named(name string) (*Matrix, bool) {
	f, ok := builtins[name]
	if !ok {
		return nil, false
	}
	return f(), true
}

// Names lists the built-in matrices.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for n := range builtins {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
