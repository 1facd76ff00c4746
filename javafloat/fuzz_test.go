package javafloat_test

import (
	"encoding/binary"
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/lattice-substrate/decimal-parity/javafloat"
)

// FuzzFormatDoubleRoundTrip: uint64 bits -> format -> parse -> same bits.
func FuzzFormatDoubleRoundTrip(f *testing.F) {
	seeds := []uint64{
		0x0000000000000000, // +0
		0x8000000000000000, // -0
		0x0000000000000001, // MIN_VALUE
		0x7fefffffffffffff, // MAX_VALUE
		0x3ff0000000000000, // 1.0
		0x4197d78400000000, // 1e8
		0x3f50624dd2f1a9fc, // 0.001
	}
	for _, s := range seeds {
		b := make([]byte, 8)
		binary.BigEndian.PutUint64(b, s)
		f.Add(b)
	}

	f.Fuzz(func(t *testing.T, data []byte) {
		if len(data) < 8 {
			return
		}
		bits := binary.BigEndian.Uint64(data[:8])
		v := math.Float64frombits(bits)

		if math.IsNaN(v) || math.IsInf(v, 0) {
			if _, err := javafloat.FormatDouble(v); err == nil {
				t.Fatal("expected error for non-finite value")
			}
			return
		}

		s, err := javafloat.FormatDouble(v)
		if err != nil {
			t.Fatalf("FormatDouble(bits=%016x): %v", bits, err)
		}
		mant := s
		if i := strings.IndexByte(s, 'E'); i >= 0 {
			mant = s[:i]
		}
		if !strings.Contains(mant, ".") || strings.HasSuffix(mant, ".") {
			t.Fatalf("bits=%016x: %q lacks a fraction digit", bits, s)
		}

		// Java writes "E-5" and "E8"; ParseFloat accepts both forms.
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			t.Fatalf("ParseFloat(%q): %v", s, err)
		}
		if math.Float64bits(parsed) != bits {
			t.Fatalf("round-trip failed: bits=%016x -> %q -> bits=%016x", bits, s, math.Float64bits(parsed))
		}
	})
}
