package decfmt

import (
	"math"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/lattice-substrate/decimal-parity/javafloat"
)

// digitList holds the significant digits of a non-negative value as
// 0.<digits> * 10^decimalAt. It never carries trailing zeros; an empty list
// is zero.
type digitList struct {
	digits    []byte
	decimalAt int
}

func (d *digitList) isZero() bool {
	return len(d.digits) == 0
}

// set loads v (finite, non-negative) keeping at most maximumDigits digits.
// With fixedPoint, maximumDigits counts fraction digits; otherwise it counts
// significant digits. Excess digits are rounded HALF_EVEN against the exact
// binary value of v, not against its shortest decimal rendering.
func (d *digitList) set(v float64, maximumDigits int, fixedPoint bool) {
	d.digits = d.digits[:0]
	d.decimalAt = 0
	if v == 0 {
		return
	}

	s, n := javafloat.Digits(v)
	limit := maximumDigits
	places := maximumDigits
	if fixedPoint {
		limit += n
	} else {
		places -= n
	}
	if len(s) <= limit {
		d.digits = append(d.digits, s...)
		d.decimalAt = n
		return
	}

	r := exactDecimal(v).RoundBank(int32(places))
	if r.IsZero() {
		return
	}
	coef := r.Coefficient().String()
	d.decimalAt = len(coef) + int(r.Exponent())
	d.digits = append(d.digits, strings.TrimRight(coef, "0")...)
}

// exactDecimal returns the exact decimal expansion of a finite double.
func exactDecimal(v float64) decimal.Decimal {
	bits := math.Float64bits(v)
	biased := int((bits >> 52) & 0x7ff)
	mant := bits & (1<<52 - 1)
	if biased == 0 {
		biased = 1
	} else {
		mant |= 1 << 52
	}
	e := biased - 1075

	m := new(big.Int).SetUint64(mant)
	if e >= 0 {
		return decimal.NewFromBigInt(m.Lsh(m, uint(e)), 0)
	}
	// mant * 2^e == mant * 5^-e * 10^e
	five := new(big.Int).Exp(big.NewInt(5), big.NewInt(int64(-e)), nil)
	return decimal.NewFromBigInt(m.Mul(m, five), int32(e))
}
