// Package javafloat renders IEEE 754 doubles the way java.lang.Double.toString
// does, which is the textual form the fixture consumers were written against.
//
// Digit selection follows the JDK 19+ contract: among the decimals that round
// to the double, the shortest is chosen, with the closest one preferred. When
// the shortest candidate has a single digit, the closest two-digit candidate
// is chosen instead, which is why Double.MIN_VALUE prints as 4.9E-324 rather
// than 5.0E-324.
//
// Layout:
//   - zero prints as "0.0" or "-0.0" (the sign of zero is kept).
//   - 1e-3 <= |x| < 1e7 prints in plain notation with at least one fraction
//     digit: "1.0", "0.123", "1000.0".
//   - everything else prints in computerized scientific notation with one
//     integer digit, at least one fraction digit and a bare exponent:
//     "1.0E8", "1.234E-5".
package javafloat

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

var ErrNotFinite = errors.New("javafloat: value is not finite (NaN or Infinity)")

// FormatDouble formats f exactly as Double.toString(f) would.
//
// NaN and ±Infinity return ErrNotFinite; the fixture format has no token for
// them.
func FormatDouble(f float64) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", ErrNotFinite
	}
	return string(AppendDouble(nil, f)), nil
}

// AppendDouble appends the Double.toString rendering of a finite f to buf.
func AppendDouble(buf []byte, f float64) []byte {
	if math.Signbit(f) {
		buf = append(buf, '-')
		f = -f
	}
	if f == 0 {
		return append(buf, "0.0"...)
	}

	digits, n := Digits(f)
	if f >= 1e-3 && f < 1e7 {
		return appendPlain(buf, digits, n)
	}
	return appendScientific(buf, digits, n)
}

// appendPlain writes digits (value = 0.<digits> * 10^n) in plain notation.
func appendPlain(buf []byte, digits string, n int) []byte {
	k := len(digits)
	switch {
	case n <= 0:
		buf = append(buf, '0', '.')
		for i := 0; i < -n; i++ {
			buf = append(buf, '0')
		}
		buf = append(buf, digits...)
	case n >= k:
		buf = append(buf, digits...)
		for i := 0; i < n-k; i++ {
			buf = append(buf, '0')
		}
		buf = append(buf, '.', '0')
	default:
		buf = append(buf, digits[:n]...)
		buf = append(buf, '.')
		buf = append(buf, digits[n:]...)
	}
	return buf
}

// appendScientific writes d.dddE<exp>.
func appendScientific(buf []byte, digits string, n int) []byte {
	buf = append(buf, digits[0], '.')
	if len(digits) > 1 {
		buf = append(buf, digits[1:]...)
	} else {
		buf = append(buf, '0')
	}
	buf = append(buf, 'E')
	return strconv.AppendInt(buf, int64(n-1), 10)
}

// Digits returns the significant decimal digits selected for a finite,
// nonzero f together with the decimal exponent n such that
// |f| = 0.<digits> * 10^n. Trailing zeros are removed.
func Digits(f float64) (string, int) {
	f = math.Abs(f)
	mant, exp := splitExp(strconv.FormatFloat(f, 'e', -1, 64))
	if len(mant) == 1 {
		// Java prefers the closest two-digit decimal over a one-digit one.
		two := strconv.FormatFloat(f, 'e', 1, 64)
		if back, err := strconv.ParseFloat(two, 64); err == nil && back == f {
			mant, exp = splitExp(two)
		}
	}
	mant = strings.TrimRight(mant, "0")
	if mant == "" {
		return "0", 0
	}
	return mant, exp + 1
}

// splitExp turns strconv's "d.ddde±xx" into ("dddd", xx).
func splitExp(s string) (string, int) {
	i := strings.IndexByte(s, 'e')
	mant := strings.Replace(s[:i], ".", "", 1)
	exp, _ := strconv.Atoi(s[i+1:])
	return mant, exp
}
