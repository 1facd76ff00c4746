package decfmt

import (
	"math"
	"strconv"
)

// Format renders v with the compiled pattern.
func (f *Formatter) Format(v float64) string {
	return string(f.AppendFormat(nil, v))
}

// AppendFormat appends the rendering of v to buf.
//
// The sign is taken before rounding, so negative zero and negative values
// that round to zero keep the negative affixes ("-0"). The multiplier is
// applied in float64 arithmetic before rounding.
func (f *Formatter) AppendFormat(buf []byte, v float64) []byte {
	if math.IsNaN(v) {
		return append(buf, "NaN"...)
	}

	negative := v < 0 || (v == 0 && math.Signbit(v))
	if f.c.multiplier != 1 {
		v *= float64(f.c.multiplier)
	}
	if negative {
		v = -v
	}

	if math.IsInf(v, 0) {
		buf = append(buf, f.prefix(negative)...)
		buf = append(buf, "∞"...)
		return append(buf, f.suffix(negative)...)
	}

	maxInt := min(f.c.maxInt, doubleIntegerCap)
	maxFrac := min(f.c.maxFrac, doubleFractionCap)

	var dl digitList
	if f.c.exponential {
		dl.set(v, maxInt+maxFrac, false)
	} else {
		dl.set(v, maxFrac, true)
	}

	buf = append(buf, f.prefix(negative)...)
	if f.c.exponential {
		buf = f.appendExponential(buf, &dl, maxInt, maxFrac)
	} else {
		buf = f.appendFixed(buf, &dl, maxInt, maxFrac)
	}
	return append(buf, f.suffix(negative)...)
}

func (f *Formatter) prefix(negative bool) string {
	if negative {
		return f.negPrefix
	}
	return f.posPrefix
}

func (f *Formatter) suffix(negative bool) string {
	if negative {
		return f.negSuffix
	}
	return f.posSuffix
}

func (f *Formatter) appendFixed(buf []byte, dl *digitList, maxInt, maxFrac int) []byte {
	minInt := min(f.c.minInt, doubleIntegerCap)
	minFrac := f.c.minFrac

	count := minInt
	digitIndex := 0
	if dl.decimalAt > 0 && count < dl.decimalAt {
		count = dl.decimalAt
	}
	// Too many integer digits: keep the least significant maxInt of them.
	if count > maxInt {
		count = maxInt
		digitIndex = dl.decimalAt - count
	}

	before := len(buf)
	for i := count - 1; i >= 0; i-- {
		if i < dl.decimalAt && digitIndex < len(dl.digits) {
			buf = append(buf, dl.digits[digitIndex])
			digitIndex++
		} else {
			buf = append(buf, '0')
		}
		if f.c.groupingUsed && i > 0 && f.c.groupingSize != 0 && i%f.c.groupingSize == 0 {
			buf = append(buf, f.syms.GroupingSeparator...)
		}
	}

	fractionPresent := minFrac > 0 || digitIndex < len(dl.digits)
	if !fractionPresent && len(buf) == before {
		buf = append(buf, '0')
	}
	if f.c.decimalAlwaysShown || fractionPresent {
		buf = append(buf, f.syms.DecimalSeparator...)
	}

	for i := 0; i < maxFrac; i++ {
		if i >= minFrac && digitIndex >= len(dl.digits) {
			break
		}
		// Leading fraction zeros of a value below one.
		if -1-i > dl.decimalAt-1 {
			buf = append(buf, '0')
			continue
		}
		if digitIndex < len(dl.digits) {
			buf = append(buf, dl.digits[digitIndex])
			digitIndex++
		} else {
			buf = append(buf, '0')
		}
	}
	return buf
}

// appendExponential writes mantissa and exponent. A maximum integer digit
// count above one that exceeds the minimum defines a repeating exponent
// range (engineering notation for "##0.##E0").
func (f *Formatter) appendExponential(buf []byte, dl *digitList, maxInt, maxFrac int) []byte {
	minInt := f.c.minInt
	minFrac := f.c.minFrac

	exponent := dl.decimalAt
	repeat := maxInt
	minIntDigits := minInt
	if repeat > 1 && repeat > minInt {
		if exponent >= 1 {
			exponent = ((exponent - 1) / repeat) * repeat
		} else {
			exponent = ((exponent - repeat) / repeat) * repeat
		}
		minIntDigits = 1
	} else {
		exponent -= minIntDigits
	}

	minimumDigits := minInt + minFrac
	integerDigits := dl.decimalAt - exponent
	if dl.isZero() {
		integerDigits = minIntDigits
	}
	if minimumDigits < integerDigits {
		minimumDigits = integerDigits
	}
	totalDigits := len(dl.digits)
	if minimumDigits > totalDigits {
		totalDigits = minimumDigits
	}

	for i := 0; i < totalDigits; i++ {
		if i == integerDigits {
			buf = append(buf, f.syms.DecimalSeparator...)
		}
		if i < len(dl.digits) {
			buf = append(buf, dl.digits[i])
		} else {
			buf = append(buf, '0')
		}
	}
	if f.c.decimalAlwaysShown && totalDigits == integerDigits {
		buf = append(buf, f.syms.DecimalSeparator...)
	}

	buf = append(buf, f.syms.ExponentSeparator...)
	if dl.isZero() {
		exponent = 0
	}
	if exponent < 0 {
		exponent = -exponent
		buf = append(buf, f.syms.MinusSign...)
	}
	exp := strconv.Itoa(exponent)
	for i := len(exp); i < f.c.minExponentDigits; i++ {
		buf = append(buf, '0')
	}
	return append(buf, exp...)
}
