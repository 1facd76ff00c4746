// Package fixjson serializes fixture values into the exact byte layout that
// fixture consumers compare against.
//
// The layout is fixed and is not a general JSON style:
//   - objects are "{" + `"key": value` pairs joined by ", " + "}", in member order
//   - arrays are "[" + elements joined by ",\n" + "]"
//   - integers are base-10, doubles use the Java Double.toString rendering
//   - strings escape every UTF-16 code unit outside [A-Za-z0-9_ ,#;:-] as a
//     lowercase \uXXXX sequence, so the output is pure ASCII
package fixjson

import (
	"fmt"
	"strconv"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/lattice-substrate/decimal-parity/fixtoken"
	"github.com/lattice-substrate/decimal-parity/javafloat"
)

// Serialize renders a value tree in the fixture layout. No trailing newline
// is appended.
func Serialize(v *fixtoken.Value) ([]byte, error) {
	return AppendValue(nil, v)
}

// AppendValue appends the fixture rendering of v to buf.
func AppendValue(buf []byte, v *fixtoken.Value) ([]byte, error) {
	switch v.Kind {
	case fixtoken.KindNull:
		return append(buf, "null"...), nil
	case fixtoken.KindBool:
		if v.Str != "true" && v.Str != "false" {
			return nil, fmt.Errorf("fixjson: invalid bool literal %q", v.Str)
		}
		return append(buf, v.Str...), nil
	case fixtoken.KindInteger:
		return strconv.AppendInt(buf, v.Int, 10), nil
	case fixtoken.KindDouble:
		s, err := javafloat.FormatDouble(v.Num)
		if err != nil {
			return nil, fmt.Errorf("fixjson: number serialization error: %w", err)
		}
		return append(buf, s...), nil
	case fixtoken.KindString:
		return AppendString(buf, v.Str), nil
	case fixtoken.KindArray:
		return appendArray(buf, v)
	case fixtoken.KindObject:
		return appendObject(buf, v)
	default:
		return nil, fmt.Errorf("fixjson: unknown value kind %d", v.Kind)
	}
}

func appendArray(buf []byte, v *fixtoken.Value) ([]byte, error) {
	buf = append(buf, '[')
	for i := range v.Elems {
		if i > 0 {
			buf = append(buf, ',', '\n')
		}
		var err error
		buf, err = AppendValue(buf, &v.Elems[i])
		if err != nil {
			return nil, err
		}
	}
	return append(buf, ']'), nil
}

func appendObject(buf []byte, v *fixtoken.Value) ([]byte, error) {
	buf = append(buf, '{')
	for i := range v.Members {
		if i > 0 {
			buf = append(buf, ',', ' ')
		}
		buf = AppendString(buf, v.Members[i].Key)
		buf = append(buf, ':', ' ')
		var err error
		buf, err = AppendValue(buf, &v.Members[i].Value)
		if err != nil {
			return nil, err
		}
	}
	return append(buf, '}'), nil
}

// AppendString appends s as a quoted, escaped fixture string.
func AppendString(buf []byte, s string) []byte {
	buf = append(buf, '"')
	buf = AppendEscaped(buf, s)
	return append(buf, '"')
}

// Escape returns s with the fixture escaping applied, without quotes.
func Escape(s string) string {
	return string(AppendEscaped(nil, s))
}

// AppendEscaped appends the escaped form of s. Supplementary-plane runes are
// written as their surrogate pair; invalid UTF-8 bytes are written as U+FFFD.
func AppendEscaped(buf []byte, s string) []byte {
	for i := 0; i < len(s); {
		b := s[i]
		if b < utf8.RuneSelf {
			if Safe(rune(b)) {
				buf = append(buf, b)
			} else {
				buf = appendUnit(buf, uint16(b))
			}
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		i += size
		if r1, r2 := utf16.EncodeRune(r); r1 != utf8.RuneError {
			buf = appendUnit(buf, uint16(r1))
			buf = appendUnit(buf, uint16(r2))
			continue
		}
		buf = appendUnit(buf, uint16(r))
	}
	return buf
}

// Safe reports whether r is written without escaping.
func Safe(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	}
	switch r {
	case '_', ' ', ',', '#', '-', ';', ':':
		return true
	}
	return false
}

func appendUnit(buf []byte, u uint16) []byte {
	return append(buf, '\\', 'u',
		hexDigit(byte(u>>12)), hexDigit(byte(u>>8&0xF)),
		hexDigit(byte(u>>4&0xF)), hexDigit(byte(u&0xF)))
}

func hexDigit(b byte) byte {
	if b < 10 {
		return '0' + b
	}
	return 'a' + (b - 10)
}
