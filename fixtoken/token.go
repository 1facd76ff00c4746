// Package fixtoken is an order-preserving JSON tokenizer for fixture files.
//
// It is not a general-purpose JSON parser. It keeps object members in the
// order they were written, keeps the lexical distinction between integer and
// floating-point number tokens, and preserves negative zero, so that a parsed
// fixture can be re-serialized byte for byte by fixjson.
package fixtoken

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/lattice-substrate/decimal-parity/parityerr"
)

// Limits for denial-of-service protection.
const (
	// DefaultMaxDepth is the maximum nesting depth for objects and arrays.
	DefaultMaxDepth = 64

	// DefaultMaxInputSize is the maximum input size in bytes (64 MiB).
	DefaultMaxInputSize = 64 * 1024 * 1024
)

// Value represents a parsed JSON value.
type Value struct {
	Kind    Kind
	Str     string   // For KindString: the decoded string; for KindBool: "true" or "false"
	Int     int64    // For KindInteger
	Num     float64  // For KindDouble; the sign of zero is kept
	Members []Member // For KindObject: members in written order
	Elems   []Value  // For KindArray: ordered elements
}

// Kind identifies the type of a JSON value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInteger
	KindDouble
	KindString
	KindArray
	KindObject
)

var kindNames = [...]string{"null", "bool", "integer", "double", "string", "array", "object"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Member is a key-value pair in a JSON object.
type Member struct {
	Key   string
	Value Value
}

// Lookup returns the member value stored under key.
func (v *Value) Lookup(key string) (*Value, bool) {
	for i := range v.Members {
		if v.Members[i].Key == key {
			return &v.Members[i].Value, true
		}
	}
	return nil, false
}

// Keys returns the member names of an object in written order.
func (v *Value) Keys() []string {
	keys := make([]string, len(v.Members))
	for i := range v.Members {
		keys[i] = v.Members[i].Key
	}
	return keys
}

// Options controls parser behavior.
type Options struct {
	MaxDepth     int // 0 means DefaultMaxDepth
	MaxInputSize int // 0 means DefaultMaxInputSize
}

func (o *Options) maxDepth() int {
	if o != nil && o.MaxDepth > 0 {
		return o.MaxDepth
	}
	return DefaultMaxDepth
}

func (o *Options) maxInputSize() int {
	if o != nil && o.MaxInputSize > 0 {
		return o.MaxInputSize
	}
	return DefaultMaxInputSize
}

type parser struct {
	data     []byte
	pos      int
	depth    int
	maxDepth int
}

// Parse parses a complete JSON text. Errors are *parityerr.Error values of
// class FixtureDecode whose Offset is the byte position of the problem.
//
// Constraints enforced:
//   - No duplicate object member names
//   - No lone surrogates in \uXXXX escapes
//   - Valid UTF-8 only
//   - No non-finite or out-of-range numbers
//   - Nesting depth bounded by MaxDepth
//   - Input size bounded by MaxInputSize
func Parse(data []byte) (*Value, error) {
	return ParseWithOptions(data, nil)
}

// ParseWithOptions is like Parse but accepts configuration options.
func ParseWithOptions(data []byte, opts *Options) (*Value, error) {
	maxInput := opts.maxInputSize()
	if len(data) > maxInput {
		return nil, parityerr.Newf(parityerr.FixtureDecode, 0, "input size %d exceeds maximum %d", len(data), maxInput)
	}

	p := &parser{data: data, maxDepth: opts.maxDepth()}

	p.skipWhitespace()
	v, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	p.skipWhitespace()
	if p.pos != len(p.data) {
		return nil, p.errorf("trailing content after JSON value")
	}
	return v, nil
}

func (p *parser) errorf(format string, args ...any) error {
	return p.errorAt(p.pos, format, args...)
}

func (p *parser) errorAt(offset int, format string, args ...any) error {
	return parityerr.Newf(parityerr.FixtureDecode, offset, format, args...)
}

func (p *parser) peek() (byte, bool) {
	if p.pos >= len(p.data) {
		return 0, false
	}
	return p.data[p.pos], true
}

func (p *parser) expect(b byte) error {
	c, ok := p.peek()
	if !ok {
		return p.errorf("unexpected end of input, expected %q", string(b))
	}
	if c != b {
		return p.errorf("expected %q, got %q", string(b), string(c))
	}
	p.pos++
	return nil
}

func (p *parser) skipWhitespace() {
	for p.pos < len(p.data) {
		switch p.data[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *parser) parseValue() (*Value, error) {
	c, ok := p.peek()
	if !ok {
		return nil, p.errorf("unexpected end of input")
	}

	switch c {
	case '{':
		return p.parseObject()
	case '[':
		return p.parseArray()
	case '"':
		return p.parseString()
	case 't', 'f', 'n':
		return p.parseLiteral()
	default:
		return p.parseNumber()
	}
}

func (p *parser) enter() error {
	p.depth++
	if p.depth > p.maxDepth {
		return p.errorf("nesting depth %d exceeds maximum %d", p.depth, p.maxDepth)
	}
	return nil
}

func (p *parser) parseObject() (*Value, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer func() { p.depth-- }()

	if err := p.expect('{'); err != nil {
		return nil, err
	}
	p.skipWhitespace()

	v := &Value{Kind: KindObject}
	if c, ok := p.peek(); ok && c == '}' {
		p.pos++
		return v, nil
	}

	seen := make(map[string]int)
	for {
		p.skipWhitespace()
		keyStart := p.pos
		if c, ok := p.peek(); !ok || c != '"' {
			return nil, p.errorf("expected object key")
		}
		key, err := p.parseString()
		if err != nil {
			return nil, err
		}
		if first, dup := seen[key.Str]; dup {
			return nil, p.errorAt(keyStart, "duplicate object key %q (first at byte %d)", key.Str, first)
		}
		seen[key.Str] = keyStart

		p.skipWhitespace()
		if err := p.expect(':'); err != nil {
			return nil, err
		}
		p.skipWhitespace()

		val, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		v.Members = append(v.Members, Member{Key: key.Str, Value: *val})

		p.skipWhitespace()
		c, ok := p.peek()
		switch {
		case !ok:
			return nil, p.errorf("unexpected end of input in object")
		case c == '}':
			p.pos++
			return v, nil
		case c == ',':
			p.pos++
		default:
			return nil, p.errorf("expected ',' or '}' in object, got %q", string(c))
		}
	}
}

func (p *parser) parseArray() (*Value, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer func() { p.depth-- }()

	if err := p.expect('['); err != nil {
		return nil, err
	}
	p.skipWhitespace()

	v := &Value{Kind: KindArray}
	if c, ok := p.peek(); ok && c == ']' {
		p.pos++
		return v, nil
	}

	for {
		p.skipWhitespace()
		elem, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		v.Elems = append(v.Elems, *elem)

		p.skipWhitespace()
		c, ok := p.peek()
		switch {
		case !ok:
			return nil, p.errorf("unexpected end of input in array")
		case c == ']':
			p.pos++
			return v, nil
		case c == ',':
			p.pos++
		default:
			return nil, p.errorf("expected ',' or ']' in array, got %q", string(c))
		}
	}
}

// parseString parses a JSON string and decodes all escapes. Surrogate pairs
// are joined into supplementary-plane runes; a lone surrogate is an error.
func (p *parser) parseString() (*Value, error) {
	if err := p.expect('"'); err != nil {
		return nil, err
	}

	var buf []byte
	for {
		if p.pos >= len(p.data) {
			return nil, p.errorf("unterminated string")
		}
		b := p.data[p.pos]

		switch {
		case b == '"':
			p.pos++
			return &Value{Kind: KindString, Str: string(buf)}, nil
		case b == '\\':
			p.pos++
			r, err := p.parseEscape()
			if err != nil {
				return nil, err
			}
			buf = utf8.AppendRune(buf, r)
		case b < 0x20:
			return nil, p.errorf("unescaped control character 0x%02X in string", b)
		default:
			r, size := utf8.DecodeRune(p.data[p.pos:])
			if r == utf8.RuneError && size <= 1 {
				return nil, p.errorf("invalid UTF-8 byte 0x%02X in string", b)
			}
			buf = append(buf, p.data[p.pos:p.pos+size]...)
			p.pos += size
		}
	}
}

func (p *parser) parseEscape() (rune, error) {
	c, ok := p.peek()
	if !ok {
		return 0, p.errorf("unterminated escape sequence")
	}
	p.pos++

	switch c {
	case '"', '\\', '/':
		return rune(c), nil
	case 'b':
		return '\b', nil
	case 'f':
		return '\f', nil
	case 'n':
		return '\n', nil
	case 'r':
		return '\r', nil
	case 't':
		return '\t', nil
	case 'u':
		return p.parseUnicodeEscape()
	default:
		return 0, p.errorAt(p.pos-1, "invalid escape character %q", string(c))
	}
}

// parseUnicodeEscape parses \uXXXX and \uXXXX\uXXXX surrogate pairs.
func (p *parser) parseUnicodeEscape() (rune, error) {
	r1, err := p.readHex4()
	if err != nil {
		return 0, err
	}
	if !utf16.IsSurrogate(r1) {
		return r1, nil
	}
	if r1 >= 0xDC00 {
		return 0, p.errorf("lone low surrogate U+%04X", r1)
	}
	if p.pos+1 >= len(p.data) || p.data[p.pos] != '\\' || p.data[p.pos+1] != 'u' {
		return 0, p.errorf("lone high surrogate U+%04X", r1)
	}
	p.pos += 2
	r2, err := p.readHex4()
	if err != nil {
		return 0, err
	}
	decoded := utf16.DecodeRune(r1, r2)
	if decoded == unicode.ReplacementChar {
		return 0, p.errorf("high surrogate U+%04X followed by U+%04X", r1, r2)
	}
	return decoded, nil
}

func (p *parser) readHex4() (rune, error) {
	if p.pos+4 > len(p.data) {
		return 0, p.errorf("incomplete \\u escape")
	}
	hex := string(p.data[p.pos : p.pos+4])
	val, err := strconv.ParseUint(hex, 16, 16)
	if err != nil {
		return 0, p.errorf("invalid hex in \\u escape: %q", hex)
	}
	p.pos += 4
	return rune(val), nil
}

// parseNumber scans an RFC 8259 number token. Tokens without a fraction or
// exponent are integers; everything else is a double.
func (p *parser) parseNumber() (*Value, error) {
	start := p.pos
	isDigit := func() bool {
		return p.pos < len(p.data) && p.data[p.pos] >= '0' && p.data[p.pos] <= '9'
	}

	if c, ok := p.peek(); ok && c == '-' {
		p.pos++
	}
	c, ok := p.peek()
	switch {
	case !ok:
		return nil, p.errorf("unexpected end of input in number")
	case c == '0':
		p.pos++
		if isDigit() {
			return nil, p.errorf("leading zero in number")
		}
	case c >= '1' && c <= '9':
		for isDigit() {
			p.pos++
		}
	default:
		return nil, p.errorf("invalid number character %q", string(c))
	}

	integer := true
	if c, ok := p.peek(); ok && c == '.' {
		integer = false
		p.pos++
		if !isDigit() {
			return nil, p.errorf("expected digit after decimal point")
		}
		for isDigit() {
			p.pos++
		}
	}
	if c, ok := p.peek(); ok && (c == 'e' || c == 'E') {
		integer = false
		p.pos++
		if c, ok := p.peek(); ok && (c == '+' || c == '-') {
			p.pos++
		}
		if !isDigit() {
			return nil, p.errorf("expected digit in exponent")
		}
		for isDigit() {
			p.pos++
		}
	}

	raw := string(p.data[start:p.pos])
	if integer {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, p.errorAt(start, "integer %q out of range", raw)
		}
		return &Value{Kind: KindInteger, Int: n}, nil
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsInf(f, 0) {
		return nil, p.errorAt(start, "number %q overflows IEEE 754 double", raw)
	}
	if f == 0 && !isZeroToken(raw) {
		return nil, p.errorAt(start, "number %q underflows to zero", raw)
	}
	return &Value{Kind: KindDouble, Num: f}, nil
}

// isZeroToken reports whether every significand digit of a number token is 0.
func isZeroToken(raw string) bool {
	sig, _, _ := strings.Cut(strings.ToLower(strings.TrimPrefix(raw, "-")), "e")
	return strings.Trim(sig, "0.") == ""
}

func (p *parser) parseLiteral() (*Value, error) {
	for _, lit := range [...]string{"true", "false", "null"} {
		if p.pos+len(lit) <= len(p.data) && string(p.data[p.pos:p.pos+len(lit)]) == lit {
			p.pos += len(lit)
			if lit == "null" {
				return &Value{Kind: KindNull}, nil
			}
			return &Value{Kind: KindBool, Str: lit}, nil
		}
	}
	return nil, p.errorf("invalid literal")
}
