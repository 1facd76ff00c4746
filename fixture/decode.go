package fixture

import (
	"fmt"
	"math"
	"strings"

	"github.com/lattice-substrate/decimal-parity/fixtoken"
	"github.com/lattice-substrate/decimal-parity/locale"
	"github.com/lattice-substrate/decimal-parity/oracle"
	"github.com/lattice-substrate/decimal-parity/parityerr"
)

// Decode parses tests.json back into records. Every object must carry
// exactly the success or failure key set, in fixture order.
func Decode(data []byte) ([]oracle.FormatCase, error) {
	root, err := fixtoken.Parse(data)
	if err != nil {
		return nil, err
	}
	if root.Kind != fixtoken.KindArray {
		return nil, parityerr.Newf(parityerr.FixtureDecode, -1, "tests: top-level value is %s, want array", root.Kind)
	}
	out := make([]oracle.FormatCase, len(root.Elems))
	for i := range root.Elems {
		c, err := decodeCase(&root.Elems[i])
		if err != nil {
			return nil, parityerr.Wrap(parityerr.FixtureDecode, -1, fmt.Sprintf("tests[%d]", i), err)
		}
		out[i] = c
	}
	return out, nil
}

func decodeCase(v *fixtoken.Value) (oracle.FormatCase, error) {
	var c oracle.FormatCase
	if v.Kind != fixtoken.KindObject {
		return c, fmt.Errorf("record is %s, want object", v.Kind)
	}
	ok, err := boolField(v, "success")
	if err != nil {
		return c, err
	}
	want := failureKeys
	if ok {
		want = successKeys
	}
	if err := checkKeys(v, want); err != nil {
		return c, err
	}

	c.Success = ok
	if c.Pattern, err = stringField(v, "pattern"); err != nil {
		return c, err
	}
	if !ok {
		c.Error, err = stringField(v, "error")
		return c, err
	}

	strs := []struct {
		key string
		dst *string
	}{
		{"positivePrefix", &c.PositivePrefix},
		{"positiveSuffix", &c.PositiveSuffix},
		{"negativePrefix", &c.NegativePrefix},
		{"negativeSuffix", &c.NegativeSuffix},
		{"output", &c.Output},
	}
	for _, s := range strs {
		if *s.dst, err = stringField(v, s.key); err != nil {
			return c, err
		}
	}
	in, _ := v.Lookup("input")
	if in.Kind != fixtoken.KindDouble {
		return c, fmt.Errorf("input is %s, want double", in.Kind)
	}
	c.Input = in.Num

	ints := []struct {
		key string
		dst *int
	}{
		{"groupingSize", &c.GroupingSize},
		{"maximumFractionDigits", &c.MaximumFractionDigits},
		{"maximumIntegerDigits", &c.MaximumIntegerDigits},
		{"minimumFractionDigits", &c.MinimumFractionDigits},
		{"minimumIntegerDigits", &c.MinimumIntegerDigits},
		{"multiplier", &c.Multiplier},
	}
	for _, n := range ints {
		if *n.dst, err = intField(v, n.key); err != nil {
			return c, err
		}
	}
	return c, nil
}

// DecodeLocale parses locale.json. Only the eight serialized fields of the
// returned Symbols are set.
func DecodeLocale(data []byte) (locale.Symbols, error) {
	var s locale.Symbols
	root, err := fixtoken.Parse(data)
	if err != nil {
		return s, err
	}
	if root.Kind != fixtoken.KindObject {
		return s, parityerr.Newf(parityerr.FixtureDecode, -1, "locale: top-level value is %s, want object", root.Kind)
	}
	if err := checkKeys(root, localeKeys); err != nil {
		return s, parityerr.Wrap(parityerr.FixtureDecode, -1, "locale", err)
	}
	dsts := []*string{
		&s.CurrencySymbol, &s.DecimalSeparator, &s.Digit, &s.ExponentSeparator,
		&s.GroupingSeparator, &s.MinusSign, &s.Percent, &s.PerMill,
	}
	for i, key := range localeKeys {
		if *dsts[i], err = stringField(root, key); err != nil {
			return s, parityerr.Wrap(parityerr.FixtureDecode, -1, "locale", err)
		}
	}
	return s, nil
}

func checkKeys(v *fixtoken.Value, want []string) error {
	got := v.Keys()
	if len(got) != len(want) {
		return fmt.Errorf("keys [%s], want [%s]", strings.Join(got, ", "), strings.Join(want, ", "))
	}
	for i := range want {
		if got[i] != want[i] {
			return fmt.Errorf("key %d is %q, want %q", i, got[i], want[i])
		}
	}
	return nil
}

func stringField(v *fixtoken.Value, key string) (string, error) {
	f, ok := v.Lookup(key)
	if !ok {
		return "", fmt.Errorf("missing %q", key)
	}
	if f.Kind != fixtoken.KindString {
		return "", fmt.Errorf("%s is %s, want string", key, f.Kind)
	}
	return f.Str, nil
}

func boolField(v *fixtoken.Value, key string) (bool, error) {
	f, ok := v.Lookup(key)
	if !ok {
		return false, fmt.Errorf("missing %q", key)
	}
	if f.Kind != fixtoken.KindBool {
		return false, fmt.Errorf("%s is %s, want bool", key, f.Kind)
	}
	return f.Str == "true", nil
}

// intField reads a derived pattern parameter, written as an integral double.
func intField(v *fixtoken.Value, key string) (int, error) {
	f, ok := v.Lookup(key)
	if !ok {
		return 0, fmt.Errorf("missing %q", key)
	}
	if f.Kind != fixtoken.KindDouble {
		return 0, fmt.Errorf("%s is %s, want double", key, f.Kind)
	}
	if f.Num != math.Trunc(f.Num) || math.Signbit(f.Num) || f.Num > 1<<31-1 {
		return 0, fmt.Errorf("%s is not a non-negative 32-bit integral value: %v", key, f.Num)
	}
	return int(f.Num), nil
}
