package fixjson

import "github.com/lattice-substrate/decimal-parity/fixtoken"

// Constructors for building fixture value trees.

func String(s string) fixtoken.Value {
	return fixtoken.Value{Kind: fixtoken.KindString, Str: s}
}

func Bool(b bool) fixtoken.Value {
	if b {
		return fixtoken.Value{Kind: fixtoken.KindBool, Str: "true"}
	}
	return fixtoken.Value{Kind: fixtoken.KindBool, Str: "false"}
}

func integer(n int) fixtoken.Value {
	return fixtoken.Value{Kind: fixtoken.KindInteger, Int: int64(n)}
}

// Double keeps the sign of zero.
func Double(f float64) fixtoken.Value {
	return fixtoken.Value{Kind: fixtoken.KindDouble, Num: f}
}

// Pair is one object member.
func Pair(key string, v fixtoken.Value) fixtoken.Member {
	return fixtoken.Member{Key: key, Value: v}
}

// Object builds an object whose members keep the given order.
func Object(members ...fixtoken.Member) fixtoken.Value {
	return fixtoken.Value{Kind: fixtoken.KindObject, Members: members}
}

func Array(elems ...fixtoken.Value) fixtoken.Value {
	if elems == nil {
		elems = []fixtoken.Value{}
	}
	return fixtoken.Value{Kind: fixtoken.KindArray, Elems: elems}
}
