package knob

import (
	"hash/fnv"
	"math"
)

// Hash helpers used by the fillHashVector implementations. Each knob
// contributes a flat sequence of u64 words summarizing its
// value-affecting state; the node's content hash is derived from the
// concatenation of these vectors.

func appendBoolHash(dst []uint64, b bool) []uint64 {
	if b {
		return append(dst, 1)
	}
	return append(dst, 0)
}

func appendIntHash(dst []uint64, i int64) []uint64 {
	return append(dst, uint64(i))
}

func appendFloatHash(dst []uint64, f float64) []uint64 {
	return append(dst, math.Float64bits(f))
}

func appendStringHash(dst []uint64, s string) []uint64 {
	return append(dst, hashString(s))
}

// hashString folds a string to a single u64 word (FNV-1a).
func hashString(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}

func appendValueHash(dst []uint64, v Value) []uint64 {
	switch v.Kind() {
	case KindBool:
		return appendBoolHash(dst, v.Bool())
	case KindInt:
		return appendIntHash(dst, int64(v.Int()))
	case KindDouble:
		return appendFloatHash(dst, v.Double())
	case KindString:
		return appendStringHash(dst, v.Str())
	}
	return dst
}
