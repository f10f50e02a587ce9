// Package simd implements chunked min/max clamping of float32 sizes.
//
// The chunked kernels process fixed-width lane groups so the compiler can
// drop bounds checks and keep each group in registers. The lane width is
// picked once at startup from the CPU features reported by x/sys/cpu. Every
// kernel produces exactly the result of [Clamp1] for each element.
package simd

import (
	"golang.org/x/exp/constraints"
	"golang.org/x/sys/cpu"
)

// Lanes is the chunk width used by the vector kernels on this machine.
// A value of 1 means every element goes through the scalar path.
var Lanes = detectLanes()

func detectLanes() int {
	switch {
	case cpu.X86.HasAVX2, cpu.X86.HasAVX512F:
		return 8
	case cpu.X86.HasSSE2, cpu.ARM64.HasASIMD:
		return 4
	default:
		return 1
	}
}

// Clamp1 returns min(max(v, lo), hi). When lo > hi the upper bound wins.
func Clamp1[F constraints.Float](v, lo, hi F) F {
	if v < lo {
		v = lo
	}
	if v > hi {
		v = hi
	}
	return v
}

// Clamp writes min(max(values[i], lo[i]), hi[i]) into dst[i] for every i in
// values. dst may alias values. dst, lo and hi must be at least as long as values.
func Clamp(dst, values, lo, hi []float32) {
	n := len(values)
	checkLen(n, len(dst), len(lo), len(hi))
	i := 0
	switch Lanes {
	case 8:
		for ; i+8 <= n; i += 8 {
			clamp8((*[8]float32)(dst[i:]), (*[8]float32)(values[i:]), (*[8]float32)(lo[i:]), (*[8]float32)(hi[i:]))
		}
	case 4:
		for ; i+4 <= n; i += 4 {
			clamp4((*[4]float32)(dst[i:]), (*[4]float32)(values[i:]), (*[4]float32)(lo[i:]), (*[4]float32)(hi[i:]))
		}
	}
	for ; i < n; i++ {
		dst[i] = Clamp1(values[i], lo[i], hi[i])
	}
}

// ClampUniform clamps every element of values to the same [lo, hi] range.
// dst may alias values and must be at least as long as values.
func ClampUniform(dst, values []float32, lo, hi float32) {
	n := len(values)
	checkLen(n, len(dst), n, n)
	i := 0
	switch Lanes {
	case 8:
		var l, h [8]float32
		for k := range l {
			l[k], h[k] = lo, hi
		}
		for ; i+8 <= n; i += 8 {
			clamp8((*[8]float32)(dst[i:]), (*[8]float32)(values[i:]), &l, &h)
		}
	case 4:
		l := [4]float32{lo, lo, lo, lo}
		h := [4]float32{hi, hi, hi, hi}
		for ; i+4 <= n; i += 4 {
			clamp4((*[4]float32)(dst[i:]), (*[4]float32)(values[i:]), &l, &h)
		}
	}
	for ; i < n; i++ {
		dst[i] = Clamp1(values[i], lo, hi)
	}
}

// ClampScalar is the element-at-a-time reference for Clamp.
func ClampScalar(dst, values, lo, hi []float32) {
	checkLen(len(values), len(dst), len(lo), len(hi))
	for i, v := range values {
		dst[i] = Clamp1(v, lo[i], hi[i])
	}
}

// ClampUniformScalar is the element-at-a-time reference for ClampUniform.
func ClampUniformScalar(dst, values []float32, lo, hi float32) {
	checkLen(len(values), len(dst), len(values), len(values))
	for i, v := range values {
		dst[i] = Clamp1(v, lo, hi)
	}
}

// clamp8 applies the max pass then the min pass over one 8-lane group.
func clamp8(dst, v, lo, hi *[8]float32) {
	t := *v
	for k := range t {
		if t[k] < lo[k] {
			t[k] = lo[k]
		}
	}
	for k := range t {
		if t[k] > hi[k] {
			t[k] = hi[k]
		}
	}
	*dst = t
}

// clamp4 applies the max pass then the min pass over one 4-lane group.
func clamp4(dst, v, lo, hi *[4]float32) {
	t := *v
	for k := range t {
		if t[k] < lo[k] {
			t[k] = lo[k]
		}
	}
	for k := range t {
		if t[k] > hi[k] {
			t[k] = hi[k]
		}
	}
	*dst = t
}

func checkLen(n, dst, lo, hi int) {
	if dst < n || lo < n || hi < n {
		panic("simd: destination or bounds shorter than values")
	}
}
