// Package layout implements the flexbox resolution step for one container.
//
// It supports row/column directions, six justify modes, four align modes,
// padding, gap, grow/shrink distribution, and min/max constraints applied with
// the vectorized clamp in internal/simd. Types are re-exported through the
// root gui package for public consumption.
//
// The main entry point is [Resolve], which takes a container style, the
// styles of its children, and the container's size, and computes one
// parent-relative [Rect] per child.
package layout
