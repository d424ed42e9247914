// SPDX-License-Identifier: GPL-2.0-or-later

package vec

import (
	"github.com/chewxy/math32"
)

type Vec3 struct {
	X, Y, Z float32
}

func VFromA(a [3]float32) Vec3 {
	return Vec3{a[0], a[1], a[2]}
}

// VFromInts converts integer coordinates like the ones of nodes and leafs.
func VFromInts(a [3]int32) Vec3 {
	return Vec3{float32(a[0]), float32(a[1]), float32(a[2])}
}

func (v Vec3) Array() [3]float32 {
	return [3]float32{v.X, v.Y, v.Z}
}

// Length returns the length of the vector
func (v Vec3) Length() float32 {
	return math32.Sqrt(Dot(v, v))
}

// Sub returns a - b
func Sub(a, b Vec3) Vec3 {
	return Vec3{
		X: a.X - b.X,
		Y: a.Y - b.Y,
		Z: a.Z - b.Z,
	}
}

// Dot returns a dot b
func Dot(a Vec3, b Vec3) float32 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

func minmax(a, b float32) (float32, float32) {
	if a < b {
		return a, b
	}
	return b, a
}

// MinMax sorts the components of a and b into a component wise minimum and maximum.
func MinMax(a, b Vec3) (Vec3, Vec3) {
	var r, s Vec3
	r.X, s.X = minmax(a.X, b.X)
	r.Y, s.Y = minmax(a.Y, b.Y)
	r.Z, s.Z = minmax(a.Z, b.Z)
	return r, s
}

// Union returns the box enclosing the boxes [amin,amax] and [bmin,bmax].
func Union(amin, amax, bmin, bmax Vec3) (Vec3, Vec3) {
	mi, _ := MinMax(amin, bmin)
	_, ma := MinMax(amax, bmax)
	return mi, ma
}

// IsUnit reports whether v has length 1 within eps.
func (v Vec3) IsUnit(eps float32) bool {
	return math32.Abs(v.Length()-1) <= eps
}
