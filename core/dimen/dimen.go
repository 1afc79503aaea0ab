// Package dimen implements layout geometry and markup units.
//
/*
BSD License

Copyright (c) 2017–21, Norbert Pillmayer (norbert@pillmayer.com)

All rights reserved.

Redistribution and use in source and binary forms, with or without
modification, are permitted provided that the following conditions
are met:

1. Redistributions of source code must retain the above copyright
notice, this list of conditions and the following disclaimer.

2. Redistributions in binary form must reproduce the above copyright
notice, this list of conditions and the following disclaimer in the
documentation and/or other materials provided with the distribution.

3. Neither the name of this software nor the names of its contributors
may be used to endorse or promote products derived from this software
without specific prior written permission.

THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS
"AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT
LIMITED TO, THE IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR
A PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT
HOLDER OR CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL,
SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT
LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES; LOSS OF USE,
DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER CAUSED AND ON ANY
THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT
(INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.  */
package dimen

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/chewxy/math32"
)

// Layout space uses float32 units with the y-axis pointing up. A glyph's
// baseline sits at y=0 of its line, line offsets grow downwards.

// Large values bracket running minimum and maximum computations.
const (
	LargePositive float32 = 32767
	LargeNegative float32 = -32767
)

// Epsilon is the tolerance used for bounds checks.
const Epsilon float32 = 0.0001

// Vec2 is a 2-dimensional vector.
type Vec2 struct {
	X, Y float32
}

// Vec3 is a 3-dimensional vector, used for vertex positions.
type Vec3 struct {
	X, Y, Z float32
}

// Vec4 is a 4-dimensional vector, used for texture coordinates with
// packed extra data.
type Vec4 struct {
	X, Y, Z, W float32
}

// V3 creates a Vec3 in the z=0 plane.
func V3(x, y float32) Vec3 {
	return Vec3{X: x, Y: y}
}

// Add returns v+w.
func (v Vec3) Add(w Vec3) Vec3 {
	return Vec3{v.X + w.X, v.Y + w.Y, v.Z + w.Z}
}

// Sub returns v-w.
func (v Vec3) Sub(w Vec3) Vec3 {
	return Vec3{v.X - w.X, v.Y - w.Y, v.Z - w.Z}
}

// Scale returns v*f.
func (v Vec3) Scale(f float32) Vec3 {
	return Vec3{v.X * f, v.Y * f, v.Z * f}
}

// XY drops the z-coordinate.
func (v Vec3) XY() Vec2 {
	return Vec2{v.X, v.Y}
}

// Rotate rotates v around center by angle (degrees, counter-clockwise).
func (v Vec3) Rotate(center Vec3, angle float32) Vec3 {
	if angle == 0 {
		return v
	}
	rad := angle * math32.Pi / 180
	sin, cos := math32.Sin(rad), math32.Cos(rad)
	d := v.Sub(center)
	return Vec3{
		X: center.X + d.X*cos - d.Y*sin,
		Y: center.Y + d.X*sin + d.Y*cos,
		Z: v.Z,
	}
}

func (v Vec3) String() string {
	return fmt.Sprintf("(%.2f,%.2f)", v.X, v.Y)
}

// Extents is an axis aligned bounding box, possibly empty.
type Extents struct {
	Min, Max Vec2
}

// EmptyExtents returns extents which contain no point.
func EmptyExtents() Extents {
	return Extents{
		Min: Vec2{LargePositive, LargePositive},
		Max: Vec2{LargeNegative, LargeNegative},
	}
}

// IsEmpty is true if e contains no point.
func (e Extents) IsEmpty() bool {
	return e.Min.X > e.Max.X || e.Min.Y > e.Max.Y
}

// Include returns extents enlarged to contain p.
func (e Extents) Include(p Vec2) Extents {
	e.Min.X = math32.Min(e.Min.X, p.X)
	e.Min.Y = math32.Min(e.Min.Y, p.Y)
	e.Max.X = math32.Max(e.Max.X, p.X)
	e.Max.Y = math32.Max(e.Max.Y, p.Y)
	return e
}

// Width returns the horizontal size of e, 0 if empty.
func (e Extents) Width() float32 {
	if e.IsEmpty() {
		return 0
	}
	return e.Max.X - e.Min.X
}

// Height returns the vertical size of e, 0 if empty.
func (e Extents) Height() float32 {
	if e.IsEmpty() {
		return 0
	}
	return e.Max.Y - e.Min.Y
}

// Rect is a rectangle in layout space.
type Rect struct {
	Min, Max Vec2
}

// RectWH creates a rectangle with its bottom left corner at the origin.
func RectWH(w, h float32) Rect {
	return Rect{Max: Vec2{w, h}}
}

// Width returns the width of a rectangle.
func (r Rect) Width() float32 {
	return r.Max.X - r.Min.X
}

// Height returns the height of a rectangle.
func (r Rect) Height() float32 {
	return r.Max.Y - r.Min.Y
}

// Corners returns the rectangle's corners in the order bottom-left,
// top-left, top-right, bottom-right.
func (r Rect) Corners() [4]Vec3 {
	return [4]Vec3{
		V3(r.Min.X, r.Min.Y),
		V3(r.Min.X, r.Max.Y),
		V3(r.Max.X, r.Max.Y),
		V3(r.Max.X, r.Min.Y),
	}
}

// Margins are insets from a container's edges.
type Margins struct {
	Left, Top, Right, Bottom float32
}

// ---------------------------------------------------------------------------

// Unit is the unit of a markup value.
type Unit uint8

// Units supported in markup values.
const (
	Pixels     Unit = iota // layout units, the default
	FontUnits              // em, relative to the current font size
	Percentage             // relative to a context dependent base
)

func (u Unit) String() string {
	switch u {
	case FontUnits:
		return "em"
	case Percentage:
		return "%"
	}
	return "px"
}

// Value is a number with a unit, as found in markup tags. Sign is
// non-zero for explicitly signed values ("+2", "-2"), which some tags
// interpret as relative to the current value.
type Value struct {
	Number float32
	Unit   Unit
	Sign   int8
}

var valuePattern = regexp.MustCompile(`^([+\-]?)([0-9]*\.?[0-9]+)(px|em|%)?$`)

// ParseValue parses a markup value like "12", "1.5em", "-2" or "80%".
func ParseValue(s string) (Value, error) {
	m := valuePattern.FindStringSubmatch(s)
	if len(m) < 3 {
		return Value{}, errors.New("format error parsing value")
	}
	n, err := strconv.ParseFloat(m[2], 32)
	if err != nil {
		return Value{}, err
	}
	v := Value{Number: float32(n)}
	switch m[1] {
	case "-":
		v.Sign = -1
		v.Number = -v.Number
	case "+":
		v.Sign = 1
	}
	switch m[3] {
	case "em":
		v.Unit = FontUnits
	case "%":
		v.Unit = Percentage
	}
	return v, nil
}

// Resolve converts a value to layout units. em is the size of 1em,
// base is the reference for percentages.
func (v Value) Resolve(em, base float32) float32 {
	switch v.Unit {
	case FontUnits:
		return v.Number * em
	case Percentage:
		return v.Number * base / 100
	}
	return v.Number
}

func (v Value) String() string {
	return fmt.Sprintf("%g%s", v.Number, v.Unit)
}

// Approx is true if a and b differ by less than Epsilon.
func Approx(a, b float32) bool {
	return math32.Abs(a-b) < Epsilon
}
