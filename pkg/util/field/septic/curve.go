// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package septic

import (
	"github.com/consensys/go-zkvm/pkg/util/field"
)

// Point on a curve in affine coordinates.  The point at infinity has no
// representation.
type Point[F field.Element[F]] struct {
	X Element[F]
	Y Element[F]
}

// Equals checks whether two points are identical.
func (p Point[F]) Equals(q Point[F]) bool {
	return p.X.Equals(q.X) && p.Y.Equals(q.Y)
}

func (p Point[F]) String() string {
	return "(" + p.X.String() + ", " + p.Y.String() + ")"
}

// Curve y² = x³ + A·x + B over the septic extension, with A = 2 and B = 26·z⁵.
type Curve[F field.Element[F]] struct {
	field *Field[F]
	a, b  Element[F]
}

// NewCurve constructs the curve over a given extension.
func NewCurve[F field.Element[F]](f *Field[F]) *Curve[F] {
	var b Element[F]
	//
	b[5] = field.Uint64[F](26)
	//
	return &Curve[F]{f, f.FromBase(field.Uint64[F](2)), b}
}

// Field returns the extension over which this curve is defined.
func (c *Curve[F]) Field() *Field[F] {
	return c.field
}

// IsOnCurve checks whether p satisfies the curve equation.
func (c *Curve[F]) IsOnCurve(p Point[F]) bool {
	return c.field.Square(p.Y).Equals(c.rhs(p.X))
}

// Neg returns (x, -y).
func (c *Curve[F]) Neg(p Point[F]) Point[F] {
	return Point[F]{p.X, c.field.Neg(p.Y)}
}

// Add computes p + q.  The result is false if the sum is the point at
// infinity (i.e. q = -p).
func (c *Curve[F]) Add(p, q Point[F]) (Point[F], bool) {
	var f = c.field
	//
	if p.X.Equals(q.X) {
		if p.Y.Equals(q.Y) {
			return c.Double(p)
		}
		//
		return Point[F]{}, false
	}
	// λ = (y₂ - y₁) / (x₂ - x₁)
	lambda := f.Mul(f.Sub(q.Y, p.Y), f.Inverse(f.Sub(q.X, p.X)))
	//
	return c.chord(p, q.X, lambda), true
}

// Double computes 2·p.  The result is false if the sum is the point at
// infinity (i.e. y = 0).
func (c *Curve[F]) Double(p Point[F]) (Point[F], bool) {
	var f = c.field
	//
	if p.Y.IsZero() {
		return Point[F]{}, false
	}
	// λ = (3x² + A) / 2y
	x2 := f.Square(p.X)
	num := f.Add(f.Add(f.Add(x2, x2), x2), c.a)
	lambda := f.Mul(num, f.Inverse(f.Add(p.Y, p.Y)))
	//
	return c.chord(p, p.X, lambda), true
}

// LiftX finds the canonical point whose x-coordinate is x, returning false if
// x³ + A·x + B is not a square.  Of the two candidate points, the one whose y
// coordinate is not negative is chosen.
func (c *Curve[F]) LiftX(x Element[F]) (Point[F], bool) {
	y, ok := c.field.Sqrt(c.rhs(x))
	//
	if !ok {
		return Point[F]{}, false
	} else if c.field.IsNegative(y) {
		y = c.field.Neg(y)
	}
	//
	return Point[F]{x, y}, true
}

// x₃ = λ² - x₁ - x₂, y₃ = λ(x₁ - x₃) - y₁
func (c *Curve[F]) chord(p Point[F], x2 Element[F], lambda Element[F]) Point[F] {
	var f = c.field
	//
	x3 := f.Sub(f.Sub(f.Square(lambda), p.X), x2)
	y3 := f.Sub(f.Mul(lambda, f.Sub(p.X, x3)), p.Y)
	//
	return Point[F]{x3, y3}
}

// x³ + A·x + B
func (c *Curve[F]) rhs(x Element[F]) Element[F] {
	var f = c.field
	//
	return f.Add(f.Add(f.Mul(f.Square(x), x), f.Mul(c.a, x)), c.b)
}
