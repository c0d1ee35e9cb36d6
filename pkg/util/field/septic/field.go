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

// Package septic implements the degree seven extension of the base fields
// used by the machine, along with an elliptic curve defined over it.  The
// curve provides the group in which global interactions are accumulated.
package septic

import (
	"errors"
	"fmt"
	"strings"

	"github.com/consensys/go-zkvm/pkg/util/field"
)

// Degree of the extension.
const Degree = 7

// ErrUnsupportedField is returned when no extension parameters are known for a
// given base field.
var ErrUnsupportedField = errors.New("no septic extension for field")

// Element of the extension, represented by its coefficients in the basis
// 1, z, z², ..., z⁶.
type Element[F field.Element[F]] [Degree]F

// IsZero checks whether all coefficients are zero.
func (a Element[F]) IsZero() bool {
	for _, c := range a {
		if !c.IsZero() {
			return false
		}
	}
	//
	return true
}

// Equals checks whether two elements are identical.
func (a Element[F]) Equals(b Element[F]) bool {
	for i := range a {
		if !a[i].Equals(b[i]) {
			return false
		}
	}
	//
	return true
}

// IsBase checks whether a lies in the base field.
func (a Element[F]) IsBase() bool {
	for _, c := range a[1:] {
		if !c.IsZero() {
			return false
		}
	}
	//
	return true
}

func (a Element[F]) String() string {
	var builder strings.Builder
	//
	builder.WriteString("[")
	//
	for i, c := range a {
		if i != 0 {
			builder.WriteString(",")
		}
		//
		builder.WriteString(c.String())
	}
	//
	builder.WriteString("]")
	//
	return builder.String()
}

// Field captures the arithmetic of F[z]/(z⁷ - w₁·z - w₀).
type Field[F field.Element[F]] struct {
	w0, w1 F
	// p of the base field
	modulus uint64
	// frobenius[k-1][i] = z^(i·pᵏ), for 1 <= k < Degree.
	frobenius [Degree - 1][Degree]Element[F]
}

// NewField constructs the extension of F, failing when F is not one of the
// supported base fields.
func NewField[F field.Element[F]]() (*Field[F], error) {
	p := field.Modulus[F]()
	params, ok := parameters[p]
	//
	if !ok {
		return nil, fmt.Errorf("%w (modulus %d)", ErrUnsupportedField, p)
	}
	//
	f := &Field[F]{
		w0:      field.Uint64[F](params.w0),
		w1:      field.Uint64[F](params.w1),
		modulus: p,
	}
	// z^(p^k) for k = 1..6
	zpk := f.Exp(f.Generator(), p)
	//
	for k := range Degree - 1 {
		f.frobenius[k][0] = f.One()
		//
		for i := 1; i < Degree; i++ {
			f.frobenius[k][i] = f.Mul(f.frobenius[k][i-1], zpk)
		}
		//
		zpk = f.Exp(zpk, p)
	}
	//
	return f, nil
}

// Modulus returns p of the base field.
func (f *Field[F]) Modulus() uint64 {
	return f.modulus
}

// Zero returns the additive identity.
func (f *Field[F]) Zero() Element[F] {
	var r Element[F]
	//
	return r
}

// One returns the multiplicative identity.
func (f *Field[F]) One() Element[F] {
	return f.FromBase(field.One[F]())
}

// Generator returns z.
func (f *Field[F]) Generator() Element[F] {
	var r Element[F]
	//
	r[1] = field.One[F]()
	//
	return r
}

// FromBase embeds a base field element.
func (f *Field[F]) FromBase(x F) Element[F] {
	var r Element[F]
	//
	r[0] = x
	//
	return r
}

// FromUint64s constructs an element from (unreduced) coefficients.
func (f *Field[F]) FromUint64s(coeffs [Degree]uint64) Element[F] {
	var r Element[F]
	//
	for i, c := range coeffs {
		r[i] = field.Uint64[F](c)
	}
	//
	return r
}

// Add a + b
func (f *Field[F]) Add(a, b Element[F]) Element[F] {
	for i := range a {
		a[i] = a[i].Add(b[i])
	}
	//
	return a
}

// Sub a - b
func (f *Field[F]) Sub(a, b Element[F]) Element[F] {
	for i := range a {
		a[i] = a[i].Sub(b[i])
	}
	//
	return a
}

// Neg -a
func (f *Field[F]) Neg(a Element[F]) Element[F] {
	for i := range a {
		a[i] = a[i].Neg()
	}
	//
	return a
}

// MulBase a * s, for s in the base field.
func (f *Field[F]) MulBase(a Element[F], s F) Element[F] {
	for i := range a {
		a[i] = a[i].Mul(s)
	}
	//
	return a
}

// Mul a * b
func (f *Field[F]) Mul(a, b Element[F]) Element[F] {
	var c [2*Degree - 1]F
	//
	for i := range a {
		if a[i].IsZero() {
			continue
		}
		//
		for j := range b {
			c[i+j] = c[i+j].Add(a[i].Mul(b[j]))
		}
	}
	// z^k = z^(k-7)·(w₁·z + w₀)
	for k := 2*Degree - 2; k >= Degree; k-- {
		c[k-Degree+1] = c[k-Degree+1].Add(c[k].Mul(f.w1))
		c[k-Degree] = c[k-Degree].Add(c[k].Mul(f.w0))
	}
	//
	var r Element[F]
	//
	copy(r[:], c[:Degree])
	//
	return r
}

// Square a²
func (f *Field[F]) Square(a Element[F]) Element[F] {
	return f.Mul(a, a)
}

// Exp aⁿ
func (f *Field[F]) Exp(a Element[F], n uint64) Element[F] {
	r := f.One()
	//
	for ; n > 0; n >>= 1 {
		if n&1 == 1 {
			r = f.Mul(r, a)
		}
		//
		a = f.Square(a)
	}
	//
	return r
}

// Frobenius applies the k-th power of the Frobenius map, i.e. computes a^(pᵏ).
func (f *Field[F]) Frobenius(a Element[F], k uint) Element[F] {
	k = k % Degree
	if k == 0 {
		return a
	}
	//
	var r Element[F]
	//
	for i, c := range a {
		if !c.IsZero() {
			r = f.Add(r, f.MulBase(f.frobenius[k-1][i], c))
		}
	}
	//
	return r
}

// Norm computes the norm a^(1 + p + ... + p⁶), which lies in the base field.
func (f *Field[F]) Norm(a Element[F]) F {
	return f.Mul(a, f.conjugates(a))[0]
}

// Inverse computes a⁻¹ (or 0 when a = 0) as a^(r-1) / N(a), where r-1 = p +
// ... + p⁶.
func (f *Field[F]) Inverse(a Element[F]) Element[F] {
	if a.IsZero() {
		return a
	}
	//
	rMinusOne := f.conjugates(a)
	norm := f.Mul(a, rMinusOne)[0]
	//
	return f.MulBase(rMinusOne, norm.Inverse())
}

// BatchInverse inverts every element of s in place, sharing a single base
// field inversion between the norms of all elements.  Zero entries are left as
// zero.
func (f *Field[F]) BatchInverse(s []Element[F]) {
	var norms = make([]F, len(s))
	//
	for i, x := range s {
		s[i] = f.conjugates(x)
		norms[i] = f.Mul(x, s[i])[0]
	}
	// zero norms remain zero, as do their conjugates
	field.BatchInvert(norms)
	//
	for i := range s {
		s[i] = f.MulBase(s[i], norms[i])
	}
}

// Sqrt computes a square root of a, returning false when none exists.  Let d =
// a^((r-1)/2), then a·d² = N(a) lies in the base field and, when β² = N(a),
// (β/d)² = a.
func (f *Field[F]) Sqrt(a Element[F]) (Element[F], bool) {
	if a.IsZero() {
		return a, true
	}
	// (r-1)/2 = p·(p+1)/2 + p³·(p+1)/2 + p⁵·(p+1)/2
	b := f.Mul(f.Mul(f.Frobenius(a, 1), f.Frobenius(a, 3)), f.Frobenius(a, 5))
	d := f.Exp(b, (f.modulus+1)/2)
	norm := f.Mul(a, f.Square(d))
	//
	if !norm.IsBase() {
		return a, false
	}
	//
	beta, ok := field.Sqrt(norm[0])
	if !ok {
		return a, false
	}
	//
	y := f.MulBase(f.Inverse(d), beta)
	//
	return y, f.Square(y).Equals(a)
}

// IsNegative gives a canonical choice between y and -y: y is negative when its
// highest non-zero coefficient exceeds (p-1)/2.
func (f *Field[F]) IsNegative(a Element[F]) bool {
	for i := Degree - 1; i >= 0; i-- {
		if !a[i].IsZero() {
			return a[i].Uint64() > (f.modulus-1)/2
		}
	}
	//
	return false
}

// a^(p + p² + ... + p⁶)
func (f *Field[F]) conjugates(a Element[F]) Element[F] {
	r := f.Frobenius(a, 1)
	//
	for k := uint(2); k < Degree; k++ {
		r = f.Mul(r, f.Frobenius(a, k))
	}
	//
	return r
}
