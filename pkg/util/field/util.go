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
package field

// Pow takes a given value to the power n.
func Pow[F Element[F]](val F, n uint64) F {
	if n == 0 {
		val = val.SetUint64(1)
	} else if n > 1 {
		m := n / 2
		// Check for odd case
		if n%2 == 1 {
			tmp := val
			val = Pow(val, m)
			val = val.Mul(val).Mul(tmp)
		} else {
			// Even case is easy
			val = Pow(val, m)
			val = val.Mul(val)
		}
	}
	//
	return val
}

// IsSquare applies Euler's criterion to determine whether x is a quadratic
// residue.  Zero is considered a square.
func IsSquare[F Element[F]](x F) bool {
	if x.IsZero() {
		return true
	}
	//
	p := x.Modulus().Uint64()
	//
	return Pow(x, (p-1)/2).IsOne()
}

// Sqrt computes a square root of x using Tonelli-Shanks, returning false when
// x is a quadratic non-residue.  Which of the two roots is returned is
// deterministic but otherwise unspecified.
func Sqrt[F Element[F]](x F) (F, bool) {
	if x.IsZero() {
		return x, true
	} else if !IsSquare(x) {
		return x, false
	}
	//
	var (
		p = x.Modulus().Uint64()
		// p - 1 = q * 2^s with q odd
		q, s     = p - 1, uint(0)
		one      = One[F]()
		minusOne = one.Neg()
	)
	//
	for q%2 == 0 {
		q, s = q/2, s+1
	}
	// Find a non-residue
	z := Uint64[F](2)
	for !Pow(z, (p-1)/2).Equals(minusOne) {
		z = z.Add(one)
	}
	//
	var (
		m = s
		c = Pow(z, q)
		t = Pow(x, q)
		r = Pow(x, (q+1)/2)
	)
	//
	for !t.IsOne() {
		// least i such that t^(2^i) = 1
		i, t2 := uint(0), t
		for !t2.IsOne() {
			t2, i = t2.Mul(t2), i+1
		}
		//
		b := c
		for range m - i - 1 {
			b = b.Mul(b)
		}
		//
		m, c = i, b.Mul(b)
		t, r = t.Mul(c), r.Mul(b)
	}
	//
	return r, true
}
