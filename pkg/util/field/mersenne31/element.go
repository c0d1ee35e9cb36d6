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

// Package mersenne31 provides the prime field p = 2³¹ - 1 as a field.Element.
package mersenne31

import (
	"math/big"
	"strconv"
)

// Modulus of the field.
const Modulus = 1<<31 - 1

// Element of the field, represented in Montgomery form to speed up
// multiplications.  It is defined as an array to prevent mistaken use of
// arithmetic operators.
type Element [1]uint32

// -p⁻¹ mod 2³²
var negModulusInvModR = func() uint32 {
	m := big.NewInt(Modulus)
	m.ModInverse(m, big.NewInt(1<<32))
	//
	return uint32(1<<32 - m.Uint64())
}()

// New constructs an element from its canonical value.
func New(val uint32) Element {
	return Element{uint32(uint64(val) << 32 % Modulus)}
}

// Add x + y
func (x Element) Add(y Element) Element {
	res := Element{x[0] + y[0]}
	if res[0] >= Modulus {
		res[0] -= Modulus
	}
	//
	return res
}

// Sub x - y
func (x Element) Sub(y Element) Element {
	const negMask uint32 = 1 << 31
	//
	res := Element{x[0] - y[0]}
	if res[0]&negMask != 0 {
		res[0] += Modulus
	}
	//
	return res
}

// Neg -x
func (x Element) Neg() Element {
	return Element{}.Sub(x)
}

// Mul x * y
func (x Element) Mul(y Element) Element {
	return montgomeryReduce(uint64(x[0]) * uint64(y[0]))
}

// Inverse x⁻¹, or 0 if x = 0.
func (x Element) Inverse() Element {
	// x^(p-2), where p-2 = 2³¹ - 3
	var (
		res  = New(1)
		base = x
	)
	//
	for e := uint32(Modulus - 2); e > 0; e >>= 1 {
		if e&1 == 1 {
			res = res.Mul(base)
		}
		//
		base = base.Mul(base)
	}
	//
	return res
}

// Cmp compares the numerical values of x and y.
func (x Element) Cmp(y Element) int {
	a, b := x.Uint64(), y.Uint64()
	//
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Equals implementation for the Element interface.
func (x Element) Equals(y Element) bool {
	return x == y
}

// IsZero implementation for the Element interface.
func (x Element) IsZero() bool {
	return x[0] == 0
}

// IsOne implementation for the Element interface.
func (x Element) IsOne() bool {
	return x == New(1)
}

// Modulus implementation for the Element interface.
func (x Element) Modulus() *big.Int {
	return big.NewInt(Modulus)
}

// SetUint64 implementation for the Element interface.
func (x Element) SetUint64(val uint64) Element {
	return New(uint32(val % Modulus))
}

// Uint64 returns the numerical (non-Montgomery) value of x.
func (x Element) Uint64() uint64 {
	return uint64(montgomeryReduce(uint64(x[0]))[0])
}

func (x Element) String() string {
	return x.Text(10)
}

// Text implementation for the Element interface.
func (x Element) Text(base int) string {
	return strconv.FormatUint(x.Uint64(), base)
}

// montgomeryReduce x -> x.R⁻¹ (mod m)
func montgomeryReduce(x uint64) Element {
	// textbook Montgomery reduction
	const R = 1 << 32
	// m = x * (-modulus⁻¹) (mod R)
	m := (x * uint64(negModulusInvModR)) % R
	res := Element{uint32((x + m*Modulus) / R)}
	//
	if res[0] >= Modulus {
		res[0] -= Modulus
	}
	//
	return res
}
