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

// Package babybear provides the BabyBear field p = 15·2²⁷ + 1, the default
// field of the machine, as a field.Element.
package babybear

import (
	"encoding/binary"
	"math/big"

	gnark "github.com/consensys/gnark-crypto/field/babybear"
)

// Element wraps gnark.Element to conform
// to the field.Element interface.
type Element struct {
	gnark.Element
}

// Modulus of the field.
var modulus = gnark.Modulus()

// New constructs an element from its canonical value.
func New(val uint32) Element {
	var elem Element
	//
	return elem.SetUint64(uint64(val))
}

// Add x + y
func (x Element) Add(y Element) Element {
	var res gnark.Element
	//
	res.Add(&x.Element, &y.Element)
	//
	return Element{res}
}

// Cmp returns 1 if x > y, 0 if x = y, and -1 if x < y.
func (x Element) Cmp(y Element) int {
	return x.Element.Cmp(&y.Element)
}

// Equals implementation for the Element interface.
func (x Element) Equals(y Element) bool {
	return x.Element.Equal(&y.Element)
}

// Inverse x⁻¹, or 0 if x = 0.
func (x Element) Inverse() Element {
	var elem gnark.Element
	//
	elem.Inverse(&x.Element)
	//
	return Element{elem}
}

// IsOne implementation for the Element interface
func (x Element) IsOne() bool {
	return x.Element.IsOne()
}

// IsZero implementation for the Element interface
func (x Element) IsZero() bool {
	return x.Element.IsZero()
}

// Modulus implementation for the Element interface
func (x Element) Modulus() *big.Int {
	return new(big.Int).Set(modulus)
}

// Mul x * y
func (x Element) Mul(y Element) Element {
	var elem gnark.Element
	//
	elem.Mul(&x.Element, &y.Element)
	//
	return Element{elem}
}

// Neg -x
func (x Element) Neg() Element {
	var elem gnark.Element
	//
	elem.Neg(&x.Element)
	//
	return Element{elem}
}

// Sub x - y
func (x Element) Sub(y Element) Element {
	var elem gnark.Element
	//
	elem.Sub(&x.Element, &y.Element)
	//
	return Element{elem}
}

// SetUint64 implementation for Element.
func (x Element) SetUint64(val uint64) Element {
	x.Element.SetUint64(val)
	//
	return x
}

// Uint64 returns the canonical value of x.
func (x Element) Uint64() uint64 {
	bytes := x.Element.Bytes()
	//
	return uint64(binary.BigEndian.Uint32(bytes[:]))
}

func (x Element) String() string {
	return x.Element.String()
}

// Text implementation for the Element interface
func (x Element) Text(base int) string {
	return x.Element.Text(base)
}
