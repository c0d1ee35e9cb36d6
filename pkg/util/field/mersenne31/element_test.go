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
package mersenne31

import (
	"math/big"
	"math/rand/v2"
	"testing"

	"github.com/consensys/go-zkvm/pkg/util/assert"
)

func TestElement_Mul(t *testing.T) {
	var i, j, m big.Int

	m.SetUint64(Modulus)

	for range 10000 {
		a := rand.Uint32N(Modulus)
		b := rand.Uint32N(Modulus)

		i.SetUint64(uint64(a)).
			Mul(&i, j.SetUint64(uint64(b))).
			Mod(&i, &m)

		x := New(a).Mul(New(b))

		assert.Equal(t, i.Uint64(), x.Uint64())
	}
}

func TestElement_Montgomery(t *testing.T) {
	var i, m big.Int

	m.SetUint64(Modulus)

	for range 10000 {
		a := rand.Uint32N(Modulus)

		i.SetUint64(uint64(a)).
			Lsh(&i, 32). // Montgomery form
			Mod(&i, &m)

		assert.Equal(t, i.Uint64(), New(a)[0])
		assert.Equal(t, uint64(a), New(a).Uint64())
	}
}

func TestElement_Inverse(t *testing.T) {
	var i, m big.Int

	m.SetUint64(Modulus)

	for range 10000 {
		a := 1 + rand.Uint32N(Modulus-1)

		i.SetUint64(uint64(a)).
			ModInverse(&i, &m)

		x := New(a).Inverse()

		assert.Equal(t, i.Uint64(), x.Uint64(), "inverse of %d", a)
	}

	assert.True(t, Element{}.Inverse().IsZero())
}

func TestElement_Sub(t *testing.T) {
	var i, j, m big.Int

	m.SetUint64(Modulus)

	for range 10000 {
		a := rand.Uint32N(Modulus)
		b := rand.Uint32N(Modulus)

		i.SetUint64(uint64(a)).
			Sub(&i, j.SetUint64(uint64(b))).
			Mod(&i, &m)

		x := New(a).Sub(New(b))

		assert.Equal(t, i.Uint64(), x.Uint64())
		assert.True(t, x.Add(New(b)).Equals(New(a)))
	}
}

func TestElement_Cmp(t *testing.T) {
	for range 1000 {
		a := rand.Uint32N(Modulus)
		b := rand.Uint32N(Modulus)

		switch {
		case a < b:
			assert.Equal(t, -1, New(a).Cmp(New(b)))
		case a > b:
			assert.Equal(t, 1, New(a).Cmp(New(b)))
		default:
			assert.Equal(t, 0, New(a).Cmp(New(b)))
		}
	}
}
