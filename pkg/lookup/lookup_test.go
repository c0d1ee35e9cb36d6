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
package lookup

import (
	"math/rand/v2"
	"testing"

	"github.com/consensys/go-zkvm/pkg/record"
	"github.com/consensys/go-zkvm/pkg/util/assert"
	"github.com/consensys/go-zkvm/pkg/util/field"
	"github.com/consensys/go-zkvm/pkg/util/field/babybear"
	"github.com/consensys/go-zkvm/pkg/util/field/koalabear"
	"github.com/consensys/go-zkvm/pkg/util/field/mersenne31"
	"github.com/consensys/go-zkvm/pkg/util/field/septic"
)

func Test_U8Range_BabyBear(t *testing.T) {
	checkU8Range[babybear.Element](t)
}

func Test_U8Range_KoalaBear(t *testing.T) {
	checkU8Range[koalabear.Element](t)
}

func Test_U8Range_Mersenne31(t *testing.T) {
	checkU8Range[mersenne31.Element](t)
}

func Test_Partitioning(t *testing.T) {
	var (
		one = field.One[babybear.Element]()
		v   = babybear.New(42)
	)
	// different kinds never cancel
	c := NewCollector[babybear.Element]()
	c.Looked(Alu, REGIONAL, one, v)
	c.Looking(Byte, REGIONAL, one, v)
	assert.Equal(t, 2, len(Balance(c.Interactions())))
	// nor do different scopes
	c = NewCollector[babybear.Element]()
	c.Looked(Memory, REGIONAL, one, v)
	c.Looking(Memory, GLOBAL, one, v)
	assert.Equal(t, 2, len(Balance(c.Interactions())))
	assert.Equal(t, 1, len(c.Filter(GLOBAL)))
	// nor do tuples of different lengths
	c = NewCollector[babybear.Element]()
	c.Looked(Memory, REGIONAL, one, v)
	c.Looking(Memory, REGIONAL, one, v, field.Zero[babybear.Element]())
	assert.Equal(t, 2, len(Balance(c.Interactions())))
	// zero multiplicities are ignored
	c = NewCollector[babybear.Element]()
	c.Looked(Memory, REGIONAL, field.Zero[babybear.Element](), v)
	assert.Equal(t, 0, c.Len())
}

func Test_Balance_Permutation(t *testing.T) {
	var (
		ext, _ = septic.NewField[babybear.Element]()
		c      = NewCollector[babybear.Element]()
		tuples [][]babybear.Element
	)
	//
	for range 100 {
		tuples = append(tuples, []babybear.Element{babybear.New(rand.Uint32N(1000)), babybear.New(rand.Uint32N(1000))})
	}
	// provide each tuple twice in one go, consume it twice separately
	for _, tuple := range tuples {
		c.Looked(Memory, REGIONAL, babybear.New(2), tuple...)
	}
	//
	for _, i := range rand.Perm(2 * len(tuples)) {
		c.Looking(Memory, REGIONAL, field.One[babybear.Element](), tuples[i/2]...)
	}
	//
	assert.Equal(t, 0, len(Balance(c.Interactions())))
	//
	sum, err := LogUpSum(ext, randomChallenges(ext), c.Interactions())
	assert.NoError(t, err)
	assert.True(t, sum.IsZero())
}

func Test_DegenerateChallenge(t *testing.T) {
	var (
		ext, _ = septic.NewField[babybear.Element]()
		c      = NewCollector[babybear.Element]()
		ch     = randomChallenges(ext)
	)
	//
	c.Looked(Range, REGIONAL, field.One[babybear.Element](), babybear.New(7))
	ch.Alpha = Fingerprint(ext, ch.Beta, c.Interactions()[0])
	//
	_, err := LogUpSum(ext, ch, c.Interactions())
	assert.ErrorIs(t, err, ErrDegenerateChallenge)
}

func checkU8Range[F field.Element[F]](t *testing.T) {
	var (
		ext, err = septic.NewField[F]()
		one      = field.One[F]()
		two      = field.Uint64[F](2)
		event    = record.NewByteLookup(record.U8Range, 17, 250)
		values   = []F{
			field.Uint64[F](uint64(event.Opcode)), field.Uint64[F](uint64(event.A1)),
			field.Uint64[F](uint64(event.A2)), field.Uint64[F](uint64(event.B)), field.Uint64[F](uint64(event.C)),
		}
	)
	//
	assert.NoError(t, err)
	//
	for _, mults := range [][2]F{{one, one}, {two, one}, {one, two}} {
		c := NewCollector[F]()
		c.Looked(Byte, REGIONAL, mults[0], values...)
		c.Looking(Byte, REGIONAL, mults[1], values...)
		//
		balanced := mults[0].Equals(mults[1])
		imbalances := Balance(c.Interactions())
		assert.Equal(t, balanced, len(imbalances) == 0)
		//
		sum, err := LogUpSum(ext, randomChallenges(ext), c.Interactions())
		assert.NoError(t, err)
		assert.Equal(t, balanced, sum.IsZero())
	}
}

func randomChallenges[F field.Element[F]](ext *septic.Field[F]) Challenges[F] {
	var alpha, beta [septic.Degree]uint64
	//
	for i := range septic.Degree {
		alpha[i], beta[i] = rand.Uint64(), rand.Uint64()
	}
	//
	return Challenges[F]{ext.FromUint64s(alpha), ext.FromUint64s(beta)}
}
