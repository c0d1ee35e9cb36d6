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
package global

import (
	"math/rand/v2"
	"testing"

	"github.com/consensys/go-zkvm/pkg/lookup"
	"github.com/consensys/go-zkvm/pkg/util/assert"
	"github.com/consensys/go-zkvm/pkg/util/field"
	"github.com/consensys/go-zkvm/pkg/util/field/babybear"
	"github.com/consensys/go-zkvm/pkg/util/field/koalabear"
	"github.com/consensys/go-zkvm/pkg/util/field/mersenne31"
	"github.com/fxamacker/cbor/v2"
)

func Test_LiftTotality(t *testing.T) {
	acc, err := NewAccumulator[babybear.Element]()
	assert.NoError(t, err)
	//
	for range 10000 {
		values := make([]babybear.Element, 1+rand.IntN(8))
		//
		for i := range values {
			values[i] = babybear.New(rand.Uint32())
		}
		//
		p, err := acc.MessagePoint(lookup.Memory, values)
		assert.NoError(t, err)
		assert.True(t, acc.Curve().IsOnCurve(p), "message point %s not on curve", p.String())
	}
}

func Test_FixedPoints(t *testing.T) {
	acc, err := NewAccumulator[babybear.Element]()
	assert.NoError(t, err)
	//
	assert.True(t, acc.Curve().IsOnCurve(acc.Zero().Point()))
	assert.True(t, acc.Curve().IsOnCurve(acc.Start().Point()))
	assert.False(t, acc.Zero().Equals(acc.Start()))
	// deterministic
	other, err := NewAccumulator[babybear.Element]()
	assert.NoError(t, err)
	assert.True(t, acc.Zero().Equals(other.Zero()))
}

func Test_EdgeCases(t *testing.T) {
	acc, err := NewAccumulator[babybear.Element]()
	assert.NoError(t, err)
	// empty set of interactions
	d, err := acc.Fold(nil)
	assert.NoError(t, err)
	assert.True(t, acc.IsZero(d))
	// regional interactions are ignored
	c := lookup.NewCollector[babybear.Element]()
	c.Looked(lookup.Memory, lookup.REGIONAL, field.One[babybear.Element](), babybear.New(1))
	d, err = acc.Fold(c.Interactions())
	assert.NoError(t, err)
	assert.True(t, acc.IsZero(d))
	// no digests
	d, err = acc.Sum()
	assert.NoError(t, err)
	assert.True(t, acc.IsZero(d))
	// a single digest
	c = lookup.NewCollector[babybear.Element]()
	c.Looked(lookup.Memory, lookup.GLOBAL, field.One[babybear.Element](), babybear.New(1))
	d, err = acc.Fold(c.Interactions())
	assert.NoError(t, err)
	assert.False(t, acc.IsZero(d))
	//
	s, err := acc.Sum(d)
	assert.NoError(t, err)
	assert.True(t, s.Equals(d))
	// combining with zero
	s, err = acc.Combine(d, acc.Zero())
	assert.NoError(t, err)
	assert.True(t, s.Equals(d))
}

func Test_Combine_Order(t *testing.T) {
	acc, err := NewAccumulator[babybear.Element]()
	assert.NoError(t, err)
	//
	var digests []Digest[babybear.Element]
	//
	for i := range 4 {
		c := lookup.NewCollector[babybear.Element]()
		c.Looked(lookup.Syscall, lookup.GLOBAL, field.One[babybear.Element](), babybear.New(uint32(i)))
		c.Looking(lookup.Syscall, lookup.GLOBAL, field.One[babybear.Element](), babybear.New(uint32(i+10)))
		//
		d, err := acc.Fold(c.Interactions())
		assert.NoError(t, err)
		digests = append(digests, d)
	}
	//
	s1, err := acc.Sum(digests...)
	assert.NoError(t, err)
	s2, err := acc.Sum(digests[3], digests[1], digests[0], digests[2])
	assert.NoError(t, err)
	assert.True(t, s1.Equals(s2))
	// tree reduction
	l, err := acc.Combine(digests[0], digests[1])
	assert.NoError(t, err)
	r, err := acc.Combine(digests[2], digests[3])
	assert.NoError(t, err)
	s3, err := acc.Combine(l, r)
	assert.NoError(t, err)
	assert.True(t, s1.Equals(s3))
}

func Test_GlobalBalance_BabyBear(t *testing.T) {
	checkGlobalBalance[babybear.Element](t)
}

func Test_GlobalBalance_KoalaBear(t *testing.T) {
	checkGlobalBalance[koalabear.Element](t)
}

func Test_GlobalBalance_Mersenne31(t *testing.T) {
	checkGlobalBalance[mersenne31.Element](t)
}

func Test_Digest_Cbor(t *testing.T) {
	acc, err := NewAccumulator[koalabear.Element]()
	assert.NoError(t, err)
	//
	bytes, err := cbor.Marshal(acc.Start())
	assert.NoError(t, err)
	//
	var d Digest[koalabear.Element]
	assert.NoError(t, cbor.Unmarshal(bytes, &d))
	assert.True(t, d.Equals(acc.Start()))
	//
	d, err = acc.FromUint64s(acc.Zero().Uint64s())
	assert.NoError(t, err)
	assert.True(t, acc.IsZero(d))
	//
	coeffs := acc.Zero().Uint64s()
	coeffs[0]++
	_, err = acc.FromUint64s(coeffs)
	assert.True(t, err != nil, "point off the curve accepted")
}

// checkGlobalBalance simulates N addresses, each written once in one of several
// chunks.  The final chunk pins down the initial and final value of every
// address, whilst the chunk touching an address bridges its local accesses to
// the Global scope.
func checkGlobalBalance[F field.Element[F]](t *testing.T) {
	const (
		nAddrs  = 32
		nChunks = 4
	)
	//
	acc, err := NewAccumulator[F]()
	assert.NoError(t, err)
	//
	var (
		one        = field.One[F]()
		collectors = make([]*lookup.Collector[F], nChunks)
		last       = nChunks - 1
	)
	//
	for i := range collectors {
		collectors[i] = lookup.NewCollector[F]()
	}
	//
	for addr := range uint64(nAddrs) {
		chunk := addr % nChunks
		initial := memoryTuple[F](0, 0, 32+addr, 0)
		final := memoryTuple[F](chunk+1, 7, 32+addr, addr*addr)
		// initialize and finalize
		collectors[last].Looked(lookup.Memory, lookup.GLOBAL, one, initial...)
		collectors[last].Looking(lookup.Memory, lookup.GLOBAL, one, final...)
		// local bridging
		collectors[chunk].Looking(lookup.Memory, lookup.GLOBAL, one, initial...)
		collectors[chunk].Looked(lookup.Memory, lookup.GLOBAL, one, final...)
	}
	//
	var digests = make([]Digest[F], nChunks)
	//
	for i, c := range collectors {
		digests[i], err = acc.Fold(c.Interactions())
		assert.NoError(t, err)
		assert.False(t, acc.IsZero(digests[i]), "chunk %d balanced by itself", i)
	}
	//
	total, err := acc.Sum(digests...)
	assert.NoError(t, err)
	assert.True(t, acc.IsZero(total), "balanced interactions do not sum to zero")
	// omitting a single finalize event must be detected
	interactions := collectors[last].Interactions()
	//
	for i, interaction := range interactions {
		if !interaction.IsSend {
			interactions = append(interactions[:i:i], interactions[i+1:]...)
			break
		}
	}
	//
	digests[last], err = acc.Fold(interactions)
	assert.NoError(t, err)
	total, err = acc.Sum(digests...)
	assert.NoError(t, err)
	assert.False(t, acc.IsZero(total), "missing finalize event undetected")
}

func memoryTuple[F field.Element[F]](chunk, ts, addr, value uint64) []F {
	return []F{
		field.Uint64[F](chunk), field.Uint64[F](ts),
		field.Uint64[F](addr & 0xffff), field.Uint64[F](addr >> 16),
		field.Uint64[F](value & 0xff), field.Uint64[F]((value >> 8) & 0xff),
		field.Uint64[F]((value >> 16) & 0xff), field.Uint64[F](value >> 24),
	}
}
