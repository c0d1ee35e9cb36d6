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

// Package prover drives a proving backend over the traces of each chunk, and
// verifies the resulting chunk proofs fit together.  The backend itself is
// abstracted by a polynomial commitment scheme, of which a Merkle based mock
// is provided.
package prover

import (
	"encoding/binary"

	"github.com/consensys/go-zkvm/pkg/util/field"
	"github.com/consensys/go-zkvm/pkg/util/field/septic"
	"golang.org/x/crypto/blake2b"
)

// Challenger implements the Fiat-Shamir transform over a blake2b transcript.
// Observed data is buffered, and absorbed into the state upon the next sample.
type Challenger[F field.Element[F]] struct {
	state   [blake2b.Size]byte
	buffer  []byte
	counter uint64
}

// NewChallenger constructs a challenger for a given domain separator.
func NewChallenger[F field.Element[F]](domain string) *Challenger[F] {
	return &Challenger[F]{state: blake2b.Sum512([]byte(domain))}
}

// ObserveBytes absorbs arbitrary data into the transcript.
func (c *Challenger[F]) ObserveBytes(data []byte) {
	c.buffer = binary.BigEndian.AppendUint64(c.buffer, uint64(len(data)))
	c.buffer = append(c.buffer, data...)
}

// ObserveUint32 absorbs zero or more machine words into the transcript.
func (c *Challenger[F]) ObserveUint32(values ...uint32) {
	for _, v := range values {
		c.buffer = binary.BigEndian.AppendUint32(c.buffer, v)
	}
}

// Observe absorbs zero or more field elements into the transcript.
func (c *Challenger[F]) Observe(values ...F) {
	for _, v := range values {
		c.buffer = binary.BigEndian.AppendUint64(c.buffer, v.Uint64())
	}
}

// ObserveExt absorbs an extension field element into the transcript.
func (c *Challenger[F]) ObserveExt(value septic.Element[F]) {
	c.Observe(value[:]...)
}

// Sample a field element from the transcript.
func (c *Challenger[F]) Sample() F {
	return field.Uint64[F](c.next())
}

// SampleExt samples an extension field element from the transcript.
func (c *Challenger[F]) SampleExt(ext *septic.Field[F]) septic.Element[F] {
	var coeffs [septic.Degree]uint64
	//
	for i := range coeffs {
		coeffs[i] = c.next()
	}
	//
	return ext.FromUint64s(coeffs)
}

// SampleIndex samples an index in the range [0, n).
func (c *Challenger[F]) SampleIndex(n uint) uint {
	return uint(c.next() % uint64(n))
}

// next squeezes 64 bits from the transcript.
func (c *Challenger[F]) next() uint64 {
	if len(c.buffer) > 0 {
		c.state = blake2b.Sum512(append(c.state[:], c.buffer...))
		c.buffer = nil
		c.counter = 0
	}
	//
	var data = binary.BigEndian.AppendUint64(c.state[:len(c.state):len(c.state)], c.counter)
	//
	c.counter++
	out := blake2b.Sum512(data)
	//
	return binary.BigEndian.Uint64(out[:8])
}
