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
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/consensys/go-zkvm/pkg/lookup"
	"github.com/consensys/go-zkvm/pkg/util/field"
	"github.com/consensys/go-zkvm/pkg/util/field/septic"
	"golang.org/x/crypto/blake2b"
)

// MaxLiftAttempts bounds the number of candidate x-coordinates tried when
// mapping a message onto the curve.
const MaxLiftAttempts = 256

var (
	// ErrLiftExhausted indicates no candidate x-coordinate of a message lies on
	// the curve.  This has negligible probability, and indicates a parameter
	// mistake.
	ErrLiftExhausted = errors.New("lift-x attempts exhausted")
	// ErrExceptionalSum indicates an accumulation reached the point at
	// infinity.  This has negligible probability.
	ErrExceptionalSum = errors.New("accumulation reached the point at infinity")
)

// Domain separators of the fixed points, and of interaction messages.
const (
	zeroTag    = "zkvm/global/zero"
	startTag   = "zkvm/global/start"
	messageTag = "zkvm/global/message"
)

// Accumulator folds Global interactions into digests.
type Accumulator[F field.Element[F]] struct {
	curve *septic.Curve[F]
	// fixed point denoting the empty sum
	zero septic.Point[F]
	// fixed offset from which every fold starts
	start septic.Point[F]
	// zero - start
	correction septic.Point[F]
	// -(zero + start)
	combineCorrection septic.Point[F]
}

// NewAccumulator constructs an accumulator over the septic extension of F.
func NewAccumulator[F field.Element[F]]() (*Accumulator[F], error) {
	var acc Accumulator[F]
	//
	ext, err := septic.NewField[F]()
	if err != nil {
		return nil, err
	}
	//
	acc.curve = septic.NewCurve(ext)
	//
	if acc.zero, err = acc.hashToCurve(zeroTag, nil); err != nil {
		return nil, err
	} else if acc.start, err = acc.hashToCurve(startTag, nil); err != nil {
		return nil, err
	} else if acc.correction, err = acc.add(acc.zero, acc.curve.Neg(acc.start)); err != nil {
		return nil, err
	}
	//
	zeroPlusStart, err := acc.add(acc.zero, acc.start)
	if err != nil {
		return nil, err
	}
	//
	acc.combineCorrection = acc.curve.Neg(zeroPlusStart)
	//
	return &acc, nil
}

// Curve returns the accumulation curve.
func (a *Accumulator[F]) Curve() *septic.Curve[F] {
	return a.curve
}

// Zero returns the digest of the empty set of interactions.
func (a *Accumulator[F]) Zero() Digest[F] {
	return newDigest(a.zero)
}

// Start returns the offset from which folds begin.
func (a *Accumulator[F]) Start() Digest[F] {
	return newDigest(a.start)
}

// IsZero determines whether a digest is that of a balanced set.
func (a *Accumulator[F]) IsZero(d Digest[F]) bool {
	return d.Point().Equals(a.zero)
}

// MessagePoint maps the message of an interaction deterministically onto the
// curve.
func (a *Accumulator[F]) MessagePoint(kind lookup.Kind, values []F) (septic.Point[F], error) {
	var data = make([]uint64, len(values)+1)
	//
	data[0] = uint64(kind)
	//
	for i, v := range values {
		data[i+1] = v.Uint64()
	}
	//
	return a.hashToCurve(messageTag, data)
}

// Fold accumulates the Global interactions of a chunk, adding looked messages
// and subtracting looking messages (each as many times as its multiplicity).
// Other interactions are ignored.  An empty set folds to Zero.
func (a *Accumulator[F]) Fold(interactions []lookup.Interaction[F]) (Digest[F], error) {
	var (
		acc   = a.start
		empty = true
	)
	//
	for _, i := range interactions {
		if i.Scope != lookup.GLOBAL {
			continue
		}
		//
		p, err := a.MessagePoint(i.Kind, i.Values)
		if err != nil {
			return Digest[F]{}, err
		} else if !i.IsSend {
			p = a.curve.Neg(p)
		}
		//
		for range i.Multiplicity.Uint64() {
			if acc, err = a.add(acc, p); err != nil {
				return Digest[F]{}, err
			}
			//
			empty = false
		}
	}
	//
	if empty {
		return a.Zero(), nil
	}
	//
	acc, err := a.add(acc, a.correction)
	//
	return newDigest(acc), err
}

// Combine two digests, such that the result is the digest of the union of
// their interactions.
func (a *Accumulator[F]) Combine(d1, d2 Digest[F]) (Digest[F], error) {
	acc, err := a.add(a.start, d1.Point())
	//
	if err == nil {
		acc, err = a.add(acc, d2.Point())
	}
	//
	if err == nil {
		acc, err = a.add(acc, a.combineCorrection)
	}
	//
	return newDigest(acc), err
}

// Sum combines any number of digests.  The sum of no digests is Zero, and the
// sum of one digest is itself.
func (a *Accumulator[F]) Sum(digests ...Digest[F]) (Digest[F], error) {
	if len(digests) == 0 {
		return a.Zero(), nil
	}
	//
	var (
		acc = digests[0]
		err error
	)
	//
	for _, d := range digests[1:] {
		if acc, err = a.Combine(acc, d); err != nil {
			return Digest[F]{}, err
		}
	}
	//
	return acc, nil
}

// FromUint64s constructs a digest from canonical coefficients, checking it lies
// on the curve.
func (a *Accumulator[F]) FromUint64s(coeffs [2 * septic.Degree]uint64) (Digest[F], error) {
	var d Digest[F]
	//
	for i := range septic.Degree {
		d.X[i] = field.Uint64[F](coeffs[i])
		d.Y[i] = field.Uint64[F](coeffs[septic.Degree+i])
	}
	//
	if !a.curve.IsOnCurve(d.Point()) {
		return d, fmt.Errorf("digest %s not on curve", d.String())
	}
	//
	return d, nil
}

func (a *Accumulator[F]) add(p, q septic.Point[F]) (septic.Point[F], error) {
	if r, ok := a.curve.Add(p, q); ok {
		return r, nil
	}
	//
	return septic.Point[F]{}, ErrExceptionalSum
}

// hashToCurve hashes a tagged message, along with an attempt counter, into
// candidate x-coordinates until one lies on the curve.  Each candidate is
// formed from seven 8-byte limbs of a blake2b-512 digest.
func (a *Accumulator[F]) hashToCurve(tag string, data []uint64) (septic.Point[F], error) {
	var (
		ext    = a.curve.Field()
		buf    = make([]byte, 0, len(tag)+8*len(data)+4)
		limbs  [septic.Degree]uint64
		offset = len(tag) + 8*len(data)
	)
	//
	buf = append(buf, tag...)
	//
	for _, d := range data {
		buf = binary.BigEndian.AppendUint64(buf, d)
	}
	//
	buf = append(buf, 0, 0, 0, 0)
	//
	for attempt := range uint32(MaxLiftAttempts) {
		binary.BigEndian.PutUint32(buf[offset:], attempt)
		//
		hash := blake2b.Sum512(buf)
		//
		for i := range limbs {
			limbs[i] = binary.BigEndian.Uint64(hash[8*i:])
		}
		//
		if p, ok := a.curve.LiftX(ext.FromUint64s(limbs)); ok {
			return p, nil
		}
	}
	//
	return septic.Point[F]{}, fmt.Errorf("%w (%s)", ErrLiftExhausted, tag)
}
