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

// Package global accumulates the Global-scope interactions of a chunk into a
// single point on an elliptic curve over the septic extension.  Digests of
// different chunks combine associatively, and the combined digest of an
// execution is the fixed Zero point iff its Global interactions balance.
package global

import (
	"github.com/consensys/go-zkvm/pkg/util/field"
	"github.com/consensys/go-zkvm/pkg/util/field/septic"
	"github.com/fxamacker/cbor/v2"
)

// Digest summarises a set of Global interactions as a point on the
// accumulation curve.
type Digest[F field.Element[F]] struct {
	X septic.Element[F]
	Y septic.Element[F]
}

func newDigest[F field.Element[F]](p septic.Point[F]) Digest[F] {
	return Digest[F]{p.X, p.Y}
}

// Point returns the curve point of this digest.
func (d Digest[F]) Point() septic.Point[F] {
	return septic.Point[F]{X: d.X, Y: d.Y}
}

// Equals checks whether two digests are identical.
func (d Digest[F]) Equals(other Digest[F]) bool {
	return d.X.Equals(other.X) && d.Y.Equals(other.Y)
}

// Uint64s returns the canonical coefficients of this digest (x then y).
func (d Digest[F]) Uint64s() [2 * septic.Degree]uint64 {
	var res [2 * septic.Degree]uint64
	//
	for i := range septic.Degree {
		res[i] = d.X[i].Uint64()
		res[septic.Degree+i] = d.Y[i].Uint64()
	}
	//
	return res
}

func (d Digest[F]) String() string {
	return d.Point().String()
}

// MarshalCBOR encodes this digest as its canonical coefficients.
func (d Digest[F]) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(d.Uint64s())
}

// UnmarshalCBOR decodes a digest from its canonical coefficients.
func (d *Digest[F]) UnmarshalCBOR(data []byte) error {
	var coeffs [2 * septic.Degree]uint64
	//
	if err := cbor.Unmarshal(data, &coeffs); err != nil {
		return err
	}
	//
	for i := range septic.Degree {
		d.X[i] = field.Uint64[F](coeffs[i])
		d.Y[i] = field.Uint64[F](coeffs[septic.Degree+i])
	}
	//
	return nil
}
