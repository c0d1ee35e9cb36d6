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
	"errors"

	"github.com/consensys/go-zkvm/pkg/util/field"
	"github.com/consensys/go-zkvm/pkg/util/field/septic"
)

// ErrDegenerateChallenge arises when a challenge coincides with the
// fingerprint of some interaction.  This happens with negligible probability.
var ErrDegenerateChallenge = errors.New("degenerate lookup challenge")

// Challenges used to fold interactions into the extension field.
type Challenges[F field.Element[F]] struct {
	Alpha septic.Element[F]
	Beta  septic.Element[F]
}

// Fingerprint folds an interaction into the extension field as kind + Σ
// βⁱ⁺¹·vᵢ.
func Fingerprint[F field.Element[F]](ext *septic.Field[F], beta septic.Element[F], i Interaction[F]) septic.Element[F] {
	var (
		acc   = ext.FromBase(field.Uint64[F](uint64(i.Kind)))
		power = beta
	)
	//
	for _, v := range i.Values {
		acc = ext.Add(acc, ext.MulBase(power, v))
		power = ext.Mul(power, beta)
	}
	//
	return acc
}

// LogUpSum computes the logarithmic derivative Σ sign·m / (α − fingerprint)
// over a set of interactions.  Balanced multisets sum to zero.
func LogUpSum[F field.Element[F]](ext *septic.Field[F], challenges Challenges[F],
	interactions []Interaction[F]) (septic.Element[F], error) {
	var denominators = make([]septic.Element[F], len(interactions))
	//
	for j, i := range interactions {
		denominators[j] = ext.Sub(challenges.Alpha, Fingerprint(ext, challenges.Beta, i))
		//
		if denominators[j].IsZero() {
			return ext.Zero(), ErrDegenerateChallenge
		}
	}
	//
	ext.BatchInverse(denominators)
	//
	sum := ext.Zero()
	//
	for j, i := range interactions {
		sum = ext.Add(sum, ext.MulBase(denominators[j], i.Sign()))
	}
	//
	return sum, nil
}
