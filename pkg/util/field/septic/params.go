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
package septic

// z⁷ = w₁·z + w₀, chosen so that the polynomial is irreducible over the base
// field.
type params struct {
	w1, w0 uint64
}

var parameters = map[uint64]params{
	// BabyBear
	2013265921: {2, 5},
	// KoalaBear
	2130706433: {3, 5},
	// Mersenne31
	2147483647: {3, 5},
}
