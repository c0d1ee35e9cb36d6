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
package field

import (
	"math/big"
	"testing"

	"github.com/consensys/go-zkvm/pkg/util/field/babybear"
	"github.com/consensys/go-zkvm/pkg/util/field/koalabear"
	"github.com/consensys/go-zkvm/pkg/util/field/mersenne31"
)

const POW_BASE_MAX uint = 65536
const POW_BASE_INC uint = 8

func Test_Pow_00(t *testing.T) {
	PowCheck[babybear.Element](t, 1, 1)
}
func Test_Pow_01(t *testing.T) {
	PowCheck[babybear.Element](t, 2, 1)
}
func Test_Pow_02(t *testing.T) {
	PowCheck[babybear.Element](t, 2, 2)
}
func Test_Pow_03(t *testing.T) {
	PowCheck[babybear.Element](t, 2, 3)
}
func Test_Pow_04(t *testing.T) {
	PowCheck[babybear.Element](t, 2, 4)
}
func Test_Pow_05(t *testing.T) {
	PowCheck[babybear.Element](t, 3, 1)
}
func Test_Pow_06(t *testing.T) {
	PowCheck[babybear.Element](t, 3, 2)
}
func Test_Pow_07(t *testing.T) {
	PowCheck[babybear.Element](t, 3, 3)
}
func Test_Pow_08(t *testing.T) {
	PowCheck[babybear.Element](t, 3, 4)
}
func Test_Pow_09(t *testing.T) {
	PowCheck[babybear.Element](t, 3, 5)
}

func Test_Pow_10(t *testing.T) {
	PowCheckLoop[babybear.Element](t, 0)
}

func Test_Pow_12(t *testing.T) {
	PowCheckLoop[babybear.Element](t, 1)
}

func Test_Pow_13(t *testing.T) {
	PowCheckLoop[babybear.Element](t, 2)
}

func Test_Pow_14(t *testing.T) {
	PowCheckLoop[babybear.Element](t, 3)
}

func Test_Pow_15(t *testing.T) {
	PowCheckLoop[babybear.Element](t, 4)
}

func Test_Pow_16(t *testing.T) {
	PowCheckLoop[babybear.Element](t, 5)
}

func Test_Pow_17(t *testing.T) {
	PowCheckLoop[babybear.Element](t, 6)
}

func Test_Pow_18(t *testing.T) {
	PowCheckLoop[babybear.Element](t, 7)
}

// ============================================================================
// KoalaBear
// ============================================================================

func Test_KoalaBear_Pow_00(t *testing.T) {
	PowCheck[koalabear.Element](t, 2, 31)
}

func Test_KoalaBear_Pow_01(t *testing.T) {
	// Largest canonical value, i.e. -1
	PowCheck[koalabear.Element](t, 0x7f000000, 3)
}

func Test_KoalaBear_Pow_02(t *testing.T) {
	PowCheckLoop[koalabear.Element](t, 0)
}

func Test_KoalaBear_Pow_03(t *testing.T) {
	PowCheckLoop[koalabear.Element](t, 5)
}

// ============================================================================
// Mersenne31
// ============================================================================

func Test_Mersenne31_Pow_00(t *testing.T) {
	// 2³¹ = 1 mod 2³¹-1
	PowCheck[mersenne31.Element](t, 2, 31)
}

func Test_Mersenne31_Pow_01(t *testing.T) {
	PowCheck[mersenne31.Element](t, 0x7ffffffe, 3)
}

func Test_Mersenne31_Pow_02(t *testing.T) {
	PowCheckLoop[mersenne31.Element](t, 0)
}

func Test_Mersenne31_Pow_03(t *testing.T) {
	PowCheckLoop[mersenne31.Element](t, 5)
}

func PowCheckLoop[F Element[F]](t *testing.T, first uint) {
	// Enable parallel testing
	t.Parallel()
	// Run through the loop
	for i := first; i < POW_BASE_MAX; i += POW_BASE_INC {
		for j := uint64(0); j < 256; j++ {
			PowCheck[F](t, i, j)
		}
	}
}

// Check pow computed correctly.  This is done by comparing against modular
// exponentiation on big integers.
func PowCheck[F Element[F]](t *testing.T, base uint, pow uint64) {
	var (
		actual   F
		expected = new(big.Int).SetUint64(uint64(base))
	)
	// Initialise actual value
	actual = actual.SetUint64(uint64(base))
	// Compute actual using our optimised method
	actual = Pow(actual, pow)
	// Compute expected using big integers
	expected.Exp(expected, new(big.Int).SetUint64(pow), actual.Modulus())
	// Final sanity check
	if actual.Uint64() != expected.Uint64() {
		t.Errorf("Pow(%d,%d)=%s (not %s)", base, pow, actual.String(), expected.String())
	}
}
