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
package syscall

import (
	"testing"

	"github.com/consensys/go-zkvm/pkg/util/assert"
)

func Test_Code_Properties(t *testing.T) {
	assert.Equal(t, uint32(48), SHA_EXTEND.ExtraCycles())
	assert.Equal(t, uint32(0), HALT.ExtraCycles())
	assert.Equal(t, uint8(0x1D), UINT256_MUL.ID())
	//
	for _, code := range PRECOMPILES {
		assert.True(t, code.IsPrecompile(), "%s", code.String())
		assert.True(t, code.IsKnown())
	}
	//
	for _, code := range []Code{HALT, WRITE, COMMIT, HINT_LEN, HINT_READ, ENTER_UNCONSTRAINED} {
		assert.False(t, code.IsPrecompile(), "%s", code.String())
	}
	//
	assert.False(t, Code(0x1234).IsKnown())
	assert.Equal(t, "0x00001234", Code(0x1234).String())
	assert.Equal(t, "KECCAK_PERMUTE", KECCAK_PERMUTE.String())
}
