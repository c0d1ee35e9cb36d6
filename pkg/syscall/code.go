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

// Package syscall enumerates the system calls understood by the emulator.
package syscall

import "fmt"

// Code identifies a system call.  Byte 0 is a unique identifier, byte 1 is set
// when the call is proven by a dedicated precompile chip (and hence must be
// accounted for globally), and byte 2 gives the number of extra cycles the call
// consumes.
type Code uint32

// Supported system calls.
const (
	HALT                   Code = 0x00_00_00_00
	WRITE                  Code = 0x00_00_00_02
	ENTER_UNCONSTRAINED    Code = 0x00_00_00_03
	EXIT_UNCONSTRAINED     Code = 0x00_00_00_04
	SHA_EXTEND             Code = 0x00_30_01_05
	SHA_COMPRESS           Code = 0x00_01_01_06
	KECCAK_PERMUTE         Code = 0x00_01_01_09
	SECP256K1_ADD          Code = 0x00_01_01_0A
	SECP256K1_DOUBLE       Code = 0x00_00_01_0B
	BN254_ADD              Code = 0x00_01_01_0E
	BN254_DOUBLE           Code = 0x00_00_01_0F
	COMMIT                 Code = 0x00_00_00_10
	COMMIT_DEFERRED_PROOFS Code = 0x00_00_00_1A
	UINT256_MUL            Code = 0x00_01_01_1D
	HINT_LEN               Code = 0x00_00_00_F0
	HINT_READ              Code = 0x00_00_00_F1
)

// PRECOMPILES lists all codes handled by precompile chips.
var PRECOMPILES = []Code{
	SHA_EXTEND,
	SHA_COMPRESS,
	KECCAK_PERMUTE,
	SECP256K1_ADD,
	SECP256K1_DOUBLE,
	BN254_ADD,
	BN254_DOUBLE,
	UINT256_MUL,
}

var names = map[Code]string{
	HALT:                   "HALT",
	WRITE:                  "WRITE",
	ENTER_UNCONSTRAINED:    "ENTER_UNCONSTRAINED",
	EXIT_UNCONSTRAINED:     "EXIT_UNCONSTRAINED",
	SHA_EXTEND:             "SHA_EXTEND",
	SHA_COMPRESS:           "SHA_COMPRESS",
	KECCAK_PERMUTE:         "KECCAK_PERMUTE",
	SECP256K1_ADD:          "SECP256K1_ADD",
	SECP256K1_DOUBLE:       "SECP256K1_DOUBLE",
	BN254_ADD:              "BN254_ADD",
	BN254_DOUBLE:           "BN254_DOUBLE",
	COMMIT:                 "COMMIT",
	COMMIT_DEFERRED_PROOFS: "COMMIT_DEFERRED_PROOFS",
	UINT256_MUL:            "UINT256_MUL",
	HINT_LEN:               "HINT_LEN",
	HINT_READ:              "HINT_READ",
}

// ID returns the unique identifier of this code.
func (c Code) ID() uint8 {
	return uint8(c)
}

// IsPrecompile determines whether calls are proven by a precompile chip.
func (c Code) IsPrecompile() bool {
	return (c>>8)&0xff != 0
}

// ExtraCycles returns the number of cycles consumed in addition to those of
// the ECALL instruction itself.
func (c Code) ExtraCycles() uint32 {
	return uint32(c>>16) & 0xff
}

// IsKnown determines whether this is one of the supported codes.
func (c Code) IsKnown() bool {
	_, ok := names[c]
	return ok
}

func (c Code) String() string {
	if name, ok := names[c]; ok {
		return name
	}
	//
	return fmt.Sprintf("0x%08x", uint32(c))
}

// File descriptors recognised by WRITE.
const (
	FD_STDOUT         = 1
	FD_STDERR         = 2
	FD_PUBLIC_VALUES  = 3
	FD_HINT           = 4
	FD_ECRECOVER_HOOK = 5
)
