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
package emulator

import (
	"crypto/sha256"
	"encoding/binary"
	"math/big"
	"slices"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/secp256k1"
	"github.com/consensys/go-zkvm/pkg/record"
	"github.com/consensys/go-zkvm/pkg/riscv"
	"github.com/consensys/go-zkvm/pkg/syscall"
	"github.com/consensys/go-zkvm/pkg/util/assert"
	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/sha3"
)

const (
	ptr1 = 0x10000
	ptr2 = 0x20000
)

// precompile executes a single system call on preloaded memory.
func precompile(t *testing.T, code syscall.Code, a0, a1 uint32, memory map[uint32]uint32) (*Executor, error) {
	program := riscv.Assemble(slices.Concat(sys(code, a0, a1), haltWords(0)), base)
	//
	e, err := New(program, DefaultOptions())
	assert.NoError(t, err)
	//
	for addr, v := range memory {
		e.initial[addr] = v
	}
	//
	_, err = e.Run()
	//
	return e, err
}

func preload(memory map[uint32]uint32, ptr uint32, words []uint32) {
	for i, w := range words {
		memory[ptr+4*uint32(i)] = w
	}
}

func words(e *Executor, ptr uint32, n uint32) []uint32 {
	var ws = make([]uint32, n)
	//
	for i := range n {
		ws[i] = e.peek(ptr + 4*i)
	}
	//
	return ws
}

func Test_Sha256(t *testing.T) {
	var (
		block  [64]byte
		memory = make(map[uint32]uint32)
		iv     = []uint32{0x6a09e667, 0xbb67ae85, 0x3c6ef372, 0xa54ff53a, 0x510e527f, 0x9b05688c, 0x1f83d9ab, 0x5be0cd19}
	)
	// padded "abc"
	copy(block[:], "abc")
	block[3] = 0x80
	block[63] = 24
	//
	for i := range 16 {
		memory[ptr1+4*uint32(i)] = binary.BigEndian.Uint32(block[4*i:])
	}
	//
	preload(memory, ptr2, iv)
	//
	program := riscv.Assemble(slices.Concat(
		sys(syscall.SHA_EXTEND, ptr1, 0),
		sys(syscall.SHA_COMPRESS, ptr1, ptr2),
		haltWords(0)), base)
	//
	e, err := New(program, DefaultOptions())
	assert.NoError(t, err)
	//
	for addr, v := range memory {
		e.initial[addr] = v
	}
	//
	report, err := e.Run()
	assert.NoError(t, err)
	//
	expected := sha256.Sum256([]byte("abc"))
	//
	for i, w := range words(e, ptr2, 8) {
		assert.Equal(t, binary.BigEndian.Uint32(expected[4*i:]), w, "word %d", i)
	}
	//
	r := report.Records[0]
	assert.Equal(t, 2, len(r.PrecompileEvents))
	assert.Equal(t, syscall.SHA_EXTEND, r.PrecompileEvents[0].Syscall.Code)
	assert.Equal(t, 48, len(r.PrecompileEvents[0].ShaExtend.Writes))
	assert.Equal(t, syscall.SHA_COMPRESS, r.PrecompileEvents[1].Syscall.Code)
	// the extension consumes 48 extra cycles
	ecall := slices.IndexFunc(r.CpuEvents, func(ev record.CpuEvent) bool { return ev.Instruction.Opcode == riscv.ECALL })
	assert.Equal(t, r.CpuEvents[ecall].Clk+4+48, r.CpuEvents[ecall+1].Clk)
}

func Test_Keccak(t *testing.T) {
	var (
		memory = make(map[uint32]uint32)
		hasher = sha3.NewLegacyKeccak256()
	)
	// keccak256("") absorbs a single padded block
	memory[ptr1] = 0x01
	memory[ptr1+4*(2*16+1)] = 0x80000000
	//
	e, err := precompile(t, syscall.KECCAK_PERMUTE, ptr1, 0, memory)
	assert.NoError(t, err)
	//
	var digest []byte
	//
	for _, w := range words(e, ptr1, 8) {
		digest = binary.LittleEndian.AppendUint32(digest, w)
	}
	//
	assert.Equal(t, hasher.Sum(nil), digest)
}

func Test_Uint256Mul(t *testing.T) {
	x := big.NewInt(123456789)
	x.Lsh(x, 100)
	y := big.NewInt(987654321)
	y.Lsh(y, 120)
	m := big.NewInt(1000000007)
	//
	for _, modulus := range []*big.Int{m, new(big.Int)} {
		memory := make(map[uint32]uint32)
		preload(memory, ptr1, toWords(x))
		preload(memory, ptr2, toWords(y))
		preload(memory, ptr2+32, toWords(modulus))
		//
		e, err := precompile(t, syscall.UINT256_MUL, ptr1, ptr2, memory)
		assert.NoError(t, err)
		//
		expected := new(big.Int).Mul(x, y)
		//
		if modulus.Sign() == 0 {
			expected.Mod(expected, new(big.Int).Lsh(big.NewInt(1), 256))
		} else {
			expected.Mod(expected, modulus)
		}
		//
		assert.Equal(t, toWords(expected), words(e, ptr1, 8))
	}
	// overlapping operands
	_, err := precompile(t, syscall.UINT256_MUL, ptr1, ptr1+16, nil)
	assert.ErrorIs(t, err, ErrInvalidSyscallUsage)
}

func Test_Secp256k1(t *testing.T) {
	var (
		_, g       = secp256k1.Generators()
		g2, g3, g4 secp256k1.G1Affine
		memory     = make(map[uint32]uint32)
	)
	//
	g2.ScalarMultiplication(&g, big.NewInt(2))
	g3.ScalarMultiplication(&g, big.NewInt(3))
	g4.ScalarMultiplication(&g, big.NewInt(4))
	// add
	preload(memory, ptr1, slices.Concat(toWords(g.X.BigInt(new(big.Int))), toWords(g.Y.BigInt(new(big.Int)))))
	preload(memory, ptr2, slices.Concat(toWords(g2.X.BigInt(new(big.Int))), toWords(g2.Y.BigInt(new(big.Int)))))
	//
	e, err := precompile(t, syscall.SECP256K1_ADD, ptr1, ptr2, memory)
	assert.NoError(t, err)
	assert.Equal(t, slices.Concat(toWords(g3.X.BigInt(new(big.Int))), toWords(g3.Y.BigInt(new(big.Int)))),
		words(e, ptr1, 16))
	// double
	e, err = precompile(t, syscall.SECP256K1_DOUBLE, ptr2, 0, memory)
	assert.NoError(t, err)
	assert.Equal(t, slices.Concat(toWords(g4.X.BigInt(new(big.Int))), toWords(g4.Y.BigInt(new(big.Int)))),
		words(e, ptr2, 16))
	// overlapping operands
	_, err = precompile(t, syscall.SECP256K1_ADD, ptr1, ptr1+32, memory)
	assert.ErrorIs(t, err, ErrInvalidSyscallUsage)
}

func Test_Bn254(t *testing.T) {
	var (
		_, _, g, _ = bn254.Generators()
		g2, g3     bn254.G1Affine
		memory     = make(map[uint32]uint32)
	)
	//
	g2.ScalarMultiplication(&g, big.NewInt(2))
	g3.ScalarMultiplication(&g, big.NewInt(3))
	// generator is (1, 2)
	preload(memory, ptr1, slices.Concat(toWords(big.NewInt(1)), toWords(big.NewInt(2))))
	preload(memory, ptr2, slices.Concat(toWords(g2.X.BigInt(new(big.Int))), toWords(g2.Y.BigInt(new(big.Int)))))
	//
	e, err := precompile(t, syscall.BN254_DOUBLE, ptr1, 0, memory)
	assert.NoError(t, err)
	assert.Equal(t, words(e, ptr2, 16), words(e, ptr1, 16))
	//
	e, err = precompile(t, syscall.BN254_ADD, ptr1, ptr2, memory)
	assert.NoError(t, err)
	assert.Equal(t, slices.Concat(toWords(g3.X.BigInt(new(big.Int))), toWords(g3.Y.BigInt(new(big.Int)))),
		words(e, ptr1, 16))
}

func Test_EcrecoverHook(t *testing.T) {
	key, err := crypto.GenerateKey()
	assert.NoError(t, err)
	//
	hash := crypto.Keccak256([]byte("zkvm"))
	sig, err := crypto.Sign(hash, key)
	assert.NoError(t, err)
	//
	res := EcrecoverHook(HookEnv{}, slices.Concat(hash, sig))
	assert.Equal(t, 2, len(res))
	assert.Equal(t, []byte{1}, res[0])
	assert.Equal(t, crypto.FromECDSAPub(&key.PublicKey), res[1])
	//
	res = EcrecoverHook(HookEnv{}, hash)
	assert.Equal(t, [][]byte{{0}}, res)
}

// toWords converts a 256-bit value into little-endian words.
func toWords(v *big.Int) []uint32 {
	var (
		bytes [32]byte
		ws    = make([]uint32, 8)
	)
	//
	v.FillBytes(bytes[:])
	//
	for i := range ws {
		ws[i] = binary.BigEndian.Uint32(bytes[32-4*(i+1):])
	}
	//
	return ws
}
