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

// Package test provides programs for exercising the machine end-to-end, along
// with the integration tests which use them.
package test

import (
	"encoding/binary"
	"slices"

	"github.com/consensys/go-zkvm/pkg/riscv"
	"github.com/consensys/go-zkvm/pkg/syscall"
)

// BASE is the address at which test programs are loaded.
const BASE = 0x1000

// DATA is the address of the data region used by test programs.
const DATA = 0x10000

// Addi encodes rd = rs1 + imm.
func Addi(rd, rs1 uint32, imm int32) uint32 { return riscv.EncodeIType(0x13, rd, 0, rs1, imm) }

// Add encodes rd = rs1 + rs2.
func Add(rd, rs1, rs2 uint32) uint32 { return riscv.EncodeRType(0x33, rd, 0, rs1, rs2, 0) }

// Mul encodes rd = rs1 * rs2.
func Mul(rd, rs1, rs2 uint32) uint32 { return riscv.EncodeRType(0x33, rd, 0, rs1, rs2, 1) }

// Xor encodes rd = rs1 ^ rs2.
func Xor(rd, rs1, rs2 uint32) uint32 { return riscv.EncodeRType(0x33, rd, 4, rs1, rs2, 0) }

// And encodes rd = rs1 & rs2.
func And(rd, rs1, rs2 uint32) uint32 { return riscv.EncodeRType(0x33, rd, 7, rs1, rs2, 0) }

// Beq encodes a branch by imm when rs1 = rs2.
func Beq(rs1, rs2 uint32, imm int32) uint32 { return riscv.EncodeBType(0x63, 0, rs1, rs2, imm) }

// Jal encodes a jump by imm, linking into rd.
func Jal(rd uint32, imm int32) uint32 { return riscv.EncodeJType(0x6f, rd, imm) }

// Lw encodes rd = mem[rs1 + imm].
func Lw(rd, rs1 uint32, imm int32) uint32 { return riscv.EncodeIType(0x03, rd, 2, rs1, imm) }

// Sw encodes mem[rs1 + imm] = rs2.
func Sw(rs2, rs1 uint32, imm int32) uint32 { return riscv.EncodeSType(0x23, 2, rs1, rs2, imm) }

// Li loads an arbitrary constant into a register.
func Li(rd uint32, v uint32) []uint32 {
	return []uint32{riscv.EncodeUType(0x37, rd, (v+0x800)&^0xfff), Addi(rd, rd, int32(v<<20)>>20)}
}

// Syscall invokes a system call with the given arguments.
func Syscall(code syscall.Code, a0, a1 uint32) []uint32 {
	return slices.Concat(Li(5, uint32(code)), Li(10, a0), Li(11, a1), []uint32{riscv.ECALL_WORD})
}

// Halt terminates execution with a given exit code.
func Halt(code int32) []uint32 {
	return []uint32{Addi(5, 0, 0), Addi(10, 0, code), riscv.ECALL_WORD}
}

// Fibonacci computes the nth Fibonacci number into x11, executing 6n+7
// instructions.
func Fibonacci(n int32) *riscv.Program {
	return riscv.Assemble([]uint32{
		Addi(10, 0, n),
		Addi(11, 0, 0),
		Addi(12, 0, 1),
		// loop:
		Beq(10, 0, 24),
		Add(13, 11, 12),
		Addi(11, 12, 0),
		Addi(12, 13, 0),
		Addi(10, 10, -1),
		Jal(0, -20),
		// done:
		Addi(5, 0, 0),
		Addi(10, 0, 0),
		riscv.ECALL_WORD,
	}, BASE)
}

// Memory stores n words into the data region, mixing arithmetic with bitwise
// operations, and then reads them back, accumulating their sum into x13 which
// is committed as the first word of the public values digest.
func Memory(n int32) *riscv.Program {
	var words = slices.Concat(
		Li(14, DATA),
		Li(15, 0x5a5a5a5a),
		[]uint32{
			Addi(10, 0, n),
			Addi(12, 14, 0),
			// store loop:
			Beq(10, 0, 32),
			Mul(11, 10, 10),
			Xor(11, 11, 15),
			And(11, 11, 15),
			Sw(11, 12, 0),
			Addi(12, 12, 4),
			Addi(10, 10, -1),
			Jal(0, -28),
			// load loop:
			Addi(10, 0, n),
			Addi(13, 0, 0),
			Beq(10, 0, 24),
			Addi(12, 12, -4),
			Lw(11, 12, 0),
			Add(13, 13, 11),
			Addi(10, 10, -1),
			Jal(0, -20),
		},
		Li(5, uint32(syscall.COMMIT)),
		[]uint32{Addi(10, 0, 0), Addi(11, 13, 0), riscv.ECALL_WORD},
		Halt(0),
	)
	//
	return riscv.Assemble(words, BASE)
}

// MemorySum returns the value committed by the Memory program.
func MemorySum(n int32) uint32 {
	var sum uint32
	//
	for i := uint32(1); i <= uint32(n); i++ {
		sum += ((i * i) ^ 0x5a5a5a5a) & 0x5a5a5a5a
	}
	//
	return sum
}

// Sha256 hashes a single (already padded) 64-byte block, leaving the digest in
// the eight words at DATA+256.
func Sha256(block [64]byte) *riscv.Program {
	var (
		schedule = uint32(DATA)
		state    = uint32(DATA + 256)
		iv       = []uint32{0x6a09e667, 0xbb67ae85, 0x3c6ef372, 0xa54ff53a, 0x510e527f, 0x9b05688c, 0x1f83d9ab,
			0x5be0cd19}
	)
	//
	program := riscv.Assemble(slices.Concat(
		Syscall(syscall.SHA_EXTEND, schedule, 0),
		Syscall(syscall.SHA_COMPRESS, schedule, state),
		Halt(0)), BASE)
	//
	for i := range 16 {
		program.Image[schedule+4*uint32(i)] = binary.BigEndian.Uint32(block[4*i:])
	}
	//
	for i, w := range iv {
		program.Image[state+4*uint32(i)] = w
	}
	//
	return program
}

// Sha256Block pads a short message (of at most 55 bytes) into a single
// SHA-256 block.
func Sha256Block(msg []byte) [64]byte {
	var block [64]byte
	//
	if len(msg) > 55 {
		panic("message too long for a single block")
	}
	//
	copy(block[:], msg)
	block[len(msg)] = 0x80
	binary.BigEndian.PutUint64(block[56:], uint64(8*len(msg)))
	//
	return block
}

// Unconstrained executes a block which modifies registers and memory whilst
// unconstrained, before loading the (restored) first word of the data region
// into x11 and halting.
func Unconstrained() *riscv.Program {
	return riscv.Assemble(slices.Concat(
		Li(14, DATA),
		[]uint32{Addi(13, 0, 7), Sw(13, 14, 0)},
		Syscall(syscall.ENTER_UNCONSTRAINED, 0, 0),
		// t0 is 1 when entering, and 0 when resuming.
		[]uint32{
			Beq(5, 0, 44),
			Addi(13, 0, 99),
			Sw(13, 14, 0),
			Sw(13, 14, 4),
		},
		Syscall(syscall.EXIT_UNCONSTRAINED, 0, 0),
		[]uint32{Lw(11, 14, 0)},
		Halt(0)), BASE)
}
