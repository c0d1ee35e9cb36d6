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
package riscv

import (
	"encoding/binary"
	"testing"

	"github.com/consensys/go-zkvm/pkg/util/assert"
)

func Test_Decode_RType(t *testing.T) {
	checkDecode(t, EncodeRType(0x33, 3, 0, 1, 2, 0), Instruction{ADD, 3, 1, 2, false, false})
	checkDecode(t, EncodeRType(0x33, 3, 0, 1, 2, 0x20), Instruction{SUB, 3, 1, 2, false, false})
	checkDecode(t, EncodeRType(0x33, 4, 5, 6, 7, 0x20), Instruction{SRA, 4, 6, 7, false, false})
	checkDecode(t, EncodeRType(0x33, 4, 3, 6, 7, 0x01), Instruction{MULHU, 4, 6, 7, false, false})
	checkDecode(t, EncodeRType(0x33, 4, 7, 6, 7, 0x01), Instruction{REMU, 4, 6, 7, false, false})
	checkInvalid(t, EncodeRType(0x33, 4, 1, 6, 7, 0x20))
}

func Test_Decode_IType(t *testing.T) {
	checkDecode(t, EncodeIType(0x13, 1, 0, 0, 42), Instruction{ADD, 1, 0, 42, false, true})
	checkDecode(t, EncodeIType(0x13, 1, 0, 0, -1), Instruction{ADD, 1, 0, 0xffffffff, false, true})
	checkDecode(t, EncodeIType(0x13, 1, 7, 2, 0xff), Instruction{AND, 1, 2, 0xff, false, true})
	checkDecode(t, EncodeIType(0x13, 1, 1, 2, 5), Instruction{SLL, 1, 2, 5, false, true})
	checkDecode(t, EncodeIType(0x13, 1, 5, 2, 0x400|7), Instruction{SRA, 1, 2, 7, false, true})
	checkDecode(t, EncodeIType(0x03, 1, 2, 2, -8), Instruction{LW, 1, 2, 0xfffffff8, false, true})
	checkDecode(t, EncodeIType(0x03, 1, 4, 2, 3), Instruction{LBU, 1, 2, 3, false, true})
	checkDecode(t, EncodeIType(0x67, 1, 0, 2, 16), Instruction{JALR, 1, 2, 16, false, true})
	checkInvalid(t, EncodeIType(0x03, 1, 3, 2, 0))
}

func Test_Decode_SBType(t *testing.T) {
	checkDecode(t, EncodeSType(0x23, 2, 2, 9, 64), Instruction{SW, 9, 2, 64, false, true})
	checkDecode(t, EncodeSType(0x23, 0, 2, 9, -3), Instruction{SB, 9, 2, 0xfffffffd, false, true})
	checkDecode(t, EncodeBType(0x63, 0, 10, 0, 24), Instruction{BEQ, 10, 0, 24, false, true})
	checkDecode(t, EncodeBType(0x63, 6, 10, 11, -20), Instruction{BLTU, 10, 11, 0xffffffec, false, true})
	checkDecode(t, EncodeBType(0x63, 1, 1, 2, 4094), Instruction{BNE, 1, 2, 4094, false, true})
}

func Test_Decode_UJType(t *testing.T) {
	checkDecode(t, EncodeUType(0x37, 1, 0x12345000), Instruction{LUI, 1, 0x12345000, 0, true, true})
	checkDecode(t, EncodeUType(0x17, 2, 0x10000000), Instruction{AUIPC, 2, 0x10000000, 0, true, true})
	checkDecode(t, EncodeJType(0x6f, 0, -24), Instruction{JAL, 0, 0xffffffe8, 0, true, true})
	checkDecode(t, EncodeJType(0x6f, 1, 2048), Instruction{JAL, 1, 2048, 0, true, true})
	checkDecode(t, ECALL_WORD, Instruction{ECALL, T0, uint32(A0), uint32(A1), false, false})
	checkInvalid(t, 0)
}

func Test_Program_Fetch(t *testing.T) {
	program := Assemble([]uint32{EncodeIType(0x13, 1, 0, 0, 1), 0xffffffff}, 0x1000)
	//
	insn, ok := program.Fetch(0x1000)
	assert.True(t, ok)
	assert.Equal(t, ADD, insn.Opcode)
	// undecodable words become unimplemented instructions
	insn, ok = program.Fetch(0x1004)
	assert.True(t, ok)
	assert.Equal(t, UNIMP, insn.Opcode)
	// outside the text segment, or misaligned
	_, ok = program.Fetch(0x1008)
	assert.False(t, ok)
	_, ok = program.Fetch(0xffc)
	assert.False(t, ok)
	_, ok = program.Fetch(0x1002)
	assert.False(t, ok)
	//
	assert.Equal(t, uint32(0xffffffff), program.InitialValue(0x1004))
}

func Test_Program_Digest(t *testing.T) {
	p1 := Assemble([]uint32{EncodeIType(0x13, 1, 0, 0, 1), ECALL_WORD}, 0x1000)
	p2 := Assemble([]uint32{EncodeIType(0x13, 1, 0, 0, 1), ECALL_WORD}, 0x1000)
	p3 := Assemble([]uint32{EncodeIType(0x13, 1, 0, 0, 2), ECALL_WORD}, 0x1000)
	//
	assert.Equal(t, p1.Digest(), p2.Digest())
	assert.True(t, p1.Digest() != p3.Digest())
	//
	p2.Image[0x2000] = 7
	assert.True(t, p1.Digest() != p2.Digest())
}

func Test_LoadELF(t *testing.T) {
	code := []uint32{EncodeIType(0x13, 10, 0, 0, 7), ECALL_WORD}
	program, err := LoadELF(buildElf(0x10004, 0x10000, code, 243))
	//
	assert.NoError(t, err)
	assert.Equal(t, uint32(0x10004), program.PCStart)
	assert.Equal(t, uint32(0x10000), program.PCBase)
	assert.Equal(t, 2, len(program.Instructions))
	assert.Equal(t, ECALL, program.Instructions[1].Opcode)
	assert.Equal(t, code[0], program.Image[0x10000])
}

func Test_LoadELF_Invalid(t *testing.T) {
	code := []uint32{ECALL_WORD}
	// wrong machine
	_, err := LoadELF(buildElf(0x10000, 0x10000, code, 62))
	assert.ErrorIs(t, err, ErrInvalidElf)
	// entry outside text
	_, err = LoadELF(buildElf(0x20000, 0x10000, code, 243))
	assert.ErrorIs(t, err, ErrInvalidElf)
	// not an elf at all
	_, err = LoadELF([]byte("hello world"))
	assert.ErrorIs(t, err, ErrInvalidElf)
}

func checkDecode(t *testing.T, word uint32, expected Instruction) {
	t.Helper()
	//
	actual, err := Decode(word)
	assert.NoError(t, err)
	assert.Equal(t, expected, actual, "decoding 0x%08x", word)
}

func checkInvalid(t *testing.T, word uint32) {
	t.Helper()
	//
	_, err := Decode(word)
	assert.ErrorIs(t, err, ErrInvalidInstruction)
}

// buildElf constructs a minimal ELF32 executable with a single loadable,
// executable segment.
func buildElf(entry, vaddr uint32, code []uint32, machine uint16) []byte {
	const (
		ehsize = 52
		phsize = 32
	)
	//
	var (
		buf = make([]byte, ehsize+phsize+4*len(code))
		le  = binary.LittleEndian
	)
	//
	copy(buf, []byte{0x7f, 'E', 'L', 'F', 1, 1, 1})
	le.PutUint16(buf[16:], 2) // ET_EXEC
	le.PutUint16(buf[18:], machine)
	le.PutUint32(buf[20:], 1)
	le.PutUint32(buf[24:], entry)
	le.PutUint32(buf[28:], ehsize)
	le.PutUint16(buf[40:], ehsize)
	le.PutUint16(buf[42:], phsize)
	le.PutUint16(buf[44:], 1)
	le.PutUint16(buf[46:], 40)
	// program header
	ph := buf[ehsize:]
	le.PutUint32(ph[0:], 1) // PT_LOAD
	le.PutUint32(ph[4:], ehsize+phsize)
	le.PutUint32(ph[8:], vaddr)
	le.PutUint32(ph[12:], vaddr)
	le.PutUint32(ph[16:], uint32(4*len(code)))
	le.PutUint32(ph[20:], uint32(4*len(code)))
	le.PutUint32(ph[24:], 5) // PF_R | PF_X
	le.PutUint32(ph[28:], 4)
	//
	for i, w := range code {
		le.PutUint32(buf[ehsize+phsize+4*i:], w)
	}
	//
	return buf
}
