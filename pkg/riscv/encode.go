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

// EncodeRType encodes a register-register instruction.
func EncodeRType(opcode, rd, funct3, rs1, rs2, funct7 uint32) uint32 {
	return funct7<<25 | rs2<<20 | rs1<<15 | funct3<<12 | rd<<7 | opcode
}

// EncodeIType encodes a register-immediate instruction (including loads and
// JALR).
func EncodeIType(opcode, rd, funct3, rs1 uint32, imm int32) uint32 {
	return (uint32(imm)&0xfff)<<20 | rs1<<15 | funct3<<12 | rd<<7 | opcode
}

// EncodeSType encodes a store.
func EncodeSType(opcode, funct3, rs1, rs2 uint32, imm int32) uint32 {
	u := uint32(imm)
	//
	return ((u>>5)&0x7f)<<25 | rs2<<20 | rs1<<15 | funct3<<12 | (u&0x1f)<<7 | opcode
}

// EncodeBType encodes a conditional branch with a byte offset.
func EncodeBType(opcode, funct3, rs1, rs2 uint32, imm int32) uint32 {
	u := uint32(imm)
	//
	return ((u>>12)&1)<<31 | ((u>>5)&0x3f)<<25 | rs2<<20 | rs1<<15 | funct3<<12 |
		((u>>1)&0xf)<<8 | ((u>>11)&1)<<7 | opcode
}

// EncodeUType encodes LUI and AUIPC, where imm holds the upper 20 bits.
func EncodeUType(opcode, rd, imm uint32) uint32 {
	return imm&0xfffff000 | rd<<7 | opcode
}

// EncodeJType encodes JAL with a byte offset.
func EncodeJType(opcode, rd uint32, imm int32) uint32 {
	u := uint32(imm)
	//
	return ((u>>20)&1)<<31 | ((u>>1)&0x3ff)<<21 | ((u>>11)&1)<<20 | ((u>>12)&0xff)<<12 | rd<<7 | opcode
}

// ECALL_WORD is the encoding of ECALL.
const ECALL_WORD = 0x00000073
