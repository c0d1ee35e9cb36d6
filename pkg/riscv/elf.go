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
	"bytes"
	"debug/elf"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// ErrInvalidElf signals an ELF file which cannot be executed.
var ErrInvalidElf = errors.New("invalid elf")

// LoadELF constructs a program from a statically linked 32-bit RISC-V ELF
// executable.  All loadable segments form the memory image, whilst the (single)
// executable segment is decoded into instructions.
func LoadELF(data []byte) (*Program, error) {
	file, err := elf.NewFile(bytes.NewReader(data))
	//
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidElf, err)
	} else if file.Class != elf.ELFCLASS32 {
		return nil, fmt.Errorf("%w: not a 32-bit executable", ErrInvalidElf)
	} else if file.Machine != elf.EM_RISCV {
		return nil, fmt.Errorf("%w: not a RISC-V executable (%s)", ErrInvalidElf, file.Machine)
	}
	//
	var (
		image   = make(map[uint32]uint32)
		text    []uint32
		base    uint32
		hasText bool
	)
	//
	for _, segment := range file.Progs {
		if segment.Type != elf.PT_LOAD {
			continue
		} else if segment.Vaddr%4 != 0 {
			return nil, fmt.Errorf("%w: misaligned segment at 0x%x", ErrInvalidElf, segment.Vaddr)
		} else if segment.Vaddr+segment.Memsz > math.MaxUint32 || segment.Filesz > segment.Memsz {
			return nil, fmt.Errorf("%w: segment at 0x%x out of bounds", ErrInvalidElf, segment.Vaddr)
		}
		//
		contents, err := io.ReadAll(segment.Open())
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidElf, err)
		}
		//
		words := toWords(contents)
		//
		for i, w := range words {
			if w != 0 {
				image[uint32(segment.Vaddr)+uint32(4*i)] = w
			}
		}
		//
		if segment.Flags&elf.PF_X != 0 {
			if hasText {
				return nil, fmt.Errorf("%w: multiple executable segments", ErrInvalidElf)
			}
			//
			text, base, hasText = words, uint32(segment.Vaddr), true
		}
	}
	//
	if !hasText {
		return nil, fmt.Errorf("%w: no executable segment", ErrInvalidElf)
	}
	//
	program := Assemble(text, base)
	program.PCStart = uint32(file.Entry)
	program.Image = image
	//
	if _, ok := program.Fetch(program.PCStart); !ok {
		return nil, fmt.Errorf("%w: entry point 0x%x outside text", ErrInvalidElf, file.Entry)
	}
	//
	return program, nil
}

// toWords splits bytes into little-endian words, padding the last with zeros.
func toWords(data []byte) []uint32 {
	var words = make([]uint32, (len(data)+3)/4)
	//
	for i := range words {
		var buf [4]byte
		//
		copy(buf[:], data[4*i:])
		words[i] = binary.LittleEndian.Uint32(buf[:])
	}
	//
	return words
}
