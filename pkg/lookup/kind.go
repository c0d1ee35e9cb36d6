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

// Package lookup provides the bookkeeping of the lookup argument: chips record
// the facts they consume (looking) and provide (looked), tagged with a kind and
// a scope, and the resulting multisets are checked for balance.
package lookup

import "fmt"

// Kind partitions interactions into independent arguments.  Interactions of
// different kinds never interact.
type Kind uint8

// Kinds of interaction.
const (
	Memory Kind = iota + 1
	Program
	Alu
	Byte
	Range
	Field
	Syscall
	Poseidon2
	Global
)

// KINDS lists every kind of interaction.
var KINDS = []Kind{Memory, Program, Alu, Byte, Range, Field, Syscall, Poseidon2, Global}

func (k Kind) String() string {
	switch k {
	case Memory:
		return "Memory"
	case Program:
		return "Program"
	case Alu:
		return "Alu"
	case Byte:
		return "Byte"
	case Range:
		return "Range"
	case Field:
		return "Field"
	case Syscall:
		return "Syscall"
	case Poseidon2:
		return "Poseidon2"
	case Global:
		return "Global"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Scope determines over which traces an interaction must balance.
type Scope uint8

const (
	// REGIONAL interactions balance within the trace of a single chunk.
	REGIONAL Scope = iota
	// GLOBAL interactions balance across all chunks of an execution combined.
	GLOBAL
)

func (s Scope) String() string {
	if s == REGIONAL {
		return "Regional"
	}
	//
	return "Global"
}
