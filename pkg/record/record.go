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
package record

import (
	"crypto/sha256"
	"encoding/binary"
	"slices"
)

// PV_DIGEST_NUM_WORDS determines the number of words in a public values digest.
const PV_DIGEST_NUM_WORDS = 8

// PublicValues of a chunk, which are exposed by its proof and chain chunks
// together.
type PublicValues struct {
	_                   struct{} `cbor:",toarray"`
	ChunkIndex          uint32
	ExecutionChunkIndex uint32
	StartPC             uint32
	NextPC              uint32
	ExitCode            uint32
	// Digest committed by the program (so far).
	CommittedValueDigest [PV_DIGEST_NUM_WORDS]uint32
	// Digest of deferred proofs committed by the program (so far).
	DeferredProofsDigest [PV_DIGEST_NUM_WORDS]uint32
}

// DigestPublicValues computes the digest a program commits to for a given
// public values stream: the SHA-256 of the stream as little-endian words.
func DigestPublicValues(stream []byte) [PV_DIGEST_NUM_WORDS]uint32 {
	var (
		hash   = sha256.Sum256(stream)
		digest [PV_DIGEST_NUM_WORDS]uint32
	)
	//
	for i := range digest {
		digest[i] = binary.LittleEndian.Uint32(hash[4*i:])
	}
	//
	return digest
}

// Record of one chunk of execution.  A record is append-only whilst its chunk
// is executing, and immutable once sealed.
type Record struct {
	_                      struct{} `cbor:",toarray"`
	PublicValues           PublicValues
	CpuEvents              []CpuEvent
	AluEvents              []AluEvent
	ByteLookups            []ByteLookupEvent
	MemoryLocalEvents      []MemoryLocalEvent
	MemoryInitializeEvents []MemoryInitializeFinalizeEvent
	MemoryFinalizeEvents   []MemoryInitializeFinalizeEvent
	SyscallEvents          []SyscallEvent
	PrecompileEvents       []PrecompileEvent
	// addresses accessed in this chunk, mapped to their summary.
	local map[uint32]*MemoryLocalEvent
}

// New constructs an empty record for a given chunk.
func New(chunk uint32, startPC uint32) *Record {
	return &Record{
		PublicValues: PublicValues{ChunkIndex: chunk, StartPC: startPC},
		local:        make(map[uint32]*MemoryLocalEvent),
	}
}

// Chunk returns the index of this record's chunk.
func (r *Record) Chunk() uint32 {
	return r.PublicValues.ChunkIndex
}

// TrackAccess updates the local memory summary of this chunk with a given
// access.
func (r *Record) TrackAccess(access MemoryAccessRecord) {
	if r.local == nil {
		panic("access tracked on sealed record")
	}
	//
	if event, ok := r.local[access.Addr]; ok {
		event.Final = access.Current()
	} else {
		r.local[access.Addr] = &MemoryLocalEvent{
			Addr:    access.Addr,
			Initial: access.Previous(),
			Final:   access.Current(),
		}
	}
}

// Seal this record, at which point the local memory summary is materialised
// (in address order) and the record becomes immutable.
func (r *Record) Seal() {
	var addrs = make([]uint32, 0, len(r.local))
	//
	for addr := range r.local {
		addrs = append(addrs, addr)
	}
	//
	slices.Sort(addrs)
	//
	r.MemoryLocalEvents = make([]MemoryLocalEvent, len(addrs))
	//
	for i, addr := range addrs {
		r.MemoryLocalEvents[i] = *r.local[addr]
	}
	//
	r.local = nil
}

// IsSealed checks whether this record has been sealed.
func (r *Record) IsSealed() bool {
	return r.local == nil
}

// Stats summarises the contents of a record.
type Stats struct {
	CpuEvents        uint
	AluEvents        uint
	ByteLookups      uint
	MemoryLocal      uint
	MemoryInitialize uint
	MemoryFinalize   uint
	Syscalls         uint
	Precompiles      uint
}

// Stats summarises the contents of this record.
func (r *Record) Stats() Stats {
	return Stats{
		CpuEvents:        uint(len(r.CpuEvents)),
		AluEvents:        uint(len(r.AluEvents)),
		ByteLookups:      uint(len(r.ByteLookups)),
		MemoryLocal:      uint(len(r.MemoryLocalEvents)),
		MemoryInitialize: uint(len(r.MemoryInitializeEvents)),
		MemoryFinalize:   uint(len(r.MemoryFinalizeEvents)),
		Syscalls:         uint(len(r.SyscallEvents)),
		Precompiles:      uint(len(r.PrecompileEvents)),
	}
}
