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

// Package record defines the execution record produced for each chunk of an
// execution: the events from which chip traces are generated, along with the
// public values which chain chunks together.
package record

// MemoryRecord captures the current value of a memory word together with the
// time at which it was last accessed.
type MemoryRecord struct {
	_         struct{} `cbor:",toarray"`
	Value     uint32
	Chunk     uint32
	Timestamp uint32
}

// Before determines whether this record was written strictly before another.
func (r MemoryRecord) Before(other MemoryRecord) bool {
	return r.Chunk < other.Chunk || (r.Chunk == other.Chunk && r.Timestamp < other.Timestamp)
}

// MemoryAccessRecord captures a single read or write of a memory word,
// including the record it replaced.  A read is an access whose value equals
// its previous value.
type MemoryAccessRecord struct {
	_             struct{} `cbor:",toarray"`
	Addr          uint32
	Value         uint32
	Chunk         uint32
	Timestamp     uint32
	PrevValue     uint32
	PrevChunk     uint32
	PrevTimestamp uint32
}

// NewAccess constructs an access of a given address which replaced prev with
// next.
func NewAccess(addr uint32, prev, next MemoryRecord) MemoryAccessRecord {
	return MemoryAccessRecord{
		Addr:          addr,
		Value:         next.Value,
		Chunk:         next.Chunk,
		Timestamp:     next.Timestamp,
		PrevValue:     prev.Value,
		PrevChunk:     prev.Chunk,
		PrevTimestamp: prev.Timestamp,
	}
}

// Previous returns the record replaced by this access.
func (r MemoryAccessRecord) Previous() MemoryRecord {
	return MemoryRecord{Value: r.PrevValue, Chunk: r.PrevChunk, Timestamp: r.PrevTimestamp}
}

// Current returns the record written by this access.
func (r MemoryAccessRecord) Current() MemoryRecord {
	return MemoryRecord{Value: r.Value, Chunk: r.Chunk, Timestamp: r.Timestamp}
}
