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
package prover

import (
	"encoding/binary"
	"fmt"

	"github.com/consensys/go-zkvm/pkg/air"
	"github.com/consensys/go-zkvm/pkg/util/field"
	"golang.org/x/crypto/blake2b"
)

// Commitment to a trace.
type Commitment [blake2b.Size256]byte

// Opening of a single row of a committed trace.
type Opening struct {
	_      struct{} `cbor:",toarray"`
	Row    uint
	Values []uint64
	Path   []Commitment
}

// PCS is a commitment scheme for traces.  Commitments are binding on the
// trace (including its dimensions), and individual rows can be opened against
// them.
type PCS[F field.Element[F]] interface {
	// Commit to a given trace.
	Commit(trace *air.Trace[F]) (Commitment, *CommittedTrace[F], error)
	// Open a given row of a committed trace.
	Open(committed *CommittedTrace[F], row uint) (Opening, error)
	// Verify an opening against a given commitment.
	Verify(commitment Commitment, opening Opening) bool
}

// CommittedTrace retains whatever a commitment scheme needs to open a trace.
type CommittedTrace[F field.Element[F]] struct {
	trace *air.Trace[F]
	// levels of the tree, from leaves to root.
	levels [][]Commitment
}

// Trace returns the trace which was committed.
func (c *CommittedTrace[F]) Trace() *air.Trace[F] {
	return c.trace
}

// MerklePCS commits to a trace using a binary Merkle tree over its rows.  This
// is sufficient for testing the pipeline, but offers no succinctness.
type MerklePCS[F field.Element[F]] struct{}

// Commit implementation for the PCS interface.
func (p MerklePCS[F]) Commit(trace *air.Trace[F]) (Commitment, *CommittedTrace[F], error) {
	var (
		height = trace.Height()
		leaves = make([]Commitment, height)
	)
	//
	if height == 0 || height&(height-1) != 0 {
		return Commitment{}, nil, fmt.Errorf("trace height %d is not a power of two", height)
	}
	//
	for i := range height {
		leaves[i] = hashLeaf(i, uint64s(trace.Row(i).All()))
	}
	//
	levels := [][]Commitment{leaves}
	//
	for level := leaves; len(level) > 1; {
		next := make([]Commitment, len(level)/2)
		//
		for i := range next {
			next[i] = hashNode(level[2*i], level[2*i+1])
		}
		//
		levels = append(levels, next)
		level = next
	}
	//
	return levels[len(levels)-1][0], &CommittedTrace[F]{trace, levels}, nil
}

// Open implementation for the PCS interface.
func (p MerklePCS[F]) Open(committed *CommittedTrace[F], row uint) (Opening, error) {
	var (
		trace = committed.trace
		path  []Commitment
		index = row
	)
	//
	if row >= trace.Height() {
		return Opening{}, fmt.Errorf("row %d out-of-bounds (height %d)", row, trace.Height())
	}
	//
	for _, level := range committed.levels[:len(committed.levels)-1] {
		path = append(path, level[index^1])
		index /= 2
	}
	//
	return Opening{Row: row, Values: uint64s(trace.Row(row).All()), Path: path}, nil
}

// Verify implementation for the PCS interface.
func (p MerklePCS[F]) Verify(commitment Commitment, opening Opening) bool {
	var (
		hash  = hashLeaf(opening.Row, opening.Values)
		index = opening.Row
	)
	//
	if opening.Row >= 1<<len(opening.Path) {
		return false
	}
	//
	for _, sibling := range opening.Path {
		if index%2 == 0 {
			hash = hashNode(hash, sibling)
		} else {
			hash = hashNode(sibling, hash)
		}
		//
		index /= 2
	}
	//
	return hash == commitment
}

func hashLeaf(row uint, values []uint64) Commitment {
	var data = []byte{0}
	//
	data = binary.BigEndian.AppendUint64(data, uint64(row))
	//
	for _, v := range values {
		data = binary.BigEndian.AppendUint64(data, v)
	}
	//
	return blake2b.Sum256(data)
}

func hashNode(left, right Commitment) Commitment {
	var data = make([]byte, 0, 1+2*len(left))
	//
	data = append(data, 1)
	data = append(data, left[:]...)
	data = append(data, right[:]...)
	//
	return blake2b.Sum256(data)
}

func uint64s[F field.Element[F]](values []F) []uint64 {
	var res = make([]uint64, len(values))
	//
	for i, v := range values {
		res[i] = v.Uint64()
	}
	//
	return res
}
