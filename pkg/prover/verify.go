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
	"errors"
	"fmt"
	"math/bits"

	"github.com/consensys/go-zkvm/pkg/air"
	"github.com/consensys/go-zkvm/pkg/global"
	"github.com/consensys/go-zkvm/pkg/lookup"
)

// ErrInvalidProof signals a sequence of chunk proofs which does not establish
// a valid execution.
var ErrInvalidProof = errors.New("invalid proof")

// Verify a complete sequence of chunk proofs.  Beyond checking each chunk in
// isolation, this checks the chunks are chained together correctly, that
// execution halted, and that all global interactions balance out.
func (p *Prover[F]) Verify(proofs []*ChunkProof[F]) error {
	var digests = make([]global.Digest[F], len(proofs))
	//
	if len(proofs) == 0 {
		return fmt.Errorf("%w: no chunks", ErrInvalidProof)
	}
	//
	for i, proof := range proofs {
		pv := proof.PublicValues
		//
		if pv.ChunkIndex != uint32(i+1) {
			return fmt.Errorf("%w: chunk %d found at position %d", ErrInvalidProof, pv.ChunkIndex, i+1)
		} else if i == 0 && pv.StartPC != p.machine.Program().PCStart {
			return fmt.Errorf("%w: execution starts at 0x%08x", ErrInvalidProof, pv.StartPC)
		} else if i > 0 && proofs[i-1].PublicValues.NextPC != pv.StartPC {
			return fmt.Errorf("%w: chunk %d starts at 0x%08x, but chunk %d ends at 0x%08x", ErrInvalidProof,
				pv.ChunkIndex, pv.StartPC, i, proofs[i-1].PublicValues.NextPC)
		} else if err := p.VerifyChunk(proof); err != nil {
			return err
		}
		//
		digests[i] = proof.GlobalDigest
	}
	//
	if last := proofs[len(proofs)-1].PublicValues; last.NextPC != 0 {
		return fmt.Errorf("%w: execution did not halt (next pc 0x%08x)", ErrInvalidProof, last.NextPC)
	}
	//
	sum, err := p.acc.Sum(digests...)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidProof, err)
	} else if !p.acc.IsZero(sum) {
		return fmt.Errorf("%w: global interactions do not balance (%s)", ErrInvalidProof, sum)
	}
	//
	return nil
}

// VerifyChunk checks the proof of a single chunk in isolation.  Specifically,
// it replays the transcript to confirm every opening was sampled correctly and
// matches its commitment, and that regional interactions balance out.
func (p *Prover[F]) VerifyChunk(proof *ChunkProof[F]) error {
	var (
		challenger = p.transcript()
		chunk      = proof.PublicValues.ChunkIndex
	)
	//
	observePublicValues(challenger, proof.PublicValues)
	//
	for _, cp := range proof.Chips {
		chip := p.machine.Chip(cp.Name)
		//
		if chip == nil {
			return fmt.Errorf("%w: chunk %d has unknown chip %s", ErrInvalidProof, chunk, cp.Name)
		} else if cp.Height < air.MIN_HEIGHT || cp.Height&(cp.Height-1) != 0 {
			return fmt.Errorf("%w: chip %s has invalid height %d", ErrInvalidProof, cp.Name, cp.Height)
		} else if uint(len(cp.Opening.Values)) != chip.Layout().Width() {
			return fmt.Errorf("%w: chip %s has invalid width %d", ErrInvalidProof, cp.Name, len(cp.Opening.Values))
		} else if len(cp.Opening.Path) != bits.Len(cp.Height)-1 {
			return fmt.Errorf("%w: chip %s has opening of length %d", ErrInvalidProof, cp.Name, len(cp.Opening.Path))
		}
		//
		observeChip(challenger, cp)
	}
	// Challenges are not needed for the checks made here, but must be drawn to
	// keep the transcript aligned.
	challenger.SampleExt(p.ext)
	challenger.SampleExt(p.ext)
	//
	if _, err := p.acc.FromUint64s(proof.GlobalDigest.Uint64s()); err != nil {
		return fmt.Errorf("%w: chunk %d: %w", ErrInvalidProof, chunk, err)
	}
	//
	for i, v := range proof.RegionalSum {
		if v != 0 {
			return fmt.Errorf("%w: chunk %d: regional %s interactions do not balance (coefficient %d is %d)",
				ErrInvalidProof, chunk, lookup.REGIONAL, i, v)
		}
	}
	//
	observeSums(challenger, proof)
	//
	for _, cp := range proof.Chips {
		row := challenger.SampleIndex(cp.Height)
		//
		if cp.Opening.Row != row {
			return fmt.Errorf("%w: chip %s opened at row %d (expected %d)", ErrInvalidProof, cp.Name, cp.Opening.Row, row)
		} else if !p.pcs.Verify(cp.Commitment, cp.Opening) {
			return fmt.Errorf("%w: chip %s opening does not match commitment", ErrInvalidProof, cp.Name)
		}
	}
	//
	return nil
}
