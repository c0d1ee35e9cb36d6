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
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/consensys/go-zkvm/pkg/air"
	"github.com/consensys/go-zkvm/pkg/emulator"
	"github.com/consensys/go-zkvm/pkg/global"
	"github.com/consensys/go-zkvm/pkg/lookup"
	"github.com/consensys/go-zkvm/pkg/record"
	"github.com/consensys/go-zkvm/pkg/riscv"
	"github.com/consensys/go-zkvm/pkg/util"
	"github.com/consensys/go-zkvm/pkg/util/field"
	"github.com/consensys/go-zkvm/pkg/util/field/septic"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// DOMAIN separates the transcripts of chunk proofs from any other use of the
// challenger.
const DOMAIN = "zkvm/chunk"

// ChipProof holds the commitment to a single chip's trace, along with the
// opening of one (randomly sampled) row.
type ChipProof struct {
	_          struct{} `cbor:",toarray"`
	Name       string
	Height     uint
	Commitment Commitment
	Opening    Opening
}

// ChunkProof is the proof of a single chunk.  The regional sum must be zero
// for every valid chunk, whilst the global digests of all chunks must sum to
// the accumulator's zero.
type ChunkProof[F field.Element[F]] struct {
	_            struct{} `cbor:",toarray"`
	PublicValues record.PublicValues
	Chips        []ChipProof
	RegionalSum  [septic.Degree]uint64
	GlobalDigest global.Digest[F]
}

// Prover generates chunk proofs for a given program.
type Prover[F field.Element[F]] struct {
	machine *air.Machine[F]
	pcs     PCS[F]
	ext     *septic.Field[F]
	acc     *global.Accumulator[F]
	workers int
	// fingerprint of the program, binding every transcript to it
	digest [32]byte
}

// New constructs a prover for a given program, using a given commitment
// scheme.
func New[F field.Element[F]](program *riscv.Program, pcs PCS[F]) (*Prover[F], error) {
	acc, err := global.NewAccumulator[F]()
	if err != nil {
		return nil, err
	}
	//
	return &Prover[F]{air.NewMachine[F](program), pcs, acc.Curve().Field(), acc, runtime.NumCPU(), program.Digest()}, nil
}

// WithWorkers limits the number of chunks proved concurrently.
func (p *Prover[F]) WithWorkers(n int) *Prover[F] {
	p.workers = max(1, n)
	return p
}

// Machine returns the machine whose chunks this prover proves.
func (p *Prover[F]) Machine() *air.Machine[F] {
	return p.machine
}

// Accumulator returns the global accumulator used by this prover.
func (p *Prover[F]) Accumulator() *global.Accumulator[F] {
	return p.acc
}

// ProveChunk proves a single chunk.
func (p *Prover[F]) ProveChunk(r *record.Record) (*ChunkProof[F], error) {
	var (
		stats      = util.NewPerfStats()
		challenger = p.transcript()
		proof      = &ChunkProof[F]{PublicValues: r.PublicValues}
		committed  []*CommittedTrace[F]
	)
	//
	traces, err := p.machine.GenerateTraces(r, p.machine.GenerateDependencies(r))
	if err != nil {
		return nil, err
	}
	//
	observePublicValues(challenger, r.PublicValues)
	//
	for i, chip := range p.machine.Chips() {
		if traces[i] == nil {
			continue
		}
		//
		commitment, c, err := p.pcs.Commit(traces[i])
		if err != nil {
			return nil, fmt.Errorf("committing to %s: %w", chip.Name(), err)
		}
		//
		cp := ChipProof{Name: chip.Name(), Height: traces[i].Height(), Commitment: commitment}
		observeChip(challenger, cp)
		proof.Chips = append(proof.Chips, cp)
		committed = append(committed, c)
	}
	//
	challenges := lookup.Challenges[F]{Alpha: challenger.SampleExt(p.ext), Beta: challenger.SampleExt(p.ext)}
	interactions := p.machine.Eval(traces)
	//
	sum, err := lookup.LogUpSum(p.ext, challenges, interactions.Filter(lookup.REGIONAL))
	if err != nil {
		return nil, fmt.Errorf("chunk %d: %w", r.Chunk(), err)
	}
	//
	if proof.GlobalDigest, err = p.acc.Fold(interactions.Filter(lookup.GLOBAL)); err != nil {
		return nil, fmt.Errorf("chunk %d: %w", r.Chunk(), err)
	}
	//
	for i := range sum {
		proof.RegionalSum[i] = sum[i].Uint64()
	}
	//
	observeSums(challenger, proof)
	// Open a random row of every chip
	for i := range proof.Chips {
		row := challenger.SampleIndex(proof.Chips[i].Height)
		//
		if proof.Chips[i].Opening, err = p.pcs.Open(committed[i], row); err != nil {
			return nil, err
		}
	}
	//
	stats.Log(fmt.Sprintf("Proving chunk %d (%d chips)", r.Chunk(), len(proof.Chips)))
	//
	return proof, nil
}

// Prove a sequence of chunks concurrently, returning their proofs in order.
func (p *Prover[F]) Prove(ctx context.Context, records []*record.Record) ([]*ChunkProof[F], error) {
	var (
		group, gctx = errgroup.WithContext(ctx)
		proofs      = make([]*ChunkProof[F], len(records))
	)
	//
	group.SetLimit(p.workers)
	//
	for i, r := range records {
		group.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			//
			proof, err := p.ProveChunk(r)
			proofs[i] = proof
			//
			return err
		})
	}
	//
	if err := group.Wait(); err != nil {
		return nil, err
	}
	//
	log.Debugf("proved %d chunks", len(proofs))
	//
	return proofs, nil
}

// ProveExecution runs an executor to completion, proving each batch of chunks
// as it is sealed and whilst execution continues.  The proofs are returned in
// chunk order.  A non-zero exit code is reported (as an error) only after all
// chunks are proved.
func (p *Prover[F]) ProveExecution(ctx context.Context, e *emulator.Executor) ([]*ChunkProof[F], error) {
	var (
		group, gctx = errgroup.WithContext(ctx)
		mux         sync.Mutex
		proofs      = make(map[int]*ChunkProof[F])
		count       int
		exitErr     error
	)
	//
	group.SetLimit(p.workers + 1)
	//
	for done := false; !done && gctx.Err() == nil; {
		batch, finished, err := e.ExecuteBatch()
		//
		if errors.Is(err, emulator.ErrHaltWithNonZeroExitCode) {
			exitErr = err
		} else if err != nil {
			// abandon any outstanding proofs
			_ = group.Wait()
			return nil, err
		}
		//
		for _, r := range batch {
			index := count
			count++
			//
			group.Go(func() error {
				proof, err := p.ProveChunk(r)
				if err != nil {
					return err
				}
				//
				mux.Lock()
				proofs[index] = proof
				mux.Unlock()
				//
				return nil
			})
		}
		//
		done = finished
	}
	//
	if err := group.Wait(); err != nil {
		return nil, err
	} else if err := ctx.Err(); err != nil {
		return nil, err
	}
	//
	var ordered = make([]*ChunkProof[F], count)
	//
	for i := range ordered {
		ordered[i] = proofs[i]
	}
	//
	return ordered, exitErr
}

// transcript begins the transcript of a chunk proof.
func (p *Prover[F]) transcript() *Challenger[F] {
	challenger := NewChallenger[F](DOMAIN)
	challenger.ObserveBytes(p.digest[:])
	//
	return challenger
}

func observePublicValues[F field.Element[F]](challenger *Challenger[F], pv record.PublicValues) {
	challenger.ObserveUint32(pv.ChunkIndex, pv.ExecutionChunkIndex, pv.StartPC, pv.NextPC, pv.ExitCode)
	challenger.ObserveUint32(pv.CommittedValueDigest[:]...)
	challenger.ObserveUint32(pv.DeferredProofsDigest[:]...)
}

func observeChip[F field.Element[F]](challenger *Challenger[F], chip ChipProof) {
	challenger.ObserveBytes([]byte(chip.Name))
	challenger.ObserveUint32(uint32(chip.Height))
	challenger.ObserveBytes(chip.Commitment[:])
}

func observeSums[F field.Element[F]](challenger *Challenger[F], proof *ChunkProof[F]) {
	for _, v := range proof.RegionalSum {
		challenger.ObserveUint32(uint32(v))
	}
	//
	for _, v := range proof.GlobalDigest.Uint64s() {
		challenger.ObserveUint32(uint32(v))
	}
}
