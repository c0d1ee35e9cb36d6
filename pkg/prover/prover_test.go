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
	"testing"

	"github.com/consensys/go-zkvm/pkg/air"
	"github.com/consensys/go-zkvm/pkg/emulator"
	"github.com/consensys/go-zkvm/pkg/record"
	"github.com/consensys/go-zkvm/pkg/riscv"
	"github.com/consensys/go-zkvm/pkg/test"
	"github.com/consensys/go-zkvm/pkg/util/assert"
	"github.com/consensys/go-zkvm/pkg/util/field"
	"github.com/consensys/go-zkvm/pkg/util/field/babybear"
	"github.com/consensys/go-zkvm/pkg/util/field/koalabear"
	"github.com/consensys/go-zkvm/pkg/util/field/mersenne31"
	"github.com/consensys/go-zkvm/pkg/util/field/septic"
)

func Test_Challenger(t *testing.T) {
	var (
		c1 = NewChallenger[babybear.Element](DOMAIN)
		c2 = NewChallenger[babybear.Element](DOMAIN)
		c3 = NewChallenger[babybear.Element](DOMAIN)
	)
	//
	c1.ObserveUint32(1, 2, 3)
	c2.ObserveUint32(1, 2, 3)
	c3.ObserveUint32(1, 2, 4)
	//
	s1, s2, s3 := c1.Sample(), c2.Sample(), c3.Sample()
	assert.True(t, s1.Equals(s2))
	assert.False(t, s1.Equals(s3))
	// successive samples differ
	assert.False(t, c1.Sample().Equals(s1))
	//
	for range 100 {
		assert.True(t, c1.SampleIndex(16) < 16)
	}
}

func Test_Challenger_Ext(t *testing.T) {
	var (
		ext, err = septic.NewField[koalabear.Element]()
		c        = NewChallenger[koalabear.Element](DOMAIN)
	)
	//
	assert.NoError(t, err)
	//
	a := c.SampleExt(ext)
	b := c.SampleExt(ext)
	assert.False(t, a.Equals(b))
	assert.False(t, a.IsBase())
}

func Test_MerklePCS(t *testing.T) {
	var (
		pcs    MerklePCS[babybear.Element]
		layout = air.NewLayout("Test")
		x      = layout.Add("x")
		y      = layout.Add("y")
		trace  = air.NewTrace[babybear.Element](layout, 11)
	)
	//
	for i := range trace.Height() {
		trace.Row(i).SetUint64(x, uint64(i))
		trace.Row(i).SetUint64(y, uint64(i*i))
	}
	//
	commitment, committed, err := pcs.Commit(trace)
	assert.NoError(t, err)
	//
	for i := range trace.Height() {
		opening, err := pcs.Open(committed, i)
		assert.NoError(t, err)
		assert.True(t, pcs.Verify(commitment, opening))
		// tampered values
		opening.Values[1]++
		assert.False(t, pcs.Verify(commitment, opening))
		opening.Values[1]--
		// wrong row
		opening.Row ^= 1
		assert.False(t, pcs.Verify(commitment, opening))
	}
	//
	_, err = pcs.Open(committed, trace.Height())
	assert.True(t, err != nil)
}

func Test_Prove_BabyBear(t *testing.T) {
	checkProve[babybear.Element](t, test.Fibonacci(10), 8)
	checkProve[babybear.Element](t, test.Memory(12), 16)
}

func Test_Prove_KoalaBear(t *testing.T) {
	checkProve[koalabear.Element](t, test.Fibonacci(10), 8)
	checkProve[koalabear.Element](t, test.Memory(12), 16)
}

func Test_Prove_Mersenne31(t *testing.T) {
	checkProve[mersenne31.Element](t, test.Fibonacci(10), 8)
	checkProve[mersenne31.Element](t, test.Memory(12), 16)
}

func Test_ProveExecution(t *testing.T) {
	var (
		program = test.Memory(12)
		opts    = options(8)
		p       = newProver[babybear.Element](t, program)
	)
	//
	opts.ChunkBatchSize = 2
	//
	e, err := emulator.New(program, opts)
	assert.NoError(t, err)
	//
	streamed, err := p.ProveExecution(context.Background(), e)
	assert.NoError(t, err)
	assert.NoError(t, p.Verify(streamed))
	//
	proofs, err := p.Prove(context.Background(), execute(t, program, opts))
	assert.NoError(t, err)
	assert.Equal(t, len(proofs), len(streamed))
	//
	for i := range proofs {
		a, err := record.Encode(proofs[i])
		assert.NoError(t, err)
		b, err := record.Encode(streamed[i])
		assert.NoError(t, err)
		assert.Equal(t, a, b)
	}
}

func Test_Prove_Cancelled(t *testing.T) {
	var (
		program = test.Fibonacci(10)
		p       = newProver[babybear.Element](t, program)
		records = execute(t, program, options(8))
	)
	//
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	//
	_, err := p.Prove(ctx, records)
	assert.ErrorIs(t, err, context.Canceled)
}

func Test_Proof_Cbor(t *testing.T) {
	var (
		program = test.Fibonacci(10)
		p       = newProver[mersenne31.Element](t, program)
	)
	//
	proofs, err := p.Prove(context.Background(), execute(t, program, options(8)))
	assert.NoError(t, err)
	//
	for i, proof := range proofs {
		bytes, err := record.Encode(proof)
		assert.NoError(t, err)
		//
		var decoded ChunkProof[mersenne31.Element]
		assert.NoError(t, record.Decode(bytes, &decoded))
		proofs[i] = &decoded
	}
	//
	assert.NoError(t, p.Verify(proofs))
}

func Test_Verify_Reordered(t *testing.T) {
	proofs, p := prove[babybear.Element](t, test.Fibonacci(10), 8)
	//
	proofs[1], proofs[2] = proofs[2], proofs[1]
	assert.ErrorIs(t, p.Verify(proofs), ErrInvalidProof)
}

func Test_Verify_Truncated(t *testing.T) {
	proofs, p := prove[babybear.Element](t, test.Fibonacci(10), 8)
	//
	assert.ErrorIs(t, p.Verify(proofs[:len(proofs)-1]), ErrInvalidProof)
	assert.ErrorIs(t, p.Verify(nil), ErrInvalidProof)
}

func Test_Verify_TamperedOpening(t *testing.T) {
	proofs, p := prove[babybear.Element](t, test.Fibonacci(10), 8)
	//
	proofs[0].Chips[0].Opening.Values[0]++
	assert.ErrorIs(t, p.Verify(proofs), ErrInvalidProof)
}

func Test_Verify_TamperedExecution(t *testing.T) {
	var (
		program = test.Fibonacci(10)
		p       = newProver[babybear.Element](t, program)
		records = execute(t, program, options(8))
	)
	// Claim a different result for the first arithmetic operation.
	records[0].CpuEvents[0].A++
	//
	proofs, err := p.Prove(context.Background(), records)
	assert.NoError(t, err)
	assert.ErrorIs(t, p.Verify(proofs), ErrInvalidProof)
}

func Test_Verify_WrongProgram(t *testing.T) {
	var (
		proofs, _ = prove[mersenne31.Element](t, test.Fibonacci(10), 8)
		other     = newProver[mersenne31.Element](t, test.Fibonacci(11))
	)
	// Transcripts are bound to the program proved.
	assert.ErrorIs(t, other.Verify(proofs), ErrInvalidProof)
}

func Test_Verify_MissingFinalize(t *testing.T) {
	var (
		program = test.Memory(4)
		p       = newProver[koalabear.Element](t, program)
		records = execute(t, program, options(16))
		last    = records[len(records)-1]
	)
	//
	last.MemoryFinalizeEvents = last.MemoryFinalizeEvents[1:]
	//
	proofs, err := p.Prove(context.Background(), records)
	assert.NoError(t, err)
	assert.ErrorIs(t, p.Verify(proofs), ErrInvalidProof)
}

func checkProve[F field.Element[F]](t *testing.T, program *riscv.Program, chunkSize uint32) {
	proofs, p := prove[F](t, program, chunkSize)
	//
	assert.NoError(t, p.Verify(proofs))
}

func prove[F field.Element[F]](t *testing.T, program *riscv.Program, chunkSize uint32) ([]*ChunkProof[F], *Prover[F]) {
	var p = newProver[F](t, program)
	//
	proofs, err := p.Prove(context.Background(), execute(t, program, options(chunkSize)))
	assert.NoError(t, err)
	//
	return proofs, p
}

func newProver[F field.Element[F]](t *testing.T, program *riscv.Program) *Prover[F] {
	p, err := New[F](program, MerklePCS[F]{})
	assert.NoError(t, err)
	//
	return p
}

func options(chunkSize uint32) emulator.Options {
	opts := emulator.DefaultOptions()
	opts.ChunkSize = chunkSize
	//
	return opts
}

func execute(t *testing.T, program *riscv.Program, opts emulator.Options) []*record.Record {
	e, err := emulator.New(program, opts)
	assert.NoError(t, err)
	//
	report, err := e.Run()
	assert.NoError(t, err)
	//
	return report.Records
}
