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
package test

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"testing"

	"github.com/consensys/go-zkvm/pkg/emulator"
	"github.com/consensys/go-zkvm/pkg/prover"
	"github.com/consensys/go-zkvm/pkg/record"
	"github.com/consensys/go-zkvm/pkg/riscv"
	"github.com/consensys/go-zkvm/pkg/store"
	"github.com/consensys/go-zkvm/pkg/syscall"
	"github.com/consensys/go-zkvm/pkg/util/field"
	"github.com/consensys/go-zkvm/pkg/util/field/babybear"
	"github.com/consensys/go-zkvm/pkg/util/field/koalabear"
	"github.com/consensys/go-zkvm/pkg/util/field/mersenne31"
	"github.com/stretchr/testify/require"
)

func Test_Fibonacci_Chunks(t *testing.T) {
	e, report := run(t, Fibonacci(10), options(4))
	//
	require.Equal(t, uint32(55), e.State().Register(11))
	require.Equal(t, uint64(67), report.Cycles)
	require.Len(t, report.Records, 17)
	checkChaining(t, Fibonacci(10), report.Records)
	// Every chunk but the last is full
	for _, r := range report.Records[:16] {
		require.Len(t, r.CpuEvents, 4)
	}
	//
	require.Len(t, report.Records[16].CpuEvents, 3)
}

func Test_Memory_Commit(t *testing.T) {
	_, report := run(t, Memory(20), options(32))
	//
	require.Equal(t, MemorySum(20), report.PublicValuesDigest[0])
	checkChaining(t, Memory(20), report.Records)
	// The digest is carried by every subsequent chunk
	last := report.Records[len(report.Records)-1]
	require.Equal(t, report.PublicValuesDigest, last.PublicValues.CommittedValueDigest)
}

func Test_Sha256_Precompiles(t *testing.T) {
	for _, msg := range []string{"", "abc", "the quick brown fox jumps over the lazy dog"} {
		e, report := run(t, Sha256(Sha256Block([]byte(msg))), options(8))
		//
		var (
			expected = sha256.Sum256([]byte(msg))
			actual   [32]byte
		)
		//
		for i := range 8 {
			word := e.State().Memory[DATA+256+4*uint32(i)].Value
			binary.BigEndian.PutUint32(actual[4*i:], word)
		}
		//
		require.Equal(t, expected, actual, "sha256(%q)", msg)
		require.Equal(t, uint64(1), e.State().SyscallCounts[syscall.SHA_EXTEND])
		require.Equal(t, uint64(1), e.State().SyscallCounts[syscall.SHA_COMPRESS])
		// Precompile events are recorded in the chunk invoking them
		var events int
		//
		for _, r := range report.Records {
			events += len(r.PrecompileEvents)
		}
		//
		require.Equal(t, 2, events)
	}
}

func Test_Unconstrained_Restores(t *testing.T) {
	e, report := run(t, Unconstrained(), options(4))
	//
	require.Equal(t, uint32(7), e.State().Register(11))
	require.Equal(t, uint32(7), e.State().Register(13))
	require.Equal(t, uint32(0), e.State().Memory[DATA+4].Value)
	checkChaining(t, Unconstrained(), report.Records)
	// Nothing executed whilst unconstrained is recorded
	for _, r := range report.Records {
		for _, event := range r.MemoryFinalizeEvents {
			require.NotEqual(t, uint32(99), event.Value, "address 0x%x", event.Addr)
		}
	}
}

func Test_Determinism(t *testing.T) {
	for _, program := range []*riscv.Program{Fibonacci(25), Memory(30), Unconstrained()} {
		_, r1 := run(t, program, options(16))
		_, r2 := run(t, program, options(16))
		//
		require.Equal(t, len(r1.Records), len(r2.Records))
		//
		for i := range r1.Records {
			b1, err := record.Marshal(r1.Records[i])
			require.NoError(t, err)
			b2, err := record.Marshal(r2.Records[i])
			require.NoError(t, err)
			require.Equal(t, b1, b2, "chunk %d", i+1)
		}
	}
}

func Test_EndToEnd_BabyBear(t *testing.T) {
	checkEndToEnd[babybear.Element](t)
}

func Test_EndToEnd_KoalaBear(t *testing.T) {
	checkEndToEnd[koalabear.Element](t)
}

func Test_EndToEnd_Mersenne31(t *testing.T) {
	checkEndToEnd[mersenne31.Element](t)
}

// checkEndToEnd executes a range of programs, passing their records through a
// store before proving them, and then verifies the proofs read back from the
// store.
func checkEndToEnd[F field.Element[F]](t *testing.T) {
	programs := []*riscv.Program{
		Fibonacci(12),
		Memory(16),
		Sha256(Sha256Block([]byte("abc"))),
		Unconstrained(),
	}
	//
	for i, program := range programs {
		db, err := store.Open("")
		require.NoError(t, err)
		//
		_, report := run(t, program, options(16))
		require.NoError(t, db.PutAll(report.Records))
		// Prove records read back from the store
		records, err := db.Records()
		require.NoError(t, err)
		require.Len(t, records, len(report.Records))
		//
		p, err := prover.New[F](program, prover.MerklePCS[F]{})
		require.NoError(t, err)
		//
		proofs, err := p.Prove(context.Background(), records)
		require.NoError(t, err, "program %d", i)
		//
		for _, proof := range proofs {
			bytes, err := record.Encode(proof)
			require.NoError(t, err)
			require.NoError(t, db.PutProof(proof.PublicValues.ChunkIndex, bytes))
		}
		// Verify proofs read back from the store
		for j := range proofs {
			bytes, err := db.Proof(uint32(j + 1))
			require.NoError(t, err)
			//
			var proof prover.ChunkProof[F]
			require.NoError(t, record.Decode(bytes, &proof))
			proofs[j] = &proof
		}
		//
		require.NoError(t, p.Verify(proofs), "program %d", i)
		require.NoError(t, db.Close())
	}
}

// checkChaining checks the public values of consecutive chunks chain
// together, from the program's entry point to a halt.
func checkChaining(t *testing.T, program *riscv.Program, records []*record.Record) {
	require.NotEmpty(t, records)
	require.Equal(t, program.PCStart, records[0].PublicValues.StartPC)
	//
	for i, r := range records {
		require.Equal(t, uint32(i+1), r.PublicValues.ChunkIndex)
		require.True(t, r.IsSealed())
		//
		if i > 0 {
			require.Equal(t, records[i-1].PublicValues.NextPC, r.PublicValues.StartPC)
		}
	}
	//
	require.Equal(t, uint32(0), records[len(records)-1].PublicValues.NextPC)
}

func run(t *testing.T, program *riscv.Program, opts emulator.Options) (*emulator.Executor, *emulator.Report) {
	e, err := emulator.New(program, opts)
	require.NoError(t, err)
	//
	report, err := e.Run()
	require.NoError(t, err)
	//
	return e, report
}

func options(chunkSize uint32) emulator.Options {
	opts := emulator.DefaultOptions()
	opts.ChunkSize = chunkSize
	//
	return opts
}
