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
package store

import (
	"maps"
	"path/filepath"
	"testing"

	"github.com/consensys/go-zkvm/pkg/emulator"
	"github.com/consensys/go-zkvm/pkg/record"
	"github.com/consensys/go-zkvm/pkg/test"
	"github.com/consensys/go-zkvm/pkg/util/assert"
)

func Test_Store_Memory(t *testing.T) {
	checkStore(t, "")
}

func Test_Store_Disk(t *testing.T) {
	checkStore(t, filepath.Join(t.TempDir(), "chunks"))
}

func Test_Store_Reopen(t *testing.T) {
	var (
		path   = filepath.Join(t.TempDir(), "chunks")
		report = execute(t)
	)
	//
	s, err := Open(path)
	assert.NoError(t, err)
	assert.NoError(t, s.PutAll(report.Records))
	assert.NoError(t, s.PutReport(report))
	assert.NoError(t, s.Close())
	//
	s, err = Open(path)
	assert.NoError(t, err)
	//
	defer s.Close()
	//
	records, err := s.Records()
	assert.NoError(t, err)
	assert.Equal(t, len(report.Records), len(records))
	//
	stored, err := s.Report()
	assert.NoError(t, err)
	assert.Equal(t, report.Cycles, stored.Cycles)
	assert.Equal(t, 0, len(stored.Records))
	assert.True(t, maps.Equal(report.SyscallCounts, stored.SyscallCounts))
}

func Test_Store_NotFound(t *testing.T) {
	s, err := Open("")
	assert.NoError(t, err)
	//
	defer s.Close()
	//
	_, err = s.Get(1)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Report()
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Proof(1)
	assert.ErrorIs(t, err, ErrNotFound)
	//
	chunks, err := s.Chunks()
	assert.NoError(t, err)
	assert.Equal(t, 0, len(chunks))
}

func Test_Store_Unsealed(t *testing.T) {
	s, err := Open("")
	assert.NoError(t, err)
	//
	defer s.Close()
	//
	assert.True(t, s.Put(record.New(1, 0)) != nil)
}

func checkStore(t *testing.T, path string) {
	var report = execute(t)
	//
	s, err := Open(path)
	assert.NoError(t, err)
	//
	defer s.Close()
	// Insert in reverse order
	for i := len(report.Records) - 1; i >= 0; i-- {
		assert.NoError(t, s.Put(report.Records[i]))
	}
	//
	chunks, err := s.Chunks()
	assert.NoError(t, err)
	assert.Equal(t, len(report.Records), len(chunks))
	//
	for i, chunk := range chunks {
		expected := report.Records[i]
		assert.Equal(t, expected.Chunk(), chunk)
		//
		actual, err := s.Get(chunk)
		assert.NoError(t, err)
		assert.True(t, actual.IsSealed())
		//
		a, err := record.Marshal(expected)
		assert.NoError(t, err)
		b, err := record.Marshal(actual)
		assert.NoError(t, err)
		assert.Equal(t, a, b)
	}
	//
	assert.NoError(t, s.PutProof(chunks[0], []byte{1, 2, 3}))
	proof, err := s.Proof(chunks[0])
	assert.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, proof)
	//
	assert.NoError(t, s.PutReport(report))
	stored, err := s.Report()
	assert.NoError(t, err)
	assert.Equal(t, report.ExitCode, stored.ExitCode)
	assert.Equal(t, report.PublicValuesDigest, stored.PublicValuesDigest)
}

func execute(t *testing.T) *emulator.Report {
	var opts = emulator.DefaultOptions()
	//
	opts.ChunkSize = 300
	//
	e, err := emulator.New(test.Memory(100), opts)
	assert.NoError(t, err)
	//
	report, err := e.Run()
	assert.NoError(t, err)
	assert.True(t, len(report.Records) > 1)
	//
	return report
}
