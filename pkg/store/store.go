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

// Package store persists the records of an execution, such that chunks can be
// proved by a separate process from the one which executed them.
package store

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/consensys/go-zkvm/pkg/emulator"
	"github.com/consensys/go-zkvm/pkg/record"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// ErrNotFound signals a chunk (or report) which is not in the store.
var ErrNotFound = errors.New("not found")

var (
	chunkPrefix = []byte("chunk/")
	proofPrefix = []byte("proof/")
	reportKey   = []byte("report")
)

// ChunkStore is a LevelDB-backed store of sealed records, keyed by chunk
// index.  It is safe for concurrent use.
type ChunkStore struct {
	db *leveldb.DB
}

// Open a store at a given path, creating it if necessary.  An empty path
// gives a store held in memory.
func Open(path string) (*ChunkStore, error) {
	var (
		db  *leveldb.DB
		err error
	)
	//
	if path == "" {
		db, err = leveldb.Open(storage.NewMemStorage(), nil)
	} else {
		db, err = leveldb.OpenFile(path, nil)
	}
	//
	if err != nil {
		return nil, fmt.Errorf("opening store %q: %w", path, err)
	}
	//
	return &ChunkStore{db}, nil
}

// Put a sealed record into the store, replacing any existing record for the
// same chunk.
func (s *ChunkStore) Put(r *record.Record) error {
	bytes, err := record.Marshal(r)
	if err != nil {
		return err
	}
	//
	return s.db.Put(chunkKey(chunkPrefix, r.Chunk()), bytes, nil)
}

// PutAll puts a sequence of records into the store atomically.
func (s *ChunkStore) PutAll(records []*record.Record) error {
	var batch leveldb.Batch
	//
	for _, r := range records {
		bytes, err := record.Marshal(r)
		if err != nil {
			return err
		}
		//
		batch.Put(chunkKey(chunkPrefix, r.Chunk()), bytes)
	}
	//
	return s.db.Write(&batch, nil)
}

// Get the record of a given chunk.
func (s *ChunkStore) Get(chunk uint32) (*record.Record, error) {
	bytes, err := s.get(chunkKey(chunkPrefix, chunk))
	if err != nil {
		return nil, fmt.Errorf("chunk %d: %w", chunk, err)
	}
	//
	return record.Unmarshal(bytes)
}

// Chunks returns the indices of all chunks in the store, in order.
func (s *ChunkStore) Chunks() ([]uint32, error) {
	var (
		chunks []uint32
		iter   = s.db.NewIterator(util.BytesPrefix(chunkPrefix), nil)
	)
	//
	defer iter.Release()
	//
	for iter.Next() {
		chunks = append(chunks, binary.BigEndian.Uint32(iter.Key()[len(chunkPrefix):]))
	}
	//
	return chunks, iter.Error()
}

// Records returns all records in the store, in chunk order.
func (s *ChunkStore) Records() ([]*record.Record, error) {
	var (
		records []*record.Record
		iter    = s.db.NewIterator(util.BytesPrefix(chunkPrefix), nil)
	)
	//
	defer iter.Release()
	//
	for iter.Next() {
		r, err := record.Unmarshal(iter.Value())
		if err != nil {
			return nil, err
		}
		//
		records = append(records, r)
	}
	//
	return records, iter.Error()
}

// PutProof stores the (encoded) proof of a given chunk.
func (s *ChunkStore) PutProof(chunk uint32, proof []byte) error {
	return s.db.Put(chunkKey(proofPrefix, chunk), proof, nil)
}

// Proof returns the (encoded) proof of a given chunk.
func (s *ChunkStore) Proof(chunk uint32) ([]byte, error) {
	bytes, err := s.get(chunkKey(proofPrefix, chunk))
	if err != nil {
		return nil, fmt.Errorf("proof of chunk %d: %w", chunk, err)
	}
	//
	return bytes, nil
}

// PutReport stores the outcome of an execution.  Records are stored
// separately, and are not included.
func (s *ChunkStore) PutReport(report *emulator.Report) error {
	summary := *report
	summary.Records = nil
	//
	bytes, err := record.Encode(&summary)
	if err != nil {
		return err
	}
	//
	return s.db.Put(reportKey, bytes, nil)
}

// Report returns the outcome of the execution held in this store, excluding
// its records.
func (s *ChunkStore) Report() (*emulator.Report, error) {
	var report emulator.Report
	//
	bytes, err := s.get(reportKey)
	if err != nil {
		return nil, fmt.Errorf("report: %w", err)
	} else if err := record.Decode(bytes, &report); err != nil {
		return nil, fmt.Errorf("report: %w", err)
	}
	//
	return &report, nil
}

// Close this store.
func (s *ChunkStore) Close() error {
	return s.db.Close()
}

func (s *ChunkStore) get(key []byte) ([]byte, error) {
	bytes, err := s.db.Get(key, nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, ErrNotFound
	}
	//
	return bytes, err
}

// chunkKey constructs a key whose lexicographic order matches chunk order.
func chunkKey(prefix []byte, chunk uint32) []byte {
	key := make([]byte, len(prefix), len(prefix)+4)
	copy(key, prefix)
	//
	return binary.BigEndian.AppendUint32(key, chunk)
}
