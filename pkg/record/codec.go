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
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Records are encoded deterministically, so identical executions produce
// byte-identical encodings.
var encMode = func() cbor.EncMode {
	mode, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	//
	return mode
}()

// Marshal encodes a sealed record.
func Marshal(r *Record) ([]byte, error) {
	if !r.IsSealed() {
		return nil, fmt.Errorf("cannot encode unsealed record (chunk %d)", r.Chunk())
	}
	//
	return encMode.Marshal(r)
}

// Unmarshal decodes a sealed record.
func Unmarshal(data []byte) (*Record, error) {
	var r Record
	//
	if err := cbor.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decoding record: %w", err)
	}
	//
	return &r, nil
}

// Encode encodes an arbitrary value deterministically, as used for records.
func Encode(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// Decode is the inverse of Encode.
func Decode(data []byte, v any) error {
	return cbor.Unmarshal(data, v)
}
