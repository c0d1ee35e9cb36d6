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

// PrecompileEvent records the invocation of a precompiled operation.  Exactly
// one of the variants is set, as determined by the syscall code.
type PrecompileEvent struct {
	_             struct{} `cbor:",toarray"`
	Syscall       SyscallEvent
	ShaExtend     *ShaExtendEvent
	ShaCompress   *ShaCompressEvent
	Keccak        *KeccakPermuteEvent
	EllipticCurve *EllipticCurveEvent
	Uint256Mul    *Uint256MulEvent
}

// Accesses returns the memory accesses of this event in chronological order.
func (e *PrecompileEvent) Accesses() []MemoryAccessRecord {
	switch {
	case e.ShaExtend != nil:
		return e.ShaExtend.Accesses()
	case e.ShaCompress != nil:
		return concat(e.ShaCompress.HReads, e.ShaCompress.WReads, e.ShaCompress.HWrites)
	case e.Keccak != nil:
		return concat(e.Keccak.Reads, e.Keccak.Writes)
	case e.EllipticCurve != nil:
		return concat(e.EllipticCurve.PReads, e.EllipticCurve.QReads, e.EllipticCurve.PWrites)
	case e.Uint256Mul != nil:
		return concat(e.Uint256Mul.XReads, e.Uint256Mul.YReads, e.Uint256Mul.XWrites)
	default:
		return nil
	}
}

// ShaExtendEvent records the expansion of a SHA-256 message schedule in
// place.  Step i (for 16 <= i < 64) reads w[i-15], w[i-2], w[i-16] and w[i-7]
// then writes w[i].
type ShaExtendEvent struct {
	_      struct{} `cbor:",toarray"`
	WPtr   uint32
	W15    []MemoryAccessRecord
	W2     []MemoryAccessRecord
	W16    []MemoryAccessRecord
	W7     []MemoryAccessRecord
	Writes []MemoryAccessRecord
}

// Accesses returns the memory accesses of this event in chronological order.
func (e *ShaExtendEvent) Accesses() []MemoryAccessRecord {
	var accesses = make([]MemoryAccessRecord, 0, 5*len(e.Writes))
	//
	for i := range e.Writes {
		accesses = append(accesses, e.W15[i], e.W2[i], e.W16[i], e.W7[i], e.Writes[i])
	}
	//
	return accesses
}

// ShaCompressEvent records a SHA-256 compression of an expanded schedule w into
// the state h.
type ShaCompressEvent struct {
	_       struct{} `cbor:",toarray"`
	WPtr    uint32
	HPtr    uint32
	HReads  []MemoryAccessRecord
	WReads  []MemoryAccessRecord
	HWrites []MemoryAccessRecord
}

// KeccakPermuteEvent records a Keccak-f[1600] permutation of a state in place.
type KeccakPermuteEvent struct {
	_        struct{} `cbor:",toarray"`
	StatePtr uint32
	Reads    []MemoryAccessRecord
	Writes   []MemoryAccessRecord
}

// EllipticCurveEvent records a short Weierstrass point addition (p = p + q) or
// doubling (p = 2p, in which case QReads is empty).
type EllipticCurveEvent struct {
	_       struct{} `cbor:",toarray"`
	PPtr    uint32
	QPtr    uint32
	PReads  []MemoryAccessRecord
	QReads  []MemoryAccessRecord
	PWrites []MemoryAccessRecord
}

// Uint256MulEvent records x = x·y mod m, where m immediately follows y in
// memory.
type Uint256MulEvent struct {
	_       struct{} `cbor:",toarray"`
	XPtr    uint32
	YPtr    uint32
	XReads  []MemoryAccessRecord
	YReads  []MemoryAccessRecord
	XWrites []MemoryAccessRecord
}

func concat(slices ...[]MemoryAccessRecord) []MemoryAccessRecord {
	var n = 0
	//
	for _, s := range slices {
		n += len(s)
	}
	//
	res := make([]MemoryAccessRecord, 0, n)
	//
	for _, s := range slices {
		res = append(res, s...)
	}
	//
	return res
}
