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
package emulator

import (
	"encoding/binary"
	"slices"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/secp256k1"
	"github.com/consensys/go-zkvm/pkg/record"
	"github.com/consensys/go-zkvm/pkg/syscall"
	"github.com/holiman/uint256"
)

// Number of words in the operands of the various precompiles.
const (
	shaScheduleWords = 64
	shaStateWords    = 8
	keccakStateWords = 50
	// a 256-bit field element
	fieldWords = 8
	// an affine point over a 256-bit field
	pointWords = 2 * fieldWords
)

// checkRegions ensures each region of memory is valid, and that no two
// regions overlap.  Regions are given as (pointer, length in words) pairs.
func checkRegions(ctx *SyscallContext, code syscall.Code, regions ...[2]uint32) error {
	for i, r := range regions {
		end := uint64(r[0]) + 4*uint64(r[1])
		//
		if !isValidAddress(r[0], 4) || end > 1<<32 {
			return ctx.Failure(ErrInvalidSyscallUsage, code, "invalid region 0x%08x (%d words)", r[0], r[1])
		}
		//
		for _, s := range regions[:i] {
			if uint64(r[0]) < uint64(s[0])+4*uint64(s[1]) && uint64(s[0]) < end {
				return ctx.Failure(ErrInvalidSyscallUsage, code, "regions 0x%08x and 0x%08x overlap", s[0], r[0])
			}
		}
	}
	//
	return nil
}

// shaExtend expands a SHA-256 message schedule in place.  Each of the 48 steps
// occupies its own cycle.
func shaExtend(ctx *SyscallContext, code syscall.Code, wPtr, _ uint32) (uint32, bool, error) {
	if err := checkRegions(ctx, code, [2]uint32{wPtr, shaScheduleWords}); err != nil {
		return 0, false, err
	}
	//
	var (
		clk   = ctx.clk
		event = record.ShaExtendEvent{WPtr: wPtr}
	)
	//
	for i := uint32(16); i < shaScheduleWords; i++ {
		ctx.clk = clk + i - 16
		//
		w15 := ctx.Read(wPtr + 4*(i-15))
		w2 := ctx.Read(wPtr + 4*(i-2))
		w16 := ctx.Read(wPtr + 4*(i-16))
		w7 := ctx.Read(wPtr + 4*(i-7))
		w := ctx.Write(wPtr+4*i, sha256Extend(w15.Value, w2.Value, w16.Value, w7.Value))
		//
		event.W15 = append(event.W15, w15)
		event.W2 = append(event.W2, w2)
		event.W16 = append(event.W16, w16)
		event.W7 = append(event.W7, w7)
		event.Writes = append(event.Writes, w)
	}
	//
	ctx.clk = clk
	ctx.Precompile(record.PrecompileEvent{ShaExtend: &event})
	//
	return 0, false, nil
}

// shaCompress applies the SHA-256 compression function to the state at hPtr,
// given the expanded message schedule at wPtr.
func shaCompress(ctx *SyscallContext, code syscall.Code, wPtr, hPtr uint32) (uint32, bool, error) {
	err := checkRegions(ctx, code, [2]uint32{wPtr, shaScheduleWords}, [2]uint32{hPtr, shaStateWords})
	if err != nil {
		return 0, false, err
	}
	//
	var (
		event  = record.ShaCompressEvent{WPtr: wPtr, HPtr: hPtr}
		h      [shaStateWords]uint32
		hs, ws []uint32
	)
	//
	event.HReads, hs = ctx.ReadSlice(hPtr, shaStateWords)
	event.WReads, ws = ctx.ReadSlice(wPtr, shaScheduleWords)
	//
	copy(h[:], hs)
	h = sha256Compress(h, ws)
	event.HWrites = ctx.WriteSlice(hPtr, h[:])
	ctx.Precompile(record.PrecompileEvent{ShaCompress: &event})
	//
	return 0, false, nil
}

// keccakPermute applies Keccak-f[1600] to the state at statePtr, whose 25 lanes
// are each held in two little-endian words.
func keccakPermute(ctx *SyscallContext, code syscall.Code, statePtr, _ uint32) (uint32, bool, error) {
	if err := checkRegions(ctx, code, [2]uint32{statePtr, keccakStateWords}); err != nil {
		return 0, false, err
	}
	//
	var (
		event        = record.KeccakPermuteEvent{StatePtr: statePtr}
		state        [25]uint64
		permuted     = make([]uint32, keccakStateWords)
		reads, input = ctx.ReadSlice(statePtr, keccakStateWords)
	)
	//
	for i := range state {
		state[i] = uint64(input[2*i]) | uint64(input[2*i+1])<<32
	}
	//
	keccakF1600(&state)
	//
	for i, lane := range state {
		permuted[2*i], permuted[2*i+1] = uint32(lane), uint32(lane>>32)
	}
	//
	event.Reads = reads
	event.Writes = ctx.WriteSlice(statePtr, permuted)
	ctx.Precompile(record.PrecompileEvent{Keccak: &event})
	//
	return 0, false, nil
}

// curveOperation computes p = f(p, q) for points held as little-endian 256-bit
// coordinates (x then y).  For doubling, q is not read.
func curveOperation(ctx *SyscallContext, code syscall.Code, pPtr, qPtr uint32, double bool,
	f func(p, q [2][32]byte) [2][32]byte) (uint32, bool, error) {
	var regions = [][2]uint32{{pPtr, pointWords}}
	//
	if !double {
		regions = append(regions, [2]uint32{qPtr, pointWords})
	}
	//
	if err := checkRegions(ctx, code, regions...); err != nil {
		return 0, false, err
	}
	//
	var (
		event  = record.EllipticCurveEvent{PPtr: pPtr, QPtr: qPtr}
		p, q   []uint32
		result [2][32]byte
	)
	//
	event.PReads, p = ctx.ReadSlice(pPtr, pointWords)
	//
	if !double {
		event.QReads, q = ctx.ReadSlice(qPtr, pointWords)
		result = f(toPoint(p), toPoint(q))
	} else {
		result = f(toPoint(p), [2][32]byte{})
	}
	//
	event.PWrites = ctx.WriteSlice(pPtr, fromPoint(result))
	ctx.Precompile(record.PrecompileEvent{EllipticCurve: &event})
	//
	return 0, false, nil
}

func secp256k1Add(ctx *SyscallContext, code syscall.Code, pPtr, qPtr uint32) (uint32, bool, error) {
	return curveOperation(ctx, code, pPtr, qPtr, false, func(p, q [2][32]byte) [2][32]byte {
		var r, a, b secp256k1.G1Affine
		//
		a.X.SetBytes(p[0][:])
		a.Y.SetBytes(p[1][:])
		b.X.SetBytes(q[0][:])
		b.Y.SetBytes(q[1][:])
		r.Add(&a, &b)
		//
		return [2][32]byte{r.X.Bytes(), r.Y.Bytes()}
	})
}

func secp256k1Double(ctx *SyscallContext, code syscall.Code, pPtr, _ uint32) (uint32, bool, error) {
	return curveOperation(ctx, code, pPtr, 0, true, func(p, _ [2][32]byte) [2][32]byte {
		var r, a secp256k1.G1Affine
		//
		a.X.SetBytes(p[0][:])
		a.Y.SetBytes(p[1][:])
		r.Double(&a)
		//
		return [2][32]byte{r.X.Bytes(), r.Y.Bytes()}
	})
}

func bn254Add(ctx *SyscallContext, code syscall.Code, pPtr, qPtr uint32) (uint32, bool, error) {
	return curveOperation(ctx, code, pPtr, qPtr, false, func(p, q [2][32]byte) [2][32]byte {
		var r, a, b bn254.G1Affine
		//
		a.X.SetBytes(p[0][:])
		a.Y.SetBytes(p[1][:])
		b.X.SetBytes(q[0][:])
		b.Y.SetBytes(q[1][:])
		r.Add(&a, &b)
		//
		return [2][32]byte{r.X.Bytes(), r.Y.Bytes()}
	})
}

func bn254Double(ctx *SyscallContext, code syscall.Code, pPtr, _ uint32) (uint32, bool, error) {
	return curveOperation(ctx, code, pPtr, 0, true, func(p, _ [2][32]byte) [2][32]byte {
		var r, a bn254.G1Affine
		//
		a.X.SetBytes(p[0][:])
		a.Y.SetBytes(p[1][:])
		r.Double(&a)
		//
		return [2][32]byte{r.X.Bytes(), r.Y.Bytes()}
	})
}

// uint256Mul computes x = x·y mod m, where m immediately follows y.  A zero
// modulus denotes 2²⁵⁶.
func uint256Mul(ctx *SyscallContext, code syscall.Code, xPtr, yPtr uint32) (uint32, bool, error) {
	err := checkRegions(ctx, code, [2]uint32{xPtr, fieldWords}, [2]uint32{yPtr, 2 * fieldWords})
	if err != nil {
		return 0, false, err
	}
	//
	var (
		event = record.Uint256MulEvent{XPtr: xPtr, YPtr: yPtr}
		xs    []uint32
		ys    []uint32
		x     = new(uint256.Int)
		y     = new(uint256.Int)
		m     = new(uint256.Int)
	)
	//
	event.XReads, xs = ctx.ReadSlice(xPtr, fieldWords)
	event.YReads, ys = ctx.ReadSlice(yPtr, 2*fieldWords)
	//
	x.SetBytes(toBigEndian(xs))
	y.SetBytes(toBigEndian(ys[:fieldWords]))
	m.SetBytes(toBigEndian(ys[fieldWords:]))
	//
	if m.IsZero() {
		x.Mul(x, y)
	} else {
		x.MulMod(x, y, m)
	}
	//
	result := x.Bytes32()
	event.XWrites = ctx.WriteSlice(xPtr, fromBigEndian(result))
	ctx.Precompile(record.PrecompileEvent{Uint256Mul: &event})
	//
	return 0, false, nil
}

// toBigEndian converts a little-endian sequence of words into big-endian bytes.
func toBigEndian(words []uint32) []byte {
	var bytes = make([]byte, 4*len(words))
	//
	for i, w := range words {
		binary.LittleEndian.PutUint32(bytes[4*i:], w)
	}
	//
	slices.Reverse(bytes)
	//
	return bytes
}

// fromBigEndian converts big-endian bytes into a little-endian sequence of
// words.
func fromBigEndian(bytes [32]byte) []uint32 {
	var words = make([]uint32, fieldWords)
	//
	slices.Reverse(bytes[:])
	//
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(bytes[4*i:])
	}
	//
	return words
}

func toPoint(words []uint32) [2][32]byte {
	var p [2][32]byte
	//
	copy(p[0][:], toBigEndian(words[:fieldWords]))
	copy(p[1][:], toBigEndian(words[fieldWords:]))
	//
	return p
}

func fromPoint(p [2][32]byte) []uint32 {
	return append(fromBigEndian(p[0]), fromBigEndian(p[1])...)
}
