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
package air

import (
	"fmt"
	"math/bits"
	"slices"

	"github.com/consensys/go-zkvm/pkg/util/field"
)

// MIN_HEIGHT is the smallest height of any (non-empty) trace.
const MIN_HEIGHT = 4

// Trace is a row-major matrix of field elements whose width is determined by
// a layout, and whose height is always a power of two.  Rows beyond those
// generated from events are padding, and are entirely zero.
type Trace[F field.Element[F]] struct {
	layout *Layout
	height uint
	data   []F
}

// NewTrace constructs a trace with enough rows for a given number of events,
// padded to the next power of two.
func NewTrace[F field.Element[F]](layout *Layout, rows uint) *Trace[F] {
	height := PaddedHeight(rows)
	//
	return &Trace[F]{layout, height, make([]F, height*layout.Width())}
}

// PaddedHeight returns the height of a trace holding a given number of rows.
func PaddedHeight(rows uint) uint {
	if rows <= MIN_HEIGHT {
		return MIN_HEIGHT
	}
	//
	return 1 << bits.Len(rows-1)
}

// Layout returns the column layout of this trace.
func (t *Trace[F]) Layout() *Layout {
	return t.layout
}

// Width returns the number of columns in this trace.
func (t *Trace[F]) Width() uint {
	return t.layout.Width()
}

// Height returns the number of rows in this trace (including padding).
func (t *Trace[F]) Height() uint {
	return t.height
}

// Row returns a view of the ith row of this trace.
func (t *Trace[F]) Row(i uint) Row[F] {
	if i >= t.height {
		panic(fmt.Sprintf("row %d out-of-bounds (height %d)", i, t.height))
	}
	//
	width := t.layout.Width()
	start, end := i*width, (i+1)*width
	//
	return Row[F]{t.data[start:end:end]}
}

// Get the value of a given cell.
func (t *Trace[F]) Get(row uint, col Column) F {
	return t.Row(row).Get(col)
}

// Column returns a copy of a given column of this trace.
func (t *Trace[F]) Column(col Column) []F {
	var values = make([]F, t.height)
	//
	for i := range t.height {
		values[i] = t.Row(i).Get(col)
	}
	//
	return values
}

// Data returns the underlying row-major data of this trace.
func (t *Trace[F]) Data() []F {
	return t.data
}

// Row is a mutable view of a single row within a trace.
type Row[F field.Element[F]] struct {
	values []F
}

// Get the value of a given column.
func (r Row[F]) Get(col Column) F {
	return r.values[col]
}

// Set the value of a given column.
func (r Row[F]) Set(col Column, val F) {
	r.values[col] = val
}

// SetUint64 assigns an unsigned value to a given column.
func (r Row[F]) SetUint64(col Column, val uint64) {
	r.values[col] = field.Uint64[F](val)
}

// SetBool assigns 1 (for true) or 0 (for false) to a given column.
func (r Row[F]) SetBool(col Column, val bool) {
	if val {
		r.values[col] = field.One[F]()
	} else {
		r.values[col] = field.Zero[F]()
	}
}

// All returns a copy of every value in this row.
func (r Row[F]) All() []F {
	return slices.Clone(r.values)
}

// Values returns the values of a given set of columns.
func (r Row[F]) Values(cols ...Column) []F {
	var values = make([]F, len(cols))
	//
	for i, c := range cols {
		values[i] = r.values[c]
	}
	//
	return values
}
