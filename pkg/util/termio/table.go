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

// Package termio provides simple formatting of tabular output for the
// terminal.
package termio

import (
	"fmt"
	"io"
	"strings"
)

// TablePrinter is useful for printing tables to the terminal.  The first row
// is treated as a header.
type TablePrinter struct {
	widths        []uint
	rows          [][]string
	escapes       [][]AnsiEscape
	enableEscapes bool
}

// NewTablePrinter constructs a new table with given dimensions.
func NewTablePrinter(width uint, height uint) *TablePrinter {
	widths := make([]uint, width)
	rows := make([][]string, height)
	escapes := make([][]AnsiEscape, height)
	// Construct the table
	for i := uint(0); i < height; i++ {
		rows[i] = make([]string, width)
		escapes[i] = make([]AnsiEscape, width)
	}

	return &TablePrinter{widths, rows, escapes, true}
}

// Width returns the number of columns in this table.
func (p *TablePrinter) Width() uint {
	return uint(len(p.widths))
}

// Height returns the height of this table.
func (p *TablePrinter) Height() uint {
	return uint(len(p.rows))
}

// Set the contents of a given cell in this table
func (p *TablePrinter) Set(col uint, row uint, val string) {
	p.widths[col] = max(p.widths[col], uint(len(val)))
	p.rows[row][col] = val
}

// Get the contents of a given cell in this table
func (p *TablePrinter) Get(col uint, row uint) string {
	return p.rows[row][col]
}

// SetRow sets the contents of an entire row in this table
func (p *TablePrinter) SetRow(row uint, vals ...string) {
	if len(vals) != len(p.widths) {
		panic("incorrect number of columns")
	}
	//
	for i, val := range vals {
		p.Set(uint(i), row, val)
	}
}

// SetEscape sets the escape (e.g. colour) used when printing a given cell.
func (p *TablePrinter) SetEscape(col uint, row uint, escape AnsiEscape) {
	p.escapes[row][col] = escape
}

// SetRowEscape sets the escape used when printing every cell of a row.
func (p *TablePrinter) SetRowEscape(row uint, escape AnsiEscape) {
	for col := range p.escapes[row] {
		p.escapes[row][col] = escape
	}
}

// AnsiEscapes enables or disables the use of ANSI escapes (e.g. for showing
// colour).  Disabling escapes is useful when output is not a terminal.
func (p *TablePrinter) AnsiEscapes(enable bool) {
	p.enableEscapes = enable
}

// SetMaxWidth puts an upper bound on the width of a given column.  Widths
// below three are not permitted, as there would be no room for an ellipsis.
func (p *TablePrinter) SetMaxWidth(col uint, width uint) {
	p.widths[col] = min(p.widths[col], max(width, 3))
}

// FitWidth narrows the widest columns until the table (including separators)
// fits within a given total width, or no column can be narrowed further.
func (p *TablePrinter) FitWidth(total uint) {
	for p.TotalWidth() > total {
		var widest uint
		//
		for i, w := range p.widths {
			if w > p.widths[widest] {
				widest = uint(i)
			}
		}
		//
		if p.widths[widest] <= 3 {
			return
		}
		//
		p.widths[widest]--
	}
}

// TotalWidth returns the number of characters in each printed line.
func (p *TablePrinter) TotalWidth() uint {
	var total uint
	//
	for _, w := range p.widths {
		total += w + 3
	}
	//
	return total
}

// Print the table to a given writer.
func (p *TablePrinter) Print(out io.Writer) {
	for i, row := range p.rows {
		var line strings.Builder
		//
		for j, col := range row {
			width := p.widths[j]
			escape := p.escapes[i][j]
			// Print colour (if applicable)
			if p.enableEscapes && !escape.IsEmpty() {
				line.WriteString(escape.Build())
			}
			// Print data
			if uint(len(col)) > width {
				fmt.Fprintf(&line, " %*s..", width-2, col[0:width-2])
			} else {
				fmt.Fprintf(&line, " %*s", width, col)
			}
			// Cancel colour (if applicable)
			if p.enableEscapes && !escape.IsEmpty() {
				line.WriteString(ResetAnsiEscape().Build())
			}
			//
			line.WriteString(" |")
		}
		//
		fmt.Fprintln(out, line.String())
		// Underline the header
		if i == 0 {
			fmt.Fprintln(out, strings.Repeat("-", int(p.TotalWidth())))
		}
	}
}
