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
package termio

import (
	"bytes"
	"strings"
	"testing"

	"github.com/consensys/go-zkvm/pkg/util/assert"
)

func Test_Table_Print(t *testing.T) {
	var (
		buf   bytes.Buffer
		table = NewTablePrinter(2, 2)
	)
	//
	table.SetRow(0, "a", "bb")
	table.SetRow(1, "ccccc", "d")
	table.AnsiEscapes(false)
	table.Print(&buf)
	//
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Equal(t, 3, len(lines))
	assert.Equal(t, "     a | bb |", lines[0])
	assert.Equal(t, strings.Repeat("-", 13), lines[1])
	assert.Equal(t, " ccccc |  d |", lines[2])
}

func Test_Table_FitWidth(t *testing.T) {
	var (
		buf   bytes.Buffer
		table = NewTablePrinter(2, 2)
	)
	//
	table.SetRow(0, "a", "bb")
	table.SetRow(1, "ccccc", "d")
	table.FitWidth(11)
	assert.Equal(t, uint(11), table.TotalWidth())
	//
	table.AnsiEscapes(false)
	table.Print(&buf)
	assert.True(t, strings.HasSuffix(buf.String(), " c.. |  d |\n"))
	// Columns are never narrower than an ellipsis
	table.FitWidth(0)
	assert.Equal(t, uint(11), table.TotalWidth())
}

func Test_Table_Escapes(t *testing.T) {
	var (
		buf   bytes.Buffer
		table = NewTablePrinter(1, 1)
	)
	//
	table.SetRow(0, "x")
	table.SetEscape(0, 0, AnsiEscape{}.FgColour(TERM_RED))
	table.Print(&buf)
	//
	assert.True(t, strings.HasPrefix(buf.String(), "\033[31m x\033[0m |"))
	assert.True(t, AnsiEscape{}.IsEmpty())
	assert.False(t, BoldAnsiEscape().IsEmpty())
}
