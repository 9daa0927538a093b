/*
Copyright 2026 The Stratum Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package engine

import (
	"context"

	"github.com/stratumdb/stratum/go/stratum/sqltypes"
	"github.com/stratumdb/stratum/go/stratum/sterrors"
)

var _ Primitive = (*Distinct)(nil)

// Distinct uniqueifies its input by hashing over CheckCols.
type Distinct struct {
	Source    Primitive
	CheckCols []CheckCol
}

type probeTable struct {
	seenRows  map[sqltypes.HashCode][]sqltypes.Row
	checkCols []CheckCol
}

func newProbeTable(checkCols []CheckCol) *probeTable {
	return &probeTable{
		seenRows:  map[sqltypes.HashCode][]sqltypes.Row{},
		checkCols: checkCols,
	}
}

// exists records the row and reports whether an equal row was seen before.
func (pt *probeTable) exists(inputRow sqltypes.Row) (bool, error) {
	code, err := pt.hashCodeForRow(inputRow)
	if err != nil {
		return false, err
	}

	existingRows, found := pt.seenRows[code]
	if !found {
		pt.seenRows[code] = []sqltypes.Row{inputRow}
		return false, nil
	}

	// Equal hash codes still need a value check so a collision does not get
	// mistaken for a duplicate.
	for _, existingRow := range existingRows {
		equal, err := pt.equal(existingRow, inputRow)
		if err != nil {
			return false, err
		}
		if equal {
			return true, nil
		}
	}

	pt.seenRows[code] = append(existingRows, inputRow)
	return false, nil
}

func (pt *probeTable) hashCodeForRow(inputRow sqltypes.Row) (sqltypes.HashCode, error) {
	// 17/31 multiply-and-add over the per-column hash codes.
	code := sqltypes.HashCode(17)
	for _, checkCol := range pt.checkCols {
		if checkCol.Col >= len(inputRow) {
			return 0, sterrors.ST13001("index out of range in row when creating the DISTINCT hash code")
		}
		hashcode, err := sqltypes.NullsafeHashcode(inputRow[checkCol.Col], checkCol.Collation)
		if err != nil {
			return 0, err
		}
		code = code*31 + hashcode
	}
	return code, nil
}

func (pt *probeTable) equal(a, b sqltypes.Row) (bool, error) {
	for _, checkCol := range pt.checkCols {
		cmp, err := sqltypes.NullsafeCompare(a[checkCol.Col], b[checkCol.Col], checkCol.Collation)
		if err != nil {
			return false, err
		}
		if cmp != 0 {
			return false, nil
		}
	}
	return true, nil
}

// Execute implements the Primitive interface.
func (d *Distinct) Execute(ctx context.Context) (*sqltypes.Result, error) {
	input, err := d.Source.Execute(ctx)
	if err != nil {
		return nil, err
	}
	result := &sqltypes.Result{Fields: input.Fields}
	pt := newProbeTable(d.CheckCols)
	for _, row := range input.Rows {
		exists, err := pt.exists(row)
		if err != nil {
			return nil, err
		}
		if !exists {
			result.Rows = append(result.Rows, row)
		}
	}
	return result, nil
}

// Inputs implements the Primitive interface.
func (d *Distinct) Inputs() []Primitive { return []Primitive{d.Source} }

func (d *Distinct) description() PrimitiveDescription {
	cols := make([]int, len(d.CheckCols))
	for i, cc := range d.CheckCols {
		cols[i] = cc.Col
	}
	return PrimitiveDescription{
		OperatorType: "Distinct",
		Other:        map[string]any{"CheckCols": cols},
	}
}
