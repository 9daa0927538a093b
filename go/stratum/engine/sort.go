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
	"sort"

	"github.com/stratumdb/stratum/go/stratum/sqltypes"
)

var _ Primitive = (*Sort)(nil)
var _ Primitive = (*Unique)(nil)

// Sort orders its input by the given columns, ascending.
type Sort struct {
	Source Primitive
	By     []CheckCol
}

// Execute implements the Primitive interface.
func (s *Sort) Execute(ctx context.Context) (*sqltypes.Result, error) {
	in, err := s.Source.Execute(ctx)
	if err != nil {
		return nil, err
	}
	out := &sqltypes.Result{Fields: in.Fields, Rows: append([]sqltypes.Row(nil), in.Rows...)}
	var sortErr error
	sort.SliceStable(out.Rows, func(i, j int) bool {
		if sortErr != nil {
			return false
		}
		for _, by := range s.By {
			cmp, err := sqltypes.NullsafeCompare(out.Rows[i][by.Col], out.Rows[j][by.Col], by.Collation)
			if err != nil {
				sortErr = err
				return false
			}
			if cmp != 0 {
				return cmp < 0
			}
		}
		return false
	})
	if sortErr != nil {
		return nil, sortErr
	}
	return out, nil
}

// Inputs implements the Primitive interface.
func (s *Sort) Inputs() []Primitive { return []Primitive{s.Source} }

func (s *Sort) description() PrimitiveDescription {
	cols := make([]int, len(s.By))
	for i, by := range s.By {
		cols[i] = by.Col
	}
	return PrimitiveDescription{
		OperatorType: "Sort",
		Other:        map[string]any{"OrderBy": cols},
	}
}

// Unique collapses adjacent duplicate rows. The input must already be sorted
// on the check columns.
type Unique struct {
	Source    Primitive
	CheckCols []CheckCol
}

// Execute implements the Primitive interface.
func (u *Unique) Execute(ctx context.Context) (*sqltypes.Result, error) {
	in, err := u.Source.Execute(ctx)
	if err != nil {
		return nil, err
	}
	out := &sqltypes.Result{Fields: in.Fields}
	var last sqltypes.Row
	for _, row := range in.Rows {
		if last != nil {
			same := true
			for _, cc := range u.CheckCols {
				cmp, err := sqltypes.NullsafeCompare(last[cc.Col], row[cc.Col], cc.Collation)
				if err != nil {
					return nil, err
				}
				if cmp != 0 {
					same = false
					break
				}
			}
			if same {
				continue
			}
		}
		out.Rows = append(out.Rows, row)
		last = row
	}
	return out, nil
}

// Inputs implements the Primitive interface.
func (u *Unique) Inputs() []Primitive { return []Primitive{u.Source} }

func (u *Unique) description() PrimitiveDescription {
	return PrimitiveDescription{OperatorType: "Unique"}
}
