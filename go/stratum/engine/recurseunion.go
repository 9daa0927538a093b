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

// maxRecursionIterations bounds runaway recursive queries whose recursive
// term never converges.
const maxRecursionIterations = 10000

var _ Primitive = (*RecursiveUnion)(nil)
var _ Primitive = (*WorkTableScan)(nil)

// WorkTable is the shared state between a RecursiveUnion and the
// WorkTableScan inside its recursive term: the batch of rows produced by the
// previous iteration.
type WorkTable struct {
	fields []sqltypes.Field
	rows   []sqltypes.Row
}

// RecursiveUnion evaluates its non-recursive term once, then iterates the
// recursive term against the previous iteration's output until it produces
// nothing new.
type RecursiveUnion struct {
	NonRecursive Primitive
	Recursive    Primitive
	WorkTable    *WorkTable

	// Distinct applies UNION semantics; rows already emitted are never fed
	// back into the worktable.
	Distinct  bool
	CheckCols []CheckCol
}

// Execute implements the Primitive interface.
func (r *RecursiveUnion) Execute(ctx context.Context) (*sqltypes.Result, error) {
	base, err := r.NonRecursive.Execute(ctx)
	if err != nil {
		return nil, err
	}

	out := &sqltypes.Result{Fields: base.Fields}
	var pt *probeTable
	if r.Distinct {
		pt = newProbeTable(r.CheckCols)
	}

	batch := make([]sqltypes.Row, 0, len(base.Rows))
	for _, row := range base.Rows {
		if pt != nil {
			seen, err := pt.exists(row)
			if err != nil {
				return nil, err
			}
			if seen {
				continue
			}
		}
		out.Rows = append(out.Rows, row)
		batch = append(batch, row)
	}

	for iter := 0; len(batch) > 0; iter++ {
		if iter >= maxRecursionIterations {
			return nil, sterrors.ST03001("recursive query iteration count")
		}
		r.WorkTable.fields = out.Fields
		r.WorkTable.rows = batch

		res, err := r.Recursive.Execute(ctx)
		if err != nil {
			return nil, err
		}
		batch = batch[:0]
		for _, row := range res.Rows {
			if pt != nil {
				seen, err := pt.exists(row)
				if err != nil {
					return nil, err
				}
				if seen {
					continue
				}
			}
			out.Rows = append(out.Rows, row)
			batch = append(batch, row)
		}
	}
	return out, nil
}

// Inputs implements the Primitive interface.
func (r *RecursiveUnion) Inputs() []Primitive {
	return []Primitive{r.NonRecursive, r.Recursive}
}

func (r *RecursiveUnion) description() PrimitiveDescription {
	return PrimitiveDescription{
		OperatorType: "RecursiveUnion",
		Other:        map[string]any{"Distinct": r.Distinct},
	}
}

// WorkTableScan reads the current worktable batch.
type WorkTableScan struct {
	WorkTable *WorkTable
}

// Execute implements the Primitive interface.
func (w *WorkTableScan) Execute(context.Context) (*sqltypes.Result, error) {
	return &sqltypes.Result{Fields: w.WorkTable.fields, Rows: w.WorkTable.rows}, nil
}

// Inputs implements the Primitive interface.
func (w *WorkTableScan) Inputs() []Primitive { return nil }

func (w *WorkTableScan) description() PrimitiveDescription {
	return PrimitiveDescription{OperatorType: "WorkTableScan"}
}
