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

	"github.com/stratumdb/stratum/go/stratum/planner/tree"
	"github.com/stratumdb/stratum/go/stratum/sqltypes"
)

var _ Primitive = (*Projection)(nil)

// Projection evaluates a target list over every input row. Junk columns are
// carried like any other; dropping them is the consumer's business.
type Projection struct {
	Source Primitive
	Target []*tree.TargetEntry
}

// Execute implements the Primitive interface.
func (p *Projection) Execute(ctx context.Context) (*sqltypes.Result, error) {
	in, err := p.Source.Execute(ctx)
	if err != nil {
		return nil, err
	}
	out := &sqltypes.Result{Fields: p.fields()}
	for _, row := range in.Rows {
		projected, err := evalTarget(p.Target, row)
		if err != nil {
			return nil, err
		}
		out.Rows = append(out.Rows, projected)
	}
	return out, nil
}

func (p *Projection) fields() []sqltypes.Field {
	fields := make([]sqltypes.Field, len(p.Target))
	for i, te := range p.Target {
		st, _ := tree.ScalarType(te.Expr.ExprType())
		fields[i] = sqltypes.Field{Name: te.Name, Type: st}
	}
	return fields
}

// Inputs implements the Primitive interface.
func (p *Projection) Inputs() []Primitive { return []Primitive{p.Source} }

func (p *Projection) description() PrimitiveDescription {
	cols := make([]string, len(p.Target))
	for i, te := range p.Target {
		cols[i] = te.Name
	}
	return PrimitiveDescription{
		OperatorType: "Projection",
		Other:        map[string]any{"Columns": cols},
	}
}
