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

var _ Primitive = (*Concatenate)(nil)

// Concatenate appends the results of its sources in order. Field metadata is
// taken from the first source; all sources must agree on column count.
type Concatenate struct {
	Sources []Primitive
}

// Execute implements the Primitive interface.
func (c *Concatenate) Execute(ctx context.Context) (*sqltypes.Result, error) {
	if len(c.Sources) == 0 {
		return nil, sterrors.ST13001("concatenate with no sources")
	}
	out := &sqltypes.Result{}
	for i, src := range c.Sources {
		res, err := src.Execute(ctx)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			out.Fields = res.Fields
		} else if len(res.Fields) != len(out.Fields) {
			return nil, sterrors.Errorf(sterrors.CodeFailedPrecondition,
				"the used SELECT statements have a different number of columns")
		}
		out.Rows = append(out.Rows, res.Rows...)
	}
	return out, nil
}

// Inputs implements the Primitive interface.
func (c *Concatenate) Inputs() []Primitive { return c.Sources }

func (c *Concatenate) description() PrimitiveDescription {
	return PrimitiveDescription{OperatorType: "Concatenate"}
}
