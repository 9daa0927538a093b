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
)

var _ Primitive = (*Values)(nil)

// Values is a literal row source.
type Values struct {
	ResultFields []sqltypes.Field
	Rows         []sqltypes.Row
}

// Execute implements the Primitive interface.
func (v *Values) Execute(context.Context) (*sqltypes.Result, error) {
	return &sqltypes.Result{Fields: v.ResultFields, Rows: v.Rows}, nil
}

// Inputs implements the Primitive interface.
func (v *Values) Inputs() []Primitive { return nil }

func (v *Values) description() PrimitiveDescription {
	return PrimitiveDescription{
		OperatorType: "Values",
		Other:        map[string]any{"RowCount": len(v.Rows)},
	}
}
