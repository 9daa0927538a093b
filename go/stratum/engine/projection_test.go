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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratumdb/stratum/go/stratum/planner/tree"
	"github.com/stratumdb/stratum/go/stratum/sqltypes"
)

func TestProjection(t *testing.T) {
	in := r("a|b", "int64|varchar", "1|x", "2|y")

	proj := &Projection{
		Source: &Values{ResultFields: in.Fields, Rows: in.Rows},
		Target: []*tree.TargetEntry{{
			// Swap the columns and coerce the first to text.
			Expr: &tree.CoerceExpr{
				Arg:    &tree.Var{RelID: 1, Col: 1, Type: tree.TypeInt64},
				Type:   tree.TypeVarChar,
				Typmod: tree.TypmodUnspecified,
			},
			ResNo: 1,
			Name:  "a_text",
		}, {
			Expr:  &tree.Const{Type: tree.TypeInt64, Val: sqltypes.NewInt64(9)},
			ResNo: 2,
			Name:  "nine",
		}},
	}

	qr, err := proj.Execute(context.Background())
	require.NoError(t, err)

	expected := r("a_text|nine", "varchar|int64", "1|9", "2|9")
	assert.Equal(t, expected.Rows, qr.Rows)
	require.Len(t, qr.Fields, 2)
	assert.Equal(t, "a_text", qr.Fields[0].Name)
}

func TestProjectionRejectsUnplannedExpression(t *testing.T) {
	in := r("a", "int64", "1")
	proj := &Projection{
		Source: &Values{ResultFields: in.Fields, Rows: in.Rows},
		Target: []*tree.TargetEntry{{
			Expr:  &tree.OpExpr{Name: "+", Type: tree.TypeInt64},
			ResNo: 1,
		}},
	}
	_, err := proj.Execute(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ST13001")
}
