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
	"github.com/stratumdb/stratum/go/stratum/planner/tree"
	"github.com/stratumdb/stratum/go/stratum/sqltypes"
	"github.com/stratumdb/stratum/go/stratum/sterrors"
)

// evalExpr evaluates a projection expression over one input row. Only the
// node kinds a set-operation projection can contain are supported; anything
// else reaching execution is a planner defect.
func evalExpr(e tree.Expr, row sqltypes.Row) (sqltypes.Value, error) {
	switch n := e.(type) {
	case *tree.Var:
		if n.RelID != tree.OuterRel && n.LevelsUp != 0 {
			return sqltypes.NULL, sterrors.ST13001("unplanned outer reference survived to execution")
		}
		if n.Col < 1 || n.Col > len(row) {
			return sqltypes.NULL, sterrors.ST13001("column %d out of range in %d-column row", n.Col, len(row))
		}
		return row[n.Col-1], nil
	case *tree.Const:
		return n.Val, nil
	case *tree.CoerceExpr:
		v, err := evalExpr(n.Arg, row)
		if err != nil {
			return sqltypes.NULL, err
		}
		st, ok := tree.ScalarType(n.Type)
		if !ok {
			return sqltypes.NULL, sterrors.ST13001("coercion to non-scalar type %v", n.Type)
		}
		return v.Coerce(st)
	case *tree.RelabelExpr:
		// Collation relabel has no runtime effect on the value.
		return evalExpr(n.Arg, row)
	default:
		return sqltypes.NULL, sterrors.ST13001("expression kind %T is not executable", e)
	}
}

// evalTarget evaluates a full target list over one row.
func evalTarget(tlist []*tree.TargetEntry, row sqltypes.Row) (sqltypes.Row, error) {
	out := make(sqltypes.Row, len(tlist))
	for i, te := range tlist {
		v, err := evalExpr(te.Expr, row)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
