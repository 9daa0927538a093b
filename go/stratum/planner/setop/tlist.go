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

package setop

import (
	"github.com/stratumdb/stratum/go/stratum/engine"
	"github.com/stratumdb/stratum/go/stratum/planner/tree"
	"github.com/stratumdb/stratum/go/stratum/sqltypes"
	"github.com/stratumdb/stratum/go/stratum/sterrors"
)

// generateSetOpTarget builds the output target list of one set-operation
// branch: one entry per result column referencing the branch's output
// positionally, coerced and relabeled to the operation's declared column
// types and collations, plus an optional junk flag column tagging every row
// with a constant side marker.
//
// With hackConstants set, constant branch outputs are copied up instead of
// referenced through a column. Deduplication sorts on these columns, and a
// sort on a column known constant is free.
func generateSetOpTarget(colTypes []tree.TypeID, colCollations []sqltypes.CollationID,
	flag int, varno tree.RelIndex, hackConstants bool,
	inputTlist, refNames []*tree.TargetEntry) ([]*tree.TargetEntry, error) {

	tlist := make([]*tree.TargetEntry, 0, len(colTypes)+1)
	for i, colType := range colTypes {
		inputTle := inputTlist[i]
		refTle := refNames[i]
		colColl := colCollations[i]

		var expr tree.Expr
		if c, ok := inputTle.Expr.(*tree.Const); ok && hackConstants {
			expr = tree.CopyExpr(c)
		} else {
			expr = &tree.Var{
				RelID:     varno,
				Col:       inputTle.ResNo,
				Type:      inputTle.Expr.ExprType(),
				Typmod:    inputTle.Expr.ExprTypmod(),
				Collation: inputTle.Expr.ExprCollation(),
			}
		}

		if expr.ExprType() != colType {
			if !tree.CanCoerce(expr.ExprType(), colType) {
				return nil, sterrors.Errorf(sterrors.CodeInvalidArgument,
					"UNION/INTERSECT/EXCEPT could not convert type %d to %d for column %d",
					expr.ExprType(), colType, i+1)
			}
			expr = &tree.CoerceExpr{
				Arg:    expr,
				Type:   colType,
				Typmod: tree.TypmodUnspecified,
			}
		}

		// The declared collation wins even over a coercion's output
		// collation, so the relabel is applied unconditionally on mismatch.
		if expr.ExprCollation() != colColl {
			expr = &tree.RelabelExpr{
				Arg:       expr,
				Type:      expr.ExprType(),
				Typmod:    expr.ExprTypmod(),
				Collation: colColl,
			}
		}

		resno := len(tlist) + 1
		tlist = append(tlist, &tree.TargetEntry{
			Expr:  expr,
			ResNo: resno,
			Name:  refTle.Name,
			// Output columns are numbered 1..n and so are their grouping
			// refs; binding happens in generateGroupList.
			SortGroupRef: tree.SortGroupRef(resno),
		})
	}

	if flag >= 0 {
		tlist = append(tlist, &tree.TargetEntry{
			Expr: &tree.Const{
				Type:   tree.TypeFlag,
				Typmod: tree.TypmodUnspecified,
				Val:    sqltypes.NewInt64(int64(flag)),
			},
			ResNo: len(tlist) + 1,
			Name:  "flag",
			Junk:  true,
		})
	}
	return tlist, nil
}

// generateAppendTarget builds the target list of the append step combining
// all branches: plain outer-column references, no coercions. Branches were
// already projected to the common column types, but their typmods may still
// differ; a column keeps a known typmod only when every branch agrees on it.
func generateAppendTarget(colTypes []tree.TypeID, colCollations []sqltypes.CollationID,
	flag bool, inputTlists [][]*tree.TargetEntry,
	refNames []*tree.TargetEntry) []*tree.TargetEntry {

	colTypmods := make([]tree.Typmod, len(colTypes))
	for inputNo, tlist := range inputTlists {
		colIdx := 0
		for _, tle := range tlist {
			if tle.Junk {
				continue
			}
			typmod := tree.TypmodUnspecified
			if tle.Expr.ExprType() == colTypes[colIdx] {
				typmod = tle.Expr.ExprTypmod()
			}
			switch {
			case inputNo == 0:
				colTypmods[colIdx] = typmod
			case typmod != colTypmods[colIdx]:
				colTypmods[colIdx] = tree.TypmodUnspecified
			}
			colIdx++
		}
	}

	tlist := make([]*tree.TargetEntry, 0, len(colTypes)+1)
	for i, colType := range colTypes {
		resno := len(tlist) + 1
		tlist = append(tlist, &tree.TargetEntry{
			Expr: &tree.Var{
				RelID:     tree.OuterRel,
				Col:       resno,
				Type:      colType,
				Typmod:    colTypmods[i],
				Collation: colCollations[i],
			},
			ResNo:        resno,
			Name:         refNames[i].Name,
			SortGroupRef: tree.SortGroupRef(resno),
		})
	}

	if flag {
		resno := len(tlist) + 1
		tlist = append(tlist, &tree.TargetEntry{
			Expr: &tree.Var{
				RelID:  tree.OuterRel,
				Col:    resno,
				Type:   tree.TypeFlag,
				Typmod: tree.TypmodUnspecified,
			},
			ResNo: resno,
			Name:  "flag",
			Junk:  true,
		})
	}
	return tlist
}

// generateGroupList binds the operation's parse-time grouping clauses to the
// freshly built target list. Entries pair up positionally: the i-th non-junk
// target column gets the i-th clause.
func generateGroupList(op *tree.SetOperation, tlist []*tree.TargetEntry) ([]*tree.SortGroupClause, error) {
	grouplist := tree.CopySortGroupClauses(op.GroupClauses)
	lg := 0
	for _, tle := range tlist {
		if tle.Junk {
			continue
		}
		if lg >= len(grouplist) {
			return nil, sterrors.ST13001("set operation has %d grouping clauses for %d output columns",
				len(grouplist), lg+1)
		}
		grouplist[lg].Ref = tle.SortGroupRef
		lg++
	}
	if lg != len(grouplist) {
		return nil, sterrors.ST13001("set operation has %d grouping clauses for %d output columns",
			len(grouplist), lg)
	}
	return grouplist, nil
}

// tlistSameDatatypes reports whether the target list's non-junk columns
// already produce exactly the given types. With junkOK false any junk column
// also disqualifies the list.
func tlistSameDatatypes(tlist []*tree.TargetEntry, colTypes []tree.TypeID, junkOK bool) bool {
	colIdx := 0
	for _, tle := range tlist {
		if tle.Junk {
			if !junkOK {
				return false
			}
			continue
		}
		if colIdx >= len(colTypes) || tle.Expr.ExprType() != colTypes[colIdx] {
			return false
		}
		colIdx++
	}
	return colIdx == len(colTypes)
}

// tlistSameCollations is the collation analog of tlistSameDatatypes. Junk
// columns are always ignored here; they were already vetted.
func tlistSameCollations(tlist []*tree.TargetEntry, colCollations []sqltypes.CollationID) bool {
	colIdx := 0
	for _, tle := range tlist {
		if tle.Junk {
			continue
		}
		if colIdx >= len(colCollations) || tle.Expr.ExprCollation() != colCollations[colIdx] {
			return false
		}
		colIdx++
	}
	return colIdx == len(colCollations)
}

// checkColsFor resolves a grouping list against a target list into the
// positional comparison columns the runtime steps use.
func checkColsFor(grouplist []*tree.SortGroupClause, tlist []*tree.TargetEntry) ([]engine.CheckCol, error) {
	cols := make([]engine.CheckCol, 0, len(grouplist))
	for _, sgc := range grouplist {
		tle := tree.FindTargetByRef(tlist, sgc.Ref)
		if tle == nil {
			return nil, sterrors.ST13001("no target entry for sort/group ref %d", sgc.Ref)
		}
		cols = append(cols, engine.CheckCol{
			Col:       tle.ResNo - 1,
			Collation: tle.Expr.ExprCollation(),
		})
	}
	return cols, nil
}

// groupingExprs pulls the expressions the grouping clauses bind to, for
// distinct-count estimation.
func groupingExprs(grouplist []*tree.SortGroupClause, tlist []*tree.TargetEntry) []tree.Expr {
	exprs := make([]tree.Expr, 0, len(grouplist))
	for _, sgc := range grouplist {
		if tle := tree.FindTargetByRef(tlist, sgc.Ref); tle != nil {
			exprs = append(exprs, tle.Expr)
		}
	}
	return exprs
}

// orderingRefs lists the sort/group refs of a grouping list, in clause order.
func orderingRefs(grouplist []*tree.SortGroupClause) []tree.SortGroupRef {
	refs := make([]tree.SortGroupRef, len(grouplist))
	for i, sgc := range grouplist {
		refs[i] = sgc.Ref
	}
	return refs
}
