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

package tree

// CopyExpr returns a structurally independent deep copy of an expression.
// Bitsets may be shared since they are immutable.
func CopyExpr(e Expr) Expr {
	if e == nil {
		return nil
	}
	switch n := e.(type) {
	case *Var:
		out := *n
		return &out
	case *Const:
		out := *n
		return &out
	case *CoerceExpr:
		out := *n
		out.Arg = CopyExpr(n.Arg)
		return &out
	case *RelabelExpr:
		out := *n
		out.Arg = CopyExpr(n.Arg)
		return &out
	case *ConvertRowtypeExpr:
		out := *n
		out.Arg = CopyExpr(n.Arg)
		return &out
	case *RowExpr:
		out := *n
		out.Args = CopyExprs(n.Args)
		out.ColNames = append([]string(nil), n.ColNames...)
		return &out
	case *OpExpr:
		out := *n
		out.Args = CopyExprs(n.Args)
		return &out
	case *SubqueryExpr:
		out := *n
		out.Query = CopyQuery(n.Query)
		return &out
	case *SubPlanRef:
		out := *n
		return &out
	default:
		// The variant set is closed; reaching this is a defect in whoever
		// added a node kind without extending the copier.
		panic("tree: CopyExpr on unknown node kind")
	}
}

// CopyExprs deep-copies a slice of expressions.
func CopyExprs(es []Expr) []Expr {
	if es == nil {
		return nil
	}
	out := make([]Expr, len(es))
	for i, e := range es {
		out[i] = CopyExpr(e)
	}
	return out
}

// CopyTargetEntry deep-copies one target entry.
func CopyTargetEntry(te *TargetEntry) *TargetEntry {
	if te == nil {
		return nil
	}
	out := *te
	out.Expr = CopyExpr(te.Expr)
	return &out
}

// CopyTargetList deep-copies a target list.
func CopyTargetList(tlist []*TargetEntry) []*TargetEntry {
	if tlist == nil {
		return nil
	}
	out := make([]*TargetEntry, len(tlist))
	for i, te := range tlist {
		out[i] = CopyTargetEntry(te)
	}
	return out
}

// CopySortGroupClauses deep-copies a grouping clause list.
func CopySortGroupClauses(clauses []*SortGroupClause) []*SortGroupClause {
	if clauses == nil {
		return nil
	}
	out := make([]*SortGroupClause, len(clauses))
	for i, c := range clauses {
		cc := *c
		out[i] = &cc
	}
	return out
}

// CopyQuery deep-copies a query. The set-operation tree is shared: it is
// immutable after parsing.
func CopyQuery(q *Query) *Query {
	if q == nil {
		return nil
	}
	out := *q
	out.TargetList = CopyTargetList(q.TargetList)
	out.Quals = CopyExprs(q.Quals)
	out.GroupClause = CopySortGroupClauses(q.GroupClause)
	return &out
}

// CopyFilterClause deep-copies a filter annotation, including its caches.
func CopyFilterClause(fc *FilterClause) *FilterClause {
	if fc == nil {
		return nil
	}
	out := *fc
	out.Clause = CopyExpr(fc.Clause)
	return &out
}
