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

// TargetEntry is one output column of a plan node.
//
// In a set-operation tree, every non-junk entry has SortGroupRef equal to its
// ResNo; junk entries (working columns such as the set-op flag) have ref 0.
type TargetEntry struct {
	Expr         Expr
	ResNo        int
	Name         string
	SortGroupRef SortGroupRef
	Junk         bool
}

// SortGroupClause describes the grouping/ordering semantics of one output
// column, referenced through its sort/group ref rather than its expression.
type SortGroupClause struct {
	Ref SortGroupRef
	// EqOp names the equality operator parse analysis chose.
	EqOp string
	// Hashable and Sortable record what the operator class supports.
	Hashable bool
	Sortable bool
}

// GroupingIsHashable reports whether every clause can be hashed.
func GroupingIsHashable(clauses []*SortGroupClause) bool {
	for _, c := range clauses {
		if !c.Hashable {
			return false
		}
	}
	return true
}

// GroupingIsSortable reports whether every clause can be sorted.
func GroupingIsSortable(clauses []*SortGroupClause) bool {
	for _, c := range clauses {
		if !c.Sortable {
			return false
		}
	}
	return true
}

// FindTargetByRef locates the target entry carrying the given sort/group ref.
func FindTargetByRef(tlist []*TargetEntry, ref SortGroupRef) *TargetEntry {
	for _, te := range tlist {
		if !te.Junk && te.SortGroupRef == ref {
			return te
		}
	}
	return nil
}

// FilterClause is the planning annotation attached to a filter predicate: the
// clause itself plus the relation-index sets describing where it applies, and
// cached derived values that must be recomputed per relation.
type FilterClause struct {
	Clause Expr

	// ClauseRelids is the set of range table indexes the clause references.
	ClauseRelids Bitset
	// RequiredRelids is the set of relations that must be available before
	// the clause can be evaluated.
	RequiredRelids Bitset

	// Cached derived fields; negative means "not computed yet". Translation
	// to a hierarchy child resets them, since they can differ per child.
	EvalCost    float64
	Selectivity float64
}

// NewFilterClause builds an annotation with caches unset.
func NewFilterClause(clause Expr, clauseRelids, requiredRelids Bitset) *FilterClause {
	return &FilterClause{
		Clause:         clause,
		ClauseRelids:   clauseRelids,
		RequiredRelids: requiredRelids,
		EvalCost:       -1,
		Selectivity:    -1,
	}
}

// AppendRelInfo is the translation record for one (parent, child) pair of a
// hierarchy. TranslatedVars holds, for each parent column in order, the
// expression producing that column from the child; a nil slot is a dropped
// parent column. Built once per child during expansion, immutable afterward.
type AppendRelInfo struct {
	ParentRelID RelIndex
	ChildRelID  RelIndex

	// Composite row types, for whole-row conversion. Zero means the relation
	// has no named row type.
	ParentType TypeID
	ChildType  TypeID

	ParentOID      RelationOID
	TranslatedVars []Expr
}
