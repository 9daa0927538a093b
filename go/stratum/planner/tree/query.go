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

// RTEKind distinguishes range table entry kinds.
type RTEKind int8

const (
	// RTERelation references a catalog relation.
	RTERelation RTEKind = iota
	// RTESubquery references an embedded sub-query.
	RTESubquery
)

// RelKind classifies a relation within a hierarchy.
type RelKind int8

const (
	// RelOrdinary is a plain table.
	RelOrdinary RelKind = iota
	// RelPartitioned is a partitioned container (root or intermediate).
	RelPartitioned
	// RelLeafPartition is a leaf of a partitioned hierarchy.
	RelLeafPartition
)

// RangeTblEntry is one entry of the pass's range table: the planner's view of
// one relation or sub-query reference.
type RangeTblEntry struct {
	Kind    RTEKind
	RelOID  RelationOID
	RelKind RelKind

	// Inh marks an entry that may stand for a whole hierarchy. Expansion
	// either replaces the marking with child entries or clears it.
	Inh bool

	Subquery *Query

	// ColNames are the exposed column names (the eref), used to label
	// constructed whole-row values.
	ColNames []string

	// Per-column privilege sets: element 0 is the whole-row bit, element i
	// is column i.
	SelectedCols Bitset
	InsertedCols Bitset
	UpdatedCols  Bitset

	// SecurityQuals are filter predicates attached after sublink planning;
	// translation must recurse into them.
	SecurityQuals []Expr
}

// Query is the planner's input query representation, reduced to the fields
// this subsystem reads or rewrites.
type Query struct {
	TargetList []*TargetEntry
	Quals      []Expr

	// SetOps is non-nil when the query is a set operation over its range
	// table's sub-queries.
	SetOps SetOpNode

	// ResultRelation is the modification target, or 0 for read-only queries.
	ResultRelation RelIndex

	// Metadata the set-operation planner reads for distinct-group estimation.
	GroupClause     []*SortGroupClause
	Distinct        bool
	HasAggs         bool
	HasGroupingSets bool
	HasHavingQual   bool

	// HasRecursion marks a query whose topmost set operation is a recursive
	// union; WorkTableID is the assigned working-table parameter.
	HasRecursion bool
	WorkTableID  int
}
