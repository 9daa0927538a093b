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

import "github.com/stratumdb/stratum/go/stratum/sqltypes"

// SetOpType enumerates the set operations.
type SetOpType int8

const (
	SetOpUnion SetOpType = iota
	SetOpIntersect
	SetOpExcept
)

func (op SetOpType) String() string {
	switch op {
	case SetOpUnion:
		return "UNION"
	case SetOpIntersect:
		return "INTERSECT"
	case SetOpExcept:
		return "EXCEPT"
	default:
		return "SETOP?"
	}
}

// SetOpNode is one node of a parsed set-operation tree. The tree is immutable
// once parsed: planning only reads it.
type SetOpNode interface {
	isSetOpNode()
}

// RangeTblRef is a leaf: a reference to a sub-query range table entry.
type RangeTblRef struct {
	RTIndex RelIndex
}

// SetOperation combines the results of two set-operation subtrees.
type SetOperation struct {
	Op            SetOpType
	All           bool
	Left, Right   SetOpNode
	ColTypes      []TypeID
	ColCollations []sqltypes.CollationID
	// GroupClauses carries the parse-time grouping semantics for the output
	// columns, with sort/group refs still unbound (zero).
	GroupClauses []*SortGroupClause
}

func (*RangeTblRef) isSetOpNode()  {}
func (*SetOperation) isSetOpNode() {}
