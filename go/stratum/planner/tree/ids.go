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

// Package tree defines the planner's node types: expressions, set-operation
// trees, output columns and the planning annotations that travel with them.
// Each category is a closed set of variants so that adding a node kind is a
// compile-time-checked change.
package tree

import "fmt"

// RelIndex identifies an entry in the pass's range table. Entries are
// numbered from 1; OuterRel is the synthetic "my input" reference used in
// targets sitting above a combine step, where a column can come from any
// child at runtime.
type RelIndex int

// OuterRel is the varno used for references against a node's own input.
const OuterRel RelIndex = 0

// RelationOID identifies a relation in the catalog.
type RelationOID int64

// TypeID identifies a column type. The planner treats types as identity plus
// the narrow coercion lattice below; everything richer belongs to the type
// system proper.
type TypeID int32

// Scalar type ids. Composite (row) types are assigned by the catalog starting
// at FirstCompositeType.
const (
	TypeUnknown   TypeID = 0 // untyped literal, coerces to anything
	TypeInt64     TypeID = 20
	TypeFloat64   TypeID = 701
	TypeVarBinary TypeID = 17
	TypeVarChar   TypeID = 1043
	TypeRecord    TypeID = 2249 // anonymous row type
	TypeFlag      TypeID = TypeInt64

	FirstCompositeType TypeID = 16384
)

// IsComposite reports whether t is a named row type.
func (t TypeID) IsComposite() bool {
	return t == TypeRecord || t >= FirstCompositeType
}

func (t TypeID) String() string {
	switch t {
	case TypeUnknown:
		return "unknown"
	case TypeInt64:
		return "int64"
	case TypeFloat64:
		return "float64"
	case TypeVarBinary:
		return "varbinary"
	case TypeVarChar:
		return "varchar"
	case TypeRecord:
		return "record"
	default:
		return fmt.Sprintf("type%d", int32(t))
	}
}

// Typmod is the type size modifier. TypmodUnspecified means "no constraint".
type Typmod int32

// TypmodUnspecified is the unconstrained typmod.
const TypmodUnspecified Typmod = -1

// SortGroupRef links an output column to its role in grouping or ordering.
// Zero means the column plays no such role.
type SortGroupRef int
