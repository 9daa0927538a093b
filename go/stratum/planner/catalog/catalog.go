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

// Package catalog defines the planner's view of the schema service. The
// planner only reads column metadata, descendant lists and lock state; the
// implementation lives with the storage layer.
package catalog

import (
	"github.com/stratumdb/stratum/go/stratum/planner/tree"
	"github.com/stratumdb/stratum/go/stratum/sqltypes"
)

// LockMode is the strength of a relation lock, ordered weakest to strongest.
// Expansion must pick the final strength before touching a relation: taking a
// weaker lock first and upgrading later risks a deadlock at execution.
type LockMode int

const (
	NoLock LockMode = iota
	AccessShareLock
	RowShareLock
	RowExclusiveLock
	ExclusiveLock
)

func (l LockMode) String() string {
	switch l {
	case NoLock:
		return "NoLock"
	case AccessShareLock:
		return "AccessShareLock"
	case RowShareLock:
		return "RowShareLock"
	case RowExclusiveLock:
		return "RowExclusiveLock"
	case ExclusiveLock:
		return "ExclusiveLock"
	default:
		return "LockMode?"
	}
}

// Column is one column of a relation descriptor.
type Column struct {
	Name      string
	Type      tree.TypeID
	Typmod    tree.Typmod
	Collation sqltypes.CollationID
	Dropped   bool
}

// Relation is a scoped handle on an opened relation descriptor. Closing the
// handle releases the descriptor only; any lock taken on the relation is
// retained for the rest of the planning pass.
type Relation interface {
	OID() tree.RelationOID
	Name() string
	Kind() tree.RelKind
	Columns() []Column

	// CompositeType is the relation's named row type, or 0 if it has none.
	CompositeType() tree.TypeID

	// IsOtherSessionTemp reports a transient relation owned by a different
	// session, whose data cannot be read safely from this one.
	IsOtherSessionTemp() bool

	Close()
}

// Catalog is the schema service interface the planner consumes.
type Catalog interface {
	// Open returns a scoped handle. It does not itself lock; callers go
	// through Descendants (which locks every id it returns) or rely on locks
	// the earlier pipeline stages already hold.
	Open(oid tree.RelationOID) (Relation, error)

	// HasDescendants is the fast pre-check before expansion.
	HasDescendants(oid tree.RelationOID) bool

	// Descendants returns the full descendant closure including oid itself,
	// parent first, acquiring the given lock on every member.
	Descendants(oid tree.RelationOID, lock LockMode) ([]tree.RelationOID, error)

	// HeldLock reports the strongest lock this session already holds on the
	// relation. Read-only; used for diagnostics.
	HeldLock(oid tree.RelationOID) LockMode
}
