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

// ScalarType maps a planner type id onto the execution value model. The
// second return is false for composite and unknown types, which have no
// scalar image.
func ScalarType(t TypeID) (sqltypes.Type, bool) {
	switch t {
	case TypeInt64:
		return sqltypes.Int64, true
	case TypeFloat64:
		return sqltypes.Float64, true
	case TypeVarChar:
		return sqltypes.VarChar, true
	case TypeVarBinary:
		return sqltypes.VarBinary, true
	default:
		return 0, false
	}
}

// CanCoerce reports whether an implicit coercion path exists from one type to
// another. Untyped literals coerce to anything; numerics convert between each
// other; every scalar has a textual image. Composite types never coerce here:
// whole-row conversion goes through ConvertRowtypeExpr instead.
func CanCoerce(from, to TypeID) bool {
	if from == to || from == TypeUnknown {
		return true
	}
	if from.IsComposite() || to.IsComposite() {
		return false
	}
	switch to {
	case TypeInt64, TypeFloat64:
		return from == TypeInt64 || from == TypeFloat64
	case TypeVarChar, TypeVarBinary:
		return true
	default:
		return false
	}
}
