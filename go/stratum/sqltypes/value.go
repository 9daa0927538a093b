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

// Package sqltypes implements the value model the planner and the execution
// primitives share: a small tagged scalar with null-safe comparison and
// hashing.
package sqltypes

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/stratumdb/stratum/go/stratum/sterrors"
)

// Type is the runtime type tag of a Value.
type Type int8

const (
	Null Type = iota
	Int64
	Float64
	VarChar
	VarBinary
)

func (t Type) String() string {
	switch t {
	case Null:
		return "null"
	case Int64:
		return "int64"
	case Float64:
		return "float64"
	case VarChar:
		return "varchar"
	case VarBinary:
		return "varbinary"
	default:
		return fmt.Sprintf("Type(%d)", int8(t))
	}
}

// CollationID identifies a collation. The planner treats collations as opaque
// identity except where it must compare or hash values.
type CollationID int32

const (
	// CollationUnspecified is the zero value; comparison falls back to binary.
	CollationUnspecified CollationID = 0
	// CollationBinary compares byte-wise.
	CollationBinary CollationID = 63
	// CollationUtf8 compares byte-wise too; utf-8 code points order that way.
	CollationUtf8 CollationID = 255
)

// Value is a single column value. The zero Value is NULL.
type Value struct {
	typ Type
	i   int64
	f   float64
	b   []byte
}

// NULL is the SQL null value.
var NULL = Value{}

// NewInt64 builds an Int64 Value.
func NewInt64(v int64) Value {
	return Value{typ: Int64, i: v}
}

// NewFloat64 builds a Float64 Value.
func NewFloat64(v float64) Value {
	return Value{typ: Float64, f: v}
}

// NewVarChar builds a VarChar Value.
func NewVarChar(v string) Value {
	return Value{typ: VarChar, b: []byte(v)}
}

// NewVarBinary builds a VarBinary Value.
func NewVarBinary(v []byte) Value {
	return Value{typ: VarBinary, b: v}
}

// Type returns the type tag.
func (v Value) Type() Type { return v.typ }

// IsNull reports whether the value is NULL.
func (v Value) IsNull() bool { return v.typ == Null }

// Int64 returns the int64 payload; only meaningful for Int64 values.
func (v Value) Int64() int64 { return v.i }

// Float64 returns the float payload; only meaningful for Float64 values.
func (v Value) Float64() float64 { return v.f }

// Bytes returns the raw bytes payload for VarChar/VarBinary values.
func (v Value) Bytes() []byte { return v.b }

// String implements fmt.Stringer.
func (v Value) String() string {
	switch v.typ {
	case Null:
		return "NULL"
	case Int64:
		return strconv.FormatInt(v.i, 10)
	case Float64:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	default:
		return string(v.b)
	}
}

// Coerce converts v to the given type. Conversions follow SQL assignment
// rules over this value model; an impossible conversion is an error rather
// than a silent NULL.
func (v Value) Coerce(to Type) (Value, error) {
	if v.typ == to || v.typ == Null {
		return v, nil
	}
	switch to {
	case Int64:
		switch v.typ {
		case Float64:
			return NewInt64(int64(v.f)), nil
		case VarChar, VarBinary:
			i, err := strconv.ParseInt(string(v.b), 10, 64)
			if err != nil {
				return NULL, sterrors.Errorf(sterrors.CodeInvalidArgument, "cannot coerce %q to %v", v.String(), to)
			}
			return NewInt64(i), nil
		}
	case Float64:
		switch v.typ {
		case Int64:
			return NewFloat64(float64(v.i)), nil
		case VarChar, VarBinary:
			f, err := strconv.ParseFloat(string(v.b), 64)
			if err != nil {
				return NULL, sterrors.Errorf(sterrors.CodeInvalidArgument, "cannot coerce %q to %v", v.String(), to)
			}
			return NewFloat64(f), nil
		}
	case VarChar:
		return NewVarChar(v.String()), nil
	case VarBinary:
		return NewVarBinary([]byte(v.String())), nil
	}
	return NULL, sterrors.Errorf(sterrors.CodeInvalidArgument, "cannot coerce %v to %v", v.typ, to)
}

// NullsafeCompare returns -1, 0 or 1. NULL sorts before everything and equals
// only itself, which is the grouping notion of equality the set-operation
// steps need (not the SQL ternary one).
func NullsafeCompare(a, b Value, _ CollationID) (int, error) {
	switch {
	case a.IsNull() && b.IsNull():
		return 0, nil
	case a.IsNull():
		return -1, nil
	case b.IsNull():
		return 1, nil
	}
	if a.typ != b.typ {
		// Numeric values of different kinds still compare; anything else
		// reaching here means an upstream projection failed to coerce.
		if isNumeric(a.typ) && isNumeric(b.typ) {
			return compareFloat(a.asFloat(), b.asFloat()), nil
		}
		return 0, sterrors.ST13001("comparing values of incompatible types %v and %v", a.typ, b.typ)
	}
	switch a.typ {
	case Int64:
		switch {
		case a.i < b.i:
			return -1, nil
		case a.i > b.i:
			return 1, nil
		}
		return 0, nil
	case Float64:
		return compareFloat(a.f, b.f), nil
	default:
		return bytes.Compare(a.b, b.b), nil
	}
}

func isNumeric(t Type) bool { return t == Int64 || t == Float64 }

func (v Value) asFloat() float64 {
	if v.typ == Int64 {
		return float64(v.i)
	}
	return v.f
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
