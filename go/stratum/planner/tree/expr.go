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

// Expr is a planner expression node. The variant set is closed: every
// consumer switches exhaustively and treats an unknown variant as an internal
// error.
type Expr interface {
	isExpr()

	// ExprType is the exposed result type of the node.
	ExprType() TypeID
	// ExprTypmod is the exposed size modifier.
	ExprTypmod() Typmod
	// ExprCollation is the exposed collation. Downstream consumers that only
	// see a sort/group reference rely on this being exact.
	ExprCollation() sqltypes.CollationID
}

// Var is a reference to a column of a range table entry. Col 0 is a
// whole-row reference. LevelsUp counts query nesting levels between the
// reference and the entry it refers to.
type Var struct {
	RelID     RelIndex
	Col       int
	Type      TypeID
	Typmod    Typmod
	Collation sqltypes.CollationID
	LevelsUp  int
}

// Const is a literal. Type may be TypeUnknown for an untyped literal whose
// type inference is still pending.
type Const struct {
	Type      TypeID
	Typmod    Typmod
	Collation sqltypes.CollationID
	Val       sqltypes.Value
}

// CoerceExpr converts its argument to another type at runtime.
type CoerceExpr struct {
	Arg    Expr
	Type   TypeID
	Typmod Typmod
}

// RelabelExpr changes only the exposed collation (and possibly typmod) of its
// argument; there is no runtime conversion.
type RelabelExpr struct {
	Arg       Expr
	Type      TypeID
	Typmod    Typmod
	Collation sqltypes.CollationID
}

// ConvertRowtypeExpr adapts a whole-row value of one composite type to
// another composite type with the same column semantics.
type ConvertRowtypeExpr struct {
	Arg  Expr
	Type TypeID
}

// RowExpr constructs a row value from individual columns, labelled with
// ColNames.
type RowExpr struct {
	Args     []Expr
	Type     TypeID
	ColNames []string
}

// OpExpr applies a named operator to its arguments. The planner never
// interprets Name; it only carries it.
type OpExpr struct {
	Name      string
	Args      []Expr
	Type      TypeID
	Collation sqltypes.CollationID
}

// SubqueryExpr embeds a sub-query in expression position. References inside
// it to the enclosing query level carry LevelsUp > 0.
type SubqueryExpr struct {
	Query *Query
	Type  TypeID
}

// SubPlanRef refers to a shared, previously-planned sub-plan by id.
// Init-plans are evaluated once per statement and may stay shared;
// every other reference must be independently cloned when translated.
type SubPlanRef struct {
	PlanID     int
	IsInitPlan bool
	Type       TypeID
}

func (*Var) isExpr()                {}
func (*Const) isExpr()              {}
func (*CoerceExpr) isExpr()         {}
func (*RelabelExpr) isExpr()        {}
func (*ConvertRowtypeExpr) isExpr() {}
func (*RowExpr) isExpr()            {}
func (*OpExpr) isExpr()             {}
func (*SubqueryExpr) isExpr()       {}
func (*SubPlanRef) isExpr()         {}

func (v *Var) ExprType() TypeID                      { return v.Type }
func (v *Var) ExprTypmod() Typmod                    { return v.Typmod }
func (v *Var) ExprCollation() sqltypes.CollationID   { return v.Collation }
func (c *Const) ExprType() TypeID                    { return c.Type }
func (c *Const) ExprTypmod() Typmod                  { return c.Typmod }
func (c *Const) ExprCollation() sqltypes.CollationID { return c.Collation }
func (c *CoerceExpr) ExprType() TypeID               { return c.Type }
func (c *CoerceExpr) ExprTypmod() Typmod             { return c.Typmod }
func (c *CoerceExpr) ExprCollation() sqltypes.CollationID {
	return sqltypes.CollationUnspecified
}
func (r *RelabelExpr) ExprType() TypeID                    { return r.Type }
func (r *RelabelExpr) ExprTypmod() Typmod                  { return r.Typmod }
func (r *RelabelExpr) ExprCollation() sqltypes.CollationID { return r.Collation }
func (c *ConvertRowtypeExpr) ExprType() TypeID             { return c.Type }
func (c *ConvertRowtypeExpr) ExprTypmod() Typmod           { return TypmodUnspecified }
func (c *ConvertRowtypeExpr) ExprCollation() sqltypes.CollationID {
	return sqltypes.CollationUnspecified
}
func (r *RowExpr) ExprType() TypeID   { return r.Type }
func (r *RowExpr) ExprTypmod() Typmod { return TypmodUnspecified }
func (r *RowExpr) ExprCollation() sqltypes.CollationID {
	return sqltypes.CollationUnspecified
}
func (o *OpExpr) ExprType() TypeID                    { return o.Type }
func (o *OpExpr) ExprTypmod() Typmod                  { return TypmodUnspecified }
func (o *OpExpr) ExprCollation() sqltypes.CollationID { return o.Collation }
func (s *SubqueryExpr) ExprType() TypeID              { return s.Type }
func (s *SubqueryExpr) ExprTypmod() Typmod            { return TypmodUnspecified }
func (s *SubqueryExpr) ExprCollation() sqltypes.CollationID {
	return sqltypes.CollationUnspecified
}
func (s *SubPlanRef) ExprType() TypeID   { return s.Type }
func (s *SubPlanRef) ExprTypmod() Typmod { return TypmodUnspecified }
func (s *SubPlanRef) ExprCollation() sqltypes.CollationID {
	return sqltypes.CollationUnspecified
}
