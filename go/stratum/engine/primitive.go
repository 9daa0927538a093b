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

// Package engine implements the execution primitives set-operation plans
// lower to: concatenation, projection, deduplication, sorting, the counting
// set-operation step and recursive union. They exist to make planned
// fragments executable, not to be a general executor.
package engine

import (
	"context"
	"encoding/json"

	"github.com/stratumdb/stratum/go/stratum/sqltypes"
)

// Primitive is a node of an executable plan. Each node does its part by
// combining the results of its inputs.
type Primitive interface {
	Execute(ctx context.Context) (*sqltypes.Result, error)
	Inputs() []Primitive
	description() PrimitiveDescription
}

// PrimitiveDescription is the structural description of a primitive tree,
// used for EXPLAIN-style output.
type PrimitiveDescription struct {
	OperatorType string                 `json:"OperatorType"`
	Other        map[string]any         `json:"Other,omitempty"`
	Inputs       []PrimitiveDescription `json:"Inputs,omitempty"`
}

// Describe builds the full description of a primitive tree.
func Describe(p Primitive) PrimitiveDescription {
	desc := p.description()
	for _, in := range p.Inputs() {
		desc.Inputs = append(desc.Inputs, Describe(in))
	}
	return desc
}

// DescribeJSON renders the description as indented JSON.
func DescribeJSON(p Primitive) (string, error) {
	b, err := json.MarshalIndent(Describe(p), "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckCol identifies a column that participates in equality checks, with
// the collation to compare and hash it under.
type CheckCol struct {
	Col       int
	Collation sqltypes.CollationID
}
