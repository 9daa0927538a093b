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

// Package cost holds the cost estimation primitives the set-operation
// planner consumes. The planner treats the Model as an external collaborator;
// Default is the stock implementation.
package cost

import "math"

// Cost is a plan cost estimate, split into the cost to produce the first row
// and the cost to produce them all. Units are abstract.
type Cost struct {
	Startup float64
	Total   float64
}

// Model is the set of cost primitives the planner needs.
type Model interface {
	// AggCost estimates a hashed aggregation over the input. Hashed
	// aggregation reads all input before emitting anything.
	AggCost(numGroupCols int, numGroups, inputRows float64, input Cost) Cost

	// SortCost estimates an in-memory or spilling sort of the input.
	SortCost(rows float64, width int, input Cost) Cost

	// GroupCost estimates a sequential adjacent-group collapse over sorted
	// input.
	GroupCost(numGroupCols int, numGroups, rows float64, input Cost) Cost

	// ProjectionCost estimates per-row projection work added on top of the
	// input.
	ProjectionCost(rows float64, input Cost) Cost

	// CompareFractional compares two costs assuming only the given fraction
	// of output rows is actually needed: -1 if a is cheaper, +1 if b is
	// cheaper, 0 on a tie.
	CompareFractional(a, b Cost, fraction float64) int
}

// Default is the stock cost model. The constants match the usual defaults of
// row-store cost estimation.
type Default struct {
	CPUTupleCost    float64
	CPUOperatorCost float64
}

// NewDefault returns a Default with the standard parameters.
func NewDefault() *Default {
	return &Default{
		CPUTupleCost:    0.01,
		CPUOperatorCost: 0.0025,
	}
}

// AggCost implements Model.
func (m *Default) AggCost(numGroupCols int, numGroups, inputRows float64, input Cost) Cost {
	total := input.Total
	total += m.CPUOperatorCost * inputRows * float64(numGroupCols)
	total += m.CPUTupleCost * numGroups
	// Everything must be absorbed before the first group can be emitted.
	return Cost{Startup: total, Total: total}
}

// SortCost implements Model. Comparison count is the usual n·log2(n).
func (m *Default) SortCost(rows float64, width int, input Cost) Cost {
	if rows < 2 {
		rows = 2
	}
	comparisons := 2 * m.CPUOperatorCost * rows * math.Log2(rows)
	startup := input.Total + comparisons
	return Cost{
		Startup: startup,
		Total:   startup + m.CPUOperatorCost*rows,
	}
}

// GroupCost implements Model.
func (m *Default) GroupCost(numGroupCols int, numGroups, rows float64, input Cost) Cost {
	return Cost{
		Startup: input.Startup,
		Total:   input.Total + m.CPUOperatorCost*rows*float64(numGroupCols),
	}
}

// ProjectionCost implements Model.
func (m *Default) ProjectionCost(rows float64, input Cost) Cost {
	return Cost{
		Startup: input.Startup,
		Total:   input.Total + m.CPUTupleCost*rows,
	}
}

// CompareFractional implements Model. With fraction <= 0 or >= 1 it compares
// total costs; otherwise it interpolates between startup and total, which is
// what makes fast-start plans win under LIMIT.
func (m *Default) CompareFractional(a, b Cost, fraction float64) int {
	ac := fractionalCost(a, fraction)
	bc := fractionalCost(b, fraction)
	switch {
	case ac < bc:
		return -1
	case ac > bc:
		return 1
	default:
		return 0
	}
}

func fractionalCost(c Cost, fraction float64) float64 {
	if fraction <= 0 || fraction >= 1 {
		return c.Total
	}
	return c.Startup + fraction*(c.Total-c.Startup)
}
