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

package plancontext

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/stratumdb/stratum/go/stratum/planner/cost"
)

// Configuration keys. Flags and config files share them through viper.
const (
	keyWorkMem       = "planner.work-mem-bytes"
	keyEnableHashAgg = "planner.enable-hashagg"
	keyMaxSetOpDepth = "planner.max-setop-depth"
)

const (
	defaultWorkMemBytes  = 4 << 20
	defaultMaxSetOpDepth = 100
)

// PlannerConfig carries the planner tunables for one pass.
type PlannerConfig struct {
	// WorkMemBytes is the memory ceiling for a single hash table. A hashed
	// strategy whose estimated footprint exceeds it is never chosen.
	WorkMemBytes int64

	// EnableHashAgg gates hashed deduplication entirely.
	EnableHashAgg bool

	// MaxSetOpDepth bounds set-operation tree nesting.
	MaxSetOpDepth int

	CostModel cost.Model
}

// RegisterFlags installs the planner flags on the given FlagSet and binds
// them into viper.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.Int64(keyWorkMem, defaultWorkMemBytes, "memory ceiling in bytes for a single planner hash table")
	fs.Bool(keyEnableHashAgg, true, "allow hashed deduplication strategies")
	fs.Int(keyMaxSetOpDepth, defaultMaxSetOpDepth, "maximum nesting depth of a set-operation tree")
	_ = viper.BindPFlag(keyWorkMem, fs.Lookup(keyWorkMem))
	_ = viper.BindPFlag(keyEnableHashAgg, fs.Lookup(keyEnableHashAgg))
	_ = viper.BindPFlag(keyMaxSetOpDepth, fs.Lookup(keyMaxSetOpDepth))
}

// NewConfig returns a config populated from viper (flags, config file,
// environment) with defaults applied.
func NewConfig() *PlannerConfig {
	viper.SetDefault(keyWorkMem, int64(defaultWorkMemBytes))
	viper.SetDefault(keyEnableHashAgg, true)
	viper.SetDefault(keyMaxSetOpDepth, defaultMaxSetOpDepth)
	return &PlannerConfig{
		WorkMemBytes:  viper.GetInt64(keyWorkMem),
		EnableHashAgg: viper.GetBool(keyEnableHashAgg),
		MaxSetOpDepth: viper.GetInt(keyMaxSetOpDepth),
		CostModel:     cost.NewDefault(),
	}
}

// NewTestConfig returns a config with defaults, independent of viper state.
func NewTestConfig() *PlannerConfig {
	return &PlannerConfig{
		WorkMemBytes:  defaultWorkMemBytes,
		EnableHashAgg: true,
		MaxSetOpDepth: defaultMaxSetOpDepth,
		CostModel:     cost.NewDefault(),
	}
}
