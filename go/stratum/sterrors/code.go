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

package sterrors

import "fmt"

// Numbered error constructors. The identifier is part of the error message so
// users can look errors up without depending on exact wording, and tests can
// assert on the identifier rather than the full text.

// ST03001: a planner resource limit was exceeded.
func ST03001(what string) error {
	return Errorf(CodeResourceExhausted, "ST03001: planner limit exceeded: %s", what)
}

// ST09001: a hierarchy member disagrees with its parent's schema.
func ST09001(format string, args ...any) error {
	return Errorf(CodeFailedPrecondition, "ST09001: schema mismatch: %s", fmt.Sprintf(format, args...))
}

// ST12001: a construct the planner does not (yet) support.
func ST12001(construct string) error {
	return Errorf(CodeUnimplemented, "ST12001: unsupported: %s", construct)
}

// ST13001: an invariant the planner itself maintains was found broken.
func ST13001(format string, args ...any) error {
	return Errorf(CodeInternal, "ST13001: %s", fmt.Sprintf(format, args...))
}
