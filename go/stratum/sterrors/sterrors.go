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

// Package sterrors provides the error type used throughout the planner.
//
// Every error carries a Code classifying the failure. Callers that need to
// react to a class of failure (rather than a specific error value) should use
// Code() instead of string matching.
package sterrors

import (
	"errors"
	"fmt"
)

// Code classifies a planner error. The values mirror the canonical RPC codes
// so they can be mapped onto a transport without translation.
type Code int32

const (
	// CodeOK is never attached to an error; it is what Code() returns for nil.
	CodeOK Code = iota
	// CodeInvalidArgument reports a malformed request.
	CodeInvalidArgument
	// CodeFailedPrecondition reports a schema or catalog state that
	// contradicts what planning already committed to.
	CodeFailedPrecondition
	// CodeResourceExhausted reports planner resource limits being hit.
	CodeResourceExhausted
	// CodeUnimplemented reports a construct the planner cannot implement.
	CodeUnimplemented
	// CodeInternal reports a defect: an invariant the planner itself broke.
	CodeInternal
)

func (c Code) String() string {
	switch c {
	case CodeOK:
		return "OK"
	case CodeInvalidArgument:
		return "INVALID_ARGUMENT"
	case CodeFailedPrecondition:
		return "FAILED_PRECONDITION"
	case CodeResourceExhausted:
		return "RESOURCE_EXHAUSTED"
	case CodeUnimplemented:
		return "UNIMPLEMENTED"
	case CodeInternal:
		return "INTERNAL"
	default:
		return fmt.Sprintf("Code(%d)", int32(c))
	}
}

type fundamental struct {
	msg  string
	code Code
}

func (f *fundamental) Error() string { return f.msg }

// New returns an error with the supplied message and code.
func New(code Code, msg string) error {
	return &fundamental{msg: msg, code: code}
}

// Errorf formats according to a format specifier and returns the string as a
// value that satisfies error, tagged with the given code.
func Errorf(code Code, format string, args ...any) error {
	return &fundamental{msg: fmt.Sprintf(format, args...), code: code}
}

type wrapping struct {
	cause error
	msg   string
}

func (w *wrapping) Error() string { return w.msg + ": " + w.cause.Error() }
func (w *wrapping) Unwrap() error { return w.cause }

// Wrap returns an error annotating err with the supplied message. The code of
// the result is the code of err. Wrapping nil returns nil.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &wrapping{cause: err, msg: msg}
}

// Wrapf is Wrap with message formatting.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return &wrapping{cause: err, msg: fmt.Sprintf(format, args...)}
}

// ErrCode returns the code of any error built by this package, unwrapping as
// needed. Errors from elsewhere report CodeInternal: an untagged error
// escaping into the planner is itself a defect.
func ErrCode(err error) Code {
	if err == nil {
		return CodeOK
	}
	var f *fundamental
	if errors.As(err, &f) {
		return f.code
	}
	return CodeInternal
}
