// Copyright 2025 The Sigstore Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package verify defines the error taxonomy shared by the archive audit
// pipeline. Every failure that aborts an audit run is an *AuditError and
// carries the process exit code the CLI terminates with.
package verify

import (
	"errors"
	"fmt"
)

// Process exit codes.
const (
	// ExitUsage is returned when the command line is unusable.
	ExitUsage = 1
	// ExitContract is returned when the verifier output or protocol is violated.
	ExitContract = 2
	// ExitNotDirectory is returned when a supplied path is not a directory.
	ExitNotDirectory = 3
)

// ErrorType represents the category of an audit error.
type ErrorType int

const (
	// ErrTypeUnknown indicates an unclassified error.
	ErrTypeUnknown ErrorType = iota

	// ErrTypeUsage indicates the command line did not name any directory.
	ErrTypeUsage

	// ErrTypeConfiguration indicates an invalid flag, config file or environment value.
	ErrTypeConfiguration

	// ErrTypeDirectoryNotFound indicates a supplied path is not an accessible directory.
	ErrTypeDirectoryNotFound

	// ErrTypeInvocation indicates the verifier could not be started or was killed.
	ErrTypeInvocation

	// ErrTypeUnexpectedExitCode indicates the verifier exited with a non-zero code.
	ErrTypeUnexpectedExitCode

	// ErrTypeUnexpectedStderr indicates the verifier wrote to its error stream.
	ErrTypeUnexpectedStderr

	// ErrTypeNoOutput indicates the verifier wrote nothing to standard output.
	ErrTypeNoOutput

	// ErrTypeParse indicates unrecognized, duplicate or incomplete diagnostics.
	ErrTypeParse

	// ErrTypeIO indicates the report could not be written.
	ErrTypeIO
)

// String returns a human-readable name for the error type.
func (e ErrorType) String() string {
	switch e {
	case ErrTypeUsage:
		return "UsageError"
	case ErrTypeConfiguration:
		return "ConfigurationError"
	case ErrTypeDirectoryNotFound:
		return "DirectoryNotFound"
	case ErrTypeInvocation:
		return "InvocationError"
	case ErrTypeUnexpectedExitCode:
		return "UnexpectedExitCode"
	case ErrTypeUnexpectedStderr:
		return "UnexpectedStderr"
	case ErrTypeNoOutput:
		return "NoOutput"
	case ErrTypeParse:
		return "ParseError"
	case ErrTypeIO:
		return "IOError"
	default:
		return "UnknownError"
	}
}

// defaultExitCode maps an error type to its process exit code.
func (e ErrorType) defaultExitCode() int {
	switch e {
	case ErrTypeUsage, ErrTypeConfiguration:
		return ExitUsage
	case ErrTypeDirectoryNotFound:
		return ExitNotDirectory
	default:
		return ExitContract
	}
}

// AuditError is a structured error for audit failures.
//
// It records what went wrong, the archive or directory involved, a
// human-readable message, the underlying cause and the exit code the process
// should terminate with.
//
// Example usage:
//
//	var auditErr *AuditError
//	if errors.As(err, &auditErr) {
//	    log.Printf("audit failed: type=%s, path=%s, code=%d",
//	               auditErr.Type, auditErr.Path, auditErr.ExitCode())
//	}
type AuditError struct {
	// Type categorizes the error for programmatic handling.
	Type ErrorType

	// Path is the archive or directory related to the error (optional).
	Path string

	// Message is a human-readable description of what went wrong.
	Message string

	// Cause is the underlying error (optional).
	Cause error

	// Code overrides the exit code derived from Type when non-zero.
	Code int
}

// Error implements the error interface. Only the message and cause are
// rendered since the CLI prints the error verbatim after "ERROR: ".
func (e *AuditError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause for error chain unwrapping.
func (e *AuditError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the process exit code for this error.
func (e *AuditError) ExitCode() int {
	if e.Code != 0 {
		return e.Code
	}
	return e.Type.defaultExitCode()
}

// NewError creates a new audit error.
func NewError(errType ErrorType, message string, cause error) *AuditError {
	return &AuditError{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// NewErrorWithPath creates a new audit error bound to a path.
func NewErrorWithPath(errType ErrorType, path, message string, cause error) *AuditError {
	return &AuditError{
		Type:    errType,
		Path:    path,
		Message: message,
		Cause:   cause,
	}
}

// Errorf creates a path-bound audit error with a formatted message.
func Errorf(errType ErrorType, path, format string, args ...interface{}) *AuditError {
	return NewErrorWithPath(errType, path, fmt.Sprintf(format, args...), nil)
}

// IsType checks if err, or any error it wraps, is an AuditError of errType.
//
// Example:
//
//	if IsType(err, ErrTypeParse) {
//	    // Handle unrecognized verifier output
//	}
func IsType(err error, errType ErrorType) bool {
	var auditErr *AuditError
	if As(err, &auditErr) {
		return auditErr.Type == errType
	}
	return false
}

// As finds the first AuditError in err's chain.
func As(err error, target **AuditError) bool {
	if err == nil {
		return false
	}
	return errors.As(err, target)
}
