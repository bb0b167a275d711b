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

// Package jarsigner runs "jarsigner -verify" on archives and classifies its
// textual output into per-archive statuses and aggregate summaries.
package jarsigner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/sigstore/jar-audit/pkg/logging"
	"github.com/sigstore/jar-audit/pkg/verify"
)

// DefaultVerifier is the verifier binary used when none is configured.
const DefaultVerifier = "jarsigner"

// DefaultTimeout bounds a single verifier invocation.
const DefaultTimeout = 2 * time.Minute

// waitDelay bounds how long output pipes are drained after the verifier is
// killed, in case it left children holding them open.
const waitDelay = 5 * time.Second

// Result is the captured outcome of one verifier run.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Invoker runs the verifier against a single archive.
type Invoker interface {
	// Invoke runs the verifier for path and returns its captured output.
	// Output that breaks the verifier contract is returned as an error.
	Invoke(ctx context.Context, path string) (Result, error)
}

// Ensure ExecInvoker implements Invoker at compile time.
var _ Invoker = (*ExecInvoker)(nil)

// ExecInvokerOptions configures an ExecInvoker.
type ExecInvokerOptions struct {
	// Verifier is the verifier executable. Defaults to DefaultVerifier.
	Verifier string
	// Timeout bounds each invocation. Zero disables the timeout.
	Timeout time.Duration
	// Logger receives per-archive progress messages.
	Logger logging.Logger
}

// ExecInvoker runs the verifier as a child process.
type ExecInvoker struct {
	verifier string
	timeout  time.Duration
	logger   logging.Logger
}

// NewExecInvoker creates an ExecInvoker from opts.
func NewExecInvoker(opts ExecInvokerOptions) *ExecInvoker {
	verifier := opts.Verifier
	if verifier == "" {
		verifier = DefaultVerifier
	}
	return &ExecInvoker{
		verifier: verifier,
		timeout:  opts.Timeout,
		logger:   logging.EnsureLogger(opts.Logger),
	}
}

// Command returns the argv used to verify path.
func (e *ExecInvoker) Command(path string) []string {
	return []string{e.verifier, "-verify", path}
}

// Invoke runs "<verifier> -verify <path>" and checks the verifier contract:
// the process must start and exit 0, stderr must be empty and stdout must
// not be.
func (e *ExecInvoker) Invoke(ctx context.Context, path string) (Result, error) {
	argv := e.Command(path)

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	e.logger.Debug("Running %v", argv)
	err := cmd.Run()
	res := Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: cmd.ProcessState.ExitCode(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		switch {
		case ctx.Err() != nil:
			return res, verify.NewErrorWithPath(verify.ErrTypeInvocation, path,
				fmt.Sprintf("Failed to run %v", argv), ctx.Err())
		case errors.As(err, &exitErr) && res.ExitCode > 0:
			// jarsigner exits 0 whether or not the archive verified.
			return res, &verify.AuditError{
				Type:    verify.ErrTypeUnexpectedExitCode,
				Path:    path,
				Message: fmt.Sprintf("Failed to run %v: exit code %d", argv, res.ExitCode),
				Code:    res.ExitCode,
			}
		default:
			return res, verify.NewErrorWithPath(verify.ErrTypeInvocation, path,
				fmt.Sprintf("Failed to run %v", argv), err)
		}
	}
	e.logger.Info("Signed %s", path)

	if res.Stderr != "" {
		return res, verify.Errorf(verify.ErrTypeUnexpectedStderr, path,
			"Unexpected error output from %v: %q", argv, res.Stderr)
	}
	if res.Stdout == "" {
		return res, verify.Errorf(verify.ErrTypeNoOutput, path,
			"No output received from %v", argv)
	}
	return res, nil
}
