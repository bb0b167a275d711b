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

package jarsigner

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/sigstore/jar-audit/pkg/logging"
	"github.com/sigstore/jar-audit/pkg/verify"
)

// writeVerifier writes a shell script standing in for jarsigner.
func writeVerifier(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script verifiers are not supported on windows")
	}
	path := filepath.Join(t.TempDir(), "fake-jarsigner")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("Failed to write verifier script: %v", err)
	}
	return path
}

func TestExecInvokerSuccess(t *testing.T) {
	// Echo the arguments back so the command line can be checked.
	verifier := writeVerifier(t, `echo "jar verified."; echo "args: $*"`)

	var logs bytes.Buffer
	logger := logging.NewLoggerWithOptions(logging.LoggerOptions{Level: logging.LevelInfo, Output: &logs})
	inv := NewExecInvoker(ExecInvokerOptions{Verifier: verifier, Timeout: DefaultTimeout, Logger: logger})

	res, err := inv.Invoke(context.Background(), "dir/a.jar")
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if res.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", res.ExitCode)
	}
	if res.Stdout != "jar verified.\nargs: -verify dir/a.jar\n" {
		t.Errorf("Stdout = %q", res.Stdout)
	}
	if !strings.Contains(logs.String(), "Signed dir/a.jar") {
		t.Errorf("expected progress log, got %q", logs.String())
	}
}

func TestExecInvokerContractViolations(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantType verify.ErrorType
		wantCode int
		contains string
	}{
		{
			name:     "non-zero exit code",
			body:     `echo "jar verified."; exit 4`,
			wantType: verify.ErrTypeUnexpectedExitCode,
			wantCode: 4,
			contains: "exit code 4",
		},
		{
			name:     "stderr output",
			body:     `echo "jar verified."; echo "jarsigner: unable to open jar file" >&2`,
			wantType: verify.ErrTypeUnexpectedStderr,
			wantCode: verify.ExitContract,
			contains: "unable to open jar file",
		},
		{
			name:     "no output",
			body:     `exit 0`,
			wantType: verify.ErrTypeNoOutput,
			wantCode: verify.ExitContract,
			contains: "No output received",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := NewExecInvoker(ExecInvokerOptions{Verifier: writeVerifier(t, tt.body)})
			_, err := inv.Invoke(context.Background(), "a.jar")
			if err == nil {
				t.Fatal("Invoke() expected error, got nil")
			}
			var auditErr *verify.AuditError
			if !verify.As(err, &auditErr) {
				t.Fatalf("Invoke() error %T is not an AuditError", err)
			}
			if auditErr.Type != tt.wantType {
				t.Errorf("Type = %s, want %s", auditErr.Type, tt.wantType)
			}
			if auditErr.ExitCode() != tt.wantCode {
				t.Errorf("ExitCode() = %d, want %d", auditErr.ExitCode(), tt.wantCode)
			}
			if !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.contains)
			}
		})
	}
}

func TestExecInvokerMissingBinary(t *testing.T) {
	inv := NewExecInvoker(ExecInvokerOptions{Verifier: filepath.Join(t.TempDir(), "does-not-exist")})
	_, err := inv.Invoke(context.Background(), "a.jar")
	if !verify.IsType(err, verify.ErrTypeInvocation) {
		t.Fatalf("Invoke() error = %v, want InvocationError", err)
	}
}

func TestExecInvokerTimeout(t *testing.T) {
	inv := NewExecInvoker(ExecInvokerOptions{
		Verifier: writeVerifier(t, `exec sleep 10`),
		Timeout:  100 * time.Millisecond,
	})

	start := time.Now()
	_, err := inv.Invoke(context.Background(), "a.jar")
	if !verify.IsType(err, verify.ErrTypeInvocation) {
		t.Fatalf("Invoke() error = %v, want InvocationError", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("Invoke() took %s, timeout was not enforced", elapsed)
	}
}

func TestExecInvokerDefaults(t *testing.T) {
	inv := NewExecInvoker(ExecInvokerOptions{})
	got := inv.Command("x.jar")
	want := []string{"jarsigner", "-verify", "x.jar"}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("Command() = %v, want %v", got, want)
	}
}
