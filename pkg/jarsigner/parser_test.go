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
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/sigstore/jar-audit/pkg/verify"
)

// TestClassifySingleDiagnostic checks that each recognized line determines
// exactly one field. Parse itself also requires a signed or unsigned line.
func TestClassifySingleDiagnostic(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Status
	}{
		{
			name: "verified",
			line: LineVerified,
			want: Status{Name: "a.jar", Verified: FlagTrue},
		},
		{
			name: "unsigned",
			line: LineUnsigned,
			want: Status{Name: "a.jar", Verified: FlagFalse},
		},
		{
			name: "unsigned with reason",
			line: LineUnsigned + " (signatures missing or not parsable)",
			want: Status{Name: "a.jar", Verified: FlagFalse},
		},
		{
			name: "warning",
			line: LineWarning,
			want: Status{Name: "a.jar", Warning: FlagTrue},
		},
		{
			name: "no manifest",
			line: LineNoManifest,
			want: Status{Name: "a.jar", NoManifest: FlagTrue},
		},
		{
			name: "unknown cert",
			line: LineUnknownCert,
			want: Status{Name: "a.jar", UnknownCert: FlagTrue},
		},
		{
			name: "no timestamp",
			line: LineNoTimestamp + " Without a timestamp, users may not be able to validate this jar",
			want: Status{Name: "a.jar", NoTimestamp: FlagTrue},
		},
		{
			name: "expire soon",
			line: LineExpireSoon,
			want: Status{Name: "a.jar", ExpireSoon: FlagTrue},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStatus("a.jar")
			r, ok := classify(strings.TrimSpace(tt.line))
			if !ok {
				t.Fatalf("classify(%q) did not match", tt.line)
			}
			*r.field(s) = FlagOf(r.value)
			if diff := cmp.Diff(tt.want, *s); diff != "" {
				t.Errorf("status mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseVerifiedWithDiagnostic(t *testing.T) {
	tests := []struct {
		line string
		want Status
	}{
		{LineWarning, Status{Name: "a.jar", Verified: FlagTrue, Warning: FlagTrue}},
		{LineNoManifest, Status{Name: "a.jar", Verified: FlagTrue, NoManifest: FlagTrue}},
		{LineUnknownCert, Status{Name: "a.jar", Verified: FlagTrue, UnknownCert: FlagTrue}},
		{LineNoTimestamp, Status{Name: "a.jar", Verified: FlagTrue, NoTimestamp: FlagTrue}},
		{LineExpireSoon, Status{Name: "a.jar", Verified: FlagTrue, ExpireSoon: FlagTrue}},
		{LineRerun, Status{Name: "a.jar", Verified: FlagTrue}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			s, err := Parse("a.jar", LineVerified+"\n\n"+tt.line+"\n")
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, *s); diff != "" {
				t.Errorf("status mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseDiagnosticWithoutResult(t *testing.T) {
	_, err := Parse("a.jar", LineWarning+"\n")
	if !verify.IsType(err, verify.ErrTypeParse) {
		t.Fatalf("Parse() error = %v, want ParseError", err)
	}
	if !strings.Contains(err.Error(), "no verification result") {
		t.Errorf("error %q does not mention the missing result", err.Error())
	}
}

func TestParseVerified(t *testing.T) {
	s, err := Parse("lib/a.jar", "jar verified.\n")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	want := Status{Name: "lib/a.jar", Verified: FlagTrue}
	if diff := cmp.Diff(want, *s); diff != "" {
		t.Errorf("status mismatch (-want +got):\n%s", diff)
	}
	if got := s.String(); got != "lib/a.jar Signed" {
		t.Errorf("String() = %q, want %q", got, "lib/a.jar Signed")
	}
}

func TestParseUnsigned(t *testing.T) {
	s, err := Parse("lib/b.jar", "jar is unsigned.\n")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if s.Verified != FlagFalse {
		t.Errorf("Verified = %v, want false", s.Verified)
	}
	if got := s.String(); got != "lib/b.jar Unsigned" {
		t.Errorf("String() = %q, want %q", got, "lib/b.jar Unsigned")
	}
}

func TestParseFullOutput(t *testing.T) {
	out := `
jar verified.

Warning:
This jar contains entries whose certificate chain is not validated.
This jar contains signatures that does not include a timestamp. Without a timestamp, users may not be able to validate this jar after the signer certificate's expiration date (2027-01-01) or after any future revocation date.

Re-run with the -verbose and -certs options for more details.
`
	s, err := Parse("c.jar", out)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	want := Status{
		Name:        "c.jar",
		Verified:    FlagTrue,
		Warning:     FlagTrue,
		UnknownCert: FlagTrue,
		NoTimestamp: FlagTrue,
	}
	if diff := cmp.Diff(want, *s); diff != "" {
		t.Errorf("status mismatch (-want +got):\n%s", diff)
	}
	if got, want := s.String(), "c.jar Signed warning unknown-cert no-timestamp"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestParseCRLFAndIndentation(t *testing.T) {
	s, err := Parse("d.jar", "  no manifest.\r\n\r\n\tjar is unsigned.\r\n")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if s.Verified != FlagFalse || s.NoManifest != FlagTrue {
		t.Errorf("Parse() = %+v", s)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		out      string
		contains []string
	}{
		{
			name:     "unrecognized line",
			out:      "jar verified.\nSomething new from a future JDK.\n",
			contains: []string{"e.jar", "Something new from a future JDK."},
		},
		{
			name:     "duplicate verified",
			out:      "jar verified.\njar verified.\n",
			contains: []string{"e.jar", "duplicate"},
		},
		{
			name:     "verified then unsigned",
			out:      "jar verified.\njar is unsigned.\n",
			contains: []string{"e.jar", "duplicate verified"},
		},
		{
			name:     "duplicate warning",
			out:      "jar verified.\nWarning:\nWarning:\n",
			contains: []string{"duplicate warning"},
		},
		{
			name:     "duplicate expire soon",
			out:      LineExpireSoon + "\njar verified.\n" + LineExpireSoon + "\n",
			contains: []string{"duplicate expire-soon"},
		},
		{
			name:     "no verification result",
			out:      "Warning:\nno manifest.\n",
			contains: []string{"e.jar", "no verification result"},
		},
		{
			name:     "blank only",
			out:      "\n \n",
			contains: []string{"no verification result"},
		},
		{
			name:     "exact match is not a prefix match",
			out:      "jar verified. really\n",
			contains: []string{"jar verified. really"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Parse("e.jar", tt.out)
			if err == nil {
				t.Fatalf("Parse() = %v, want error", s)
			}
			if !verify.IsType(err, verify.ErrTypeParse) {
				t.Errorf("Parse() error type = %T %v, want ParseError", err, err)
			}
			for _, c := range tt.contains {
				if !strings.Contains(err.Error(), c) {
					t.Errorf("error %q does not contain %q", err.Error(), c)
				}
			}
		})
	}
}
