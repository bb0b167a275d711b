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

	"github.com/sigstore/jar-audit/pkg/verify"
)

// Diagnostic lines printed by "jarsigner -verify".
const (
	LineVerified    = "jar verified."
	LineUnsigned    = "jar is unsigned."
	LineWarning     = "Warning:"
	LineNoManifest  = "no manifest."
	LineUnknownCert = "This jar contains entries whose certificate chain is not validated."
	LineNoTimestamp = "This jar contains signatures that does not include a timestamp."
	LineExpireSoon  = "This jar contains entries whose signer certificate will expire within six months."
	LineRerun       = "Re-run with the -verbose and -certs options for more details."
)

// rule classifies one diagnostic line. field is nil for lines that are
// recognized but carry no status.
type rule struct {
	text   string
	prefix bool
	field  func(*Status) *Flag
	value  bool
	label  string
}

func (r rule) matches(line string) bool {
	if r.prefix {
		return strings.HasPrefix(line, r.text)
	}
	return line == r.text
}

// rules is the complete set of lines the verifier is allowed to print.
var rules = []rule{
	{text: LineVerified, field: func(s *Status) *Flag { return &s.Verified }, value: true, label: "verified"},
	{text: LineUnsigned, prefix: true, field: func(s *Status) *Flag { return &s.Verified }, value: false, label: "verified"},
	{text: LineWarning, field: func(s *Status) *Flag { return &s.Warning }, value: true, label: "warning"},
	{text: LineNoManifest, field: func(s *Status) *Flag { return &s.NoManifest }, value: true, label: "no-manifest"},
	{text: LineUnknownCert, prefix: true, field: func(s *Status) *Flag { return &s.UnknownCert }, value: true, label: "unknown-cert"},
	{text: LineNoTimestamp, prefix: true, field: func(s *Status) *Flag { return &s.NoTimestamp }, value: true, label: "no-timestamp"},
	{text: LineExpireSoon, prefix: true, field: func(s *Status) *Flag { return &s.ExpireSoon }, value: true, label: "expire-soon"},
	{text: LineRerun, prefix: true},
}

// Parse classifies the standard output of "jarsigner -verify" for the
// archive called name.
//
// Every non-blank line must match a known diagnostic and each diagnostic may
// determine its field only once. Unknown lines, repeated diagnostics and
// output that never states whether the archive is signed are reported as
// ErrTypeParse errors; nothing is silently skipped.
func Parse(name, out string) (*Status, error) {
	s := NewStatus(name)
	lines := strings.Split(out, "\n")

	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		r, ok := classify(line)
		if !ok {
			return nil, verify.Errorf(verify.ErrTypeParse, name, "Unexpected output: for %s %q in %q", name, line, lines)
		}
		if r.field == nil {
			continue
		}

		f := r.field(s)
		if f.IsSet() {
			return nil, verify.Errorf(verify.ErrTypeParse, name, "Unexpected output: for %s duplicate %s diagnostic %q in %q", name, r.label, line, lines)
		}
		*f = FlagOf(r.value)
	}

	if !s.Verified.IsSet() {
		return nil, verify.Errorf(verify.ErrTypeParse, name, "Unexpected output: for %s no verification result in %q", name, lines)
	}
	return s, nil
}

func classify(line string) (rule, bool) {
	for _, r := range rules {
		if r.matches(line) {
			return r, true
		}
	}
	return rule{}, false
}
