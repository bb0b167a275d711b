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

import "strings"

// Flag is a tri-state boolean. The zero value is FlagUnset.
type Flag int8

const (
	// FlagUnset means no diagnostic determined the value.
	FlagUnset Flag = iota
	// FlagFalse is an explicit false.
	FlagFalse
	// FlagTrue is an explicit true.
	FlagTrue
)

// FlagOf converts a bool into a determined Flag.
func FlagOf(b bool) Flag {
	if b {
		return FlagTrue
	}
	return FlagFalse
}

// IsSet reports whether the flag has been determined.
func (f Flag) IsSet() bool {
	return f != FlagUnset
}

// True reports whether the flag is set and true. Unset reads as false.
func (f Flag) True() bool {
	return f == FlagTrue
}

// String returns "unset", "false" or "true".
func (f Flag) String() string {
	switch f {
	case FlagTrue:
		return "true"
	case FlagFalse:
		return "false"
	default:
		return "unset"
	}
}

// Status is the classified verifier result for one archive.
//
// A Status is filled in by Parse and is read-only afterwards.
type Status struct {
	// Name identifies the examined archive.
	Name string

	// Verified tells whether the archive signature validated.
	Verified Flag
	// Warning is set when the verifier printed a generic warning header.
	Warning Flag
	// UnknownCert is set when entries have an unvalidated certificate chain.
	UnknownCert Flag
	// NoTimestamp is set when signatures lack a trusted timestamp.
	NoTimestamp Flag
	// NoManifest is set when the archive has no manifest.
	NoManifest Flag
	// ExpireSoon is set when a signer certificate expires within six months.
	ExpireSoon Flag
}

// NewStatus returns an empty Status for the named archive.
func NewStatus(name string) *Status {
	return &Status{Name: name}
}

// String renders the status as
// "<name> <Signed|Unsigned>[ warning][ unknown-cert][ no-timestamp][ no-manifest][ expire-soon]".
func (s *Status) String() string {
	var b strings.Builder
	b.WriteString(s.Name)
	if s.Verified.True() {
		b.WriteString(" Signed")
	} else {
		b.WriteString(" Unsigned")
	}
	for _, l := range s.labels() {
		b.WriteByte(' ')
		b.WriteString(l)
	}
	return b.String()
}

// labels returns the rendered names of the true flags in display order.
func (s *Status) labels() []string {
	var out []string
	if s.Warning.True() {
		out = append(out, "warning")
	}
	if s.UnknownCert.True() {
		out = append(out, "unknown-cert")
	}
	if s.NoTimestamp.True() {
		out = append(out, "no-timestamp")
	}
	if s.NoManifest.True() {
		out = append(out, "no-manifest")
	}
	if s.ExpireSoon.True() {
		out = append(out, "expire-soon")
	}
	return out
}

// Record is the serializable form of a Status. Unset flags read as false.
type Record struct {
	Name        string `json:"name"`
	Signed      bool   `json:"signed"`
	Warning     bool   `json:"warning"`
	UnknownCert bool   `json:"unknownCert"`
	NoTimestamp bool   `json:"noTimestamp"`
	NoManifest  bool   `json:"noManifest"`
	ExpireSoon  bool   `json:"expireSoon"`
}

// Record returns the serializable form of s.
func (s *Status) Record() Record {
	return Record{
		Name:        s.Name,
		Signed:      s.Verified.True(),
		Warning:     s.Warning.True(),
		UnknownCert: s.UnknownCert.True(),
		NoTimestamp: s.NoTimestamp.True(),
		NoManifest:  s.NoManifest.True(),
		ExpireSoon:  s.ExpireSoon.True(),
	}
}
