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
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sampleStatuses() []*Status {
	return []*Status{
		{Name: "a.jar", Verified: FlagTrue},
		{Name: "b.jar", Verified: FlagTrue},
		{Name: "c.jar", Verified: FlagFalse},
		{Name: "d.jar", Verified: FlagTrue, Warning: FlagTrue},
		{Name: "e.jar", Verified: FlagTrue, UnknownCert: FlagTrue},
	}
}

func TestSummarize(t *testing.T) {
	got := Summarize(sampleStatuses())
	want := Summary{Total: 5, Signed: 4, Warning: 1, UnknownCert: 1}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Summarize() mismatch (-want +got):\n%s", diff)
	}
	if s := got.String(); s != "4/5 signed 1 warn 1 unknown-cert 0 not-timestamped 0 no-manifest 0 expire-soon" {
		t.Errorf("String() = %q", s)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	if s := Summarize(nil).String(); s != "0/0 signed 0 warn 0 unknown-cert 0 not-timestamped 0 no-manifest 0 expire-soon" {
		t.Errorf("String() = %q", s)
	}
}

func TestSummarizeAllFlags(t *testing.T) {
	statuses := []*Status{
		{Name: "x.jar", Verified: FlagTrue, Warning: FlagTrue, UnknownCert: FlagTrue,
			NoTimestamp: FlagTrue, NoManifest: FlagTrue, ExpireSoon: FlagTrue},
		{Name: "y.jar", Verified: FlagFalse, NoManifest: FlagTrue},
		{Name: "z.jar", Verified: FlagTrue, Warning: FlagFalse, ExpireSoon: FlagTrue},
	}
	if s := Summarize(statuses).String(); s != "2/3 signed 1 warn 1 unknown-cert 1 not-timestamped 2 no-manifest 2 expire-soon" {
		t.Errorf("String() = %q", s)
	}
}

// TestSummarizeOrderIndependent checks every rotation and the reversal of
// the sample produce the same summary.
func TestSummarizeOrderIndependent(t *testing.T) {
	base := sampleStatuses()
	want := Summarize(base).String()

	for shift := range base {
		rotated := append(append([]*Status{}, base[shift:]...), base[:shift]...)
		if got := Summarize(rotated).String(); got != want {
			t.Errorf("rotation %d: Summarize() = %q, want %q", shift, got, want)
		}
	}

	reversed := make([]*Status, len(base))
	for i, s := range base {
		reversed[len(base)-1-i] = s
	}
	if got := Summarize(reversed).String(); got != want {
		t.Errorf("reversed: Summarize() = %q, want %q", got, want)
	}
}

func TestStatusString(t *testing.T) {
	tests := []struct {
		name   string
		status Status
		want   string
	}{
		{"unset verified renders unsigned", Status{Name: "a.jar"}, "a.jar Unsigned"},
		{"false flags are omitted", Status{Name: "a.jar", Verified: FlagTrue, Warning: FlagFalse}, "a.jar Signed"},
		{
			"fixed flag order",
			Status{Name: "a.jar", Verified: FlagFalse, ExpireSoon: FlagTrue, NoManifest: FlagTrue,
				NoTimestamp: FlagTrue, UnknownCert: FlagTrue, Warning: FlagTrue},
			"a.jar Unsigned warning unknown-cert no-timestamp no-manifest expire-soon",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.status.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStatusRecord(t *testing.T) {
	s := Status{Name: "a.jar", Verified: FlagTrue, NoTimestamp: FlagTrue, Warning: FlagFalse}
	want := Record{Name: "a.jar", Signed: true, NoTimestamp: true}
	if diff := cmp.Diff(want, s.Record()); diff != "" {
		t.Errorf("Record() mismatch (-want +got):\n%s", diff)
	}
}

func TestFlag(t *testing.T) {
	if FlagUnset.IsSet() || FlagUnset.True() {
		t.Error("FlagUnset should be neither set nor true")
	}
	if !FlagFalse.IsSet() || FlagFalse.True() {
		t.Error("FlagFalse should be set and not true")
	}
	if FlagOf(true) != FlagTrue || FlagOf(false) != FlagFalse {
		t.Error("FlagOf() mismatch")
	}
	if FlagUnset.String() != "unset" || FlagTrue.String() != "true" || FlagFalse.String() != "false" {
		t.Error("String() mismatch")
	}
}
