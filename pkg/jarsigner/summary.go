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

import "fmt"

// Summary holds aggregate counts across a set of statuses.
type Summary struct {
	Total       int `json:"total"`
	Signed      int `json:"signed"`
	Warning     int `json:"warning"`
	UnknownCert int `json:"unknownCert"`
	NoTimestamp int `json:"noTimestamp"`
	NoManifest  int `json:"noManifest"`
	ExpireSoon  int `json:"expireSoon"`
}

// Summarize counts the true flags across statuses. Unset flags count as
// false. The result does not depend on the order of statuses.
func Summarize(statuses []*Status) Summary {
	sum := Summary{Total: len(statuses)}
	for _, s := range statuses {
		sum.Signed += count(s.Verified)
		sum.Warning += count(s.Warning)
		sum.UnknownCert += count(s.UnknownCert)
		sum.NoTimestamp += count(s.NoTimestamp)
		sum.NoManifest += count(s.NoManifest)
		sum.ExpireSoon += count(s.ExpireSoon)
	}
	return sum
}

func count(f Flag) int {
	if f.True() {
		return 1
	}
	return 0
}

// String renders the one-line summary, e.g.
// "4/5 signed 1 warn 1 unknown-cert 0 not-timestamped 0 no-manifest 0 expire-soon".
func (s Summary) String() string {
	return fmt.Sprintf("%d/%d signed %d warn %d unknown-cert %d not-timestamped %d no-manifest %d expire-soon",
		s.Signed, s.Total, s.Warning, s.UnknownCert, s.NoTimestamp, s.NoManifest, s.ExpireSoon)
}
