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

package options

import (
	"github.com/spf13/cobra"
)

// InfoOptions holds flags that print information about the tool instead of
// running an audit. They are flags rather than subcommands so that every
// positional argument is a directory.
type InfoOptions struct {
	Version     bool // --version
	VersionJSON bool // --version-json
	FigSpec     bool // --generate-fig-spec
}

var _ FlagAdder = (*InfoOptions)(nil)

// AddFlags adds the informational flags to cmd.
func (o *InfoOptions) AddFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&o.Version, "version", false, "Print the version and exit.")
	cmd.Flags().BoolVar(&o.VersionJSON, "version-json", false, "Print the version as JSON and exit.")
	cmd.Flags().BoolVar(&o.FigSpec, "generate-fig-spec", false, "Print a Fig autocomplete spec and exit.")
	_ = cmd.Flags().MarkHidden("generate-fig-spec")
}

// Requested reports whether any informational flag is set.
func (o *InfoOptions) Requested() bool {
	return o.Version || o.VersionJSON || o.FigSpec
}
