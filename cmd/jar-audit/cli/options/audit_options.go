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

	"github.com/sigstore/jar-audit/pkg/config"
	"github.com/sigstore/jar-audit/pkg/jarsigner"
)

// AuditOptions holds the flags of the audit command.
type AuditOptions struct {
	ConfigPath string // --config
	Verifier   string // --verifier
	Extension  string // --extension
	Jobs       int    // --jobs, -j
	Format     string // --format
	Verbose    bool   // --verbose, -v
}

var _ FlagAdder = (*AuditOptions)(nil)

// AddFlags adds the audit flags to cmd.
func (o *AuditOptions) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.ConfigPath, "config", "", "Path to a YAML config file.")
	_ = cmd.MarkFlagFilename("config", "yaml", "yml")

	cmd.Flags().StringVar(&o.Verifier, "verifier", jarsigner.DefaultVerifier, "Verifier executable, run as <verifier> -verify <archive>.")
	cmd.Flags().StringVar(&o.Extension, "extension", config.DefaultExtension, "File extension of the archives to verify.")
	cmd.Flags().IntVarP(&o.Jobs, "jobs", "j", 1, "Number of verifier processes to run concurrently.")
	cmd.Flags().StringVar(&o.Format, "format", config.FormatText, "Report format (text, json).")
	cmd.Flags().BoolVarP(&o.Verbose, "verbose", "v", false, "Print the status of every archive before the summary.")
}

// ApplyTo copies the audit flags the user set explicitly onto cfg.
func (o *AuditOptions) ApplyTo(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("verifier") {
		cfg.Verifier = o.Verifier
	}
	if flags.Changed("extension") {
		cfg.Extension = o.Extension
	}
	if flags.Changed("jobs") {
		cfg.Jobs = o.Jobs
	}
	if flags.Changed("format") {
		cfg.Format = o.Format
	}
}
