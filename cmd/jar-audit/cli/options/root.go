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

// Package options defines the command-line flag groups of the jar-audit CLI.
package options

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/sigstore/jar-audit/pkg/config"
	"github.com/sigstore/jar-audit/pkg/jarsigner"
)

// FlagAdder is implemented by any flag group that can register itself to a cobra command.
type FlagAdder interface {
	AddFlags(cmd *cobra.Command)
}

// RootOptions defines flags available to every command.
type RootOptions struct {
	// OutputFile redirects the report to a file instead of stdout.
	OutputFile string
	// LogLevel sets the minimum log level (debug, info, warn, error, silent).
	LogLevel string
	// LogFormat sets the log output format (text, json).
	LogFormat string
	// Timeout bounds each verifier invocation.
	Timeout time.Duration
}

var _ FlagAdder = (*RootOptions)(nil)

var reportExts = []string{"txt", "json", "log"}

// AddFlags adds the persistent root flags to cmd.
func (o *RootOptions) AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&o.OutputFile, "output-file", "",
		"write the report to a file instead of stdout")
	_ = cmd.MarkPersistentFlagFilename("output-file", reportExts...)

	cmd.PersistentFlags().StringVar(&o.LogLevel, "log-level", "warn",
		"set the minimum log level (debug, info, warn, error, silent)")

	cmd.PersistentFlags().StringVar(&o.LogFormat, "log-format", "text",
		"set the log output format (text, json)")

	cmd.PersistentFlags().DurationVarP(&o.Timeout, "timeout", "t", jarsigner.DefaultTimeout,
		"timeout for each verifier run (0 disables it)")
}

// ApplyTo copies the root flags the user set explicitly onto cfg.
func (o *RootOptions) ApplyTo(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = o.LogLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = o.LogFormat
	}
	if flags.Changed("timeout") {
		cfg.Timeout = o.Timeout
	}
}
