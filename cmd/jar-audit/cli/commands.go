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

// Package cli builds the jar-audit command tree.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	cobracompletefig "github.com/withfig/autocomplete-tools/integrations/cobra"
	"sigs.k8s.io/release-utils/version"

	"github.com/sigstore/jar-audit/cmd/jar-audit/cli/options"
	"github.com/sigstore/jar-audit/pkg/verify"
)

var (
	ro = &options.RootOptions{}
)

// New returns the root jar-audit command.
func New() *cobra.Command {
	ro = &options.RootOptions{}
	o := &options.AuditOptions{}
	info := &options.InfoOptions{}
	var out *os.File

	cmd := &cobra.Command{
		Use:   "jar-audit [-v] DIR [DIR ...]",
		Short: "Audit the signatures of Java archives.",
		Long: `Audit the signatures of Java archives.

Runs "jarsigner -verify" on every archive found directly inside each DIR and
prints a one-line summary of how many are signed and which warnings the
verifier reported. With -v every archive is listed before the summary.

Any unexpected verifier behaviour aborts the audit without a summary.`,
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		SilenceErrors:     true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && !info.Requested() {
				fmt.Fprint(cmd.ErrOrStderr(), cmd.UsageString())
				return verify.NewError(verify.ErrTypeUsage, "at least one directory is required", nil)
			}
			return nil
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if ro.OutputFile != "" {
				var err error
				out, err = os.Create(ro.OutputFile)
				if err != nil {
					return verify.NewErrorWithPath(verify.ErrTypeIO, ro.OutputFile,
						fmt.Sprintf("error creating output file %s", ro.OutputFile), err)
				}
				cmd.SetOut(out)
			}
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if out != nil {
				_ = out.Close()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if info.Requested() {
				return printInfo(cmd, info)
			}
			return runAudit(cmd, o, args)
		},
	}
	// No subcommands: a directory called "version" or "help" must still be
	// audited.
	cmd.CompletionOptions.DisableDefaultCmd = true
	ro.AddFlags(cmd)
	o.AddFlags(cmd)
	info.AddFlags(cmd)

	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		fmt.Fprint(c.ErrOrStderr(), c.UsageString())
		return verify.NewError(verify.ErrTypeUsage, err.Error(), nil)
	})

	return cmd
}

// printInfo writes the version or the Fig completion spec.
func printInfo(cmd *cobra.Command, info *options.InfoOptions) error {
	out := cmd.OutOrStdout()
	if info.FigSpec {
		spec := cobracompletefig.GenerateCompletionSpec(cmd.Root())
		_, err := fmt.Fprintln(out, spec.ToTypescript())
		return err
	}

	v := version.GetVersionInfo()
	v.Name = cmd.Root().Name()
	v.Description = cmd.Root().Short
	if v.CheckFontName("starwars") {
		v.FontName = "starwars"
	}
	if info.VersionJSON {
		s, err := v.JSONString()
		if err != nil {
			return verify.NewError(verify.ErrTypeIO, "unable to generate JSON from version info", err)
		}
		_, err = fmt.Fprintln(out, s)
		return err
	}
	_, err := fmt.Fprintln(out, v.String())
	return err
}

// RewriteLegacyFlags turns single-dash long flags such as -verbose into
// their double-dash form. Only names of long flags known to cmd are touched,
// so short flag groups like -j4 pass through. Arguments after "--" are left
// alone. warn is called once per rewritten argument.
func RewriteLegacyFlags(cmd *cobra.Command, args []string, warn func(old, replacement string)) []string {
	out := make([]string, len(args))
	copy(out, args)
	for i, arg := range out {
		if arg == "--" {
			break
		}
		if len(arg) < 3 || arg[0] != '-' || arg[1] == '-' {
			continue
		}
		name, _, _ := strings.Cut(arg[1:], "=")
		if len(name) < 2 {
			continue
		}
		if cmd.Flags().Lookup(name) == nil && cmd.PersistentFlags().Lookup(name) == nil {
			continue
		}
		out[i] = "-" + arg
		if warn != nil {
			warn(arg, out[i])
		}
	}
	return out
}
