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

package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/sigstore/jar-audit/cmd/jar-audit/cli/options"
	"github.com/sigstore/jar-audit/pkg/audit"
	"github.com/sigstore/jar-audit/pkg/config"
	"github.com/sigstore/jar-audit/pkg/jarsigner"
)

// resolveConfig merges defaults, the config file, JAR_AUDIT_* variables and
// explicitly set flags, in that order.
func resolveConfig(cmd *cobra.Command, o *options.AuditOptions) (config.Config, error) {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return cfg, err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	ro.ApplyTo(cmd, &cfg)
	o.ApplyTo(cmd, &cfg)
	return cfg, cfg.Validate()
}

func runAudit(cmd *cobra.Command, o *options.AuditOptions, dirs []string) error {
	cfg, err := resolveConfig(cmd, o)
	if err != nil {
		return err
	}
	logger := options.NewObservability(cfg).Logger
	logger.WithFields(map[string]interface{}{
		"verifier": cfg.Verifier,
		"jobs":     cfg.Jobs,
		"format":   cfg.Format,
	}).Debug("Auditing %d directories", len(dirs))

	auditor, err := audit.NewAuditor(audit.Options{
		Invoker: jarsigner.NewExecInvoker(jarsigner.ExecInvokerOptions{
			Verifier: cfg.Verifier,
			Timeout:  cfg.Timeout,
			Logger:   logger,
		}),
		Extension: cfg.Extension,
		Jobs:      cfg.Jobs,
		Verbose:   o.Verbose,
		Format:    cfg.Format,
		Out:       cmd.OutOrStdout(),
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	_, err = auditor.Run(ctx, dirs)
	return err
}
