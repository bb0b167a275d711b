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

// Package audit drives an audit run: it validates the directories, runs the
// verifier on every archive, streams per-archive lines and prints the
// summary.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/sigstore/jar-audit/pkg/config"
	"github.com/sigstore/jar-audit/pkg/jarsigner"
	"github.com/sigstore/jar-audit/pkg/logging"
	"github.com/sigstore/jar-audit/pkg/tracing"
	"github.com/sigstore/jar-audit/pkg/verify"
)

// Options configures an Auditor.
type Options struct {
	// Invoker runs the verifier. Required.
	Invoker jarsigner.Invoker
	// Extension selects archives. Defaults to config.DefaultExtension.
	Extension string
	// Jobs bounds concurrent verifier runs. Values below 1 mean 1.
	Jobs int
	// Verbose prints one line per archive before the summary.
	Verbose bool
	// Format is config.FormatText or config.FormatJSON.
	Format string
	// Out receives the report. Defaults to os.Stdout.
	Out io.Writer
	// Logger receives diagnostics.
	Logger logging.Logger
}

// Report is the outcome of a successful run.
type Report struct {
	Statuses []*jarsigner.Status
	Summary  jarsigner.Summary
}

// Auditor runs audits.
type Auditor struct {
	invoker   jarsigner.Invoker
	extension string
	jobs      int
	verbose   bool
	format    string
	out       io.Writer
	logger    logging.Logger
}

// NewAuditor creates an Auditor from opts.
func NewAuditor(opts Options) (*Auditor, error) {
	if opts.Invoker == nil {
		return nil, verify.NewError(verify.ErrTypeConfiguration, "audit requires a verifier invoker", nil)
	}
	a := &Auditor{
		invoker:   opts.Invoker,
		extension: opts.Extension,
		jobs:      opts.Jobs,
		verbose:   opts.Verbose,
		format:    opts.Format,
		out:       opts.Out,
		logger:    logging.EnsureLogger(opts.Logger),
	}
	if a.extension == "" {
		a.extension = config.DefaultExtension
	}
	if a.jobs < 1 {
		a.jobs = 1
	}
	if a.format == "" {
		a.format = config.FormatText
	}
	if a.format != config.FormatText && a.format != config.FormatJSON {
		return nil, verify.Errorf(verify.ErrTypeConfiguration, "", "unknown report format %q", a.format)
	}
	if a.out == nil {
		a.out = os.Stdout
	}
	return a, nil
}

// Run audits every archive in dirs and writes the report.
//
// All directories are validated before the verifier runs. The first error
// aborts the run and no summary is written.
func (a *Auditor) Run(ctx context.Context, dirs []string) (*Report, error) {
	if len(dirs) == 0 {
		return nil, verify.NewError(verify.ErrTypeUsage, "no directories given", nil)
	}

	var report *Report
	attrs := map[string]interface{}{
		"jar_audit.dirs":      dirs,
		"jar_audit.extension": a.extension,
		"jar_audit.jobs":      a.jobs,
	}
	err := tracing.RunSpan(ctx, "Audit", attrs, func(ctx context.Context, span tracing.Span) error {
		var archives []string
		err := tracing.Run(ctx, "ScanDirectories", map[string]interface{}{"jar_audit.dirs": dirs}, func(context.Context) error {
			var err error
			archives, err = Scan(dirs, a.extension)
			return err
		})
		if err != nil {
			return err
		}
		a.logger.Debug("Found %d archives in %d directories", len(archives), len(dirs))

		statuses, err := a.verifyAll(ctx, archives)
		if err != nil {
			return err
		}

		report = &Report{Statuses: statuses, Summary: jarsigner.Summarize(statuses)}
		span.SetAttribute("jar_audit.total", report.Summary.Total)
		span.SetAttribute("jar_audit.signed", report.Summary.Signed)
		return a.writeReport(report)
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// VerifyArchive runs the verifier on one archive and classifies its output.
func (a *Auditor) VerifyArchive(ctx context.Context, path string) (*jarsigner.Status, error) {
	var status *jarsigner.Status
	attrs := map[string]interface{}{"jar_audit.archive": path}
	err := tracing.RunSpan(ctx, "VerifyArchive", attrs, func(ctx context.Context, span tracing.Span) error {
		res, err := a.invoker.Invoke(ctx, path)
		if err != nil {
			return err
		}
		status, err = jarsigner.Parse(path, res.Stdout)
		if err != nil {
			return err
		}
		span.SetAttribute("jar_audit.signed", status.Verified.True())
		return nil
	})
	if err != nil {
		return nil, err
	}
	a.logger.WithField("archive", path).Debug("Classified as %q", status.String())
	return status, nil
}

// verifyAll verifies archives with up to a.jobs concurrent verifier runs.
// Verbose lines are written in archive order as soon as an archive and all
// archives before it are done.
func (a *Auditor) verifyAll(ctx context.Context, archives []string) ([]*jarsigner.Status, error) {
	statuses := make([]*jarsigner.Status, len(archives))

	if a.jobs == 1 {
		for i, path := range archives {
			st, err := a.VerifyArchive(ctx, path)
			if err != nil {
				return nil, err
			}
			statuses[i] = st
			if err := a.emit(st); err != nil {
				return nil, err
			}
		}
		return statuses, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.jobs)
	done := make([]chan struct{}, len(archives))
	for i := range done {
		done[i] = make(chan struct{})
	}

	go func() {
		for i, path := range archives {
			g.Go(func() error {
				defer close(done[i])
				if err := gctx.Err(); err != nil {
					return err
				}
				st, err := a.VerifyArchive(gctx, path)
				if err != nil {
					return err
				}
				statuses[i] = st
				return nil
			})
		}
	}()

	// Every done channel is closed exactly once, so waiting on all of them
	// guarantees the launcher has finished calling g.Go before g.Wait.
	var emitErr error
	stopped := false
	for i := range archives {
		<-done[i]
		if stopped || statuses[i] == nil {
			stopped = true
			continue
		}
		if err := a.emit(statuses[i]); err != nil {
			emitErr = err
			stopped = true
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if emitErr != nil {
		return nil, emitErr
	}
	return statuses, nil
}

// emit writes the verbose line for st.
func (a *Auditor) emit(st *jarsigner.Status) error {
	if !a.verbose || a.format != config.FormatText {
		return nil
	}
	if _, err := fmt.Fprintln(a.out, st.String()); err != nil {
		return verify.NewError(verify.ErrTypeIO, "writing report", err)
	}
	return nil
}

// document is the JSON report.
type document struct {
	Archives []jarsigner.Record `json:"archives"`
	Summary  jarsigner.Summary  `json:"summary"`
	Line     string             `json:"line"`
}

func (a *Auditor) writeReport(r *Report) error {
	var err error
	switch a.format {
	case config.FormatJSON:
		doc := document{
			Archives: make([]jarsigner.Record, 0, len(r.Statuses)),
			Summary:  r.Summary,
			Line:     r.Summary.String(),
		}
		for _, s := range r.Statuses {
			doc.Archives = append(doc.Archives, s.Record())
		}
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		err = enc.Encode(doc)
	default:
		_, err = fmt.Fprintln(a.out, r.Summary.String())
	}
	if err != nil {
		return verify.NewError(verify.ErrTypeIO, "writing report", err)
	}
	return nil
}
