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

package main

import (
	"context"
	"errors"
	"log"
	"os"

	"github.com/sigstore/jar-audit/cmd/jar-audit/cli"
	"github.com/sigstore/jar-audit/pkg/tracing"
	"github.com/sigstore/jar-audit/pkg/verify"
)

type ExitCoder interface {
	error
	ExitCode() int
}

func main() {
	log.SetFlags(0)

	if err := tracing.InitFromEnv(); err != nil {
		log.Printf("warning: tracing disabled: %v", err)
	}

	root := cli.New()
	root.SetArgs(cli.RewriteLegacyFlags(root, os.Args[1:], func(old, replacement string) {
		log.Printf("warning: the %s flag is deprecated and will be removed in a future release. Please use %s instead.",
			old, replacement)
	}))

	err := root.ExecuteContext(context.Background())
	_ = tracing.Shutdown(context.Background())
	if err == nil {
		return
	}

	log.Printf("ERROR: %v", err)
	var ec ExitCoder
	if errors.As(err, &ec) {
		os.Exit(ec.ExitCode())
	}
	os.Exit(verify.ExitUsage)
}
