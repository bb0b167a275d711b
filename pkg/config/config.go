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

// Package config holds the settings of an audit run and loads them from
// defaults, an optional YAML file and JAR_AUDIT_* environment variables.
// Command-line flags are applied last by the CLI.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sigstore/jar-audit/pkg/jarsigner"
	"github.com/sigstore/jar-audit/pkg/logging"
	"github.com/sigstore/jar-audit/pkg/utils"
	"github.com/sigstore/jar-audit/pkg/verify"
)

// EnvPrefix is the prefix of environment variables that configure the CLI.
const EnvPrefix = "JAR_AUDIT"

// DefaultExtension selects the archives inside each directory.
const DefaultExtension = ".jar"

// Report formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config holds the settings of an audit run.
type Config struct {
	// Verifier is the verifier executable, looked up in PATH if not absolute.
	Verifier string `yaml:"verifier"`
	// Extension selects the archives to verify, including the leading dot.
	Extension string `yaml:"extension"`
	// Jobs is the number of verifier processes run concurrently.
	Jobs int `yaml:"jobs"`
	// Timeout bounds each verifier invocation; zero disables it.
	Timeout time.Duration `yaml:"timeout"`
	// Format is the report format, text or json.
	Format string `yaml:"format"`
	// LogLevel is one of debug, info, warn, error, silent.
	LogLevel string `yaml:"log_level"`
	// LogFormat is text or json.
	LogFormat string `yaml:"log_format"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Verifier:  jarsigner.DefaultVerifier,
		Extension: DefaultExtension,
		Jobs:      1,
		Timeout:   jarsigner.DefaultTimeout,
		Format:    FormatText,
		LogLevel:  "warn",
		LogFormat: "text",
	}
}

// Load returns the defaults overlaid with the YAML file at path. Unknown
// keys are rejected. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if err := utils.ValidateOptionalFile("config file", path); err != nil {
		return cfg, verify.NewErrorWithPath(verify.ErrTypeConfiguration, path, "invalid config", err)
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, verify.NewErrorWithPath(verify.ErrTypeConfiguration, path, "reading config", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, verify.NewErrorWithPath(verify.ErrTypeConfiguration, path,
			fmt.Sprintf("parsing config %s", path), err)
	}
	return cfg, nil
}

// ApplyEnv overrides settings from JAR_AUDIT_* variables found by lookup,
// usually os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + "_" + name); ok {
			*dst = v
		}
	}
	str("VERIFIER", &c.Verifier)
	str("EXTENSION", &c.Extension)
	str("FORMAT", &c.Format)
	str("LOG_LEVEL", &c.LogLevel)
	str("LOG_FORMAT", &c.LogFormat)

	if v, ok := lookup(EnvPrefix + "_JOBS"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return verify.NewError(verify.ErrTypeConfiguration, "invalid "+EnvPrefix+"_JOBS", err)
		}
		c.Jobs = n
	}
	if v, ok := lookup(EnvPrefix + "_TIMEOUT"); ok {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return verify.NewError(verify.ErrTypeConfiguration, "invalid "+EnvPrefix+"_TIMEOUT", err)
		}
		c.Timeout = d
	}
	return nil
}

// Validate checks the settings for consistency.
func (c Config) Validate() error {
	var problems []string
	if c.Verifier == "" {
		problems = append(problems, "verifier must not be empty")
	}
	if !strings.HasPrefix(c.Extension, ".") || len(c.Extension) < 2 {
		problems = append(problems, fmt.Sprintf("extension %q must start with a dot", c.Extension))
	}
	if c.Jobs < 1 {
		problems = append(problems, fmt.Sprintf("jobs must be at least 1, got %d", c.Jobs))
	}
	if c.Timeout < 0 {
		problems = append(problems, fmt.Sprintf("timeout must not be negative, got %s", c.Timeout))
	}
	if c.Format != FormatText && c.Format != FormatJSON {
		problems = append(problems, fmt.Sprintf("format %q must be text or json", c.Format))
	}
	if !logging.ValidLogLevel(c.LogLevel) {
		problems = append(problems, fmt.Sprintf("log level %q is not one of debug, info, warn, error, silent", c.LogLevel))
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		problems = append(problems, fmt.Sprintf("log format %q must be text or json", c.LogFormat))
	}
	if len(problems) > 0 {
		return verify.NewError(verify.ErrTypeConfiguration, "invalid configuration: "+strings.Join(problems, "; "), nil)
	}
	return nil
}

// NewLogger builds the logger described by the settings.
func (c Config) NewLogger() logging.Logger {
	return logging.New(logging.LoggerOptions{
		Level:  logging.ParseLogLevel(c.LogLevel),
		Format: logging.ParseLogFormat(c.LogFormat),
	})
}
