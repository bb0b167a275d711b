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

// Package tracing wraps audit runs and individual verifier invocations in
// spans. The default build uses a no-op tracer; building with -tags=otel
// exports spans over OTLP HTTP, configured from the standard OTEL_*
// environment variables.
package tracing

import (
	"context"
	"sync"
)

// Span represents a single timed operation in a trace.
type Span interface {
	// SetAttribute sets a key-value attribute on the span.
	SetAttribute(key string, value interface{})
	// End marks the span as finished.
	End()
}

// Tracer creates spans for named operations.
type Tracer interface {
	// Start starts a new span. The returned context carries the span and
	// should be passed to child operations.
	Start(ctx context.Context, name string) (context.Context, Span)
}

var (
	mu           sync.RWMutex
	globalTracer Tracer = NoopTracer{}
)

// SetTracer sets the global tracer. nil restores the no-op tracer.
func SetTracer(t Tracer) {
	mu.Lock()
	defer mu.Unlock()
	if t == nil {
		globalTracer = NoopTracer{}
		return
	}
	globalTracer = t
}

// GetTracer returns the current global tracer (never nil).
func GetTracer() Tracer {
	mu.RLock()
	defer mu.RUnlock()
	return globalTracer
}

// Enabled returns true when a real (non-noop) tracer is configured.
func Enabled() bool {
	_, noop := GetTracer().(NoopTracer)
	return !noop
}

// Run runs fn inside a span named name carrying attrs.
func Run(ctx context.Context, name string, attrs map[string]interface{}, fn func(context.Context) error) error {
	return RunSpan(ctx, name, attrs, func(ctx context.Context, _ Span) error {
		return fn(ctx)
	})
}

// RunSpan is like Run but hands the span to fn so results can be recorded
// as attributes. An error returned by fn is recorded under "error".
// Without a real tracer fn receives a NoopSpan.
func RunSpan(ctx context.Context, name string, attrs map[string]interface{}, fn func(context.Context, Span) error) error {
	if !Enabled() {
		return fn(ctx, NoopSpan{})
	}
	ctx, span := GetTracer().Start(ctx, name)
	defer span.End()
	for k, v := range attrs {
		span.SetAttribute(k, v)
	}
	err := fn(ctx, span)
	if err != nil {
		span.SetAttribute("error", err.Error())
	}
	return err
}
