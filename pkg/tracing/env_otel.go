//go:build otel

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

package tracing

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
	"sigs.k8s.io/release-utils/version"
)

const (
	defaultOTLPEndpoint = "http://localhost:4318"
	defaultServiceName  = "jar-audit"
	instrumentationName = "github.com/sigstore/jar-audit"
)

// otelSettings is what InitFromEnv reads from the environment.
type otelSettings struct {
	disabled    bool
	endpoint    string // empty when the exporter reads its own variables
	insecure    bool
	serviceName string
	verifier    string
}

func settingsFromEnv(getenv func(string) string) otelSettings {
	s := otelSettings{
		disabled:    getenv("OTEL_TRACES_EXPORTER") == "none",
		serviceName: getenv("OTEL_SERVICE_NAME"),
		verifier:    getenv("JAR_AUDIT_VERIFIER"),
	}
	if s.serviceName == "" {
		s.serviceName = defaultServiceName
	}
	if s.verifier == "" {
		s.verifier = "jarsigner"
	}
	if getenv("OTEL_EXPORTER_OTLP_ENDPOINT") == "" && getenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT") == "" {
		s.endpoint = defaultOTLPEndpoint
		s.insecure = true
	}
	return s
}

// resourceAttributes describe the audit process on every exported span.
func (s otelSettings) resourceAttributes() []attribute.KeyValue {
	return []attribute.KeyValue{
		semconv.ServiceName(s.serviceName),
		semconv.ServiceVersion(version.GetVersionInfo().GitVersion),
		attribute.String("jar_audit.verifier", s.verifier),
	}
}

// InitFromEnv installs an OTLP HTTP exporter. OTEL_TRACES_EXPORTER=none
// disables it. Without an endpoint variable spans go to a local collector.
func InitFromEnv() error {
	s := settingsFromEnv(os.Getenv)
	if s.disabled {
		return nil
	}

	var opts []otlptracehttp.Option
	if s.endpoint != "" {
		opts = append(opts, otlptracehttp.WithEndpointURL(s.endpoint))
	}
	if s.insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	exp, err := otlptracehttp.New(context.Background(), opts...)
	if err != nil {
		return fmt.Errorf("creating OTLP exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(resource.NewWithAttributes(semconv.SchemaURL, s.resourceAttributes()...)),
	)
	otelTracerProvider = tp
	otel.SetTracerProvider(tp)
	SetTracer(&otelTracer{tracer: tp.Tracer(instrumentationName)})
	return nil
}

var otelTracerProvider *sdktrace.TracerProvider

// Shutdown flushes batched spans and closes the exporter.
func Shutdown(ctx context.Context) error {
	if otelTracerProvider == nil {
		return nil
	}
	tp := otelTracerProvider
	otelTracerProvider = nil
	return tp.Shutdown(ctx)
}

type otelTracer struct {
	tracer trace.Tracer
}

func (t *otelTracer) Start(ctx context.Context, name string) (context.Context, Span) {
	ctx, span := t.tracer.Start(ctx, name)
	return ctx, &otelSpan{span: span}
}

type otelSpan struct {
	span trace.Span
}

// SetAttribute records value under key. The "error" key set by RunSpan also
// marks the span as failed.
func (s *otelSpan) SetAttribute(key string, value interface{}) {
	kv := toKeyValue(key, value)
	s.span.SetAttributes(kv)
	if key == "error" {
		s.span.SetStatus(codes.Error, kv.Value.Emit())
	}
}

func (s *otelSpan) End() {
	s.span.End()
}

func toKeyValue(key string, value interface{}) attribute.KeyValue {
	k := attribute.Key(key)
	switch v := value.(type) {
	case string:
		return k.String(v)
	case bool:
		return k.Bool(v)
	case int:
		return k.Int(v)
	case int64:
		return k.Int64(v)
	case []string:
		return k.StringSlice(v)
	case time.Duration:
		return k.String(v.String())
	case nil:
		return k.String("")
	default:
		return k.String(fmt.Sprintf("%v", v))
	}
}
