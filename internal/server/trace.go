package server

//
// trace.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
	"github.com/samber/do/v2"
	"gitlab.com/kabes/softupkaran/internal/aerr"
	"gitlab.com/kabes/softupkaran/internal/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "gitlab.com/kabes/softupkaran/internal/server"

// Tracer create spans for http requests and export them over OTLP/HTTP.
type Tracer struct {
	provider   *sdktrace.TracerProvider
	tracer     trace.Tracer
	propagator propagation.TextMapPropagator
}

func newTracerI(i do.Injector) (*Tracer, error) {
	cfg := do.MustInvoke[*config.ServerConf](i)

	return NewTracer(context.Background(), cfg.TracingEndpoint)
}

// NewTracer create tracer exporting spans to `endpoint` (url of OTLP/HTTP collector).
func NewTracer(ctx context.Context, endpoint string) (*Tracer, error) {
	if endpoint == "" {
		return nil, aerr.ErrInvalidConf.WithUserMsg("tracing endpoint can't be empty")
	}

	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(endpoint))
	if err != nil {
		return nil, aerr.ApplyFor(aerr.ErrInvalidConf, err, "create otlp exporter failed")
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", config.ServiceName),
			attribute.String("service.version", config.Version),
		)),
	)

	log.Logger.Info().Str("endpoint", endpoint).Msg("Tracer: otlp exporter configured")

	return newTracerWithProvider(provider), nil
}

func newTracerWithProvider(provider *sdktrace.TracerProvider) *Tracer {
	propagator := propagation.TraceContext{}

	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagator)

	return &Tracer{
		provider:   provider,
		tracer:     provider.Tracer(tracerName),
		propagator: propagator,
	}
}

// Middleware start server span for each request, continuing trace from `traceparent` header.
func (t *Tracer) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if shouldSkipLogRequest(r) {
			next.ServeHTTP(w, r)

			return
		}

		ctx := t.propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))
		ctx, span := t.tracer.Start(ctx, r.Method+" "+r.URL.Path,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.request.method", r.Method),
				attribute.String("url.path", r.URL.Path),
			))
		defer span.End()

		if id, ok := hlog.IDFromCtx(ctx); ok {
			span.SetAttributes(attribute.String("req_id", id.String()))
		}

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		span.SetAttributes(attribute.Int("http.response.status_code", status))

		if status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}

		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				span.SetName(r.Method + " " + pattern)
				span.SetAttributes(attribute.String("http.route", pattern))
			}
		}
	})
}

func (t *Tracer) Shutdown(ctx context.Context) error {
	if err := t.provider.Shutdown(ctx); err != nil {
		return aerr.Wrapf(err, "shutdown tracer provider failed")
	}

	return nil
}
