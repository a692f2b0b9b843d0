// Package observability turns pipeline observations into OpenTelemetry spans
// and metrics.
package observability

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.27.0"
	"go.opentelemetry.io/otel/trace"

	"rein-coach/internal/common/config"
	apperrors "rein-coach/internal/common/errors"
	"rein-coach/internal/common/logger"
	"rein-coach/internal/pipeline"
)

const (
	tracerName = "rein-coach/pipeline"

	// maxAttrLen bounds the JSON stored for inputs and outputs on a span.
	maxAttrLen = 4096
)

// InitTracing installs a global tracer provider. The exporter is OTLP/HTTP
// when an endpoint is set, stdout when requested, and absent otherwise.
func InitTracing(ctx context.Context, cfg *config.Config, log logger.Logger) (*sdktrace.TracerProvider, error) {
	obsCfg := cfg.Observability

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(obsCfg.ServiceName),
			semconv.ServiceVersionKey.String(cfg.App.Version),
			attribute.String("deployment.environment", cfg.App.Environment),
		),
	)
	if err != nil {
		log.Warn("otel resource init failed (continuing)", map[string]interface{}{"error": err})
	}

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(obsCfg.SampleRatio))),
		sdktrace.WithResource(res),
	}

	exporter, err := buildTraceExporter(ctx, obsCfg)
	if err != nil {
		return nil, apperrors.NewConfigurationError("trace exporter: " + err.Error())
	}
	if exporter != nil {
		opts = append(opts, sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(5*time.Second)))
	}

	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	log.Info("otel tracing initialized", map[string]interface{}{
		"service":  obsCfg.ServiceName,
		"endpoint": obsCfg.OTLPEndpoint,
		"stdout":   obsCfg.Stdout,
	})
	return tp, nil
}

func buildTraceExporter(ctx context.Context, cfg config.ObservabilityConfig) (sdktrace.SpanExporter, error) {
	if endpoint := strings.TrimSpace(cfg.OTLPEndpoint); endpoint != "" {
		opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(endpoint)}
		if cfg.OTLPInsecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		return otlptracehttp.New(ctx, opts...)
	}
	if cfg.Stdout {
		return stdouttrace.New(stdouttrace.WithPrettyPrint())
	}
	return nil, nil
}

// SpanObserver records each pipeline operation as a span. Spans are created
// after the fact with the operation's own start and end times.
type SpanObserver struct {
	tracer trace.Tracer
}

// NewSpanObserver uses tp, or the global provider when tp is nil.
func NewSpanObserver(tp trace.TracerProvider) *SpanObserver {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return &SpanObserver{tracer: tp.Tracer(tracerName)}
}

func (s *SpanObserver) Observe(ctx context.Context, obs pipeline.Observation) {
	_, span := s.tracer.Start(ctx, obs.Name,
		trace.WithTimestamp(obs.Started),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("pipeline.run_id", obs.RunID),
			attribute.String("pipeline.operation", obs.Name),
			attribute.String("pipeline.inputs", jsonAttr(obs.Inputs)),
		),
	)

	if obs.Err != nil {
		span.RecordError(obs.Err)
		span.SetStatus(codes.Error, obs.Err.Error())
		span.SetAttributes(
			attribute.String("error.code", string(apperrors.CodeOf(obs.Err))),
			attribute.String("error.stage", apperrors.StageOf(obs.Err)),
		)
	} else {
		span.SetAttributes(attribute.String("pipeline.outputs", jsonAttr(obs.Outputs)))
		span.SetStatus(codes.Ok, "")
	}

	span.End(trace.WithTimestamp(obs.Started.Add(obs.Duration)))
}

func jsonAttr(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "<unserializable>"
	}
	return logger.Truncate(string(b), maxAttrLen)
}
