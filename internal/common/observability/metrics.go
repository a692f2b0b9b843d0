package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"

	apperrors "rein-coach/internal/common/errors"
	"rein-coach/internal/pipeline"
)

// Observability records pipeline operation metrics through an OpenTelemetry
// meter exported in Prometheus format. It is also a pipeline.Observer.
type Observability struct {
	meterProvider     *metric.MeterProvider
	meter             otelmetric.Meter
	operationCounter  otelmetric.Int64Counter
	operationDuration otelmetric.Float64Histogram
}

// New registers the exporter with reg, or the default registerer when reg is nil.
func New(serviceName string, reg prometheus.Registerer) (*Observability, error) {
	var opts []otelprom.Option
	if reg != nil {
		opts = append(opts, otelprom.WithRegisterer(reg))
	}
	exporter, err := otelprom.New(opts...)
	if err != nil {
		return nil, apperrors.Errorf("failed to create Prometheus exporter: %v", err)
	}

	o, err := newWithReader(serviceName, exporter)
	if err != nil {
		return nil, err
	}
	otel.SetMeterProvider(o.meterProvider)
	return o, nil
}

func newWithReader(serviceName string, reader metric.Reader) (*Observability, error) {
	provider := metric.NewMeterProvider(metric.WithReader(reader))
	meter := provider.Meter(serviceName)

	operationCounter, err := meter.Int64Counter(
		"pipeline.operations",
		otelmetric.WithDescription("Number of pipeline operations by name and outcome"),
	)
	if err != nil {
		return nil, apperrors.Errorf("create counter: %v", err)
	}

	operationDuration, err := meter.Float64Histogram(
		"pipeline.operation.duration",
		otelmetric.WithDescription("Pipeline operation duration"),
		otelmetric.WithUnit("ms"),
	)
	if err != nil {
		return nil, apperrors.Errorf("create histogram: %v", err)
	}

	return &Observability{
		meterProvider:     provider,
		meter:             meter,
		operationCounter:  operationCounter,
		operationDuration: operationDuration,
	}, nil
}

// Observe counts the operation and records its duration. Failed operations
// are labelled with their error code.
func (o *Observability) Observe(ctx context.Context, obs pipeline.Observation) {
	status := "success"
	if obs.Err != nil {
		status = string(apperrors.CodeOf(obs.Err))
	}
	attrs := otelmetric.WithAttributes(
		attribute.String("operation", obs.Name),
		attribute.String("status", status),
	)

	o.operationCounter.Add(ctx, 1, attrs)
	o.operationDuration.Record(ctx, float64(obs.Duration.Microseconds())/1000, attrs)
}

func (o *Observability) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return o.meterProvider.Shutdown(ctx)
}
