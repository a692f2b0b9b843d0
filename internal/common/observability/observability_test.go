package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"rein-coach/internal/common/config"
	apperrors "rein-coach/internal/common/errors"
	"rein-coach/internal/common/logger"
	"rein-coach/internal/pipeline"
)

func attrMap(kvs []attribute.KeyValue) map[string]string {
	out := make(map[string]string, len(kvs))
	for _, kv := range kvs {
		out[string(kv.Key)] = kv.Value.Emit()
	}
	return out
}

func TestSpanObserver_Success(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	started := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	NewSpanObserver(tp).Observe(context.Background(), pipeline.Observation{
		Name:     pipeline.OperationPreprocess,
		RunID:    "run-1",
		Inputs:   map[string]interface{}{"user_input": "Run a 5K"},
		Outputs:  map[string]interface{}{"result": map[string]string{"clarified_goal": "Run 5K by March"}},
		Started:  started,
		Duration: 1500 * time.Millisecond,
	})

	spans := sr.Ended()
	require.Len(t, spans, 1)
	span := spans[0]
	assert.Equal(t, pipeline.OperationPreprocess, span.Name())
	assert.Equal(t, started, span.StartTime())
	assert.Equal(t, started.Add(1500*time.Millisecond), span.EndTime())
	assert.Equal(t, codes.Ok, span.Status().Code)

	attrs := attrMap(span.Attributes())
	assert.Equal(t, "run-1", attrs["pipeline.run_id"])
	assert.Equal(t, `{"user_input":"Run a 5K"}`, attrs["pipeline.inputs"])
	assert.Equal(t, `{"result":{"clarified_goal":"Run 5K by March"}}`, attrs["pipeline.outputs"])
}

func TestSpanObserver_Error(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	err := apperrors.WithStage(apperrors.NewParseError(errors.New("unexpected end of JSON input")), pipeline.OperationPlan)
	NewSpanObserver(tp).Observe(context.Background(), pipeline.Observation{
		Name:    pipeline.OperationPlan,
		Err:     err,
		Started: time.Now(),
	})

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	attrs := attrMap(spans[0].Attributes())
	assert.Equal(t, "PARSE_ERROR", attrs["error.code"])
	assert.Equal(t, pipeline.OperationPlan, attrs["error.stage"])
	assert.NotContains(t, attrs, "pipeline.outputs")
	require.Len(t, spans[0].Events(), 1)
	assert.Equal(t, "exception", spans[0].Events()[0].Name)
}

func TestJSONAttr_Truncates(t *testing.T) {
	big := make([]byte, maxAttrLen*2)
	for i := range big {
		big[i] = 'a'
	}
	out := jsonAttr(map[string]string{"v": string(big)})
	assert.Len(t, []rune(out), maxAttrLen+3)
	assert.Equal(t, "<unserializable>", jsonAttr(map[string]interface{}{"f": func() {}}))
}

func TestObservability_RecordsOperations(t *testing.T) {
	reader := metric.NewManualReader()
	o, err := newWithReader("rein-coach-test", reader)
	require.NoError(t, err)
	t.Cleanup(func() { _ = o.Shutdown(context.Background()) })

	ctx := context.Background()
	o.Observe(ctx, pipeline.Observation{Name: pipeline.OperationGenerate, Duration: 20 * time.Millisecond})
	o.Observe(ctx, pipeline.Observation{Name: pipeline.OperationGenerate, Duration: 30 * time.Millisecond})
	o.Observe(ctx, pipeline.Observation{Name: pipeline.OperationGenerate, Err: apperrors.NewTransportError(errors.New("503"))})

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	require.Len(t, rm.ScopeMetrics, 1)

	byName := map[string]metricdata.Metrics{}
	for _, m := range rm.ScopeMetrics[0].Metrics {
		byName[m.Name] = m
	}
	require.Contains(t, byName, "pipeline.operations")
	require.Contains(t, byName, "pipeline.operation.duration")

	counts := map[string]int64{}
	sum := byName["pipeline.operations"].Data.(metricdata.Sum[int64])
	for _, dp := range sum.DataPoints {
		status, _ := dp.Attributes.Value("status")
		counts[status.AsString()] = dp.Value
	}
	assert.Equal(t, map[string]int64{"success": 2, "TRANSPORT_ERROR": 1}, counts)
}

func TestNew_CustomRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	o, err := New("rein-coach-test", reg)
	require.NoError(t, err)
	defer o.Shutdown(context.Background())

	o.Observe(context.Background(), pipeline.Observation{Name: pipeline.OperationCoach, Duration: time.Millisecond})
	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestInitTracing_NoExporter(t *testing.T) {
	cfg := &config.Config{
		App:           config.AppConfig{Name: "rein-coach", Version: "test", Environment: "test"},
		Observability: config.ObservabilityConfig{ServiceName: "rein-coach", SampleRatio: 1},
	}
	tp, err := InitTracing(context.Background(), cfg, logger.NewTestLogger(t))
	require.NoError(t, err)
	require.NotNil(t, tp)
	assert.NoError(t, tp.Shutdown(context.Background()))
}
