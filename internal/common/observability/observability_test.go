package observability

import (
	"context"
	"strings"
	"testing"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestObservability_SpansAndMetrics(t *testing.T) {
	reg := promclient.NewRegistry()
	recorder := tracetest.NewSpanRecorder()

	obs, err := New("carprice-test", WithRegisterer(reg), WithSpanProcessor(recorder), WithoutGlobal())
	require.NoError(t, err)
	t.Cleanup(func() { _ = obs.Shutdown() })

	ctx, parent := obs.StartSpan(context.Background(), "estimate", attribute.String("brand", "Toyota"))
	_, child := obs.StartSpan(ctx, "predict")
	child.End()
	parent.End()

	obs.RecordJobProcessed(ctx, "estimate-car-price", "completed")
	obs.RecordJobDuration(ctx, "estimate-car-price", 12*time.Millisecond, "completed")
	obs.RecordEstimate(ctx, 25.3, "Toyota")

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "predict", spans[0].Name())
	assert.Equal(t, "estimate", spans[1].Name())
	assert.Equal(t, spans[1].SpanContext().SpanID(), spans[0].Parent().SpanID())

	families, err := reg.Gather()
	require.NoError(t, err)

	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	joined := strings.Join(names, ",")
	assert.Contains(t, joined, "jobs_processed_total")
	assert.Contains(t, joined, "job_duration_milliseconds")
	assert.Contains(t, joined, "estimate_price")
	assert.NotContains(t, joined, ".")
}

func TestObservability_NilIsNoop(t *testing.T) {
	var obs *Observability

	ctx, span := obs.StartSpan(context.Background(), "estimate")
	span.End()
	assert.False(t, span.SpanContext().IsValid())

	obs.RecordJobProcessed(ctx, "t", "s")
	obs.RecordJobDuration(ctx, "t", time.Second, "s")
	obs.RecordEstimate(ctx, 1, "b")
	assert.NoError(t, obs.Shutdown())
}
