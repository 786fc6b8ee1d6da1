package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestInitTracing_Disabled(t *testing.T) {
	shutdown, err := InitTracing(TracingConfig{ServiceName: "flashdeck-test", Enabled: false})
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))

	ctx, span := StartSpan(context.Background(), "test.op")
	assert.NotNil(t, ctx)
	EndSpan(span, errors.New("boom"))
}

func TestInitTracing_RejectsUnknownExporter(t *testing.T) {
	_, err := InitTracing(TracingConfig{Enabled: true, Exporter: "zipkin"})
	assert.ErrorContains(t, err, `unknown span exporter "zipkin"`)

	_, err = InitTracing(TracingConfig{Enabled: true, Exporter: ExporterOTLP})
	assert.ErrorContains(t, err, "OTEL_EXPORTER_OTLP_ENDPOINT")
}

func TestNewSampler(t *testing.T) {
	assert.Contains(t, newSampler(1.5).Description(), "root:AlwaysOnSampler")
	assert.Contains(t, newSampler(0).Description(), "root:AlwaysOffSampler")
	assert.Contains(t, newSampler(0.25).Description(), "root:TraceIDRatioBased{0.25}")
}

func TestEndSpan_RecordsFailure(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := Tracer
	Tracer = tp.Tracer("flashdeck-test")
	t.Cleanup(func() { Tracer = prev })

	_, span := StartSpan(context.Background(), "cards.replace_all", DeckAttr(7), CardCountAttr(3))
	EndSpan(span, errors.New("deck locked"))
	_, ok := StartSpan(context.Background(), "identity.resolve", ProviderAttr("github"))
	EndSpan(ok, nil)

	ended := recorder.Ended()
	require.Len(t, ended, 2)
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Equal(t, "deck locked", ended[0].Status().Description)
	assert.Contains(t, ended[0].Attributes(), DeckAttr(7))
	assert.Contains(t, ended[0].Attributes(), CardCountAttr(3))
	assert.Equal(t, codes.Unset, ended[1].Status().Code)
	assert.Contains(t, ended[1].Attributes(), ProviderAttr("github"))
}

func TestTrackQuery_RecordsObservation(t *testing.T) {
	before := testutil.CollectAndCount(DatabaseQueryLatency)
	done := TrackQuery("select", "observability_test_table")
	done()
	assert.Equal(t, before+1, testutil.CollectAndCount(DatabaseQueryLatency))
}

func TestCounters_Increment(t *testing.T) {
	CacheLookups.WithLabelValues("test", "hit").Inc()
	assert.Equal(t, float64(1), testutil.ToFloat64(CacheLookups.WithLabelValues("test", "hit")))
}
