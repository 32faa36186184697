package telemetry

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"

	"github.com/jafarshop/paymentrelay/internal/config"
)

func TestSetup_PropagatesTraceContext(t *testing.T) {
	for _, exporter := range []string{"none", "stdout"} {
		t.Run(exporter, func(t *testing.T) {
			shutdown, err := Setup(&config.Config{Environment: "test", TraceExporter: exporter}, zap.NewNop())
			require.NoError(t, err)
			t.Cleanup(func() { _ = shutdown(context.Background()) })

			ctx, span := otel.Tracer("test").Start(context.Background(), "checkout")
			require.True(t, span.SpanContext().IsSampled())

			header := http.Header{}
			otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(header))
			span.End()

			assert.Contains(t, header.Get("traceparent"), span.SpanContext().TraceID().String())
		})
	}
}
