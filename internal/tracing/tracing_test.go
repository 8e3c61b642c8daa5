package tracing

import (
	"bytes"
	"context"
	"io"
	"os"
	"subsidyopt/internal/logger"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestMain(m *testing.M) {
	logger.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func restoreGlobals(t *testing.T) {
	tp, prop := otel.GetTracerProvider(), otel.GetTextMapPropagator()
	t.Cleanup(func() {
		otel.SetTracerProvider(tp)
		otel.SetTextMapPropagator(prop)
	})
}

func TestSetup_Stdout(t *testing.T) {
	restoreGlobals(t)
	var buf bytes.Buffer
	shutdown, err := Setup(ExporterStdout, &buf, 1)
	require.NoError(t, err)

	_, span := otel.Tracer("test").Start(context.Background(), "catalog_reload")
	assert.True(t, span.IsRecording())
	span.End()

	require.NoError(t, shutdown(context.Background()))
	assert.Contains(t, buf.String(), `"Name":"catalog_reload"`)
}

func TestSetup_None(t *testing.T) {
	restoreGlobals(t)
	shutdown, err := Setup(ExporterNone, io.Discard, 1)
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
	assert.Contains(t, otel.GetTextMapPropagator().Fields(), "traceparent")
}

func TestSetup_UnknownExporter(t *testing.T) {
	restoreGlobals(t)
	_, err := Setup("jaeger", io.Discard, 1)
	assert.Error(t, err)
}
