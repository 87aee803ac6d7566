package observe

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Tracer returns the lexibly tracer from the global tracer provider.
// Pipelines open one span per run so slow external services show up in
// traces with the batch counts attached.
func Tracer() trace.Tracer {
	return otel.Tracer(meterName)
}
