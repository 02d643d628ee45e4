package telemetry

import "context"

// Adapter satisfies protocol.Tracer without importing internal/protocol:
// its StartSpan signature matches that interface structurally, which keeps
// the dependency edge pointing from the protocol layer toward telemetry
// and not back.
type Adapter struct{}

// NewAdapter returns a Tracer backed by the package-level tracer installed
// by Init (or the noop tracer if Init was never called).
func NewAdapter() Adapter {
	return Adapter{}
}

// StartSpan opens a span named name and returns a function that ends it,
// recording err on the span first if non-nil.
func (Adapter) StartSpan(ctx context.Context, name string) (context.Context, func(error)) {
	spanCtx, span := StartSpan(ctx, name)
	return spanCtx, func(err error) {
		if err != nil {
			RecordError(spanCtx, err)
		}
		span.End()
	}
}
