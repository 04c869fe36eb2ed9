package telemetry

import (
	"context"

	"github.com/hyperledger/fabric-chaincode-go/shim"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation name of the contract spans.
const TracerName = "storagepay"

// TraceContext carries the span context of a single invocation.
type TraceContext struct {
	ctx    context.Context
	remote bool
}

// Context returns the underlying context, never nil.
func (tc TraceContext) Context() context.Context {
	if tc.ctx == nil {
		return context.Background()
	}
	return tc.ctx
}

// IsRemote reports whether the trace was started by the caller.
func (tc TraceContext) IsRemote() bool {
	return tc.remote
}

type TracingHandler struct {
	Tracer      trace.Tracer
	Propagators propagation.TextMapPropagator
}

// NewTracingHandler binds to the global provider and propagator, so it must
// be created after InstallTraceProvider.
func NewTracingHandler() *TracingHandler {
	return &TracingHandler{
		Tracer:      otel.Tracer(TracerName),
		Propagators: otel.GetTextMapPropagator(),
	}
}

// StartNewSpan starts new span
func (th *TracingHandler) StartNewSpan(traceCtx TraceContext, spanName string, opts ...trace.SpanStartOption) (TraceContext, trace.Span) {
	ctx, span := th.Tracer.Start(traceCtx.Context(), spanName, opts...)
	return TraceContext{
		ctx:    ctx,
		remote: traceCtx.remote,
	}, span
}

// ContextFromStub extracts the caller's trace context from the transient map.
func (th *TracingHandler) ContextFromStub(stub shim.ChaincodeStubInterface) TraceContext {
	transientMap, err := stub.GetTransient()
	if err != nil || len(transientMap) == 0 {
		return TraceContext{ctx: context.Background()}
	}

	ctx := th.Propagators.Extract(context.Background(), UnpackTransientMap(transientMap))
	return TraceContext{
		ctx:    ctx,
		remote: trace.SpanContextFromContext(ctx).IsRemote(),
	}
}
