package otel

import (
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// RecordError marks span as failed and attaches err as both an event and a
// recorded error, so the failure shows up on the trace timeline and in error
// counts. Nil err or nil span is a no-op, which lets callers record
// unconditionally on error paths that may run before the span exists.
func RecordError(err error, span trace.Span) {
	if err == nil || span == nil {
		return
	}
	span.AddEvent(err.Error())
	span.SetStatus(codes.Error, err.Error())
	span.RecordError(err)
}
