package utils

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// SetStatusAndEnd sets the status of the span depending on the contents of the passed error and
// ends it. Cancellation is recorded but not treated as a failure.
func SetStatusAndEnd(span trace.Span, err error) {
	defer span.End()
	switch {
	case err == nil:
		span.SetStatus(codes.Ok, "")
	case errors.Is(err, context.Canceled):
		span.RecordError(err)
		span.SetStatus(codes.Unset, "")
	default:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}
