package utils

import "context"

// ResetContextOnError returns the context if it is still alive. Otherwise, a context detached from
// the cancellation of the given one is returned, keeping its values.
func ResetContextOnError(ctx context.Context) context.Context {
	if ctx.Err() != nil {
		return context.WithoutCancel(ctx)
	}
	return ctx
}
