package services

import "context"

type contextKey string

const (
	invocationIDKey contextKey = "invocation_id"
	stageKey        contextKey = "stage"
	isbnKey         contextKey = "isbn"
)

// WithInvocationID annotates context with the workflow invocation identifier.
func WithInvocationID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, invocationIDKey, id)
}

// InvocationIDFromContext extracts the invocation identifier if present.
func InvocationIDFromContext(ctx context.Context) (string, bool) {
	if str, ok := ctx.Value(invocationIDKey).(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithStage annotates context with the workflow stage name.
func WithStage(ctx context.Context, stage string) context.Context {
	if stage == "" {
		return ctx
	}
	return context.WithValue(ctx, stageKey, stage)
}

// StageFromContext returns the stage name if present.
func StageFromContext(ctx context.Context) (string, bool) {
	if str, ok := ctx.Value(stageKey).(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithISBN annotates context with the ISBN under work.
func WithISBN(ctx context.Context, isbn string) context.Context {
	if isbn == "" {
		return ctx
	}
	return context.WithValue(ctx, isbnKey, isbn)
}

// ISBNFromContext returns the ISBN if present.
func ISBNFromContext(ctx context.Context) (string, bool) {
	if str, ok := ctx.Value(isbnKey).(string); ok && str != "" {
		return str, true
	}
	return "", false
}
